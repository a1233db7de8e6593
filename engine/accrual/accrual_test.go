// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package accrual

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stakepad/launchpool/engine/reverts"
	"github.com/stakepad/launchpool/fixedpoint"
)

func newAccumulator(t *testing.T, reward, start, duration uint64) *Accumulator {
	rate, err := fixedpoint.FromUint64(reward).DivUint64(duration)
	require.NoError(t, err)
	return &Accumulator{
		RewardRate:          rate,
		LeftToDistribute:    fixedpoint.FromUint64(reward),
		EndTimestamp:        start + duration,
		LastUpdateTimestamp: start,
	}
}

func TestSettleWithoutStakeOnlyAdvancesTime(t *testing.T) {
	acc := newAccumulator(t, 1000, 100, 10)

	ended, err := acc.Settle(105)
	require.NoError(t, err)
	assert.False(t, ended)
	assert.Equal(t, uint64(105), acc.LastUpdateTimestamp)
	assert.True(t, acc.RewardPerToken.IsZero())
	assert.Equal(t, uint64(1000), acc.LeftToDistribute.Uint64())
}

func TestSettleBeforeStartIsNoop(t *testing.T) {
	acc := newAccumulator(t, 1000, 100, 10)
	acc.StakedAmount = 5

	ended, err := acc.Settle(50)
	require.NoError(t, err)
	assert.False(t, ended)
	assert.Equal(t, uint64(100), acc.LastUpdateTimestamp)
	assert.True(t, acc.RewardPerToken.IsZero())
}

func TestSettleClampsToEnd(t *testing.T) {
	acc := newAccumulator(t, 1000, 100, 10)
	acc.StakedAmount = 10

	ended, err := acc.Settle(1_000_000)
	require.NoError(t, err)
	assert.True(t, ended)
	assert.Equal(t, uint64(110), acc.LastUpdateTimestamp)
	// 1000 over 10 tokens
	assert.Equal(t, uint64(100), acc.RewardPerToken.Uint64())
	assert.True(t, acc.LeftToDistribute.IsZero())

	// settling again changes nothing
	before := *acc
	ended, err = acc.Settle(2_000_000)
	require.NoError(t, err)
	assert.True(t, ended)
	assert.Equal(t, before, *acc)
}

func TestSettleIsPathIndependent(t *testing.T) {
	one := newAccumulator(t, 99_770_000_000, 0, 4234)
	one.StakedAmount = 100
	many := *one

	_, err := one.Settle(4234)
	require.NoError(t, err)
	for now := uint64(1); now <= 4234; now += 17 {
		_, err := many.Settle(now)
		require.NoError(t, err)
	}
	_, err = many.Settle(4234)
	require.NoError(t, err)

	assert.True(t, one.LeftToDistribute.Eq(many.LeftToDistribute))
	// per step truncation can only lose precision, never create reward
	assert.False(t, many.RewardPerToken.Gt(one.RewardPerToken))
}

func TestCheckpointSettle(t *testing.T) {
	rpt := fixedpoint.FromUint64(3)
	cp := Checkpoint{Amount: 10}
	require.NoError(t, cp.Rebase(rpt))
	assert.Equal(t, uint64(30), cp.RewardDebt.Uint64())

	accrued, err := cp.Settle(fixedpoint.FromUint64(5))
	require.NoError(t, err)
	assert.Equal(t, uint64(20), accrued.Uint64())
	assert.Equal(t, uint64(20), cp.RewardEarned.Uint64())
	assert.Equal(t, uint64(50), cp.RewardDebt.Uint64())

	// no progress, nothing credited
	accrued, err = cp.Settle(fixedpoint.FromUint64(5))
	require.NoError(t, err)
	assert.True(t, accrued.IsZero())
	assert.Equal(t, uint64(20), cp.RewardEarned.Uint64())
}

func TestCheckpointInvariantViolations(t *testing.T) {
	cp := Checkpoint{Amount: 10, RewardDebt: fixedpoint.FromUint64(100)}
	_, err := cp.Settle(fixedpoint.FromUint64(5))
	assert.ErrorIs(t, err, reverts.ErrRewardDebtExceedsAccrued)
	assert.Equal(t, reverts.KindInvariant, reverts.KindOf(err))

	cp = Checkpoint{Amount: math.MaxUint64}
	_, err = cp.Settle(fixedpoint.FromUint64(2))
	assert.ErrorIs(t, err, reverts.ErrRewardAccumulationOverflow)
	assert.ErrorIs(t, cp.Rebase(fixedpoint.FromUint64(2)), reverts.ErrRewardDebtCalculationOverflow)

	cp = Checkpoint{Amount: 1, RewardEarned: fixedpoint.FromWords(0, 0, math.MaxUint64)}
	_, err = cp.Settle(fixedpoint.FromUint64(1))
	assert.ErrorIs(t, err, reverts.ErrRewardOverflow)
}

func TestProRataShares(t *testing.T) {
	acc := newAccumulator(t, 1200, 0, 100)
	a := Checkpoint{Amount: 100}
	b := Checkpoint{Amount: 200}

	acc.StakedAmount = a.Amount
	require.NoError(t, a.Rebase(acc.RewardPerToken))

	_, err := acc.Settle(50)
	require.NoError(t, err)
	require.NoError(t, b.Rebase(acc.RewardPerToken))
	acc.StakedAmount += b.Amount

	_, err = acc.Settle(100)
	require.NoError(t, err)
	_, err = a.Settle(acc.RewardPerToken)
	require.NoError(t, err)
	_, err = b.Settle(acc.RewardPerToken)
	require.NoError(t, err)

	// first half: a alone earns 600; second half: 600 split 1:2
	assert.Equal(t, uint64(800), a.RewardEarned.Uint64())
	assert.Equal(t, uint64(400), b.RewardEarned.Uint64())
	total, err := a.RewardEarned.Add(b.RewardEarned)
	require.NoError(t, err)
	assert.True(t, total.Eq(fixedpoint.FromUint64(1200)))
}
