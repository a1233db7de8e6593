// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package position

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stakepad/launchpool/engine/reverts"
	"github.com/stakepad/launchpool/fixedpoint"
	"github.com/stakepad/launchpool/lp"
	"github.com/stakepad/launchpool/lvldb"
	"github.com/stakepad/launchpool/state"
)

var (
	owner = lp.BytesToAddress([]byte("owner"))
	pool  = lp.BytesToAddress([]byte("pool"))
)

func TestOpenIncreaseClose(t *testing.T) {
	p := &Position{Owner: owner, Pool: pool}

	assert.ErrorIs(t, p.Open(0, fixedpoint.Zero()), reverts.ErrStakeAmountIsZero)

	rpt := fixedpoint.FromUint64(2)
	require.NoError(t, p.Open(100, rpt))
	assert.Equal(t, StatusOpened, p.Status)
	assert.True(t, p.RewardDebt.Eq(fixedpoint.FromUint64(200)))
	assert.True(t, p.RewardEarned.IsZero())

	assert.ErrorIs(t, p.Open(100, rpt), reverts.ErrStakePositionAlreadyInitialized)

	// rpt moves from 2 to 5: 100 × 3 accrued before the increase
	rpt = fixedpoint.FromUint64(5)
	amount, credited, err := p.Increase(50, rpt)
	require.NoError(t, err)
	assert.Equal(t, uint64(150), amount)
	assert.True(t, credited.Eq(fixedpoint.FromUint64(300)))
	assert.True(t, p.RewardEarned.Eq(fixedpoint.FromUint64(300)))
	assert.True(t, p.RewardDebt.Eq(fixedpoint.FromUint64(750)))

	pending, err := p.Pending(fixedpoint.FromUint64(6))
	require.NoError(t, err)
	assert.True(t, pending.Eq(fixedpoint.FromUint64(450)))
	// Pending leaves the record untouched
	assert.True(t, p.RewardEarned.Eq(fixedpoint.FromUint64(300)))

	payout, err := p.Close(fixedpoint.FromUint64(6))
	require.NoError(t, err)
	assert.Equal(t, StatusClosed, p.Status)
	assert.Equal(t, uint64(150), payout.Stake)
	assert.True(t, payout.Earned.Eq(fixedpoint.FromUint64(450)))
	assert.True(t, payout.Credited.Eq(fixedpoint.FromUint64(150)))
	assert.Equal(t, uint64(0), p.Amount)
	assert.True(t, p.RewardEarned.IsZero())
	assert.True(t, p.RewardDebt.IsZero())

	pending, err = p.Pending(fixedpoint.FromUint64(9))
	require.NoError(t, err)
	assert.True(t, pending.IsZero())

	_, err = p.Close(rpt)
	assert.ErrorIs(t, err, reverts.ErrStakePositionNotOpened)
	_, _, err = p.Increase(1, rpt)
	assert.ErrorIs(t, err, reverts.ErrStakePositionNotOpened)
	assert.ErrorIs(t, p.Open(1, rpt), reverts.ErrInvalidStakePositionStateForOpen)
}

func TestIncreaseOverflow(t *testing.T) {
	p := &Position{Status: StatusOpened}
	p.Amount = ^uint64(0)
	_, _, err := p.Increase(1, fixedpoint.Zero())
	assert.ErrorIs(t, err, reverts.ErrStakeOverflow)

	_, _, err = p.Increase(0, fixedpoint.Zero())
	assert.ErrorIs(t, err, reverts.ErrStakeAmountIsZero)
}

func TestCheckOwner(t *testing.T) {
	p := &Position{Owner: owner, Pool: pool}
	assert.NoError(t, p.CheckOwner(owner, pool))
	assert.ErrorIs(t, p.CheckOwner(pool, pool), reverts.ErrMismatchedLaunchpool)
	assert.ErrorIs(t, p.CheckOwner(owner, owner), reverts.ErrMismatchedLaunchpool)
}

func TestService(t *testing.T) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	defer db.Close()
	stater, err := state.NewStater(db, 16)
	require.NoError(t, err)
	svc := New(stater.NewState())

	p, err := svc.Lookup(owner, pool)
	require.NoError(t, err)
	assert.Equal(t, StatusNone, p.Status)
	assert.Equal(t, lp.PositionAddress(owner, pool), p.Address())
	assert.Equal(t, lp.VaultAddress(p.Address()), p.StakeVault)

	_, err = svc.Get(p.Address())
	assert.ErrorIs(t, err, reverts.ErrStakePositionNotFound)

	require.NoError(t, p.Open(60, fixedpoint.FromUint64(1)))
	require.NoError(t, svc.Set(p))

	got, err := svc.Get(p.Address())
	require.NoError(t, err)
	assert.Equal(t, StatusOpened, got.Status)
	assert.Equal(t, uint64(60), got.Amount)
	assert.Equal(t, p.StakeVault, got.StakeVault)
}

func TestStatusText(t *testing.T) {
	for _, s := range []Status{StatusNone, StatusOpened, StatusClosed} {
		text, err := s.MarshalText()
		require.NoError(t, err)

		var decoded Status
		require.NoError(t, decoded.UnmarshalText(text))
		assert.Equal(t, s, decoded)
	}
	var s Status
	assert.Error(t, s.UnmarshalText([]byte("pending")))
}
