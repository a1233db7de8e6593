// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package accrual implements continuous reward accrual.
//
// A pool accumulates rewardPerToken, the reward earned by one unit of stake since the
// start. Each position keeps a checkpoint of amount × rewardPerToken, its reward debt,
// so the reward accrued since its last settlement is amount × rewardPerToken − debt.
package accrual

import (
	"github.com/stakepad/launchpool/engine/reverts"
	"github.com/stakepad/launchpool/fixedpoint"
)

// Accumulator is the pool side of the accrual.
type Accumulator struct {
	RewardRate          fixedpoint.Q64x128 `json:"rewardRate"`
	RewardPerToken      fixedpoint.Q64x128 `json:"rewardPerToken"`
	LeftToDistribute    fixedpoint.Q64x128 `json:"participantsRewardLeftToDistribute"`
	StakedAmount        uint64             `json:"stakedAmount"`
	EndTimestamp        uint64             `json:"endTimestamp"`
	LastUpdateTimestamp uint64             `json:"lastUpdateTimestamp"`
}

// Settle accrues reward up to min(now, end). It returns whether the end was reached.
// Time without stake advances the clock but credits nobody.
func (a *Accumulator) Settle(now uint64) (bool, error) {
	effective := min(now, a.EndTimestamp)
	ended := now >= a.EndTimestamp

	if effective <= a.LastUpdateTimestamp {
		return ended, nil
	}
	elapsed := effective - a.LastUpdateTimestamp

	if a.StakedAmount > 0 {
		earned, err := a.RewardRate.MulUint64(elapsed)
		if err != nil {
			return false, reverts.ErrRewardCalculationOverflow
		}
		increment, err := earned.DivUint64(a.StakedAmount)
		if err != nil {
			return false, reverts.ErrDivisionByZeroDuringRewardCalculation
		}
		rpt, err := a.RewardPerToken.Add(increment)
		if err != nil {
			return false, reverts.ErrRewardPerTokenOverflow
		}
		left, err := a.LeftToDistribute.Sub(earned)
		if err != nil {
			return false, reverts.ErrRewardDistributionOverflow.Wrap("distributing %v of %v", earned, a.LeftToDistribute)
		}
		a.RewardPerToken, a.LeftToDistribute = rpt, left
	}
	a.LastUpdateTimestamp = effective
	return ended, nil
}

// Checkpoint is the position side of the accrual.
type Checkpoint struct {
	Amount       uint64             `json:"amount"`
	RewardDebt   fixedpoint.Q64x128 `json:"rewardDebt"`
	RewardEarned fixedpoint.Q64x128 `json:"rewardEarned"`
}

// Settle credits the reward accrued since the last checkpoint and moves the checkpoint to
// rewardPerToken. It returns the credited amount.
func (c *Checkpoint) Settle(rewardPerToken fixedpoint.Q64x128) (fixedpoint.Q64x128, error) {
	accumulated, err := rewardPerToken.MulUint64(c.Amount)
	if err != nil {
		return fixedpoint.Q64x128{}, reverts.ErrRewardAccumulationOverflow
	}
	accrued, err := accumulated.Sub(c.RewardDebt)
	if err != nil {
		return fixedpoint.Q64x128{}, reverts.ErrRewardDebtExceedsAccrued.Wrap("debt %v, accumulated %v", c.RewardDebt, accumulated)
	}
	earned, err := c.RewardEarned.Add(accrued)
	if err != nil {
		return fixedpoint.Q64x128{}, reverts.ErrRewardOverflow
	}
	c.RewardEarned = earned
	c.RewardDebt = accumulated
	return accrued, nil
}

// Rebase sets the debt to amount × rewardPerToken, so reward accrued before now is not owed.
func (c *Checkpoint) Rebase(rewardPerToken fixedpoint.Q64x128) error {
	debt, err := rewardPerToken.MulUint64(c.Amount)
	if err != nil {
		return reverts.ErrRewardDebtCalculationOverflow
	}
	c.RewardDebt = debt
	return nil
}
