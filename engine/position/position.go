// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package position implements stake positions.
package position

import (
	"fmt"
	"math"

	"github.com/stakepad/launchpool/engine/accrual"
	"github.com/stakepad/launchpool/engine/reverts"
	"github.com/stakepad/launchpool/fixedpoint"
	"github.com/stakepad/launchpool/lp"
)

// Status of a position. The zero value is a position that was never opened.
type Status uint8

const (
	StatusNone Status = iota
	StatusOpened
	StatusClosed
)

func (s Status) String() string {
	switch s {
	case StatusNone:
		return "none"
	case StatusOpened:
		return "opened"
	case StatusClosed:
		return "closed"
	}
	return fmt.Sprintf("status(%d)", uint8(s))
}

// MarshalText implements encoding.TextMarshaler.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Status) UnmarshalText(text []byte) error {
	for _, candidate := range []Status{StatusNone, StatusOpened, StatusClosed} {
		if candidate.String() == string(text) {
			*s = candidate
			return nil
		}
	}
	return fmt.Errorf("unknown position status %q", text)
}

// Position is the stake of one owner in one pool.
type Position struct {
	Owner      lp.Address `json:"owner"`
	Pool       lp.Address `json:"launchpool"`
	StakeVault lp.Address `json:"stakeVault"`
	Status     Status     `json:"status"`
	accrual.Checkpoint
}

// Address returns the record address of the position.
func (p *Position) Address() lp.Address {
	return lp.PositionAddress(p.Owner, p.Pool)
}

// CheckOwner checks the position belongs to owner and pool.
func (p *Position) CheckOwner(owner, pool lp.Address) error {
	if p.Owner != owner || p.Pool != pool {
		return reverts.ErrMismatchedLaunchpool
	}
	return nil
}

// Open starts the position with amount staked at rewardPerToken.
func (p *Position) Open(amount uint64, rewardPerToken fixedpoint.Q64x128) error {
	switch p.Status {
	case StatusNone:
	case StatusOpened:
		return reverts.ErrStakePositionAlreadyInitialized
	default:
		return reverts.ErrInvalidStakePositionStateForOpen.Wrap("status %v", p.Status)
	}
	if amount == 0 {
		return reverts.ErrStakeAmountIsZero
	}
	p.Amount = amount
	p.RewardEarned = fixedpoint.Zero()
	if err := p.Rebase(rewardPerToken); err != nil {
		return err
	}
	p.Status = StatusOpened
	return nil
}

// Increase settles the position at rewardPerToken and adds delta to its amount.
// It returns the resulting amount, for the caller to check against the pool bounds, and
// the reward credited by the settlement.
func (p *Position) Increase(delta uint64, rewardPerToken fixedpoint.Q64x128) (uint64, fixedpoint.Q64x128, error) {
	if p.Status != StatusOpened {
		return 0, fixedpoint.Q64x128{}, reverts.ErrStakePositionNotOpened.Wrap("status %v", p.Status)
	}
	if delta == 0 {
		return 0, fixedpoint.Q64x128{}, reverts.ErrStakeAmountIsZero
	}
	if p.Amount > math.MaxUint64-delta {
		return 0, fixedpoint.Q64x128{}, reverts.ErrStakeOverflow
	}
	credited, err := p.Settle(rewardPerToken)
	if err != nil {
		return 0, fixedpoint.Q64x128{}, err
	}
	p.Amount += delta
	if err := p.Rebase(rewardPerToken); err != nil {
		return 0, fixedpoint.Q64x128{}, err
	}
	return p.Amount, credited, nil
}

// Payout is what closing a position hands back to its owner.
type Payout struct {
	Stake    uint64
	Earned   fixedpoint.Q64x128
	Credited fixedpoint.Q64x128 // reward credited by the final settlement
}

// Close settles the position at rewardPerToken, marks it closed and empties it.
func (p *Position) Close(rewardPerToken fixedpoint.Q64x128) (Payout, error) {
	if p.Status != StatusOpened {
		return Payout{}, reverts.ErrStakePositionNotOpened.Wrap("status %v", p.Status)
	}
	credited, err := p.Settle(rewardPerToken)
	if err != nil {
		return Payout{}, err
	}
	out := Payout{Stake: p.Amount, Earned: p.RewardEarned, Credited: credited}
	p.Checkpoint = accrual.Checkpoint{RewardDebt: fixedpoint.Zero(), RewardEarned: fixedpoint.Zero()}
	p.Status = StatusClosed
	return out, nil
}

// Pending returns the reward earned so far if the position were settled at rewardPerToken.
// A closed position has nothing pending.
func (p *Position) Pending(rewardPerToken fixedpoint.Q64x128) (fixedpoint.Q64x128, error) {
	switch p.Status {
	case StatusOpened:
	case StatusClosed:
		return fixedpoint.Zero(), nil
	default:
		return p.RewardEarned, nil
	}
	cp := p.Checkpoint
	if _, err := cp.Settle(rewardPerToken); err != nil {
		return fixedpoint.Q64x128{}, err
	}
	return cp.RewardEarned, nil
}
