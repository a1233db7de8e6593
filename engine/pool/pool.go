// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package pool implements the launchpool record and its lifecycle.
package pool

import (
	"fmt"
	"math"
	"math/bits"

	"github.com/stakepad/launchpool/engine/accrual"
	"github.com/stakepad/launchpool/engine/reverts"
	"github.com/stakepad/launchpool/fixedpoint"
	"github.com/stakepad/launchpool/lp"
)

// Status of a pool.
type Status uint8

const (
	StatusUninitialized Status = iota
	StatusInitialized
	StatusLaunched
	StatusFinished
	StatusClaimedProtocolReward
)

var statusNames = [...]string{"uninitialized", "initialized", "launched", "finished", "claimed-protocol-reward"}

func (s Status) String() string {
	if int(s) < len(statusNames) {
		return statusNames[s]
	}
	return fmt.Sprintf("status(%d)", uint8(s))
}

// MarshalText implements encoding.TextMarshaler.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Status) UnmarshalText(text []byte) error {
	for i, name := range statusNames {
		if name == string(text) {
			*s = Status(i)
			return nil
		}
	}
	return fmt.Errorf("unknown pool status %q", text)
}

// Pool is one funded, time-boxed reward pool for one reward asset.
type Pool struct {
	ConfigID                       uint64             `json:"configId"`
	RewardAsset                    lp.Address         `json:"rewardAsset"`
	RewardVault                    lp.Address         `json:"rewardVault"`
	Status                         Status             `json:"status"`
	InitialRewardAmount            uint64             `json:"initialRewardAmount"`
	ProtocolRewardAmount           uint64             `json:"protocolRewardAmount"`
	ParticipantsRewardAmount       fixedpoint.Q64x128 `json:"participantsRewardAmount"`
	ProtocolRewardLeftToObtain     uint64             `json:"protocolRewardLeftToObtain"`
	ParticipantsRewardLeftToObtain uint64             `json:"participantsRewardLeftToObtain"`
	MinPositionSize                uint64             `json:"minPositionSize"`
	MaxPositionSize                uint64             `json:"maxPositionSize"`
	StartTimestamp                 uint64             `json:"startTimestamp"`
	accrual.Accumulator
}

// Address returns the record address of the pool.
func (p *Pool) Address() lp.Address {
	return lp.PoolAddress(p.ConfigID, p.RewardAsset)
}

// Initialize splits the initial reward between the protocol and the participants.
// The participants get the remainder so both halves always sum to the initial amount.
func (p *Pool) Initialize(initialRewardAmount uint64, shareBasisPoints uint16, minPositionSize, maxPositionSize uint64) error {
	if initialRewardAmount == 0 {
		return reverts.ErrInvalidInitialRewardAmount
	}
	if p.Status != StatusUninitialized {
		return reverts.ErrLaunchpoolAlreadyInitialized
	}
	if shareBasisPoints > lp.MaxBasisPoints {
		return reverts.ErrConfigRewardShareExceeded
	}
	hi, lo := bits.Mul64(initialRewardAmount, uint64(shareBasisPoints))
	protocolAmount, _ := bits.Div64(hi, lo, uint64(lp.MaxBasisPoints))
	participants := initialRewardAmount - protocolAmount

	p.Status = StatusInitialized
	p.InitialRewardAmount = initialRewardAmount
	p.ProtocolRewardAmount = protocolAmount
	p.ProtocolRewardLeftToObtain = protocolAmount
	p.ParticipantsRewardAmount = fixedpoint.FromUint64(participants)
	p.ParticipantsRewardLeftToObtain = participants
	p.LeftToDistribute = p.ParticipantsRewardAmount
	p.MinPositionSize = minPositionSize
	p.MaxPositionSize = maxPositionSize
	p.StakedAmount = 0
	p.StartTimestamp, p.EndTimestamp, p.LastUpdateTimestamp = 0, 0, 0
	return nil
}

// Launch fixes the reward rate and the time window. duration is frozen from here on.
func (p *Pool) Launch(now, startTimestamp, duration uint64) error {
	if p.Status != StatusInitialized {
		return reverts.ErrLaunchpoolNotInitialized.Wrap("status %v", p.Status)
	}
	if now >= startTimestamp {
		return reverts.ErrStartTimeInPast.Wrap("start %d, now %d", startTimestamp, now)
	}
	if startTimestamp > math.MaxUint64-duration {
		return reverts.ErrEndTimeOverflow
	}
	rate, err := p.ParticipantsRewardAmount.DivUint64(duration)
	if err != nil {
		return reverts.ErrRewardRateOverflow
	}

	p.Status = StatusLaunched
	p.RewardRate = rate
	p.StartTimestamp = startTimestamp
	p.EndTimestamp = startTimestamp + duration
	p.LastUpdateTimestamp = startTimestamp
	return nil
}

// Settle accrues reward up to now and finishes a launched pool whose end was reached.
// Pools that are not launched yet have nothing to accrue.
func (p *Pool) Settle(now uint64) error {
	if p.Status < StatusLaunched {
		return nil
	}
	ended, err := p.Accumulator.Settle(now)
	if err != nil {
		return err
	}
	if ended && p.Status == StatusLaunched {
		p.Status = StatusFinished
	}
	return nil
}

// CheckActive checks positions can be opened or increased at now.
func (p *Pool) CheckActive(now uint64) error {
	if p.Status != StatusLaunched {
		return reverts.ErrLaunchpoolNotLaunched.Wrap("status %v", p.Status)
	}
	if now < p.StartTimestamp {
		return reverts.ErrLaunchpoolNotStartedYet.Wrap("start %d, now %d", p.StartTimestamp, now)
	}
	if now >= p.EndTimestamp {
		return reverts.ErrLaunchpoolAlreadyEnded.Wrap("end %d, now %d", p.EndTimestamp, now)
	}
	return nil
}

// CheckFinished checks positions can be closed at now.
func (p *Pool) CheckFinished(now uint64) error {
	if p.Status != StatusFinished && p.Status != StatusClaimedProtocolReward {
		return reverts.ErrLaunchpoolNotFinished.Wrap("status %v", p.Status)
	}
	if now < p.EndTimestamp {
		return reverts.ErrLaunchpoolNotEndedYet
	}
	return nil
}

// CheckPositionSize checks a position amount against the bounds snapshotted at initialization.
func (p *Pool) CheckPositionSize(amount uint64) error {
	if amount < p.MinPositionSize {
		return reverts.ErrStakeBelowMinimum.Wrap("%d < %d", amount, p.MinPositionSize)
	}
	if amount > p.MaxPositionSize {
		return reverts.ErrStakeAboveMaximum.Wrap("%d > %d", amount, p.MaxPositionSize)
	}
	return nil
}

// AddStake adds amount to the staked total.
func (p *Pool) AddStake(amount uint64) error {
	if p.StakedAmount > math.MaxUint64-amount {
		return reverts.ErrStakeOverflow
	}
	p.StakedAmount += amount
	return nil
}

// RemoveStake removes a closed position from the pool. The integer part of its reward is
// paid, the fraction that cannot be paid goes back to the undistributed reward.
func (p *Pool) RemoveStake(amount uint64, rewardEarned fixedpoint.Q64x128) (uint64, error) {
	if amount > p.StakedAmount {
		return 0, reverts.ErrStakedAmountOverflow
	}
	paid, fraction := rewardEarned.Split()
	left, err := p.LeftToDistribute.Add(fraction)
	if err != nil {
		return 0, reverts.ErrRewardDistributionOverflow
	}
	if paid > p.ParticipantsRewardLeftToObtain {
		return 0, reverts.ErrRewardObtentionOverflow.Wrap("paying %d of %d", paid, p.ParticipantsRewardLeftToObtain)
	}

	p.StakedAmount -= amount
	p.LeftToDistribute = left
	p.ParticipantsRewardLeftToObtain -= paid
	return paid, nil
}

// CollectProtocolReward marks the protocol share collected and returns it.
func (p *Pool) CollectProtocolReward() (uint64, error) {
	if p.Status != StatusFinished {
		return 0, reverts.ErrLaunchpoolNotFinished.Wrap("status %v", p.Status)
	}
	amount := p.ProtocolRewardLeftToObtain
	p.ProtocolRewardLeftToObtain = 0
	p.Status = StatusClaimedProtocolReward
	return amount, nil
}
