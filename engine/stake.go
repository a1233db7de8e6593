// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package engine

import (
	"github.com/stakepad/launchpool/engine/pool"
	"github.com/stakepad/launchpool/engine/position"
	"github.com/stakepad/launchpool/lp"
)

// OpenPosition stakes amount of the pool's stakable asset from signer.
func (e *Engine) OpenPosition(signer, poolAddr lp.Address, amount uint64, now uint64) (pos *position.Position, err error) {
	err = e.atomic(func() error {
		p, err := e.poolService.Get(poolAddr)
		if err != nil {
			return err
		}
		if err := p.CheckActive(now); err != nil {
			return err
		}
		if err := p.Settle(now); err != nil {
			return err
		}
		if pos, err = e.positionService.Lookup(signer, poolAddr); err != nil {
			return err
		}
		if err := pos.Open(amount, p.RewardPerToken); err != nil {
			return err
		}
		if err := p.CheckPositionSize(amount); err != nil {
			return err
		}
		if err := p.AddStake(amount); err != nil {
			return err
		}
		cfg, err := e.configService.Config(p.ConfigID)
		if err != nil {
			return err
		}
		if err := e.custody.OpenVault(pos.StakeVault, pos.Address()); err != nil {
			return err
		}
		if err := e.transfer(cfg.StakableAsset, signer, pos.StakeVault, amount); err != nil {
			return err
		}
		if err := e.save(p, pos); err != nil {
			return err
		}
		e.emit(&Event{
			Name:      EventOpenPosition,
			Subject:   poolAddr,
			Signer:    signer,
			Timestamp: now,
			Data: &OpenPositionData{
				Position:       pos.Address(),
				StakedAmount:   p.StakedAmount,
				RewardPerToken: p.RewardPerToken,
				StakeAmount:    amount,
			},
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return pos, nil
}

// IncreasePosition adds delta to an opened position. Reward earned under the previous
// amount is credited first.
func (e *Engine) IncreasePosition(signer, posAddr lp.Address, delta uint64, now uint64) (pos *position.Position, err error) {
	err = e.atomic(func() error {
		if pos, err = e.positionService.Get(posAddr); err != nil {
			return err
		}
		p, err := e.poolService.Get(pos.Pool)
		if err != nil {
			return err
		}
		if err := pos.CheckOwner(signer, p.Address()); err != nil {
			return err
		}
		if err := p.CheckActive(now); err != nil {
			return err
		}
		if err := p.Settle(now); err != nil {
			return err
		}
		newAmount, pending, err := pos.Increase(delta, p.RewardPerToken)
		if err != nil {
			return err
		}
		if err := p.CheckPositionSize(newAmount); err != nil {
			return err
		}
		if err := p.AddStake(delta); err != nil {
			return err
		}
		cfg, err := e.configService.Config(p.ConfigID)
		if err != nil {
			return err
		}
		if err := e.transfer(cfg.StakableAsset, signer, pos.StakeVault, delta); err != nil {
			return err
		}
		if err := e.save(p, pos); err != nil {
			return err
		}
		e.emit(&Event{
			Name:      EventIncreasePosition,
			Subject:   pos.Pool,
			Signer:    signer,
			Timestamp: now,
			Data: &IncreasePositionData{
				Position:                           posAddr,
				StakedAmount:                       p.StakedAmount,
				RewardPerToken:                     p.RewardPerToken,
				ParticipantsRewardLeftToDistribute: p.LeftToDistribute,
				IncreaseAmount:                     delta,
				Pending:                            pending,
				StakeAmount:                        pos.Amount,
				RewardEarned:                       pos.RewardEarned,
				RewardDebt:                         pos.RewardDebt,
			},
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return pos, nil
}

// ClosePosition returns the stake of a position in a finished pool to its owner and pays
// the integer part of the reward it earned.
func (e *Engine) ClosePosition(signer, posAddr lp.Address, now uint64) (stake, reward uint64, err error) {
	err = e.atomic(func() error {
		pos, err := e.positionService.Get(posAddr)
		if err != nil {
			return err
		}
		p, err := e.poolService.Get(pos.Pool)
		if err != nil {
			return err
		}
		if err := p.Settle(now); err != nil {
			return err
		}
		if err := p.CheckFinished(now); err != nil {
			return err
		}
		if err := pos.CheckOwner(signer, p.Address()); err != nil {
			return err
		}
		payout, err := pos.Close(p.RewardPerToken)
		if err != nil {
			return err
		}
		stake = payout.Stake
		if reward, err = p.RemoveStake(stake, payout.Earned); err != nil {
			return err
		}
		cfg, err := e.configService.Config(p.ConfigID)
		if err != nil {
			return err
		}
		if err := e.transfer(cfg.StakableAsset, pos.StakeVault, signer, stake); err != nil {
			return err
		}
		if err := e.transfer(p.RewardAsset, p.RewardVault, signer, reward); err != nil {
			return err
		}
		if err := e.save(p, pos); err != nil {
			return err
		}
		e.emit(&Event{
			Name:      EventClosePosition,
			Subject:   pos.Pool,
			Signer:    signer,
			Timestamp: now,
			Data: &ClosePositionData{
				Position:                           posAddr,
				StakedAmount:                       p.StakedAmount,
				RewardPerToken:                     p.RewardPerToken,
				ParticipantsRewardLeftToDistribute: p.LeftToDistribute,
				ParticipantsRewardLeftToObtain:     p.ParticipantsRewardLeftToObtain,
				Pending:                            payout.Credited,
				StakeReceived:                      stake,
				RewardReceived:                     reward,
			},
		})
		return nil
	})
	if err != nil {
		return 0, 0, err
	}
	return stake, reward, nil
}

func (e *Engine) save(p *pool.Pool, pos *position.Position) error {
	if err := e.poolService.Set(p); err != nil {
		return err
	}
	return e.positionService.Set(pos)
}
