// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package engine

import (
	"github.com/stakepad/launchpool/engine/pool"
	"github.com/stakepad/launchpool/engine/reverts"
	"github.com/stakepad/launchpool/lp"
)

// InitializePool creates the pool of config id paying rewardAsset.
func (e *Engine) InitializePool(caller lp.Address, configID uint64, rewardAsset lp.Address, initialRewardAmount uint64, now uint64) (p *pool.Pool, err error) {
	err = e.atomic(func() error {
		m, err := e.configService.Manager()
		if err != nil {
			return err
		}
		if err := m.Authorize(caller); err != nil {
			return err
		}
		cfg, err := e.configService.Config(configID)
		if err != nil {
			return err
		}
		if initialRewardAmount == 0 {
			return reverts.ErrInvalidInitialRewardAmount
		}
		if err := e.custody.CheckAssetSafety(rewardAsset); err != nil {
			return err
		}

		addr := lp.PoolAddress(configID, rewardAsset)
		exists, err := e.poolService.Exists(addr)
		if err != nil {
			return err
		}
		if exists {
			return reverts.ErrLaunchpoolAlreadyInitialized.Wrap("%v", addr)
		}

		p = &pool.Pool{
			ConfigID:    configID,
			RewardAsset: rewardAsset,
			RewardVault: lp.VaultAddress(addr),
		}
		if err := p.Initialize(initialRewardAmount, cfg.ProtocolRewardShareBasisPoints, cfg.MinPositionSize, cfg.MaxPositionSize); err != nil {
			return err
		}
		if err := e.custody.OpenVault(p.RewardVault, addr); err != nil {
			return err
		}
		if err := e.poolService.Set(p); err != nil {
			return err
		}
		e.emit(&Event{
			Name:      EventInitializePool,
			Subject:   addr,
			Signer:    caller,
			Timestamp: now,
			Data: &InitializePoolData{
				ConfigID:                           configID,
				RewardAsset:                        rewardAsset,
				RewardVault:                        p.RewardVault,
				InitialRewardAmount:                p.InitialRewardAmount,
				ProtocolRewardAmount:               p.ProtocolRewardAmount,
				ParticipantsRewardAmount:           p.ParticipantsRewardAmount,
				ProtocolRewardLeftToObtain:         p.ProtocolRewardLeftToObtain,
				ParticipantsRewardLeftToObtain:     p.ParticipantsRewardLeftToObtain,
				ParticipantsRewardLeftToDistribute: p.LeftToDistribute,
				MinPositionSize:                    p.MinPositionSize,
				MaxPositionSize:                    p.MaxPositionSize,
			},
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

// Launch starts the reward distribution of a funded pool at startTimestamp. The pool runs
// for the duration its config has at this moment.
func (e *Engine) Launch(caller, poolAddr lp.Address, startTimestamp uint64, now uint64) error {
	return e.atomic(func() error {
		m, err := e.configService.Manager()
		if err != nil {
			return err
		}
		if err := m.Authorize(caller); err != nil {
			return err
		}
		p, err := e.poolService.Get(poolAddr)
		if err != nil {
			return err
		}
		cfg, err := e.configService.Config(p.ConfigID)
		if err != nil {
			return err
		}
		funded, err := e.custody.BalanceOf(p.RewardAsset, p.RewardVault)
		if err != nil {
			return err
		}
		if funded < p.InitialRewardAmount {
			return reverts.ErrInsufficientRewardVault.Wrap("vault holds %d of %d", funded, p.InitialRewardAmount)
		}
		if err := p.Launch(now, startTimestamp, cfg.Duration); err != nil {
			return err
		}
		if err := e.poolService.Set(p); err != nil {
			return err
		}
		e.emit(&Event{
			Name:      EventLaunch,
			Subject:   poolAddr,
			Signer:    caller,
			Timestamp: now,
			Data: &LaunchData{
				RewardRate:          p.RewardRate,
				StartTimestamp:      p.StartTimestamp,
				EndTimestamp:        p.EndTimestamp,
				LastUpdateTimestamp: p.LastUpdateTimestamp,
			},
		})
		return nil
	})
}

// CollectProtocolReward pays the protocol share of a finished pool to the reward authority
// of its config.
func (e *Engine) CollectProtocolReward(caller, poolAddr lp.Address, now uint64) (amount uint64, err error) {
	err = e.atomic(func() error {
		p, err := e.poolService.Get(poolAddr)
		if err != nil {
			return err
		}
		cfg, err := e.configService.Config(p.ConfigID)
		if err != nil {
			return err
		}
		if caller != cfg.RewardAuthority {
			return reverts.ErrUnauthorized.Wrap("%v is not the reward authority", caller)
		}
		if err := p.Settle(now); err != nil {
			return err
		}
		if amount, err = p.CollectProtocolReward(); err != nil {
			return err
		}
		if err := e.transfer(p.RewardAsset, p.RewardVault, cfg.RewardAuthority, amount); err != nil {
			return err
		}
		if err := e.poolService.Set(p); err != nil {
			return err
		}
		e.emit(&Event{
			Name:      EventCollectProtocolReward,
			Subject:   poolAddr,
			Signer:    caller,
			Timestamp: now,
			Data: &CollectProtocolRewardData{
				RewardAuthority:        cfg.RewardAuthority,
				ProtocolRewardToRedeem: amount,
				RewardPerToken:         p.RewardPerToken,
			},
		})
		return nil
	})
	if err != nil {
		return 0, err
	}
	return amount, nil
}
