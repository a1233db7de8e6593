// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package engine

import (
	"github.com/stakepad/launchpool/engine/configs"
	"github.com/stakepad/launchpool/engine/reverts"
	"github.com/stakepad/launchpool/lp"
)

// InitializeManager creates the configs manager. It can run once.
func (e *Engine) InitializeManager(signer, authority, headAuthority lp.Address, now uint64) error {
	return e.atomic(func() error {
		if e.deployer != nil && signer != *e.deployer {
			return reverts.ErrUnauthorized.Wrap("%v is not the deployer", signer)
		}
		if _, err := e.configService.InitializeManager(authority, headAuthority); err != nil {
			return err
		}
		e.emit(&Event{
			Name:      EventInitializeManager,
			Subject:   lp.ConfigsManagerAddress(),
			Signer:    signer,
			Timestamp: now,
			Data:      &ManagerData{Authority: authority, HeadAuthority: headAuthority},
		})
		return nil
	})
}

// UpdateAuthority replaces the manager authority. Both authorities may call it.
func (e *Engine) UpdateAuthority(caller, authority lp.Address, now uint64) error {
	return e.updateManager(caller, now, EventUpdateAuthority, false, authority, func(m *configs.Manager) {
		m.Authority = authority
	})
}

// UpdateHeadAuthority replaces the head authority. Only the head authority may call it.
func (e *Engine) UpdateHeadAuthority(caller, headAuthority lp.Address, now uint64) error {
	return e.updateManager(caller, now, EventUpdateHeadAuthority, true, headAuthority, func(m *configs.Manager) {
		m.HeadAuthority = headAuthority
	})
}

func (e *Engine) updateManager(caller lp.Address, now uint64, name string, headOnly bool, value lp.Address, update func(*configs.Manager)) error {
	return e.atomic(func() error {
		m, err := e.configService.Manager()
		if err != nil {
			return err
		}
		if headOnly {
			if caller != m.HeadAuthority {
				return reverts.ErrUnauthorized.Wrap("%v is not the head authority", caller)
			}
		} else if err := m.Authorize(caller); err != nil {
			return err
		}
		update(m)
		if err := e.configService.SetManager(m); err != nil {
			return err
		}
		e.emit(&Event{
			Name:      name,
			Subject:   lp.ConfigsManagerAddress(),
			Signer:    caller,
			Timestamp: now,
			Data:      &AuthorityData{Authority: value},
		})
		return nil
	})
}

// ConfigParams are the caller supplied fields of a new config.
type ConfigParams struct {
	RewardAuthority                lp.Address
	StakableAsset                  lp.Address
	MinPositionSize                uint64
	MaxPositionSize                uint64
	ProtocolRewardShareBasisPoints uint16
	Duration                       uint64
}

// InitializeConfig validates and stores a new config under the next id.
func (e *Engine) InitializeConfig(caller lp.Address, params ConfigParams, now uint64) (cfg *configs.Config, err error) {
	err = e.atomic(func() error {
		m, err := e.configService.Manager()
		if err != nil {
			return err
		}
		if err := m.Authorize(caller); err != nil {
			return err
		}
		candidate := &configs.Config{
			RewardAuthority:                params.RewardAuthority,
			StakableAsset:                  params.StakableAsset,
			MinPositionSize:                params.MinPositionSize,
			MaxPositionSize:                params.MaxPositionSize,
			ProtocolRewardShareBasisPoints: params.ProtocolRewardShareBasisPoints,
			Duration:                       params.Duration,
		}
		if err := candidate.Validate(); err != nil {
			return err
		}
		if err := e.custody.CheckAssetSafety(params.StakableAsset); err != nil {
			return err
		}
		if cfg, err = e.configService.Add(candidate); err != nil {
			return err
		}
		e.emit(&Event{
			Name:      EventInitializeConfig,
			Subject:   cfg.Address(),
			Signer:    caller,
			Timestamp: now,
			Data: &ConfigData{
				ID:                             cfg.ID,
				RewardAuthority:                cfg.RewardAuthority,
				StakableAsset:                  cfg.StakableAsset,
				MinPositionSize:                cfg.MinPositionSize,
				MaxPositionSize:                cfg.MaxPositionSize,
				ProtocolRewardShareBasisPoints: cfg.ProtocolRewardShareBasisPoints,
				Duration:                       cfg.Duration,
			},
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// UpdateRewardAuthority sets the recipient of the protocol reward of config id.
func (e *Engine) UpdateRewardAuthority(caller lp.Address, id uint64, rewardAuthority lp.Address, now uint64) error {
	return e.updateConfig(caller, id, now, EventUpdateRewardAuthority, func(c *configs.Config) (any, error) {
		c.RewardAuthority = rewardAuthority
		return &AuthorityData{Authority: rewardAuthority}, nil
	})
}

// UpdateProtocolRewardShare sets the protocol share of config id.
func (e *Engine) UpdateProtocolRewardShare(caller lp.Address, id uint64, bp uint16, now uint64) error {
	return e.updateConfig(caller, id, now, EventUpdateProtocolRewardShare, func(c *configs.Config) (any, error) {
		return &RewardShareData{ProtocolRewardShareBasisPoints: bp}, c.SetProtocolRewardShare(bp)
	})
}

// UpdateDuration sets the duration of config id. Launched pools keep their own.
func (e *Engine) UpdateDuration(caller lp.Address, id uint64, duration uint64, now uint64) error {
	return e.updateConfig(caller, id, now, EventUpdateDuration, func(c *configs.Config) (any, error) {
		return &DurationData{Duration: duration}, c.SetDuration(duration)
	})
}

// UpdatePositionSizes sets the position bounds of config id. Existing pools keep their own.
func (e *Engine) UpdatePositionSizes(caller lp.Address, id uint64, minSize, maxSize uint64, now uint64) error {
	return e.updateConfig(caller, id, now, EventUpdatePositionSizes, func(c *configs.Config) (any, error) {
		return &PositionSizesData{MinPositionSize: minSize, MaxPositionSize: maxSize}, c.SetPositionSizes(minSize, maxSize)
	})
}

func (e *Engine) updateConfig(caller lp.Address, id uint64, now uint64, name string, update func(*configs.Config) (any, error)) error {
	return e.atomic(func() error {
		m, err := e.configService.Manager()
		if err != nil {
			return err
		}
		if err := m.Authorize(caller); err != nil {
			return err
		}
		cfg, err := e.configService.Config(id)
		if err != nil {
			return err
		}
		data, err := update(cfg)
		if err != nil {
			return err
		}
		if err := e.configService.Update(cfg); err != nil {
			return err
		}
		e.emit(&Event{
			Name:      name,
			Subject:   cfg.Address(),
			Signer:    caller,
			Timestamp: now,
			Data:      data,
		})
		return nil
	})
}
