// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package configs

import (
	"github.com/stakepad/launchpool/engine/reverts"
	"github.com/stakepad/launchpool/lp"
)

// Manager is the singleton holding the admin authorities.
type Manager struct {
	Authority     lp.Address `json:"authority"`
	HeadAuthority lp.Address `json:"headAuthority"`
	ConfigsCount  uint64     `json:"configsCount"`
}

// IsAdmin returns whether caller is the authority or the head authority.
func (m *Manager) IsAdmin(caller lp.Address) bool {
	return caller == m.Authority || caller == m.HeadAuthority
}

// Authorize rejects callers that are neither the authority nor the head authority.
func (m *Manager) Authorize(caller lp.Address) error {
	if !m.IsAdmin(caller) {
		return reverts.ErrUnauthorized.Wrap("%v is not a manager authority", caller)
	}
	return nil
}

// Config is the template pools are created from.
type Config struct {
	ID                             uint64     `json:"id"`
	RewardAuthority                lp.Address `json:"rewardAuthority"`
	StakableAsset                  lp.Address `json:"stakableAsset"`
	MinPositionSize                uint64     `json:"minPositionSize"`
	MaxPositionSize                uint64     `json:"maxPositionSize"`
	ProtocolRewardShareBasisPoints uint16     `json:"protocolRewardShareBasisPoints"`
	Duration                       uint64     `json:"duration"`
}

// Address returns the record address of the config.
func (c *Config) Address() lp.Address {
	return lp.ConfigAddress(c.ID)
}

// Validate checks the config parameters.
func (c *Config) Validate() error {
	if err := validateShare(c.ProtocolRewardShareBasisPoints); err != nil {
		return err
	}
	if err := validateDuration(c.Duration); err != nil {
		return err
	}
	return validateSizes(c.MinPositionSize, c.MaxPositionSize)
}

func validateShare(bp uint16) error {
	if bp > lp.MaxBasisPoints {
		return reverts.ErrConfigRewardShareExceeded.Wrap("%d", bp)
	}
	return nil
}

func validateDuration(d uint64) error {
	if d == 0 {
		return reverts.ErrInvalidDuration
	}
	return nil
}

func validateSizes(minSize, maxSize uint64) error {
	if minSize == 0 {
		return reverts.ErrInvalidMinPositionSize
	}
	if maxSize < minSize {
		return reverts.ErrInvalidMaxPositionSize.Wrap("max %d < min %d", maxSize, minSize)
	}
	return nil
}

// SetProtocolRewardShare updates the share after validating it.
func (c *Config) SetProtocolRewardShare(bp uint16) error {
	if err := validateShare(bp); err != nil {
		return err
	}
	c.ProtocolRewardShareBasisPoints = bp
	return nil
}

// SetDuration updates the duration after validating it.
func (c *Config) SetDuration(d uint64) error {
	if err := validateDuration(d); err != nil {
		return err
	}
	c.Duration = d
	return nil
}

// SetPositionSizes updates both bounds after validating them.
func (c *Config) SetPositionSizes(minSize, maxSize uint64) error {
	if err := validateSizes(minSize, maxSize); err != nil {
		return err
	}
	c.MinPositionSize, c.MaxPositionSize = minSize, maxSize
	return nil
}
