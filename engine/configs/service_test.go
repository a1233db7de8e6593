// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package configs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stakepad/launchpool/engine/reverts"
	"github.com/stakepad/launchpool/lp"
	"github.com/stakepad/launchpool/lvldb"
	"github.com/stakepad/launchpool/state"
)

var (
	authority = lp.BytesToAddress([]byte("authority"))
	head      = lp.BytesToAddress([]byte("head"))
)

func newSvc(t *testing.T) *Service {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	stater, err := state.NewStater(db, 16)
	require.NoError(t, err)
	return New(stater.NewState())
}

func validConfig() *Config {
	return &Config{
		RewardAuthority:                authority,
		StakableAsset:                  lp.BytesToAddress([]byte("asset")),
		MinPositionSize:                57,
		MaxPositionSize:                543,
		ProtocolRewardShareBasisPoints: 23,
		Duration:                       4234,
	}
}

func TestInitializeManagerOnce(t *testing.T) {
	svc := newSvc(t)

	_, err := svc.Manager()
	assert.ErrorIs(t, err, reverts.ErrManagerNotInitialized)

	m, err := svc.InitializeManager(authority, head)
	require.NoError(t, err)
	assert.True(t, m.IsAdmin(authority))
	assert.True(t, m.IsAdmin(head))
	assert.ErrorIs(t, m.Authorize(lp.Address{}), reverts.ErrUnauthorized)

	_, err = svc.InitializeManager(head, head)
	assert.ErrorIs(t, err, reverts.ErrManagerAlreadyInitialized)
}

func TestAddAssignsSequentialIDs(t *testing.T) {
	svc := newSvc(t)
	_, err := svc.Add(validConfig())
	assert.ErrorIs(t, err, reverts.ErrManagerNotInitialized)

	_, err = svc.InitializeManager(authority, head)
	require.NoError(t, err)

	for i := uint64(0); i < 3; i++ {
		cfg, err := svc.Add(validConfig())
		require.NoError(t, err)
		assert.Equal(t, i, cfg.ID)
	}

	m, err := svc.Manager()
	require.NoError(t, err)
	assert.Equal(t, uint64(3), m.ConfigsCount)

	cfg, err := svc.Config(1)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), cfg.ID)
	assert.Equal(t, uint64(4234), cfg.Duration)

	_, err = svc.Config(3)
	assert.ErrorIs(t, err, reverts.ErrConfigNotFound)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   error
	}{
		{"valid", func(*Config) {}, nil},
		{"share 100%", func(c *Config) { c.ProtocolRewardShareBasisPoints = 10_000 }, nil},
		{"share over 100%", func(c *Config) { c.ProtocolRewardShareBasisPoints = 10_001 }, reverts.ErrConfigRewardShareExceeded},
		{"zero duration", func(c *Config) { c.Duration = 0 }, reverts.ErrInvalidDuration},
		{"zero min", func(c *Config) { c.MinPositionSize = 0 }, reverts.ErrInvalidMinPositionSize},
		{"max below min", func(c *Config) { c.MaxPositionSize = 56 }, reverts.ErrInvalidMaxPositionSize},
		{"max equals min", func(c *Config) { c.MaxPositionSize = 57 }, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.want == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.want)
				assert.Equal(t, reverts.KindRange, reverts.KindOf(err))
			}
		})
	}
}

func TestSettersKeepOtherFields(t *testing.T) {
	cfg := validConfig()
	cfg.ID = 9
	orig := *cfg

	assert.ErrorIs(t, cfg.SetDuration(0), reverts.ErrInvalidDuration)
	assert.ErrorIs(t, cfg.SetProtocolRewardShare(20_000), reverts.ErrConfigRewardShareExceeded)
	assert.ErrorIs(t, cfg.SetPositionSizes(10, 9), reverts.ErrInvalidMaxPositionSize)
	assert.Equal(t, orig, *cfg)

	require.NoError(t, cfg.SetDuration(10))
	expected := orig
	expected.Duration = 10
	assert.Equal(t, expected, *cfg)

	require.NoError(t, cfg.SetPositionSizes(1, 2))
	expected.MinPositionSize, expected.MaxPositionSize = 1, 2
	assert.Equal(t, expected, *cfg)
}
