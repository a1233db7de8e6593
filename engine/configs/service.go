// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package configs manages the configs manager and the pool configs.
package configs

import (
	"math"

	"github.com/stakepad/launchpool/engine/reverts"
	"github.com/stakepad/launchpool/lp"
	"github.com/stakepad/launchpool/state"
)

// Service reads and writes the manager and configs of a state.
type Service struct {
	managers *state.Mapping[*Manager]
	configs  *state.Mapping[*Config]
}

func New(st *state.State) *Service {
	return &Service{
		managers: state.NewMapping[*Manager](st, state.SpaceManager),
		configs:  state.NewMapping[*Config](st, state.SpaceConfig),
	}
}

// Manager returns the configs manager.
func (s *Service) Manager() (*Manager, error) {
	m, ok, err := s.managers.Get(lp.ConfigsManagerAddress())
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, reverts.ErrManagerNotInitialized
	}
	return m, nil
}

// InitializeManager creates the configs manager, once.
func (s *Service) InitializeManager(authority, headAuthority lp.Address) (*Manager, error) {
	exists, err := s.managers.Has(lp.ConfigsManagerAddress())
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, reverts.ErrManagerAlreadyInitialized
	}
	m := &Manager{Authority: authority, HeadAuthority: headAuthority}
	if err := s.SetManager(m); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *Service) SetManager(m *Manager) error {
	return s.managers.Set(lp.ConfigsManagerAddress(), m)
}

// Config returns the config with the given id.
func (s *Service) Config(id uint64) (*Config, error) {
	c, ok, err := s.configs.Get(lp.ConfigAddress(id))
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, reverts.ErrConfigNotFound.Wrap("id %d", id)
	}
	return c, nil
}

// Add validates cfg, assigns it the next id and stores it.
func (s *Service) Add(cfg *Config) (*Config, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	m, err := s.Manager()
	if err != nil {
		return nil, err
	}
	if m.ConfigsCount == math.MaxUint64 {
		return nil, reverts.ErrConfigsCountOverflow
	}
	cfg.ID = m.ConfigsCount
	m.ConfigsCount++

	if err := s.SetManager(m); err != nil {
		return nil, err
	}
	if err := s.configs.Set(cfg.Address(), cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Update stores an existing config.
func (s *Service) Update(cfg *Config) error {
	return s.configs.Set(cfg.Address(), cfg)
}
