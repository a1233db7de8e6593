// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package position

import (
	"github.com/stakepad/launchpool/engine/reverts"
	"github.com/stakepad/launchpool/lp"
	"github.com/stakepad/launchpool/state"
)

// Service reads and writes positions of a state.
type Service struct {
	positions *state.Mapping[*Position]
}

func New(st *state.State) *Service {
	return &Service{positions: state.NewMapping[*Position](st, state.SpacePosition)}
}

// Get returns the position at addr.
func (s *Service) Get(addr lp.Address) (*Position, error) {
	p, ok, err := s.positions.Get(addr)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, reverts.ErrStakePositionNotFound.Wrap("%v", addr)
	}
	return p, nil
}

// Lookup returns the position of owner in pool, or a fresh record bound to them if
// none was stored yet.
func (s *Service) Lookup(owner, pool lp.Address) (*Position, error) {
	p, ok, err := s.positions.Get(lp.PositionAddress(owner, pool))
	if err != nil {
		return nil, err
	}
	if !ok {
		p.Owner = owner
		p.Pool = pool
		p.StakeVault = lp.VaultAddress(p.Address())
	}
	return p, nil
}

// Set stores p at its address.
func (s *Service) Set(p *Position) error {
	return s.positions.Set(p.Address(), p)
}
