// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package pool

import (
	"github.com/stakepad/launchpool/engine/reverts"
	"github.com/stakepad/launchpool/lp"
	"github.com/stakepad/launchpool/state"
)

// Service reads and writes pools of a state.
type Service struct {
	pools *state.Mapping[*Pool]
}

func New(st *state.State) *Service {
	return &Service{pools: state.NewMapping[*Pool](st, state.SpacePool)}
}

// Get returns the pool at addr.
func (s *Service) Get(addr lp.Address) (*Pool, error) {
	p, ok, err := s.pools.Get(addr)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, reverts.ErrLaunchpoolNotFound.Wrap("%v", addr)
	}
	return p, nil
}

// Exists returns whether a pool is stored at addr.
func (s *Service) Exists(addr lp.Address) (bool, error) {
	return s.pools.Has(addr)
}

// Set stores p at its address.
func (s *Service) Set(p *Pool) error {
	return s.pools.Set(p.Address(), p)
}
