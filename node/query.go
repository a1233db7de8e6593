// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package node

import (
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"

	"github.com/stakepad/launchpool/engine/configs"
	"github.com/stakepad/launchpool/engine/pool"
	"github.com/stakepad/launchpool/engine/position"
	"github.com/stakepad/launchpool/lp"
	"github.com/stakepad/launchpool/state"
)

// PoolFilter selects pools. Nil fields match everything.
type PoolFilter struct {
	ConfigID *uint64
	Status   *pool.Status
}

func (f *PoolFilter) match(p *pool.Pool) bool {
	if f == nil {
		return true
	}
	if f.ConfigID != nil && *f.ConfigID != p.ConfigID {
		return false
	}
	if f.Status != nil && *f.Status != p.Status {
		return false
	}
	return true
}

// Pools lists the committed pools matching filter in address order.
func (n *Node) Pools(filter *PoolFilter) ([]*pool.Pool, error) {
	var (
		pools  []*pool.Pool
		decErr error
	)
	err := n.stater.ForEach(state.SpacePool, func(addr lp.Address, raw []byte) bool {
		var p pool.Pool
		if decErr = rlp.DecodeBytes(raw, &p); decErr != nil {
			decErr = errors.Wrapf(decErr, "decode pool %v", addr)
			return false
		}
		if filter.match(&p) {
			pools = append(pools, &p)
		}
		return true
	})
	if err != nil {
		return nil, err
	}
	return pools, decErr
}

// PositionsOf lists the committed positions owned by owner.
func (n *Node) PositionsOf(owner lp.Address) ([]*position.Position, error) {
	var (
		positions []*position.Position
		decErr    error
	)
	err := n.stater.ForEach(state.SpacePosition, func(addr lp.Address, raw []byte) bool {
		var p position.Position
		if decErr = rlp.DecodeBytes(raw, &p); decErr != nil {
			decErr = errors.Wrapf(decErr, "decode position %v", addr)
			return false
		}
		if p.Owner == owner {
			positions = append(positions, &p)
		}
		return true
	})
	if err != nil {
		return nil, err
	}
	return positions, decErr
}

// Configs lists every config by id.
func (n *Node) Configs() ([]*configs.Config, error) {
	var list []*configs.Config
	err := n.Read(func(v *View) error {
		m, err := v.Engine.Manager()
		if err != nil {
			return err
		}
		for id := uint64(0); id < m.ConfigsCount; id++ {
			cfg, err := v.Engine.Config(id)
			if err != nil {
				return err
			}
			list = append(list, cfg)
		}
		return nil
	})
	return list, err
}
