// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package genesis builds the initial state: registered assets, dev balances, the configs
// manager and the initial configs.
package genesis

import (
	"github.com/stakepad/launchpool/lp"
	"github.com/stakepad/launchpool/state"
)

// Genesis to build the initial state.
type Genesis struct {
	builder  *Builder
	id       lp.Bytes32
	name     string
	deployer *lp.Address
}

func newGenesis(name string, builder *Builder) (*Genesis, error) {
	id, err := builder.ComputeID()
	if err != nil {
		return nil, err
	}
	return &Genesis{builder: builder, id: id, name: name, deployer: builder.deployer}, nil
}

// Build applies the genesis presets to stater.
func (g *Genesis) Build(stater *state.Stater) (*Result, error) {
	return g.builder.Build(stater)
}

// ID returns the genesis ID, the digest of the state it builds.
func (g *Genesis) ID() lp.Bytes32 {
	return g.id
}

// Name returns network name.
func (g *Genesis) Name() string {
	return g.name
}

// Deployer returns the identity allowed to initialize the configs manager, nil if anyone may.
func (g *Genesis) Deployer() *lp.Address {
	return g.deployer
}
