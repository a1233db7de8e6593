// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package engine executes the launchpool operations against a state overlay.
//
// An Engine is created per operation batch. Every operation runs inside a state checkpoint
// and either lands in full, with its event recorded, or leaves the overlay untouched.
package engine

import (
	"github.com/stakepad/launchpool/engine/configs"
	"github.com/stakepad/launchpool/engine/pool"
	"github.com/stakepad/launchpool/engine/position"
	"github.com/stakepad/launchpool/fixedpoint"
	"github.com/stakepad/launchpool/log"
	"github.com/stakepad/launchpool/lp"
	"github.com/stakepad/launchpool/state"
)

var logger = log.WithContext("pkg", "engine")

func SetLogger(l log.Logger) {
	logger = l
}

// Custody moves assets on behalf of the engine.
type Custody interface {
	Transfer(asset, from, to lp.Address, amount uint64) error
	BalanceOf(asset, holder lp.Address) (uint64, error)
	CheckAssetSafety(asset lp.Address) error
	OpenVault(vault, owner lp.Address) error
	VaultOwner(addr lp.Address) (lp.Address, bool, error)
}

// Option configures an Engine.
type Option func(*Engine)

// WithDeployer restricts InitializeManager to the given signer.
func WithDeployer(deployer lp.Address) Option {
	return func(e *Engine) {
		e.deployer = &deployer
	}
}

// Engine implements the launchpool operations.
type Engine struct {
	state    *state.State
	custody  Custody
	deployer *lp.Address

	configService   *configs.Service
	poolService     *pool.Service
	positionService *position.Service

	events    []*Event
	transfers []*Transfer
}

// New creates an engine over st.
func New(st *state.State, custody Custody, opts ...Option) *Engine {
	e := &Engine{
		state:           st,
		custody:         custody,
		configService:   configs.New(st),
		poolService:     pool.New(st),
		positionService: position.New(st),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Events returns the events of the operations that landed so far.
func (e *Engine) Events() []*Event {
	return e.events
}

// Transfers returns the asset movements of the operations that landed so far.
func (e *Engine) Transfers() []*Transfer {
	return e.transfers
}

// atomic runs fn inside a state checkpoint. Changes, events and transfers of a failed fn
// are dropped.
func (e *Engine) atomic(fn func() error) error {
	rev := e.state.NewCheckpoint()
	nEvents, nTransfers := len(e.events), len(e.transfers)
	if err := fn(); err != nil {
		e.state.RevertTo(rev)
		e.events = e.events[:nEvents]
		e.transfers = e.transfers[:nTransfers]
		return err
	}
	return nil
}

func (e *Engine) transfer(asset, from, to lp.Address, amount uint64) error {
	if err := e.custody.Transfer(asset, from, to, amount); err != nil {
		return err
	}
	if amount > 0 && from != to {
		e.transfers = append(e.transfers, &Transfer{Asset: asset, Sender: from, Recipient: to, Amount: amount})
	}
	return nil
}

func (e *Engine) emit(ev *Event) {
	logger.Debug("event", "name", ev.Name, "subject", ev.Subject, "signer", ev.Signer)
	e.events = append(e.events, ev)
}

//
// Getters - no state change
//

// Manager returns the configs manager.
func (e *Engine) Manager() (*configs.Manager, error) {
	return e.configService.Manager()
}

// Config returns the config with the given id.
func (e *Engine) Config(id uint64) (*configs.Config, error) {
	return e.configService.Config(id)
}

// Pool returns the pool at addr, as last stored.
func (e *Engine) Pool(addr lp.Address) (*pool.Pool, error) {
	return e.poolService.Get(addr)
}

// Position returns the position at addr, as last stored.
func (e *Engine) Position(addr lp.Address) (*position.Position, error) {
	return e.positionService.Get(addr)
}

// PositionOf returns the position of owner in the pool.
func (e *Engine) PositionOf(owner, poolAddr lp.Address) (*position.Position, error) {
	return e.positionService.Get(lp.PositionAddress(owner, poolAddr))
}

// PendingReward returns the reward the position would have earned if settled at now.
func (e *Engine) PendingReward(addr lp.Address, now uint64) (fixedpoint.Q64x128, error) {
	pos, err := e.positionService.Get(addr)
	if err != nil {
		return fixedpoint.Q64x128{}, err
	}
	p, err := e.poolService.Get(pos.Pool)
	if err != nil {
		return fixedpoint.Q64x128{}, err
	}
	// p is a private copy, settling it stores nothing
	if err := p.Settle(now); err != nil {
		return fixedpoint.Q64x128{}, err
	}
	return pos.Pending(p.RewardPerToken)
}
