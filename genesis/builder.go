// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"github.com/pkg/errors"

	"github.com/stakepad/launchpool/custody"
	"github.com/stakepad/launchpool/engine"
	"github.com/stakepad/launchpool/lp"
	"github.com/stakepad/launchpool/lvldb"
	"github.com/stakepad/launchpool/state"
)

// Builder helper to build the genesis state.
type Builder struct {
	timestamp uint64
	deployer  *lp.Address

	ledgerProcs []func(ledger *custody.Ledger) error
	calls       []func(e *engine.Engine, now uint64) error
}

// Result is the outcome of applying the genesis presets.
type Result struct {
	ID        lp.Bytes32
	Timestamp uint64
	Events    []*engine.Event
	Transfers []*engine.Transfer
}

// Timestamp set timestamp.
func (b *Builder) Timestamp(t uint64) *Builder {
	b.timestamp = t
	return b
}

// Deployer sets the identity allowed to initialize the configs manager.
func (b *Builder) Deployer(addr lp.Address) *Builder {
	b.deployer = &addr
	return b
}

// Ledger add a ledger process, for asset registration and balances.
func (b *Builder) Ledger(proc func(ledger *custody.Ledger) error) *Builder {
	b.ledgerProcs = append(b.ledgerProcs, proc)
	return b
}

// Call add an engine operation.
func (b *Builder) Call(call func(e *engine.Engine, now uint64) error) *Builder {
	b.calls = append(b.calls, call)
	return b
}

func (b *Builder) engineOptions() []engine.Option {
	if b.deployer == nil {
		return nil
	}
	return []engine.Option{engine.WithDeployer(*b.deployer)}
}

// ComputeID compute genesis ID.
func (b *Builder) ComputeID() (lp.Bytes32, error) {
	db, err := lvldb.NewMem()
	if err != nil {
		return lp.Bytes32{}, err
	}
	defer db.Close()

	stater, err := state.NewStater(db, 0)
	if err != nil {
		return lp.Bytes32{}, err
	}
	res, err := b.Build(stater)
	if err != nil {
		return lp.Bytes32{}, err
	}
	return res.ID, nil
}

// Build applies the presets to a fresh state and commits it.
func (b *Builder) Build(stater *state.Stater) (*Result, error) {
	st := stater.NewState()
	ledger := custody.New(st)

	for _, proc := range b.ledgerProcs {
		if err := proc(ledger); err != nil {
			return nil, errors.Wrap(err, "ledger process")
		}
	}

	eng := engine.New(st, ledger, b.engineOptions()...)
	for _, call := range b.calls {
		if err := call(eng, b.timestamp); err != nil {
			return nil, errors.Wrap(err, "engine call")
		}
	}

	stage := st.Stage()
	if err := stage.Commit(); err != nil {
		return nil, errors.Wrap(err, "commit state")
	}
	return &Result{
		ID:        stage.Hash(),
		Timestamp: b.timestamp,
		Events:    eng.Events(),
		Transfers: eng.Transfers(),
	}, nil
}
