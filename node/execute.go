// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package node

import (
	"context"
	"encoding/binary"
	"sync"

	"github.com/pkg/errors"

	"github.com/stakepad/launchpool/custody"
	"github.com/stakepad/launchpool/engine"
	"github.com/stakepad/launchpool/lp"
	"github.com/stakepad/launchpool/state"
)

// ErrTooManyConflicts is returned when an operation kept conflicting with concurrent commits.
var ErrTooManyConflicts = errors.New("node: too many commit conflicts")

// Scope names the records an operation mutates. Operations of the same scope run one at a time.
type Scope struct {
	pool  lp.Address
	admin bool
}

// AdminScope serializes manager and config operations.
var AdminScope = Scope{admin: true}

// PoolScope serializes operations on one pool and its positions.
func PoolScope(pool lp.Address) Scope {
	return Scope{pool: pool}
}

func (n *Node) lock(scope Scope) func() {
	var mu *sync.Mutex
	if scope.admin {
		mu = &n.adminLock
	} else {
		mu = &n.poolLocks[binary.BigEndian.Uint32(scope.pool[lp.AddressLength-4:])%lockStripes]
	}
	mu.Lock()
	return mu.Unlock
}

// Execute runs fn on a fresh engine and commits its changes. When the commit conflicts
// with a concurrent one, fn is run again on the new state.
func (n *Node) Execute(ctx context.Context, op string, scope Scope, fn func(e *engine.Engine, now uint64) error) (*Receipt, error) {
	unlock := n.lock(scope)
	defer unlock()

	var receipt *Receipt
	err := evalOperationMetrics(op, func() error {
		now := n.opts.Clock()
		for attempt := 0; attempt < n.opts.MaxRetries; attempt++ {
			if err := ctx.Err(); err != nil {
				return err
			}
			st := n.stater.NewState()
			eng := engine.New(st, custody.New(st), n.engOpts...)
			if err := fn(eng, now); err != nil {
				return err
			}

			n.commitLock.Lock()
			err := st.Stage().Commit()
			if err == nil {
				receipt = n.newReceipt(op, now, eng.Events(), eng.Transfers())
				err = n.record(receipt)
			}
			n.commitLock.Unlock()

			if errors.Is(err, state.ErrConflict) {
				metricCommitConflicts().AddWithLabel(1, map[string]string{"op": op})
				logger.Debug("commit conflict, retrying", "op", op, "attempt", attempt, "err", err)
				continue
			}
			if err != nil {
				return err
			}
			metricLastSeq().Set(int64(receipt.Seq))
			return nil
		}
		return ErrTooManyConflicts
	})
	if err != nil {
		return nil, err
	}
	logger.Debug("operation committed", "op", op, "seq", receipt.Seq, "events", len(receipt.Events))
	return receipt, nil
}

// View is a read-only snapshot of the committed state.
type View struct {
	Engine *engine.Engine
	Ledger *custody.Ledger
	Now    uint64
}

// Read runs fn against a fresh overlay that is discarded afterwards.
func (n *Node) Read(fn func(v *View) error) error {
	st := n.stater.NewState()
	ledger := custody.New(st)
	return fn(&View{
		Engine: engine.New(st, ledger, n.engOpts...),
		Ledger: ledger,
		Now:    n.opts.Clock(),
	})
}
