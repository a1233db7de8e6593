// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package node hosts the engine: it serializes operations per pool, commits their state
// changes, records their events and fans them out to subscribers.
package node

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ethereum/go-ethereum/event"
	"github.com/pkg/errors"

	"github.com/stakepad/launchpool/co"
	"github.com/stakepad/launchpool/engine"
	"github.com/stakepad/launchpool/engine/pool"
	"github.com/stakepad/launchpool/eventdb"
	"github.com/stakepad/launchpool/genesis"
	"github.com/stakepad/launchpool/kv"
	"github.com/stakepad/launchpool/log"
	"github.com/stakepad/launchpool/lp"
	"github.com/stakepad/launchpool/state"
)

var logger = log.WithContext("pkg", "node")

const (
	lockStripes       = 64
	defaultMaxRetries = 8
	statsInterval     = 10 * time.Second
)

var genesisKey = []byte("genesis")

// Options for Node.
type Options struct {
	// Clock returns the current unix time in seconds. Defaults to the wall clock.
	Clock func() uint64
	// MaxRetries bounds the attempts of an operation whose commit conflicted.
	MaxRetries int
}

// Node runs engine operations against the committed state.
type Node struct {
	goes    co.Goes
	stater  *state.Stater
	meta    kv.Store
	eventDB *eventdb.EventDB
	writer  *worker
	engOpts []engine.Option
	opts    Options
	gen     *genesis.Genesis

	adminLock  sync.Mutex
	poolLocks  [lockStripes]sync.Mutex
	commitLock sync.Mutex
	seq        atomic.Uint64
	written    co.Signal

	receiptFeed event.Feed
	scope       event.SubscriptionScope
}

// New creates a node over db. The genesis state is built on first start; later starts
// check the stored genesis matches gen.
func New(db kv.Store, eventDB *eventdb.EventDB, gen *genesis.Genesis, cacheSize int, opts Options) (*Node, error) {
	stater, err := state.NewStater(db, cacheSize)
	if err != nil {
		return nil, err
	}
	if opts.Clock == nil {
		opts.Clock = func() uint64 { return uint64(time.Now().Unix()) }
	}
	if opts.MaxRetries <= 0 {
		opts.MaxRetries = defaultMaxRetries
	}

	n := &Node{
		stater:  stater,
		meta:    kv.Bucket("m/").NewStore(db),
		eventDB: eventDB,
		writer:  newWorker(),
		opts:    opts,
		gen:     gen,
	}
	if deployer := gen.Deployer(); deployer != nil {
		n.engOpts = append(n.engOpts, engine.WithDeployer(*deployer))
	}

	lastSeq, err := eventDB.LastSeq(context.Background())
	if err != nil {
		n.writer.Close()
		return nil, errors.Wrap(err, "load last sequence")
	}
	n.seq.Store(lastSeq)

	if err := n.initGenesis(gen); err != nil {
		n.writer.Close()
		return nil, err
	}
	return n, nil
}

func (n *Node) initGenesis(gen *genesis.Genesis) error {
	stored, err := n.meta.Get(genesisKey)
	if err != nil && !n.meta.IsNotFound(err) {
		return errors.Wrap(err, "read genesis id")
	}
	if len(stored) > 0 {
		if id := lp.BytesToBytes32(stored); id != gen.ID() {
			return errors.Errorf("genesis mismatch: stored %v, expected %v (%s)", id, gen.ID(), gen.Name())
		}
		return nil
	}

	res, err := gen.Build(n.stater)
	if err != nil {
		return errors.Wrap(err, "build genesis")
	}
	receipt := n.newReceipt("genesis", res.Timestamp, res.Events, res.Transfers)
	if err := n.record(receipt); err != nil {
		return err
	}
	if err := n.writer.Sync(); err != nil {
		return err
	}
	if err := n.meta.Put(genesisKey, gen.ID().Bytes()); err != nil {
		return errors.Wrap(err, "write genesis id")
	}
	logger.Info("genesis built", "name", gen.Name(), "id", gen.ID())
	return nil
}

// Run runs the background loops until ctx is done.
func (n *Node) Run(ctx context.Context) error {
	n.goes.GoCtx(ctx, n.statsLoop)
	<-ctx.Done()
	n.goes.Wait()

	n.scope.Close()
	n.writer.Close()
	return nil
}

// Now returns the node clock.
func (n *Node) Now() uint64 {
	return n.opts.Clock()
}

// Genesis returns the genesis the node was started with.
func (n *Node) Genesis() *genesis.Genesis {
	return n.gen
}

// LastSeq returns the sequence number of the latest receipt.
func (n *Node) LastSeq() uint64 {
	return n.seq.Load()
}

// EventDB returns the event db the node writes to.
func (n *Node) EventDB() *eventdb.EventDB {
	return n.eventDB
}

// SubscribeReceipts delivers to ch the receipt of every operation committed after the call.
// Receipts still queued for the event db when it is made are skipped.
func (n *Node) SubscribeReceipts(ch chan *Receipt) event.Subscription {
	feed := make(chan *Receipt, cap(ch))
	inner := n.receiptFeed.Subscribe(feed)
	// loaded after subscribing: a receipt numbered above from is sent to feed
	from := n.seq.Load()

	return n.scope.Track(event.NewSubscription(func(quit <-chan struct{}) error {
		defer inner.Unsubscribe()
		for {
			select {
			case r := <-feed:
				if r.Seq <= from {
					continue
				}
				select {
				case ch <- r:
				case <-quit:
					return nil
				}
			case err := <-inner.Err():
				return err
			case <-quit:
				return nil
			}
		}
	}))
}

// NewTicker returns a waiter fired each time the records of an operation were written to
// the event db.
func (n *Node) NewTicker() co.Waiter {
	return n.written.NewWaiter()
}

// Sync waits until the records of committed operations are written to the event db.
func (n *Node) Sync() error {
	return n.writer.Sync()
}

func (n *Node) statsLoop(ctx context.Context) {
	ticker := time.NewTicker(statsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			pools, err := n.Pools(nil)
			if err != nil {
				logger.Warn("failed to list pools", "err", err)
				continue
			}
			counts := make(map[pool.Status]int64)
			for _, p := range pools {
				counts[p.Status]++
			}
			for s := pool.StatusUninitialized; s <= pool.StatusClaimedProtocolReward; s++ {
				metricPoolsByStatus().SetWithLabel(counts[s], map[string]string{"status": s.String()})
			}
		}
	}
}
