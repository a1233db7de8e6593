// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package node_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stakepad/launchpool/engine"
	"github.com/stakepad/launchpool/engine/pool"
	"github.com/stakepad/launchpool/engine/reverts"
	"github.com/stakepad/launchpool/eventdb"
	"github.com/stakepad/launchpool/genesis"
	"github.com/stakepad/launchpool/kv"
	"github.com/stakepad/launchpool/lp"
	"github.com/stakepad/launchpool/lvldb"
	"github.com/stakepad/launchpool/node"
)

const (
	launchTime    = uint64(1735689600)
	initialReward = uint64(100_000_000_000)
	duration      = uint64(4234)
)

var (
	accounts = genesis.DevAccounts()
	deployer = accounts[0].Address
	head     = accounts[1].Address
	treasury = accounts[2].Address
	stakers  = []lp.Address{accounts[3].Address, accounts[4].Address, accounts[5].Address, accounts[6].Address}

	poolAddr = lp.PoolAddress(0, genesis.DevRewardAsset)
)

type testNode struct {
	*node.Node
	now atomic.Uint64
	db  kv.Store
	edb *eventdb.EventDB
}

func newTestNode(t *testing.T) *testNode {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	edb, err := eventdb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { edb.Close() })

	tn := &testNode{db: db, edb: edb}
	tn.now.Store(launchTime + 100)
	tn.Node, err = node.New(db, edb, genesis.NewDevnet(), 64, node.Options{Clock: tn.now.Load})
	require.NoError(t, err)
	return tn
}

func (tn *testNode) exec(t *testing.T, op string, scope node.Scope, fn func(e *engine.Engine, now uint64) error) *node.Receipt {
	r, err := tn.Execute(context.Background(), op, scope, fn)
	require.NoError(t, err)
	return r
}

// launch initializes, funds and launches the devnet pool starting 10s from now.
func (tn *testNode) launch(t *testing.T) uint64 {
	scope := node.PoolScope(poolAddr)
	tn.exec(t, "initializePool", scope, func(e *engine.Engine, now uint64) error {
		_, err := e.InitializePool(deployer, 0, genesis.DevRewardAsset, initialReward, now)
		return err
	})
	tn.exec(t, "transfer", scope, func(e *engine.Engine, now uint64) error {
		return e.TransferAsset(treasury, genesis.DevRewardAsset, lp.VaultAddress(poolAddr), initialReward, now)
	})
	start := tn.now.Load() + 10
	tn.exec(t, "launch", scope, func(e *engine.Engine, now uint64) error {
		return e.Launch(head, poolAddr, start, now)
	})
	return start
}

func TestGenesisRecorded(t *testing.T) {
	tn := newTestNode(t)
	require.NoError(t, tn.Sync())

	events, err := tn.EventDB().FilterEvents(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, engine.EventInitializeManager, events[0].Name)
	assert.Equal(t, engine.EventInitializeConfig, events[1].Name)
	assert.Equal(t, uint64(1), events[0].Seq)
	assert.Equal(t, launchTime, events[0].Timestamp)

	configs, err := tn.Configs()
	require.NoError(t, err)
	require.Len(t, configs, 1)
	assert.Equal(t, treasury, configs[0].RewardAuthority)
}

func TestRestart(t *testing.T) {
	tn := newTestNode(t)
	tn.launch(t)
	require.NoError(t, tn.Sync())

	// same genesis: state kept, sequence resumed
	again, err := node.New(tn.db, tn.edb, genesis.NewDevnet(), 64, node.Options{Clock: tn.now.Load})
	require.NoError(t, err)
	pools, err := again.Pools(nil)
	require.NoError(t, err)
	require.Len(t, pools, 1)
	assert.Equal(t, pool.StatusLaunched, pools[0].Status)

	r, err := again.Execute(context.Background(), "transfer", node.PoolScope(poolAddr), func(e *engine.Engine, now uint64) error {
		return e.TransferAsset(stakers[0], genesis.DevStakeAsset, stakers[1], 1, now)
	})
	require.NoError(t, err)
	assert.Equal(t, uint64(5), r.Seq)

	// other genesis
	custom, err := genesis.NewCustomNet(&genesis.CustomGenesis{
		Name:       "other",
		LaunchTime: launchTime,
		Manager:    genesis.ManagerPreset{Authority: treasury, HeadAuthority: head},
	})
	require.NoError(t, err)
	_, err = node.New(tn.db, tn.edb, custom, 64, node.Options{Clock: tn.now.Load})
	assert.ErrorContains(t, err, "genesis mismatch")
}

func TestSubscribeReceiptsLiveOnly(t *testing.T) {
	tn := newTestNode(t)
	start := tn.launch(t)
	tn.now.Store(start)

	// launch receipts may still be queued for the event db
	ch := make(chan *node.Receipt, 16)
	sub := tn.SubscribeReceipts(ch)
	defer sub.Unsubscribe()
	last := tn.LastSeq()

	r := tn.exec(t, "openPosition", node.PoolScope(poolAddr), func(e *engine.Engine, now uint64) error {
		_, err := e.OpenPosition(stakers[0], poolAddr, 1_000, now)
		return err
	})
	require.NoError(t, tn.Sync())

	got := <-ch
	assert.Equal(t, "openPosition", got.Op)
	assert.Equal(t, r.Seq, got.Seq)
	assert.Equal(t, last+1, got.Seq)
	assert.Empty(t, ch)
}

func TestConcurrentPositions(t *testing.T) {
	tn := newTestNode(t)
	start := tn.launch(t)
	tn.now.Store(start)

	ch := make(chan *node.Receipt, 16)
	sub := tn.SubscribeReceipts(ch)
	defer sub.Unsubscribe()

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		receipts []*node.Receipt
	)
	for _, staker := range stakers {
		wg.Add(1)
		go func(staker lp.Address) {
			defer wg.Done()
			r, err := tn.Execute(context.Background(), "openPosition", node.PoolScope(poolAddr), func(e *engine.Engine, now uint64) error {
				_, err := e.OpenPosition(staker, poolAddr, 1_000, now)
				return err
			})
			assert.NoError(t, err)
			mu.Lock()
			receipts = append(receipts, r)
			mu.Unlock()
		}(staker)
	}
	wg.Wait()
	require.NoError(t, tn.Sync())

	seqs := make(map[uint64]bool)
	for _, r := range receipts {
		require.NotNil(t, r)
		require.Len(t, r.Events, 1)
		assert.Equal(t, engine.EventOpenPosition, r.Events[0].Name)
		seqs[r.Seq] = true
	}
	assert.Len(t, seqs, len(stakers))

	for range stakers {
		r := <-ch
		assert.Equal(t, "openPosition", r.Op)
	}

	require.NoError(t, tn.Read(func(v *node.View) error {
		bal, err := v.Ledger.BalanceOf(genesis.DevStakeAsset, lp.VaultAddress(lp.PositionAddress(stakers[0], poolAddr)))
		require.NoError(t, err)
		assert.Equal(t, uint64(1_000), bal)
		return nil
	}))

	positions, err := tn.PositionsOf(stakers[0])
	require.NoError(t, err)
	require.Len(t, positions, 1)
	assert.Equal(t, uint64(1_000), positions[0].Amount)

	// all stakers held the same stake for the whole period
	tn.now.Store(start + duration)
	var total uint64
	for _, staker := range stakers {
		var reward uint64
		tn.exec(t, "closePosition", node.PoolScope(poolAddr), func(e *engine.Engine, now uint64) (err error) {
			_, reward, err = e.ClosePosition(staker, lp.PositionAddress(staker, poolAddr), now)
			return
		})
		assert.InDelta(t, 24_942_500_000, reward, 1)
		total += reward
	}
	assert.LessOrEqual(t, total, uint64(99_770_000_000))

	require.NoError(t, tn.Sync())
	transfers, err := tn.EventDB().FilterTransfers(context.Background(), &eventdb.TransferFilter{
		CriteriaSet: []*eventdb.TransferCriteria{{Recipient: &stakers[0]}},
	})
	require.NoError(t, err)
	require.Len(t, transfers, 2)
	assert.Equal(t, genesis.DevStakeAsset, transfers[0].Asset)
	assert.Equal(t, uint64(1_000), transfers[0].Amount)
	assert.Equal(t, genesis.DevRewardAsset, transfers[1].Asset)
	assert.Equal(t, start+duration, transfers[1].Timestamp)
}

func TestRejectedOperation(t *testing.T) {
	tn := newTestNode(t)
	start := tn.launch(t)
	tn.now.Store(start)

	r, err := tn.Execute(context.Background(), "openPosition", node.PoolScope(poolAddr), func(e *engine.Engine, now uint64) error {
		_, err := e.OpenPosition(stakers[0], poolAddr, 10, now)
		return err
	})
	assert.Nil(t, r)
	assert.ErrorIs(t, err, reverts.ErrStakeBelowMinimum)

	r = tn.exec(t, "openPosition", node.PoolScope(poolAddr), func(e *engine.Engine, now uint64) error {
		_, err := e.OpenPosition(stakers[0], poolAddr, 100, now)
		return err
	})
	// genesis, initialize, fund, launch, open
	assert.Equal(t, uint64(5), r.Seq)

	positions, err := tn.PositionsOf(stakers[0])
	require.NoError(t, err)
	require.Len(t, positions, 1)
	assert.Equal(t, uint64(100), positions[0].Amount)
}

func TestPoolsFilter(t *testing.T) {
	tn := newTestNode(t)
	tn.launch(t)

	launched := pool.StatusLaunched
	finished := pool.StatusFinished
	other := uint64(7)

	pools, err := tn.Pools(&node.PoolFilter{Status: &launched})
	require.NoError(t, err)
	assert.Len(t, pools, 1)

	pools, err = tn.Pools(&node.PoolFilter{Status: &finished})
	require.NoError(t, err)
	assert.Empty(t, pools)

	pools, err = tn.Pools(&node.PoolFilter{ConfigID: &other})
	require.NoError(t, err)
	assert.Empty(t, pools)
}

func TestCanceledContext(t *testing.T) {
	tn := newTestNode(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := tn.Execute(ctx, "transfer", node.AdminScope, func(e *engine.Engine, now uint64) error {
		return e.TransferAsset(stakers[0], genesis.DevStakeAsset, stakers[1], 1, now)
	})
	assert.ErrorIs(t, err, context.Canceled)
}
