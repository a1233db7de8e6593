// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package testnode runs a devnet node on memory databases behind a test API server.
package testnode

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/stakepad/launchpool/api"
	"github.com/stakepad/launchpool/api/operations"
	"github.com/stakepad/launchpool/eventdb"
	"github.com/stakepad/launchpool/genesis"
	"github.com/stakepad/launchpool/lp"
	"github.com/stakepad/launchpool/lvldb"
	"github.com/stakepad/launchpool/node"
)

// Devnet values the helpers rely on.
const (
	LaunchTime    = uint64(1735689600)
	InitialReward = uint64(100_000_000_000)
	Duration      = uint64(4234)
	MinPosition   = uint64(57)
)

var (
	Accounts = genesis.DevAccounts()
	Deployer = Accounts[0].Address
	Head     = Accounts[1].Address
	Treasury = Accounts[2].Address
	Alice    = Accounts[3].Address
	Bob      = Accounts[4].Address

	// DevPool is the pool of devnet config 0 distributing the reward asset.
	DevPool = lp.PoolAddress(0, genesis.DevRewardAsset)
)

// Node is a devnet node with a controllable clock.
type Node struct {
	*node.Node
	Server *httptest.Server

	clock atomic.Uint64
}

// New starts a node whose clock reads LaunchTime+100 and serves its API. Everything is
// torn down when t completes.
func New(t testing.TB) *Node {
	return NewWithOptions(t, api.Options{AllowedOrigins: "*", BacktraceLimit: 100, LogsLimit: 100})
}

func NewWithOptions(t testing.TB, opts api.Options) *Node {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	edb, err := eventdb.NewMem()
	require.NoError(t, err)

	n := &Node{}
	n.clock.Store(LaunchTime + 100)
	n.Node, err = node.New(db, edb, genesis.NewDevnet(), 64, node.Options{Clock: n.clock.Load})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		n.Run(ctx)
	}()

	handler, closeAPI := api.New(n.Node, opts)
	n.Server = httptest.NewServer(handler)

	t.Cleanup(func() {
		closeAPI()
		n.Server.Close()
		cancel()
		<-done
		edb.Close()
		db.Close()
	})
	return n
}

// SetTime sets the clock.
func (n *Node) SetTime(ts uint64) {
	n.clock.Store(ts)
}

// Advance moves the clock forward by d seconds.
func (n *Node) Advance(d uint64) uint64 {
	return n.clock.Add(d)
}

// Get requests path and returns the status and body.
func (n *Node) Get(t testing.TB, path string) (int, []byte) {
	res, err := http.Get(n.Server.URL + path)
	require.NoError(t, err)
	return readResponse(t, res)
}

// Post sends body as json to path and returns the status and body.
func (n *Node) Post(t testing.TB, path string, body any) (int, []byte) {
	data, err := json.Marshal(body)
	require.NoError(t, err)
	res, err := http.Post(n.Server.URL+path, "application/json", bytes.NewReader(data))
	require.NoError(t, err)
	return readResponse(t, res)
}

// Operate executes the named operation and requires it to be committed.
func (n *Node) Operate(t testing.TB, name string, body any) *operations.Result {
	status, data := n.Post(t, "/operations/"+name, body)
	require.Equal(t, http.StatusOK, status, string(data))

	var res operations.Result
	require.NoError(t, json.Unmarshal(data, &res))
	return &res
}

// LaunchDevPool initializes, funds and launches DevPool starting at start.
func (n *Node) LaunchDevPool(t testing.TB, start uint64) lp.Address {
	n.Operate(t, "initializePool", &operations.InitializePool{
		Signer:              Deployer,
		ConfigID:            0,
		RewardAsset:         genesis.DevRewardAsset,
		InitialRewardAmount: InitialReward,
	})
	n.Operate(t, "transfer", &operations.Transfer{
		Signer:    Treasury,
		Asset:     genesis.DevRewardAsset,
		Recipient: lp.VaultAddress(DevPool),
		Amount:    InitialReward,
	})
	n.Operate(t, "launch", &operations.Launch{
		Signer:         Head,
		Pool:           DevPool,
		StartTimestamp: start,
	})
	return DevPool
}

// Decode unmarshals data into a new V.
func Decode[V any](t testing.TB, data []byte) V {
	var v V
	require.NoError(t, json.Unmarshal(data, &v), string(data))
	return v
}

// Output decodes the output of an operation result into a new V.
func Output[V any](t testing.TB, res *operations.Result) V {
	data, err := json.Marshal(res.Output)
	require.NoError(t, err)
	return Decode[V](t, data)
}

func readResponse(t testing.TB, res *http.Response) (int, []byte) {
	defer res.Body.Close()
	data, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return res.StatusCode, data
}
