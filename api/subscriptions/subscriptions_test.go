// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package subscriptions_test

import (
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stakepad/launchpool/api"
	"github.com/stakepad/launchpool/api/operations"
	"github.com/stakepad/launchpool/api/subscriptions"
	"github.com/stakepad/launchpool/engine"
	"github.com/stakepad/launchpool/genesis"
	"github.com/stakepad/launchpool/lp"
	"github.com/stakepad/launchpool/node"
	"github.com/stakepad/launchpool/test/testnode"
)

func wsURL(tn *testnode.Node, path string) string {
	return "ws" + strings.TrimPrefix(tn.Server.URL, "http") + path
}

func dial(t *testing.T, tn *testnode.Node, path string) *websocket.Conn {
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL(tn, path), nil)
	require.NoError(t, err)
	resp.Body.Close()
	t.Cleanup(func() { conn.Close() })
	return conn
}

func read[V any](t *testing.T, conn *websocket.Conn) *V {
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	var v V
	require.NoError(t, conn.ReadJSON(&v))
	return &v
}

func TestEventSubscription(t *testing.T) {
	tn := testnode.New(t)
	conn := dial(t, tn, "/subscriptions/event?pos=0")

	// backlog
	ev := read[subscriptions.EventMessage](t, conn)
	assert.Equal(t, engine.EventInitializeManager, ev.Name)
	assert.Equal(t, uint64(1), ev.Seq)
	ev = read[subscriptions.EventMessage](t, conn)
	assert.Equal(t, engine.EventInitializeConfig, ev.Name)

	// live
	tn.LaunchDevPool(t, tn.Now()+10)
	ev = read[subscriptions.EventMessage](t, conn)
	assert.Equal(t, engine.EventInitializePool, ev.Name)
	assert.Equal(t, uint64(2), ev.Seq)
	ev = read[subscriptions.EventMessage](t, conn)
	assert.Equal(t, engine.EventLaunch, ev.Name)
	assert.Equal(t, uint64(4), ev.Seq)
	assert.Equal(t, testnode.Head, ev.Signer)
}

func TestFilteredEventSubscription(t *testing.T) {
	tn := testnode.New(t)
	conn := dial(t, tn, "/subscriptions/event?name="+engine.EventLaunch)

	tn.LaunchDevPool(t, tn.Now()+10)
	ev := read[subscriptions.EventMessage](t, conn)
	assert.Equal(t, engine.EventLaunch, ev.Name)
	assert.Equal(t, testnode.DevPool, ev.Subject)
}

func TestTransferSubscription(t *testing.T) {
	tn := testnode.New(t)
	vault := lp.VaultAddress(testnode.DevPool)
	conn := dial(t, tn, "/subscriptions/transfer?recipient="+vault.String())

	tn.LaunchDevPool(t, tn.Now()+10)
	tr := read[subscriptions.TransferMessage](t, conn)
	assert.Equal(t, uint64(3), tr.Seq)
	assert.Equal(t, testnode.Treasury, tr.Sender)
	assert.Equal(t, genesis.DevRewardAsset, tr.Asset)
	assert.Equal(t, testnode.InitialReward, tr.Amount)
}

func TestReceiptSubscription(t *testing.T) {
	tn := testnode.New(t)
	conn := dial(t, tn, "/subscriptions/receipt")

	tn.Operate(t, "transfer", &operations.Transfer{
		Signer:    testnode.Alice,
		Asset:     genesis.DevStakeAsset,
		Recipient: testnode.Bob,
		Amount:    7,
	})
	r := read[node.Receipt](t, conn)
	assert.Equal(t, uint64(2), r.Seq)
	assert.Equal(t, "transfer", r.Op)
	require.Len(t, r.Transfers, 1)
	assert.Equal(t, uint64(7), r.Transfers[0].Amount)
}

func TestReceiptSubscriptionSkipsEarlierReceipts(t *testing.T) {
	tn := testnode.New(t)
	tn.LaunchDevPool(t, tn.Now()+10)
	conn := dial(t, tn, "/subscriptions/receipt")

	tn.Operate(t, "transfer", &operations.Transfer{
		Signer:    testnode.Alice,
		Asset:     genesis.DevStakeAsset,
		Recipient: testnode.Bob,
		Amount:    3,
	})
	r := read[node.Receipt](t, conn)
	assert.Equal(t, uint64(5), r.Seq)
	assert.Equal(t, "transfer", r.Op)
}

func TestSubscriptionRejects(t *testing.T) {
	tn := testnode.NewWithOptions(t, api.Options{BacktraceLimit: 1, LogsLimit: 100})
	tn.LaunchDevPool(t, tn.Now()+10)
	require.NoError(t, tn.Sync())

	tests := []struct {
		name   string
		path   string
		status int
	}{
		{"unknown subject", "/subscriptions/block", http.StatusNotFound},
		{"backtrace limit", "/subscriptions/event?pos=1", http.StatusForbidden},
		{"future pos", "/subscriptions/event?pos=99", http.StatusBadRequest},
		{"bad pos", "/subscriptions/transfer?pos=x", http.StatusBadRequest},
		{"bad address", "/subscriptions/transfer?sender=0x12", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, resp, err := websocket.DefaultDialer.Dial(wsURL(tn, tt.path), nil)
			require.ErrorIs(t, err, websocket.ErrBadHandshake)
			defer resp.Body.Close()
			assert.Equal(t, tt.status, resp.StatusCode)
		})
	}

	// a plain request is refused by the upgrader
	res, err := http.Get(tn.Server.URL + "/subscriptions/event")
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
}
