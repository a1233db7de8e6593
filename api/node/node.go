// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package node

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/stakepad/launchpool/api/restutil"
	"github.com/stakepad/launchpool/lp"
	"github.com/stakepad/launchpool/node"
)

// Info describes the running node.
type Info struct {
	GenesisID   lp.Bytes32 `json:"genesisId"`
	GenesisName string     `json:"genesisName"`
	Timestamp   uint64     `json:"timestamp"`
	LastSeq     uint64     `json:"lastSeq"`
}

type Node struct {
	node *node.Node
}

func New(n *node.Node) *Node {
	return &Node{
		n,
	}
}

func (n *Node) handleNodeInfo(w http.ResponseWriter, _ *http.Request) error {
	gen := n.node.Genesis()
	return restutil.WriteJSON(w, &Info{
		GenesisID:   gen.ID(),
		GenesisName: gen.Name(),
		Timestamp:   n.node.Now(),
		LastSeq:     n.node.LastSeq(),
	})
}

func (n *Node) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/info").
		Methods(http.MethodGet).
		Name("GET /node/info").
		HandlerFunc(restutil.WrapHandlerFunc(n.handleNodeInfo))
}
