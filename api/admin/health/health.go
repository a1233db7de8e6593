// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package health

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/stakepad/launchpool/api/restutil"
	"github.com/stakepad/launchpool/node"
)

// DefaultMaxLag is the number of committed receipts the event db may trail by.
const DefaultMaxLag = 64

// Status reports whether committed operations reach the event db in time.
type Status struct {
	Healthy   bool   `json:"healthy"`
	LastSeq   uint64 `json:"lastSeq"`
	StoredSeq uint64 `json:"storedSeq"`
	NodeTime  uint64 `json:"nodeTime"`
}

type API struct {
	node   *node.Node
	maxLag uint64
}

func New(n *node.Node, maxLag uint64) *API {
	return &API{node: n, maxLag: maxLag}
}

func (h *API) status(ctx context.Context) (*Status, error) {
	// load last before stored: stored never passes last
	last := h.node.LastSeq()
	stored, err := h.node.EventDB().LastSeq(ctx)
	if err != nil {
		return nil, err
	}
	var lag uint64
	if last > stored {
		lag = last - stored
	}
	return &Status{
		Healthy:   lag <= h.maxLag,
		LastSeq:   last,
		StoredSeq: stored,
		NodeTime:  h.node.Now(),
	}, nil
}

func (h *API) handleGetHealth(w http.ResponseWriter, req *http.Request) error {
	status, err := h.status(req.Context())
	if err != nil {
		return err
	}

	w.Header().Set("Content-Type", restutil.JSONContentType)
	if !status.Healthy {
		w.WriteHeader(http.StatusServiceUnavailable)
	} else {
		w.WriteHeader(http.StatusOK)
	}
	return restutil.WriteJSON(w, status)
}

func (h *API) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").
		Methods(http.MethodGet).
		Name("health").
		HandlerFunc(restutil.WrapHandlerFunc(h.handleGetHealth))
}
