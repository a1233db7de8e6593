// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package pools

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/stakepad/launchpool/api/restutil"
	"github.com/stakepad/launchpool/engine/pool"
	"github.com/stakepad/launchpool/lp"
	"github.com/stakepad/launchpool/node"
)

type Pools struct {
	node *node.Node
}

func New(n *node.Node) *Pools {
	return &Pools{n}
}

// JSONPool is a pool record with its address.
type JSONPool struct {
	Address lp.Address `json:"address"`
	*pool.Pool
}

func convertPool(p *pool.Pool) *JSONPool {
	return &JSONPool{Address: p.Address(), Pool: p}
}

// handleGetPools lists pools, optionally filtered by ?config=<id> and ?status=<name>.
func (p *Pools) handleGetPools(w http.ResponseWriter, req *http.Request) error {
	var filter node.PoolFilter
	query := req.URL.Query()
	if s := query.Get("config"); s != "" {
		id, err := restutil.ParseUint64("config", s, 0)
		if err != nil {
			return err
		}
		filter.ConfigID = &id
	}
	if s := query.Get("status"); s != "" {
		var status pool.Status
		if err := status.UnmarshalText([]byte(s)); err != nil {
			return restutil.BadRequest(errors.WithMessage(err, "status"))
		}
		filter.Status = &status
	}

	list, err := p.node.Pools(&filter)
	if err != nil {
		return err
	}
	out := make([]*JSONPool, 0, len(list))
	for _, item := range list {
		out = append(out, convertPool(item))
	}
	return restutil.WriteJSON(w, out)
}

func (p *Pools) handleGetPool(w http.ResponseWriter, req *http.Request) error {
	addr, err := restutil.ParseAddress("address", mux.Vars(req)["address"])
	if err != nil {
		return err
	}
	var found *pool.Pool
	if err := p.node.Read(func(v *node.View) (err error) {
		found, err = v.Engine.Pool(addr)
		return
	}); err != nil {
		return err
	}
	return restutil.WriteJSON(w, convertPool(found))
}

func (p *Pools) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").
		Methods(http.MethodGet).
		Name("GET /pools").
		HandlerFunc(restutil.WrapHandlerFunc(p.handleGetPools))
	sub.Path("/{address}").
		Methods(http.MethodGet).
		Name("GET /pools/{address}").
		HandlerFunc(restutil.WrapHandlerFunc(p.handleGetPool))
}
