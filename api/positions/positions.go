// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package positions

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/stakepad/launchpool/api/restutil"
	"github.com/stakepad/launchpool/engine/position"
	"github.com/stakepad/launchpool/fixedpoint"
	"github.com/stakepad/launchpool/lp"
	"github.com/stakepad/launchpool/node"
)

type Positions struct {
	node *node.Node
}

func New(n *node.Node) *Positions {
	return &Positions{n}
}

// JSONPosition is a position record with its address.
type JSONPosition struct {
	Address lp.Address `json:"address"`
	*position.Position
}

// JSONPending is the reward a position would be credited if settled now.
type JSONPending struct {
	Position  lp.Address         `json:"position"`
	Timestamp uint64             `json:"timestamp"`
	Pending   fixedpoint.Q64x128 `json:"pending"`
	Claimable uint64             `json:"claimable"`
}

func convertPosition(p *position.Position) *JSONPosition {
	return &JSONPosition{Address: p.Address(), Position: p}
}

// handleGetPositions lists the positions of ?owner=, or the single position of ?owner= in ?pool=.
func (p *Positions) handleGetPositions(w http.ResponseWriter, req *http.Request) error {
	query := req.URL.Query()
	if query.Get("owner") == "" {
		return restutil.BadRequest(errors.New("owner: required"))
	}
	owner, err := restutil.ParseAddress("owner", query.Get("owner"))
	if err != nil {
		return err
	}

	if s := query.Get("pool"); s != "" {
		poolAddr, err := restutil.ParseAddress("pool", s)
		if err != nil {
			return err
		}
		var found *position.Position
		if err := p.node.Read(func(v *node.View) (err error) {
			found, err = v.Engine.PositionOf(owner, poolAddr)
			return
		}); err != nil {
			return err
		}
		return restutil.WriteJSON(w, []*JSONPosition{convertPosition(found)})
	}

	list, err := p.node.PositionsOf(owner)
	if err != nil {
		return err
	}
	out := make([]*JSONPosition, 0, len(list))
	for _, item := range list {
		out = append(out, convertPosition(item))
	}
	return restutil.WriteJSON(w, out)
}

func (p *Positions) handleGetPosition(w http.ResponseWriter, req *http.Request) error {
	addr, err := restutil.ParseAddress("address", mux.Vars(req)["address"])
	if err != nil {
		return err
	}
	var found *position.Position
	if err := p.node.Read(func(v *node.View) (err error) {
		found, err = v.Engine.Position(addr)
		return
	}); err != nil {
		return err
	}
	return restutil.WriteJSON(w, convertPosition(found))
}

// handleGetPending reports the pending reward at ?timestamp=, defaulting to the node clock.
func (p *Positions) handleGetPending(w http.ResponseWriter, req *http.Request) error {
	addr, err := restutil.ParseAddress("address", mux.Vars(req)["address"])
	if err != nil {
		return err
	}
	var out *JSONPending
	err = p.node.Read(func(v *node.View) error {
		ts, err := restutil.ParseUint64("timestamp", req.URL.Query().Get("timestamp"), v.Now)
		if err != nil {
			return err
		}
		pending, err := v.Engine.PendingReward(addr, ts)
		if err != nil {
			return err
		}
		out = &JSONPending{Position: addr, Timestamp: ts, Pending: pending, Claimable: pending.Uint64()}
		return nil
	})
	if err != nil {
		return err
	}
	return restutil.WriteJSON(w, out)
}

func (p *Positions) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").
		Methods(http.MethodGet).
		Name("GET /positions").
		HandlerFunc(restutil.WrapHandlerFunc(p.handleGetPositions))
	sub.Path("/{address}").
		Methods(http.MethodGet).
		Name("GET /positions/{address}").
		HandlerFunc(restutil.WrapHandlerFunc(p.handleGetPosition))
	sub.Path("/{address}/pending").
		Methods(http.MethodGet).
		Name("GET /positions/{address}/pending").
		HandlerFunc(restutil.WrapHandlerFunc(p.handleGetPending))
}
