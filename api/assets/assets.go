// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package assets

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/stakepad/launchpool/api/restutil"
	"github.com/stakepad/launchpool/custody"
	"github.com/stakepad/launchpool/lp"
	"github.com/stakepad/launchpool/node"
)

type Assets struct {
	node *node.Node
}

func New(n *node.Node) *Assets {
	return &Assets{n}
}

// JSONAsset is a registered asset with its safety verdict.
type JSONAsset struct {
	Address lp.Address `json:"address"`
	*custody.Asset
	Safe bool `json:"safe"`
}

type JSONBalance struct {
	Asset   lp.Address `json:"asset"`
	Holder  lp.Address `json:"holder"`
	Balance uint64     `json:"balance"`
}

func (a *Assets) handleGetAsset(w http.ResponseWriter, req *http.Request) error {
	addr, err := restutil.ParseAddress("asset", mux.Vars(req)["asset"])
	if err != nil {
		return err
	}
	var out *JSONAsset
	if err := a.node.Read(func(v *node.View) error {
		asset, err := v.Ledger.Asset(addr)
		if err != nil {
			return err
		}
		out = &JSONAsset{Address: addr, Asset: asset, Safe: asset.CheckSafety() == nil}
		return nil
	}); err != nil {
		return err
	}
	return restutil.WriteJSON(w, out)
}

func (a *Assets) handleGetBalance(w http.ResponseWriter, req *http.Request) error {
	asset, err := restutil.ParseAddress("asset", mux.Vars(req)["asset"])
	if err != nil {
		return err
	}
	holder, err := restutil.ParseAddress("holder", mux.Vars(req)["holder"])
	if err != nil {
		return err
	}
	out := &JSONBalance{Asset: asset, Holder: holder}
	if err := a.node.Read(func(v *node.View) error {
		if _, err := v.Ledger.Asset(asset); err != nil {
			return err
		}
		out.Balance, err = v.Ledger.BalanceOf(asset, holder)
		return err
	}); err != nil {
		return err
	}
	return restutil.WriteJSON(w, out)
}

func (a *Assets) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/{asset}").
		Methods(http.MethodGet).
		Name("GET /assets/{asset}").
		HandlerFunc(restutil.WrapHandlerFunc(a.handleGetAsset))
	sub.Path("/{asset}/balances/{holder}").
		Methods(http.MethodGet).
		Name("GET /assets/{asset}/balances/{holder}").
		HandlerFunc(restutil.WrapHandlerFunc(a.handleGetBalance))
}
