// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package configs

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/stakepad/launchpool/api/restutil"
	"github.com/stakepad/launchpool/engine/configs"
	"github.com/stakepad/launchpool/lp"
	"github.com/stakepad/launchpool/node"
)

// Configs serves the configs manager and the configs.
type Configs struct {
	node *node.Node
}

func New(n *node.Node) *Configs {
	return &Configs{n}
}

// JSONManager is the manager record with its address.
type JSONManager struct {
	Address lp.Address `json:"address"`
	*configs.Manager
}

// JSONConfig is a config record with its address.
type JSONConfig struct {
	Address lp.Address `json:"address"`
	*configs.Config
}

func convertConfig(cfg *configs.Config) *JSONConfig {
	return &JSONConfig{Address: cfg.Address(), Config: cfg}
}

func (c *Configs) handleGetManager(w http.ResponseWriter, _ *http.Request) error {
	var m *configs.Manager
	if err := c.node.Read(func(v *node.View) (err error) {
		m, err = v.Engine.Manager()
		return
	}); err != nil {
		return err
	}
	return restutil.WriteJSON(w, &JSONManager{Address: lp.ConfigsManagerAddress(), Manager: m})
}

func (c *Configs) handleGetConfigs(w http.ResponseWriter, _ *http.Request) error {
	list, err := c.node.Configs()
	if err != nil {
		return err
	}
	out := make([]*JSONConfig, 0, len(list))
	for _, cfg := range list {
		out = append(out, convertConfig(cfg))
	}
	return restutil.WriteJSON(w, out)
}

func (c *Configs) handleGetConfig(w http.ResponseWriter, req *http.Request) error {
	id, err := restutil.ParseUint64("id", mux.Vars(req)["id"], 0)
	if err != nil {
		return err
	}
	var cfg *configs.Config
	if err := c.node.Read(func(v *node.View) (err error) {
		cfg, err = v.Engine.Config(id)
		return
	}); err != nil {
		return err
	}
	return restutil.WriteJSON(w, convertConfig(cfg))
}

func (c *Configs) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/manager").
		Methods(http.MethodGet).
		Name("GET /configs/manager").
		HandlerFunc(restutil.WrapHandlerFunc(c.handleGetManager))
	sub.Path("").
		Methods(http.MethodGet).
		Name("GET /configs").
		HandlerFunc(restutil.WrapHandlerFunc(c.handleGetConfigs))
	sub.Path("/{id:[0-9]+}").
		Methods(http.MethodGet).
		Name("GET /configs/{id}").
		HandlerFunc(restutil.WrapHandlerFunc(c.handleGetConfig))
}
