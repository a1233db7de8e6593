// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package admin serves the operator endpoints: log level, request logging and health.
package admin

import (
	"log/slog"
	"net/http"
	"sync/atomic"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/stakepad/launchpool/api/admin/apilogs"
	"github.com/stakepad/launchpool/api/admin/health"
	"github.com/stakepad/launchpool/api/admin/loglevel"
	"github.com/stakepad/launchpool/node"
)

// New builds the admin handler. Health is served only when n is not nil.
func New(logLevel *slog.LevelVar, apiLogsToggle *atomic.Bool, n *node.Node) http.HandlerFunc {
	router := mux.NewRouter()
	sub := router.PathPrefix("/admin").Subrouter()

	loglevel.New(logLevel).Mount(sub, "/loglevel")
	apilogs.New(apiLogsToggle).Mount(sub, "/apilogs")
	if n != nil {
		health.New(n, health.DefaultMaxLag).Mount(sub, "/health")
	}

	return handlers.CompressHandler(router).ServeHTTP
}
