// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package api

import (
	"net/http"
	"net/http/pprof"
	"strings"
	"sync/atomic"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/stakepad/launchpool/api/assets"
	"github.com/stakepad/launchpool/api/configs"
	"github.com/stakepad/launchpool/api/doc"
	"github.com/stakepad/launchpool/api/events"
	"github.com/stakepad/launchpool/api/middleware"
	apinode "github.com/stakepad/launchpool/api/node"
	"github.com/stakepad/launchpool/api/operations"
	"github.com/stakepad/launchpool/api/pools"
	"github.com/stakepad/launchpool/api/positions"
	"github.com/stakepad/launchpool/api/subscriptions"
	"github.com/stakepad/launchpool/api/transfers"
	"github.com/stakepad/launchpool/log"
	"github.com/stakepad/launchpool/node"
)

var logger = log.WithContext("pkg", "api")

const slowRequestThreshold = time.Second

type Options struct {
	AllowedOrigins string
	BacktraceLimit uint64
	LogsLimit      uint64
	PprofOn        bool
	SkipLogs       bool
	EnableMetrics  bool
	// EnableReqLogger toggles request logging at runtime. Nil disables it.
	EnableReqLogger *atomic.Bool
}

// New return api router
func New(n *node.Node, opts Options) (http.HandlerFunc, func()) {
	origins := strings.Split(strings.TrimSpace(opts.AllowedOrigins), ",")
	for i, o := range origins {
		origins[i] = strings.ToLower(strings.TrimSpace(o))
	}

	router := mux.NewRouter()

	router.PathPrefix("/doc").Handler(
		http.StripPrefix("/doc/", http.FileServer(http.FS(doc.FS))),
	)
	router.Path("/").HandlerFunc(
		func(w http.ResponseWriter, req *http.Request) {
			http.Redirect(w, req, "doc/launchpool.yaml", http.StatusTemporaryRedirect)
		})

	apinode.New(n).
		Mount(router, "/node")
	configs.New(n).
		Mount(router, "/configs")
	pools.New(n).
		Mount(router, "/pools")
	positions.New(n).
		Mount(router, "/positions")
	assets.New(n).
		Mount(router, "/assets")
	operations.New(n).
		Mount(router, "/operations")

	if !opts.SkipLogs {
		events.New(n.EventDB(), opts.LogsLimit).
			Mount(router, "/logs/event")
		transfers.New(n.EventDB(), opts.LogsLimit).
			Mount(router, "/logs/transfer")
	}
	subs := subscriptions.New(n, origins, opts.BacktraceLimit)
	subs.Mount(router, "/subscriptions")

	if opts.PprofOn {
		router.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
		router.HandleFunc("/debug/pprof/profile", pprof.Profile)
		router.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
		router.HandleFunc("/debug/pprof/trace", pprof.Trace)
		router.PathPrefix("/debug/pprof/").HandlerFunc(pprof.Index)
	}

	genesisID := n.Genesis().ID().String()
	router.Use(middleware.RequestID)
	router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			w.Header().Set("X-Genesis-ID", genesisID)
			w.Header().Set("X-Launchpool-Ver", doc.Version())
			next.ServeHTTP(w, req)
		})
	})
	if opts.EnableReqLogger != nil {
		router.Use(middleware.RequestLogger(logger, opts.EnableReqLogger, slowRequestThreshold))
	}
	if opts.EnableMetrics {
		router.Use(middleware.Metrics)
	}

	handler := handlers.CompressHandler(router)
	handler = handlers.CORS(
		handlers.AllowedOrigins(origins),
		handlers.AllowedHeaders([]string{"content-type", "x-genesis-id", "x-request-id"}),
		handlers.ExposedHeaders([]string{"x-genesis-id", "x-launchpool-ver", "x-request-id"}),
	)(handler)

	return handler.ServeHTTP, subs.Close // subscriptions handles hijacked conns, which need to be closed
}
