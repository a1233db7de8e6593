// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/stakepad/launchpool/metrics"
)

var (
	metricHTTPReqCounter  = metrics.LazyLoadCounterVec("api_request_count", []string{"name", "code", "method"})
	metricHTTPReqDuration = metrics.LazyLoadHistogramVec(
		"api_duration_ms", []string{"name", "code", "method"}, []int64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 5000},
	)
	metricWebsocketConns = metrics.LazyLoadGaugeVec("api_active_websocket_count", []string{"name"})
)

// Metrics records count and latency of every request, labelled by route name.
// Requests that matched no named route are not recorded.
func Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		route := mux.CurrentRoute(r)
		if route == nil || route.GetName() == "" {
			next.ServeHTTP(w, r)
			return
		}
		name := route.GetName()

		start := time.Now()
		rec := newStatusRecorder(w)
		next.ServeHTTP(rec, r)

		if rec.status == http.StatusSwitchingProtocols {
			// websocket: the handler returned once the connection closed
			return
		}
		labels := map[string]string{"name": name, "code": strconv.Itoa(rec.status), "method": r.Method}
		metricHTTPReqCounter().AddWithLabel(1, labels)
		metricHTTPReqDuration().ObserveWithLabels(time.Since(start).Milliseconds(), labels)
	})
}

// TrackWebsocket counts an open websocket of the named subscription until the returned func is called.
func TrackWebsocket(name string) func() {
	labels := map[string]string{"name": name}
	metricWebsocketConns().AddWithLabel(1, labels)
	return func() { metricWebsocketConns().AddWithLabel(-1, labels) }
}
