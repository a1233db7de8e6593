// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package middleware

import (
	"bytes"
	"io"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/stakepad/launchpool/log"
)

const maxLoggedBody = 4096

// RequestLogger logs every request while enabled is set, and requests slower than
// slowThreshold regardless. A zero threshold disables slow request logging.
func RequestLogger(logger log.Logger, enabled *atomic.Bool, slowThreshold time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !enabled.Load() && slowThreshold == 0 {
				next.ServeHTTP(w, r)
				return
			}

			var body []byte
			if r.Body != nil {
				var err error
				if body, err = io.ReadAll(r.Body); err != nil {
					logger.Warn("unexpected body read error", "err", err)
					http.Error(w, "unreadable body", http.StatusBadRequest)
					return
				}
				r.Body = io.NopCloser(bytes.NewReader(body))
			}
			if len(body) > maxLoggedBody {
				body = body[:maxLoggedBody]
			}

			start := time.Now()
			rec := newStatusRecorder(w)
			next.ServeHTTP(rec, r)

			duration := time.Since(start)
			if enabled.Load() || (slowThreshold > 0 && duration > slowThreshold) {
				logger.Info("API request",
					"id", RequestIDFrom(r.Context()),
					"method", r.Method,
					"uri", r.URL.String(),
					"status", rec.status,
					"durationMs", duration.Milliseconds(),
					"body", string(body),
				)
			}
		})
	}
}
