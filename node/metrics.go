// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package node

import (
	"time"

	"github.com/stakepad/launchpool/metrics"
	"github.com/stakepad/launchpool/engine/reverts"
)

var (
	metricOperationCount    = metrics.LazyLoadCounterVec("operation_count", []string{"op", "status"})
	metricOperationDuration = metrics.LazyLoadHistogramVec(
		"operation_duration_ms", []string{"op", "status"}, []int64{1, 5, 10, 50, 100, 500, 1000, 5000},
	)
	metricCommitConflicts = metrics.LazyLoadCounterVec("commit_conflict_count", []string{"op"})
	metricPoolsByStatus   = metrics.LazyLoadGaugeVec("pools_by_status", []string{"status"})
	metricLastSeq         = metrics.LazyLoadGauge("last_seq")
)

// evalOperationMetrics captures count and duration of an operation by outcome.
func evalOperationMetrics(op string, f func() error) error {
	startTime := time.Now()

	err := f()
	status := "committed"
	if err != nil {
		if reverts.IsRevertErr(err) {
			status = "reverted"
		} else {
			status = "failed"
		}
	}
	labels := map[string]string{"op": op, "status": status}
	metricOperationCount().AddWithLabel(1, labels)
	metricOperationDuration().ObserveWithLabels(time.Since(startTime).Milliseconds(), labels)
	return err
}
