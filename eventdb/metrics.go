// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package eventdb

import (
	"strings"

	"github.com/stakepad/launchpool/metrics"
)

var (
	metricCriteriaLengthBucket = metrics.LazyLoadHistogramVec("eventdb_criteria_length_bucket", []string{"type"}, []int64{0, 2, 5, 10, 25, 100})
	metricQueryParameters      = metrics.LazyLoadCounterVec("eventdb_query_parameters", []string{"type", "parameters"})
	metricQueryOrderCounter    = metrics.LazyLoadCounterVec("eventdb_query_order", []string{"type", "order"})
	metricLimitBucket          = metrics.LazyLoadHistogramVec("eventdb_query_limit_bucket", []string{"type"}, []int64{0, 5, 10, 25, 50, 100, 250, 500, 1000})
)

func metricsHandleEventsFilter(filter *EventFilter) {
	if metrics.NoOp() {
		return
	}
	metricsHandleCommon(filter.Options, filter.Order, len(filter.CriteriaSet), "event")

	for _, c := range filter.CriteriaSet {
		var used []string
		if c.Subject != nil {
			used = append(used, "subject")
		}
		if c.Signer != nil {
			used = append(used, "signer")
		}
		if c.Name != nil {
			used = append(used, "name")
		}
		metricQueryParameters().AddWithLabel(1, map[string]string{"type": "event", "parameters": strings.Join(used, ",")})
	}
}

func metricsHandleTransfersFilter(filter *TransferFilter) {
	if metrics.NoOp() {
		return
	}
	metricsHandleCommon(filter.Options, filter.Order, len(filter.CriteriaSet), "transfer")

	for _, c := range filter.CriteriaSet {
		var used []string
		if c.Asset != nil {
			used = append(used, "asset")
		}
		if c.Sender != nil {
			used = append(used, "sender")
		}
		if c.Recipient != nil {
			used = append(used, "recipient")
		}
		metricQueryParameters().AddWithLabel(1, map[string]string{"type": "transfer", "parameters": strings.Join(used, ",")})
	}
}

func metricsHandleCommon(options *Options, order Order, criteriaLen int, queryType string) {
	metricCriteriaLengthBucket().ObserveWithLabels(int64(criteriaLen), map[string]string{"type": queryType})

	if order == DESC {
		metricQueryOrderCounter().AddWithLabel(1, map[string]string{"type": queryType, "order": "desc"})
	} else {
		metricQueryOrderCounter().AddWithLabel(1, map[string]string{"type": queryType, "order": "asc"})
	}
	if options != nil {
		metricLimitBucket().ObserveWithLabels(int64(min(options.Limit, 1001)), map[string]string{"type": queryType})
	}
}
