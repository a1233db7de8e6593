// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package events

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/stakepad/launchpool/eventdb"
	"github.com/stakepad/launchpool/lp"
)

// Range limits the results to a span of operation sequence numbers or timestamps.
type Range struct {
	Unit eventdb.RangeType `json:"unit"`
	From *uint64           `json:"from,omitempty"`
	To   *uint64           `json:"to,omitempty"`
}

type Options struct {
	Offset uint64 `json:"offset"`
	Limit  uint64 `json:"limit"`
}

type EventCriteria struct {
	Subject *lp.Address `json:"subject"`
	Signer  *lp.Address `json:"signer"`
	Name    *string     `json:"name"`
}

type EventFilter struct {
	CriteriaSet []*EventCriteria `json:"criteriaSet"`
	Range       *Range           `json:"range"`
	Options     *Options         `json:"options"`
	Order       eventdb.Order    `json:"order"`
}

// FilteredEvent is an event as returned by the filter endpoint.
type FilteredEvent struct {
	Seq       uint64          `json:"seq"`
	Index     uint32          `json:"index"`
	Name      string          `json:"name"`
	Subject   lp.Address      `json:"subject"`
	Signer    lp.Address      `json:"signer"`
	Timestamp uint64          `json:"timestamp"`
	Data      json.RawMessage `json:"data"`
}

// ConvertRange validates r and converts it to the db range. A nil result matches everything.
func ConvertRange(r *Range) (*eventdb.Range, error) {
	if r == nil {
		return nil, nil
	}
	switch r.Unit {
	case eventdb.Seq, eventdb.Time:
	case "":
		r.Unit = eventdb.Seq
	default:
		return nil, fmt.Errorf("range.unit: unsupported %q", r.Unit)
	}
	out := &eventdb.Range{Unit: r.Unit}
	if r.From != nil {
		if *r.From > math.MaxInt64 {
			return nil, fmt.Errorf("range.from exceeds the maximum allowed value of %d", int64(math.MaxInt64))
		}
		out.From = *r.From
	}
	if r.To != nil {
		if *r.To < out.From {
			return nil, fmt.Errorf("range.to must be greater than or equal to range.from")
		}
		out.To = min(*r.To, math.MaxInt64)
		return out, nil
	}
	if out.From == 0 {
		return nil, nil
	}
	// a To below From leaves the range open ended
	out.To = 0
	return out, nil
}

// ConvertOptions validates opts against limit. Nil options fetch one row more than limit, so
// that an overflowing result can be detected.
func ConvertOptions(opts *Options, limit uint64) (*eventdb.Options, error) {
	if opts == nil {
		return &eventdb.Options{Limit: limit + 1}, nil
	}
	if opts.Limit > limit {
		return nil, fmt.Errorf("options.limit exceeds the maximum allowed value of %d", limit)
	}
	if opts.Offset > math.MaxInt64 {
		return nil, fmt.Errorf("options.offset exceeds the maximum allowed value of %d", int64(math.MaxInt64))
	}
	return &eventdb.Options{Offset: opts.Offset, Limit: opts.Limit}, nil
}

func convertEventFilter(ef *EventFilter, limit uint64) (*eventdb.EventFilter, error) {
	rng, err := ConvertRange(ef.Range)
	if err != nil {
		return nil, err
	}
	opts, err := ConvertOptions(ef.Options, limit)
	if err != nil {
		return nil, err
	}
	filter := &eventdb.EventFilter{Range: rng, Options: opts, Order: ef.Order}
	for i, c := range ef.CriteriaSet {
		if c == nil {
			return nil, fmt.Errorf("criteriaSet[%d]: null not allowed", i)
		}
		filter.CriteriaSet = append(filter.CriteriaSet, &eventdb.EventCriteria{
			Subject: c.Subject,
			Signer:  c.Signer,
			Name:    c.Name,
		})
	}
	return filter, nil
}

func convertEvent(ev *eventdb.Event) *FilteredEvent {
	return &FilteredEvent{
		Seq:       ev.Seq,
		Index:     ev.Index,
		Name:      ev.Name,
		Subject:   ev.Subject,
		Signer:    ev.Signer,
		Timestamp: ev.Timestamp,
		Data:      ev.Data,
	}
}
