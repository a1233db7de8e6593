// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package subscriptions

import (
	"context"
	"encoding/json"

	"github.com/stakepad/launchpool/eventdb"
	"github.com/stakepad/launchpool/lp"
)

const readBatch = 100

// msgReader reads the messages that appeared after its position.
// The bool result reports whether more messages may be read right away.
type msgReader interface {
	Read(ctx context.Context) ([]any, bool, error)
}

// cursor is where the next read starts: at sequence from, past the skip matching records
// of from already delivered.
type cursor struct {
	from uint64
	skip uint64
}

// newCursor positions after every record of seq.
func newCursor(seq uint64) *cursor {
	return &cursor{from: seq + 1}
}

func (c *cursor) advance(seq uint64) {
	if seq == c.from {
		c.skip++
		return
	}
	c.from, c.skip = seq, 1
}

func (c *cursor) dbRange() *eventdb.Range {
	// To below From leaves the range open ended
	return &eventdb.Range{Unit: eventdb.Seq, From: c.from}
}

func (c *cursor) options() *eventdb.Options {
	return &eventdb.Options{Offset: c.skip, Limit: readBatch}
}

type EventMessage struct {
	Seq       uint64          `json:"seq"`
	Index     uint32          `json:"index"`
	Name      string          `json:"name"`
	Subject   lp.Address      `json:"subject"`
	Signer    lp.Address      `json:"signer"`
	Timestamp uint64          `json:"timestamp"`
	Data      json.RawMessage `json:"data"`
}

type TransferMessage struct {
	Seq       uint64     `json:"seq"`
	Index     uint32     `json:"index"`
	Asset     lp.Address `json:"asset"`
	Sender    lp.Address `json:"sender"`
	Recipient lp.Address `json:"recipient"`
	Amount    uint64     `json:"amount"`
	Timestamp uint64     `json:"timestamp"`
}

type eventReader struct {
	db       *eventdb.EventDB
	criteria *eventdb.EventCriteria
	pos      *cursor
}

func newEventReader(db *eventdb.EventDB, criteria *eventdb.EventCriteria, seq uint64) *eventReader {
	return &eventReader{db: db, criteria: criteria, pos: newCursor(seq)}
}

func (r *eventReader) Read(ctx context.Context) ([]any, bool, error) {
	events, err := r.db.FilterEvents(ctx, &eventdb.EventFilter{
		CriteriaSet: []*eventdb.EventCriteria{r.criteria},
		Range:       r.pos.dbRange(),
		Options:     r.pos.options(),
	})
	if err != nil {
		return nil, false, err
	}
	var msgs []any
	for _, ev := range events {
		msgs = append(msgs, &EventMessage{
			Seq:       ev.Seq,
			Index:     ev.Index,
			Name:      ev.Name,
			Subject:   ev.Subject,
			Signer:    ev.Signer,
			Timestamp: ev.Timestamp,
			Data:      ev.Data,
		})
		r.pos.advance(ev.Seq)
	}
	return msgs, len(events) == readBatch, nil
}

type transferReader struct {
	db       *eventdb.EventDB
	criteria *eventdb.TransferCriteria
	pos      *cursor
}

func newTransferReader(db *eventdb.EventDB, criteria *eventdb.TransferCriteria, seq uint64) *transferReader {
	return &transferReader{db: db, criteria: criteria, pos: newCursor(seq)}
}

func (r *transferReader) Read(ctx context.Context) ([]any, bool, error) {
	transfers, err := r.db.FilterTransfers(ctx, &eventdb.TransferFilter{
		CriteriaSet: []*eventdb.TransferCriteria{r.criteria},
		Range:       r.pos.dbRange(),
		Options:     r.pos.options(),
	})
	if err != nil {
		return nil, false, err
	}
	var msgs []any
	for _, tr := range transfers {
		msgs = append(msgs, &TransferMessage{
			Seq:       tr.Seq,
			Index:     tr.Index,
			Asset:     tr.Asset,
			Sender:    tr.Sender,
			Recipient: tr.Recipient,
			Amount:    tr.Amount,
			Timestamp: tr.Timestamp,
		})
		r.pos.advance(tr.Seq)
	}
	return msgs, len(transfers) == readBatch, nil
}
