// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package node

import (
	"encoding/json"

	"github.com/pkg/errors"

	"github.com/stakepad/launchpool/engine"
	"github.com/stakepad/launchpool/eventdb"
)

// Receipt describes a committed operation.
type Receipt struct {
	Seq       uint64             `json:"seq"`
	Op        string             `json:"op"`
	Timestamp uint64             `json:"timestamp"`
	Events    []*engine.Event    `json:"events"`
	Transfers []*engine.Transfer `json:"transfers"`
}

// newReceipt assigns the next sequence number. Callers hold commitLock.
func (n *Node) newReceipt(op string, now uint64, events []*engine.Event, transfers []*engine.Transfer) *Receipt {
	return &Receipt{
		Seq:       n.seq.Add(1),
		Op:        op,
		Timestamp: now,
		Events:    events,
		Transfers: transfers,
	}
}

// record queues the receipt to be written to the event db. Subscribers are notified once
// it is written.
func (n *Node) record(r *Receipt) error {
	w := n.eventDB.NewWriter()
	for i, ev := range r.Events {
		data, err := json.Marshal(ev.Data)
		if err != nil {
			return errors.Wrapf(err, "encode %v event data", ev.Name)
		}
		w.AppendEvent(&eventdb.Event{
			Seq:       r.Seq,
			Index:     uint32(i),
			Name:      ev.Name,
			Subject:   ev.Subject,
			Signer:    ev.Signer,
			Timestamp: ev.Timestamp,
			Data:      data,
		})
	}
	for i, tr := range r.Transfers {
		w.AppendTransfer(&eventdb.Transfer{
			Seq:       r.Seq,
			Index:     uint32(i),
			Asset:     tr.Asset,
			Sender:    tr.Sender,
			Recipient: tr.Recipient,
			Amount:    tr.Amount,
			Timestamp: r.Timestamp,
		})
	}

	n.writer.Run(func() error {
		if w.Len() > 0 {
			if err := w.Commit(); err != nil {
				logger.Error("failed to write records", "seq", r.Seq, "err", err)
				return err
			}
		}
		n.receiptFeed.Send(r)
		n.written.Broadcast()
		return nil
	})
	return nil
}
