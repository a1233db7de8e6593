// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package transfers

import (
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/stakepad/launchpool/api/events"
	"github.com/stakepad/launchpool/api/restutil"
	"github.com/stakepad/launchpool/eventdb"
	"github.com/stakepad/launchpool/lp"
)

type TransferCriteria struct {
	Asset     *lp.Address `json:"asset"`
	Sender    *lp.Address `json:"sender"`
	Recipient *lp.Address `json:"recipient"`
}

type TransferFilter struct {
	CriteriaSet []*TransferCriteria `json:"criteriaSet"`
	Range       *events.Range       `json:"range"`
	Options     *events.Options     `json:"options"`
	Order       eventdb.Order       `json:"order"`
}

type FilteredTransfer struct {
	Seq       uint64     `json:"seq"`
	Index     uint32     `json:"index"`
	Asset     lp.Address `json:"asset"`
	Sender    lp.Address `json:"sender"`
	Recipient lp.Address `json:"recipient"`
	Amount    uint64     `json:"amount"`
	Timestamp uint64     `json:"timestamp"`
}

type Transfers struct {
	db    *eventdb.EventDB
	limit uint64
}

func New(db *eventdb.EventDB, limit uint64) *Transfers {
	return &Transfers{
		db,
		limit,
	}
}

func (t *Transfers) convertFilter(tf *TransferFilter) (*eventdb.TransferFilter, error) {
	if tf.Order != "" && tf.Order != eventdb.ASC && tf.Order != eventdb.DESC {
		return nil, fmt.Errorf("order: unsupported %q", tf.Order)
	}
	rng, err := events.ConvertRange(tf.Range)
	if err != nil {
		return nil, err
	}
	opts, err := events.ConvertOptions(tf.Options, t.limit)
	if err != nil {
		return nil, err
	}
	filter := &eventdb.TransferFilter{Range: rng, Options: opts, Order: tf.Order}
	for i, c := range tf.CriteriaSet {
		if c == nil {
			return nil, fmt.Errorf("criteriaSet[%d]: null not allowed", i)
		}
		filter.CriteriaSet = append(filter.CriteriaSet, &eventdb.TransferCriteria{
			Asset:     c.Asset,
			Sender:    c.Sender,
			Recipient: c.Recipient,
		})
	}
	return filter, nil
}

func (t *Transfers) handleFilter(w http.ResponseWriter, req *http.Request) error {
	var tf TransferFilter
	if err := restutil.ParseJSON(req.Body, &tf); err != nil {
		return restutil.BadRequest(errors.WithMessage(err, "body"))
	}
	filter, err := t.convertFilter(&tf)
	if err != nil {
		return restutil.BadRequest(err)
	}

	transfers, err := t.db.FilterTransfers(req.Context(), filter)
	if err != nil {
		return err
	}
	if uint64(len(transfers)) > t.limit {
		return restutil.Forbidden(fmt.Errorf("the number of filtered transfers exceeds the maximum allowed value of %d, please use pagination", t.limit))
	}

	out := make([]*FilteredTransfer, len(transfers))
	for i, tr := range transfers {
		out[i] = &FilteredTransfer{
			Seq:       tr.Seq,
			Index:     tr.Index,
			Asset:     tr.Asset,
			Sender:    tr.Sender,
			Recipient: tr.Recipient,
			Amount:    tr.Amount,
			Timestamp: tr.Timestamp,
		}
	}
	return restutil.WriteJSON(w, out)
}

func (t *Transfers) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").
		Methods(http.MethodPost).
		Name("POST /logs/transfer").
		HandlerFunc(restutil.WrapHandlerFunc(t.handleFilter))
}
