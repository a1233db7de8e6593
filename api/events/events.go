// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package events

import (
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/stakepad/launchpool/api/restutil"
	"github.com/stakepad/launchpool/eventdb"
)

type Events struct {
	db    *eventdb.EventDB
	limit uint64
}

func New(db *eventdb.EventDB, limit uint64) *Events {
	return &Events{
		db,
		limit,
	}
}

func (e *Events) handleFilter(w http.ResponseWriter, req *http.Request) error {
	var ef EventFilter
	if err := restutil.ParseJSON(req.Body, &ef); err != nil {
		return restutil.BadRequest(errors.WithMessage(err, "body"))
	}
	if ef.Order != "" && ef.Order != eventdb.ASC && ef.Order != eventdb.DESC {
		return restutil.BadRequest(fmt.Errorf("order: unsupported %q", ef.Order))
	}
	filter, err := convertEventFilter(&ef, e.limit)
	if err != nil {
		return restutil.BadRequest(err)
	}

	events, err := e.db.FilterEvents(req.Context(), filter)
	if err != nil {
		return err
	}
	if uint64(len(events)) > e.limit {
		return restutil.Forbidden(fmt.Errorf("the number of filtered events exceeds the maximum allowed value of %d, please use pagination", e.limit))
	}

	out := make([]*FilteredEvent, len(events))
	for i, ev := range events {
		out[i] = convertEvent(ev)
	}
	return restutil.WriteJSON(w, out)
}

func (e *Events) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").
		Methods(http.MethodPost).
		Name("POST /logs/event").
		HandlerFunc(restutil.WrapHandlerFunc(e.handleFilter))
}
