// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package eventdb

import (
	"encoding/json"

	"github.com/stakepad/launchpool/lp"
)

// Event is an engine event as stored in the db.
type Event struct {
	Seq       uint64
	Index     uint32
	Name      string
	Subject   lp.Address
	Signer    lp.Address
	Timestamp uint64
	Data      json.RawMessage
}

// Transfer is an asset movement made by an operation.
type Transfer struct {
	Seq       uint64
	Index     uint32
	Asset     lp.Address
	Sender    lp.Address
	Recipient lp.Address
	Amount    uint64
	Timestamp uint64
}

type RangeType string

const (
	Seq  RangeType = "seq"
	Time RangeType = "time"
)

type Order string

const (
	ASC  Order = "asc"
	DESC Order = "desc"
)

// Range is an inclusive range. A To lower than From leaves the range open ended.
type Range struct {
	Unit RangeType
	From uint64
	To   uint64
}

type Options struct {
	Offset uint64
	Limit  uint64
}

// EventCriteria matches events. Nil fields match anything.
type EventCriteria struct {
	Subject *lp.Address
	Signer  *lp.Address
	Name    *string
}

type EventFilter struct {
	CriteriaSet []*EventCriteria
	Range       *Range
	Options     *Options
	Order       Order // default asc
}

// TransferCriteria matches transfers. Nil fields match anything.
type TransferCriteria struct {
	Asset     *lp.Address
	Sender    *lp.Address
	Recipient *lp.Address
}

type TransferFilter struct {
	CriteriaSet []*TransferCriteria
	Range       *Range
	Options     *Options
	Order       Order // default asc
}
