// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package eventdb stores engine events and asset transfers in sqlite for querying.
package eventdb

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"

	sqlite3 "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"

	"github.com/stakepad/launchpool/lp"
)

const (
	insertEventQuery    = "INSERT OR REPLACE INTO event(seq, eventIndex, name, subject, signer, timestamp, data) VALUES (?, ?, ?, ?, ?, ?, ?)"
	insertTransferQuery = "INSERT OR REPLACE INTO transfer(seq, transferIndex, asset, sender, recipient, amount, timestamp) VALUES (?, ?, ?, ?, ?, ?, ?)"
)

type EventDB struct {
	path          string
	db            *sql.DB
	driverVersion string
	stmtCache     *stmtCache
}

// New create or open event db at given path.
func New(path string) (eventDB *EventDB, err error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if eventDB == nil {
			db.Close()
		}
	}()
	// a memory db lives only as long as its connection
	if path == ":memory:" {
		db.SetMaxOpenConns(1)
	}
	if _, err := db.Exec(eventTableSchema + transferTableSchema); err != nil {
		return nil, errors.Wrap(err, "create tables")
	}

	driverVer, _, _ := sqlite3.Version()
	return &EventDB{
		path:          path,
		db:            db,
		driverVersion: driverVer,
		stmtCache:     newStmtCache(db),
	}, nil
}

// NewMem create an event db in ram.
func NewMem() (*EventDB, error) {
	return New(":memory:")
}

// Close close the event db.
func (db *EventDB) Close() error {
	db.stmtCache.Clear()
	return db.db.Close()
}

func (db *EventDB) Path() string {
	return db.path
}

func (db *EventDB) DriverVersion() string {
	return db.driverVersion
}

// LastSeq returns the highest operation sequence stored, 0 if none.
func (db *EventDB) LastSeq(ctx context.Context) (uint64, error) {
	var seq sql.NullInt64
	row := db.db.QueryRowContext(ctx, "SELECT MAX(seq) FROM (SELECT seq FROM event UNION ALL SELECT seq FROM transfer)")
	if err := row.Scan(&seq); err != nil {
		return 0, err
	}
	return uint64(seq.Int64), nil
}

func (db *EventDB) FilterEvents(ctx context.Context, filter *EventFilter) ([]*Event, error) {
	const query = "SELECT seq, eventIndex, name, subject, signer, timestamp, data FROM event WHERE 1"
	if filter == nil {
		return db.queryEvents(ctx, query+" ORDER BY seq ASC, eventIndex ASC")
	}
	metricsHandleEventsFilter(filter)

	var (
		args []any
		stmt = query
	)
	stmt, args = appendRange(stmt, args, filter.Range)
	for i, criteria := range filter.CriteriaSet {
		if i == 0 {
			stmt += " AND (( 1"
		} else {
			stmt += " OR ( 1"
		}
		if criteria.Subject != nil {
			args = append(args, criteria.Subject.Bytes())
			stmt += " AND subject = ?"
		}
		if criteria.Signer != nil {
			args = append(args, criteria.Signer.Bytes())
			stmt += " AND signer = ?"
		}
		if criteria.Name != nil {
			args = append(args, *criteria.Name)
			stmt += " AND name = ?"
		}
		stmt += ")"
	}
	if len(filter.CriteriaSet) > 0 {
		stmt += ")"
	}
	stmt += orderBy(filter.Order, "eventIndex")
	stmt, args = appendOptions(stmt, args, filter.Options)
	return db.queryEvents(ctx, stmt, args...)
}

func (db *EventDB) FilterTransfers(ctx context.Context, filter *TransferFilter) ([]*Transfer, error) {
	const query = "SELECT seq, transferIndex, asset, sender, recipient, amount, timestamp FROM transfer WHERE 1"
	if filter == nil {
		return db.queryTransfers(ctx, query+" ORDER BY seq ASC, transferIndex ASC")
	}
	metricsHandleTransfersFilter(filter)

	var (
		args []any
		stmt = query
	)
	stmt, args = appendRange(stmt, args, filter.Range)
	for i, criteria := range filter.CriteriaSet {
		if i == 0 {
			stmt += " AND (( 1"
		} else {
			stmt += " OR ( 1"
		}
		if criteria.Asset != nil {
			args = append(args, criteria.Asset.Bytes())
			stmt += " AND asset = ?"
		}
		if criteria.Sender != nil {
			args = append(args, criteria.Sender.Bytes())
			stmt += " AND sender = ?"
		}
		if criteria.Recipient != nil {
			args = append(args, criteria.Recipient.Bytes())
			stmt += " AND recipient = ?"
		}
		stmt += ")"
	}
	if len(filter.CriteriaSet) > 0 {
		stmt += ")"
	}
	stmt += orderBy(filter.Order, "transferIndex")
	stmt, args = appendOptions(stmt, args, filter.Options)
	return db.queryTransfers(ctx, stmt, args...)
}

func appendRange(stmt string, args []any, r *Range) (string, []any) {
	if r == nil {
		return stmt, args
	}
	column := "seq"
	if r.Unit == Time {
		column = "timestamp"
	}
	args = append(args, r.From)
	stmt += fmt.Sprintf(" AND %s >= ?", column)
	if r.To >= r.From {
		args = append(args, r.To)
		stmt += fmt.Sprintf(" AND %s <= ?", column)
	}
	return stmt, args
}

func appendOptions(stmt string, args []any, opts *Options) (string, []any) {
	if opts == nil {
		return stmt, args
	}
	return stmt + " LIMIT ?, ?", append(args, opts.Offset, opts.Limit)
}

func orderBy(order Order, indexColumn string) string {
	if order == DESC {
		return fmt.Sprintf(" ORDER BY seq DESC, %s DESC", indexColumn)
	}
	return fmt.Sprintf(" ORDER BY seq ASC, %s ASC", indexColumn)
}

func (db *EventDB) queryEvents(ctx context.Context, stmt string, args ...any) ([]*Event, error) {
	rows, err := db.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []*Event
	for rows.Next() {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		var (
			ev      Event
			subject []byte
			signer  []byte
			data    []byte
		)
		if err := rows.Scan(&ev.Seq, &ev.Index, &ev.Name, &subject, &signer, &ev.Timestamp, &data); err != nil {
			return nil, err
		}
		ev.Subject = lp.BytesToAddress(subject)
		ev.Signer = lp.BytesToAddress(signer)
		ev.Data = data
		events = append(events, &ev)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return events, nil
}

func (db *EventDB) queryTransfers(ctx context.Context, stmt string, args ...any) ([]*Transfer, error) {
	rows, err := db.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var transfers []*Transfer
	for rows.Next() {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		var (
			tr        Transfer
			asset     []byte
			sender    []byte
			recipient []byte
			amount    string
		)
		if err := rows.Scan(&tr.Seq, &tr.Index, &asset, &sender, &recipient, &amount, &tr.Timestamp); err != nil {
			return nil, err
		}
		if tr.Amount, err = strconv.ParseUint(amount, 10, 64); err != nil {
			return nil, errors.Wrap(err, "transfer amount")
		}
		tr.Asset = lp.BytesToAddress(asset)
		tr.Sender = lp.BytesToAddress(sender)
		tr.Recipient = lp.BytesToAddress(recipient)
		transfers = append(transfers, &tr)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return transfers, nil
}

// NewWriter creates a writer collecting the records of operations.
func (db *EventDB) NewWriter() *Writer {
	return &Writer{db: db}
}

// Writer collects events and transfers and writes them in one sql transaction.
type Writer struct {
	db        *EventDB
	events    []*Event
	transfers []*Transfer
}

func (w *Writer) AppendEvent(ev *Event) *Writer {
	w.events = append(w.events, ev)
	return w
}

func (w *Writer) AppendTransfer(tr *Transfer) *Writer {
	w.transfers = append(w.transfers, tr)
	return w
}

// Len returns the number of uncommitted records.
func (w *Writer) Len() int {
	return len(w.events) + len(w.transfers)
}

// Commit writes the collected records.
func (w *Writer) Commit() error {
	if w.Len() == 0 {
		return nil
	}
	if err := w.exec(); err != nil {
		return err
	}
	w.events = w.events[:0]
	w.transfers = w.transfers[:0]
	return nil
}

func (w *Writer) exec() (err error) {
	// prepared before the transaction takes the connection
	eventStmt, err := w.db.stmtCache.Prepare(insertEventQuery)
	if err != nil {
		return err
	}
	transferStmt, err := w.db.stmtCache.Prepare(insertTransferQuery)
	if err != nil {
		return err
	}

	tx, err := w.db.db.Begin()
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	for _, ev := range w.events {
		if _, err = tx.Stmt(eventStmt).Exec(
			ev.Seq,
			ev.Index,
			ev.Name,
			ev.Subject.Bytes(),
			ev.Signer.Bytes(),
			ev.Timestamp,
			[]byte(ev.Data),
		); err != nil {
			return errors.Wrap(err, "insert event")
		}
	}

	for _, tr := range w.transfers {
		if _, err = tx.Stmt(transferStmt).Exec(
			tr.Seq,
			tr.Index,
			tr.Asset.Bytes(),
			tr.Sender.Bytes(),
			tr.Recipient.Bytes(),
			strconv.FormatUint(tr.Amount, 10),
			tr.Timestamp,
		); err != nil {
			return errors.Wrap(err, "insert transfer")
		}
	}
	return tx.Commit()
}
