// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package subscriptions streams events, transfers and receipts over websocket.
package subscriptions

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/pkg/errors"

	"github.com/stakepad/launchpool/api/middleware"
	"github.com/stakepad/launchpool/api/restutil"
	"github.com/stakepad/launchpool/co"
	"github.com/stakepad/launchpool/eventdb"
	"github.com/stakepad/launchpool/log"
	"github.com/stakepad/launchpool/lp"
	"github.com/stakepad/launchpool/node"
)

var logger = log.WithContext("pkg", "subscriptions")

const (
	// time allowed to write a message to the peer
	writeWait = 10 * time.Second
	// time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second
	// send pings to peer with this period, must be less than pongWait
	pingPeriod = (pongWait * 7) / 10

	listenerBuffer = 64
)

type Subscriptions struct {
	node           *node.Node
	backtraceLimit uint64
	upgrader       *websocket.Upgrader
	cache          *messageCache

	mu        sync.RWMutex
	listeners map[chan *node.Receipt]uint64 // listener to the seq it listens after

	done chan struct{}
	wg   sync.WaitGroup
}

func New(n *node.Node, allowedOrigins []string, backtraceLimit uint64) *Subscriptions {
	s := &Subscriptions{
		node:           n,
		backtraceLimit: backtraceLimit,
		upgrader: &websocket.Upgrader{
			EnableCompression: true,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" {
					return true
				}
				for _, allowed := range allowedOrigins {
					if allowed == origin || allowed == "*" {
						return true
					}
				}
				return false
			},
		},
		cache:     newMessageCache(messageCacheBytes),
		listeners: make(map[chan *node.Receipt]uint64),
		done:      make(chan struct{}),
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.dispatchLoop()
	}()
	return s
}

// dispatchLoop fans receipts out to the websocket listeners. Slow listeners miss receipts
// rather than stall the node.
func (s *Subscriptions) dispatchLoop() {
	ch := make(chan *node.Receipt, listenerBuffer)
	sub := s.node.SubscribeReceipts(ch)
	defer sub.Unsubscribe()

	for {
		select {
		case r := <-ch:
			s.mu.RLock()
			for lsn, from := range s.listeners {
				if r.Seq <= from {
					continue
				}
				select {
				case lsn <- r:
				default:
				}
			}
			s.mu.RUnlock()
		case <-sub.Err():
			return
		case <-s.done:
			return
		}
	}
}

// listen registers a listener for receipts committed from now on.
func (s *Subscriptions) listen() chan *node.Receipt {
	ch := make(chan *node.Receipt, listenerBuffer)
	s.mu.Lock()
	s.listeners[ch] = s.node.LastSeq()
	s.mu.Unlock()
	return ch
}

func (s *Subscriptions) unlisten(ch chan *node.Receipt) {
	s.mu.Lock()
	delete(s.listeners, ch)
	s.mu.Unlock()
}

// parsePosition returns the sequence number to stream after, ?pos= or the latest written.
func (s *Subscriptions) parsePosition(req *http.Request) (uint64, error) {
	last, err := s.node.EventDB().LastSeq(req.Context())
	if err != nil {
		return 0, err
	}
	pos, err := restutil.ParseUint64("pos", req.URL.Query().Get("pos"), last)
	if err != nil {
		return 0, err
	}
	if pos > last {
		return 0, restutil.BadRequest(errors.New("pos: beyond the latest sequence"))
	}
	if last-pos > s.backtraceLimit {
		return 0, restutil.Forbidden(errors.New("pos: backtrace limit exceeded"))
	}
	return pos, nil
}

func optionalAddress(req *http.Request, name string) (*lp.Address, error) {
	s := req.URL.Query().Get(name)
	if s == "" {
		return nil, nil
	}
	addr, err := restutil.ParseAddress(name, s)
	if err != nil {
		return nil, err
	}
	return &addr, nil
}

func (s *Subscriptions) newEventReader(req *http.Request) (msgReader, error) {
	pos, err := s.parsePosition(req)
	if err != nil {
		return nil, err
	}
	var criteria eventdb.EventCriteria
	if criteria.Subject, err = optionalAddress(req, "subject"); err != nil {
		return nil, err
	}
	if criteria.Signer, err = optionalAddress(req, "signer"); err != nil {
		return nil, err
	}
	if name := req.URL.Query().Get("name"); name != "" {
		criteria.Name = &name
	}
	return newEventReader(s.node.EventDB(), &criteria, pos), nil
}

func (s *Subscriptions) newTransferReader(req *http.Request) (msgReader, error) {
	pos, err := s.parsePosition(req)
	if err != nil {
		return nil, err
	}
	var criteria eventdb.TransferCriteria
	if criteria.Asset, err = optionalAddress(req, "asset"); err != nil {
		return nil, err
	}
	if criteria.Sender, err = optionalAddress(req, "sender"); err != nil {
		return nil, err
	}
	if criteria.Recipient, err = optionalAddress(req, "recipient"); err != nil {
		return nil, err
	}
	return newTransferReader(s.node.EventDB(), &criteria, pos), nil
}

func (s *Subscriptions) handleSubject(w http.ResponseWriter, req *http.Request) error {
	var (
		reader   msgReader
		receipts chan *node.Receipt
		err      error
	)
	subject := mux.Vars(req)["subject"]
	switch subject {
	case "event":
		reader, err = s.newEventReader(req)
	case "transfer":
		reader, err = s.newTransferReader(req)
	case "receipt":
		// listening before the upgrade completes, receipts committed once the peer is
		// connected are never missed
		receipts = s.listen()
		defer s.unlisten(receipts)
	default:
		return restutil.NotFound(fmt.Errorf("subject %q not found", subject))
	}
	if err != nil {
		return err
	}

	conn, closed, err := s.upgrade(w, req)
	if err != nil {
		// the upgrader has replied
		logger.Debug("upgrade to websocket", "err", err)
		return nil
	}
	defer middleware.TrackWebsocket(subject)()

	if reader == nil {
		err = s.pipeReceipts(conn, receipts, closed)
	} else {
		err = s.pipe(req.Context(), conn, reader, closed)
	}
	s.closeConn(conn, err)
	return nil
}

// upgrade switches to websocket. The returned channel is closed once the peer hung up.
func (s *Subscriptions) upgrade(w http.ResponseWriter, req *http.Request) (*websocket.Conn, <-chan struct{}, error) {
	conn, err := s.upgrader.Upgrade(w, req, nil)
	if err != nil {
		return nil, nil, err
	}

	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
	return conn, closed, nil
}

func (s *Subscriptions) closeConn(conn *websocket.Conn, err error) {
	var msg []byte
	if err != nil {
		msg = websocket.FormatCloseMessage(websocket.CloseInternalServerErr, err.Error())
	} else {
		msg = websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	}
	if err := conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait)); err != nil {
		logger.Debug("write close message", "err", err)
	}
	if err := conn.Close(); err != nil {
		logger.Debug("close websocket", "err", err)
	}
}

func ping(conn *websocket.Conn) error {
	return conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait))
}

func (s *Subscriptions) pipe(ctx context.Context, conn *websocket.Conn, reader msgReader, closed <-chan struct{}) error {
	// created before the first read, so no write between the read and the wait is missed
	ticker := s.node.NewTicker()
	pingTicker := time.NewTicker(pingPeriod)
	defer pingTicker.Stop()

	for {
		msgs, hasMore, err := reader.Read(ctx)
		if err != nil {
			return err
		}
		for _, msg := range msgs {
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(msg); err != nil {
				return err
			}
		}
		if hasMore {
			continue
		}

		if ok, err := s.waitTick(conn, ticker, pingTicker.C, closed); !ok {
			return err
		}
	}
}

// waitTick blocks until ticker fires, pinging the peer meanwhile. It returns false once
// the stream should end.
func (s *Subscriptions) waitTick(conn *websocket.Conn, ticker co.Waiter, pingC <-chan time.Time, closed <-chan struct{}) (bool, error) {
	for {
		select {
		case <-s.done:
			return false, nil
		case <-closed:
			return false, nil
		case <-ticker.C():
			return true, nil
		case <-pingC:
			if err := ping(conn); err != nil {
				return false, err
			}
		}
	}
}

func (s *Subscriptions) pipeReceipts(conn *websocket.Conn, ch <-chan *node.Receipt, closed <-chan struct{}) error {
	pingTicker := time.NewTicker(pingPeriod)
	defer pingTicker.Stop()

	for {
		select {
		case <-s.done:
			return nil
		case <-closed:
			return nil
		case r := <-ch:
			msg, _, err := s.cache.GetOrAdd(r)
			if err != nil {
				return err
			}
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return err
			}
		case <-pingTicker.C:
			if err := ping(conn); err != nil {
				return err
			}
		}
	}
}

// Close stops every stream.
func (s *Subscriptions) Close() {
	close(s.done)
	s.wg.Wait()
}

func (s *Subscriptions) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/{subject}").
		Methods(http.MethodGet).
		Name("WS /subscriptions/{subject}").
		HandlerFunc(restutil.WrapHandlerFunc(s.handleSubject))
}
