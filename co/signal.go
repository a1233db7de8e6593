// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package co

import (
	"sync"
)

// Waiter provides a channel to wait on. It yields once per broadcast that happened since
// the previous receive.
type Waiter interface {
	C() <-chan struct{}
}

// Signal broadcasts an occurrence to any number of waiters. Unlike sync.Cond it is channel
// based, so waiting can be combined with other cases in a select.
type Signal struct {
	l  sync.Mutex
	ch chan struct{}
}

func (s *Signal) current() chan struct{} {
	if s.ch == nil {
		s.ch = make(chan struct{})
	}
	return s.ch
}

// Broadcast wakes all waiters.
func (s *Signal) Broadcast() {
	s.l.Lock()
	close(s.current())
	s.ch = make(chan struct{})
	s.l.Unlock()
}

// NewWaiter creates a waiter. Broadcasts made before the call are not observed.
func (s *Signal) NewWaiter() Waiter {
	s.l.Lock()
	ref := s.current()
	s.l.Unlock()

	return waiterFunc(func() <-chan struct{} {
		ch := ref
		s.l.Lock()
		ref = s.current()
		s.l.Unlock()
		return ch
	})
}

type waiterFunc func() <-chan struct{}

func (w waiterFunc) C() <-chan struct{} {
	return w()
}
