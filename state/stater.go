// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"bytes"
	"sync"

	"github.com/pkg/errors"

	"github.com/stakepad/launchpool/cache"
	"github.com/stakepad/launchpool/kv"
	"github.com/stakepad/launchpool/log"
	"github.com/stakepad/launchpool/lp"
)

var logger = log.WithContext("pkg", "state")

// Space is the namespace of a record kind.
type Space byte

// Record spaces.
const (
	SpaceManager Space = iota + 1
	SpaceConfig
	SpacePool
	SpacePosition
	SpaceAsset
	SpaceBalance
	SpaceVault
)

func (s Space) String() string {
	switch s {
	case SpaceManager:
		return "manager"
	case SpaceConfig:
		return "config"
	case SpacePool:
		return "pool"
	case SpacePosition:
		return "position"
	case SpaceAsset:
		return "asset"
	case SpaceBalance:
		return "balance"
	case SpaceVault:
		return "vault"
	}
	return "unknown"
}

// Key addresses a record.
type Key struct {
	Space Space
	Addr  lp.Address
}

// Bytes returns the store key.
func (k Key) Bytes() []byte {
	b := make([]byte, 0, 1+lp.AddressLength)
	b = append(b, byte(k.Space))
	return append(b, k.Addr[:]...)
}

// ErrConflict is returned by Commit when the records a State read were changed after it read them.
var ErrConflict = errors.New("state: conflicting commit")

// Stater is the state creator and owns the committed records.
type Stater struct {
	store kv.Store
	cache *cache.LRU[Key, []byte]
	mu    sync.RWMutex
}

// NewStater create a new stater. cacheSize is the number of committed records kept decoded-ready in memory.
func NewStater(store kv.Store, cacheSize int) (*Stater, error) {
	if cacheSize <= 0 {
		cacheSize = 1
	}
	c, err := cache.NewLRU[Key, []byte](cacheSize)
	if err != nil {
		return nil, err
	}
	return &Stater{store: kv.Bucket("r/").NewStore(store), cache: c}, nil
}

// NewState create a new state overlay over committed records.
func (s *Stater) NewState() *State {
	return newState(s)
}

// committed returns the committed raw record, nil if absent.
func (s *Stater) committed(key Key) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.load(key)
}

// load must be called with mu held.
func (s *Stater) load(key Key) ([]byte, error) {
	raw, err := s.cache.GetOrLoad(key, func(key Key) ([]byte, error) {
		raw, err := s.store.Get(key.Bytes())
		if err != nil && s.store.IsNotFound(err) {
			return nil, nil
		}
		return raw, err
	})
	if err != nil {
		return nil, errors.Wrapf(err, "load %v record %v", key.Space, key.Addr)
	}
	return raw, nil
}

// ForEach iterates committed records of the given space in address order.
func (s *Stater) ForEach(space Space, fn func(addr lp.Address, raw []byte) bool) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	iter := s.store.Iterate(kv.PrefixRange([]byte{byte(space)}))
	defer iter.Release()
	for iter.Next() {
		var addr lp.Address
		copy(addr[:], iter.Key()[1:])
		if !fn(addr, iter.Value()) {
			break
		}
	}
	return iter.Error()
}

func (s *Stater) commit(reads map[Key][]byte, writes map[Key][]byte, order []Key) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for key, seen := range reads {
		current, err := s.load(key)
		if err != nil {
			return err
		}
		if !bytes.Equal(current, seen) {
			return errors.WithMessagef(ErrConflict, "%v record %v", key.Space, key.Addr)
		}
	}

	bulk := s.store.Bulk()
	for _, key := range order {
		raw := writes[key]
		var err error
		if len(raw) == 0 {
			err = bulk.Delete(key.Bytes())
		} else {
			err = bulk.Put(key.Bytes(), raw)
		}
		if err != nil {
			return errors.Wrap(err, "stage record")
		}
	}
	if err := bulk.Write(); err != nil {
		return err
	}
	for _, key := range order {
		s.cache.Add(key, writes[key])
	}

	if changed, hit, miss := s.cache.Stats(); changed {
		logger.Debug("record cache stats", "hit", hit, "miss", miss)
	}
	return nil
}
