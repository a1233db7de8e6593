// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"io"
	"reflect"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"

	"github.com/stakepad/launchpool/lp"
	"github.com/stakepad/launchpool/stackedmap"
)

// State is a journaled overlay over committed records. It is not safe for concurrent use.
type State struct {
	stater *Stater
	sm     *stackedmap.StackedMap[Key, []byte]
	reads  map[Key][]byte
}

func newState(stater *Stater) *State {
	s := &State{
		stater: stater,
		reads:  make(map[Key][]byte),
	}
	s.sm = stackedmap.New(func(key Key) ([]byte, bool, error) {
		raw, err := stater.committed(key)
		if err != nil {
			return nil, false, err
		}
		if _, ok := s.reads[key]; !ok {
			s.reads[key] = raw
		}
		return raw, true, nil
	})
	return s
}

// GetRaw returns the raw record, nil if absent.
func (s *State) GetRaw(key Key) ([]byte, error) {
	raw, _, err := s.sm.Get(key)
	return raw, err
}

// SetRaw sets the raw record, an empty value deletes it.
func (s *State) SetRaw(key Key, raw []byte) {
	s.sm.Put(key, raw)
}

// Has returns whether the record exists.
func (s *State) Has(space Space, addr lp.Address) (bool, error) {
	raw, err := s.GetRaw(Key{space, addr})
	if err != nil {
		return false, err
	}
	return len(raw) > 0, nil
}

// Decode decodes the record into v. It returns false, leaving v untouched, if the record is absent.
func (s *State) Decode(space Space, addr lp.Address, v any) (bool, error) {
	raw, err := s.GetRaw(Key{space, addr})
	if err != nil {
		return false, err
	}
	if len(raw) == 0 {
		return false, nil
	}
	if err := rlp.DecodeBytes(raw, v); err != nil {
		return false, errors.Wrapf(err, "decode %v record %v", space, addr)
	}
	return true, nil
}

// Encode encodes v and sets it as the record.
func (s *State) Encode(space Space, addr lp.Address, v any) error {
	raw, err := rlp.EncodeToBytes(v)
	if err != nil {
		return errors.Wrapf(err, "encode %v record %v", space, addr)
	}
	s.SetRaw(Key{space, addr}, raw)
	return nil
}

// Delete removes the record.
func (s *State) Delete(space Space, addr lp.Address) {
	s.SetRaw(Key{space, addr}, nil)
}

// NewCheckpoint makes a checkpoint of current state.
// It returns revision of the checkpoint.
func (s *State) NewCheckpoint() int {
	return s.sm.Push()
}

// RevertTo revert to checkpoint specified by revision.
func (s *State) RevertTo(revision int) {
	s.sm.PopTo(revision)
}

// Stage collects the changes since the state was created.
func (s *State) Stage() *Stage {
	writes := make(map[Key][]byte)
	var order []Key
	s.sm.Journal(func(key Key, raw []byte) bool {
		if _, ok := writes[key]; !ok {
			order = append(order, key)
		}
		writes[key] = raw
		return true
	})
	reads := make(map[Key][]byte, len(s.reads))
	for k, v := range s.reads {
		reads[k] = v
	}
	return &Stage{stater: s.stater, reads: reads, writes: writes, order: order}
}

// Stage is the staged changes of a State.
type Stage struct {
	stater *Stater
	reads  map[Key][]byte
	writes map[Key][]byte
	order  []Key
}

// Len returns the number of changed records.
func (st *Stage) Len() int {
	return len(st.order)
}

// Hash returns the digest of the changes in the order they were made.
func (st *Stage) Hash() lp.Bytes32 {
	return lp.Blake2bFn(func(w io.Writer) {
		for _, key := range st.order {
			val := st.writes[key]
			w.Write(key.Bytes())
			w.Write(lp.Uint64Bytes(uint64(len(val))))
			w.Write(val)
		}
	})
}

// Commit writes the changes atomically. It fails with ErrConflict if records read by
// the state were changed in the meantime.
func (st *Stage) Commit() error {
	return st.stater.commit(st.reads, st.writes, st.order)
}

// Mapping is a typed view of the records in a space.
type Mapping[V any] struct {
	state *State
	space Space
}

// NewMapping creates a typed view of space.
func NewMapping[V any](state *State, space Space) *Mapping[V] {
	return &Mapping[V]{state: state, space: space}
}

// Get returns the record at addr. For pointer types a fresh value is allocated
// before decoding. The bool result reports whether the record exists.
func (m *Mapping[V]) Get(addr lp.Address) (value V, exists bool, err error) {
	if reflect.ValueOf(value).Kind() == reflect.Ptr {
		value = reflect.New(reflect.TypeOf(value).Elem()).Interface().(V)
		exists, err = m.state.Decode(m.space, addr, value)
		return
	}
	exists, err = m.state.Decode(m.space, addr, &value)
	return
}

// Set stores the record at addr.
func (m *Mapping[V]) Set(addr lp.Address, value V) error {
	return m.state.Encode(m.space, addr, value)
}

// Has returns whether a record exists at addr.
func (m *Mapping[V]) Has(addr lp.Address) (bool, error) {
	return m.state.Has(m.space, addr)
}
