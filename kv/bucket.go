// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package kv

import (
	"github.com/syndtr/goleveldb/leveldb/util"
)

// Bucket namespaces keys of a shared store with a fixed prefix.
type Bucket string

// PrefixRange returns the range covering every key starting with prefix.
func PrefixRange(prefix []byte) Range {
	r := util.BytesPrefix(prefix)
	return Range{Start: r.Start, Limit: r.Limit}
}

func (b Bucket) wrap(key []byte) []byte {
	k := make([]byte, 0, len(b)+len(key))
	return append(append(k, b...), key...)
}

// NewStore creates a bucket store over src.
func (b Bucket) NewStore(src Store) Store {
	return &bucketStore{bucketPutter{b, src}, src}
}

type bucketPutter struct {
	bucket Bucket
	dst    Putter
}

func (p bucketPutter) Put(key, val []byte) error { return p.dst.Put(p.bucket.wrap(key), val) }
func (p bucketPutter) Delete(key []byte) error   { return p.dst.Delete(p.bucket.wrap(key)) }

type bucketStore struct {
	bucketPutter
	src Store
}

func (s *bucketStore) Get(key []byte) ([]byte, error) { return s.src.Get(s.bucket.wrap(key)) }
func (s *bucketStore) Has(key []byte) (bool, error)   { return s.src.Has(s.bucket.wrap(key)) }
func (s *bucketStore) IsNotFound(err error) bool      { return s.src.IsNotFound(err) }

func (s *bucketStore) Bulk() Bulk {
	bulk := s.src.Bulk()
	return &bucketBulk{bucketPutter{s.bucket, bulk}, bulk}
}

func (s *bucketStore) Iterate(r Range) Iterator {
	if len(r.Limit) == 0 {
		r = Range{Start: s.bucket.wrap(r.Start), Limit: PrefixRange([]byte(s.bucket)).Limit}
	} else {
		r = Range{Start: s.bucket.wrap(r.Start), Limit: s.bucket.wrap(r.Limit)}
	}
	return &bucketIterator{s.src.Iterate(r), len(s.bucket)}
}

type bucketBulk struct {
	bucketPutter
	inner Bulk
}

func (b *bucketBulk) Len() int     { return b.inner.Len() }
func (b *bucketBulk) Write() error { return b.inner.Write() }

// bucketIterator strips the bucket prefix off keys.
type bucketIterator struct {
	Iterator
	n int
}

func (it *bucketIterator) Key() []byte { return it.Iterator.Key()[it.n:] }
