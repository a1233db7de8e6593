// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package lvldb is the goleveldb backed record store.
package lvldb

import (
	"github.com/pkg/errors"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/filter"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/syndtr/goleveldb/leveldb/storage"
	"github.com/syndtr/goleveldb/leveldb/util"

	"github.com/stakepad/launchpool/kv"
)

var _ kv.StoreCloser = (*LevelDB)(nil)

const minCacheMB = 16

// Options for opening a LevelDB.
type Options struct {
	CacheSize              int // MB
	OpenFilesCacheCapacity int
	// SyncCommits fsyncs every bulk write. Single puts stay async.
	SyncCommits bool
}

// LevelDB is a kv.Store on goleveldb.
type LevelDB struct {
	db       *leveldb.DB
	stg      storage.Storage
	writeOpt *opt.WriteOptions
	bulkOpt  *opt.WriteOptions
}

// New opens the db at path, creating it if missing.
func New(path string, opts Options) (*LevelDB, error) {
	stg, err := storage.OpenFile(path, false)
	if err != nil {
		return nil, errors.Wrapf(err, "open level db storage [%v]", path)
	}
	return open(stg, opts)
}

// NewMem creates a db held in memory.
func NewMem() (*LevelDB, error) {
	return open(storage.NewMemStorage(), Options{})
}

func open(stg storage.Storage, opts Options) (*LevelDB, error) {
	cacheSize := max(opts.CacheSize, minCacheMB)
	db, err := leveldb.Open(stg, &opt.Options{
		OpenFilesCacheCapacity: max(opts.OpenFilesCacheCapacity, 16),
		BlockCacheCapacity:     cacheSize / 2 * opt.MiB,
		WriteBuffer:            cacheSize / 4 * opt.MiB,
		Filter:                 filter.NewBloomFilter(10),
	})
	if err != nil {
		stg.Close()
		return nil, errors.Wrap(err, "open level db")
	}
	return &LevelDB{
		db:       db,
		stg:      stg,
		writeOpt: &opt.WriteOptions{},
		bulkOpt:  &opt.WriteOptions{Sync: opts.SyncCommits},
	}, nil
}

func (ldb *LevelDB) IsNotFound(err error) bool {
	return errors.Is(err, leveldb.ErrNotFound)
}

// Get fails with an error matched by IsNotFound when key is absent.
func (ldb *LevelDB) Get(key []byte) ([]byte, error) {
	return ldb.db.Get(key, nil)
}

func (ldb *LevelDB) Has(key []byte) (bool, error) {
	return ldb.db.Has(key, nil)
}

func (ldb *LevelDB) Put(key, value []byte) error {
	return ldb.db.Put(key, value, ldb.writeOpt)
}

func (ldb *LevelDB) Delete(key []byte) error {
	return ldb.db.Delete(key, ldb.writeOpt)
}

// Close releases the db and its storage lock. Later calls fail.
func (ldb *LevelDB) Close() error {
	if err := ldb.db.Close(); err != nil {
		return err
	}
	return ldb.stg.Close()
}

// Bulk stages writes applied atomically by Write.
func (ldb *LevelDB) Bulk() kv.Bulk {
	return &batch{ldb: ldb}
}

func (ldb *LevelDB) Iterate(r kv.Range) kv.Iterator {
	return ldb.db.NewIterator(&util.Range{Start: r.Start, Limit: r.Limit}, nil)
}

type batch struct {
	ldb *LevelDB
	leveldb.Batch
}

func (b *batch) Put(key, value []byte) error {
	b.Batch.Put(key, value)
	return nil
}

func (b *batch) Delete(key []byte) error {
	b.Batch.Delete(key)
	return nil
}

func (b *batch) Write() error {
	if b.Len() == 0 {
		return nil
	}
	if err := b.ldb.db.Write(&b.Batch, b.ldb.bulkOpt); err != nil {
		return errors.Wrap(err, "write batch")
	}
	b.Reset()
	return nil
}
