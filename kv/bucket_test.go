// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package kv_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stakepad/launchpool/kv"
	"github.com/stakepad/launchpool/lvldb"
)

func TestPrefixRange(t *testing.T) {
	r := kv.PrefixRange([]byte{0x01})
	assert.Equal(t, []byte{0x01}, r.Start)
	assert.Equal(t, []byte{0x02}, r.Limit)

	r = kv.PrefixRange([]byte{0x01, 0xff})
	assert.Equal(t, []byte{0x02}, r.Limit)

	r = kv.PrefixRange([]byte{0xff})
	assert.Nil(t, r.Limit)
}

func TestBucketIsolation(t *testing.T) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	defer db.Close()

	records := kv.Bucket("r/").NewStore(db)
	meta := kv.Bucket("m/").NewStore(db)

	require.NoError(t, records.Put([]byte{0xff, 1}, []byte("last space")))
	require.NoError(t, records.Put([]byte{0x01, 1}, []byte("first space")))
	require.NoError(t, meta.Put([]byte("genesis"), []byte("id")))

	raw, err := db.Get([]byte("r/\x01\x01"))
	require.NoError(t, err)
	assert.Equal(t, "first space", string(raw))

	iter := records.Iterate(kv.PrefixRange([]byte{0xff}))
	var keys [][]byte
	for iter.Next() {
		keys = append(keys, append([]byte(nil), iter.Key()...))
	}
	iter.Release()
	require.NoError(t, iter.Error())
	assert.Equal(t, [][]byte{{0xff, 1}}, keys)

	bulk := meta.Bulk()
	require.NoError(t, bulk.Delete([]byte("genesis")))
	assert.Equal(t, 1, bulk.Len())
	require.NoError(t, bulk.Write())

	_, err = meta.Get([]byte("genesis"))
	assert.True(t, meta.IsNotFound(err))
	has, err := records.Has([]byte{0x01, 1})
	require.NoError(t, err)
	assert.True(t, has)
}
