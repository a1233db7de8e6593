// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package subscriptions

import (
	"encoding/binary"
	"encoding/json"
	"slices"
	"sync"

	"github.com/qianbin/directcache"

	"github.com/stakepad/launchpool/node"
)

const messageCacheBytes = 4 * 1024 * 1024

// messageCache keeps encoded receipt messages by seq, so every receipt is encoded once no
// matter how many clients it is sent to.
type messageCache struct {
	cache *directcache.Cache
	mu    sync.Mutex
}

func newMessageCache(sizeBytes int) *messageCache {
	return &messageCache{cache: directcache.New(sizeBytes)}
}

// GetOrAdd returns the encoded receipt. The second value reports whether it was encoded by this call.
func (mc *messageCache) GetOrAdd(r *node.Receipt) ([]byte, bool, error) {
	var key [8]byte
	binary.BigEndian.PutUint64(key[:], r.Seq)

	mc.mu.Lock()
	defer mc.mu.Unlock()

	var msg []byte
	if mc.cache.AdvGet(key[:], func(val []byte) {
		msg = slices.Clone(val)
	}, false) && len(msg) > 0 {
		return msg, false, nil
	}
	msg, err := json.Marshal(r)
	if err != nil {
		return nil, false, err
	}
	_ = mc.cache.Set(key[:], msg)
	return msg, true, nil
}
