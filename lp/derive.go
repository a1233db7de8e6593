// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package lp

import (
	"encoding/binary"
	"io"
)

// Namespaces of derived addresses.
var (
	SeedConfigsManager = []byte("launchpools_configs_manager")
	SeedConfig         = []byte("launchpools_config")
	SeedLaunchpool     = []byte("launchpool")
	SeedStakePosition  = []byte("stake_position")
	SeedVault          = []byte("vault")
)

// Derive computes a deterministic address from a namespace and its parts.
// Every part is length-prefixed so that different splits never collide.
func Derive(namespace []byte, parts ...[]byte) Address {
	h := Blake2bFn(func(w io.Writer) {
		var l [4]byte
		binary.BigEndian.PutUint32(l[:], uint32(len(namespace)))
		w.Write(l[:])
		w.Write(namespace)
		for _, p := range parts {
			binary.BigEndian.PutUint32(l[:], uint32(len(p)))
			w.Write(l[:])
			w.Write(p)
		}
	})
	return BytesToAddress(h[12:])
}

// Uint64Bytes returns the little-endian form of v, used as an address part.
func Uint64Bytes(v uint64) []byte {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	return b[:]
}

// ConfigsManagerAddress returns the address of the singleton configs manager.
func ConfigsManagerAddress() Address {
	return Derive(SeedConfigsManager)
}

// ConfigAddress returns the address of the config with the given id.
func ConfigAddress(id uint64) Address {
	return Derive(SeedConfig, Uint64Bytes(id))
}

// PoolAddress returns the address of the pool of rewardAsset under the given config.
func PoolAddress(configID uint64, rewardAsset Address) Address {
	return Derive(SeedLaunchpool, Uint64Bytes(configID), rewardAsset.Bytes())
}

// PositionAddress returns the address of owner's stake position in pool.
func PositionAddress(owner, pool Address) Address {
	return Derive(SeedStakePosition, owner.Bytes(), pool.Bytes())
}

// VaultAddress returns the address of the vault owned by the given record.
func VaultAddress(owner Address) Address {
	return Derive(SeedVault, owner.Bytes())
}
