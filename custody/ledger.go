// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package custody holds asset balances. Balances live in the same state overlay as the
// engine records, so a rejected operation never leaves a transfer behind.
package custody

import (
	"math"

	"github.com/stakepad/launchpool/engine/reverts"
	"github.com/stakepad/launchpool/lp"
	"github.com/stakepad/launchpool/state"
)

var seedBalance = []byte("balance")

// BalanceKey returns the record address of holder's balance of asset.
func BalanceKey(asset, holder lp.Address) lp.Address {
	return lp.Derive(seedBalance, asset.Bytes(), holder.Bytes())
}

// Ledger is the asset custody service over a state overlay.
type Ledger struct {
	assets   *state.Mapping[*Asset]
	balances *state.Mapping[uint64]
	vaults   *state.Mapping[lp.Address]
}

// New creates a ledger over st.
func New(st *state.State) *Ledger {
	return &Ledger{
		assets:   state.NewMapping[*Asset](st, state.SpaceAsset),
		balances: state.NewMapping[uint64](st, state.SpaceBalance),
		vaults:   state.NewMapping[lp.Address](st, state.SpaceVault),
	}
}

// RegisterAsset registers or replaces the description of an asset.
func (l *Ledger) RegisterAsset(addr lp.Address, asset *Asset) error {
	return l.assets.Set(addr, asset)
}

// Asset returns the registered asset.
func (l *Ledger) Asset(addr lp.Address) (*Asset, error) {
	asset, ok, err := l.assets.Get(addr)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, reverts.ErrUnknownAsset.Wrap("%v", addr)
	}
	return asset, nil
}

// CheckAssetSafety rejects assets that can be frozen or carry disallowed extensions.
func (l *Ledger) CheckAssetSafety(addr lp.Address) error {
	asset, err := l.Asset(addr)
	if err != nil {
		return err
	}
	return asset.CheckSafety()
}

// BalanceOf returns holder's balance of asset.
func (l *Ledger) BalanceOf(asset, holder lp.Address) (uint64, error) {
	bal, _, err := l.balances.Get(BalanceKey(asset, holder))
	return bal, err
}

// OpenVault records vault as held by the ledger on behalf of owner.
func (l *Ledger) OpenVault(vault, owner lp.Address) error {
	return l.vaults.Set(vault, owner)
}

// VaultOwner returns the record a vault is held for. The bool result is false for
// addresses that are not vaults.
func (l *Ledger) VaultOwner(addr lp.Address) (lp.Address, bool, error) {
	return l.vaults.Get(addr)
}

// Transfer moves amount of asset from one holder to another.
func (l *Ledger) Transfer(asset, from, to lp.Address, amount uint64) error {
	if amount == 0 || from == to {
		return nil
	}
	if _, err := l.Asset(asset); err != nil {
		return err
	}
	fromBal, err := l.BalanceOf(asset, from)
	if err != nil {
		return err
	}
	if fromBal < amount {
		return reverts.ErrInsufficientBalance.Wrap("%v holds %d, needs %d", from, fromBal, amount)
	}
	toBal, err := l.BalanceOf(asset, to)
	if err != nil {
		return err
	}
	if toBal > math.MaxUint64-amount {
		return reverts.ErrBalanceOverflow
	}
	if err := l.balances.Set(BalanceKey(asset, from), fromBal-amount); err != nil {
		return err
	}
	return l.balances.Set(BalanceKey(asset, to), toBal+amount)
}

// Mint credits amount of asset to holder.
func (l *Ledger) Mint(asset, to lp.Address, amount uint64) error {
	if _, err := l.Asset(asset); err != nil {
		return err
	}
	bal, err := l.BalanceOf(asset, to)
	if err != nil {
		return err
	}
	if bal > math.MaxUint64-amount {
		return reverts.ErrBalanceOverflow
	}
	return l.balances.Set(BalanceKey(asset, to), bal+amount)
}
