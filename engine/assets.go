// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package engine

import (
	"github.com/stakepad/launchpool/engine/reverts"
	"github.com/stakepad/launchpool/lp"
)

// TransferAsset moves amount of asset from signer to recipient. Reward vaults are funded
// this way before launch. Vaults held by the engine never sign.
func (e *Engine) TransferAsset(signer, asset, recipient lp.Address, amount uint64, now uint64) error {
	return e.atomic(func() error {
		if amount == 0 {
			return reverts.ErrInvalidAmount
		}
		owner, isVault, err := e.custody.VaultOwner(signer)
		if err != nil {
			return err
		}
		if isVault {
			return reverts.ErrUnauthorized.Wrap("%v is the vault of %v", signer, owner)
		}
		logger.Trace("transfer asset", "asset", asset, "from", signer, "to", recipient, "amount", amount, "now", now)
		return e.transfer(asset, signer, recipient, amount)
	})
}

// Balance returns the balance of holder in asset.
func (e *Engine) Balance(asset, holder lp.Address) (uint64, error) {
	return e.custody.BalanceOf(asset, holder)
}
