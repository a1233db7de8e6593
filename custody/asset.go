// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package custody

import (
	"slices"

	"github.com/stakepad/launchpool/engine/reverts"
	"github.com/stakepad/launchpool/lp"
)

// Program is the token program that owns an asset.
type Program string

const (
	ProgramStandard Program = "standard"
	ProgramExtended Program = "extended"
)

// Extension is a capability an extended asset may carry.
type Extension string

const (
	ExtTransferFeeConfig   Extension = "transfer-fee-config"
	ExtImmutableOwner      Extension = "immutable-owner"
	ExtTransferHook        Extension = "transfer-hook"
	ExtMetadataPointer     Extension = "metadata-pointer"
	ExtTokenMetadata       Extension = "token-metadata"
	ExtGroupPointer        Extension = "group-pointer"
	ExtTokenGroup          Extension = "token-group"
	ExtGroupMemberPointer  Extension = "group-member-pointer"
	ExtTokenGroupMember    Extension = "token-group-member"
	ExtPermanentDelegate   Extension = "permanent-delegate"
	ExtNonTransferable     Extension = "non-transferable"
	ExtDefaultAccountState Extension = "default-account-state"
)

// StakableExtensions are the extensions a stakable or reward asset may carry.
var StakableExtensions = []Extension{
	ExtImmutableOwner,
	ExtTransferHook,
	ExtMetadataPointer,
	ExtTokenMetadata,
	ExtGroupPointer,
	ExtTokenGroup,
	ExtGroupMemberPointer,
	ExtTokenGroupMember,
}

// Asset describes a registered token.
type Asset struct {
	Symbol          string      `json:"symbol" yaml:"symbol"`
	Decimals        uint8       `json:"decimals" yaml:"decimals"`
	Program         Program     `json:"program" yaml:"program"`
	Freezable       bool        `json:"freezable" yaml:"freezable"`
	FreezeAuthority lp.Address  `json:"freezeAuthority" yaml:"freezeAuthority"`
	Extensions      []Extension `json:"extensions" yaml:"extensions"`
}

// CheckSafety checks the asset can neither be frozen nor carries disallowed extensions.
func (a *Asset) CheckSafety() error {
	if a.Freezable {
		return reverts.ErrMintHasFreezeAuthority.Wrap("freeze authority %v", a.FreezeAuthority)
	}
	switch a.Program {
	case ProgramStandard:
		return nil
	case ProgramExtended:
		for _, ext := range a.Extensions {
			if !slices.Contains(StakableExtensions, ext) {
				return reverts.ErrUnsupportedMintTokenExtension.Wrap("%s", ext)
			}
		}
		return nil
	}
	return reverts.ErrUnsupportedMint.Wrap("program %q", a.Program)
}
