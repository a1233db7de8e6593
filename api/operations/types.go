// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package operations

import (
	"github.com/stakepad/launchpool/lp"
	"github.com/stakepad/launchpool/node"
)

// Every request names the already authenticated signer.

type InitializeManager struct {
	Signer        lp.Address `json:"signer"`
	Authority     lp.Address `json:"authority"`
	HeadAuthority lp.Address `json:"headAuthority"`
}

type UpdateAuthority struct {
	Signer    lp.Address `json:"signer"`
	Authority lp.Address `json:"authority"`
}

type InitializeConfig struct {
	Signer                         lp.Address `json:"signer"`
	RewardAuthority                lp.Address `json:"rewardAuthority"`
	StakableAsset                  lp.Address `json:"stakableAsset"`
	MinPositionSize                uint64     `json:"minPositionSize"`
	MaxPositionSize                uint64     `json:"maxPositionSize"`
	ProtocolRewardShareBasisPoints uint16     `json:"protocolRewardShareBasisPoints"`
	Duration                       uint64     `json:"duration"`
}

type UpdateRewardAuthority struct {
	Signer          lp.Address `json:"signer"`
	ConfigID        uint64     `json:"configId"`
	RewardAuthority lp.Address `json:"rewardAuthority"`
}

type UpdateProtocolRewardShare struct {
	Signer                         lp.Address `json:"signer"`
	ConfigID                       uint64     `json:"configId"`
	ProtocolRewardShareBasisPoints uint16     `json:"protocolRewardShareBasisPoints"`
}

type UpdateDuration struct {
	Signer   lp.Address `json:"signer"`
	ConfigID uint64     `json:"configId"`
	Duration uint64     `json:"duration"`
}

type UpdatePositionSizes struct {
	Signer          lp.Address `json:"signer"`
	ConfigID        uint64     `json:"configId"`
	MinPositionSize uint64     `json:"minPositionSize"`
	MaxPositionSize uint64     `json:"maxPositionSize"`
}

type InitializePool struct {
	Signer              lp.Address `json:"signer"`
	ConfigID            uint64     `json:"configId"`
	RewardAsset         lp.Address `json:"rewardAsset"`
	InitialRewardAmount uint64     `json:"initialRewardAmount"`
}

type Launch struct {
	Signer         lp.Address `json:"signer"`
	Pool           lp.Address `json:"pool"`
	StartTimestamp uint64     `json:"startTimestamp"`
}

type OpenPosition struct {
	Signer lp.Address `json:"signer"`
	Pool   lp.Address `json:"pool"`
	Amount uint64     `json:"amount"`
}

type IncreasePosition struct {
	Signer   lp.Address `json:"signer"`
	Position lp.Address `json:"position"`
	Amount   uint64     `json:"amount"`
}

type ClosePosition struct {
	Signer   lp.Address `json:"signer"`
	Position lp.Address `json:"position"`
}

type CollectProtocolReward struct {
	Signer lp.Address `json:"signer"`
	Pool   lp.Address `json:"pool"`
}

type Transfer struct {
	Signer    lp.Address `json:"signer"`
	Asset     lp.Address `json:"asset"`
	Recipient lp.Address `json:"recipient"`
	Amount    uint64     `json:"amount"`
}

// Result is the answer to a committed operation.
type Result struct {
	Receipt *node.Receipt `json:"receipt"`
	Output  any           `json:"output,omitempty"`
}

type ConfigOutput struct {
	ID      uint64     `json:"id"`
	Address lp.Address `json:"address"`
}

type AddressOutput struct {
	Address lp.Address `json:"address"`
}

type CloseOutput struct {
	Stake  uint64 `json:"stake"`
	Reward uint64 `json:"reward"`
}

type AmountOutput struct {
	Amount uint64 `json:"amount"`
}
