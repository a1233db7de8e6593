// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package engine

import (
	"github.com/stakepad/launchpool/fixedpoint"
	"github.com/stakepad/launchpool/lp"
)

// Event names.
const (
	EventInitializeManager         = "InitializeManager"
	EventUpdateAuthority           = "UpdateAuthority"
	EventUpdateHeadAuthority       = "UpdateHeadAuthority"
	EventInitializeConfig          = "InitializeConfig"
	EventUpdateRewardAuthority     = "UpdateRewardAuthority"
	EventUpdateProtocolRewardShare = "UpdateProtocolRewardShare"
	EventUpdateDuration            = "UpdateDuration"
	EventUpdatePositionSizes       = "UpdatePositionSizes"
	EventInitializePool            = "InitializePool"
	EventLaunch                    = "Launch"
	EventOpenPosition              = "OpenPosition"
	EventIncreasePosition          = "IncreasePosition"
	EventClosePosition             = "ClosePosition"
	EventCollectProtocolReward     = "CollectProtocolReward"
)

// Event is emitted by every operation that lands. Subject is the manager, config or pool
// the operation acted on. Data holds one of the *Data types below.
type Event struct {
	Name      string     `json:"name"`
	Subject   lp.Address `json:"subject"`
	Signer    lp.Address `json:"signer"`
	Timestamp uint64     `json:"timestamp"`
	Data      any        `json:"data"`
}

// Transfer is an asset movement made by an operation.
type Transfer struct {
	Asset     lp.Address `json:"asset"`
	Sender    lp.Address `json:"sender"`
	Recipient lp.Address `json:"recipient"`
	Amount    uint64     `json:"amount"`
}

type ManagerData struct {
	Authority     lp.Address `json:"authority"`
	HeadAuthority lp.Address `json:"headAuthority"`
}

// AuthorityData carries the new value of an updated authority.
type AuthorityData struct {
	Authority lp.Address `json:"authority"`
}

type ConfigData struct {
	ID                             uint64     `json:"id"`
	RewardAuthority                lp.Address `json:"rewardAuthority"`
	StakableAsset                  lp.Address `json:"stakableAsset"`
	MinPositionSize                uint64     `json:"minPositionSize"`
	MaxPositionSize                uint64     `json:"maxPositionSize"`
	ProtocolRewardShareBasisPoints uint16     `json:"protocolRewardShareBasisPoints"`
	Duration                       uint64     `json:"duration"`
}

type RewardShareData struct {
	ProtocolRewardShareBasisPoints uint16 `json:"protocolRewardShareBasisPoints"`
}

type DurationData struct {
	Duration uint64 `json:"duration"`
}

type PositionSizesData struct {
	MinPositionSize uint64 `json:"minPositionSize"`
	MaxPositionSize uint64 `json:"maxPositionSize"`
}

type InitializePoolData struct {
	ConfigID                           uint64             `json:"configId"`
	RewardAsset                        lp.Address         `json:"rewardAsset"`
	RewardVault                        lp.Address         `json:"rewardVault"`
	InitialRewardAmount                uint64             `json:"initialRewardAmount"`
	ProtocolRewardAmount               uint64             `json:"protocolRewardAmount"`
	ParticipantsRewardAmount           fixedpoint.Q64x128 `json:"participantsRewardAmount"`
	ProtocolRewardLeftToObtain         uint64             `json:"protocolRewardLeftToObtain"`
	ParticipantsRewardLeftToObtain     uint64             `json:"participantsRewardLeftToObtain"`
	ParticipantsRewardLeftToDistribute fixedpoint.Q64x128 `json:"participantsRewardLeftToDistribute"`
	MinPositionSize                    uint64             `json:"minPositionSize"`
	MaxPositionSize                    uint64             `json:"maxPositionSize"`
}

type LaunchData struct {
	RewardRate          fixedpoint.Q64x128 `json:"rewardRate"`
	StartTimestamp      uint64             `json:"startTimestamp"`
	EndTimestamp        uint64             `json:"endTimestamp"`
	LastUpdateTimestamp uint64             `json:"lastUpdateTimestamp"`
}

type OpenPositionData struct {
	Position       lp.Address         `json:"stakePosition"`
	StakedAmount   uint64             `json:"stakedAmount"`
	RewardPerToken fixedpoint.Q64x128 `json:"rewardPerToken"`
	StakeAmount    uint64             `json:"stakeAmount"`
}

type IncreasePositionData struct {
	Position                           lp.Address         `json:"stakePosition"`
	StakedAmount                       uint64             `json:"stakedAmount"`
	RewardPerToken                     fixedpoint.Q64x128 `json:"rewardPerToken"`
	ParticipantsRewardLeftToDistribute fixedpoint.Q64x128 `json:"participantsRewardLeftToDistribute"`
	IncreaseAmount                     uint64             `json:"increaseStakeAmount"`
	Pending                            fixedpoint.Q64x128 `json:"pending"`
	StakeAmount                        uint64             `json:"stakeAmount"`
	RewardEarned                       fixedpoint.Q64x128 `json:"rewardEarned"`
	RewardDebt                         fixedpoint.Q64x128 `json:"rewardDebt"`
}

type ClosePositionData struct {
	Position                           lp.Address         `json:"stakePosition"`
	StakedAmount                       uint64             `json:"stakedAmount"`
	RewardPerToken                     fixedpoint.Q64x128 `json:"rewardPerToken"`
	ParticipantsRewardLeftToDistribute fixedpoint.Q64x128 `json:"participantsRewardLeftToDistribute"`
	ParticipantsRewardLeftToObtain     uint64             `json:"participantsRewardLeftToObtain"`
	Pending                            fixedpoint.Q64x128 `json:"pending"`
	StakeReceived                      uint64             `json:"stakeReceived"`
	RewardReceived                     uint64             `json:"rewardReceived"`
}

type CollectProtocolRewardData struct {
	RewardAuthority        lp.Address         `json:"rewardAuthority"`
	ProtocolRewardToRedeem uint64             `json:"protocolRewardToRedeem"`
	RewardPerToken         fixedpoint.Q64x128 `json:"rewardPerToken"`
}
