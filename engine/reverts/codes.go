// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package reverts

// general
var (
	ErrUnauthorized              = New(10000, KindAuthorization, "Unauthorized", "caller is not allowed to perform the operation")
	ErrManagerAlreadyInitialized = New(10001, KindLifecycle, "ManagerAlreadyInitialized", "configs manager already initialized")
	ErrManagerNotInitialized     = New(10002, KindLifecycle, "ManagerNotInitialized", "configs manager not initialized")
	ErrConfigNotFound            = New(10003, KindNotFound, "ConfigNotFound", "launchpools config not found")
	ErrLaunchpoolNotFound        = New(10004, KindNotFound, "LaunchpoolNotFound", "launchpool not found")
	ErrStakePositionNotFound     = New(10005, KindNotFound, "StakePositionNotFound", "stake position not found")
	ErrInsufficientRewardVault   = New(10006, KindLifecycle, "InsufficientRewardVault", "reward vault holds less than the initial reward amount")
	ErrConfigsCountOverflow      = New(10007, KindArithmetic, "ConfigsCountOverflow", "configs count overflow")
	ErrInsufficientBalance       = New(10008, KindRange, "InsufficientBalance", "insufficient balance")
	ErrBalanceOverflow           = New(10009, KindArithmetic, "BalanceOverflow", "balance overflow")
	ErrUnknownAsset              = New(10010, KindNotFound, "UnknownAsset", "asset is not registered")
	ErrInvalidAmount             = New(10011, KindRange, "InvalidAmount", "amount must be greater than zero")

	// asset safety
	ErrMintHasFreezeAuthority        = New(10100, KindAssetSafety, "MintHasFreezeAuthority", "asset has a freeze authority")
	ErrUnsupportedMint               = New(10101, KindAssetSafety, "UnsupportedMint", "asset owner program is not supported")
	ErrUnsupportedMintTokenExtension = New(10102, KindAssetSafety, "UnsupportedMintTokenExtension", "asset carries an unsupported extension")
)

// config
var (
	ErrConfigRewardShareExceeded = New(11000, KindRange, "ConfigRewardShareExceeded", "protocol reward share exceeds 10000 basis points")
	ErrInvalidDuration           = New(11001, KindRange, "InvalidDuration", "duration must be greater than zero")
	ErrInvalidMinPositionSize    = New(11002, KindRange, "InvalidMinPositionSize", "min position size must be greater than zero")
	ErrInvalidMaxPositionSize    = New(11003, KindRange, "InvalidMaxPositionSize", "max position size must not be less than min position size")
)

// launchpool
var (
	ErrInvalidInitialRewardAmount            = New(12000, KindRange, "InvalidInitialRewardAmount", "initial reward amount must be greater than zero")
	ErrLaunchpoolAlreadyInitialized          = New(12001, KindLifecycle, "LaunchpoolAlreadyInitialized", "launchpool already initialized")
	ErrLaunchpoolNotLaunched                 = New(12002, KindLifecycle, "LaunchpoolNotLaunched", "launchpool not launched")
	ErrLaunchpoolNotStartedYet               = New(12003, KindLifecycle, "LaunchpoolNotStartedYet", "launchpool not started yet")
	ErrLaunchpoolAlreadyEnded                = New(12004, KindLifecycle, "LaunchpoolAlreadyEnded", "launchpool already ended")
	ErrLaunchpoolNotEndedYet                 = New(12005, KindLifecycle, "LaunchpoolNotEndedYet", "launchpool not ended yet")
	ErrLaunchpoolNotFinished                 = New(12006, KindLifecycle, "LaunchpoolNotFinished", "launchpool not finished")
	ErrLaunchpoolNotInitialized              = New(12007, KindLifecycle, "LaunchpoolNotInitialized", "launchpool not in initialized status")
	ErrStartTimeInPast                       = New(12008, KindRange, "StartTimeInPast", "start timestamp must be in the future")
	ErrEndTimeOverflow                       = New(12009, KindArithmetic, "EndTimeOverflow", "end timestamp overflow")
	ErrEffectiveTimeBeforeLastAccrual        = New(12010, KindInvariant, "EffectiveTimeBeforeLastAccrual", "effective time before last accrual")
	ErrRewardCalculationOverflow             = New(12011, KindArithmetic, "RewardCalculationOverflow", "reward calculation overflow")
	ErrDivisionByZeroDuringRewardCalculation = New(12012, KindArithmetic, "DivisionByZeroDuringRewardCalculation", "division by zero during reward calculation")
	ErrRewardRateOverflow                    = New(12013, KindArithmetic, "RewardRateOverflow", "reward rate overflow")
	ErrRewardPerTokenOverflow                = New(12014, KindArithmetic, "RewardPerTokenOverflow", "reward per token overflow")
	ErrStakedAmountOverflow                  = New(12015, KindArithmetic, "StakedAmountOverflow", "staked amount overflow")
	ErrRewardDistributionOverflow            = New(12016, KindInvariant, "RewardDistributionOverflow", "reward left to distribute underflow")
	ErrRewardObtentionOverflow               = New(12017, KindInvariant, "RewardObtentionOverflow", "reward left to obtain underflow")
)

// stake position
var (
	ErrStakePositionAlreadyInitialized  = New(13000, KindLifecycle, "StakePositionAlreadyInitialized", "stake position already initialized")
	ErrInvalidStakePositionStateForOpen = New(13001, KindLifecycle, "InvalidStakePositionStateForOpen", "invalid stake position state for open")
	ErrStakePositionNotOpened           = New(13002, KindLifecycle, "StakePositionNotOpened", "stake position not opened")
	ErrMismatchedLaunchpool             = New(13003, KindAuthorization, "MismatchedLaunchpool", "stake position does not belong to the launchpool or signer")
	ErrStakeAmountIsZero                = New(13004, KindRange, "StakeAmountIsZero", "stake amount is zero")
	ErrStakeBelowMinimum                = New(13005, KindRange, "StakeBelowMinimum", "stake below minimum position size")
	ErrStakeAboveMaximum                = New(13006, KindRange, "StakeAboveMaximum", "stake above maximum position size")
	ErrRewardAccumulationOverflow       = New(13007, KindArithmetic, "RewardAccumulationOverflow", "reward accumulation overflow")
	ErrRewardDebtExceedsAccrued         = New(13008, KindInvariant, "RewardDebtExceedsAccrued", "reward debt exceeds accrued reward")
	ErrRewardOverflow                   = New(13009, KindArithmetic, "RewardOverflow", "reward overflow")
	ErrStakeOverflow                    = New(13010, KindArithmetic, "StakeOverflow", "stake overflow")
	ErrRewardDebtCalculationOverflow    = New(13011, KindArithmetic, "RewardDebtCalculationOverflow", "reward debt calculation overflow")
)

var all = []*ErrRevert{
	ErrUnauthorized, ErrManagerAlreadyInitialized, ErrManagerNotInitialized, ErrConfigNotFound,
	ErrLaunchpoolNotFound, ErrStakePositionNotFound, ErrInsufficientRewardVault, ErrConfigsCountOverflow,
	ErrInsufficientBalance, ErrBalanceOverflow, ErrUnknownAsset, ErrInvalidAmount,
	ErrMintHasFreezeAuthority, ErrUnsupportedMint, ErrUnsupportedMintTokenExtension,
	ErrConfigRewardShareExceeded, ErrInvalidDuration, ErrInvalidMinPositionSize, ErrInvalidMaxPositionSize,
	ErrInvalidInitialRewardAmount, ErrLaunchpoolAlreadyInitialized, ErrLaunchpoolNotLaunched,
	ErrLaunchpoolNotStartedYet, ErrLaunchpoolAlreadyEnded, ErrLaunchpoolNotEndedYet, ErrLaunchpoolNotFinished,
	ErrLaunchpoolNotInitialized, ErrStartTimeInPast, ErrEndTimeOverflow, ErrEffectiveTimeBeforeLastAccrual,
	ErrRewardCalculationOverflow, ErrDivisionByZeroDuringRewardCalculation, ErrRewardRateOverflow,
	ErrRewardPerTokenOverflow, ErrStakedAmountOverflow, ErrRewardDistributionOverflow, ErrRewardObtentionOverflow,
	ErrStakePositionAlreadyInitialized, ErrInvalidStakePositionStateForOpen, ErrStakePositionNotOpened,
	ErrMismatchedLaunchpool, ErrStakeAmountIsZero, ErrStakeBelowMinimum, ErrStakeAboveMaximum,
	ErrRewardAccumulationOverflow, ErrRewardDebtExceedsAccrued, ErrRewardOverflow, ErrStakeOverflow,
	ErrRewardDebtCalculationOverflow,
}

// ByCode returns the revert registered under code.
func ByCode(code uint32) (*ErrRevert, bool) {
	for _, e := range all {
		if e.code == code {
			return e, true
		}
	}
	return nil, false
}
