// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package engine_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stakepad/launchpool/custody"
	"github.com/stakepad/launchpool/engine"
	"github.com/stakepad/launchpool/engine/pool"
	"github.com/stakepad/launchpool/engine/position"
	"github.com/stakepad/launchpool/engine/reverts"
	"github.com/stakepad/launchpool/lp"
	"github.com/stakepad/launchpool/lvldb"
	"github.com/stakepad/launchpool/state"
)

const (
	initialReward = 100_000_000_000
	participants  = 99_770_000_000
	start         = 100
	duration      = 4234
	end           = start + duration
)

var (
	deployer  = lp.BytesToAddress([]byte("deployer"))
	authority = lp.BytesToAddress([]byte("authority"))
	head      = lp.BytesToAddress([]byte("head"))
	treasury  = lp.BytesToAddress([]byte("treasury"))
	alice     = lp.BytesToAddress([]byte("alice"))
	bob       = lp.BytesToAddress([]byte("bob"))

	stakeAsset  = lp.BytesToAddress([]byte("STAKE"))
	rewardAsset = lp.BytesToAddress([]byte("REWARD"))
	frozenAsset = lp.BytesToAddress([]byte("FROZEN"))
)

type harness struct {
	t      *testing.T
	ledger *custody.Ledger
	engine *engine.Engine
}

func newHarness(t *testing.T) *harness {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	stater, err := state.NewStater(db, 64)
	require.NoError(t, err)
	st := stater.NewState()

	ledger := custody.New(st)
	require.NoError(t, ledger.RegisterAsset(stakeAsset, &custody.Asset{Symbol: "STK", Program: custody.ProgramStandard}))
	require.NoError(t, ledger.RegisterAsset(rewardAsset, &custody.Asset{
		Symbol:     "RWD",
		Program:    custody.ProgramExtended,
		Extensions: []custody.Extension{custody.ExtTokenMetadata},
	}))
	require.NoError(t, ledger.RegisterAsset(frozenAsset, &custody.Asset{Symbol: "FRZ", Program: custody.ProgramStandard, Freezable: true}))
	require.NoError(t, ledger.Mint(stakeAsset, alice, 10_000))
	require.NoError(t, ledger.Mint(stakeAsset, bob, 10_000))

	return &harness{t: t, ledger: ledger, engine: engine.New(st, ledger, engine.WithDeployer(deployer))}
}

func (h *harness) config() uint64 {
	require.NoError(h.t, h.engine.InitializeManager(deployer, authority, head, 1))
	cfg, err := h.engine.InitializeConfig(authority, engine.ConfigParams{
		RewardAuthority:                treasury,
		StakableAsset:                  stakeAsset,
		MinPositionSize:                57,
		MaxPositionSize:                543,
		ProtocolRewardShareBasisPoints: 23,
		Duration:                       duration,
	}, 1)
	require.NoError(h.t, err)
	return cfg.ID
}

func (h *harness) launched() *pool.Pool {
	id := h.config()
	p, err := h.engine.InitializePool(authority, id, rewardAsset, initialReward, 2)
	require.NoError(h.t, err)
	require.NoError(h.t, h.ledger.Mint(rewardAsset, p.RewardVault, initialReward))
	require.NoError(h.t, h.engine.Launch(head, p.Address(), start, 10))
	p, err = h.engine.Pool(p.Address())
	require.NoError(h.t, err)
	return p
}

func (h *harness) balance(asset, holder lp.Address) uint64 {
	bal, err := h.ledger.BalanceOf(asset, holder)
	require.NoError(h.t, err)
	return bal
}

func TestInitializeManager(t *testing.T) {
	h := newHarness(t)
	assert.ErrorIs(t, h.engine.InitializeManager(alice, authority, head, 1), reverts.ErrUnauthorized)
	require.NoError(t, h.engine.InitializeManager(deployer, authority, head, 1))
	assert.ErrorIs(t, h.engine.InitializeManager(deployer, authority, head, 1), reverts.ErrManagerAlreadyInitialized)

	events := h.engine.Events()
	require.Len(t, events, 1)
	assert.Equal(t, engine.EventInitializeManager, events[0].Name)
	assert.Equal(t, &engine.ManagerData{Authority: authority, HeadAuthority: head}, events[0].Data)
}

func TestUpdateAuthorities(t *testing.T) {
	h := newHarness(t)
	h.config()

	assert.ErrorIs(t, h.engine.UpdateAuthority(alice, alice, 2), reverts.ErrUnauthorized)
	require.NoError(t, h.engine.UpdateAuthority(head, alice, 2))
	require.NoError(t, h.engine.UpdateAuthority(alice, bob, 2))

	assert.ErrorIs(t, h.engine.UpdateHeadAuthority(bob, bob, 3), reverts.ErrUnauthorized)
	require.NoError(t, h.engine.UpdateHeadAuthority(head, alice, 3))

	m, err := h.engine.Manager()
	require.NoError(t, err)
	assert.Equal(t, bob, m.Authority)
	assert.Equal(t, alice, m.HeadAuthority)
	assert.Equal(t, uint64(1), m.ConfigsCount)
}

func TestInitializeConfig(t *testing.T) {
	h := newHarness(t)
	params := engine.ConfigParams{
		RewardAuthority:                treasury,
		StakableAsset:                  stakeAsset,
		MinPositionSize:                57,
		MaxPositionSize:                543,
		ProtocolRewardShareBasisPoints: 23,
		Duration:                       duration,
	}
	_, err := h.engine.InitializeConfig(authority, params, 1)
	assert.ErrorIs(t, err, reverts.ErrManagerNotInitialized)

	require.NoError(t, h.engine.InitializeManager(deployer, authority, head, 1))

	_, err = h.engine.InitializeConfig(alice, params, 1)
	assert.ErrorIs(t, err, reverts.ErrUnauthorized)

	bad := params
	bad.ProtocolRewardShareBasisPoints = 10_001
	_, err = h.engine.InitializeConfig(authority, bad, 1)
	assert.ErrorIs(t, err, reverts.ErrConfigRewardShareExceeded)

	bad = params
	bad.StakableAsset = frozenAsset
	_, err = h.engine.InitializeConfig(authority, bad, 1)
	assert.ErrorIs(t, err, reverts.ErrMintHasFreezeAuthority)
	assert.Equal(t, reverts.KindAssetSafety, reverts.KindOf(err))

	for i := 0; i < 3; i++ {
		cfg, err := h.engine.InitializeConfig(head, params, 1)
		require.NoError(t, err)
		assert.Equal(t, uint64(i), cfg.ID)
	}
	m, err := h.engine.Manager()
	require.NoError(t, err)
	assert.Equal(t, uint64(3), m.ConfigsCount)
}

func TestUpdateConfig(t *testing.T) {
	h := newHarness(t)
	id := h.config()

	assert.ErrorIs(t, h.engine.UpdateDuration(alice, id, 10, 2), reverts.ErrUnauthorized)
	assert.ErrorIs(t, h.engine.UpdateDuration(authority, id, 0, 2), reverts.ErrInvalidDuration)
	assert.ErrorIs(t, h.engine.UpdateDuration(authority, 99, 10, 2), reverts.ErrConfigNotFound)
	assert.ErrorIs(t, h.engine.UpdatePositionSizes(authority, id, 10, 9, 2), reverts.ErrInvalidMaxPositionSize)
	assert.ErrorIs(t, h.engine.UpdateProtocolRewardShare(authority, id, 10_001, 2), reverts.ErrConfigRewardShareExceeded)

	require.NoError(t, h.engine.UpdateDuration(authority, id, 10, 2))
	require.NoError(t, h.engine.UpdatePositionSizes(head, id, 1, 2, 2))
	require.NoError(t, h.engine.UpdateProtocolRewardShare(authority, id, 10_000, 2))
	require.NoError(t, h.engine.UpdateRewardAuthority(authority, id, alice, 2))

	cfg, err := h.engine.Config(id)
	require.NoError(t, err)
	assert.Equal(t, id, cfg.ID)
	assert.Equal(t, stakeAsset, cfg.StakableAsset)
	assert.Equal(t, uint64(10), cfg.Duration)
	assert.Equal(t, uint64(1), cfg.MinPositionSize)
	assert.Equal(t, uint64(2), cfg.MaxPositionSize)
	assert.Equal(t, uint16(10_000), cfg.ProtocolRewardShareBasisPoints)
	assert.Equal(t, alice, cfg.RewardAuthority)
}

func TestInitializePool(t *testing.T) {
	h := newHarness(t)
	id := h.config()

	_, err := h.engine.InitializePool(alice, id, rewardAsset, initialReward, 2)
	assert.ErrorIs(t, err, reverts.ErrUnauthorized)
	_, err = h.engine.InitializePool(authority, id, rewardAsset, 0, 2)
	assert.ErrorIs(t, err, reverts.ErrInvalidInitialRewardAmount)
	_, err = h.engine.InitializePool(authority, id, frozenAsset, initialReward, 2)
	assert.ErrorIs(t, err, reverts.ErrMintHasFreezeAuthority)

	p, err := h.engine.InitializePool(authority, id, rewardAsset, initialReward, 2)
	require.NoError(t, err)
	assert.Equal(t, pool.StatusInitialized, p.Status)
	assert.Equal(t, uint64(230_000_000), p.ProtocolRewardAmount)
	assert.Equal(t, uint64(participants), p.ParticipantsRewardLeftToObtain)
	assert.Equal(t, uint64(initialReward), p.ProtocolRewardAmount+p.ParticipantsRewardLeftToObtain)

	_, err = h.engine.InitializePool(authority, id, rewardAsset, initialReward, 2)
	assert.ErrorIs(t, err, reverts.ErrLaunchpoolAlreadyInitialized)
}

func TestLaunch(t *testing.T) {
	h := newHarness(t)
	id := h.config()
	p, err := h.engine.InitializePool(authority, id, rewardAsset, initialReward, 2)
	require.NoError(t, err)

	assert.ErrorIs(t, h.engine.Launch(authority, p.Address(), start, 10), reverts.ErrInsufficientRewardVault)
	require.NoError(t, h.ledger.Mint(rewardAsset, p.RewardVault, initialReward))

	assert.ErrorIs(t, h.engine.Launch(alice, p.Address(), start, 10), reverts.ErrUnauthorized)
	assert.ErrorIs(t, h.engine.Launch(authority, p.Address(), start, start), reverts.ErrStartTimeInPast)
	require.NoError(t, h.engine.Launch(authority, p.Address(), start, 10))
	assert.ErrorIs(t, h.engine.Launch(authority, p.Address(), start+1, 10), reverts.ErrLaunchpoolNotInitialized)

	// later config changes do not reach the launched pool
	require.NoError(t, h.engine.UpdateDuration(authority, id, 1, 11))
	require.NoError(t, h.engine.UpdatePositionSizes(authority, id, 1, 1, 11))

	p, err = h.engine.Pool(p.Address())
	require.NoError(t, err)
	assert.Equal(t, pool.StatusLaunched, p.Status)
	assert.Equal(t, uint64(end), p.EndTimestamp)
	assert.Equal(t, uint64(543), p.MaxPositionSize)
	total, err := p.RewardRate.MulUint64(duration)
	require.NoError(t, err)
	assert.Equal(t, uint64(participants-1), total.Uint64())
}

func TestScenario(t *testing.T) {
	h := newHarness(t)
	p := h.launched()
	addr := p.Address()

	_, err := h.engine.OpenPosition(alice, addr, 543, start-1)
	assert.ErrorIs(t, err, reverts.ErrLaunchpoolNotStartedYet)
	_, err = h.engine.OpenPosition(alice, addr, 0, start)
	assert.ErrorIs(t, err, reverts.ErrStakeAmountIsZero)
	_, err = h.engine.OpenPosition(alice, addr, 56, start)
	assert.ErrorIs(t, err, reverts.ErrStakeBelowMinimum)
	_, err = h.engine.OpenPosition(alice, addr, 544, start)
	assert.ErrorIs(t, err, reverts.ErrStakeAboveMaximum)

	pa, err := h.engine.OpenPosition(alice, addr, 543, start)
	require.NoError(t, err)
	pb, err := h.engine.OpenPosition(bob, addr, 181, start)
	require.NoError(t, err)

	_, err = h.engine.OpenPosition(alice, addr, 60, start+1)
	assert.ErrorIs(t, err, reverts.ErrStakePositionAlreadyInitialized)

	assert.Equal(t, uint64(10_000-543), h.balance(stakeAsset, alice))
	assert.Equal(t, uint64(543), h.balance(stakeAsset, pa.StakeVault))

	p, err = h.engine.Pool(addr)
	require.NoError(t, err)
	assert.Equal(t, uint64(543+181), p.StakedAmount)

	pending, err := h.engine.PendingReward(pa.Address(), start+duration/2)
	require.NoError(t, err)
	assert.InDelta(t, float64(participants)*0.75/2, float64(pending.Uint64()), 2)

	_, _, err = h.engine.ClosePosition(alice, pa.Address(), end-1)
	assert.ErrorIs(t, err, reverts.ErrLaunchpoolNotFinished)
	_, _, err = h.engine.ClosePosition(bob, pa.Address(), end)
	assert.ErrorIs(t, err, reverts.ErrMismatchedLaunchpool)
	_, err = h.engine.OpenPosition(bob, addr, 60, end)
	assert.ErrorIs(t, err, reverts.ErrLaunchpoolAlreadyEnded)

	stakeA, rewardA, err := h.engine.ClosePosition(alice, pa.Address(), end)
	require.NoError(t, err)
	assert.Equal(t, uint64(543), stakeA)
	assert.InDelta(t, 74_827_500_000, float64(rewardA), 1)

	_, _, err = h.engine.ClosePosition(alice, pa.Address(), end+1)
	assert.ErrorIs(t, err, reverts.ErrStakePositionNotOpened)

	_, err = h.engine.CollectProtocolReward(alice, addr, end+5)
	assert.ErrorIs(t, err, reverts.ErrUnauthorized)
	collected, err := h.engine.CollectProtocolReward(treasury, addr, end+5)
	require.NoError(t, err)
	assert.Equal(t, uint64(230_000_000), collected)
	_, err = h.engine.CollectProtocolReward(treasury, addr, end+6)
	assert.ErrorIs(t, err, reverts.ErrLaunchpoolNotFinished)

	// closing still works after the protocol reward was collected
	stakeB, rewardB, err := h.engine.ClosePosition(bob, pb.Address(), end+100)
	require.NoError(t, err)
	assert.Equal(t, uint64(181), stakeB)
	assert.InDelta(t, 24_942_500_000, float64(rewardB), 1)

	assert.Equal(t, uint64(10_000), h.balance(stakeAsset, alice))
	assert.Equal(t, uint64(10_000), h.balance(stakeAsset, bob))
	assert.Equal(t, uint64(0), h.balance(stakeAsset, pa.StakeVault))
	assert.Equal(t, rewardA, h.balance(rewardAsset, alice))
	assert.Equal(t, uint64(230_000_000), h.balance(rewardAsset, treasury))

	p, err = h.engine.Pool(addr)
	require.NoError(t, err)
	assert.Equal(t, pool.StatusClaimedProtocolReward, p.Status)
	assert.Equal(t, uint64(0), p.StakedAmount)
	assert.Equal(t, uint64(participants)-rewardA-rewardB, p.ParticipantsRewardLeftToObtain)
	assert.LessOrEqual(t, p.ParticipantsRewardLeftToObtain, uint64(3))
	assert.Equal(t, p.ParticipantsRewardLeftToObtain, h.balance(rewardAsset, p.RewardVault))

	pos, err := h.engine.Position(pa.Address())
	require.NoError(t, err)
	assert.Equal(t, position.StatusClosed, pos.Status)
	assert.Equal(t, uint64(0), pos.Amount)
	assert.True(t, pos.RewardEarned.IsZero())
	assert.True(t, pos.RewardDebt.IsZero())

	pending, err = h.engine.PendingReward(pa.Address(), end+200)
	require.NoError(t, err)
	assert.True(t, pending.IsZero(), "paid reward is not claimable again")
}

func TestIncreasePosition(t *testing.T) {
	h := newHarness(t)
	p := h.launched()
	addr := p.Address()

	pa, err := h.engine.OpenPosition(alice, addr, 100, start)
	require.NoError(t, err)

	_, err = h.engine.IncreasePosition(bob, pa.Address(), 10, start+10)
	assert.ErrorIs(t, err, reverts.ErrMismatchedLaunchpool)
	_, err = h.engine.IncreasePosition(alice, pa.Address(), 444, start+10)
	assert.ErrorIs(t, err, reverts.ErrStakeAboveMaximum)
	_, err = h.engine.IncreasePosition(alice, pa.Address(), 0, start+10)
	assert.ErrorIs(t, err, reverts.ErrStakeAmountIsZero)
	_, err = h.engine.IncreasePosition(alice, lp.BytesToAddress([]byte("nowhere")), 1, start+10)
	assert.ErrorIs(t, err, reverts.ErrStakePositionNotFound)

	half := uint64(start + duration/2)
	pa, err = h.engine.IncreasePosition(alice, pa.Address(), 443, half)
	require.NoError(t, err)
	assert.Equal(t, uint64(543), pa.Amount)
	// alone in the pool for the first half
	assert.InDelta(t, float64(participants)*float64(duration/2)/duration, float64(pa.RewardEarned.Uint64()), 1)

	_, err = h.engine.IncreasePosition(alice, pa.Address(), 1, end)
	assert.ErrorIs(t, err, reverts.ErrLaunchpoolAlreadyEnded)

	_, reward, err := h.engine.ClosePosition(alice, pa.Address(), end)
	require.NoError(t, err)
	assert.InDelta(t, participants, float64(reward), 2)

	events := h.engine.Events()
	last := events[len(events)-1]
	assert.Equal(t, engine.EventClosePosition, last.Name)
	data := last.Data.(*engine.ClosePositionData)
	assert.Equal(t, reward, data.RewardReceived)
	assert.Equal(t, uint64(543), data.StakeReceived)

	transfers := h.engine.Transfers()
	require.Len(t, transfers, 4)
	assert.Equal(t, &engine.Transfer{Asset: stakeAsset, Sender: alice, Recipient: pa.StakeVault, Amount: 100}, transfers[0])
	assert.Equal(t, &engine.Transfer{Asset: rewardAsset, Sender: p.RewardVault, Recipient: alice, Amount: reward}, transfers[3])
}

func TestIdlePeriodNeutrality(t *testing.T) {
	h := newHarness(t)
	p := h.launched()
	addr := p.Address()

	// nobody stakes for the first 1000 seconds
	pa, err := h.engine.OpenPosition(alice, addr, 543, start+1000)
	require.NoError(t, err)

	_, reward, err := h.engine.ClosePosition(alice, pa.Address(), end)
	require.NoError(t, err)
	assert.InDelta(t, 76_205_994_331, float64(reward), 2)

	p, err = h.engine.Pool(addr)
	require.NoError(t, err)
	assert.InDelta(t, 23_564_005_668, float64(p.LeftToDistribute.Uint64()), 2)
	assert.Equal(t, uint64(participants)-reward, p.ParticipantsRewardLeftToObtain)
}

func TestFailedOperationLeavesNoTrace(t *testing.T) {
	h := newHarness(t)
	p := h.launched()
	nEvents, nTransfers := len(h.engine.Events()), len(h.engine.Transfers())

	poor := lp.BytesToAddress([]byte("poor"))
	_, err := h.engine.OpenPosition(poor, p.Address(), 100, start)
	assert.ErrorIs(t, err, reverts.ErrInsufficientBalance)

	_, err = h.engine.PositionOf(poor, p.Address())
	assert.ErrorIs(t, err, reverts.ErrStakePositionNotFound)
	after, err := h.engine.Pool(p.Address())
	require.NoError(t, err)
	assert.Equal(t, uint64(0), after.StakedAmount)
	assert.Equal(t, nEvents, len(h.engine.Events()))
	assert.Equal(t, nTransfers, len(h.engine.Transfers()))
}

func TestMonotonicRewardPerToken(t *testing.T) {
	h := newHarness(t)
	p := h.launched()
	addr := p.Address()

	pa, err := h.engine.OpenPosition(alice, addr, 57, start)
	require.NoError(t, err)

	prev := p.RewardPerToken
	prevLeft := p.ParticipantsRewardLeftToObtain
	for now := uint64(start + 1); now < end; now += 397 {
		_, err := h.engine.IncreasePosition(alice, pa.Address(), 1, now)
		require.NoError(t, err)
		cur, err := h.engine.Pool(addr)
		require.NoError(t, err)
		assert.False(t, cur.RewardPerToken.Lt(prev))
		assert.LessOrEqual(t, cur.ParticipantsRewardLeftToObtain, prevLeft)
		prev, prevLeft = cur.RewardPerToken, cur.ParticipantsRewardLeftToObtain
	}
}

func TestTransferFromVaultRejected(t *testing.T) {
	h := newHarness(t)
	p := h.launched()
	pa, err := h.engine.OpenPosition(alice, p.Address(), 100, start)
	require.NoError(t, err)

	for _, vault := range []lp.Address{p.RewardVault, pa.StakeVault} {
		err := h.engine.TransferAsset(vault, rewardAsset, bob, 1, start+1)
		assert.ErrorIs(t, err, reverts.ErrUnauthorized)
		err = h.engine.TransferAsset(vault, stakeAsset, bob, 1, start+1)
		assert.ErrorIs(t, err, reverts.ErrUnauthorized)
	}
	assert.Equal(t, uint64(initialReward), h.balance(rewardAsset, p.RewardVault))
	assert.Equal(t, uint64(100), h.balance(stakeAsset, pa.StakeVault))

	// vaults still receive
	require.NoError(t, h.engine.TransferAsset(alice, stakeAsset, p.RewardVault, 1, start+1))
}
