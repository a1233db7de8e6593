// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stakepad/launchpool/custody"
	"github.com/stakepad/launchpool/engine"
	"github.com/stakepad/launchpool/genesis"
	"github.com/stakepad/launchpool/lp"
	"github.com/stakepad/launchpool/lvldb"
	"github.com/stakepad/launchpool/state"
)

func newStater(t *testing.T) *state.Stater {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	stater, err := state.NewStater(db, 16)
	require.NoError(t, err)
	return stater
}

func TestDevnet(t *testing.T) {
	gen := genesis.NewDevnet()
	assert.Equal(t, "devnet", gen.Name())
	assert.Equal(t, genesis.NewDevnet().ID(), gen.ID())
	require.NotNil(t, gen.Deployer())
	assert.Equal(t, genesis.DevAccounts()[0].Address, *gen.Deployer())

	stater := newStater(t)
	res, err := gen.Build(stater)
	require.NoError(t, err)
	assert.Equal(t, gen.ID(), res.ID)
	require.Len(t, res.Events, 2)
	assert.Equal(t, engine.EventInitializeManager, res.Events[0].Name)
	assert.Equal(t, engine.EventInitializeConfig, res.Events[1].Name)

	st := stater.NewState()
	eng := engine.New(st, custody.New(st))
	m, err := eng.Manager()
	require.NoError(t, err)
	assert.Equal(t, genesis.DevAccounts()[1].Address, m.HeadAuthority)
	assert.Equal(t, uint64(1), m.ConfigsCount)

	bal, err := custody.New(st).BalanceOf(genesis.DevStakeAsset, genesis.DevAccounts()[3].Address)
	require.NoError(t, err)
	assert.Equal(t, uint64(1_000_000_000_000), bal)
}

const customYAML = `
name: testnet
launchTime: 1700000000
manager:
  authority: "0x0000000000000000000000000000000000000a01"
  headAuthority: "0x0000000000000000000000000000000000000a02"
assets:
  - address: "0x00000000000000000000000000000000000000f1"
    symbol: STK
    decimals: 6
    program: standard
  - address: "0x00000000000000000000000000000000000000f2"
    symbol: FRZ
    program: standard
    freezable: true
balances:
  - asset: "0x00000000000000000000000000000000000000f1"
    holder: "0x0000000000000000000000000000000000000b01"
    amount: 5000
configs:
  - rewardAuthority: "0x0000000000000000000000000000000000000a03"
    stakableAsset: "0x00000000000000000000000000000000000000f1"
    minPositionSize: 1
    maxPositionSize: 100
    protocolRewardShareBasisPoints: 500
    duration: 3600
`

func writeGenesis(t *testing.T, content string) string {
	path := filepath.Join(t.TempDir(), "genesis.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestCustomNet(t *testing.T) {
	custom, err := genesis.LoadCustomGenesis(writeGenesis(t, customYAML))
	require.NoError(t, err)
	assert.Equal(t, uint64(1700000000), custom.LaunchTime)
	require.Len(t, custom.Assets, 2)
	assert.Equal(t, "STK", custom.Assets[0].Symbol)
	assert.True(t, custom.Assets[1].Freezable)
	assert.Nil(t, custom.Deployer)

	gen, err := genesis.NewCustomNet(custom)
	require.NoError(t, err)
	assert.Equal(t, "testnet", gen.Name())
	assert.Nil(t, gen.Deployer())

	stater := newStater(t)
	res, err := gen.Build(stater)
	require.NoError(t, err)
	assert.Len(t, res.Events, 2)
	assert.Equal(t, uint64(1700000000), res.Events[0].Timestamp)

	st := stater.NewState()
	cfg, err := engine.New(st, custody.New(st)).Config(0)
	require.NoError(t, err)
	assert.Equal(t, uint64(3600), cfg.Duration)
	assert.Equal(t, lp.MustParseAddress("0x0000000000000000000000000000000000000a03"), cfg.RewardAuthority)
}

func TestCustomNetRejectsUnsafeStakableAsset(t *testing.T) {
	custom, err := genesis.LoadCustomGenesis(writeGenesis(t, customYAML))
	require.NoError(t, err)
	custom.Configs[0].StakableAsset = custom.Assets[1].Address

	_, err = genesis.NewCustomNet(custom)
	assert.ErrorContains(t, err, "config 0")
}

func TestCustomNetRequiresManager(t *testing.T) {
	_, err := genesis.NewCustomNet(&genesis.CustomGenesis{})
	assert.Error(t, err)

	_, err = genesis.LoadCustomGenesis(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
