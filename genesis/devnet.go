// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"sync"

	"github.com/stakepad/launchpool/custody"
	"github.com/stakepad/launchpool/engine"
	"github.com/stakepad/launchpool/lp"
)

// DevAccount account for development.
type DevAccount struct {
	Name    string
	Address lp.Address
}

var (
	devAccountsOnce sync.Once
	devAccounts     []DevAccount
)

// DevAccounts returns pre-funded accounts for the devnet. The first one deploys and
// holds the manager authority, the second holds the head authority.
func DevAccounts() []DevAccount {
	devAccountsOnce.Do(func() {
		for _, name := range []string{"deployer", "head", "treasury", "alice", "bob", "carol", "dave", "erin"} {
			devAccounts = append(devAccounts, DevAccount{
				Name:    name,
				Address: lp.Derive([]byte("dev_account"), []byte(name)),
			})
		}
	})
	return devAccounts
}

// Devnet assets.
var (
	DevStakeAsset  = lp.Derive([]byte("dev_asset"), []byte("STAKE"))
	DevRewardAsset = lp.Derive([]byte("dev_asset"), []byte("REWARD"))
)

const devBalance = 1_000_000_000_000

// NewDevnet create genesis for local development.
func NewDevnet() *Genesis {
	launchTime := uint64(1735689600) // 2025-01-01 00:00:00 UTC

	accounts := DevAccounts()
	deployer, head, treasury := accounts[0].Address, accounts[1].Address, accounts[2].Address

	builder := new(Builder).
		Timestamp(launchTime).
		Deployer(deployer).
		Ledger(func(ledger *custody.Ledger) error {
			if err := ledger.RegisterAsset(DevStakeAsset, &custody.Asset{Symbol: "STAKE", Decimals: 9, Program: custody.ProgramStandard}); err != nil {
				return err
			}
			if err := ledger.RegisterAsset(DevRewardAsset, &custody.Asset{
				Symbol:     "REWARD",
				Decimals:   9,
				Program:    custody.ProgramExtended,
				Extensions: []custody.Extension{custody.ExtMetadataPointer, custody.ExtTokenMetadata},
			}); err != nil {
				return err
			}
			for _, acc := range accounts {
				if err := ledger.Mint(DevStakeAsset, acc.Address, devBalance); err != nil {
					return err
				}
				if err := ledger.Mint(DevRewardAsset, acc.Address, devBalance); err != nil {
					return err
				}
			}
			return nil
		}).
		Call(func(e *engine.Engine, now uint64) error {
			return e.InitializeManager(deployer, deployer, head, now)
		}).
		Call(func(e *engine.Engine, now uint64) error {
			_, err := e.InitializeConfig(deployer, engine.ConfigParams{
				RewardAuthority:                treasury,
				StakableAsset:                  DevStakeAsset,
				MinPositionSize:                57,
				MaxPositionSize:                543_000_000_000,
				ProtocolRewardShareBasisPoints: 23,
				Duration:                       4234,
			}, now)
			return err
		})

	gen, err := newGenesis("devnet", builder)
	if err != nil {
		panic(err)
	}
	return gen
}
