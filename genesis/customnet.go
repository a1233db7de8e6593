// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/stakepad/launchpool/custody"
	"github.com/stakepad/launchpool/engine"
	"github.com/stakepad/launchpool/lp"
)

// CustomGenesis is user customized genesis.
type CustomGenesis struct {
	Name       string          `yaml:"name"`
	LaunchTime uint64          `yaml:"launchTime"`
	Deployer   *lp.Address     `yaml:"deployer"`
	Manager    ManagerPreset   `yaml:"manager"`
	Assets     []AssetPreset   `yaml:"assets"`
	Balances   []BalancePreset `yaml:"balances"`
	Configs    []ConfigPreset  `yaml:"configs"`
}

type ManagerPreset struct {
	Authority     lp.Address `yaml:"authority"`
	HeadAuthority lp.Address `yaml:"headAuthority"`
}

type AssetPreset struct {
	Address       lp.Address `yaml:"address"`
	custody.Asset `yaml:",inline"`
}

type BalancePreset struct {
	Asset  lp.Address `yaml:"asset"`
	Holder lp.Address `yaml:"holder"`
	Amount uint64     `yaml:"amount"`
}

type ConfigPreset struct {
	RewardAuthority                lp.Address `yaml:"rewardAuthority"`
	StakableAsset                  lp.Address `yaml:"stakableAsset"`
	MinPositionSize                uint64     `yaml:"minPositionSize"`
	MaxPositionSize                uint64     `yaml:"maxPositionSize"`
	ProtocolRewardShareBasisPoints uint16     `yaml:"protocolRewardShareBasisPoints"`
	Duration                       uint64     `yaml:"duration"`
}

// LoadCustomGenesis reads a yaml genesis file.
func LoadCustomGenesis(path string) (*CustomGenesis, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read genesis file")
	}
	var gen CustomGenesis
	if err := yaml.Unmarshal(data, &gen); err != nil {
		return nil, errors.Wrap(err, "decode genesis file")
	}
	return &gen, nil
}

// NewCustomNet create custom network genesis.
func NewCustomNet(gen *CustomGenesis) (*Genesis, error) {
	if gen.Manager.Authority.IsZero() || gen.Manager.HeadAuthority.IsZero() {
		return nil, errors.New("manager authorities must be set")
	}
	signer := gen.Manager.HeadAuthority
	if gen.Deployer != nil {
		signer = *gen.Deployer
	}

	builder := new(Builder).
		Timestamp(gen.LaunchTime).
		Ledger(func(ledger *custody.Ledger) error {
			for i := range gen.Assets {
				a := &gen.Assets[i]
				if a.Address.IsZero() {
					return fmt.Errorf("asset %d: address must be set", i)
				}
				if err := ledger.RegisterAsset(a.Address, &a.Asset); err != nil {
					return err
				}
			}
			for _, b := range gen.Balances {
				if b.Amount == 0 {
					return fmt.Errorf("%v: balance must be a non-zero integer", b.Holder)
				}
				if err := ledger.Mint(b.Asset, b.Holder, b.Amount); err != nil {
					return errors.WithMessagef(err, "balance of %v", b.Holder)
				}
			}
			return nil
		}).
		Call(func(e *engine.Engine, now uint64) error {
			return e.InitializeManager(signer, gen.Manager.Authority, gen.Manager.HeadAuthority, now)
		})
	if gen.Deployer != nil {
		builder.Deployer(*gen.Deployer)
	}

	for i, c := range gen.Configs {
		i, c := i, c
		builder.Call(func(e *engine.Engine, now uint64) error {
			_, err := e.InitializeConfig(gen.Manager.HeadAuthority, engine.ConfigParams{
				RewardAuthority:                c.RewardAuthority,
				StakableAsset:                  c.StakableAsset,
				MinPositionSize:                c.MinPositionSize,
				MaxPositionSize:                c.MaxPositionSize,
				ProtocolRewardShareBasisPoints: c.ProtocolRewardShareBasisPoints,
				Duration:                       c.Duration,
			}, now)
			return errors.WithMessagef(err, "config %d", i)
		})
	}

	name := gen.Name
	if name == "" {
		name = "customnet"
	}
	return newGenesis(name, builder)
}
