// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package operations exposes the engine operations over http. The signer of each request is
// taken as authenticated by the host.
package operations

import (
	"context"
	"fmt"
	"net/http"
	"sort"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/stakepad/launchpool/api/restutil"
	"github.com/stakepad/launchpool/engine"
	"github.com/stakepad/launchpool/lp"
	"github.com/stakepad/launchpool/node"
)

type handler func(ctx context.Context, req *http.Request) (*Result, error)

type Operations struct {
	node     *node.Node
	handlers map[string]handler
}

func New(n *node.Node) *Operations {
	o := &Operations{node: n}
	o.handlers = map[string]handler{
		"initializeManager":         o.initializeManager,
		"updateAuthority":           o.updateAuthority(false),
		"updateHeadAuthority":       o.updateAuthority(true),
		"initializeConfig":          o.initializeConfig,
		"updateRewardAuthority":     o.updateRewardAuthority,
		"updateProtocolRewardShare": o.updateProtocolRewardShare,
		"updateDuration":            o.updateDuration,
		"updatePositionSizes":       o.updatePositionSizes,
		"initializePool":            o.initializePool,
		"launch":                    o.launch,
		"openPosition":              o.openPosition,
		"increasePosition":          o.increasePosition,
		"closePosition":             o.closePosition,
		"collectProtocolReward":     o.collectProtocolReward,
		"transfer":                  o.transfer,
	}
	return o
}

// Names returns the served operation names in order.
func (o *Operations) Names() []string {
	names := make([]string, 0, len(o.handlers))
	for name := range o.handlers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func parse(req *http.Request, v any) error {
	if err := restutil.ParseJSON(req.Body, v); err != nil {
		return restutil.BadRequest(errors.WithMessage(err, "body"))
	}
	return nil
}

func (o *Operations) exec(ctx context.Context, op string, scope node.Scope, fn func(e *engine.Engine, now uint64) (any, error)) (*Result, error) {
	var output any
	receipt, err := o.node.Execute(ctx, op, scope, func(e *engine.Engine, now uint64) (err error) {
		output, err = fn(e, now)
		return
	})
	if err != nil {
		return nil, err
	}
	return &Result{Receipt: receipt, Output: output}, nil
}

func (o *Operations) initializeManager(ctx context.Context, req *http.Request) (*Result, error) {
	var body InitializeManager
	if err := parse(req, &body); err != nil {
		return nil, err
	}
	return o.exec(ctx, "initializeManager", node.AdminScope, func(e *engine.Engine, now uint64) (any, error) {
		return nil, e.InitializeManager(body.Signer, body.Authority, body.HeadAuthority, now)
	})
}

func (o *Operations) updateAuthority(head bool) handler {
	return func(ctx context.Context, req *http.Request) (*Result, error) {
		var body UpdateAuthority
		if err := parse(req, &body); err != nil {
			return nil, err
		}
		op := "updateAuthority"
		if head {
			op = "updateHeadAuthority"
		}
		return o.exec(ctx, op, node.AdminScope, func(e *engine.Engine, now uint64) (any, error) {
			if head {
				return nil, e.UpdateHeadAuthority(body.Signer, body.Authority, now)
			}
			return nil, e.UpdateAuthority(body.Signer, body.Authority, now)
		})
	}
}

func (o *Operations) initializeConfig(ctx context.Context, req *http.Request) (*Result, error) {
	var body InitializeConfig
	if err := parse(req, &body); err != nil {
		return nil, err
	}
	return o.exec(ctx, "initializeConfig", node.AdminScope, func(e *engine.Engine, now uint64) (any, error) {
		cfg, err := e.InitializeConfig(body.Signer, engine.ConfigParams{
			RewardAuthority:                body.RewardAuthority,
			StakableAsset:                  body.StakableAsset,
			MinPositionSize:                body.MinPositionSize,
			MaxPositionSize:                body.MaxPositionSize,
			ProtocolRewardShareBasisPoints: body.ProtocolRewardShareBasisPoints,
			Duration:                       body.Duration,
		}, now)
		if err != nil {
			return nil, err
		}
		return &ConfigOutput{ID: cfg.ID, Address: cfg.Address()}, nil
	})
}

func (o *Operations) updateRewardAuthority(ctx context.Context, req *http.Request) (*Result, error) {
	var body UpdateRewardAuthority
	if err := parse(req, &body); err != nil {
		return nil, err
	}
	return o.exec(ctx, "updateRewardAuthority", node.AdminScope, func(e *engine.Engine, now uint64) (any, error) {
		return nil, e.UpdateRewardAuthority(body.Signer, body.ConfigID, body.RewardAuthority, now)
	})
}

func (o *Operations) updateProtocolRewardShare(ctx context.Context, req *http.Request) (*Result, error) {
	var body UpdateProtocolRewardShare
	if err := parse(req, &body); err != nil {
		return nil, err
	}
	return o.exec(ctx, "updateProtocolRewardShare", node.AdminScope, func(e *engine.Engine, now uint64) (any, error) {
		return nil, e.UpdateProtocolRewardShare(body.Signer, body.ConfigID, body.ProtocolRewardShareBasisPoints, now)
	})
}

func (o *Operations) updateDuration(ctx context.Context, req *http.Request) (*Result, error) {
	var body UpdateDuration
	if err := parse(req, &body); err != nil {
		return nil, err
	}
	return o.exec(ctx, "updateDuration", node.AdminScope, func(e *engine.Engine, now uint64) (any, error) {
		return nil, e.UpdateDuration(body.Signer, body.ConfigID, body.Duration, now)
	})
}

func (o *Operations) updatePositionSizes(ctx context.Context, req *http.Request) (*Result, error) {
	var body UpdatePositionSizes
	if err := parse(req, &body); err != nil {
		return nil, err
	}
	return o.exec(ctx, "updatePositionSizes", node.AdminScope, func(e *engine.Engine, now uint64) (any, error) {
		return nil, e.UpdatePositionSizes(body.Signer, body.ConfigID, body.MinPositionSize, body.MaxPositionSize, now)
	})
}

func (o *Operations) initializePool(ctx context.Context, req *http.Request) (*Result, error) {
	var body InitializePool
	if err := parse(req, &body); err != nil {
		return nil, err
	}
	poolAddr := lp.PoolAddress(body.ConfigID, body.RewardAsset)
	return o.exec(ctx, "initializePool", node.PoolScope(poolAddr), func(e *engine.Engine, now uint64) (any, error) {
		p, err := e.InitializePool(body.Signer, body.ConfigID, body.RewardAsset, body.InitialRewardAmount, now)
		if err != nil {
			return nil, err
		}
		return &AddressOutput{Address: p.Address()}, nil
	})
}

func (o *Operations) launch(ctx context.Context, req *http.Request) (*Result, error) {
	var body Launch
	if err := parse(req, &body); err != nil {
		return nil, err
	}
	return o.exec(ctx, "launch", node.PoolScope(body.Pool), func(e *engine.Engine, now uint64) (any, error) {
		return nil, e.Launch(body.Signer, body.Pool, body.StartTimestamp, now)
	})
}

func (o *Operations) openPosition(ctx context.Context, req *http.Request) (*Result, error) {
	var body OpenPosition
	if err := parse(req, &body); err != nil {
		return nil, err
	}
	return o.exec(ctx, "openPosition", node.PoolScope(body.Pool), func(e *engine.Engine, now uint64) (any, error) {
		pos, err := e.OpenPosition(body.Signer, body.Pool, body.Amount, now)
		if err != nil {
			return nil, err
		}
		return &AddressOutput{Address: pos.Address()}, nil
	})
}

// positionScope resolves the pool a position belongs to.
func (o *Operations) positionScope(posAddr lp.Address) (node.Scope, error) {
	var poolAddr lp.Address
	err := o.node.Read(func(v *node.View) error {
		pos, err := v.Engine.Position(posAddr)
		if err != nil {
			return err
		}
		poolAddr = pos.Pool
		return nil
	})
	return node.PoolScope(poolAddr), err
}

func (o *Operations) increasePosition(ctx context.Context, req *http.Request) (*Result, error) {
	var body IncreasePosition
	if err := parse(req, &body); err != nil {
		return nil, err
	}
	scope, err := o.positionScope(body.Position)
	if err != nil {
		return nil, err
	}
	return o.exec(ctx, "increasePosition", scope, func(e *engine.Engine, now uint64) (any, error) {
		_, err := e.IncreasePosition(body.Signer, body.Position, body.Amount, now)
		return nil, err
	})
}

func (o *Operations) closePosition(ctx context.Context, req *http.Request) (*Result, error) {
	var body ClosePosition
	if err := parse(req, &body); err != nil {
		return nil, err
	}
	scope, err := o.positionScope(body.Position)
	if err != nil {
		return nil, err
	}
	return o.exec(ctx, "closePosition", scope, func(e *engine.Engine, now uint64) (any, error) {
		stake, reward, err := e.ClosePosition(body.Signer, body.Position, now)
		if err != nil {
			return nil, err
		}
		return &CloseOutput{Stake: stake, Reward: reward}, nil
	})
}

func (o *Operations) collectProtocolReward(ctx context.Context, req *http.Request) (*Result, error) {
	var body CollectProtocolReward
	if err := parse(req, &body); err != nil {
		return nil, err
	}
	return o.exec(ctx, "collectProtocolReward", node.PoolScope(body.Pool), func(e *engine.Engine, now uint64) (any, error) {
		amount, err := e.CollectProtocolReward(body.Signer, body.Pool, now)
		if err != nil {
			return nil, err
		}
		return &AmountOutput{Amount: amount}, nil
	})
}

func (o *Operations) transfer(ctx context.Context, req *http.Request) (*Result, error) {
	var body Transfer
	if err := parse(req, &body); err != nil {
		return nil, err
	}
	return o.exec(ctx, "transfer", node.AdminScope, func(e *engine.Engine, now uint64) (any, error) {
		return nil, e.TransferAsset(body.Signer, body.Asset, body.Recipient, body.Amount, now)
	})
}

func (o *Operations) handleOperation(w http.ResponseWriter, req *http.Request) error {
	name := mux.Vars(req)["name"]
	h, ok := o.handlers[name]
	if !ok {
		return restutil.NotFound(fmt.Errorf("operation %q not found", name))
	}
	res, err := h(req.Context(), req)
	if err != nil {
		return err
	}
	return restutil.WriteJSON(w, res)
}

func (o *Operations) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/{name}").
		Methods(http.MethodPost).
		Name("POST /operations/{name}").
		HandlerFunc(restutil.WrapHandlerFunc(o.handleOperation))
}
