// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package co

import (
	"context"
	"sync"
)

// Goes tracks goroutines so that their exit can be awaited.
type Goes struct {
	wg sync.WaitGroup
}

func (g *Goes) Go(f func()) {
	g.wg.Add(1)
	go func() {
		defer g.wg.Done()
		f()
	}()
}

// GoCtx runs f in a goroutine bound to ctx.
func (g *Goes) GoCtx(ctx context.Context, f func(ctx context.Context)) {
	g.wg.Add(1)
	go func() {
		defer g.wg.Done()
		f(ctx)
	}()
}

// Wait blocks until every started goroutine returned.
func (g *Goes) Wait() {
	g.wg.Wait()
}
