// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package state keeps the engine records.
//
// Records are rlp encoded and addressed by (Space, lp.Address). A State is a journaled
// overlay over the committed store: checkpoints can be reverted, and Stage turns the
// journal into a batch committed atomically. Commits are validated optimistically, a
// State whose reads were changed by a concurrent commit fails with ErrConflict.
package state
