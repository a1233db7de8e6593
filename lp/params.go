// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package lp

// Constants of the launchpool engine.
const (
	// MaxBasisPoints is 100% expressed in basis points.
	MaxBasisPoints uint16 = 10_000
)
