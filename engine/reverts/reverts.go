// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package reverts defines the rule violations an operation can be rejected with.
// A rejected operation leaves no state change behind.
package reverts

import (
	"errors"
	"fmt"
)

// Kind classifies a revert.
type Kind uint8

const (
	KindAuthorization Kind = iota + 1
	KindLifecycle
	KindRange
	KindAssetSafety
	KindArithmetic
	KindInvariant
	KindNotFound
)

func (k Kind) String() string {
	switch k {
	case KindAuthorization:
		return "authorization"
	case KindLifecycle:
		return "lifecycle"
	case KindRange:
		return "range"
	case KindAssetSafety:
		return "asset-safety"
	case KindArithmetic:
		return "arithmetic"
	case KindInvariant:
		return "invariant"
	case KindNotFound:
		return "not-found"
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// ErrRevert is a rule violation. Two reverts are the same error when their codes match.
type ErrRevert struct {
	code    uint32
	kind    Kind
	name    string
	message string
}

// New creates a revert.
func New(code uint32, kind Kind, name, message string) *ErrRevert {
	return &ErrRevert{
		code:    code,
		kind:    kind,
		name:    name,
		message: message,
	}
}

func (e *ErrRevert) Error() string {
	return e.message
}

// Code returns the stable numeric code.
func (e *ErrRevert) Code() uint32 { return e.code }

// Kind returns the classification.
func (e *ErrRevert) Kind() Kind { return e.kind }

// Name returns the stable name, e.g. StakeBelowMinimum.
func (e *ErrRevert) Name() string { return e.name }

// Is reports whether target is a revert with the same code.
func (e *ErrRevert) Is(target error) bool {
	var t *ErrRevert
	if !errors.As(target, &t) {
		return false
	}
	return t.code == e.code
}

// Wrap returns a copy of e carrying extra detail in its message.
func (e *ErrRevert) Wrap(format string, args ...any) *ErrRevert {
	cpy := *e
	cpy.message = e.message + ": " + fmt.Sprintf(format, args...)
	return &cpy
}

// IsRevertErr returns whether err is, or wraps, a revert.
func IsRevertErr(err any) bool {
	_, ok := As(err)
	return ok
}

// As extracts the revert from err.
func As(err any) (*ErrRevert, bool) {
	if err == nil {
		return nil, false
	}
	e, ok := err.(error)
	if !ok {
		return nil, false
	}
	var ve *ErrRevert
	if errors.As(e, &ve) {
		return ve, true
	}
	return nil, false
}

// KindOf returns the kind of the revert wrapped by err, or 0.
func KindOf(err error) Kind {
	if ve, ok := As(err); ok {
		return ve.kind
	}
	return 0
}
