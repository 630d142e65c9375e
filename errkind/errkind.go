// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package errkind classifies the sentinel errors returned by the exchange
// so callers can react to a category of failure without matching every
// sentinel.
package errkind

import "errors"

type Kind uint8

const (
	Unknown Kind = iota
	// Validation errors are malformed or out of range inputs.
	Validation
	// Authorization errors mean the caller lacks a capability.
	Authorization
	// State errors mean the input was valid but current state forbids it.
	State
	// Slippage errors mean an output was below the caller minimum.
	Slippage
)

func (k Kind) String() string {
	switch k {
	case Validation:
		return "validation"
	case Authorization:
		return "authorization"
	case State:
		return "state"
	case Slippage:
		return "slippage"
	default:
		return "unknown"
	}
}

// Error is a sentinel tagged with a [Kind]. Sentinels are compared by
// identity, so errors.Is keeps working through fmt.Errorf wrapping.
type Error struct {
	kind Kind
	msg  string
}

func New(kind Kind, msg string) error {
	return &Error{kind: kind, msg: msg}
}

func (e *Error) Error() string {
	return e.msg
}

func (e *Error) Kind() Kind {
	return e.kind
}

// Of returns the kind of the first tagged error in [err]'s chain.
func Of(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.kind
	}
	return Unknown
}

func Is(err error, k Kind) bool {
	return Of(err) == k
}
