// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package tstate

import "errors"

var (
	ErrInvalidKeyOrPermission = errors.New("key is not specified or does not have the required permission")
	ErrInvalidKeyValue        = errors.New("value is too large for key")
	ErrViewClosed             = errors.New("view already committed")
)
