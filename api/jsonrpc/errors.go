// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package jsonrpc

import "github.com/ava-labs/shieldswap/errkind"

var ErrDirectPath = errkind.New(errkind.Validation, "path must name exactly two tokens")
