// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package codec

import "errors"

var (
	ErrFieldNotPopulated = errors.New("field is not populated")
	ErrTrailingBytes     = errors.New("trailing bytes")
)
