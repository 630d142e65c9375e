// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package codec

import (
	"encoding/hex"
	"fmt"
)

const HashLen = 32

// Hash is a 32 byte digest rendered as 0x-prefixed hex.
type Hash [HashLen]byte

var EmptyHash = Hash{}

func (h Hash) String() string {
	return "0x" + hex.EncodeToString(h[:])
}

func (h Hash) MarshalText() ([]byte, error) {
	return []byte(h.String()), nil
}

func (h *Hash) UnmarshalText(input []byte) error {
	if len(input) >= 2 && input[0] == '0' && input[1] == 'x' {
		input = input[2:]
	}
	decoded, err := hex.DecodeString(string(input))
	if err != nil {
		return err
	}
	if len(decoded) != HashLen {
		return fmt.Errorf("%w: hash has %d bytes", ErrInvalidAddress, len(decoded))
	}
	copy(h[:], decoded)
	return nil
}
