// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package codec

import (
	"bytes"
	"encoding/hex"
	"errors"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/btcsuite/btcd/btcutil/bech32"

	"github.com/ava-labs/shieldswap/consts"
)

const AddressLen = 33

var (
	ErrIncorrectHRP   = errors.New("incorrect hrp")
	ErrInvalidAddress = errors.New("invalid address")
)

// Address is a type byte followed by a 32 byte id.
type Address [AddressLen]byte

var EmptyAddress = Address{}

// CreateAddress returns [Address] made from concatenating
// [typeID] with [id].
func CreateAddress(typeID uint8, id ids.ID) Address {
	a := make([]byte, AddressLen)
	a[0] = typeID
	copy(a[1:], id[:])
	return Address(a)
}

// TypeID returns the leading type byte of a.
func (a Address) TypeID() uint8 {
	return a[0]
}

// Compare orders addresses bytewise.
func (a Address) Compare(b Address) int {
	return bytes.Compare(a[:], b[:])
}

func (a Address) Empty() bool {
	return a == EmptyAddress
}

// String implements fmt.Stringer.
func (a Address) String() string {
	return hex.EncodeToString(a[:])
}

// MarshalText returns the hex representation of a.
func (a Address) MarshalText() ([]byte, error) {
	result := make([]byte, len(a)*2+2)
	copy(result, `0x`)
	hex.Encode(result[2:], a[:])
	return result, nil
}

// UnmarshalText parses a hex-encoded address or, failing that, a bech32 one.
func (a *Address) UnmarshalText(input []byte) error {
	if len(input) >= 2 && input[0] == '0' && input[1] == 'x' {
		input = input[2:]
	}
	decoded, err := hex.DecodeString(string(input))
	if err != nil {
		parsed, berr := ParseAddressBech32(consts.HRP, string(input))
		if berr != nil {
			return err
		}
		*a = parsed
		return nil
	}
	if len(decoded) != AddressLen {
		return ErrInvalidAddress
	}
	copy(a[:], decoded)
	return nil
}

// AddressBech32 returns a human readable encoding of [a].
func AddressBech32(hrp string, a Address) (string, error) {
	p, err := bech32.ConvertBits(a[:], 8, 5, true)
	if err != nil {
		return "", err
	}
	return bech32.Encode(hrp, p)
}

// MustAddressBech32 panics if [a] cannot be encoded.
func MustAddressBech32(hrp string, a Address) string {
	s, err := AddressBech32(hrp, a)
	if err != nil {
		panic(err)
	}
	return s
}

// ParseAddressBech32 decodes a bech32 address and checks its prefix.
func ParseAddressBech32(hrp, saddr string) (Address, error) {
	phrp, p, err := bech32.Decode(saddr)
	if err != nil {
		return EmptyAddress, err
	}
	if phrp != hrp {
		return EmptyAddress, ErrIncorrectHRP
	}
	b, err := bech32.ConvertBits(p, 5, 8, false)
	if err != nil {
		return EmptyAddress, err
	}
	if len(b) != AddressLen {
		return EmptyAddress, ErrInvalidAddress
	}
	return Address(b), nil
}
