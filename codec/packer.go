// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package codec

import (
	"fmt"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/avalanchego/utils/wrappers"

	"github.com/ava-labs/shieldswap/consts"
)

// Packer is a wrapper struct for the Packer struct
// from avalanchego/utils/wrappers/packing.go. It adds the typed
// fields stored by this repo.
type Packer struct {
	p *wrappers.Packer
}

// NewReader returns a Packer instance with the bytes of [src]
// and a limit of [limit].
func NewReader(src []byte, limit int) *Packer {
	return &Packer{
		p: &wrappers.Packer{Bytes: src, MaxSize: limit},
	}
}

// NewWriter returns an instance of Packer with an initial size of [initial]
// and a MaxSize set to [limit].
func NewWriter(initial, limit int) *Packer {
	return &Packer{
		p: &wrappers.Packer{Bytes: make([]byte, 0, initial), MaxSize: limit},
	}
}

func (p *Packer) PackID(src ids.ID) {
	p.p.PackFixedBytes(src[:])
}

// UnpackID unpacks an ids.ID into [dest]. If [required] is true and the
// unpacked ID is empty, an error is recorded.
func (p *Packer) UnpackID(required bool, dest *ids.ID) {
	copy((*dest)[:], p.p.UnpackFixedBytes(consts.IDLen))
	if required && *dest == ids.Empty {
		p.addErr(fmt.Errorf("%w: ID field is not populated", ErrFieldNotPopulated))
	}
}

func (p *Packer) PackAddress(a Address) {
	p.p.PackFixedBytes(a[:])
}

func (p *Packer) UnpackAddress(dest *Address) {
	copy((*dest)[:], p.p.UnpackFixedBytes(AddressLen))
}

func (p *Packer) PackFixedBytes(b []byte) {
	p.p.PackFixedBytes(b)
}

func (p *Packer) PackBytes(b []byte) {
	p.p.PackBytes(b)
}

// UnpackBytes unpacks a length prefixed slice of at most [limit] bytes.
func (p *Packer) UnpackBytes(limit int, required bool, dest *[]byte) {
	*dest = p.p.UnpackBytes()
	if limit >= 0 && len(*dest) > limit {
		p.addErr(fmt.Errorf("%w: %d > %d", ErrFieldNotPopulated, len(*dest), limit))
		return
	}
	if required && len(*dest) == 0 {
		p.addErr(fmt.Errorf("%w: bytes field is not populated", ErrFieldNotPopulated))
	}
}

func (p *Packer) PackUint64(v uint64) {
	p.p.PackLong(v)
}

func (p *Packer) UnpackUint64() uint64 {
	return p.p.UnpackLong()
}

func (p *Packer) PackInt64(v int64) {
	p.p.PackLong(uint64(v))
}

func (p *Packer) UnpackInt64() int64 {
	return int64(p.p.UnpackLong())
}

func (p *Packer) PackBool(b bool) {
	p.p.PackBool(b)
}

func (p *Packer) UnpackBool() bool {
	return p.p.UnpackBool()
}

func (p *Packer) Bytes() []byte {
	return p.p.Bytes
}

// Empty is true when every byte has been consumed.
func (p *Packer) Empty() bool {
	return p.p.Offset == len(p.p.Bytes)
}

// Err returns the first packing error.
func (p *Packer) Err() error {
	return p.p.Err
}

// Done reports any error, including bytes left unread by a reader.
func (p *Packer) Done() error {
	if err := p.p.Err; err != nil {
		return err
	}
	if !p.Empty() {
		return ErrTrailingBytes
	}
	return nil
}

func (p *Packer) addErr(err error) {
	p.p.Add(err)
}
