// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pubsub

import (
	"github.com/ava-labs/shieldswap/codec"
	"github.com/ava-labs/shieldswap/consts"
)

// CreateBatchMessage packs [msgs] as a count followed by length-prefixed
// messages.
func CreateBatchMessage(msgs [][]byte) []byte {
	size := consts.Uint64Len
	for _, msg := range msgs {
		size += consts.Uint32Len + len(msg)
	}
	p := codec.NewWriter(size, size)
	p.PackUint64(uint64(len(msgs)))
	for _, msg := range msgs {
		p.PackBytes(msg)
	}
	return p.Bytes()
}

// ParseBatchMessage unpacks a batch whose total size is at most [maxSize].
func ParseBatchMessage(maxSize int, msg []byte) ([][]byte, error) {
	p := codec.NewReader(msg, maxSize)
	count := p.UnpackUint64()
	if err := p.Err(); err != nil {
		return nil, err
	}
	if count > uint64(len(msg)) {
		return nil, ErrMessageTooLarge
	}
	msgs := make([][]byte, 0, count)
	for i := uint64(0); i < count; i++ {
		var m []byte
		p.UnpackBytes(maxSize, false, &m)
		msgs = append(msgs, m)
	}
	return msgs, p.Done()
}
