// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pubsub

import (
	"sync"
	"time"

	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/ava-labs/avalanchego/utils/timer"
	"go.uber.org/zap"
)

// MessageBuffer groups outbound messages into batches. The open batch is
// moved to Queue when the next message would push it past maxSize, or
// [wait] after the batch was opened. A full Queue drops the batch.
type MessageBuffer struct {
	Queue chan []byte

	log     logging.Logger
	maxSize int
	wait    time.Duration
	flusher *timer.Timer

	// called with the number of messages in each dropped batch
	onDrop func(int)

	lock   sync.Mutex
	batch  [][]byte
	size   int
	closed bool
}

func NewMessageBuffer(log logging.Logger, pending int, maxSize int, wait time.Duration) *MessageBuffer {
	m := &MessageBuffer{
		Queue:   make(chan []byte, pending),
		log:     log,
		maxSize: maxSize,
		wait:    wait,
		onDrop:  func(int) {},
	}
	m.flusher = timer.NewTimer(m.timeout)
	go m.flusher.Dispatch()
	return m
}

func (m *MessageBuffer) timeout() {
	m.lock.Lock()
	defer m.lock.Unlock()

	if m.closed {
		return
	}
	m.flush()
}

// flush must be called with lock held.
func (m *MessageBuffer) flush() {
	n := len(m.batch)
	if n == 0 {
		return
	}
	select {
	case m.Queue <- CreateBatchMessage(m.batch):
	default:
		m.log.Debug("dropping batch", zap.Int("messages", n))
		m.onDrop(n)
	}
	m.batch = nil
	m.size = 0
}

// Send appends [msg] to the open batch. Messages larger than a whole
// batch are rejected.
func (m *MessageBuffer) Send(msg []byte) error {
	m.lock.Lock()
	defer m.lock.Unlock()

	switch {
	case m.closed:
		return ErrClosed
	case len(msg) > m.maxSize:
		return ErrMessageTooLarge
	}
	if len(m.batch) > 0 && m.size+len(msg) > m.maxSize {
		m.flusher.Cancel()
		m.flush()
	}
	m.batch = append(m.batch, msg)
	m.size += len(msg)
	if len(m.batch) == 1 {
		m.flusher.SetTimeoutIn(m.wait)
	}
	return nil
}

// Close flushes the open batch and closes Queue.
func (m *MessageBuffer) Close() error {
	m.lock.Lock()
	defer m.lock.Unlock()

	if m.closed {
		return ErrClosed
	}
	m.flush()
	m.flusher.Stop()
	m.closed = true
	close(m.Queue)
	return nil
}
