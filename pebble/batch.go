// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pebble

import (
	"time"

	"github.com/ava-labs/avalanchego/database"
)

var _ database.Batch = (*batch)(nil)

// batch buffers writes and applies them in a single pebble batch.
type batch struct {
	database.BatchOps

	db *Database
}

func (d *Database) NewBatch() database.Batch {
	return &batch{db: d}
}

func (b *batch) Write() error {
	b.db.lock.RLock()
	defer b.db.lock.RUnlock()

	if b.db.closed {
		return database.ErrClosed
	}
	start := time.Now()
	pb := b.db.db.NewBatch()
	defer pb.Close()
	for _, op := range b.Ops {
		var err error
		if op.Delete {
			err = pb.Delete(op.Key, nil)
		} else {
			err = pb.Set(op.Key, op.Value, nil)
		}
		if err != nil {
			return err
		}
	}
	if err := pb.Commit(b.db.writeOp); err != nil {
		return err
	}
	b.db.metrics.observeCommit(len(b.Ops), start)
	return nil
}

func (b *batch) Inner() database.Batch {
	return b
}
