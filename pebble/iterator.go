// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pebble

import (
	"bytes"
	"slices"

	"github.com/ava-labs/avalanchego/database"
	"github.com/cockroachdb/pebble"
)

var _ database.Iterator = (*iterator)(nil)

type iterator struct {
	db   *Database
	iter *pebble.Iterator

	started bool
	valid   bool
	err     error
	key     []byte
	value   []byte
}

func (d *Database) NewIterator() database.Iterator {
	return d.NewIteratorWithStartAndPrefix(nil, nil)
}

func (d *Database) NewIteratorWithStart(start []byte) database.Iterator {
	return d.NewIteratorWithStartAndPrefix(start, nil)
}

func (d *Database) NewIteratorWithPrefix(prefix []byte) database.Iterator {
	return d.NewIteratorWithStartAndPrefix(nil, prefix)
}

// NewIteratorWithStartAndPrefix iterates keys that begin with [prefix] and
// are not below [start], in ascending order. The iterator holds the read
// lock until it is released.
func (d *Database) NewIteratorWithStartAndPrefix(start []byte, prefix []byte) database.Iterator {
	d.lock.RLock()
	if d.closed {
		d.lock.RUnlock()
		return &database.IteratorError{Err: database.ErrClosed}
	}
	lower := prefix
	if bytes.Compare(start, prefix) > 0 {
		lower = start
	}
	iter, err := d.db.NewIter(&pebble.IterOptions{
		LowerBound: lower,
		UpperBound: prefixEnd(prefix),
	})
	if err != nil {
		d.lock.RUnlock()
		return &database.IteratorError{Err: err}
	}
	return &iterator{db: d, iter: iter}
}

func (it *iterator) Next() bool {
	if it.iter == nil {
		return false
	}
	if !it.started {
		it.valid = it.iter.First()
		it.started = true
	} else {
		it.valid = it.iter.Next()
	}
	if !it.valid {
		it.key, it.value = nil, nil
		it.err = it.iter.Error()
		return false
	}
	it.key = slices.Clone(it.iter.Key())
	it.value = slices.Clone(it.iter.Value())
	return true
}

func (it *iterator) Error() error {
	return it.err
}

func (it *iterator) Key() []byte {
	return it.key
}

func (it *iterator) Value() []byte {
	return it.value
}

func (it *iterator) Release() {
	if it.iter == nil {
		return
	}
	if err := it.iter.Close(); err != nil && it.err == nil {
		it.err = err
	}
	it.iter = nil
	it.db.lock.RUnlock()
}

// prefixEnd returns the smallest key greater than every key with [prefix],
// or nil if there is none.
func prefixEnd(prefix []byte) []byte {
	end := slices.Clone(prefix)
	for i := len(end) - 1; i >= 0; i-- {
		if end[i] < 0xff {
			end[i]++
			return end[:i+1]
		}
	}
	return nil
}
