// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package lockmap

import (
	"sync"

	"github.com/ava-labs/shieldswap/state"
)

type holderLock struct {
	holders int
	mu      sync.RWMutex
}

// Lockmap hands out a reader/writer lock per storage key. Entries are
// dropped once nobody holds or waits on them.
type Lockmap struct {
	l sync.Mutex
	m map[string]*holderLock
}

func New(initSize int) *Lockmap {
	return &Lockmap{
		m: make(map[string]*holderLock, initSize),
	}
}

func (l *Lockmap) Lock(key string) {
	l.lock(key, true)
}

func (l *Lockmap) Unlock(key string) {
	l.unlock(key, true)
}

func (l *Lockmap) RLock(key string) {
	l.lock(key, false)
}

func (l *Lockmap) RUnlock(key string) {
	l.unlock(key, false)
}

// LockKeys acquires every key of [ks] in sorted order, exclusively for
// keys with Write or Allocate permission and shared otherwise. The
// returned function releases them.
func (l *Lockmap) LockKeys(ks state.Keys) func() {
	names := ks.Sorted()
	for _, k := range names {
		if exclusive(ks[k]) {
			l.Lock(k)
		} else {
			l.RLock(k)
		}
	}
	return func() {
		for i := len(names) - 1; i >= 0; i-- {
			k := names[i]
			if exclusive(ks[k]) {
				l.Unlock(k)
			} else {
				l.RUnlock(k)
			}
		}
	}
}

func exclusive(p state.Permissions) bool {
	return p.Has(state.Write) || p.Has(state.Allocate)
}

func (l *Lockmap) lock(key string, write bool) {
	l.l.Lock()
	hl, ok := l.m[key]
	if !ok {
		hl = &holderLock{}
		l.m[key] = hl
	}
	hl.holders++
	l.l.Unlock()

	if write {
		hl.mu.Lock()
	} else {
		hl.mu.RLock()
	}
}

func (l *Lockmap) unlock(key string, write bool) {
	l.l.Lock()
	defer l.l.Unlock()

	hl := l.m[key]
	if write {
		hl.mu.Unlock()
	} else {
		hl.mu.RUnlock()
	}
	hl.holders--
	if hl.holders == 0 {
		delete(l.m, key)
	}
}

// Locks returns the number of keys currently held or waited on.
func (l *Lockmap) Locks() int {
	l.l.Lock()
	defer l.l.Unlock()

	return len(l.m)
}
