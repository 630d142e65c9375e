// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package lockmap

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ava-labs/shieldswap/state"
)

func TestLockUnlock(t *testing.T) {
	require := require.New(t)

	l := New(4)
	l.Lock("a")
	l.RLock("b")
	l.RLock("b")
	require.Equal(2, l.Locks())

	l.Unlock("a")
	l.RUnlock("b")
	require.Equal(1, l.Locks())
	l.RUnlock("b")
	require.Zero(l.Locks())
}

func TestLockExcludes(t *testing.T) {
	require := require.New(t)

	l := New(1)
	l.Lock("a")

	acquired := make(chan struct{})
	go func() {
		l.Lock("a")
		close(acquired)
		l.Unlock("a")
	}()

	select {
	case <-acquired:
		require.FailNow("lock acquired twice")
	case <-time.After(50 * time.Millisecond):
	}
	l.Unlock("a")
	<-acquired
}

func TestLockKeys(t *testing.T) {
	require := require.New(t)

	l := New(4)
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		counter int
	)
	ks := state.Keys{"x": state.Write, "y": state.Read, "z": state.Allocate}
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			release := l.LockKeys(ks)
			defer release()

			mu.Lock()
			counter++
			mu.Unlock()
		}()
	}
	wg.Wait()
	require.Equal(16, counter)
	require.Zero(l.Locks())
}
