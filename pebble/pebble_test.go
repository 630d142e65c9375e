// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pebble

import (
	"crypto/rand"
	"fmt"
	"testing"

	"github.com/ava-labs/avalanchego/database"
	"github.com/stretchr/testify/require"
)

const batchSize = 1_500_000

func randBytes() []byte {
	b := make([]byte, 32)
	_, err := rand.Read(b)
	if err != nil {
		panic(err)
	}
	return b
}

func newTestDB(t *testing.T) *Database {
	cfg := NewDefaultConfig()
	cfg.Sync = false
	db, registry, err := New(t.TempDir(), cfg)
	require.NoError(t, err)
	require.NotNil(t, registry)
	return db
}

func TestGetPutDelete(t *testing.T) {
	require := require.New(t)
	db := newTestDB(t)

	_, err := db.Get([]byte("a"))
	require.ErrorIs(err, database.ErrNotFound)
	require.NoError(db.Put([]byte("a"), []byte("1")))
	v, err := db.Get([]byte("a"))
	require.NoError(err)
	require.Equal([]byte("1"), v)
	ok, err := db.Has([]byte("a"))
	require.NoError(err)
	require.True(ok)

	require.NoError(db.Delete([]byte("a")))
	ok, err = db.Has([]byte("a"))
	require.NoError(err)
	require.False(ok)

	require.NoError(db.Close())
	_, err = db.Get([]byte("a"))
	require.ErrorIs(err, database.ErrClosed)
	require.ErrorIs(db.Close(), database.ErrClosed)
}

func TestBatch(t *testing.T) {
	require := require.New(t)
	db := newTestDB(t)
	defer db.Close()

	require.NoError(db.Put([]byte("gone"), []byte("x")))
	b := db.NewBatch()
	require.NoError(b.Put([]byte("k1"), []byte("v1")))
	require.NoError(b.Put([]byte("k2"), []byte("v2")))
	require.NoError(b.Delete([]byte("gone")))
	require.Positive(b.Size())

	// nothing is visible before Write
	_, err := db.Get([]byte("k1"))
	require.ErrorIs(err, database.ErrNotFound)

	require.NoError(b.Write())
	v, err := db.Get([]byte("k2"))
	require.NoError(err)
	require.Equal([]byte("v2"), v)
	_, err = db.Get([]byte("gone"))
	require.ErrorIs(err, database.ErrNotFound)

	b.Reset()
	require.Zero(b.Size())
}

func TestIteratorWithPrefix(t *testing.T) {
	require := require.New(t)
	db := newTestDB(t)
	defer db.Close()

	for _, k := range []string{"a1", "b1", "b2", "b3", "c1"} {
		require.NoError(db.Put([]byte(k), []byte("v"+k)))
	}
	require.NoError(db.Put([]byte{'b', 0xff}, []byte("edge")))

	iter := db.NewIteratorWithPrefix([]byte("b"))
	var got []string
	for iter.Next() {
		got = append(got, string(iter.Key()))
	}
	require.NoError(iter.Error())
	iter.Release()
	require.Equal([]string{"b1", "b2", "b3", string([]byte{'b', 0xff})}, got)

	iter = db.NewIteratorWithStartAndPrefix([]byte("b2"), []byte("b"))
	require.True(iter.Next())
	require.Equal([]byte("b2"), iter.Key())
	require.Equal([]byte("vb2"), iter.Value())
	iter.Release()

	iter = db.NewIterator()
	count := 0
	for iter.Next() {
		count++
	}
	iter.Release()
	require.Equal(6, count)
}

func TestPrefixEnd(t *testing.T) {
	require := require.New(t)

	require.Equal([]byte{0x02}, prefixEnd([]byte{0x01}))
	require.Equal([]byte{0x02}, prefixEnd([]byte{0x01, 0xff}))
	require.Nil(prefixEnd([]byte{0xff, 0xff}))
	require.Nil(prefixEnd(nil))
}

func BenchmarkBatchInsertion(b *testing.B) {
	for _, sync := range []bool{false, true} {
		b.Run(fmt.Sprintf("sync=%t", sync), func(b *testing.B) {
			// Setup DB
			b.StopTimer()
			cfg := NewDefaultConfig()
			cfg.Sync = sync
			db, _, err := New(b.TempDir(), cfg)
			if err != nil {
				b.Fatal(err)
			}

			// Setup keys
			keys := make([][]byte, batchSize)
			for i := 0; i < batchSize; i++ {
				keys[i] = randBytes()
			}

			b.StartTimer()
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				batch := db.NewBatch()
				for j := 0; j < batchSize; j++ {
					if err := batch.Put(keys[j], randBytes()); err != nil {
						b.Fatal(err)
					}
				}
				if err := batch.Write(); err != nil {
					b.Fatal(err)
				}
			}
			b.StopTimer()

			if err := db.Close(); err != nil {
				b.Fatal(err)
			}
		})
	}
}

func TestCommitMetrics(t *testing.T) {
	require := require.New(t)

	cfg := NewDefaultConfig()
	cfg.Sync = false
	db, registry, err := New(t.TempDir(), cfg)
	require.NoError(err)
	defer db.Close()

	b := db.NewBatch()
	require.NoError(b.Put([]byte("k1"), []byte("v")))
	require.NoError(b.Put([]byte("k2"), []byte("v")))
	require.NoError(b.Write())

	families, err := registry.Gather()
	require.NoError(err)
	for _, mf := range families {
		if mf.GetName() == namespace+"_commit_ops" {
			h := mf.GetMetric()[0].GetHistogram()
			require.Equal(uint64(1), h.GetSampleCount())
			require.InDelta(2, h.GetSampleSum(), 0)
			return
		}
	}
	require.FailNow("commit_ops not registered")
}
