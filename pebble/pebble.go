// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pebble

import (
	"context"
	"errors"
	"slices"
	"sync"
	"time"

	"github.com/ava-labs/avalanchego/database"
	"github.com/cockroachdb/pebble"
	"github.com/prometheus/client_golang/prometheus"
)

var _ database.Database = (*Database)(nil)

type Config struct {
	CacheSize                   int64  `json:"cacheSize"`
	BytesPerSync                int    `json:"bytesPerSync"`
	WALBytesPerSync             int    `json:"walBytesPerSync"` // 0 means no background syncing
	MemTableStopWritesThreshold int    `json:"memTableStopWritesThreshold"`
	MemTableSize                uint64 `json:"memTableSize"`
	MaxOpenFiles                int    `json:"maxOpenFiles"`
	ConcurrentCompactions       int    `json:"concurrentCompactions"`
	Sync                        bool   `json:"sync"`
}

func NewDefaultConfig() Config {
	return Config{
		CacheSize:                   64 * 1024 * 1024,
		BytesPerSync:                1024 * 1024,
		WALBytesPerSync:             1024 * 1024,
		MemTableStopWritesThreshold: 8,
		MemTableSize:                16 * 1024 * 1024,
		MaxOpenFiles:                4_096,
		ConcurrentCompactions:       1,
		Sync:                        true,
	}
}

// Database is an avalanchego database.Database backed by pebble.
type Database struct {
	lock    sync.RWMutex
	db      *pebble.DB
	metrics *metrics
	writeOp *pebble.WriteOptions

	closed    bool
	closing   chan struct{}
	closeOnce sync.Once
	wg        sync.WaitGroup
}

// New opens (or creates) the database in [file]. The returned registry
// carries the storage metrics.
func New(file string, cfg Config) (*Database, *prometheus.Registry, error) {
	// Setup metrics
	registry, metrics, err := newMetrics()
	if err != nil {
		return nil, nil, err
	}

	// Create database
	d := &Database{
		metrics: metrics,
		closing: make(chan struct{}),
		writeOp: pebble.NoSync,
	}
	if cfg.Sync {
		d.writeOp = pebble.Sync
	}
	cache := pebble.NewCache(cfg.CacheSize)
	defer cache.Unref()
	opts := &pebble.Options{
		Cache:                       cache,
		BytesPerSync:                cfg.BytesPerSync,
		WALBytesPerSync:             cfg.WALBytesPerSync,
		MemTableStopWritesThreshold: cfg.MemTableStopWritesThreshold,
		MemTableSize:                cfg.MemTableSize,
		MaxOpenFiles:                cfg.MaxOpenFiles,
		MaxConcurrentCompactions:    func() int { return cfg.ConcurrentCompactions },
	}
	opts.Experimental.ReadSamplingMultiplier = -1 // explicitly disable seek compaction
	opts.EventListener = &pebble.EventListener{
		CompactionBegin: d.onCompactionBegin,
		CompactionEnd:   d.onCompactionEnd,
		WriteStallBegin: d.onWriteStallBegin,
		WriteStallEnd:   d.onWriteStallEnd,
	}
	d.db, err = pebble.Open(file, opts)
	if err != nil {
		return nil, nil, err
	}
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		d.collectMetrics()
	}()
	return d, registry, nil
}

func (d *Database) Has(key []byte) (bool, error) {
	_, err := d.Get(key)
	switch {
	case errors.Is(err, database.ErrNotFound):
		return false, nil
	case err != nil:
		return false, err
	default:
		return true, nil
	}
}

func (d *Database) Get(key []byte) ([]byte, error) {
	d.lock.RLock()
	defer d.lock.RUnlock()

	if d.closed {
		return nil, database.ErrClosed
	}
	start := time.Now()
	v, closer, err := d.db.Get(key)
	d.metrics.getLatency.Observe(float64(time.Since(start)))
	if errors.Is(err, pebble.ErrNotFound) {
		return nil, database.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	value := slices.Clone(v)
	return value, closer.Close()
}

func (d *Database) Put(key []byte, value []byte) error {
	d.lock.RLock()
	defer d.lock.RUnlock()

	if d.closed {
		return database.ErrClosed
	}
	return d.db.Set(key, value, d.writeOp)
}

func (d *Database) Delete(key []byte) error {
	d.lock.RLock()
	defer d.lock.RUnlock()

	if d.closed {
		return database.ErrClosed
	}
	return d.db.Delete(key, d.writeOp)
}

func (d *Database) Compact(start []byte, limit []byte) error {
	d.lock.RLock()
	defer d.lock.RUnlock()

	if d.closed {
		return database.ErrClosed
	}
	if limit == nil {
		// pebble requires an upper bound
		return nil
	}
	return d.db.Compact(start, limit, true)
}

func (d *Database) HealthCheck(context.Context) (interface{}, error) {
	d.lock.RLock()
	defer d.lock.RUnlock()

	if d.closed {
		return nil, database.ErrClosed
	}
	return nil, nil
}

func (d *Database) Close() error {
	d.closeOnce.Do(func() {
		close(d.closing)
	})
	d.wg.Wait()

	d.lock.Lock()
	defer d.lock.Unlock()

	if d.closed {
		return database.ErrClosed
	}
	d.closed = true
	return d.db.Close()
}
