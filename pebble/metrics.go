// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pebble

import (
	"time"

	"github.com/ava-labs/avalanchego/utils/metric"
	"github.com/ava-labs/avalanchego/utils/wrappers"
	"github.com/cockroachdb/pebble"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/ava-labs/shieldswap/consts"
)

const (
	metricsInterval = 10 * time.Second
	namespace       = consts.Name + "_db"
)

// sampled is a gauge refreshed from pebble.Metrics every metricsInterval.
type sampled struct {
	gauge prometheus.Gauge
	read  func(*pebble.Metrics) float64
}

type metrics struct {
	stallStart time.Time
	writeStall metric.Averager
	getLatency metric.Averager

	commitLatency metric.Averager
	commitOps     prometheus.Histogram

	compactions       *prometheus.CounterVec
	activeCompactions prometheus.Gauge

	sampled []sampled
}

func newSampled(name, help string, read func(*pebble.Metrics) float64) sampled {
	return sampled{
		gauge: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      name,
			Help:      help,
		}),
		read: read,
	}
}

func newMetrics() (*prometheus.Registry, *metrics, error) {
	r := prometheus.NewRegistry()
	errs := wrappers.Errs{}
	averager := func(name, help string) metric.Averager {
		a, err := metric.NewAverager("", namespace+"_"+name, help, r)
		errs.Add(err)
		return a
	}
	m := &metrics{
		writeStall:    averager("write_stall", "time spent waiting for disk write"),
		getLatency:    averager("read_latency", "time spent waiting for db get"),
		commitLatency: averager("commit_latency", "time spent writing an operation's batch"),
		commitOps: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "commit_ops",
			Help:      "number of key changes per committed batch",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 8),
		}),
		compactions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "compactions",
			Help:      "number of compactions by input level",
		}, []string{"level"}),
		activeCompactions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_compactions",
			Help:      "number of active compactions",
		}),
		sampled: []sampled{
			newSampled("disk_usage", "bytes used by the store on disk", func(pm *pebble.Metrics) float64 {
				return float64(pm.DiskSpaceUsage())
			}),
			newSampled("tombstone_count", "approximate count of internal tombstones", func(pm *pebble.Metrics) float64 {
				return float64(pm.Keys.TombstoneCount)
			}),
			newSampled("obsolete_table_size", "bytes in tables no longer referenced", func(pm *pebble.Metrics) float64 {
				return float64(pm.Table.ObsoleteSize)
			}),
			newSampled("zombie_table_size", "bytes in unreferenced tables still held by iterators", func(pm *pebble.Metrics) float64 {
				return float64(pm.Table.ZombieSize)
			}),
			newSampled("obsolete_wal_size", "bytes in WAL files no longer needed", func(pm *pebble.Metrics) float64 {
				return float64(pm.WAL.ObsoletePhysicalSize)
			}),
		},
	}
	errs.Add(
		r.Register(m.commitOps),
		r.Register(m.compactions),
		r.Register(m.activeCompactions),
	)
	for _, s := range m.sampled {
		errs.Add(r.Register(s.gauge))
	}
	return r, m, errs.Err
}

func (db *Database) onCompactionBegin(info pebble.CompactionInfo) {
	db.metrics.activeCompactions.Inc()
	level := "other"
	if len(info.Input) > 0 && info.Input[0].Level == 0 {
		level = "l0"
	}
	db.metrics.compactions.WithLabelValues(level).Inc()
}

func (db *Database) onCompactionEnd(pebble.CompactionInfo) {
	db.metrics.activeCompactions.Dec()
}

func (db *Database) onWriteStallBegin(pebble.WriteStallBeginInfo) {
	db.metrics.stallStart = time.Now()
}

func (db *Database) onWriteStallEnd() {
	db.metrics.writeStall.Observe(float64(time.Since(db.metrics.stallStart)))
}

func (m *metrics) observeCommit(ops int, start time.Time) {
	m.commitOps.Observe(float64(ops))
	m.commitLatency.Observe(float64(time.Since(start)))
}

func (db *Database) collectMetrics() {
	t := time.NewTicker(metricsInterval)
	defer t.Stop()

	for {
		select {
		case <-t.C:
			pm := db.db.Metrics()
			for _, s := range db.metrics.sampled {
				s.gauge.Set(s.read(pm))
			}
		case <-db.closing:
			return
		}
	}
}
