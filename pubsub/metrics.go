// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pubsub

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/ava-labs/shieldswap/consts"
)

type metrics struct {
	connections prometheus.Gauge
	published   prometheus.Counter
	dropped     prometheus.Counter
	batches     prometheus.Counter
}

func newMetrics() *metrics {
	opts := func(name, help string) prometheus.Opts {
		return prometheus.Opts{
			Namespace: consts.Name,
			Subsystem: "pubsub",
			Name:      name,
			Help:      help,
		}
	}
	return &metrics{
		connections: prometheus.NewGauge(prometheus.GaugeOpts(opts("connections", "open websocket connections"))),
		published:   prometheus.NewCounter(prometheus.CounterOpts(opts("published", "messages queued for a connection"))),
		dropped:     prometheus.NewCounter(prometheus.CounterOpts(opts("dropped", "messages dropped because a connection fell behind"))),
		batches:     prometheus.NewCounter(prometheus.CounterOpts(opts("batches", "batches written to connections"))),
	}
}

func (m *metrics) register(reg prometheus.Registerer) error {
	for _, c := range []prometheus.Collector{m.connections, m.published, m.dropped, m.batches} {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}
