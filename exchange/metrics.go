// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package exchange

import (
	"time"

	"github.com/ava-labs/avalanchego/utils/wrappers"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/ava-labs/shieldswap/consts"
	"github.com/ava-labs/shieldswap/errkind"
)

type metrics struct {
	ops       *prometheus.CounterVec
	latency   *prometheus.HistogramVec
	events    prometheus.Counter
	eventErrs prometheus.Counter
	reentrant prometheus.Counter
}

func newMetrics(r prometheus.Registerer) (*metrics, error) {
	m := &metrics{
		ops: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: consts.Name,
			Name:      "operations",
			Help:      "number of exchange operations by outcome",
		}, []string{"op", "result"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: consts.Name,
			Name:      "operation_duration_seconds",
			Help:      "time spent executing an exchange operation, including lock waits",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
		}, []string{"op"}),
		events: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: consts.Name,
			Name:      "events_published",
			Help:      "number of events published to subscribers",
		}),
		eventErrs: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: consts.Name,
			Name:      "event_errors",
			Help:      "number of events a subscriber failed to accept",
		}),
		reentrant: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: consts.Name,
			Name:      "reentrant_calls",
			Help:      "number of calls rejected because they re-entered the exchange",
		}),
	}
	errs := wrappers.Errs{}
	errs.Add(
		r.Register(m.ops),
		r.Register(m.latency),
		r.Register(m.events),
		r.Register(m.eventErrs),
		r.Register(m.reentrant),
	)
	return m, errs.Err
}

// observe records the outcome of [op]; failures are labelled by kind.
func (m *metrics) observe(op string, err error, d time.Duration) {
	result := "ok"
	if err != nil {
		result = errkind.Of(err).String()
	}
	m.ops.WithLabelValues(op, result).Inc()
	m.latency.WithLabelValues(op).Observe(d.Seconds())
}
