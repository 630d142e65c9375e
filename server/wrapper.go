// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ava-labs/shieldswap/consts"
)

// Wrapper decorates the handler serving every route.
type Wrapper interface {
	WrapHandler(h http.Handler) http.Handler
}

type metricsWrapper struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewMetricsWrapper counts and times every request by status code and
// method.
func NewMetricsWrapper(reg prometheus.Registerer) (Wrapper, error) {
	w := &metricsWrapper{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: consts.Name,
			Subsystem: "http",
			Name:      "requests",
			Help:      "number of http requests served",
		}, []string{"code", "method"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: consts.Name,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "time spent serving http requests",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method"}),
	}
	if err := reg.Register(w.requests); err != nil {
		return nil, err
	}
	if err := reg.Register(w.duration); err != nil {
		return nil, err
	}
	return w, nil
}

func (w *metricsWrapper) WrapHandler(h http.Handler) http.Handler {
	return promhttp.InstrumentHandlerDuration(w.duration,
		promhttp.InstrumentHandlerCounter(w.requests, h),
	)
}

// MetricsHandler exposes [gatherer] in the prometheus text format.
func MetricsHandler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
