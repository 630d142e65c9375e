// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package trace builds the avalanchego tracer used for exchange spans.
// Spans go to a zipkin collector when enabled and nowhere otherwise.
package trace

import (
	"context"
	"time"

	"github.com/ava-labs/avalanchego/trace"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/zipkin"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/trace/noop"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.4.0"
	oteltrace "go.opentelemetry.io/otel/trace"

	"github.com/ava-labs/shieldswap/consts"
)

const (
	defaultEndpoint = "http://localhost:9411/api/v2/spans"

	exportTimeout = 10 * time.Second
	// must exceed exportTimeout so in-flight exports finish
	shutdownTimeout = 15 * time.Second
)

var (
	_ trace.Tracer = (*tracer)(nil)
	_ trace.Tracer = disabled{}
)

type Config struct {
	Enabled bool `json:"enabled"`

	// SampleRate is the fraction of operations traced, clamped to [0, 1].
	SampleRate float64 `json:"sampleRate"`

	// Endpoint is the zipkin collector spans are exported to.
	Endpoint string `json:"endpoint"`

	ServiceName string `json:"serviceName"`
	Version     string `json:"version"`
}

func NewDefaultConfig() Config {
	return Config{
		SampleRate:  0.1,
		Endpoint:    defaultEndpoint,
		ServiceName: consts.Name,
		Version:     consts.Version,
	}
}

type disabled struct {
	oteltrace.Tracer
}

func (disabled) Close() error {
	return nil
}

type tracer struct {
	oteltrace.Tracer

	tp *sdktrace.TracerProvider
}

func (t *tracer) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return t.tp.Shutdown(ctx)
}

func New(config *Config) (trace.Tracer, error) {
	name := config.ServiceName
	if name == "" {
		name = consts.Name
	}
	if !config.Enabled {
		return disabled{Tracer: noop.NewTracerProvider().Tracer(name)}, nil
	}

	endpoint := config.Endpoint
	if endpoint == "" {
		endpoint = defaultEndpoint
	}
	exporter, err := zipkin.New(endpoint)
	if err != nil {
		return nil, err
	}
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter, sdktrace.WithExportTimeout(exportTimeout)),
		sdktrace.WithResource(resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceNameKey.String(name),
			attribute.String("version", config.Version),
		)),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(config.SampleRate))),
	)
	return &tracer{
		Tracer: tp.Tracer(name),
		tp:     tp,
	}, nil
}
