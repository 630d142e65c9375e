// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package trace

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDisabled(t *testing.T) {
	require := require.New(t)

	tr, err := New(&Config{})
	require.NoError(err)
	_, span := tr.Start(context.Background(), "op")
	require.False(span.SpanContext().IsValid())
	span.End()
	require.NoError(tr.Close())
}

func TestEnabled(t *testing.T) {
	require := require.New(t)

	cfg := NewDefaultConfig()
	cfg.Enabled = true
	cfg.SampleRate = 1
	tr, err := New(&cfg)
	require.NoError(err)
	_, span := tr.Start(context.Background(), "op")
	require.True(span.SpanContext().IsSampled())
	span.End()
	// the collector is not running, shutdown only drops the batch
	_ = tr.Close()
}
