// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package utils

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestToIDDeterministic(t *testing.T) {
	require := require.New(t)

	require.Equal(ToID([]byte("pair")), ToID([]byte("pair")))
	require.NotEqual(ToID([]byte("pair")), ToID([]byte("pai")))
}

func TestInitSubDirectory(t *testing.T) {
	require := require.New(t)

	root := t.TempDir()
	p, err := InitSubDirectory(root, "state")
	require.NoError(err)
	require.Equal(filepath.Join(root, "state"), p)
	info, err := os.Stat(p)
	require.NoError(err)
	require.True(info.IsDir())

	// existing directories are reused
	_, err = InitSubDirectory(root, "state")
	require.NoError(err)
}

func TestDeadline(t *testing.T) {
	now := time.UnixMilli(1_000)
	require.Equal(t, int64(61_000), Deadline(now, time.Minute))
}
