// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/avalanchego/utils/hashing"
	"github.com/ava-labs/avalanchego/utils/perms"

	formatter "github.com/onsi/ginkgo/v2/formatter"
)

// ToID is the sha256 of [b]. Token symbols and pool pairs are named by it.
func ToID(b []byte) ids.ID {
	return ids.ID(hashing.ComputeHash256Array(b))
}

// InitSubDirectory creates [root]/[name] if missing and returns it.
func InitSubDirectory(root string, name string) (string, error) {
	dir := filepath.Join(root, name)
	return dir, os.MkdirAll(dir, perms.ReadWriteExecute)
}

// Outf prints a ginkgo formatted string to stdout, for example
// Outf("{{green}}swapped{{/}} %d", out).
func Outf(format string, args ...interface{}) {
	fmt.Fprint(formatter.ColorableStdOut, formatter.F(format, args...))
}

// Deadline returns the unix millisecond timestamp [d] after [now].
func Deadline(now time.Time, d time.Duration) int64 {
	return now.Add(d).UnixMilli()
}
