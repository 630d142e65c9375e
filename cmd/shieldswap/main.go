// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/ava-labs/shieldswap/cmd/shieldswap/cmd"
	"github.com/ava-labs/shieldswap/utils"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := cmd.NewRootCmd().ExecuteContext(ctx); err != nil {
		utils.Outf("{{red}}error: {{/}}%+v\n", err)
		cancel()
		os.Exit(1)
	}
}
