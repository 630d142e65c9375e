// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package cmd implements the shieldswap command line: the server and a
// JSON-RPC client for inspecting and trading against it.
package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ava-labs/shieldswap/consts"
)

const defaultURI = "http://127.0.0.1:9660"

func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     consts.Name,
		Short:   "Confidential AMM server and client",
		Version: consts.Version,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	cobra.EnablePrefixMatching = true
	cmd.CompletionOptions.HiddenDefaultCmd = true
	cmd.DisableAutoGenTag = true
	cmd.SilenceErrors = true
	cmd.SilenceUsage = true
	cmd.SetHelpCommand(&cobra.Command{Hidden: true})
	cmd.PersistentFlags().String("uri", defaultURI, "server uri used by client commands")

	cmd.AddCommand(
		newServeCmd(),
		newPoolCmd(),
		newQuoteCmd(),
		newBalanceCmd(),
		newSwapCmd(),
		newWatchCmd(),
	)
	return cmd
}
