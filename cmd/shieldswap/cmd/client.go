// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"errors"
	"strconv"
	"time"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/spf13/cobra"

	"github.com/ava-labs/shieldswap/api/jsonrpc"
	"github.com/ava-labs/shieldswap/api/ws"
	"github.com/ava-labs/shieldswap/codec"
	"github.com/ava-labs/shieldswap/genesis"
	"github.com/ava-labs/shieldswap/storage"
	"github.com/ava-labs/shieldswap/utils"
)

var ErrMissingActor = errors.New("--actor is required")

func uri(cmd *cobra.Command) string {
	u, _ := cmd.Flags().GetString("uri")
	return u
}

// parseToken accepts an address or a genesis token symbol.
func parseToken(s string) codec.Address {
	var a codec.Address
	if err := a.UnmarshalText([]byte(s)); err == nil {
		return a
	}
	return genesis.TokenAddress(s)
}

func parseAddress(s string) (codec.Address, error) {
	var a codec.Address
	err := a.UnmarshalText([]byte(s))
	return a, err
}

func printPool(p *storage.Pool) {
	status := "{{green}}active{{/}}"
	if !p.Active {
		status = "{{red}}paused{{/}}"
	}
	utils.Outf(
		"{{yellow}}pool:{{/}} %s "+status+"\n  {{cyan}}%s{{/}} reserve=%d\n  {{cyan}}%s{{/}} reserve=%d\n  fee=%d bps shares=%d\n",
		p.ID, p.TokenA, p.ReserveA, p.TokenB, p.ReserveB, p.Fee, p.TotalShares,
	)
}

func newPoolCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pool [poolID]",
		Short: "Show one pool or list every pool",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cli := jsonrpc.NewJSONRPCClient(uri(cmd))
			if len(args) == 0 {
				pools, err := cli.ListPools(cmd.Context())
				if err != nil {
					return err
				}
				for _, p := range pools {
					printPool(p)
				}
				utils.Outf("{{yellow}}pools:{{/}} %d\n", len(pools))
				return nil
			}
			poolID, err := ids.FromString(args[0])
			if err != nil {
				return err
			}
			p, err := cli.Pool(cmd.Context(), poolID)
			if err != nil {
				return err
			}
			printPool(p)
			return nil
		},
	}
}

func newQuoteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "quote <tokenIn> <tokenOut> <amountIn>",
		Short: "Quote a swap through the direct pool",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			amountIn, err := strconv.ParseUint(args[2], 10, 64)
			if err != nil {
				return err
			}
			path := []codec.Address{parseToken(args[0]), parseToken(args[1])}
			out, err := jsonrpc.NewJSONRPCClient(uri(cmd)).AmountOut(cmd.Context(), path, amountIn)
			if err != nil {
				return err
			}
			utils.Outf("{{yellow}}amount out:{{/}} %d\n", out)
			return nil
		},
	}
}

func newBalanceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "balance <token> <account>",
		Short: "Show the plaintext balance of an account",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			account, err := parseAddress(args[1])
			if err != nil {
				return err
			}
			bal, err := jsonrpc.NewJSONRPCClient(uri(cmd)).Balance(cmd.Context(), parseToken(args[0]), account)
			if err != nil {
				return err
			}
			utils.Outf("{{yellow}}balance:{{/}} %d\n", bal)
			return nil
		},
	}
}

func newSwapCmd() *cobra.Command {
	var (
		actor     string
		recipient string
		minOut    uint64
		deadline  time.Duration
	)
	cmd := &cobra.Command{
		Use:   "swap <tokenIn> <tokenOut> <amountIn>",
		Short: "Swap through the direct pool",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			if actor == "" {
				return ErrMissingActor
			}
			from, err := parseAddress(actor)
			if err != nil {
				return err
			}
			amountIn, err := strconv.ParseUint(args[2], 10, 64)
			if err != nil {
				return err
			}
			swap := &jsonrpc.RouteSwapArgs{
				Actor:        from,
				Path:         []codec.Address{parseToken(args[0]), parseToken(args[1])},
				AmountIn:     amountIn,
				MinAmountOut: minOut,
			}
			if recipient != "" {
				if swap.Recipient, err = parseAddress(recipient); err != nil {
					return err
				}
			}
			if deadline > 0 {
				swap.Deadline = utils.Deadline(time.Now(), deadline)
			}
			out, err := jsonrpc.NewJSONRPCClient(uri(cmd)).SwapExactIn(cmd.Context(), swap)
			if err != nil {
				return err
			}
			utils.Outf("{{green}}swapped{{/}} %d for %d\n", amountIn, out)
			return nil
		},
	}
	cmd.Flags().StringVar(&actor, "actor", "", "account selling tokenIn")
	cmd.Flags().StringVar(&recipient, "recipient", "", "account receiving tokenOut (defaults to actor)")
	cmd.Flags().Uint64Var(&minOut, "min-out", 0, "minimum acceptable output")
	cmd.Flags().DurationVar(&deadline, "deadline", 0, "time until the swap expires (server default when zero)")
	return cmd
}

func newWatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch [poolID]",
		Short: "Stream committed events, optionally for one pool",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ws.NewWebSocketClient(uri(cmd))
			if err != nil {
				return err
			}
			defer client.Close()

			if len(args) == 1 {
				poolID, err := ids.FromString(args[0])
				if err != nil {
					return err
				}
				err = client.RegisterPool(poolID)
				if err != nil {
					return err
				}
			} else if err := client.RegisterEvents(); err != nil {
				return err
			}
			go func() {
				<-cmd.Context().Done()
				_ = client.Close()
			}()
			for {
				e, err := client.ListenEvent()
				if err != nil {
					if cmd.Context().Err() != nil {
						return nil
					}
					return err
				}
				utils.Outf("{{cyan}}#%d{{/}} {{yellow}}%s{{/}} actor=%s pool=%s tag=%s\n", e.Seq, e.Kind, e.Actor, e.PoolID, e.Tag)
			}
		},
	}
}
