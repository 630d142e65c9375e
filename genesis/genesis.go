// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package genesis seeds an empty exchange from a YAML document.
package genesis

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/avalanchego/trace"
	"github.com/ava-labs/avalanchego/utils/set"
	"gopkg.in/yaml.v2"

	"github.com/ava-labs/shieldswap/amm"
	"github.com/ava-labs/shieldswap/codec"
	"github.com/ava-labs/shieldswap/consts"
	"github.com/ava-labs/shieldswap/exchange"
	"github.com/ava-labs/shieldswap/utils"
)

var (
	ErrMissingOwner    = errors.New("genesis owner is missing")
	ErrDuplicateToken  = errors.New("duplicate token symbol")
	ErrUnknownToken    = errors.New("unknown token symbol")
	ErrEmptySymbol     = errors.New("empty token symbol")
	ErrOneSidedDeposit = errors.New("pool liquidity must fund both sides")
)

// Balance is a plaintext allocation. Address is hex or bech32.
type Balance struct {
	Address string `yaml:"address" json:"address"`
	Amount  uint64 `yaml:"amount" json:"amount"`
}

type Token struct {
	Symbol   string     `yaml:"symbol" json:"symbol"`
	Balances []*Balance `yaml:"balances" json:"balances"`
}

// Pool is created with Fee and, when AmountA and AmountB are set, seeded
// by Provider. The provider must hold both amounts after token minting.
type Pool struct {
	TokenA   string `yaml:"tokenA" json:"tokenA"`
	TokenB   string `yaml:"tokenB" json:"tokenB"`
	Fee      uint64 `yaml:"fee" json:"fee"`
	Provider string `yaml:"provider" json:"provider"`
	AmountA  uint64 `yaml:"amountA" json:"amountA"`
	AmountB  uint64 `yaml:"amountB" json:"amountB"`
}

type Genesis struct {
	Owner    string   `yaml:"owner" json:"owner"`
	Auditors []string `yaml:"auditors" json:"auditors"`
	Tokens   []*Token `yaml:"tokens" json:"tokens"`
	Pools    []*Pool  `yaml:"pools" json:"pools"`
}

// TokenAddress is the address a genesis token symbol is listed under.
func TokenAddress(symbol string) codec.Address {
	return codec.CreateAddress(consts.TokenID, utils.ToID([]byte(symbol)))
}

func Parse(b []byte) (*Genesis, error) {
	g := &Genesis{}
	if err := yaml.Unmarshal(b, g); err != nil {
		return nil, err
	}
	return g, g.Verify()
}

func Load(path string) (*Genesis, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(b)
}

func parseAddress(s string) (codec.Address, error) {
	var a codec.Address
	if err := a.UnmarshalText([]byte(s)); err != nil {
		return codec.EmptyAddress, fmt.Errorf("%w: %q", err, s)
	}
	return a, nil
}

// Verify checks the document without touching any state.
func (g *Genesis) Verify() error {
	if g.Owner == "" {
		return ErrMissingOwner
	}
	if _, err := parseAddress(g.Owner); err != nil {
		return err
	}
	for _, auditor := range g.Auditors {
		if _, err := parseAddress(auditor); err != nil {
			return err
		}
	}
	symbols := set.NewSet[string](len(g.Tokens))
	for _, t := range g.Tokens {
		if t.Symbol == "" {
			return ErrEmptySymbol
		}
		if symbols.Contains(t.Symbol) {
			return fmt.Errorf("%w: %s", ErrDuplicateToken, t.Symbol)
		}
		symbols.Add(t.Symbol)
		for _, b := range t.Balances {
			if _, err := parseAddress(b.Address); err != nil {
				return err
			}
		}
	}
	for _, p := range g.Pools {
		for _, symbol := range []string{p.TokenA, p.TokenB} {
			if !symbols.Contains(symbol) {
				return fmt.Errorf("%w: %s", ErrUnknownToken, symbol)
			}
		}
		if (p.AmountA == 0) != (p.AmountB == 0) {
			return fmt.Errorf("%w: %s/%s", ErrOneSidedDeposit, p.TokenA, p.TokenB)
		}
		if p.AmountA > 0 {
			if _, err := parseAddress(p.Provider); err != nil {
				return err
			}
		}
	}
	return nil
}

// Apply initializes [ex] and returns the created pool ids in document
// order. [ex] must not have an owner yet.
func (g *Genesis) Apply(ctx context.Context, tracer trace.Tracer, ex *exchange.Exchange) ([]ids.ID, error) {
	ctx, span := tracer.Start(ctx, "Genesis.Apply")
	defer span.End()

	owner, err := parseAddress(g.Owner)
	if err != nil {
		return nil, err
	}
	if err := ex.Initialize(ctx, owner); err != nil {
		return nil, err
	}
	for _, s := range g.Auditors {
		auditor, err := parseAddress(s)
		if err != nil {
			return nil, err
		}
		if err := ex.AuthorizeAuditor(ctx, owner, auditor); err != nil {
			return nil, err
		}
	}
	for _, t := range g.Tokens {
		tkn := TokenAddress(t.Symbol)
		if err := ex.AuthorizeToken(ctx, owner, tkn); err != nil {
			return nil, fmt.Errorf("%w: token=%s", err, t.Symbol)
		}
		for _, b := range t.Balances {
			addr, err := parseAddress(b.Address)
			if err != nil {
				return nil, err
			}
			if err := ex.MintTokens(ctx, owner, tkn, addr, b.Amount); err != nil {
				return nil, fmt.Errorf("%w: token=%s addr=%s amount=%d", err, t.Symbol, b.Address, b.Amount)
			}
		}
	}
	poolIDs := make([]ids.ID, 0, len(g.Pools))
	for _, p := range g.Pools {
		poolID, err := ex.CreatePool(ctx, owner, TokenAddress(p.TokenA), TokenAddress(p.TokenB), p.Fee)
		if err != nil {
			return nil, fmt.Errorf("%w: pool=%s/%s", err, p.TokenA, p.TokenB)
		}
		poolIDs = append(poolIDs, poolID)
		if p.AmountA == 0 {
			continue
		}
		provider, err := parseAddress(p.Provider)
		if err != nil {
			return nil, err
		}
		// CreatePool stores tokens sorted, so amounts follow the pool's sides.
		amountA, amountB := p.AmountA, p.AmountB
		dir, err := ex.Direction(ctx, poolID, TokenAddress(p.TokenA))
		if err != nil {
			return nil, err
		}
		if dir == amm.BToA {
			amountA, amountB = amountB, amountA
		}
		if _, err := ex.AddLiquidity(ctx, provider, poolID, amountA, amountB, 0); err != nil {
			return nil, fmt.Errorf("%w: pool=%s/%s", err, p.TokenA, p.TokenB)
		}
	}
	return poolIDs, nil
}
