// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package jsonrpc exposes the exchange over JSON-RPC. Callers name the
// acting account in every mutating request.
package jsonrpc

import (
	"context"
	"net/http"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/avalanchego/utils/logging"
	"go.uber.org/zap"

	"github.com/ava-labs/shieldswap/amm"
	"github.com/ava-labs/shieldswap/codec"
	"github.com/ava-labs/shieldswap/consts"
	"github.com/ava-labs/shieldswap/exchange"
	"github.com/ava-labs/shieldswap/server"
	"github.com/ava-labs/shieldswap/storage"
)

const Endpoint = "/rpc"

// NewHandler returns the JSON-RPC handler serving [ex] under the service
// name consts.Name.
func NewHandler(log logging.Logger, ex *exchange.Exchange) (http.Handler, error) {
	return server.NewHandler(log, NewJSONRPCServer(log, ex), consts.Name)
}

type JSONRPCServer struct {
	log logging.Logger
	ex  *exchange.Exchange
}

func NewJSONRPCServer(log logging.Logger, ex *exchange.Exchange) *JSONRPCServer {
	return &JSONRPCServer{log: log, ex: ex}
}

type PingReply struct {
	Success bool `json:"success"`
}

func (j *JSONRPCServer) Ping(_ *http.Request, _ *struct{}, reply *PingReply) (err error) {
	j.log.Info("ping")
	reply.Success = true
	return nil
}

type AmountReply struct {
	Amount uint64 `json:"amount"`
}

type BoolReply struct {
	Value bool `json:"value"`
}

type OwnerReply struct {
	Owner codec.Address `json:"owner"`
}

func (j *JSONRPCServer) Owner(req *http.Request, _ *struct{}, reply *OwnerReply) (err error) {
	reply.Owner, err = j.ex.Owner(req.Context())
	return err
}

type TransferOwnershipArgs struct {
	Actor    codec.Address `json:"actor"`
	NewOwner codec.Address `json:"newOwner"`
}

func (j *JSONRPCServer) TransferOwnership(req *http.Request, args *TransferOwnershipArgs, _ *struct{}) error {
	return j.ex.TransferOwnership(req.Context(), args.Actor, args.NewOwner)
}

// Confidential ledger

type RegisterArgs struct {
	Actor     codec.Address `json:"actor"`
	Token     codec.Address `json:"token"`
	PublicKey []byte        `json:"publicKey"`
}

func (j *JSONRPCServer) Register(req *http.Request, args *RegisterArgs, _ *struct{}) error {
	return j.ex.Register(req.Context(), args.Actor, args.Token, args.PublicKey)
}

type AmountArgs struct {
	Actor  codec.Address `json:"actor"`
	Token  codec.Address `json:"token"`
	Amount uint64        `json:"amount"`
	Nonce  uint64        `json:"nonce"`
}

func (j *JSONRPCServer) Deposit(req *http.Request, args *AmountArgs, _ *struct{}) error {
	return j.ex.Deposit(req.Context(), args.Actor, args.Token, args.Amount, args.Nonce)
}

func (j *JSONRPCServer) Withdraw(req *http.Request, args *AmountArgs, _ *struct{}) error {
	return j.ex.Withdraw(req.Context(), args.Actor, args.Token, args.Amount, args.Nonce)
}

type ConfidentialTransferArgs struct {
	Actor  codec.Address `json:"actor"`
	Token  codec.Address `json:"token"`
	To     codec.Address `json:"to"`
	Amount uint64        `json:"amount"`
	Nonce  uint64        `json:"nonce"`
	Proof  []byte        `json:"proof"`
}

func (j *JSONRPCServer) ConfidentialTransfer(req *http.Request, args *ConfidentialTransferArgs, reply *BoolReply) (err error) {
	reply.Value, err = j.ex.ConfidentialTransfer(req.Context(), args.Actor, args.Token, args.To, args.Amount, args.Nonce, args.Proof)
	return err
}

func (j *JSONRPCServer) LegacyTransfer(req *http.Request, args *ConfidentialTransferArgs, _ *struct{}) error {
	return j.ex.LegacyTransfer(req.Context(), args.Actor, args.Token, args.To, args.Amount, args.Nonce)
}

func (j *JSONRPCServer) ConfidentialMint(req *http.Request, args *ConfidentialTransferArgs, _ *struct{}) error {
	return j.ex.ConfidentialMint(req.Context(), args.Actor, args.Token, args.To, args.Amount, args.Nonce)
}

type BurnArgs struct {
	Actor   codec.Address `json:"actor"`
	Token   codec.Address `json:"token"`
	Account codec.Address `json:"account"`
	Amount  uint64        `json:"amount"`
	Nonce   uint64        `json:"nonce"`
}

func (j *JSONRPCServer) ConfidentialBurn(req *http.Request, args *BurnArgs, _ *struct{}) error {
	return j.ex.ConfidentialBurn(req.Context(), args.Actor, args.Token, args.Account, args.Amount, args.Nonce)
}

type AuditorArgs struct {
	Actor   codec.Address `json:"actor"`
	Auditor codec.Address `json:"auditor"`
}

func (j *JSONRPCServer) AuthorizeAuditor(req *http.Request, args *AuditorArgs, _ *struct{}) error {
	return j.ex.AuthorizeAuditor(req.Context(), args.Actor, args.Auditor)
}

func (j *JSONRPCServer) RevokeAuditor(req *http.Request, args *AuditorArgs, _ *struct{}) error {
	return j.ex.RevokeAuditor(req.Context(), args.Actor, args.Auditor)
}

type AccountArgs struct {
	Actor   codec.Address `json:"actor"`
	Token   codec.Address `json:"token"`
	Account codec.Address `json:"account"`
}

func (j *JSONRPCServer) ConfidentialBalance(req *http.Request, args *AccountArgs, reply *AmountReply) (err error) {
	reply.Amount, err = j.ex.GetConfidentialBalance(req.Context(), args.Actor, args.Token, args.Account)
	return err
}

func (j *JSONRPCServer) DiscloseForAuditor(req *http.Request, args *AccountArgs, reply *AmountReply) (err error) {
	reply.Amount, err = j.ex.DiscloseForAuditor(req.Context(), args.Actor, args.Token, args.Account)
	return err
}

func (j *JSONRPCServer) Commitment(req *http.Request, args *AccountArgs, reply *exchange.Commitment) (err error) {
	*reply, err = j.ex.GetCommitment(req.Context(), args.Token, args.Account)
	return err
}

// Pool registry

type TokenArgs struct {
	Actor codec.Address `json:"actor"`
	Token codec.Address `json:"token"`
}

func (j *JSONRPCServer) AuthorizeToken(req *http.Request, args *TokenArgs, _ *struct{}) error {
	return j.ex.AuthorizeToken(req.Context(), args.Actor, args.Token)
}

func (j *JSONRPCServer) RevokeToken(req *http.Request, args *TokenArgs, _ *struct{}) error {
	return j.ex.RevokeToken(req.Context(), args.Actor, args.Token)
}

func (j *JSONRPCServer) IsTokenAuthorized(req *http.Request, args *TokenArgs, reply *BoolReply) (err error) {
	reply.Value, err = j.ex.IsTokenAuthorized(req.Context(), args.Token)
	return err
}

type CreatePoolArgs struct {
	Actor  codec.Address `json:"actor"`
	TokenA codec.Address `json:"tokenA"`
	TokenB codec.Address `json:"tokenB"`
	Fee    uint64        `json:"fee"`
}

type PoolIDReply struct {
	PoolID ids.ID `json:"poolID"`
}

func (j *JSONRPCServer) CreatePool(req *http.Request, args *CreatePoolArgs, reply *PoolIDReply) (err error) {
	reply.PoolID, err = j.ex.CreatePool(req.Context(), args.Actor, args.TokenA, args.TokenB, args.Fee)
	if err == nil {
		j.log.Info("created pool", zap.Stringer("poolID", reply.PoolID))
	}
	return err
}

type PoolArgs struct {
	Actor  codec.Address `json:"actor"`
	PoolID ids.ID        `json:"poolID"`
}

func (j *JSONRPCServer) AuthorizePool(req *http.Request, args *PoolArgs, _ *struct{}) error {
	return j.ex.AuthorizePool(req.Context(), args.Actor, args.PoolID)
}

func (j *JSONRPCServer) RevokePool(req *http.Request, args *PoolArgs, _ *struct{}) error {
	return j.ex.RevokePool(req.Context(), args.Actor, args.PoolID)
}

func (j *JSONRPCServer) PausePool(req *http.Request, args *PoolArgs, _ *struct{}) error {
	return j.ex.PausePool(req.Context(), args.Actor, args.PoolID)
}

func (j *JSONRPCServer) ResumePool(req *http.Request, args *PoolArgs, _ *struct{}) error {
	return j.ex.ResumePool(req.Context(), args.Actor, args.PoolID)
}

func (j *JSONRPCServer) IsPoolAuthorized(req *http.Request, args *PoolArgs, reply *BoolReply) (err error) {
	reply.Value, err = j.ex.IsPoolAuthorized(req.Context(), args.PoolID)
	return err
}

type SetPoolFeeArgs struct {
	Actor  codec.Address `json:"actor"`
	PoolID ids.ID        `json:"poolID"`
	Fee    uint64        `json:"fee"`
}

func (j *JSONRPCServer) SetPoolFee(req *http.Request, args *SetPoolFeeArgs, _ *struct{}) error {
	return j.ex.SetPoolFee(req.Context(), args.Actor, args.PoolID, args.Fee)
}

type PoolReply struct {
	Pool *storage.Pool `json:"pool"`
}

func (j *JSONRPCServer) Pool(req *http.Request, args *PoolArgs, reply *PoolReply) (err error) {
	reply.Pool, err = j.ex.GetPool(req.Context(), args.PoolID)
	return err
}

type PoolsReply struct {
	Pools []*storage.Pool `json:"pools"`
}

func (j *JSONRPCServer) ListPools(req *http.Request, _ *struct{}, reply *PoolsReply) (err error) {
	reply.Pools, err = j.ex.ListPools(req.Context())
	return err
}

type PositionArgs struct {
	PoolID   ids.ID        `json:"poolID"`
	Provider codec.Address `json:"provider"`
}

func (j *JSONRPCServer) Position(req *http.Request, args *PositionArgs, reply *storage.Position) (err error) {
	*reply, err = j.ex.GetPosition(req.Context(), args.PoolID, args.Provider)
	return err
}

// AMM engine

type AddLiquidityArgs struct {
	Actor     codec.Address `json:"actor"`
	PoolID    ids.ID        `json:"poolID"`
	AmountA   uint64        `json:"amountA"`
	AmountB   uint64        `json:"amountB"`
	MinShares uint64        `json:"minShares"`
}

type SharesReply struct {
	Shares uint64 `json:"shares"`
}

func (j *JSONRPCServer) AddLiquidity(req *http.Request, args *AddLiquidityArgs, reply *SharesReply) (err error) {
	reply.Shares, err = j.ex.AddLiquidity(req.Context(), args.Actor, args.PoolID, args.AmountA, args.AmountB, args.MinShares)
	return err
}

type RemoveLiquidityArgs struct {
	Actor      codec.Address `json:"actor"`
	PoolID     ids.ID        `json:"poolID"`
	Shares     uint64        `json:"shares"`
	MinAmountA uint64        `json:"minAmountA"`
	MinAmountB uint64        `json:"minAmountB"`
}

type RemoveLiquidityReply struct {
	AmountA uint64 `json:"amountA"`
	AmountB uint64 `json:"amountB"`
}

func (j *JSONRPCServer) RemoveLiquidity(req *http.Request, args *RemoveLiquidityArgs, reply *RemoveLiquidityReply) (err error) {
	reply.AmountA, reply.AmountB, err = j.ex.RemoveLiquidity(req.Context(), args.Actor, args.PoolID, args.Shares, args.MinAmountA, args.MinAmountB)
	return err
}

// SwapArgs selects the side either by TokenIn or, when TokenIn is empty,
// by Direction.
type SwapArgs struct {
	Actor        codec.Address `json:"actor"`
	PoolID       ids.ID        `json:"poolID"`
	TokenIn      codec.Address `json:"tokenIn"`
	Direction    amm.Direction `json:"direction"`
	AmountIn     uint64        `json:"amountIn"`
	MinAmountOut uint64        `json:"minAmountOut"`
}

func (j *JSONRPCServer) direction(ctx context.Context, poolID ids.ID, tokenIn codec.Address, dir amm.Direction) (amm.Direction, error) {
	if tokenIn == codec.EmptyAddress {
		return dir, nil
	}
	return j.ex.Direction(ctx, poolID, tokenIn)
}

func (j *JSONRPCServer) Swap(req *http.Request, args *SwapArgs, reply *AmountReply) error {
	ctx := req.Context()
	dir, err := j.direction(ctx, args.PoolID, args.TokenIn, args.Direction)
	if err != nil {
		return err
	}
	reply.Amount, err = j.ex.Swap(ctx, args.Actor, args.PoolID, dir, args.AmountIn, args.MinAmountOut)
	return err
}

func (j *JSONRPCServer) Quote(req *http.Request, args *SwapArgs, reply *AmountReply) error {
	ctx := req.Context()
	dir, err := j.direction(ctx, args.PoolID, args.TokenIn, args.Direction)
	if err != nil {
		return err
	}
	reply.Amount, err = j.ex.Quote(ctx, args.PoolID, args.AmountIn, dir)
	return err
}

// OptimalAmounts returns the counterpart to deposit for AmountIn of the
// selected side.
func (j *JSONRPCServer) OptimalAmounts(req *http.Request, args *SwapArgs, reply *AmountReply) error {
	ctx := req.Context()
	dir, err := j.direction(ctx, args.PoolID, args.TokenIn, args.Direction)
	if err != nil {
		return err
	}
	reply.Amount, err = j.ex.CalculateOptimalAmounts(ctx, args.PoolID, args.AmountIn, dir)
	return err
}

// Swap router

// RouteSwapArgs describes a swap along Path. A zero Deadline expires
// consts.DefaultDeadline from now and an empty Recipient pays the actor.
type RouteSwapArgs struct {
	Actor        codec.Address   `json:"actor"`
	Path         []codec.Address `json:"path"`
	AmountIn     uint64          `json:"amountIn"`
	MinAmountOut uint64          `json:"minAmountOut"`
	Recipient    codec.Address   `json:"recipient"`
	Deadline     int64           `json:"deadline"`
}

func (j *JSONRPCServer) fill(args *RouteSwapArgs) {
	if args.Recipient == codec.EmptyAddress {
		args.Recipient = args.Actor
	}
	if args.Deadline == 0 {
		args.Deadline = j.ex.Clock().Time().Add(consts.DefaultDeadline).UnixMilli()
	}
}

func (j *JSONRPCServer) SwapExactIn(req *http.Request, args *RouteSwapArgs, reply *AmountReply) (err error) {
	if len(args.Path) != 2 {
		return ErrDirectPath
	}
	j.fill(args)
	reply.Amount, err = j.ex.SwapExactIn(req.Context(), args.Actor, args.Path[0], args.Path[1], args.AmountIn, args.MinAmountOut, args.Recipient, args.Deadline)
	return err
}

func (j *JSONRPCServer) RouteSwap(req *http.Request, args *RouteSwapArgs, reply *AmountReply) (err error) {
	j.fill(args)
	reply.Amount, err = j.ex.RouteSwap(req.Context(), args.Actor, args.Path, args.AmountIn, args.MinAmountOut, args.Recipient, args.Deadline)
	return err
}

func (j *JSONRPCServer) AmountOut(req *http.Request, args *RouteSwapArgs, reply *AmountReply) (err error) {
	reply.Amount, err = j.ex.GetAmountOut(req.Context(), args.Path, args.AmountIn)
	return err
}

type PathReply struct {
	Path []codec.Address `json:"path"`
}

func (j *JSONRPCServer) OptimalPath(req *http.Request, args *RouteSwapArgs, reply *PathReply) (err error) {
	if len(args.Path) != 2 {
		return ErrDirectPath
	}
	reply.Path, err = j.ex.FindOptimalPath(req.Context(), args.Path[0], args.Path[1])
	return err
}

// Plaintext tokens

type TokenTransferArgs struct {
	Actor   codec.Address `json:"actor"`
	Token   codec.Address `json:"token"`
	From    codec.Address `json:"from"`
	To      codec.Address `json:"to"`
	Spender codec.Address `json:"spender"`
	Amount  uint64        `json:"amount"`
}

func (j *JSONRPCServer) Balance(req *http.Request, args *TokenTransferArgs, reply *AmountReply) (err error) {
	reply.Amount, err = j.ex.BalanceOf(req.Context(), args.Token, args.From)
	return err
}

func (j *JSONRPCServer) Allowance(req *http.Request, args *TokenTransferArgs, reply *AmountReply) (err error) {
	reply.Amount, err = j.ex.Allowance(req.Context(), args.Token, args.From, args.Spender)
	return err
}

// TransferTokens spends the actor's own balance when From is empty and an
// allowance on From otherwise.
func (j *JSONRPCServer) TransferTokens(req *http.Request, args *TokenTransferArgs, _ *struct{}) error {
	if args.From == codec.EmptyAddress || args.From == args.Actor {
		return j.ex.TransferTokens(req.Context(), args.Actor, args.Token, args.To, args.Amount)
	}
	return j.ex.TransferTokensFrom(req.Context(), args.Actor, args.Token, args.From, args.To, args.Amount)
}

func (j *JSONRPCServer) ApproveTokens(req *http.Request, args *TokenTransferArgs, _ *struct{}) error {
	return j.ex.ApproveTokens(req.Context(), args.Actor, args.Token, args.Spender, args.Amount)
}

func (j *JSONRPCServer) MintTokens(req *http.Request, args *TokenTransferArgs, _ *struct{}) error {
	return j.ex.MintTokens(req.Context(), args.Actor, args.Token, args.To, args.Amount)
}
