// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package jsonrpc

import (
	"context"
	"strings"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/avalanchego/utils/rpc"

	"github.com/ava-labs/shieldswap/amm"
	"github.com/ava-labs/shieldswap/codec"
	"github.com/ava-labs/shieldswap/consts"
	"github.com/ava-labs/shieldswap/exchange"
	"github.com/ava-labs/shieldswap/storage"
)

type JSONRPCClient struct {
	requester rpc.EndpointRequester
}

func NewJSONRPCClient(uri string) *JSONRPCClient {
	uri = strings.TrimSuffix(uri, "/")
	uri += Endpoint
	return &JSONRPCClient{requester: rpc.NewEndpointRequester(uri)}
}

func (cli *JSONRPCClient) send(ctx context.Context, method string, args any, reply any) error {
	if args == nil {
		args = struct{}{}
	}
	if reply == nil {
		reply = &struct{}{}
	}
	return cli.requester.SendRequest(ctx, consts.Name+"."+method, args, reply)
}

func (cli *JSONRPCClient) Ping(ctx context.Context) (bool, error) {
	resp := new(PingReply)
	err := cli.send(ctx, "ping", nil, resp)
	return resp.Success, err
}

func (cli *JSONRPCClient) Owner(ctx context.Context) (codec.Address, error) {
	resp := new(OwnerReply)
	err := cli.send(ctx, "owner", nil, resp)
	return resp.Owner, err
}

func (cli *JSONRPCClient) TransferOwnership(ctx context.Context, actor codec.Address, newOwner codec.Address) error {
	return cli.send(ctx, "transferOwnership", &TransferOwnershipArgs{Actor: actor, NewOwner: newOwner}, nil)
}

func (cli *JSONRPCClient) Register(ctx context.Context, actor codec.Address, tkn codec.Address, publicKey []byte) error {
	return cli.send(ctx, "register", &RegisterArgs{Actor: actor, Token: tkn, PublicKey: publicKey}, nil)
}

func (cli *JSONRPCClient) Deposit(ctx context.Context, actor codec.Address, tkn codec.Address, amount uint64, nonce uint64) error {
	return cli.send(ctx, "deposit", &AmountArgs{Actor: actor, Token: tkn, Amount: amount, Nonce: nonce}, nil)
}

func (cli *JSONRPCClient) Withdraw(ctx context.Context, actor codec.Address, tkn codec.Address, amount uint64, nonce uint64) error {
	return cli.send(ctx, "withdraw", &AmountArgs{Actor: actor, Token: tkn, Amount: amount, Nonce: nonce}, nil)
}

func (cli *JSONRPCClient) ConfidentialTransfer(ctx context.Context, args *ConfidentialTransferArgs) (bool, error) {
	resp := new(BoolReply)
	err := cli.send(ctx, "confidentialTransfer", args, resp)
	return resp.Value, err
}

func (cli *JSONRPCClient) LegacyTransfer(ctx context.Context, args *ConfidentialTransferArgs) error {
	return cli.send(ctx, "legacyTransfer", args, nil)
}

func (cli *JSONRPCClient) ConfidentialMint(ctx context.Context, args *ConfidentialTransferArgs) error {
	return cli.send(ctx, "confidentialMint", args, nil)
}

func (cli *JSONRPCClient) ConfidentialBurn(ctx context.Context, args *BurnArgs) error {
	return cli.send(ctx, "confidentialBurn", args, nil)
}

func (cli *JSONRPCClient) AuthorizeAuditor(ctx context.Context, actor codec.Address, auditor codec.Address) error {
	return cli.send(ctx, "authorizeAuditor", &AuditorArgs{Actor: actor, Auditor: auditor}, nil)
}

func (cli *JSONRPCClient) RevokeAuditor(ctx context.Context, actor codec.Address, auditor codec.Address) error {
	return cli.send(ctx, "revokeAuditor", &AuditorArgs{Actor: actor, Auditor: auditor}, nil)
}

func (cli *JSONRPCClient) ConfidentialBalance(ctx context.Context, actor codec.Address, tkn codec.Address, account codec.Address) (uint64, error) {
	resp := new(AmountReply)
	err := cli.send(ctx, "confidentialBalance", &AccountArgs{Actor: actor, Token: tkn, Account: account}, resp)
	return resp.Amount, err
}

func (cli *JSONRPCClient) DiscloseForAuditor(ctx context.Context, actor codec.Address, tkn codec.Address, account codec.Address) (uint64, error) {
	resp := new(AmountReply)
	err := cli.send(ctx, "discloseForAuditor", &AccountArgs{Actor: actor, Token: tkn, Account: account}, resp)
	return resp.Amount, err
}

func (cli *JSONRPCClient) Commitment(ctx context.Context, tkn codec.Address, account codec.Address) (exchange.Commitment, error) {
	resp := new(exchange.Commitment)
	err := cli.send(ctx, "commitment", &AccountArgs{Token: tkn, Account: account}, resp)
	return *resp, err
}

func (cli *JSONRPCClient) AuthorizeToken(ctx context.Context, actor codec.Address, tkn codec.Address) error {
	return cli.send(ctx, "authorizeToken", &TokenArgs{Actor: actor, Token: tkn}, nil)
}

func (cli *JSONRPCClient) RevokeToken(ctx context.Context, actor codec.Address, tkn codec.Address) error {
	return cli.send(ctx, "revokeToken", &TokenArgs{Actor: actor, Token: tkn}, nil)
}

func (cli *JSONRPCClient) IsTokenAuthorized(ctx context.Context, tkn codec.Address) (bool, error) {
	resp := new(BoolReply)
	err := cli.send(ctx, "isTokenAuthorized", &TokenArgs{Token: tkn}, resp)
	return resp.Value, err
}

func (cli *JSONRPCClient) CreatePool(ctx context.Context, actor codec.Address, tokenA codec.Address, tokenB codec.Address, fee uint64) (ids.ID, error) {
	resp := new(PoolIDReply)
	err := cli.send(ctx, "createPool", &CreatePoolArgs{Actor: actor, TokenA: tokenA, TokenB: tokenB, Fee: fee}, resp)
	return resp.PoolID, err
}

func (cli *JSONRPCClient) AuthorizePool(ctx context.Context, actor codec.Address, poolID ids.ID) error {
	return cli.send(ctx, "authorizePool", &PoolArgs{Actor: actor, PoolID: poolID}, nil)
}

func (cli *JSONRPCClient) RevokePool(ctx context.Context, actor codec.Address, poolID ids.ID) error {
	return cli.send(ctx, "revokePool", &PoolArgs{Actor: actor, PoolID: poolID}, nil)
}

func (cli *JSONRPCClient) PausePool(ctx context.Context, actor codec.Address, poolID ids.ID) error {
	return cli.send(ctx, "pausePool", &PoolArgs{Actor: actor, PoolID: poolID}, nil)
}

func (cli *JSONRPCClient) ResumePool(ctx context.Context, actor codec.Address, poolID ids.ID) error {
	return cli.send(ctx, "resumePool", &PoolArgs{Actor: actor, PoolID: poolID}, nil)
}

func (cli *JSONRPCClient) IsPoolAuthorized(ctx context.Context, poolID ids.ID) (bool, error) {
	resp := new(BoolReply)
	err := cli.send(ctx, "isPoolAuthorized", &PoolArgs{PoolID: poolID}, resp)
	return resp.Value, err
}

func (cli *JSONRPCClient) SetPoolFee(ctx context.Context, actor codec.Address, poolID ids.ID, fee uint64) error {
	return cli.send(ctx, "setPoolFee", &SetPoolFeeArgs{Actor: actor, PoolID: poolID, Fee: fee}, nil)
}

func (cli *JSONRPCClient) Pool(ctx context.Context, poolID ids.ID) (*storage.Pool, error) {
	resp := new(PoolReply)
	err := cli.send(ctx, "pool", &PoolArgs{PoolID: poolID}, resp)
	return resp.Pool, err
}

func (cli *JSONRPCClient) ListPools(ctx context.Context) ([]*storage.Pool, error) {
	resp := new(PoolsReply)
	err := cli.send(ctx, "listPools", nil, resp)
	return resp.Pools, err
}

func (cli *JSONRPCClient) Position(ctx context.Context, poolID ids.ID, provider codec.Address) (storage.Position, error) {
	resp := new(storage.Position)
	err := cli.send(ctx, "position", &PositionArgs{PoolID: poolID, Provider: provider}, resp)
	return *resp, err
}

func (cli *JSONRPCClient) AddLiquidity(ctx context.Context, args *AddLiquidityArgs) (uint64, error) {
	resp := new(SharesReply)
	err := cli.send(ctx, "addLiquidity", args, resp)
	return resp.Shares, err
}

func (cli *JSONRPCClient) RemoveLiquidity(ctx context.Context, args *RemoveLiquidityArgs) (uint64, uint64, error) {
	resp := new(RemoveLiquidityReply)
	err := cli.send(ctx, "removeLiquidity", args, resp)
	return resp.AmountA, resp.AmountB, err
}

func (cli *JSONRPCClient) Swap(ctx context.Context, args *SwapArgs) (uint64, error) {
	resp := new(AmountReply)
	err := cli.send(ctx, "swap", args, resp)
	return resp.Amount, err
}

func (cli *JSONRPCClient) Quote(ctx context.Context, poolID ids.ID, tokenIn codec.Address, amountIn uint64) (uint64, error) {
	resp := new(AmountReply)
	err := cli.send(ctx, "quote", &SwapArgs{PoolID: poolID, TokenIn: tokenIn, AmountIn: amountIn}, resp)
	return resp.Amount, err
}

func (cli *JSONRPCClient) OptimalAmounts(ctx context.Context, poolID ids.ID, dir amm.Direction, amountDesired uint64) (uint64, error) {
	resp := new(AmountReply)
	err := cli.send(ctx, "optimalAmounts", &SwapArgs{PoolID: poolID, Direction: dir, AmountIn: amountDesired}, resp)
	return resp.Amount, err
}

func (cli *JSONRPCClient) SwapExactIn(ctx context.Context, args *RouteSwapArgs) (uint64, error) {
	resp := new(AmountReply)
	err := cli.send(ctx, "swapExactIn", args, resp)
	return resp.Amount, err
}

func (cli *JSONRPCClient) RouteSwap(ctx context.Context, args *RouteSwapArgs) (uint64, error) {
	resp := new(AmountReply)
	err := cli.send(ctx, "routeSwap", args, resp)
	return resp.Amount, err
}

func (cli *JSONRPCClient) AmountOut(ctx context.Context, path []codec.Address, amountIn uint64) (uint64, error) {
	resp := new(AmountReply)
	err := cli.send(ctx, "amountOut", &RouteSwapArgs{Path: path, AmountIn: amountIn}, resp)
	return resp.Amount, err
}

func (cli *JSONRPCClient) OptimalPath(ctx context.Context, tokenIn codec.Address, tokenOut codec.Address) ([]codec.Address, error) {
	resp := new(PathReply)
	err := cli.send(ctx, "optimalPath", &RouteSwapArgs{Path: []codec.Address{tokenIn, tokenOut}}, resp)
	return resp.Path, err
}

func (cli *JSONRPCClient) Balance(ctx context.Context, tkn codec.Address, account codec.Address) (uint64, error) {
	resp := new(AmountReply)
	err := cli.send(ctx, "balance", &TokenTransferArgs{Token: tkn, From: account}, resp)
	return resp.Amount, err
}

func (cli *JSONRPCClient) Allowance(ctx context.Context, tkn codec.Address, owner codec.Address, spender codec.Address) (uint64, error) {
	resp := new(AmountReply)
	err := cli.send(ctx, "allowance", &TokenTransferArgs{Token: tkn, From: owner, Spender: spender}, resp)
	return resp.Amount, err
}

func (cli *JSONRPCClient) TransferTokens(ctx context.Context, args *TokenTransferArgs) error {
	return cli.send(ctx, "transferTokens", args, nil)
}

func (cli *JSONRPCClient) ApproveTokens(ctx context.Context, actor codec.Address, tkn codec.Address, spender codec.Address, amount uint64) error {
	return cli.send(ctx, "approveTokens", &TokenTransferArgs{Actor: actor, Token: tkn, Spender: spender, Amount: amount}, nil)
}

func (cli *JSONRPCClient) MintTokens(ctx context.Context, actor codec.Address, tkn codec.Address, to codec.Address, amount uint64) error {
	return cli.send(ctx, "mintTokens", &TokenTransferArgs{Actor: actor, Token: tkn, To: to, Amount: amount}, nil)
}
