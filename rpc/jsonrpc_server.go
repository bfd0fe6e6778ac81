// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package rpc

import (
	"context"
	"math/big"
	"net/http"

	"go.uber.org/zap"

	"github.com/0xhaz/dexvm/chain"
	"github.com/0xhaz/dexvm/codec"
	"github.com/0xhaz/dexvm/state"
	"github.com/0xhaz/dexvm/storage"
)

// Controller is the read-only surface the RPC server needs from the node.
type Controller interface {
	ReadState(ctx context.Context, f func(context.Context, state.Immutable) error) error
	Rules() chain.Rules
	Logger() *zap.Logger
}

type JSONRPCServer struct {
	c Controller
}

func NewJSONRPCServer(c Controller) *JSONRPCServer {
	return &JSONRPCServer{c}
}

type PingReply struct {
	Success bool `json:"success"`
}

func (j *JSONRPCServer) Ping(_ *http.Request, _ *struct{}, reply *PingReply) error {
	j.c.Logger().Info("ping")
	reply.Success = true
	return nil
}

type TokenArgs struct {
	Token codec.Address `json:"token"`
}

type TokenReply struct {
	Name        string        `json:"name"`
	Symbol      string        `json:"symbol"`
	Metadata    string        `json:"metadata"`
	TotalSupply uint64        `json:"totalSupply"`
	Owner       codec.Address `json:"owner"`
}

func (j *JSONRPCServer) Token(req *http.Request, args *TokenArgs, reply *TokenReply) error {
	return j.c.ReadState(req.Context(), func(ctx context.Context, im state.Immutable) error {
		name, symbol, metadata, supply, owner, err := storage.GetTokenInfo(ctx, im, args.Token)
		if err != nil {
			return err
		}
		reply.Name = string(name)
		reply.Symbol = string(symbol)
		reply.Metadata = string(metadata)
		reply.TotalSupply = supply
		reply.Owner = owner
		return nil
	})
}

type BalanceArgs struct {
	Token   codec.Address `json:"token"`
	Account codec.Address `json:"account"`
}

type BalanceReply struct {
	Balance uint64 `json:"balance"`
}

func (j *JSONRPCServer) Balance(req *http.Request, args *BalanceArgs, reply *BalanceReply) error {
	return j.c.ReadState(req.Context(), func(ctx context.Context, im state.Immutable) error {
		balance, err := storage.GetTokenBalance(ctx, im, args.Token, args.Account)
		if err != nil {
			return err
		}
		reply.Balance = balance
		return nil
	})
}

type PairArgs struct {
	Pair codec.Address `json:"pair"`
}

type PairReply struct {
	TokenX             codec.Address `json:"tokenX"`
	TokenY             codec.Address `json:"tokenY"`
	ReserveX           uint64        `json:"reserveX"`
	ReserveY           uint64        `json:"reserveY"`
	BlockTimestampLast uint32        `json:"blockTimestampLast"`
	PriceXCumulative   string        `json:"priceXCumulative"`
	PriceYCumulative   string        `json:"priceYCumulative"`
	KLast              string        `json:"kLast"`
	LPToken            codec.Address `json:"lpToken"`
	LPSupply           uint64        `json:"lpSupply"`
}

func (j *JSONRPCServer) Pair(req *http.Request, args *PairArgs, reply *PairReply) error {
	return j.c.ReadState(req.Context(), func(ctx context.Context, im state.Immutable) error {
		pair, err := storage.GetPair(ctx, im, args.Pair)
		if err != nil {
			return err
		}
		_, _, _, lpSupply, _, err := storage.GetTokenInfo(ctx, im, pair.LPToken)
		if err != nil {
			return err
		}
		reply.TokenX = pair.TokenX
		reply.TokenY = pair.TokenY
		reply.ReserveX = pair.ReserveX
		reply.ReserveY = pair.ReserveY
		reply.BlockTimestampLast = pair.BlockTimestampLast
		reply.PriceXCumulative = pair.PriceXCumulative.String()
		reply.PriceYCumulative = pair.PriceYCumulative.String()
		reply.KLast = pair.KLast.String()
		reply.LPToken = pair.LPToken
		reply.LPSupply = lpSupply
		return nil
	})
}

type VaultReply struct {
	TeamAccount        codec.Address `json:"teamAccount"`
	DeployedAt         int64         `json:"deployedAt"`
	TotalShares        uint64        `json:"totalShares"`
	TotalDeposited     uint64        `json:"totalDeposited"`
	AccFeesPerShare    uint64        `json:"accFeesPerShare"`
	TotalUnclaimedFees uint64        `json:"totalUnclaimedFees"`
}

func (j *JSONRPCServer) Vault(req *http.Request, _ *struct{}, reply *VaultReply) error {
	return j.c.ReadState(req.Context(), func(ctx context.Context, im state.Immutable) error {
		vault, err := storage.GetVault(ctx, im)
		if err != nil {
			return err
		}
		reply.TeamAccount = vault.TeamAccount
		reply.DeployedAt = vault.DeployedAt
		reply.TotalShares = vault.TotalShares
		reply.TotalDeposited = vault.TotalDeposited
		reply.AccFeesPerShare = vault.AccFeesPerShare
		reply.TotalUnclaimedFees = vault.TotalUnclaimedFees
		return nil
	})
}

type VaultAccountArgs struct {
	Account codec.Address `json:"account"`
}

type VaultAccountReply struct {
	Shares      uint64 `json:"shares"`
	PendingFees uint64 `json:"pendingFees"`
}

func (j *JSONRPCServer) VaultAccount(req *http.Request, args *VaultAccountArgs, reply *VaultAccountReply) error {
	return j.c.ReadState(req.Context(), func(ctx context.Context, im state.Immutable) error {
		vault, err := storage.GetVault(ctx, im)
		if err != nil {
			return err
		}
		account, err := storage.GetVaultAccount(ctx, im, args.Account)
		if err != nil {
			return err
		}
		earned := new(big.Int).SetUint64(account.Shares)
		earned.Mul(earned, new(big.Int).SetUint64(vault.AccFeesPerShare))
		earned.Div(earned, new(big.Int).SetUint64(storage.FeePrecision))
		earned.Sub(earned, account.FeeDebt)
		reply.Shares = account.Shares
		if earned.Sign() > 0 && earned.IsUint64() {
			reply.PendingFees = earned.Uint64()
		}
		return nil
	})
}

type CollectorReply struct {
	Owner            codec.Address `json:"owner"`
	Paused           bool          `json:"paused"`
	FailureCount     uint8         `json:"failureCount"`
	TotalProcessed   uint64        `json:"totalProcessed"`
	LastDistribution int64         `json:"lastDistribution"`
	QueueLength      int           `json:"queueLength"`
	TrackedTokens    int           `json:"trackedTokens"`
}

func (j *JSONRPCServer) Collector(req *http.Request, _ *struct{}, reply *CollectorReply) error {
	return j.c.ReadState(req.Context(), func(ctx context.Context, im state.Immutable) error {
		collector, err := storage.GetCollector(ctx, im)
		if err != nil {
			return err
		}
		jobs, err := storage.GetQueue(ctx, im)
		if err != nil {
			return err
		}
		tracked, err := storage.GetTrackedTokens(ctx, im)
		if err != nil {
			return err
		}
		reply.Owner = collector.Owner
		reply.Paused = collector.Paused
		reply.FailureCount = collector.FailureCount
		reply.TotalProcessed = collector.TotalProcessed
		reply.LastDistribution = collector.LastDistribution
		reply.QueueLength = len(jobs)
		reply.TrackedTokens = len(tracked)
		return nil
	})
}

type JobDetails struct {
	Token        codec.Address `json:"token"`
	Amount       uint64        `json:"amount"`
	Priority     uint64        `json:"priority"`
	EstimatedGas uint64        `json:"estimatedGas"`
	Timestamp    int64         `json:"timestamp"`
	JobType      uint8         `json:"jobType"`
	FailureCount uint8         `json:"failureCount"`
}

type QueueReply struct {
	Jobs []JobDetails `json:"jobs"`
}

func (j *JSONRPCServer) Queue(req *http.Request, _ *struct{}, reply *QueueReply) error {
	return j.c.ReadState(req.Context(), func(ctx context.Context, im state.Immutable) error {
		jobs, err := storage.GetQueue(ctx, im)
		if err != nil {
			return err
		}
		reply.Jobs = make([]JobDetails, len(jobs))
		for i, job := range jobs {
			reply.Jobs[i] = JobDetails{
				Token:        job.Token,
				Amount:       job.Amount,
				Priority:     job.Priority,
				EstimatedGas: job.EstimatedGas,
				Timestamp:    job.Timestamp,
				JobType:      job.JobType,
				FailureCount: job.FailureCount,
			}
		}
		return nil
	})
}

type TrackingArgs struct {
	Token codec.Address `json:"token"`
}

type TrackingReply struct {
	LastProcessedBalance uint64 `json:"lastProcessedBalance"`
	PendingBalance       uint64 `json:"pendingBalance"`
	QueueIndex           uint16 `json:"queueIndex"`
}

func (j *JSONRPCServer) Tracking(req *http.Request, args *TrackingArgs, reply *TrackingReply) error {
	return j.c.ReadState(req.Context(), func(ctx context.Context, im state.Immutable) error {
		tracking, err := storage.GetTracking(ctx, im, args.Token)
		if err != nil {
			return err
		}
		reply.LastProcessedBalance = tracking.LastProcessedBalance
		reply.PendingBalance = tracking.PendingBalance
		reply.QueueIndex = tracking.QueueIndex
		return nil
	})
}
