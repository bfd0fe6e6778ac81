// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package storage

import (
	"github.com/0xhaz/dexvm/codec"
	"github.com/0xhaz/dexvm/consts"
	"github.com/0xhaz/dexvm/utils"
)

// Key prefixes
const (
	tokenInfoPrefix byte = iota
	tokenBalancePrefix
	pairPrefix
	pairTokenIndexPrefix
	vaultPrefix
	vaultAccountPrefix
	collectorPrefix
	trackedTokensPrefix
	trackingPrefix
	queuePrefix
	lockPrefix
)

// Token argument invariants
const (
	MaxTokenNameSize     = 64
	MaxTokenSymbolSize   = 8
	MaxTokenMetadataSize = 256
)

// Pair ledger constants
const (
	// Shares locked forever at the empty address on first mint.
	MinimumLiquidity uint64 = 1_000

	// 0.3% trading fee, applied to inputs during the invariant check.
	SwapFeeNumerator   uint64 = 997
	SwapFeeDenominator uint64 = 1_000
)

// All pair LP tokens share the following data
const (
	PairTokenName     = "dexvm-Pair"
	PairTokenSymbol   = "DEXP"
	PairTokenMetadata = "A dexvm liquidity pair"
)

// Staking vault constants
const (
	// Scale applied to the accumulated-fees-per-share accumulator.
	FeePrecision uint64 = 1_000_000_000_000
)

// Fee queue job types
const (
	JobTypeRegular uint8 = iota
	JobTypeLP
	JobTypeEmergency
)

// Static per-token queue priorities. Deliberately not value-weighted.
const (
	PriorityBaseAsset    uint64 = 100
	PriorityProtocolCoin uint64 = 50
	PriorityDefault      uint64 = 10
)

var (
	// CoinAddress is the protocol coin the vault stakes and fees convert to.
	CoinAddress codec.Address
	// BaseAssetAddress is the preferred conversion intermediate.
	BaseAssetAddress codec.Address
	// VaultAddress holds staked coin and unclaimed fees.
	VaultAddress codec.Address
	// CollectorAddress receives skimmed balances and protocol-fee shares.
	CollectorAddress codec.Address
)

func init() {
	CoinAddress = TokenAddress([]byte(consts.Name), []byte(consts.Symbol), []byte(consts.Metadata))
	BaseAssetAddress = TokenAddress([]byte(consts.Name), []byte(consts.BaseSymbol), []byte(consts.BaseMetadata))
	VaultAddress = codec.CreateAddress(consts.VAULTID, utils.ToID([]byte("dexvm-vault")))
	CollectorAddress = codec.CreateAddress(consts.COLLECTORID, utils.ToID([]byte("dexvm-collector")))
}
