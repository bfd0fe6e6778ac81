// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package actions

import "errors"

var (
	// Token-related errors
	ErrOutputValueZero             = errors.New("value is zero")
	ErrOutputTokenNameEmpty        = errors.New("token name is empty")
	ErrOutputTokenNameTooLarge     = errors.New("token name is too large")
	ErrOutputTokenSymbolEmpty      = errors.New("token symbol is empty")
	ErrOutputTokenSymbolTooLarge   = errors.New("token symbol is too large")
	ErrOutputTokenMetadataEmpty    = errors.New("token metadata is empty")
	ErrOutputTokenMetadataTooLarge = errors.New("token metadata is too large")
	ErrOutputTokenAlreadyExists    = errors.New("token already exists")
	ErrOutputTokenDoesNotExist     = errors.New("token does not exist")
	ErrOutputTokenNotOwner         = errors.New("actor is not token owner")

	// Pair-related errors
	ErrOutputPairAlreadyExists           = errors.New("pair already exists")
	ErrOutputPairDoesNotExist            = errors.New("pair does not exist")
	ErrOutputInsufficientLiquidityMinted = errors.New("insufficient liquidity minted")
	ErrOutputInsufficientLiquidityBurned = errors.New("insufficient liquidity burned")
	ErrOutputInsufficientOutputAmount    = errors.New("insufficient output amount")
	ErrOutputInsufficientInputAmount     = errors.New("insufficient input amount")
	ErrOutputInsufficientLiquidity       = errors.New("insufficient liquidity")
	ErrOutputInvalidRecipient            = errors.New("recipient is a pool token")
	ErrOutputKValueCheckFailed           = errors.New("k value check failed")

	// Vault-related errors
	ErrOutputEmptyRecipient      = errors.New("recipient is the empty address")
	ErrOutputBelowMinimumStake   = errors.New("first stake below minimum")
	ErrOutputZeroShares          = errors.New("share amount is zero")
	ErrOutputInsufficientShares  = errors.New("share amount exceeds balance")
	ErrOutputMinimumWithdraw     = errors.New("withdrawal below minimum amount")
	ErrOutputTeamStakingLocked   = errors.New("team stake is time locked")
	ErrOutputNoPendingFees       = errors.New("no pending fees")
	ErrOutputNoStakers           = errors.New("vault has no shares outstanding")
	ErrOutputVaultNotInitialized = errors.New("vault is not initialized")

	// Fee-collector errors
	ErrOutputCollectorPaused         = errors.New("fee collector is paused")
	ErrOutputCollectorNotPaused      = errors.New("fee collector is not paused")
	ErrOutputCollectorNotInitialized = errors.New("fee collector is not initialized")
	ErrOutputNotCollectorOwner       = errors.New("actor is not the collector owner")
	ErrOutputNoPairs                 = errors.New("pair list is empty")
	ErrOutputTooManyPairs            = errors.New("pair list exceeds collection bound")
	ErrOutputAlreadyTracked          = errors.New("token is already tracked")
	ErrOutputNotTracked              = errors.New("token is not tracked")
	ErrOutputInsufficientPending     = errors.New("job amount exceeds pending balance")
	ErrOutputNothingToProcess        = errors.New("no live balance to process")
	ErrOutputNoConversionPath        = errors.New("no conversion path to protocol coin")
	ErrOutputDistributionCooldown    = errors.New("distribution cooldown not elapsed")
	ErrOutputNothingToDistribute     = errors.New("no protocol coin to distribute")
)
