// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package consts

// TypeIDs for actions
const (
	// Token plumbing
	CreateTokenID uint8 = iota
	MintTokenID
	BurnTokenID
	TransferTokenID

	// Pair ledger
	CreatePairID
	AddLiquidityID
	RemoveLiquidityID
	SwapID
	SyncPairID
	SkimPairID

	// Staking vault
	VaultEnterID
	VaultLeaveID
	VaultClaimID
	VaultRebaseID

	// Fee collector
	FeeTrackTokenID
	FeeCollectID
	FeeUpdateBalancesID
	FeeProcessQueueID
	FeeDistributeID
	FeeConvertID
	FeePauseID
	FeeResumeID
	FeeClearQueueID
	FeeResetTrackingID
)

// TypeIDs for derived addresses
const (
	TOKENID uint8 = iota + 0x10
	PAIRID
	PAIRTOKENID
	VAULTID
	COLLECTORID
)
