// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package actions

const (
	CreateTokenComputeUnits   = 1
	MintTokenComputeUnits     = 1
	BurnTokenComputeUnits     = 1
	TransferTokenComputeUnits = 1

	CreatePairComputeUnits      = 2
	AddLiquidityComputeUnits    = 3
	RemoveLiquidityComputeUnits = 3
	SwapComputeUnits            = 3
	SyncPairComputeUnits        = 1
	SkimPairComputeUnits        = 1

	VaultEnterComputeUnits  = 2
	VaultLeaveComputeUnits  = 2
	VaultClaimComputeUnits  = 1
	VaultRebaseComputeUnits = 1

	FeeTrackTokenComputeUnits     = 1
	FeeCollectComputeUnits        = 4
	FeeUpdateBalancesComputeUnits = 2
	FeeProcessQueueComputeUnits   = 8
	FeeDistributeComputeUnits     = 1
	FeeConvertComputeUnits        = 4
	FeeAdminComputeUnits          = 1
)

// Static gas estimates recorded on queued jobs. Informational only; the
// engine does not meter by gas.
const (
	estimatedGasRegular uint64 = 150_000
	estimatedGasLP      uint64 = 400_000
)
