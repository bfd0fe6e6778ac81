// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package consts

import (
	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/avalanchego/version"
)

const (
	Name = "dexvm"

	// Protocol coin: the asset the staking vault holds and the fee
	// collector converts everything into.
	Symbol   = "DEX"
	Metadata = "dexvm protocol coin"
	Decimals = 9

	// Base asset: the highest-priority conversion intermediate.
	BaseSymbol   = "WVM"
	BaseMetadata = "dexvm wrapped native asset"
)

const (
	ByteLen   = 1
	Uint16Len = 2
	Uint32Len = 4
	Uint64Len = 8
	IDLen     = 32

	// Width of a stored price accumulator (wraps at 2^256).
	CumulativeLen = 32
	// Width of a stored reserve product (fits in 2^128).
	KLen = 16

	MaxUint64 = ^uint64(0)

	MillisecondsPerSecond = 1000
)

var ID ids.ID

func init() {
	b := make([]byte, ids.IDLen)
	copy(b, []byte(Name))
	vmID, err := ids.ToID(b)
	if err != nil {
		panic(err)
	}
	ID = vmID
}

var Version = &version.Semantic{
	Major: 0,
	Minor: 0,
	Patch: 1,
}
