// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package storage

import (
	"context"
	"encoding/binary"
	"math/big"

	"github.com/0xhaz/dexvm/codec"
	"github.com/0xhaz/dexvm/consts"
	"github.com/0xhaz/dexvm/state"
	"github.com/0xhaz/dexvm/utils"
)

type ComparisonValue int

const (
	LessThan ComparisonValue = iota - 1
	Equal
	GreaterThan
)

// Pair is the full AMM pair record: reserves as of last sync, the TWAP
// accumulators, and the kLast snapshot used for protocol-fee share minting.
type Pair struct {
	TokenX codec.Address
	TokenY codec.Address

	ReserveX           uint64
	ReserveY           uint64
	BlockTimestampLast uint32

	PriceXCumulative *big.Int
	PriceYCumulative *big.Int
	KLast            *big.Int

	LPToken codec.Address
}

func CompareAddress(a codec.Address, b codec.Address) ComparisonValue {
	for i := range a {
		if a[i] < b[i] {
			return LessThan
		} else if a[i] > b[i] {
			return GreaterThan
		}
	}
	return Equal
}

// SortTokens returns the two token addresses in canonical (ascending) order.
func SortTokens(tokenA codec.Address, tokenB codec.Address) (codec.Address, codec.Address, error) {
	switch CompareAddress(tokenA, tokenB) {
	case LessThan:
		return tokenA, tokenB, nil
	case GreaterThan:
		return tokenB, tokenA, nil
	default:
		return codec.EmptyAddress, codec.EmptyAddress, ErrIdenticalAddresses
	}
}

// PairAddress derives the pair identity from its sorted token addresses.
func PairAddress(tokenA codec.Address, tokenB codec.Address) (codec.Address, error) {
	first, second, err := SortTokens(tokenA, tokenB)
	if err != nil {
		return codec.EmptyAddress, err
	}
	v := make([]byte, codec.AddressLen+codec.AddressLen)
	copy(v, first[:])
	copy(v[codec.AddressLen:], second[:])
	id := utils.ToID(v)
	return codec.CreateAddress(consts.PAIRID, id), nil
}

func PairTokenAddress(pair codec.Address) codec.Address {
	id := utils.ToID(pair[:])
	return codec.CreateAddress(consts.PAIRTOKENID, id)
}

func PairKey(pair codec.Address) []byte {
	k := make([]byte, 1+codec.AddressLen)
	k[0] = pairPrefix
	copy(k[1:], pair[:])
	return k
}

func pairTokenIndexKey(lpToken codec.Address) []byte {
	k := make([]byte, 1+codec.AddressLen)
	k[0] = pairTokenIndexPrefix
	copy(k[1:], lpToken[:])
	return k
}

const pairValueLen = codec.AddressLen*3 + consts.Uint64Len*2 + consts.Uint32Len + consts.CumulativeLen*2 + consts.KLen

func SetPair(
	ctx context.Context,
	mu state.Mutable,
	pairAddress codec.Address,
	pair *Pair,
) error {
	v := make([]byte, pairValueLen)
	copy(v, pair.TokenX[:])
	copy(v[codec.AddressLen:], pair.TokenY[:])
	binary.BigEndian.PutUint64(v[codec.AddressLen*2:], pair.ReserveX)
	binary.BigEndian.PutUint64(v[codec.AddressLen*2+consts.Uint64Len:], pair.ReserveY)
	binary.BigEndian.PutUint32(v[codec.AddressLen*2+consts.Uint64Len*2:], pair.BlockTimestampLast)
	pair.PriceXCumulative.FillBytes(v[codec.AddressLen*2+consts.Uint64Len*2+consts.Uint32Len : codec.AddressLen*2+consts.Uint64Len*2+consts.Uint32Len+consts.CumulativeLen])
	pair.PriceYCumulative.FillBytes(v[codec.AddressLen*2+consts.Uint64Len*2+consts.Uint32Len+consts.CumulativeLen : codec.AddressLen*2+consts.Uint64Len*2+consts.Uint32Len+consts.CumulativeLen*2])
	pair.KLast.FillBytes(v[codec.AddressLen*2+consts.Uint64Len*2+consts.Uint32Len+consts.CumulativeLen*2 : codec.AddressLen*2+consts.Uint64Len*2+consts.Uint32Len+consts.CumulativeLen*2+consts.KLen])
	copy(v[codec.AddressLen*2+consts.Uint64Len*2+consts.Uint32Len+consts.CumulativeLen*2+consts.KLen:], pair.LPToken[:])
	return mu.Insert(ctx, PairKey(pairAddress), v)
}

func GetPair(
	ctx context.Context,
	im state.Immutable,
	pairAddress codec.Address,
) (*Pair, error) {
	v, err := im.GetValue(ctx, PairKey(pairAddress))
	if err != nil {
		return nil, err
	}
	return innerGetPair(v)
}

func innerGetPair(v []byte) (*Pair, error) {
	if len(v) != pairValueLen {
		return nil, ErrInvalidPairRecord
	}
	p := &Pair{}
	copy(p.TokenX[:], v)
	copy(p.TokenY[:], v[codec.AddressLen:])
	p.ReserveX = binary.BigEndian.Uint64(v[codec.AddressLen*2:])
	p.ReserveY = binary.BigEndian.Uint64(v[codec.AddressLen*2+consts.Uint64Len:])
	p.BlockTimestampLast = binary.BigEndian.Uint32(v[codec.AddressLen*2+consts.Uint64Len*2:])
	p.PriceXCumulative = new(big.Int).SetBytes(v[codec.AddressLen*2+consts.Uint64Len*2+consts.Uint32Len : codec.AddressLen*2+consts.Uint64Len*2+consts.Uint32Len+consts.CumulativeLen])
	p.PriceYCumulative = new(big.Int).SetBytes(v[codec.AddressLen*2+consts.Uint64Len*2+consts.Uint32Len+consts.CumulativeLen : codec.AddressLen*2+consts.Uint64Len*2+consts.Uint32Len+consts.CumulativeLen*2])
	p.KLast = new(big.Int).SetBytes(v[codec.AddressLen*2+consts.Uint64Len*2+consts.Uint32Len+consts.CumulativeLen*2 : codec.AddressLen*2+consts.Uint64Len*2+consts.Uint32Len+consts.CumulativeLen*2+consts.KLen])
	copy(p.LPToken[:], v[codec.AddressLen*2+consts.Uint64Len*2+consts.Uint32Len+consts.CumulativeLen*2+consts.KLen:])
	return p, nil
}

func PairExists(
	ctx context.Context,
	im state.Immutable,
	pairAddress codec.Address,
) bool {
	v, err := im.GetValue(ctx, PairKey(pairAddress))
	return v != nil && err == nil
}

// SetPairTokenIndex records the LP-token provenance used by the fee queue to
// classify jobs.
func SetPairTokenIndex(
	ctx context.Context,
	mu state.Mutable,
	lpToken codec.Address,
	pairAddress codec.Address,
) error {
	return mu.Insert(ctx, pairTokenIndexKey(lpToken), pairAddress[:])
}

// GetPairForToken resolves an LP token back to its pair. Returns
// database.ErrNotFound for tokens that are not LP tokens of a known pair.
func GetPairForToken(
	ctx context.Context,
	im state.Immutable,
	lpToken codec.Address,
) (codec.Address, error) {
	v, err := im.GetValue(ctx, pairTokenIndexKey(lpToken))
	if err != nil {
		return codec.EmptyAddress, err
	}
	return codec.Address(v), nil
}
