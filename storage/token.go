// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package storage

import (
	"context"
	"encoding/binary"

	"github.com/ava-labs/avalanchego/database"

	"github.com/0xhaz/dexvm/codec"
	"github.com/0xhaz/dexvm/consts"
	"github.com/0xhaz/dexvm/state"
	"github.com/0xhaz/dexvm/utils"

	smath "github.com/ava-labs/avalanchego/utils/math"
)

func TokenAddress(name []byte, symbol []byte, metadata []byte) codec.Address {
	v := make([]byte, len(name)+len(symbol)+len(metadata))
	copy(v, name)
	copy(v[len(name):], symbol)
	copy(v[len(name)+len(symbol):], metadata)
	id := utils.ToID(v)
	return codec.CreateAddress(consts.TOKENID, id)
}

func TokenInfoKey(tokenAddress codec.Address) []byte {
	k := make([]byte, 1+codec.AddressLen)
	k[0] = tokenInfoPrefix
	copy(k[1:], tokenAddress[:])
	return k
}

func TokenBalanceKey(token codec.Address, account codec.Address) []byte {
	k := make([]byte, 1+codec.AddressLen+codec.AddressLen)
	k[0] = tokenBalancePrefix
	copy(k[1:], token[:])
	copy(k[1+codec.AddressLen:], account[:])
	return k
}

func SetTokenInfo(
	ctx context.Context,
	mu state.Mutable,
	tokenAddress codec.Address,
	name []byte,
	symbol []byte,
	metadata []byte,
	totalSupply uint64,
	owner codec.Address,
) error {
	k := TokenInfoKey(tokenAddress)
	nameLen := len(name)
	symbolLen := len(symbol)
	metadataLen := len(metadata)
	v := make([]byte, consts.Uint16Len+nameLen+consts.Uint16Len+symbolLen+consts.Uint16Len+metadataLen+consts.Uint64Len+codec.AddressLen)

	binary.BigEndian.PutUint16(v, uint16(nameLen))
	copy(v[consts.Uint16Len:], name)
	binary.BigEndian.PutUint16(v[consts.Uint16Len+nameLen:], uint16(symbolLen))
	copy(v[consts.Uint16Len+nameLen+consts.Uint16Len:], symbol)
	binary.BigEndian.PutUint16(v[consts.Uint16Len+nameLen+consts.Uint16Len+symbolLen:], uint16(metadataLen))
	copy(v[consts.Uint16Len+nameLen+consts.Uint16Len+symbolLen+consts.Uint16Len:], metadata)
	binary.BigEndian.PutUint64(v[consts.Uint16Len+nameLen+consts.Uint16Len+symbolLen+consts.Uint16Len+metadataLen:], totalSupply)
	copy(v[consts.Uint16Len+nameLen+consts.Uint16Len+symbolLen+consts.Uint16Len+metadataLen+consts.Uint64Len:], owner[:])
	return mu.Insert(ctx, k, v)
}

func GetTokenInfo(
	ctx context.Context,
	im state.Immutable,
	tokenAddress codec.Address,
) ([]byte, []byte, []byte, uint64, codec.Address, error) {
	k := TokenInfoKey(tokenAddress)
	v, err := im.GetValue(ctx, k)
	if err != nil {
		return nil, nil, nil, 0, codec.EmptyAddress, err
	}
	return innerGetTokenInfo(v)
}

func innerGetTokenInfo(
	v []byte,
) ([]byte, []byte, []byte, uint64, codec.Address, error) {
	nameLen := binary.BigEndian.Uint16(v)
	name := v[consts.Uint16Len : consts.Uint16Len+nameLen]
	symbolLen := binary.BigEndian.Uint16(v[consts.Uint16Len+nameLen:])
	symbol := v[consts.Uint16Len+nameLen+consts.Uint16Len : consts.Uint16Len+nameLen+consts.Uint16Len+symbolLen]
	metadataLen := binary.BigEndian.Uint16(v[consts.Uint16Len+nameLen+consts.Uint16Len+symbolLen:])
	metadata := v[consts.Uint16Len+nameLen+consts.Uint16Len+symbolLen+consts.Uint16Len : consts.Uint16Len+nameLen+consts.Uint16Len+symbolLen+consts.Uint16Len+metadataLen]
	totalSupply := binary.BigEndian.Uint64(v[consts.Uint16Len+nameLen+consts.Uint16Len+symbolLen+consts.Uint16Len+metadataLen:])
	owner := codec.Address(v[consts.Uint16Len+nameLen+consts.Uint16Len+symbolLen+consts.Uint16Len+metadataLen+consts.Uint64Len:])
	return name, symbol, metadata, totalSupply, owner, nil
}

func TokenExists(
	ctx context.Context,
	im state.Immutable,
	tokenAddress codec.Address,
) bool {
	v, err := im.GetValue(ctx, TokenInfoKey(tokenAddress))
	return v != nil && err == nil
}

func SetTokenBalance(
	ctx context.Context,
	mu state.Mutable,
	tokenAddress codec.Address,
	account codec.Address,
	balance uint64,
) error {
	k := TokenBalanceKey(tokenAddress, account)
	v := make([]byte, consts.Uint64Len)
	binary.BigEndian.PutUint64(v, balance)
	return mu.Insert(ctx, k, v)
}

func GetTokenBalance(
	ctx context.Context,
	im state.Immutable,
	tokenAddress codec.Address,
	account codec.Address,
) (uint64, error) {
	k := TokenBalanceKey(tokenAddress, account)
	v, err := im.GetValue(ctx, k)
	if err == database.ErrNotFound {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint64(v), nil
}

func MintToken(
	ctx context.Context,
	mu state.Mutable,
	tokenAddress codec.Address,
	to codec.Address,
	value uint64,
) error {
	tName, tSymbol, tMetadata, tSupply, tOwner, err := GetTokenInfo(ctx, mu, tokenAddress)
	if err != nil {
		return err
	}
	balance, err := GetTokenBalance(ctx, mu, tokenAddress, to)
	if err != nil {
		return err
	}
	newTotalSupply, err := smath.Add(tSupply, value)
	if err != nil {
		return err
	}
	newBalance, err := smath.Add(balance, value)
	if err != nil {
		return err
	}
	if err := SetTokenInfo(ctx, mu, tokenAddress, tName, tSymbol, tMetadata, newTotalSupply, tOwner); err != nil {
		return err
	}
	return SetTokenBalance(ctx, mu, tokenAddress, to, newBalance)
}

func BurnToken(
	ctx context.Context,
	mu state.Mutable,
	tokenAddress codec.Address,
	from codec.Address,
	value uint64,
) error {
	balance, err := GetTokenBalance(ctx, mu, tokenAddress, from)
	if err != nil {
		return err
	}
	name, symbol, metadata, totalSupply, owner, err := GetTokenInfo(ctx, mu, tokenAddress)
	if err != nil {
		return err
	}
	newBalance, err := smath.Sub(balance, value)
	if err != nil {
		return err
	}
	newTotalSupply, err := smath.Sub(totalSupply, value)
	if err != nil {
		return err
	}
	if err := SetTokenBalance(ctx, mu, tokenAddress, from, newBalance); err != nil {
		return err
	}
	return SetTokenInfo(ctx, mu, tokenAddress, name, symbol, metadata, newTotalSupply, owner)
}

func TransferToken(
	ctx context.Context,
	mu state.Mutable,
	tokenAddress codec.Address,
	from codec.Address,
	to codec.Address,
	value uint64,
) error {
	fromBalance, err := GetTokenBalance(ctx, mu, tokenAddress, from)
	if err != nil {
		return err
	}
	toBalance, err := GetTokenBalance(ctx, mu, tokenAddress, to)
	if err != nil {
		return err
	}
	newFromBalance, err := smath.Sub(fromBalance, value)
	if err != nil {
		return err
	}
	newToBalance, err := smath.Add(toBalance, value)
	if err != nil {
		return err
	}
	if err := SetTokenBalance(ctx, mu, tokenAddress, from, newFromBalance); err != nil {
		return err
	}
	return SetTokenBalance(ctx, mu, tokenAddress, to, newToBalance)
}
