// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package storage

import (
	"context"
	"encoding/binary"
	"math/big"

	"github.com/ava-labs/avalanchego/database"

	"github.com/0xhaz/dexvm/codec"
	"github.com/0xhaz/dexvm/consts"
	"github.com/0xhaz/dexvm/state"
)

// Vault is the staking vault's global record. Share price
// (TotalDeposited/TotalShares) only rises, via fee distribution.
type Vault struct {
	TeamAccount codec.Address
	DeployedAt  int64

	TotalShares        uint64
	TotalDeposited     uint64
	AccFeesPerShare    uint64 // scaled by FeePrecision
	TotalUnclaimedFees uint64
}

// VaultAccount tracks one staker: share count plus the fee-debt snapshot
// (Shares * AccFeesPerShare, before precision scaling) taken at the last
// balance-changing interaction.
type VaultAccount struct {
	Shares  uint64
	FeeDebt *big.Int
}

func VaultKey() []byte {
	return []byte{vaultPrefix}
}

func VaultAccountKey(account codec.Address) []byte {
	k := make([]byte, 1+codec.AddressLen)
	k[0] = vaultAccountPrefix
	copy(k[1:], account[:])
	return k
}

const vaultValueLen = codec.AddressLen + consts.Uint64Len*5

func SetVault(ctx context.Context, mu state.Mutable, v *Vault) error {
	b := make([]byte, vaultValueLen)
	copy(b, v.TeamAccount[:])
	binary.BigEndian.PutUint64(b[codec.AddressLen:], uint64(v.DeployedAt))
	binary.BigEndian.PutUint64(b[codec.AddressLen+consts.Uint64Len:], v.TotalShares)
	binary.BigEndian.PutUint64(b[codec.AddressLen+consts.Uint64Len*2:], v.TotalDeposited)
	binary.BigEndian.PutUint64(b[codec.AddressLen+consts.Uint64Len*3:], v.AccFeesPerShare)
	binary.BigEndian.PutUint64(b[codec.AddressLen+consts.Uint64Len*4:], v.TotalUnclaimedFees)
	return mu.Insert(ctx, VaultKey(), b)
}

func GetVault(ctx context.Context, im state.Immutable) (*Vault, error) {
	b, err := im.GetValue(ctx, VaultKey())
	if err != nil {
		return nil, err
	}
	if len(b) != vaultValueLen {
		return nil, ErrInvalidVaultRecord
	}
	v := &Vault{}
	copy(v.TeamAccount[:], b)
	v.DeployedAt = int64(binary.BigEndian.Uint64(b[codec.AddressLen:]))
	v.TotalShares = binary.BigEndian.Uint64(b[codec.AddressLen+consts.Uint64Len:])
	v.TotalDeposited = binary.BigEndian.Uint64(b[codec.AddressLen+consts.Uint64Len*2:])
	v.AccFeesPerShare = binary.BigEndian.Uint64(b[codec.AddressLen+consts.Uint64Len*3:])
	v.TotalUnclaimedFees = binary.BigEndian.Uint64(b[codec.AddressLen+consts.Uint64Len*4:])
	return v, nil
}

const vaultAccountValueLen = consts.Uint64Len + consts.KLen

func SetVaultAccount(
	ctx context.Context,
	mu state.Mutable,
	account codec.Address,
	va *VaultAccount,
) error {
	b := make([]byte, vaultAccountValueLen)
	binary.BigEndian.PutUint64(b, va.Shares)
	va.FeeDebt.FillBytes(b[consts.Uint64Len : consts.Uint64Len+consts.KLen])
	return mu.Insert(ctx, VaultAccountKey(account), b)
}

// GetVaultAccount returns the staker record, or a zeroed record for accounts
// that never entered.
func GetVaultAccount(
	ctx context.Context,
	im state.Immutable,
	account codec.Address,
) (*VaultAccount, error) {
	b, err := im.GetValue(ctx, VaultAccountKey(account))
	if err == database.ErrNotFound {
		return &VaultAccount{FeeDebt: new(big.Int)}, nil
	}
	if err != nil {
		return nil, err
	}
	if len(b) != vaultAccountValueLen {
		return nil, ErrInvalidVaultRecord
	}
	return &VaultAccount{
		Shares:  binary.BigEndian.Uint64(b),
		FeeDebt: new(big.Int).SetBytes(b[consts.Uint64Len : consts.Uint64Len+consts.KLen]),
	}, nil
}

func RemoveVaultAccount(ctx context.Context, mu state.Mutable, account codec.Address) error {
	return mu.Remove(ctx, VaultAccountKey(account))
}
