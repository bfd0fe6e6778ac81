// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package genesis

import (
	"context"
	"encoding/json"
	"fmt"

	safemath "github.com/ava-labs/avalanchego/utils/math"

	"github.com/0xhaz/dexvm/codec"
	"github.com/0xhaz/dexvm/consts"
	"github.com/0xhaz/dexvm/state"
	"github.com/0xhaz/dexvm/storage"
)

type CustomAllocation struct {
	Address codec.Address `json:"address"`
	Balance uint64        `json:"balance"`
}

// Genesis is the full deployment description: initial rules, coin and base
// asset allocations, and the vault/collector principals.
type Genesis struct {
	TeamAccount    codec.Address `json:"teamAccount"`
	CollectorOwner codec.Address `json:"collectorOwner"`

	CoinAllocations []*CustomAllocation `json:"coinAllocations"`
	BaseAllocations []*CustomAllocation `json:"baseAllocations"`

	Rules *Rules `json:"initialRules"`
}

func NewDefaultGenesis(team codec.Address, owner codec.Address) *Genesis {
	return &Genesis{
		TeamAccount:    team,
		CollectorOwner: owner,
		Rules:          NewDefaultRules(),
	}
}

func Load(genesisBytes []byte) (*Genesis, error) {
	g := &Genesis{}
	if err := json.Unmarshal(genesisBytes, g); err != nil {
		return nil, err
	}
	if g.Rules == nil {
		g.Rules = NewDefaultRules()
	}
	return g, nil
}

// InitializeState deploys the protocol coin and base asset, funds the genesis
// allocations, and bootstraps the vault and fee collector. [timestamp] is the
// chain time the deployment is stamped with.
func (g *Genesis) InitializeState(ctx context.Context, mu state.Mutable, timestamp int64) error {
	if err := storage.SetTokenInfo(
		ctx, mu, storage.CoinAddress,
		[]byte(consts.Name), []byte(consts.Symbol), []byte(consts.Metadata),
		0, g.TeamAccount,
	); err != nil {
		return err
	}
	if err := storage.SetTokenInfo(
		ctx, mu, storage.BaseAssetAddress,
		[]byte(consts.Name), []byte(consts.BaseSymbol), []byte(consts.BaseMetadata),
		0, g.TeamAccount,
	); err != nil {
		return err
	}

	supply := uint64(0)
	for _, alloc := range g.CoinAllocations {
		var err error
		supply, err = safemath.Add(supply, alloc.Balance)
		if err != nil {
			return err
		}
		if err := storage.MintToken(ctx, mu, storage.CoinAddress, alloc.Address, alloc.Balance); err != nil {
			return fmt.Errorf("%w: addr=%s, bal=%d", err, alloc.Address, alloc.Balance)
		}
	}
	for _, alloc := range g.BaseAllocations {
		if err := storage.MintToken(ctx, mu, storage.BaseAssetAddress, alloc.Address, alloc.Balance); err != nil {
			return fmt.Errorf("%w: addr=%s, bal=%d", err, alloc.Address, alloc.Balance)
		}
	}

	if err := storage.SetVault(ctx, mu, &storage.Vault{
		TeamAccount: g.TeamAccount,
		DeployedAt:  timestamp,
	}); err != nil {
		return err
	}
	return storage.SetCollector(ctx, mu, &storage.Collector{
		Owner: g.CollectorOwner,
	})
}
