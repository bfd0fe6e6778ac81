// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package genesis

import (
	"github.com/0xhaz/dexvm/chain"
)

var _ chain.Rules = (*Rules)(nil)

// Rules are the chain-time parameters fixed at genesis.
type Rules struct {
	MinimumFirstStake     uint64 `json:"minimumFirstStake"`
	MinimumWithdrawAmount uint64 `json:"minimumWithdrawAmount"`
	TeamLockDuration      int64  `json:"teamLockDurationMs"`

	MaxPairsPerCollection  int   `json:"maxPairsPerCollection"`
	MaxJobsPerProcess      int   `json:"maxJobsPerProcess"`
	GlobalFailureThreshold uint8 `json:"globalFailureThreshold"`
	JobAbandonThreshold    uint8 `json:"jobAbandonThreshold"`
	DistributionCooldown   int64 `json:"distributionCooldownMs"`
}

func NewDefaultRules() *Rules {
	return &Rules{
		MinimumFirstStake:      1_000,
		MinimumWithdrawAmount:  100,
		TeamLockDuration:       180 * 24 * 60 * 60 * 1_000, // 180 days
		MaxPairsPerCollection:  10,
		MaxJobsPerProcess:      10,
		GlobalFailureThreshold: 5,
		JobAbandonThreshold:    3,
		DistributionCooldown:   60 * 60 * 1_000, // 1 hour
	}
}

func (r *Rules) GetMinimumFirstStake() uint64     { return r.MinimumFirstStake }
func (r *Rules) GetMinimumWithdrawAmount() uint64 { return r.MinimumWithdrawAmount }
func (r *Rules) GetTeamLockDuration() int64       { return r.TeamLockDuration }
func (r *Rules) GetMaxPairsPerCollection() int    { return r.MaxPairsPerCollection }
func (r *Rules) GetMaxJobsPerProcess() int        { return r.MaxJobsPerProcess }
func (r *Rules) GetGlobalFailureThreshold() uint8 { return r.GlobalFailureThreshold }
func (r *Rules) GetJobAbandonThreshold() uint8    { return r.JobAbandonThreshold }
func (r *Rules) GetDistributionCooldown() int64   { return r.DistributionCooldown }
