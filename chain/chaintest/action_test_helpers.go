// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package chaintest

import (
	"context"
	"testing"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/stretchr/testify/require"

	"github.com/0xhaz/dexvm/chain"
	"github.com/0xhaz/dexvm/codec"
	"github.com/0xhaz/dexvm/state"
	"github.com/0xhaz/dexvm/state/tstate"
)

// Execute runs [action] the way the processor does: against a buffered view
// that is discarded on error and committed on success. A rejected action
// leaves [mu] untouched.
func Execute(
	ctx context.Context,
	action chain.Action,
	r chain.Rules,
	mu state.Mutable,
	timestamp int64,
	actor codec.Address,
	actionID ids.ID,
) ([][]byte, error) {
	view := tstate.New(mu)
	outputs, err := action.Execute(ctx, r, view, timestamp, actor, actionID)
	if err != nil {
		view.Discard()
		return nil, err
	}
	if err := view.Commit(ctx, mu); err != nil {
		return nil, err
	}
	return outputs, nil
}

var _ chain.Rules = (*Rules)(nil)

// Rules are chain-time parameters sized for unit tests.
type Rules struct {
	MinimumFirstStake      uint64
	MinimumWithdrawAmount  uint64
	TeamLockDuration       int64
	MaxPairsPerCollection  int
	MaxJobsPerProcess      int
	GlobalFailureThreshold uint8
	JobAbandonThreshold    uint8
	DistributionCooldown   int64
}

func NewRules() *Rules {
	return &Rules{
		MinimumFirstStake:      1_000,
		MinimumWithdrawAmount:  100,
		TeamLockDuration:       15_552_000_000, // 180 days
		MaxPairsPerCollection:  10,
		MaxJobsPerProcess:      10,
		GlobalFailureThreshold: 5,
		JobAbandonThreshold:    3,
		DistributionCooldown:   3_600_000, // 1 hour
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

// ActionTest is a single parameterized test. It calls Execute on the action
// with the passed parameters and checks that all assertions pass.
type ActionTest struct {
	Name string

	Action chain.Action

	Rules     chain.Rules
	State     state.Mutable
	Timestamp int64
	Actor     codec.Address
	ActionID  ids.ID

	ExpectedOutputs [][]byte
	ExpectedErr     error

	Assertion func(context.Context, *testing.T, state.Mutable)
}

// Run executes the [ActionTest] and makes sure all assertions pass.
func (test *ActionTest) Run(ctx context.Context, t *testing.T) {
	t.Run(test.Name, func(t *testing.T) {
		require := require.New(t)

		output, err := Execute(ctx, test.Action, test.Rules, test.State, test.Timestamp, test.Actor, test.ActionID)

		require.ErrorIs(err, test.ExpectedErr)
		require.Equal(test.ExpectedOutputs, output)

		if test.Assertion != nil {
			test.Assertion(ctx, t, test.State)
		}
	})
}
