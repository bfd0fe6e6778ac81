// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package chain

import (
	"context"
	"sync"

	"github.com/ava-labs/avalanchego/utils/timer/mockable"
	"go.uber.org/zap"

	"github.com/0xhaz/dexvm/codec"
	"github.com/0xhaz/dexvm/state"
	"github.com/0xhaz/dexvm/state/tstate"
	"github.com/0xhaz/dexvm/utils"
)

// Processor serializes action execution over a single backing store. Every
// action runs against a fresh transactional view; the view is committed only
// when Execute succeeds.
type Processor struct {
	l     sync.Mutex
	store state.Mutable
	rules Rules
	log   *zap.Logger
	clock mockable.Clock

	metrics *Metrics
}

func NewProcessor(store state.Mutable, rules Rules, log *zap.Logger, metrics *Metrics) *Processor {
	return &Processor{
		store:   store,
		rules:   rules,
		log:     log,
		metrics: metrics,
	}
}

// Rules returns the chain-time parameters the processor executes with.
func (p *Processor) Rules() Rules {
	return p.rules
}

// ReadState runs [f] against the committed store. No mutation is possible.
func (p *Processor) ReadState(ctx context.Context, f func(context.Context, state.Immutable) error) error {
	p.l.Lock()
	defer p.l.Unlock()

	return f(ctx, p.store)
}

// Execute runs [action] for [actor] as one atomic transition.
func (p *Processor) Execute(ctx context.Context, action Action, actor codec.Address) ([][]byte, error) {
	p.l.Lock()
	defer p.l.Unlock()

	now := p.clock.Time().UnixMilli()
	if start, end := action.ValidRange(p.rules); (start >= 0 && now < start) || (end >= 0 && now > end) {
		p.metrics.actionsRejected.Inc()
		return nil, ErrActionNotValidYet
	}

	actionID := utils.ToID(append(actor[:], byte(action.GetTypeID())))
	if i, ok := action.(Instrumented); ok {
		i.Instrument(p.metrics, p.log)
	}
	view := tstate.New(p.store)
	outputs, err := action.Execute(ctx, p.rules, view, now, actor, actionID)
	if err != nil {
		view.Discard()
		p.metrics.actionsRejected.Inc()
		p.log.Debug("action rejected",
			zap.Uint8("type", action.GetTypeID()),
			zap.Stringer("actor", actor),
			zap.Error(err),
		)
		return nil, err
	}
	if err := view.Commit(ctx, p.store); err != nil {
		return nil, err
	}
	p.metrics.actionsExecuted.Inc()
	p.log.Debug("action executed",
		zap.Uint8("type", action.GetTypeID()),
		zap.Stringer("actor", actor),
		zap.Uint64("units", action.ComputeUnits(p.rules)),
	)
	return outputs, nil
}
