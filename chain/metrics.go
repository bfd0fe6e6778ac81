// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package chain

import "github.com/prometheus/client_golang/prometheus"

type Metrics struct {
	actionsExecuted prometheus.Counter
	actionsRejected prometheus.Counter

	swaps           prometheus.Counter
	liquidityEvents prometheus.Counter
	jobsProcessed   prometheus.Counter
	jobsFailed      prometheus.Counter
	breakerTrips    prometheus.Counter
	distributions   prometheus.Counter
}

func NewMetrics(r prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		actionsExecuted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "chain",
			Name:      "actions_executed",
			Help:      "number of actions committed",
		}),
		actionsRejected: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "chain",
			Name:      "actions_rejected",
			Help:      "number of actions rejected and rolled back",
		}),
		swaps: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "dex",
			Name:      "swaps",
			Help:      "number of pool swaps executed",
		}),
		liquidityEvents: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "dex",
			Name:      "liquidity_events",
			Help:      "number of liquidity additions and removals",
		}),
		jobsProcessed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "dex",
			Name:      "queue_jobs_processed",
			Help:      "number of conversion jobs completed",
		}),
		jobsFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "dex",
			Name:      "queue_jobs_failed",
			Help:      "number of conversion job attempts that failed",
		}),
		breakerTrips: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "dex",
			Name:      "circuit_breaker_trips",
			Help:      "number of times repeated failures paused the collector",
		}),
		distributions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "dex",
			Name:      "distributions",
			Help:      "number of fee distributions to the vault",
		}),
	}
	for _, c := range []prometheus.Collector{
		m.actionsExecuted,
		m.actionsRejected,
		m.swaps,
		m.liquidityEvents,
		m.jobsProcessed,
		m.jobsFailed,
		m.breakerTrips,
		m.distributions,
	} {
		if err := r.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// The increment helpers tolerate a nil receiver so actions run unchanged when
// executed without a processor, as in tests.

func (m *Metrics) IncSwaps() {
	if m != nil {
		m.swaps.Inc()
	}
}

func (m *Metrics) IncLiquidityEvents() {
	if m != nil {
		m.liquidityEvents.Inc()
	}
}

func (m *Metrics) AddJobsProcessed(n uint64) {
	if m != nil {
		m.jobsProcessed.Add(float64(n))
	}
}

func (m *Metrics) AddJobsFailed(n uint64) {
	if m != nil {
		m.jobsFailed.Add(float64(n))
	}
}

func (m *Metrics) IncBreakerTrips() {
	if m != nil {
		m.breakerTrips.Inc()
	}
}

func (m *Metrics) IncDistributions() {
	if m != nil {
		m.distributions.Inc()
	}
}
