// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package vm

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/ava-labs/avalanchego/database"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/0xhaz/dexvm/chain"
	"github.com/0xhaz/dexvm/codec"
	"github.com/0xhaz/dexvm/genesis"
	"github.com/0xhaz/dexvm/rpc"
	"github.com/0xhaz/dexvm/state"
	"github.com/0xhaz/dexvm/storage"
)

var _ rpc.Controller = (*VM)(nil)

// VM owns the backing store, the action processor, and the HTTP surface.
type VM struct {
	log       *zap.Logger
	db        database.Database
	processor *chain.Processor
	registry  prometheus.Registerer
	gatherer  prometheus.Gatherer
}

// New wires a node from its database and genesis. A fresh database is
// initialized from the genesis; an existing one is reused as is.
func New(log *zap.Logger, db database.Database, gen *genesis.Genesis) (*VM, error) {
	registry := prometheus.NewRegistry()
	metrics, err := chain.NewMetrics(registry)
	if err != nil {
		return nil, err
	}

	store := state.NewDatabaseStore(db)
	processor := chain.NewProcessor(store, gen.Rules, log, metrics)

	ctx := context.Background()
	if _, err := storage.GetVault(ctx, store); err != nil {
		if !errors.Is(err, database.ErrNotFound) {
			return nil, err
		}
		if err := gen.InitializeState(ctx, store, time.Now().UnixMilli()); err != nil {
			return nil, err
		}
		log.Info("initialized state from genesis",
			zap.Stringer("teamAccount", gen.TeamAccount),
			zap.Stringer("collectorOwner", gen.CollectorOwner),
		)
	}

	return &VM{
		log:       log,
		db:        db,
		processor: processor,
		registry:  registry,
		gatherer:  registry,
	}, nil
}

// Execute submits one action for [actor].
func (vm *VM) Execute(ctx context.Context, action chain.Action, actor codec.Address) ([][]byte, error) {
	return vm.processor.Execute(ctx, action, actor)
}

// ReadState implements rpc.Controller.
func (vm *VM) ReadState(ctx context.Context, f func(context.Context, state.Immutable) error) error {
	return vm.processor.ReadState(ctx, f)
}

// Rules implements rpc.Controller.
func (vm *VM) Rules() chain.Rules {
	return vm.processor.Rules()
}

// Logger implements rpc.Controller.
func (vm *VM) Logger() *zap.Logger {
	return vm.log
}

// Handler returns the node's HTTP surface: the JSON-RPC service plus
// Prometheus metrics.
func (vm *VM) Handler() (http.Handler, error) {
	rpcHandler, err := rpc.NewJSONRPCHandler(rpc.ServiceName, rpc.NewJSONRPCServer(vm))
	if err != nil {
		return nil, err
	}
	r := mux.NewRouter()
	r.Handle(rpc.JSONRPCEndpoint, rpcHandler)
	r.Handle("/metrics", promhttp.HandlerFor(vm.gatherer, promhttp.HandlerOpts{}))
	return r, nil
}

// Shutdown closes the backing database.
func (vm *VM) Shutdown() error {
	return vm.db.Close()
}
