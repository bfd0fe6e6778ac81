// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"flag"
	"net/http"
	"os"

	"github.com/ava-labs/avalanchego/database/memdb"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/0xhaz/dexvm/config"
	"github.com/0xhaz/dexvm/genesis"
	"github.com/0xhaz/dexvm/vm"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the node config")
	flag.Parse()

	c, err := config.Load(*configPath)
	if err != nil {
		c = config.Default()
	}

	log, err := newLogger(c.LogLevel)
	if err != nil {
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	genesisBytes, err := os.ReadFile(c.GenesisPath)
	if err != nil {
		log.Fatal("unable to read genesis", zap.String("path", c.GenesisPath), zap.Error(err))
	}
	gen, err := genesis.Load(genesisBytes)
	if err != nil {
		log.Fatal("unable to parse genesis", zap.Error(err))
	}

	node, err := vm.New(log, memdb.New(), gen)
	if err != nil {
		log.Fatal("unable to create node", zap.Error(err))
	}
	defer func() { _ = node.Shutdown() }()

	handler, err := node.Handler()
	if err != nil {
		log.Fatal("unable to create handler", zap.Error(err))
	}

	log.Info("serving", zap.String("address", c.HTTPAddress))
	if err := http.ListenAndServe(c.HTTPAddress, handler); err != nil {
		log.Fatal("server exited", zap.Error(err))
	}
}

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		lvl = zapcore.InfoLevel
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	return cfg.Build()
}
