// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"context"
	"fmt"
	"net"
	"net/http"

	"github.com/ava-labs/avalanchego/database/memdb"
	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ava-labs/shieldswap/api/jsonrpc"
	"github.com/ava-labs/shieldswap/api/ws"
	"github.com/ava-labs/shieldswap/config"
	"github.com/ava-labs/shieldswap/consts"
	"github.com/ava-labs/shieldswap/exchange"
	"github.com/ava-labs/shieldswap/genesis"
	"github.com/ava-labs/shieldswap/pebble"
	"github.com/ava-labs/shieldswap/server"
	"github.com/ava-labs/shieldswap/token"
	"github.com/ava-labs/shieldswap/trace"
	"github.com/ava-labs/shieldswap/utils"

	avatrace "github.com/ava-labs/avalanchego/trace"
)

const metricsEndpoint = "/metrics"

func newServeCmd() *cobra.Command {
	var (
		configPath   string
		displayLevel string
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the exchange and its JSON-RPC, websocket and metrics endpoints",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			return serve(cmd.Context(), cfg, displayLevel)
		},
	}
	cmd.Flags().StringVar(&configPath, "config", "", "path to a JSON, YAML or TOML config file")
	cmd.Flags().StringVar(&displayLevel, "display-level", "", "override the stderr log level")
	return cmd
}

func openDatabase(cfg config.DatabaseConfig) (exchange.Database, prometheus.Gatherer, error) {
	switch cfg.Type {
	case config.PebbleDB:
		dir, err := utils.InitSubDirectory(cfg.Path, "state")
		if err != nil {
			return nil, nil, err
		}
		db, reg, err := pebble.New(dir, cfg.Pebble)
		if err != nil {
			return nil, nil, err
		}
		return db, reg, nil
	default:
		return memdb.New(), prometheus.NewRegistry(), nil
	}
}

func serve(ctx context.Context, cfg config.Config, displayLevel string) error {
	logFactory := newLogFactory(cfg.LoggingConfig())
	defer logFactory.Close()
	log, err := logFactory.Make(consts.Name)
	if err != nil {
		return err
	}
	if displayLevel != "" {
		level, err := logging.ToLevel(displayLevel)
		if err != nil {
			return err
		}
		if err := logFactory.SetDisplayLevel(consts.Name, level); err != nil {
			return err
		}
	}

	db, dbGatherer, err := openDatabase(cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to open %s database: %w", cfg.Database.Type, err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("failed to close database", zap.Error(err))
		}
	}()

	tracer, err := trace.New(&cfg.Trace)
	if err != nil {
		return err
	}
	defer tracer.Close()

	reg := prometheus.NewRegistry()
	ex, err := exchange.New(log, tracer, reg, db, token.StateLedger{})
	if err != nil {
		return err
	}
	defer ex.Close()

	if err := bootstrap(ctx, log, tracer, ex, cfg.GenesisFile); err != nil {
		return err
	}

	wsServer, wsHandler := ws.NewWebSocketServer(log, tracer, ws.Config{
		Enabled:            true,
		MaxPendingMessages: cfg.StreamBacklog,
	})
	if err := wsHandler.RegisterMetrics(reg); err != nil {
		return err
	}
	unsubscribe := ex.Subscribe(wsServer)
	defer func() { _ = unsubscribe() }()

	rpcHandler, err := jsonrpc.NewHandler(log, ex)
	if err != nil {
		return err
	}
	wrapper, err := server.NewMetricsWrapper(reg)
	if err != nil {
		return err
	}
	listener, err := net.Listen("tcp", cfg.Address())
	if err != nil {
		return err
	}
	srv := server.New(log, listener, server.Config{
		HTTP:            cfg.HTTP,
		AllowedOrigins:  cfg.AllowedOrigins,
		AllowedHosts:    cfg.AllowedHosts,
		ShutdownTimeout: cfg.ShutdownTimeout,
	}, wrapper)
	routes := []struct {
		endpoint string
		handler  http.Handler
	}{
		{jsonrpc.Endpoint, rpcHandler},
		{ws.Endpoint, wsHandler},
		{metricsEndpoint, server.MetricsHandler(prometheus.Gatherers{reg, dbGatherer})},
	}
	for _, r := range routes {
		if err := srv.AddRoute(r.handler, r.endpoint, ""); err != nil {
			return err
		}
	}

	log.Info("serving",
		zap.Stringer("address", srv.Addr()),
		zap.String("database", cfg.Database.Type),
	)
	return srv.Dispatch(ctx)
}

// bootstrap applies the genesis file to an exchange that has no owner yet.
func bootstrap(ctx context.Context, log logging.Logger, tracer avatrace.Tracer, ex *exchange.Exchange, path string) error {
	owner, err := ex.Owner(ctx)
	if err != nil {
		return err
	}
	if !owner.Empty() {
		log.Info("skipping genesis", zap.Stringer("owner", owner))
		return nil
	}
	if path == "" {
		log.Warn("no owner and no genesis file, administration is disabled until one is applied")
		return nil
	}
	g, err := genesis.Load(path)
	if err != nil {
		return err
	}
	poolIDs, err := g.Apply(ctx, tracer, ex)
	if err != nil {
		return fmt.Errorf("failed to apply genesis: %w", err)
	}
	log.Info("applied genesis",
		zap.String("owner", g.Owner),
		zap.Int("tokens", len(g.Tokens)),
		zap.Int("pools", len(poolIDs)),
	)
	return nil
}
