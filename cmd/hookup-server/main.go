package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/obsarray/hookup/pkg/api"
	"github.com/obsarray/hookup/pkg/eventlog"
	"github.com/obsarray/hookup/pkg/hookup"
	"github.com/obsarray/hookup/pkg/logging"
	"github.com/obsarray/hookup/pkg/metrics"
	"github.com/obsarray/hookup/pkg/parts"
	"github.com/obsarray/hookup/pkg/routing"
)

func main() {
	configPath := flag.String("config", "", "Path to YAML config file")
	port := flag.Int("port", 0, "HTTP server port (default 8080, or set PORT)")
	catalog := flag.String("catalog", "", "Part catalog YAML file")
	routingTable := flag.String("routing", "", "SNAP routing table YAML file")
	backend := flag.String("log-backend", "", "Event log backend: memory, file, or postgres")
	logLevel := flag.String("log-level", "", "Log level: debug, info, warn, error")
	flag.Parse()

	cfg := DefaultConfig()
	if *configPath != "" {
		loaded, err := LoadConfig(*configPath)
		if err != nil {
			logging.ErrorLog("failed to load config", logging.Error(err), logging.Path(*configPath))
			os.Exit(1)
		}
		cfg = loaded
	}

	// Flags override the file, environment overrides both.
	if *port != 0 {
		cfg.Port = *port
	}
	if envPort := os.Getenv("PORT"); envPort != "" {
		if p, err := strconv.Atoi(envPort); err == nil {
			cfg.Port = p
		}
	}
	if *catalog != "" {
		cfg.Catalog = *catalog
	}
	if *routingTable != "" {
		cfg.RoutingTable = *routingTable
	}
	if *backend != "" {
		cfg.EventLog.Backend = *backend
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}
	if envURL := os.Getenv("DATABASE_URL"); envURL != "" {
		cfg.EventLog.DatabaseURL = envURL
	}

	logger := logging.NewJSONLogger(os.Stdout, logging.ParseLevel(cfg.LogLevel))
	logging.SetDefaultLogger(logger)

	logger.Info("hookup server starting",
		logging.Int("port", cfg.Port),
		logging.String("event_log_backend", cfg.EventLog.Backend),
	)

	registry := buildRegistry(logger, cfg)
	table := buildRoutingTable(logger, cfg)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	log, err := openEventLog(ctx, cfg.EventLog)
	cancel()
	if err != nil {
		logger.Error("failed to open event log", logging.Error(err))
		os.Exit(1)
	}
	defer log.Close()

	engine := hookup.NewEngine(registry, log, table,
		hookup.WithLogger(logger),
		hookup.WithMetrics(metrics.DefaultRegistry()),
	)

	server := api.NewServer(engine, cfg.Port,
		api.WithLogger(logger),
		api.WithMetrics(metrics.DefaultRegistry()),
	)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		logger.Info("shutting down server")
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("shutdown error", logging.Error(err))
		}
	}()

	if err := server.Start(); err != nil {
		logger.Error("server error", logging.Error(err))
		os.Exit(1)
	}
	logger.Info("server exited")
}

func buildRegistry(logger logging.Logger, cfg Config) parts.Registry {
	if cfg.Catalog == "" {
		logger.Warn("no part catalog configured, starting with an empty registry")
		return parts.NewMemoryRegistry()
	}
	registry, err := parts.LoadCatalog(cfg.Catalog)
	if err != nil {
		logger.Error("failed to load part catalog", logging.Error(err), logging.Path(cfg.Catalog))
		os.Exit(1)
	}
	logger.Info("part catalog loaded", logging.Count(registry.Len()), logging.Path(cfg.Catalog))
	return registry
}

func buildRoutingTable(logger logging.Logger, cfg Config) routing.Table {
	if cfg.RoutingTable == "" {
		logger.Warn("no routing table configured, all chains will resolve as unrouted")
		return routing.NewMemoryTable()
	}
	table, err := routing.LoadTable(cfg.RoutingTable)
	if err != nil {
		logger.Error("failed to load routing table", logging.Error(err), logging.Path(cfg.RoutingTable))
		os.Exit(1)
	}
	logger.Info("routing table loaded", logging.Count(table.Len()), logging.Path(cfg.RoutingTable))
	return table
}

func openEventLog(ctx context.Context, cfg EventLogConfig) (eventlog.Log, error) {
	switch cfg.Backend {
	case "memory":
		return eventlog.NewMemoryLog(), nil
	case "postgres":
		return eventlog.NewPGLog(ctx, cfg.DatabaseURL)
	default:
		return eventlog.NewFileLog(cfg.Dir, eventlog.FileLogOptions{Compress: cfg.Compress})
	}
}
