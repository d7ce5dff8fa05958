package main

import (
	"context"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"github.com/joseph-ayodele/remitmatch/internal/async"
	"github.com/joseph-ayodele/remitmatch/internal/common"
	"github.com/joseph-ayodele/remitmatch/internal/ingest"
	"github.com/joseph-ayodele/remitmatch/internal/ledger"
	"github.com/joseph-ayodele/remitmatch/internal/recon"
	"github.com/joseph-ayodele/remitmatch/internal/vision"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	if cfg.Vision.APIKey == "" {
		logger.Error("OPENAI_API_KEY env var is required")
		os.Exit(2)
	}
	if cfg.Server.InboxDir == "" {
		logger.Error("INBOX_DIR env var is required")
		os.Exit(2)
	}
	addr := cfg.Server.GRPCAddr
	if !strings.HasPrefix(addr, ":") && !strings.Contains(addr, ":") {
		addr = ":" + addr
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	searcher, cleanup, err := buildLedger(ctx, cfg.Ledger, logger)
	if err != nil {
		logger.Error("failed to open ledger", "error", err)
		os.Exit(1)
	}
	defer cleanup()

	extractor := vision.NewOpenAIExtractor(cfg.Vision, logger)
	processor := recon.NewProcessor(searcher, cfg.Match, logger)
	pipe := ingest.NewPipeline(extractor, processor, cfg.Vision.Structured, logger)

	queue := async.NewReconQueue(pipe, logger,
		async.WithWorkers(cfg.Server.Workers),
		async.WithQueueSize(512),
		async.WithProcessTimeout(3*time.Minute),
	)

	events, watchErrs, err := ingest.StartWatcher(ctx, ingest.WatchConfig{
		Roots:       []string{cfg.Server.InboxDir},
		InitialScan: true,
		Debounce:    500 * time.Millisecond,
	})
	if err != nil {
		logger.Error("failed to start inbox watcher", "inbox", cfg.Server.InboxDir, "error", err)
		os.Exit(1)
	}
	go func() {
		for path := range events {
			_ = queue.Enqueue(ctx, async.Job{
				ID:          uuid.New(),
				Path:        path,
				Kind:        ingest.KindFromPath(path),
				SubmittedAt: time.Now(),
			})
		}
	}()
	go func() {
		for err := range watchErrs {
			logger.Error("inbox watcher error", "error", err)
		}
	}()

	// gRPC health endpoint for orchestration probes.
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		logger.Error("failed to listen on address", "addr", addr, "error", err)
		os.Exit(1)
	}
	grpcServer := grpc.NewServer()
	healthServer := health.NewServer()
	grpc_health_v1.RegisterHealthServer(grpcServer, healthServer)
	healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)
	reflection.Register(grpcServer)

	logger.Info("remitd listening", "addr", addr, "inbox", cfg.Server.InboxDir)
	go func() {
		if err := grpcServer.Serve(lis); err != nil {
			slog.Error("gRPC serve error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	queue.Shutdown(context.Background())
	grpcServer.GracefulStop()
}

// buildLedger opens the first configured ledger backend: CSV, then SQLite,
// then Postgres.
func buildLedger(ctx context.Context, cfg common.LedgerConfig, logger *slog.Logger) (ledger.Searcher, func(), error) {
	switch {
	case cfg.CSVPath != "":
		store, err := ledger.NewCSVStore(cfg.CSVPath, logger)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("ledger.backend", "kind", "csv", "path", cfg.CSVPath)
		return store, func() {}, nil

	case cfg.SQLitePath != "":
		store, err := ledger.NewSQLiteStore(cfg.SQLitePath, cfg.CacheTTL, logger)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("ledger.backend", "kind", "sqlite", "path", cfg.SQLitePath)
		return store, func() { _ = store.Close() }, nil

	default:
		store, err := ledger.NewPostgresStore(ctx, cfg, logger)
		if err != nil {
			return nil, nil, err
		}
		if err := store.HealthCheck(ctx, 5*time.Second); err != nil {
			store.Close()
			return nil, nil, err
		}
		logger.Info("ledger.backend", "kind", "postgres")
		return store, store.Close, nil
	}
}
