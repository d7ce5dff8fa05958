package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/joseph-ayodele/remitmatch/constants"
	"github.com/joseph-ayodele/remitmatch/internal/common"
	"github.com/joseph-ayodele/remitmatch/internal/export"
	"github.com/joseph-ayodele/remitmatch/internal/ledger"
	"github.com/joseph-ayodele/remitmatch/internal/recon"
)

// recon-batch reconciles pre-transcribed documents (.txt, one per page or per
// document) against an invoice ledger and prints the results as JSON. With
// -lockbox the input files are treated as ordered pages of one lockbox scan.
func main() {
	var (
		csvPath    = flag.String("ledger", "", "path to the open-invoice CSV ledger")
		sqlitePath = flag.String("sqlite", "", "path to the open-invoice SQLite ledger")
		inputDir   = flag.String("input", "", "directory of .txt transcriptions")
		kindFlag   = flag.String("kind", "CHECK", "document kind: CHECK or REMITTANCE")
		lockbox    = flag.Bool("lockbox", false, "treat input files as ordered pages of one lockbox scan")
		xlsxOut    = flag.String("xlsx", "", "optional path for an XLSX reconciliation report")
		workers    = flag.Int("workers", 8, "concurrent documents in batch mode")
	)
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if *inputDir == "" {
		logger.Error("missing -input directory")
		os.Exit(2)
	}
	if *csvPath == "" && *sqlitePath == "" {
		logger.Error("missing ledger: pass -ledger or -sqlite")
		os.Exit(2)
	}
	kind := constants.DocumentKind(strings.ToUpper(*kindFlag))
	if kind != constants.KindCheck && kind != constants.KindRemittance {
		logger.Error("invalid -kind, want CHECK or REMITTANCE", "kind", *kindFlag)
		os.Exit(2)
	}

	ctx := context.Background()

	searcher, cleanup, err := openLedger(*csvPath, *sqlitePath, logger)
	if err != nil {
		logger.Error("failed to open ledger", "error", err)
		os.Exit(1)
	}
	defer cleanup()

	names, texts, err := readTranscriptions(*inputDir)
	if err != nil {
		logger.Error("failed to read input", "dir", *inputDir, "error", err)
		os.Exit(1)
	}
	if len(texts) == 0 {
		logger.Error("no .txt transcriptions found", "dir", *inputDir)
		os.Exit(1)
	}

	processor := recon.NewProcessor(searcher, common.MatchConfig{
		MaxResults:      10,
		AmountTolerance: 0.01,
	}, logger)

	start := time.Now()
	var groups []recon.GroupResult
	if *lockbox {
		groups = processor.ProcessLockbox(ctx, texts)
	} else {
		items := make([]recon.BatchItem, len(texts))
		for i := range texts {
			items[i] = recon.BatchItem{Name: names[i], RawText: texts[i], Kind: kind}
		}
		for _, br := range processor.ProcessBatch(ctx, items, *workers) {
			groups = append(groups, recon.GroupResult{
				CheckNumber: br.Result.Record.CheckNumber,
				Record:      br.Result.Record,
				Matches:     br.Result.Matches,
				Status:      br.Result.Status,
			})
		}
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(groups); err != nil {
		logger.Error("failed to encode results", "error", err)
		os.Exit(1)
	}

	if *xlsxOut != "" {
		data, err := export.NewService(logger).ReconciliationXLSX(groups)
		if err != nil {
			logger.Error("failed to build XLSX report", "error", err)
			os.Exit(1)
		}
		if err := os.WriteFile(*xlsxOut, data, 0o644); err != nil {
			logger.Error("failed to write XLSX report", "path", *xlsxOut, "error", err)
			os.Exit(1)
		}
		logger.Info("report written", "path", *xlsxOut)
	}

	logger.Info("batch complete",
		"documents", len(texts),
		"groups", len(groups),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
}

func openLedger(csvPath, sqlitePath string, logger *slog.Logger) (ledger.Searcher, func(), error) {
	switch {
	case csvPath != "":
		store, err := ledger.NewCSVStore(csvPath, logger)
		if err != nil {
			return nil, nil, err
		}
		return store, func() {}, nil
	case sqlitePath != "":
		store, err := ledger.NewSQLiteStore(sqlitePath, time.Hour, logger)
		if err != nil {
			return nil, nil, err
		}
		return store, func() { _ = store.Close() }, nil
	default:
		return nil, nil, errors.New("no ledger path given")
	}
}

// readTranscriptions loads every .txt file in dir, sorted by filename so page
// order follows naming order.
func readTranscriptions(dir string) ([]string, []string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, nil, err
	}
	var files []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(strings.ToLower(e.Name()), ".txt") {
			files = append(files, e.Name())
		}
	}
	sort.Strings(files)

	names := make([]string, 0, len(files))
	texts := make([]string, 0, len(files))
	for _, name := range files {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, nil, err
		}
		names = append(names, name)
		texts = append(texts, string(data))
	}
	return names, texts, nil
}
