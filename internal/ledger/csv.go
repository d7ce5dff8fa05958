package ledger

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joseph-ayodele/remitmatch/internal/entity"
)

// CSVStore searches a flat export of open invoices. The whole file is loaded
// into an Index at construction; search operations never touch the disk.
type CSVStore struct {
	index  *Index
	logger *slog.Logger
}

// NewCSVStore loads the ledger export at path. Expected columns:
// "Invoice Number", "Name", "Amount", "Due Date", "Status", "Date Created",
// "Account", optionally "Memo". Unknown columns are ignored.
func NewCSVStore(path string, logger *slog.Logger) (*CSVStore, error) {
	if logger == nil {
		logger = slog.Default()
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open ledger csv: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			logger.Warn("ledger.csv.close", "error", cerr)
		}
	}()

	invoices, err := readInvoiceCSV(f)
	if err != nil {
		return nil, fmt.Errorf("read ledger csv %s: %w", path, err)
	}
	logger.Info("ledger.csv.loaded", "path", path, "invoices", len(invoices))
	return &CSVStore{index: NewIndex(invoices), logger: logger}, nil
}

func readInvoiceCSV(r io.Reader) ([]entity.InvoiceCandidate, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	col := make(map[string]int, len(header))
	for i, h := range header {
		col[strings.TrimSpace(h)] = i
	}

	get := func(row []string, name string) string {
		i, okCol := col[name]
		if !okCol || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	var invoices []entity.InvoiceCandidate
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}

		// Ledger exports sometimes label numbers "Invoice #NNN"; strip the
		// label once at load time so every comparison sees the bare number.
		num := get(row, "Invoice Number")
		num = strings.TrimSpace(strings.TrimPrefix(num, "Invoice #"))

		amount := 0.0
		if s := get(row, "Amount"); s != "" {
			if a, perr := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64); perr == nil {
				amount = a
			}
		}

		invoices = append(invoices, entity.InvoiceCandidate{
			InvoiceID:     num, // flat files carry no separate id
			InvoiceNumber: num,
			CustomerName:  get(row, "Name"),
			Amount:        amount,
			DueDate:       get(row, "Due Date"),
			Status:        get(row, "Status"),
			DateCreated:   get(row, "Date Created"),
			Account:       get(row, "Account"),
			Memo:          get(row, "Memo"),
		})
	}
	return invoices, nil
}

func (s *CSVStore) SearchByNumber(_ context.Context, query string, limit int) SearchResult {
	return ok(s.index.ByNumber(query, limit))
}

func (s *CSVStore) SearchByCustomer(_ context.Context, name string, limit int) SearchResult {
	return ok(s.index.ByCustomer(name, limit))
}

func (s *CSVStore) SearchByAmount(_ context.Context, amount, tolerance float64, limit int) SearchResult {
	return ok(s.index.ByAmount(amount, tolerance, limit))
}
