package ledger

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "modernc.org/sqlite"

	"github.com/joseph-ayodele/remitmatch/internal/entity"
)

// SQLiteStore serves searches from a local SQLite snapshot of the ledger
// (table open_invoices, see db/ent/schema). The full table is loaded through
// a TTL snapshot so search semantics match the other stores.
type SQLiteStore struct {
	snapshotSearcher
	db *sql.DB
}

func NewSQLiteStore(path string, ttl time.Duration, logger *slog.Logger) (*SQLiteStore, error) {
	if logger == nil {
		logger = slog.Default()
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite ledger: %w", err)
	}
	st := &SQLiteStore{db: db}
	st.snap = NewSnapshot(st.loadAll, ttl, logger)
	return st, nil
}

func (s *SQLiteStore) Close() error { return s.db.Close() }

func (s *SQLiteStore) loadAll(ctx context.Context) ([]entity.InvoiceCandidate, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT invoice_id, invoice_number, customer_name, amount,
		       COALESCE(due_date, ''), COALESCE(subsidiary, ''),
		       COALESCE(memo, ''), COALESCE(status, '')
		FROM open_invoices`)
	if err != nil {
		return nil, fmt.Errorf("query open_invoices: %w", err)
	}
	defer rows.Close()

	var invoices []entity.InvoiceCandidate
	for rows.Next() {
		var inv entity.InvoiceCandidate
		if err := rows.Scan(&inv.InvoiceID, &inv.InvoiceNumber, &inv.CustomerName,
			&inv.Amount, &inv.DueDate, &inv.Subsidiary, &inv.Memo, &inv.Status); err != nil {
			return nil, fmt.Errorf("scan invoice row: %w", err)
		}
		invoices = append(invoices, inv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate invoice rows: %w", err)
	}
	return invoices, nil
}
