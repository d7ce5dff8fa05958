package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/joseph-ayodele/remitmatch/internal/common"
	"github.com/joseph-ayodele/remitmatch/internal/entity"
)

// PostgresStore serves searches from a shared Postgres ledger. Like the
// remote-system original it pulls a full open-invoice snapshot and refreshes
// it on a TTL rather than querying per search.
type PostgresStore struct {
	snapshotSearcher
	pool *pgxpool.Pool
}

// NewPostgresStore connects a pgx pool and wires it into a TTL snapshot.
func NewPostgresStore(ctx context.Context, cfg common.LedgerConfig, logger *slog.Logger) (*PostgresStore, error) {
	if logger == nil {
		logger = slog.Default()
	}
	pc, err := pgxpool.ParseConfig(cfg.PostgresDSN)
	if err != nil {
		return nil, fmt.Errorf("parse ledger dsn: %w", err)
	}
	pc.MaxConns = cfg.MaxConns
	pc.MinConns = cfg.MinConns
	pc.MaxConnLifetime = cfg.MaxConnLifetime
	pc.MaxConnIdleTime = cfg.MaxConnIdleTime
	pc.ConnConfig.RuntimeParams["application_name"] = "remitmatch"

	dialCtx := ctx
	if cfg.DialTimeout > 0 {
		var cancel context.CancelFunc
		dialCtx, cancel = context.WithTimeout(ctx, cfg.DialTimeout)
		defer cancel()
	}
	pool, err := pgxpool.NewWithConfig(dialCtx, pc)
	if err != nil {
		return nil, fmt.Errorf("connect ledger db: %w", err)
	}

	st := &PostgresStore{pool: pool}
	st.snap = NewSnapshot(st.loadAll, cfg.CacheTTL, logger).
		WithEnrichment(st.enrichOne, cfg.EnrichWorkers)
	return st, nil
}

func (s *PostgresStore) Close() { s.pool.Close() }

// HealthCheck pings the pool to catch DSN issues early.
func (s *PostgresStore) HealthCheck(ctx context.Context, timeout time.Duration) error {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	return s.pool.Ping(ctx)
}

// loadAll pulls the open-invoice skeleton (ids, numbers, dates). Detail
// fields arrive through the snapshot's enrichment fan-out so a large ledger
// refresh is bounded by the worker count, not one wide scan.
func (s *PostgresStore) loadAll(ctx context.Context) ([]entity.InvoiceCandidate, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT invoice_id, invoice_number,
		       COALESCE(due_date, ''), COALESCE(status, '')
		FROM open_invoices
		WHERE amount > 0`)
	if err != nil {
		return nil, fmt.Errorf("query open_invoices: %w", err)
	}
	defer rows.Close()

	var invoices []entity.InvoiceCandidate
	for rows.Next() {
		var inv entity.InvoiceCandidate
		if err := rows.Scan(&inv.InvoiceID, &inv.InvoiceNumber,
			&inv.DueDate, &inv.Status); err != nil {
			return nil, fmt.Errorf("scan invoice row: %w", err)
		}
		invoices = append(invoices, inv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate invoice rows: %w", err)
	}
	return invoices, nil
}

// enrichOne fills in the amount-remaining and customer detail for one
// candidate. A failed fetch leaves the row amount-less, which keeps it out of
// amount search but still number-searchable.
func (s *PostgresStore) enrichOne(ctx context.Context, inv *entity.InvoiceCandidate) error {
	row := s.pool.QueryRow(ctx, `
		SELECT customer_name, amount,
		       COALESCE(subsidiary, ''), COALESCE(memo, '')
		FROM open_invoices
		WHERE invoice_id = $1`, inv.InvoiceID)
	if err := row.Scan(&inv.CustomerName, &inv.Amount, &inv.Subsidiary, &inv.Memo); err != nil {
		return fmt.Errorf("enrich invoice %s: %w", inv.InvoiceID, err)
	}
	return nil
}
