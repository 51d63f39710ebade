// Package storage keeps a history of generated salary reports in PostgreSQL.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/fr4nk3nst1ner/langsalary/internal/models"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/pterm/pterm"
)

// PostgresWriter stores report rows in PostgreSQL
type PostgresWriter struct {
	db     *sql.DB
	table  string
	logger *pterm.Logger
}

// NewPostgresWriter opens the database and pings it
func NewPostgresWriter(ctx context.Context, dsn, table string, logger *pterm.Logger) (*PostgresWriter, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open DB: %w", err)
	}

	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping DB: %w", err)
	}

	w := newPostgresWriter(db, table, logger)
	w.logger.Debug("connected to PostgreSQL", w.logger.Args("table", table))
	return w, nil
}

func newPostgresWriter(db *sql.DB, table string, logger *pterm.Logger) *PostgresWriter {
	if logger == nil {
		logger = pterm.DefaultLogger.WithLevel(pterm.LogLevelDisabled)
	}
	return &PostgresWriter{db: db, table: table, logger: logger}
}

// CreateTable creates the report table and its lookup index if they don't exist
func (w *PostgresWriter) CreateTable(ctx context.Context) error {
	query := fmt.Sprintf(`
	CREATE TABLE IF NOT EXISTS %[1]s (
		id             SERIAL PRIMARY KEY,
		run_id         UUID        NOT NULL,
		source         VARCHAR(32) NOT NULL,
		language       TEXT        NOT NULL,
		found          INTEGER     NOT NULL,
		processed      INTEGER     NOT NULL,
		average_salary INTEGER,
		low_sample     BOOLEAN     NOT NULL DEFAULT FALSE,
		generated_at   TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);

	CREATE INDEX IF NOT EXISTS %[2]s ON %[1]s (source, language, generated_at);
	`, pq.QuoteIdentifier(w.table), pq.QuoteIdentifier(w.table+"_source_language_idx"))

	if _, err := w.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("failed to create table: %w", err)
	}
	return nil
}

// SaveReport inserts every row of one source report in a single transaction.
// Unknown averages are stored as NULL.
func (w *PostgresWriter) SaveReport(ctx context.Context, runID uuid.UUID, report models.SourceReport) (err error) {
	if len(report.Rows) == 0 {
		return nil
	}

	tx, err := w.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	stmt, err := tx.PrepareContext(ctx, fmt.Sprintf(`
		INSERT INTO %s (run_id, source, language, found, processed, average_salary, low_sample, generated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, pq.QuoteIdentifier(w.table)))
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, row := range report.Rows {
		if _, err = stmt.ExecContext(ctx,
			runID,
			report.Source,
			row.Language,
			int64(row.Found),
			int64(row.Processed),
			nullableAverage(row.AverageSalary),
			row.LowSample,
			report.GeneratedAt,
		); err != nil {
			return fmt.Errorf("failed to insert %s/%s: %w", report.Source, row.Language, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	w.logger.Info("report stored", w.logger.Args("source", report.Source, "rows", len(report.Rows), "run_id", runID.String()))
	return nil
}

func nullableAverage(avg models.AverageSalary) sql.NullInt64 {
	return sql.NullInt64{Int64: int64(avg.Value), Valid: avg.Known}
}

// Close closes the database connection
func (w *PostgresWriter) Close() error {
	if w.db == nil {
		return nil
	}
	return w.db.Close()
}
