package storage

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq"

	"deeplynx-stats/models"
)

// PostgresWriter persists composed reports to PostgreSQL: one run-summary row
// plus one row per lot detail, linked by run id. Nullable metric columns
// mirror the absent-vs-zero distinction of the report.
type PostgresWriter struct {
	db *sql.DB
}

// NewPostgresWriter opens a connection to PostgreSQL, runs schema migrations,
// and returns a ready-to-use PostgresWriter.
func NewPostgresWriter(dsn string) (*PostgresWriter, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}

	for i := 0; i < 10; i++ {
		if err = db.Ping(); err == nil {
			break
		}
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		return nil, fmt.Errorf("postgres: ping failed after retries: %w", err)
	}

	pw := &PostgresWriter{db: db}
	if err := pw.migrate(); err != nil {
		return nil, fmt.Errorf("postgres: migrate: %w", err)
	}

	return pw, nil
}

func (pw *PostgresWriter) migrate() error {
	_, err := pw.db.Exec(`
		CREATE TABLE IF NOT EXISTS report_runs (
			id               SERIAL PRIMARY KEY,
			products         INT NOT NULL,
			lots_total       INT NOT NULL,
			lots_with_values INT NOT NULL,
			has_d_avg        NUMERIC,
			has_etc_avg      NUMERIC,
			has_b_avg        NUMERIC,
			has_euc_avg      NUMERIC,
			created_at       TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);

		CREATE TABLE IF NOT EXISTS lot_details (
			id      SERIAL PRIMARY KEY,
			run_id  INT NOT NULL REFERENCES report_runs(id) ON DELETE CASCADE,
			lot_id  TEXT NOT NULL,
			has_etc NUMERIC,
			has_b   NUMERIC,
			has_euc NUMERIC
		);

		CREATE INDEX IF NOT EXISTS idx_lot_details_run_id ON lot_details(run_id);
		CREATE INDEX IF NOT EXISTS idx_lot_details_lot_id ON lot_details(lot_id);
	`)
	return err
}

// Write stores the report as one run row plus its lot detail rows.
func (pw *PostgresWriter) Write(report *models.Report) error {
	var runID int64
	err := pw.db.QueryRow(`
		INSERT INTO report_runs
			(products, lots_total, lots_with_values, has_d_avg, has_etc_avg, has_b_avg, has_euc_avg)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`,
		report.Products,
		report.Lots.Total,
		report.Lots.WithValues,
		report.ProductAverages.Magnitude,
		report.LotAverages.Etc,
		report.LotAverages.B,
		report.LotAverages.EuC,
	).Scan(&runID)
	if err != nil {
		return fmt.Errorf("postgres: insert run: %w", err)
	}

	const batchSize = 50
	details := report.LotDetails
	for i := 0; i < len(details); i += batchSize {
		end := i + batchSize
		if end > len(details) {
			end = len(details)
		}
		if err := pw.insertBatch(runID, details[i:end]); err != nil {
			return err
		}
	}
	return nil
}

func (pw *PostgresWriter) insertBatch(runID int64, batch []models.LotDetail) error {
	valueStrings := make([]string, 0, len(batch))
	valueArgs := make([]interface{}, 0, len(batch)*5)

	for idx, d := range batch {
		base := idx * 5
		valueStrings = append(valueStrings,
			fmt.Sprintf("($%d,$%d,$%d,$%d,$%d)",
				base+1, base+2, base+3, base+4, base+5))
		valueArgs = append(valueArgs, runID, d.LotID, d.Etc, d.B, d.EuC)
	}

	query := fmt.Sprintf(`
		INSERT INTO lot_details (run_id, lot_id, has_etc, has_b, has_euc)
		VALUES %s
	`, strings.Join(valueStrings, ","))

	_, err := pw.db.Exec(query, valueArgs...)
	if err != nil {
		return fmt.Errorf("postgres: insert lot details: %w", err)
	}
	return nil
}

// RunCount returns the number of stored report runs — used for the closing
// summary line.
func (pw *PostgresWriter) RunCount() (int, error) {
	var n int
	if err := pw.db.QueryRow(`SELECT COUNT(*) FROM report_runs`).Scan(&n); err != nil {
		return 0, fmt.Errorf("postgres: count runs: %w", err)
	}
	return n, nil
}

func (pw *PostgresWriter) Close() error {
	return pw.db.Close()
}
