package storage

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"

	"daraz-scraper/models"
	"daraz-scraper/utils"
)

// PostgresWriter persists normalized batches to PostgreSQL. The whole batch
// rides one transaction: either every row commits or none do.
type PostgresWriter struct {
	db     *sql.DB
	logger *utils.Logger
}

// NewPostgresWriter opens a connection to PostgreSQL and waits for it to
// become reachable.
func NewPostgresWriter(dsn string, logger *utils.Logger) (*PostgresWriter, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}

	if err := utils.Retry("postgres-ping", 10, 2*time.Second, logger, db.Ping); err != nil {
		return nil, fmt.Errorf("postgres: %w", err)
	}

	return &PostgresWriter{db: db, logger: logger}, nil
}

// Load creates the table if absent with the batch's inferred schema and
// inserts every record with positional binds. Column order is identical
// between the create statement and the insert statement. Any row failure
// rolls the whole batch back. Returns the number of rows committed.
func (pw *PostgresWriter) Load(records []*models.NormalizedRecord, table string) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}

	schema := InferSchema(records)

	defs := make([]string, 0, len(schema))
	names := make([]string, 0, len(schema))
	binds := make([]string, 0, len(schema))
	for i, col := range schema {
		defs = append(defs, fmt.Sprintf("%s %s", pq.QuoteIdentifier(col.Name), col.SQLType))
		names = append(names, pq.QuoteIdentifier(col.Name))
		binds = append(binds, fmt.Sprintf("$%d", i+1))
	}

	createSQL := fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)",
		pq.QuoteIdentifier(table), strings.Join(defs, ", "))
	if _, err := pw.db.Exec(createSQL); err != nil {
		return 0, fmt.Errorf("load: create table: %w", err)
	}

	tx, err := pw.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("load: begin: %w", err)
	}

	insertSQL := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		pq.QuoteIdentifier(table), strings.Join(names, ", "), strings.Join(binds, ", "))
	stmt, err := tx.Prepare(insertSQL)
	if err != nil {
		_ = tx.Rollback()
		return 0, fmt.Errorf("load: prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, rec := range records {
		if _, err := stmt.Exec(RowValues(rec)...); err != nil {
			_ = tx.Rollback()
			return 0, fmt.Errorf("load: insert row %q: %w", rec.URL, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("load: commit: %w", err)
	}

	pw.logger.Info("[postgres] Committed %d rows to %s", len(records), table)
	return len(records), nil
}

// ValidationCounts reports the sink table's total row count and distinct
// product_id count.
func (pw *PostgresWriter) ValidationCounts(table string) (total, unique int, err error) {
	query := fmt.Sprintf(
		"SELECT COUNT(*), COUNT(DISTINCT product_id) FROM %s", pq.QuoteIdentifier(table))
	if err := pw.db.QueryRow(query).Scan(&total, &unique); err != nil {
		return 0, 0, fmt.Errorf("postgres: validation counts: %w", err)
	}
	return total, unique, nil
}

// Close releases the database connection.
func (pw *PostgresWriter) Close() error {
	return pw.db.Close()
}
