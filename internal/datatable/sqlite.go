package datatable

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// Store archives converted tables in a SQLite database. Each conversion run
// is kept under its own run ID; readers usually want the latest one.
type Store struct {
	db *sql.DB
}

// Open creates or opens the archive at path, creating parent directories and
// the schema as needed.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("datatable: cannot create directory %s: %w", dir, err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("datatable: cannot open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("datatable: cannot connect to database: %w", err)
	}
	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("datatable: migration failed: %w", err)
	}
	return s, nil
}

func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS runs (
			seq INTEGER PRIMARY KEY AUTOINCREMENT,
			id TEXT NOT NULL UNIQUE,
			src TEXT NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE IF NOT EXISTS records (
			run_id TEXT NOT NULL,
			sheet TEXT NOT NULL,
			workbook TEXT NOT NULL,
			row INTEGER NOT NULL,
			data TEXT NOT NULL,
			PRIMARY KEY (run_id, sheet, row)
		);
		CREATE INDEX IF NOT EXISTS idx_records_sheet ON records(sheet);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveRun stores every table of one conversion run in a single transaction.
// A sheet repeated across workbooks keeps only the last copy, matching the
// JSON output.
func (s *Store) SaveRun(ctx context.Context, runID, src string, tables []Table) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("datatable: cannot begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "INSERT INTO runs (id, src) VALUES (?, ?)", runID, src); err != nil {
		return fmt.Errorf("datatable: cannot save run: %w", err)
	}
	for _, t := range tables {
		if _, err := tx.ExecContext(ctx, "DELETE FROM records WHERE run_id = ? AND sheet = ?", runID, t.Sheet); err != nil {
			return fmt.Errorf("datatable: cannot replace sheet %s: %w", t.Sheet, err)
		}
		for i, rec := range t.Records {
			data, err := json.Marshal(rec)
			if err != nil {
				return fmt.Errorf("datatable: cannot encode sheet %s: %w", t.Sheet, err)
			}
			if _, err := tx.ExecContext(ctx,
				"INSERT INTO records (run_id, sheet, workbook, row, data) VALUES (?, ?, ?, ?, ?)",
				runID, t.Sheet, t.Workbook, i, string(data),
			); err != nil {
				return fmt.Errorf("datatable: cannot save record: %w", err)
			}
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("datatable: cannot commit run: %w", err)
	}
	return nil
}

// LatestRun returns the ID of the most recent run, or "" if none is stored.
func (s *Store) LatestRun(ctx context.Context) (string, error) {
	var id string
	err := s.db.QueryRowContext(ctx, "SELECT id FROM runs ORDER BY seq DESC LIMIT 1").Scan(&id)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("datatable: cannot query runs: %w", err)
	}
	return id, nil
}

// Records returns the rows of sheet stored by run, in sheet order.
func (s *Store) Records(ctx context.Context, runID, sheet string) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT data
		 FROM records
		 WHERE run_id = ? AND sheet = ?
		 ORDER BY row`,
		runID, sheet,
	)
	if err != nil {
		return nil, fmt.Errorf("datatable: cannot query records: %w", err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("datatable: cannot scan row: %w", err)
		}
		var rec Record
		if err := json.Unmarshal([]byte(data), &rec); err != nil {
			return nil, fmt.Errorf("datatable: corrupt record in %s: %w", sheet, err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("datatable: row iteration error: %w", err)
	}
	return out, nil
}
