package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"fintrack/internal/core"

	_ "modernc.org/sqlite"
)

// SQLiteArchive is the durable mirror the archive worker writes resolved
// transactions into. The JSON document stays authoritative; the archive is
// queryable history that survives document corruption.
type SQLiteArchive struct {
	db *sql.DB
}

// NewSQLiteArchive opens (creating if needed) the archive database and runs
// pending migrations.
func NewSQLiteArchive(dbPath string) (*SQLiteArchive, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteArchive{db: db}, nil
}

func (a *SQLiteArchive) Close() error {
	if a.db != nil {
		return a.db.Close()
	}
	return nil
}

// Upsert inserts or replaces one resolved transaction.
func (a *SQLiteArchive) Upsert(ctx context.Context, t core.ResolvedTransaction) error {
	_, err := a.db.ExecContext(ctx, `
		INSERT INTO transactions (id, type, category_id, category, amount, date, description)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			type = excluded.type,
			category_id = excluded.category_id,
			category = excluded.category,
			amount = excluded.amount,
			date = excluded.date,
			description = excluded.description,
			archived_at = datetime('now')`,
		t.ID, t.Type, t.CategoryID, t.Category, t.Amount, t.Date, t.Description)
	if err != nil {
		return fmt.Errorf("upsert transaction %d: %w", t.ID, err)
	}
	return nil
}

// Delete removes a transaction row. Deleting an id that was never archived
// is not an error.
func (a *SQLiteArchive) Delete(ctx context.Context, id int64) error {
	if _, err := a.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete transaction %d: %w", id, err)
	}
	return nil
}

// ListIDs returns every archived transaction id, used by the reconciliation
// pass to drop rows whose source record no longer exists.
func (a *SQLiteArchive) ListIDs(ctx context.Context) ([]int64, error) {
	rows, err := a.db.QueryContext(ctx, `SELECT id FROM transactions`)
	if err != nil {
		return nil, fmt.Errorf("list archived ids: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan archived id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate archived ids: %w", err)
	}
	return ids, nil
}

// Count returns the number of archived transactions.
func (a *SQLiteArchive) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := a.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM transactions`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count archived transactions: %w", err)
	}
	return n, nil
}
