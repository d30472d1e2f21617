package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hylla/choreboard/internal/app"
	"github.com/hylla/choreboard/internal/domain"
	_ "modernc.org/sqlite"
)

// driverName defines a package constant value.
const driverName = "sqlite"

// legacySource marks log rows copied from the pre-choreboard schema.
const legacySource = "legacy"

// Repository represents repository data used by this package.
type Repository struct {
	db *sql.DB
}

// Open opens the requested operation.
func Open(path string) (*Repository, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("sqlite path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create sqlite dir: %w", err)
	}
	db, err := sql.Open(driverName, path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	repo := &Repository{db: db}
	if err := repo.migrate(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return repo, nil
}

// OpenInMemory opens in memory.
func OpenInMemory() (*Repository, error) {
	db, err := sql.Open(driverName, ":memory:")
	if err != nil {
		return nil, fmt.Errorf("open sqlite memory: %w", err)
	}
	// Each pooled connection would get its own empty memory database.
	db.SetMaxOpenConns(1)
	repo := &Repository{db: db}
	if err := repo.migrate(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return repo, nil
}

// Close closes the requested operation.
func (r *Repository) Close() error {
	return r.db.Close()
}

// Ping reports whether the database is reachable.
func (r *Repository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// migrate handles migrate.
func (r *Repository) migrate(ctx context.Context) error {
	stmts := []string{
		`PRAGMA foreign_keys = ON;`,
		`CREATE TABLE IF NOT EXISTS chores (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			kid TEXT NOT NULL,
			title TEXT NOT NULL,
			sort_order INTEGER NOT NULL DEFAULT 0
		);`,
		`CREATE TABLE IF NOT EXISTS chore_log (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			chore_id INTEGER NOT NULL,
			day TEXT NOT NULL,
			status TEXT NOT NULL,
			updated_at TEXT NOT NULL DEFAULT '',
			UNIQUE(chore_id, day),
			FOREIGN KEY(chore_id) REFERENCES chores(id) ON DELETE CASCADE
		);`,
		`CREATE INDEX IF NOT EXISTS idx_chores_kid_sort ON chores(kid, sort_order);`,
		`CREATE INDEX IF NOT EXISTS idx_chore_log_day ON chore_log(day, chore_id);`,
	}
	for _, stmt := range stmts {
		if _, err := r.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate sqlite: %w", err)
		}
	}
	if _, err := r.db.ExecContext(ctx, `ALTER TABLE chore_log ADD COLUMN updated_by TEXT NOT NULL DEFAULT ''`); err != nil && !isDuplicateColumnErr(err) {
		return fmt.Errorf("migrate sqlite add chore_log.updated_by: %w", err)
	}
	return r.bridgeLegacyTaskTables(ctx)
}

// bridgeLegacyTaskTables copies rows from the older tasks/task_log schema into
// chores/chore_log when those tables exist in the same database.
func (r *Repository) bridgeLegacyTaskTables(ctx context.Context) error {
	var count int
	if err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM sqlite_master
		WHERE type = 'table' AND name IN ('tasks', 'task_log')
	`).Scan(&count); err != nil {
		return fmt.Errorf("inspect legacy tables: %w", err)
	}
	if count < 2 {
		return nil
	}
	// Idempotent: rows already bridged are skipped.
	if _, err := r.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO chores(id, kid, title, sort_order)
		SELECT t.id, t.kid, t.title, t.sort_order FROM tasks t
	`); err != nil {
		return fmt.Errorf("bridge legacy tasks: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO chore_log(chore_id, day, status, updated_at, updated_by)
		SELECT l.task_id, l.date, l.status, '', ?
		FROM task_log l
		WHERE EXISTS (SELECT 1 FROM chores c WHERE c.id = l.task_id)
	`, legacySource); err != nil {
		return fmt.Errorf("bridge legacy task_log: %w", err)
	}
	return nil
}

// CreateChore creates chore. A positive id replaces any existing row with that id.
func (r *Repository) CreateChore(ctx context.Context, c domain.Chore) (domain.Chore, error) {
	if c.ID > 0 {
		_, err := r.db.ExecContext(ctx, `
			INSERT INTO chores(id, kid, title, sort_order)
			VALUES (?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET kid = excluded.kid, title = excluded.title, sort_order = excluded.sort_order
		`, c.ID, c.Kid, c.Title, c.SortOrder)
		if err != nil {
			return domain.Chore{}, err
		}
		return c, nil
	}
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO chores(kid, title, sort_order)
		VALUES (?, ?, ?)
	`, c.Kid, c.Title, c.SortOrder)
	if err != nil {
		return domain.Chore{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return domain.Chore{}, fmt.Errorf("read chore id: %w", err)
	}
	c.ID = id
	return c, nil
}

// GetChore returns chore with a pending status.
func (r *Repository) GetChore(ctx context.Context, id int64) (domain.Chore, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, kid, title, sort_order, 'pending'
		FROM chores
		WHERE id = ?
	`, id)
	return scanChore(row)
}

// CountChores counts chores.
func (r *Repository) CountChores(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM chores`).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

// ListKids lists distinct chore owners in sorted order.
func (r *Repository) ListKids(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT DISTINCT kid FROM chores ORDER BY kid`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []string{}
	for rows.Next() {
		var kid string
		if err := rows.Scan(&kid); err != nil {
			return nil, err
		}
		out = append(out, kid)
	}
	return out, rows.Err()
}

// ListChoresForDay lists chores with the day's status, optionally for one kid.
func (r *Repository) ListChoresForDay(ctx context.Context, kid, day string) ([]domain.Chore, error) {
	query := `
		SELECT c.id, c.kid, c.title, c.sort_order, COALESCE(l.status, 'pending')
		FROM chores c
		LEFT JOIN chore_log l ON l.chore_id = c.id AND l.day = ?
	`
	args := []any{day}
	if kid != "" {
		query += ` WHERE c.kid = ?`
		args = append(args, kid)
	}
	query += ` ORDER BY c.kid, c.sort_order, c.id`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.Chore{}
	for rows.Next() {
		chore, err := scanChore(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, chore)
	}
	return out, rows.Err()
}

// UpsertStatus records entry, replacing the chore's row for the same day.
func (r *Repository) UpsertStatus(ctx context.Context, entry app.StatusEntry) error {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO chore_log(chore_id, day, status, updated_at, updated_by)
		SELECT id, ?, ?, ?, ? FROM chores WHERE id = ?
		ON CONFLICT(chore_id, day) DO UPDATE SET
			status = excluded.status,
			updated_at = excluded.updated_at,
			updated_by = excluded.updated_by
	`, entry.Day, string(entry.Status), ts(entry.UpdatedAt), entry.UpdatedBy, entry.ChoreID)
	if err != nil {
		return err
	}
	return translateNoRows(res)
}

// ListStatusEntries lists every recorded day status.
func (r *Repository) ListStatusEntries(ctx context.Context) ([]app.StatusEntry, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT chore_id, day, status, updated_at, updated_by
		FROM chore_log
		ORDER BY day ASC, chore_id ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []app.StatusEntry{}
	for rows.Next() {
		var (
			entry      app.StatusEntry
			statusRaw  string
			updatedRaw string
		)
		if err := rows.Scan(&entry.ChoreID, &entry.Day, &statusRaw, &updatedRaw, &entry.UpdatedBy); err != nil {
			return nil, err
		}
		entry.Status = normalizeStatus(statusRaw)
		entry.UpdatedAt = parseTS(updatedRaw)
		out = append(out, entry)
	}
	return out, rows.Err()
}

// scanner represents scanner data used by this package.
type scanner interface {
	Scan(dest ...any) error
}

// scanChore handles scan chore.
func scanChore(s scanner) (domain.Chore, error) {
	var (
		c         domain.Chore
		statusRaw string
	)
	if err := s.Scan(&c.ID, &c.Kid, &c.Title, &c.SortOrder, &statusRaw); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Chore{}, app.ErrNotFound
		}
		return domain.Chore{}, err
	}
	c.Status = normalizeStatus(statusRaw)
	return c, nil
}

// normalizeStatus maps stored text onto a known status; anything else reads as pending.
func normalizeStatus(raw string) domain.Status {
	status, err := domain.ParseStatus(raw)
	if err != nil {
		return domain.StatusPending
	}
	return status
}

// translateNoRows handles translate no rows.
func translateNoRows(res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return app.ErrNotFound
	}
	return nil
}

// ts handles ts.
func ts(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// parseTS parses input into a normalized form.
func parseTS(v string) time.Time {
	ts, err := time.Parse(time.RFC3339Nano, v)
	if err != nil {
		return time.Time{}
	}
	return ts.UTC()
}

// isDuplicateColumnErr reports whether the expected condition is satisfied.
func isDuplicateColumnErr(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(strings.ToLower(err.Error()), "duplicate column name")
}
