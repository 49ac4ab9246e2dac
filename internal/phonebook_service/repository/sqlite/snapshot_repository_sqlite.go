package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/aradsms/assistant/internal/phonebook_service/domain"
	"github.com/aradsms/assistant/internal/platform/database"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS snapshots (
		id       TEXT PRIMARY KEY,
		saved_at TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS contacts (
		position INTEGER PRIMARY KEY,
		name     TEXT NOT NULL UNIQUE,
		birthday TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS phones (
		contact_position INTEGER NOT NULL REFERENCES contacts(position) ON DELETE CASCADE,
		position         INTEGER NOT NULL,
		number           TEXT NOT NULL,
		PRIMARY KEY (contact_position, position)
	)`,
}

// SnapshotRepository keeps directory snapshots in SQLite database files.
// Each Save rewrites the whole file inside one transaction.
type SnapshotRepository struct {
	logger *slog.Logger
	now    func() time.Time
}

func NewSnapshotRepository(logger *slog.Logger) *SnapshotRepository {
	return &SnapshotRepository{logger: logger, now: time.Now}
}

var _ domain.SnapshotStore = (*SnapshotRepository)(nil)

func (r *SnapshotRepository) Save(ctx context.Context, path string, records []*domain.Record) (domain.SnapshotInfo, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return domain.SnapshotInfo{}, fmt.Errorf("%w: create directory for %s: %w", domain.ErrSnapshotIO, path, err)
	}
	db, err := database.NewSQLiteDB(ctx, path)
	if err != nil {
		return domain.SnapshotInfo{}, fmt.Errorf("%w: open %s: %w", domain.ErrSnapshotIO, path, err)
	}
	defer db.Close()

	info := domain.SnapshotInfo{ID: uuid.New(), SavedAt: r.now().UTC(), Records: len(records)}
	if err := r.write(ctx, db, info, records); err != nil {
		r.logger.ErrorContext(ctx, "Error writing sqlite snapshot", "error", err, "path", path)
		return domain.SnapshotInfo{}, fmt.Errorf("%w: write %s: %w", domain.ErrSnapshotIO, path, err)
	}
	r.logger.DebugContext(ctx, "Snapshot written", "path", path, "snapshot_id", info.ID, "records", info.Records, "format", "sqlite")
	return info, nil
}

func (r *SnapshotRepository) write(ctx context.Context, db *sql.DB, info domain.SnapshotInfo, records []*domain.Record) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, stmt := range schema {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("create schema: %w", err)
		}
	}
	for _, stmt := range []string{`DELETE FROM phones`, `DELETE FROM contacts`, `DELETE FROM snapshots`} {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO snapshots (id, saved_at) VALUES (?, ?)`,
		info.ID.String(), info.SavedAt.Format(time.RFC3339Nano),
	); err != nil {
		return err
	}

	for i, rec := range records {
		var birthday sql.NullString
		if !rec.Birthday.IsZero() {
			birthday = sql.NullString{String: rec.Birthday.String(), Valid: true}
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO contacts (position, name, birthday) VALUES (?, ?, ?)`,
			i, rec.Name, birthday,
		); err != nil {
			return fmt.Errorf("insert contact %q: %w", rec.Name, err)
		}
		for j, p := range rec.Phones {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO phones (contact_position, position, number) VALUES (?, ?, ?)`,
				i, j, p,
			); err != nil {
				return fmt.Errorf("insert phone for %q: %w", rec.Name, err)
			}
		}
	}
	return tx.Commit()
}

func (r *SnapshotRepository) Load(ctx context.Context, path string) ([]*domain.Record, domain.SnapshotInfo, error) {
	// Opening would create an empty database file.
	if _, err := os.Stat(path); err != nil {
		return nil, domain.SnapshotInfo{}, fmt.Errorf("%w: stat %s: %w", domain.ErrSnapshotIO, path, err)
	}
	db, err := database.NewSQLiteDB(ctx, path)
	if err != nil {
		return nil, domain.SnapshotInfo{}, fmt.Errorf("%w: open %s: %w", domain.ErrCorruptSnapshot, path, err)
	}
	defer db.Close()

	records, info, err := r.read(ctx, db)
	if err != nil {
		return nil, domain.SnapshotInfo{}, fmt.Errorf("%w: read %s: %w", domain.ErrCorruptSnapshot, path, err)
	}
	r.logger.DebugContext(ctx, "Snapshot read", "path", path, "snapshot_id", info.ID, "records", info.Records)
	return records, info, nil
}

func (r *SnapshotRepository) read(ctx context.Context, db *sql.DB) ([]*domain.Record, domain.SnapshotInfo, error) {
	var info domain.SnapshotInfo
	var id, savedAt string
	err := db.QueryRowContext(ctx, `SELECT id, saved_at FROM snapshots LIMIT 1`).Scan(&id, &savedAt)
	if err != nil {
		return nil, info, fmt.Errorf("snapshot header: %w", err)
	}
	if info.ID, err = uuid.Parse(id); err != nil {
		return nil, info, fmt.Errorf("snapshot id %q: %w", id, err)
	}
	if info.SavedAt, err = time.Parse(time.RFC3339Nano, savedAt); err != nil {
		return nil, info, fmt.Errorf("snapshot time %q: %w", savedAt, err)
	}

	rows, err := db.QueryContext(ctx, `
		SELECT c.position, c.name, c.birthday, p.number
		FROM contacts c
		LEFT JOIN phones p ON p.contact_position = c.position
		ORDER BY c.position, p.position
	`)
	if err != nil {
		return nil, info, err
	}
	defer rows.Close()

	var records []*domain.Record
	lastPosition := -1
	for rows.Next() {
		var (
			position int
			name     string
			birthday sql.NullString
			number   sql.NullString
		)
		if err := rows.Scan(&position, &name, &birthday, &number); err != nil {
			return nil, info, err
		}
		if position != lastPosition {
			rec, err := domain.NewRecord(name, birthday.String)
			if err != nil {
				return nil, info, fmt.Errorf("contact %q: %w", name, err)
			}
			records = append(records, rec)
			lastPosition = position
		}
		if number.Valid {
			if err := records[len(records)-1].AddPhone(number.String); err != nil {
				return nil, info, fmt.Errorf("contact %q: %w", name, err)
			}
		}
	}
	if err := rows.Err(); err != nil {
		return nil, info, err
	}
	info.Records = len(records)
	return records, info, nil
}
