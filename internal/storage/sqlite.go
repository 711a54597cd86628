package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	_ "modernc.org/sqlite" // SQLite driver registration.

	"qrscan_bot/internal/model"
	"qrscan_bot/migrations"
)

// SQLite implements Storage backed by a SQLite database.
type SQLite struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at dsn and runs pending migrations.
func NewSQLite(dsn string) (*SQLite, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// A single connection keeps ":memory:" databases shared and serializes writers.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	if err := migrations.Run(context.Background(), db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLite{db: db}, nil
}

// Close closes the underlying database connection.
func (s *SQLite) Close() error {
	return s.db.Close()
}

// InsertScan deletes earlier scans of the same chat with identical details
// and inserts scan as the newest entry.
func (s *SQLite) InsertScan(ctx context.Context, scan *model.Scan) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM scans WHERE chat_id = ? AND details = ?`,
		scan.ChatID, scan.Details,
	); err != nil {
		return fmt.Errorf("delete duplicates: %w", err)
	}

	res, err := tx.ExecContext(ctx,
		`INSERT INTO scans (chat_id, details, tag, datetime) VALUES (?, ?, ?, ?)`,
		scan.ChatID, scan.Details, string(scan.Tag), scan.DateTime,
	)
	if err != nil {
		return fmt.Errorf("insert scan: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("last insert id: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	scan.ID = id
	return nil
}

// GetScan returns a single scan of the given chat.
func (s *SQLite) GetScan(ctx context.Context, chatID, id int64) (*model.Scan, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, chat_id, details, tag, datetime FROM scans WHERE id = ? AND chat_id = ?`,
		id, chatID,
	)
	sc, err := scanScan(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &sc, nil
}

// ListScans returns the scans of a chat, newest first.
func (s *SQLite) ListScans(ctx context.Context, chatID int64, q model.ScanQuery) ([]model.Scan, error) {
	var (
		where = []string{"chat_id = ?"}
		args  = []any{chatID}
	)
	if q.Tag != "" {
		where = append(where, "tag = ?")
		args = append(args, string(q.Tag))
	}
	if q.Search != "" {
		where = append(where, "instr(lower(details), lower(?)) > 0")
		args = append(args, q.Search)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, chat_id, details, tag, datetime FROM scans
		 WHERE `+strings.Join(where, " AND ")+`
		 ORDER BY id DESC`,
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("query scans: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var scans []model.Scan
	for rows.Next() {
		sc, err := scanScan(rows)
		if err != nil {
			return nil, err
		}
		scans = append(scans, sc)
	}
	return scans, rows.Err()
}

// CountScans returns the number of scans stored for a chat.
func (s *SQLite) CountScans(ctx context.Context, chatID int64) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM scans WHERE chat_id = ?`, chatID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count scans: %w", err)
	}
	return count, nil
}

// DeleteScan removes a scan by its ID.
func (s *SQLite) DeleteScan(ctx context.Context, chatID, id int64) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM scans WHERE id = ? AND chat_id = ?`, id, chatID,
	)
	if err != nil {
		return false, fmt.Errorf("delete scan: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n > 0, nil
}

type scannable interface {
	Scan(dest ...any) error
}

func scanScan(row scannable) (model.Scan, error) {
	var sc model.Scan
	var details, tag, datetime sql.NullString
	if err := row.Scan(&sc.ID, &sc.ChatID, &details, &tag, &datetime); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return sc, err
		}
		return sc, fmt.Errorf("scan row: %w", err)
	}
	sc.Details = details.String
	sc.Tag = model.Tag(tag.String)
	sc.DateTime = datetime.String
	return sc, nil
}
