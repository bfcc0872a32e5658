package portfolio

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	_ "modernc.org/sqlite" // registers the "sqlite" driver
)

const schema = `
CREATE TABLE IF NOT EXISTS portfolio (
	seq        INTEGER PRIMARY KEY AUTOINCREMENT,
	id         TEXT NOT NULL UNIQUE,
	techstack  TEXT NOT NULL,
	link       TEXT NOT NULL,
	created_at TEXT NOT NULL
);`

// Store persists portfolio entries in SQLite.
type Store struct {
	db *sql.DB
}

// OpenStore opens (creating if needed) the SQLite database at path.
func OpenStore(ctx context.Context, path string) (store *Store, err error) {
	// modernc sqlite uses DSN like: file:foo.db?_pragma=busy_timeout(5000)
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)", path)

	var db *sql.DB
	db, err = sql.Open("sqlite", dsn)
	if err != nil {
		err = errors.Wrapf(err, "failed to open portfolio database: %s", path)
		return store, err
	}

	// sqlite wants a single writer
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(5 * time.Minute)

	_, err = db.ExecContext(ctx, schema)
	if err != nil {
		_ = db.Close()
		err = errors.Wrap(err, "failed to create portfolio schema")
		return store, err
	}

	store = &Store{db: db}
	return store, err
}

// Close closes the database.
func (s *Store) Close() (err error) {
	if s == nil || s.db == nil {
		return err
	}
	err = s.db.Close()
	return err
}

// Count returns the number of stored entries.
func (s *Store) Count(ctx context.Context) (count int, err error) {
	err = s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM portfolio`).Scan(&count)
	if err != nil {
		err = errors.Wrap(err, "failed to count portfolio entries")
		return count, err
	}
	return count, err
}

// Insert stores entries in one transaction, assigning IDs to entries without one.
func (s *Store) Insert(ctx context.Context, entries []Entry) (err error) {
	var tx *sql.Tx
	tx, err = s.db.BeginTx(ctx, nil)
	if err != nil {
		err = errors.Wrap(err, "failed to begin portfolio transaction")
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	now := time.Now().UTC().Format(time.RFC3339)
	for _, entry := range entries {
		id := entry.ID
		if id == "" {
			id = uuid.NewString()
		}

		_, err = tx.ExecContext(ctx,
			`INSERT INTO portfolio (id, techstack, link, created_at) VALUES (?, ?, ?, ?)`,
			id, entry.TechStack, entry.Link, now,
		)
		if err != nil {
			err = errors.Wrapf(err, "failed to insert portfolio entry %s", entry.Link)
			return err
		}
	}

	err = tx.Commit()
	if err != nil {
		err = errors.Wrap(err, "failed to commit portfolio entries")
		return err
	}

	return err
}

// All returns every entry in insertion order.
func (s *Store) All(ctx context.Context) (entries []Entry, err error) {
	var rows *sql.Rows
	rows, err = s.db.QueryContext(ctx, `SELECT id, techstack, link FROM portfolio ORDER BY seq`)
	if err != nil {
		err = errors.Wrap(err, "failed to query portfolio entries")
		return entries, err
	}
	defer rows.Close()

	for rows.Next() {
		var entry Entry
		err = rows.Scan(&entry.ID, &entry.TechStack, &entry.Link)
		if err != nil {
			err = errors.Wrap(err, "failed to scan portfolio entry")
			return entries, err
		}
		entries = append(entries, entry)
	}

	err = rows.Err()
	if err != nil {
		err = errors.Wrap(err, "failed to iterate portfolio entries")
		return entries, err
	}

	return entries, err
}
