// Package store keeps the client's local state in a small SQLite database
// under the lostaf state directory: the persisted session cookie, the
// pending one-time login fragment, an unsent submission draft, and a
// short-lived admin snapshot cache.
package store

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

type Store struct {
	Dir string
}

func (s Store) path() string { return filepath.Join(s.Dir, "state.sqlite") }

func (s Store) open(ctx context.Context) (*sql.DB, error) {
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return nil, err
	}
	// modernc.org/sqlite driver name is "sqlite".
	db, err := sql.Open("sqlite", s.path())
	if err != nil {
		return nil, err
	}
	// WAL enables one writer + many readers; busy_timeout avoids
	// "database is locked" flakiness when a CLI and TUI run side by side.
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	if err := migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

func migrate(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS kv (
			k TEXT PRIMARY KEY,
			v TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS snapshots (
			k TEXT PRIMARY KEY,
			payload_json TEXT NOT NULL,
			fetched_at_unixms INTEGER NOT NULL
		);`,
	}
	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

const (
	keySessionCookie   = "session_cookie"
	keyPendingFragment = "pending_session_id"
	keyDraft           = "submission_draft"
)

func (s Store) getKV(ctx context.Context, k string) (string, error) {
	db, err := s.open(ctx)
	if err != nil {
		return "", err
	}
	defer db.Close()

	var v string
	err = db.QueryRowContext(ctx, `SELECT v FROM kv WHERE k = ?`, k).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return v, nil
}

func (s Store) setKV(ctx context.Context, k, v string) error {
	db, err := s.open(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	_, err = db.ExecContext(ctx,
		`INSERT INTO kv (k, v) VALUES (?, ?) ON CONFLICT(k) DO UPDATE SET v = excluded.v`, k, v)
	return err
}

func (s Store) deleteKV(ctx context.Context, k string) error {
	db, err := s.open(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	_, err = db.ExecContext(ctx, `DELETE FROM kv WHERE k = ?`, k)
	return err
}

// LoadSessionCookie, SaveSessionCookie and ClearSessionCookie implement
// api.CookieStore.
func (s Store) LoadSessionCookie() (string, error) {
	return s.getKV(context.Background(), keySessionCookie)
}

func (s Store) SaveSessionCookie(value string) error {
	return s.setKV(context.Background(), keySessionCookie, value)
}

func (s Store) ClearSessionCookie() error {
	return s.deleteKV(context.Background(), keySessionCookie)
}

// SavePendingSessionID records a one-time session_id handed over by
// `lostaf login` for the next process start.
func (s Store) SavePendingSessionID(ctx context.Context, id string) error {
	return s.setKV(ctx, keyPendingFragment, id)
}

// TakePendingSessionID returns the pending one-time session_id and removes
// it in the same transaction. The token is single-use: whatever the
// exchange outcome, it is never seen again.
func (s Store) TakePendingSessionID(ctx context.Context) (string, error) {
	db, err := s.open(ctx)
	if err != nil {
		return "", err
	}
	defer db.Close()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return "", err
	}
	defer tx.Rollback()

	var v string
	err = tx.QueryRowContext(ctx, `SELECT v FROM kv WHERE k = ?`, keyPendingFragment).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM kv WHERE k = ?`, keyPendingFragment); err != nil {
		return "", err
	}
	return v, tx.Commit()
}

// SaveSnapshot stores a JSON payload under a named key with its fetch time.
// Used for the admin stats/locations cache and the submission draft.
func (s Store) SaveSnapshot(ctx context.Context, key, payloadJSON string, fetchedAt time.Time) error {
	db, err := s.open(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	_, err = db.ExecContext(ctx,
		`INSERT INTO snapshots (k, payload_json, fetched_at_unixms) VALUES (?, ?, ?)
		 ON CONFLICT(k) DO UPDATE SET payload_json = excluded.payload_json, fetched_at_unixms = excluded.fetched_at_unixms`,
		key, payloadJSON, fetchedAt.UnixMilli())
	return err
}

// LoadSnapshot returns the payload and fetch time for key. ok is false when
// no snapshot exists.
func (s Store) LoadSnapshot(ctx context.Context, key string) (payloadJSON string, fetchedAt time.Time, ok bool, err error) {
	db, err := s.open(ctx)
	if err != nil {
		return "", time.Time{}, false, err
	}
	defer db.Close()

	var ms int64
	err = db.QueryRowContext(ctx,
		`SELECT payload_json, fetched_at_unixms FROM snapshots WHERE k = ?`, key).Scan(&payloadJSON, &ms)
	if errors.Is(err, sql.ErrNoRows) {
		return "", time.Time{}, false, nil
	}
	if err != nil {
		return "", time.Time{}, false, err
	}
	return payloadJSON, time.UnixMilli(ms), true, nil
}

func (s Store) DeleteSnapshot(ctx context.Context, key string) error {
	db, err := s.open(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	_, err = db.ExecContext(ctx, `DELETE FROM snapshots WHERE k = ?`, key)
	return err
}
