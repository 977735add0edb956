// Package state keeps the CLI session between invocations in a small SQLite
// database: the server URL, the account email and the session token.
package state

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/filesmanager/internal/client/migrations"
	"github.com/dmitrijs2005/filesmanager/internal/dbx"
	"github.com/pressly/goose/v3"

	_ "modernc.org/sqlite"
)

// ErrNoSession is returned by Load when nobody is logged in.
var ErrNoSession = errors.New("not logged in")

const (
	keyServer = "server"
	keyEmail  = "email"
	keyToken  = "token"
)

// Session is what login leaves behind for later commands.
type Session struct {
	Server string
	Email  string
	Token  string
}

type Store interface {
	Load(ctx context.Context) (*Session, error)
	Save(ctx context.Context, s *Session) error
	Clear(ctx context.Context) error
}

// Open opens (creating when missing) the state database at path and
// applies its migrations.
func Open(ctx context.Context, path string) (*sql.DB, error) {
	db, err := dbx.Open(ctx, "sqlite", path, dbx.PoolOptions{MaxOpenConns: 1})
	if err != nil {
		return nil, err
	}

	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("sqlite3"); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := goose.UpContext(ctx, db, "."); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("state migrations: %w", err)
	}

	return db, nil
}

type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

func get(ctx context.Context, db dbx.DBTX, key string) (string, error) {
	var value []byte
	err := db.QueryRowContext(ctx, `SELECT value FROM metadata WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to get metadata[%s]: %w", key, err)
	}
	return string(value), nil
}

func set(ctx context.Context, db dbx.DBTX, key, value string) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO metadata (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, []byte(value))
	if err != nil {
		return fmt.Errorf("failed to set metadata[%s]: %w", key, err)
	}
	return nil
}

// Load returns the saved session or ErrNoSession.
func (s *SQLiteStore) Load(ctx context.Context) (*Session, error) {
	var sess Session
	var err error

	if sess.Token, err = get(ctx, s.db, keyToken); err != nil {
		return nil, err
	}
	if sess.Token == "" {
		return nil, ErrNoSession
	}
	if sess.Server, err = get(ctx, s.db, keyServer); err != nil {
		return nil, err
	}
	if sess.Email, err = get(ctx, s.db, keyEmail); err != nil {
		return nil, err
	}
	return &sess, nil
}

// Save replaces the stored session atomically.
func (s *SQLiteStore) Save(ctx context.Context, sess *Session) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := set(ctx, tx, keyServer, sess.Server); err != nil {
			return err
		}
		if err := set(ctx, tx, keyEmail, sess.Email); err != nil {
			return err
		}
		return set(ctx, tx, keyToken, sess.Token)
	})
}

func (s *SQLiteStore) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM metadata`); err != nil {
		return fmt.Errorf("failed to clear metadata: %w", err)
	}
	return nil
}
