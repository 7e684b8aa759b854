package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/existflow/timelog/internal/apperr"
	"github.com/existflow/timelog/internal/config"
	"github.com/existflow/timelog/internal/secret"
)

// ErrNotFound is returned by point lookups when no row matches.
var ErrNotFound = errors.New("not found")

// Store is the durable persistence layer for records, project settings and
// credentials. Every mutation is written through before the call returns.
type Store struct {
	db     *sql.DB
	driver string
	keys   *secret.Keychain
}

// Open opens the store using the configured backend: a local SQLite file by
// default, or Postgres when database.driver says so.
func Open(cfg config.DatabaseConfig, keys *secret.Keychain) (*Store, error) {
	var (
		db  *sql.DB
		err error
	)

	switch cfg.Driver {
	case "sqlite", "":
		if err := os.MkdirAll(filepath.Dir(cfg.Path), 0755); err != nil {
			return nil, apperr.Wrap(apperr.KindStorage, "failed to create database directory", err)
		}
		db, err = sql.Open("sqlite", cfg.Path)
	case "postgres":
		db, err = sql.Open("postgres", cfg.DSN)
	default:
		return nil, apperr.New(apperr.KindStorage, fmt.Sprintf("unknown database driver %q", cfg.Driver))
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.KindStorage, "failed to open database", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, apperr.Wrap(apperr.KindStorage, "failed to connect to database", err)
	}

	s := &Store{db: db, driver: cfg.Driver, keys: keys}
	if s.driver == "" {
		s.driver = "sqlite"
	}

	if err := s.migrate(); err != nil {
		db.Close()
		return nil, apperr.Wrap(apperr.KindStorage, "failed to run migrations", err)
	}

	return s, nil
}

// Close closes the underlying database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// rebind rewrites ? placeholders to $1..$n for the postgres driver. Queries in
// this package are written with ? and passed through here.
func (s *Store) rebind(query string) string {
	if s.driver != "postgres" {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			fmt.Fprintf(&b, "$%d", n)
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func storageErr(op string, err error) error {
	return apperr.Wrap(apperr.KindStorage, op, err)
}
