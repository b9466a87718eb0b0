// Package testsupport provides in-process stand-ins for the database, object
// storage and Redis so repository, service and handler tests need no services.
package testsupport

import (
	"context"
	"io"
	"path/filepath"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/pressly/goose/v3"
	"github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"

	"portfolio/database/postgres"
)

// Logger returns a logger that discards output.
func Logger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	l.SetLevel(logrus.DebugLevel)
	return l
}

// NewDB opens a migrated SQLite database in a temporary file.
func NewDB(t *testing.T) *sqlx.DB {
	t.Helper()

	dsn := "file:" + filepath.Join(t.TempDir(), "test.db") + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	// one connection keeps transactions and plain queries on the same file handle
	db.SetMaxOpenConns(1)

	if err := postgres.Migrate(context.Background(), db, goose.DialectSQLite3, Logger()); err != nil {
		db.Close()
		t.Fatalf("migrate: %v", err)
	}

	t.Cleanup(func() { db.Close() })
	return db
}
