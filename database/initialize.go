package database

import (
	_ "embed"

	"github.com/jmoiron/sqlx"
	"github.com/umakantv/go-utils/db"
	"github.com/umakantv/go-utils/logger"
	"go.uber.org/zap"
)

//go:embed schema.sql
var schema string

// Open opens the SQLite database identified by dsn and returns a Store
// backed by it. The DSN is injected by the caller; an in-memory shared-cache
// form (file:<name>?mode=memory&cache=shared) is supported so tests can run
// against a hermetic database visible to every pooled connection.
func Open(dsn string) *Store {
	config := db.DatabaseConfig{
		DRIVER: "sqlite3",
		DB:     dsn,
	}

	dbConn := db.GetDBConnection(config)

	// An in-memory shared-cache database lives only as long as at least one
	// connection is open. Keep idle connections around so it survives
	// between request-scoped acquisitions.
	dbConn.SetMaxIdleConns(2)
	dbConn.SetConnMaxLifetime(0)

	logger.Debug("Database opened", zap.String("dsn", dsn))
	return NewStore(dbConn)
}

// NewStore wraps an already-open sqlx handle. Used by Open and by tests that
// substitute a mock driver.
func NewStore(dbConn *sqlx.DB) *Store {
	return &Store{db: dbConn}
}
