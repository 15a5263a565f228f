package database

import (
	"database/sql"
	"fmt"
	"net/url"

	"github.com/bankingapp/ledger/internal/config"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

// Dialect names the SQL backend behind a *sql.DB. Statements use $N placeholders,
// which both drivers accept.
type Dialect string

const (
	DialectSQLite   Dialect = "sqlite"
	DialectPostgres Dialect = "postgres"
)

// LockingRead is appended to a SELECT that must hold the row until commit.
// SQLite takes the database write lock at BEGIN IMMEDIATE, so no clause is needed there.
func (d Dialect) LockingRead() string {
	if d == DialectPostgres {
		return " FOR UPDATE"
	}
	return ""
}

// DSN builds the driver connection string for the configured backend
func DSN(cfg config.DBConfig) (Dialect, string, error) {
	switch cfg.Driver {
	case "", string(DialectSQLite):
		q := url.Values{}
		q.Add("_pragma", "foreign_keys(1)")
		q.Add("_pragma", "journal_mode(WAL)")
		q.Add("_pragma", fmt.Sprintf("busy_timeout(%d)", cfg.BusyTimeout.Milliseconds()))
		q.Set("_txlock", "immediate")
		return DialectSQLite, "file:" + cfg.Path + "?" + q.Encode(), nil
	case string(DialectPostgres):
		return DialectPostgres, fmt.Sprintf(
			"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
			cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Name, cfg.SSLMode,
		), nil
	default:
		return "", "", fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

// InitDB opens the store, verifies the connection and applies the schema
func InitDB(cfg config.DBConfig, logger *zap.Logger) (*sql.DB, Dialect, error) {
	dialect, dsn, err := DSN(cfg)
	if err != nil {
		return nil, "", err
	}

	db, err := sql.Open(string(dialect), dsn)
	if err != nil {
		return nil, "", fmt.Errorf("error opening database: %w", err)
	}

	if err = db.Ping(); err != nil {
		db.Close()
		return nil, "", fmt.Errorf("error connecting to database: %w", err)
	}

	if err = Migrate(db, dialect); err != nil {
		db.Close()
		return nil, "", err
	}

	logger.Info("[DB] Database connection established", zap.String("dialect", string(dialect)))
	return db, dialect, nil
}
