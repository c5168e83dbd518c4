package db

import (
	"database/sql"
	"database/sql/driver"
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/lib/pq"
	sqlite3 "github.com/mattn/go-sqlite3"
	"modernc.org/sqlite"

	"climate-server/internal/config"
)

// drivers maps the DB_DRIVER names to the drivers that back them. The same
// names are registered with database/sql by the imported packages.
var drivers = map[string]driver.Driver{
	"sqlite3":  &sqlite3.SQLiteDriver{},
	"sqlite":   &sqlite.Driver{},
	"mysql":    mysql.MySQLDriver{},
	"postgres": &pq.Driver{},
}

// Open returns the shared connection pool for the configured store. The
// store is only ever read, so file-backed SQLite databases are opened
// read-only and must already exist.
func Open(cfg config.Config) (*sql.DB, error) {
	dsn, err := buildDSN(cfg)
	if err != nil {
		return nil, err
	}

	var db *sql.DB
	if cfg.LogSQL {
		connector, err := NewLoggingConnector(cfg.Driver, dsn, slog.Default())
		if err != nil {
			return nil, fmt.Errorf("db open: %w", err)
		}
		db = sql.OpenDB(connector)
	} else {
		db, err = sql.Open(cfg.Driver, dsn)
		if err != nil {
			return nil, fmt.Errorf("db open: %w", err)
		}
	}

	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns >= 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	// Validate connectivity early
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db ping: %w", err)
	}

	return db, nil
}

func Close(db *sql.DB) error {
	if db == nil {
		return nil
	}
	return db.Close()
}

func buildDSN(cfg config.Config) (string, error) {
	if cfg.DSN != "" {
		return cfg.DSN, nil
	}

	var params []string
	switch cfg.Driver {
	case "sqlite3":
		params = []string{"mode=ro", "_busy_timeout=5000"}
	case "sqlite":
		params = []string{"mode=ro", "_pragma=busy_timeout(5000)"}
	default:
		return "", fmt.Errorf("db: DSN required for driver %q", cfg.Driver)
	}

	path := cfg.SQLitePath
	if path == "" {
		return "", fmt.Errorf("db: empty sqlite path")
	}

	// "file:/data/hawaii.sqlite?x=y" is extended rather than wrapped again
	if strings.HasPrefix(path, "file:") {
		sep := "?"
		if strings.Contains(path, "?") {
			sep = "&"
		}
		return path + sep + strings.Join(params, "&"), nil
	}

	return fmt.Sprintf("file:%s?%s", path, strings.Join(params, "&")), nil
}

// Rebind rewrites "?" placeholders into the positional form the driver
// expects. Only postgres needs it.
func Rebind(driverName, query string) string {
	if driverName != "postgres" {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	inQuote := false
	for _, r := range query {
		switch {
		case r == '\'':
			inQuote = !inQuote
			b.WriteRune(r)
		case r == '?' && !inQuote:
			n++
			fmt.Fprintf(&b, "$%d", n)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
