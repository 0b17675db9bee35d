package iocache

import (
	"database/sql"
	"fmt"

	_ "github.com/go-sql-driver/mysql" // MySQL driver
	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver
	_ "modernc.org/sqlite"             // SQLite driver

	"github.com/devpulse/devpulse/internal/contract"
	"github.com/devpulse/devpulse/schema"
)

// Table names for persistence.
const (
	snapshotsTable    = "devpulse_snapshots"
	trackedReposTable = "devpulse_tracked_repos"
	modelsTable       = "devpulse_models"
)

// GetSnapshotDBFilePath returns the default SQLite path for snapshots.
func GetSnapshotDBFilePath() string {
	return contract.GetSnapshotDBFilePath()
}

// GetModelDBFilePath returns the default SQLite path for models.
func GetModelDBFilePath() string {
	return contract.GetModelDBFilePath()
}

// openBackend opens and pings a database connection for the backend.
// NoneBackend returns a nil handle, which stores treat as a no-op.
func openBackend(backend schema.DatabaseBackend, connStr, defaultSQLitePath string) (*sql.DB, error) {
	var db *sql.DB
	var err error

	switch backend {
	case schema.SQLiteBackend:
		dbPath := connStr
		if dbPath == "" {
			dbPath = defaultSQLitePath
		}
		db, err = sql.Open("sqlite", dbPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open SQLite database at %q: %w. Check that the directory is writable", dbPath, err)
		}
		// Limit SQLite to a single open connection to avoid "database is locked" errors
		db.SetMaxOpenConns(1)

	case schema.MySQLBackend:
		db, err = sql.Open("mysql", connStr)
		if err != nil {
			return nil, fmt.Errorf("failed to open MySQL database: %w. Check connection string format: user:password@tcp(host:port)/dbname", err)
		}

	case schema.PostgreSQLBackend:
		db, err = sql.Open("pgx", connStr)
		if err != nil {
			return nil, fmt.Errorf("failed to open PostgreSQL database: %w. Check connection string format: host=localhost port=5432 user=postgres dbname=mydb", err)
		}

	case schema.NoneBackend:
		return nil, nil

	default:
		return nil, fmt.Errorf("unsupported backend: %s. Must be sqlite, mysql, postgresql, or none", backend)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to %s database. Check that the server is running and connection parameters are valid: %w", backend, err)
	}
	return db, nil
}

// quoteIdent quotes a table name for the backend.
func quoteIdent(name string, backend schema.DatabaseBackend) string {
	switch backend {
	case schema.MySQLBackend:
		return "`" + name + "`"
	case schema.PostgreSQLBackend:
		return `"` + name + `"`
	default: // SQLite
		return `"` + name + `"`
	}
}

// placeholders returns n parameter placeholders in backend syntax,
// starting at position start for PostgreSQL numbering.
func placeholders(backend schema.DatabaseBackend, start, n int) []string {
	out := make([]string, n)
	for i := range out {
		if backend == schema.PostgreSQLBackend {
			out[i] = fmt.Sprintf("$%d", start+i)
		} else {
			out[i] = "?"
		}
	}
	return out
}
