// Package schema has shared types for metrics, forecasting and refresh flows.
package schema

// Scope identifies which slice of activity a snapshot covers.
type Scope string

// Supported refresh scopes.
const (
	RepositoryScope Scope = "repository" // single repository, unfiltered
	TrackedScope    Scope = "tracked"    // a developer's tracked repositories, author-filtered
)

// IsValid reports whether the scope is one of the supported values.
func (s Scope) IsValid() bool {
	return s == RepositoryScope || s == TrackedScope
}

// DatabaseBackend represents the type of database backend for stores.
type DatabaseBackend string

// Supported database backends.
const (
	SQLiteBackend     DatabaseBackend = "sqlite"
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none"
)

// OutputMode represents the rendering format for CLI output.
type OutputMode string

// Supported output modes.
const (
	TextOut OutputMode = "text"
	JSONOut OutputMode = "json"
	CSVOut  OutputMode = "csv"
)

// ValidDatabaseBackends is the set of accepted backend values.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}

// ValidOutputModes is the set of accepted output format values.
var ValidOutputModes = map[OutputMode]struct{}{
	TextOut: {},
	JSONOut: {},
	CSVOut:  {},
}

// TrendDirection labels how a windowed average moved against the prior window.
type TrendDirection string

// Trend labels for deployment frequency and related series.
const (
	TrendIncreasing TrendDirection = "increasing"
	TrendDecreasing TrendDirection = "decreasing"
	TrendStable     TrendDirection = "stable"
)
