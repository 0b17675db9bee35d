package iocache

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/devpulse/devpulse/internal/contract"
	"github.com/devpulse/devpulse/schema"
)

// SnapshotStoreImpl handles snapshot persistence across database backends.
type SnapshotStoreImpl struct {
	db      *sql.DB
	backend schema.DatabaseBackend
}

var _ contract.SnapshotStore = &SnapshotStoreImpl{} // Compile-time check

// NewSnapshotStore initializes a snapshot store for the backend.
func NewSnapshotStore(backend schema.DatabaseBackend, connStr string) (contract.SnapshotStore, error) {
	db, err := openBackend(backend, connStr, GetSnapshotDBFilePath())
	if err != nil {
		return nil, err
	}
	store := &SnapshotStoreImpl{db: db, backend: backend}
	if db == nil {
		return store, nil
	}

	for _, query := range []string{
		store.createSnapshotsQuery(),
		store.createTrackedReposQuery(),
	} {
		if _, err := db.Exec(query); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to create snapshot tables: %w", err)
		}
	}
	return store, nil
}

func (ss *SnapshotStoreImpl) createSnapshotsQuery() string {
	table := quoteIdent(snapshotsTable, ss.backend)
	switch ss.backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				subject VARCHAR(255) NOT NULL,
				snapshot_date VARCHAR(10) NOT NULL,
				scope VARCHAR(32) NOT NULL,
				payload MEDIUMBLOB NOT NULL,
				generated_at BIGINT NOT NULL,
				PRIMARY KEY (subject, snapshot_date)
			);
		`, table)
	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				subject TEXT NOT NULL,
				snapshot_date TEXT NOT NULL,
				scope TEXT NOT NULL,
				payload BYTEA NOT NULL,
				generated_at BIGINT NOT NULL,
				PRIMARY KEY (subject, snapshot_date)
			);
		`, table)
	default: // SQLite
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				subject TEXT NOT NULL,
				snapshot_date TEXT NOT NULL,
				scope TEXT NOT NULL,
				payload BLOB NOT NULL,
				generated_at INTEGER NOT NULL,
				PRIMARY KEY (subject, snapshot_date)
			);
		`, table)
	}
}

func (ss *SnapshotStoreImpl) createTrackedReposQuery() string {
	table := quoteIdent(trackedReposTable, ss.backend)
	if ss.backend == schema.MySQLBackend {
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				developer VARCHAR(255) NOT NULL,
				owner VARCHAR(255) NOT NULL,
				name VARCHAR(255) NOT NULL,
				PRIMARY KEY (developer, owner, name)
			);
		`, table)
	}
	return fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			developer TEXT NOT NULL,
			owner TEXT NOT NULL,
			name TEXT NOT NULL,
			PRIMARY KEY (developer, owner, name)
		);
	`, table)
}

// SaveSnapshot upserts a snapshot keyed by (subject, date).
func (ss *SnapshotStoreImpl) SaveSnapshot(snap *schema.MetricsSnapshot) error {
	if ss.db == nil {
		return nil
	}
	payload, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}

	table := quoteIdent(snapshotsTable, ss.backend)
	ph := placeholders(ss.backend, 1, 5)
	var query string
	switch ss.backend {
	case schema.MySQLBackend:
		query = fmt.Sprintf(`INSERT INTO %s (subject, snapshot_date, scope, payload, generated_at) VALUES (%s) AS new
			ON DUPLICATE KEY UPDATE scope = new.scope, payload = new.payload, generated_at = new.generated_at`,
			table, strings.Join(ph, ", "))
	case schema.PostgreSQLBackend:
		query = fmt.Sprintf(`INSERT INTO %s (subject, snapshot_date, scope, payload, generated_at) VALUES (%s)
			ON CONFLICT (subject, snapshot_date) DO UPDATE SET scope = EXCLUDED.scope, payload = EXCLUDED.payload, generated_at = EXCLUDED.generated_at`,
			table, strings.Join(ph, ", "))
	default: // SQLite
		query = fmt.Sprintf(`INSERT OR REPLACE INTO %s (subject, snapshot_date, scope, payload, generated_at) VALUES (%s)`,
			table, strings.Join(ph, ", "))
	}

	_, err = ss.db.Exec(query, snap.Subject, snap.Date, string(snap.Scope), payload, snap.GeneratedAt.Unix())
	return err
}

// GetHistory returns up to limit snapshots for a subject, oldest first.
func (ss *SnapshotStoreImpl) GetHistory(subject string, limit int) ([]schema.MetricsSnapshot, error) {
	if ss.db == nil {
		return nil, nil
	}
	if limit <= 0 {
		limit = contract.DefaultHistoryLimit
	}

	table := quoteIdent(snapshotsTable, ss.backend)
	ph := placeholders(ss.backend, 1, 2)
	query := fmt.Sprintf(`SELECT payload FROM %s WHERE subject = %s ORDER BY snapshot_date DESC LIMIT %s`,
		table, ph[0], ph[1])

	rows, err := ss.db.Query(query, subject, limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	snapshots, err := scanSnapshots(rows)
	if err != nil {
		return nil, err
	}

	// The query walks newest-first for the limit; callers want oldest-first.
	for i, j := 0, len(snapshots)-1; i < j; i, j = i+1, j-1 {
		snapshots[i], snapshots[j] = snapshots[j], snapshots[i]
	}
	return snapshots, nil
}

// GetLatest returns the most recent snapshot per distinct subject.
func (ss *SnapshotStoreImpl) GetLatest() ([]schema.MetricsSnapshot, error) {
	if ss.db == nil {
		return nil, nil
	}

	table := quoteIdent(snapshotsTable, ss.backend)
	query := fmt.Sprintf(`
		SELECT s.payload FROM %s s
		JOIN (SELECT subject, MAX(snapshot_date) AS latest FROM %s GROUP BY subject) m
		ON s.subject = m.subject AND s.snapshot_date = m.latest`,
		table, table)

	rows, err := ss.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	snapshots, err := scanSnapshots(rows)
	if err != nil {
		return nil, err
	}
	sort.Slice(snapshots, func(i, j int) bool { return snapshots[i].Subject < snapshots[j].Subject })
	return snapshots, nil
}

func scanSnapshots(rows *sql.Rows) ([]schema.MetricsSnapshot, error) {
	var snapshots []schema.MetricsSnapshot
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, err
		}
		var snap schema.MetricsSnapshot
		if err := json.Unmarshal(payload, &snap); err != nil {
			// A corrupt row is skipped, not fatal for the whole read.
			contract.LogWarn("decode stored snapshot", err)
			continue
		}
		snapshots = append(snapshots, snap)
	}
	return snapshots, rows.Err()
}

// GetTrackedRepos returns the repositories tracked for a developer.
func (ss *SnapshotStoreImpl) GetTrackedRepos(developer string) ([]schema.RepoRef, error) {
	if ss.db == nil {
		return nil, nil
	}

	table := quoteIdent(trackedReposTable, ss.backend)
	ph := placeholders(ss.backend, 1, 1)
	query := fmt.Sprintf(`SELECT owner, name FROM %s WHERE developer = %s ORDER BY owner, name`, table, ph[0])

	rows, err := ss.db.Query(query, developer)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var repos []schema.RepoRef
	for rows.Next() {
		var repo schema.RepoRef
		if err := rows.Scan(&repo.Owner, &repo.Name); err != nil {
			return nil, err
		}
		repos = append(repos, repo)
	}
	return repos, rows.Err()
}

// TrackRepo adds a repository to a developer's tracked set.
func (ss *SnapshotStoreImpl) TrackRepo(developer string, repo schema.RepoRef) error {
	if ss.db == nil {
		return errors.New("tracked repositories require a configured snapshot backend")
	}

	table := quoteIdent(trackedReposTable, ss.backend)
	ph := placeholders(ss.backend, 1, 3)
	var query string
	switch ss.backend {
	case schema.MySQLBackend:
		query = fmt.Sprintf(`INSERT IGNORE INTO %s (developer, owner, name) VALUES (%s)`, table, strings.Join(ph, ", "))
	case schema.PostgreSQLBackend:
		query = fmt.Sprintf(`INSERT INTO %s (developer, owner, name) VALUES (%s) ON CONFLICT DO NOTHING`, table, strings.Join(ph, ", "))
	default: // SQLite
		query = fmt.Sprintf(`INSERT OR IGNORE INTO %s (developer, owner, name) VALUES (%s)`, table, strings.Join(ph, ", "))
	}

	_, err := ss.db.Exec(query, developer, repo.Owner, repo.Name)
	return err
}

// GetStatus returns status information about the snapshot store.
func (ss *SnapshotStoreImpl) GetStatus() (schema.StoreStatus, error) {
	status := schema.StoreStatus{
		Backend:   ss.backend,
		Reachable: ss.db != nil,
	}
	if ss.db == nil {
		return status, nil
	}

	if err := ss.db.Ping(); err != nil {
		status.Reachable = false
		status.Detail = err.Error()
		return status, nil
	}

	table := quoteIdent(snapshotsTable, ss.backend)
	row := ss.db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", table))
	if err := row.Scan(&status.Snapshots); err != nil {
		return status, fmt.Errorf("failed to count snapshots: %w", err)
	}
	return status, nil
}

// Close closes the underlying DB connection.
func (ss *SnapshotStoreImpl) Close() error {
	if ss.db != nil {
		return ss.db.Close()
	}
	return nil
}
