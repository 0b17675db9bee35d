package iocache

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/devpulse/devpulse/internal/contract"
	"github.com/devpulse/devpulse/schema"
)

// ModelStoreImpl handles trained model persistence across database backends.
type ModelStoreImpl struct {
	db      *sql.DB
	backend schema.DatabaseBackend
}

var _ contract.ModelStore = &ModelStoreImpl{} // Compile-time check

// NewModelStore initializes a model store for the backend.
func NewModelStore(backend schema.DatabaseBackend, connStr string) (contract.ModelStore, error) {
	db, err := openBackend(backend, connStr, GetModelDBFilePath())
	if err != nil {
		return nil, err
	}
	store := &ModelStoreImpl{db: db, backend: backend}
	if db == nil {
		return store, nil
	}

	if _, err := db.Exec(store.createModelsQuery()); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create models table: %w", err)
	}
	return store, nil
}

func (ms *ModelStoreImpl) createModelsQuery() string {
	table := quoteIdent(modelsTable, ms.backend)
	switch ms.backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				subject VARCHAR(255) NOT NULL,
				metric_path VARCHAR(255) NOT NULL,
				model_blob MEDIUMBLOB NOT NULL,
				meta MEDIUMBLOB NOT NULL,
				updated_at BIGINT NOT NULL,
				PRIMARY KEY (subject, metric_path)
			);
		`, table)
	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				subject TEXT NOT NULL,
				metric_path TEXT NOT NULL,
				model_blob BYTEA NOT NULL,
				meta BYTEA NOT NULL,
				updated_at BIGINT NOT NULL,
				PRIMARY KEY (subject, metric_path)
			);
		`, table)
	default: // SQLite
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				subject TEXT NOT NULL,
				metric_path TEXT NOT NULL,
				model_blob BLOB NOT NULL,
				meta BLOB NOT NULL,
				updated_at INTEGER NOT NULL,
				PRIMARY KEY (subject, metric_path)
			);
		`, table)
	}
}

// SaveModel upserts a serialized model keyed by (subject, metric path).
func (ms *ModelStoreImpl) SaveModel(subject, metricPath string, blob []byte, meta schema.ModelMeta) error {
	if ms.db == nil {
		return nil
	}
	metaJSON, err := json.Marshal(meta)
	if err != nil {
		return fmt.Errorf("marshal model meta: %w", err)
	}

	table := quoteIdent(modelsTable, ms.backend)
	ph := placeholders(ms.backend, 1, 5)
	var query string
	switch ms.backend {
	case schema.MySQLBackend:
		query = fmt.Sprintf(`INSERT INTO %s (subject, metric_path, model_blob, meta, updated_at) VALUES (%s) AS new
			ON DUPLICATE KEY UPDATE model_blob = new.model_blob, meta = new.meta, updated_at = new.updated_at`,
			table, strings.Join(ph, ", "))
	case schema.PostgreSQLBackend:
		query = fmt.Sprintf(`INSERT INTO %s (subject, metric_path, model_blob, meta, updated_at) VALUES (%s)
			ON CONFLICT (subject, metric_path) DO UPDATE SET model_blob = EXCLUDED.model_blob, meta = EXCLUDED.meta, updated_at = EXCLUDED.updated_at`,
			table, strings.Join(ph, ", "))
	default: // SQLite
		query = fmt.Sprintf(`INSERT OR REPLACE INTO %s (subject, metric_path, model_blob, meta, updated_at) VALUES (%s)`,
			table, strings.Join(ph, ", "))
	}

	_, err = ms.db.Exec(query, subject, metricPath, blob, metaJSON, meta.LastUpdatedAt.Unix())
	return err
}

// LoadModel returns the serialized model and its metadata, or
// (nil, zero, nil) when no model exists for the key.
func (ms *ModelStoreImpl) LoadModel(subject, metricPath string) ([]byte, schema.ModelMeta, error) {
	var meta schema.ModelMeta
	if ms.db == nil {
		return nil, meta, nil
	}

	table := quoteIdent(modelsTable, ms.backend)
	ph := placeholders(ms.backend, 1, 2)
	query := fmt.Sprintf(`SELECT model_blob, meta FROM %s WHERE subject = %s AND metric_path = %s`,
		table, ph[0], ph[1])

	var blob, metaJSON []byte
	err := ms.db.QueryRow(query, subject, metricPath).Scan(&blob, &metaJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, meta, nil
	}
	if err != nil {
		return nil, meta, err
	}
	if err := json.Unmarshal(metaJSON, &meta); err != nil {
		return nil, meta, fmt.Errorf("decode model meta: %w", err)
	}
	return blob, meta, nil
}

// ListMeta returns metadata for every persisted model.
func (ms *ModelStoreImpl) ListMeta() ([]schema.ModelMeta, error) {
	if ms.db == nil {
		return nil, nil
	}

	table := quoteIdent(modelsTable, ms.backend)
	rows, err := ms.db.Query(fmt.Sprintf(`SELECT meta FROM %s ORDER BY subject, metric_path`, table))
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var metas []schema.ModelMeta
	for rows.Next() {
		var metaJSON []byte
		if err := rows.Scan(&metaJSON); err != nil {
			return nil, err
		}
		var meta schema.ModelMeta
		if err := json.Unmarshal(metaJSON, &meta); err != nil {
			contract.LogWarn("decode stored model meta", err)
			continue
		}
		metas = append(metas, meta)
	}
	return metas, rows.Err()
}

// DeleteModels removes all models for a subject. An empty subject
// removes everything.
func (ms *ModelStoreImpl) DeleteModels(subject string) error {
	if ms.db == nil {
		return nil
	}

	table := quoteIdent(modelsTable, ms.backend)
	if subject == "" {
		_, err := ms.db.Exec(fmt.Sprintf(`DELETE FROM %s`, table))
		return err
	}
	ph := placeholders(ms.backend, 1, 1)
	_, err := ms.db.Exec(fmt.Sprintf(`DELETE FROM %s WHERE subject = %s`, table, ph[0]), subject)
	return err
}

// Close closes the underlying DB connection.
func (ms *ModelStoreImpl) Close() error {
	if ms.db != nil {
		return ms.db.Close()
	}
	return nil
}
