package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"
)

// DefaultStateID is the row key of the single state blob.
const DefaultStateID = "default"

var ErrStateSchemaMissing = errors.New("app_state table does not exist")

type sqlDialect struct {
	name   string
	schema string
	load   string
	upsert string
	stamp  func(time.Time) any
}

var postgresDialect = sqlDialect{
	name: "postgres",
	schema: `
		CREATE TABLE IF NOT EXISTS app_state (
			id         TEXT PRIMARY KEY,
			data       JSONB NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		)`,
	load: `SELECT data FROM app_state WHERE id = $1`,
	upsert: `
		INSERT INTO app_state (id, data, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE SET data = EXCLUDED.data, updated_at = EXCLUDED.updated_at`,
	stamp: func(t time.Time) any { return t.UTC() },
}

var sqliteDialect = sqlDialect{
	name: "sqlite",
	schema: `
		CREATE TABLE IF NOT EXISTS app_state (
			id         TEXT PRIMARY KEY,
			data       TEXT NOT NULL,
			updated_at INTEGER NOT NULL
		)`,
	load: `SELECT data FROM app_state WHERE id = ?`,
	upsert: `
		INSERT INTO app_state (id, data, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`,
	stamp: func(t time.Time) any { return t.UTC().UnixMilli() },
}

// SQLStateRepository keeps the blob in a single app_state row.
type SQLStateRepository struct {
	db      SQLExecutor
	id      string
	dialect sqlDialect
}

func NewPostgresStateRepository(db SQLExecutor) *SQLStateRepository {
	return &SQLStateRepository{db: db, id: DefaultStateID, dialect: postgresDialect}
}

func NewSQLiteStateRepository(db SQLExecutor) *SQLStateRepository {
	return &SQLStateRepository{db: db, id: DefaultStateID, dialect: sqliteDialect}
}

// EnsureSchema creates the app_state table when it is missing.
func (r *SQLStateRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, r.dialect.schema); err != nil {
		return fmt.Errorf("%s: create app_state: %w", r.dialect.name, err)
	}
	return nil
}

func (r *SQLStateRepository) Load(ctx context.Context) ([]byte, error) {
	var data []byte
	err := r.db.QueryRowContext(ctx, r.dialect.load, r.id).Scan(&data)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrStateNotFound
		}
		return nil, r.handleError("load state", err)
	}
	return data, nil
}

func (r *SQLStateRepository) Save(ctx context.Context, data []byte) error {
	// jsonb rejects bytea parameters, so the blob goes over the wire as text.
	result, err := r.db.ExecContext(ctx, r.dialect.upsert, r.id, string(data), r.dialect.stamp(time.Now()))
	if err != nil {
		return r.handleError("save state", err)
	}
	return checkAffectedRows(result, fmt.Errorf("save state: %w", errNothingWritten))
}

func (r *SQLStateRepository) handleError(op string, err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "42P01" { // undefined_table
		return fmt.Errorf("%s: %w", op, ErrStateSchemaMissing)
	}
	return fmt.Errorf("%s %s: %w", r.dialect.name, op, err)
}
