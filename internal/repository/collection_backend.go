package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/edu-agent-api/internal/models"
	"github.com/noah-isme/edu-agent-api/pkg/storage"
)

// CollectionBackend persists one serialized collection per name. Read reports storage.ErrNotFound
// when the collection has never been written.
type CollectionBackend interface {
	Read(ctx context.Context, collection models.Collection) ([]byte, error)
	Write(ctx context.Context, collection models.Collection, payload []byte) error
}

// FileCollectionBackend stores each collection as <collection>.json under the data directory.
type FileCollectionBackend struct {
	files *storage.LocalStorage
}

// NewFileCollectionBackend wraps a local storage handle.
func NewFileCollectionBackend(files *storage.LocalStorage) *FileCollectionBackend {
	return &FileCollectionBackend{files: files}
}

// Read loads the raw collection file.
func (b *FileCollectionBackend) Read(ctx context.Context, collection models.Collection) ([]byte, error) {
	return b.files.Read(ctx, collection.FileName())
}

// Write replaces the collection file atomically.
func (b *FileCollectionBackend) Write(ctx context.Context, collection models.Collection, payload []byte) error {
	return b.files.Write(ctx, collection.FileName(), payload)
}

const recordCollectionsSchema = `CREATE TABLE IF NOT EXISTS record_collections (
	name TEXT PRIMARY KEY,
	payload JSONB NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

// PostgresCollectionBackend keeps every collection as one JSONB document row.
type PostgresCollectionBackend struct {
	db *sqlx.DB
}

// NewPostgresCollectionBackend constructs a PostgresCollectionBackend.
func NewPostgresCollectionBackend(db *sqlx.DB) *PostgresCollectionBackend {
	return &PostgresCollectionBackend{db: db}
}

// EnsureSchema creates the backing table when missing.
func (b *PostgresCollectionBackend) EnsureSchema(ctx context.Context) error {
	if _, err := b.db.ExecContext(ctx, recordCollectionsSchema); err != nil {
		return fmt.Errorf("ensure record_collections: %w", err)
	}
	return nil
}

// Read fetches the stored document for a collection.
func (b *PostgresCollectionBackend) Read(ctx context.Context, collection models.Collection) ([]byte, error) {
	var payload []byte
	if err := b.db.GetContext(ctx, &payload, `SELECT payload FROM record_collections WHERE name = $1`, string(collection)); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("select collection %s: %w", collection, err)
	}
	return payload, nil
}

// Write upserts the whole collection document in a single statement.
func (b *PostgresCollectionBackend) Write(ctx context.Context, collection models.Collection, payload []byte) error {
	const query = `INSERT INTO record_collections (name, payload, updated_at) VALUES ($1, $2, NOW())
ON CONFLICT (name) DO UPDATE SET payload = EXCLUDED.payload, updated_at = NOW()`
	if _, err := b.db.ExecContext(ctx, query, string(collection), string(payload)); err != nil {
		return fmt.Errorf("upsert collection %s: %w", collection, err)
	}
	return nil
}
