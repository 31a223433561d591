package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"
	"github.com/vcscsvcscs/vitals-tracker/internal/vitals"
	"github.com/vcscsvcscs/vitals-tracker/pkg/model"
	"go.uber.org/zap"
)

// DefaultTable holds the documents when no table is configured
const DefaultTable = "vital_signs_documents"

// PostgresStore keeps submissions as JSON documents in a single table,
// offering the same list/append contract as the REST endpoint.
type PostgresStore struct {
	db     *pgxpool.Pool
	table  string
	logger *zap.Logger
}

// NewPostgresStore creates a new PostgresStore
func NewPostgresStore(db *pgxpool.Pool, table string, logger *zap.Logger) *PostgresStore {
	if table == "" {
		table = DefaultTable
	}
	return &PostgresStore{
		db:     db,
		table:  pq.QuoteIdentifier(table),
		logger: logger,
	}
}

// Migrate creates the document table when missing
func (s *PostgresStore) Migrate(ctx context.Context) error {
	query := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			key TEXT PRIMARY KEY,
			document JSONB NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`, s.table)

	if _, err := s.db.Exec(ctx, query); err != nil {
		s.logger.Error("failed to migrate document table", zap.Error(err), zap.String("table", s.table))
		return fmt.Errorf("failed to migrate document table: %w", err)
	}
	return nil
}

// List returns every stored document ordered by key
func (s *PostgresStore) List(ctx context.Context) (raw vitals.RawCollection, err error) {
	defer func() { observe(BackendPostgres, "list", err) }()

	query := fmt.Sprintf(`SELECT key, document FROM %s ORDER BY key`, s.table)

	rows, err := s.db.Query(ctx, query)
	if err != nil {
		s.logger.Error("failed to list vital signs documents", zap.Error(err))
		return nil, fmt.Errorf("failed to list vital signs: %w: %w", ErrStoreUnavailable, err)
	}
	defer rows.Close()

	raw = vitals.RawCollection{}
	for rows.Next() {
		var (
			key string
			doc []byte
		)
		if err := rows.Scan(&key, &doc); err != nil {
			s.logger.Error("failed to scan vital signs document", zap.Error(err))
			return nil, fmt.Errorf("failed to scan vital signs: %w: %w", ErrStoreUnavailable, err)
		}
		raw = append(raw, vitals.ParseEntry(key, json.RawMessage(doc)))
	}

	if err := rows.Err(); err != nil {
		s.logger.Error("error iterating vital signs documents", zap.Error(err))
		return nil, fmt.Errorf("failed to list vital signs: %w: %w", ErrStoreUnavailable, err)
	}

	return raw, nil
}

// Append stores a document under a new time-ordered key
func (s *PostgresStore) Append(ctx context.Context, doc model.VitalSignsDocument) (key string, err error) {
	defer func() { observe(BackendPostgres, "append", err) }()

	id, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("failed to generate document key: %w", err)
	}
	key = id.String()

	payload, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("failed to marshal vital signs: %w", err)
	}

	query := fmt.Sprintf(`INSERT INTO %s (key, document, created_at) VALUES ($1, $2, NOW())`, s.table)
	if _, err := s.db.Exec(ctx, query, key, payload); err != nil {
		s.logger.Error("failed to insert vital signs document", zap.Error(err), zap.String("key", key))
		return "", fmt.Errorf("failed to append vital signs: %w: %w", ErrStoreUnavailable, err)
	}

	s.logger.Info("vital signs appended", zap.String("key", key))
	return key, nil
}
