package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"
	"go.uber.org/zap"
)

// OperationType represents the type of operation performed
type OperationType string

const (
	OperationCreate OperationType = "CREATE"
	OperationRead   OperationType = "READ"
	OperationDelete OperationType = "DELETE"
)

// ResourceType represents the type of resource being accessed
type ResourceType string

const (
	ResourceVitalSigns ResourceType = "vital_signs"
	ResourceReport     ResourceType = "report"
	ResourceTranscript ResourceType = "assistant_transcript"
)

// DefaultTable holds audit entries when no table is configured
const DefaultTable = "audit_logs"

// Entry represents an audit log entry
type Entry struct {
	OperationType  OperationType
	ResourceType   ResourceType
	ResourceID     string
	RequestID      string
	Timestamp      time.Time
	IPAddress      string
	UserAgent      string
	AdditionalData map[string]interface{}
}

// Sink persists audit entries beyond the structured log
type Sink interface {
	Write(ctx context.Context, entry Entry) error
}

// Logger handles audit logging
type Logger struct {
	sink   Sink
	logger *zap.Logger
	now    func() time.Time
}

// NewLogger creates a new audit logger. A nil sink keeps entries in the log only.
func NewLogger(sink Sink, logger *zap.Logger) *Logger {
	return &Logger{
		sink:   sink,
		logger: logger,
		now:    time.Now,
	}
}

// Log writes an audit entry to the structured log and the sink
func (l *Logger) Log(ctx context.Context, entry Entry) error {
	if entry.Timestamp.IsZero() {
		entry.Timestamp = l.now()
	}

	l.logger.Info("Audit log entry",
		zap.String("operation", string(entry.OperationType)),
		zap.String("resource_type", string(entry.ResourceType)),
		zap.String("resource_id", entry.ResourceID),
		zap.String("request_id", entry.RequestID),
		zap.Time("timestamp", entry.Timestamp),
		zap.String("ip_address", entry.IPAddress),
		zap.Any("additional_data", entry.AdditionalData),
	)

	if l.sink == nil {
		return nil
	}
	if err := l.sink.Write(ctx, entry); err != nil {
		l.logger.Error("Failed to persist audit log",
			zap.Error(err),
			zap.String("operation", string(entry.OperationType)),
			zap.String("resource_type", string(entry.ResourceType)),
		)
		return fmt.Errorf("failed to persist audit log: %w", err)
	}
	return nil
}

// LogCreate logs a CREATE operation
func (l *Logger) LogCreate(ctx context.Context, resourceType ResourceType, resourceID, requestID, ipAddress, userAgent string) error {
	return l.Log(ctx, Entry{
		OperationType: OperationCreate,
		ResourceType:  resourceType,
		ResourceID:    resourceID,
		RequestID:     requestID,
		IPAddress:     ipAddress,
		UserAgent:     userAgent,
	})
}

// LogDelete logs a DELETE operation
func (l *Logger) LogDelete(ctx context.Context, resourceType ResourceType, resourceID, requestID, ipAddress, userAgent string) error {
	return l.Log(ctx, Entry{
		OperationType: OperationDelete,
		ResourceType:  resourceType,
		ResourceID:    resourceID,
		RequestID:     requestID,
		IPAddress:     ipAddress,
		UserAgent:     userAgent,
	})
}

// PostgresSink stores audit entries in a table next to the document store
type PostgresSink struct {
	db    *pgxpool.Pool
	table string
}

// NewPostgresSink creates a new PostgresSink
func NewPostgresSink(db *pgxpool.Pool, table string) *PostgresSink {
	if table == "" {
		table = DefaultTable
	}
	return &PostgresSink{db: db, table: pq.QuoteIdentifier(table)}
}

// Migrate creates the audit table when missing
func (s *PostgresSink) Migrate(ctx context.Context) error {
	query := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id BIGSERIAL PRIMARY KEY,
			operation_type TEXT NOT NULL,
			resource_type TEXT NOT NULL,
			resource_id TEXT NOT NULL,
			request_id TEXT NOT NULL,
			timestamp TIMESTAMPTZ NOT NULL,
			ip_address TEXT NOT NULL,
			user_agent TEXT NOT NULL,
			additional_data JSONB
		)`, s.table)

	if _, err := s.db.Exec(ctx, query); err != nil {
		return fmt.Errorf("failed to migrate audit table: %w", err)
	}
	return nil
}

// Write inserts one entry
func (s *PostgresSink) Write(ctx context.Context, entry Entry) error {
	var data []byte
	if len(entry.AdditionalData) > 0 {
		var err error
		if data, err = json.Marshal(entry.AdditionalData); err != nil {
			return fmt.Errorf("failed to marshal audit data: %w", err)
		}
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (
			operation_type, resource_type, resource_id, request_id,
			timestamp, ip_address, user_agent, additional_data
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, s.table)

	_, err := s.db.Exec(ctx, query,
		string(entry.OperationType),
		string(entry.ResourceType),
		entry.ResourceID,
		entry.RequestID,
		entry.Timestamp,
		entry.IPAddress,
		entry.UserAgent,
		data,
	)
	if err != nil {
		return fmt.Errorf("failed to insert audit log: %w", err)
	}
	return nil
}
