package services

import (
	"context"
	"time"

	"budget-buddy/internal/dto"
	"budget-buddy/internal/models"
)

// TransactionAPIInterface is the client side of the transactions REST API
type TransactionAPIInterface interface {
	// List returns the records matching the filters, in server order
	List(ctx context.Context, filters models.TransactionFilters) ([]models.Transaction, error)

	// Update replaces the editable fields of one record
	Update(ctx context.Context, request dto.UpdateTransactionRequest) error

	// Delete removes one record by id
	Delete(ctx context.Context, id string) error
}

// MetricsRecorderInterface defines the contract for recording metrics
type MetricsRecorderInterface interface {
	IncrementCounter(name string, tags map[string]string)
	RecordProcessingTime(name string, duration time.Duration)
	RecordGauge(name string, value float64, tags map[string]string)
}

// TokenServiceInterface issues and checks the stand-in backend's bearer tokens
type TokenServiceInterface interface {
	GenerateAccessToken(subject string) (string, time.Time, error)
	ValidateAccessToken(tokenString string) (*models.APIClaims, error)
	ExtractTokenFromHeader(authHeader string) (string, error)
}

// AuditLoggerInterface records stand-in backend mutations
type AuditLoggerInterface interface {
	LogTransactionUpdated(ctx context.Context, traceID string, before, after models.LedgerEntry)
	LogTransactionDeleted(ctx context.Context, traceID string, transactionID uint64)
	LogMutationRejected(ctx context.Context, traceID, operation, transactionID, reason string)
}
