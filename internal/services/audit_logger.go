package services

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"budget-buddy/internal/models"
)

// AuditLogger records stand-in backend mutations as structured events
type AuditLogger struct {
	logger *slog.Logger
	now    func() time.Time
}

func NewAuditLogger(logger *slog.Logger) AuditLoggerInterface {
	return &AuditLogger{
		logger: logger,
		now:    time.Now,
	}
}

func (al *AuditLogger) LogTransactionUpdated(ctx context.Context, traceID string, before, after models.LedgerEntry) {
	attrs := []slog.Attr{
		slog.String("event_type", "transaction_updated"),
		slog.String("transaction_id", strconv.FormatUint(after.ID, 10)),
		slog.Time("timestamp", al.now()),
		slog.String("trace_id", traceID),
	}

	for _, change := range ledgerChanges(before, after) {
		attrs = append(attrs, slog.Group(change.field,
			slog.String("old", change.from),
			slog.String("new", change.to),
		))
	}

	al.logger.LogAttrs(ctx, slog.LevelInfo, "transaction updated", attrs...)
}

func (al *AuditLogger) LogTransactionDeleted(ctx context.Context, traceID string, transactionID uint64) {
	al.logger.InfoContext(ctx, "transaction deleted",
		slog.String("event_type", "transaction_deleted"),
		slog.String("transaction_id", strconv.FormatUint(transactionID, 10)),
		slog.Time("timestamp", al.now()),
		slog.String("trace_id", traceID),
	)
}

func (al *AuditLogger) LogMutationRejected(ctx context.Context, traceID, operation, transactionID, reason string) {
	al.logger.WarnContext(ctx, "transaction mutation rejected",
		slog.String("event_type", "transaction_mutation_rejected"),
		slog.String("operation", operation),
		slog.String("transaction_id", transactionID),
		slog.String("reason", reason),
		slog.Time("timestamp", al.now()),
		slog.String("trace_id", traceID),
	)
}

type fieldChange struct {
	field, from, to string
}

// ledgerChanges lists the editable fields whose values differ
func ledgerChanges(before, after models.LedgerEntry) []fieldChange {
	var changes []fieldChange
	add := func(field, from, to string) {
		if from != to {
			changes = append(changes, fieldChange{field, from, to})
		}
	}

	add("date", before.Date.Format(models.DateLayout), after.Date.Format(models.DateLayout))
	add("amount", before.Amount.StringFixed(2), after.Amount.StringFixed(2))
	add("description", deref(before.Description), deref(after.Description))
	add("category", deref(before.CategoryName), deref(after.CategoryName))
	add("account", before.AccountName, after.AccountName)

	return changes
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
