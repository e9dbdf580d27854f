package logging

import (
	"context"
	"log/slog"
)

const (
	// FieldComponent is the standardized structured logging key for component names.
	FieldComponent = "component"
	// FieldRunID identifies one dedupe batch run.
	FieldRunID = "run_id"
	// FieldISBN is the identifier under resolution.
	FieldISBN = "isbn"
	// FieldTitleID is a catalog title identity.
	FieldTitleID = "title_id"
	// FieldWorker is the 0-based index of the pool worker handling a group.
	FieldWorker = "worker"
	// FieldEventType classifies warnings and errors for filtering.
	FieldEventType = "event_type"
	// FieldErrorHint suggests the next step for an operator.
	FieldErrorHint = "error_hint"
	// FieldImpact is the standardized key for user-facing consequence of a warning.
	FieldImpact = "impact"
	// FieldAlert flags warnings or anomalies that should stand out in structured logs.
	FieldAlert = "alert"

	FieldDecisionType   = "decision_type"
	FieldDecisionResult = "decision_result"
	FieldDecisionReason = "decision_reason"
)

type contextKey int

const (
	runIDKey contextKey = iota
	isbnKey
)

// WithRunID tags ctx with a batch run identifier.
func WithRunID(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, runIDKey, runID)
}

// RunIDFromContext returns the run identifier stored by WithRunID.
func RunIDFromContext(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	value, ok := ctx.Value(runIDKey).(string)
	return value, ok && value != ""
}

// WithISBN tags ctx with the identifier currently being resolved.
func WithISBN(ctx context.Context, isbn string) context.Context {
	return context.WithValue(ctx, isbnKey, isbn)
}

// ISBNFromContext returns the identifier stored by WithISBN.
func ISBNFromContext(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	value, ok := ctx.Value(isbnKey).(string)
	return value, ok && value != ""
}

// ContextFields extracts standardized slog attributes from the provided context.
func ContextFields(ctx context.Context) []slog.Attr {
	if ctx == nil {
		return nil
	}
	fields := make([]slog.Attr, 0, 2)
	if id, ok := RunIDFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldRunID, id))
	}
	if isbn, ok := ISBNFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldISBN, isbn))
	}
	return fields
}

// WithContext returns a logger augmented with structured fields derived from the supplied context.
func WithContext(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	fields := ContextFields(ctx)
	if len(fields) == 0 {
		return logger
	}
	return logger.With(Args(fields...)...)
}
