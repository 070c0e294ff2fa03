// Package logger carries a request-scoped zap logger through context.
package logger

import (
	"context"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// AddFields returns a context whose logger carries fields.
func AddFields(ctx context.Context, fields ...zap.Field) context.Context {
	return ctxzap.ToContext(ctx, ctxzap.Extract(ctx).With(fields...))
}

// WithAction names the flow being logged, e.g. "SubmitAnswer".
func WithAction(ctx context.Context, action string) context.Context {
	return AddFields(ctx, zap.String("action", action))
}

// WithSubject tags the logger with the caller that owns the data.
func WithSubject(ctx context.Context, subjectID string) context.Context {
	return AddFields(ctx, zap.String("subject_id", subjectID))
}
