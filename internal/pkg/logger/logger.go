// Package logger enriches the request-scoped zap logger carried in a context.
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

// WithAction names the flow being handled, e.g. "ChatQuery".
func WithAction(ctx context.Context, action string) context.Context {
	return AddFields(ctx, zap.String("action", action))
}

// WithSession tags the logger with the conversation a request belongs to.
func WithSession(ctx context.Context, action, sessionID string) context.Context {
	return AddFields(ctx, zap.String("action", action), zap.String("session_id", sessionID))
}

// WithReport tags the logger with the report whose corpus a request targets.
// The default corpus is left untagged.
func WithReport(ctx context.Context, reportID string) context.Context {
	if reportID == "" {
		return ctx
	}
	return AddFields(ctx, zap.String("report_id", reportID))
}
