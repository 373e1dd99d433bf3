package contextutil

import (
	"context"

	"go.uber.org/zap"
)

type ctxKey int

const (
	metadataKey ctxKey = iota
	loggerKey
)

// Metadata identifies a request and its caller. Services, the outbox and
// the audit log read it without knowing about gin.
type Metadata struct {
	RequestID string
	UserID    string
	CompanyID string
}

// Fields returns the non-empty values as zap fields.
func (m Metadata) Fields() []zap.Field {
	fields := make([]zap.Field, 0, 3)
	if m.RequestID != "" {
		fields = append(fields, zap.String("request_id", m.RequestID))
	}
	if m.UserID != "" {
		fields = append(fields, zap.String("user_id", m.UserID))
	}
	if m.CompanyID != "" {
		fields = append(fields, zap.String("company_id", m.CompanyID))
	}
	return fields
}

func WithMetadata(ctx context.Context, md Metadata) context.Context {
	return context.WithValue(ctx, metadataKey, md)
}

// ExtractMetadata returns the zero Metadata when none was stored.
func ExtractMetadata(ctx context.Context) Metadata {
	if ctx == nil {
		return Metadata{}
	}
	md, _ := ctx.Value(metadataKey).(Metadata)
	return md
}

// WithRequestID sets the request id and keeps the other metadata.
func WithRequestID(ctx context.Context, rid string) context.Context {
	md := ExtractMetadata(ctx)
	md.RequestID = rid
	return WithMetadata(ctx, md)
}

func GetRequestID(ctx context.Context) string {
	return ExtractMetadata(ctx).RequestID
}

func WithLogger(ctx context.Context, logger *zap.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// GetLogger prefers the request logger, then defaultLogger, then a no-op.
func GetLogger(ctx context.Context, defaultLogger *zap.Logger) *zap.Logger {
	if ctx != nil {
		if l, ok := ctx.Value(loggerKey).(*zap.Logger); ok && l != nil {
			return l
		}
	}
	if defaultLogger != nil {
		return defaultLogger
	}
	return zap.NewNop()
}
