package contextutil_test

import (
	"context"
	"testing"

	"emplystack/internal/shared/contextutil"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestMetadata(t *testing.T) {
	ctx := contextutil.WithMetadata(context.Background(), contextutil.Metadata{
		UserID:    "user-1",
		CompanyID: "company-1",
	})
	ctx = contextutil.WithRequestID(ctx, "req-1")

	md := contextutil.ExtractMetadata(ctx)
	assert.Equal(t, contextutil.Metadata{RequestID: "req-1", UserID: "user-1", CompanyID: "company-1"}, md)
	assert.Equal(t, "req-1", contextutil.GetRequestID(ctx))

	assert.Empty(t, contextutil.GetRequestID(context.Background()))
}

func TestMetadata_Fields(t *testing.T) {
	assert.Empty(t, contextutil.Metadata{}.Fields())

	fields := contextutil.Metadata{RequestID: "req-1", CompanyID: "company-1"}.Fields()
	assert.Equal(t, []zap.Field{
		zap.String("request_id", "req-1"),
		zap.String("company_id", "company-1"),
	}, fields)
}

func TestGetLogger(t *testing.T) {
	fallback := zap.NewExample()
	scoped := zap.NewExample().Named("scoped")

	assert.Same(t, fallback, contextutil.GetLogger(context.Background(), fallback))

	ctx := contextutil.WithLogger(context.Background(), scoped)
	assert.Same(t, scoped, contextutil.GetLogger(ctx, fallback))

	assert.NotNil(t, contextutil.GetLogger(context.Background(), nil))
}
