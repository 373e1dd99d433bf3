package middleware

import (
	"strings"
	"unicode"

	"emplystack/internal/shared/contextutil"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	RequestIDHeader = "X-Request-ID"
	maxRequestIDLen = 128
)

// ContextLogger copies the request identity into the request context and
// stores a logger tagged with it. Placed after AuthMiddleware it also picks
// up the user and company.
func ContextLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		md := contextutil.Metadata{
			RequestID: requestID(c.GetHeader(RequestIDHeader)),
			UserID:    c.GetString("user_id"),
			CompanyID: c.GetString("company_id"),
		}
		c.Header(RequestIDHeader, md.RequestID)
		c.Set("request_id", md.RequestID)

		ctx := contextutil.WithMetadata(c.Request.Context(), md)
		ctx = contextutil.WithLogger(ctx, logger.With(md.Fields()...))
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// requestID keeps a caller-supplied id only if it is short and printable,
// since it ends up in logs and outbox rows.
func requestID(header string) string {
	header = strings.TrimSpace(header)
	if header == "" || len(header) > maxRequestIDLen {
		return uuid.NewString()
	}
	if strings.ContainsFunc(header, func(r rune) bool { return !unicode.IsPrint(r) }) {
		return uuid.NewString()
	}
	return header
}
