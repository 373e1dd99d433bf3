package middleware

import (
	"context"
	"net/http"

	"emplystack/internal/shared/apperror"
	"emplystack/internal/shared/contextutil"
	"emplystack/internal/shared/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SubscriptionChecker is satisfied by company.Service.
type SubscriptionChecker interface {
	HasActiveSubscription(ctx context.Context, companyID string) (bool, error)
}

// RequireActiveSubscription blocks tenants whose subscription lapsed with 402.
func RequireActiveSubscription(checker SubscriptionChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		companyID := c.GetString("company_id")
		if companyID == "" {
			abortWithAppError(c, apperror.ErrUnauthorized)
			return
		}

		active, err := checker.HasActiveSubscription(c.Request.Context(), companyID)
		if err != nil {
			contextutil.GetLogger(c.Request.Context(), zap.L()).Error("subscription check failed",
				zap.String("company_id", companyID),
				zap.Error(err),
			)
			abortWithAppError(c, apperror.ErrInternal)
			return
		}

		if !active {
			response.Error(c, http.StatusPaymentRequired, apperror.CodeSubscriptionInactive,
				"company subscription is not active", nil)
			c.Abort()
			return
		}

		c.Next()
	}
}
