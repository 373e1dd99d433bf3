package payroll

import (
	"emplystack/internal/domain"
	"emplystack/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService middleware.RBACService,
	subscriptions middleware.SubscriptionChecker,
	jwtSecret string,
	rdb *redis.Client,
	logger *zap.Logger,
) {
	authorize := func(action string) gin.HandlerFunc {
		return middleware.RBACAuthorize(rbacService, domain.ResourcePayroll, action)
	}

	payrolls := r.Group("/payroll")
	payrolls.Use(
		middleware.AuthMiddleware(jwtSecret),
		middleware.ContextLogger(logger),
		middleware.RequireActiveSubscription(subscriptions),
	)
	{
		generate := []gin.HandlerFunc{middleware.RateLimitByUser(0.2, 2), authorize(domain.ActionGenerate)}
		if rdb != nil {
			generate = append(generate, middleware.Idempotency(rdb))
		}
		payrolls.POST("/generate", append(generate, handler.Generate)...)

		payrolls.GET("", authorize(domain.ActionRead), handler.GetAll)
		payrolls.GET("/export", authorize(domain.ActionExport), handler.Export)
		payrolls.GET("/:id", authorize(domain.ActionRead), handler.GetByID)
		payrolls.GET("/:id/payslip/download", authorize(domain.ActionRead), handler.DownloadPayslip)
		payrolls.PATCH("/:id", authorize(domain.ActionUpdate), handler.Adjust)
		payrolls.POST("/:id/mark-paid", authorize(domain.ActionPay), handler.MarkAsPaid)
		payrolls.POST("/:id/cancel", authorize(domain.ActionUpdate), handler.Cancel)
	}
}
