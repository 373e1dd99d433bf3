package user

import (
	"emplystack/internal/domain"
	"emplystack/internal/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService middleware.RBACService,
	jwtSecret string,
	logger *zap.Logger,
) {
	authorize := func(action string) gin.HandlerFunc {
		return middleware.RBACAuthorize(rbacService, domain.ResourceUser, action)
	}

	users := r.Group("/users")
	users.Use(middleware.AuthMiddleware(jwtSecret))
	users.Use(middleware.ContextLogger(logger))
	{
		users.PUT("/me/password", middleware.RateLimitByUser(0.2, 2), handler.ChangePassword)

		users.GET("", middleware.RateLimitByUser(3, 10), authorize(domain.ActionRead), handler.GetAll)
		users.GET("/:id", middleware.RateLimitByUser(3, 10), authorize(domain.ActionRead), handler.GetByID)
		users.POST("", middleware.RateLimitByUser(0.2, 2), authorize(domain.ActionCreate), handler.Create)
		users.PATCH("/:id/status", middleware.RateLimitByUser(0.5, 2), authorize(domain.ActionUpdate), handler.UpdateStatus)
		users.PATCH("/:id/role", middleware.RateLimitByUser(0.5, 2), authorize(domain.ActionUpdate), handler.UpdateRole)
		users.POST("/:id/reset-password", middleware.RateLimitByUser(0.5, 2), authorize(domain.ActionUpdate), handler.ResetPassword)
	}
}
