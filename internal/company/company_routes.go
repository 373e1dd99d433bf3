package company

import (
	"emplystack/internal/domain"
	"emplystack/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, rbacService middleware.RBACService, jwtSecret string) {
	company := r.Group("/companies")
	company.Use(middleware.AuthMiddleware(jwtSecret))
	{
		company.GET("/me",
			middleware.RateLimitByUser(2, 10),
			handler.GetMe,
		)

		company.PUT("/me",
			middleware.RateLimitByUser(0.1, 1),
			middleware.RBACAuthorize(rbacService, domain.ResourceCompany, domain.ActionUpdate),
			handler.UpdateMe,
		)

		// Subscriptions are managed by the platform operator, not the tenant.
		company.PUT("/:id/subscription",
			middleware.RoleMiddleware(domain.RoleSuperAdmin),
			handler.UpdateSubscription,
		)
	}
}
