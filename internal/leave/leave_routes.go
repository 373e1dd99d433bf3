package leave

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
		return middleware.RBACAuthorize(rbacService, domain.ResourceLeave, action)
	}

	leaves := r.Group("/leaves")
	leaves.Use(middleware.AuthMiddleware(jwtSecret), middleware.ContextLogger(logger))
	{
		leaves.GET("", authorize(domain.ActionRead), handler.GetAll)
		leaves.GET("/:id", authorize(domain.ActionRead), handler.GetByID)
		leaves.POST("", middleware.RateLimitByUser(0.2, 2), authorize(domain.ActionCreate), handler.Create)
		leaves.POST("/:id/approve", authorize(domain.ActionApprove), handler.Approve)
		leaves.POST("/:id/reject", authorize(domain.ActionApprove), handler.Reject)
		leaves.POST("/:id/cancel", authorize(domain.ActionCreate), handler.Cancel)
	}
}
