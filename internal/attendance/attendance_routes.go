package attendance

import (
	"emplystack/internal/domain"
	"emplystack/internal/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	h *Handler,
	rbacService middleware.RBACService,
	jwtSecret string,
	logger *zap.Logger,
) {
	authorize := func(action string) gin.HandlerFunc {
		return middleware.RBACAuthorize(rbacService, domain.ResourceAttendance, action)
	}

	attendances := r.Group("/attendances")
	attendances.Use(middleware.AuthMiddleware(jwtSecret), middleware.ContextLogger(logger))
	{
		attendances.GET("", authorize(domain.ActionRead), h.GetAll)
		attendances.POST("/clock-in", middleware.RateLimitByUser(0.2, 2), authorize(domain.ActionCreate), h.ClockIn)
		attendances.POST("/clock-out", middleware.RateLimitByUser(0.2, 2), authorize(domain.ActionCreate), h.ClockOut)
		attendances.PUT("/records", authorize(domain.ActionUpdate), h.Record)
	}
}
