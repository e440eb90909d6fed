package payrollbatch

import (
	"go-payroll/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService middleware.RBACService,
	rdb ...*redis.Client,
) {
	var redisClient *redis.Client
	if len(rdb) > 0 {
		redisClient = rdb[0]
	}

	batches := r.Group("/payroll-batches")
	batches.Use(middleware.AuthMiddleware())
	{
		batches.GET("", middleware.RBACAuthorize(rbacService, "payroll_batch", "read"), handler.GetAll)
		batches.GET("/:id", middleware.RBACAuthorize(rbacService, "payroll_batch", "read"), handler.GetByID)
		if redisClient != nil {
			batches.POST(
				"",
				middleware.Idempotency(redisClient),
				middleware.RBACAuthorize(rbacService, "payroll_batch", "run"),
				handler.Run,
			)
		} else {
			batches.POST("", middleware.RBACAuthorize(rbacService, "payroll_batch", "run"), handler.Run)
		}
	}
}
