package ratetable

import (
	"go-payroll/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, rbacService middleware.RBACService) {
	tables := r.Group("/rate-tables")
	tables.Use(middleware.AuthMiddleware())
	{
		tables.GET("", middleware.RBACAuthorize(rbacService, "rate_table", "read"), handler.GetAll)
		tables.GET("/:year", middleware.RBACAuthorize(rbacService, "rate_table", "read"), handler.GetByYear)
		tables.POST("", middleware.RBACAuthorize(rbacService, "rate_table", "publish"), handler.Publish)
		tables.POST("/:year/reload", middleware.RBACAuthorize(rbacService, "rate_table", "publish"), handler.Reload)
	}
}
