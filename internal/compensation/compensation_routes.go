package compensation

import (
	"go-payroll/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, rbacService middleware.RBACService) {
	components := r.Group("/salary-components")
	components.Use(middleware.AuthMiddleware())
	{
		components.GET("", middleware.RBACAuthorize(rbacService, "compensation", "read"), handler.GetComponents)
		components.GET("/:id", middleware.RBACAuthorize(rbacService, "compensation", "read"), handler.GetComponentByID)
		components.POST("", middleware.RBACAuthorize(rbacService, "compensation", "write"), handler.CreateComponent)
	}

	entries := r.Group("/compensation-entries")
	entries.Use(middleware.AuthMiddleware())
	{
		entries.POST("", middleware.RBACAuthorize(rbacService, "compensation", "write"), handler.CreateEntry)
		entries.POST("/:id/end", middleware.RBACAuthorize(rbacService, "compensation", "write"), handler.EndEntry)
	}

	employees := r.Group("/employees")
	employees.Use(middleware.AuthMiddleware())
	{
		employees.GET("/:employee_id/compensation", middleware.RBACAuthorize(rbacService, "compensation", "read"), handler.GetEmployeeCompensation)
	}
}
