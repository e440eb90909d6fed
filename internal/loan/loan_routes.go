package loan

import (
	"go-payroll/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, rbacService middleware.RBACService) {
	loans := r.Group("/loans")
	loans.Use(middleware.AuthMiddleware())
	{
		loans.GET("/:id", middleware.RBACAuthorize(rbacService, "loan", "read"), handler.GetByID)
		loans.POST("", middleware.RBACAuthorize(rbacService, "loan", "write"), handler.Create)
		loans.POST("/:id/approve", middleware.RBACAuthorize(rbacService, "loan", "approve"), handler.Approve)
		loans.POST("/:id/reject", middleware.RBACAuthorize(rbacService, "loan", "approve"), handler.Reject)
	}

	employees := r.Group("/employees")
	employees.Use(middleware.AuthMiddleware())
	{
		employees.GET("/:employee_id/loans", middleware.RBACAuthorize(rbacService, "loan", "read"), handler.GetEmployeeLoans)
	}
}
