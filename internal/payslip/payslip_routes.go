package payslip

import (
	"go-payroll/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, rbacService middleware.RBACService) {
	payslips := r.Group("/payslips")
	payslips.Use(middleware.AuthMiddleware())
	{
		payslips.GET("", middleware.RBACAuthorize(rbacService, "payslip", "read"), handler.GetAll)
		payslips.GET("/:id", middleware.RBACAuthorize(rbacService, "payslip", "read"), handler.GetByID)
		payslips.GET("/:id/document", middleware.RBACAuthorize(rbacService, "payslip", "read"), handler.GetDocument)

		payslips.POST("", middleware.RBACAuthorize(rbacService, "payslip", "create"), handler.Create)
		payslips.POST("/:id/regenerate", middleware.RBACAuthorize(rbacService, "payslip", "create"), handler.Regenerate)
		payslips.POST("/:id/submit", middleware.RBACAuthorize(rbacService, "payslip", "submit"), handler.Submit)
		payslips.DELETE("/:id", middleware.RBACAuthorize(rbacService, "payslip", "delete"), handler.Delete)

		payslips.POST("/:id/approve", middleware.RBACAuthorize(rbacService, "payslip", "approve"), handler.Approve)
		payslips.POST("/:id/reject", middleware.RBACAuthorize(rbacService, "payslip", "approve"), handler.Reject)
		payslips.POST("/:id/cancel", middleware.RBACAuthorize(rbacService, "payslip", "approve"), handler.Cancel)

		payslips.POST("/:id/mark-paid", middleware.RBACAuthorize(rbacService, "payslip", "pay"), handler.MarkPaid)
		payslips.PATCH("/:id/payment-reference", middleware.RBACAuthorize(rbacService, "payslip", "pay"), handler.AnnotatePayment)
	}
}
