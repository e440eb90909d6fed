package middleware

import (
	"go-payroll/internal/rbac"
	"go-payroll/internal/shared/apperror"
	"go-payroll/internal/shared/response"

	"github.com/gin-gonic/gin"
)

type RBACService interface {
	Enforce(req rbac.EnforceRequest) (bool, error)
}

// RBACAuthorize checks the role claim set by AuthMiddleware. A nil service
// disables the check.
func RBACAuthorize(service RBACService, resource, action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if service == nil {
			c.Next()
			return
		}

		allowed, err := service.Enforce(rbac.EnforceRequest{
			Role:     c.GetString("role"),
			Resource: resource,
			Action:   action,
		})
		if err != nil {
			response.FromError(c, apperror.WithDetail(apperror.ErrInternal, err))
			c.Abort()
			return
		}
		if !allowed {
			response.FromError(c, apperror.ErrForbidden)
			c.Abort()
			return
		}

		c.Next()
	}
}
