package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/curtesyflush1/booster-sub007/domain"
)

// CasbinMW enforces role policies on the routes it wraps; in this service
// that is the KMS admin surface.
type CasbinMW struct {
	enforcer domain.CasbinEnforcer
}

// NewCasbinMW creates the policy-enforcement middleware
func NewCasbinMW(enforcer domain.CasbinEnforcer) *CasbinMW {
	return &CasbinMW{enforcer: enforcer}
}

// Enforce returns the gin handler checking (role, path, method) against the
// loaded policies. It assumes AuthMW already ran and set user_role.
func (m *CasbinMW) Enforce() gin.HandlerFunc {
	return func(c *gin.Context) {
		role, ok := c.Get("user_role")
		if !ok {
			c.JSON(http.StatusForbidden, gin.H{"error": "Role not established"})
			c.Abort()
			return
		}

		subject := "role_" + role.(string)
		allowed, err := m.enforcer.Enforce(subject, c.Request.URL.Path, c.Request.Method)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Policy check failed"})
			c.Abort()
			return
		}
		if !allowed {
			c.JSON(http.StatusForbidden, gin.H{"error": "Insufficient permissions"})
			c.Abort()
			return
		}

		c.Next()
	}
}
