package middleware

import (
	"net/http"

	"github.com/palko-app/rentmanager/internal/apiserver/database"

	"github.com/gin-gonic/gin"
)

const tenantKey = "tenant"

// AdminOnly allows only users with the administrator role
func AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := ClaimsFromContext(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		if claims.Role != string(database.RoleAdmin) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "administrators only"})
			return
		}
		c.Next()
	}
}

// TenantGate is the portal access gate, evaluated once per request.
// Administrators are redirected to the back-office without any portal
// side effects; everyone else must resolve to a Tenant record, which is
// stored in the request context for the handlers.
func TenantGate(db database.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := ClaimsFromContext(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		if claims.Role == string(database.RoleAdmin) {
			c.Redirect(http.StatusTemporaryRedirect, "/api/admin")
			c.Abort()
			return
		}

		tenant, err := db.GetTenantByUserID(c.Request.Context(), claims.UserID)
		if err != nil {
			if database.IsNotFound(err) {
				c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "tenant profile not found"})
				return
			}
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.Set(tenantKey, tenant)
		c.Next()
	}
}

// TenantFromContext returns the Tenant resolved by TenantGate
func TenantFromContext(c *gin.Context) (*database.Tenant, bool) {
	v, exists := c.Get(tenantKey)
	if !exists {
		return nil, false
	}
	tenant, ok := v.(*database.Tenant)
	return tenant, ok
}
