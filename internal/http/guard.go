package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RoleAllowed es el predicado puro del guard: true si role pertenece al
// conjunto permitido.
func RoleAllowed(role string, permitted []string) bool {
	for _, p := range permitted {
		if role == p {
			return true
		}
	}
	return false
}

// RequireRoles corta con 403 cuando el role de la sesion no esta en la
// lista. Debe montarse despues de AuthMiddleware.
func RequireRoles(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := GetAuthClaims(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized access"})
			c.Abort()
			return
		}
		if !RoleAllowed(claims.Role, roles) {
			c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
			c.Abort()
			return
		}
		c.Next()
	}
}
