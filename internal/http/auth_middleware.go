package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"linkly/internal/service"
)

const authClaimsKey = "auth_claims"

// AuthMiddleware valida la cookie de access token y guarda los claims en el
// contexto. Si el access token no valida pero hay cookie de refresh, renueva
// el access token de forma transparente y sigue con el request original; el
// refresh token nunca rota aqui.
func AuthMiddleware(authServ *service.AuthService, codec *service.TokenCodec, cookies CookiePolicy) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(accessCookieName)
		if err != nil || token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized access"})
			c.Abort()
			return
		}

		claims, err := codec.VerifyAccess(token)
		if err == nil {
			c.Set(authClaimsKey, claims)
			c.Next()
			return
		}

		refreshToken, err := c.Cookie(refreshCookieName)
		if err != nil || refreshToken == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized access"})
			c.Abort()
			return
		}

		newAccess, user, err := authServ.RefreshAccess(c.Request.Context(), refreshToken)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized access"})
			c.Abort()
			return
		}

		cookies.set(c, accessCookieName, newAccess)
		c.Set(authClaimsKey, service.NewSessionClaims(user))
		c.Next()
	}
}

// GetAuthClaims obtiene los claims de sesion desde el contexto.
func GetAuthClaims(c *gin.Context) (service.SessionClaims, bool) {
	val, ok := c.Get(authClaimsKey)
	if !ok {
		return service.SessionClaims{}, false
	}
	claims, ok := val.(service.SessionClaims)
	return claims, ok
}
