package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	accessCookieName  = "jwtToken"
	refreshCookieName = "refreshToken"
)

// CookiePolicy decide los atributos de las cookies de sesion. En produccion
// son secure con SameSite=None para el frontend cross-site; en desarrollo
// local quedan en Lax sin secure.
type CookiePolicy struct {
	Secure bool
}

func (p CookiePolicy) set(c *gin.Context, name, value string) {
	if p.Secure {
		c.SetSameSite(http.SameSiteNoneMode)
	} else {
		c.SetSameSite(http.SameSiteLaxMode)
	}
	c.SetCookie(name, value, 0, "/", "", p.Secure, true)
}

func (p CookiePolicy) clear(c *gin.Context, name string) {
	if p.Secure {
		c.SetSameSite(http.SameSiteNoneMode)
	} else {
		c.SetSameSite(http.SameSiteLaxMode)
	}
	c.SetCookie(name, "", -1, "/", "", p.Secure, true)
}
