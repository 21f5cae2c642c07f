package service

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"linkly/internal/domain"
)

// TokenCodec firma y valida los dos tipos de token de sesion. Access y
// refresh usan secretos independientes, por lo que un token de una clase
// nunca valida contra la otra.
type TokenCodec struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
	issuer        string
}

// SessionClaims es el claim set embebido en cada token firmado. Se
// reconstruye desde el registro de usuario en cada firma, nunca se persiste.
type SessionClaims struct {
	UserID       string `json:"id"`
	Name         string `json:"name,omitempty"`
	Username     string `json:"username"`
	Role         string `json:"role"`
	AdminID      string `json:"adminId,omitempty"`
	Credits      int64  `json:"credits"`
	Subscription string `json:"subscription,omitempty"`
	jwt.RegisteredClaims
}

// ErrTokenInvalid cubre firma incorrecta, token malformado y expiracion.
// Los callers que fallan aqui pasan al flujo de refresh, sin distincion.
var ErrTokenInvalid = errors.New("token invalid")

func NewTokenCodec(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration) *TokenCodec {
	if accessTTL <= 0 {
		accessTTL = time.Hour
	}
	if refreshTTL <= 0 {
		refreshTTL = 7 * 24 * time.Hour
	}
	return &TokenCodec{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
		issuer:        "linkly",
	}
}

// NewSessionClaims construye el claim set desde el registro actual del
// usuario. Un role vacio se trata como "admin": las cuentas anteriores al
// campo role dependen de este default.
func NewSessionClaims(user domain.User) SessionClaims {
	role := user.Role
	if role == "" {
		role = "admin"
	}
	return SessionClaims{
		UserID:       user.ID,
		Name:         user.Name,
		Username:     user.Email,
		Role:         role,
		AdminID:      user.AdminID,
		Credits:      user.Credits,
		Subscription: user.Subscription,
	}
}

func (c *TokenCodec) SignAccess(claims SessionClaims) (string, error) {
	return c.sign(claims, c.accessSecret, c.accessTTL)
}

func (c *TokenCodec) SignRefresh(claims SessionClaims) (string, error) {
	return c.sign(claims, c.refreshSecret, c.refreshTTL)
}

func (c *TokenCodec) VerifyAccess(token string) (SessionClaims, error) {
	return c.verify(token, c.accessSecret)
}

func (c *TokenCodec) VerifyRefresh(token string) (SessionClaims, error) {
	return c.verify(token, c.refreshSecret)
}

func (c *TokenCodec) sign(claims SessionClaims, secret []byte, ttl time.Duration) (string, error) {
	if len(secret) == 0 {
		return "", ErrTokenInvalid
	}
	now := time.Now().UTC()
	claims.RegisteredClaims = jwt.RegisteredClaims{
		Issuer:    c.issuer,
		Subject:   claims.UserID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

func (c *TokenCodec) verify(tokenString string, secret []byte) (SessionClaims, error) {
	if len(secret) == 0 || strings.TrimSpace(tokenString) == "" {
		return SessionClaims{}, ErrTokenInvalid
	}
	var claims SessionClaims
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	_, err := parser.ParseWithClaims(tokenString, &claims, func(_ *jwt.Token) (any, error) {
		return secret, nil
	})
	if err != nil {
		return SessionClaims{}, ErrTokenInvalid
	}
	if !c.isValidClaims(claims) {
		return SessionClaims{}, ErrTokenInvalid
	}
	return claims, nil
}

func (c *TokenCodec) isValidClaims(claims SessionClaims) bool {
	if strings.TrimSpace(claims.UserID) == "" {
		return false
	}
	if strings.TrimSpace(claims.Subject) == "" {
		return false
	}
	if claims.Subject != claims.UserID {
		return false
	}
	return strings.TrimSpace(claims.Issuer) == c.issuer
}
