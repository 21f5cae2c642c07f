package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"linkly/internal/service"
)

// AuthHandler mantiene dependencias para los endpoints de autenticacion.
type AuthHandler struct {
	logger       *zap.Logger
	authServ     *service.AuthService
	resetServ    *service.ResetService
	codec        *service.TokenCodec
	cookies      CookiePolicy
	clearRefresh bool
}

// NewAuthHandler crea una instancia de AuthHandler. clearRefresh decide si
// el logout limpia tambien la cookie de refresh; por defecto solo se limpia
// la de access, igual que el comportamiento historico.
func NewAuthHandler(logger *zap.Logger, authServ *service.AuthService, resetServ *service.ResetService, codec *service.TokenCodec, cookies CookiePolicy, clearRefresh bool) *AuthHandler {
	return &AuthHandler{
		logger:       logger,
		authServ:     authServ,
		resetServ:    resetServ,
		codec:        codec,
		cookies:      cookies,
		clearRefresh: clearRefresh,
	}
}

// Login maneja POST /auth/login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid login request", zap.Error(err))
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid credentials"})
		return
	}

	user, err := h.authServ.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid credentials"})
			return
		}
		h.logger.Error("login failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	claims := service.NewSessionClaims(user)
	access, err := h.codec.SignAccess(claims)
	if err != nil {
		h.logger.Error("sign access token failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	refresh, err := h.codec.SignRefresh(claims)
	if err != nil {
		h.logger.Error("sign refresh token failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	h.cookies.set(c, accessCookieName, access)
	h.cookies.set(c, refreshCookieName, refresh)
	c.JSON(http.StatusOK, gin.H{"user": claims, "message": "User authenticated"})
}

// Register maneja POST /auth/register. Solo emite el access token: el
// refresh token queda reservado para el login.
func (h *AuthHandler) Register(c *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required,email"`
		Password string `json:"password" binding:"required"`
		Name     string `json:"name"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid register request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid request"})
		return
	}

	user, err := h.authServ.Register(c.Request.Context(), req.Username, req.Password, req.Name)
	if err != nil {
		if errors.Is(err, service.ErrDuplicateAccount) {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Account already exist with given email"})
			return
		}
		h.logger.Error("register failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
		return
	}

	claims := service.NewSessionClaims(user)
	access, err := h.codec.SignAccess(claims)
	if err != nil {
		h.logger.Error("sign access token failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
		return
	}

	h.cookies.set(c, accessCookieName, access)
	c.JSON(http.StatusOK, gin.H{"user": claims, "message": "User registered"})
}

// GoogleAuth maneja POST /auth/google.
func (h *AuthHandler) GoogleAuth(c *gin.Context) {
	var req struct {
		IDToken string `json:"idToken"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.IDToken == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid request"})
		return
	}

	user, err := h.authServ.GoogleLogin(c.Request.Context(), req.IDToken)
	if err != nil {
		if errors.Is(err, service.ErrInvalidRequest) {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid request"})
			return
		}
		h.logger.Error("google auth failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}

	claims := service.NewSessionClaims(user)
	access, err := h.codec.SignAccess(claims)
	if err != nil {
		h.logger.Error("sign access token failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}
	refresh, err := h.codec.SignRefresh(claims)
	if err != nil {
		h.logger.Error("sign refresh token failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}

	h.cookies.set(c, accessCookieName, access)
	h.cookies.set(c, refreshCookieName, refresh)
	c.JSON(http.StatusOK, gin.H{"user": claims, "message": "User authenticated"})
}

// Logout maneja GET /auth/logout.
func (h *AuthHandler) Logout(c *gin.Context) {
	h.cookies.clear(c, accessCookieName)
	if h.clearRefresh {
		h.cookies.clear(c, refreshCookieName)
	}
	c.JSON(http.StatusOK, gin.H{"message": "Logout successful"})
}

// IsUserLoggedIn maneja GET /auth/is-user-logged-in. Con access token
// valido devuelve el usuario recargado del store; con access invalido pero
// refresh valido renueva solo la cookie de access.
func (h *AuthHandler) IsUserLoggedIn(c *gin.Context) {
	token, err := c.Cookie(accessCookieName)
	if err != nil || token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized access"})
		return
	}

	claims, err := h.codec.VerifyAccess(token)
	if err == nil {
		user, err := h.authServ.CurrentUser(c.Request.Context(), claims.UserID)
		if err != nil {
			if errors.Is(err, service.ErrUserNotFound) {
				c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized access"})
				return
			}
			h.logger.Error("load current user failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "User is logged in", "user": user})
		return
	}

	refreshToken, err := c.Cookie(refreshCookieName)
	if err != nil || refreshToken == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized access"})
		return
	}

	newAccess, user, err := h.authServ.RefreshAccess(c.Request.Context(), refreshToken)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized access"})
		return
	}

	h.cookies.set(c, accessCookieName, newAccess)
	c.JSON(http.StatusOK, gin.H{"message": "User is logged in", "user": service.NewSessionClaims(user)})
}

// RequestResetCode maneja POST /auth/reset/request.
func (h *AuthHandler) RequestResetCode(c *gin.Context) {
	var req struct {
		Email string `json:"email" binding:"required,email"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Email is required"})
		return
	}

	err := h.resetServ.RequestCode(c.Request.Context(), req.Email)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
		case errors.Is(err, service.ErrRateLimited):
			c.JSON(http.StatusTooManyRequests, gin.H{"message": "Too many requests"})
		case errors.Is(err, service.ErrEmailSendFailure):
			c.JSON(http.StatusServiceUnavailable, gin.H{"message": "Email delivery unavailable"})
		default:
			h.logger.Error("request reset code failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Reset code sent to email"})
}

// ResetPassword maneja POST /auth/reset/confirm. Los mensajes distinguen
// codigo faltante, invalido y expirado: no son tan sensibles como las
// credenciales.
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req struct {
		Email       string `json:"email" binding:"required,email"`
		Code        string `json:"code" binding:"required"`
		NewPassword string `json:"newPassword" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Email, code, and newPassword are required"})
		return
	}

	_, err := h.resetServ.Reset(c.Request.Context(), req.Email, req.Code, req.NewPassword)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
		case errors.Is(err, service.ErrResetNotRequested):
			c.JSON(http.StatusBadRequest, gin.H{"message": "No reset code found. Please request a new one."})
		case errors.Is(err, service.ErrResetCodeInvalid):
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid reset code"})
		case errors.Is(err, service.ErrResetCodeExpired):
			c.JSON(http.StatusBadRequest, gin.H{"message": "Reset code expired"})
		default:
			h.logger.Error("reset password failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Password reset successful"})
}
