package http

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"linkly/internal/service"
	"linkly/internal/useragent"
)

// NewRouter configura el router de Gin con middlewares y rutas.
func NewRouter(
	logger *zap.Logger,
	authH *AuthHandler,
	userH *UserHandler,
	authServ *service.AuthService,
	codec *service.TokenCodec,
	cookies CookiePolicy,
	clientEndpoint string,
) *gin.Engine {
	r := gin.New()

	// Middlewares basicos: logging, recovery y JSON content-type.
	r.Use(zapLoggerMiddleware(logger), gin.Recovery(), jsonContentTypeMiddleware())

	// El frontend corre en otro origen y manda cookies, asi que CORS va con
	// credentials y origen explicito.
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{clientEndpoint},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	auth := r.Group("/auth")
	auth.POST("/login", authH.Login)
	auth.POST("/register", authH.Register)
	auth.POST("/google", authH.GoogleAuth)
	auth.GET("/logout", authH.Logout)
	auth.GET("/is-user-logged-in", authH.IsUserLoggedIn)
	auth.POST("/reset/request", authH.RequestResetCode)
	auth.POST("/reset/confirm", authH.ResetPassword)

	users := r.Group("/users")
	users.Use(AuthMiddleware(authServ, codec, cookies))
	users.GET("/me", userH.Me)
	users.GET("", RequireRoles("admin"), userH.List)

	return r
}

// zapLoggerMiddleware crea un middleware simple de logging con zap.
func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)
		device := useragent.Lookup(c.Request.UserAgent())
		logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", latency),
			zap.String("client_ip", c.ClientIP()),
			zap.String("browser", device.Browser),
			zap.Bool("is_mobile", device.IsMobile),
		)
	}
}

// jsonContentTypeMiddleware fuerza Content-Type: application/json en responses.
func jsonContentTypeMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Content-Type", "application/json")
		c.Next()
	}
}
