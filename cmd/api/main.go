package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"linkly/internal/config"
	"linkly/internal/db"
	"linkly/internal/email"
	apihttp "linkly/internal/http"
	"linkly/internal/repository"
	"linkly/internal/service"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	ctx := context.Background()

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: loading .env: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		logger.Fatal("db connect", zap.Error(err))
	}
	defer pool.Close()

	userRepo := repository.NewPgUserRepository(pool)

	emailSender := email.NewDisabledSender("email sender not configured")
	if cfg.SMTPHost != "" {
		sender, err := email.NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.SMTPFrom, cfg.SMTPFromName)
		if err != nil {
			logger.Warn("smtp sender init failed", zap.Error(err))
		} else {
			emailSender = sender
		}
	}

	var resetLimiter service.ResetRateLimiter
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		ctxPing, cancel := context.WithTimeout(ctx, 2*time.Second)
		if err := redisClient.Ping(ctxPing).Err(); err != nil {
			logger.Warn("redis ping failed", zap.Error(err))
		} else {
			resetLimiter = service.NewRedisResetRateLimiter(redisClient, 15*time.Minute, 3)
		}
		cancel()
	}

	codec := service.NewTokenCodec(
		cfg.JWTSecret,
		cfg.JWTRefreshSecret,
		time.Duration(cfg.AccessTokenTTLMinutes)*time.Minute,
		time.Duration(cfg.RefreshTokenTTLHours)*time.Hour,
	)

	googleVerifier := service.NewGoogleVerifier(cfg.GoogleClientID)
	if cfg.GoogleClientID == "" {
		logger.Warn("google client id not configured")
	}

	authSvc := service.NewAuthService(logger, userRepo, codec, googleVerifier)
	resetSvc := service.NewResetService(logger, userRepo, emailSender, resetLimiter)

	cookies := apihttp.CookiePolicy{Secure: cfg.Production()}
	authHandler := apihttp.NewAuthHandler(logger, authSvc, resetSvc, codec, cookies, cfg.LogoutClearRefresh)
	userHandler := apihttp.NewUserHandler(logger, authSvc)
	router := apihttp.NewRouter(logger, authHandler, userHandler, authSvc, codec, cookies, cfg.ClientEndpoint)

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger.Info("starting server", zap.String("port", cfg.HTTPPort))

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatal("server error", zap.Error(err))
	}
}
