package service

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"linkly/internal/domain"
	"linkly/internal/email"
	"linkly/internal/repository"
)

// ResetService maneja el flujo de recuperacion de password por codigo.
type ResetService struct {
	logger  *zap.Logger
	users   repository.UserRepository
	sender  email.Sender
	limiter ResetRateLimiter
}

var (
	ErrResetNotRequested = errors.New("reset code not requested")
	ErrResetCodeExpired  = errors.New("reset code expired")
	ErrResetCodeInvalid  = errors.New("reset code invalid")
	ErrEmailSendFailure  = errors.New("email send failed")
	ErrRateLimited       = errors.New("rate limited")
)

const resetCodeTTL = 15 * time.Minute

func NewResetService(logger *zap.Logger, users repository.UserRepository, sender email.Sender, limiter ResetRateLimiter) *ResetService {
	if limiter == nil {
		limiter = NewResetRateLimiter(resetCodeTTL, 3)
	}
	return &ResetService{
		logger:  logger,
		users:   users,
		sender:  sender,
		limiter: limiter,
	}
}

// RequestCode genera un codigo de 6 digitos con vigencia de 15 minutos, lo
// persiste en el registro del usuario y lo envia por correo. El codigo
// nunca aparece en la respuesta.
func (s *ResetService) RequestCode(ctx context.Context, emailAddr string) error {
	emailAddr = normalizeEmail(emailAddr)
	if emailAddr == "" {
		return ErrInvalidEmail
	}

	if s.limiter != nil && !s.limiter.Allow(emailAddr) {
		return ErrRateLimited
	}

	user, err := s.users.GetByEmail(ctx, emailAddr)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrUserNotFound
		}
		return err
	}

	code, err := generateResetCode()
	if err != nil {
		return err
	}
	expiresAt := time.Now().UTC().Add(resetCodeTTL)

	if err := s.users.SetResetCode(ctx, user.ID, code, expiresAt); err != nil {
		return err
	}

	if s.sender == nil {
		return ErrEmailSendFailure
	}
	if err := s.sender.SendPasswordResetCode(ctx, emailAddr, code, expiresAt); err != nil {
		if s.logger != nil {
			s.logger.Warn("send reset code failed", zap.Error(err), zap.String("email", emailAddr))
		}
		return ErrEmailSendFailure
	}
	return nil
}

// Reset consume el codigo pendiente y reemplaza el password. El orden de
// validacion es: usuario, codigo pendiente, igualdad del codigo, expiracion.
// El hash nuevo y la limpieza del codigo se persisten en el mismo update.
func (s *ResetService) Reset(ctx context.Context, emailAddr, code, newPassword string) (domain.User, error) {
	emailAddr = normalizeEmail(emailAddr)
	code = strings.TrimSpace(code)
	newPassword = strings.TrimSpace(newPassword)
	if emailAddr == "" {
		return domain.User{}, ErrInvalidEmail
	}
	if code == "" || newPassword == "" {
		return domain.User{}, ErrInvalidRequest
	}

	user, err := s.users.GetByEmail(ctx, emailAddr)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, ErrUserNotFound
		}
		return domain.User{}, err
	}

	if user.ResetCode == "" || user.ResetCodeExpiresAt == nil {
		return domain.User{}, ErrResetNotRequested
	}
	if subtle.ConstantTimeCompare([]byte(code), []byte(user.ResetCode)) != 1 {
		return domain.User{}, ErrResetCodeInvalid
	}
	if time.Now().UTC().After(*user.ResetCodeExpiresAt) {
		return domain.User{}, ErrResetCodeExpired
	}

	hashBytes, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return domain.User{}, err
	}
	if err := s.users.UpdatePassword(ctx, user.ID, string(hashBytes)); err != nil {
		return domain.User{}, err
	}

	user.PasswordHash = string(hashBytes)
	user.ResetCode = ""
	user.ResetCodeExpiresAt = nil
	return user, nil
}

// generateResetCode devuelve un codigo uniforme en [100000, 999999].
func generateResetCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}

// ResetRateLimiter limita la frecuencia de solicitudes de codigo por email.
type ResetRateLimiter interface {
	Allow(key string) bool
}

type resetRateLimiter struct {
	mu     sync.Mutex
	window time.Duration
	max    int
	hits   map[string][]time.Time
}

// NewResetRateLimiter crea un rate limiter en memoria.
func NewResetRateLimiter(window time.Duration, max int) ResetRateLimiter {
	if max <= 0 {
		max = 1
	}
	if window <= 0 {
		window = time.Minute
	}
	return &resetRateLimiter{
		window: window,
		max:    max,
		hits:   make(map[string][]time.Time),
	}
}

func (l *resetRateLimiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := time.Now().UTC()
	cutoff := now.Add(-l.window)
	entries := l.hits[key]
	kept := entries[:0]
	for _, ts := range entries {
		if ts.After(cutoff) {
			kept = append(kept, ts)
		}
	}
	if len(kept) >= l.max {
		l.hits[key] = kept
		return false
	}
	kept = append(kept, now)
	l.hits[key] = kept
	return true
}
