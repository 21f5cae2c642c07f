package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"linkly/internal/domain"
	"linkly/internal/repository"
)

// AuthService coordina login, registro, login con Google y refresh de
// sesion.
type AuthService struct {
	logger *zap.Logger
	users  repository.UserRepository
	codec  *TokenCodec
	google GoogleVerifier
}

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrDuplicateAccount   = errors.New("account already exists")
	ErrInvalidRequest     = errors.New("invalid request")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidEmail       = errors.New("invalid email")
)

func NewAuthService(logger *zap.Logger, users repository.UserRepository, codec *TokenCodec, google GoogleVerifier) *AuthService {
	return &AuthService{
		logger: logger,
		users:  users,
		codec:  codec,
		google: google,
	}
}

// Login autentica por email y password. Usuario inexistente y password
// incorrecto devuelven el mismo error: no se filtra cual fallo.
func (s *AuthService) Login(ctx context.Context, emailAddr, password string) (domain.User, error) {
	emailAddr = normalizeEmail(emailAddr)
	password = strings.TrimSpace(password)
	if emailAddr == "" || password == "" {
		return domain.User{}, ErrInvalidCredentials
	}
	user, err := s.users.GetByEmail(ctx, emailAddr)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, ErrInvalidCredentials
		}
		return domain.User{}, err
	}
	if user.PasswordHash == "" {
		return domain.User{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return domain.User{}, ErrInvalidCredentials
	}
	return user, nil
}

// Register crea una cuenta nueva con role "admin".
func (s *AuthService) Register(ctx context.Context, emailAddr, password, name string) (domain.User, error) {
	emailAddr = normalizeEmail(emailAddr)
	password = strings.TrimSpace(password)
	if emailAddr == "" {
		return domain.User{}, ErrInvalidEmail
	}
	if password == "" {
		return domain.User{}, ErrInvalidRequest
	}

	_, err := s.users.GetByEmail(ctx, emailAddr)
	if err == nil {
		return domain.User{}, ErrDuplicateAccount
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return domain.User{}, err
	}

	hashBytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return domain.User{}, err
	}

	user := domain.User{
		ID:           uuid.NewString(),
		Email:        emailAddr,
		Name:         strings.TrimSpace(name),
		PasswordHash: string(hashBytes),
		Role:         "admin",
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.users.Create(ctx, user); err != nil {
		return domain.User{}, err
	}
	return user, nil
}

// GoogleLogin valida el ID token contra Google y crea la cuenta vinculada
// la primera vez que aparece el email.
func (s *AuthService) GoogleLogin(ctx context.Context, idToken string) (domain.User, error) {
	if s.google == nil {
		return domain.User{}, ErrGoogleNotConfigured
	}
	if strings.TrimSpace(idToken) == "" {
		return domain.User{}, ErrInvalidRequest
	}

	identity, err := s.google.Verify(ctx, idToken)
	if err != nil {
		return domain.User{}, err
	}

	emailAddr := normalizeEmail(identity.Email)
	if emailAddr == "" {
		return domain.User{}, ErrInvalidRequest
	}

	user, err := s.users.GetByEmail(ctx, emailAddr)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return domain.User{}, err
	}

	user = domain.User{
		ID:           uuid.NewString(),
		Email:        emailAddr,
		Name:         strings.TrimSpace(identity.Name),
		Role:         "admin",
		IsGoogleUser: true,
		GoogleID:     identity.Subject,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.users.Create(ctx, user); err != nil {
		return domain.User{}, err
	}
	return user, nil
}

// CurrentUser recarga el usuario desde el store para que el session check
// refleje cambios de role o creditos posteriores a la firma del token.
func (s *AuthService) CurrentUser(ctx context.Context, id string) (domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, ErrUserNotFound
		}
		return domain.User{}, err
	}
	return user, nil
}

// ListUsers devuelve todas las cuentas. Solo se expone tras el guard de
// role admin.
func (s *AuthService) ListUsers(ctx context.Context) ([]domain.User, error) {
	return s.users.List(ctx)
}

// RefreshAccess valida el refresh token, recarga el usuario y firma un
// access token nuevo. El refresh token nunca rota; si es invalido o expiro
// no hay fallback.
func (s *AuthService) RefreshAccess(ctx context.Context, refreshToken string) (string, domain.User, error) {
	claims, err := s.codec.VerifyRefresh(refreshToken)
	if err != nil {
		return "", domain.User{}, err
	}
	user, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", domain.User{}, ErrTokenInvalid
		}
		return "", domain.User{}, err
	}
	newAccess, err := s.codec.SignAccess(NewSessionClaims(user))
	if err != nil {
		return "", domain.User{}, err
	}
	return newAccess, user, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
