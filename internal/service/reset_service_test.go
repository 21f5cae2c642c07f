package service

import (
	"context"
	"errors"
	"testing"
	"time"
	"unicode"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type captureSender struct {
	toEmail   string
	code      string
	expiresAt time.Time
	err       error
	calls     int
}

func (s *captureSender) SendPasswordResetCode(_ context.Context, toEmail, code string, expiresAt time.Time) error {
	s.calls++
	if s.err != nil {
		return s.err
	}
	s.toEmail = toEmail
	s.code = code
	s.expiresAt = expiresAt
	return nil
}

type allowAllLimiter struct{}

func (allowAllLimiter) Allow(string) bool { return true }

type denyAllLimiter struct{}

func (denyAllLimiter) Allow(string) bool { return false }

func TestResetService_RequestCode(t *testing.T) {
	repo := newMockUserRepo()
	user := seedUser(t, repo, "user@example.com", "oldpass")
	sender := &captureSender{}
	svc := NewResetService(zap.NewNop(), repo, sender, allowAllLimiter{})

	if err := svc.RequestCode(context.Background(), "User@Example.com"); err != nil {
		t.Fatalf("request code: %v", err)
	}

	if sender.toEmail != "user@example.com" {
		t.Fatalf("code sent to %q", sender.toEmail)
	}
	if len(sender.code) != 6 {
		t.Fatalf("expected 6-digit code, got %q", sender.code)
	}
	for _, r := range sender.code {
		if !unicode.IsDigit(r) {
			t.Fatalf("expected numeric code, got %q", sender.code)
		}
	}

	stored := repo.usersByID[user.ID]
	if stored.ResetCode != sender.code {
		t.Fatalf("stored code %q does not match sent code %q", stored.ResetCode, sender.code)
	}
	if stored.ResetCodeExpiresAt == nil {
		t.Fatalf("expected expiry to be set")
	}
	remaining := time.Until(*stored.ResetCodeExpiresAt)
	if remaining < 14*time.Minute || remaining > 16*time.Minute {
		t.Fatalf("expected ~15 minute expiry, got %v", remaining)
	}
}

func TestResetService_RequestCodeUnknownUser(t *testing.T) {
	svc := NewResetService(zap.NewNop(), newMockUserRepo(), &captureSender{}, allowAllLimiter{})

	if err := svc.RequestCode(context.Background(), "nobody@example.com"); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestResetService_RequestCodeRateLimited(t *testing.T) {
	repo := newMockUserRepo()
	seedUser(t, repo, "user@example.com", "oldpass")
	sender := &captureSender{}
	svc := NewResetService(zap.NewNop(), repo, sender, denyAllLimiter{})

	if err := svc.RequestCode(context.Background(), "user@example.com"); !errors.Is(err, ErrRateLimited) {
		t.Fatalf("expected ErrRateLimited, got %v", err)
	}
	if sender.calls != 0 {
		t.Fatalf("expected no email while rate limited")
	}
}

func TestResetService_RequestCodeSenderFailure(t *testing.T) {
	repo := newMockUserRepo()
	seedUser(t, repo, "user@example.com", "oldpass")
	sender := &captureSender{err: errors.New("smtp down")}
	svc := NewResetService(zap.NewNop(), repo, sender, allowAllLimiter{})

	if err := svc.RequestCode(context.Background(), "user@example.com"); !errors.Is(err, ErrEmailSendFailure) {
		t.Fatalf("expected ErrEmailSendFailure, got %v", err)
	}
}

func TestResetService_ResetHappyPath(t *testing.T) {
	repo := newMockUserRepo()
	user := seedUser(t, repo, "user@example.com", "oldpass")
	sender := &captureSender{}
	svc := NewResetService(zap.NewNop(), repo, sender, allowAllLimiter{})

	if err := svc.RequestCode(context.Background(), "user@example.com"); err != nil {
		t.Fatalf("request code: %v", err)
	}

	updated, err := svc.Reset(context.Background(), "user@example.com", sender.code, "newpass99")
	if err != nil {
		t.Fatalf("reset: %v", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(updated.PasswordHash), []byte("newpass99")); err != nil {
		t.Fatalf("new password does not authenticate: %v", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(updated.PasswordHash), []byte("oldpass")); err == nil {
		t.Fatalf("old password still authenticates")
	}

	stored := repo.usersByID[user.ID]
	if stored.ResetCode != "" || stored.ResetCodeExpiresAt != nil {
		t.Fatalf("expected code and expiry cleared, got %+v", stored)
	}

	// A consumed code cannot be replayed.
	if _, err := svc.Reset(context.Background(), "user@example.com", sender.code, "another"); !errors.Is(err, ErrResetNotRequested) {
		t.Fatalf("expected ErrResetNotRequested after consumption, got %v", err)
	}
}

func TestResetService_ResetWrongCode(t *testing.T) {
	repo := newMockUserRepo()
	seedUser(t, repo, "user@example.com", "oldpass")
	sender := &captureSender{}
	svc := NewResetService(zap.NewNop(), repo, sender, allowAllLimiter{})

	if err := svc.RequestCode(context.Background(), "user@example.com"); err != nil {
		t.Fatalf("request code: %v", err)
	}

	wrong := "000000"
	if wrong == sender.code {
		wrong = "000001"
	}
	if _, err := svc.Reset(context.Background(), "user@example.com", wrong, "newpass99"); !errors.Is(err, ErrResetCodeInvalid) {
		t.Fatalf("expected ErrResetCodeInvalid, got %v", err)
	}
}

func TestResetService_ResetExpiredCode(t *testing.T) {
	repo := newMockUserRepo()
	user := seedUser(t, repo, "user@example.com", "oldpass")
	sender := &captureSender{}
	svc := NewResetService(zap.NewNop(), repo, sender, allowAllLimiter{})

	if err := svc.RequestCode(context.Background(), "user@example.com"); err != nil {
		t.Fatalf("request code: %v", err)
	}

	expired := time.Now().UTC().Add(-time.Minute)
	stored := repo.usersByID[user.ID]
	stored.ResetCodeExpiresAt = &expired
	repo.usersByID[user.ID] = stored

	if _, err := svc.Reset(context.Background(), "user@example.com", sender.code, "newpass99"); !errors.Is(err, ErrResetCodeExpired) {
		t.Fatalf("expected ErrResetCodeExpired even with the right code, got %v", err)
	}
}

func TestResetService_ResetWithoutPendingCode(t *testing.T) {
	repo := newMockUserRepo()
	seedUser(t, repo, "user@example.com", "oldpass")
	svc := NewResetService(zap.NewNop(), repo, &captureSender{}, allowAllLimiter{})

	if _, err := svc.Reset(context.Background(), "user@example.com", "123456", "newpass99"); !errors.Is(err, ErrResetNotRequested) {
		t.Fatalf("expected ErrResetNotRequested, got %v", err)
	}
}

func TestResetService_ResetUnknownUser(t *testing.T) {
	svc := NewResetService(zap.NewNop(), newMockUserRepo(), &captureSender{}, allowAllLimiter{})

	if _, err := svc.Reset(context.Background(), "nobody@example.com", "123456", "newpass99"); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestResetRateLimiter_Window(t *testing.T) {
	limiter := NewResetRateLimiter(time.Minute, 2)

	if !limiter.Allow("user@example.com") || !limiter.Allow("user@example.com") {
		t.Fatalf("expected first two requests to pass")
	}
	if limiter.Allow("user@example.com") {
		t.Fatalf("expected third request to be limited")
	}
	if !limiter.Allow("other@example.com") {
		t.Fatalf("expected independent keys")
	}
}

func TestGenerateResetCodeRange(t *testing.T) {
	for i := 0; i < 200; i++ {
		code, err := generateResetCode()
		if err != nil {
			t.Fatalf("generate: %v", err)
		}
		if len(code) != 6 {
			t.Fatalf("expected 6 digits, got %q", code)
		}
		if code[0] == '0' {
			t.Fatalf("expected code in [100000,999999], got %q", code)
		}
	}
}
