package service

import (
	"context"
	"errors"
	"strings"

	"google.golang.org/api/idtoken"
)

// GoogleIdentity es el subconjunto del payload de Google que usa el login.
type GoogleIdentity struct {
	Subject string
	Email   string
	Name    string
}

// GoogleVerifier valida un ID token de Google contra la audiencia
// configurada.
type GoogleVerifier interface {
	Verify(ctx context.Context, idToken string) (GoogleIdentity, error)
}

var ErrGoogleNotConfigured = errors.New("google client id not configured")

type googleIDTokenVerifier struct {
	clientID string
}

func NewGoogleVerifier(clientID string) GoogleVerifier {
	return &googleIDTokenVerifier{clientID: strings.TrimSpace(clientID)}
}

func (v *googleIDTokenVerifier) Verify(ctx context.Context, token string) (GoogleIdentity, error) {
	if v.clientID == "" {
		return GoogleIdentity{}, ErrGoogleNotConfigured
	}
	payload, err := idtoken.Validate(ctx, token, v.clientID)
	if err != nil {
		return GoogleIdentity{}, err
	}
	identity := GoogleIdentity{Subject: payload.Subject}
	if email, ok := payload.Claims["email"].(string); ok {
		identity.Email = email
	}
	if name, ok := payload.Claims["name"].(string); ok {
		identity.Name = name
	}
	return identity, nil
}
