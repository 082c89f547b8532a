package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Dosada05/scoremaster/utils"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

const tokenSubject = "household"

type AuthService interface {
	// Enabled reports whether mutations require a token.
	Enabled() bool
	IssueToken(ctx context.Context, pin string) (string, time.Time, error)
	VerifyToken(tokenString string) (*jwt.RegisteredClaims, error)
}

type authService struct {
	pinHash string
	secret  []byte
	ttl     time.Duration
	now     func() time.Time
}

// NewAuthService guards the API with a shared household PIN. An empty pin
// disables authentication entirely.
func NewAuthService(pin, secret string, ttl time.Duration) (AuthService, error) {
	s := &authService{secret: []byte(secret), ttl: ttl, now: time.Now}
	if pin == "" {
		return s, nil
	}
	if secret == "" {
		return nil, ErrSecretMissing
	}
	hash, err := utils.HashPIN(pin)
	if err != nil {
		return nil, fmt.Errorf("ошибка хеширования PIN: %w", err)
	}
	s.pinHash = hash
	return s, nil
}

func (s *authService) Enabled() bool {
	return s.pinHash != ""
}

func (s *authService) IssueToken(ctx context.Context, pin string) (string, time.Time, error) {
	if !s.Enabled() {
		return "", time.Time{}, ErrAuthDisabled
	}
	pin = strings.TrimSpace(pin)
	if pin == "" {
		return "", time.Time{}, ErrPINRequired
	}
	if !utils.CheckPIN(pin, s.pinHash) {
		return "", time.Time{}, ErrInvalidPIN
	}

	now := s.now()
	expiresAt := now.Add(s.ttl)
	claims := jwt.RegisteredClaims{
		ID:        uuid.NewString(),
		Subject:   tokenSubject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, expiresAt, nil
}

func (s *authService) VerifyToken(tokenString string) (*jwt.RegisteredClaims, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, errors.Join(ErrInvalidToken, err)
	}
	if !token.Valid || claims.Subject != tokenSubject {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
