// Package token issues and verifies the HS256 bearer tokens handed to clients.
package token

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/99minutos/staff-accounts/internal/core/domain"
	"github.com/99minutos/staff-accounts/internal/core/ports"
)

const defaultTTL = 24 * time.Hour

var ErrInvalidToken = errors.New("invalid token")

type claims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	Staff bool   `json:"staff,omitempty"`
	jwt.RegisteredClaims
}

// Service signs and checks tokens with a shared secret.
type Service struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

var (
	_ ports.TokenIssuer   = (*Service)(nil)
	_ ports.TokenVerifier = (*Service)(nil)
)

func NewService(secret string, ttl time.Duration) *Service {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &Service{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Issue mints a token whose subject is the identity id.
func (s *Service) Issue(identity *domain.Identity) (string, error) {
	now := s.now()
	c := claims{
		Email: identity.Email,
		Role:  string(identity.Role),
		Staff: identity.IsStaff,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(identity.ID, 10),
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify checks signature, algorithm and expiry and returns the claims.
func (s *Service) Verify(raw string) (ports.TokenClaims, error) {
	var c claims
	_, err := jwt.ParseWithClaims(raw, &c, func(*jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return ports.TokenClaims{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	id, err := strconv.ParseInt(c.Subject, 10, 64)
	if err != nil || id <= 0 {
		return ports.TokenClaims{}, fmt.Errorf("%w: bad subject", ErrInvalidToken)
	}

	return ports.TokenClaims{
		IdentityID: id,
		Email:      c.Email,
		Role:       domain.Role(c.Role),
		Staff:      c.Staff,
		TokenID:    c.ID,
		ExpiresAt:  c.ExpiresAt.Time,
	}, nil
}
