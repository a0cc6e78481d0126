// Package token issues and verifies signed, self-contained session tokens.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/golang-jwt/jwt/v5"

	"github.com/and161185/bookstore-api/internal/errs"
	"github.com/and161185/bookstore-api/internal/model"
)

// DefaultTTL is the lifetime of a session token.
const DefaultTTL = time.Hour

// Verification failures. All of them match errs.ErrUnauthenticated.
var (
	ErrMalformed    = fmt.Errorf("token malformed: %w", errs.ErrUnauthenticated)
	ErrBadSignature = fmt.Errorf("token signature invalid: %w", errs.ErrUnauthenticated)
	ErrExpired      = fmt.Errorf("token expired: %w", errs.ErrUnauthenticated)
)

// Claims is the JWT payload: subject is the user id.
type Claims struct {
	Email       string   `json:"email"`
	Roles       []string `json:"roles"`
	Permissions []string `json:"permissions"`
	jwt.RegisteredClaims
}

// Service signs tokens with a server-held HS256 key.
type Service struct {
	key []byte
	ttl time.Duration
	now func() time.Time
}

// NewService constructs a token service; ttl <= 0 means DefaultTTL.
func NewService(key []byte, ttl time.Duration) *Service {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Service{key: key, ttl: ttl, now: time.Now}
}

// TTL returns the token lifetime.
func (s *Service) TTL() time.Duration { return s.ttl }

// Issue creates a signed token for id that expires after the service TTL.
func (s *Service) Issue(id model.Identity) (model.Tokens, error) {
	now := s.now()
	exp := now.Add(s.ttl)
	claims := Claims{
		Email:       id.Email,
		Roles:       id.Roles,
		Permissions: id.Permissions,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.UserID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.key)
	if err != nil {
		return model.Tokens{}, err
	}
	return model.Tokens{AccessToken: signed, ExpiresAt: exp}, nil
}

// Verify checks signature and expiry and returns the embedded identity.
func (s *Service) Verify(raw string) (model.Identity, error) {
	var claims Claims
	_, err := jwt.ParseWithClaims(raw, &claims, func(*jwt.Token) (any, error) {
		return s.key, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return model.Identity{}, ErrExpired
		case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrTokenUnverifiable):
			return model.Identity{}, ErrBadSignature
		default:
			return model.Identity{}, ErrMalformed
		}
	}

	uid, err := uuid.FromString(claims.Subject)
	if err != nil {
		return model.Identity{}, ErrMalformed
	}
	return model.Identity{
		UserID:      uid,
		Email:       claims.Email,
		Roles:       claims.Roles,
		Permissions: claims.Permissions,
	}, nil
}
