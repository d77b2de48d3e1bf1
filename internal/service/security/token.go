// Package security implements authentication, session tokens, and the
// permission authorization engine.
package security

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/Yet-Another-Check-In-System/auth-ms/internal/domain"
)

// TokenIssuer is the fixed issuer claim for session tokens.
const TokenIssuer = "yacis:auth"

// TokenLifetime is the fixed session length from issuance.
const TokenLifetime = 12 * time.Hour

// requiredAudience is the audience this service demands when verifying.
const requiredAudience = "yacis:auth"

// DefaultAudience lists the services a session token may be presented to.
var DefaultAudience = []string{"yacis:auth", "yacis:checkin", "yacis:admin"}

// ErrInvalidToken is returned for every verification failure: malformed
// token, bad signature, expired, wrong issuer, wrong audience. The sub-cause
// is deliberately not exposed.
var ErrInvalidToken = errors.New("invalid session token")

// SessionClaims is the signed claim bag of a session token. The user id
// travels only in the registered Subject claim, never as a payload field.
type SessionClaims struct {
	FirstName string  `json:"firstName"`
	LastName  string  `json:"lastName"`
	Email     string  `json:"email"`
	Country   string  `json:"country"`
	Company   *string `json:"company,omitempty"`
	jwt.RegisteredClaims
}

// ContextUser converts verified claims into the request identity carrier.
func (c *SessionClaims) ContextUser() domain.ContextUser {
	return domain.ContextUser{
		ID:        c.Subject,
		FirstName: c.FirstName,
		LastName:  c.LastName,
		Email:     c.Email,
		Country:   c.Country,
		Company:   c.Company,
	}
}

// TokenService issues and verifies HS256-signed session tokens.
type TokenService struct {
	secret   []byte
	issuer   string
	audience []string
	now      func() time.Time
}

// NewTokenService creates a TokenService. A missing secret is a deployment
// error and fails construction; it is never retried per request.
func NewTokenService(secret string) (*TokenService, error) {
	if secret == "" {
		return nil, errors.New("session token signing secret is not configured")
	}
	return &TokenService{
		secret:   []byte(secret),
		issuer:   TokenIssuer,
		audience: DefaultAudience,
		now:      time.Now,
	}, nil
}

// Issue signs a session token for the user. The id becomes the subject claim;
// the remaining exported profile fields are snapshotted into the payload.
func (s *TokenService) Issue(user domain.ExportedUser) (string, error) {
	now := s.now().UTC()
	claims := SessionClaims{
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Email:     user.Email,
		Country:   user.Country,
		Company:   user.Company,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			Issuer:    s.issuer,
			Audience:  jwt.ClaimStrings(s.audience),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(TokenLifetime)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// Verify parses and validates a raw token. Every failure mode collapses to
// ErrInvalidToken so callers cannot distinguish why validation failed.
func (s *TokenService) Verify(raw string) (*SessionClaims, error) {
	claims := &SessionClaims{}
	_, err := jwt.ParseWithClaims(raw, claims,
		func(token *jwt.Token) (interface{}, error) {
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.issuer),
		jwt.WithAudience(requiredAudience),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, ErrInvalidToken
	}
	if claims.Subject == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
