// Package token issues and checks the signed session tokens handed to clients
// after login or auto-login signup.
package token

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"go-esg-platform/pkg/role"
)

const minSecretLen = 16

var (
	ErrInvalidToken = errors.New("invalid session token")

	ErrMalformed = errors.New("malformed token")
	ErrSignature = errors.New("token signature mismatch")
	ErrExpired   = errors.New("token expired")
)

// Claims is the identity carried by a session token.
type Claims struct {
	UserID    string
	Role      role.Role
	TokenID   string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

type sessionClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

type Codec struct {
	secret []byte
	ttl    time.Duration
	issuer string
	now    func() time.Time
}

func NewCodec(secret []byte, ttl time.Duration, issuer string) (*Codec, error) {
	if len(secret) < minSecretLen {
		return nil, fmt.Errorf("token secret must be at least %d bytes", minSecretLen)
	}
	if ttl <= 0 {
		return nil, errors.New("token ttl must be positive")
	}

	return &Codec{
		secret: secret,
		ttl:    ttl,
		issuer: strings.TrimSpace(issuer),
		now:    time.Now,
	}, nil
}

// WithClock returns a copy of the codec that reads time from now.
func (c *Codec) WithClock(now func() time.Time) *Codec {
	clone := *c
	clone.now = now
	return &clone
}

func (c *Codec) TTL() time.Duration {
	return c.ttl
}

// Issue signs a new token for userID acting as r.
func (c *Codec) Issue(userID string, r role.Role) (string, Claims, error) {
	if strings.TrimSpace(userID) == "" {
		return "", Claims{}, errors.New("token subject is required")
	}
	if !r.Valid() {
		return "", Claims{}, role.ErrInvalidRole
	}

	now := c.now().UTC()
	claims := sessionClaims{
		Role: string(r),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Issuer:    c.issuer,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
	if err != nil {
		return "", Claims{}, fmt.Errorf("sign token: %w", err)
	}

	return signed, toClaims(claims), nil
}

// Validate verifies signature, expiry and issuer. Every failure wraps
// ErrInvalidToken together with the specific reason.
func (c *Codec) Validate(tokenString string) (Claims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(c.now),
	}
	if c.issuer != "" {
		opts = append(opts, jwt.WithIssuer(c.issuer))
	}

	var parsed sessionClaims
	_, err := jwt.ParseWithClaims(strings.TrimSpace(tokenString), &parsed, func(*jwt.Token) (interface{}, error) {
		return c.secret, nil
	}, opts...)
	if err != nil {
		return Claims{}, classify(err)
	}

	return checkIdentity(parsed)
}

// Inspect decodes a token without verifying its signature and rejects it when
// it is structurally invalid or expired at now. Clients use it because they do
// not hold the signing secret; the server must always call Validate.
func Inspect(tokenString string, now time.Time) (Claims, error) {
	var parsed sessionClaims
	_, _, err := jwt.NewParser().ParseUnverified(strings.TrimSpace(tokenString), &parsed)
	if err != nil {
		return Claims{}, fmt.Errorf("%w: %w", ErrInvalidToken, ErrMalformed)
	}

	if parsed.ExpiresAt == nil || !now.Before(parsed.ExpiresAt.Time) {
		return Claims{}, fmt.Errorf("%w: %w", ErrInvalidToken, ErrExpired)
	}

	return checkIdentity(parsed)
}

func checkIdentity(parsed sessionClaims) (Claims, error) {
	if strings.TrimSpace(parsed.Subject) == "" {
		return Claims{}, fmt.Errorf("%w: %w", ErrInvalidToken, ErrMalformed)
	}
	if !role.Role(parsed.Role).Valid() {
		return Claims{}, fmt.Errorf("%w: %w", ErrInvalidToken, role.ErrInvalidRole)
	}
	return toClaims(parsed), nil
}

func classify(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return fmt.Errorf("%w: %w", ErrInvalidToken, ErrExpired)
	case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrTokenUnverifiable):
		return fmt.Errorf("%w: %w", ErrInvalidToken, ErrSignature)
	default:
		return fmt.Errorf("%w: %w", ErrInvalidToken, ErrMalformed)
	}
}

func toClaims(c sessionClaims) Claims {
	out := Claims{
		UserID:  c.Subject,
		Role:    role.Role(c.Role),
		TokenID: c.ID,
	}
	if c.IssuedAt != nil {
		out.IssuedAt = c.IssuedAt.Time
	}
	if c.ExpiresAt != nil {
		out.ExpiresAt = c.ExpiresAt.Time
	}
	return out
}
