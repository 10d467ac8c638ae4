// Package jwtutil issues and verifies HS256 bearer tokens whose subject is a username.
package jwtutil

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrMalformed      = errors.New("token is malformed")
	ErrExpired        = errors.New("token is expired")
	ErrMissingSubject = errors.New("token has no subject")
)

type Issuer struct {
	secret     []byte
	defaultTTL time.Duration
	now        func() time.Time
}

type Option func(*Issuer)

// WithClock replaces time.Now for issuing and verifying.
func WithClock(now func() time.Time) Option {
	return func(i *Issuer) {
		i.now = now
	}
}

func NewIssuer(secret string, defaultTTL time.Duration, opts ...Option) *Issuer {
	i := &Issuer{
		secret:     []byte(secret),
		defaultTTL: defaultTTL,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

func (i *Issuer) DefaultTTL() time.Duration {
	return i.defaultTTL
}

// IssueDefault issues a token valid for the configured default TTL.
func (i *Issuer) IssueDefault(subject string) (string, error) {
	return i.Issue(subject, i.defaultTTL)
}

// Issue signs {sub, iat, exp=now+ttl}. A non-positive ttl falls back to the default TTL.
func (i *Issuer) Issue(subject string, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		ttl = i.defaultTTL
	}
	now := i.now()
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("sign token failed: %w", err)
	}
	return signed, nil
}

// Verify checks signature, structure and expiry, and returns the subject claim.
func (i *Issuer) Verify(tokenString string) (string, error) {
	tokenString = strings.TrimSpace(tokenString)
	if tokenString == "" {
		return "", ErrMalformed
	}

	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(
		tokenString,
		claims,
		func(token *jwt.Token) (interface{}, error) {
			return i.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		// exp has second precision; the token stays valid through its exp second.
		jwt.WithLeeway(time.Second),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", ErrExpired
		}
		return "", ErrMalformed
	}
	if !token.Valid {
		return "", ErrMalformed
	}
	if strings.TrimSpace(claims.Subject) == "" {
		return "", ErrMissingSubject
	}
	return claims.Subject, nil
}
