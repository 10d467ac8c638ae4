package jwtutil

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func newTestIssuer(clock *fakeClock) *Issuer {
	return NewIssuer("test-secret", 30*time.Minute, WithClock(clock.Now))
}

func TestIssuer_RoundTrip(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)}
	issuer := newTestIssuer(clock)

	token, err := issuer.IssueDefault("alice")
	require.NoError(t, err)

	subject, err := issuer.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "alice", subject)
}

func TestIssuer_Expiry(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)}
	issuer := newTestIssuer(clock)

	token, err := issuer.Issue("bob", time.Minute)
	require.NoError(t, err)

	clock.now = clock.now.Add(59 * time.Second)
	_, err = issuer.Verify(token)
	require.NoError(t, err)

	clock.now = clock.now.Add(2 * time.Second)
	_, err = issuer.Verify(token)
	assert.ErrorIs(t, err, ErrExpired)
}

func TestIssuer_ValidAtExactExpiry(t *testing.T) {
	issuedAt := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	clock := &fakeClock{now: issuedAt}
	issuer := newTestIssuer(clock)

	token, err := issuer.Issue("dave", time.Minute)
	require.NoError(t, err)

	clock.now = issuedAt.Add(time.Minute)
	subject, err := issuer.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "dave", subject)

	clock.now = issuedAt.Add(time.Minute + time.Second)
	_, err = issuer.Verify(token)
	assert.ErrorIs(t, err, ErrExpired)
}

func TestIssuer_NonPositiveTTLUsesDefault(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)}
	issuer := newTestIssuer(clock)

	token, err := issuer.Issue("carol", 0)
	require.NoError(t, err)

	clock.now = clock.now.Add(29 * time.Minute)
	_, err = issuer.Verify(token)
	assert.NoError(t, err)

	clock.now = clock.now.Add(2 * time.Minute)
	_, err = issuer.Verify(token)
	assert.ErrorIs(t, err, ErrExpired)
}

func TestIssuer_Malformed(t *testing.T) {
	clock := &fakeClock{now: time.Now()}
	issuer := newTestIssuer(clock)
	other := NewIssuer("other-secret", time.Minute, WithClock(clock.Now))

	valid, err := issuer.IssueDefault("alice")
	require.NoError(t, err)
	foreign, err := other.IssueDefault("alice")
	require.NoError(t, err)

	noneToken, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
		Subject:   "alice",
		ExpiresAt: jwt.NewNumericDate(clock.now.Add(time.Hour)),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	noExpiry, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject: "alice",
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{name: "empty", token: ""},
		{name: "garbage", token: "not.a.token"},
		{name: "tampered signature", token: tamperSignature(valid)},
		{name: "foreign secret", token: foreign},
		{name: "alg none", token: noneToken},
		{name: "missing exp", token: noExpiry},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := issuer.Verify(tt.token)
			assert.ErrorIs(t, err, ErrMalformed)
		})
	}
}

func TestIssuer_MissingSubject(t *testing.T) {
	clock := &fakeClock{now: time.Now()}
	issuer := newTestIssuer(clock)

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(clock.now.Add(time.Hour)),
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, err = issuer.Verify(token)
	assert.ErrorIs(t, err, ErrMissingSubject)
}

func tamperSignature(token string) string {
	parts := strings.Split(token, ".")
	sig := []byte(parts[2])
	if sig[0] == 'A' {
		sig[0] = 'B'
	} else {
		sig[0] = 'A'
	}
	parts[2] = string(sig)
	return strings.Join(parts, ".")
}
