package server

import (
	"net/http"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"leettrack/internal/tracker"
)

func TestIssueAndParseToken(t *testing.T) {
	secret := []byte("s3cret")
	identity := tracker.Identity{UserID: "u1", Email: "u1@example.com"}

	token, err := IssueToken(secret, identity, time.Now(), time.Hour)
	require.NoError(t, err)

	got, err := ParseToken(secret, token)
	require.NoError(t, err)
	assert.Equal(t, identity, got)

	_, err = IssueToken(secret, tracker.Identity{}, time.Now(), time.Hour)
	assert.ErrorIs(t, err, tracker.ErrNoIdentity)
}

func TestParseToken_Rejects(t *testing.T) {
	secret := []byte("s3cret")
	identity := tracker.Identity{UserID: "u1"}

	expired, err := IssueToken(secret, identity, time.Now().Add(-2*time.Hour), time.Hour)
	require.NoError(t, err)

	wrongKey, err := IssueToken([]byte("other"), identity, time.Now(), time.Hour)
	require.NoError(t, err)

	hs384, err := jwt.NewWithClaims(jwt.SigningMethodHS384, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "u1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString(secret)
	require.NoError(t, err)

	noSubject, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString(secret)
	require.NoError(t, err)

	noExpiry, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "u1"},
	}).SignedString(secret)
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{"expired", expired},
		{"wrong key", wrongKey},
		{"unexpected algorithm", hs384},
		{"no subject", noSubject},
		{"no expiry", noExpiry},
		{"garbage", "not-a-token"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseToken(secret, tt.token)
			assert.Error(t, err)
		})
	}
}

func TestAuthRequired(t *testing.T) {
	s := newTestServer(t)
	valid := tokenFor(t, "u1")

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantCode   int
	}{
		{"missing header", "", http.StatusUnauthorized, codeNoAuthHeader},
		{"wrong scheme", "Basic dTE6cGFzcw==", http.StatusUnauthorized, codeBadAuthHeader},
		{"empty token", "Bearer ", http.StatusUnauthorized, codeBadAuthHeader},
		{"invalid token", "Bearer nope", http.StatusUnauthorized, codeInvalidToken},
		{"valid token", "Bearer " + valid, http.StatusOK, codeOK},
		{"scheme is case-insensitive", "bearer " + valid, http.StatusOK, codeOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, env := doWithHeader(t, s, tt.header)
			assert.Equal(t, tt.wantStatus, req.Code)
			assert.Equal(t, tt.wantCode, env.Code)
		})
	}
}
