package server

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"leettrack/internal/tracker"
)

// contextIdentityKey stores the authenticated tracker.Identity in the gin context.
const contextIdentityKey = "identity"

// Claims are the token claims the API understands. The subject is the user ID.
type Claims struct {
	Email string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// IssueToken signs an HS256 token for identity valid for ttl from now.
// Tokens normally come from the identity provider; this serves local use
// and tests.
func IssueToken(secret []byte, identity tracker.Identity, now time.Time, ttl time.Duration) (string, error) {
	if !identity.Valid() {
		return "", tracker.ErrNoIdentity
	}
	claims := Claims{
		Email: identity.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   identity.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

// ParseToken validates tokenString and returns the identity it names.
func ParseToken(secret []byte, tokenString string) (tracker.Identity, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (any, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return tracker.Identity{}, fmt.Errorf("parsing token: %w", err)
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return tracker.Identity{}, errors.New("invalid token claims")
	}
	if claims.Subject == "" {
		return tracker.Identity{}, errors.New("token has no subject")
	}
	return tracker.Identity{UserID: claims.Subject, Email: claims.Email}, nil
}

// authRequired ensures the request carries a valid bearer token.
func authRequired(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			fail(c, http.StatusUnauthorized, codeNoAuthHeader, "authorization header missing")
			return
		}

		scheme, token, ok := strings.Cut(header, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
			fail(c, http.StatusUnauthorized, codeBadAuthHeader, "invalid authorization header format")
			return
		}

		identity, err := ParseToken(secret, strings.TrimSpace(token))
		if err != nil {
			fail(c, http.StatusUnauthorized, codeInvalidToken, "invalid token")
			return
		}

		c.Set(contextIdentityKey, identity)
		c.Next()
	}
}

// identityFrom returns the identity set by authRequired.
func identityFrom(c *gin.Context) tracker.Identity {
	if v, ok := c.Get(contextIdentityKey); ok {
		if identity, ok := v.(tracker.Identity); ok {
			return identity
		}
	}
	return tracker.Identity{}
}
