package api

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenClaims are the fields mcctl reads from an access token
type TokenClaims struct {
	Subject   string
	ExpiresAt time.Time
}

// Expired reports whether the token is past its expiry at now
func (c TokenClaims) Expired(now time.Time) bool {
	return !c.ExpiresAt.IsZero() && !now.Before(c.ExpiresAt)
}

// ParseTokenClaims reads the claims of an access token without verifying
// its signature; only the server holds the signing secret.
func ParseTokenClaims(token string) (TokenClaims, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return TokenClaims{}, &Error{Kind: KindUnauthorized, Path: "token", Err: errors.New("access token is empty")}
	}

	var claims jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return TokenClaims{}, &Error{Kind: KindUnauthorized, Path: "token", Err: fmt.Errorf("access token is not a JWT: %w", err)}
	}

	out := TokenClaims{Subject: claims.Subject}
	if claims.ExpiresAt != nil {
		out.ExpiresAt = claims.ExpiresAt.Time
	}
	return out, nil
}
