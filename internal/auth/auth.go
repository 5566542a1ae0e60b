// Package auth maps opaque bearer credentials to user ids. The ledger core
// never sees tokens; it only receives resolved user ids.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrUnauthenticated is returned for any missing, malformed, expired or
// forged credential.
var ErrUnauthenticated = errors.New("unauthenticated")

// Authenticator verifies HMAC-signed bearer tokens.
type Authenticator struct {
	secret []byte
	ttl    time.Duration
}

func New(secret string, ttl time.Duration) (*Authenticator, error) {
	if secret == "" {
		return nil, fmt.Errorf("auth secret cannot be empty")
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("token ttl must be positive, got %v", ttl)
	}
	return &Authenticator{secret: []byte(secret), ttl: ttl}, nil
}

// IssueToken mints a signed token for the given user id.
func (a *Authenticator) IssueToken(userId string) (string, error) {
	if userId == "" {
		return "", fmt.Errorf("user id cannot be empty")
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"sub": userId,
		"iat": now.Unix(),
		"exp": now.Add(a.ttl).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(a.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// ResolveCredential verifies a bearer token and returns the user id it was
// issued for.
func (a *Authenticator) ResolveCredential(credential string) (string, error) {
	if credential == "" {
		return "", fmt.Errorf("%w: missing credential", ErrUnauthenticated)
	}

	token, err := jwt.Parse(credential, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return a.secret, nil
	})
	if err != nil || !token.Valid {
		return "", fmt.Errorf("%w: invalid or expired token", ErrUnauthenticated)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", fmt.Errorf("%w: invalid token claims", ErrUnauthenticated)
	}

	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return "", fmt.Errorf("%w: token subject missing", ErrUnauthenticated)
	}

	return sub, nil
}
