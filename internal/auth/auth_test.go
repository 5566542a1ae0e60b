package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestIssueAndResolve(t *testing.T) {
	authenticator, err := New("test-secret", time.Hour)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	token, err := authenticator.IssueToken("user1")
	if err != nil {
		t.Fatalf("IssueToken failed: %v", err)
	}

	userId, err := authenticator.ResolveCredential(token)
	if err != nil {
		t.Fatalf("ResolveCredential failed: %v", err)
	}
	if userId != "user1" {
		t.Errorf("Expected user1, got %s", userId)
	}
}

func TestResolveCredential_Invalid(t *testing.T) {
	authenticator, err := New("test-secret", time.Hour)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	cases := []struct {
		name       string
		credential string
	}{
		{"empty", ""},
		{"garbage", "not-a-token"},
		{"tampered", "eyJhbGciOiJIUzI1NiJ9.eyJzdWIiOiJ1c2VyMSJ9.bogus"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := authenticator.ResolveCredential(tc.credential)
			if !errors.Is(err, ErrUnauthenticated) {
				t.Errorf("Expected ErrUnauthenticated, got: %v", err)
			}
		})
	}
}

func TestResolveCredential_WrongSecret(t *testing.T) {
	issuer, err := New("secret-a", time.Hour)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	verifier, err := New("secret-b", time.Hour)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	token, err := issuer.IssueToken("user1")
	if err != nil {
		t.Fatalf("IssueToken failed: %v", err)
	}

	if _, err := verifier.ResolveCredential(token); !errors.Is(err, ErrUnauthenticated) {
		t.Errorf("Expected ErrUnauthenticated for wrong secret, got: %v", err)
	}
}

func TestResolveCredential_Expired(t *testing.T) {
	authenticator, err := New("test-secret", time.Hour)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	claims := jwt.MapClaims{
		"sub": "user1",
		"iat": time.Now().Add(-2 * time.Hour).Unix(),
		"exp": time.Now().Add(-time.Hour).Unix(),
	}
	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("Failed to sign expired token: %v", err)
	}

	if _, err := authenticator.ResolveCredential(expired); !errors.Is(err, ErrUnauthenticated) {
		t.Errorf("Expected ErrUnauthenticated for expired token, got: %v", err)
	}
}

func TestNew_Validation(t *testing.T) {
	if _, err := New("", time.Hour); err == nil {
		t.Errorf("Expected error for empty secret")
	}
	if _, err := New("secret", 0); err == nil {
		t.Errorf("Expected error for zero ttl")
	}
}
