package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const secret = "super-secret-jwt-token-with-at-least-32-characters"

func sign(t *testing.T, method jwt.SigningMethod, key interface{}, claims jwt.Claims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(method, claims).SignedString(key)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return s
}

func TestVerify(t *testing.T) {
	v := NewVerifier(secret)
	future := jwt.NewNumericDate(time.Now().Add(time.Hour))
	past := jwt.NewNumericDate(time.Now().Add(-time.Hour))

	tests := []struct {
		name    string
		token   string
		wantErr error
	}{
		{
			name: "valid with audience",
			token: sign(t, jwt.SigningMethodHS256, []byte(secret), Claims{
				Email: "a@example.com",
				RegisteredClaims: jwt.RegisteredClaims{
					Subject: "user-1", ExpiresAt: future, Audience: jwt.ClaimStrings{"authenticated"},
				},
			}),
		},
		{
			name:    "expired",
			token:   sign(t, jwt.SigningMethodHS256, []byte(secret), Claims{RegisteredClaims: jwt.RegisteredClaims{Subject: "u", ExpiresAt: past}}),
			wantErr: ErrInvalidToken,
		},
		{
			name:    "wrong secret",
			token:   sign(t, jwt.SigningMethodHS256, []byte("other"), Claims{RegisteredClaims: jwt.RegisteredClaims{Subject: "u"}}),
			wantErr: ErrInvalidToken,
		},
		{
			name:    "wrong algorithm",
			token:   sign(t, jwt.SigningMethodHS512, []byte(secret), Claims{RegisteredClaims: jwt.RegisteredClaims{Subject: "u"}}),
			wantErr: ErrInvalidToken,
		},
		{
			name:    "no subject",
			token:   sign(t, jwt.SigningMethodHS256, []byte(secret), Claims{Email: "a@example.com"}),
			wantErr: ErrMissingSubject,
		},
		{
			name:    "garbage",
			token:   "not.a.jwt",
			wantErr: ErrInvalidToken,
		},
		{
			name:    "empty",
			token:   "",
			wantErr: ErrMissingToken,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := v.Verify(tt.token)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Verify: %v", err)
			}
			if claims.Subject != "user-1" {
				t.Errorf("unexpected subject %q", claims.Subject)
			}
		})
	}
}

func TestVerify_NotConfigured(t *testing.T) {
	tok := sign(t, jwt.SigningMethodHS256, []byte(""), Claims{RegisteredClaims: jwt.RegisteredClaims{Subject: "u"}})
	if _, err := NewVerifier("").Verify(tok); !errors.Is(err, ErrNotConfigured) {
		t.Errorf("expected ErrNotConfigured, got %v", err)
	}
}

func TestBearerToken(t *testing.T) {
	tests := map[string]string{
		"Bearer abc":   "abc",
		"bearer  abc ": "abc",
		"Basic abc":    "",
		"abc":          "",
		"":             "",
	}
	for in, want := range tests {
		if got := BearerToken(in); got != want {
			t.Errorf("BearerToken(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestCurrentUser(t *testing.T) {
	u := CurrentUser(&Claims{Email: "a@example.com", RegisteredClaims: jwt.RegisteredClaims{Subject: "id-1"}})
	if u.ID != "id-1" || u.Email != "a@example.com" || u.Role != DefaultRole {
		t.Errorf("unexpected user %+v", u)
	}
	u = CurrentUser(&Claims{Role: "service_role", RegisteredClaims: jwt.RegisteredClaims{Subject: "id-2"}})
	if u.Role != "service_role" {
		t.Errorf("expected explicit role, got %q", u.Role)
	}
}
