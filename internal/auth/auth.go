package auth

import (
	"errors"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"StockInsight/internal/model"
)

// DefaultRole is assigned when a token carries no role claim.
const DefaultRole = "authenticated"

var (
	ErrMissingToken   = errors.New("missing bearer token")
	ErrMissingSubject = errors.New("token has no subject")
	ErrNotConfigured  = errors.New("jwt secret not configured")
	ErrInvalidToken   = errors.New("invalid token")
)

// Claims are the fields read from an access token.
type Claims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// Verifier checks HS256 tokens signed with a shared secret. Audience is
// not checked; expiry is enforced when present.
type Verifier struct {
	secret []byte
	parser *jwt.Parser
}

func NewVerifier(secret string) *Verifier {
	return &Verifier{
		secret: []byte(secret),
		parser: jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})),
	}
}

// Verify parses and validates token and returns its claims.
func (v *Verifier) Verify(token string) (*Claims, error) {
	if len(v.secret) == 0 {
		return nil, ErrNotConfigured
	}
	if token == "" {
		return nil, ErrMissingToken
	}
	claims := &Claims{}
	_, err := v.parser.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return v.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if claims.Subject == "" {
		return nil, ErrMissingSubject
	}
	return claims, nil
}

// BearerToken extracts the token from an Authorization header value.
// It returns "" when the header is absent or not a bearer credential.
func BearerToken(header string) string {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

// CurrentUser maps verified claims to the caller.
func CurrentUser(c *Claims) model.User {
	role := c.Role
	if role == "" {
		role = DefaultRole
	}
	return model.User{ID: c.Subject, Email: c.Email, Role: role}
}
