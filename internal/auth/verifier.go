// Package auth verifies platform-issued access tokens. This service never
// issues credentials; it only checks bearer tokens signed by the Mewayz
// identity service with the shared HS256 secret.
package auth

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	gojose "github.com/go-jose/go-jose/v4"
	gojwt "github.com/go-jose/go-jose/v4/jwt"
)

// Identity is the authenticated caller extracted from a bearer token.
type Identity struct {
	UserID int64
	Email  string
	Name   string
}

type customClaims struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

// Verifier validates HS256 access tokens.
type Verifier struct {
	secret []byte
	issuer string
}

// NewVerifier constructs a verifier for the shared signing secret. When
// issuer is empty the issuer claim is not checked.
func NewVerifier(secret, issuer string) *Verifier {
	return &Verifier{secret: []byte(secret), issuer: issuer}
}

var allowedAlgorithms = []gojose.SignatureAlgorithm{gojose.HS256}

// Verify parses and validates the token, returning the caller identity.
func (v *Verifier) Verify(token string) (*Identity, error) {
	parsed, err := gojwt.ParseSigned(token, allowedAlgorithms)
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}

	var std gojwt.Claims
	var custom customClaims
	if err := parsed.Claims(v.secret, &std, &custom); err != nil {
		return nil, fmt.Errorf("verify token: %w", err)
	}

	expected := gojwt.Expected{Time: time.Now()}
	if v.issuer != "" {
		expected.Issuer = v.issuer
	}
	if err := std.Validate(expected); err != nil {
		return nil, fmt.Errorf("validate claims: %w", err)
	}

	subject := strings.TrimSpace(std.Subject)
	userID, err := strconv.ParseInt(subject, 10, 64)
	if err != nil || userID <= 0 {
		return nil, fmt.Errorf("invalid subject claim %q", subject)
	}

	return &Identity{UserID: userID, Email: custom.Email, Name: custom.Name}, nil
}
