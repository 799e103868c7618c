// Package auth provides bearer token issuing/verification and password
// hashing for the catalog API.
//
// Tokens are stateless JWTs signed with HMAC-SHA256. Everything a request
// needs (the subject user ID, issue and expiry times) lives inside the
// signed token, so verification is a pure computation with no storage
// lookup and no server-side session state. There is no revocation list:
// a token stays valid until its expiry passes.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/sakif/catalog-service/internal/apperror"
)

// TokenTTL is how long an issued access token remains valid.
const TokenTTL = 24 * time.Hour

const issuer = "catalog-service"

// TokenService signs and verifies access tokens. It holds the process-wide
// HMAC secret, loaded once at startup and never mutated afterwards.
type TokenService struct {
	secret []byte
}

// NewTokenService creates a TokenService with the given signing secret.
// Short secrets are rejected outright: HMAC with a guessable key makes the
// signature check worthless.
func NewTokenService(secret string) (*TokenService, error) {
	if len(secret) < 16 {
		return nil, errors.New("auth: signing secret must be at least 16 characters")
	}
	return &TokenService{secret: []byte(secret)}, nil
}

// claims is the JWT payload. The registered "sub" claim carries the user ID;
// no custom claims are needed.
type claims struct {
	jwt.RegisteredClaims
}

// Issue creates a signed access token for the given user with the standard
// 24 hour lifetime.
func (s *TokenService) Issue(userID string) (string, error) {
	return s.IssueWithDuration(userID, TokenTTL)
}

// IssueWithDuration creates a signed access token with a custom lifetime.
// A zero or negative duration produces an already-expired token, which the
// expiry tests rely on.
func (s *TokenService) IssueWithDuration(userID string, d time.Duration) (string, error) {
	now := time.Now()

	c := claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(d)),
			Issuer:    issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("auth: signing token: %w", err)
	}

	return signed, nil
}

// Verify parses and checks a token string, returning the user ID from the
// subject claim.
//
// Failure modes map onto the error taxonomy the way the API documents them:
// an expired token yields ExpiredAccessToken (401), while a bad signature,
// wrong algorithm, or otherwise malformed token yields InvalidAccessToken
// (400). Restricting the accepted methods to HS256 closes the classic
// algorithm-confusion hole where a token self-declares "none".
func (s *TokenService) Verify(tokenStr string) (string, error) {
	token, err := jwt.ParseWithClaims(
		tokenStr,
		&claims{},
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("auth: unexpected signing method: %v", token.Header["alg"])
			}
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", apperror.ExpiredAccessToken()
		}
		return "", apperror.InvalidAccessToken()
	}

	c, ok := token.Claims.(*claims)
	if !ok || !token.Valid || c.Subject == "" {
		return "", apperror.InvalidAccessToken()
	}

	return c.Subject, nil
}
