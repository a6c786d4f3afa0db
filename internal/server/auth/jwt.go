// Package auth issues and verifies the signed session tokens of the account
// service. Tokens are stateless JWTs: there is no server-side revocation
// list, expiry is the only lifetime control.
package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/dmitrijs2005/accountsvc/internal/common"
)

// TokenType discriminates access tokens from refresh tokens. The claim is
// checked on verification so a refresh token cannot be replayed where an
// access token is expected, or vice versa.
type TokenType string

const (
	TokenTypeAccess  TokenType = "access"
	TokenTypeRefresh TokenType = "refresh"
)

// Claims is the claim set carried by every issued token: the registered
// subject (account email) and expiry, plus the type discriminator.
type Claims struct {
	jwt.RegisteredClaims
	TokenType TokenType `json:"type"`
}

// Issuer signs and verifies tokens with a shared HMAC secret (HS256).
type Issuer struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func NewIssuer(secret string, accessTTL, refreshTTL time.Duration) *Issuer {
	return &Issuer{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

// IssueAccess mints a short-lived access token for the given subject.
func (i *Issuer) IssueAccess(subject string, now time.Time) (string, error) {
	return i.issue(subject, TokenTypeAccess, now.Add(i.accessTTL))
}

// IssueRefresh mints a refresh token for the given subject. Refresh tokens
// live longer than access tokens and are only good for minting new access
// tokens.
func (i *Issuer) IssueRefresh(subject string, now time.Time) (string, error) {
	return i.issue(subject, TokenTypeRefresh, now.Add(i.refreshTTL))
}

func (i *Issuer) issue(subject string, typ TokenType, expiresAt time.Time) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		TokenType: typ,
	})
	return token.SignedString(i.secret)
}

// Verify checks the signature, expiry, and type claim of tokenString and
// returns the subject. Any failure, including a type mismatch, yields
// common.ErrInvalidToken.
func (i *Issuer) Verify(tokenString string, expected TokenType) (string, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return i.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return "", common.ErrInvalidToken
	}

	if !token.Valid || claims.TokenType != expected || claims.Subject == "" {
		return "", common.ErrInvalidToken
	}

	return claims.Subject, nil
}
