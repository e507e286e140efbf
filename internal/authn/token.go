package authn

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/CameronXie/digital-diner/internal/keyfetcher"
)

// SigningMethod signs every session token.
var SigningMethod = jwt.SigningMethodRS256

// TokenTTL is the lifetime of every session token.
const TokenTTL = time.Hour

// TokenIssuer signs session tokens whose subject is a user id.
type TokenIssuer struct {
	privateKeyFetcher keyfetcher.PrivateKeyFetcher
	issuer            string
	audience          string
	now               func() time.Time
}

// NewTokenIssuer creates a TokenIssuer. Tokens expire TokenTTL after issue.
func NewTokenIssuer(privateKeyFetcher keyfetcher.PrivateKeyFetcher, issuer, audience string) *TokenIssuer {
	return &TokenIssuer{
		privateKeyFetcher: privateKeyFetcher,
		issuer:            issuer,
		audience:          audience,
		now:               time.Now,
	}
}

// Issue returns a signed token for userID.
func (i *TokenIssuer) Issue(userID string) (string, error) {
	now := i.now()
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		Issuer:    i.issuer,
		Audience:  jwt.ClaimStrings{i.audience},
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(TokenTTL)),
		ID:        uuid.NewString(),
	}

	privateKey, err := i.privateKeyFetcher.FetchPrivateKey()
	if err != nil {
		return "", fmt.Errorf("fetch signing key: %w", err)
	}

	token, err := jwt.NewWithClaims(SigningMethod, claims).SignedString(privateKey)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	return token, nil
}
