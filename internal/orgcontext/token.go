package orgcontext

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// selectionClaims is the payload of a persisted active-organization
// selection token. The token names an organization; it is never proof of
// membership — the resolver re-checks storage on every use.
type selectionClaims struct {
	OrgID string `json:"org"`
	jwt.RegisteredClaims
}

// TokenCodec signs and verifies active-organization selection tokens. Tokens
// are HS256 JWTs with the user id as subject and a multi-week expiry; a
// token presented by a different user, expired, or signed with another key
// fails verification and the resolver falls back to the first membership.
type TokenCodec struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenCodec returns a codec signing with secret. ttl is the selection
// lifetime (typically several weeks).
func NewTokenCodec(secret []byte, ttl time.Duration) (*TokenCodec, error) {
	if len(secret) == 0 {
		return nil, errors.New("orgcontext: token secret must not be empty")
	}
	if ttl <= 0 {
		return nil, errors.New("orgcontext: token ttl must be positive")
	}
	return &TokenCodec{secret: secret, ttl: ttl}, nil
}

// Mint returns a signed selection token naming orgID for userID.
func (c *TokenCodec) Mint(userID, orgID string) (string, error) {
	now := time.Now()
	claims := selectionClaims{
		OrgID: orgID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
}

// Verify returns the organization id the token names, or an error if the
// token is invalid, expired, or was minted for a different user.
func (c *TokenCodec) Verify(token, userID string) (string, error) {
	var claims selectionClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return c.secret, nil
	})
	if err != nil {
		return "", err
	}
	if !parsed.Valid {
		return "", errors.New("invalid selection token")
	}
	if claims.Subject != userID {
		return "", errors.New("selection token subject mismatch")
	}
	if claims.OrgID == "" {
		return "", errors.New("selection token names no organization")
	}
	return claims.OrgID, nil
}
