// Package auth issues and parses the JWTs used by GophMarket: short-lived
// access tokens identifying a user, and listing tokens that serve as the
// opaque signature of a synced ad.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/gophmarket/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// Claims carries the authenticated user id.
type Claims struct {
	jwt.RegisteredClaims
	UserID string
}

// ListingClaims binds a public id to the listing URL it was issued for.
type ListingClaims struct {
	jwt.RegisteredClaims
	ListingURL string `json:"listing_url"`
}

func GenerateToken(userID string, secretKey []byte, validityDuration time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(validityDuration)),
		},
		UserID: userID,
	})

	return token.SignedString(secretKey)
}

func GetUserIDFromToken(tokenString string, secretKey []byte) (string, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return secretKey, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", common.ErrTokenExpired
		}
		return "", fmt.Errorf("%w: %v", common.ErrInvalidToken, err)
	}

	if !token.Valid || claims.UserID == "" {
		return "", common.ErrInvalidToken
	}

	return claims.UserID, nil
}

// ListingSigner issues the opaque signature attached to synced ads.
// Nothing in the system verifies it; it only has to be unforgeable enough
// to serve as a capability token for the discovery collaborator.
type ListingSigner struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewListingSigner(secret []byte, ttl time.Duration) *ListingSigner {
	return &ListingSigner{secret: secret, ttl: ttl, now: time.Now}
}

// Sign returns a token for publicID and listingURL.
func (s *ListingSigner) Sign(publicID, listingURL string) (string, error) {
	now := s.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, ListingClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   publicID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
		ListingURL: listingURL,
	})
	return token.SignedString(s.secret)
}
