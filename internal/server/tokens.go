package server

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const tokenIssuer = "regdash"

// sessionClaims is the payload of the session cookie. RegisteredClaims.ID
// holds the session id and Subject the user id.
type sessionClaims struct {
	jwt.RegisteredClaims
}

// tokenService signs and verifies session cookies.
type tokenService struct {
	key []byte
}

func newTokenService(key []byte) *tokenService {
	return &tokenService{key: key}
}

func (s *tokenService) issue(sessionID, userID string, issuedAt, expiresAt time.Time) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        sessionID,
			Subject:   userID,
			Issuer:    tokenIssuer,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	})
	signed, err := token.SignedString(s.key)
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}
	return signed, nil
}

// parse verifies raw and returns its claims. Expiry is checked against now.
func (s *tokenService) parse(raw string, now time.Time) (*sessionClaims, error) {
	parsed, err := jwt.ParseWithClaims(raw, &sessionClaims{},
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrTokenUnverifiable
			}
			return s.key, nil
		},
		jwt.WithIssuer(tokenIssuer),
		jwt.WithTimeFunc(func() time.Time { return now }),
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)
	if err != nil {
		return nil, err
	}

	claims, ok := parsed.Claims.(*sessionClaims)
	if !ok || !parsed.Valid || claims.ID == "" {
		return nil, errors.New("invalid session token")
	}
	return claims, nil
}
