package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var ErrInvalidToken = errors.New("invalid token")

// Tokens carries the signing secret and lifetime for bearer tokens.
type Tokens struct {
	Secret []byte
	TTL    time.Duration
}

// Generate signs a token carrying the user id.
func (t Tokens) Generate(userID string) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userID,
		"exp":     time.Now().Add(t.TTL).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.Secret)
}

// Verify parses the token and returns the user id claim.
// The claim must be a well-formed UUID.
func (t Tokens) Verify(tokenStr string) (string, error) {
	token, err := jwt.Parse(tokenStr, func(tok *jwt.Token) (interface{}, error) {
		if _, ok := tok.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return t.Secret, nil
	})
	if err != nil || !token.Valid {
		return "", ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", ErrInvalidToken
	}
	raw, ok := claims["user_id"].(string)
	if !ok {
		return "", ErrInvalidToken
	}
	if _, err := uuid.Parse(raw); err != nil {
		return "", ErrInvalidToken
	}
	return raw, nil
}
