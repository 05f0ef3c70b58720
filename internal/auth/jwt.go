package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type Claims struct {
	Username  string
	ExpiresAt time.Time
}

func (c Claims) toMapClaims() jwt.MapClaims {
	return jwt.MapClaims{
		"sub": c.Username,
		"exp": c.ExpiresAt.Unix(),
	}
}

func GenerateToken(c Claims, secret string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c.toMapClaims())
	return token.SignedString([]byte(secret))
}

func ParseToken(tokenStr, secret string) (string, error) {
	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (any, error) {
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return "", errors.New("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", errors.New("invalid token")
	}

	sub, _ := claims["sub"].(string)
	if sub == "" {
		return "", errors.New("invalid token")
	}
	return sub, nil
}
