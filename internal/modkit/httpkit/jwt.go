package httpkit

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims are the bearer token claims understood by the API
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// HS256 returns a TokenFunc that validates HMAC SHA-256 signed tokens with secret
// the subject comes from "sub" and the role from "role"; both are required
func HS256(secret []byte) TokenFunc {
	return func(raw string) (string, string, error) {
		tok, err := jwt.ParseWithClaims(raw, &Claims{}, func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
			}
			return secret, nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
		if err != nil {
			return "", "", err
		}
		c, ok := tok.Claims.(*Claims)
		if !ok || !tok.Valid {
			return "", "", fmt.Errorf("invalid token claims")
		}
		if c.Subject == "" || c.Role == "" {
			return "", "", fmt.Errorf("token lacks sub or role")
		}
		return c.Subject, c.Role, nil
	}
}

// SignHS256 issues a token for subject and role valid for ttl
func SignHS256(secret []byte, subject, role string, ttl time.Duration) (string, error) {
	now := time.Now()
	c := Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(secret)
}
