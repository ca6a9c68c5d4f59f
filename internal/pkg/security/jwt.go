package security

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// ErrAnonymousToken 匿名 key 不代表任何用户
var ErrAnonymousToken = errors.New("token carries no user")

// ValidateToken 用项目 JWT secret 校验 access token 并解析出 Claims
func ValidateToken(tokenString, secret string) (*UserClaims, error) {
	claims := &UserClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	}, jwt.WithExpirationRequired())
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}

	if !token.Valid {
		return nil, errors.New("token invalid or expired")
	}
	if claims.Subject == "" || claims.Role == "anon" {
		return nil, ErrAnonymousToken
	}

	return claims, nil
}
