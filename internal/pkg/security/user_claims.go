package security

import (
	"github.com/golang-jwt/jwt/v5"
)

// UserClaims 托管认证服务签发的 access token 载荷
type UserClaims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}
