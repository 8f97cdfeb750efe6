package model

import "github.com/golang-jwt/jwt/v5"

// OperatorClaims is the JWT claim set carried by operator tokens. Only the
// administrative endpoints (unlock, interest accrual) require one.
type OperatorClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}
