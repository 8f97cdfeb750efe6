package handler

import (
	"context"
	"go-bank-ledger/common"
	"go-bank-ledger/config"
	"go-bank-ledger/model"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

type contextKey string

const OperatorRoleKey contextKey = "operatorRole"

// OperatorAuthMiddleware guards the administrative endpoints. It requires a
// bearer JWT signed with the configured secret and carrying the admin role.
func OperatorAuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			err := common.NewAppError(http.StatusUnauthorized, "Authorization header is required", nil)
			err.Send(w)
			return
		}

		headerParts := strings.Split(authHeader, " ")
		if len(headerParts) != 2 || strings.ToLower(headerParts[0]) != "bearer" {
			err := common.NewAppError(http.StatusUnauthorized, "Invalid authorization header format", nil)
			err.Send(w)
			return
		}

		tokenString := headerParts[1]
		claims := &model.OperatorClaims{}

		jwtKey := []byte(config.AppConfig.JWT.SecretKey)

		token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
			return jwtKey, nil
		})

		if err != nil || !token.Valid {
			appErr := common.NewAppError(http.StatusUnauthorized, "Invalid or expired token", err)
			appErr.Send(w)
			return
		}

		if claims.Role != "admin" {
			appErr := common.NewAppError(http.StatusForbidden, "Access denied. Operator privileges required.", nil)
			appErr.Send(w)
			return
		}

		ctx := context.WithValue(r.Context(), OperatorRoleKey, claims.Role)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
