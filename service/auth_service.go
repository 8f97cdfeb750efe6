package service

import (
	"crypto/subtle"
	"fmt"
	"go-bank-ledger/config"
	"go-bank-ledger/logger"
	"go-bank-ledger/model"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func getJwtKey() []byte {
	return []byte(config.AppConfig.JWT.SecretKey)
}

// GenerateOperatorToken exchanges the configured admin API key for a
// short-lived operator JWT used by the administrative endpoints.
func GenerateOperatorToken(apiKey string) (string, error) {
	configured := config.AppConfig.Admin.APIKey
	if configured == "" || subtle.ConstantTimeCompare([]byte(apiKey), []byte(configured)) != 1 {
		return "", model.ErrAuthenticationFailed
	}

	expirationTime := time.Now().Add(1 * time.Hour)

	claims := &model.OperatorClaims{
		Role: "admin",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "operator",
			ExpiresAt: jwt.NewNumericDate(expirationTime),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(getJwtKey())
	if err != nil {
		logger.Log.WithError(err).Error("Failed to sign operator JWT")
		return "", fmt.Errorf("failed to sign token string: %w", err)
	}

	return tokenString, nil
}
