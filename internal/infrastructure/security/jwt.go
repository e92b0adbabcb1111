// Package security provides JWT token utilities
package security

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// ValidateJWT validates a JWT token and returns the claims
func ValidateJWT(tokenString, jwtSecret string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(jwtSecret), nil
	})
	if err != nil {
		return nil, err
	}
	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, errors.New("invalid token")
}

// GenerateOpsToken creates a short-lived admin token for the ops
// dashboard. Each token carries a unique jti so individual logins can
// be told apart in the ops logs.
func GenerateOpsToken(jwtSecret string, ttl time.Duration) (string, error) {
	jti, err := GenerateSecureToken(16)
	if err != nil {
		return "", err
	}

	claims := jwt.MapClaims{
		"role": "ops",
		"type": "ops_auth",
		"jti":  jti,
		"exp":  time.Now().Add(ttl).Unix(),
		"iat":  time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(jwtSecret))
}

// IsOpsToken reports whether validated claims belong to an ops session.
func IsOpsToken(claims jwt.MapClaims) bool {
	role, _ := claims["role"].(string)
	tokenType, _ := claims["type"].(string)
	return role == "ops" && tokenType == "ops_auth"
}
