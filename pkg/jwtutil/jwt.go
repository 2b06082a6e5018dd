package jwtutil

import (
	"errors"
	"time"

	"github.com/AaronAlejandrou/store-sicua-back/pkg/config"
	"github.com/golang-jwt/jwt/v4"
)

var cfg *config.JWTConfig

// StoreClaims represents the session token claims for an authenticated store
type StoreClaims struct {
	StoreID   string `json:"store_id"`
	Email     string `json:"email"`
	StoreName string `json:"store_name,omitempty"`
	jwt.RegisteredClaims
}

// Initialize sets the package configuration
func Initialize(jwtConfig *config.JWTConfig) {
	cfg = jwtConfig
}

// GenerateToken creates a session token for a store
func GenerateToken(storeID, email, storeName string) (string, error) {
	if cfg == nil {
		return "", errors.New("JWT configuration not provided")
	}

	claims := StoreClaims{
		StoreID:   storeID,
		Email:     email,
		StoreName: storeName,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Duration(cfg.ExpirationHours) * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(cfg.SigningKey))
}

// ValidateToken validates and parses a session token
func ValidateToken(tokenString string) (*StoreClaims, error) {
	if cfg == nil {
		return nil, errors.New("JWT configuration not provided")
	}

	token, err := jwt.ParseWithClaims(tokenString, &StoreClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(cfg.SigningKey), nil
	})

	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*StoreClaims); ok && token.Valid {
		return claims, nil
	}

	return nil, jwt.ErrSignatureInvalid
}
