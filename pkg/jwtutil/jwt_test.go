package jwtutil

import (
	"testing"

	"github.com/AaronAlejandrou/store-sicua-back/pkg/config"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidateToken(t *testing.T) {
	Initialize(&config.JWTConfig{SigningKey: "test-signing-key", ExpirationHours: 1})

	token, err := GenerateToken("store-1", "tienda@example.com", "Tienda Sicua")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ValidateToken(token)
	require.NoError(t, err)
	require.Equal(t, "store-1", claims.StoreID)
	require.Equal(t, "tienda@example.com", claims.Email)
	require.Equal(t, "Tienda Sicua", claims.StoreName)
}

func TestValidateTokenRejectsTampering(t *testing.T) {
	Initialize(&config.JWTConfig{SigningKey: "test-signing-key", ExpirationHours: 1})

	token, err := GenerateToken("store-1", "tienda@example.com", "")
	require.NoError(t, err)

	_, err = ValidateToken(token + "x")
	require.Error(t, err)

	_, err = ValidateToken("not-a-token")
	require.Error(t, err)

	// A token signed with another key never validates
	Initialize(&config.JWTConfig{SigningKey: "other-key", ExpirationHours: 1})
	_, err = ValidateToken(token)
	require.Error(t, err)
}

func TestExpiredTokenIsRejected(t *testing.T) {
	Initialize(&config.JWTConfig{SigningKey: "test-signing-key", ExpirationHours: -1})

	token, err := GenerateToken("store-1", "tienda@example.com", "")
	require.NoError(t, err)

	Initialize(&config.JWTConfig{SigningKey: "test-signing-key", ExpirationHours: 1})
	_, err = ValidateToken(token)
	require.Error(t, err)
}
