package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-with-enough-length!!"

func TestManager_GenerateAndValidate(t *testing.T) {
	manager := NewManager(testSecret, time.Hour)

	token, expiresAt, err := manager.Generate("admin")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.True(t, expiresAt.After(time.Now()))

	claims, err := manager.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, "admin", claims.Username)
}

func TestManager_ValidateExpiredToken(t *testing.T) {
	manager := NewManager(testSecret, -time.Minute)

	token, _, err := manager.Generate("admin")
	require.NoError(t, err)

	_, err = manager.Validate(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestManager_ValidateInvalidToken(t *testing.T) {
	manager := NewManager(testSecret, time.Hour)

	_, err := manager.Validate("not-a-jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestManager_ValidateWrongSecret(t *testing.T) {
	manager := NewManager(testSecret, time.Hour)
	other := NewManager("another-secret-key-with-enough-len!!", time.Hour)

	token, _, err := manager.Generate("admin")
	require.NoError(t, err)

	_, err = other.Validate(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
