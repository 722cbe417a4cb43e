package service

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bank-card-api/internal/core/domain"
)

func TestJWTTokenService_GenerateAndValidate(t *testing.T) {
	svc := NewJWTTokenService("test-secret-at-least-32-chars-long!!", time.Hour, "bank-card-api")
	userID := uuid.New()

	token, expiresAt, err := svc.Generate(userID, domain.RoleAdmin)
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.True(t, expiresAt.After(time.Now()))

	claims, err := svc.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, domain.RoleAdmin, claims.Role)
}

func TestJWTTokenService_Validate_WrongSecret(t *testing.T) {
	svc := NewJWTTokenService("test-secret-at-least-32-chars-long!!", time.Hour, "bank-card-api")
	other := NewJWTTokenService("another-secret-entirely-padded-out!!", time.Hour, "bank-card-api")

	token, _, err := svc.Generate(uuid.New(), domain.RoleUser)
	require.NoError(t, err)

	_, err = other.Validate(token)
	assert.Error(t, err)
}

func TestJWTTokenService_Validate_Expired(t *testing.T) {
	svc := NewJWTTokenService("test-secret-at-least-32-chars-long!!", -time.Minute, "bank-card-api")

	token, _, err := svc.Generate(uuid.New(), domain.RoleUser)
	require.NoError(t, err)

	_, err = svc.Validate(token)
	assert.Error(t, err)
}

func TestJWTTokenService_Validate_Garbage(t *testing.T) {
	svc := NewJWTTokenService("test-secret-at-least-32-chars-long!!", time.Hour, "bank-card-api")

	_, err := svc.Validate("not.a.jwt")
	assert.Error(t, err)
}
