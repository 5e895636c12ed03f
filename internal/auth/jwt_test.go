package auth

import (
	"testing"

	"depot-backend/internal/config"
	"depot-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testManager() *JWTManager {
	cfg := &config.Config{}
	cfg.JWT.Secret = "test-secret"
	cfg.JWT.ExpirationHours = 1
	cfg.JWT.Issuer = "depot-backend-test"
	return NewJWTManager(cfg)
}

func TestGenerateAndValidateToken(t *testing.T) {
	mgr := testManager()
	user := &models.User{ID: 42, Role: models.RoleOperator}

	tokenString, err := mgr.GenerateToken(user)
	require.NoError(t, err)

	claims, err := mgr.ValidateToken(tokenString)
	require.NoError(t, err)
	assert.Equal(t, 42, claims.UserID)
	assert.Equal(t, models.RoleOperator, claims.Role)
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	mgr := testManager()
	_, err := mgr.ValidateToken("not-a-token")
	assert.Error(t, err)
}

func TestValidateTokenRejectsWrongSecret(t *testing.T) {
	mgr := testManager()
	tokenString, err := mgr.GenerateToken(&models.User{ID: 1, Role: models.RoleAdmin})
	require.NoError(t, err)

	other := testManager()
	other.cfg.JWT.Secret = "different-secret"
	_, err = other.ValidateToken(tokenString)
	assert.Error(t, err)
}

func TestTempTokenIsNotAnAccessToken(t *testing.T) {
	mgr := testManager()
	user := &models.User{ID: 7, Role: models.RoleClerk}

	tempString, err := mgr.GenerateTempToken(user)
	require.NoError(t, err)

	claims, err := mgr.ValidateTempToken(tempString)
	require.NoError(t, err)
	assert.Equal(t, 7, claims.UserID)
	assert.Equal(t, "2fa_pending", claims.Type)

	// A full access token must not pass the temp check.
	full, err := mgr.GenerateToken(user)
	require.NoError(t, err)
	_, err = mgr.ValidateTempToken(full)
	assert.Error(t, err)
}
