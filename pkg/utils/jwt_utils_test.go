package utils_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bakery_backend/pkg/utils"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	token, err := utils.GenerateAccessToken(7, "admin", "admin")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := utils.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, int64(7), claims.AdminID)
	assert.Equal(t, "admin", claims.Username)
	assert.Equal(t, "admin", claims.Role)
	assert.Equal(t, "bakery-backend", claims.Issuer)
	assert.WithinDuration(t, time.Now().Add(utils.AccessTokenTTL), claims.ExpiresAt.Time, time.Minute)
}

func TestValidateToken_Garbage(t *testing.T) {
	_, err := utils.ValidateToken("not-a-token")
	assert.Error(t, err)
}

func TestIsValidPhone(t *testing.T) {
	assert.True(t, utils.IsValidPhone("0901234567"))
	assert.True(t, utils.IsValidPhone("09012345678"))

	assert.False(t, utils.IsValidPhone("090123456"))    // too short
	assert.False(t, utils.IsValidPhone("090123456789")) // too long
	assert.False(t, utils.IsValidPhone("+8490123456"))
	assert.False(t, utils.IsValidPhone("090 123 4567"))
	assert.False(t, utils.IsValidPhone(""))
}
