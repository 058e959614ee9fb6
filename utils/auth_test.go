package utils

import (
	"testing"

	"github.com/loomline/catalog_end/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestPasswordHashing(t *testing.T) {
	hash := HashPassword("s3cret")
	assert.NotEqual(t, "s3cret", hash)
	assert.True(t, VerifyPassword("s3cret", hash))
	assert.False(t, VerifyPassword("wrong", hash))
}

func TestTokenRoundTrip(t *testing.T) {
	user := models.User{
		ID:    primitive.NewObjectID(),
		Name:  "Asha Rao",
		Email: "asha@example.com",
		Role:  models.UserRoleEditor,
	}

	token, err := GenerateToken(user)
	require.NoError(t, err)

	claims, err := ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID.Hex(), claims["id"])
	assert.Equal(t, "asha@example.com", claims["email"])
	assert.Equal(t, "editor", claims["role"])
}

func TestParseTokenRejectsGarbage(t *testing.T) {
	_, err := ParseToken("not.a.token")
	assert.Error(t, err)
}
