package util

import (
	"testing"
	"time"

	"simpledrill_backend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTRoundTrip(t *testing.T) {
	user := &model.User{Username: "alice", Role: model.Member}
	user.ID = 7
	person := &model.Person{UserID: 7}
	person.ID = 3

	token, err := GenerateJWT(user, person, "secret", time.Hour)
	require.NoError(t, err)

	claims, err := ParseJWT(token, "secret")
	require.NoError(t, err)
	assert.EqualValues(t, 7, claims.UserID)
	assert.EqualValues(t, 3, claims.PersonID)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, model.Member, claims.Role)
	assert.NotEmpty(t, claims.ID, "every token needs a jti for the logout denylist")
}

func TestJWTWrongSecret(t *testing.T) {
	user := &model.User{Username: "alice"}
	person := &model.Person{}

	token, err := GenerateJWT(user, person, "secret", time.Hour)
	require.NoError(t, err)

	_, err = ParseJWT(token, "other-secret")
	assert.Error(t, err)
}

func TestJWTExpired(t *testing.T) {
	user := &model.User{Username: "alice"}
	person := &model.Person{}

	token, err := GenerateJWT(user, person, "secret", -time.Minute)
	require.NoError(t, err)

	_, err = ParseJWT(token, "secret")
	assert.Error(t, err)
}
