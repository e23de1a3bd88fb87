package service

import (
	"testing"
	"time"

	"simpledrill_backend/internal/config"
	"simpledrill_backend/internal/model"
	"simpledrill_backend/internal/repository"
	"simpledrill_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthService(t *testing.T, e *engine) *AuthService {
	t.Helper()

	cfg := &config.Config{
		JWT: config.JWTConfig{
			Secret:     "unit-test-secret-key-of-sufficient-len",
			ExpireTime: time.Hour,
		},
	}
	return NewAuthService(
		repository.NewUserRepository(e.db),
		repository.NewPersonRepository(e.db),
		e.db, nil, cfg,
	)
}

func issueInvite(t *testing.T, e *engine, inviter *model.Person, code string) *model.Invite {
	t.Helper()

	invite := &model.Invite{
		Code:      code,
		InviterID: inviter.ID,
		IssuedAt:  time.Now(),
	}
	require.NoError(t, e.db.Create(invite).Error)
	return invite
}

func TestRegisterWithValidInvite(t *testing.T) {
	e := newEngine(t)
	auth := newAuthService(t, e)
	inviter := e.newPerson(t, "staff")
	issueInvite(t, e, inviter, "welcome123")

	person, token, err := auth.Register("alice", "long-password", "welcome123")
	require.NoError(t, err)
	require.NotNil(t, person)
	assert.Equal(t, "alice", person.User.Username)

	claims, err := util.ParseJWT(token, auth.Cfg.JWT.Secret)
	require.NoError(t, err)
	assert.Equal(t, person.ID, claims.PersonID)
	assert.Equal(t, "alice", claims.Username)

	var invite model.Invite
	require.NoError(t, e.db.Where("code = ?", "welcome123").First(&invite).Error)
	require.NotNil(t, invite.UsedByID)
	assert.Equal(t, person.ID, *invite.UsedByID)
}

func TestRegisterInviteIsSingleUse(t *testing.T) {
	e := newEngine(t)
	auth := newAuthService(t, e)
	inviter := e.newPerson(t, "staff")
	issueInvite(t, e, inviter, "welcome123")

	_, _, err := auth.Register("alice", "long-password", "welcome123")
	require.NoError(t, err)

	_, _, err = auth.Register("bob", "long-password", "welcome123")
	assert.ErrorIs(t, err, util.ErrInviteInvalid)

	var count int64
	require.NoError(t, e.db.Model(&model.User{}).Where("username = ?", "bob").Count(&count).Error)
	assert.Zero(t, count, "a failed registration must not create a user")
}

func TestRegisterUnknownInvite(t *testing.T) {
	e := newEngine(t)
	auth := newAuthService(t, e)

	_, _, err := auth.Register("alice", "long-password", "no-such-code")
	assert.ErrorIs(t, err, util.ErrInviteInvalid)
}

func TestRegisterUsernameTaken(t *testing.T) {
	e := newEngine(t)
	auth := newAuthService(t, e)
	inviter := e.newPerson(t, "staff")
	issueInvite(t, e, inviter, "first")
	issueInvite(t, e, inviter, "second")

	_, _, err := auth.Register("alice", "long-password", "first")
	require.NoError(t, err)

	_, _, err = auth.Register("alice", "other-password", "second")
	assert.ErrorIs(t, err, util.ErrUsernameTaken)
}

func TestLogin(t *testing.T) {
	e := newEngine(t)
	auth := newAuthService(t, e)
	inviter := e.newPerson(t, "staff")
	issueInvite(t, e, inviter, "welcome123")

	_, _, err := auth.Register("alice", "long-password", "welcome123")
	require.NoError(t, err)

	person, token, err := auth.Login("alice", "long-password")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, "alice", person.User.Username)

	_, _, err = auth.Login("alice", "wrong-password")
	assert.ErrorIs(t, err, util.ErrInvalidCredentials)

	_, _, err = auth.Login("nobody", "long-password")
	assert.ErrorIs(t, err, util.ErrInvalidCredentials)
}

func TestInviteServiceStaffGate(t *testing.T) {
	e := newEngine(t)
	invites := NewInviteService(repository.NewInviteRepository(e.db))

	member := e.newPerson(t, "member")
	_, err := invites.AddInvite(member, "for a friend")
	assert.ErrorIs(t, err, util.ErrPermissionDenied)
	_, err = invites.ListInvites(member)
	assert.ErrorIs(t, err, util.ErrPermissionDenied)

	staffUser := &model.User{Username: "boss", Password: "x", Role: model.Staff}
	require.NoError(t, e.db.Create(staffUser).Error)
	staff := &model.Person{UserID: staffUser.ID}
	require.NoError(t, e.db.Create(staff).Error)
	staff.User = *staffUser

	invite, err := invites.AddInvite(staff, "for a friend")
	require.NoError(t, err)
	assert.Len(t, invite.Code, 32)
	assert.Equal(t, "for a friend", invite.Comment)

	listed, err := invites.ListInvites(staff)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, invite.Code, listed[0].Code)
}
