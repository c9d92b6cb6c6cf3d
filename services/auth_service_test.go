package services

import (
	"testing"
	"time"

	"github.com/laith-prog/rms/entity"
	"github.com/laith-prog/rms/repository"
	"github.com/laith-prog/rms/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func authFixture(t *testing.T) *AuthService {
	db := newTestDB(t)
	return NewAuthService(repository.NewUserRepository(db), "test-secret", time.Hour)
}

func TestRegister_AlwaysCreatesCustomer(t *testing.T) {
	auth := authFixture(t)

	user, err := auth.Register("New@Example.COM", "secret123", "New", "User", "")
	require.NoError(t, err)
	assert.Equal(t, "new@example.com", user.Email)
	assert.Equal(t, entity.RoleCustomer, user.Role)
	assert.True(t, user.IsActive)
	assert.NotEqual(t, "secret123", user.Password)

	_, err = auth.Register("new@example.com", "other", "Dup", "User", "")
	assert.EqualError(t, err, "email already registered")
}

func TestLogin(t *testing.T) {
	auth := authFixture(t)
	_, err := auth.Register("login@example.com", "secret123", "Log", "In", "")
	require.NoError(t, err)

	token, user, err := auth.Login("login@example.com", "secret123")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, "login@example.com", user.Email)

	claims, err := utils.ParseToken(token, "test-secret")
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, entity.RoleCustomer, claims.Role)

	_, _, err = auth.Login("login@example.com", "wrong")
	assert.EqualError(t, err, "invalid credentials")

	_, _, err = auth.Login("nobody@example.com", "secret123")
	assert.EqualError(t, err, "invalid credentials")
}

func TestLogin_DisabledAccount(t *testing.T) {
	db := newTestDB(t)
	repo := repository.NewUserRepository(db)
	auth := NewAuthService(repo, "test-secret", time.Hour)

	user, err := auth.Register("off@example.com", "secret123", "Dis", "Abled", "")
	require.NoError(t, err)
	require.NoError(t, repo.Update(user.ID, map[string]any{"is_active": false}))

	_, _, err = auth.Login("off@example.com", "secret123")
	assert.EqualError(t, err, "account disabled")
}
