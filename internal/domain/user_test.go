package domain

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUser(t *testing.T) {
	t.Parallel()

	t.Run("valid user with default role", func(t *testing.T) {
		t.Parallel()
		user, err := NewUser("alice", "alice@example.com", "correct-horse", "")
		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, user.ID)
		assert.Equal(t, "alice", user.Username)
		assert.Equal(t, RoleUser, user.Role)
		assert.False(t, user.CreatedAt.IsZero())
		assert.Equal(t, user.CreatedAt, user.UpdatedAt)
	})

	t.Run("explicit admin role", func(t *testing.T) {
		t.Parallel()
		user, err := NewUser("root", "root@example.com", "correct-horse", RoleAdmin)
		require.NoError(t, err)
		assert.Equal(t, RoleAdmin, user.Role)
	})

	tests := []struct {
		name     string
		username string
		email    string
		password string
		role     Role
		wantErr  error
	}{
		{"username too short", "ab", "a@example.com", "secret-pw", "", ErrUsernameTooShort},
		{"username too long", strings.Repeat("a", 51), "a@example.com", "secret-pw", "", ErrUsernameTooLong},
		{"empty email", "alice", "", "secret-pw", "", ErrEmptyEmail},
		{"email missing at", "alice", "alice.example.com", "secret-pw", "", ErrInvalidEmail},
		{"email missing domain dot", "alice", "alice@example", "secret-pw", "", ErrInvalidEmail},
		{"email trailing dot", "alice", "alice@example.", "secret-pw", "", ErrInvalidEmail},
		{"email double at", "alice", "a@b@example.com", "secret-pw", "", ErrInvalidEmail},
		{"password too short", "alice", "alice@example.com", "pw", "", ErrPasswordTooShort},
		{"password too long", "alice", "alice@example.com", strings.Repeat("x", 73), "", ErrPasswordTooLong},
		{"unknown role", "alice", "alice@example.com", "secret-pw", Role("owner"), ErrInvalidRole},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := NewUser(tc.username, tc.email, tc.password, tc.role)
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestUserValidateStoredUser(t *testing.T) {
	t.Parallel()

	user := &User{
		ID:             uuid.New(),
		Username:       "alice",
		Email:          "alice@example.com",
		HashedPassword: "$2a$10$abcdefghijklmnopqrstuv",
		Role:           RoleUser,
	}
	assert.NoError(t, user.Validate())

	t.Run("missing both passwords", func(t *testing.T) {
		t.Parallel()
		u := *user
		u.HashedPassword = ""
		assert.ErrorIs(t, u.Validate(), ErrEmptyPassword)
	})

	t.Run("missing ID", func(t *testing.T) {
		t.Parallel()
		u := *user
		u.ID = uuid.Nil
		assert.ErrorIs(t, u.Validate(), ErrEmptyUserID)
	})
}

func TestRoleIsValid(t *testing.T) {
	t.Parallel()

	assert.True(t, RoleUser.IsValid())
	assert.True(t, RoleAdmin.IsValid())
	assert.False(t, Role("").IsValid())
	assert.False(t, Role("superuser").IsValid())
}
