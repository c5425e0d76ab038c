package user

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var userRepoStub = NewStubUserRepository()

func setup(t *testing.T) (*UserServiceImpl, func()) {
	service := NewUserService(userRepoStub)
	return service, func() {
		t.Log("Teardown after test")
		userRepoStub.Reset()
	}
}

func TestUserServiceImpl_CreateUser(t *testing.T) {
	t.Run("should normalize token and default name", func(t *testing.T) {
		service, teardown := setup(t)
		defer teardown()

		// when
		created, err := service.CreateUser(context.Background(), User{Token: " Joschi ", Active: true})

		// then
		require.NoError(t, err)
		assert.Equal(t, "joschi", created.Token)
		assert.Equal(t, " Joschi ", created.Name)
		stored, err := service.GetUserByToken(context.Background(), "JOSCHI")
		require.NoError(t, err)
		assert.Equal(t, created.Id, stored.Id)
	})

	t.Run("should reject empty token", func(t *testing.T) {
		service, teardown := setup(t)
		defer teardown()

		_, err := service.CreateUser(context.Background(), User{Name: "Nobody"})

		assert.Error(t, err)
	})
}

func TestUserServiceImpl_GetCurrentUser(t *testing.T) {
	t.Run("should load the user from context", func(t *testing.T) {
		service, teardown := setup(t)
		defer teardown()
		created, _ := service.CreateUser(context.Background(), User{Name: "Anna", Token: "anna", Overtime: 3})
		ctx := WithUser(context.Background(), User{Id: created.Id})

		current, err := service.GetCurrentUser(ctx)

		require.NoError(t, err)
		assert.Equal(t, "Anna", current.Name)
		assert.Equal(t, 3.0, current.Overtime)
	})

	t.Run("should return error when context has no user", func(t *testing.T) {
		service, teardown := setup(t)
		defer teardown()

		_, err := service.GetCurrentUser(context.Background())

		assert.ErrorIs(t, err, ErrNoUser)
		assert.Contains(t, err.Error(), "failed to get current user")
	})
}

func TestUserServiceImpl_GetActiveUsers(t *testing.T) {
	service, teardown := setup(t)
	defer teardown()
	ctx := context.Background()
	_, _ = service.CreateUser(ctx, User{Name: "Zoe", Token: "zoe", Active: true})
	_, _ = service.CreateUser(ctx, User{Name: "Former", Token: "former", Active: false})
	_, _ = service.CreateUser(ctx, User{Name: "Anna", Token: "anna", Active: true})

	users, err := service.GetActiveUsers(ctx)

	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "Anna", users[0].Name)
	assert.Equal(t, "Zoe", users[1].Name)
}

func TestUserServiceImpl_UpdateOvertime(t *testing.T) {
	service, teardown := setup(t)
	defer teardown()
	ctx := context.Background()
	created, _ := service.CreateUser(ctx, User{Name: "Anna", Token: "anna", Active: true})

	require.NoError(t, service.UpdateOvertime(ctx, created.Id, -12.5))
	stored, _ := service.GetUser(ctx, created.Id)
	assert.Equal(t, -12.5, stored.Overtime)

	assert.ErrorIs(t, service.UpdateOvertime(ctx, 999, 1), ErrUserNotFound)
}

func TestNewAliasMap(t *testing.T) {
	users := []User{{Id: 1, Token: "joschi"}, {Id: 2, Token: "anna"}}
	aliases := map[string][]string{
		"joschi":  {"Jkphl", "joe"},
		"anna":    {"joe"},
		"unknown": {"ghost"},
	}

	m := NewAliasMap(users, aliases)

	tests := []struct {
		token  string
		wantId int
		found  bool
	}{
		{"joschi", 1, true},
		{"JKPHL", 1, true},
		{"anna", 2, true},
		{"ghost", 0, false},
		{"nobody", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			u, ok := m.Resolve(tt.token)
			assert.Equal(t, tt.found, ok)
			assert.Equal(t, tt.wantId, u.Id)
		})
	}

	// an alias keeps pointing at one user even when configured twice
	joe, ok := m.Resolve("joe")
	require.True(t, ok)
	assert.Contains(t, []int{1, 2}, joe.Id)
}
