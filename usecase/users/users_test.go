package users

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/identigo/backend/domain"
	"github.com/identigo/backend/repository/memory"
)

func seedUsers(t *testing.T, users *memory.UserRepository, active, inactive int) []string {
	t.Helper()

	var ids []string
	for i := 0; i < active+inactive; i++ {
		user := &domain.User{
			ID:       fmt.Sprintf("user-%03d", i),
			Username: fmt.Sprintf("user%03d", i),
			Email:    fmt.Sprintf("user%03d@example.com", i),
			Inactive: i >= active,
		}
		require.NoError(t, users.Create(context.Background(), user))
		ids = append(ids, user.ID)
		time.Sleep(time.Millisecond)
	}
	return ids
}

func TestList_OnlyActiveUsers(t *testing.T) {
	users := memory.NewUserRepository()
	seedUsers(t, users, 3, 2)
	uc := New(users, nil)

	result, err := uc.List(context.Background(), 0, 10, "")
	require.NoError(t, err)

	assert.Len(t, result.Users, 3)
	assert.Equal(t, 1, result.TotalPages)
	for _, u := range result.Users {
		assert.False(t, u.Inactive)
	}
}

func TestList_ExcludesCaller(t *testing.T) {
	users := memory.NewUserRepository()
	ids := seedUsers(t, users, 3, 0)
	uc := New(users, nil)

	result, err := uc.List(context.Background(), 0, 10, ids[0])
	require.NoError(t, err)

	assert.Len(t, result.Users, 2)
	for _, u := range result.Users {
		assert.NotEqual(t, ids[0], u.ID)
	}
}

func TestList_Pagination(t *testing.T) {
	users := memory.NewUserRepository()
	seedUsers(t, users, 11, 0)
	uc := New(users, nil)

	tests := []struct {
		name      string
		page      int
		size      int
		wantCount int
		wantPage  int
		wantSize  int
		wantPages int
	}{
		{"first page", 0, 10, 10, 0, 10, 2},
		{"second page", 1, 10, 1, 1, 10, 2},
		{"beyond last page", 5, 10, 0, 5, 10, 2},
		{"negative page clamps to first", -3, 10, 10, 0, 10, 2},
		{"non-positive size defaults", 0, 0, 10, 0, 10, 2},
		{"small page size", 0, 4, 4, 0, 4, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := uc.List(context.Background(), tt.page, tt.size, "")
			require.NoError(t, err)

			assert.Len(t, result.Users, tt.wantCount)
			assert.Equal(t, tt.wantPage, result.Page)
			assert.Equal(t, tt.wantSize, result.Size)
			assert.Equal(t, tt.wantPages, result.TotalPages)
		})
	}
}

func TestList_OrderedByCreation(t *testing.T) {
	users := memory.NewUserRepository()
	ids := seedUsers(t, users, 5, 0)
	uc := New(users, nil)

	result, err := uc.List(context.Background(), 0, 10, "")
	require.NoError(t, err)

	require.Len(t, result.Users, 5)
	for i, u := range result.Users {
		assert.Equal(t, ids[i], u.ID)
	}
}

func TestGet(t *testing.T) {
	users := memory.NewUserRepository()
	ids := seedUsers(t, users, 1, 1)
	uc := New(users, nil)

	t.Run("active user", func(t *testing.T) {
		user, err := uc.Get(context.Background(), ids[0])
		require.NoError(t, err)
		assert.Equal(t, ids[0], user.ID)
	})

	t.Run("inactive user reads as missing", func(t *testing.T) {
		_, err := uc.Get(context.Background(), ids[1])
		assert.True(t, domain.IsDomainError(err, domain.ErrCodeNotFound))
		assert.Equal(t, "user_not_found", domain.MessageKey(err))
	})

	t.Run("unknown id", func(t *testing.T) {
		_, err := uc.Get(context.Background(), "missing")
		assert.True(t, domain.IsDomainError(err, domain.ErrCodeNotFound))
	})
}

func TestUpdateUsername_OwnershipMatrix(t *testing.T) {
	tests := []struct {
		name            string
		authenticatedID string
		targetID        string
	}{
		{"anonymous caller", "", "user-000"},
		{"different user", "user-001", "user-000"},
		{"authenticated against unknown target", "user-001", "missing"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := memory.NewUserRepository()
			seedUsers(t, users, 2, 0)
			uc := New(users, nil)

			err := uc.UpdateUsername(context.Background(), tt.authenticatedID, tt.targetID, "newname")

			assert.True(t, domain.IsDomainError(err, domain.ErrCodeForbidden))
			assert.Equal(t, "unauthenticated_user_update", domain.MessageKey(err))

			unchanged, getErr := users.GetByID(context.Background(), "user-000")
			require.NoError(t, getErr)
			assert.Equal(t, "user000", unchanged.Username)
		})
	}
}

func TestUpdateUsername_SelfUpdate(t *testing.T) {
	users := memory.NewUserRepository()
	ids := seedUsers(t, users, 1, 0)
	uc := New(users, nil)

	require.NoError(t, uc.UpdateUsername(context.Background(), ids[0], ids[0], "newname"))

	updated, err := users.GetByID(context.Background(), ids[0])
	require.NoError(t, err)
	assert.Equal(t, "newname", updated.Username)
}

func TestUpdateUsername_Validation(t *testing.T) {
	tests := []struct {
		name     string
		username string
		key      string
	}{
		{"empty username", "", "username_null"},
		{"short username", "abc", "username_size"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := memory.NewUserRepository()
			ids := seedUsers(t, users, 1, 0)
			uc := New(users, nil)

			err := uc.UpdateUsername(context.Background(), ids[0], ids[0], tt.username)

			var dErr *domain.Error
			require.ErrorAs(t, err, &dErr)
			assert.Equal(t, domain.ErrCodeValidation, dErr.Code)
			require.Len(t, dErr.Fields, 1)
			assert.Equal(t, tt.key, dErr.Fields[0].Key)
		})
	}
}
