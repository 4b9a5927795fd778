//go:build integration

package users

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tasklists/tasklists-api/internal/database"
	"github.com/tasklists/tasklists-api/internal/database/dbtest"
	"github.com/tasklists/tasklists-api/internal/models"
)

func TestMongoUserRepository_Sessions(t *testing.T) {
	db := dbtest.Open(t)
	repo := NewMongoUserRepository(db.Collection(database.UsersCollection))
	ctx := context.Background()

	u := &models.User{Email: "mongo@x.com", Password: "hash"}
	require.NoError(t, repo.Create(ctx, u))
	require.False(t, u.ID.IsZero())
	require.ErrorIs(t, repo.Create(ctx, &models.User{Email: "mongo@x.com"}), ErrDuplicateEmail)

	require.NoError(t, repo.AppendSession(ctx, u.ID, models.Session{Token: "t1", ExpiresAt: 100}))
	require.NoError(t, repo.AppendSession(ctx, u.ID, models.Session{Token: "t2", ExpiresAt: 200}))

	got, err := repo.FindByIDAndToken(ctx, u.ID, "t2")
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Len(t, got.Sessions, 2)

	require.NoError(t, repo.RemoveSession(ctx, u.ID, "t1"))
	got, err = repo.FindByIDAndToken(ctx, u.ID, "t1")
	require.NoError(t, err)
	require.Nil(t, got)

	got, err = repo.GetByEmail(ctx, "mongo@x.com")
	require.NoError(t, err)
	require.Equal(t, []models.Session{{Token: "t2", ExpiresAt: 200}}, got.Sessions)

	require.NoError(t, repo.Delete(ctx, u.ID))
	got, err = repo.GetByID(ctx, u.ID)
	require.NoError(t, err)
	require.Nil(t, got)
}
