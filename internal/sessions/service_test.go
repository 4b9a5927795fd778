package sessions

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/tasklists/tasklists-api/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// fake repo for testing
type fakeRepo struct {
	mu    sync.Mutex
	users map[primitive.ObjectID]*models.User
}

func newFakeRepo(users ...*models.User) *fakeRepo {
	f := &fakeRepo{users: map[primitive.ObjectID]*models.User{}}
	for _, u := range users {
		f.users[u.ID] = u.Clone()
	}
	return f
}

func (f *fakeRepo) AppendSession(ctx context.Context, id primitive.ObjectID, s models.Session) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.users[id]; ok {
		u.Sessions = append(u.Sessions, s)
	}
	return nil
}

func (f *fakeRepo) FindByIDAndToken(ctx context.Context, id primitive.ObjectID, token string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, nil
	}
	for _, s := range u.Sessions {
		if s.Token == token {
			return u.Clone(), nil
		}
	}
	return nil, nil
}

func (f *fakeRepo) RemoveSession(ctx context.Context, id primitive.ObjectID, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil
	}
	kept := u.Sessions[:0]
	for _, s := range u.Sessions {
		if s.Token != token {
			kept = append(kept, s)
		}
	}
	u.Sessions = kept
	return nil
}

func TestCreateSession_AppendsAndVerifies(t *testing.T) {
	u := &models.User{ID: primitive.NewObjectID(), Email: "a@example.com"}
	repo := newFakeRepo(u)
	svc := NewService(repo, time.Hour)
	ctx := context.Background()

	var tokens []string
	for i := 0; i < 3; i++ {
		tok, err := svc.CreateSession(ctx, u)
		require.NoError(t, err)
		require.Len(t, tok, 2*refreshTokenBytes)
		tokens = append(tokens, tok)
	}
	require.Len(t, u.Sessions, 3)
	require.Len(t, repo.users[u.ID].Sessions, 3)

	for _, tok := range tokens {
		got, err := svc.VerifySession(ctx, u.ID.Hex(), tok)
		require.NoError(t, err)
		require.Equal(t, u.ID, got.ID)
	}
}

func TestVerifySession_NotFound(t *testing.T) {
	u := &models.User{ID: primitive.NewObjectID()}
	svc := NewService(newFakeRepo(u), time.Hour)
	ctx := context.Background()

	_, err := svc.VerifySession(ctx, u.ID.Hex(), "nope")
	require.ErrorIs(t, err, ErrSessionNotFound)

	_, err = svc.VerifySession(ctx, "not-an-object-id", "nope")
	require.ErrorIs(t, err, ErrSessionNotFound)

	_, err = svc.VerifySession(ctx, "", "")
	require.ErrorIs(t, err, ErrSessionNotFound)
}

func TestVerifySession_Expired(t *testing.T) {
	u := &models.User{ID: primitive.NewObjectID()}
	svc := NewService(newFakeRepo(u), time.Minute)
	start := time.Unix(1_700_000_000, 0)
	svc.SetClock(func() time.Time { return start })
	ctx := context.Background()

	tok, err := svc.CreateSession(ctx, u)
	require.NoError(t, err)

	svc.SetClock(func() time.Time { return start.Add(time.Minute - time.Second) })
	_, err = svc.VerifySession(ctx, u.ID.Hex(), tok)
	require.NoError(t, err)

	svc.SetClock(func() time.Time { return start.Add(time.Minute) })
	_, err = svc.VerifySession(ctx, u.ID.Hex(), tok)
	require.ErrorIs(t, err, ErrSessionExpired)
}

func TestHasRefreshTokenExpired(t *testing.T) {
	now := time.Unix(100, 0)
	require.False(t, HasRefreshTokenExpired(101, now))
	require.True(t, HasRefreshTokenExpired(100, now))
	require.True(t, HasRefreshTokenExpired(99, now))
}

func TestRevokeSession_OnlyThatSession(t *testing.T) {
	u := &models.User{ID: primitive.NewObjectID()}
	svc := NewService(newFakeRepo(u), time.Hour)
	ctx := context.Background()

	keep, err := svc.CreateSession(ctx, u)
	require.NoError(t, err)
	drop, err := svc.CreateSession(ctx, u)
	require.NoError(t, err)

	require.NoError(t, svc.RevokeSession(ctx, u, drop))
	require.Len(t, u.Sessions, 1)

	_, err = svc.VerifySession(ctx, u.ID.Hex(), drop)
	require.ErrorIs(t, err, ErrSessionNotFound)
	_, err = svc.VerifySession(ctx, u.ID.Hex(), keep)
	require.NoError(t, err)
}
