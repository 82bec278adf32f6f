package resolver_test

import (
	"context"
	"testing"

	"github.com/juliansalvador727/InterviewDefender/internal/auth"
	"github.com/juliansalvador727/InterviewDefender/internal/auth/resolver"
	"github.com/juliansalvador727/InterviewDefender/internal/user"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func identity(githubID, username, avatar string) *auth.Identity {
	return &auth.Identity{
		GithubID:  githubID,
		Username:  username,
		AvatarURL: avatar,
	}
}

func TestResolveCreatesNewUser(t *testing.T) {
	store := user.NewMockStore()
	r := resolver.NewStoreResolver(store)

	u, err := r.Resolve(context.Background(), identity("42", "alice", "https://example.com/a.png"))
	require.NoError(t, err)

	assert.Equal(t, "42", u.GithubID)
	assert.Equal(t, "alice", u.Username)
	assert.Equal(t, "https://example.com/a.png", u.AvatarURL)
	assert.Equal(t, 1, store.Writes)
}

func TestResolveIsIdempotent(t *testing.T) {
	store := user.NewMockStore()
	r := resolver.NewStoreResolver(store)

	first, err := r.Resolve(context.Background(), identity("42", "alice", "a.png"))
	require.NoError(t, err)

	second, err := r.Resolve(context.Background(), identity("42", "alice", "a.png"))
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 1, store.Writes, "repeat login with identical facts must not write")
}

func TestResolveRefreshesChangedProfile(t *testing.T) {
	store := user.NewMockStore()
	r := resolver.NewStoreResolver(store)

	first, err := r.Resolve(context.Background(), identity("42", "alice", "a.png"))
	require.NoError(t, err)

	second, err := r.Resolve(context.Background(), identity("42", "alice2", "b.png"))
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "42", second.GithubID)
	assert.Equal(t, "alice2", second.Username)
	assert.Equal(t, "b.png", second.AvatarURL)
	assert.Equal(t, 2, store.Writes, "exactly one create plus one update")

	persisted, err := store.GetByID(context.Background(), first.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice2", persisted.Username)
	assert.Equal(t, "b.png", persisted.AvatarURL)
}

func TestResolveSurvivesDuplicateCreateRace(t *testing.T) {
	store := user.NewMockStore()
	r := resolver.NewStoreResolver(store)

	// Simulate a concurrent first login winning the insert between our
	// lookup and create.
	store.OnCreate = func(githubID string) error {
		store.OnCreate = nil
		store.Seed(user.User{GithubID: githubID, Username: "alice", AvatarURL: "a.png"})
		return user.ErrDuplicate
	}

	u, err := r.Resolve(context.Background(), identity("42", "alice", "a.png"))
	require.NoError(t, err)
	assert.Equal(t, "42", u.GithubID)
	assert.Equal(t, "alice", u.Username)
}

func TestResolveRejectsMissingIdentity(t *testing.T) {
	r := resolver.NewStoreResolver(user.NewMockStore())

	_, err := r.Resolve(context.Background(), nil)
	assert.Error(t, err)

	_, err = r.Resolve(context.Background(), identity("", "alice", ""))
	assert.Error(t, err)
}

func TestResolvePropagatesStoreFailure(t *testing.T) {
	store := user.NewMockStore()
	store.Err = assert.AnError
	r := resolver.NewStoreResolver(store)

	_, err := r.Resolve(context.Background(), identity("42", "alice", ""))
	assert.ErrorIs(t, err, assert.AnError)
}
