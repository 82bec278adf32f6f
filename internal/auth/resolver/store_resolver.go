package resolver

import (
	"context"
	"errors"

	"github.com/juliansalvador727/InterviewDefender/internal/auth"
	"github.com/juliansalvador727/InterviewDefender/internal/user"
)

// StoreResolver implements the find-or-create upsert against the user
// store. Mutable profile fields are refreshed only when they actually
// changed, so a repeat login with identical facts performs no write.
type StoreResolver struct {
	store user.Store
}

func NewStoreResolver(store user.Store) *StoreResolver {
	return &StoreResolver{store: store}
}

func (r *StoreResolver) Resolve(ctx context.Context, identity *auth.Identity) (*user.User, error) {
	if identity == nil || identity.GithubID == "" {
		return nil, errors.New("resolver: identity missing github id")
	}

	u, err := r.store.GetByGithubID(ctx, identity.GithubID)
	if errors.Is(err, user.ErrNotFound) {
		created, createErr := r.store.Create(ctx, identity.GithubID, identity.Username, identity.AvatarURL)
		if createErr == nil {
			return created, nil
		}
		if !errors.Is(createErr, user.ErrDuplicate) {
			return nil, createErr
		}

		// Lost a concurrent first-login race; the row exists now, so
		// fall through to the refresh path against it.
		u, err = r.store.GetByGithubID(ctx, identity.GithubID)
	}
	if err != nil {
		return nil, err
	}

	return r.refreshProfile(ctx, u, identity)
}

func (r *StoreResolver) refreshProfile(ctx context.Context, u *user.User, identity *auth.Identity) (*user.User, error) {
	if u.Username == identity.Username && u.AvatarURL == identity.AvatarURL {
		return u, nil
	}

	if err := r.store.UpdateProfile(ctx, u.ID, identity.Username, identity.AvatarURL); err != nil {
		return nil, err
	}

	u.Username = identity.Username
	u.AvatarURL = identity.AvatarURL
	return u, nil
}
