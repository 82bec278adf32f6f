package user

import (
	"context"
	"errors"
)

var (
	// ErrNotFound reports that no user matched the lookup key.
	ErrNotFound = errors.New("user not found")

	// ErrDuplicate reports a unique-constraint violation on github_id.
	ErrDuplicate = errors.New("user already exists")
)

// Store is the persistence port for user records.
type Store interface {
	GetByID(ctx context.Context, id int64) (*User, error)
	GetByGithubID(ctx context.Context, githubID string) (*User, error)
	Create(ctx context.Context, githubID, username, avatarURL string) (*User, error)
	UpdateProfile(ctx context.Context, id int64, username, avatarURL string) error
	SetInstallationID(ctx context.Context, id int64, installationID int64) error
}
