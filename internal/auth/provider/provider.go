package provider

import (
	"context"
	"errors"
	"fmt"

	"github.com/juliansalvador727/InterviewDefender/internal/auth"
)

var (
	// ErrNoAccessToken reports a successful exchange response that
	// carried no access token.
	ErrNoAccessToken = errors.New("provider returned no access token")

	// ErrMissingIdentity reports a user-info response without an id or
	// login field.
	ErrMissingIdentity = errors.New("provider user info missing identity")
)

// APIError carries a non-success upstream response so handlers can
// propagate the provider's status and body to the caller.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("provider returned %d: %s", e.StatusCode, e.Body)
}

// OAuthProvider is the port for the external identity provider. It
// performs no user creation, linking, or session management.
type OAuthProvider interface {
	// AuthCodeURL returns the authorization URL for the given state.
	AuthCodeURL(state string) string

	// Exchange trades the authorization code for a provider access token.
	Exchange(ctx context.Context, code string) (accessToken string, err error)

	// FetchUser resolves the authenticated identity using the access token.
	FetchUser(ctx context.Context, accessToken string) (*auth.Identity, error)
}
