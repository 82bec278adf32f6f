package resolver

import (
	"context"

	"github.com/juliansalvador727/InterviewDefender/internal/auth"
	"github.com/juliansalvador727/InterviewDefender/internal/user"
)

// Resolver maps a verified external identity onto a local user record.
// It is the ONLY creation path for users.
type Resolver interface {
	Resolve(ctx context.Context, identity *auth.Identity) (*user.User, error)
}
