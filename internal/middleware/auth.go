package middleware

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/juliansalvador727/InterviewDefender/internal/config"
	"github.com/juliansalvador727/InterviewDefender/internal/session"
	"github.com/juliansalvador727/InterviewDefender/internal/token"
	"github.com/juliansalvador727/InterviewDefender/internal/user"

	"github.com/gin-gonic/gin"
)

// ErrUnauthenticated collapses every resolution failure: missing,
// invalid, expired, and orphaned credentials are indistinguishable.
var ErrUnauthenticated = errors.New("unauthenticated")

// unexported, collision-proof context key
type principalContextKeyType struct{}

var principalKey = principalContextKeyType{}

// PrincipalFromContext extracts the authenticated user from context.
func PrincipalFromContext(ctx context.Context) (*user.User, bool) {
	u, ok := ctx.Value(principalKey).(*user.User)
	return u, ok
}

// AuthMiddleware resolves the request principal from the configured
// credential source. Bearer header and session cookie are mutually
// exclusive deployment modes; exactly one is ever read.
type AuthMiddleware struct {
	codec  *token.Codec
	users  user.Store
	source string
}

func NewAuthMiddleware(codec *token.Codec, users user.Store, source string) *AuthMiddleware {
	return &AuthMiddleware{
		codec:  codec,
		users:  users,
		source: source,
	}
}

func (a *AuthMiddleware) credential(r *http.Request) string {
	switch a.source {
	case config.SourceCookie:
		cookie, err := r.Cookie(session.CookieName)
		if err != nil {
			return ""
		}
		return cookie.Value
	default:
		const prefix = "Bearer "
		header := r.Header.Get("Authorization")
		if !strings.HasPrefix(header, prefix) {
			return ""
		}
		return strings.TrimSpace(strings.TrimPrefix(header, prefix))
	}
}

// Resolve authenticates the request or fails with ErrUnauthenticated.
func (a *AuthMiddleware) Resolve(r *http.Request) (*user.User, error) {
	credential := a.credential(r)
	if credential == "" {
		return nil, ErrUnauthenticated
	}

	subject, err := a.codec.Verify(credential)
	if err != nil {
		return nil, ErrUnauthenticated
	}

	id, err := strconv.ParseInt(subject, 10, 64)
	if err != nil {
		return nil, ErrUnauthenticated
	}

	// A deleted user invalidates its outstanding credentials here.
	u, err := a.users.GetByID(r.Context(), id)
	if err != nil {
		return nil, ErrUnauthenticated
	}

	return u, nil
}

// RequireAuth aborts with a generic 401 unless the request carries a
// resolvable credential. The resolved user is attached to the request
// context for downstream handlers.
func (a *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		u, err := a.Resolve(c.Request)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		ctx := context.WithValue(c.Request.Context(), principalKey, u)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
