package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/juliansalvador727/InterviewDefender/internal/config"
	"github.com/juliansalvador727/InterviewDefender/internal/middleware"
	"github.com/juliansalvador727/InterviewDefender/internal/session"
	"github.com/juliansalvador727/InterviewDefender/internal/token"
	"github.com/juliansalvador727/InterviewDefender/internal/user"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newProtectedRouter(t *testing.T, store *user.MockStore, source string) (*gin.Engine, *token.Codec) {
	t.Helper()

	codec, err := token.NewCodec("test-secret", "HS256", 15*time.Minute)
	require.NoError(t, err)

	auth := middleware.NewAuthMiddleware(codec, store, source)

	r := gin.New()
	r.GET("/protected", auth.RequireAuth(), func(c *gin.Context) {
		principal, ok := middleware.PrincipalFromContext(c.Request.Context())
		require.True(t, ok)
		c.JSON(http.StatusOK, gin.H{"id": principal.ID})
	})
	return r, codec
}

func TestRequireAuthNoCredential(t *testing.T) {
	store := user.NewMockStore()
	r, _ := newProtectedRouter(t, store, config.SourceHeader)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/protected", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"error":"unauthorized"}`, w.Body.String())
}

func TestRequireAuthInvalidCredential(t *testing.T) {
	store := user.NewMockStore()
	r, _ := newProtectedRouter(t, store, config.SourceHeader)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireAuthExpiredCredential(t *testing.T) {
	store := user.NewMockStore()
	seeded := store.Seed(user.User{GithubID: "42", Username: "alice"})
	r, _ := newProtectedRouter(t, store, config.SourceHeader)

	expiredCodec, err := token.NewCodec("test-secret", "HS256", -time.Minute)
	require.NoError(t, err)
	credential, err := expiredCodec.Issue(strconv.FormatInt(seeded.ID, 10))
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+credential)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireAuthHeaderSource(t *testing.T) {
	store := user.NewMockStore()
	seeded := store.Seed(user.User{GithubID: "42", Username: "alice"})
	r, codec := newProtectedRouter(t, store, config.SourceHeader)

	credential, err := codec.Issue(strconv.FormatInt(seeded.ID, 10))
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+credential)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), strconv.FormatInt(seeded.ID, 10))
}

func TestRequireAuthCookieSource(t *testing.T) {
	store := user.NewMockStore()
	seeded := store.Seed(user.User{GithubID: "42", Username: "alice"})
	r, codec := newProtectedRouter(t, store, config.SourceCookie)

	credential, err := codec.Issue(strconv.FormatInt(seeded.ID, 10))
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.AddCookie(&http.Cookie{Name: session.CookieName, Value: credential})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireAuthSourcesAreExclusive(t *testing.T) {
	store := user.NewMockStore()
	seeded := store.Seed(user.User{GithubID: "42", Username: "alice"})
	r, codec := newProtectedRouter(t, store, config.SourceCookie)

	credential, err := codec.Issue(strconv.FormatInt(seeded.ID, 10))
	require.NoError(t, err)

	// A valid bearer header must be ignored in cookie mode.
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+credential)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireAuthDeletedUser(t *testing.T) {
	store := user.NewMockStore()
	r, codec := newProtectedRouter(t, store, config.SourceHeader)

	// Credential for a subject that no longer exists.
	credential, err := codec.Issue("999")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+credential)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireAuthNonNumericSubject(t *testing.T) {
	store := user.NewMockStore()
	r, codec := newProtectedRouter(t, store, config.SourceHeader)

	credential, err := codec.Issue("not-a-number")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+credential)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
