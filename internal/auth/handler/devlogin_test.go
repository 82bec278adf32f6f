package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/juliansalvador727/InterviewDefender/internal/auth/handler"
	"github.com/juliansalvador727/InterviewDefender/internal/auth/resolver"
	"github.com/juliansalvador727/InterviewDefender/internal/config"
	"github.com/juliansalvador727/InterviewDefender/internal/session"
	"github.com/juliansalvador727/InterviewDefender/internal/token"
	"github.com/juliansalvador727/InterviewDefender/internal/user"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func postDevLogin(fx *fixture, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/auth/dev-login", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	fx.router.ServeHTTP(w, req)
	return w
}

func TestDevLoginCookieDelivery(t *testing.T) {
	fx := newFixture(t, &fakeProvider{}, config.DeliveryCookie)

	w := postDevLogin(fx, `{"github_id":"7","username":"dev"}`)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.JSONEq(t, `{"ok":true}`, w.Body.String())

	sessionCookie := findCookie(t, w.Result(), session.CookieName)
	require.NotNil(t, sessionCookie)

	subject, err := fx.codec.Verify(sessionCookie.Value)
	require.NoError(t, err)

	created, err := fx.store.GetByGithubID(context.Background(), "7")
	require.NoError(t, err)
	assert.Equal(t, "dev", created.Username)
	assert.Equal(t, "1", subject)
}

func TestDevLoginRedirectDeliveryReturnsToken(t *testing.T) {
	fx := newFixture(t, &fakeProvider{}, config.DeliveryRedirect)

	w := postDevLogin(fx, `{"github_id":"7","username":"dev"}`)

	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		AccessToken string `json:"access_token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.NotEmpty(t, body.AccessToken)

	_, err := fx.codec.Verify(body.AccessToken)
	assert.NoError(t, err)
}

func TestDevLoginValidatesRequest(t *testing.T) {
	fx := newFixture(t, &fakeProvider{}, config.DeliveryCookie)

	for _, body := range []string{
		``,
		`{}`,
		`{"github_id":"7"}`,
		`{"username":"dev"}`,
		`not json`,
	} {
		w := postDevLogin(fx, body)
		assert.Equal(t, http.StatusBadRequest, w.Code, body)
	}
}

func TestDevLoginDisabledInProduction(t *testing.T) {
	codec, err := token.NewCodec("test-secret", "HS256", 15*time.Minute)
	require.NoError(t, err)

	cfg := config.Config{Env: "production", TokenDelivery: config.DeliveryCookie}

	r := gin.New()
	h := handler.NewHandler(&fakeProvider{}, resolver.NewStoreResolver(user.NewMockStore()), codec, cfg)
	h.RegisterRoutes(r)

	req := httptest.NewRequest(http.MethodPost, "/auth/dev-login", strings.NewReader(`{"github_id":"7","username":"dev"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
