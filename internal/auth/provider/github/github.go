package github

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/juliansalvador727/InterviewDefender/internal/auth"
	"github.com/juliansalvador727/InterviewDefender/internal/auth/provider"

	"golang.org/x/oauth2"
)

const (
	defaultAuthURL  = "https://github.com/login/oauth/authorize"
	defaultTokenURL = "https://github.com/login/oauth/access_token"
	defaultUserURL  = "https://api.github.com/user"

	requestTimeout = 15 * time.Second
)

// ErrNotConfigured reports missing OAuth client credentials.
var ErrNotConfigured = errors.New("github oauth is not configured")

// Config holds the OAuth client settings. Endpoint URLs default to
// github.com and are overridable for tests.
type Config struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	AuthURL      string
	TokenURL     string
	UserURL      string
}

type Provider struct {
	oauthConfig *oauth2.Config
	userURL     string
	httpClient  *http.Client
}

func New(cfg Config) (*Provider, error) {
	if cfg.ClientID == "" || cfg.ClientSecret == "" || cfg.RedirectURL == "" {
		return nil, ErrNotConfigured
	}
	if cfg.AuthURL == "" {
		cfg.AuthURL = defaultAuthURL
	}
	if cfg.TokenURL == "" {
		cfg.TokenURL = defaultTokenURL
	}
	if cfg.UserURL == "" {
		cfg.UserURL = defaultUserURL
	}

	oauthCfg := &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		RedirectURL:  cfg.RedirectURL,
		Endpoint: oauth2.Endpoint{
			AuthURL:   cfg.AuthURL,
			TokenURL:  cfg.TokenURL,
			AuthStyle: oauth2.AuthStyleInParams,
		},
		Scopes: []string{"read:user", "user:email"},
	}

	return &Provider{
		oauthConfig: oauthCfg,
		userURL:     cfg.UserURL,
		httpClient:  &http.Client{Timeout: requestTimeout},
	}, nil
}

// AuthCodeURL builds the authorization URL carrying the anti-forgery
// state.
func (p *Provider) AuthCodeURL(state string) string {
	return p.oauthConfig.AuthCodeURL(state)
}

// Exchange trades the authorization code for an access token. Upstream
// failures keep their status and body.
func (p *Provider) Exchange(ctx context.Context, code string) (string, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, p.httpClient)

	tok, err := p.oauthConfig.Exchange(ctx, code)
	if err != nil {
		var retrieveErr *oauth2.RetrieveError
		if errors.As(err, &retrieveErr) && retrieveErr.Response != nil {
			return "", &provider.APIError{
				StatusCode: retrieveErr.Response.StatusCode,
				Body:       string(retrieveErr.Body),
			}
		}
		return "", fmt.Errorf("github token exchange failed: %w", err)
	}

	if tok.AccessToken == "" {
		return "", provider.ErrNoAccessToken
	}
	return tok.AccessToken, nil
}

// FetchUser resolves the authenticated GitHub user.
func (p *Provider) FetchUser(ctx context.Context, accessToken string) (*auth.Identity, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.userURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Accept", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("github user request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &provider.APIError{
			StatusCode: resp.StatusCode,
			Body:       string(body),
		}
	}

	var payload struct {
		ID        int64  `json:"id"`
		Login     string `json:"login"`
		AvatarURL string `json:"avatar_url"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("github user response decode failed: %w", err)
	}
	if payload.ID == 0 || payload.Login == "" {
		return nil, provider.ErrMissingIdentity
	}

	return &auth.Identity{
		GithubID:  strconv.FormatInt(payload.ID, 10),
		Username:  payload.Login,
		AvatarURL: payload.AvatarURL,
	}, nil
}
