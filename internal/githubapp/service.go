package githubapp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/juliansalvador727/InterviewDefender/internal/auth/provider"

	"github.com/golang-jwt/jwt/v5"
)

const (
	defaultAPIBaseURL = "https://api.github.com"

	requestTimeout = 20 * time.Second
)

var (
	// ErrNotConfigured reports missing GitHub App configuration.
	ErrNotConfigured = errors.New("github app is not configured")

	// ErrNotConnected reports a user without a linked installation.
	ErrNotConnected = errors.New("github app not connected")
)

// Service authenticates as the GitHub App and calls its API on behalf
// of a linked installation. The app-level assertion is rebuilt per call
// and installation tokens are never cached or persisted.
type Service struct {
	appID          string
	slug           string
	privateKeyPath string
	apiBaseURL     string
	httpClient     *http.Client
}

func NewService(appID, slug, privateKeyPath, apiBaseURL string) *Service {
	if apiBaseURL == "" {
		apiBaseURL = defaultAPIBaseURL
	}
	return &Service{
		appID:          appID,
		slug:           slug,
		privateKeyPath: privateKeyPath,
		apiBaseURL:     apiBaseURL,
		httpClient:     &http.Client{Timeout: requestTimeout},
	}
}

// InstallURL returns the public installation page for the app.
func (s *Service) InstallURL() (string, error) {
	if s.slug == "" {
		return "", ErrNotConfigured
	}
	return "https://github.com/apps/" + s.slug + "/installations/new", nil
}

// appAssertion builds the short-lived RS256 assertion used to
// authenticate as the app itself. iat is backdated to tolerate clock
// skew; exp must stay under GitHub's ten-minute cap.
func (s *Service) appAssertion() (string, error) {
	if s.appID == "" || s.privateKeyPath == "" {
		return "", ErrNotConfigured
	}

	pemBytes, err := os.ReadFile(s.privateKeyPath)
	if err != nil {
		return "", fmt.Errorf("githubapp: read private key: %w", err)
	}
	key, err := jwt.ParseRSAPrivateKeyFromPEM(pemBytes)
	if err != nil {
		return "", fmt.Errorf("githubapp: parse private key: %w", err)
	}

	now := time.Now()
	claims := jwt.RegisteredClaims{
		Issuer:    s.appID,
		IssuedAt:  jwt.NewNumericDate(now.Add(-30 * time.Second)),
		ExpiresAt: jwt.NewNumericDate(now.Add(9 * time.Minute)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(key)
}

// MintInstallationToken requests a fresh per-installation token from
// GitHub. Use once, then discard.
func (s *Service) MintInstallationToken(ctx context.Context, installationID int64) (string, error) {
	assertion, err := s.appAssertion()
	if err != nil {
		return "", err
	}

	mintURL := fmt.Sprintf("%s/app/installations/%d/access_tokens", s.apiBaseURL, installationID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, mintURL, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+assertion)
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("githubapp: mint installation token: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return "", &provider.APIError{
			StatusCode: resp.StatusCode,
			Body:       string(body),
		}
	}

	var payload struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return "", fmt.Errorf("githubapp: decode mint response: %w", err)
	}
	if payload.Token == "" {
		return "", errors.New("githubapp: mint response missing token")
	}
	return payload.Token, nil
}

// RepositoryListing is GitHub's result set, passed through verbatim.
type RepositoryListing struct {
	TotalCount   int               `json:"total_count"`
	Repositories []json.RawMessage `json:"repositories"`
}

// ListRepositories lists the repositories the installation grants
// access to, minting a fresh token for the call.
func (s *Service) ListRepositories(ctx context.Context, installationID int64) (*RepositoryListing, error) {
	installationToken, err := s.MintInstallationToken(ctx, installationID)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodGet,
		s.apiBaseURL+"/installation/repositories?per_page=100",
		nil,
	)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+installationToken)
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("githubapp: list repositories: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return nil, &provider.APIError{
			StatusCode: resp.StatusCode,
			Body:       string(body),
		}
	}

	var listing RepositoryListing
	if err := json.Unmarshal(body, &listing); err != nil {
		return nil, fmt.Errorf("githubapp: decode repository listing: %w", err)
	}
	return &listing, nil
}
