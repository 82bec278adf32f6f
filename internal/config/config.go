package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Credential delivery modes for the OAuth callback and dev-login.
const (
	DeliveryCookie   = "cookie"
	DeliveryRedirect = "redirect"
)

// Credential sources for authenticated requests. Header and cookie are
// mutually exclusive deployment modes, never both.
const (
	SourceHeader = "header"
	SourceCookie = "cookie"
)

type Config struct {
	AppPort string `env:"APP_PORT" envDefault:"8000"`
	Env     string `env:"ENV" envDefault:"dev"`

	DatabaseDSN string `env:"DATABASE_DSN"`

	JWTSecret      string        `env:"JWT_SECRET" envDefault:"dev-secret-change-me"`
	JWTAlg         string        `env:"JWT_ALG" envDefault:"HS256"`
	AccessTokenTTL time.Duration `env:"ACCESS_TOKEN_TTL" envDefault:"15m"`

	FrontendURL  string `env:"FRONTEND_URL" envDefault:"http://localhost:5173"`
	CookieSecure bool   `env:"COOKIE_SECURE" envDefault:"false"`

	TokenDelivery string `env:"TOKEN_DELIVERY" envDefault:"cookie"`
	TokenSource   string `env:"TOKEN_SOURCE" envDefault:"header"`

	GithubClientID     string `env:"GITHUB_CLIENT_ID"`
	GithubClientSecret string `env:"GITHUB_CLIENT_SECRET"`
	GithubRedirectURI  string `env:"GITHUB_REDIRECT_URI" envDefault:"http://localhost:8000/auth/callback"`
	GithubAuthURL      string `env:"GITHUB_AUTH_URL" envDefault:"https://github.com/login/oauth/authorize"`
	GithubTokenURL     string `env:"GITHUB_TOKEN_URL" envDefault:"https://github.com/login/oauth/access_token"`
	GithubUserURL      string `env:"GITHUB_USER_URL" envDefault:"https://api.github.com/user"`

	GithubAppID             string `env:"GITHUB_APP_ID"`
	GithubAppSlug           string `env:"GITHUB_APP_SLUG"`
	GithubAppPrivateKeyPath string `env:"GITHUB_APP_PRIVATE_KEY_PATH"`
	GithubAPIBaseURL        string `env:"GITHUB_API_BASE_URL" envDefault:"https://api.github.com"`
}

func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse env: %w", err)
	}
	return cfg, nil
}

func (c Config) IsProduction() bool {
	return c.Env == "production"
}
