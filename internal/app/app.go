package app

import (
	"context"
	"net/http"

	"github.com/juliansalvador727/InterviewDefender/internal/config"
)

// App owns the HTTP server and the infrastructure handles behind it.
type App struct {
	server     *http.Server
	closeInfra func() error
}

func New(ctx context.Context, cfg config.Config) (*App, error) {
	router, closeInfra, err := setupHTTP(ctx, cfg)
	if err != nil {
		return nil, err
	}

	return &App{
		server: &http.Server{
			Addr:    ":" + cfg.AppPort,
			Handler: router,
		},
		closeInfra: closeInfra,
	}, nil
}

// Run serves requests until Shutdown or a listener error.
func (a *App) Run() error {
	return a.server.ListenAndServe()
}

// Shutdown drains in-flight requests, then releases infrastructure.
func (a *App) Shutdown(ctx context.Context) error {
	if err := a.server.Shutdown(ctx); err != nil {
		return err
	}
	if a.closeInfra == nil {
		return nil
	}
	return a.closeInfra()
}
