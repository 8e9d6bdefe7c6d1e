package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	"storefront/internal/domain"
	"storefront/internal/media"
	"storefront/internal/mediahook"
)

// Dispatcher runs the asset-saved hooks in the background.
type Dispatcher interface {
	Dispatch(ctx context.Context, ref domain.MediaRef, done func(mediahook.Report))
}

// Pinger reports database health.
type Pinger interface {
	Ping(ctx context.Context) error
}

type App struct {
	Logger      zerolog.Logger
	Resolver    *media.Resolver
	Hooks       Dispatcher
	Jobs        domain.VariantJobRepository
	DB          Pinger
	SiteBaseURL string
}

func NewApp(logger zerolog.Logger, resolver *media.Resolver, hooks Dispatcher, siteBaseURL string) *App {
	return &App{Logger: logger, Resolver: resolver, Hooks: hooks, SiteBaseURL: siteBaseURL}
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) error(w http.ResponseWriter, code int, errCode, message string) {
	a.json(w, code, map[string]string{"error": errCode, "message": message})
}
