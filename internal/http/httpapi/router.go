package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"storefront/internal/domain"
	"storefront/internal/http/handlers"
	"storefront/internal/middleware"
)

// Options wires the optional collaborators of the router.
type Options struct {
	Logger   zerolog.Logger
	Recorder middleware.RequestRecorder
	// Metrics is mounted at /metrics when set.
	Metrics http.Handler
	// MediaRoot is served under /media/ when set.
	MediaRoot string
	Products  domain.ProductRepository
	Language  middleware.LanguageOptions
	// Pages receives every storefront request that is not an API route,
	// after language resolution and legacy redirects.
	Pages              http.Handler
	CORSAllowedOrigins []string
	EventsPerMinute    int
}

func NewRouter(app *handlers.App, opts Options) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.RequestID,
		chimw.RealIP,
		chimw.Recoverer,
		middleware.Logger(opts.Logger, opts.Recorder),
		middleware.LanguagePrefix(opts.Language),
		middleware.LegacyProductRedirect(opts.Products, opts.Logger),
	)

	r.Route("/v1", func(r chi.Router) {
		r.Use(middleware.CORS(opts.CORSAllowedOrigins))

		r.Get("/healthz", app.Health)
		r.Get("/openapi.json", app.OpenAPIJSON)
		r.Get("/docs", app.OpenAPIDocs)

		r.Route("/media", func(r chi.Router) {
			r.Get("/sources", app.MediaSources)
			r.Get("/best", app.MediaBest)
			r.Get("/picture", app.MediaPicture)
			r.With(middleware.RateLimit(opts.EventsPerMinute, time.Minute)).Post("/events", app.MediaEvent)
		})

		r.Get("/i18n/urls", app.I18NURLs)
	})

	if opts.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", opts.Metrics)
	}

	if opts.MediaRoot != "" {
		fs := http.StripPrefix("/media/", http.FileServer(http.Dir(opts.MediaRoot)))
		r.Get("/media/*", func(w http.ResponseWriter, req *http.Request) {
			w.Header().Set("Cache-Control", "public, max-age=604800")
			fs.ServeHTTP(w, req)
		})
	}

	if opts.Pages != nil {
		r.NotFound(opts.Pages.ServeHTTP)
	}

	return r
}
