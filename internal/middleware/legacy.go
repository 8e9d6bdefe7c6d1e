package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"storefront/internal/domain"
	"storefront/internal/i18nurl"
)

const legacyProductPrefix = "/catalog/product/"

// LegacyProductRedirect answers old /catalog/product/<slug>/ links with a 301
// to the product's current /<category>/<slug>/ URL in the request language,
// keeping the query string.
// Unknown slugs fall through to next.
func LegacyProductRedirect(products domain.ProductRepository, logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			slug, ok := legacySlug(r.URL.Path)
			if !ok || products == nil {
				next.ServeHTTP(w, r)
				return
			}
			target, err := products.PathBySlug(r.Context(), slug)
			if err != nil {
				if !errors.Is(err, domain.ErrNotFound) {
					logger.Warn().Err(err).Str("slug", slug).Msg("legacy product lookup failed")
				}
				next.ServeHTTP(w, r)
				return
			}
			target = i18nurl.ToLang(target, LanguageFromContext(r.Context()))
			if r.URL.RawQuery != "" {
				target += "?" + r.URL.RawQuery
			}
			http.Redirect(w, r, target, http.StatusMovedPermanently)
		})
	}
}

func legacySlug(path string) (string, bool) {
	if !strings.HasPrefix(path, legacyProductPrefix) {
		return "", false
	}
	slug := strings.TrimSuffix(strings.TrimPrefix(path, legacyProductPrefix), "/")
	if slug == "" || strings.Contains(slug, "/") {
		return "", false
	}
	return slug, true
}
