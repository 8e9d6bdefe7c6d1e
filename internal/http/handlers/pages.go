package handlers

import (
	"net/http"
	"net/http/httputil"
	"net/url"

	"github.com/rs/zerolog"

	"storefront/internal/middleware"
)

// Headers forwarded to the page renderer.
const (
	HeaderSiteLanguage = "X-Site-Language"
	HeaderCountryCode  = "X-Country-Code"
)

// PageProxy forwards storefront page requests to the renderer at upstream.
// The path arrives without its language prefix; the language and country
// resolved by the middleware travel as headers.
func PageProxy(upstream *url.URL, logger zerolog.Logger) http.Handler {
	proxy := &httputil.ReverseProxy{
		Rewrite: func(pr *httputil.ProxyRequest) {
			pr.SetURL(upstream)
			pr.SetXForwarded()
			ctx := pr.In.Context()
			pr.Out.Header.Set(HeaderSiteLanguage, string(middleware.LanguageFromContext(ctx)))
			pr.Out.Header.Del(HeaderCountryCode)
			if country := middleware.CountryFromContext(ctx); country != "" {
				pr.Out.Header.Set(HeaderCountryCode, country)
			}
		},
		ErrorHandler: func(w http.ResponseWriter, r *http.Request, err error) {
			logger.Error().Err(err).Str("path", r.URL.Path).Msg("page proxy: upstream failed")
			w.WriteHeader(http.StatusBadGateway)
		},
	}
	return proxy
}
