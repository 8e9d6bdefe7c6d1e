package middleware

import (
	"context"
	"net"
	"net/http"
	"strings"
	"time"

	"storefront/internal/i18nurl"
)

type languageContextKey struct{}
type countryContextKey struct{}

var (
	LanguageKey = languageContextKey{}
	CountryKey  = countryContextKey{}
)

// LanguageCookie remembers the last language a visitor used.
const LanguageCookie = "site_lang"

const languageCookieMaxAge = 30 * 24 * time.Hour

// CountryLookup resolves ISO country codes for an IP address.
type CountryLookup func(ip string) (string, error)

// LanguageOptions configures LanguagePrefix.
type LanguageOptions struct {
	// BypassPrefixes are served untouched: no language, cookie or header.
	BypassPrefixes []string
	// CacheablePaths get public cache headers and no language cookie.
	CacheablePaths []string
	Lookup         CountryLookup
}

// DefaultLanguageOptions bypasses asset, admin and debug paths and treats the
// sitemap and robots.txt as cacheable.
func DefaultLanguageOptions(lookup CountryLookup) LanguageOptions {
	return LanguageOptions{
		BypassPrefixes: []string{"/static/", "/media/", "/admin/", "/__debug__/", "/v1/", "/metrics"},
		CacheablePaths: []string{"/sitemap.xml", "/robots.txt"},
		Lookup:         lookup,
	}
}

// LanguagePrefix resolves the site language from the URL. A ?lang=uk|ru
// query wins and answers with a non-cached 302 to the same page in that
// language. Otherwise /ru paths are Russian with the prefix stripped from
// r.URL.Path, everything else is Ukrainian. The language is stored in the
// context, echoed in Content-Language and persisted in the site_lang cookie.
func LanguagePrefix(opts LanguageOptions) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			path := r.URL.Path
			if path == "" {
				path = "/"
			}

			for _, prefix := range opts.BypassPrefixes {
				if strings.HasPrefix(path, prefix) {
					next.ServeHTTP(w, r)
					return
				}
			}
			for _, p := range opts.CacheablePaths {
				if path == p {
					setDefault(w.Header(), "Cache-Control", "public, max-age=3600")
					setDefault(w.Header(), "X-Content-Type-Options", "nosniff")
					next.ServeHTTP(w, r)
					return
				}
			}

			if raw := r.URL.Query().Get("lang"); raw == string(i18nurl.Ukrainian) || raw == string(i18nurl.Russian) {
				desired := i18nurl.Lang(raw)
				setLanguageCookie(w, desired)
				h := w.Header()
				h.Set("Content-Language", string(desired))
				h.Set("Cache-Control", "no-store, no-cache, must-revalidate")
				h.Set("Pragma", "no-cache")
				http.Redirect(w, r, i18nurl.SwitchTarget(path, r.URL.RawQuery, desired), http.StatusFound)
				return
			}

			lang, stripped := i18nurl.Split(path)
			if lang == i18nurl.Russian {
				r2 := r.Clone(r.Context())
				r2.URL.Path = stripped
				r2.URL.RawPath = ""
				r = r2
			}

			ctx := context.WithValue(r.Context(), LanguageKey, lang)
			if country := ResolveCountry(r, opts.Lookup); country != "" {
				ctx = context.WithValue(ctx, CountryKey, country)
			}

			setLanguageCookie(w, lang)
			setDefault(w.Header(), "Content-Language", string(lang))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func setLanguageCookie(w http.ResponseWriter, lang i18nurl.Lang) {
	http.SetCookie(w, &http.Cookie{
		Name:     LanguageCookie,
		Value:    string(lang),
		Path:     "/",
		MaxAge:   int(languageCookieMaxAge.Seconds()),
		SameSite: http.SameSiteLaxMode,
	})
}

func setDefault(h http.Header, key, value string) {
	if h.Get(key) == "" {
		h.Set(key, value)
	}
}

// LanguageFromContext returns the request language, defaulting to Ukrainian.
func LanguageFromContext(ctx context.Context) i18nurl.Lang {
	if v, ok := ctx.Value(LanguageKey).(i18nurl.Lang); ok {
		return v
	}
	return i18nurl.Default
}

// CountryFromContext returns the ISO country code stored in the request context.
func CountryFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(CountryKey).(string); ok {
		return v
	}
	return ""
}

// ClientIP returns the best-effort client IP address for the request.
func ClientIP(r *http.Request) string {
	if r == nil {
		return ""
	}
	if xf := r.Header.Get("X-Forwarded-For"); xf != "" {
		if first := strings.TrimSpace(strings.Split(xf, ",")[0]); first != "" {
			return first
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// ResolveCountry resolves a best-effort ISO country code: CDN headers first,
// then the region of X-Locale or Accept-Language, then the GeoIP lookup.
func ResolveCountry(r *http.Request, lookup CountryLookup) string {
	if r == nil {
		return ""
	}
	headerHints := []string{"X-Country-Code", "X-IP-Country", "CF-IPCountry", "X-Appengine-Country"}
	for _, key := range headerHints {
		if val := strings.TrimSpace(r.Header.Get(key)); val != "" && !strings.EqualFold(val, "XX") {
			return strings.ToUpper(val)
		}
	}
	if region := localeRegion(r.Header.Get("X-Locale")); region != "" {
		return region
	}
	if region := localeRegion(r.Header.Get("Accept-Language")); region != "" {
		return region
	}
	if lookup != nil {
		if ip := ClientIP(r); ip != "" {
			if country, err := lookup(ip); err == nil && country != "" {
				return strings.ToUpper(country)
			}
		}
	}
	return ""
}

func localeRegion(accept string) string {
	for _, part := range strings.Split(accept, ",") {
		token := strings.TrimSpace(strings.Split(part, ";")[0])
		if token == "" {
			continue
		}
		if idx := strings.IndexAny(token, "-_"); idx > 0 && idx < len(token)-1 {
			return strings.ToUpper(token[idx+1:])
		}
	}
	return ""
}
