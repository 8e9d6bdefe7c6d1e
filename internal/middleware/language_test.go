package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"storefront/internal/i18nurl"
)

type seen struct {
	path    string
	lang    i18nurl.Lang
	country string
	called  bool
}

func captureHandler(s *seen) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.called = true
		s.path = r.URL.Path
		s.lang = LanguageFromContext(r.Context())
		s.country = CountryFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})
}

func cookieValue(rec *httptest.ResponseRecorder, name string) (string, bool) {
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c.Value, true
		}
	}
	return "", false
}

func TestLanguagePrefixResolvesLanguage(t *testing.T) {
	tests := []struct {
		path     string
		wantLang i18nurl.Lang
		wantPath string
	}{
		{"/", i18nurl.Ukrainian, "/"},
		{"/catalog/", i18nurl.Ukrainian, "/catalog/"},
		{"/ru", i18nurl.Russian, "/"},
		{"/ru/", i18nurl.Russian, "/"},
		{"/ru/catalog/x/", i18nurl.Russian, "/catalog/x/"},
		{"/rural/", i18nurl.Ukrainian, "/rural/"},
	}
	for _, tc := range tests {
		t.Run(tc.path, func(t *testing.T) {
			var s seen
			h := LanguagePrefix(DefaultLanguageOptions(nil))(captureHandler(&s))
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tc.path, nil))

			if s.lang != tc.wantLang || s.path != tc.wantPath {
				t.Fatalf("got lang=%q path=%q, want %q %q", s.lang, s.path, tc.wantLang, tc.wantPath)
			}
			if got := rec.Header().Get("Content-Language"); got != string(tc.wantLang) {
				t.Fatalf("Content-Language = %q", got)
			}
			if v, ok := cookieValue(rec, LanguageCookie); !ok || v != string(tc.wantLang) {
				t.Fatalf("cookie = %q, %v", v, ok)
			}
		})
	}
}

func TestLanguagePrefixSwitchRedirects(t *testing.T) {
	tests := []struct {
		target string
		want   string
		lang   string
	}{
		{"/catalog/?lang=ru&page=2", "/ru/catalog/?page=2", "ru"},
		{"/ru/catalog/?page=2&lang=uk", "/catalog/?page=2", "uk"},
		{"/ru/?lang=ru", "/ru/", "ru"},
	}
	for _, tc := range tests {
		t.Run(tc.target, func(t *testing.T) {
			var s seen
			h := LanguagePrefix(DefaultLanguageOptions(nil))(captureHandler(&s))
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tc.target, nil))

			if s.called {
				t.Fatalf("next handler should not run on a language switch")
			}
			if rec.Code != http.StatusFound {
				t.Fatalf("status = %d, want 302", rec.Code)
			}
			if loc := rec.Header().Get("Location"); loc != tc.want {
				t.Fatalf("Location = %q, want %q", loc, tc.want)
			}
			if cc := rec.Header().Get("Cache-Control"); cc != "no-store, no-cache, must-revalidate" {
				t.Fatalf("Cache-Control = %q", cc)
			}
			if rec.Header().Get("Pragma") != "no-cache" {
				t.Fatalf("missing Pragma")
			}
			if v, _ := cookieValue(rec, LanguageCookie); v != tc.lang {
				t.Fatalf("cookie = %q, want %q", v, tc.lang)
			}
		})
	}
}

func TestLanguagePrefixIgnoresUnknownLangParam(t *testing.T) {
	var s seen
	h := LanguagePrefix(DefaultLanguageOptions(nil))(captureHandler(&s))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/catalog/?lang=de", nil))
	if !s.called || rec.Code != http.StatusOK || s.lang != i18nurl.Ukrainian {
		t.Fatalf("called=%v code=%d lang=%q", s.called, rec.Code, s.lang)
	}
}

func TestLanguagePrefixBypassAndCacheable(t *testing.T) {
	for _, path := range []string{"/media/products/a.webp", "/static/app.css", "/admin/", "/v1/healthz"} {
		var s seen
		h := LanguagePrefix(DefaultLanguageOptions(nil))(captureHandler(&s))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path+"?lang=ru", nil))
		if !s.called || s.path != path {
			t.Fatalf("%s: bypass path not passed through (path=%q)", path, s.path)
		}
		if _, ok := cookieValue(rec, LanguageCookie); ok {
			t.Fatalf("%s: bypass path must not set a cookie", path)
		}
		if rec.Header().Get("Content-Language") != "" {
			t.Fatalf("%s: bypass path must not set Content-Language", path)
		}
	}

	var s seen
	h := LanguagePrefix(DefaultLanguageOptions(nil))(captureHandler(&s))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/sitemap.xml", nil))
	if rec.Header().Get("Cache-Control") != "public, max-age=3600" {
		t.Fatalf("sitemap Cache-Control = %q", rec.Header().Get("Cache-Control"))
	}
	if rec.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Fatalf("sitemap missing nosniff")
	}
	if _, ok := cookieValue(rec, LanguageCookie); ok {
		t.Fatalf("sitemap must not set a cookie")
	}
}

func TestLanguagePrefixStoresCountry(t *testing.T) {
	lookup := func(ip string) (string, error) {
		if ip == "203.0.113.9" {
			return "ua", nil
		}
		return "", errors.New("unknown")
	}
	var s seen
	h := LanguagePrefix(DefaultLanguageOptions(lookup))(captureHandler(&s))
	req := httptest.NewRequest(http.MethodGet, "/ru/", nil)
	req.RemoteAddr = "203.0.113.9:5000"
	h.ServeHTTP(httptest.NewRecorder(), req)
	if s.country != "UA" {
		t.Fatalf("country = %q, want UA", s.country)
	}
}

func TestResolveCountryPrecedence(t *testing.T) {
	lookup := func(string) (string, error) { return "pl", nil }
	tests := []struct {
		name    string
		headers map[string]string
		lookup  CountryLookup
		want    string
	}{
		{"cdn header", map[string]string{"CF-IPCountry": "de", "Accept-Language": "ru-UA"}, lookup, "DE"},
		{"unknown cdn value skipped", map[string]string{"CF-IPCountry": "XX", "X-Locale": "uk-UA"}, lookup, "UA"},
		{"accept-language region", map[string]string{"Accept-Language": "ru-RU,ru;q=0.9"}, lookup, "RU"},
		{"lookup fallback", map[string]string{"Accept-Language": "uk"}, lookup, "PL"},
		{"nothing", nil, nil, ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			for k, v := range tc.headers {
				req.Header.Set(k, v)
			}
			if got := ResolveCountry(req, tc.lookup); got != tc.want {
				t.Fatalf("ResolveCountry = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "198.51.100.4:1234"
	if got := ClientIP(req); got != "198.51.100.4" {
		t.Fatalf("ClientIP = %q", got)
	}
	req.Header.Set("X-Forwarded-For", "203.0.113.1, 10.0.0.1")
	if got := ClientIP(req); got != "203.0.113.1" {
		t.Fatalf("ClientIP with XFF = %q", got)
	}
}
