package handlers

import (
	"net/http"
	"strings"

	"storefront/internal/i18nurl"
)

type i18nURLsResponse struct {
	Path       string            `json:"path"`
	Language   i18nurl.Lang      `json:"language"`
	Canonical  string            `json:"canonical"`
	Alternates []i18nurl.Link    `json:"alternates"`
	Switch     map[string]string `json:"switch"`
}

// I18NURLs returns the canonical and alternate URLs of a storefront path.
// The path may carry the /ru prefix.
func (a *App) I18NURLs(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	path := strings.TrimSpace(q.Get("path"))
	if path == "" || !strings.HasPrefix(path, "/") {
		a.error(w, http.StatusBadRequest, "bad_request", "path must start with /")
		return
	}
	rawQuery := strings.TrimPrefix(q.Get("query"), "?")
	lang, _ := i18nurl.Split(path)

	sw := make(map[string]string, len(i18nurl.Langs))
	for _, l := range i18nurl.Langs {
		sw[string(l)] = i18nurl.SwitchTarget(path, rawQuery, l)
	}
	a.json(w, http.StatusOK, i18nURLsResponse{
		Path:       path,
		Language:   lang,
		Canonical:  i18nurl.Canonical(a.SiteBaseURL, path, rawQuery),
		Alternates: i18nurl.Alternates(a.SiteBaseURL, path),
		Switch:     sw,
	})
}
