package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"storefront/internal/media"
)

type sourcesResponse struct {
	Name     string         `json:"name"`
	Size     string         `json:"size,omitempty"`
	Sources  []media.Source `json:"sources"`
	Best     string         `json:"best"`
	Fallback string         `json:"fallback"`
}

// sizeParam validates the optional size token. An empty token is allowed
// and selects root-level variants.
func sizeParam(r *http.Request) (string, bool) {
	token := strings.TrimSpace(r.URL.Query().Get("size"))
	if token == "" {
		return "", true
	}
	size, err := media.ParseSize(token)
	if err != nil {
		return "", false
	}
	return size.Token(), true
}

func (a *App) MediaSources(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSpace(r.URL.Query().Get("name"))
	if name == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "name required")
		return
	}
	token, ok := sizeParam(r)
	if !ok {
		a.error(w, http.StatusBadRequest, "bad_request", "size must look like 640x480")
		return
	}
	sources := a.Resolver.Sources(name, token)
	if sources == nil {
		sources = []media.Source{}
	}
	a.json(w, http.StatusOK, sourcesResponse{
		Name:     name,
		Size:     token,
		Sources:  sources,
		Best:     a.Resolver.BestSrc(name, token),
		Fallback: a.Resolver.FallbackSrc(name, token),
	})
}

func (a *App) MediaBest(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSpace(r.URL.Query().Get("name"))
	token, ok := sizeParam(r)
	if !ok {
		a.error(w, http.StatusBadRequest, "bad_request", "size must look like 640x480")
		return
	}
	url := a.Resolver.BestSrc(name, token)
	if url == "" {
		a.error(w, http.StatusNotFound, "not_found", "no source and no placeholder")
		return
	}
	a.json(w, http.StatusOK, map[string]string{"url": url})
}

var breakpointSets = map[string][]media.Breakpoint{
	"default": media.DefaultBreakpoints,
	"card":    media.CardBreakpoints,
}

// MediaPicture renders a <picture> fragment. With breakpoints=default|card
// the responsive variant is rendered and size is ignored.
func (a *App) MediaPicture(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	name := strings.TrimSpace(q.Get("name"))
	token, ok := sizeParam(r)
	if !ok {
		a.error(w, http.StatusBadRequest, "bad_request", "size must look like 640x480")
		return
	}
	attrs := media.PictureAttrs{
		Alt:           q.Get("alt"),
		Class:         q.Get("class"),
		Width:         atoiOrZero(q.Get("width")),
		Height:        atoiOrZero(q.Get("height")),
		Loading:       q.Get("loading"),
		FetchPriority: q.Get("fetchpriority"),
	}
	if attrs.Loading != "" && attrs.Loading != "lazy" && attrs.Loading != "eager" {
		a.error(w, http.StatusBadRequest, "bad_request", "loading must be lazy or eager")
		return
	}

	var html string
	if set := q.Get("breakpoints"); set != "" {
		bps, ok := breakpointSets[set]
		if !ok {
			a.error(w, http.StatusBadRequest, "bad_request", "unknown breakpoint set")
			return
		}
		html = string(a.Resolver.ResponsivePicture(name, bps, attrs))
	} else {
		html = string(a.Resolver.Picture(name, token, attrs))
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(html))
}

func atoiOrZero(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 {
		return 0
	}
	return n
}
