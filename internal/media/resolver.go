package media

import "strings"

// AssetStore is the read side of the media storage used at render time.
// Exists must treat any probe error as "does not exist".
type AssetStore interface {
	Exists(name string) bool
	URL(name string) string
}

// Source is one entry of a <picture> source list.
type Source struct {
	MIME string `json:"type"`
	URL  string `json:"url"`
}

// MediaSource is a Source bound to a media query; an empty Media applies to every viewport.
type MediaSource struct {
	Media string `json:"media,omitempty"`
	MIME  string `json:"type"`
	URL   string `json:"url"`
}

// Breakpoint pairs a media query with the size token served under it.
type Breakpoint struct {
	Media string
	Token string
}

// DefaultBreakpoints are the responsive product image breakpoints, widest first.
var DefaultBreakpoints = []Breakpoint{
	{Media: "(min-width: 1200px)", Token: "1200x900"},
	{Media: "(min-width: 992px)", Token: "1024x768"},
	{Media: "(min-width: 768px)", Token: "800x600"},
	{Media: "", Token: "640x480"},
}

// CardBreakpoints serve the desktop card canvas from 768px up and the mobile one below.
var CardBreakpoints = []Breakpoint{
	{Media: "(min-width: 768px)", Token: "230x160"},
	{Media: "", Token: "200x160"},
}

// Resolver picks the best existing variant of an asset. It never encodes;
// it only probes the store for files computed by the naming scheme.
type Resolver struct {
	store       AssetStore
	formats     []Format
	placeholder string
}

// ResolverOption customises a Resolver.
type ResolverOption func(*Resolver)

// WithFormats restricts probing to formats, in priority order. Pass
// Encoder.Formats() so a process without AVIF never advertises it.
func WithFormats(formats ...Format) ResolverOption {
	return func(r *Resolver) { r.formats = formats }
}

// WithPlaceholder sets the URL used when an asset has no name at all.
func WithPlaceholder(url string) ResolverOption {
	return func(r *Resolver) { r.placeholder = url }
}

// NewResolver builds a Resolver over store.
func NewResolver(store AssetStore, opts ...ResolverOption) *Resolver {
	r := &Resolver{store: store, formats: []Format{FormatAVIF, FormatWebP}}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Placeholder returns the configured placeholder URL.
func (r *Resolver) Placeholder() string {
	return r.placeholder
}

func (r *Resolver) urlIfExists(name string) (string, bool) {
	if r.store == nil || !r.store.Exists(name) {
		return "", false
	}
	u := r.store.URL(name)
	return u, u != ""
}

// variant returns the sized variant of name in f, falling back to the
// root-level variant when the sized one is missing.
func (r *Resolver) variant(name, token string, f Format) (string, bool) {
	if token != "" {
		if u, ok := r.urlIfExists(SizedName(name, token, f.Ext())); ok {
			return u, true
		}
	}
	return r.urlIfExists(NoResizeName(name, f.Ext()))
}

// Sources lists the variants of name for token in priority order (AVIF,
// WebP), each sized if present and root-level otherwise, followed by the
// original. An empty token probes root-level variants only.
func (r *Resolver) Sources(name, token string) []Source {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil
	}
	token = strings.TrimSpace(token)
	var out []Source
	for _, f := range r.formats {
		if u, ok := r.variant(name, token, f); ok {
			out = append(out, Source{MIME: f.MIME(), URL: u})
		}
	}
	return append(out, Source{MIME: OriginalMIME(name), URL: r.originalURL(name)})
}

// BestSrc collapses Sources to its first entry, for preload hints.
func (r *Resolver) BestSrc(name, token string) string {
	sources := r.Sources(name, token)
	if len(sources) == 0 {
		return r.placeholder
	}
	return sources[0].URL
}

// FallbackSrc picks the <img src> of a <picture>: WebP, then AVIF, then the
// original.
func (r *Resolver) FallbackSrc(name, token string) string {
	sources := r.Sources(name, token)
	if len(sources) == 0 {
		return r.placeholder
	}
	for _, mime := range []string{FormatWebP.MIME(), FormatAVIF.MIME()} {
		for _, s := range sources {
			if s.MIME == mime {
				return s.URL
			}
		}
	}
	return sources[len(sources)-1].URL
}

// Responsive lists sized variants per breakpoint. Breakpoints without any
// variant contribute nothing; root-level variants are not used here.
func (r *Resolver) Responsive(name string, breakpoints []Breakpoint) []MediaSource {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil
	}
	var out []MediaSource
	for _, bp := range breakpoints {
		for _, f := range r.formats {
			if u, ok := r.urlIfExists(SizedName(name, bp.Token, f.Ext())); ok {
				out = append(out, MediaSource{Media: bp.Media, MIME: f.MIME(), URL: u})
			}
		}
	}
	return out
}

func (r *Resolver) originalURL(name string) string {
	if r.store == nil {
		return name
	}
	return r.store.URL(name)
}
