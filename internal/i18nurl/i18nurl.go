// Package i18nurl maps storefront paths between the two site languages.
// Ukrainian is the default and carries no prefix; Russian lives under /ru.
package i18nurl

import (
	"net/url"
	"strings"

	"golang.org/x/text/language"
)

// Lang is a site language code.
type Lang string

const (
	Ukrainian Lang = "uk"
	Russian   Lang = "ru"

	// Default is served without a path prefix.
	Default = Ukrainian
)

// Langs lists the site languages, default first.
var Langs = []Lang{Ukrainian, Russian}

const ruPrefix = "/ru"

func normalize(path string) string {
	if path == "" {
		return "/"
	}
	if !strings.HasPrefix(path, "/") {
		return "/" + path
	}
	return path
}

func hasRUPrefix(path string) bool {
	return path == ruPrefix || strings.HasPrefix(path, ruPrefix+"/")
}

// Split returns the language encoded in path and the path without its prefix.
func Split(path string) (Lang, string) {
	path = normalize(path)
	if hasRUPrefix(path) {
		stripped := path[len(ruPrefix):]
		if stripped == "" {
			stripped = "/"
		}
		return Russian, stripped
	}
	return Ukrainian, path
}

// ToLang rewrites path for lang. The /ru prefix is added or removed at most
// once; unknown languages leave the path untouched.
func ToLang(path string, lang Lang) string {
	path = normalize(path)
	switch lang {
	case Ukrainian:
		_, stripped := Split(path)
		return stripped
	case Russian:
		if hasRUPrefix(path) {
			return path
		}
		return ruPrefix + path
	default:
		return path
	}
}

// absolute joins the scheme and host of base with path and query.
func absolute(base, path, query string) string {
	u, err := url.Parse(base)
	if err != nil {
		u = &url.URL{}
	}
	out := url.URL{Scheme: u.Scheme, Host: u.Host, Path: "/" + strings.TrimLeft(path, "/"), RawQuery: strings.TrimPrefix(query, "?")}
	return out.String()
}

// Alternate returns the absolute URL of path in lang.
func Alternate(base, path string, lang Lang) string {
	return absolute(base, ToLang(path, lang), "")
}

// Link is one hreflang alternate.
type Link struct {
	Lang Lang   `json:"lang"`
	Href string `json:"href"`
}

// Alternates lists Alternate for every site language.
func Alternates(base, path string) []Link {
	links := make([]Link, 0, len(Langs))
	for _, lang := range Langs {
		links = append(links, Link{Lang: lang, Href: Alternate(base, path, lang)})
	}
	return links
}

const (
	catalogAll        = "/catalog/all"
	sporeCatalog      = "/catalog/sporovi-vidbitki"
	defaultSporeValue = "cubensis"
)

// Canonical returns the canonical absolute URL for path in its own language.
// Only page (other than 1) and species survive in the query; /catalog/all/
// collapses to /catalog/, and species=cubensis is the default of the spore
// print catalogue so it is dropped there.
func Canonical(base, path, rawQuery string) string {
	lang, langless := Split(path)
	if strings.TrimRight(langless, "/") == catalogAll {
		langless = "/catalog/"
	}
	dropCubensis := strings.TrimRight(langless, "/") == sporeCatalog

	var pairs []queryPair
	for _, p := range parseQuery(rawQuery) {
		if p.value == "" {
			continue
		}
		switch p.key {
		case "page":
			if p.value == "1" {
				continue
			}
		case "species":
			if dropCubensis && strings.EqualFold(p.value, defaultSporeValue) {
				continue
			}
		default:
			continue
		}
		pairs = append(pairs, p)
	}
	return absolute(base, ToLang(langless, lang), encodeQuery(pairs))
}

// SwitchTarget is the redirect target for a ?lang= switch: path rewritten for
// lang, with every other query parameter kept in order.
func SwitchTarget(path, rawQuery string, lang Lang) string {
	target := ToLang(path, lang)
	var kept []queryPair
	for _, p := range parseQuery(rawQuery) {
		if strings.EqualFold(p.key, "lang") {
			continue
		}
		kept = append(kept, p)
	}
	if qs := encodeQuery(kept); qs != "" {
		target += "?" + qs
	}
	return target
}

var matcher = language.NewMatcher([]language.Tag{language.Ukrainian, language.Russian})

// ParseLanguage accepts "uk", "ru" and regional forms such as "ru-UA".
func ParseLanguage(s string) (Lang, bool) {
	tag, err := language.Parse(strings.TrimSpace(s))
	if err != nil {
		return "", false
	}
	base, _ := tag.Base()
	switch base.String() {
	case "uk":
		return Ukrainian, true
	case "ru":
		return Russian, true
	}
	return "", false
}

// Preferred picks the site language closest to an Accept-Language header,
// falling back to Default.
func Preferred(acceptLanguage string) Lang {
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return Default
	}
	_, idx, conf := matcher.Match(tags...)
	if conf == language.No {
		return Default
	}
	return Langs[idx]
}

type queryPair struct {
	key   string
	value string
}

// parseQuery splits a raw query preserving order. Undecodable pairs are skipped.
func parseQuery(raw string) []queryPair {
	var out []queryPair
	for _, part := range strings.Split(strings.TrimPrefix(raw, "?"), "&") {
		if part == "" {
			continue
		}
		k, v, _ := strings.Cut(part, "=")
		key, err := url.QueryUnescape(k)
		if err != nil || key == "" {
			continue
		}
		value, err := url.QueryUnescape(v)
		if err != nil {
			continue
		}
		out = append(out, queryPair{key: key, value: value})
	}
	return out
}

func encodeQuery(pairs []queryPair) string {
	parts := make([]string, 0, len(pairs))
	for _, p := range pairs {
		parts = append(parts, url.QueryEscape(p.key)+"="+url.QueryEscape(p.value))
	}
	return strings.Join(parts, "&")
}
