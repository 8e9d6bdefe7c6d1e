package media

import (
	"strings"
	"testing"
)

type fakeStore map[string]bool

func (s fakeStore) Exists(name string) bool { return s[name] }
func (s fakeStore) URL(name string) string  { return "/media/" + name }

func TestSourcesPrefersSizedThenRoot(t *testing.T) {
	store := fakeStore{
		"categories/cat_128x128.avif": true,
		"categories/cat_128x128.webp": true,
	}
	r := NewResolver(store)

	got := r.Sources("categories/cat.png", "128x128")
	want := []Source{
		{MIME: "image/avif", URL: "/media/categories/cat_128x128.avif"},
		{MIME: "image/webp", URL: "/media/categories/cat_128x128.webp"},
		{MIME: "image/png", URL: "/media/categories/cat.png"},
	}
	if len(got) != len(want) {
		t.Fatalf("Sources = %#v, want %#v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Sources[%d] = %#v, want %#v", i, got[i], want[i])
		}
	}
}

func TestSourcesFallsBackToRootVariant(t *testing.T) {
	store := fakeStore{
		"products/x.webp":         true,
		"products/x_400x300.avif": true,
	}
	got := NewResolver(store).Sources("products/x.jpg", "400x300")
	if len(got) != 3 {
		t.Fatalf("Sources = %#v", got)
	}
	if got[0].URL != "/media/products/x_400x300.avif" {
		t.Fatalf("avif source = %q", got[0].URL)
	}
	if got[1].URL != "/media/products/x.webp" {
		t.Fatalf("webp should fall back to root variant, got %q", got[1].URL)
	}
	if got[2].MIME != "image/jpeg" {
		t.Fatalf("original mime = %q", got[2].MIME)
	}
}

func TestSourcesWithoutVariantsListsOnlyOriginal(t *testing.T) {
	got := NewResolver(fakeStore{}).Sources("products/x.png", "400x300")
	if len(got) != 1 || got[0].URL != "/media/products/x.png" || got[0].MIME != "image/png" {
		t.Fatalf("Sources = %#v", got)
	}
}

func TestSourcesRespectsFormatRestriction(t *testing.T) {
	store := fakeStore{
		"categories/cat_128x128.avif": true,
		"categories/cat_128x128.webp": true,
	}
	got := NewResolver(store, WithFormats(FormatWebP)).Sources("categories/cat.png", "128x128")
	for _, s := range got {
		if s.MIME == "image/avif" {
			t.Fatalf("avif advertised although disabled: %#v", got)
		}
	}
	if len(got) != 2 {
		t.Fatalf("Sources = %#v", got)
	}
}

func TestEmptyNameUsesPlaceholder(t *testing.T) {
	r := NewResolver(fakeStore{}, WithPlaceholder("/static/img/placeholder.webp"))
	if got := r.Sources("  ", "128x128"); got != nil {
		t.Fatalf("Sources of empty name = %#v, want nil", got)
	}
	if got := r.BestSrc("", "128x128"); got != "/static/img/placeholder.webp" {
		t.Fatalf("BestSrc = %q", got)
	}
	if got := r.FallbackSrc("", ""); got != "/static/img/placeholder.webp" {
		t.Fatalf("FallbackSrc = %q", got)
	}
	if got := r.Responsive("", DefaultBreakpoints); got != nil {
		t.Fatalf("Responsive = %#v", got)
	}
}

func TestBestAndFallbackSrc(t *testing.T) {
	tests := []struct {
		name         string
		store        fakeStore
		wantBest     string
		wantFallback string
	}{
		{
			name:         "both formats",
			store:        fakeStore{"c/a_230x160.avif": true, "c/a_230x160.webp": true},
			wantBest:     "/media/c/a_230x160.avif",
			wantFallback: "/media/c/a_230x160.webp",
		},
		{
			name:         "avif only",
			store:        fakeStore{"c/a_230x160.avif": true},
			wantBest:     "/media/c/a_230x160.avif",
			wantFallback: "/media/c/a_230x160.avif",
		},
		{
			name:         "nothing generated",
			store:        fakeStore{},
			wantBest:     "/media/c/a.png",
			wantFallback: "/media/c/a.png",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r := NewResolver(tc.store)
			if got := r.BestSrc("c/a.png", "230x160"); got != tc.wantBest {
				t.Fatalf("BestSrc = %q, want %q", got, tc.wantBest)
			}
			if got := r.FallbackSrc("c/a.png", "230x160"); got != tc.wantFallback {
				t.Fatalf("FallbackSrc = %q, want %q", got, tc.wantFallback)
			}
		})
	}
}

func TestResponsiveSkipsMissingBreakpoints(t *testing.T) {
	store := fakeStore{
		"p/x_1200x900.webp": true,
		"p/x_800x600.avif":  true,
		"p/x_800x600.webp":  true,
		"p/x.webp":          true,
	}
	got := NewResolver(store).Responsive("p/x.jpg", DefaultBreakpoints)
	want := []MediaSource{
		{Media: "(min-width: 1200px)", MIME: "image/webp", URL: "/media/p/x_1200x900.webp"},
		{Media: "(min-width: 768px)", MIME: "image/avif", URL: "/media/p/x_800x600.avif"},
		{Media: "(min-width: 768px)", MIME: "image/webp", URL: "/media/p/x_800x600.webp"},
	}
	if len(got) != len(want) {
		t.Fatalf("Responsive = %#v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Responsive[%d] = %#v, want %#v", i, got[i], want[i])
		}
	}
}

func TestPictureMarkup(t *testing.T) {
	store := fakeStore{
		"categories/cat_128x128.avif": true,
		"categories/cat_128x128.webp": true,
	}
	html := string(NewResolver(store).Picture("categories/cat.png", "128x128", PictureAttrs{Alt: "Кіт & co", Width: 128, Height: 128}))

	for _, want := range []string{
		`<picture>`,
		`<source srcset="/media/categories/cat_128x128.avif" type="image/avif">`,
		`<source srcset="/media/categories/cat_128x128.webp" type="image/webp">`,
		`src="/media/categories/cat_128x128.webp"`,
		`loading="lazy"`,
		`width="128"`,
		`&amp; co`,
	} {
		if !strings.Contains(html, want) {
			t.Fatalf("Picture markup missing %q:\n%s", want, html)
		}
	}
	if strings.Contains(html, `type="image/png"`) {
		t.Fatalf("original must not be a <source>:\n%s", html)
	}
	if strings.Contains(html, "fetchpriority") {
		t.Fatalf("fetchpriority should be omitted when unset:\n%s", html)
	}
}

func TestPictureWithoutVariantsIsBareImg(t *testing.T) {
	html := string(NewResolver(fakeStore{}).Picture("c/a.png", "128x128", PictureAttrs{Loading: "eager", FetchPriority: "high"}))
	if strings.Contains(html, "<picture>") {
		t.Fatalf("expected bare img:\n%s", html)
	}
	for _, want := range []string{`src="/media/c/a.png"`, `loading="eager"`, `fetchpriority="high"`} {
		if !strings.Contains(html, want) {
			t.Fatalf("markup missing %q:\n%s", want, html)
		}
	}
}

func TestResponsivePictureFallsBackToDefaultViewport(t *testing.T) {
	store := fakeStore{
		"p/x_230x160.webp": true,
		"p/x_200x160.webp": true,
	}
	html := string(NewResolver(store).ResponsivePicture("p/x.jpg", CardBreakpoints, PictureAttrs{}))
	if !strings.Contains(html, `<source media="(min-width: 768px)" srcset="/media/p/x_230x160.webp" type="image/webp">`) {
		t.Fatalf("desktop source missing:\n%s", html)
	}
	if !strings.Contains(html, `src="/media/p/x_200x160.webp"`) {
		t.Fatalf("img should use the mobile variant:\n%s", html)
	}
}
