package i18nurl

import "testing"

func TestSplitAndToLang(t *testing.T) {
	tests := []struct {
		path     string
		wantLang Lang
		wantPath string
		toUK     string
		toRU     string
	}{
		{path: "/", wantLang: Ukrainian, wantPath: "/", toUK: "/", toRU: "/ru/"},
		{path: "", wantLang: Ukrainian, wantPath: "/", toUK: "/", toRU: "/ru/"},
		{path: "/ru", wantLang: Russian, wantPath: "/", toUK: "/", toRU: "/ru"},
		{path: "/ru/", wantLang: Russian, wantPath: "/", toUK: "/", toRU: "/ru/"},
		{path: "/ru/catalog/", wantLang: Russian, wantPath: "/catalog/", toUK: "/catalog/", toRU: "/ru/catalog/"},
		{path: "/rules/", wantLang: Ukrainian, wantPath: "/rules/", toUK: "/rules/", toRU: "/ru/rules/"},
		{path: "catalog/", wantLang: Ukrainian, wantPath: "/catalog/", toUK: "/catalog/", toRU: "/ru/catalog/"},
		{path: "/ru/ru/x/", wantLang: Russian, wantPath: "/ru/x/", toUK: "/ru/x/", toRU: "/ru/ru/x/"},
	}
	for _, tc := range tests {
		lang, stripped := Split(tc.path)
		if lang != tc.wantLang || stripped != tc.wantPath {
			t.Fatalf("Split(%q) = %q, %q; want %q, %q", tc.path, lang, stripped, tc.wantLang, tc.wantPath)
		}
		if got := ToLang(tc.path, Ukrainian); got != tc.toUK {
			t.Fatalf("ToLang(%q, uk) = %q, want %q", tc.path, got, tc.toUK)
		}
		if got := ToLang(tc.path, Russian); got != tc.toRU {
			t.Fatalf("ToLang(%q, ru) = %q, want %q", tc.path, got, tc.toRU)
		}
	}
	if got := ToLang("/x/", "de"); got != "/x/" {
		t.Fatalf("unknown language should not rewrite, got %q", got)
	}
}

func TestCanonical(t *testing.T) {
	const base = "https://shop.example.com/anything?x=1"
	tests := []struct {
		name  string
		path  string
		query string
		want  string
	}{
		{name: "plain", path: "/catalog/", want: "https://shop.example.com/catalog/"},
		{name: "catalog all", path: "/catalog/all/", want: "https://shop.example.com/catalog/"},
		{name: "catalog all ru", path: "/ru/catalog/all", want: "https://shop.example.com/ru/catalog/"},
		{name: "page one dropped", path: "/catalog/", query: "page=1&utm_source=x", want: "https://shop.example.com/catalog/"},
		{name: "page kept", path: "/ru/catalog/", query: "utm=1&page=3", want: "https://shop.example.com/ru/catalog/?page=3"},
		{name: "default species dropped", path: "/catalog/sporovi-vidbitki/", query: "species=Cubensis&page=2", want: "https://shop.example.com/catalog/sporovi-vidbitki/?page=2"},
		{name: "other species kept", path: "/catalog/sporovi-vidbitki/", query: "species=ovoid", want: "https://shop.example.com/catalog/sporovi-vidbitki/?species=ovoid"},
		{name: "cubensis kept elsewhere", path: "/catalog/kits/", query: "species=cubensis", want: "https://shop.example.com/catalog/kits/?species=cubensis"},
		{name: "blank values dropped", path: "/", query: "page=&species=", want: "https://shop.example.com/"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Canonical(base, tc.path, tc.query); got != tc.want {
				t.Fatalf("Canonical = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestAlternates(t *testing.T) {
	links := Alternates("https://shop.example.com", "/ru/catalog/kits/")
	if len(links) != 2 {
		t.Fatalf("Alternates = %#v", links)
	}
	if links[0] != (Link{Lang: Ukrainian, Href: "https://shop.example.com/catalog/kits/"}) {
		t.Fatalf("uk alternate = %#v", links[0])
	}
	if links[1] != (Link{Lang: Russian, Href: "https://shop.example.com/ru/catalog/kits/"}) {
		t.Fatalf("ru alternate = %#v", links[1])
	}
}

func TestSwitchTarget(t *testing.T) {
	tests := []struct {
		path  string
		query string
		lang  Lang
		want  string
	}{
		{path: "/catalog/", query: "lang=ru", lang: Russian, want: "/ru/catalog/"},
		{path: "/ru/catalog/", query: "page=2&lang=uk&sort=price", lang: Ukrainian, want: "/catalog/?page=2&sort=price"},
		{path: "/ru", query: "LANG=uk", lang: Ukrainian, want: "/"},
		{path: "/ru/x/", query: "lang=ru&q=a+b", lang: Russian, want: "/ru/x/?q=a+b"},
		{path: "/x/", query: "lang=ru&flag=", lang: Russian, want: "/ru/x/?flag="},
	}
	for _, tc := range tests {
		if got := SwitchTarget(tc.path, tc.query, tc.lang); got != tc.want {
			t.Fatalf("SwitchTarget(%q, %q, %q) = %q, want %q", tc.path, tc.query, tc.lang, got, tc.want)
		}
	}
}

func TestParseLanguage(t *testing.T) {
	tests := map[string]Lang{"uk": Ukrainian, "ru": Russian, "RU": Russian, "ru-UA": Russian, "uk-UA": Ukrainian}
	for in, want := range tests {
		got, ok := ParseLanguage(in)
		if !ok || got != want {
			t.Fatalf("ParseLanguage(%q) = %q, %v", in, got, ok)
		}
	}
	for _, in := range []string{"", "en", "de-DE", "!!"} {
		if _, ok := ParseLanguage(in); ok {
			t.Fatalf("ParseLanguage(%q) should fail", in)
		}
	}
}

func TestPreferred(t *testing.T) {
	tests := map[string]Lang{
		"ru-RU,ru;q=0.9,en;q=0.8": Russian,
		"uk,ru;q=0.5":             Ukrainian,
		"en-US":                   Ukrainian,
		"":                        Ukrainian,
	}
	for header, want := range tests {
		if got := Preferred(header); got != want {
			t.Fatalf("Preferred(%q) = %q, want %q", header, got, want)
		}
	}
}
