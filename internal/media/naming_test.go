package media

import (
	"errors"
	"testing"
)

func TestVariantNames(t *testing.T) {
	tests := []struct {
		name     string
		original string
		token    string
		ext      string
		want     string
	}{
		{name: "sized storage name", original: "products/x.png", token: "400x300", ext: "webp", want: "products/x_400x300.webp"},
		{name: "sized absolute path", original: "/srv/media/categories/cat.png", token: "128x128", ext: "avif", want: "/srv/media/categories/cat_128x128.avif"},
		{name: "dotted extension arg", original: "a/b.jpeg", token: "230x160", ext: ".webp", want: "a/b_230x160.webp"},
		{name: "no resize", original: "products/x.png", token: "", ext: "webp", want: "products/x.webp"},
		{name: "multiple dots", original: "products/x.final.JPG", token: "", ext: "avif", want: "products/x.final.avif"},
		{name: "no extension", original: "products/raw", token: "640x480", ext: "webp", want: "products/raw_640x480.webp"},
		{name: "hidden file", original: "icons/.keep", token: "", ext: "webp", want: "icons/.keep.webp"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := VariantName(tc.original, tc.token, tc.ext)
			if got != tc.want {
				t.Fatalf("VariantName(%q, %q, %q) = %q, want %q", tc.original, tc.token, tc.ext, got, tc.want)
			}
		})
	}
}

func TestSizedNameIsStable(t *testing.T) {
	first := SizedName("products/x.png", "400x300", "webp")
	for i := 0; i < 10; i++ {
		if got := SizedName("products/x.png", "400x300", "webp"); got != first {
			t.Fatalf("SizedName changed between calls: %q vs %q", got, first)
		}
	}
}

func TestParseSize(t *testing.T) {
	tests := []struct {
		in      string
		want    SizeSpec
		wantErr bool
	}{
		{in: "400x300", want: SizeSpec{400, 300}},
		{in: " 128X128 ", want: SizeSpec{128, 128}},
		{in: "230 x 160", want: SizeSpec{230, 160}},
		{in: "0x10", wantErr: true},
		{in: "-5x10", wantErr: true},
		{in: "400", wantErr: true},
		{in: "axb", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tc := range tests {
		got, err := ParseSize(tc.in)
		if tc.wantErr {
			if !errors.Is(err, ErrInvalidSize) {
				t.Fatalf("ParseSize(%q) error = %v, want ErrInvalidSize", tc.in, err)
			}
			continue
		}
		if err != nil {
			t.Fatalf("ParseSize(%q) returned error: %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("ParseSize(%q) = %v, want %v", tc.in, got, tc.want)
		}
		if got.Token() != tc.want.Token() {
			t.Fatalf("Token() = %q", got.Token())
		}
	}
}

func TestParseSizes(t *testing.T) {
	got, err := ParseSizes("400x300, 800x600,,")
	if err != nil {
		t.Fatalf("ParseSizes returned error: %v", err)
	}
	if len(got) != 2 || got[0].Token() != "400x300" || got[1].Token() != "800x600" {
		t.Fatalf("ParseSizes mismatch: %#v", got)
	}
	if _, err := ParseSizes("400x300,bogus"); err == nil {
		t.Fatalf("expected error for bogus size")
	}
}

func TestOriginalMIME(t *testing.T) {
	tests := map[string]string{
		"cat.png":      "image/png",
		"cat.PNG":      "image/png",
		"cat.jpg":      "image/jpeg",
		"cat.jpeg":     "image/jpeg",
		"cat.gif":      "image/jpeg",
		"cat":          "image/jpeg",
		"dir.png/file": "image/jpeg",
	}
	for name, want := range tests {
		if got := OriginalMIME(name); got != want {
			t.Fatalf("OriginalMIME(%q) = %q, want %q", name, got, want)
		}
	}
}
