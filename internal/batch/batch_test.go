package batch

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"

	"storefront/internal/domain"
	"storefront/internal/media"
	"storefront/internal/storage"
)

func writePNG(t *testing.T, path string, w, h int) {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.NRGBA{R: uint8(x), G: uint8(y), B: 90, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	writeBytes(t, path, buf.Bytes())
}

func writeBytes(t *testing.T, path string, data []byte) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
}

func newStore(t *testing.T) *storage.FileStore {
	t.Helper()
	store, err := storage.NewFileStore(t.TempDir(), "/media")
	if err != nil {
		t.Fatal(err)
	}
	return store
}

func iconProfile(t *testing.T) media.Profile {
	t.Helper()
	p, err := media.DefaultRegistry().Get(media.ProfileIcon)
	if err != nil {
		t.Fatal(err)
	}
	return p
}

func newRunner() *Runner {
	return &Runner{Generator: media.NewGenerator(media.NewEncoder(true), zerolog.Nop()), Logger: zerolog.Nop()}
}

type stubRepo struct {
	refs   []domain.MediaRef
	filter domain.MediaFilter
}

func (s *stubRepo) List(_ context.Context, filter domain.MediaFilter) ([]domain.MediaRef, error) {
	s.filter = filter
	return s.refs, nil
}

func TestFromPathsFiltersOriginals(t *testing.T) {
	store := newStore(t)
	root := store.BasePath()
	writePNG(t, filepath.Join(root, "icons", "cart.png"), 8, 8)
	writeBytes(t, filepath.Join(root, "icons", "viber.JPG"), []byte("jpeg"))
	writeBytes(t, filepath.Join(root, "icons", "cart_128x128.webp"), []byte("webp"))
	writePNG(t, filepath.Join(root, "icons", ".cache", "x.png"), 4, 4)

	items, err := FromPaths(store, domain.MediaKindStaticIcon, []string{
		filepath.Join(root, "icons"),
		filepath.Join(root, "icons", "cart.png"),
	})
	if err != nil {
		t.Fatalf("FromPaths: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("items = %+v", items)
	}
	if items[0].Ref.Name != "icons/cart.png" || items[1].Ref.Name != "icons/viber.JPG" {
		t.Fatalf("names = %q, %q", items[0].Ref.Name, items[1].Ref.Name)
	}
	if items[0].Ref.Kind != domain.MediaKindStaticIcon {
		t.Fatalf("kind = %q", items[0].Ref.Kind)
	}

	outside := filepath.Join(t.TempDir(), "x.png")
	writePNG(t, outside, 4, 4)
	if _, err := FromPaths(store, domain.MediaKindStaticIcon, []string{outside}); err == nil {
		t.Fatalf("expected error for a path outside the media root")
	}
	if _, err := FromPaths(store, domain.MediaKindStaticIcon, []string{filepath.Join(root, "nope")}); err == nil {
		t.Fatalf("expected error for a missing path")
	}
}

func TestFromRepository(t *testing.T) {
	store := newStore(t)
	repo := &stubRepo{refs: []domain.MediaRef{
		{Kind: domain.MediaKindProductImage, OwnerID: 1, Name: "products/a.jpg"},
		{Kind: domain.MediaKindProductImage, OwnerID: 2, Name: "../escape.jpg"},
	}}
	filter := domain.MediaFilter{IDs: []int64{1, 2}}
	items, err := FromRepository(context.Background(), repo, store, filter)
	if err != nil {
		t.Fatalf("FromRepository: %v", err)
	}
	if len(items) != 1 || items[0].Path != filepath.Join(store.BasePath(), "products", "a.jpg") {
		t.Fatalf("items = %+v", items)
	}
	if len(repo.filter.IDs) != 2 {
		t.Fatalf("filter not forwarded: %+v", repo.filter)
	}
}

func TestGenerateSummary(t *testing.T) {
	store := newStore(t)
	root := store.BasePath()
	writePNG(t, filepath.Join(root, "icons", "a.png"), 64, 32)
	writeBytes(t, filepath.Join(root, "icons", "b.jpg"), []byte("not an image"))

	items, err := FromPaths(store, domain.MediaKindStaticIcon, []string{filepath.Join(root, "icons")})
	if err != nil {
		t.Fatal(err)
	}
	r := newRunner()
	profile := iconProfile(t)
	ctx := context.Background()

	sum, err := r.Generate(ctx, items, profile, media.Options{Overwrite: true})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if sum.Items != 2 || sum.CreatedWebP != 1 || sum.CreatedAVIF != 0 || sum.Errors != 1 {
		t.Fatalf("first run summary = %s", sum)
	}
	if !store.Exists("icons/a_128x128.webp") {
		t.Fatalf("variant not written")
	}

	sum, err = r.Generate(ctx, items[:1], profile, media.Options{OnlyIfMissing: true})
	if err != nil || sum.Skipped != 1 || sum.CreatedWebP != 0 {
		t.Fatalf("only-missing summary = %s, %v", sum, err)
	}

	writePNG(t, filepath.Join(root, "icons", "c.png"), 16, 16)
	fresh, _ := FromPaths(store, domain.MediaKindStaticIcon, []string{filepath.Join(root, "icons", "c.png")})
	sum, err = r.Generate(ctx, fresh, profile, media.Options{DryRun: true})
	if err != nil || sum.Planned != 1 || sum.CreatedWebP != 0 {
		t.Fatalf("dry-run summary = %s, %v", sum, err)
	}
	if store.Exists("icons/c_128x128.webp") {
		t.Fatalf("dry run wrote a file")
	}
}

func TestGenerateStopsWhenCancelled(t *testing.T) {
	store := newStore(t)
	writePNG(t, filepath.Join(store.BasePath(), "icons", "a.png"), 8, 8)
	items, _ := FromPaths(store, domain.MediaKindStaticIcon, []string{store.BasePath()})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	sum, err := newRunner().Generate(ctx, items, iconProfile(t), media.Options{})
	if !errors.Is(err, context.Canceled) || sum.Items != 0 {
		t.Fatalf("cancelled run = %s, %v", sum, err)
	}
}

func TestCheck(t *testing.T) {
	store := newStore(t)
	root := store.BasePath()
	writeBytes(t, filepath.Join(root, "products", "a_400x300.avif"), []byte("x"))
	writeBytes(t, filepath.Join(root, "products", "a_800x600.webp"), []byte("x"))
	writeBytes(t, filepath.Join(root, "products", "b_400x300.webp"), []byte("x"))
	writeBytes(t, filepath.Join(root, "categories_images", "c_400x300.jpg"), []byte("x"))

	items := []Item{
		{Ref: domain.MediaRef{Kind: domain.MediaKindProductImage, Name: "products/a.jpg"}},
		{Ref: domain.MediaRef{Kind: domain.MediaKindProductGalleryImage, Name: "products/b.jpg"}},
		{Ref: domain.MediaRef{Kind: domain.MediaKindCategoryImage, Name: "categories_images/c.png"}},
	}
	sizes, err := media.ParseSizes("400x300,800x600")
	if err != nil {
		t.Fatal(err)
	}

	rep := Check(store, items, sizes, true)
	if rep.Total["products"] != 2 || rep.Total["categories"] != 1 {
		t.Fatalf("totals = %v", rep.Total)
	}
	if rep.Missing["products"] != 1 || rep.Missing["categories"] != 1 {
		t.Fatalf("missing = %v", rep.Missing)
	}
	if len(rep.Items) != 2 {
		t.Fatalf("only-missing items = %+v", rep.Items)
	}
	if got := rep.Items[0]; got.Ref.Name != "products/b.jpg" || len(got.Sizes) != 1 || got.Sizes[0] != "800x600" {
		t.Fatalf("b missing = %+v", got)
	}
	if got := rep.Items[1]; len(got.Sizes) != 2 {
		t.Fatalf("c missing = %+v", got)
	}

	all := Check(store, items, sizes, false)
	if len(all.Items) != 3 || len(all.Items[0].Sizes) != 0 {
		t.Fatalf("full report = %+v", all.Items)
	}
}
