// Package batch runs the media pipeline over many stored originals.
package batch

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"storefront/internal/domain"
	"storefront/internal/media"
)

// Store resolves storage names to files and back.
type Store interface {
	Path(name string) (string, error)
	Name(path string) (string, error)
	Exists(name string) bool
}

// Item is one original to process.
type Item struct {
	Ref  domain.MediaRef
	Path string
}

// FromRepository lists the originals recorded in the catalogue.
func FromRepository(ctx context.Context, repo domain.MediaRepository, store Store, filter domain.MediaFilter) ([]Item, error) {
	refs, err := repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("batch: list media: %w", err)
	}
	items := make([]Item, 0, len(refs))
	for _, ref := range refs {
		path, err := store.Path(ref.Name)
		if err != nil {
			continue
		}
		items = append(items, Item{Ref: ref, Path: path})
	}
	return items, nil
}

var originalExts = map[string]bool{".jpg": true, ".jpeg": true, ".png": true}

// FromPaths expands files and directories (recursively) into originals.
// Paths outside the store root are rejected. Variants (.webp, .avif) are
// never treated as originals. The result is sorted and deduplicated.
func FromPaths(store Store, kind domain.MediaKind, paths []string) ([]Item, error) {
	seen := map[string]bool{}
	var items []Item
	add := func(path string) error {
		if !originalExts[strings.ToLower(filepath.Ext(path))] || seen[path] {
			return nil
		}
		name, err := store.Name(path)
		if err != nil {
			return err
		}
		seen[path] = true
		items = append(items, Item{Ref: domain.MediaRef{Kind: kind, Name: name}, Path: path})
		return nil
	}
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, fmt.Errorf("batch: resolve %s: %w", p, err)
		}
		info, err := os.Stat(abs)
		if err != nil {
			return nil, fmt.Errorf("batch: %w", err)
		}
		if !info.IsDir() {
			if err := add(abs); err != nil {
				return nil, fmt.Errorf("batch: %s: %w", p, err)
			}
			continue
		}
		err = filepath.WalkDir(abs, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if path != abs && strings.HasPrefix(d.Name(), ".") {
					return filepath.SkipDir
				}
				return nil
			}
			return add(path)
		})
		if err != nil {
			return nil, fmt.Errorf("batch: walk %s: %w", p, err)
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Ref.Name < items[j].Ref.Name })
	return items, nil
}

// Summary is the end-of-run report of Generate.
type Summary struct {
	Items       int
	CreatedAVIF int
	CreatedWebP int
	Kept        int
	Skipped     int
	Planned     int
	Errors      int
}

func (s Summary) String() string {
	return fmt.Sprintf("items=%d created_avif=%d created_webp=%d kept=%d skipped=%d planned=%d errors=%d",
		s.Items, s.CreatedAVIF, s.CreatedWebP, s.Kept, s.Skipped, s.Planned, s.Errors)
}

func (s *Summary) add(res media.Result) {
	c := res.Counts()
	s.CreatedAVIF += c.Written[media.FormatAVIF]
	s.CreatedWebP += c.Written[media.FormatWebP]
	s.Kept += c.Kept
	s.Skipped += c.Skipped
	s.Planned += c.Planned
	s.Errors += c.Failed
}

// Runner generates one profile over a list of items.
type Runner struct {
	Generator *media.Generator
	Logger    zerolog.Logger
}

// Generate processes items in order. Missing or unreadable sources count as
// one error each; per-format failures count individually. Cancelling ctx
// stops between items and returns the partial summary with ctx.Err().
func (r *Runner) Generate(ctx context.Context, items []Item, profile media.Profile, opts media.Options) (Summary, error) {
	var sum Summary
	for _, it := range items {
		if err := ctx.Err(); err != nil {
			return sum, err
		}
		sum.Items++
		res := r.Generator.Generate(ctx, it.Path, profile, opts)
		if res.Empty() {
			sum.Errors++
			r.Logger.Warn().Str("name", it.Ref.Name).Msg("batch: source missing or unreadable")
			continue
		}
		sum.add(res)
		if err := res.Err(); err != nil {
			r.Logger.Warn().Err(err).Str("name", it.Ref.Name).Msg("batch: some variants failed")
		}
	}
	return sum, nil
}

// Missing lists the size tokens of one item that have neither an AVIF nor
// a WebP sized variant.
type Missing struct {
	Ref   domain.MediaRef
	Sizes []string
}

// CheckReport groups Check results.
type CheckReport struct {
	Total   map[string]int
	Missing map[string]int
	Items   []Missing
}

// Group labels an item for the check report: categories vs products.
func Group(kind domain.MediaKind) string {
	switch {
	case kind.IsCategory():
		return "categories"
	case kind == domain.MediaKindStaticIcon:
		return "icons"
	default:
		return "products"
	}
}

// Check probes every item for the sized variants of sizes. Items with every
// size present are reported only when onlyMissing is false.
func Check(store Store, items []Item, sizes []media.SizeSpec, onlyMissing bool) CheckReport {
	rep := CheckReport{Total: map[string]int{}, Missing: map[string]int{}}
	for _, it := range items {
		group := Group(it.Ref.Kind)
		rep.Total[group]++
		var missing []string
		for _, size := range sizes {
			token := size.Token()
			if store.Exists(media.SizedName(it.Ref.Name, token, media.FormatAVIF.Ext())) ||
				store.Exists(media.SizedName(it.Ref.Name, token, media.FormatWebP.Ext())) {
				continue
			}
			missing = append(missing, token)
		}
		if len(missing) > 0 {
			rep.Missing[group]++
		}
		if len(missing) > 0 || !onlyMissing {
			rep.Items = append(rep.Items, Missing{Ref: it.Ref, Sizes: missing})
		}
	}
	return rep
}
