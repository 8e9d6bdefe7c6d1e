package media

import (
	"errors"
	"fmt"
	"image/color"
	"os"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrUnknownProfile is returned by Registry.Get for names that are not registered.
var ErrUnknownProfile = errors.New("media: unknown profile")

// FitMode selects how a source is mapped onto a fixed canvas.
type FitMode string

const (
	FitCover      FitMode = "cover"
	FitContain    FitMode = "contain"
	FitBlurExtend FitMode = "blur-extend"
)

// ParseFitMode accepts the canonical names plus a few spellings used by older tooling.
func ParseFitMode(s string) (FitMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "cover", "crop":
		return FitCover, nil
	case "contain", "fit", "":
		return FitContain, nil
	case "blur-extend", "blur_extend", "blurextend", "blur":
		return FitBlurExtend, nil
	default:
		return "", fmt.Errorf("media: unknown fit mode %q", s)
	}
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *FitMode) UnmarshalText(text []byte) error {
	mode, err := ParseFitMode(string(text))
	if err != nil {
		return err
	}
	*m = mode
	return nil
}

// Category groups imagery with similar compression needs.
type Category string

const (
	CategoryProduct    Category = "product"
	CategoryBackground Category = "background"
	CategoryIcon       Category = "icon"
)

// QualityTier raises AVIF quality for canvases whose longest side reaches MinLongest.
type QualityTier struct {
	MinLongest int `yaml:"min_longest"`
	AVIF       int `yaml:"avif"`
}

// QualityPreset holds default encoder qualities (0..100).
type QualityPreset struct {
	WebP      int           `yaml:"webp"`
	AVIF      int           `yaml:"avif"`
	AVIFTiers []QualityTier `yaml:"avif_tiers"`
}

// AVIFFor returns the AVIF quality for a canvas with the given longest side.
func (q QualityPreset) AVIFFor(longest int) int {
	tiers := append([]QualityTier(nil), q.AVIFTiers...)
	sort.Slice(tiers, func(i, j int) bool { return tiers[i].MinLongest > tiers[j].MinLongest })
	for _, tier := range tiers {
		if longest >= tier.MinLongest {
			return tier.AVIF
		}
	}
	return q.AVIF
}

// DefaultPresets is the per-category quality table. Backgrounds get lower
// AVIF quality than products, scaled up for large canvases.
var DefaultPresets = map[Category]QualityPreset{
	CategoryProduct: {WebP: 80, AVIF: 45},
	CategoryBackground: {WebP: 82, AVIF: 54, AVIFTiers: []QualityTier{
		{MinLongest: 2400, AVIF: 66},
		{MinLongest: 1920, AVIF: 62},
		{MinLongest: 1600, AVIF: 58},
	}},
	CategoryIcon: {WebP: 82, AVIF: 70},
}

// Profile bundles target sizes, a fit mode and quality defaults for a class
// of imagery. A profile without sizes is a no-resize profile: the original
// dimensions are kept and outputs carry no size token.
type Profile struct {
	Name       string
	Sizes      []SizeSpec
	Fit        FitMode
	Category   Category
	BlurSigma  float64
	Background color.Color
	Quality    QualityPreset
}

// NoResize reports whether the profile keeps original dimensions.
func (p Profile) NoResize() bool {
	return len(p.Sizes) == 0
}

// withDefaults fills unset fields from the category preset table.
func (p Profile) withDefaults() Profile {
	if p.Category == "" {
		p.Category = CategoryProduct
	}
	if p.Fit == "" {
		p.Fit = FitContain
	}
	if p.BlurSigma <= 0 {
		p.BlurSigma = DefaultBlurSigma
	}
	if p.Background == nil {
		p.Background = Transparent
	}
	preset := DefaultPresets[p.Category]
	if p.Quality.WebP <= 0 {
		p.Quality.WebP = preset.WebP
	}
	if p.Quality.AVIF <= 0 {
		p.Quality.AVIF = preset.AVIF
		if len(p.Quality.AVIFTiers) == 0 {
			p.Quality.AVIFTiers = preset.AVIFTiers
		}
	}
	return p
}

func sizes(tokens ...string) []SizeSpec {
	out := make([]SizeSpec, 0, len(tokens))
	for _, t := range tokens {
		s, err := ParseSize(t)
		if err != nil {
			panic(err)
		}
		out = append(out, s)
	}
	return out
}

// Built-in profile names.
const (
	ProfileIcon               = "icon"
	ProfileCard               = "card"
	ProfileCardCover          = "card-cover"
	ProfileSEOCover           = "seo-cover"
	ProfileProductSizes       = "product-sizes"
	ProfileResponsive         = "responsive"
	ProfileNoResize           = "no-resize"
	ProfileNoResizeBackground = "no-resize-background"
)

// BuiltinProfiles returns the profiles the storefront templates expect.
func BuiltinProfiles() []Profile {
	cardQuality := QualityPreset{WebP: 82, AVIF: 60}
	return []Profile{
		{Name: ProfileIcon, Sizes: sizes("128x128"), Fit: FitContain, Category: CategoryIcon},
		{Name: ProfileCard, Sizes: sizes("230x160", "200x160"), Fit: FitBlurExtend, Category: CategoryProduct, Quality: cardQuality},
		{Name: ProfileCardCover, Sizes: sizes("230x160", "200x160"), Fit: FitCover, Category: CategoryProduct, Quality: cardQuality},
		{Name: ProfileSEOCover, Sizes: sizes("800x450"), Fit: FitCover, Category: CategoryBackground, Quality: QualityPreset{WebP: 82, AVIF: 70}},
		{Name: ProfileProductSizes, Sizes: sizes("400x300", "800x600"), Fit: FitContain, Category: CategoryProduct, Quality: QualityPreset{WebP: 82, AVIF: 70}},
		{Name: ProfileResponsive, Sizes: sizes("1200x900", "1024x768", "800x600", "640x480"), Fit: FitCover, Category: CategoryProduct},
		{Name: ProfileNoResize, Category: CategoryProduct},
		{Name: ProfileNoResizeBackground, Category: CategoryBackground},
	}
}

// Registry resolves profiles by name.
type Registry struct {
	profiles map[string]Profile
}

// NewRegistry builds a registry from the given profiles, applying category defaults.
func NewRegistry(profiles ...Profile) *Registry {
	r := &Registry{profiles: make(map[string]Profile, len(profiles))}
	for _, p := range profiles {
		r.profiles[p.Name] = p.withDefaults()
	}
	return r
}

// DefaultRegistry returns a registry holding BuiltinProfiles.
func DefaultRegistry() *Registry {
	return NewRegistry(BuiltinProfiles()...)
}

// Get returns the named profile.
func (r *Registry) Get(name string) (Profile, error) {
	if r != nil {
		if p, ok := r.profiles[strings.TrimSpace(name)]; ok {
			return p, nil
		}
	}
	return Profile{}, fmt.Errorf("%w: %q", ErrUnknownProfile, name)
}

// Names lists registered profiles in lexical order.
func (r *Registry) Names() []string {
	if r == nil {
		return nil
	}
	names := make([]string, 0, len(r.profiles))
	for name := range r.profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

type profileFile struct {
	Profiles map[string]profileEntry `yaml:"profiles"`
}

type profileEntry struct {
	Sizes      []SizeSpec    `yaml:"sizes"`
	Fit        FitMode       `yaml:"fit"`
	Category   Category      `yaml:"category"`
	BlurSigma  float64       `yaml:"blur_sigma"`
	Background string        `yaml:"background"`
	Quality    QualityPreset `yaml:"quality"`
}

// LoadProfiles reads a YAML profile file and merges it over the built-ins.
// An empty path yields DefaultRegistry.
func LoadProfiles(path string) (*Registry, error) {
	if strings.TrimSpace(path) == "" {
		return DefaultRegistry(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("media: read profiles: %w", err)
	}
	return ParseProfiles(data)
}

// ParseProfiles parses YAML profile overrides and merges them over the built-ins.
func ParseProfiles(data []byte) (*Registry, error) {
	var file profileFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("media: parse profiles: %w", err)
	}
	merged := map[string]Profile{}
	for _, p := range BuiltinProfiles() {
		merged[p.Name] = p
	}
	for name, entry := range file.Profiles {
		switch entry.Category {
		case "", CategoryProduct, CategoryBackground, CategoryIcon:
		default:
			return nil, fmt.Errorf("media: profile %q: unknown category %q", name, entry.Category)
		}
		bg, err := parseHexColor(entry.Background)
		if err != nil {
			return nil, fmt.Errorf("media: profile %q: %w", name, err)
		}
		merged[name] = Profile{
			Name:       name,
			Sizes:      entry.Sizes,
			Fit:        entry.Fit,
			Category:   entry.Category,
			BlurSigma:  entry.BlurSigma,
			Background: bg,
			Quality:    entry.Quality,
		}
	}
	list := make([]Profile, 0, len(merged))
	for _, p := range merged {
		list = append(list, p)
	}
	return NewRegistry(list...), nil
}

// parseHexColor parses #RGB, #RRGGBB or #RRGGBBAA. An empty string yields nil.
func parseHexColor(s string) (color.Color, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if s == "" {
		return nil, nil
	}
	if len(s) == 3 {
		s = string([]byte{s[0], s[0], s[1], s[1], s[2], s[2]})
	}
	if len(s) == 6 {
		s += "ff"
	}
	if len(s) != 8 {
		return nil, fmt.Errorf("invalid background color %q", s)
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return nil, fmt.Errorf("invalid background color %q", s)
	}
	return color.NRGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, nil
}
