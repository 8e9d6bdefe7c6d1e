// Package mediahook turns "a media file was saved" events into variant
// generation runs.
package mediahook

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"storefront/internal/cache"
	"storefront/internal/domain"
	"storefront/internal/media"
)

// PathResolver maps a storage name to a file path.
type PathResolver interface {
	Path(name string) (string, error)
}

// Step is one generation run of a plan.
type Step struct {
	Profile string
	Options media.Options
}

// Plans maps each media kind to the runs it triggers. Sized variants are
// always rewritten; no-resize copies keep what is already on disk.
var Plans = map[domain.MediaKind][]Step{
	domain.MediaKindCategoryImage: {
		{Profile: media.ProfileIcon, Options: media.Options{Overwrite: true}},
	},
	domain.MediaKindCategorySEOImage: {
		{Profile: media.ProfileNoResizeBackground},
		{Profile: media.ProfileSEOCover, Options: media.Options{Overwrite: true}},
	},
	domain.MediaKindProductImage: {
		{Profile: media.ProfileNoResize},
		{Profile: media.ProfileCardCover, Options: media.Options{Overwrite: true}},
	},
	domain.MediaKindProductCardImage: {
		{Profile: media.ProfileNoResize},
		{Profile: media.ProfileCardCover, Options: media.Options{Overwrite: true}},
	},
	domain.MediaKindProductGalleryImage: {
		{Profile: media.ProfileNoResize},
	},
	domain.MediaKindStaticIcon: {
		{Profile: media.ProfileIcon, Options: media.Options{Overwrite: true}},
	},
}

// ErrSourceUnavailable marks a run whose original could not be decoded.
var ErrSourceUnavailable = errors.New("source missing or unreadable")

// Report collects what one OnSaved call did.
type Report struct {
	Ref     domain.MediaRef
	Results []media.Result
	// Problems holds step-level failures such as unknown profiles,
	// unresolvable paths, unreadable sources and cache errors. Per-format
	// failures live in Results.
	Problems []error
}

// Err joins every problem and per-format failure, or returns nil.
func (r Report) Err() error {
	errs := append([]error(nil), r.Problems...)
	for _, res := range r.Results {
		if err := res.Err(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Hooks runs plans against the generator.
type Hooks struct {
	paths     PathResolver
	generator *media.Generator
	profiles  *media.Registry
	cache     cache.Invalidator
	logger    zerolog.Logger
}

// New builds Hooks. A nil invalidator means cache.Noop.
func New(paths PathResolver, generator *media.Generator, profiles *media.Registry, inv cache.Invalidator, logger zerolog.Logger) *Hooks {
	if inv == nil {
		inv = cache.Noop{}
	}
	if profiles == nil {
		profiles = media.DefaultRegistry()
	}
	return &Hooks{paths: paths, generator: generator, profiles: profiles, cache: inv, logger: logger}
}

// OnSaved generates every variant the kind of ref calls for. It is best
// effort: nothing here is returned as an error, problems are logged and
// collected in the Report.
func (h *Hooks) OnSaved(ctx context.Context, ref domain.MediaRef) Report {
	report := Report{Ref: ref}
	logger := h.logger.With().Str("kind", string(ref.Kind)).Str("name", ref.Name).Logger()

	if err := ref.Validate(); err != nil {
		logger.Warn().Err(err).Msg("mediahook: invalid reference")
		report.Problems = append(report.Problems, err)
		return report
	}
	report.Ref = ref

	if ref.Kind.IsCategory() {
		if err := h.cache.Invalidate(ctx, cache.KeyCategoriesOrdered); err != nil {
			logger.Warn().Err(err).Msg("mediahook: cache invalidation failed")
			report.Problems = append(report.Problems, err)
		}
	}

	source, err := h.paths.Path(ref.Name)
	if err != nil {
		logger.Warn().Err(err).Msg("mediahook: cannot resolve source path")
		report.Problems = append(report.Problems, err)
		return report
	}

	for _, step := range Plans[ref.Kind] {
		if ctx.Err() != nil {
			report.Problems = append(report.Problems, ctx.Err())
			break
		}
		profile, err := h.profiles.Get(step.Profile)
		if err != nil {
			logger.Warn().Err(err).Msg("mediahook: profile missing")
			report.Problems = append(report.Problems, err)
			continue
		}
		res := h.generator.Generate(ctx, source, profile, step.Options)
		report.Results = append(report.Results, res)
		if ctx.Err() != nil {
			report.Problems = append(report.Problems, ctx.Err())
			break
		}
		if res.Empty() {
			// Every step reads the same source.
			logger.Warn().Str("profile", step.Profile).Msg("mediahook: source missing or unreadable")
			report.Problems = append(report.Problems, fmt.Errorf("%w: %s", ErrSourceUnavailable, ref.Name))
			break
		}
	}

	logger.Info().Int("runs", len(report.Results)).Int("problems", len(report.Problems)).Msg("mediahook: variants refreshed")
	return report
}

// Dispatch runs OnSaved in the background for fire-and-forget callers. The
// run is detached from ctx cancellation but keeps its values. done, when
// non-nil, receives the report.
func (h *Hooks) Dispatch(ctx context.Context, ref domain.MediaRef, done func(Report)) {
	ctx = context.WithoutCancel(ctx)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				h.logger.Error().Str("ref", ref.String()).Msgf("mediahook: panic: %v", r)
			}
		}()
		report := h.OnSaved(ctx, ref)
		if done != nil {
			done(report)
		}
	}()
}
