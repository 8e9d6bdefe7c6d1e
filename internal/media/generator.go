package media

import (
	"context"
	"fmt"
	"image"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Options are the per-call knobs of Generate. Nil qualities fall back to the
// profile preset; values outside 0..100 are ignored.
type Options struct {
	QualityAVIF   *int
	QualityWebP   *int
	Overwrite     bool
	OnlyIfMissing bool
	DryRun        bool
}

// Observer receives per-output outcomes, e.g. for metrics.
type Observer interface {
	ObserveVariant(profile string, format Format, status Status)
	ObserveGeneration(profile string, elapsed time.Duration)
}

// Generator turns a source image into the variants a profile asks for.
type Generator struct {
	encoder  *Encoder
	logger   zerolog.Logger
	observer Observer
}

// GeneratorOption customises a Generator.
type GeneratorOption func(*Generator)

// WithObserver attaches an Observer.
func WithObserver(o Observer) GeneratorOption {
	return func(g *Generator) { g.observer = o }
}

// NewGenerator builds a Generator around enc.
func NewGenerator(enc *Encoder, logger zerolog.Logger, opts ...GeneratorOption) *Generator {
	if enc == nil {
		enc = NewEncoder(false)
	}
	g := &Generator{encoder: enc, logger: logger}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Encoder returns the encoder in use.
func (g *Generator) Encoder() *Encoder {
	return g.encoder
}

type target struct {
	token string
	size  SizeSpec
	paths map[Format]string
}

func (g *Generator) targets(sourcePath string, profile Profile) []target {
	var tokens []SizeSpec
	if profile.NoResize() {
		tokens = []SizeSpec{{}}
	} else {
		tokens = profile.Sizes
	}
	out := make([]target, 0, len(tokens))
	for _, size := range tokens {
		t := target{size: size, paths: map[Format]string{}}
		if size.Valid() {
			t.token = size.Token()
		}
		for _, f := range g.encoder.Formats() {
			t.paths[f] = VariantName(sourcePath, t.token, f.Ext())
		}
		out = append(out, t)
	}
	return out
}

// Generate writes the variants of sourcePath described by profile. It never
// returns an error: a missing or undecodable source yields an empty Result,
// and per-format failures are reported in the Result without stopping the
// remaining outputs. Cancelling ctx stops between sizes.
func (g *Generator) Generate(ctx context.Context, sourcePath string, profile Profile, opts Options) Result {
	start := time.Now()
	logger := g.logger.With().Str("source", sourcePath).Str("profile", profile.Name).Logger()

	info, err := os.Stat(sourcePath)
	if sourcePath == "" || err != nil || info.IsDir() {
		logger.Warn().Err(err).Msg("media: source missing, nothing generated")
		return Result{}
	}

	result := Result{Source: sourcePath, Profile: profile.Name}
	var img image.Image

	for _, t := range g.targets(sourcePath, profile) {
		if ctx.Err() != nil {
			logger.Warn().Err(ctx.Err()).Msg("media: generation interrupted")
			break
		}

		if opts.OnlyIfMissing && allExist(t.paths) {
			result.Sizes = append(result.Sizes, g.skipped(profile, t))
			continue
		}
		if opts.DryRun {
			result.Sizes = append(result.Sizes, g.planned(t, opts))
			continue
		}

		if img == nil {
			img, err = Decode(sourcePath)
			if err != nil {
				logger.Warn().Err(err).Msg("media: source unreadable, nothing generated")
				return Result{}
			}
		}

		var canvas *image.NRGBA
		if t.token == "" {
			canvas = Identity(img)
		} else {
			canvas = Fit(img, t.size, profile.Fit, FitOptions{Background: profile.Background, BlurSigma: profile.BlurSigma})
		}
		result.Sizes = append(result.Sizes, g.persist(logger, profile, t, canvas, opts))
	}

	if g.observer != nil {
		g.observer.ObserveGeneration(profile.Name, time.Since(start))
	}
	return result
}

func (g *Generator) skipped(profile Profile, t target) SizeResult {
	sr := SizeResult{Token: t.token, Status: StatusSkipped}
	for _, f := range g.encoder.Formats() {
		sr.Formats = append(sr.Formats, FormatOutcome{Format: f, Path: t.paths[f], Status: StatusSkipped})
		g.observe(profile.Name, f, StatusSkipped)
	}
	return sr
}

func (g *Generator) planned(t target, opts Options) SizeResult {
	sr := SizeResult{Token: t.token, Status: StatusPlanned}
	for _, f := range g.encoder.Formats() {
		status := StatusPlanned
		if !opts.Overwrite && exists(t.paths[f]) {
			status = StatusKept
		}
		sr.Formats = append(sr.Formats, FormatOutcome{Format: f, Path: t.paths[f], Status: status})
	}
	return sr
}

func (g *Generator) persist(logger zerolog.Logger, profile Profile, t target, canvas *image.NRGBA, opts Options) SizeResult {
	sr := SizeResult{Token: t.token, Status: StatusFailed}
	b := canvas.Bounds()
	longest := max(b.Dx(), b.Dy())

	for _, f := range g.encoder.Formats() {
		path := t.paths[f]
		outcome := FormatOutcome{Format: f, Path: path}

		switch {
		case !opts.Overwrite && exists(path):
			outcome.Status = StatusKept
		default:
			quality := g.quality(f, profile, opts, longest)
			if err := g.encoder.Save(f, canvas, path, quality); err != nil {
				outcome.Status = StatusFailed
				outcome.Err = err
				logger.Warn().Err(err).Str("size", t.token).Str("format", string(f)).Msg("media: variant write failed")
			} else if !exists(path) {
				outcome.Status = StatusFailed
				outcome.Err = fmt.Errorf("media: %s missing after write", path)
			} else {
				outcome.Status = StatusWritten
				logger.Debug().Str("size", t.token).Str("format", string(f)).Int("quality", quality).Msg("media: variant written")
			}
		}

		switch {
		case outcome.Status == StatusWritten:
			sr.Status = StatusWritten
		case outcome.Status == StatusKept && sr.Status == StatusFailed:
			sr.Status = StatusKept
		}
		sr.Formats = append(sr.Formats, outcome)
		g.observe(profile.Name, f, outcome.Status)
	}
	return sr
}

func (g *Generator) quality(f Format, profile Profile, opts Options, longest int) int {
	switch f {
	case FormatAVIF:
		if valid(opts.QualityAVIF) {
			return *opts.QualityAVIF
		}
		return profile.Quality.AVIFFor(longest)
	default:
		if valid(opts.QualityWebP) {
			return *opts.QualityWebP
		}
		return profile.Quality.WebP
	}
}

func (g *Generator) observe(profile string, f Format, status Status) {
	if g.observer != nil {
		g.observer.ObserveVariant(profile, f, status)
	}
}

func valid(q *int) bool {
	return q != nil && *q >= 0 && *q <= 100
}

func exists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func allExist(paths map[Format]string) bool {
	for _, p := range paths {
		if !exists(p) {
			return false
		}
	}
	return len(paths) > 0
}

// Quality returns a pointer to q, for building Options literals.
func Quality(q int) *int {
	return &q
}
