// Package app assembles the media pipeline shared by the binaries.
package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"storefront/internal/cache"
	"storefront/internal/infra"
	"storefront/internal/media"
	"storefront/internal/mediahook"
	"storefront/internal/storage"
)

// PlaceholderName is served by the resolver for assets without a name.
const PlaceholderName = "placeholder.webp"

// Media holds the wired pipeline.
type Media struct {
	Store     *storage.FileStore
	Encoder   *media.Encoder
	Generator *media.Generator
	Profiles  *media.Registry
	Resolver  *media.Resolver
	Cache     cache.Invalidator
	Hooks     *mediahook.Hooks

	closers []func() error
}

// NewMedia builds the pipeline from cfg. obs may be nil.
func NewMedia(ctx context.Context, cfg *infra.Config, logger zerolog.Logger, obs media.Observer) (*Media, error) {
	store, err := storage.NewFileStore(cfg.MediaRoot, cfg.MediaBaseURL)
	if err != nil {
		return nil, err
	}
	profiles, err := media.LoadProfiles(cfg.ProfilesPath)
	if err != nil {
		return nil, err
	}

	enc := media.NewEncoder(cfg.DisableAVIF)
	if cfg.DisableAVIF {
		logger.Info().Msg("media: AVIF disabled by configuration")
	} else if !enc.Available(media.FormatAVIF) {
		logger.Warn().Msg("media: AVIF encoder unavailable, writing WebP only")
	}

	var genOpts []media.GeneratorOption
	if obs != nil {
		genOpts = append(genOpts, media.WithObserver(obs))
	}
	gen := media.NewGenerator(enc, logger, genOpts...)

	inv, closeCache, err := cache.New(ctx, cfg.RedisURL, cfg.CacheKeyPrefix)
	if err != nil {
		return nil, fmt.Errorf("cache: %w", err)
	}

	resolverOpts := []media.ResolverOption{media.WithFormats(enc.Formats()...)}
	if store.Exists(PlaceholderName) {
		resolverOpts = append(resolverOpts, media.WithPlaceholder(store.URL(PlaceholderName)))
	}

	return &Media{
		Store:     store,
		Encoder:   enc,
		Generator: gen,
		Profiles:  profiles,
		Resolver:  media.NewResolver(store, resolverOpts...),
		Cache:     inv,
		Hooks:     mediahook.New(store, gen, profiles, inv, logger),
		closers:   []func() error{closeCache},
	}, nil
}

// Close releases external connections.
func (m *Media) Close() error {
	var errs []error
	for _, c := range m.closers {
		if err := c(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
