package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"storefront/internal/adapter/repo"
	"storefront/internal/app"
	"storefront/internal/batch"
	"storefront/internal/domain"
	"storefront/internal/infra"
)

func main() {
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := newRootCommand()
	if err := root.ExecuteContext(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			fmt.Fprintln(os.Stderr, "interrupted")
			os.Exit(130)
		}
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// env is what every subcommand needs, built once in PersistentPreRunE.
type env struct {
	cfg    *infra.Config
	logger zerolog.Logger
}

func newRootCommand() *cobra.Command {
	var verbose bool
	e := &env{}

	root := &cobra.Command{
		Use:           "mediactl",
		Short:         "Generate and audit storefront image variants",
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := infra.LoadConfig()
			if err != nil {
				return err
			}
			e.cfg = cfg
			e.logger = infra.NewCLILogger(cfg.AppEnv, verbose)
			return nil
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log at debug level")

	root.AddCommand(
		newGenerateCommand(e),
		newCheckCommand(e),
		newWatchCommand(e),
		newProfilesCommand(e),
	)
	return root
}

// selection are the flags shared by generate and check.
type selection struct {
	ids   string
	kinds []string
	paths []string
	kind  string
}

func (s *selection) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&s.ids, "ids", "", "Comma-separated row IDs (category/product IDs; gallery rows match by product)")
	cmd.Flags().StringSliceVar(&s.kinds, "kinds", nil, "Media kinds to include (default all catalogue kinds)")
	cmd.Flags().StringSliceVar(&s.paths, "path", nil, "Process files or directories under MEDIA_ROOT instead of the database")
	cmd.Flags().StringVar(&s.kind, "kind", string(domain.MediaKindStaticIcon), "Media kind reported for --path items")
}

func (s *selection) filter() (domain.MediaFilter, error) {
	var f domain.MediaFilter
	for _, part := range strings.Split(s.ids, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil || id <= 0 {
			return f, fmt.Errorf("invalid id %q", part)
		}
		f.IDs = append(f.IDs, id)
	}
	for _, k := range s.kinds {
		kind, err := domain.ParseMediaKind(k)
		if err != nil {
			return f, err
		}
		f.Kinds = append(f.Kinds, kind)
	}
	return f, nil
}

// items resolves the selection against the filesystem or the database.
func (s *selection) items(ctx context.Context, e *env, store batch.Store) ([]batch.Item, error) {
	if len(s.paths) > 0 {
		kind, err := domain.ParseMediaKind(s.kind)
		if err != nil {
			return nil, err
		}
		return batch.FromPaths(store, kind, s.paths)
	}
	filter, err := s.filter()
	if err != nil {
		return nil, err
	}
	pool, err := infra.NewDBPool(ctx, e.cfg)
	if err != nil {
		if errors.Is(err, infra.ErrDatabaseDisabled) {
			return nil, errors.New("DATABASE_URL is required unless --path is given")
		}
		return nil, err
	}
	defer pool.Close()
	media := repo.NewMediaRepository(infra.NewSQLRunner(pool, e.logger))
	return batch.FromRepository(ctx, media, store, filter)
}

func newPipeline(ctx context.Context, e *env) (*app.Media, error) {
	return app.NewMedia(ctx, e.cfg, e.logger, nil)
}
