package main

import (
	"github.com/spf13/cobra"

	"storefront/internal/watcher"
)

func newWatchCommand(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Generate variants for originals as they appear under MEDIA_ROOT",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			pipeline, err := newPipeline(ctx, e)
			if err != nil {
				return err
			}
			defer pipeline.Close()

			w, err := watcher.New(pipeline.Store.BasePath(), pipeline.Hooks, e.logger, watcher.WithDebounce(e.cfg.WatchDebounce))
			if err != nil {
				return err
			}
			return w.Run(ctx)
		},
	}
}
