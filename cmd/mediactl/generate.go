package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"storefront/internal/batch"
	"storefront/internal/media"
)

func newGenerateCommand(e *env) *cobra.Command {
	var (
		sel         selection
		profileName string
		sizes       string
		onlyMissing bool
		overwrite   bool
		dryRun      bool
		qualityAVIF int
		qualityWebP int
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate AVIF/WebP variants for stored originals",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if onlyMissing && overwrite {
				return fmt.Errorf("--only-missing and --overwrite are mutually exclusive")
			}

			pipeline, err := newPipeline(ctx, e)
			if err != nil {
				return err
			}
			defer pipeline.Close()

			profile, err := pipeline.Profiles.Get(profileName)
			if err != nil {
				return err
			}
			if sizes != "" {
				override, err := media.ParseSizes(sizes)
				if err != nil {
					return err
				}
				profile.Sizes = override
			}

			opts := media.Options{Overwrite: overwrite, OnlyIfMissing: onlyMissing, DryRun: dryRun}
			if cmd.Flags().Changed("quality-avif") {
				opts.QualityAVIF = &qualityAVIF
			}
			if cmd.Flags().Changed("quality-webp") {
				opts.QualityWebP = &qualityWebP
			}

			items, err := sel.items(ctx, e, pipeline.Store)
			if err != nil {
				return err
			}
			e.logger.Info().Str("profile", profile.Name).Int("items", len(items)).Bool("dry_run", dryRun).Msg("generate: starting")

			runner := &batch.Runner{Generator: pipeline.Generator, Logger: e.logger}
			sum, err := runner.Generate(ctx, items, profile, opts)
			printSummary(cmd, sum, dryRun)
			return err
		},
	}

	sel.register(cmd)
	cmd.Flags().StringVar(&profileName, "profile", media.ProfileCard, "Profile to generate")
	cmd.Flags().StringVar(&sizes, "sizes", "", "Override the profile sizes (e.g. 48x48,96x96)")
	cmd.Flags().BoolVar(&onlyMissing, "only-missing", false, "Skip sizes whose outputs all exist")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Rewrite outputs that already exist")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Report planned outputs without writing")
	cmd.Flags().IntVar(&qualityAVIF, "quality-avif", 0, "AVIF quality 0..100 (default from profile)")
	cmd.Flags().IntVar(&qualityWebP, "quality-webp", 0, "WebP quality 0..100 (default from profile)")
	return cmd
}

func printSummary(cmd *cobra.Command, sum batch.Summary, dryRun bool) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Items processed: %d\n", sum.Items)
	if dryRun {
		fmt.Fprintf(out, "Planned sizes:   %d\n", sum.Planned)
	} else {
		fmt.Fprintf(out, "Created AVIF:    %d\n", sum.CreatedAVIF)
		fmt.Fprintf(out, "Created WebP:    %d\n", sum.CreatedWebP)
		fmt.Fprintf(out, "Kept existing:   %d\n", sum.Kept)
	}
	fmt.Fprintf(out, "Skipped sizes:   %d\n", sum.Skipped)
	fmt.Fprintf(out, "Errors:          %d\n", sum.Errors)
}
