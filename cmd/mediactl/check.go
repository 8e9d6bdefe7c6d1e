package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"storefront/internal/batch"
	"storefront/internal/media"
)

const defaultCheckSizes = "400x300,800x600,256x192,800x450"

func newCheckCommand(e *env) *cobra.Command {
	var (
		sel         selection
		sizes       string
		onlyMissing bool
	)

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Report originals missing sized AVIF/WebP variants",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			specs, err := media.ParseSizes(sizes)
			if err != nil {
				return err
			}
			if len(specs) == 0 {
				return fmt.Errorf("--sizes must name at least one size")
			}

			pipeline, err := newPipeline(ctx, e)
			if err != nil {
				return err
			}
			defer pipeline.Close()

			items, err := sel.items(ctx, e, pipeline.Store)
			if err != nil {
				return err
			}
			report := batch.Check(pipeline.Store, items, specs, onlyMissing)
			printCheck(cmd, report)
			return nil
		},
	}

	sel.register(cmd)
	cmd.Flags().StringVar(&sizes, "sizes", defaultCheckSizes, "Comma-separated sizes to check (WxH)")
	cmd.Flags().BoolVar(&onlyMissing, "only-missing", false, "Print only items missing a variant")
	return cmd
}

func printCheck(cmd *cobra.Command, report batch.CheckReport) {
	out := cmd.OutOrStdout()
	for _, m := range report.Items {
		owner := ""
		if m.Ref.OwnerID > 0 {
			owner = fmt.Sprintf(" #%d", m.Ref.OwnerID)
		}
		state := "ok"
		if len(m.Sizes) > 0 {
			state = "missing " + strings.Join(m.Sizes, ", ")
		}
		fmt.Fprintf(out, "[%s]%s %s: %s\n", m.Ref.Kind, owner, m.Ref.Name, state)
	}

	groups := make([]string, 0, len(report.Total))
	for g := range report.Total {
		groups = append(groups, g)
	}
	sort.Strings(groups)
	fmt.Fprintln(out)
	for _, g := range groups {
		fmt.Fprintf(out, "%s: total=%d, missing_any=%d\n", g, report.Total[g], report.Missing[g])
	}
}
