package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"storefront/internal/media"
)

func newProfilesCommand(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "profiles",
		Short: "List the effective variant profiles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			registry, err := media.LoadProfiles(e.cfg.ProfilesPath)
			if err != nil {
				return err
			}
			return printProfiles(cmd, registry)
		},
	}
}

func printProfiles(cmd *cobra.Command, registry *media.Registry) error {
	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tSIZES\tFIT\tCATEGORY\tWEBP\tAVIF")
	for _, name := range registry.Names() {
		p, err := registry.Get(name)
		if err != nil {
			return err
		}
		sizes := "original"
		if !p.NoResize() {
			tokens := make([]string, 0, len(p.Sizes))
			for _, s := range p.Sizes {
				tokens = append(tokens, s.Token())
			}
			sizes = strings.Join(tokens, ",")
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%d\n", p.Name, sizes, p.Fit, p.Category, p.Quality.WebP, p.Quality.AVIF)
	}
	return tw.Flush()
}
