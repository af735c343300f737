package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/dhamidi/fusion/classpath"
	"github.com/dhamidi/fusion/generator"
	"github.com/dhamidi/fusion/sink"
)

func newClasspathCmd(opts *options) *cobra.Command {
	var endpoints bool

	cmd := &cobra.Command{
		Use:   "classpath",
		Short: "Print the classified classpath roots",
		Long: `Print every classpath root in search order with its kind. Directories
are always searched before archives.

With --endpoints, list the endpoint classes found in the directory roots
instead: these are generated when no entries are given.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load(cmd)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			if endpoints {
				gen := generator.New(cfg, classpath.NewResolver(cfg.Roots()...), sink.NewMemorySink())
				names, err := gen.Discover(cmd.Context())
				if err != nil {
					return err
				}
				for _, name := range names {
					fmt.Fprintln(out, name)
				}
				return nil
			}

			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			for _, root := range cfg.Roots() {
				state := ""
				if _, err := os.Stat(root.Path); err != nil {
					state = "missing"
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\n", root.Kind, root.Path, state)
			}
			return tw.Flush()
		},
	}

	addClasspathFlag(cmd.Flags())
	cmd.Flags().BoolVarP(&endpoints, "endpoints", "e", false, "list endpoint classes in the directory roots")

	return cmd
}
