package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dhamidi/fusion/classpath"
	"github.com/dhamidi/fusion/generator"
	"github.com/dhamidi/fusion/sink"
)

func newRenderCmd(opts *options) *cobra.Command {
	var showPath bool

	cmd := &cobra.Command{
		Use:   "render <class>",
		Short: "Print the TypeScript module generated for one class",
		Long: `Translate a single class and print the module text without writing
anything. Referenced classes are not resolved.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load(cmd)
			if err != nil {
				return err
			}
			gen := generator.New(cfg, classpath.NewResolver(cfg.Roots()...), sink.NewMemorySink())

			path, text, err := gen.Render(args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if showPath {
				fmt.Fprintf(out, "// %s\n", path)
			}
			fmt.Fprintln(out, text)
			return nil
		},
	}

	flags := cmd.Flags()
	addClasspathFlag(flags)
	flags.String("header", "", "text placed above the module instead of the default banner")
	flags.Bool("no-header", false, "print the module without a header")
	flags.BoolVarP(&showPath, "path", "p", false, "print the output path first")

	return cmd
}
