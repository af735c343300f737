package main

import (
	"github.com/spf13/cobra"

	"github.com/dhamidi/fusion/classpath"
	"github.com/dhamidi/fusion/generator"
	"github.com/dhamidi/fusion/lsp"
	"github.com/dhamidi/fusion/sink"
)

func newLSPCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lsp",
		Short: "Start the Language Server Protocol server",
		Long: `Serve LSP over stdio. Hovering over a class name in a Java source shows
the TypeScript module generated for it.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load(cmd)
			if err != nil {
				return err
			}
			gen := generator.New(cfg, classpath.NewResolver(cfg.Roots()...), sink.NewMemorySink())
			return lsp.New(gen, buildVersion()).RunStdio()
		},
	}

	addClasspathFlag(cmd.Flags())

	return cmd
}
