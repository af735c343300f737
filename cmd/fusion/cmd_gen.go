package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dhamidi/fusion/classpath"
	"github.com/dhamidi/fusion/config"
	"github.com/dhamidi/fusion/errors"
	"github.com/dhamidi/fusion/generator"
	"github.com/dhamidi/fusion/sink"
)

func newGenCmd(opts *options) *cobra.Command {
	var watch bool

	cmd := &cobra.Command{
		Use:   "gen [class...]",
		Short: "Generate TypeScript modules",
		Long: `Generate TypeScript modules for the given classes and every class they
reference. Without arguments the configured entries are generated, or,
when none are configured, every endpoint class in the directory roots.

A class that cannot be resolved or translated fails only the entry that
needs it; modules for the other entries are still written.

Examples:
  fusion gen -c build/classes -c lib/api.jar
  fusion gen -c build/classes com.example.DashboardEndpoint
  fusion gen --watch`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load(cmd)
			if err != nil {
				return err
			}

			roots := cfg.Roots()
			gen := generator.New(cfg, classpath.NewResolver(roots...), sink.NewFilesystemSink(cfg.Output))

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			out := cmd.OutOrStdout()
			if watch {
				var dirs []string
				for _, r := range roots {
					if !r.IsArchive() {
						dirs = append(dirs, r.Path)
					}
				}
				return gen.Watch(ctx, dirs, args, func(report *generator.Report, err error) {
					printReport(out, cfg.Output, report)
					if err != nil {
						printError(os.Stderr, err)
					}
				})
			}

			report, err := gen.Run(ctx, args)
			printReport(out, cfg.Output, report)
			return err
		},
	}

	flags := cmd.Flags()
	addClasspathFlag(flags)
	flags.StringP("output", "o", config.DefaultOutput, "directory the modules are written to")
	flags.String("header", "", "text placed above every module instead of the default banner")
	flags.Bool("no-header", false, "write modules without a header")
	flags.IntP("jobs", "j", 0, "modules written in parallel (default: number of CPUs)")
	flags.BoolVarP(&watch, "watch", "w", false, "regenerate whenever class files in directory roots change")

	return cmd
}

func printReport(w io.Writer, dir string, report *generator.Report) {
	if report == nil {
		return
	}
	for _, path := range report.Written {
		fmt.Fprintf(w, "wrote %s\n", filepath.Join(dir, filepath.FromSlash(path)))
	}
	for _, f := range report.Failures {
		fmt.Fprintf(w, "skipped %s (%s)\n", f.Entry, errors.KindOf(f.Err))
	}
}
