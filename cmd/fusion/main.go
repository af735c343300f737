package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"

	"github.com/dhamidi/fusion/errors"
)

func main() {
	var opts options

	rootCmd := &cobra.Command{
		Use:   "fusion",
		Short: "Generate TypeScript clients for Java endpoints",
		Long: `fusion reads compiled Java classes from a classpath and writes
TypeScript modules for the endpoint classes found there, together with
interfaces and enums for every type they use.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			var path *string
			if opts.logFile != "" {
				path = &opts.logFile
			}
			commonlog.Configure(opts.verbose, path)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.CountVarP(&opts.verbose, "verbose", "v", "log more (repeat for debug output)")
	flags.StringVar(&opts.logFile, "log-file", "", "write logs to this file instead of stderr")
	flags.StringVar(&opts.configFile, "config", "", "config file (default: fusion.{toml,yaml,json} in the working directory)")

	rootCmd.AddCommand(newGenCmd(&opts))
	rootCmd.AddCommand(newResolveCmd(&opts))
	rootCmd.AddCommand(newRenderCmd(&opts))
	rootCmd.AddCommand(newClasspathCmd(&opts))
	rootCmd.AddCommand(newLSPCmd(&opts))
	rootCmd.AddCommand(newVersionCmd())

	if err := rootCmd.Execute(); err != nil {
		printError(os.Stderr, err)
		os.Exit(1)
	}
}

func printError(w io.Writer, err error) {
	fmt.Fprintf(w, "fusion: %s\n", err)
	if hint := errors.FlattenHints(err); hint != "" {
		fmt.Fprintf(w, "hint: %s\n", hint)
	}
}
