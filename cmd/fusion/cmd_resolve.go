package main

import (
	"github.com/spf13/cobra"

	"github.com/dhamidi/fusion/classpath"
	"github.com/dhamidi/fusion/errors"
	"github.com/dhamidi/fusion/format"
	"github.com/dhamidi/fusion/java"
)

func newResolveCmd(opts *options) *cobra.Command {
	var outputFormat string

	cmd := &cobra.Command{
		Use:   "resolve <class>",
		Short: "Find a class on the classpath and print its model",
		Long: `Resolve a class by binary name, dotted or slashed, the way the generator
does and print what was found.

Examples:
  fusion resolve -c build/classes com.example.DashboardEndpoint
  fusion resolve -c lib/api.jar -f json com/example/Order$Status`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load(cmd)
			if err != nil {
				return err
			}
			enc, err := format.New(outputFormat, cmd.OutOrStdout())
			if err != nil {
				return err
			}

			cf, err := classpath.NewResolver(cfg.Roots()...).Resolve(args[0])
			if err != nil {
				return err
			}
			model, err := java.ClassModelFromClassFile(cf)
			if err != nil {
				return errors.ClassFormat(classpath.Normalize(args[0]), err)
			}
			return enc.Encode(model)
		},
	}

	addClasspathFlag(cmd.Flags())
	cmd.Flags().StringVarP(&outputFormat, "format", "f", "java", "output format (java, json)")

	return cmd
}
