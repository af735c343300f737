package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/dhamidi/fusion/config"
)

// options are the persistent flags shared by every command.
type options struct {
	verbose    int
	logFile    string
	configFile string
}

// flagKeys maps command line flags to configuration keys.
var flagKeys = map[string]string{
	"classpath": "classpath",
	"output":    "output",
	"header":    "header",
	"no-header": "no_header",
	"jobs":      "jobs",
}

func addClasspathFlag(flags *pflag.FlagSet) {
	flags.StringSliceP("classpath", "c", nil, "class directories and archives, searched in order (path lists allowed)")
}

// load reads the configuration, letting any flag the command defines
// override the file and environment.
func (o *options) load(cmd *cobra.Command) (*config.Config, error) {
	v := config.New(o.configFile, ".")
	for flag, key := range flagKeys {
		f := cmd.Flags().Lookup(flag)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return nil, err
		}
	}
	return config.Load(v)
}
