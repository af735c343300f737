// Package config loads generator settings from a config file, FUSION_*
// environment variables and command line flags, in increasing order of
// precedence.
package config

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/dhamidi/fusion/classpath"
	"github.com/dhamidi/fusion/errors"
	"github.com/dhamidi/fusion/translator"
)

// DefaultOutput is where generated modules go unless configured otherwise.
const DefaultOutput = "frontend/generated"

// Keys are the configuration keys, as used in config files. Environment
// variables are the upper-cased key with a FUSION_ prefix.
var Keys = []string{
	"classpath",
	"output",
	"header",
	"no_header",
	"entries",
	"jobs",
	"endpoint_annotations",
	"nonnull_annotations",
}

type Config struct {
	// Classpath entries may themselves be OS path lists.
	Classpath []string `mapstructure:"classpath" validate:"required,min=1,dive,required"`
	Output    string   `mapstructure:"output" validate:"required"`
	// Header replaces the default banner when set.
	Header   string `mapstructure:"header"`
	NoHeader bool   `mapstructure:"no_header"`
	// Entries are the classes to generate. When empty, every endpoint
	// found in a directory root is generated.
	Entries             []string `mapstructure:"entries" validate:"dive,required"`
	Jobs                int      `mapstructure:"jobs" validate:"gte=1,lte=256"`
	EndpointAnnotations []string `mapstructure:"endpoint_annotations" validate:"dive,required"`
	NonNullAnnotations  []string `mapstructure:"nonnull_annotations" validate:"dive,required"`
}

var validate = validator.New()

func SetDefaults(v *viper.Viper) {
	v.SetDefault("output", DefaultOutput)
	v.SetDefault("jobs", runtime.NumCPU())
	v.SetDefault("no_header", false)
}

// New prepares a viper instance. configFile names an explicit config file;
// when empty, fusion.{toml,yaml,json} is looked up in dir.
func New(configFile, dir string) *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix("FUSION")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	for _, key := range Keys {
		_ = v.BindEnv(key)
	}
	SetDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("fusion")
		v.AddConfigPath(dir)
	}
	return v
}

// Load reads the config file, if any, and decodes and validates the
// result. A missing fusion.* file is not an error; a missing explicit file
// is.
func Load(v *viper.Viper) (*Config, error) {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, errors.Wrap(err, "read config")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "decode config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return errors.Wrap(err, "validate config")
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, describe(fe))
	}
	return errors.WithHint(
		errors.Newf("invalid configuration: %s", strings.Join(msgs, "; ")),
		"set the value in fusion.toml, a FUSION_* environment variable or a flag")
}

func describe(fe validator.FieldError) string {
	field := keyOf(fe.StructField())
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "min":
		return fmt.Sprintf("%s needs at least %s entries", field, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "lte":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	}
	return fmt.Sprintf("%s fails %s", field, fe.Tag())
}

// keyOf maps a struct field, possibly indexed, to its configuration key.
func keyOf(field string) string {
	name, index, _ := strings.Cut(field, "[")
	key := strings.ToLower(name[:1]) + name[1:]
	switch name {
	case "NoHeader":
		key = "no_header"
	case "EndpointAnnotations":
		key = "endpoint_annotations"
	case "NonNullAnnotations":
		key = "nonnull_annotations"
	}
	if index != "" {
		key += "[" + index
	}
	return key
}

// Roots classifies the configured classpath.
func (c *Config) Roots() []classpath.Root {
	return classpath.ParseAll(c.Classpath)
}

func (c *Config) TranslatorOptions() translator.Options {
	return translator.Options{
		EndpointAnnotations: c.EndpointAnnotations,
		NonNullAnnotations:  c.NonNullAnnotations,
	}
}

// HeaderFor returns the banner placed above the module generated from the
// class called source, or "" when headers are disabled.
func (c *Config) HeaderFor(source string) string {
	switch {
	case c.NoHeader:
		return ""
	case c.Header != "":
		return c.Header
	}
	return DefaultHeader(source)
}

func DefaultHeader(source string) string {
	return "/**\n" +
		" * This module is generated from " + source + ".\n" +
		" * All changes will be overwritten on the next generation.\n" +
		" */"
}
