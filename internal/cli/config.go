package cli

import (
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/toyz/loom/internal/errors"
)

// ConfigFileName is the base name of the project configuration file. Any
// extension viper understands is accepted, loom.yaml and loom.toml being the
// documented ones.
const ConfigFileName = "loom"

// EnvPrefix prefixes environment overrides, for example LOOM_VERBOSITY=debug
const EnvPrefix = "LOOM"

// Config holds the configuration for the generator
type Config struct {
	// Directories to scan; a trailing /... is accepted and scanning is always recursive
	Directories []string `mapstructure:"directories" yaml:"directories" toml:"directories" validate:"min=1,dive,required"`

	// Verbosity is one of silent, error, warn, info, verbose, debug
	Verbosity string `mapstructure:"verbosity" yaml:"verbosity" toml:"verbosity" validate:"oneof=silent error warn info verbose debug"`

	// Color enables colored diagnostics
	Color bool `mapstructure:"color" yaml:"color" toml:"color"`

	// DryRun reports the files that would be written without touching disk
	DryRun bool `mapstructure:"dry_run" yaml:"dry_run" toml:"dry_run"`

	// PruneStale removes generated creators no controller produces anymore
	PruneStale bool `mapstructure:"prune_stale" yaml:"prune_stale" toml:"prune_stale"`
}

// DefaultConfig returns the configuration used when nothing is set
func DefaultConfig() Config {
	return Config{
		Directories: []string{"./..."},
		Verbosity:   "info",
		Color:       true,
		PruneStale:  true,
	}
}

// LoadOptions controls where configuration is read from
type LoadOptions struct {
	// ConfigFile is an explicit file; when empty loom.* is searched in SearchDir
	ConfigFile string
	SearchDir  string

	// Command supplies flags bound to config keys through FlagKeys
	Command  *cobra.Command
	FlagKeys map[string]string // config key -> flag name

	// Directories from positional arguments override the configured ones
	Directories []string
}

// LoadConfig merges defaults, the config file, LOOM_* environment variables
// and flags, in increasing precedence, and validates the result. It returns
// the config file used, if any.
func LoadConfig(opts LoadOptions) (*Config, string, error) {
	v := viper.New()

	defaults := DefaultConfig()
	v.SetDefault("directories", defaults.Directories)
	v.SetDefault("verbosity", defaults.Verbosity)
	v.SetDefault("color", defaults.Color)
	v.SetDefault("dry_run", defaults.DryRun)
	v.SetDefault("prune_stale", defaults.PruneStale)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
	} else {
		searchDir := opts.SearchDir
		if searchDir == "" {
			searchDir = "."
		}
		v.SetConfigName(ConfigFileName)
		v.AddConfigPath(searchDir)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if opts.ConfigFile != "" || !stderrors.As(err, &notFound) {
			return nil, "", errors.WrapConfigurationError(describeSource(opts), "read", err)
		}
	}

	if opts.Command != nil {
		for key, name := range opts.FlagKeys {
			flag := opts.Command.Flags().Lookup(name)
			if flag == nil {
				return nil, "", errors.WrapConfigurationError(key, "bind",
					fmt.Errorf("flag --%s is not defined", name))
			}
			if err := v.BindPFlag(key, flag); err != nil {
				return nil, "", errors.WrapConfigurationError(key, "bind", err)
			}
		}
	}
	if len(opts.Directories) > 0 {
		v.Set("directories", opts.Directories)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, "", errors.WrapConfigurationError(describeSource(opts), "parse", err)
	}
	if err := ValidateConfig(&cfg); err != nil {
		return nil, "", err
	}

	return &cfg, v.ConfigFileUsed(), nil
}

// ValidateConfig checks cfg against its validate tags
func ValidateConfig(cfg *Config) error {
	if err := validator.New().Struct(cfg); err != nil {
		var fieldErrs validator.ValidationErrors
		if stderrors.As(err, &fieldErrs) {
			details := make([]string, len(fieldErrs))
			for i, fe := range fieldErrs {
				details[i] = fmt.Sprintf("%s failed %s", fe.Namespace(), fe.Tag())
			}
			err = fmt.Errorf("%s", strings.Join(details, "; "))
		}
		return errors.WrapConfigurationError("loom", "validate", err).
			WithSuggestion("verbosity must be one of silent, error, warn, info, verbose, debug")
	}
	return nil
}

// MarshalConfig renders cfg as yaml or toml
func MarshalConfig(cfg *Config, format string) ([]byte, error) {
	switch strings.ToLower(format) {
	case "yaml", "yml":
		return yaml.Marshal(cfg)
	case "toml":
		return toml.Marshal(cfg)
	default:
		return nil, errors.WrapConfigurationError(format, "render",
			fmt.Errorf("unsupported format %q, expected yaml or toml", format))
	}
}

func describeSource(opts LoadOptions) string {
	if opts.ConfigFile != "" {
		return opts.ConfigFile
	}
	return ConfigFileName
}
