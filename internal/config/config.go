// Package config loads the examprep configuration from flags, a YAML file
// and the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"

	"github.com/conorfennell/examprep/internal/srs"
)

// EnvPrefix prefixes every environment variable read, e.g. EXAMPREP_ADDR.
const EnvPrefix = "EXAMPREP_"

// Config is the complete runtime configuration.
type Config struct {
	Addr         string `koanf:"addr" validate:"required"`
	DBPath       string `koanf:"db" validate:"required"`
	StudySet     string `koanf:"studyset" validate:"required"`
	ReposDir     string `koanf:"repos_dir" validate:"required"`
	StorageKey   string `koanf:"storage_key" validate:"required"`
	HistoryLimit int    `koanf:"history_limit" validate:"min=1"`
	LogLevel     string `koanf:"log_level" validate:"oneof=debug info warn error"`
	LogFormat    string `koanf:"log_format" validate:"oneof=text json"`

	// Clear erases the stored review data and exits.
	Clear bool `koanf:"clear"`
	// NoSync skips reconciling the study set on start-up.
	NoSync bool `koanf:"no_sync"`
}

// Flags returns the flag set Load reads. Flag defaults are the
// configuration defaults.
func Flags() *pflag.FlagSet {
	f := pflag.NewFlagSet("examprep", pflag.ContinueOnError)
	f.String("config", "", "Path to a YAML configuration file")
	f.String("addr", ":8080", "Address the practice API listens on")
	f.String("db", "examprep.db", "Path to the SQLite database file")
	f.String("studyset", ".", "Study-set directory or git URL")
	f.String("repos-dir", "repos", "Directory git study sets are checked out into")
	f.String("storage-key", srs.DefaultKey, "Slot the review data is stored under")
	f.Int("history-limit", srs.DefaultHistoryLimit, "Number of review history entries kept")
	f.String("log-level", "info", "Log level: debug, info, warn or error")
	f.String("log-format", "text", "Log format: text or json")
	f.Bool("clear", false, "Erase all review data and exit")
	f.Bool("no-sync", false, "Do not reconcile the study set on start-up")
	return f
}

func flagKey(name string) string {
	return strings.ReplaceAll(name, "-", "_")
}

func envKey(s string) string {
	return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
}

// Load parses args and builds the configuration. Precedence, lowest first:
// flag defaults, the YAML file named by --config, EXAMPREP_* environment
// variables, flags given on the command line.
func Load(args []string) (*Config, error) {
	f := Flags()
	if err := f.Parse(args); err != nil {
		return nil, fmt.Errorf("config: parse flags: %w", err)
	}

	k := koanf.New(".")

	if path, _ := f.GetString("config"); path != "" {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("config: file %s: %w", path, err)
		}
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("config: read env: %w", err)
	}

	// Unchanged flags only fill keys no earlier source set.
	flags := posflag.ProviderWithFlag(f, ".", k, func(fl *pflag.Flag) (string, interface{}) {
		return flagKey(fl.Name), posflag.FlagVal(f, fl)
	})
	if err := k.Load(flags, nil); err != nil {
		return nil, fmt.Errorf("config: read flags: %w", err)
	}

	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validate: %w", err)
	}
	return &cfg, nil
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks every field against its constraints and reports all
// violations at once.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}
	errs := make([]error, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		errs = append(errs, fmt.Errorf("%s: failed %q (value %v)", fe.Field(), fe.Tag(), fe.Value()))
	}
	return errors.Join(errs...)
}
