// Package config loads stcall settings from defaults, an optional TOML
// file, STCALL_* environment variables and command-line flags, in rising
// precedence.
package config

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"stcall/internal/blast"
	"stcall/internal/catalog"
	"stcall/internal/errors"
	"stcall/internal/matcher"
	"stcall/internal/output"
)

const (
	EnvPrefix = "STCALL"
	FileName  = "stcall" // stcall.toml
)

// Config is the effective run configuration.
type Config struct {
	Catalog          string   `mapstructure:"catalog" toml:"catalog" yaml:"catalog"`
	MinLength        int      `mapstructure:"min_length" toml:"min_length" yaml:"min_length"`
	MinIdentity      float64  `mapstructure:"min_identity" toml:"min_identity" yaml:"min_identity"`
	ReportEnabled    bool     `mapstructure:"report_enabled" toml:"report_enabled" yaml:"report_enabled"`
	Output           string   `mapstructure:"output" toml:"output" yaml:"output"`
	Threads          int      `mapstructure:"threads" toml:"threads" yaml:"threads"`
	LocusPolicy      string   `mapstructure:"locus_policy" toml:"locus_policy" yaml:"locus_policy"`
	MaxCombinations  int      `mapstructure:"max_combinations" toml:"max_combinations" yaml:"max_combinations"`
	CacheSize        int      `mapstructure:"cache_size" toml:"cache_size" yaml:"cache_size"`
	HitTable         string   `mapstructure:"hit_table" toml:"hit_table" yaml:"hit_table"`
	DB               string   `mapstructure:"db" toml:"db" yaml:"db"`
	LogJSON          bool     `mapstructure:"log_json" toml:"log_json" yaml:"log_json"`
	Quiet            bool     `mapstructure:"quiet" toml:"quiet" yaml:"quiet"`
	Verbose          int      `mapstructure:"verbose" toml:"verbose" yaml:"verbose"`
	NoMatchExitCode  int      `mapstructure:"no_match_exit_code" toml:"no_match_exit_code" yaml:"no_match_exit_code"`
	NonAlleleColumns []string `mapstructure:"non_allele_columns" toml:"non_allele_columns" yaml:"non_allele_columns"`
}

// SetDefaults configures default values for all configuration options.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("catalog", "")
	v.SetDefault("min_length", blast.DefaultMinLength)
	v.SetDefault("min_identity", blast.DefaultMinIdentity)
	v.SetDefault("report_enabled", true)
	v.SetDefault("output", output.FormatCSV)
	v.SetDefault("threads", 0) // all CPUs
	v.SetDefault("locus_policy", string(matcher.PolicyEnumerate))
	v.SetDefault("max_combinations", matcher.DefaultMaxCombinations)
	v.SetDefault("cache_size", matcher.DefaultCacheSize)
	v.SetDefault("hit_table", "")
	v.SetDefault("db", "")
	v.SetDefault("log_json", false)
	v.SetDefault("quiet", false)
	v.SetDefault("verbose", 0)
	v.SetDefault("no_match_exit_code", 1)
	v.SetDefault("non_allele_columns", catalog.DefaultNonAlleleColumns())
}

// New returns a viper instance with defaults and env binding. configFile
// names an explicit file; empty searches ./stcall.toml then
// $HOME/.stcall/stcall.toml. A missing searched file is not an error.
func New(configFile string) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	SetDefaults(v)

	v.SetConfigType("toml")
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName(FileName)
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".stcall"))
		}
	}
	if err := v.ReadInConfig(); err != nil {
		var nf viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &nf) {
			return nil, errors.Wrapf(err, "read config %s", configFile)
		}
	}
	return v, nil
}

// flagKeys maps command-line flag names to config keys.
var flagKeys = map[string]string{
	"catalog":          "catalog",
	"min-length":       "min_length",
	"min-identity":     "min_identity",
	"no-report":        "report_enabled",
	"output":           "output",
	"threads":          "threads",
	"locus-policy":     "locus_policy",
	"max-combinations": "max_combinations",
	"cache-size":       "cache_size",
	"hit-table":        "hit_table",
	"db":               "db",
	"log-json":         "log_json",
	"quiet":            "quiet",
	"verbose":          "verbose",
	"no-match-exit":    "no_match_exit_code",
	"non-allele":       "non_allele_columns",
}

// BindFlags binds the flags present in fs to their config keys. Only flags
// the user set override file and env values.
func BindFlags(v *viper.Viper, fs *pflag.FlagSet) error {
	for name, key := range flagKeys {
		f := fs.Lookup(name)
		if f == nil {
			continue
		}
		if name == "no-report" {
			// inverted switch
			if f.Changed {
				v.Set(key, false)
			}
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return errors.Wrapf(err, "bind flag --%s", name)
		}
	}
	return nil
}

// Load unmarshals and validates the effective configuration.
func Load(v *viper.Viper) (*Config, error) {
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, errors.Wrap(err, "unmarshal config")
	}
	c.Output = strings.ToLower(strings.TrimSpace(c.Output))
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate checks ranges and enumerations.
func (c *Config) Validate() error {
	if c.MinLength < 0 {
		return errors.Newf("min_length must be >= 0, got %d", c.MinLength)
	}
	if c.MinIdentity < 0 || c.MinIdentity > 100 {
		return errors.Newf("min_identity must be within 0..100, got %g", c.MinIdentity)
	}
	if !output.ValidFormat(c.Output) {
		return errors.WithHintf(errors.Newf("unknown output format %q", c.Output),
			"use one of %s", strings.Join(output.Formats(), ", "))
	}
	if c.Threads < 0 {
		return errors.Newf("threads must be >= 0, got %d", c.Threads)
	}
	if _, err := matcher.ParsePolicy(c.LocusPolicy); err != nil {
		return err
	}
	if c.MaxCombinations <= 0 {
		return errors.Newf("max_combinations must be > 0, got %d", c.MaxCombinations)
	}
	if c.CacheSize < 0 {
		return errors.Newf("cache_size must be >= 0, got %d", c.CacheSize)
	}
	if c.NoMatchExitCode < 0 || c.NoMatchExitCode > 125 {
		return errors.Newf("no_match_exit_code must be within 0..125, got %d", c.NoMatchExitCode)
	}
	return nil
}

func (c *Config) Thresholds() blast.Thresholds {
	return blast.Thresholds{MinLength: c.MinLength, MinIdentity: c.MinIdentity}
}

func (c *Config) CatalogOptions() catalog.Options {
	return catalog.Options{NonAlleleColumns: c.NonAlleleColumns}
}

// MatcherOptions assumes c passed Validate.
func (c *Config) MatcherOptions() matcher.Options {
	p, _ := matcher.ParsePolicy(c.LocusPolicy)
	return matcher.Options{Policy: p, MaxCombinations: c.MaxCombinations, CacheSize: c.CacheSize}
}

// Defaults is the configuration with nothing but defaults applied.
func Defaults() *Config {
	v := viper.New()
	SetDefaults(v)
	c, _ := Load(v)
	return c
}

// WriteTOML encodes c as a stcall.toml document.
func WriteTOML(w io.Writer, c *Config) error {
	return errors.Wrap(toml.NewEncoder(w).Encode(c), "encode toml")
}

// WriteYAML prints c for inspection.
func WriteYAML(w io.Writer, c *Config) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return errors.Wrap(err, "encode yaml")
	}
	return enc.Close()
}
