// Package config loads tickdiff settings from defaults, a YAML config file,
// .env files, TICKDIFF_* environment variables and bound command flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"

	"github.com/nconklindev/tickdiff/internal/reconciler"
	"github.com/nconklindev/tickdiff/internal/schema"
	"github.com/nconklindev/tickdiff/internal/types"
)

const (
	EnvPrefix  = "TICKDIFF"
	ConfigName = "tickdiff"

	SourceRest = "rest"
	SourcePSQL = "psql"
)

// Source is one raw export and where its normalized rows go.
type Source struct {
	Input  string `mapstructure:"input"`
	Output string `mapstructure:"output"`
	Schema string `mapstructure:"schema"`
}

type ReconcileConfig struct {
	Left      string             `mapstructure:"left"`
	Right     string             `mapstructure:"right"`
	OutputDir string             `mapstructure:"output_dir"`
	Workbook  string             `mapstructure:"workbook"`
	Pairs     []types.ColumnPair `mapstructure:"pairs"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

type Config struct {
	Stride      int               `mapstructure:"stride"`
	Tolerance   string            `mapstructure:"tolerance"`
	Header      bool              `mapstructure:"header"`
	SchemasFile string            `mapstructure:"schemas_file"`
	Sources     map[string]Source `mapstructure:"sources"`
	Reconcile   ReconcileConfig   `mapstructure:"reconcile"`
	Log         LogConfig         `mapstructure:"log"`

	// ConfigFile is the config file that was read, if any.
	ConfigFile string `mapstructure:"-"`
}

// SetDefaults registers every default on v. The defaults reproduce the
// paths and settings of the original download tooling.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("stride", 100)
	v.SetDefault("tolerance", reconciler.DefaultTolerance.String())
	v.SetDefault("header", false)
	v.SetDefault("schemas_file", "")

	v.SetDefault("sources.rest.input", "raw/data.csv")
	v.SetDefault("sources.rest.output", "raw/cols.csv")
	v.SetDefault("sources.rest.schema", schema.RestSchema)
	v.SetDefault("sources.psql.input", "raw/ibm.csv")
	v.SetDefault("sources.psql.output", "raw/cols2.csv")
	v.SetDefault("sources.psql.schema", schema.PSQLSchema)

	v.SetDefault("reconcile.left", "raw/cols.csv")
	v.SetDefault("reconcile.right", "raw/cols2.csv")
	v.SetDefault("reconcile.output_dir", "raw")
	v.SetDefault("reconcile.workbook", "")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "auto")
	v.SetDefault("log.output", "stderr")
}

// Load reads configuration into a Config. An explicit configFile must
// exist; otherwise tickdiff.yaml is searched in the working directory and
// the home directory and skipped when absent.
func Load(v *viper.Viper, configFile string) (*Config, error) {
	loadEnvFiles()

	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", configFile, err)
		}
	} else {
		v.SetConfigName(ConfigName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.ConfigFile = v.ConfigFileUsed()

	if len(cfg.Reconcile.Pairs) == 0 {
		cfg.Reconcile.Pairs = reconciler.DefaultPairs()
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values that would otherwise fail deep inside a run.
func (c *Config) Validate() error {
	tol, err := c.ToleranceValue()
	if err != nil {
		return err
	}
	if tol.IsNegative() {
		return fmt.Errorf("tolerance %s is negative", c.Tolerance)
	}

	seen := make(map[string]bool)
	for i, p := range c.Reconcile.Pairs {
		if p.Name == "" {
			return fmt.Errorf("reconcile pair %d has no name", i)
		}
		if seen[p.Name] {
			return fmt.Errorf("reconcile pair %q listed twice", p.Name)
		}
		seen[p.Name] = true
		if p.Mode != types.CompareNumeric && p.Mode != types.CompareString {
			return fmt.Errorf("reconcile pair %q: mode %q is not %q or %q", p.Name, p.Mode, types.CompareNumeric, types.CompareString)
		}
	}
	return nil
}

func (c *Config) ToleranceValue() (decimal.Decimal, error) {
	tol, err := decimal.NewFromString(strings.TrimSpace(c.Tolerance))
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid tolerance %q: %w", c.Tolerance, err)
	}
	return tol, nil
}

// Source returns the named source.
func (c *Config) Source(name string) (Source, error) {
	src, ok := c.Sources[name]
	if !ok {
		return Source{}, fmt.Errorf("source %q is not configured", name)
	}
	return src, nil
}

// loadEnvFiles loads .env then .env.local; variables already set win.
func loadEnvFiles() {
	for _, envFile := range []string{".env", ".env.local"} {
		_ = godotenv.Load(envFile)
	}
}
