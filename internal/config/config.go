package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/user/gbench/internal/logger"
	"github.com/user/gbench/internal/output"
	"github.com/user/gbench/internal/runner"
)

const EnvPrefix = "GBENCH"

type Config struct {
	Runner    runner.Config
	Format    string
	Output    string
	LogLevel  string
	Port      string
	QueueSize int
}

// New returns a viper instance carrying the defaults and reading GBENCH_*
// environment variables. Flags bound with BindFlags take precedence over
// both, a config file read by Load sits between them.
func New() *viper.Viper {
	v := viper.New()

	d := runner.DefaultConfig()
	v.SetDefault("workloads", d.Workloads)
	v.SetDefault("measures", d.Measures)
	v.SetDefault("min_time", d.MinTime)
	v.SetDefault("growth", d.Growth)
	v.SetDefault("growth_step", d.GrowthStep)
	v.SetDefault("growth_factor", d.GrowthFactor)
	v.SetDefault("progress", true)
	v.SetDefault("verbose", false)
	v.SetDefault("format", "table")
	v.SetDefault("output", "")
	v.SetDefault("log_level", "info")
	v.SetDefault("port", "8080")
	v.SetDefault("queue_size", 16)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	return v
}

// BindFlags binds every flag in flags to the key of the same name with
// dashes turned into underscores.
func BindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	var errs []error
	flags.VisitAll(func(f *pflag.Flag) {
		if f.Name == "config" || f.Name == "help" {
			return
		}
		key := strings.ReplaceAll(f.Name, "-", "_")
		if err := v.BindPFlag(key, f); err != nil {
			errs = append(errs, fmt.Errorf("binding flag %s: %w", f.Name, err))
		}
	})
	return errors.Join(errs...)
}

// Load reads cfgFile, or gbench.yaml from the working directory when cfgFile
// is empty, and resolves the final configuration. A missing default file is
// not an error; a missing explicit one is.
func Load(v *viper.Viper, cfgFile string) (*Config, error) {
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("gbench")
		v.SetConfigType("yaml")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	return &Config{
		Runner: runner.Config{
			Workloads:    stringList(v, "workloads"),
			Measures:     stringList(v, "measures"),
			MinTime:      v.GetDuration("min_time"),
			Growth:       v.GetString("growth"),
			GrowthStep:   v.GetInt("growth_step"),
			GrowthFactor: v.GetInt("growth_factor"),
			ShowProgress: v.GetBool("progress"),
			Verbose:      v.GetBool("verbose"),
		},
		Format:    v.GetString("format"),
		Output:    v.GetString("output"),
		LogLevel:  v.GetString("log_level"),
		Port:      v.GetString("port"),
		QueueSize: v.GetInt("queue_size"),
	}, nil
}

// stringList accepts both YAML lists and comma separated strings, as
// environment variables only carry the latter.
func stringList(v *viper.Viper, key string) []string {
	var out []string
	for _, item := range v.GetStringSlice(key) {
		for _, part := range strings.Split(item, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func (c *Config) Validate() error {
	var errs []error
	if err := c.Runner.Validate(); err != nil {
		errs = append(errs, err)
	}
	if _, err := output.NewFormatter(c.Format); err != nil {
		errs = append(errs, err)
	}
	if _, err := logger.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	if c.QueueSize < 1 {
		errs = append(errs, fmt.Errorf("queue size must be positive, got %d", c.QueueSize))
	}
	return errors.Join(errs...)
}
