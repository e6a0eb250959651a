// Package config loads settings for the command-line tools from defaults, an
// optional YAML file and DSHELP_* environment variables, in that order.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"github.com/dmerty/ds-help-utils/pkg/logging"
	"github.com/dmerty/ds-help-utils/pkg/validation"
)

const (
	// EnvPrefix prefixes every environment override, e.g. DSHELP_CORR__THRESHOLD.
	EnvPrefix = "DSHELP_"
	// PathEnvVar names a config file when no path is passed to Load.
	PathEnvVar = "DSHELP_CONFIG"
)

type Config struct {
	Log  logging.Config `koanf:"log"`
	Corr CorrConfig     `koanf:"corr"`
	Rank RankConfig     `koanf:"rank"`
}

// CorrConfig drives corrsel.
type CorrConfig struct {
	Threshold float64 `koanf:"threshold" validate:"gte=0,lte=1"`
	Method    string  `koanf:"method" validate:"oneof=pearson kendall spearman"`
	Scale     bool    `koanf:"scale"`
}

// RankConfig drives rankeval. K = 0 evaluates at the full list length.
type RankConfig struct {
	K           int    `koanf:"k" validate:"gte=0"`
	LabelColumn string `koanf:"label_column" validate:"required"`
	ScoreColumn string `koanf:"score_column" validate:"required"`
	Curve       bool   `koanf:"curve"`
	Plot        string `koanf:"plot"`
}

func defaultConfig() *Config {
	return &Config{
		Log: logging.Config{
			Level:  "info",
			Format: "console",
		},
		Corr: CorrConfig{
			Threshold: 0.9,
			Method:    "pearson",
		},
		Rank: RankConfig{
			K:           0,
			LabelColumn: "label",
			ScoreColumn: "score",
		},
	}
}

// Load builds the configuration. path may be empty, in which case
// $DSHELP_CONFIG is used if set.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path == "" {
		path = os.Getenv(PathEnvVar)
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks every section.
func (c *Config) Validate() error {
	if err := validation.Struct(c); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}
	return nil
}

// envKey maps DSHELP_RANK__LABEL_COLUMN to rank.label_column.
func envKey(s string) string {
	if s == PathEnvVar {
		return ""
	}
	key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.ReplaceAll(key, "__", ".")
}
