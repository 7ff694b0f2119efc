// Package config loads application configuration from config.yaml and
// CAUSALPREP_* environment variables, and initializes the global logger.
package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Datasets DatasetsConfig `yaml:"datasets" mapstructure:"datasets"`
	Features FeaturesConfig `yaml:"features" mapstructure:"features"`
	Split    SplitConfig    `yaml:"split" mapstructure:"split"`
	Store    StoreConfig    `yaml:"store" mapstructure:"store"`
	Log      LogConfig      `yaml:"log" mapstructure:"log"`
}

// DatasetsConfig names the raw input file and the processed output files.
type DatasetsConfig struct {
	Raw       string          `yaml:"raw" mapstructure:"raw"`
	Processed ProcessedConfig `yaml:"processed" mapstructure:"processed"`
}

// ProcessedConfig holds the three partition output paths.
type ProcessedConfig struct {
	Train string `yaml:"train" mapstructure:"train"`
	Valid string `yaml:"valid" mapstructure:"valid"`
	Test  string `yaml:"test" mapstructure:"test"`
}

// FeaturesConfig names the dataset columns the pipeline operates on.
// The core consumes only these fields; it never sees file paths.
type FeaturesConfig struct {
	AgeCol          string   `yaml:"age_col" mapstructure:"age_col"`
	CitizenCol      string   `yaml:"citizen_col" mapstructure:"citizen_col"`
	CostCol         string   `yaml:"cost_col" mapstructure:"cost_col"`
	HourCol         string   `yaml:"hour_col" mapstructure:"hour_col"`
	GainCol         string   `yaml:"gain_col" mapstructure:"gain_col"`
	BinaryCols      []string `yaml:"binary_cols" mapstructure:"binary_cols"`
	CategoricalCols []string `yaml:"categorical_cols" mapstructure:"categorical_cols"`
}

// SplitConfig configures the stratified splitter.
type SplitConfig struct {
	Seed int64 `yaml:"seed" mapstructure:"seed"`
}

// StoreConfig configures the run-history database.
type StoreConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("CAUSALPREP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("datasets.processed.train", "data/processed/train.csv")
	v.SetDefault("datasets.processed.valid", "data/processed/valid.csv")
	v.SetDefault("datasets.processed.test", "data/processed/test.csv")
	v.SetDefault("split.seed", 42)
	v.SetDefault("store.path", "causalprep.db")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// ValidateFeatures checks that every column-name field the pipeline needs
// is configured.
func (c *Config) ValidateFeatures() error {
	required := []struct {
		key string
		val string
	}{
		{"features.age_col", c.Features.AgeCol},
		{"features.citizen_col", c.Features.CitizenCol},
		{"features.cost_col", c.Features.CostCol},
		{"features.hour_col", c.Features.HourCol},
		{"features.gain_col", c.Features.GainCol},
	}
	for _, r := range required {
		if r.val == "" {
			return eris.Errorf("config: %s is required", r.key)
		}
	}
	return nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
