// Package config loads application configuration from file and environment
// and initializes the global logger.
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
	Planner PlannerConfig `yaml:"planner" mapstructure:"planner"`
	Species SpeciesConfig `yaml:"species" mapstructure:"species"`
	Store   StoreConfig   `yaml:"store" mapstructure:"store"`
	Server  ServerConfig  `yaml:"server" mapstructure:"server"`
	Log     LogConfig     `yaml:"log" mapstructure:"log"`
}

// PlannerConfig tunes plan assembly.
type PlannerConfig struct {
	Count           int     `yaml:"count" mapstructure:"count"`
	RadiusDeg       float64 `yaml:"radius_deg" mapstructure:"radius_deg"`
	FootprintDeg    float64 `yaml:"footprint_deg" mapstructure:"footprint_deg"`
	MinPixelSpacing float64 `yaml:"min_pixel_spacing" mapstructure:"min_pixel_spacing"`
}

// SpeciesConfig points at an optional custom species tier table.
type SpeciesConfig struct {
	TablePath string `yaml:"table_path" mapstructure:"table_path"`
}

// StoreConfig configures the plan persistence backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	Path        string `yaml:"path" mapstructure:"path"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// ServerConfig configures the plan API server.
type ServerConfig struct {
	Port       int     `yaml:"port" mapstructure:"port"`
	RatePerSec float64 `yaml:"rate_per_sec" mapstructure:"rate_per_sec"`
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
	v.SetEnvPrefix("PLANTATION")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("planner.count", 100)
	v.SetDefault("planner.radius_deg", 0.01)
	v.SetDefault("planner.footprint_deg", 0.01)
	v.SetDefault("planner.min_pixel_spacing", 15)
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.path", "plantation.db")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.rate_per_sec", 5)
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
