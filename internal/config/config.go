package config

import (
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/sells-group/career-explorer/internal/apperr"
)

// Config holds the full application configuration.
type Config struct {
	Dataset DatasetConfig `yaml:"dataset" mapstructure:"dataset"`
	Mapping MappingConfig `yaml:"mapping" mapstructure:"mapping"`
	Server  ServerConfig  `yaml:"server" mapstructure:"server"`
	Export  ExportConfig  `yaml:"export" mapstructure:"export"`
	Fetch   FetchConfig   `yaml:"fetch" mapstructure:"fetch"`
	Log     LogConfig     `yaml:"log" mapstructure:"log"`
}

// DatasetConfig locates the occupation dataset.
type DatasetConfig struct {
	Path  string `yaml:"path" mapstructure:"path"`
	URL   string `yaml:"url" mapstructure:"url"`
	Sheet int    `yaml:"sheet" mapstructure:"sheet"`
}

// MappingConfig points at an override mapping document. Empty uses the
// embedded table.
type MappingConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Port           int      `yaml:"port" mapstructure:"port"`
	AllowedOrigins []string `yaml:"allowed_origins" mapstructure:"allowed_origins"`
}

// ExportConfig configures the export sinks.
type ExportConfig struct {
	SQLitePath  string `yaml:"sqlite_path" mapstructure:"sqlite_path"`
	XLSXPath    string `yaml:"xlsx_path" mapstructure:"xlsx_path"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// FetchConfig configures the dataset downloader.
type FetchConfig struct {
	TimeoutSecs int     `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	MaxRetries  int     `yaml:"max_retries" mapstructure:"max_retries"`
	RatePerSec  float64 `yaml:"rate_per_sec" mapstructure:"rate_per_sec"`
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
	v.SetEnvPrefix("EXPLORER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("dataset.path", "bls_occupations_all.csv")
	v.SetDefault("dataset.url", "")
	v.SetDefault("dataset.sheet", 0)
	v.SetDefault("mapping.path", "")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.allowed_origins", []string{"*"})
	v.SetDefault("export.sqlite_path", "career_explorer.db")
	v.SetDefault("export.xlsx_path", "career_explorer.xlsx")
	v.SetDefault("export.database_url", "")
	v.SetDefault("fetch.timeout_secs", 60)
	v.SetDefault("fetch.max_retries", 3)
	v.SetDefault("fetch.rate_per_sec", 2)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, apperr.Configuration(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, apperr.Configuration(err, "config: unmarshal")
	}

	return &cfg, nil
}

// Validate checks the settings a command mode depends on. Modes are
// "query", "serve", "export" and "fetch". All problems are reported at once.
func (c *Config) Validate(mode string) error {
	var errs []string

	if strings.TrimSpace(c.Dataset.Path) == "" {
		errs = append(errs, "dataset.path is required")
	}
	if c.Dataset.Sheet < 0 {
		errs = append(errs, "dataset.sheet must be >= 0")
	}

	switch mode {
	case "query":
	case "serve":
		if c.Server.Port <= 0 {
			errs = append(errs, fmt.Sprintf("server.port must be > 0, got %d", c.Server.Port))
		}
	case "export":
		if c.Export.SQLitePath == "" && c.Export.XLSXPath == "" && c.Export.DatabaseURL == "" {
			errs = append(errs, "export requires at least one of sqlite_path, xlsx_path or database_url")
		}
	case "fetch":
		if c.Dataset.URL == "" {
			errs = append(errs, "dataset.url is required")
		}
		if c.Fetch.MaxRetries < 0 {
			errs = append(errs, "fetch.max_retries must be >= 0")
		}
		if c.Fetch.RatePerSec <= 0 {
			errs = append(errs, "fetch.rate_per_sec must be > 0")
		}
	default:
		errs = append(errs, fmt.Sprintf("unknown mode %q", mode))
	}

	if len(errs) > 0 {
		return apperr.Configurationf("config: %s", strings.Join(errs, "; "))
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
