package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

var ErrMissingEnvironmentVariables = errors.New("missing required environment variables")

// Config holds application configuration loaded from files and environment variables.
type Config struct {
	Env           string   `mapstructure:"env"`            // current application environment (local, dev, prod etc)
	HTTPAddr      string   `mapstructure:"http_addr"`      // address the API server listens on
	QuestionFiles []string `mapstructure:"question_files"` // static question sources, loaded in order
	DB            DB       `mapstructure:"database"`       // database configuration section
	Filter        Filter   `mapstructure:"filter"`         // question filter tuning
	Dedup         Dedup    `mapstructure:"dedup"`          // duplicate detection thresholds
	Loader        Loader   `mapstructure:"loader"`         // loader cache settings
}

// DB contains database-related configuration parameters. The database
// is an optional question source; when no URL is configured the app
// runs on the static files alone.
type DB struct {
	URL             string        `mapstructure:"-"`                 // database connection string loaded from environment
	MaxConnections  int           `mapstructure:"max_connections"`   // maximum number of open connections in the pool
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"` // maximum lifetime of a single connection
}

// Filter carries the filter service tuning knobs.
type Filter struct {
	ResultCacheSize   int `mapstructure:"result_cache_size"`
	CategoryMemoSize  int `mapstructure:"category_memo_size"`
	SampleStride      int `mapstructure:"sample_stride"`
	FallbackSampleCap int `mapstructure:"fallback_sample_cap"`
}

// Dedup carries the similarity thresholds. These are heuristic, so
// they live in configuration rather than code.
type Dedup struct {
	MinSimilarityLength int     `mapstructure:"min_similarity_length"`
	ContainmentRatio    float64 `mapstructure:"containment_ratio"`
}

// Loader carries the loader cache settings.
type Loader struct {
	CacheTTL time.Duration `mapstructure:"cache_ttl"`
}

// DSN returns the database connection string if it is configured.
func (db DB) DSN() (string, error) {
	if db.URL == "" {
		return "", ErrMissingEnvironmentVariables
	}
	return db.URL, nil
}

// Load reads configuration from config files and environment variables.
func Load() (*Config, error) {
	// Initialize Viper instance and base config options.
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")

	// Set default values for configuration keys.
	v.SetDefault("env", "local")
	v.SetDefault("http_addr", ":8080")
	v.SetDefault("question_files", []string{"assets/data/questions-core.json"})
	v.SetDefault("database.max_connections", 20)
	v.SetDefault("database.max_conn_lifetime", "30s")
	v.SetDefault("filter.result_cache_size", 25)
	v.SetDefault("filter.category_memo_size", 1000)
	v.SetDefault("filter.sample_stride", 3)
	v.SetDefault("filter.fallback_sample_cap", 20)
	v.SetDefault("dedup.min_similarity_length", 20)
	v.SetDefault("dedup.containment_ratio", 0.8)
	v.SetDefault("loader.cache_ttl", "5m")

	// Configure environment variable handling and key mapping.
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_")) // map nested keys to ENV style names
	v.AutomaticEnv()

	// Bind explicit environment variables to configuration keys.
	_ = v.BindEnv("database_url", "DATABASE_URL")
	_ = v.BindEnv("env", "APP_ENV")
	_ = v.BindEnv("http_addr", "HTTP_ADDR")

	// Try to read configuration file if present.
	if err := v.ReadInConfig(); err != nil {
		var fileLookupErr viper.ConfigFileNotFoundError
		if !errors.As(err, &fileLookupErr) {
			return nil, fmt.Errorf("error loading config file: %w", err)
		}
	}

	// Unmarshal configuration into strongly typed struct.
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	// The database is optional; an empty URL means file-only mode.
	cfg.DB.URL = v.GetString("database_url")

	return &cfg, nil
}
