package config

import (
	"fmt"
	"time"

	commoncfg "owl-care/owl-common/config"
)

const (
	GeoSourceStatic   = "static"
	GeoSourcePostgres = "postgres"
)

// Config owl-greeter (HTTP API)
type Config struct {
	HTTP struct {
		Addr string
	}
	Geo struct {
		Source string // static | postgres
		Cache  struct {
			Enabled bool
			TTL     time.Duration
		}
	}
	Database commoncfg.DatabaseConfig
	Redis    commoncfg.RedisConfig
	Log      struct {
		Level  string
		Format string
	}
}

// Load reads the environment (after .env preload in main) and validates the result
func Load() (*Config, error) {
	cfg := &Config{}
	cfg.HTTP.Addr = commoncfg.GetEnv("HTTP_ADDR", ":8081")

	cfg.Geo.Source = commoncfg.GetEnv("GEO_SOURCE", GeoSourceStatic)
	cfg.Geo.Cache.Enabled = commoncfg.GetEnvBool("GEO_CACHE_ENABLED", false)
	cfg.Geo.Cache.TTL = time.Duration(commoncfg.GetEnvInt("GEO_CACHE_TTL", 300)) * time.Second

	cfg.Database = commoncfg.DatabaseConfig{
		Host:     "localhost",
		Port:     5432,
		User:     "postgres",
		Password: "postgres",
		Database: "owlcare",
		SSLMode:  "disable",
	}
	cfg.Database.LoadFromEnv("DB")

	cfg.Redis = commoncfg.RedisConfig{Addr: "localhost:6379"}
	cfg.Redis.LoadFromEnv("REDIS")

	cfg.Log.Level = commoncfg.GetEnv("LOG_LEVEL", "info")
	cfg.Log.Format = commoncfg.GetEnv("LOG_FORMAT", "json")

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects unknown geo sources and non-positive cache TTLs
func (c *Config) Validate() error {
	switch c.Geo.Source {
	case GeoSourceStatic, GeoSourcePostgres:
	default:
		return fmt.Errorf("unknown GEO_SOURCE %q", c.Geo.Source)
	}
	if c.Geo.Cache.Enabled && c.Geo.Cache.TTL <= 0 {
		return fmt.Errorf("GEO_CACHE_TTL must be positive")
	}
	return nil
}
