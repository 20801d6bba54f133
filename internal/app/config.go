package app

import (
	"os"
	"time"

	"github.com/cristalhq/aconfig"
	"github.com/cristalhq/aconfig/aconfigyaml"
	"github.com/go-faster/errors"
)

// Config holds the complete application configuration, loadable from
// environment variables (CLINIC_ prefix), flags, or YAML config files.
type Config struct {
	Addr       string `default:"0.0.0.0:8080" usage:"API server listen address"`
	BackendURL string `usage:"Clinic backend base URL (CLINIC_BACKEND_URL or BACKEND_URL)" flag:"backend-url"`
	Catalog    CatalogConfig
	Session    SessionConfig
	RateLimit  RateLimitConfig
	CORS       CORSConfig
	Graceful   GracefulConfig
}

// CatalogConfig selects where promotion bundles are loaded from and how
// long a loaded catalog stays fresh.
type CatalogConfig struct {
	Mode         string        `default:"http" usage:"Catalog source: http (backend API), postgres, or file"`
	TTL          time.Duration `default:"5m" usage:"Catalog cache TTL"`
	DatabaseURL  string        `usage:"PostgreSQL connection URL for the postgres catalog source" flag:"database-url"`
	SnapshotPath string        `usage:"Path to a catalog snapshot for the file catalog source" flag:"snapshot-path"`
}

// SessionConfig controls session cart lifetime.
type SessionConfig struct {
	TTL           time.Duration `default:"2h" usage:"Idle session lifetime"`
	SweepInterval time.Duration `default:"5m" usage:"How often idle sessions are evicted"`
}

// RateLimitConfig controls the per-client token bucket rate limiter.
type RateLimitConfig struct {
	RPS   float64 `default:"20" usage:"Sustained requests per second per client"`
	Burst int     `default:"40" usage:"Burst size per client"`
}

// CORSConfig controls Cross-Origin Resource Sharing headers.
type CORSConfig struct {
	Origins []string `default:"*" usage:"Allowed CORS origins"`
}

// GracefulConfig controls graceful shutdown timing.
type GracefulConfig struct {
	ReadinessDelay  time.Duration `default:"3s"  usage:"Delay after readiness=false before shutdown" flag:"readiness-delay"`
	ShutdownTimeout time.Duration `default:"15s" usage:"Maximum shutdown duration" flag:"shutdown-timeout"`
}

// LoadConfig loads configuration from environment variables, YAML config
// files, and applies platform-specific defaults.
func LoadConfig() (*Config, error) {
	return loadConfig(os.Args[1:])
}

func loadConfig(args []string) (*Config, error) {
	if args == nil {
		// aconfig falls back to os.Args[1:] when Args is nil; nil here
		// must mean "no arguments" so flags like -test.* never leak in.
		args = []string{}
	}
	var cfg Config
	loader := aconfig.LoaderFor(&cfg, aconfig.Config{
		EnvPrefix: "CLINIC",
		Args:      args,
		Files:     []string{"config.yaml", "/etc/clinic/config.yaml"},
		FileDecoders: map[string]aconfig.FileDecoder{
			".yaml": aconfigyaml.New(),
		},
	})
	if err := loader.Load(); err != nil {
		return nil, errors.Wrap(err, "load config")
	}
	cfg.applyPlatformDefaults()

	if cfg.BackendURL == "" {
		return nil, errors.New("backend URL is required: set CLINIC_BACKEND_URL or BACKEND_URL")
	}

	switch cfg.Catalog.Mode {
	case "http":
	case "postgres":
		if cfg.Catalog.DatabaseURL == "" {
			return nil, errors.New("catalog mode postgres requires CLINIC_CATALOG_DATABASE_URL or DATABASE_URL")
		}
	case "file":
		if cfg.Catalog.SnapshotPath == "" {
			return nil, errors.New("catalog mode file requires CLINIC_CATALOG_SNAPSHOT_PATH")
		}
	default:
		return nil, errors.Errorf("unknown catalog mode %q", cfg.Catalog.Mode)
	}

	return &cfg, nil
}

// applyPlatformDefaults maps platform-provided environment variables
// (Railway, Render, etc.) that use standard names like PORT and
// DATABASE_URL to the application's CLINIC_-prefixed configuration.
func (c *Config) applyPlatformDefaults() {
	if c.BackendURL == "" {
		if v := os.Getenv("BACKEND_URL"); v != "" {
			c.BackendURL = v
		}
	}
	if c.Catalog.DatabaseURL == "" {
		if v := os.Getenv("DATABASE_URL"); v != "" {
			c.Catalog.DatabaseURL = v
		}
	}
	if port := os.Getenv("PORT"); port != "" && c.Addr == "0.0.0.0:8080" {
		c.Addr = "0.0.0.0:" + port
	}
}
