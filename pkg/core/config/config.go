// Package config loads service configuration from a YAML file, a .env file and
// the process environment, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

// DefaultPath is where Load looks for the YAML file when none is given.
const DefaultPath = "config/app.yaml"

// Config is the full service configuration.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Database   DatabaseConfig   `yaml:"database"`
	Redis      RedisConfig      `yaml:"redis"`
	Log        LogConfig        `yaml:"log"`
	MarketData MarketDataConfig `yaml:"market_data"`
	Presets    PresetConfig     `yaml:"presets"`
}

type ServerConfig struct {
	Addr         string        `yaml:"addr"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
	// AllowedOrigins feeds the CORS middleware. "*" allows any origin.
	AllowedOrigins []string `yaml:"allowed_origins"`
	// MaxBodyBytes caps request bodies on the valuation endpoints.
	MaxBodyBytes int64 `yaml:"max_body_bytes"`
}

// DatabaseConfig points at the PostgreSQL preset store. An empty URL selects
// the file-backed store in Presets.Dir.
type DatabaseConfig struct {
	URL string `yaml:"url"`
}

// RedisConfig configures the price-history cache. An empty Addr disables it.
type RedisConfig struct {
	Addr     string        `yaml:"addr"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	TTL      time.Duration `yaml:"ttl"`
}

type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json or console
}

type MarketDataConfig struct {
	BaseURL string        `yaml:"base_url"`
	Range   string        `yaml:"range"`
	Timeout time.Duration `yaml:"timeout"`
}

type PresetConfig struct {
	Dir string `yaml:"dir"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Addr:           ":8080",
			ReadTimeout:    15 * time.Second,
			WriteTimeout:   30 * time.Second,
			AllowedOrigins: []string{"*"},
			MaxBodyBytes:   1 << 20,
		},
		Redis: RedisConfig{TTL: 15 * time.Minute},
		Log:   LogConfig{Level: "info", Format: "json"},
		MarketData: MarketDataConfig{
			BaseURL: "https://query1.finance.yahoo.com",
			Range:   "6mo",
			Timeout: 10 * time.Second,
		},
		Presets: PresetConfig{Dir: "data/presets"},
	}
}

// Load reads the YAML file at path (DefaultPath when empty) over the defaults,
// loads .env if present, then applies environment overrides. A missing file
// is not an error.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		path = DefaultPath
	}

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	// .env is optional; real environment variables win over it.
	_ = godotenv.Load()

	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	str := map[string]*string{
		"ADDR":            &c.Server.Addr,
		"DATABASE_URL":    &c.Database.URL,
		"REDIS_ADDR":      &c.Redis.Addr,
		"REDIS_PASSWORD":  &c.Redis.Password,
		"LOG_LEVEL":       &c.Log.Level,
		"LOG_FORMAT":      &c.Log.Format,
		"MARKET_DATA_URL": &c.MarketData.BaseURL,
		"PRESETS_DIR":     &c.Presets.Dir,
	}
	for key, dst := range str {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}

	if v, ok := lookup("REDIS_TTL"); ok && v != "" {
		ttl, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("REDIS_TTL: %w", err)
		}
		c.Redis.TTL = ttl
	}
	if v, ok := lookup("REDIS_DB"); ok && v != "" {
		db, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("REDIS_DB: %w", err)
		}
		c.Redis.DB = db
	}
	return nil
}
