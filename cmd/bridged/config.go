package main

import (
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/fastspringexamples/accountbridge/internal/core"
	"github.com/fastspringexamples/accountbridge/internal/storage"
)

// Demo storefront credentials. They point at the public fastspringexamples
// store; real deployments must override them via config or environment.
const (
	demoUsername = "NHOLARM9RPSQFRANIDPLZG"
	demoPassword = "gJ16aUlHSgqAo4BPuKHS6g"
)

// Config holds the service configuration. Values come from an optional YAML
// file, overridden by environment variables.
type Config struct {
	Addr      string `mapstructure:"addr"`
	StaticDir string `mapstructure:"static_dir"`

	Store struct {
		Driver string `mapstructure:"driver"` // json or sqlite
		Path   string `mapstructure:"path"`
	} `mapstructure:"store"`

	FastSpring struct {
		URL      string `mapstructure:"url"`
		Username string `mapstructure:"username"`
		Password string `mapstructure:"password"`
	} `mapstructure:"fastspring"`
}

// LoadConfig builds the configuration: defaults, then an optional config
// file (./config.yaml or ~/.accountbridge/config.yaml), then environment.
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	cfg.Addr = ":8080"
	cfg.Store.Driver = "json"
	cfg.FastSpring.Username = demoUsername
	cfg.FastSpring.Password = demoPassword

	for _, path := range configPaths() {
		if err := loadFile(path, cfg); err != nil {
			return nil, err
		}
	}

	applyEnv(cfg)
	return cfg, nil
}

func configPaths() []string {
	var paths []string
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".accountbridge", "config.yaml"))
	}
	paths = append(paths, "config.yaml")
	return paths
}

func loadFile(path string, cfg *Config) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		return err
	}
	return v.Unmarshal(cfg)
}

func applyEnv(cfg *Config) {
	// PORT mirrors the hosting platforms this service historically ran on;
	// BRIDGE_ADDR wins when both are set.
	if port := os.Getenv("PORT"); port != "" {
		cfg.Addr = ":" + port
	}
	cfg.Addr = getEnv("BRIDGE_ADDR", cfg.Addr)
	cfg.StaticDir = getEnv("BRIDGE_STATIC_DIR", cfg.StaticDir)
	cfg.Store.Driver = getEnv("BRIDGE_STORE", cfg.Store.Driver)
	cfg.Store.Path = getEnv("BRIDGE_DB_PATH", cfg.Store.Path)
	cfg.FastSpring.URL = getEnv("FASTSPRING_URL", cfg.FastSpring.URL)
	cfg.FastSpring.Username = getEnv("FASTSPRING_USERNAME", cfg.FastSpring.Username)
	cfg.FastSpring.Password = getEnv("FASTSPRING_PASSWORD", cfg.FastSpring.Password)
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

// newStore opens the configured store backend.
func newStore(cfg *Config) (core.AccountStore, error) {
	switch cfg.Store.Driver {
	case "sqlite":
		return storage.NewSQLiteStore(storePath(cfg, "accounts.db"))
	default:
		return storage.NewJSONStore(storePath(cfg, "db.json"))
	}
}

func storePath(cfg *Config, name string) string {
	if cfg.Store.Path != "" {
		return cfg.Store.Path
	}
	return filepath.Join("~", ".accountbridge", name)
}
