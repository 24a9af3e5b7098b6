package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestApplyEnv(t *testing.T) {
	t.Run("Given no environment When applied Then defaults survive", func(t *testing.T) {
		cfg := &Config{}
		cfg.Addr = ":8080"
		cfg.Store.Driver = "json"

		applyEnv(cfg)

		if cfg.Addr != ":8080" || cfg.Store.Driver != "json" {
			t.Errorf("defaults changed: %+v", cfg)
		}
	})

	t.Run("Given PORT When applied Then the listen address follows it", func(t *testing.T) {
		t.Setenv("PORT", "9000")
		cfg := &Config{}
		cfg.Addr = ":8080"

		applyEnv(cfg)

		if cfg.Addr != ":9000" {
			t.Errorf("expected :9000, got %q", cfg.Addr)
		}
	})

	t.Run("Given both PORT and BRIDGE_ADDR When applied Then BRIDGE_ADDR wins", func(t *testing.T) {
		t.Setenv("PORT", "9000")
		t.Setenv("BRIDGE_ADDR", "127.0.0.1:7000")
		cfg := &Config{}
		cfg.Addr = ":8080"

		applyEnv(cfg)

		if cfg.Addr != "127.0.0.1:7000" {
			t.Errorf("expected BRIDGE_ADDR to win, got %q", cfg.Addr)
		}
	})

	t.Run("Given provider credentials in the environment When applied Then they replace the demo ones", func(t *testing.T) {
		t.Setenv("FASTSPRING_USERNAME", "real-user")
		t.Setenv("FASTSPRING_PASSWORD", "real-pass")
		cfg := &Config{}
		cfg.FastSpring.Username = demoUsername
		cfg.FastSpring.Password = demoPassword

		applyEnv(cfg)

		if cfg.FastSpring.Username != "real-user" || cfg.FastSpring.Password != "real-pass" {
			t.Errorf("expected env credentials, got %+v", cfg.FastSpring)
		}
	})
}

func TestLoadFile(t *testing.T) {
	t.Run("Given a config file When loaded Then its values land in the config", func(t *testing.T) {
		// Given
		path := filepath.Join(t.TempDir(), "config.yaml")
		yaml := []byte("addr: \":9090\"\nstore:\n  driver: sqlite\n  path: /tmp/test-accounts.db\nfastspring:\n  username: file-user\n")
		if err := os.WriteFile(path, yaml, 0644); err != nil {
			t.Fatalf("Failed to write config file: %v", err)
		}
		cfg := &Config{}
		cfg.Addr = ":8080"

		// When
		if err := loadFile(path, cfg); err != nil {
			t.Fatalf("loadFile failed: %v", err)
		}

		// Then
		if cfg.Addr != ":9090" {
			t.Errorf("expected addr from file, got %q", cfg.Addr)
		}
		if cfg.Store.Driver != "sqlite" || cfg.Store.Path != "/tmp/test-accounts.db" {
			t.Errorf("unexpected store config: %+v", cfg.Store)
		}
		if cfg.FastSpring.Username != "file-user" {
			t.Errorf("unexpected fastspring config: %+v", cfg.FastSpring)
		}
	})

	t.Run("Given a missing file When loaded Then nothing changes and no error", func(t *testing.T) {
		cfg := &Config{}
		cfg.Addr = ":8080"

		if err := loadFile(filepath.Join(t.TempDir(), "absent.yaml"), cfg); err != nil {
			t.Fatalf("expected missing file to be skipped, got %v", err)
		}
		if cfg.Addr != ":8080" {
			t.Errorf("config changed by missing file: %+v", cfg)
		}
	})
}

func TestStorePath(t *testing.T) {
	cfg := &Config{}
	if got := storePath(cfg, "db.json"); filepath.Base(got) != "db.json" {
		t.Errorf("expected default path ending in db.json, got %q", got)
	}

	cfg.Store.Path = "/data/accounts.json"
	if got := storePath(cfg, "db.json"); got != "/data/accounts.json" {
		t.Errorf("expected explicit path to win, got %q", got)
	}
}
