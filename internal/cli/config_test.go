package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestConfigSaveAndLoad(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("HOME", tmp)

	cfg := CLIConfig{ServerURL: "http://myhost:9090"}
	if err := saveConfig(cfg); err != nil {
		t.Fatalf("save: %v", err)
	}

	path := filepath.Join(tmp, ".config", "pd", "config.yaml")
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("config file not found: %v", err)
	}

	loaded, err := loadConfig()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.ServerURL != cfg.ServerURL {
		t.Errorf("server_url = %q, want %q", loaded.ServerURL, cfg.ServerURL)
	}
}

func TestConfigLoadMissing(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := loadConfig()
	if err != nil {
		t.Fatalf("load missing: %v", err)
	}
	if cfg.ServerURL != "" {
		t.Error("expected zero-value config for missing file")
	}
}

func TestConfigLoadInvalidYAML(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("HOME", tmp)

	dir := filepath.Join(tmp, ".config", "pd")
	if err := os.MkdirAll(dir, 0o700); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("server_url: [unclosed"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	if _, err := loadConfig(); err == nil {
		t.Error("expected parse error")
	}
}

func TestGetServerURL(t *testing.T) {
	t.Run("default", func(t *testing.T) {
		t.Setenv("HOME", t.TempDir())
		t.Setenv("PD_SERVER_URL", "")
		if got := getServerURL(); got != defaultServerURL {
			t.Errorf("got %q, want %q", got, defaultServerURL)
		}
	})

	t.Run("from config", func(t *testing.T) {
		t.Setenv("HOME", t.TempDir())
		t.Setenv("PD_SERVER_URL", "")
		if err := saveConfig(CLIConfig{ServerURL: "http://office:8080"}); err != nil {
			t.Fatalf("save: %v", err)
		}
		if got := getServerURL(); got != "http://office:8080" {
			t.Errorf("got %q", got)
		}
	})

	t.Run("env wins", func(t *testing.T) {
		t.Setenv("HOME", t.TempDir())
		t.Setenv("PD_SERVER_URL", "http://env:1234")
		if err := saveConfig(CLIConfig{ServerURL: "http://office:8080"}); err != nil {
			t.Fatalf("save: %v", err)
		}
		if got := getServerURL(); got != "http://env:1234" {
			t.Errorf("got %q", got)
		}
	})
}

func TestConfigSetServer(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("PD_SERVER_URL", "")

	out, err := executeCommand("config", "set-server", "http://office:7070")
	if err != nil {
		t.Fatalf("set-server: %v", err)
	}
	if !strings.Contains(out, "http://office:7070") {
		t.Errorf("output = %q", out)
	}

	out, err = executeCommand("config")
	if err != nil {
		t.Fatalf("config: %v", err)
	}
	if !strings.Contains(out, "Server:  http://office:7070") {
		t.Errorf("output = %q", out)
	}
}
