package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadFromPathMissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadFromPath(filepath.Join(t.TempDir(), "config.toml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.BridgeBaseURL() != "http://127.0.0.1:8421" {
		t.Fatalf("unexpected bridge url: %s", cfg.BridgeBaseURL())
	}
	if cfg.LogLevel() != "info" {
		t.Fatalf("unexpected log level: %s", cfg.LogLevel())
	}
	if cfg.PageSize() != 10 {
		t.Fatalf("unexpected page size: %d", cfg.PageSize())
	}
}

func TestLoadFromPathParsesOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	raw := `
[bridge]
address = "localhost:9000"

[logging]
level = "debug"

[timing]
navigation_debounce_ms = 40
sequence_idle_ms = 700

[ui]
page_size = 20
`
	if err := os.WriteFile(path, []byte(raw), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.BridgeBaseURL() != "http://localhost:9000" {
		t.Fatalf("unexpected bridge url: %s", cfg.BridgeBaseURL())
	}
	if cfg.LogLevel() != "debug" {
		t.Fatalf("unexpected log level: %s", cfg.LogLevel())
	}
	if cfg.NavigationDebounce() != 40*time.Millisecond {
		t.Fatalf("unexpected debounce: %s", cfg.NavigationDebounce())
	}
	if cfg.SequenceIdleTimeout() != 700*time.Millisecond {
		t.Fatalf("unexpected idle timeout: %s", cfg.SequenceIdleTimeout())
	}
	if cfg.PageSize() != 20 {
		t.Fatalf("unexpected page size: %d", cfg.PageSize())
	}
}

func TestTimingAccessorsRejectNonPositiveValues(t *testing.T) {
	cfg := Settings{}
	if cfg.NavigationDebounce() != 60*time.Millisecond {
		t.Fatalf("unexpected debounce fallback: %s", cfg.NavigationDebounce())
	}
	if cfg.LocationPollInterval() != 1500*time.Millisecond {
		t.Fatalf("unexpected poll fallback: %s", cfg.LocationPollInterval())
	}
	if cfg.ToastDuration() != 2500*time.Millisecond {
		t.Fatalf("unexpected toast fallback: %s", cfg.ToastDuration())
	}
}

func TestBridgeBaseURLStripsScheme(t *testing.T) {
	cfg := Settings{Bridge: BridgeSettings{Address: "http://127.0.0.1:9999/"}}
	if cfg.BridgeBaseURL() != "http://127.0.0.1:9999" {
		t.Fatalf("unexpected bridge url: %s", cfg.BridgeBaseURL())
	}
}
