package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

const defaultBridgeAddress = "127.0.0.1:8421"

type Settings struct {
	Bridge  BridgeSettings  `toml:"bridge"`
	Logging LoggingSettings `toml:"logging"`
	Timing  TimingSettings  `toml:"timing"`
	UI      UISettings      `toml:"ui"`
}

type BridgeSettings struct {
	Address string `toml:"address"`
}

type LoggingSettings struct {
	Level string `toml:"level"`
	Path  string `toml:"path"`
}

// TimingSettings hold the fixed windows of the engine, in milliseconds.
type TimingSettings struct {
	NavigationDebounceMS int `toml:"navigation_debounce_ms"`
	LocationPollMS       int `toml:"location_poll_ms"`
	SequenceIdleMS       int `toml:"sequence_idle_ms"`
	ToastMS              int `toml:"toast_ms"`
	ScrapeFallbackMS     int `toml:"scrape_fallback_ms"`
}

type UISettings struct {
	PageSize        int    `toml:"page_size"`
	KeybindingsPath string `toml:"keybindings_path"`
}

func DefaultSettings() Settings {
	return Settings{
		Bridge: BridgeSettings{
			Address: defaultBridgeAddress,
		},
		Logging: LoggingSettings{
			Level: "info",
		},
		Timing: TimingSettings{
			NavigationDebounceMS: 60,
			LocationPollMS:       1500,
			SequenceIdleMS:       900,
			ToastMS:              2500,
			ScrapeFallbackMS:     800,
		},
		UI: UISettings{
			PageSize: 10,
		},
	}
}

func Load() (Settings, error) {
	path, err := SettingsPath()
	if err != nil {
		return Settings{}, err
	}
	return LoadFromPath(path)
}

func LoadFromPath(path string) (Settings, error) {
	cfg := DefaultSettings()
	if err := readTOML(path, &cfg); err != nil {
		return Settings{}, err
	}
	return cfg, nil
}

func (s Settings) BridgeBaseURL() string {
	addr := strings.TrimSpace(s.Bridge.Address)
	if addr == "" {
		addr = defaultBridgeAddress
	}
	addr = strings.TrimPrefix(addr, "http://")
	addr = strings.TrimPrefix(addr, "https://")
	addr = strings.TrimRight(addr, "/")
	if addr == "" {
		addr = defaultBridgeAddress
	}
	return "http://" + addr
}

func (s Settings) LogLevel() string {
	level := strings.TrimSpace(s.Logging.Level)
	if level == "" {
		return "info"
	}
	return level
}

func (s Settings) ResolveLogPath() (string, error) {
	path := strings.TrimSpace(s.Logging.Path)
	if path == "" {
		return LogPath()
	}
	return resolvePath(path)
}

func (s Settings) ResolveKeybindingsPath() (string, error) {
	path := strings.TrimSpace(s.UI.KeybindingsPath)
	if path == "" {
		return KeybindingsPath()
	}
	return resolvePath(path)
}

func (s Settings) NavigationDebounce() time.Duration {
	return positiveMillis(s.Timing.NavigationDebounceMS, 60*time.Millisecond)
}

func (s Settings) LocationPollInterval() time.Duration {
	return positiveMillis(s.Timing.LocationPollMS, 1500*time.Millisecond)
}

func (s Settings) SequenceIdleTimeout() time.Duration {
	return positiveMillis(s.Timing.SequenceIdleMS, 900*time.Millisecond)
}

func (s Settings) ToastDuration() time.Duration {
	return positiveMillis(s.Timing.ToastMS, 2500*time.Millisecond)
}

func (s Settings) ScrapeFallbackDelay() time.Duration {
	return positiveMillis(s.Timing.ScrapeFallbackMS, 800*time.Millisecond)
}

func (s Settings) PageSize() int {
	if s.UI.PageSize <= 0 {
		return 10
	}
	return s.UI.PageSize
}

func positiveMillis(ms int, fallback time.Duration) time.Duration {
	if ms <= 0 {
		return fallback
	}
	return time.Duration(ms) * time.Millisecond
}

func readTOML(path string, out any) error {
	path = strings.TrimSpace(path)
	if path == "" {
		return errors.New("path is required")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil
	}
	return toml.Unmarshal(data, out)
}

func resolvePath(path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return "", errors.New("path is required")
	}
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, path[2:]), nil
	}
	if filepath.IsAbs(path) {
		return path, nil
	}
	dataDir, err := DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dataDir, path), nil
}
