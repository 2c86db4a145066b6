package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"overlay/internal/app"
	"overlay/internal/bridge"
	"overlay/internal/config"
	"overlay/internal/logging"
	"overlay/internal/store"
	"overlay/internal/types"
)

const usageText = `overlay is a keyboard-driven companion for the host page.

Usage:
  overlay [flags]
  overlay keys
  overlay help

Commands:
  keys     list keybinding commands for the overrides file
  help     show help

Flags:
  --config <path>   settings file (default ~/.overlay/config.toml)
  --bridge <addr>   bridge address (default 127.0.0.1:8421)
  --log <path>      log file (default ~/.overlay/overlay.log)
`

func printUsage() {
	fmt.Fprint(os.Stderr, usageText)
}

func main() {
	args := os.Args[1:]
	if len(args) > 0 {
		switch args[0] {
		case "-h", "--help", "help":
			printUsage()
			return
		case "keys":
			printKeyCommands()
			return
		}
	}
	if err := run(args); err != nil {
		fmt.Fprintf(os.Stderr, "overlay: %v\n", err)
		os.Exit(1)
	}
}

func printKeyCommands() {
	for _, command := range app.KnownCommands() {
		fmt.Println(command)
	}
}

func run(args []string) error {
	fs := flag.NewFlagSet("overlay", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	configPath := fs.String("config", "", "settings file path")
	bridgeAddr := fs.String("bridge", "", "bridge address host:port")
	logPath := fs.String("log", "", "log file path")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var cfg config.Settings
	var err error
	if strings.TrimSpace(*configPath) != "" {
		cfg, err = config.LoadFromPath(*configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}
	if strings.TrimSpace(*bridgeAddr) != "" {
		cfg.Bridge.Address = *bridgeAddr
	}
	if strings.TrimSpace(*logPath) != "" {
		cfg.Logging.Path = *logPath
	}

	resolvedLogPath, err := cfg.ResolveLogPath()
	if err != nil {
		return err
	}
	log, closeLog, err := logging.ToFile(resolvedLogPath, logging.ParseLevel(cfg.LogLevel()))
	if err != nil {
		return fmt.Errorf("open log: %w", err)
	}
	defer func() { _ = closeLog() }()

	keybindingsPath, err := cfg.ResolveKeybindingsPath()
	if err != nil {
		return err
	}
	keymapStore := store.NewFileKeymapStore(keybindingsPath)
	keymap, err := keymapStore.Load(context.Background())
	if err != nil {
		return fmt.Errorf("load keybindings: %w", err)
	}

	prefsPath, err := config.PreferencesDBPath()
	if err != nil {
		return err
	}
	prefsStore, err := store.OpenPreferences(prefsPath)
	if err != nil {
		return fmt.Errorf("open preferences: %w", err)
	}
	defer func() { _ = prefsStore.Close() }()
	prefs, err := prefsStore.Load(context.Background())
	if err != nil {
		log.Warn("loading preferences failed", logging.F("error", err))
		prefs = types.DefaultPreferences()
	}

	client := bridge.New(cfg.BridgeBaseURL(), log)
	healthCtx, cancelHealth := context.WithTimeout(context.Background(), 3*time.Second)
	health, err := client.Health(healthCtx)
	cancelHealth()
	if err != nil {
		// The overlay still starts; the stream setup reports unreachability
		// to the user and the bridge may come up later.
		log.Warn("bridge health check failed", logging.F("error", err))
	} else {
		log.Info("bridge healthy",
			logging.F("status", health.Status),
			logging.F("location", health.Location))
	}

	return app.Run(app.Options{
		Settings:    cfg,
		Logger:      log,
		Client:      client,
		Snapshots:   bridge.NewSnapshotCache(client),
		Keybindings: app.FromKeymap(keymap),
		Preferences: prefs,
		PrefsStore:  prefsStore,
	})
}
