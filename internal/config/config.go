package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
)

// BuildServerURL can be injected at build time:
//
//	go build -ldflags "-X lostaf-cli/internal/config.BuildServerURL=https://..."
var BuildServerURL string

// DefaultServerURL is the portal's own origin, used when nothing else
// resolves a server.
const DefaultServerURL = "https://lostaf.cvru.ac.in"

// GlobalConfig is persisted at <dir>/config.json.
type GlobalConfig struct {
	// ServerURL optionally pins the portal origin for this machine.
	ServerURL string `json:"serverUrl,omitempty"`

	// TUI holds optional appearance preferences.
	TUI *TUIConfig `json:"tui,omitempty"`
}

type TUIConfig struct {
	// Theme forces "light" or "dark"; empty means auto-detect.
	Theme string `json:"theme,omitempty"`
}

// Dir returns the local state directory (~/.lostaf by default,
// LOSTAF_DIR overrides). The directory is created on demand.
func Dir() (string, error) {
	if d := strings.TrimSpace(os.Getenv("LOSTAF_DIR")); d != "" {
		return d, os.MkdirAll(d, 0o755)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	d := filepath.Join(home, ".lostaf")
	return d, os.MkdirAll(d, 0o755)
}

func configPath() (string, error) {
	d, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(d, "config.json"), nil
}

func Load() (GlobalConfig, error) {
	var cfg GlobalConfig
	p, err := configPath()
	if err != nil {
		return cfg, err
	}
	b, err := os.ReadFile(p)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}
	if err := json.Unmarshal(b, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func Save(cfg GlobalConfig) error {
	p, err := configPath()
	if err != nil {
		return err
	}
	b, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	tmp := p + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, p)
}

// ResolveServerURL picks the portal origin. The chain is deterministic and
// is evaluated exactly once at startup; the resulting origin also scopes
// the session cookie, so it must not change between calls.
//
//  1. explicit override (--server flag)
//  2. build-time injected URL
//  3. LOSTAF_SERVER from the environment
//  4. serverUrl from config.json
//  5. the portal's default origin
func ResolveServerURL(override string, cfg GlobalConfig) string {
	if v := strings.TrimSpace(override); v != "" {
		return strings.TrimRight(v, "/")
	}
	if v := strings.TrimSpace(BuildServerURL); v != "" {
		return strings.TrimRight(v, "/")
	}
	if v := strings.TrimSpace(os.Getenv("LOSTAF_SERVER")); v != "" {
		return strings.TrimRight(v, "/")
	}
	if v := strings.TrimSpace(cfg.ServerURL); v != "" {
		return strings.TrimRight(v, "/")
	}
	return DefaultServerURL
}
