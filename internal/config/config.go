package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Port           int
	Host           string
	ProfileDir     string
	DownloadsDir   string
	Headless       bool
	DefaultBrowser string
	// NavTimeoutMs applies to navigations that carry no timeout of
	// their own.
	NavTimeoutMs float64
}

type rawConfig struct {
	Port           int     `toml:"port"`
	Host           string  `toml:"host"`
	ProfileDir     string  `toml:"profile_dir"`
	DownloadsDir   string  `toml:"downloads_dir"`
	Headless       *bool   `toml:"headless"`
	DefaultBrowser string  `toml:"default_browser"`
	NavTimeoutMs   float64 `toml:"nav_timeout_ms"`
}

// Overrides carry flag values. Zero values mean "not set".
type Overrides struct {
	Port         int
	ProfileDir   string
	DownloadsDir string
	Headful      bool
}

// Load resolves configuration in order: built-in defaults, system config
// file, environment, then flag overrides.
func Load(overrides Overrides) (Config, error) {
	root := defaultRoot()
	cfg := Config{
		Port:           8000,
		Host:           "0.0.0.0",
		ProfileDir:     filepath.Join(root, "profile"),
		DownloadsDir:   filepath.Join(root, "downloads"),
		Headless:       true,
		DefaultBrowser: "chromium",
		NavTimeoutMs:   30_000,
	}

	if err := loadSystemConfig(&cfg); err != nil {
		return Config{}, err
	}

	if v := strings.TrimSpace(os.Getenv("PORT")); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			cfg.Port = p
		}
	}
	if v := strings.TrimSpace(os.Getenv("BROWSERD_PROFILE_DIR")); v != "" {
		cfg.ProfileDir = v
	}
	if v := strings.TrimSpace(os.Getenv("BROWSERD_DOWNLOADS_DIR")); v != "" {
		cfg.DownloadsDir = v
	}
	if v := strings.TrimSpace(os.Getenv("BROWSERD_HEADLESS")); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Headless = b
		}
	}
	if v := strings.TrimSpace(os.Getenv("BROWSERD_DEFAULT_BROWSER")); v != "" {
		cfg.DefaultBrowser = v
	}
	if v := strings.TrimSpace(os.Getenv("BROWSERD_NAV_TIMEOUT_MS")); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 {
			cfg.NavTimeoutMs = f
		}
	}

	if overrides.Port != 0 {
		cfg.Port = overrides.Port
	}
	if strings.TrimSpace(overrides.ProfileDir) != "" {
		cfg.ProfileDir = overrides.ProfileDir
	}
	if strings.TrimSpace(overrides.DownloadsDir) != "" {
		cfg.DownloadsDir = overrides.DownloadsDir
	}
	if overrides.Headful {
		cfg.Headless = false
	}

	return cfg, nil
}

func (c Config) Addr() string {
	return c.Host + ":" + strconv.Itoa(c.Port)
}

func loadSystemConfig(cfg *Config) error {
	paths := []string{
		"/etc/browserd/config.toml",
		"/usr/local/etc/browserd/config.toml",
	}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".browserd", "config.toml"))
	}
	for _, path := range paths {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		var raw rawConfig
		if _, err := toml.DecodeFile(path, &raw); err != nil {
			return err
		}
		if raw.Port != 0 {
			cfg.Port = raw.Port
		}
		if raw.Host != "" {
			cfg.Host = raw.Host
		}
		if raw.ProfileDir != "" {
			cfg.ProfileDir = raw.ProfileDir
		}
		if raw.DownloadsDir != "" {
			cfg.DownloadsDir = raw.DownloadsDir
		}
		if raw.Headless != nil {
			cfg.Headless = *raw.Headless
		}
		if raw.DefaultBrowser != "" {
			cfg.DefaultBrowser = raw.DefaultBrowser
		}
		if raw.NavTimeoutMs > 0 {
			cfg.NavTimeoutMs = raw.NavTimeoutMs
		}
		return nil
	}
	return nil
}

func defaultRoot() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "browserd")
	}
	return filepath.Join(home, ".browserd")
}
