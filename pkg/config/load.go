package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

const appName = "lantern"

// minRefresh keeps the GitHub API well under its unauthenticated rate limit.
const minRefresh = time.Minute

// Load reads configuration from the standard config path.
// Search order:
//  1. $XDG_CONFIG_HOME/lantern/config.toml
//  2. ~/.config/lantern/config.toml
//
// If no file exists, returns DefaultConfig() with env overrides applied.
func Load() (*Config, error) {
	for _, p := range configSearchPaths() {
		if _, err := os.Stat(p); err == nil {
			return LoadFromFile(p)
		}
	}
	cfg := DefaultConfig()
	applyEnvOverrides(cfg)
	return cfg, nil
}

// LoadFromFile reads configuration from a specific file path. Files ending
// in .yaml or .yml are decoded as YAML, everything else as TOML. A missing
// file yields the defaults.
func LoadFromFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg := DefaultConfig()
			applyEnvOverrides(cfg)
			return cfg, nil
		}
		return nil, err
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return LoadYAML(f)
	default:
		return LoadFromReader(f)
	}
}

// LoadFromReader reads TOML configuration from an io.Reader.
func LoadFromReader(r io.Reader) (*Config, error) {
	cfg := DefaultConfig()
	if _, err := toml.NewDecoder(r).Decode(cfg); err != nil {
		return nil, fmt.Errorf("config: decode toml: %w", err)
	}
	applyEnvOverrides(cfg)
	return cfg, nil
}

// LoadYAML reads YAML configuration from an io.Reader.
func LoadYAML(r io.Reader) (*Config, error) {
	cfg := DefaultConfig()
	if err := yaml.NewDecoder(r).Decode(cfg); err != nil && err != io.EOF {
		return nil, fmt.Errorf("config: decode yaml: %w", err)
	}
	applyEnvOverrides(cfg)
	return cfg, nil
}

// DefaultConfig returns the default configuration with sensible defaults.
func DefaultConfig() *Config {
	home, _ := os.UserHomeDir()
	cacheDir := filepath.Join(xdgCacheHome(home), appName)

	return &Config{
		General: GeneralConfig{
			LogLevel: "info",
			CacheDir: cacheDir,
		},
		Profile: ProfileConfig{
			GitHubUser:      "octocat",
			APIBase:         "https://api.github.com",
			MaxRepos:        6,
			RefreshInterval: Duration{30 * time.Minute},
			CacheTTL:        Duration{time.Hour},
		},
		Display: DisplayConfig{
			Title:                 "tinyland",
			WelcomeMessage:        "welcome. have a look around.",
			AlternateHint:         "some titles answer when called often enough.",
			SectionLabel:          "// featured projects",
			AlternateSectionLabel: "// forgotten projects",
		},
		Alternate: AlternateConfig{
			Audio:     true,
			FrameRate: 30,
		},
		Image: ImageConfig{
			Protocol: "auto",
		},
		Theme: ThemeConfig{
			Name:      "healing",
			Alternate: "hollow",
		},
	}
}

// LogFile returns the configured log path, defaulting into the cache dir.
func (c *Config) LogFile() string {
	if c.General.LogFile != "" {
		return c.General.LogFile
	}
	return filepath.Join(c.General.CacheDir, appName+".log")
}

// applyEnvOverrides checks environment variables and overrides config values.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("LANTERN_GITHUB_USER"); v != "" {
		cfg.Profile.GitHubUser = v
	}
	if v := os.Getenv("GITHUB_TOKEN"); v != "" {
		cfg.Profile.Token = v
	}
	if v := os.Getenv("LANTERN_THEME"); v != "" {
		cfg.Theme.Name = v
	}
	if v := os.Getenv("LANTERN_PROTOCOL"); v != "" {
		cfg.Image.Protocol = v
	}
	if v := os.Getenv("LANTERN_NO_AUDIO"); v != "" {
		if off, err := strconv.ParseBool(v); err != nil || off {
			cfg.Alternate.Audio = false
		}
	}
}

// configSearchPaths returns the ordered list of config file paths to try.
func configSearchPaths() []string {
	home, _ := os.UserHomeDir()
	var paths []string

	xdg := xdgConfigHome(home)
	paths = append(paths, filepath.Join(xdg, appName, "config.toml"))

	// If XDG_CONFIG_HOME was explicitly set, also try the fallback default.
	defaultXDG := filepath.Join(home, ".config")
	if xdg != defaultXDG {
		paths = append(paths, filepath.Join(defaultXDG, appName, "config.toml"))
	}

	return paths
}

// xdgConfigHome returns XDG_CONFIG_HOME or ~/.config as fallback.
func xdgConfigHome(home string) string {
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return v
	}
	return filepath.Join(home, ".config")
}

// xdgCacheHome returns XDG_CACHE_HOME or ~/.cache as fallback.
func xdgCacheHome(home string) string {
	if v := os.Getenv("XDG_CACHE_HOME"); v != "" {
		return v
	}
	return filepath.Join(home, ".cache")
}
