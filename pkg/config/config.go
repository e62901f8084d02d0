// Package config provides TOML-based configuration for lantern.
package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// Config is the top-level configuration.
type Config struct {
	General   GeneralConfig   `toml:"general" yaml:"general"`
	Profile   ProfileConfig   `toml:"profile" yaml:"profile"`
	Display   DisplayConfig   `toml:"display" yaml:"display"`
	Alternate AlternateConfig `toml:"alternate" yaml:"alternate"`
	Image     ImageConfig     `toml:"image" yaml:"image"`
	Theme     ThemeConfig     `toml:"theme" yaml:"theme"`
}

// GeneralConfig holds process-wide settings.
type GeneralConfig struct {
	LogLevel string `toml:"log_level" yaml:"log_level"`
	CacheDir string `toml:"cache_dir" yaml:"cache_dir"`
	// LogFile defaults to lantern.log inside CacheDir.
	LogFile string `toml:"log_file" yaml:"log_file"`
}

// ProfileConfig selects whose repositories are shown.
type ProfileConfig struct {
	GitHubUser      string   `toml:"github_user" yaml:"github_user"`
	APIBase         string   `toml:"api_base" yaml:"api_base"`
	MaxRepos        int      `toml:"max_repos" yaml:"max_repos"`
	Token           string   `toml:"token" yaml:"token"`
	RefreshInterval Duration `toml:"refresh_interval" yaml:"refresh_interval"`
	CacheTTL        Duration `toml:"cache_ttl" yaml:"cache_ttl"`
}

// DisplayConfig holds page copy.
type DisplayConfig struct {
	Title                 string `toml:"title" yaml:"title"`
	WelcomeMessage        string `toml:"welcome_message" yaml:"welcome_message"`
	AlternateHint         string `toml:"alternate_hint" yaml:"alternate_hint"`
	SectionLabel          string `toml:"section_label" yaml:"section_label"`
	AlternateSectionLabel string `toml:"alternate_section_label" yaml:"alternate_section_label"`
}

// AlternateConfig tunes the alternate presentation mode.
type AlternateConfig struct {
	Audio     bool `toml:"audio" yaml:"audio"`
	FrameRate int  `toml:"frame_rate" yaml:"frame_rate"`
}

// ImageConfig controls avatar rendering.
type ImageConfig struct {
	// Protocol is one of auto, kitty, iterm2, sixel, halfblocks.
	Protocol string `toml:"protocol" yaml:"protocol"`
}

// ThemeConfig names the normal and alternate themes. Either may be a
// built-in name or a path to a TOML theme file.
type ThemeConfig struct {
	Name      string `toml:"name" yaml:"name"`
	Alternate string `toml:"alternate" yaml:"alternate"`
}

var (
	validLogLevels = []string{"debug", "info", "warn", "error"}
	validProtocols = []string{"auto", "kitty", "iterm2", "sixel", "halfblocks"}
)

// Validate reports every invalid field, joined.
func (c *Config) Validate() error {
	var errs []error
	if !slices.Contains(validLogLevels, c.General.LogLevel) {
		errs = append(errs, fmt.Errorf("general.log_level %q must be one of %s",
			c.General.LogLevel, strings.Join(validLogLevels, ", ")))
	}
	if c.General.CacheDir == "" {
		errs = append(errs, errors.New("general.cache_dir must not be empty"))
	}
	if strings.TrimSpace(c.Profile.GitHubUser) == "" {
		errs = append(errs, errors.New("profile.github_user must not be empty"))
	}
	if !strings.HasPrefix(c.Profile.APIBase, "http://") && !strings.HasPrefix(c.Profile.APIBase, "https://") {
		errs = append(errs, fmt.Errorf("profile.api_base %q must be an http(s) URL", c.Profile.APIBase))
	}
	if c.Profile.MaxRepos < 1 || c.Profile.MaxRepos > 100 {
		errs = append(errs, fmt.Errorf("profile.max_repos %d out of range [1, 100]", c.Profile.MaxRepos))
	}
	if c.Profile.RefreshInterval.Duration != 0 && c.Profile.RefreshInterval.Duration < minRefresh {
		errs = append(errs, fmt.Errorf("profile.refresh_interval %s below minimum %s",
			c.Profile.RefreshInterval, minRefresh))
	}
	if c.Alternate.FrameRate < 1 || c.Alternate.FrameRate > 240 {
		errs = append(errs, fmt.Errorf("alternate.frame_rate %d out of range [1, 240]", c.Alternate.FrameRate))
	}
	if !slices.Contains(validProtocols, c.Image.Protocol) {
		errs = append(errs, fmt.Errorf("image.protocol %q must be one of %s",
			c.Image.Protocol, strings.Join(validProtocols, ", ")))
	}
	if c.Theme.Name == "" || c.Theme.Alternate == "" {
		errs = append(errs, errors.New("theme.name and theme.alternate must be set"))
	}
	return errors.Join(errs...)
}
