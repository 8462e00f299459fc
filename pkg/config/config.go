// Package config resolves the settings screen configuration from an
// optional settings.yaml and SING_BOX_SETTINGS_* environment overrides.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/caarlos0/env/v11"
	"github.com/go-drift/settings/pkg/i18n"
	"github.com/go-drift/settings/pkg/settings"
	"golang.org/x/mod/semver"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// FileName is the name of the configuration file.
const FileName = "settings.yaml"

// Config represents the optional settings.yaml configuration.
type Config struct {
	Platform         string        `yaml:"platform,omitempty"`
	Locale           string        `yaml:"locale,omitempty"`
	Preview          bool          `yaml:"preview,omitempty"`
	DocumentationURL string        `yaml:"documentation_url,omitempty"`
	Version          string        `yaml:"version,omitempty"`
	Variant          VariantConfig `yaml:"variant"`
}

// VariantConfig contains distribution variant flags.
type VariantConfig struct {
	UseSystemExtension bool `yaml:"use_system_extension"`
}

// Resolved contains resolved configuration values.
type Resolved struct {
	// Path is the file that was read, empty if none existed.
	Path             string
	Platform         settings.Platform
	Locale           language.Tag
	Preview          bool
	DocumentationURL string
	// Version is canonical semver, empty when unset.
	Version string
	Variant settings.Variant
}

// overrides are read from the environment. Unset booleans stay nil.
type overrides struct {
	Platform        string `env:"SING_BOX_SETTINGS_PLATFORM"`
	Locale          string `env:"SING_BOX_SETTINGS_LOCALE"`
	Preview         *bool  `env:"SING_BOX_SETTINGS_PREVIEW"`
	SystemExtension *bool  `env:"SING_BOX_SETTINGS_SYSTEM_EXTENSION"`
}

// DefaultPath returns $XDG_CONFIG_HOME/sing-box/settings.yaml.
func DefaultPath() string {
	return filepath.Join(xdg.ConfigHome, "sing-box", FileName)
}

// LoadOptional reads the file at path if present.
func LoadOptional(path string) (*Config, bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, false, nil
		}
		return nil, false, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, false, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return &cfg, true, nil
}

// Option configures Resolve.
type Option func(*resolveOptions)

type resolveOptions struct {
	environment map[string]string
}

// WithEnvironment replaces the process environment for overrides.
func WithEnvironment(environment map[string]string) Option {
	return func(o *resolveOptions) {
		o.environment = environment
	}
}

// Default returns the configuration used when nothing is configured.
func Default() *Resolved {
	return &Resolved{
		Platform:         settings.DefaultPlatform(),
		Locale:           language.MustParse(i18n.BaseLocale),
		DocumentationURL: settings.DefaultDocumentationURL,
	}
}

// Resolve loads the file at path (if present), applies environment
// overrides and resolves defaults. An empty path means DefaultPath.
func Resolve(path string, opts ...Option) (*Resolved, error) {
	var o resolveOptions
	for _, opt := range opts {
		opt(&o)
	}
	if path == "" {
		path = DefaultPath()
	}

	cfg, found, err := LoadOptional(path)
	if err != nil {
		return nil, err
	}
	if err := applyOverrides(cfg, o.environment); err != nil {
		return nil, err
	}

	resolved, err := cfg.resolve()
	if err != nil {
		return nil, err
	}
	if found {
		resolved.Path = path
	}
	return resolved, nil
}

func applyOverrides(cfg *Config, environment map[string]string) error {
	var ov overrides
	var err error
	if environment != nil {
		err = env.ParseWithOptions(&ov, env.Options{Environment: environment})
	} else {
		err = env.Parse(&ov)
	}
	if err != nil {
		return fmt.Errorf("parse env: %w", err)
	}

	if ov.Platform != "" {
		cfg.Platform = ov.Platform
	}
	if ov.Locale != "" {
		cfg.Locale = ov.Locale
	}
	if ov.Preview != nil {
		cfg.Preview = *ov.Preview
	}
	if ov.SystemExtension != nil {
		cfg.Variant.UseSystemExtension = *ov.SystemExtension
	}
	return nil
}

func (c *Config) resolve() (*Resolved, error) {
	platform := settings.DefaultPlatform()
	if name := strings.TrimSpace(c.Platform); name != "" {
		p, ok := settings.ParsePlatform(name)
		if !ok {
			return nil, fmt.Errorf("unknown platform %q (want phone, desktop or tv)", name)
		}
		platform = p
	}

	localeName := strings.TrimSpace(c.Locale)
	if localeName == "" {
		localeName = i18n.BaseLocale
	}
	locale, err := i18n.ParseLocale(localeName)
	if err != nil {
		return nil, fmt.Errorf("invalid locale %q: %w", localeName, err)
	}

	docs := strings.TrimSpace(c.DocumentationURL)
	if docs == "" {
		docs = settings.DefaultDocumentationURL
	}
	if err := validateURL(docs); err != nil {
		return nil, err
	}

	version, err := canonicalVersion(c.Version)
	if err != nil {
		return nil, err
	}

	return &Resolved{
		Platform:         platform,
		Locale:           locale,
		Preview:          c.Preview,
		DocumentationURL: docs,
		Version:          version,
		Variant:          settings.Variant{UseSystemExtension: c.Variant.UseSystemExtension},
	}, nil
}

// Config converts the resolved values back to their file form.
func (r *Resolved) Config() Config {
	return Config{
		Platform:         r.Platform.String(),
		Locale:           r.Locale.String(),
		Preview:          r.Preview,
		DocumentationURL: r.DocumentationURL,
		Version:          r.Version,
		Variant:          VariantConfig{UseSystemExtension: r.Variant.UseSystemExtension},
	}
}

// Marshal renders the resolved values as settings.yaml.
func (r *Resolved) Marshal() ([]byte, error) {
	cfg := r.Config()
	return yaml.Marshal(&cfg)
}

func validateURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid documentation_url %q: %w", raw, err)
	}
	if !u.IsAbs() || u.Host == "" {
		return fmt.Errorf("documentation_url %q must be an absolute URL", raw)
	}
	return nil
}

// canonicalVersion accepts "1.2.3" or "v1.2.3" and returns "v1.2.3".
func canonicalVersion(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", nil
	}
	v := raw
	if !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	if !semver.IsValid(v) {
		return "", fmt.Errorf("version %q is not a semantic version", raw)
	}
	return semver.Canonical(v), nil
}
