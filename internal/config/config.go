// Package config loads and validates the site configuration document.
//
// The configuration is read once at build start and treated as immutable for
// the rest of the run.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/danielewood/blog/internal/blogerr"
)

// Config is the global site configuration.
type Config struct {
	BaseURL string `yaml:"baseURL"`
	Title   string `yaml:"title"`
	Theme   string `yaml:"theme,omitempty"`

	Pagination Pagination `yaml:"pagination"`

	BuildDrafts  bool `yaml:"buildDrafts"`
	BuildFuture  bool `yaml:"buildFuture"`
	BuildExpired bool `yaml:"buildExpired"`

	EnableGitInfo   bool   `yaml:"enableGitInfo,omitempty"`
	EnableRobotsTXT bool   `yaml:"enableRobotsTXT,omitempty"`
	GoogleAnalytics string `yaml:"googleAnalytics,omitempty"`

	ContentDir string `yaml:"contentDir,omitempty"`

	// Params is theme-specific and has no fixed schema; it is validated only
	// by the consuming renderer/theme.
	Params map[string]any `yaml:"params,omitempty"`

	Menu   Menus  `yaml:"menu,omitempty"`
	Markup Markup `yaml:"markup,omitempty"`
}

// Pagination controls list-page sizing. PagerSize is a pointer so an
// explicit `pagerSize: 0` is rejected rather than silently defaulted.
type Pagination struct {
	PagerSize *int `yaml:"pagerSize,omitempty"`
}

// PageSize returns the effective pager size.
func (c *Config) PageSize() int {
	if c.Pagination.PagerSize == nil {
		return DefaultPagerSize
	}
	return *c.Pagination.PagerSize
}

// Menus groups the named site menus. Only main is used by the blog theme.
type Menus struct {
	Main []MenuEntry `yaml:"main,omitempty"`
}

// MenuEntry is a single navigation entry. Weight orders entries ascending;
// ties keep declaration order.
type MenuEntry struct {
	Identifier string `yaml:"identifier"`
	Name       string `yaml:"name"`
	URL        string `yaml:"url"`
	Weight     int    `yaml:"weight,omitempty"`
}

// Markup holds Markdown rendering options forwarded to the renderer.
type Markup struct {
	Highlight Highlight `yaml:"highlight,omitempty"`
}

// Highlight configures the syntax highlighter.
type Highlight struct {
	Style         string `yaml:"style,omitempty"`
	LineNos       bool   `yaml:"lineNos,omitempty"`
	AnchorLineNos bool   `yaml:"anchorLineNos,omitempty"`
	CodeFences    bool   `yaml:"codeFences,omitempty"`
	GuessSyntax   bool   `yaml:"guessSyntax,omitempty"`
	NoClasses     *bool  `yaml:"noClasses,omitempty"`
}

// Load reads, parses, defaults, and validates the configuration file.
//
// A .env / .env.local file next to the config is applied first (best effort)
// and environment references in the YAML are expanded, so tokens like
// analytics IDs can stay out of the committed file.
func Load(configPath string) (*Config, error) {
	loadEnvFiles()

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, blogerr.ConfigNotFound(configPath)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, blogerr.ConfigParse(configPath, fmt.Errorf("read config file: %w", err))
	}

	return Parse(data, configPath)
}

// Parse parses configuration bytes. path is used only for error reporting.
// Decoding is strict: an unknown key is a parse error, so a misspelled
// option fails the build instead of being silently ignored.
func Parse(data []byte, path string) (*Config, error) {
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	dec := yaml.NewDecoder(strings.NewReader(expanded))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, blogerr.ConfigParse(path, err)
	}

	applyDefaults(&cfg)
	if err := validate(&cfg, path); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Save re-serializes the configuration. Round-tripping Load then Save
// preserves all declared fields.
func Save(cfg *Config, configPath string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return blogerr.InternalError("marshal config", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		return blogerr.StagingError("write config", err).WithContext("path", configPath)
	}
	return nil
}

// loadEnvFiles applies .env then .env.local without overriding the process
// environment. Missing files are not an error.
func loadEnvFiles() {
	for _, p := range []string{".env", ".env.local"} {
		if _, err := os.Stat(p); err == nil {
			_ = godotenv.Load(p)
		}
	}
}
