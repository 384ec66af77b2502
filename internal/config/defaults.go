package config

// Documented defaults for omitted optional fields.
const (
	DefaultTheme       = "PaperMod"
	DefaultContentDir  = "content"
	DefaultPagerSize   = 10
	DefaultHighlighter = "monokai"
)

// applyDefaults fills omitted optional fields in place. Required fields
// (title, baseURL) are left alone for validation to report.
func applyDefaults(cfg *Config) {
	if cfg.Theme == "" {
		cfg.Theme = DefaultTheme
	}
	if cfg.ContentDir == "" {
		cfg.ContentDir = DefaultContentDir
	}
	if cfg.Markup.Highlight.Style == "" {
		cfg.Markup.Highlight.Style = DefaultHighlighter
	}
	if cfg.Params == nil {
		cfg.Params = map[string]any{}
	}
	// Reading time is opt-in; themes read this from params.
	if _, ok := cfg.Params["ShowReadingTime"]; !ok {
		cfg.Params["ShowReadingTime"] = false
	}
}
