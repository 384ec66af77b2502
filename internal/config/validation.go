package config

import (
	"fmt"
	"net/url"

	"github.com/danielewood/blog/internal/blogerr"
)

// validate checks the parsed configuration. All violations are fatal
// CategoryConfig errors carrying the offending field.
func validate(cfg *Config, path string) error {
	if cfg.Title == "" {
		return blogerr.ConfigInvalid(path, "title", "must not be empty")
	}
	if cfg.BaseURL == "" {
		return blogerr.ConfigInvalid(path, "baseURL", "must not be empty")
	}
	if u, err := url.Parse(cfg.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		return blogerr.ConfigInvalid(path, "baseURL", fmt.Sprintf("not an absolute URL: %q", cfg.BaseURL))
	}

	if cfg.Pagination.PagerSize != nil && *cfg.Pagination.PagerSize <= 0 {
		return blogerr.ConfigInvalid(path, "pagination.pagerSize",
			fmt.Sprintf("must be a positive integer, got %d", *cfg.Pagination.PagerSize))
	}

	seen := make(map[string]struct{}, len(cfg.Menu.Main))
	for _, entry := range cfg.Menu.Main {
		if entry.Identifier == "" {
			return blogerr.ConfigInvalid(path, "menu.main", "menu entry missing identifier")
		}
		if _, dup := seen[entry.Identifier]; dup {
			return blogerr.ConfigInvalid(path, "menu.main",
				fmt.Sprintf("duplicate menu identifier %q", entry.Identifier))
		}
		seen[entry.Identifier] = struct{}{}
	}

	return nil
}
