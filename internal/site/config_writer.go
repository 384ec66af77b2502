package site

import (
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/danielewood/blog/internal/blogerr"
	"github.com/danielewood/blog/internal/logfields"
)

// writeRendererConfig emits hugo.yaml into the staged tree: the
// fully-resolved configuration the external renderer consumes. All defaults
// have been applied by config.Load, so what lands here is complete.
func (g *Generator) writeRendererConfig() error {
	cfg := g.cfg

	highlight := map[string]any{
		"style":      cfg.Markup.Highlight.Style,
		"lineNos":    cfg.Markup.Highlight.LineNos,
		"codeFences": cfg.Markup.Highlight.CodeFences,
	}
	if cfg.Markup.Highlight.AnchorLineNos {
		highlight["anchorLineNos"] = true
	}
	if cfg.Markup.Highlight.GuessSyntax {
		highlight["guessSyntax"] = true
	}
	if cfg.Markup.Highlight.NoClasses != nil {
		highlight["noClasses"] = *cfg.Markup.Highlight.NoClasses
	}

	root := map[string]any{
		"baseURL":       cfg.BaseURL,
		"title":         cfg.Title,
		"theme":         cfg.Theme,
		"languageCode":  "en-us",
		"pagination":    map[string]any{"pagerSize": cfg.PageSize()},
		"buildDrafts":   cfg.BuildDrafts,
		"buildFuture":   cfg.BuildFuture,
		"buildExpired":  cfg.BuildExpired,
		"enableGitInfo": cfg.EnableGitInfo,
		"markup": map[string]any{
			"goldmark":  map[string]any{"renderer": map[string]any{"unsafe": true}},
			"highlight": highlight,
		},
		"params": cfg.Params,
	}
	if cfg.EnableRobotsTXT {
		root["enableRobotsTXT"] = true
	}
	if cfg.GoogleAnalytics != "" {
		root["googleAnalytics"] = cfg.GoogleAnalytics
	}

	if len(cfg.Menu.Main) > 0 {
		entries := make([]map[string]any, 0, len(cfg.Menu.Main))
		for _, e := range cfg.SortedMainMenu() {
			m := map[string]any{
				"identifier": e.Identifier,
				"name":       e.Name,
				"url":        e.URL,
				"weight":     e.Weight,
			}
			entries = append(entries, m)
		}
		root["menu"] = map[string]any{"main": entries}
	}

	data, err := yaml.Marshal(root)
	if err != nil {
		return blogerr.InternalError("marshal renderer config", err)
	}
	configPath := filepath.Join(g.stageDir, "hugo.yaml")
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		return blogerr.StagingError("write renderer config", err)
	}
	slog.Debug("Generated renderer configuration", logfields.Path(configPath))
	return nil
}
