package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/danielewood/blog/internal/blogerr"
	"github.com/danielewood/blog/internal/config"
	"github.com/danielewood/blog/internal/frontmatter"
	"github.com/danielewood/blog/internal/logfields"
)

// runNew scaffolds a draft post under the configured content directory.
func runNew(slug string) error {
	if strings.ContainsAny(slug, "/\\ ") {
		return blogerr.New(blogerr.CategoryContent, blogerr.SeverityFatal,
			fmt.Sprintf("invalid slug %q: use lowercase words separated by dashes", slug))
	}

	cfg, err := config.Load(CLI.Config)
	if err != nil {
		return err
	}
	baseDir := filepath.Dir(CLI.Config)

	dest := filepath.Join(baseDir, cfg.ContentDir, "posts", slug+".md")
	if _, err := os.Stat(dest); err == nil {
		return blogerr.New(blogerr.CategoryContent, blogerr.SeverityFatal, "post already exists").
			WithContext("path", dest)
	}

	meta := frontmatter.Meta{
		Title: titleFromSlug(slug),
		Date:  frontmatter.DateTime{Time: time.Now()},
		Draft: true,
	}
	fm, err := frontmatter.Encode(meta, nil)
	if err != nil {
		return blogerr.InternalError("encode front matter", err)
	}

	blk := frontmatter.Block{
		FrontMatter: fm,
		Body:        []byte("\n"),
		Present:     true,
		Style:       frontmatter.Style{Newline: "\n", HasTrailingNewline: true},
	}

	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return blogerr.ContentRead(dest, err)
	}
	if err := os.WriteFile(dest, blk.Join(), 0o644); err != nil {
		return blogerr.ContentRead(dest, err)
	}

	slog.Info("New draft created", logfields.Path(dest), logfields.Slug(slug))
	return nil
}

// titleFromSlug turns getting-started into Getting Started.
func titleFromSlug(slug string) string {
	parts := strings.Split(strings.ReplaceAll(slug, "_", "-"), "-")
	for i, part := range parts {
		if part == "" {
			continue
		}
		parts[i] = strings.ToUpper(part[:1]) + part[1:]
	}
	return strings.Join(parts, " ")
}
