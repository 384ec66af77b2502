// Package content enumerates and parses the Markdown content documents.
package content

import (
	"path"
	"strings"
	"time"

	"github.com/danielewood/blog/internal/frontmatter"
)

// Document is one Markdown content file, immutable after loading and
// identified by its path-derived slug.
type Document struct {
	Path    string // absolute path on disk
	RelPath string // path relative to the content root, e.g. posts/apc-ap9606.md
	Slug    string // file name without extension
	Section string // first directory under the content root ("" at the root)

	Meta  frontmatter.Meta
	Extra map[string]any // unknown front matter keys, passed through untouched
	Body  []byte
	Style frontmatter.Style

	// GitLastMod is the last commit touching this file, when git info is
	// enabled and the file is tracked.
	GitLastMod time.Time
}

// CanonicalURL is the document's output URL, derived from its content path.
func (d *Document) CanonicalURL() string {
	rel := strings.TrimSuffix(d.RelPath, path.Ext(d.RelPath))
	return "/" + path.Clean(rel) + "/"
}

// LastMod resolves the effective modification time: explicit lastmod front
// matter wins, then git history, then the publication date.
func (d *Document) LastMod() time.Time {
	if !d.Meta.Lastmod.IsZero() {
		return d.Meta.Lastmod.Time
	}
	if !d.GitLastMod.IsZero() {
		return d.GitLastMod
	}
	return d.Meta.Date.Time
}

// Expired reports whether the document's expiry date has passed.
func (d *Document) Expired(now time.Time) bool {
	return !d.Meta.ExpiryDate.IsZero() && d.Meta.ExpiryDate.Before(now)
}

// Future reports whether the document is dated after now.
func (d *Document) Future(now time.Time) bool {
	return d.Meta.Date.After(now)
}
