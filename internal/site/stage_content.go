package site

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/danielewood/blog/internal/blogerr"
	"github.com/danielewood/blog/internal/content"
	"github.com/danielewood/blog/internal/frontmatter"
	"github.com/danielewood/blog/internal/index"
	"github.com/danielewood/blog/internal/logfields"
)

// stagePrepareOutput creates the staged tree skeleton and copies static
// assets through unchanged.
func stagePrepareOutput(_ context.Context, bs *buildState) error {
	for _, dir := range []string{"content", "static"} {
		if err := os.MkdirAll(filepath.Join(bs.gen.stageDir, dir), 0o755); err != nil {
			return blogerr.StagingError("create "+dir, err)
		}
	}
	staticSrc := filepath.Join(bs.gen.baseDir, "static")
	if fi, err := os.Stat(staticSrc); err == nil && fi.IsDir() {
		if err := copyTree(staticSrc, filepath.Join(bs.gen.stageDir, "static")); err != nil {
			return blogerr.StagingError("copy static assets", err)
		}
	}
	return nil
}

func stageGenerateConfig(_ context.Context, bs *buildState) error {
	return bs.gen.writeRendererConfig()
}

// stageCopyContent writes every document into the staged tree with its
// resolved front matter: typed fields re-encoded, lastmod filled from the
// effective modification time, theme extras passed through.
func stageCopyContent(ctx context.Context, bs *buildState) error {
	for i := range bs.docs {
		if err := ctx.Err(); err != nil {
			return err
		}
		doc := &bs.docs[i]
		if err := writeResolvedDocument(bs.gen.stageDir, doc); err != nil {
			return err
		}
	}
	slog.Debug("Content copied", slog.Int("documents", len(bs.docs)))
	return nil
}

func writeResolvedDocument(stageDir string, doc *content.Document) error {
	meta := doc.Meta
	if meta.Lastmod.IsZero() {
		meta.Lastmod = frontmatter.DateTime{Time: doc.LastMod()}
	}
	if meta.Summary == "" {
		meta.Summary = content.Summarize(doc.Body)
	}

	fm, err := frontmatter.Encode(meta, doc.Extra)
	if err != nil {
		return blogerr.InternalError("encode front matter", err).WithContext("path", doc.RelPath)
	}

	blk := frontmatter.Block{
		FrontMatter: fm,
		Body:        doc.Body,
		Present:     true,
		Style:       frontmatter.Style{Newline: "\n", HasTrailingNewline: true},
	}

	dest := filepath.Join(stageDir, "content", filepath.FromSlash(doc.RelPath))
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return blogerr.StagingError("create content directory", err)
	}
	if err := os.WriteFile(dest, blk.Join(), 0o644); err != nil {
		return blogerr.StagingError("write document", err).WithContext("path", doc.RelPath)
	}
	for _, alias := range meta.Aliases {
		slog.Debug("Alias redirect carried into resolved tree",
			logfields.Alias(alias), logfields.Path(doc.RelPath))
	}
	return nil
}

func copyTree(src, dst string) error {
	return filepath.WalkDir(src, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, p)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)
		if d.IsDir() {
			return os.MkdirAll(target, 0o755)
		}
		data, err := os.ReadFile(p)
		if err != nil {
			return err
		}
		return os.WriteFile(target, data, 0o644)
	})
}

// stageWriteIndexes writes the section and taxonomy-term listing stubs so
// every list page exists in the resolved tree with its display title.
func stageWriteIndexes(_ context.Context, bs *buildState) error {
	sections := make(map[string]struct{})
	for _, doc := range bs.idx.Documents {
		if doc.Section != "" {
			sections[doc.Section] = struct{}{}
		}
	}

	for section := range sections {
		p := filepath.Join(bs.gen.stageDir, "content", section, "_index.md")
		if err := writeIndexStub(p, titleCase(section)); err != nil {
			return err
		}
		slog.Debug("Section index written", logfields.Path(p))
	}

	taxonomies := []struct {
		name  string
		terms index.Taxonomy
	}{
		{"tags", bs.idx.Tags},
		{"categories", bs.idx.Categories},
		{"series", bs.idx.Series},
	}
	for _, tax := range taxonomies {
		for _, key := range tax.terms.Terms() {
			term, _ := tax.terms.Get(key)
			p := filepath.Join(bs.gen.stageDir, "content", tax.name, key, "_index.md")
			if err := writeIndexStub(p, term.Display); err != nil {
				return err
			}
			slog.Debug("Term index written",
				logfields.Taxonomy(tax.name), logfields.Term(key), logfields.Path(p))
		}
	}

	bs.report.Documents = len(bs.idx.Documents)
	bs.report.Sections = len(sections)
	bs.report.Tags = len(bs.idx.Tags)
	bs.report.Aliases = len(bs.idx.Aliases)
	return nil
}

func writeIndexStub(path, title string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return blogerr.StagingError("create listing directory", err)
	}
	stub := "---\ntitle: " + title + "\n---\n"
	if err := os.WriteFile(path, []byte(stub), 0o644); err != nil {
		return blogerr.StagingError("write listing index", err).WithContext("path", path)
	}
	return nil
}

// titleCase converts a kebab or snake section name for display:
// getting-started -> Getting Started.
func titleCase(name string) string {
	name = strings.ReplaceAll(name, "_", "-")
	parts := strings.Split(name, "-")
	for i, part := range parts {
		if part == "" {
			continue
		}
		parts[i] = strings.ToUpper(part[:1]) + part[1:]
	}
	return strings.Join(parts, " ")
}
