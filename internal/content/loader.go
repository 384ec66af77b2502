package content

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/danielewood/blog/internal/blogerr"
	"github.com/danielewood/blog/internal/config"
	"github.com/danielewood/blog/internal/frontmatter"
	"github.com/danielewood/blog/internal/logfields"
)

// parseConcurrency bounds the parallel front matter parses. Each parse is
// independent and side-effect free, so ordering is imposed only afterward.
const parseConcurrency = 8

// LastModResolver reports the last modification time for a content-root
// relative path, typically backed by git history.
type LastModResolver interface {
	LastMod(relPath string) (time.Time, bool)
}

// Loader enumerates and parses all Markdown files under the content root.
type Loader struct {
	cfg  *config.Config
	root string

	// GitInfo, when set, fills Document.GitLastMod.
	GitInfo LastModResolver

	// Now is injected for build-flag filtering tests.
	Now func() time.Time
}

// NewLoader creates a Loader rooted at cfg.ContentDir resolved against baseDir.
func NewLoader(cfg *config.Config, baseDir string) *Loader {
	return &Loader{
		cfg:  cfg,
		root: filepath.Join(baseDir, cfg.ContentDir),
		Now:  time.Now,
	}
}

// Load returns every content document ordered by date descending, with ties
// broken by file name ascending (stable). Drafts, future-dated, and expired
// documents are excluded unless the corresponding build flag is set.
//
// Section stubs (_index.md) carry no required front matter and are not
// content documents; the generator re-creates them in the resolved tree.
func (l *Loader) Load(ctx context.Context) ([]Document, error) {
	paths, err := l.enumerate()
	if err != nil {
		return nil, err
	}

	docs := make([]Document, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(parseConcurrency)
	for i, p := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			doc, err := l.parseFile(p)
			if err != nil {
				return err
			}
			docs[i] = doc
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	docs = l.filter(docs)

	sort.SliceStable(docs, func(i, j int) bool {
		di, dj := docs[i].Meta.Date.Time, docs[j].Meta.Date.Time
		if !di.Equal(dj) {
			return di.After(dj)
		}
		return docs[i].RelPath < docs[j].RelPath
	})

	slog.Debug("Content loaded", slog.Int("documents", len(docs)), logfields.Path(l.root))
	return docs, nil
}

func (l *Loader) enumerate() ([]string, error) {
	if _, err := os.Stat(l.root); os.IsNotExist(err) {
		return nil, blogerr.New(blogerr.CategoryContent, blogerr.SeverityFatal, "content directory not found").
			WithContext("path", l.root)
	}

	var paths []string
	err := filepath.WalkDir(l.root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if strings.HasPrefix(d.Name(), ".") && p != l.root {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.EqualFold(filepath.Ext(d.Name()), ".md") {
			return nil
		}
		if d.Name() == "_index.md" {
			return nil
		}
		paths = append(paths, p)
		return nil
	})
	if err != nil {
		return nil, blogerr.Wrap(err, blogerr.CategoryFileSystem, blogerr.SeverityFatal, "content walk failed").
			WithContext("path", l.root)
	}
	sort.Strings(paths)
	return paths, nil
}

func (l *Loader) parseFile(p string) (Document, error) {
	rel, err := filepath.Rel(l.root, p)
	if err != nil {
		return Document{}, blogerr.InternalError("relativize content path", err)
	}
	rel = filepath.ToSlash(rel)

	data, err := os.ReadFile(p)
	if err != nil {
		return Document{}, blogerr.ContentRead(rel, err)
	}

	blk, err := frontmatter.Split(data)
	if err != nil {
		return Document{}, blogerr.FrontMatterParse(rel, err)
	}
	if !blk.Present {
		return Document{}, blogerr.FrontMatter(rel, "document has no front matter block")
	}

	meta, extra, err := frontmatter.Decode(blk.FrontMatter, rel)
	if err != nil {
		return Document{}, err
	}

	doc := Document{
		Path:    p,
		RelPath: rel,
		Slug:    strings.TrimSuffix(filepath.Base(rel), filepath.Ext(rel)),
		Section: sectionOf(rel),
		Meta:    meta,
		Extra:   extra,
		Body:    blk.Body,
		Style:   blk.Style,
	}
	if l.GitInfo != nil {
		if t, ok := l.GitInfo.LastMod(rel); ok {
			doc.GitLastMod = t
		}
	}
	return doc, nil
}

func (l *Loader) filter(docs []Document) []Document {
	now := l.Now()
	kept := docs[:0]
	for _, d := range docs {
		switch {
		case d.Meta.Draft && !l.cfg.BuildDrafts:
			slog.Debug("Skipping draft", logfields.Path(d.RelPath))
		case d.Future(now) && !l.cfg.BuildFuture:
			slog.Debug("Skipping future-dated document", logfields.Path(d.RelPath))
		case d.Expired(now) && !l.cfg.BuildExpired:
			slog.Debug("Skipping expired document", logfields.Path(d.RelPath))
		default:
			kept = append(kept, d)
		}
	}
	return kept
}

func sectionOf(rel string) string {
	if i := strings.IndexByte(rel, '/'); i >= 0 {
		return rel[:i]
	}
	return ""
}
