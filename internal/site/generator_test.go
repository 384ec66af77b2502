package site

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/danielewood/blog/internal/config"
	"github.com/danielewood/blog/internal/content"
	"github.com/danielewood/blog/internal/frontmatter"
	"github.com/danielewood/blog/internal/index"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.Parse([]byte(`baseURL: https://blog.example.com/
title: Example Blog
pagination:
  pagerSize: 5
menu:
  main:
    - identifier: tags
      name: Tags
      url: /tags/
      weight: 20
    - identifier: archives
      name: Archives
      url: /archives/
      weight: 10
markup:
  highlight:
    style: monokai
    lineNos: true
`), "config.yaml")
	require.NoError(t, err)
	return cfg
}

func testDocs() []content.Document {
	mk := func(rel, title string, date time.Time, mut func(*frontmatter.Meta)) content.Document {
		meta := frontmatter.Meta{Title: title, Date: frontmatter.DateTime{Time: date}}
		if mut != nil {
			mut(&meta)
		}
		return content.Document{
			RelPath: rel,
			Slug:    filepath.Base(rel[:len(rel)-3]),
			Section: "posts",
			Meta:    meta,
			Body:    []byte("# " + title + "\n"),
		}
	}
	return []content.Document{
		mk("posts/opentofu-state.md", "OpenTofu State Management",
			time.Date(2024, 12, 30, 0, 0, 0, 0, time.UTC), func(m *frontmatter.Meta) {
				m.Tags = []string{"opentofu"}
			}),
		mk("posts/apc-ap9606.md", "Resetting and Upgrading an APC AP9606",
			time.Date(2019, 4, 5, 0, 0, 0, 0, time.UTC), func(m *frontmatter.Meta) {
				m.Aliases = []string{"/2019/04/resetting-and-upgrading-apc-ap9606.html"}
			}),
	}
}

func runBuild(t *testing.T, cfg *config.Config, docs []content.Document) (string, *BuildReport) {
	t.Helper()
	baseDir := t.TempDir()
	out := filepath.Join(baseDir, "resolved")

	idx, err := index.Build(docs)
	require.NoError(t, err)

	gen := NewGenerator(cfg, baseDir, Options{OutputDir: out, SkipRender: true})
	report, err := gen.Build(context.Background(), docs, idx)
	require.NoError(t, err)
	return out, report
}

func TestBuild_StagesResolvedTree(t *testing.T) {
	out, report := runBuild(t, testConfig(t), testDocs())

	require.FileExists(t, filepath.Join(out, "hugo.yaml"))
	require.FileExists(t, filepath.Join(out, "content", "posts", "opentofu-state.md"))
	require.FileExists(t, filepath.Join(out, "content", "posts", "apc-ap9606.md"))
	require.FileExists(t, filepath.Join(out, "content", "posts", "_index.md"))
	require.FileExists(t, filepath.Join(out, "build-report.json"))

	// Taxonomy terms get listing stubs carrying their display spelling.
	stub, err := os.ReadFile(filepath.Join(out, "content", "tags", "opentofu", "_index.md"))
	require.NoError(t, err)
	require.Contains(t, string(stub), "title: opentofu")

	require.Equal(t, OutcomeSuccess, report.Outcome)
	require.True(t, report.RenderSkipped)
	require.Equal(t, 2, report.Documents)
	require.Equal(t, 1, report.Sections)
	require.Equal(t, 1, report.Aliases)
	require.NotEmpty(t, report.BuildID)
	require.Contains(t, report.StageDurations, string(StageCopyContent))
}

func TestBuild_RendererConfig_FullyResolved(t *testing.T) {
	out, _ := runBuild(t, testConfig(t), testDocs())

	data, err := os.ReadFile(filepath.Join(out, "hugo.yaml"))
	require.NoError(t, err)

	var root map[string]any
	require.NoError(t, yaml.Unmarshal(data, &root))

	require.Equal(t, "https://blog.example.com/", root["baseURL"])
	require.Equal(t, "Example Blog", root["title"])
	require.Equal(t, config.DefaultTheme, root["theme"])

	pagination, ok := root["pagination"].(map[string]any)
	require.True(t, ok)
	require.Equal(t, 5, pagination["pagerSize"])

	// Menu entries are emitted in weight order.
	menu := root["menu"].(map[string]any)["main"].([]any)
	first := menu[0].(map[string]any)
	require.Equal(t, "archives", first["identifier"])

	markup := root["markup"].(map[string]any)
	highlight := markup["highlight"].(map[string]any)
	require.Equal(t, "monokai", highlight["style"])
	require.Equal(t, true, highlight["lineNos"])
}

func TestBuild_ResolvedDocument_CarriesAliasesAndLastmod(t *testing.T) {
	out, _ := runBuild(t, testConfig(t), testDocs())

	data, err := os.ReadFile(filepath.Join(out, "content", "posts", "apc-ap9606.md"))
	require.NoError(t, err)

	blk, err := frontmatter.Split(data)
	require.NoError(t, err)
	require.True(t, blk.Present)

	meta, _, err := frontmatter.Decode(blk.FrontMatter, "apc-ap9606.md")
	require.NoError(t, err)
	require.Equal(t, []string{"/2019/04/resetting-and-upgrading-apc-ap9606.html"}, meta.Aliases)
	// lastmod falls back to the publication date when nothing newer is known.
	require.True(t, meta.Lastmod.Equal(meta.Date.Time))
}

func TestBuild_CopiesStaticAssets(t *testing.T) {
	baseDir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(baseDir, "static", "images"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(baseDir, "static", "images", "card.jpg"), []byte("jpg"), 0o644))

	docs := testDocs()
	idx, err := index.Build(docs)
	require.NoError(t, err)

	out := filepath.Join(baseDir, "resolved")
	gen := NewGenerator(testConfig(t), baseDir, Options{OutputDir: out, SkipRender: true})
	_, err = gen.Build(context.Background(), docs, idx)
	require.NoError(t, err)

	require.FileExists(t, filepath.Join(out, "static", "images", "card.jpg"))
}

func TestBuild_RendererMissing_FailsAndPreservesPreviousOutput(t *testing.T) {
	baseDir := t.TempDir()
	out := filepath.Join(baseDir, "resolved")

	docs := testDocs()
	idx, err := index.Build(docs)
	require.NoError(t, err)

	// First build succeeds with render skipped.
	gen := NewGenerator(testConfig(t), baseDir, Options{OutputDir: out, SkipRender: true})
	_, err = gen.Build(context.Background(), docs, idx)
	require.NoError(t, err)
	marker := filepath.Join(out, "hugo.yaml")
	require.FileExists(t, marker)

	// Second build demands a renderer binary that does not exist; the
	// previous output must survive untouched.
	gen2 := NewGenerator(testConfig(t), baseDir, Options{OutputDir: out, RenderBinary: "definitely-not-a-renderer-binary"})
	report, err := gen2.Build(context.Background(), docs, idx)
	require.Error(t, err)
	require.Equal(t, OutcomeFailed, report.Outcome)
	require.FileExists(t, marker)
}

func TestConfigHash_SensitiveToRelevantFields(t *testing.T) {
	baseDir := t.TempDir()
	cfg := testConfig(t)
	g1 := NewGenerator(cfg, baseDir, Options{})
	h1 := g1.ConfigHash()
	require.Equal(t, h1, NewGenerator(cfg, baseDir, Options{}).ConfigHash())

	cfg2 := testConfig(t)
	cfg2.Title = "Renamed Blog"
	require.NotEqual(t, h1, NewGenerator(cfg2, baseDir, Options{}).ConfigHash())
}
