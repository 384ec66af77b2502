// Package site stages the fully-resolved site tree consumed by the external
// renderer and orchestrates the build stage pipeline.
package site

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"path/filepath"
	"sort"

	"github.com/danielewood/blog/internal/config"
	"github.com/danielewood/blog/internal/content"
	"github.com/danielewood/blog/internal/index"
	"github.com/danielewood/blog/internal/logfields"
	"github.com/danielewood/blog/internal/metrics"
)

// Options controls a single build.
type Options struct {
	OutputDir    string // final output directory
	SkipRender   bool   // stop at the resolved tree; do not invoke the renderer
	RenderBinary string // external renderer binary, default "hugo"
}

// Generator turns loaded documents and their index into the rendered site.
type Generator struct {
	cfg      *config.Config
	baseDir  string // site source root (config, content/, static/)
	opts     Options
	recorder metrics.Recorder

	outputDir string
	stageDir  string // ephemeral staging dir for the current build
}

// buildState carries mutable state across stages.
type buildState struct {
	gen    *Generator
	docs   []content.Document
	idx    *index.Index
	report *BuildReport
}

// NewGenerator creates a generator for one site source directory.
func NewGenerator(cfg *config.Config, baseDir string, opts Options) *Generator {
	if opts.OutputDir == "" {
		opts.OutputDir = filepath.Join(baseDir, "public")
	}
	return &Generator{
		cfg:       cfg,
		baseDir:   baseDir,
		opts:      opts,
		outputDir: filepath.Clean(opts.OutputDir),
		recorder:  metrics.NoopRecorder{},
	}
}

// SetRecorder injects a metrics recorder. Returns the generator for chaining.
func (g *Generator) SetRecorder(r metrics.Recorder) *Generator {
	if r == nil {
		g.recorder = metrics.NoopRecorder{}
		return g
	}
	g.recorder = r
	return g
}

// OutputDir is the final output location for this generator.
func (g *Generator) OutputDir() string { return g.outputDir }

// Build stages the resolved tree and runs the renderer. On failure the
// staging directory is discarded and the previous output stays untouched.
func (g *Generator) Build(ctx context.Context, docs []content.Document, idx *index.Index) (*BuildReport, error) {
	report := newBuildReport()
	slog.Info("Starting site build",
		logfields.BuildID(report.BuildID),
		logfields.Output(g.outputDir),
		slog.Int("documents", len(docs)))

	if err := g.beginStaging(); err != nil {
		return nil, err
	}

	bs := &buildState{gen: g, docs: docs, idx: idx, report: report}
	stages := []stageDef{
		{StagePrepareOutput, stagePrepareOutput},
		{StageGenerateConfig, stageGenerateConfig},
		{StageCopyContent, stageCopyContent},
		{StageWriteIndexes, stageWriteIndexes},
		{StageRunRenderer, stageRunRenderer},
		{StageVerifyOutput, stageVerifyOutput},
	}

	if err := runStages(ctx, bs, stages); err != nil {
		g.abortStaging()
		report.Outcome = OutcomeFailed
		report.finish()
		g.observe(report)
		return report, err
	}

	report.finish()
	if err := g.finalizeStaging(); err != nil {
		report.Outcome = OutcomeFailed
		g.observe(report)
		return report, err
	}

	if err := report.Persist(g.outputDir); err != nil {
		slog.Warn("Failed to persist build report", logfields.Error(err))
	}
	g.observe(report)
	g.recorder.SetDocuments(len(docs))
	g.recorder.SetTaxonomyTerms("tags", len(idx.Tags))
	g.recorder.SetTaxonomyTerms("categories", len(idx.Categories))
	g.recorder.SetTaxonomyTerms("series", len(idx.Series))

	slog.Info("Site build completed",
		logfields.BuildID(report.BuildID),
		logfields.Output(g.outputDir),
		slog.Int("documents", report.Documents),
		slog.Int("sections", report.Sections))
	return report, nil
}

func (g *Generator) observe(report *BuildReport) {
	g.recorder.ObserveBuildDuration(report.End.Sub(report.Start))
	g.recorder.IncBuildOutcome(metrics.OutcomeLabel(report.Outcome))
}

// ConfigHash fingerprints the configuration fields that must trigger a
// rebuild even when content is unchanged.
func (g *Generator) ConfigHash() string {
	h := sha256.New()
	cfg := g.cfg
	h.Write([]byte(cfg.BaseURL))
	h.Write([]byte(cfg.Title))
	h.Write([]byte(cfg.Theme))
	fmt.Fprint(h, cfg.PageSize(), cfg.BuildDrafts, cfg.BuildFuture, cfg.BuildExpired, cfg.EnableGitInfo)
	fmt.Fprintf(h, "%+v", cfg.Markup.Highlight)
	for _, e := range cfg.SortedMainMenu() {
		fmt.Fprintf(h, "%s|%s|%s|%d;", e.Identifier, e.Name, e.URL, e.Weight)
	}
	keys := make([]string, 0, len(cfg.Params))
	for k := range cfg.Params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(h, "%s=%v;", k, cfg.Params[k])
	}
	return hex.EncodeToString(h.Sum(nil))
}
