package main

import (
	"context"
	"log/slog"
	"os/signal"
	"path/filepath"
	"syscall"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/danielewood/blog/internal/metrics"
	"github.com/danielewood/blog/internal/server"
	"github.com/danielewood/blog/internal/site"
	"github.com/danielewood/blog/internal/state"
)

// runServe builds once, then serves the output and rebuilds on content or
// configuration changes.
func runServe() error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	reg := prom.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	recorder := metrics.NewPrometheusRecorder(reg)

	// buildOnce stages and renders one already-loaded site. Triggers with
	// unchanged inputs (touched but identical files, the periodic schedule)
	// are skipped via the same fingerprints the incremental build uses.
	var lastConfigHash, lastContentHash string
	buildOnce := func(ctx context.Context, ls *loadedSite) error {
		gen := site.NewGenerator(ls.cfg, ls.baseDir, site.Options{
			OutputDir:    CLI.Serve.Output,
			SkipRender:   CLI.Serve.SkipRender,
			RenderBinary: CLI.Serve.Renderer,
		}).SetRecorder(recorder)

		configHash := gen.ConfigHash()
		contentHash := state.Fingerprint(ls.docs)
		if configHash == lastConfigHash && contentHash == lastContentHash {
			slog.Debug("Inputs unchanged, skipping rebuild")
			return nil
		}

		if _, err := gen.Build(ctx, ls.docs, ls.idx); err != nil {
			return err
		}
		lastConfigHash, lastContentHash = configHash, contentHash
		return nil
	}

	// rebuild reloads everything from disk so config edits take effect.
	rebuild := func(ctx context.Context) error {
		ls, err := loadSite(ctx, CLI.Config)
		if err != nil {
			return err
		}
		return buildOnce(ctx, ls)
	}

	// Initial load doubles as the source for the serving paths below.
	ls, err := loadSite(ctx, CLI.Config)
	if err != nil {
		return err
	}
	if err := buildOnce(ctx, ls); err != nil {
		return err
	}
	outputDir := CLI.Serve.Output
	if outputDir == "" {
		outputDir = filepath.Join(ls.baseDir, "public")
	}
	siteDir := filepath.Join(outputDir, "public")
	if CLI.Serve.SkipRender {
		siteDir = outputDir
	}

	srv := server.New(server.Options{
		Addr:            CLI.Serve.Addr,
		SiteDir:         siteDir,
		ContentDir:      filepath.Join(ls.baseDir, ls.cfg.ContentDir),
		ConfigPath:      CLI.Config,
		RebuildInterval: CLI.Serve.RebuildInterval,
		Registry:        reg,
	}, rebuild)

	return srv.Serve(ctx)
}
