package main

import (
	"context"
	"log/slog"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/danielewood/blog/internal/config"
	"github.com/danielewood/blog/internal/content"
	"github.com/danielewood/blog/internal/gitinfo"
	"github.com/danielewood/blog/internal/index"
	"github.com/danielewood/blog/internal/logfields"
	"github.com/danielewood/blog/internal/site"
	"github.com/danielewood/blog/internal/state"
)

const stateDBName = ".blog-state.db"

// loadedSite bundles everything the commands derive from one config path.
type loadedSite struct {
	cfg     *config.Config
	baseDir string
	docs    []content.Document
	idx     *index.Index
}

// loadSite loads configuration, content, and the derived index. Any failure
// here is fatal to the caller.
func loadSite(ctx context.Context, configPath string) (*loadedSite, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	baseDir := filepath.Dir(configPath)

	loader := content.NewLoader(cfg, baseDir)
	if cfg.EnableGitInfo {
		resolver, err := gitinfo.Open(baseDir, filepath.Join(baseDir, cfg.ContentDir))
		if err != nil {
			return nil, err
		}
		loader.GitInfo = resolver
	}

	docs, err := loader.Load(ctx)
	if err != nil {
		return nil, err
	}

	idx, err := index.Build(docs)
	if err != nil {
		return nil, err
	}

	return &loadedSite{cfg: cfg, baseDir: baseDir, docs: docs, idx: idx}, nil
}

func runBuild() error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	ls, err := loadSite(ctx, CLI.Config)
	if err != nil {
		return err
	}

	gen := site.NewGenerator(ls.cfg, ls.baseDir, site.Options{
		OutputDir:    CLI.Build.Output,
		SkipRender:   CLI.Build.SkipRender,
		RenderBinary: CLI.Build.Renderer,
	})

	var store *state.Store
	contentHash := state.Fingerprint(ls.docs)
	configHash := gen.ConfigHash()

	if CLI.Build.Incremental {
		store, err = state.Open(filepath.Join(ls.baseDir, stateDBName))
		if err != nil {
			return err
		}
		defer func() { _ = store.Close() }()

		unchanged, err := store.UnchangedSinceLastSuccess(ctx, configHash, contentHash)
		if err != nil {
			return err
		}
		if unchanged {
			slog.Info("Inputs unchanged since last successful build, skipping",
				logfields.Output(gen.OutputDir()))
			return nil
		}
	}

	report, err := gen.Build(ctx, ls.docs, ls.idx)
	if store != nil && report != nil {
		rec := state.BuildRecord{
			ID:          report.BuildID,
			Started:     report.Start,
			Finished:    report.End,
			Outcome:     string(report.Outcome),
			ConfigHash:  configHash,
			ContentHash: contentHash,
			Documents:   report.Documents,
		}
		if recErr := store.RecordBuild(ctx, rec, state.DocumentRecords(ls.docs)); recErr != nil {
			slog.Warn("Failed to record build state", logfields.Error(recErr))
		}
	}
	return err
}
