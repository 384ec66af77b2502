package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/danielewood/blog/internal/blogerr"
	"github.com/danielewood/blog/internal/linkcheck"
)

// runCheck validates the site without building: configuration, front matter,
// alias uniqueness (all enforced by loading), then internal link targets.
func runCheck() error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	ls, err := loadSite(ctx, CLI.Config)
	if err != nil {
		return err
	}

	problems := linkcheck.CheckDocuments(ls.idx)
	if CLI.Check.Rendered != "" {
		rendered, err := linkcheck.CheckRenderedDir(CLI.Check.Rendered)
		if err != nil {
			return err
		}
		problems = append(problems, rendered...)
	}

	for _, p := range problems {
		fmt.Fprintf(os.Stderr, "%s: broken reference %q: %s\n", p.Source, p.Destination, p.Reason)
	}
	if len(problems) > 0 {
		return blogerr.New(blogerr.CategoryContent, blogerr.SeverityFatal,
			fmt.Sprintf("%d broken internal reference(s)", len(problems)))
	}

	slog.Info("Site check passed",
		slog.Int("documents", len(ls.docs)),
		slog.Int("tags", len(ls.idx.Tags)),
		slog.Int("aliases", len(ls.idx.Aliases)))
	return nil
}
