package site

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/danielewood/blog/internal/blogerr"
	"github.com/danielewood/blog/internal/linkcheck"
	"github.com/danielewood/blog/internal/logfields"
)

// stageVerifyOutput scans the rendered HTML for broken internal references.
// Problems are reported, not fatal: a dangling link is worth knowing about
// but should not throw away an otherwise good build.
func stageVerifyOutput(_ context.Context, bs *buildState) error {
	if bs.report.RenderSkipped {
		return nil
	}

	rendered := filepath.Join(bs.gen.stageDir, "public")
	problems, err := linkcheck.CheckRenderedDir(rendered)
	if err != nil {
		return blogerr.BuildFailed(string(StageVerifyOutput), err)
	}

	for _, p := range problems {
		slog.Warn("Broken internal reference in rendered output",
			logfields.Path(p.Source),
			slog.String("destination", p.Destination),
			slog.String("reason", p.Reason))
		bs.report.Problems = append(bs.report.Problems,
			fmt.Sprintf("%s -> %s: %s", p.Source, p.Destination, p.Reason))
	}
	return nil
}
