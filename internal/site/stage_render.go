package site

import (
	"context"
	"log/slog"
	"os"
	"os/exec"
	"time"

	"github.com/danielewood/blog/internal/blogerr"
)

// renderTimeout bounds the external renderer run. Blog-sized sites render in
// seconds; a hang here means a broken theme, not a slow build.
const renderTimeout = 5 * time.Minute

// stageRunRenderer invokes the external renderer over the staged tree. The
// renderer is an external collaborator: the staged tree is its fully-resolved
// input and nothing about its page generation is reimplemented here.
func stageRunRenderer(ctx context.Context, bs *buildState) error {
	if bs.gen.opts.SkipRender {
		bs.report.RenderSkipped = true
		slog.Info("Render stage skipped, resolved tree is the output")
		return nil
	}

	binary := bs.gen.opts.RenderBinary
	if binary == "" {
		binary = "hugo"
	}
	if _, err := exec.LookPath(binary); err != nil {
		return blogerr.RenderFailed(err).WithContext("binary", binary)
	}

	ctx, cancel := context.WithTimeout(ctx, renderTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, binary,
		"--source", bs.gen.stageDir,
		"--destination", "public",
		"--quiet",
	)
	cmd.Stdout = os.Stderr
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return blogerr.RenderFailed(err)
	}
	return nil
}
