package site

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/danielewood/blog/internal/blogerr"
)

// Staging keeps partially-written builds out of the final output directory:
// every stage writes under a sibling staging directory, which replaces the
// output directory only after all stages succeed.

func (g *Generator) beginStaging() error {
	parent := filepath.Dir(g.outputDir)
	if err := os.MkdirAll(parent, 0o755); err != nil {
		return blogerr.StagingError("create output parent", err)
	}
	stage, err := os.MkdirTemp(parent, filepath.Base(g.outputDir)+".staging-")
	if err != nil {
		return blogerr.StagingError("create staging directory", err)
	}
	g.stageDir = stage
	return nil
}

func (g *Generator) abortStaging() {
	if g.stageDir == "" {
		return
	}
	_ = os.RemoveAll(g.stageDir)
	g.stageDir = ""
}

func (g *Generator) finalizeStaging() error {
	if g.stageDir == "" {
		return blogerr.StagingError("finalize", fmt.Errorf("no staging directory"))
	}
	old := g.outputDir + ".old"
	_ = os.RemoveAll(old)

	if _, err := os.Stat(g.outputDir); err == nil {
		if err := os.Rename(g.outputDir, old); err != nil {
			return blogerr.StagingError("move previous output aside", err)
		}
	}
	if err := os.Rename(g.stageDir, g.outputDir); err != nil {
		// Try to restore the previous output before reporting.
		_ = os.Rename(old, g.outputDir)
		return blogerr.StagingError("promote staging directory", err)
	}
	_ = os.RemoveAll(old)
	g.stageDir = ""
	return nil
}
