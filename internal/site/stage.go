package site

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/danielewood/blog/internal/logfields"
	"github.com/danielewood/blog/internal/metrics"
)

// StageName is a strongly-typed identifier for a build stage.
type StageName string

// Canonical stage names, in execution order.
const (
	StagePrepareOutput  StageName = "prepare_output"
	StageGenerateConfig StageName = "generate_config"
	StageCopyContent    StageName = "copy_content"
	StageWriteIndexes   StageName = "write_indexes"
	StageRunRenderer    StageName = "run_renderer"
	StageVerifyOutput   StageName = "verify_output"
)

// stageFunc executes one build stage against the shared build state.
type stageFunc func(ctx context.Context, bs *buildState) error

// stageDef pairs a stage name with its executing function.
type stageDef struct {
	name StageName
	fn   stageFunc
}

// runStages executes stages sequentially, timing each and emitting metrics.
// The first failure aborts the run; remaining stages are not attempted.
func runStages(ctx context.Context, bs *buildState, stages []stageDef) error {
	for _, st := range stages {
		if err := ctx.Err(); err != nil {
			bs.report.recordStage(st.name, metrics.ResultCanceled, 0, bs.gen.recorder)
			return err
		}

		start := time.Now()
		err := st.fn(ctx, bs)
		elapsed := time.Since(start)

		switch {
		case err == nil:
			bs.report.recordStage(st.name, metrics.ResultSuccess, elapsed, bs.gen.recorder)
			slog.Debug("Stage completed", logfields.Stage(string(st.name)),
				logfields.DurationMS(float64(elapsed.Milliseconds())))
		case errors.Is(err, context.Canceled):
			bs.report.recordStage(st.name, metrics.ResultCanceled, elapsed, bs.gen.recorder)
			return err
		default:
			bs.report.recordStage(st.name, metrics.ResultFatal, elapsed, bs.gen.recorder)
			bs.report.Errors = append(bs.report.Errors, err.Error())
			return err
		}
	}
	return nil
}
