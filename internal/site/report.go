package site

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/danielewood/blog/internal/metrics"
)

// BuildOutcome is the final classification of a build.
type BuildOutcome string

const (
	OutcomeSuccess BuildOutcome = "success"
	OutcomeFailed  BuildOutcome = "failed"
	OutcomeSkipped BuildOutcome = "skipped"
)

// BuildReport captures what one build did. It is persisted next to the
// rendered output as build-report.json.
type BuildReport struct {
	BuildID string    `json:"build_id"`
	Start   time.Time `json:"start"`
	End     time.Time `json:"end"`

	Outcome   BuildOutcome `json:"outcome"`
	Documents int          `json:"documents"`
	Sections  int          `json:"sections"`
	Tags      int          `json:"tags"`
	Aliases   int          `json:"aliases"`

	RenderSkipped bool `json:"render_skipped,omitempty"`

	StageDurations map[string]float64 `json:"stage_durations_ms"`
	Problems       []string           `json:"problems,omitempty"`
	Errors         []string           `json:"errors,omitempty"`
}

func newBuildReport() *BuildReport {
	return &BuildReport{
		BuildID:        uuid.NewString(),
		Start:          time.Now(),
		StageDurations: make(map[string]float64),
	}
}

func (r *BuildReport) recordStage(stage StageName, result metrics.ResultLabel, d time.Duration, rec metrics.Recorder) {
	r.StageDurations[string(stage)] = float64(d.Milliseconds())
	if rec != nil {
		rec.IncStageResult(string(stage), result)
		rec.ObserveStageDuration(string(stage), d)
	}
}

func (r *BuildReport) finish() {
	r.End = time.Now()
	if r.Outcome == "" {
		if len(r.Errors) == 0 {
			r.Outcome = OutcomeSuccess
		} else {
			r.Outcome = OutcomeFailed
		}
	}
}

// Persist writes the report into the output directory (best effort caller).
func (r *BuildReport) Persist(outputDir string) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(outputDir, "build-report.json"), data, 0o644)
}
