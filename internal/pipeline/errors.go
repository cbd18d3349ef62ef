package pipeline

import "fmt"

// Stage names the per-item step that failed.
type Stage string

const (
	StageClassify Stage = "classify"
	StageGenerate Stage = "generate"
	StagePublish  Stage = "publish"
)

// StageError reports which step failed for which item. Any StageError aborts the run.
type StageError struct {
	Stage Stage
	Title string
	Link  string
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s %q: %v", e.Stage, e.Title, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }
