package pipeline

import "fmt"

// Stage is a step of a verification run.
type Stage string

const (
	StageIdle        Stage = "idle"
	StageAcquiring   Stage = "acquiring"
	StagePrompting   Stage = "prompting"
	StageInvoking    Stage = "invoking"
	StageParsing     Stage = "parsing"
	StageNormalizing Stage = "normalizing"
	StageCalibrating Stage = "calibrating"
	StageDone        Stage = "done"
	StageFailed      Stage = "failed"
)

// StageError records the stage a run failed in. Err is usually a *faults.Error.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }
