package domain

import "errors"

// Stage represents the pipeline stage of an application.
// defined as enum to enforce valid values at compile time.
type Stage string

const (
	StageApplied   Stage = "applied"
	StageScreening Stage = "screening"
	StageInterview Stage = "interview"
	StageOffer     Stage = "offer"
	StageHired     Stage = "hired"
	StageRejected  Stage = "rejected"
)

var (
	ErrInvalidStage         = errors.New("invalid application stage")
	ErrStageTransition      = errors.New("stage transition not allowed")
	ErrStageTerminal        = errors.New("application is in a terminal stage")
	ErrStageNotInterviewing = errors.New("application is not in the interview stage")
)

// validStages for quick lookup.
var validStages = map[Stage]bool{
	StageApplied:   true,
	StageScreening: true,
	StageInterview: true,
	StageOffer:     true,
	StageHired:     true,
	StageRejected:  true,
}

// stageOrder defines the forward pipeline. each stage may only advance
// to its immediate successor; rejection is handled separately.
var stageOrder = map[Stage]Stage{
	StageApplied:   StageScreening,
	StageScreening: StageInterview,
	StageInterview: StageOffer,
	StageOffer:     StageHired,
}

// ParseStage validates and returns a Stage from a string.
func ParseStage(s string) (Stage, error) {
	st := Stage(s)
	if !validStages[st] {
		return "", ErrInvalidStage
	}
	return st, nil
}

// String returns the string representation of the Stage.
func (s Stage) String() string {
	return string(s)
}

// IsValid returns true if the stage is valid.
func (s Stage) IsValid() bool {
	return validStages[s]
}

// IsTerminal returns true if no further transitions are possible.
func (s Stage) IsTerminal() bool {
	return s == StageHired || s == StageRejected
}

// Next returns the stage the pipeline advances to from this one.
// returns ErrStageTerminal for terminal stages.
func (s Stage) Next() (Stage, error) {
	if s.IsTerminal() {
		return "", ErrStageTerminal
	}
	next, ok := stageOrder[s]
	if !ok {
		return "", ErrInvalidStage
	}
	return next, nil
}

// CanAdvanceTo returns true if the pipeline allows moving to target.
// only the immediate successor is reachable; rejection goes through Reject.
func (s Stage) CanAdvanceTo(target Stage) bool {
	next, err := s.Next()
	if err != nil {
		return false
	}
	return next == target
}
