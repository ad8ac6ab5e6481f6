package domain

import (
	"errors"
	"testing"
)

func TestParseStage_Validation(t *testing.T) {
	tests := []struct {
		name  string
		input string
		valid bool
	}{
		{"applied", "applied", true},
		{"screening", "screening", true},
		{"interview", "interview", true},
		{"offer", "offer", true},
		{"hired", "hired", true},
		{"rejected", "rejected", true},
		{"invalid", "shortlisted", false},
		{"empty", "", false},
		{"uppercase", "APPLIED", false}, // case sensitive
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stage, err := ParseStage(tt.input)

			if tt.valid {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				if !stage.IsValid() {
					t.Error("expected stage to be valid")
				}
			} else {
				if !errors.Is(err, ErrInvalidStage) {
					t.Errorf("expected ErrInvalidStage, got %v", err)
				}
			}
		})
	}
}

func TestStage_Next(t *testing.T) {
	tests := []struct {
		stage   Stage
		next    Stage
		wantErr error
	}{
		{StageApplied, StageScreening, nil},
		{StageScreening, StageInterview, nil},
		{StageInterview, StageOffer, nil},
		{StageOffer, StageHired, nil},
		{StageHired, "", ErrStageTerminal},
		{StageRejected, "", ErrStageTerminal},
	}

	for _, tt := range tests {
		t.Run(tt.stage.String(), func(t *testing.T) {
			next, err := tt.stage.Next()

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if next != tt.next {
				t.Errorf("expected %s, got %s", tt.next, next)
			}
		})
	}
}

func TestStage_IsTerminal(t *testing.T) {
	terminal := []Stage{StageHired, StageRejected}
	for _, s := range terminal {
		if !s.IsTerminal() {
			t.Errorf("expected %s to be terminal", s)
		}
	}

	open := []Stage{StageApplied, StageScreening, StageInterview, StageOffer}
	for _, s := range open {
		if s.IsTerminal() {
			t.Errorf("expected %s to not be terminal", s)
		}
	}
}

func TestStage_CanAdvanceTo(t *testing.T) {
	// only the immediate successor is reachable
	if !StageApplied.CanAdvanceTo(StageScreening) {
		t.Error("applied should advance to screening")
	}
	if StageApplied.CanAdvanceTo(StageInterview) {
		t.Error("applied should not skip to interview")
	}
	if StageApplied.CanAdvanceTo(StageApplied) {
		t.Error("a stage should not advance to itself")
	}
	if StageScreening.CanAdvanceTo(StageApplied) {
		t.Error("the pipeline should not move backwards")
	}
	if StageHired.CanAdvanceTo(StageRejected) {
		t.Error("terminal stages should not advance")
	}
	// rejection goes through Reject, never CanAdvanceTo
	if StageOffer.CanAdvanceTo(StageRejected) {
		t.Error("rejected should not be reachable by advancing")
	}
}
