package domain

import (
	"errors"
	"testing"
)

func newTestApplication(t *testing.T) *Application {
	t.Helper()

	app, err := NewApplication(NewOfferID(), NewCandidateID(), "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return app
}

func TestNewApplication_StartsApplied(t *testing.T) {
	app := newTestApplication(t)

	if app.Stage() != StageApplied {
		t.Errorf("expected applied stage, got %s", app.Stage())
	}
	if app.StageChangedAt().IsZero() {
		t.Error("expected stage changed timestamp to be set")
	}
}

func TestNewApplication_Validation(t *testing.T) {
	var zeroOffer OfferID
	if _, err := NewApplication(zeroOffer, NewCandidateID(), ""); !errors.Is(err, ErrApplicationOfferEmpty) {
		t.Errorf("expected ErrApplicationOfferEmpty, got %v", err)
	}

	var zeroCandidate CandidateID
	if _, err := NewApplication(NewOfferID(), zeroCandidate, ""); !errors.Is(err, ErrApplicationCandidateEmpty) {
		t.Errorf("expected ErrApplicationCandidateEmpty, got %v", err)
	}
}

func TestApplication_AdvanceWalksThePipeline(t *testing.T) {
	app := newTestApplication(t)

	expected := []Stage{StageScreening, StageInterview, StageOffer, StageHired}
	for _, want := range expected {
		got, err := app.Advance()
		if err != nil {
			t.Fatalf("unexpected error advancing to %s: %v", want, err)
		}
		if got != want {
			t.Errorf("expected %s, got %s", want, got)
		}
		if app.Stage() != want {
			t.Errorf("expected stage %s, got %s", want, app.Stage())
		}
	}

	// hired is terminal
	if _, err := app.Advance(); !errors.Is(err, ErrStageTerminal) {
		t.Errorf("expected ErrStageTerminal, got %v", err)
	}
}

func TestApplication_AdvanceToRejectsSkips(t *testing.T) {
	app := newTestApplication(t)

	if err := app.AdvanceTo(StageInterview); !errors.Is(err, ErrStageTransition) {
		t.Errorf("expected ErrStageTransition, got %v", err)
	}
	if app.Stage() != StageApplied {
		t.Errorf("failed advance should not change the stage, got %s", app.Stage())
	}

	if err := app.AdvanceTo(StageScreening); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if app.Stage() != StageScreening {
		t.Errorf("expected screening, got %s", app.Stage())
	}
}

func TestApplication_RejectFromAnyOpenStage(t *testing.T) {
	stages := []int{0, 1, 2, 3} // number of advances before rejecting

	for _, advances := range stages {
		app := newTestApplication(t)
		for i := 0; i < advances; i++ {
			if _, err := app.Advance(); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		}

		if err := app.Reject("not a fit"); err != nil {
			t.Fatalf("reject after %d advances: unexpected error: %v", advances, err)
		}
		if app.Stage() != StageRejected {
			t.Errorf("expected rejected, got %s", app.Stage())
		}
		if app.Note() != "not a fit" {
			t.Errorf("expected rejection note, got %q", app.Note())
		}
	}
}

func TestApplication_RejectFromTerminalFails(t *testing.T) {
	app := newTestApplication(t)
	if err := app.Reject(""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := app.Reject("again"); !errors.Is(err, ErrStageTerminal) {
		t.Errorf("expected ErrStageTerminal, got %v", err)
	}
}

func TestApplication_RejectKeepsNoteWhenEmpty(t *testing.T) {
	app, err := NewApplication(NewOfferID(), NewCandidateID(), "original note")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := app.Reject(""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if app.Note() != "original note" {
		t.Errorf("empty rejection note should keep the original, got %q", app.Note())
	}
}
