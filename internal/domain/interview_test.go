package domain

import (
	"errors"
	"testing"
	"time"
)

func newTestInterview(t *testing.T) *Interview {
	t.Helper()

	iv, err := NewInterview(
		NewApplicationID(),
		NewUserID(),
		time.Now().Add(24*time.Hour),
		time.Hour,
		"Room 3",
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return iv
}

func TestNewInterview_StartsScheduled(t *testing.T) {
	iv := newTestInterview(t)

	if iv.Status() != InterviewStatusScheduled {
		t.Errorf("expected scheduled status, got %s", iv.Status())
	}
	if iv.Score() != nil {
		t.Error("new interview should have no score")
	}
}

func TestNewInterview_Validation(t *testing.T) {
	future := time.Now().Add(24 * time.Hour)

	var zeroApp ApplicationID
	if _, err := NewInterview(zeroApp, NewUserID(), future, time.Hour, ""); !errors.Is(err, ErrInterviewApplicationEmpty) {
		t.Errorf("expected ErrInterviewApplicationEmpty, got %v", err)
	}

	var zeroUser UserID
	if _, err := NewInterview(NewApplicationID(), zeroUser, future, time.Hour, ""); !errors.Is(err, ErrInterviewInterviewerEmpty) {
		t.Errorf("expected ErrInterviewInterviewerEmpty, got %v", err)
	}

	past := time.Now().Add(-time.Hour)
	if _, err := NewInterview(NewApplicationID(), NewUserID(), past, time.Hour, ""); !errors.Is(err, ErrInterviewInPast) {
		t.Errorf("expected ErrInterviewInPast, got %v", err)
	}
}

func TestNewInterview_DurationBounds(t *testing.T) {
	future := time.Now().Add(24 * time.Hour)

	tests := []struct {
		name     string
		duration time.Duration
		wantErr  bool
	}{
		{"minimum", 15 * time.Minute, false},
		{"maximum", 4 * time.Hour, false},
		{"typical", time.Hour, false},
		{"too_short", 10 * time.Minute, true},
		{"too_long", 5 * time.Hour, true},
		{"zero", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewInterview(NewApplicationID(), NewUserID(), future, tt.duration, "")

			if tt.wantErr {
				if !errors.Is(err, ErrInterviewDuration) {
					t.Errorf("expected ErrInterviewDuration, got %v", err)
				}
			} else if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestInterview_Complete(t *testing.T) {
	iv := newTestInterview(t)

	if err := iv.Complete("strong candidate", 8); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if iv.Status() != InterviewStatusCompleted {
		t.Errorf("expected completed, got %s", iv.Status())
	}
	if iv.Feedback() != "strong candidate" {
		t.Errorf("expected feedback to be recorded, got %q", iv.Feedback())
	}
	if iv.Score() == nil || *iv.Score() != 8 {
		t.Errorf("expected score 8, got %v", iv.Score())
	}

	// terminal states reject further transitions
	if err := iv.Complete("again", 5); !errors.Is(err, ErrInterviewNotScheduled) {
		t.Errorf("expected ErrInterviewNotScheduled, got %v", err)
	}
	if err := iv.Cancel(); !errors.Is(err, ErrInterviewNotScheduled) {
		t.Errorf("expected ErrInterviewNotScheduled, got %v", err)
	}
}

func TestInterview_CompleteScoreBounds(t *testing.T) {
	iv := newTestInterview(t)

	if err := iv.Complete("", 11); !errors.Is(err, ErrInterviewScore) {
		t.Errorf("expected ErrInterviewScore, got %v", err)
	}
	if err := iv.Complete("", -1); !errors.Is(err, ErrInterviewScore) {
		t.Errorf("expected ErrInterviewScore, got %v", err)
	}

	// a failed completion leaves the interview schedulable
	if iv.Status() != InterviewStatusScheduled {
		t.Errorf("expected scheduled, got %s", iv.Status())
	}
	if err := iv.Complete("fine", 0); err != nil {
		t.Errorf("score 0 should be allowed, got %v", err)
	}
}

func TestInterview_CancelAndNoShow(t *testing.T) {
	cancelled := newTestInterview(t)
	if err := cancelled.Cancel(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cancelled.Status() != InterviewStatusCancelled {
		t.Errorf("expected cancelled, got %s", cancelled.Status())
	}

	noShow := newTestInterview(t)
	if err := noShow.MarkNoShow(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if noShow.Status() != InterviewStatusNoShow {
		t.Errorf("expected no_show, got %s", noShow.Status())
	}
}
