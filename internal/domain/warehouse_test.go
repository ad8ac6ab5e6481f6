package domain

import (
	"testing"
	"time"
)

func buildWarehouseFixture(t *testing.T) (*JobOffer, *Candidate, *Application) {
	t.Helper()

	slug, _ := NewSlug("data-engineer")
	offer, err := NewJobOffer(slug, "Data Engineer", NewUserID())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	email, _ := NewEmail("sam@example.com")
	candidate, err := NewCandidate(email, "Sam Field")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	app, err := NewApplication(offer.ID(), candidate.ID(), "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	return offer, candidate, app
}

func TestBuildWarehouseSnapshot_EmptyInput(t *testing.T) {
	now := time.Now().UTC()
	snapshot := BuildWarehouseSnapshot(&WarehouseInput{GeneratedAt: now})

	if !snapshot.GeneratedAt.Equal(now) {
		t.Errorf("expected generated at %v, got %v", now, snapshot.GeneratedAt)
	}
	if len(snapshot.DimOffers) != 0 {
		t.Errorf("expected no offer dims, got %d", len(snapshot.DimOffers))
	}
	if len(snapshot.FactApplications) != 0 {
		t.Errorf("expected no facts, got %d", len(snapshot.FactApplications))
	}
	// the stage dimension is static and always present
	if len(snapshot.DimStages) != 6 {
		t.Errorf("expected 6 stage dims, got %d", len(snapshot.DimStages))
	}
}

func TestBuildWarehouseSnapshot_BuildsFacts(t *testing.T) {
	offer, candidate, app := buildWarehouseFixture(t)

	snapshot := BuildWarehouseSnapshot(&WarehouseInput{
		Offers:       []*JobOffer{offer},
		Candidates:   []*Candidate{candidate},
		Applications: []*Application{app},
		GeneratedAt:  time.Now().UTC(),
	})

	if len(snapshot.DimOffers) != 1 {
		t.Fatalf("expected 1 offer dim, got %d", len(snapshot.DimOffers))
	}
	if snapshot.DimOffers[0].OfferKey != offer.ID().String() {
		t.Errorf("expected offer key %s, got %s", offer.ID(), snapshot.DimOffers[0].OfferKey)
	}

	if len(snapshot.FactApplications) != 1 {
		t.Fatalf("expected 1 fact, got %d", len(snapshot.FactApplications))
	}

	fact := snapshot.FactApplications[0]
	if fact.OfferKey != offer.ID().String() {
		t.Errorf("fact offer key mismatch: %s", fact.OfferKey)
	}
	if fact.CandidateKey != candidate.ID().String() {
		t.Errorf("fact candidate key mismatch: %s", fact.CandidateKey)
	}
	if fact.StageKey != StageApplied.String() {
		t.Errorf("expected applied stage key, got %s", fact.StageKey)
	}
	if fact.DaysInPipeline != 0 {
		t.Errorf("fresh application should have 0 days in pipeline, got %d", fact.DaysInPipeline)
	}
}

func TestBuildWarehouseSnapshot_DropsDanglingFacts(t *testing.T) {
	offer, candidate, app := buildWarehouseFixture(t)

	// orphan application referencing an offer not in the input
	orphan, err := NewApplication(NewOfferID(), candidate.ID(), "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	snapshot := BuildWarehouseSnapshot(&WarehouseInput{
		Offers:       []*JobOffer{offer},
		Candidates:   []*Candidate{candidate},
		Applications: []*Application{app, orphan},
		GeneratedAt:  time.Now().UTC(),
	})

	if len(snapshot.FactApplications) != 1 {
		t.Fatalf("expected dangling fact to be dropped, got %d facts", len(snapshot.FactApplications))
	}
	if snapshot.FactApplications[0].ApplicationKey != app.ID().String() {
		t.Error("expected the surviving fact to be the well-formed application")
	}
}

func TestBuildWarehouseSnapshot_StageDimMarksTerminals(t *testing.T) {
	snapshot := BuildWarehouseSnapshot(&WarehouseInput{GeneratedAt: time.Now().UTC()})

	terminals := map[string]bool{}
	for _, dim := range snapshot.DimStages {
		terminals[dim.StageKey] = dim.IsTerminal
	}

	if !terminals["hired"] || !terminals["rejected"] {
		t.Error("hired and rejected should be terminal in the stage dimension")
	}
	if terminals["applied"] || terminals["interview"] {
		t.Error("open stages should not be terminal in the stage dimension")
	}
}
