package domain

import (
	"errors"
	"strings"
	"testing"
)

func newTestOffer(t *testing.T) *JobOffer {
	t.Helper()

	slug, err := NewSlug("backend-engineer")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	offer, err := NewJobOffer(slug, "Backend Engineer", NewUserID())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return offer
}

func TestNewJobOffer_StartsAsDraft(t *testing.T) {
	offer := newTestOffer(t)

	if offer.Status() != OfferStatusDraft {
		t.Errorf("expected draft status, got %s", offer.Status())
	}
	if offer.IsPublished() {
		t.Error("new offer should not be published")
	}
	if offer.PublishedAt() != nil {
		t.Error("new offer should have no published timestamp")
	}
	if offer.ID().IsZero() {
		t.Error("new offer should have an id")
	}
}

func TestNewJobOffer_Validation(t *testing.T) {
	slug, _ := NewSlug("backend-engineer")

	if _, err := NewJobOffer(slug, "", NewUserID()); !errors.Is(err, ErrOfferTitleEmpty) {
		t.Errorf("expected ErrOfferTitleEmpty, got %v", err)
	}

	longTitle := strings.Repeat("a", 256)
	if _, err := NewJobOffer(slug, longTitle, NewUserID()); !errors.Is(err, ErrOfferTitleTooLong) {
		t.Errorf("expected ErrOfferTitleTooLong, got %v", err)
	}

	var zeroUser UserID
	if _, err := NewJobOffer(slug, "Backend Engineer", zeroUser); !errors.Is(err, ErrOfferCreatorEmpty) {
		t.Errorf("expected ErrOfferCreatorEmpty, got %v", err)
	}
}

func TestJobOffer_PublishLifecycle(t *testing.T) {
	offer := newTestOffer(t)

	if err := offer.Publish(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !offer.IsPublished() {
		t.Error("offer should be published")
	}
	if offer.PublishedAt() == nil {
		t.Error("published offer should have a timestamp")
	}

	// publishing twice is rejected
	if err := offer.Publish(); !errors.Is(err, ErrOfferNotDraft) {
		t.Errorf("expected ErrOfferNotDraft, got %v", err)
	}

	if err := offer.Close(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if offer.Status() != OfferStatusClosed {
		t.Errorf("expected closed status, got %s", offer.Status())
	}

	// closing twice is rejected
	if err := offer.Close(); !errors.Is(err, ErrOfferNotPublished) {
		t.Errorf("expected ErrOfferNotPublished, got %v", err)
	}
}

func TestJobOffer_CloseRequiresPublished(t *testing.T) {
	offer := newTestOffer(t)

	if err := offer.Close(); !errors.Is(err, ErrOfferNotPublished) {
		t.Errorf("expected ErrOfferNotPublished, got %v", err)
	}
}

func TestJobOffer_UpdateDetails(t *testing.T) {
	offer := newTestOffer(t)

	err := offer.UpdateDetails("Senior Backend Engineer", "desc", "Engineering", "Remote", 90000, 130000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if offer.Title() != "Senior Backend Engineer" {
		t.Errorf("expected updated title, got %q", offer.Title())
	}
	if offer.SalaryMin() != 90000 || offer.SalaryMax() != 130000 {
		t.Errorf("expected salary range to be set, got %d-%d", offer.SalaryMin(), offer.SalaryMax())
	}
}

func TestJobOffer_UpdateDetailsRejectsInvertedSalary(t *testing.T) {
	offer := newTestOffer(t)

	err := offer.UpdateDetails("Backend Engineer", "", "", "", 130000, 90000)
	if !errors.Is(err, ErrOfferSalaryRange) {
		t.Errorf("expected ErrOfferSalaryRange, got %v", err)
	}
}

func TestJobOffer_PublishedOfferCannotBeEdited(t *testing.T) {
	offer := newTestOffer(t)

	if err := offer.Publish(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	err := offer.UpdateDetails("New Title", "", "", "", 0, 0)
	if !errors.Is(err, ErrOfferNotDraft) {
		t.Errorf("expected ErrOfferNotDraft, got %v", err)
	}
}
