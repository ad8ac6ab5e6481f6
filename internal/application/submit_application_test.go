package application

import (
	"context"
	"errors"
	"testing"

	"github.com/hiredesk/hiredesk/internal/domain"
	"github.com/hiredesk/hiredesk/internal/infrastructure/logging"
)

// in-memory repositories shared across use case tests. they implement
// just enough of the domain interfaces to exercise the orchestration.

type memOfferRepo struct {
	offers map[domain.OfferID]*domain.JobOffer
}

func newMemOfferRepo() *memOfferRepo {
	return &memOfferRepo{offers: make(map[domain.OfferID]*domain.JobOffer)}
}

func (r *memOfferRepo) Save(ctx context.Context, offer *domain.JobOffer) error {
	r.offers[offer.ID()] = offer
	return nil
}

func (r *memOfferRepo) FindByID(ctx context.Context, id domain.OfferID) (*domain.JobOffer, error) {
	offer, ok := r.offers[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return offer, nil
}

func (r *memOfferRepo) FindBySlug(ctx context.Context, slug domain.Slug) (*domain.JobOffer, error) {
	for _, offer := range r.offers {
		if offer.Slug() == slug {
			return offer, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *memOfferRepo) FindByIDs(ctx context.Context, ids []domain.OfferID) ([]*domain.JobOffer, error) {
	found := make([]*domain.JobOffer, 0, len(ids))
	for _, id := range ids {
		if offer, ok := r.offers[id]; ok {
			found = append(found, offer)
		}
	}
	return found, nil
}

func (r *memOfferRepo) ListPublished(ctx context.Context, limit, offset int) ([]*domain.JobOffer, error) {
	published := make([]*domain.JobOffer, 0)
	for _, offer := range r.offers {
		if offer.IsPublished() {
			published = append(published, offer)
		}
	}
	return published, nil
}

func (r *memOfferRepo) ListAll(ctx context.Context, limit, offset int) ([]*domain.JobOffer, error) {
	all := make([]*domain.JobOffer, 0, len(r.offers))
	for _, offer := range r.offers {
		all = append(all, offer)
	}
	return all, nil
}

func (r *memOfferRepo) Exists(ctx context.Context, id domain.OfferID) (bool, error) {
	_, ok := r.offers[id]
	return ok, nil
}

func (r *memOfferRepo) CountApplications(ctx context.Context, ids []domain.OfferID) (map[domain.OfferID]int64, error) {
	return map[domain.OfferID]int64{}, nil
}

type memCandidateRepo struct {
	candidates map[domain.CandidateID]*domain.Candidate
}

func newMemCandidateRepo() *memCandidateRepo {
	return &memCandidateRepo{candidates: make(map[domain.CandidateID]*domain.Candidate)}
}

func (r *memCandidateRepo) Save(ctx context.Context, candidate *domain.Candidate) error {
	r.candidates[candidate.ID()] = candidate
	return nil
}

func (r *memCandidateRepo) FindByID(ctx context.Context, id domain.CandidateID) (*domain.Candidate, error) {
	candidate, ok := r.candidates[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return candidate, nil
}

func (r *memCandidateRepo) FindByEmail(ctx context.Context, email domain.Email) (*domain.Candidate, error) {
	for _, candidate := range r.candidates {
		if candidate.Email() == email {
			return candidate, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *memCandidateRepo) FindByIDs(ctx context.Context, ids []domain.CandidateID) ([]*domain.Candidate, error) {
	found := make([]*domain.Candidate, 0, len(ids))
	for _, id := range ids {
		if candidate, ok := r.candidates[id]; ok {
			found = append(found, candidate)
		}
	}
	return found, nil
}

type memApplicationRepo struct {
	applications map[domain.ApplicationID]*domain.Application
}

func newMemApplicationRepo() *memApplicationRepo {
	return &memApplicationRepo{applications: make(map[domain.ApplicationID]*domain.Application)}
}

func (r *memApplicationRepo) Save(ctx context.Context, application *domain.Application) error {
	r.applications[application.ID()] = application
	return nil
}

func (r *memApplicationRepo) FindByID(ctx context.Context, id domain.ApplicationID) (*domain.Application, error) {
	application, ok := r.applications[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return application, nil
}

func (r *memApplicationRepo) FindByOfferAndCandidate(ctx context.Context, offerID domain.OfferID, candidateID domain.CandidateID) (*domain.Application, error) {
	for _, application := range r.applications {
		if application.OfferID() == offerID && application.CandidateID() == candidateID {
			return application, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *memApplicationRepo) ListByOffer(ctx context.Context, offerID domain.OfferID, limit, offset int) ([]*domain.Application, error) {
	matched := make([]*domain.Application, 0)
	for _, application := range r.applications {
		if application.OfferID() == offerID {
			matched = append(matched, application)
		}
	}
	return matched, nil
}

func (r *memApplicationRepo) ListByStage(ctx context.Context, stage domain.Stage, limit, offset int) ([]*domain.Application, error) {
	matched := make([]*domain.Application, 0)
	for _, application := range r.applications {
		if application.Stage() == stage {
			matched = append(matched, application)
		}
	}
	return matched, nil
}

func (r *memApplicationRepo) ListAll(ctx context.Context) ([]*domain.Application, error) {
	all := make([]*domain.Application, 0, len(r.applications))
	for _, application := range r.applications {
		all = append(all, application)
	}
	return all, nil
}

type memNotificationRepo struct {
	notifications []*domain.Notification
}

func (r *memNotificationRepo) Save(ctx context.Context, notification *domain.Notification) error {
	r.notifications = append(r.notifications, notification)
	return nil
}

func (r *memNotificationRepo) ListPending(ctx context.Context, limit int) ([]*domain.Notification, error) {
	return r.notifications, nil
}

func (r *memNotificationRepo) UpdateStatus(ctx context.Context, id domain.NotificationID, status domain.NotificationStatus, attempts int) error {
	return nil
}

// submitFixture wires a use case over in-memory repos with one
// published offer ready to receive applications.
type submitFixture struct {
	useCase    *SubmitApplicationUseCase
	offer      *domain.JobOffer
	offers     *memOfferRepo
	candidates *memCandidateRepo
	apps       *memApplicationRepo
	notifs     *memNotificationRepo
	session    *mockSession
	publisher  domain.UserID
}

func newSubmitFixture(t *testing.T) *submitFixture {
	t.Helper()

	offers := newMemOfferRepo()
	candidates := newMemCandidateRepo()
	apps := newMemApplicationRepo()
	notifs := &memNotificationRepo{}
	session := &mockSession{}
	logger := logging.New()

	publisher := domain.NewUserID()
	slug, _ := domain.NewSlug("platform-engineer")
	offer, err := domain.NewJobOffer(slug, "Platform Engineer", publisher)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := offer.Publish(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	offers.offers[offer.ID()] = offer

	useCase := NewSubmitApplicationUseCase(
		offers, candidates, apps, notifs,
		&mockProvider{session: session},
		logger,
	)

	return &submitFixture{
		useCase:    useCase,
		offer:      offer,
		offers:     offers,
		candidates: candidates,
		apps:       apps,
		notifs:     notifs,
		session:    session,
		publisher:  publisher,
	}
}

func TestSubmitApplication_Success(t *testing.T) {
	f := newSubmitFixture(t)

	output, err := f.useCase.Execute(context.Background(), SubmitApplicationInput{
		OfferID:  f.offer.ID().String(),
		Email:    "sam@example.com",
		FullName: "Sam Field",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if output.Stage != domain.StageApplied.String() {
		t.Errorf("expected applied stage, got %s", output.Stage)
	}
	if f.session.commits != 1 {
		t.Errorf("expected 1 commit, got %d", f.session.commits)
	}
	if len(f.apps.applications) != 1 {
		t.Errorf("expected 1 stored application, got %d", len(f.apps.applications))
	}

	// the recruiter notification is written in the same transaction
	if len(f.notifs.notifications) != 1 {
		t.Fatalf("expected 1 notification, got %d", len(f.notifs.notifications))
	}
	notif := f.notifs.notifications[0]
	if notif.RecipientID() != f.publisher {
		t.Error("notification should target the offer creator")
	}
	if notif.Kind() != domain.NotificationApplicationStageChanged {
		t.Errorf("unexpected notification kind %s", notif.Kind())
	}
}

func TestSubmitApplication_UnknownOffer(t *testing.T) {
	f := newSubmitFixture(t)

	_, err := f.useCase.Execute(context.Background(), SubmitApplicationInput{
		OfferID:  domain.NewOfferID().String(),
		Email:    "sam@example.com",
		FullName: "Sam Field",
	})
	if !errors.Is(err, ErrOfferNotFound) {
		t.Errorf("expected ErrOfferNotFound, got %v", err)
	}
	if f.session.rollbacks != 1 {
		t.Errorf("expected 1 rollback, got %d", f.session.rollbacks)
	}
	if f.session.commits != 0 {
		t.Errorf("expected no commits, got %d", f.session.commits)
	}
}

func TestSubmitApplication_DraftOfferRejected(t *testing.T) {
	f := newSubmitFixture(t)

	slug, _ := domain.NewSlug("unlisted-role")
	draft, err := domain.NewJobOffer(slug, "Unlisted Role", f.publisher)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	f.offers.offers[draft.ID()] = draft

	_, err = f.useCase.Execute(context.Background(), SubmitApplicationInput{
		OfferID:  draft.ID().String(),
		Email:    "sam@example.com",
		FullName: "Sam Field",
	})
	if !errors.Is(err, ErrOfferNotOpen) {
		t.Errorf("expected ErrOfferNotOpen, got %v", err)
	}
	if len(f.apps.applications) != 0 {
		t.Error("no application should be stored for a draft offer")
	}
}

func TestSubmitApplication_DuplicateRejected(t *testing.T) {
	f := newSubmitFixture(t)
	input := SubmitApplicationInput{
		OfferID:  f.offer.ID().String(),
		Email:    "sam@example.com",
		FullName: "Sam Field",
	}

	if _, err := f.useCase.Execute(context.Background(), input); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err := f.useCase.Execute(context.Background(), input)
	if !errors.Is(err, ErrAlreadyApplied) {
		t.Errorf("expected ErrAlreadyApplied, got %v", err)
	}
	if len(f.apps.applications) != 1 {
		t.Errorf("expected 1 stored application, got %d", len(f.apps.applications))
	}
	if len(f.notifs.notifications) != 1 {
		t.Errorf("expected 1 notification, got %d", len(f.notifs.notifications))
	}
}

func TestSubmitApplication_MatchesCandidateByEmail(t *testing.T) {
	f := newSubmitFixture(t)

	first, err := f.useCase.Execute(context.Background(), SubmitApplicationInput{
		OfferID:  f.offer.ID().String(),
		Email:    "sam@example.com",
		FullName: "Sam Field",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// a second published offer, same candidate email
	slug, _ := domain.NewSlug("sre-lead")
	second, err := domain.NewJobOffer(slug, "SRE Lead", f.publisher)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := second.Publish(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	f.offers.offers[second.ID()] = second

	output, err := f.useCase.Execute(context.Background(), SubmitApplicationInput{
		OfferID:  second.ID().String(),
		Email:    "Sam@Example.com", // same address, different case
		FullName: "Sam Field",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if output.CandidateID != first.CandidateID {
		t.Error("expected the existing candidate to be reused")
	}
}

func TestSubmitApplication_InvalidEmail(t *testing.T) {
	f := newSubmitFixture(t)

	_, err := f.useCase.Execute(context.Background(), SubmitApplicationInput{
		OfferID:  f.offer.ID().String(),
		Email:    "not-an-email",
		FullName: "Sam Field",
	})
	if !errors.Is(err, domain.ErrEmailInvalid) {
		t.Errorf("expected ErrEmailInvalid, got %v", err)
	}
	if f.session.commits != 0 || f.session.rollbacks != 0 {
		t.Error("invalid email should fail before any transaction starts")
	}
}

func TestSubmitApplication_StoresCandidateContactDetails(t *testing.T) {
	f := newSubmitFixture(t)

	_, err := f.useCase.Execute(context.Background(), SubmitApplicationInput{
		OfferID:   f.offer.ID().String(),
		Email:     "rene@example.com",
		FullName:  "Rene Ortiz",
		Phone:     "+1 555 0100",
		ResumeURL: "https://example.com/rene.pdf",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(f.candidates.candidates) != 1 {
		t.Fatalf("expected 1 candidate, got %d", len(f.candidates.candidates))
	}
	for _, candidate := range f.candidates.candidates {
		if candidate.Phone() != "+1 555 0100" {
			t.Errorf("expected phone to be stored, got %q", candidate.Phone())
		}
		if candidate.ResumeURL() != "https://example.com/rene.pdf" {
			t.Errorf("expected resume url to be stored, got %q", candidate.ResumeURL())
		}
		if candidate.FullName() != "Rene Ortiz" {
			t.Errorf("expected full name, got %q", candidate.FullName())
		}
	}
}
