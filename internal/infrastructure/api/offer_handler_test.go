package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/hiredesk/hiredesk/internal/domain"
	"github.com/hiredesk/hiredesk/internal/infrastructure/cache"
	"github.com/hiredesk/hiredesk/internal/infrastructure/logging"
)

type stubOfferRepo struct {
	offers []*domain.JobOffer
}

func (r *stubOfferRepo) Save(ctx context.Context, offer *domain.JobOffer) error {
	r.offers = append(r.offers, offer)
	return nil
}

func (r *stubOfferRepo) FindByID(ctx context.Context, id domain.OfferID) (*domain.JobOffer, error) {
	for _, offer := range r.offers {
		if offer.ID() == id {
			return offer, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *stubOfferRepo) FindBySlug(ctx context.Context, slug domain.Slug) (*domain.JobOffer, error) {
	for _, offer := range r.offers {
		if offer.Slug() == slug {
			return offer, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *stubOfferRepo) FindByIDs(ctx context.Context, ids []domain.OfferID) ([]*domain.JobOffer, error) {
	var found []*domain.JobOffer
	for _, offer := range r.offers {
		for _, id := range ids {
			if offer.ID() == id {
				found = append(found, offer)
			}
		}
	}
	return found, nil
}

func (r *stubOfferRepo) ListPublished(ctx context.Context, limit, offset int) ([]*domain.JobOffer, error) {
	var published []*domain.JobOffer
	for _, offer := range r.offers {
		if offer.IsPublished() {
			published = append(published, offer)
		}
	}
	return published, nil
}

func (r *stubOfferRepo) ListAll(ctx context.Context, limit, offset int) ([]*domain.JobOffer, error) {
	return r.offers, nil
}

func (r *stubOfferRepo) Exists(ctx context.Context, id domain.OfferID) (bool, error) {
	_, err := r.FindByID(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return false, nil
	}
	return err == nil, err
}

func (r *stubOfferRepo) CountApplications(ctx context.Context, ids []domain.OfferID) (map[domain.OfferID]int64, error) {
	return map[domain.OfferID]int64{}, nil
}

// stubPopularLister returns a canned ranking.
type stubPopularLister struct {
	offers []*domain.JobOffer
}

func (l *stubPopularLister) ListPopular(ctx context.Context, limit, offset int) ([]*domain.JobOffer, error) {
	return l.offers, nil
}

func newPublishedOffer(t *testing.T, slug, title string) *domain.JobOffer {
	t.Helper()
	s, err := domain.NewSlug(slug)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	offer, err := domain.NewJobOffer(s, title, domain.NewUserID())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := offer.Publish(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return offer
}

func listOffersRequest(t *testing.T, h *OfferHandler, target string) (*httptest.ResponseRecorder, listOffersResponse) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.ListOffers(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var body listOffersResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unexpected error decoding response: %v", err)
	}
	return rec, body
}

func TestListOffers_DefaultListingUsesRepositoryOrder(t *testing.T) {
	first := newPublishedOffer(t, "platform-engineer", "Platform Engineer")
	second := newPublishedOffer(t, "data-engineer", "Data Engineer")
	repo := &stubOfferRepo{offers: []*domain.JobOffer{first, second}}
	// a lister that would reverse the order must not touch the default listing
	lister := &stubPopularLister{offers: []*domain.JobOffer{second, first}}
	h := NewOfferHandler(nil, repo).WithPopularListing(lister)

	rec, body := listOffersRequest(t, h, "/offers")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if len(body.Offers) != 2 {
		t.Fatalf("expected 2 offers, got %d", len(body.Offers))
	}
	if body.Offers[0].ID != first.ID().String() {
		t.Errorf("expected repository order for the default listing")
	}
}

func TestListOffers_PopularServesListerOrder(t *testing.T) {
	first := newPublishedOffer(t, "frontend-engineer", "Frontend Engineer")
	second := newPublishedOffer(t, "backend-engineer", "Backend Engineer")
	repo := &stubOfferRepo{offers: []*domain.JobOffer{first, second}}
	lister := &stubPopularLister{offers: []*domain.JobOffer{second, first}}
	h := NewOfferHandler(nil, repo).WithPopularListing(lister)

	rec, body := listOffersRequest(t, h, "/offers?sort=popular")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if len(body.Offers) != 2 {
		t.Fatalf("expected 2 offers, got %d", len(body.Offers))
	}
	if body.Offers[0].ID != second.ID().String() {
		t.Errorf("expected popularity order, got %s first", body.Offers[0].Slug)
	}
}

func TestListOffers_PopularEmptyBoardStillServesOffers(t *testing.T) {
	offer := newPublishedOffer(t, "site-reliability", "Site Reliability Engineer")
	repo := &stubOfferRepo{offers: []*domain.JobOffer{offer}}
	// no redis behind the lister, as on a fresh deployment
	lister := cache.NewJobOfferRepositoryWithCache(repo, nil, logging.New())
	h := NewOfferHandler(nil, repo).WithPopularListing(lister)

	rec, body := listOffersRequest(t, h, "/offers?sort=popular")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 with the published listing, got %d", rec.Code)
	}
	if len(body.Offers) != 1 {
		t.Fatalf("expected 1 offer from the fallback listing, got %d", len(body.Offers))
	}
}

func TestListOffers_PopularWithoutListerFallsBack(t *testing.T) {
	offer := newPublishedOffer(t, "ml-engineer", "ML Engineer")
	repo := &stubOfferRepo{offers: []*domain.JobOffer{offer}}
	h := NewOfferHandler(nil, repo)

	rec, body := listOffersRequest(t, h, "/offers?sort=popular")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if len(body.Offers) != 1 {
		t.Fatalf("expected 1 offer, got %d", len(body.Offers))
	}
}
