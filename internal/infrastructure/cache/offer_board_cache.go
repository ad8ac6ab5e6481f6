package cache

import (
	"context"

	"github.com/hiredesk/hiredesk/internal/domain"
	"github.com/hiredesk/hiredesk/internal/infrastructure/logging"
)

// boardReader serves offer ids ranked by application count.
type boardReader interface {
	GetTopOffers(ctx context.Context, limit, offset int64) ([]string, error)
}

// JobOfferRepositoryWithCache wraps a JobOfferRepository and adds a redis
// backed popularity listing. the standard repository reads keep their
// postgres ordering; only ListPopular consults the board, and it falls
// back to postgres whenever the board cannot serve.
type JobOfferRepositoryWithCache struct {
	repo   domain.JobOfferRepository
	board  boardReader
	logger *logging.Logger
}

// NewJobOfferRepositoryWithCache creates a cached job offer repository.
// if redis is nil, all calls go directly to the underlying repository.
func NewJobOfferRepositoryWithCache(
	repo domain.JobOfferRepository,
	redis *RedisClient,
	logger *logging.Logger,
) *JobOfferRepositoryWithCache {
	r := &JobOfferRepositoryWithCache{
		repo:   repo,
		logger: logger.WithComponent("offer_board_cache"),
	}
	if redis != nil {
		r.board = redis
	}
	return r
}

// FindByID delegates directly to the underlying repository.
// single entity lookups don't benefit much from caching here.
func (r *JobOfferRepositoryWithCache) FindByID(ctx context.Context, id domain.OfferID) (*domain.JobOffer, error) {
	return r.repo.FindByID(ctx, id)
}

// FindBySlug delegates directly to the underlying repository.
func (r *JobOfferRepositoryWithCache) FindBySlug(ctx context.Context, slug domain.Slug) (*domain.JobOffer, error) {
	return r.repo.FindBySlug(ctx, slug)
}

// FindByIDs delegates directly to the underlying repository.
func (r *JobOfferRepositoryWithCache) FindByIDs(ctx context.Context, ids []domain.OfferID) ([]*domain.JobOffer, error) {
	return r.repo.FindByIDs(ctx, ids)
}

// Save delegates directly to the underlying repository.
// board sync is handled by the use case, not here.
func (r *JobOfferRepositoryWithCache) Save(ctx context.Context, offer *domain.JobOffer) error {
	return r.repo.Save(ctx, offer)
}

// Exists delegates directly to the underlying repository.
func (r *JobOfferRepositoryWithCache) Exists(ctx context.Context, id domain.OfferID) (bool, error) {
	return r.repo.Exists(ctx, id)
}

// ListAll delegates directly to the underlying repository.
func (r *JobOfferRepositoryWithCache) ListAll(ctx context.Context, limit, offset int) ([]*domain.JobOffer, error) {
	return r.repo.ListAll(ctx, limit, offset)
}

// CountApplications delegates directly to the underlying repository.
func (r *JobOfferRepositoryWithCache) CountApplications(ctx context.Context, ids []domain.OfferID) (map[domain.OfferID]int64, error) {
	return r.repo.CountApplications(ctx, ids)
}

// ListPublished returns published offers in the repository's own order,
// newest published first. the board never reorders the default listing.
func (r *JobOfferRepositoryWithCache) ListPublished(ctx context.Context, limit, offset int) ([]*domain.JobOffer, error) {
	return r.repo.ListPublished(ctx, limit, offset)
}

// ListPopular returns published offers ordered by application count.
// tries the redis board first; an empty or failing board falls back to
// the postgres listing so a fresh deployment still serves offers.
func (r *JobOfferRepositoryWithCache) ListPopular(ctx context.Context, limit, offset int) ([]*domain.JobOffer, error) {
	if r.board == nil {
		return r.repo.ListPublished(ctx, limit, offset)
	}

	rawIDs, err := r.board.GetTopOffers(ctx, int64(limit), int64(offset))
	if err != nil {
		r.logger.Debug("offer board unavailable, falling back to postgres",
			"limit", limit,
			"offset", offset,
			"reason", err.Error(),
		)
		return r.repo.ListPublished(ctx, limit, offset)
	}

	ids := make([]domain.OfferID, 0, len(rawIDs))
	for _, raw := range rawIDs {
		id, err := domain.ParseOfferID(raw)
		if err != nil {
			// corrupted data in redis? log and skip
			r.logger.Warn("invalid offer id in board cache",
				"id", raw,
				"error", err.Error(),
			)
			continue
		}
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		r.logger.Warn("all board cache entries invalid, falling back to postgres")
		return r.repo.ListPublished(ctx, limit, offset)
	}

	found, err := r.repo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	byID := make(map[domain.OfferID]*domain.JobOffer, len(found))
	for _, offer := range found {
		byID[offer.ID()] = offer
	}

	// board entries can outlive their offer briefly; a closed offer whose
	// board removal failed must not leak into the public listing
	offers := make([]*domain.JobOffer, 0, len(ids))
	for _, id := range ids {
		if offer, ok := byID[id]; ok && offer.IsPublished() {
			offers = append(offers, offer)
		}
	}
	return offers, nil
}
