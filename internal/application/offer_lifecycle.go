package application

import (
	"context"
	"errors"
	"fmt"

	"github.com/hiredesk/hiredesk/internal/domain"
	"github.com/hiredesk/hiredesk/internal/infrastructure/logging"
)

// OfferBoardSync abstracts the cache layer for the public offer board.
// allows the use case to remain decoupled from redis specifics.
type OfferBoardSync interface {
	UpdateOfferScore(ctx context.Context, offerID string, applications float64) error
	RemoveOffer(ctx context.Context, offerID string) error
}

// OfferCacheInvalidator abstracts the in-memory offer availability cache.
type OfferCacheInvalidator interface {
	Invalidate(id domain.OfferID)
}

// OfferLifecycleUseCase handles creating, editing, publishing, and closing
// job offers. every mutation runs in its own unit of work.
type OfferLifecycleUseCase struct {
	offerRepo   domain.JobOfferRepository
	userRepo    domain.UserRepository
	sessions    SessionProvider
	board       OfferBoardSync
	invalidator OfferCacheInvalidator
	logger      *logging.Logger
}

// NewOfferLifecycleUseCase creates a new OfferLifecycleUseCase.
func NewOfferLifecycleUseCase(
	offerRepo domain.JobOfferRepository,
	userRepo domain.UserRepository,
	sessions SessionProvider,
	logger *logging.Logger,
) *OfferLifecycleUseCase {
	return &OfferLifecycleUseCase{
		offerRepo: offerRepo,
		userRepo:  userRepo,
		sessions:  sessions,
		logger:    logger.WithComponent("offer_lifecycle"),
	}
}

// WithBoard sets the offer board sync (redis cache).
// when set, published offers appear on the board and closed ones leave it.
func (uc *OfferLifecycleUseCase) WithBoard(board OfferBoardSync) *OfferLifecycleUseCase {
	uc.board = board
	return uc
}

// WithCacheInvalidator sets the availability cache invalidator.
func (uc *OfferLifecycleUseCase) WithCacheInvalidator(inv OfferCacheInvalidator) *OfferLifecycleUseCase {
	uc.invalidator = inv
	return uc
}

// CreateOfferInput contains the data needed to create a job offer.
type CreateOfferInput struct {
	// Slug is the URL-friendly identifier (3-100 chars, lowercase alphanumeric with hyphens)
	Slug string

	// Title is the position title (1-255 chars)
	Title string

	// optional descriptive fields
	Description string
	Department  string
	Location    string
	SalaryMin   int
	SalaryMax   int

	// CreatorExternalID is the authenticated user's external ID from JWT (sub claim)
	// this comes from the validated JWT, NOT from the request body
	CreatorExternalID string
}

// CreateOfferOutput contains the result of offer creation.
type CreateOfferOutput struct {
	OfferID   string
	Slug      string
	Title     string
	Status    string
	CreatedBy string
}

// use case specific errors
var (
	ErrCreatorNotFound   = errors.New("creator user not found")
	ErrSlugAlreadyExists = errors.New("offer with this slug already exists")
	ErrNotAuthorized     = errors.New("user role does not allow this operation")
)

// Create creates a new draft offer.
// validates input, looks up the creator, and persists the offer atomically.
func (uc *OfferLifecycleUseCase) Create(ctx context.Context, input CreateOfferInput) (*CreateOfferOutput, error) {
	if input.CreatorExternalID == "" {
		uc.logger.Error("create offer failed: missing creator external id")
		return nil, fmt.Errorf("creator external id is required")
	}

	slug, err := domain.NewSlug(input.Slug)
	if err != nil {
		uc.logger.Info("create offer failed: invalid slug",
			"slug", input.Slug,
			"error", err.Error(),
		)
		return nil, fmt.Errorf("invalid slug: %w", err)
	}

	creator, err := uc.userRepo.FindByExternalID(ctx, input.CreatorExternalID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrCreatorNotFound
		}
		return nil, fmt.Errorf("looking up creator: %w", err)
	}

	if !creator.Role().CanManageOffers() {
		uc.logger.Info("create offer rejected: insufficient role",
			"user_id", creator.ID().String(),
			"role", creator.Role().String(),
		)
		return nil, ErrNotAuthorized
	}

	var offer *domain.JobOffer
	err = WithUnitOfWork(ctx, uc.sessions, func(ctx context.Context, uow *UnitOfWork) error {
		existing, err := uc.offerRepo.FindBySlug(ctx, slug)
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("checking slug availability: %w", err)
		}
		if existing != nil {
			return ErrSlugAlreadyExists
		}

		offer, err = domain.NewJobOffer(slug, input.Title, creator.ID())
		if err != nil {
			return fmt.Errorf("creating offer: %w", err)
		}

		if input.Description != "" || input.Department != "" || input.Location != "" || input.SalaryMax > 0 {
			if err := offer.UpdateDetails(input.Title, input.Description, input.Department, input.Location, input.SalaryMin, input.SalaryMax); err != nil {
				return fmt.Errorf("setting offer details: %w", err)
			}
		}

		if err := uc.offerRepo.Save(ctx, offer); err != nil {
			return fmt.Errorf("saving offer: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("offer created",
		"offer_id", offer.ID().String(),
		"slug", offer.Slug().String(),
		"created_by", creator.ID().String(),
	)

	return &CreateOfferOutput{
		OfferID:   offer.ID().String(),
		Slug:      offer.Slug().String(),
		Title:     offer.Title(),
		Status:    offer.Status().String(),
		CreatedBy: creator.ID().String(),
	}, nil
}

// UpdateOfferInput contains the editable fields of a draft offer.
type UpdateOfferInput struct {
	OfferID     string
	Title       string
	Description string
	Department  string
	Location    string
	SalaryMin   int
	SalaryMax   int
}

// Update edits a draft offer's descriptive fields.
func (uc *OfferLifecycleUseCase) Update(ctx context.Context, input UpdateOfferInput) error {
	offerID, err := domain.ParseOfferID(input.OfferID)
	if err != nil {
		return fmt.Errorf("invalid offer id: %w", err)
	}

	return WithUnitOfWork(ctx, uc.sessions, func(ctx context.Context, uow *UnitOfWork) error {
		offer, err := uc.offerRepo.FindByID(ctx, offerID)
		if err != nil {
			return fmt.Errorf("offer lookup: %w", err)
		}

		if err := offer.UpdateDetails(input.Title, input.Description, input.Department, input.Location, input.SalaryMin, input.SalaryMax); err != nil {
			return err
		}

		if err := uc.offerRepo.Save(ctx, offer); err != nil {
			return fmt.Errorf("saving offer: %w", err)
		}
		return nil
	})
}

// Publish moves a draft offer to published so it accepts applications.
func (uc *OfferLifecycleUseCase) Publish(ctx context.Context, rawOfferID string) error {
	offerID, err := domain.ParseOfferID(rawOfferID)
	if err != nil {
		return fmt.Errorf("invalid offer id: %w", err)
	}

	err = WithUnitOfWork(ctx, uc.sessions, func(ctx context.Context, uow *UnitOfWork) error {
		offer, err := uc.offerRepo.FindByID(ctx, offerID)
		if err != nil {
			return fmt.Errorf("offer lookup: %w", err)
		}

		if err := offer.Publish(); err != nil {
			return err
		}

		if err := uc.offerRepo.Save(ctx, offer); err != nil {
			return fmt.Errorf("saving offer: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	uc.syncBoard(ctx, offerID, 0)
	if uc.invalidator != nil {
		uc.invalidator.Invalidate(offerID)
	}

	uc.logger.Info("offer published", "offer_id", offerID.String())
	return nil
}

// Close moves a published offer to closed.
func (uc *OfferLifecycleUseCase) Close(ctx context.Context, rawOfferID string) error {
	offerID, err := domain.ParseOfferID(rawOfferID)
	if err != nil {
		return fmt.Errorf("invalid offer id: %w", err)
	}

	err = WithUnitOfWork(ctx, uc.sessions, func(ctx context.Context, uow *UnitOfWork) error {
		offer, err := uc.offerRepo.FindByID(ctx, offerID)
		if err != nil {
			return fmt.Errorf("offer lookup: %w", err)
		}

		if err := offer.Close(); err != nil {
			return err
		}

		if err := uc.offerRepo.Save(ctx, offer); err != nil {
			return fmt.Errorf("saving offer: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	// best-effort cache maintenance, postgres is the source of truth
	if uc.board != nil {
		if err := uc.board.RemoveOffer(ctx, offerID.String()); err != nil {
			uc.logger.Warn("offer board removal failed",
				"offer_id", offerID.String(),
				"error", err.Error(),
			)
		}
	}
	if uc.invalidator != nil {
		uc.invalidator.Invalidate(offerID)
	}

	uc.logger.Info("offer closed", "offer_id", offerID.String())
	return nil
}

func (uc *OfferLifecycleUseCase) syncBoard(ctx context.Context, offerID domain.OfferID, score float64) {
	if uc.board == nil {
		return
	}
	if err := uc.board.UpdateOfferScore(ctx, offerID.String(), score); err != nil {
		// log but don't fail, the board is rebuilt from postgres on demand
		uc.logger.Warn("offer board sync failed",
			"offer_id", offerID.String(),
			"error", err.Error(),
		)
	}
}
