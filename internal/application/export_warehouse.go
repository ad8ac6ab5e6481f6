package application

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hiredesk/hiredesk/internal/domain"
	"github.com/hiredesk/hiredesk/internal/infrastructure/logging"
)

// TimeProvider abstracts time acquisition for testability.
// inject a custom implementation to control time in tests.
type TimeProvider func() time.Time

// RealTime returns the current UTC time.
// use this in production.
func RealTime() time.Time {
	return time.Now().UTC()
}

// SnapshotUploader abstracts the blob storage the snapshot lands in.
type SnapshotUploader interface {
	PutSnapshot(ctx context.Context, key string, body []byte) error
}

// exportPageSize bounds the offer listing for one snapshot.
const exportPageSize = 10000

// ExportWarehouseUseCase builds the analytics snapshot and uploads it.
// reads happen in a read-only unit of work; the upload is a single PUT so
// downstream consumers never observe a partial export.
type ExportWarehouseUseCase struct {
	offerRepo       domain.JobOfferRepository
	candidateRepo   domain.CandidateRepository
	applicationRepo domain.ApplicationRepository
	sessions        SessionProvider
	uploader        SnapshotUploader
	timeProvider    TimeProvider
	logger          *logging.Logger
}

// NewExportWarehouseUseCase creates a new ExportWarehouseUseCase.
func NewExportWarehouseUseCase(
	offerRepo domain.JobOfferRepository,
	candidateRepo domain.CandidateRepository,
	applicationRepo domain.ApplicationRepository,
	sessions SessionProvider,
	uploader SnapshotUploader,
	logger *logging.Logger,
) *ExportWarehouseUseCase {
	return &ExportWarehouseUseCase{
		offerRepo:       offerRepo,
		candidateRepo:   candidateRepo,
		applicationRepo: applicationRepo,
		sessions:        sessions,
		uploader:        uploader,
		timeProvider:    RealTime,
		logger:          logger.WithComponent("export_warehouse"),
	}
}

// WithTimeProvider sets a custom time provider for testing.
func (uc *ExportWarehouseUseCase) WithTimeProvider(tp TimeProvider) *ExportWarehouseUseCase {
	uc.timeProvider = tp
	return uc
}

// ExportWarehouseOutput summarizes one export run.
type ExportWarehouseOutput struct {
	Key          string
	Offers       int
	Candidates   int
	Applications int
	GeneratedAt  time.Time
}

// Execute gathers the data, builds the snapshot, and uploads it.
func (uc *ExportWarehouseUseCase) Execute(ctx context.Context) (*ExportWarehouseOutput, error) {
	generatedAt := uc.timeProvider()
	input := &domain.WarehouseInput{GeneratedAt: generatedAt}

	err := WithReadOnlyUnitOfWork(ctx, uc.sessions, func(ctx context.Context, uow *ReadOnlyUnitOfWork) error {
		offers, err := uc.offerRepo.ListAll(ctx, exportPageSize, 0)
		if err != nil {
			return fmt.Errorf("listing offers: %w", err)
		}
		input.Offers = offers

		applications, err := uc.applicationRepo.ListAll(ctx)
		if err != nil {
			return fmt.Errorf("listing applications: %w", err)
		}
		input.Applications = applications

		// only candidates referenced by an application matter to the facts
		seen := make(map[domain.CandidateID]bool, len(applications))
		ids := make([]domain.CandidateID, 0, len(applications))
		for _, app := range applications {
			if !seen[app.CandidateID()] {
				seen[app.CandidateID()] = true
				ids = append(ids, app.CandidateID())
			}
		}

		candidates, err := uc.candidateRepo.FindByIDs(ctx, ids)
		if err != nil {
			return fmt.Errorf("finding candidates: %w", err)
		}
		input.Candidates = candidates

		return nil
	})
	if err != nil {
		return nil, err
	}

	snapshot := domain.BuildWarehouseSnapshot(input)

	if len(snapshot.FactApplications) != len(input.Applications) {
		uc.logger.Warn("snapshot dropped facts with missing dimensions",
			"applications", len(input.Applications),
			"facts", len(snapshot.FactApplications),
		)
	}

	body, err := json.Marshal(snapshot)
	if err != nil {
		return nil, fmt.Errorf("serializing snapshot: %w", err)
	}

	key := fmt.Sprintf("%s/warehouse-%s.json",
		generatedAt.Format("2006/01/02"),
		generatedAt.Format("150405"),
	)

	if err := uc.uploader.PutSnapshot(ctx, key, body); err != nil {
		return nil, fmt.Errorf("uploading snapshot: %w", err)
	}

	uc.logger.Info("warehouse snapshot exported",
		"key", key,
		"offers", len(snapshot.DimOffers),
		"candidates", len(snapshot.DimCandidates),
		"facts", len(snapshot.FactApplications),
	)

	return &ExportWarehouseOutput{
		Key:          key,
		Offers:       len(snapshot.DimOffers),
		Candidates:   len(snapshot.DimCandidates),
		Applications: len(snapshot.FactApplications),
		GeneratedAt:  generatedAt,
	}, nil
}
