package domain

import "time"

// WarehouseInput carries all the data a snapshot is built from.
// all data is provided upfront - no side effects or time acquisition inside.
type WarehouseInput struct {
	Offers       []*JobOffer
	Candidates   []*Candidate
	Applications []*Application

	// GeneratedAt stamps the snapshot; pass the export job's clock reading.
	GeneratedAt time.Time
}

// WarehouseSnapshot is the star-schema layout pushed to blob storage.
// one fact table over three dimensions, denormalized into plain structs
// so the whole snapshot serializes to a single JSON document.
type WarehouseSnapshot struct {
	GeneratedAt time.Time `json:"generated_at"`

	DimOffers     []OfferDim     `json:"dim_offers"`
	DimCandidates []CandidateDim `json:"dim_candidates"`
	DimStages     []StageDim     `json:"dim_stages"`

	FactApplications []ApplicationFact `json:"fact_applications"`
}

// OfferDim is one row of the offer dimension.
type OfferDim struct {
	OfferKey   string `json:"offer_key"`
	Slug       string `json:"slug"`
	Title      string `json:"title"`
	Department string `json:"department"`
	Location   string `json:"location"`
	Status     string `json:"status"`
}

// CandidateDim is one row of the candidate dimension.
type CandidateDim struct {
	CandidateKey string `json:"candidate_key"`
	Email        string `json:"email"`
	FullName     string `json:"full_name"`
}

// StageDim is one row of the stage dimension.
type StageDim struct {
	StageKey   string `json:"stage_key"`
	IsTerminal bool   `json:"is_terminal"`
}

// ApplicationFact is one row of the application fact table.
// foreign keys reference the dimension rows by their natural keys.
type ApplicationFact struct {
	ApplicationKey string    `json:"application_key"`
	OfferKey       string    `json:"offer_key"`
	CandidateKey   string    `json:"candidate_key"`
	StageKey       string    `json:"stage_key"`
	AppliedAt      time.Time `json:"applied_at"`
	StageChangedAt time.Time `json:"stage_changed_at"`

	// DaysInPipeline is the whole days between application and the last
	// stage change, the one derived measure downstream dashboards want.
	DaysInPipeline int `json:"days_in_pipeline"`
}

// allStages enumerates the stage dimension in pipeline order.
var allStages = []Stage{
	StageApplied, StageScreening, StageInterview,
	StageOffer, StageHired, StageRejected,
}

// BuildWarehouseSnapshot denormalizes offers, candidates, and applications
// into the star-schema snapshot. this is a pure function with no side
// effects - all inputs are explicit.
//
// facts referencing an offer or candidate missing from the input are
// dropped rather than emitted with dangling keys; the export job logs the
// dimension counts so a mismatch is visible.
func BuildWarehouseSnapshot(input *WarehouseInput) *WarehouseSnapshot {
	snapshot := &WarehouseSnapshot{
		GeneratedAt:      input.GeneratedAt,
		DimOffers:        make([]OfferDim, 0, len(input.Offers)),
		DimCandidates:    make([]CandidateDim, 0, len(input.Candidates)),
		DimStages:        make([]StageDim, 0, len(allStages)),
		FactApplications: make([]ApplicationFact, 0, len(input.Applications)),
	}

	offerKeys := make(map[OfferID]bool, len(input.Offers))
	for _, offer := range input.Offers {
		offerKeys[offer.ID()] = true
		snapshot.DimOffers = append(snapshot.DimOffers, OfferDim{
			OfferKey:   offer.ID().String(),
			Slug:       offer.Slug().String(),
			Title:      offer.Title(),
			Department: offer.Department(),
			Location:   offer.Location(),
			Status:     offer.Status().String(),
		})
	}

	candidateKeys := make(map[CandidateID]bool, len(input.Candidates))
	for _, candidate := range input.Candidates {
		candidateKeys[candidate.ID()] = true
		snapshot.DimCandidates = append(snapshot.DimCandidates, CandidateDim{
			CandidateKey: candidate.ID().String(),
			Email:        candidate.Email().String(),
			FullName:     candidate.FullName(),
		})
	}

	for _, stage := range allStages {
		snapshot.DimStages = append(snapshot.DimStages, StageDim{
			StageKey:   stage.String(),
			IsTerminal: stage.IsTerminal(),
		})
	}

	for _, app := range input.Applications {
		// skip facts whose dimensions are missing
		if !offerKeys[app.OfferID()] || !candidateKeys[app.CandidateID()] {
			continue
		}

		days := int(app.StageChangedAt().Sub(app.CreatedAt()).Hours() / 24)
		if days < 0 {
			days = 0
		}

		snapshot.FactApplications = append(snapshot.FactApplications, ApplicationFact{
			ApplicationKey: app.ID().String(),
			OfferKey:       app.OfferID().String(),
			CandidateKey:   app.CandidateID().String(),
			StageKey:       app.Stage().String(),
			AppliedAt:      app.CreatedAt(),
			StageChangedAt: app.StageChangedAt(),
			DaysInPipeline: days,
		})
	}

	return snapshot
}
