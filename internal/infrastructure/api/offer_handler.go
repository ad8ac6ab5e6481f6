package api

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/hiredesk/hiredesk/internal/application"
	"github.com/hiredesk/hiredesk/internal/domain"
)

// PopularOfferLister serves published offers ordered by application count.
type PopularOfferLister interface {
	ListPopular(ctx context.Context, limit, offset int) ([]*domain.JobOffer, error)
}

// OfferHandler handles job offer related HTTP requests.
type OfferHandler struct {
	lifecycle *application.OfferLifecycleUseCase
	offerRepo domain.JobOfferRepository
	popular   PopularOfferLister
}

// NewOfferHandler creates a new OfferHandler.
func NewOfferHandler(lifecycle *application.OfferLifecycleUseCase, offerRepo domain.JobOfferRepository) *OfferHandler {
	return &OfferHandler{
		lifecycle: lifecycle,
		offerRepo: offerRepo,
	}
}

// WithPopularListing enables popularity sorting backed by the redis board.
func (h *OfferHandler) WithPopularListing(popular PopularOfferLister) *OfferHandler {
	h.popular = popular
	return h
}

// RegisterRoutes registers the offer routes on the given group.
func (h *OfferHandler) RegisterRoutes(g *echo.Group) {
	g.POST("/offers", h.CreateOffer)
	g.GET("/offers", h.ListOffers)
	g.GET("/offers/:id", h.GetOffer)
	g.PUT("/offers/:id", h.UpdateOffer)
	g.POST("/offers/:id/publish", h.PublishOffer)
	g.POST("/offers/:id/close", h.CloseOffer)
}

// CreateOfferRequest is the request body for creating a job offer.
type CreateOfferRequest struct {
	Slug        string `json:"slug" validate:"required,min=3,max=100"`
	Title       string `json:"title" validate:"required,max=255"`
	Description string `json:"description,omitempty"`
	Department  string `json:"department,omitempty"`
	Location    string `json:"location,omitempty"`
	SalaryMin   int    `json:"salary_min,omitempty" validate:"gte=0"`
	SalaryMax   int    `json:"salary_max,omitempty" validate:"gte=0"`
}

// CreateOfferResponse is the response for a successfully created offer.
type CreateOfferResponse struct {
	OfferID   string `json:"offer_id"`
	Slug      string `json:"slug"`
	Title     string `json:"title"`
	Status    string `json:"status"`
	CreatedBy string `json:"created_by"`
}

// CreateOffer handles POST /api/v1/offers
// creates a new draft offer owned by the authenticated user.
func (h *OfferHandler) CreateOffer(c echo.Context) error {
	user, err := requireUser(c)
	if err != nil {
		return err
	}

	var req CreateOfferRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	output, err := h.lifecycle.Create(c.Request().Context(), application.CreateOfferInput{
		Slug:              req.Slug,
		Title:             req.Title,
		Description:       req.Description,
		Department:        req.Department,
		Location:          req.Location,
		SalaryMin:         req.SalaryMin,
		SalaryMax:         req.SalaryMax,
		CreatorExternalID: user.ExternalID(),
	})
	if err != nil {
		return mapDomainError(err)
	}

	return c.JSON(http.StatusCreated, CreateOfferResponse{
		OfferID:   output.OfferID,
		Slug:      output.Slug,
		Title:     output.Title,
		Status:    output.Status,
		CreatedBy: output.CreatedBy,
	})
}

// UpdateOfferRequest is the request body for editing offer details.
type UpdateOfferRequest struct {
	Title       string `json:"title" validate:"required,max=255"`
	Description string `json:"description,omitempty"`
	Department  string `json:"department,omitempty"`
	Location    string `json:"location,omitempty"`
	SalaryMin   int    `json:"salary_min,omitempty" validate:"gte=0"`
	SalaryMax   int    `json:"salary_max,omitempty" validate:"gte=0"`
}

// UpdateOffer handles PUT /api/v1/offers/:id
// replaces the editable details of an offer.
func (h *OfferHandler) UpdateOffer(c echo.Context) error {
	user, err := requireUser(c)
	if err != nil {
		return err
	}

	offerID := c.Param("id")
	if offerID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "offer id is required")
	}

	var req UpdateOfferRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if !user.Role().CanManageOffers() {
		return echo.NewHTTPError(http.StatusForbidden, "role does not allow editing offers")
	}

	err = h.lifecycle.Update(c.Request().Context(), application.UpdateOfferInput{
		OfferID:     offerID,
		Title:       req.Title,
		Description: req.Description,
		Department:  req.Department,
		Location:    req.Location,
		SalaryMin:   req.SalaryMin,
		SalaryMax:   req.SalaryMax,
	})
	if err != nil {
		return mapDomainError(err)
	}

	return c.NoContent(http.StatusNoContent)
}

// PublishOffer handles POST /api/v1/offers/:id/publish
// moves a draft offer onto the public board.
func (h *OfferHandler) PublishOffer(c echo.Context) error {
	user, err := requireUser(c)
	if err != nil {
		return err
	}
	if !user.Role().CanManageOffers() {
		return echo.NewHTTPError(http.StatusForbidden, "role does not allow publishing offers")
	}

	offerID := c.Param("id")
	if offerID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "offer id is required")
	}

	if err := h.lifecycle.Publish(c.Request().Context(), offerID); err != nil {
		return mapDomainError(err)
	}

	return c.NoContent(http.StatusNoContent)
}

// CloseOffer handles POST /api/v1/offers/:id/close
// closes a published offer to new applications.
func (h *OfferHandler) CloseOffer(c echo.Context) error {
	user, err := requireUser(c)
	if err != nil {
		return err
	}
	if !user.Role().CanManageOffers() {
		return echo.NewHTTPError(http.StatusForbidden, "role does not allow closing offers")
	}

	offerID := c.Param("id")
	if offerID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "offer id is required")
	}

	if err := h.lifecycle.Close(c.Request().Context(), offerID); err != nil {
		return mapDomainError(err)
	}

	return c.NoContent(http.StatusNoContent)
}

// offerResponse is the API representation of a job offer.
type offerResponse struct {
	ID               string     `json:"id"`
	Slug             string     `json:"slug"`
	Title            string     `json:"title"`
	Description      string     `json:"description,omitempty"`
	Department       string     `json:"department,omitempty"`
	Location         string     `json:"location,omitempty"`
	SalaryMin        int        `json:"salary_min,omitempty"`
	SalaryMax        int        `json:"salary_max,omitempty"`
	Status           string     `json:"status"`
	CreatedBy        string     `json:"created_by"`
	PublishedAt      *time.Time `json:"published_at,omitempty"`
	ApplicationCount *int64     `json:"application_count,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
}

// listOffersResponse is the API response for the offer board.
type listOffersResponse struct {
	Offers []offerResponse `json:"offers"`
	Limit  int             `json:"limit"`
	Offset int             `json:"offset"`
}

// ListOffers returns the public board of published offers.
// GET /api/v1/offers?limit=20&offset=0&sort=popular
func (h *OfferHandler) ListOffers(c echo.Context) error {
	// parse pagination params with defaults
	limit := 20
	offset := 0

	if l := c.QueryParam("limit"); l != "" {
		if parsed, err := strconv.Atoi(l); err == nil && parsed > 0 && parsed <= 100 {
			limit = parsed
		}
	}

	if o := c.QueryParam("offset"); o != "" {
		if parsed, err := strconv.Atoi(o); err == nil && parsed >= 0 {
			offset = parsed
		}
	}

	var (
		offers []*domain.JobOffer
		err    error
	)
	if c.QueryParam("sort") == "popular" && h.popular != nil {
		offers, err = h.popular.ListPopular(c.Request().Context(), limit, offset)
	} else {
		offers, err = h.offerRepo.ListPublished(c.Request().Context(), limit, offset)
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to fetch offers")
	}

	// application counts are best effort; the board renders without them
	ids := make([]domain.OfferID, 0, len(offers))
	for _, offer := range offers {
		ids = append(ids, offer.ID())
	}
	counts, _ := h.offerRepo.CountApplications(c.Request().Context(), ids)

	response := listOffersResponse{
		Offers: make([]offerResponse, 0, len(offers)),
		Limit:  limit,
		Offset: offset,
	}

	for _, offer := range offers {
		resp := toOfferResponse(offer)
		if counts != nil {
			count := counts[offer.ID()]
			resp.ApplicationCount = &count
		}
		response.Offers = append(response.Offers, resp)
	}

	return c.JSON(http.StatusOK, response)
}

// GetOffer returns a single offer by id.
// GET /api/v1/offers/:id
func (h *OfferHandler) GetOffer(c echo.Context) error {
	offerID, err := domain.ParseOfferID(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid offer id")
	}

	offer, err := h.offerRepo.FindByID(c.Request().Context(), offerID)
	if err != nil {
		return mapDomainError(err)
	}

	// drafts are only visible to their owners and admins
	if !offer.IsPublished() {
		user := CurrentUser(c)
		if user == nil || (!user.Role().CanManageOffers() && user.ID() != offer.CreatedBy()) {
			return echo.NewHTTPError(http.StatusNotFound, "offer not found")
		}
	}

	return c.JSON(http.StatusOK, toOfferResponse(offer))
}

// toOfferResponse converts a domain offer to API response.
func toOfferResponse(o *domain.JobOffer) offerResponse {
	return offerResponse{
		ID:          o.ID().String(),
		Slug:        o.Slug().String(),
		Title:       o.Title(),
		Description: o.Description(),
		Department:  o.Department(),
		Location:    o.Location(),
		SalaryMin:   o.SalaryMin(),
		SalaryMax:   o.SalaryMax(),
		Status:      o.Status().String(),
		CreatedBy:   o.CreatedBy().String(),
		PublishedAt: o.PublishedAt(),
		CreatedAt:   o.CreatedAt(),
	}
}
