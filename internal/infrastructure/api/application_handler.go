package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/hiredesk/hiredesk/internal/application"
	"github.com/hiredesk/hiredesk/internal/domain"
	"github.com/hiredesk/hiredesk/internal/infrastructure/metrics"
)

// ApplicationHandler handles candidate application HTTP requests.
type ApplicationHandler struct {
	submit  *application.SubmitApplicationUseCase
	advance *application.AdvanceApplicationUseCase
	appRepo domain.ApplicationRepository
	metrics *metrics.Metrics
}

// NewApplicationHandler creates a new ApplicationHandler.
func NewApplicationHandler(
	submit *application.SubmitApplicationUseCase,
	advance *application.AdvanceApplicationUseCase,
	appRepo domain.ApplicationRepository,
) *ApplicationHandler {
	return &ApplicationHandler{
		submit:  submit,
		advance: advance,
		appRepo: appRepo,
	}
}

// WithMetrics attaches a metrics recorder for accepted applications.
func (h *ApplicationHandler) WithMetrics(m *metrics.Metrics) *ApplicationHandler {
	h.metrics = m
	return h
}

// RegisterRoutes registers the application routes on the given group.
func (h *ApplicationHandler) RegisterRoutes(g *echo.Group) {
	g.POST("/offers/:id/applications", h.SubmitApplication)
	g.GET("/offers/:id/applications", h.ListByOffer)
	g.GET("/applications", h.ListByStage)
	g.GET("/applications/:id", h.GetApplication)
	g.POST("/applications/:id/advance", h.AdvanceApplication)
	g.POST("/applications/:id/reject", h.RejectApplication)
}

// SubmitApplicationRequest is the request body for applying to an offer.
type SubmitApplicationRequest struct {
	Email     string `json:"email" validate:"required,email"`
	FullName  string `json:"full_name" validate:"required,max=255"`
	Phone     string `json:"phone,omitempty" validate:"max=50"`
	ResumeURL string `json:"resume_url,omitempty" validate:"omitempty,url"`
	Note      string `json:"note,omitempty"`
}

// SubmitApplicationResponse is the response for a submitted application.
type SubmitApplicationResponse struct {
	ApplicationID string `json:"application_id"`
	CandidateID   string `json:"candidate_id"`
	OfferID       string `json:"offer_id"`
	Stage         string `json:"stage"`
}

// SubmitApplication handles POST /api/v1/offers/:id/applications
// public endpoint: candidates apply without an account.
func (h *ApplicationHandler) SubmitApplication(c echo.Context) error {
	offerID := c.Param("id")
	if offerID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "offer id is required")
	}

	var req SubmitApplicationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	output, err := h.submit.Execute(c.Request().Context(), application.SubmitApplicationInput{
		OfferID:   offerID,
		Email:     req.Email,
		FullName:  req.FullName,
		Phone:     req.Phone,
		ResumeURL: req.ResumeURL,
		Note:      req.Note,
	})
	if err != nil {
		return mapDomainError(err)
	}

	if h.metrics != nil {
		h.metrics.RecordApplicationReceived()
	}

	return c.JSON(http.StatusCreated, SubmitApplicationResponse{
		ApplicationID: output.ApplicationID,
		CandidateID:   output.CandidateID,
		OfferID:       output.OfferID,
		Stage:         output.Stage,
	})
}

// AdvanceApplicationRequest is the request body for a stage move.
type AdvanceApplicationRequest struct {
	// Stage is optional: empty advances one step along the pipeline.
	Stage string `json:"stage,omitempty"`
	Note  string `json:"note,omitempty"`
}

// StageTransitionResponse reports the stage transition that happened.
type StageTransitionResponse struct {
	ApplicationID string `json:"application_id"`
	FromStage     string `json:"from_stage"`
	ToStage       string `json:"to_stage"`
}

// AdvanceApplication handles POST /api/v1/applications/:id/advance
// moves an application forward in the hiring pipeline.
func (h *ApplicationHandler) AdvanceApplication(c echo.Context) error {
	user, err := requireUser(c)
	if err != nil {
		return err
	}
	if !user.Role().CanManageOffers() {
		return echo.NewHTTPError(http.StatusForbidden, "role does not allow moving applications")
	}

	applicationID := c.Param("id")
	if applicationID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "application id is required")
	}

	var req AdvanceApplicationRequest
	if err := c.Bind(&req); err != nil {
		// empty body means advance one step
		req = AdvanceApplicationRequest{}
	}

	output, err := h.advance.Execute(c.Request().Context(), application.AdvanceApplicationInput{
		ApplicationID: applicationID,
		TargetStage:   req.Stage,
		Note:          req.Note,
	})
	if err != nil {
		return mapDomainError(err)
	}

	return c.JSON(http.StatusOK, StageTransitionResponse{
		ApplicationID: output.ApplicationID,
		FromStage:     output.FromStage,
		ToStage:       output.ToStage,
	})
}

// RejectApplicationRequest is the request body for rejecting an application.
type RejectApplicationRequest struct {
	Note string `json:"note,omitempty"`
}

// RejectApplication handles POST /api/v1/applications/:id/reject
// rejects an application from any non-terminal stage.
func (h *ApplicationHandler) RejectApplication(c echo.Context) error {
	user, err := requireUser(c)
	if err != nil {
		return err
	}
	if !user.Role().CanManageOffers() {
		return echo.NewHTTPError(http.StatusForbidden, "role does not allow rejecting applications")
	}

	applicationID := c.Param("id")
	if applicationID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "application id is required")
	}

	var req RejectApplicationRequest
	if err := c.Bind(&req); err != nil {
		req = RejectApplicationRequest{}
	}

	output, err := h.advance.Reject(c.Request().Context(), applicationID, req.Note)
	if err != nil {
		return mapDomainError(err)
	}

	return c.JSON(http.StatusOK, StageTransitionResponse{
		ApplicationID: output.ApplicationID,
		FromStage:     output.FromStage,
		ToStage:       output.ToStage,
	})
}

// applicationResponse is the API representation of an application.
type applicationResponse struct {
	ID             string    `json:"id"`
	OfferID        string    `json:"offer_id"`
	CandidateID    string    `json:"candidate_id"`
	Stage          string    `json:"stage"`
	Note           string    `json:"note,omitempty"`
	StageChangedAt time.Time `json:"stage_changed_at"`
	CreatedAt      time.Time `json:"created_at"`
}

// listApplicationsResponse is the API response for application listings.
type listApplicationsResponse struct {
	Applications []applicationResponse `json:"applications"`
	Limit        int                   `json:"limit"`
	Offset       int                   `json:"offset"`
}

// GetApplication handles GET /api/v1/applications/:id
func (h *ApplicationHandler) GetApplication(c echo.Context) error {
	if _, err := requireUser(c); err != nil {
		return err
	}

	applicationID, err := domain.ParseApplicationID(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid application id")
	}

	app, err := h.appRepo.FindByID(c.Request().Context(), applicationID)
	if err != nil {
		return mapDomainError(err)
	}

	return c.JSON(http.StatusOK, toApplicationResponse(app))
}

// ListByOffer handles GET /api/v1/offers/:id/applications
// returns applications for one offer, newest first.
func (h *ApplicationHandler) ListByOffer(c echo.Context) error {
	if _, err := requireUser(c); err != nil {
		return err
	}

	offerID, err := domain.ParseOfferID(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid offer id")
	}

	limit, offset := paginationParams(c)

	apps, err := h.appRepo.ListByOffer(c.Request().Context(), offerID, limit, offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to fetch applications")
	}

	return c.JSON(http.StatusOK, toListApplicationsResponse(apps, limit, offset))
}

// ListByStage handles GET /api/v1/applications?stage=screening
// returns applications in a pipeline stage, oldest first.
func (h *ApplicationHandler) ListByStage(c echo.Context) error {
	if _, err := requireUser(c); err != nil {
		return err
	}

	stage, err := domain.ParseStage(c.QueryParam("stage"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "valid stage query param is required")
	}

	limit, offset := paginationParams(c)

	apps, err := h.appRepo.ListByStage(c.Request().Context(), stage, limit, offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to fetch applications")
	}

	return c.JSON(http.StatusOK, toListApplicationsResponse(apps, limit, offset))
}

// paginationParams parses limit/offset query params with defaults.
func paginationParams(c echo.Context) (int, int) {
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

	return limit, offset
}

func toApplicationResponse(a *domain.Application) applicationResponse {
	return applicationResponse{
		ID:             a.ID().String(),
		OfferID:        a.OfferID().String(),
		CandidateID:    a.CandidateID().String(),
		Stage:          a.Stage().String(),
		Note:           a.Note(),
		StageChangedAt: a.StageChangedAt(),
		CreatedAt:      a.CreatedAt(),
	}
}

func toListApplicationsResponse(apps []*domain.Application, limit, offset int) listApplicationsResponse {
	response := listApplicationsResponse{
		Applications: make([]applicationResponse, 0, len(apps)),
		Limit:        limit,
		Offset:       offset,
	}
	for _, app := range apps {
		response.Applications = append(response.Applications, toApplicationResponse(app))
	}
	return response
}
