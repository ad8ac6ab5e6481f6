package api

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/hiredesk/hiredesk/internal/application"
	"github.com/hiredesk/hiredesk/internal/domain"
)

// AccessHandler handles role access request HTTP endpoints.
type AccessHandler struct {
	access     *application.AccessRequestUseCase
	accessRepo domain.AccessRequestRepository
}

// NewAccessHandler creates a new AccessHandler.
func NewAccessHandler(access *application.AccessRequestUseCase, accessRepo domain.AccessRequestRepository) *AccessHandler {
	return &AccessHandler{
		access:     access,
		accessRepo: accessRepo,
	}
}

// RegisterRoutes registers access request routes on the given group.
func (h *AccessHandler) RegisterRoutes(g *echo.Group) {
	g.POST("/access-requests", h.RequestAccess)
	g.GET("/access-requests", h.ListRequests)
	g.POST("/access-requests/:id/review", h.ReviewRequest)
}

// RequestAccessRequest is the request body for requesting a role.
type RequestAccessRequest struct {
	Role   string `json:"role" validate:"required,oneof=admin recruiter interviewer viewer"`
	Reason string `json:"reason" validate:"required,max=1000"`
}

// RequestAccessResponse is the response for a created access request.
type RequestAccessResponse struct {
	RequestID string `json:"request_id"`
	Role      string `json:"role"`
	Status    string `json:"status"`
}

// RequestAccess handles POST /api/v1/access-requests
// the authenticated user asks for an elevated role.
func (h *AccessHandler) RequestAccess(c echo.Context) error {
	user, err := requireUser(c)
	if err != nil {
		return err
	}

	var req RequestAccessRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	output, err := h.access.Request(c.Request().Context(), application.RequestAccessInput{
		RequesterExternalID: user.ExternalID(),
		Role:                req.Role,
		Reason:              req.Reason,
	})
	if err != nil {
		return mapDomainError(err)
	}

	return c.JSON(http.StatusCreated, RequestAccessResponse{
		RequestID: output.RequestID,
		Role:      output.Role,
		Status:    output.Status,
	})
}

// ReviewAccessRequest is the request body for reviewing an access request.
type ReviewAccessRequest struct {
	Approve bool   `json:"approve"`
	Note    string `json:"note,omitempty" validate:"max=1000"`
}

// ReviewRequest handles POST /api/v1/access-requests/:id/review
// an admin approves or rejects a pending request.
func (h *AccessHandler) ReviewRequest(c echo.Context) error {
	user, err := requireUser(c)
	if err != nil {
		return err
	}

	requestID := c.Param("id")
	if requestID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "request id is required")
	}

	var req ReviewAccessRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	err = h.access.Review(c.Request().Context(), application.ReviewAccessInput{
		RequestID:          requestID,
		ReviewerExternalID: user.ExternalID(),
		Approve:            req.Approve,
		Note:               req.Note,
	})
	if err != nil {
		return mapDomainError(err)
	}

	return c.NoContent(http.StatusNoContent)
}

// accessRequestResponse is the API representation of an access request.
type accessRequestResponse struct {
	ID          string     `json:"id"`
	RequesterID string     `json:"requester_id"`
	Role        string     `json:"role"`
	Reason      string     `json:"reason"`
	Status      string     `json:"status"`
	ReviewerID  *string    `json:"reviewer_id,omitempty"`
	ReviewNote  string     `json:"review_note,omitempty"`
	ReviewedAt  *time.Time `json:"reviewed_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// listAccessRequestsResponse is the API response for the review queue.
type listAccessRequestsResponse struct {
	Requests []accessRequestResponse `json:"requests"`
	Limit    int                     `json:"limit"`
	Offset   int                     `json:"offset"`
}

// ListRequests handles GET /api/v1/access-requests?status=pending
// returns the review queue. only reviewers can see it.
func (h *AccessHandler) ListRequests(c echo.Context) error {
	user, err := requireUser(c)
	if err != nil {
		return err
	}
	if !user.Role().CanReviewAccess() {
		return echo.NewHTTPError(http.StatusForbidden, "role does not allow viewing access requests")
	}

	status := domain.AccessStatusPending
	if s := c.QueryParam("status"); s != "" {
		parsed, err := domain.ParseAccessStatus(s)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid status query param")
		}
		status = parsed
	}

	limit, offset := paginationParams(c)

	requests, err := h.accessRepo.ListByStatus(c.Request().Context(), status, limit, offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to fetch access requests")
	}

	response := listAccessRequestsResponse{
		Requests: make([]accessRequestResponse, 0, len(requests)),
		Limit:    limit,
		Offset:   offset,
	}
	for _, request := range requests {
		response.Requests = append(response.Requests, toAccessRequestResponse(request))
	}

	return c.JSON(http.StatusOK, response)
}

func toAccessRequestResponse(r *domain.AccessRequest) accessRequestResponse {
	resp := accessRequestResponse{
		ID:          r.ID().String(),
		RequesterID: r.RequesterID().String(),
		Role:        r.Role().String(),
		Reason:      r.Reason(),
		Status:      r.Status().String(),
		ReviewNote:  r.ReviewNote(),
		ReviewedAt:  r.ReviewedAt(),
		CreatedAt:   r.CreatedAt(),
	}

	if id := r.ReviewerID(); id != nil {
		s := id.String()
		resp.ReviewerID = &s
	}

	return resp
}
