package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/hiredesk/hiredesk/internal/application"
	"github.com/hiredesk/hiredesk/internal/domain"
)

// InterviewHandler handles interview scheduling HTTP requests.
type InterviewHandler struct {
	schedule      *application.ScheduleInterviewUseCase
	interviewRepo domain.InterviewRepository
}

// NewInterviewHandler creates a new InterviewHandler.
func NewInterviewHandler(schedule *application.ScheduleInterviewUseCase, interviewRepo domain.InterviewRepository) *InterviewHandler {
	return &InterviewHandler{
		schedule:      schedule,
		interviewRepo: interviewRepo,
	}
}

// RegisterRoutes registers the interview routes on the given group.
func (h *InterviewHandler) RegisterRoutes(g *echo.Group) {
	g.POST("/applications/:id/interviews", h.ScheduleInterview)
	g.GET("/applications/:id/interviews", h.ListByApplication)
	g.GET("/interviews/upcoming", h.ListUpcoming)
	g.POST("/interviews/:id/outcome", h.RecordOutcome)
}

// ScheduleInterviewRequest is the request body for scheduling an interview.
type ScheduleInterviewRequest struct {
	InterviewerID string    `json:"interviewer_id" validate:"required"`
	ScheduledAt   time.Time `json:"scheduled_at" validate:"required"`
	DurationMin   int       `json:"duration_min" validate:"required,gte=15,lte=240"`
	Location      string    `json:"location,omitempty" validate:"max=255"`
}

// ScheduleInterviewResponse is the response for a scheduled interview.
type ScheduleInterviewResponse struct {
	InterviewID   string    `json:"interview_id"`
	ApplicationID string    `json:"application_id"`
	InterviewerID string    `json:"interviewer_id"`
	ScheduledAt   time.Time `json:"scheduled_at"`
}

// ScheduleInterview handles POST /api/v1/applications/:id/interviews
// books an interview for an application in the interview stage.
func (h *InterviewHandler) ScheduleInterview(c echo.Context) error {
	user, err := requireUser(c)
	if err != nil {
		return err
	}
	if !user.Role().CanManageOffers() {
		return echo.NewHTTPError(http.StatusForbidden, "role does not allow scheduling interviews")
	}

	applicationID := c.Param("id")
	if applicationID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "application id is required")
	}

	var req ScheduleInterviewRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	output, err := h.schedule.Execute(c.Request().Context(), application.ScheduleInterviewInput{
		ApplicationID: applicationID,
		InterviewerID: req.InterviewerID,
		ScheduledAt:   req.ScheduledAt,
		Duration:      time.Duration(req.DurationMin) * time.Minute,
		Location:      req.Location,
	})
	if err != nil {
		return mapDomainError(err)
	}

	return c.JSON(http.StatusCreated, ScheduleInterviewResponse{
		InterviewID:   output.InterviewID,
		ApplicationID: output.ApplicationID,
		InterviewerID: output.InterviewerID,
		ScheduledAt:   output.ScheduledAt,
	})
}

// RecordOutcomeRequest is the request body for closing out an interview.
type RecordOutcomeRequest struct {
	Outcome  string `json:"outcome" validate:"required,oneof=completed cancelled no_show"`
	Feedback string `json:"feedback,omitempty"`
	Score    int    `json:"score,omitempty" validate:"gte=0,lte=10"`
}

// RecordOutcome handles POST /api/v1/interviews/:id/outcome
// records whether an interview completed, was cancelled, or no-showed.
func (h *InterviewHandler) RecordOutcome(c echo.Context) error {
	if _, err := requireUser(c); err != nil {
		return err
	}

	interviewID := c.Param("id")
	if interviewID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "interview id is required")
	}

	var req RecordOutcomeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	err := h.schedule.RecordOutcome(c.Request().Context(), application.RecordOutcomeInput{
		InterviewID: interviewID,
		Outcome:     req.Outcome,
		Feedback:    req.Feedback,
		Score:       req.Score,
	})
	if err != nil {
		return mapDomainError(err)
	}

	return c.NoContent(http.StatusNoContent)
}

// interviewResponse is the API representation of an interview.
type interviewResponse struct {
	ID            string    `json:"id"`
	ApplicationID string    `json:"application_id"`
	InterviewerID string    `json:"interviewer_id"`
	ScheduledAt   time.Time `json:"scheduled_at"`
	DurationMin   int       `json:"duration_min"`
	Location      string    `json:"location,omitempty"`
	Status        string    `json:"status"`
	Feedback      string    `json:"feedback,omitempty"`
	Score         *int      `json:"score,omitempty"`
}

// ListByApplication handles GET /api/v1/applications/:id/interviews
func (h *InterviewHandler) ListByApplication(c echo.Context) error {
	if _, err := requireUser(c); err != nil {
		return err
	}

	applicationID, err := domain.ParseApplicationID(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid application id")
	}

	interviews, err := h.interviewRepo.ListByApplication(c.Request().Context(), applicationID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to fetch interviews")
	}

	return c.JSON(http.StatusOK, toInterviewResponses(interviews))
}

// ListUpcoming handles GET /api/v1/interviews/upcoming?limit=20
// returns the authenticated interviewer's upcoming scheduled interviews.
func (h *InterviewHandler) ListUpcoming(c echo.Context) error {
	user, err := requireUser(c)
	if err != nil {
		return err
	}

	limit := 20
	if l := c.QueryParam("limit"); l != "" {
		if parsed, err := strconv.Atoi(l); err == nil && parsed > 0 && parsed <= 100 {
			limit = parsed
		}
	}

	interviews, err := h.interviewRepo.ListUpcomingByInterviewer(c.Request().Context(), user.ID(), limit)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to fetch interviews")
	}

	return c.JSON(http.StatusOK, toInterviewResponses(interviews))
}

func toInterviewResponses(interviews []*domain.Interview) []interviewResponse {
	responses := make([]interviewResponse, 0, len(interviews))
	for _, iv := range interviews {
		responses = append(responses, interviewResponse{
			ID:            iv.ID().String(),
			ApplicationID: iv.ApplicationID().String(),
			InterviewerID: iv.InterviewerID().String(),
			ScheduledAt:   iv.ScheduledAt(),
			DurationMin:   int(iv.Duration().Minutes()),
			Location:      iv.Location(),
			Status:        iv.Status().String(),
			Feedback:      iv.Feedback(),
			Score:         iv.Score(),
		})
	}
	return responses
}
