package api

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/hiredesk/hiredesk/internal/application"
	"github.com/hiredesk/hiredesk/internal/domain"
)

// ExportHandler exposes a manual trigger for the warehouse export.
type ExportHandler struct {
	export *application.ExportWarehouseUseCase
}

// NewExportHandler creates a new ExportHandler.
func NewExportHandler(export *application.ExportWarehouseUseCase) *ExportHandler {
	return &ExportHandler{
		export: export,
	}
}

// RegisterRoutes registers the export routes on the given group.
func (h *ExportHandler) RegisterRoutes(g *echo.Group) {
	g.POST("/exports", h.TriggerExport)
}

// ExportResponse reports the uploaded snapshot.
type ExportResponse struct {
	Key          string    `json:"key"`
	Offers       int       `json:"offers"`
	Candidates   int       `json:"candidates"`
	Applications int       `json:"applications"`
	GeneratedAt  time.Time `json:"generated_at"`
}

// TriggerExport handles POST /api/v1/exports
// runs a warehouse export on demand. admin only, the export reads
// the entire applications table.
func (h *ExportHandler) TriggerExport(c echo.Context) error {
	user, err := requireUser(c)
	if err != nil {
		return err
	}
	if user.Role() != domain.RoleAdmin {
		return echo.NewHTTPError(http.StatusForbidden, "only admins can trigger exports")
	}

	output, err := h.export.Execute(c.Request().Context())
	if err != nil {
		return mapDomainError(err)
	}

	return c.JSON(http.StatusOK, ExportResponse{
		Key:          output.Key,
		Offers:       output.Offers,
		Candidates:   output.Candidates,
		Applications: output.Applications,
		GeneratedAt:  output.GeneratedAt,
	})
}
