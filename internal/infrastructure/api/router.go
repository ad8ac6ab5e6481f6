package api

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/hiredesk/hiredesk/internal/application"
	"github.com/hiredesk/hiredesk/internal/domain"
	"github.com/hiredesk/hiredesk/internal/infrastructure/auth"
	"github.com/hiredesk/hiredesk/internal/infrastructure/logging"
	"github.com/hiredesk/hiredesk/internal/infrastructure/metrics"
)

// RouterConfig holds dependencies for route registration.
type RouterConfig struct {
	OfferLifecycleUseCase     *application.OfferLifecycleUseCase
	SubmitApplicationUseCase  *application.SubmitApplicationUseCase
	AdvanceApplicationUseCase *application.AdvanceApplicationUseCase
	ScheduleInterviewUseCase  *application.ScheduleInterviewUseCase
	AccessRequestUseCase      *application.AccessRequestUseCase
	ExportWarehouseUseCase    *application.ExportWarehouseUseCase
	EnsureUserUseCase         *application.EnsureUserUseCase

	OfferRepo       domain.JobOfferRepository
	PopularOffers   PopularOfferLister
	ApplicationRepo domain.ApplicationRepository
	InterviewRepo   domain.InterviewRepository
	AccessRepo      domain.AccessRequestRepository

	JWTValidator *auth.JWTValidator
	Database     HealthChecker
	Logger       *logging.Logger
	Metrics      *metrics.Metrics
}

// RegisterRoutes sets up all API routes on the server.
// follows RESTful conventions and groups routes logically.
func RegisterRoutes(e *echo.Echo, config RouterConfig) {
	// prometheus metrics endpoint (no auth, standard scraping path)
	if config.Metrics != nil {
		e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(
			config.Metrics.Registry,
			promhttp.HandlerOpts{
				Registry:          config.Metrics.Registry,
				EnableOpenMetrics: true,
			},
		)))

		// apply metrics middleware to all routes
		e.Use(metrics.Middleware(config.Metrics))
	}

	// health endpoints (no auth required)
	RegisterHealthRoutes(e, config.Database)

	// api v1 group with auth
	v1 := e.Group("/api/v1")

	// apply optional auth: tokens are validated when present, and
	// individual handlers reject anonymous callers where it matters.
	// the offer board and application submission stay public.
	v1.Use(OptionalAuthMiddleware(AuthConfig{
		Validator:  config.JWTValidator,
		EnsureUser: config.EnsureUserUseCase,
		Skipper: PublicRoutesSkipper(
			"GET /api/v1/offers",
			"POST /api/v1/offers/:id/applications",
		),
	}))

	// register domain handlers
	if config.OfferLifecycleUseCase != nil && config.OfferRepo != nil {
		offerHandler := NewOfferHandler(config.OfferLifecycleUseCase, config.OfferRepo)
		if config.PopularOffers != nil {
			offerHandler = offerHandler.WithPopularListing(config.PopularOffers)
		}
		offerHandler.RegisterRoutes(v1)
	}

	if config.SubmitApplicationUseCase != nil && config.ApplicationRepo != nil {
		applicationHandler := NewApplicationHandler(
			config.SubmitApplicationUseCase,
			config.AdvanceApplicationUseCase,
			config.ApplicationRepo,
		).WithMetrics(config.Metrics)
		applicationHandler.RegisterRoutes(v1)
	}

	if config.ScheduleInterviewUseCase != nil && config.InterviewRepo != nil {
		interviewHandler := NewInterviewHandler(config.ScheduleInterviewUseCase, config.InterviewRepo)
		interviewHandler.RegisterRoutes(v1)
	}

	if config.AccessRequestUseCase != nil && config.AccessRepo != nil {
		accessHandler := NewAccessHandler(config.AccessRequestUseCase, config.AccessRepo)
		accessHandler.RegisterRoutes(v1)
	}

	if config.ExportWarehouseUseCase != nil {
		exportHandler := NewExportHandler(config.ExportWarehouseUseCase)
		exportHandler.RegisterRoutes(v1)
	}

	metricsEnabled := config.Metrics != nil
	config.Logger.Info("api routes registered",
		"version", "v1",
		"health_endpoints", []string{"/health", "/ready"},
		"metrics_enabled", metricsEnabled,
		"api_prefix", "/api/v1",
	)
}
