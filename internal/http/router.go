// Package httpapi wires the HTTP transport (Gin) to application services,
// middleware, and route handlers. It centralizes cross-cutting concerns such
// as tracing, correlation IDs, logging/redaction, panic recovery, metrics,
// CORS, security headers, idempotency, and rate limiting.
//
// Design goals:
//   - Put observability first (OTel + Prometheus)
//   - Safe-by-default middleware ordering (RequestID → logging → recovery)
//   - Deterministic, minimal router setup; all dependencies injected
//   - Production-ready CORS and security header posture
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"gorm.io/gorm"

	"github.com/clinicware/go-scheduling-backend/internal/clock"
	"github.com/clinicware/go-scheduling-backend/internal/config"
	"github.com/clinicware/go-scheduling-backend/internal/domain"
	"github.com/clinicware/go-scheduling-backend/internal/http/handlers"
	"github.com/clinicware/go-scheduling-backend/internal/http/middleware"
	"github.com/clinicware/go-scheduling-backend/internal/repo"
	"github.com/clinicware/go-scheduling-backend/internal/services"
)

// apptRepoShim adapts the repository free functions to the
// services.AppointmentRepo interface expected by the AppointmentService.
// This keeps services decoupled from the concrete repo package while reusing
// existing functions.
type apptRepoShim struct{}

// CreateAppointment proxies repo.CreateAppointment.
func (apptRepoShim) CreateAppointment(ctx context.Context, db *gorm.DB, a *domain.Appointment) error {
	return repo.CreateAppointment(ctx, db, a)
}

// GetAppointment proxies repo.GetAppointment.
func (apptRepoShim) GetAppointment(ctx context.Context, db *gorm.DB, id string) (*domain.Appointment, error) {
	return repo.GetAppointment(ctx, db, id)
}

// ListAppointments proxies repo.ListAppointments.
func (apptRepoShim) ListAppointments(ctx context.Context, db *gorm.DB, f repo.AppointmentFilter) ([]domain.Appointment, error) {
	return repo.ListAppointments(ctx, db, f)
}

// ListGroup proxies repo.ListGroup.
func (apptRepoShim) ListGroup(ctx context.Context, db *gorm.DB, groupID string) ([]domain.Appointment, error) {
	return repo.ListGroup(ctx, db, groupID)
}

// UpdateAppointment proxies repo.UpdateAppointment.
func (apptRepoShim) UpdateAppointment(ctx context.Context, db *gorm.DB, id string, patch map[string]any) error {
	return repo.UpdateAppointment(ctx, db, id, patch)
}

// DeleteAppointment proxies repo.DeleteAppointment.
func (apptRepoShim) DeleteAppointment(ctx context.Context, db *gorm.DB, id string) (int64, error) {
	return repo.DeleteAppointment(ctx, db, id)
}

// DeleteGroup proxies repo.DeleteGroup.
func (apptRepoShim) DeleteGroup(ctx context.Context, db *gorm.DB, groupID string) (int64, error) {
	return repo.DeleteGroup(ctx, db, groupID)
}

// DeleteGroupFrom proxies repo.DeleteGroupFrom.
func (apptRepoShim) DeleteGroupFrom(ctx context.Context, db *gorm.DB, groupID string, from time.Time) (int64, error) {
	return repo.DeleteGroupFrom(ctx, db, groupID, from)
}

// calendarRepoShim adapts the repository free functions to the
// services.CalendarRepo interface expected by the CalendarService.
type calendarRepoShim struct{}

func (calendarRepoShim) ListAppointments(ctx context.Context, db *gorm.DB, f repo.AppointmentFilter) ([]domain.Appointment, error) {
	return repo.ListAppointments(ctx, db, f)
}

func (calendarRepoShim) ListClinics(ctx context.Context, db *gorm.DB) ([]domain.Clinic, error) {
	return repo.ListClinics(ctx, db)
}

func (calendarRepoShim) ListClinicsByIDs(ctx context.Context, db *gorm.DB, ids []string) ([]domain.Clinic, error) {
	return repo.ListClinicsByIDs(ctx, db, ids)
}

func (calendarRepoShim) ListPatients(ctx context.Context, db *gorm.DB) ([]domain.Patient, error) {
	return repo.ListPatients(ctx, db)
}

func (calendarRepoShim) ListClinicians(ctx context.Context, db *gorm.DB) ([]domain.Clinician, error) {
	return repo.ListClinicians(ctx, db)
}

func (calendarRepoShim) ListAppointmentTypes(ctx context.Context, db *gorm.DB) ([]domain.AppointmentType, error) {
	return repo.ListAppointmentTypes(ctx, db)
}

// directoryRepoShim adapts the repository free functions to the
// services.DirectoryRepo interface expected by the DirectoryService.
type directoryRepoShim struct{}

func (directoryRepoShim) CreateClinic(ctx context.Context, db *gorm.DB, c *domain.Clinic) error {
	return repo.CreateClinic(ctx, db, c)
}

func (directoryRepoShim) GetClinic(ctx context.Context, db *gorm.DB, id string) (*domain.Clinic, error) {
	return repo.GetClinic(ctx, db, id)
}

func (directoryRepoShim) ListClinics(ctx context.Context, db *gorm.DB) ([]domain.Clinic, error) {
	return repo.ListClinics(ctx, db)
}

func (directoryRepoShim) CreatePatient(ctx context.Context, db *gorm.DB, p *domain.Patient) error {
	return repo.CreatePatient(ctx, db, p)
}

func (directoryRepoShim) GetPatient(ctx context.Context, db *gorm.DB, id string) (*domain.Patient, error) {
	return repo.GetPatient(ctx, db, id)
}

func (directoryRepoShim) ListPatients(ctx context.Context, db *gorm.DB) ([]domain.Patient, error) {
	return repo.ListPatients(ctx, db)
}

func (directoryRepoShim) CreateClinician(ctx context.Context, db *gorm.DB, c *domain.Clinician) error {
	return repo.CreateClinician(ctx, db, c)
}

func (directoryRepoShim) GetClinician(ctx context.Context, db *gorm.DB, id string) (*domain.Clinician, error) {
	return repo.GetClinician(ctx, db, id)
}

func (directoryRepoShim) ListClinicians(ctx context.Context, db *gorm.DB) ([]domain.Clinician, error) {
	return repo.ListClinicians(ctx, db)
}

func (directoryRepoShim) CreateAppointmentType(ctx context.Context, db *gorm.DB, at *domain.AppointmentType) error {
	return repo.CreateAppointmentType(ctx, db, at)
}

func (directoryRepoShim) GetAppointmentType(ctx context.Context, db *gorm.DB, id string) (*domain.AppointmentType, error) {
	return repo.GetAppointmentType(ctx, db, id)
}

func (directoryRepoShim) ListAppointmentTypes(ctx context.Context, db *gorm.DB) ([]domain.AppointmentType, error) {
	return repo.ListAppointmentTypes(ctx, db)
}

// RegisterRoutes attaches all middleware and HTTP endpoints to the given Gin
// engine. It configures observability (tracing, metrics), idempotency and rate
// limiting, CORS and security headers, health and metrics endpoints, and then
// mounts the versioned public API under /api/v*.
//
// Middleware order matters:
//  1. OpenTelemetry: trace everything
//  2. RequestID: generate/propagate correlation id
//  3. RedactingLogger: structured logs with PII scrubbing
//  4. Recovery: capture panics after logger
//  5. Body size limiter
//  6. Gzip compression for large calendar payloads
//  7. Metrics
//  8. Idempotency validator (before rate limiter to allow bypass on replay)
//  9. Rate limiter (per user/IP, bypass on replay)
//  10. CORS and Security headers
func RegisterRoutes(r *gin.Engine, db *gorm.DB, clk *clock.Clock, cfg config.Config) {
	r.HandleMethodNotAllowed = true

	// 1) Trace all HTTP requests
	r.Use(otelgin.Middleware(cfg.OTEL.ServiceName))

	// 2) Correlate requests and logs
	r.Use(middleware.RequestID())

	// 3) Structured logging with redaction (patient PII in queries or
	// headers must never reach log sinks)
	r.Use(middleware.RedactingLogger(middleware.RedactOptions{
		MaskHeaders: []string{
			"X-API-Key", // project-specific sensitive header example
		},
	}))

	// 4) Panic recovery to JSON 500 (with request id)
	r.Use(middleware.Recovery())

	// 5) Global body size limit (1 MiB)
	r.Use(limitBody(1 << 20))

	// 6) Calendar projections for a busy clinic can run to thousands of
	// events; compress responses for clients that accept it.
	r.Use(gzip.Gzip(gzip.DefaultCompression))

	// 7) Prometheus metrics and /metrics endpoint
	r.Use(middleware.Metrics())
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// 8) Idempotency validation (before rate limiting)
	r.Use(middleware.IdempotencyValidator(
		middleware.IdempotencyOptions{
			MaxLen: 200,
		},
		func(ctx context.Context, userID, key string, now time.Time) (bool, error) {
			rec, err := repo.GetIdempotency(ctx, db, userID, key, now)
			if err != nil || rec == nil {
				return false, nil
			}
			return true, nil
		},
	))

	// 9) Token-bucket rate limiter per user/IP
	rl := middleware.NewRateLimiter(cfg.RateRPS, cfg.RateBurst, middleware.KeyByUserOrIP())
	r.Use(rl.Handler())

	// 10) CORS posture (safe defaults: allow all if none configured)
	if len(cfg.CORS.AllowedOrigins) == 0 {
		// Force ACAO: * even for requests without an Origin header (helps tests and simple health checks).
		r.Use(func(c *gin.Context) {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
			c.Next()
		})
		r.Use(cors.New(cors.Config{
			AllowAllOrigins:  true,
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-User-ID", middleware.HeaderIdempotencyKey},
			ExposeHeaders:    []string{"X-Request-ID", "Content-Length", "ETag"},
			AllowCredentials: false, // must remain false with AllowAllOrigins
			MaxAge:           12 * time.Hour,
		}))
	} else {
		// Echo ACAO with the request Origin when it is in the allowlist (in addition to gin-contrib/cors).
		allowed := make(map[string]struct{}, len(cfg.CORS.AllowedOrigins))
		for _, o := range cfg.CORS.AllowedOrigins {
			allowed[o] = struct{}{}
		}
		r.Use(func(c *gin.Context) {
			if origin := c.GetHeader("Origin"); origin != "" {
				if _, ok := allowed[origin]; ok {
					h := c.Writer.Header()
					h.Set("Access-Control-Allow-Origin", origin)
					h.Add("Vary", "Origin")
				}
			}
			c.Next()
		})
		r.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.CORS.AllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-User-ID", middleware.HeaderIdempotencyKey},
			ExposeHeaders:    []string{"X-Request-ID", "Content-Length", "ETag"},
			AllowCredentials: false,
			MaxAge:           12 * time.Hour,
		}))
	}

	// Security headers (HSTS only when enabled and request is HTTPS)
	r.Use(middleware.SecurityHeaders(middleware.SecurityOptions{
		EnableHSTS:   cfg.Security.EnableHSTS,
		HSTSMaxAge:   cfg.Security.HSTSMaxAge,
		NoStore:      false,
		EnablePolicy: true,
	}))

	// Fallbacks
	r.NoRoute(func(c *gin.Context) {
		handlers.Fail(c, http.StatusNotFound, handlers.ErrCodeNotFound, "route not found")
	})
	r.NoMethod(func(c *gin.Context) {
		handlers.Fail(c, http.StatusMethodNotAllowed, handlers.ErrCodeMethodNotAllowed, "method not allowed")
	})

	// Liveness/health
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	// Swagger UI (opt-in)
	if cfg.SwaggerEnabled {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	// Dependency injection: services ← repo/db/clock
	apptSvc := services.NewAppointmentService(db, apptRepoShim{}, clk)
	if cfg.DefaultOccurrences > 0 {
		apptSvc.DefaultOccurrences = cfg.DefaultOccurrences
	}
	calSvc := services.NewCalendarService(db, calendarRepoShim{})
	dirSvc := services.NewDirectoryService(db, directoryRepoShim{})
	h := handlers.New(apptSvc, calSvc, dirSvc)

	// Public API
	apiBase := cfg.APIBasePath // e.g. "/api/v1"
	api := groupWithPrefix(r, apiBase)
	{
		// Appointments
		api.POST("/appointments", h.CreateAppointment)
		api.GET("/appointments", h.ListAppointments)
		api.GET("/appointments/calendar_data", h.CalendarData)
		api.GET("/appointments/:id", h.GetAppointment)
		api.PATCH("/appointments/:id", h.UpdateAppointment)
		api.DELETE("/appointments/:id", h.DeleteAppointment)

		// Directory: clinics
		api.POST("/clinics", h.CreateClinic)
		api.GET("/clinics", h.ListClinics)
		api.GET("/clinics/:id", h.GetClinic)

		// Directory: patients
		api.POST("/patients", h.CreatePatient)
		api.GET("/patients", h.ListPatients)
		api.GET("/patients/:id", h.GetPatient)

		// Directory: clinicians
		api.POST("/clinicians", h.CreateClinician)
		api.GET("/clinicians", h.ListClinicians)
		api.GET("/clinicians/:id", h.GetClinician)

		// Directory: appointment types
		api.POST("/appointment-types", h.CreateAppointmentType)
		api.GET("/appointment-types", h.ListAppointmentTypes)
		api.GET("/appointment-types/:id", h.GetAppointmentType)
	}
}

// limitBody returns a Gin middleware that caps the request body size for all
// endpoints to maxBytes using http.MaxBytesReader. Requests exceeding the cap
// will cause downstream body reads to error.
func limitBody(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

// groupWithPrefix mounts a group at prefix, treating "/" (or empty) as root.
func groupWithPrefix(r *gin.Engine, prefix string) *gin.RouterGroup {
	if prefix == "" || prefix == "/" {
		return r.Group("")
	}
	return r.Group(prefix)
}
