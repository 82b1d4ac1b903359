// Appointment HTTP handlers.
//
// This file exposes REST endpoints for appointment resources:
//   - POST   /appointments        (create single or recurring series)
//   - GET    /appointments        (list/filter, ETag support, format=calendar)
//   - GET    /appointments/{id}   (fetch one, with can_cancel)
//   - PATCH  /appointments/{id}   (partial update; may trigger series conversion)
//   - DELETE /appointments/{id}   (scoped delete: this/future/all)
//
// Handlers are transport-thin: they validate input, call application services,
// and translate results into HTTP responses (including conditional responses).
//
// Idempotency:
// If the client supplies an Idempotency-Key header on POST and a previous
// successful result exists for (user, key), the handler returns the recorded
// appointment(s) and sets `Idempotency-Replayed: true`.
package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/clinicware/go-scheduling-backend/internal/domain"
	"github.com/clinicware/go-scheduling-backend/internal/repo"
	"github.com/clinicware/go-scheduling-backend/internal/schedule"
	"github.com/clinicware/go-scheduling-backend/internal/services"
	"github.com/clinicware/go-scheduling-backend/internal/utils"
)

//
// Service contracts (context-aware)
//

// AppointmentService defines the lifecycle operations consumed by HTTP
// handlers.
//
// Implementations should be safe for concurrent use and must honor the
// provided context for cancellation and timeouts.
type AppointmentService interface {
	// CreateSingle persists one non-recurring appointment.
	CreateSingle(ctx context.Context, in services.AppointmentInput) (*domain.Appointment, error)
	// CreateSeries expands a recurrence definition and persists one row per
	// occurrence.
	CreateSeries(ctx context.Context, in services.AppointmentInput, pattern string, stop schedule.Stop) ([]domain.Appointment, error)
	// ConvertToRecurring flips an existing appointment into occurrence #1 of
	// a new group and creates the additional occurrences.
	ConvertToRecurring(ctx context.Context, id, pattern string, stop schedule.Stop) (*domain.Appointment, int, error)
	// DeleteScoped removes the target, its future siblings, or its group.
	DeleteScoped(ctx context.Context, id, scope string, refStart *time.Time) (int64, error)
	// UpdateFields applies an in-place column patch.
	UpdateFields(ctx context.Context, id string, patch map[string]any) (*domain.Appointment, error)
	// Get fetches one appointment.
	Get(ctx context.Context, id string) (*domain.Appointment, error)
	// List returns appointments matching the filter.
	List(ctx context.Context, f repo.AppointmentFilter) ([]domain.Appointment, error)
	// CanCancel reports whether a Cancel action should be offered.
	CanCancel(a *domain.Appointment) bool
}

// CalendarService defines the read-only calendar projection consumed by HTTP
// handlers.
type CalendarService interface {
	// Project renders appointments matching the filter as {resources, events}.
	Project(ctx context.Context, f repo.AppointmentFilter) (*services.CalendarData, error)
}

//
// Handler wiring
//

// Handlers groups HTTP endpoints for appointments, the calendar projection,
// and the clinic directory. It depends on abstract service interfaces to
// keep transport concerns separate from business logic.
type Handlers struct {
	apptSvc AppointmentService
	calSvc  CalendarService
	dirSvc  DirectoryService
}

// New constructs and returns a Handlers instance bound to the given services.
func New(apptSvc AppointmentService, calSvc CalendarService, dirSvc DirectoryService) *Handlers {
	return &Handlers{apptSvc: apptSvc, calSvc: calSvc, dirSvc: dirSvc}
}

// userID extracts the authenticated user id from Gin context (set by upstream
// middleware). If absent, it falls back to "X-User-ID" header (tests use it),
// and finally to "demo-user". It never touches c.Request if it's nil.
func userID(c *gin.Context) string {
	if v, ok := c.Get("userID"); ok {
		if s, ok := v.(string); ok && s != "" {
			return s
		}
	}
	if c != nil && c.Request != nil {
		if h := strings.TrimSpace(c.GetHeader("X-User-ID")); h != "" {
			return h
		}
	}
	return "demo-user"
}

//
// DTOs
//

// CreateAppointmentRequest is the JSON payload for creating an appointment.
// Setting is_recurring=true turns the request into a series create, which
// additionally requires recurrence_pattern and accepts either
// recurrence_end_date or number_of_occurrences (default 4).
type CreateAppointmentRequest struct {
	ClinicID          *string    `json:"clinic_id"`
	PatientID         *string    `json:"patient_id"`
	ClinicianID       *string    `json:"clinician_id"`
	AppointmentTypeID *string    `json:"appointment_type_id"`
	StartTime         time.Time  `json:"start_time" binding:"required" example:"2025-01-06T09:00:00Z"`
	EndTime           *time.Time `json:"end_time" example:"2025-01-06T09:30:00Z"`
	Status            string     `json:"status" example:"scheduled"`
	Reason            string     `json:"reason"`
	Notes             string     `json:"notes"`
	Confirmed         bool       `json:"confirmed"`

	IsRecurring         bool       `json:"is_recurring"`
	RecurrencePattern   string     `json:"recurrence_pattern" example:"weekly"`
	RecurrenceEndDate   *time.Time `json:"recurrence_end_date"`
	NumberOfOccurrences int        `json:"number_of_occurrences" example:"4"`
}

// UpdateAppointmentRequest is the JSON payload for a partial update. Pointer
// fields distinguish "absent" from "set to zero". Setting is_recurring=true
// on a non-recurring appointment triggers a series conversion.
type UpdateAppointmentRequest struct {
	ClinicID          *string    `json:"clinic_id"`
	PatientID         *string    `json:"patient_id"`
	ClinicianID       *string    `json:"clinician_id"`
	AppointmentTypeID *string    `json:"appointment_type_id"`
	StartTime         *time.Time `json:"start_time"`
	EndTime           *time.Time `json:"end_time"`
	Status            *string    `json:"status"`
	Reason            *string    `json:"reason"`
	Notes             *string    `json:"notes"`
	Confirmed         *bool      `json:"confirmed"`

	IsRecurring         *bool      `json:"is_recurring"`
	RecurrencePattern   string     `json:"recurrence_pattern"`
	RecurrenceEndDate   *time.Time `json:"recurrence_end_date"`
	NumberOfOccurrences int        `json:"number_of_occurrences"`
}

// DeleteAppointmentRequest optionally scopes a delete. delete_type defaults
// to "this"; start_time is the reference for the "future" scope.
type DeleteAppointmentRequest struct {
	DeleteType string     `json:"delete_type" example:"future"`
	StartTime  *time.Time `json:"start_time"`
}

// SeriesResponse wraps the appointments created for a recurring series.
type SeriesResponse struct {
	Message      string               `json:"message"`
	Appointments []domain.Appointment `json:"appointments"`
}

// SeriesPartialResponse reports a best-effort series write that failed
// partway through: the created prefix is returned, never discarded.
type SeriesPartialResponse struct {
	RequestID    string               `json:"request_id,omitempty"`
	Code         string               `json:"code"`
	Message      string               `json:"message"`
	Created      int                  `json:"created"`
	Appointments []domain.Appointment `json:"appointments"`
}

// AppointmentResponse wraps a single appointment with its derived
// can_cancel predicate.
type AppointmentResponse struct {
	Appointment *domain.Appointment `json:"appointment"`
	CanCancel   bool                `json:"can_cancel"`
}

// UpdateAppointmentResponse reports the updated row plus how many
// additional occurrences a conversion created (0 for a plain patch).
type UpdateAppointmentResponse struct {
	Appointment                   *domain.Appointment `json:"appointment"`
	AdditionalAppointmentsCreated int                 `json:"additional_appointments_created"`
}

// DeleteAppointmentResponse reports how many rows a scoped delete removed.
type DeleteAppointmentResponse struct {
	Deleted int64 `json:"deleted"`
}

// ListAppointmentsResponse wraps a filtered appointment list.
type ListAppointmentsResponse struct {
	Appointments []domain.Appointment `json:"appointments"`
	Count        int                  `json:"count"`
}

//
// Helpers
//

// apptFilter builds the repository filter from list query parameters.
// from/to accept RFC 3339 timestamps; unparseable values are ignored.
func apptFilter(c *gin.Context) repo.AppointmentFilter {
	f := repo.AppointmentFilter{
		ClinicID:    strings.TrimSpace(c.Query("clinic")),
		PatientID:   strings.TrimSpace(c.Query("patient")),
		ClinicianID: strings.TrimSpace(c.Query("clinician")),
		Status:      strings.ToLower(strings.TrimSpace(c.Query("status"))),
	}
	if f.ClinicID == "" {
		f.ClinicID = strings.TrimSpace(c.Query("clinic_id"))
	}
	if v := c.Query("from"); v != "" {
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			u := t.UTC()
			f.From = &u
		}
	}
	if v := c.Query("to"); v != "" {
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			u := t.UTC()
			f.To = &u
		}
	}
	return f
}

// stopFromRequest builds the planner stop condition; the end date wins over
// the count when both are supplied.
func stopFromRequest(endDate *time.Time, count int) schedule.Stop {
	if endDate != nil {
		u := endDate.UTC()
		return schedule.Stop{EndDate: &u}
	}
	return schedule.Stop{Count: count}
}

// serviceErr maps service sentinels to an HTTP status and error code.
func serviceErr(err error) (int, string) {
	switch {
	case errors.Is(err, services.ErrAppointmentNotFound):
		return http.StatusNotFound, ErrCodeNotFound
	case errors.Is(err, services.ErrMissingPatient),
		errors.Is(err, services.ErrInvalidTimeRange),
		errors.Is(err, services.ErrMissingPattern),
		errors.Is(err, services.ErrInvalidPattern),
		errors.Is(err, services.ErrInvalidScope),
		errors.Is(err, services.ErrInvalidStatus):
		return http.StatusBadRequest, ErrCodeBadRequest
	default:
		return http.StatusInternalServerError, ErrCodeInternal
	}
}

// apptInput converts the create DTO into the service input.
func apptInput(req CreateAppointmentRequest) services.AppointmentInput {
	return services.AppointmentInput{
		ClinicID:          req.ClinicID,
		PatientID:         req.PatientID,
		ClinicianID:       req.ClinicianID,
		AppointmentTypeID: req.AppointmentTypeID,
		StartTime:         req.StartTime,
		EndTime:           req.EndTime,
		Status:            req.Status,
		Reason:            req.Reason,
		Notes:             req.Notes,
		Confirmed:         req.Confirmed,
	}
}

// serviceDB exposes the concrete service's DB handle for best-effort
// cross-cutting reads (ETag stats, idempotency records).
func (h *Handlers) serviceDB() *gorm.DB {
	if svc, ok := h.apptSvc.(*services.AppointmentService); ok {
		return svc.DB
	}
	return nil
}

// idempotencyKey extracts an Idempotency-Key header if present.
func idempotencyKey(c *gin.Context) string {
	return strings.TrimSpace(c.GetHeader("Idempotency-Key"))
}

//
// Handlers
//

// CreateAppointment godoc
// @ID          createAppointment
// @Summary     Create an appointment or recurring series
// @Description Creates one appointment, or a whole series when is_recurring=true.
// @Description Supports idempotency via the Idempotency-Key header (same key → same result).
// @Tags        Appointments
// @Accept      json
// @Produce     json
//
// @Param       X-User-ID        header  string  false "User ID (demo header)"  example(user123)
// @Param       Idempotency-Key  header  string  false "Idempotency key for safe retries (UUID recommended)"
// @Param       body             body    handlers.CreateAppointmentRequest  true  "Create appointment payload"
//
// @Success     201  {object}  handlers.AppointmentResponse  "Single appointment"
// @Success     201  {object}  handlers.SeriesResponse       "Recurring series"
// @Failure     400  {object}  handlers.ErrorResponse        "Bad request"
// @Failure     500  {object}  handlers.ErrorResponse        "Internal error"
// @Router      /appointments [post]
func (h *Handlers) CreateAppointment(c *gin.Context) {
	ctx := c.Request.Context()

	var req CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body: start_time required")
		return
	}

	currentUser := userID(c)

	// Idempotency (replay path).
	idemKey := idempotencyKey(c)
	if idemKey != "" {
		if db := h.serviceDB(); db != nil {
			if rec, err := repo.GetIdempotency(ctx, db, currentUser, idemKey, time.Now().UTC()); err == nil && rec != nil {
				if h.replayCreate(c, db, rec) {
					return
				}
			}
		}
	}

	if req.IsRecurring {
		h.createSeries(c, req, currentUser, idemKey)
		return
	}

	a, err := h.apptSvc.CreateSingle(ctx, apptInput(req))
	if err != nil {
		status, code := serviceErr(err)
		if status == http.StatusInternalServerError {
			code = ErrCodeCreateFailed
		}
		fail(c, status, code, err.Error())
		return
	}

	if idemKey != "" {
		if db := h.serviceDB(); db != nil {
			_, _ = repo.CreateIdempotency(ctx, db, currentUser, idemKey, a.ID, "", http.StatusCreated, 24*time.Hour)
		}
	}
	ok(c, http.StatusCreated, AppointmentResponse{Appointment: a, CanCancel: h.apptSvc.CanCancel(a)})
}

// createSeries handles the recurring branch of CreateAppointment.
func (h *Handlers) createSeries(c *gin.Context, req CreateAppointmentRequest, currentUser, idemKey string) {
	ctx := c.Request.Context()
	stop := stopFromRequest(req.RecurrenceEndDate, req.NumberOfOccurrences)

	created, err := h.apptSvc.CreateSeries(ctx, apptInput(req), req.RecurrencePattern, stop)

	var pbe *services.PartialBatchError
	if errors.As(err, &pbe) {
		c.AbortWithStatusJSON(http.StatusInternalServerError, SeriesPartialResponse{
			RequestID:    c.Writer.Header().Get("X-Request-ID"),
			Code:         ErrCodeSeriesPartial,
			Message:      pbe.Error(),
			Created:      pbe.Created,
			Appointments: created,
		})
		return
	}
	if err != nil {
		status, code := serviceErr(err)
		if status == http.StatusInternalServerError {
			code = ErrCodeCreateFailed
		}
		fail(c, status, code, err.Error())
		return
	}

	if idemKey != "" && len(created) > 0 {
		if db := h.serviceDB(); db != nil {
			groupID := ""
			if created[0].RecurrenceGroupID != nil {
				groupID = *created[0].RecurrenceGroupID
			}
			_, _ = repo.CreateIdempotency(ctx, db, currentUser, idemKey, created[0].ID, groupID, http.StatusCreated, 24*time.Hour)
		}
	}
	ok(c, http.StatusCreated, SeriesResponse{
		Message:      fmt.Sprintf("Created %d appointments", len(created)),
		Appointments: created,
	})
}

// replayCreate serves a recorded POST result. It reports whether the
// response was written.
func (h *Handlers) replayCreate(c *gin.Context, db *gorm.DB, rec *domain.Idempotency) bool {
	ctx := c.Request.Context()

	if rec.RecurrenceGroupID != "" {
		group, err := repo.ListGroup(ctx, db, rec.RecurrenceGroupID)
		if err != nil || len(group) == 0 {
			return false
		}
		c.Header("Idempotency-Replayed", "true")
		ok(c, http.StatusCreated, SeriesResponse{
			Message:      fmt.Sprintf("Created %d appointments", len(group)),
			Appointments: group,
		})
		return true
	}

	prev, err := h.apptSvc.Get(ctx, rec.AppointmentID)
	if err != nil {
		return false
	}
	c.Header("Idempotency-Replayed", "true")
	ok(c, http.StatusCreated, AppointmentResponse{Appointment: prev, CanCancel: h.apptSvc.CanCancel(prev)})
	return true
}

// ListAppointments godoc
// @ID          listAppointments
// @Summary     List appointments
// @Description Returns appointments matching the filters, ordered by start time.
// @Description Supports weak ETag via If-None-Match and may return 304.
// @Description With format=calendar, returns the calendar projection instead.
// @Tags        Appointments
// @Produce     json
//
// @Param       If-None-Match  header  string  false "Return 304 if ETag matches"
// @Param       clinic     query  string  false "Clinic ID"
// @Param       patient    query  string  false "Patient ID"
// @Param       clinician  query  string  false "Clinician ID"
// @Param       status     query  string  false "Status"  Enums(scheduled, checked_in, completed, cancelled, no_show)
// @Param       from       query  string  false "Window start (RFC 3339, inclusive)"
// @Param       to         query  string  false "Window end (RFC 3339, exclusive)"
// @Param       format     query  string  false "Set to calendar for {resources, events}"
// @Param       limit      query  int     false "Max rows returned"
//
// @Success     200  {object} handlers.ListAppointmentsResponse
// @Header      200  {string} ETag  "Weak ETag for current result"
// @Success     304  {string} string "Not Modified"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /appointments [get]
func (h *Handlers) ListAppointments(c *gin.Context) {
	ctx := c.Request.Context()
	f := apptFilter(c)

	if strings.EqualFold(c.Query("format"), "calendar") {
		data, err := h.calSvc.Project(ctx, f)
		if err != nil {
			fail(c, http.StatusInternalServerError, ErrCodeProjectionFailed, err.Error())
			return
		}
		ok(c, http.StatusOK, data)
		return
	}

	// ETag pre-check (best effort).
	if db := h.serviceDB(); db != nil {
		count, maxTS, err := repo.AppointmentsStats(ctx, db, f)
		if err == nil {
			var ts int64
			if maxTS != nil {
				ts = maxTS.Unix()
			}
			// The window bounds are part of the key: the stats honor
			// them, so two windows must never share a tag.
			var from, to int64
			if f.From != nil {
				from = f.From.Unix()
			}
			if f.To != nil {
				to = f.To.Unix()
			}
			etag := fmt.Sprintf(`W/"appointments:%s:%s:%s:%s:%d:%d:%d:%d"`,
				f.ClinicID, f.PatientID, f.ClinicianID, f.Status, from, to, count, ts)
			c.Header("ETag", etag)
			if inm := c.GetHeader("If-None-Match"); inm != "" && inm == etag {
				c.Status(http.StatusNotModified)
				return
			}
		}
	}

	items, err := h.apptSvc.List(ctx, f)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, err.Error())
		return
	}
	if limit := utils.AtoiDefault(c.Query("limit"), 0); limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	ok(c, http.StatusOK, ListAppointmentsResponse{Appointments: items, Count: len(items)})
}

// GetAppointment godoc
// @ID          getAppointment
// @Summary     Fetch one appointment
// @Tags        Appointments
// @Produce     json
//
// @Param       id  path  string  true  "Appointment ID (UUID)"  format(uuid)
//
// @Success     200  {object} handlers.AppointmentResponse
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     404  {object} handlers.ErrorResponse "Appointment not found"
// @Router      /appointments/{id} [get]
func (h *Handlers) GetAppointment(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "appointment id must be a UUID")
		return
	}

	a, err := h.apptSvc.Get(c.Request.Context(), id)
	if err != nil {
		status, code := serviceErr(err)
		fail(c, status, code, err.Error())
		return
	}
	ok(c, http.StatusOK, AppointmentResponse{Appointment: a, CanCancel: h.apptSvc.CanCancel(a)})
}

// UpdateAppointment godoc
// @ID          updateAppointment
// @Summary     Partially update an appointment
// @Description Applies a field patch. Setting is_recurring=true on a
// @Description non-recurring appointment converts it into a series; the
// @Description response reports additional_appointments_created.
// @Tags        Appointments
// @Accept      json
// @Produce     json
//
// @Param       id    path  string  true  "Appointment ID (UUID)"  format(uuid)
// @Param       body  body  handlers.UpdateAppointmentRequest  true  "Patch payload"
//
// @Success     200  {object} handlers.UpdateAppointmentResponse
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     404  {object} handlers.ErrorResponse "Appointment not found"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /appointments/{id} [patch]
func (h *Handlers) UpdateAppointment(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "appointment id must be a UUID")
		return
	}

	var req UpdateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	additional := 0
	if req.IsRecurring != nil && *req.IsRecurring {
		stop := stopFromRequest(req.RecurrenceEndDate, req.NumberOfOccurrences)
		_, n, err := h.apptSvc.ConvertToRecurring(ctx, id, req.RecurrencePattern, stop)

		var pbe *services.PartialBatchError
		if errors.As(err, &pbe) {
			c.AbortWithStatusJSON(http.StatusInternalServerError, SeriesPartialResponse{
				RequestID: c.Writer.Header().Get("X-Request-ID"),
				Code:      ErrCodeSeriesPartial,
				Message:   pbe.Error(),
				Created:   pbe.Created,
			})
			return
		}
		if err != nil {
			status, code := serviceErr(err)
			if status == http.StatusInternalServerError {
				code = ErrCodeUpdateFailed
			}
			fail(c, status, code, err.Error())
			return
		}
		additional = n
	}

	patch := fieldPatch(req)
	a, err := h.apptSvc.UpdateFields(ctx, id, patch)
	if err != nil {
		status, code := serviceErr(err)
		if status == http.StatusInternalServerError {
			code = ErrCodeUpdateFailed
		}
		fail(c, status, code, err.Error())
		return
	}

	ok(c, http.StatusOK, UpdateAppointmentResponse{
		Appointment:                   a,
		AdditionalAppointmentsCreated: additional,
	})
}

// fieldPatch builds the column patch from the update DTO, excluding the
// recurrence trigger fields handled by conversion.
func fieldPatch(req UpdateAppointmentRequest) map[string]any {
	patch := map[string]any{}
	if req.ClinicID != nil {
		patch["clinic_id"] = *req.ClinicID
	}
	if req.PatientID != nil {
		patch["patient_id"] = *req.PatientID
	}
	if req.ClinicianID != nil {
		patch["clinician_id"] = *req.ClinicianID
	}
	if req.AppointmentTypeID != nil {
		patch["appointment_type_id"] = *req.AppointmentTypeID
	}
	if req.StartTime != nil {
		patch["start_time"] = req.StartTime.UTC()
	}
	if req.EndTime != nil {
		patch["end_time"] = req.EndTime.UTC()
	}
	if req.Status != nil {
		patch["status"] = strings.ToLower(strings.TrimSpace(*req.Status))
	}
	if req.Reason != nil {
		patch["reason"] = *req.Reason
	}
	if req.Notes != nil {
		patch["notes"] = *req.Notes
	}
	if req.Confirmed != nil {
		patch["confirmed"] = *req.Confirmed
	}
	return patch
}

// DeleteAppointment godoc
// @ID          deleteAppointment
// @Summary     Delete an appointment (scoped)
// @Description Hard-deletes the appointment, its future siblings, or its
// @Description whole recurrence group, per delete_type (default "this").
// @Tags        Appointments
// @Accept      json
// @Produce     json
//
// @Param       id    path  string  true   "Appointment ID (UUID)"  format(uuid)
// @Param       body  body  handlers.DeleteAppointmentRequest  false  "Scope payload"
//
// @Success     200  {object} handlers.DeleteAppointmentResponse
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     404  {object} handlers.ErrorResponse "Appointment not found"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /appointments/{id} [delete]
func (h *Handlers) DeleteAppointment(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "appointment id must be a UUID")
		return
	}

	// Body is optional; an empty or absent body means scope "this".
	var req DeleteAppointmentRequest
	_ = c.ShouldBindJSON(&req)

	n, err := h.apptSvc.DeleteScoped(c.Request.Context(), id, req.DeleteType, req.StartTime)
	if err != nil {
		status, code := serviceErr(err)
		if status == http.StatusInternalServerError {
			code = ErrCodeDeleteFailed
		}
		fail(c, status, code, err.Error())
		return
	}
	ok(c, http.StatusOK, DeleteAppointmentResponse{Deleted: n})
}

// CalendarData godoc
// @ID          calendarData
// @Summary     Calendar projection
// @Description Returns {resources, events} for one clinic or all clinics.
// @Tags        Calendar
// @Produce     json
//
// @Param       clinic_id  query  string  false "Scope to one clinic"
// @Param       from       query  string  false "Window start (RFC 3339)"
// @Param       to         query  string  false "Window end (RFC 3339)"
//
// @Success     200  {object} services.CalendarData
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /appointments/calendar_data [get]
func (h *Handlers) CalendarData(c *gin.Context) {
	data, err := h.calSvc.Project(c.Request.Context(), apptFilter(c))
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeProjectionFailed, err.Error())
		return
	}
	ok(c, http.StatusOK, data)
}
