// Package services – AppointmentService
//
// This file implements AppointmentService, the lifecycle manager that owns
// every write to the appointment store: single creation, recurring-series
// creation, mid-series conversion of an existing appointment, scoped
// deletion (this/future/all), and in-place field updates. Recurrence
// expansion itself is delegated to the pure planner in internal/schedule;
// this service validates inputs, stamps identifiers, and persists one row
// per occurrence.
//
// Series writes are best effort: a failure on occurrence k keeps
// occurrences 1..k-1 and is reported through PartialBatchError rather than
// rolled back.
//
// Observability: public methods are OpenTelemetry-instrumented; spans carry
// appointment and recurrence-group identifiers where applicable.
package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/clinicware/go-scheduling-backend/internal/clock"
	"github.com/clinicware/go-scheduling-backend/internal/domain"
	"github.com/clinicware/go-scheduling-backend/internal/repo"
	"github.com/clinicware/go-scheduling-backend/internal/schedule"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// AppointmentRepo defines the repository contract required by
// AppointmentService. Implementations are responsible for persistence of
// appointment rows.
type AppointmentRepo interface {
	// CreateAppointment inserts one appointment row.
	CreateAppointment(ctx context.Context, db *gorm.DB, a *domain.Appointment) error

	// GetAppointment fetches an appointment by ID.
	GetAppointment(ctx context.Context, db *gorm.DB, id string) (*domain.Appointment, error)

	// ListAppointments returns appointments matching the filter, ordered by
	// start_time ascending.
	ListAppointments(ctx context.Context, db *gorm.DB, f repo.AppointmentFilter) ([]domain.Appointment, error)

	// ListGroup returns every appointment sharing a recurrence group,
	// ordered by start_time ascending.
	ListGroup(ctx context.Context, db *gorm.DB, groupID string) ([]domain.Appointment, error)

	// UpdateAppointment applies a column patch to one row.
	UpdateAppointment(ctx context.Context, db *gorm.DB, id string, patch map[string]any) error

	// DeleteAppointment removes one row outright, returning rows affected.
	DeleteAppointment(ctx context.Context, db *gorm.DB, id string) (int64, error)

	// DeleteGroup removes every row in a recurrence group.
	DeleteGroup(ctx context.Context, db *gorm.DB, groupID string) (int64, error)

	// DeleteGroupFrom removes group rows with start_time >= from.
	DeleteGroupFrom(ctx context.Context, db *gorm.DB, groupID string, from time.Time) (int64, error)
}

// Delete scopes accepted by DeleteScoped.
const (
	ScopeThis   = "this"
	ScopeFuture = "future"
	ScopeAll    = "all"
)

// AppointmentInput carries the caller-supplied fields for a create.
type AppointmentInput struct {
	ClinicID          *string
	PatientID         *string
	ClinicianID       *string
	AppointmentTypeID *string
	StartTime         time.Time
	EndTime           *time.Time
	Status            string
	Reason            string
	Notes             string
	Confirmed         bool
}

// AppointmentService coordinates appointment persistence and recurrence
// orchestration. It is the sole writer of the appointment store.
type AppointmentService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB
	// Repo is the appointment repository used by this service.
	Repo AppointmentRepo
	// Clock supplies the practice timezone and UTC normalization.
	Clock *clock.Clock

	// DefaultOccurrences is the series length used when the caller supplies
	// neither an end date nor an occurrence count.
	DefaultOccurrences int
}

// NewAppointmentService constructs an AppointmentService with the default
// series length applied when no stop condition is given.
func NewAppointmentService(db *gorm.DB, r AppointmentRepo, clk *clock.Clock) *AppointmentService {
	return &AppointmentService{
		DB:                 db,
		Repo:               r,
		Clock:              clk,
		DefaultOccurrences: 4,
	}
}

// CreateSingle validates the input, assigns a new id, and persists one
// non-recurring appointment. Status defaults to scheduled.
func (s *AppointmentService) CreateSingle(ctx context.Context, in AppointmentInput) (*domain.Appointment, error) {
	tr := otel.Tracer("services/AppointmentService")
	ctx, span := tr.Start(ctx, "CreateSingle")
	defer span.End()

	a, err := s.buildAppointment(in)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.String("appointment.id", a.ID))

	if err := s.Repo.CreateAppointment(ctx, s.DB, a); err != nil {
		return nil, err
	}
	return a, nil
}

// CreateSeries expands a recurrence definition into concrete occurrences
// and persists one appointment per slot, all sharing a freshly generated
// recurrence group id. Writes are best effort: on a failure at occurrence
// k, the k-1 rows already written are returned alongside a
// PartialBatchError.
func (s *AppointmentService) CreateSeries(ctx context.Context, in AppointmentInput, pattern string, stop schedule.Stop) ([]domain.Appointment, error) {
	tr := otel.Tracer("services/AppointmentService")
	ctx, span := tr.Start(ctx, "CreateSeries",
		trace.WithAttributes(attribute.String("recurrence.pattern", pattern)),
	)
	defer span.End()

	p, err := s.requirePattern(pattern)
	if err != nil {
		return nil, err
	}
	// Validate shared fields once, before any write.
	if _, err := s.buildAppointment(in); err != nil {
		return nil, err
	}

	stop = s.applyDefaultStop(stop)
	start := s.Clock.ToUTC(in.StartTime)
	var end *time.Time
	if in.EndTime != nil {
		u := s.Clock.ToUTC(*in.EndTime)
		end = &u
	}

	slots, err := schedule.Plan(start, end, p, stop)
	if err != nil {
		return nil, mapPlannerErr(err)
	}

	groupID := uuid.NewString()
	span.SetAttributes(
		attribute.String("recurrence.group_id", groupID),
		attribute.Int("recurrence.occurrences", len(slots)),
	)

	created := make([]domain.Appointment, 0, len(slots))
	for _, slot := range slots {
		occ := in
		occ.StartTime = slot.Start
		occ.EndTime = slot.End
		a, err := s.buildAppointment(occ)
		if err != nil {
			if len(created) == 0 {
				return nil, err
			}
			return created, &PartialBatchError{Created: len(created), Err: err}
		}
		a.IsRecurring = true
		pat := string(p)
		a.RecurrencePattern = &pat
		a.RecurrenceGroupID = &groupID
		a.RecurrenceEndDate = stop.EndDate

		if err := s.Repo.CreateAppointment(ctx, s.DB, a); err != nil {
			if len(created) == 0 {
				return nil, err
			}
			return created, &PartialBatchError{Created: len(created), Err: err}
		}
		created = append(created, *a)
	}
	return created, nil
}

// ConvertToRecurring flips an existing non-recurring appointment into
// occurrence #1 of a new recurrence group, keeping its id, then creates the
// additional occurrences the stop condition calls for. Each new occurrence
// copies the original's patient/clinic/clinician/type references plus its
// status and notes. It returns the updated original and the count of newly
// created rows. Calling it on an already-recurring appointment is a no-op.
func (s *AppointmentService) ConvertToRecurring(ctx context.Context, id, pattern string, stop schedule.Stop) (*domain.Appointment, int, error) {
	tr := otel.Tracer("services/AppointmentService")
	ctx, span := tr.Start(ctx, "ConvertToRecurring",
		trace.WithAttributes(
			attribute.String("appointment.id", id),
			attribute.String("recurrence.pattern", pattern),
		),
	)
	defer span.End()

	existing, err := s.Repo.GetAppointment(ctx, s.DB, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, 0, ErrAppointmentNotFound
		}
		return nil, 0, err
	}
	if existing.IsRecurring {
		// Already part of a group; nothing to convert.
		return existing, 0, nil
	}

	p, err := s.requirePattern(pattern)
	if err != nil {
		return nil, 0, err
	}
	stop = s.applyDefaultStop(stop)

	slots, err := schedule.Plan(existing.StartTime, existing.EndTime, p, stop)
	if err != nil {
		return nil, 0, mapPlannerErr(err)
	}

	groupID := uuid.NewString()
	span.SetAttributes(attribute.String("recurrence.group_id", groupID))

	pat := string(p)
	patch := map[string]any{
		"is_recurring":        true,
		"recurrence_pattern":  pat,
		"recurrence_group_id": groupID,
		"recurrence_end_date": stop.EndDate,
	}
	if err := s.Repo.UpdateAppointment(ctx, s.DB, existing.ID, patch); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, 0, ErrAppointmentNotFound
		}
		return nil, 0, err
	}
	existing.IsRecurring = true
	existing.RecurrencePattern = &pat
	existing.RecurrenceGroupID = &groupID
	existing.RecurrenceEndDate = stop.EndDate

	// The original is occurrence #1; everything past the first slot is new.
	additional := []schedule.Slot{}
	if len(slots) > 1 {
		additional = slots[1:]
	}
	createdCount := 0
	for _, slot := range additional {
		occ := &domain.Appointment{
			ID:                uuid.NewString(),
			ClinicID:          existing.ClinicID,
			PatientID:         existing.PatientID,
			ClinicianID:       existing.ClinicianID,
			AppointmentTypeID: existing.AppointmentTypeID,
			StartTime:         slot.Start,
			EndTime:           slot.End,
			Status:            existing.Status,
			Notes:             existing.Notes,
			IsRecurring:       true,
			RecurrencePattern: &pat,
			RecurrenceGroupID: &groupID,
			RecurrenceEndDate: stop.EndDate,
			Confirmed:         existing.Confirmed,
		}
		if err := s.Repo.CreateAppointment(ctx, s.DB, occ); err != nil {
			return existing, createdCount, &PartialBatchError{Created: createdCount, Err: err}
		}
		createdCount++
	}
	return existing, createdCount, nil
}

// DeleteScoped hard-deletes the target appointment, its future siblings, or
// its whole recurrence group, depending on scope. The future scope uses
// refStart when supplied and the target's own start time otherwise. It
// returns the number of rows removed.
func (s *AppointmentService) DeleteScoped(ctx context.Context, id, scope string, refStart *time.Time) (int64, error) {
	tr := otel.Tracer("services/AppointmentService")
	ctx, span := tr.Start(ctx, "DeleteScoped",
		trace.WithAttributes(
			attribute.String("appointment.id", id),
			attribute.String("delete.scope", scope),
		),
	)
	defer span.End()

	scope = strings.ToLower(strings.TrimSpace(scope))
	if scope == "" {
		scope = ScopeThis
	}
	if scope != ScopeThis && scope != ScopeFuture && scope != ScopeAll {
		return 0, ErrInvalidScope
	}

	target, err := s.Repo.GetAppointment(ctx, s.DB, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrAppointmentNotFound
		}
		return 0, err
	}

	// Outside a group, every scope collapses to deleting the target.
	if scope == ScopeThis || target.RecurrenceGroupID == nil {
		return s.Repo.DeleteAppointment(ctx, s.DB, target.ID)
	}
	if scope == ScopeAll {
		return s.Repo.DeleteGroup(ctx, s.DB, *target.RecurrenceGroupID)
	}
	from := target.StartTime
	if refStart != nil {
		from = s.Clock.ToUTC(*refStart)
	}
	return s.Repo.DeleteGroupFrom(ctx, s.DB, *target.RecurrenceGroupID, from)
}

// UpdateFields applies an in-place column patch and returns the updated
// row. Status transitions are unrestricted, but a status value outside the
// allowed set is rejected before the write, as is a patch that would leave
// end_time before start_time.
func (s *AppointmentService) UpdateFields(ctx context.Context, id string, patch map[string]any) (*domain.Appointment, error) {
	tr := otel.Tracer("services/AppointmentService")
	ctx, span := tr.Start(ctx, "UpdateFields",
		trace.WithAttributes(attribute.String("appointment.id", id)),
	)
	defer span.End()

	if len(patch) == 0 {
		return s.Get(ctx, id)
	}
	if v, ok := patch["status"]; ok {
		st, _ := v.(string)
		if !domain.ValidStatus(st) {
			return nil, ErrInvalidStatus
		}
	}
	if err := s.checkPatchTimes(ctx, id, patch); err != nil {
		return nil, err
	}

	if err := s.Repo.UpdateAppointment(ctx, s.DB, id, patch); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrAppointmentNotFound
		}
		return nil, err
	}
	return s.Get(ctx, id)
}

// checkPatchTimes validates the time ordering a patch would persist. The
// bounds not present in the patch come from the stored row.
func (s *AppointmentService) checkPatchTimes(ctx context.Context, id string, patch map[string]any) error {
	_, hasStart := patch["start_time"]
	_, hasEnd := patch["end_time"]
	if !hasStart && !hasEnd {
		return nil
	}
	cur, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	start := cur.StartTime
	if v, ok := patch["start_time"].(time.Time); ok {
		start = v
	}
	end := cur.EndTime
	if v, ok := patch["end_time"].(time.Time); ok {
		end = &v
	}
	if end != nil && end.Before(start) {
		return ErrInvalidTimeRange
	}
	return nil
}

// Get fetches one appointment by id.
func (s *AppointmentService) Get(ctx context.Context, id string) (*domain.Appointment, error) {
	a, err := s.Repo.GetAppointment(ctx, s.DB, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAppointmentNotFound
		}
		return nil, err
	}
	return a, nil
}

// List returns appointments matching the filter, ordered by start time.
func (s *AppointmentService) List(ctx context.Context, f repo.AppointmentFilter) ([]domain.Appointment, error) {
	return s.Repo.ListAppointments(ctx, s.DB, f)
}

// CanCancel reports whether a client should offer a "Cancel" action for the
// appointment: only scheduled and checked-in appointments qualify.
func (s *AppointmentService) CanCancel(a *domain.Appointment) bool {
	if a == nil {
		return false
	}
	return a.Status == domain.StatusScheduled || a.Status == domain.StatusCheckedIn
}

// buildAppointment validates the input and assembles a persistable row with
// a fresh id and UTC-normalized times.
func (s *AppointmentService) buildAppointment(in AppointmentInput) (*domain.Appointment, error) {
	if in.PatientID == nil || strings.TrimSpace(*in.PatientID) == "" {
		return nil, ErrMissingPatient
	}

	start := s.Clock.ToUTC(in.StartTime)
	var end *time.Time
	if in.EndTime != nil {
		u := s.Clock.ToUTC(*in.EndTime)
		if u.Before(start) {
			return nil, ErrInvalidTimeRange
		}
		end = &u
	}

	status := strings.ToLower(strings.TrimSpace(in.Status))
	if status == "" {
		status = domain.StatusScheduled
	}
	if !domain.ValidStatus(status) {
		return nil, ErrInvalidStatus
	}

	return &domain.Appointment{
		ID:                uuid.NewString(),
		ClinicID:          in.ClinicID,
		PatientID:         in.PatientID,
		ClinicianID:       in.ClinicianID,
		AppointmentTypeID: in.AppointmentTypeID,
		StartTime:         start,
		EndTime:           end,
		Status:            status,
		Reason:            in.Reason,
		Notes:             in.Notes,
		Confirmed:         in.Confirmed,
	}, nil
}

// requirePattern rejects empty patterns, then parses.
func (s *AppointmentService) requirePattern(pattern string) (schedule.Pattern, error) {
	if strings.TrimSpace(pattern) == "" {
		return "", ErrMissingPattern
	}
	p, err := schedule.ParsePattern(pattern)
	if err != nil {
		return "", ErrInvalidPattern
	}
	return p, nil
}

// applyDefaultStop fills in the default occurrence count when the caller
// gave neither an end date nor a count.
func (s *AppointmentService) applyDefaultStop(stop schedule.Stop) schedule.Stop {
	if stop.EndDate == nil && stop.Count <= 0 {
		n := s.DefaultOccurrences
		if n <= 0 {
			n = 4
		}
		stop.Count = n
	}
	return stop
}

// mapPlannerErr translates planner sentinels into service sentinels.
func mapPlannerErr(err error) error {
	switch {
	case errors.Is(err, schedule.ErrInvalidPattern):
		return ErrInvalidPattern
	case errors.Is(err, schedule.ErrInvalidRange):
		return ErrInvalidTimeRange
	default:
		return err
	}
}
