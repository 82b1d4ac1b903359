// Package services – CalendarService
//
// This file implements CalendarService, the read-only projector that turns
// stored appointments into the {resources, events} structure a scheduling
// UI renders directly. Resources are clinics; events carry derived titles,
// status-based colors, and all-day flags. Unresolvable directory references
// degrade to absent display fields and never fail the projection.
package services

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/clinicware/go-scheduling-backend/internal/domain"
	"github.com/clinicware/go-scheduling-backend/internal/repo"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// DefaultClinicColor is used for clinic resources without a configured
// color and for events with an unknown status.
const DefaultClinicColor = "#3788d8"

// statusColors maps appointment status to the event color the calendar
// shows, independent of the clinic's own color.
var statusColors = map[string]string{
	domain.StatusScheduled: "#3788d8",
	domain.StatusCheckedIn: "#2e7d32",
	domain.StatusCompleted: "#7b1fa2",
	domain.StatusCancelled: "#d32f2f",
	domain.StatusNoShow:    "#f57c00",
}

// allDayMinutes is the duration cutoff at which an event is rendered as
// all-day. 1439 minutes covers a full civil day minus one minute.
const allDayMinutes = 1439

// CalendarResource is one clinic lane on the calendar.
type CalendarResource struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Color string `json:"color"`
}

// EventProps is the metadata bag attached to each event for detail views.
type EventProps struct {
	ClinicID       *string    `json:"clinic_id,omitempty"`
	ClinicName     *string    `json:"clinic_name,omitempty"`
	PatientID      *string    `json:"patient_id,omitempty"`
	PatientName    *string    `json:"patient_name,omitempty"`
	ClinicianName  *string    `json:"clinician_name,omitempty"`
	Status         string     `json:"status"`
	Reason         string     `json:"reason,omitempty"`
	Notes          string     `json:"notes,omitempty"`
	Confirmed      bool       `json:"confirmed"`
	ReminderSentAt *time.Time `json:"reminder_sent_at,omitempty"`
}

// CalendarEvent is one appointment rendered for display.
type CalendarEvent struct {
	ID            string     `json:"id"`
	ResourceID    string     `json:"resourceId,omitempty"`
	Title         string     `json:"title"`
	Start         time.Time  `json:"start"`
	End           *time.Time `json:"end,omitempty"`
	AllDay        bool       `json:"allDay"`
	Color         string     `json:"color"`
	ExtendedProps EventProps `json:"extendedProps"`
}

// CalendarData is the full projection: one resource per clinic in scope
// plus one event per appointment.
type CalendarData struct {
	Resources []CalendarResource `json:"resources"`
	Events    []CalendarEvent    `json:"events"`
}

// CalendarRepo defines the read-only repository contract required by
// CalendarService.
type CalendarRepo interface {
	ListAppointments(ctx context.Context, db *gorm.DB, f repo.AppointmentFilter) ([]domain.Appointment, error)
	ListClinics(ctx context.Context, db *gorm.DB) ([]domain.Clinic, error)
	ListClinicsByIDs(ctx context.Context, db *gorm.DB, ids []string) ([]domain.Clinic, error)
	ListPatients(ctx context.Context, db *gorm.DB) ([]domain.Patient, error)
	ListClinicians(ctx context.Context, db *gorm.DB) ([]domain.Clinician, error)
	ListAppointmentTypes(ctx context.Context, db *gorm.DB) ([]domain.AppointmentType, error)
}

// CalendarService projects appointments into calendar display structures.
// It performs no writes.
type CalendarService struct {
	DB   *gorm.DB
	Repo CalendarRepo
}

// NewCalendarService constructs a CalendarService.
func NewCalendarService(db *gorm.DB, r CalendarRepo) *CalendarService {
	return &CalendarService{DB: db, Repo: r}
}

// Project reads appointments matching the filter and emits the
// {resources, events} view. When the filter names a clinic, only that
// clinic appears as a resource; otherwise every clinic does.
func (s *CalendarService) Project(ctx context.Context, f repo.AppointmentFilter) (*CalendarData, error) {
	tr := otel.Tracer("services/CalendarService")
	ctx, span := tr.Start(ctx, "Project",
		trace.WithAttributes(attribute.String("clinic.id", f.ClinicID)),
	)
	defer span.End()

	var (
		clinics []domain.Clinic
		err     error
	)
	if f.ClinicID != "" {
		clinics, err = s.Repo.ListClinicsByIDs(ctx, s.DB, []string{f.ClinicID})
	} else {
		clinics, err = s.Repo.ListClinics(ctx, s.DB)
	}
	if err != nil {
		return nil, err
	}

	appts, err := s.Repo.ListAppointments(ctx, s.DB, f)
	if err != nil {
		return nil, err
	}

	// Directory lookups are loaded once and joined in memory; a missing
	// reference degrades to absent display fields.
	clinicByID := make(map[string]domain.Clinic, len(clinics))
	for _, c := range clinics {
		clinicByID[c.ID] = c
	}
	patientByID := map[string]domain.Patient{}
	if ps, err := s.Repo.ListPatients(ctx, s.DB); err == nil {
		for _, p := range ps {
			patientByID[p.ID] = p
		}
	}
	clinicianByID := map[string]domain.Clinician{}
	if cs, err := s.Repo.ListClinicians(ctx, s.DB); err == nil {
		for _, c := range cs {
			clinicianByID[c.ID] = c
		}
	}
	typeByID := map[string]domain.AppointmentType{}
	if ts, err := s.Repo.ListAppointmentTypes(ctx, s.DB); err == nil {
		for _, at := range ts {
			typeByID[at.ID] = at
		}
	}

	data := &CalendarData{
		Resources: make([]CalendarResource, 0, len(clinics)),
		Events:    make([]CalendarEvent, 0, len(appts)),
	}
	for _, c := range clinics {
		color := c.Color
		if strings.TrimSpace(color) == "" {
			color = DefaultClinicColor
		}
		data.Resources = append(data.Resources, CalendarResource{ID: c.ID, Title: c.Name, Color: color})
	}
	for i := range appts {
		data.Events = append(data.Events, projectEvent(&appts[i], clinicByID, patientByID, clinicianByID, typeByID))
	}
	return data, nil
}

// projectEvent renders one appointment into its calendar event.
func projectEvent(
	a *domain.Appointment,
	clinics map[string]domain.Clinic,
	patients map[string]domain.Patient,
	clinicians map[string]domain.Clinician,
	types map[string]domain.AppointmentType,
) CalendarEvent {
	props := EventProps{
		Status:         a.Status,
		Reason:         a.Reason,
		Notes:          a.Notes,
		Confirmed:      a.Confirmed,
		ReminderSentAt: a.ReminderSentAt,
	}

	var clinicName, patientName, typeName string
	if a.ClinicID != nil {
		props.ClinicID = a.ClinicID
		if c, ok := clinics[*a.ClinicID]; ok {
			clinicName = c.Name
			props.ClinicName = &clinicName
		}
	}
	if a.PatientID != nil {
		props.PatientID = a.PatientID
		if p, ok := patients[*a.PatientID]; ok {
			patientName = p.FullName()
			props.PatientName = &patientName
		}
	}
	if a.ClinicianID != nil {
		if c, ok := clinicians[*a.ClinicianID]; ok {
			n := c.FullName()
			props.ClinicianName = &n
		}
	}
	if a.AppointmentTypeID != nil {
		if at, ok := types[*a.AppointmentTypeID]; ok {
			typeName = at.Name
		}
	}

	ev := CalendarEvent{
		ID:            a.ID,
		Title:         eventTitle(a, clinicName, patientName, typeName),
		Start:         a.StartTime,
		End:           a.EndTime,
		AllDay:        eventAllDay(a),
		Color:         statusColor(a.Status),
		ExtendedProps: props,
	}
	if a.ClinicID != nil {
		ev.ResourceID = *a.ClinicID
	}
	return ev
}

// eventTitle applies the display-title rules: patient plus type when both
// resolve, patient alone otherwise, and a clinic-level label for entries
// with no patient (closures, holidays).
func eventTitle(a *domain.Appointment, clinicName, patientName, typeName string) string {
	if a.PatientID != nil {
		name := patientName
		if name == "" {
			// Unresolvable patient reference; fall back to the raw id so the
			// entry is still identifiable.
			name = *a.PatientID
		}
		if typeName != "" {
			return name + " | " + typeName
		}
		return name
	}

	label := strings.TrimSpace(a.Notes)
	if label == "" {
		label = "All-Day Event"
	}
	if clinicName != "" {
		return clinicName + " - " + label
	}
	return label
}

// eventAllDay reports whether the event spans the whole day: no patient, or
// a computed duration of at least 1439 minutes.
func eventAllDay(a *domain.Appointment) bool {
	if a.PatientID == nil {
		return true
	}
	return a.Duration() >= allDayMinutes*time.Minute
}

// statusColor maps a status to its event color, defaulting to the
// scheduled blue for anything unrecognized.
func statusColor(status string) string {
	if c, ok := statusColors[status]; ok {
		return c
	}
	return DefaultClinicColor
}
