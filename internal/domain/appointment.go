// Package domain defines the persistence models for the scheduling engine:
// appointments, the clinic/patient/clinician directory, and appointment
// types. These types are mapped with GORM and form the core data layer of
// the application.
package domain

import "time"

// Appointment statuses. Any status may be set on an appointment; no
// transition table is enforced. See services.CanCancel for the derived
// "cancellable" predicate exposed to clients.
const (
	StatusScheduled = "scheduled"
	StatusCheckedIn = "checked_in"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
	StatusNoShow    = "no_show"
)

// ValidStatus reports whether s is one of the recognized appointment statuses.
func ValidStatus(s string) bool {
	switch s {
	case StatusScheduled, StatusCheckedIn, StatusCompleted, StatusCancelled, StatusNoShow:
		return true
	}
	return false
}

// Appointment is the central entity of the scheduling engine: a single
// booked slot, possibly one occurrence of a recurring series.
//
// Fields:
//   - ID: stable UUID primary key (char(36)), immutable after creation.
//   - ClinicID / ClinicianID / AppointmentTypeID: optional references into
//     the directory. ClinicID may be absent for legacy all-day rows such as
//     closures.
//   - PatientID: reference to the patient. Required on all rows created
//     through the lifecycle manager; nullable in storage so clinic-level
//     all-day entries (closures, holidays) remain representable.
//   - StartTime / EndTime: stored in UTC. EndTime is optional; an
//     appointment may have no defined end.
//   - Status: one of the Status* constants, defaults to "scheduled".
//   - IsRecurring / RecurrencePattern / RecurrenceGroupID /
//     RecurrenceEndDate: recurrence bookkeeping. Every occurrence generated
//     from one recurrence definition shares the same RecurrenceGroupID.
//     A non-recurring appointment has all three pointer fields nil.
//   - ReminderSentAt / Confirmed: reminder and confirmation metadata stored
//     by the engine; delivery is owned by an external notification service.
//
// Scoped deletes ("future"/"all") remove qualifying rows outright, so this
// model intentionally has no soft-delete column.
type Appointment struct {
	ID                string     `json:"id"                  gorm:"type:char(36);primaryKey"`
	ClinicID          *string    `json:"clinic_id"           gorm:"type:char(36);index:idx_clinic_start,priority:1"`
	PatientID         *string    `json:"patient_id"          gorm:"type:char(36);index:idx_patient_start,priority:1"`
	ClinicianID       *string    `json:"clinician_id"        gorm:"type:char(36);index:idx_clinician_start,priority:1"`
	AppointmentTypeID *string    `json:"appointment_type_id" gorm:"type:char(36)"`
	StartTime         time.Time  `json:"start_time"          gorm:"not null;index:idx_clinic_start,priority:2;index:idx_patient_start,priority:2;index:idx_clinician_start,priority:2;index:idx_status_start,priority:2"`
	EndTime           *time.Time `json:"end_time"`
	Status            string     `json:"status"              gorm:"type:varchar(16);not null;default:'scheduled';check:status IN ('scheduled','checked_in','completed','cancelled','no_show');index:idx_status_start,priority:1"`
	Reason            string     `json:"reason"              gorm:"type:varchar(255)"`
	Notes             string     `json:"notes"               gorm:"type:text"`
	IsRecurring       bool       `json:"is_recurring"        gorm:"not null;default:false"`
	RecurrencePattern *string    `json:"recurrence_pattern"  gorm:"type:varchar(16)"`
	RecurrenceGroupID *string    `json:"recurrence_group_id" gorm:"type:char(36);index"`
	RecurrenceEndDate *time.Time `json:"recurrence_end_date"`
	ReminderSentAt    *time.Time `json:"reminder_sent_at"`
	Confirmed         bool       `json:"confirmed"           gorm:"not null;default:false"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

// TableName returns the database table name for Appointment.
func (Appointment) TableName() string { return "appointments" }

// Duration returns the appointment length, or 0 when no end time is set.
func (a *Appointment) Duration() time.Duration {
	if a.EndTime == nil {
		return 0
	}
	return a.EndTime.Sub(a.StartTime)
}
