// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the
// Appointment model: the durable appointment store with indexed lookup by
// clinic, patient, clinician, status, time range, and recurrence group.
//
// All functions are context-aware and accept a *gorm.DB handle, making them
// safe for use within transactions or connection-scoped operations.
// They follow the "thin repository" approach: no business logic, only CRUD
// persistence and query composition. Recurrence semantics (series
// generation, scoped cascades) live in the services package.
//
// Error semantics:
//   - When an appointment is not found, functions return
//     gorm.ErrRecordNotFound (also exported here as ErrNotFound).
//   - On DB errors (constraint violations, connectivity issues, etc.),
//     the raw gorm error is propagated.
//
// Deletion functions perform hard deletes: scoped "future"/"all" deletes
// remove the qualifying rows outright, there is no soft-delete in this
// store.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/clinicware/go-scheduling-backend/internal/domain"
)

// ErrNotFound is returned when a requested record does not exist.
// It aliases gorm.ErrRecordNotFound for convenience and consistency
// across the service layer and handlers.
var ErrNotFound = gorm.ErrRecordNotFound

// AppointmentFilter narrows ListAppointments. Zero-valued fields are
// ignored; From/To bound StartTime inclusively/exclusively.
type AppointmentFilter struct {
	ClinicID    string
	PatientID   string
	ClinicianID string
	Status      string
	From        *time.Time
	To          *time.Time
}

// CreateAppointment inserts the given appointment row. The caller is
// responsible for assigning the ID and normalizing timestamps to UTC.
func CreateAppointment(ctx context.Context, db *gorm.DB, a *domain.Appointment) error {
	return db.WithContext(ctx).Create(a).Error
}

// GetAppointment fetches a single appointment by id, or ErrNotFound.
func GetAppointment(ctx context.Context, db *gorm.DB, id string) (*domain.Appointment, error) {
	var a domain.Appointment
	if err := db.WithContext(ctx).Where("id = ?", id).First(&a).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

// ListAppointments returns appointments matching the filter, ordered by
// start time ascending. An empty filter returns everything.
func ListAppointments(ctx context.Context, db *gorm.DB, f AppointmentFilter) ([]domain.Appointment, error) {
	q := db.WithContext(ctx).Model(&domain.Appointment{})
	if f.ClinicID != "" {
		q = q.Where("clinic_id = ?", f.ClinicID)
	}
	if f.PatientID != "" {
		q = q.Where("patient_id = ?", f.PatientID)
	}
	if f.ClinicianID != "" {
		q = q.Where("clinician_id = ?", f.ClinicianID)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.From != nil {
		q = q.Where("start_time >= ?", *f.From)
	}
	if f.To != nil {
		q = q.Where("start_time < ?", *f.To)
	}
	var out []domain.Appointment
	err := q.Order("start_time asc, id asc").Find(&out).Error
	return out, err
}

// ListGroup returns every appointment sharing the recurrence group id,
// ordered by start time ascending.
func ListGroup(ctx context.Context, db *gorm.DB, groupID string) ([]domain.Appointment, error) {
	var out []domain.Appointment
	err := db.WithContext(ctx).
		Where("recurrence_group_id = ?", groupID).
		Order("start_time asc, id asc").
		Find(&out).Error
	return out, err
}

// UpdateAppointment applies the given column patch to the appointment
// identified by id. If no rows are affected (row missing), it returns
// ErrNotFound. On DB error, the raw error is returned.
func UpdateAppointment(ctx context.Context, db *gorm.DB, id string, patch map[string]any) error {
	res := db.WithContext(ctx).
		Model(&domain.Appointment{}).
		Where("id = ?", id).
		Updates(patch)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DeleteAppointment hard-deletes one appointment by id and returns the
// number of rows removed (0 or 1).
func DeleteAppointment(ctx context.Context, db *gorm.DB, id string) (int64, error) {
	res := db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Appointment{})
	return res.RowsAffected, res.Error
}

// DeleteGroup hard-deletes every appointment sharing the recurrence group
// id and returns the number of rows removed.
func DeleteGroup(ctx context.Context, db *gorm.DB, groupID string) (int64, error) {
	res := db.WithContext(ctx).
		Where("recurrence_group_id = ?", groupID).
		Delete(&domain.Appointment{})
	return res.RowsAffected, res.Error
}

// DeleteGroupFrom hard-deletes every appointment sharing the recurrence
// group id whose start time is at or after from, and returns the number of
// rows removed.
func DeleteGroupFrom(ctx context.Context, db *gorm.DB, groupID string, from time.Time) (int64, error) {
	res := db.WithContext(ctx).
		Where("recurrence_group_id = ? AND start_time >= ?", groupID, from).
		Delete(&domain.Appointment{})
	return res.RowsAffected, res.Error
}
