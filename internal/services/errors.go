// Package services defines the business logic for appointments, recurrence
// series, and the clinic directory. This file centralizes common
// service-level error values so that they can be consistently returned by
// service methods and checked by callers.
//
// These errors are intended for internal use by the service layer and
// translation into user-facing messages or HTTP status codes should be
// performed at the handler/controller layer.
package services

import (
	"errors"
	"fmt"
)

// Appointment-related errors.
var (
	// ErrAppointmentNotFound indicates that the requested appointment does
	// not exist.
	ErrAppointmentNotFound = errors.New("appointment not found")

	// ErrMissingPatient is returned when a create request lacks the required
	// patient reference.
	ErrMissingPatient = errors.New("patient reference is required")

	// ErrInvalidTimeRange is returned when end_time precedes start_time.
	ErrInvalidTimeRange = errors.New("end_time must not precede start_time")

	// ErrMissingPattern is returned when a recurring create or conversion
	// request carries no recurrence pattern.
	ErrMissingPattern = errors.New("recurrence_pattern is required")

	// ErrInvalidPattern is returned when the recurrence pattern is not one of
	// daily, weekly, biweekly, monthly.
	ErrInvalidPattern = errors.New("unrecognized recurrence_pattern")

	// ErrInvalidScope is returned when a scoped delete names a scope outside
	// this, future, all.
	ErrInvalidScope = errors.New("delete scope must be this, future, or all")

	// ErrInvalidStatus is returned when a status value is outside the
	// allowed set.
	ErrInvalidStatus = errors.New("unrecognized appointment status")
)

// Directory-related errors.
var (
	// ErrMissingName is returned when a directory create request lacks the
	// required name field(s).
	ErrMissingName = errors.New("name is required")

	// ErrClinicNotFound indicates that the requested clinic does not exist.
	ErrClinicNotFound = errors.New("clinic not found")

	// ErrPatientNotFound indicates that the requested patient does not exist.
	ErrPatientNotFound = errors.New("patient not found")

	// ErrClinicianNotFound indicates that the requested clinician does not
	// exist.
	ErrClinicianNotFound = errors.New("clinician not found")

	// ErrAppointmentTypeNotFound indicates that the requested appointment
	// type does not exist.
	ErrAppointmentTypeNotFound = errors.New("appointment type not found")
)

// PartialBatchError reports a series write that failed partway through.
// Occurrences written before the failure are kept (best effort, no
// rollback); Created says how many landed and Err carries the failure for
// the remainder.
type PartialBatchError struct {
	Created int
	Err     error
}

// Error implements the error interface.
func (e *PartialBatchError) Error() string {
	return fmt.Sprintf("series partially created: %d occurrence(s) written before failure: %v", e.Created, e.Err)
}

// Unwrap exposes the underlying storage failure.
func (e *PartialBatchError) Unwrap() error { return e.Err }
