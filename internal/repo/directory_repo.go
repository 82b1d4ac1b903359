// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the directory
// records the engine references: clinics, patients, clinicians, and
// appointment types. All are plain CRUD; the interesting logic lives
// elsewhere.
package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/clinicware/go-scheduling-backend/internal/domain"
)

// CreateClinic inserts a clinic row.
func CreateClinic(ctx context.Context, db *gorm.DB, c *domain.Clinic) error {
	return db.WithContext(ctx).Create(c).Error
}

// GetClinic fetches a clinic by id, or ErrNotFound.
func GetClinic(ctx context.Context, db *gorm.DB, id string) (*domain.Clinic, error) {
	var c domain.Clinic
	if err := db.WithContext(ctx).Where("id = ?", id).First(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

// ListClinics returns all clinics ordered by name.
func ListClinics(ctx context.Context, db *gorm.DB) ([]domain.Clinic, error) {
	var out []domain.Clinic
	err := db.WithContext(ctx).Order("name asc").Find(&out).Error
	return out, err
}

// ListClinicsByIDs returns the clinics with the given ids (order by name).
// Unknown ids are simply absent from the result.
func ListClinicsByIDs(ctx context.Context, db *gorm.DB, ids []string) ([]domain.Clinic, error) {
	if len(ids) == 0 {
		return []domain.Clinic{}, nil
	}
	var out []domain.Clinic
	err := db.WithContext(ctx).Where("id IN ?", ids).Order("name asc").Find(&out).Error
	return out, err
}

// CreatePatient inserts a patient row.
func CreatePatient(ctx context.Context, db *gorm.DB, p *domain.Patient) error {
	return db.WithContext(ctx).Create(p).Error
}

// GetPatient fetches a patient by id, or ErrNotFound.
func GetPatient(ctx context.Context, db *gorm.DB, id string) (*domain.Patient, error) {
	var p domain.Patient
	if err := db.WithContext(ctx).Where("id = ?", id).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// ListPatients returns all patients ordered by last then first name.
func ListPatients(ctx context.Context, db *gorm.DB) ([]domain.Patient, error) {
	var out []domain.Patient
	err := db.WithContext(ctx).Order("last_name asc, first_name asc").Find(&out).Error
	return out, err
}

// CreateClinician inserts a clinician row.
func CreateClinician(ctx context.Context, db *gorm.DB, c *domain.Clinician) error {
	return db.WithContext(ctx).Create(c).Error
}

// GetClinician fetches a clinician by id, or ErrNotFound.
func GetClinician(ctx context.Context, db *gorm.DB, id string) (*domain.Clinician, error) {
	var c domain.Clinician
	if err := db.WithContext(ctx).Where("id = ?", id).First(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

// ListClinicians returns all clinicians ordered by last then first name.
func ListClinicians(ctx context.Context, db *gorm.DB) ([]domain.Clinician, error) {
	var out []domain.Clinician
	err := db.WithContext(ctx).Order("last_name asc, first_name asc").Find(&out).Error
	return out, err
}

// CreateAppointmentType inserts an appointment type row.
func CreateAppointmentType(ctx context.Context, db *gorm.DB, at *domain.AppointmentType) error {
	return db.WithContext(ctx).Create(at).Error
}

// GetAppointmentType fetches an appointment type by id, or ErrNotFound.
func GetAppointmentType(ctx context.Context, db *gorm.DB, id string) (*domain.AppointmentType, error) {
	var at domain.AppointmentType
	if err := db.WithContext(ctx).Where("id = ?", id).First(&at).Error; err != nil {
		return nil, err
	}
	return &at, nil
}

// ListAppointmentTypes returns all appointment types ordered by name.
func ListAppointmentTypes(ctx context.Context, db *gorm.DB) ([]domain.AppointmentType, error) {
	var out []domain.AppointmentType
	err := db.WithContext(ctx).Order("name asc").Find(&out).Error
	return out, err
}
