// Package services – DirectoryService
//
// Minimal CRUD over the clinic directory: clinics, patients, clinicians,
// and appointment types. The scheduling engine only needs identifiers plus
// name/color lookups from these records, so the service stays thin. Person
// and clinic display names are normalized to title case on write.
package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gorm.io/gorm"

	"github.com/clinicware/go-scheduling-backend/internal/domain"
)

// DirectoryRepo defines the repository contract required by
// DirectoryService.
type DirectoryRepo interface {
	CreateClinic(ctx context.Context, db *gorm.DB, c *domain.Clinic) error
	GetClinic(ctx context.Context, db *gorm.DB, id string) (*domain.Clinic, error)
	ListClinics(ctx context.Context, db *gorm.DB) ([]domain.Clinic, error)

	CreatePatient(ctx context.Context, db *gorm.DB, p *domain.Patient) error
	GetPatient(ctx context.Context, db *gorm.DB, id string) (*domain.Patient, error)
	ListPatients(ctx context.Context, db *gorm.DB) ([]domain.Patient, error)

	CreateClinician(ctx context.Context, db *gorm.DB, c *domain.Clinician) error
	GetClinician(ctx context.Context, db *gorm.DB, id string) (*domain.Clinician, error)
	ListClinicians(ctx context.Context, db *gorm.DB) ([]domain.Clinician, error)

	CreateAppointmentType(ctx context.Context, db *gorm.DB, at *domain.AppointmentType) error
	GetAppointmentType(ctx context.Context, db *gorm.DB, id string) (*domain.AppointmentType, error)
	ListAppointmentTypes(ctx context.Context, db *gorm.DB) ([]domain.AppointmentType, error)
}

// DirectoryService provides create/list/get operations for directory
// records.
type DirectoryService struct {
	DB   *gorm.DB
	Repo DirectoryRepo

	titleCaser cases.Caser
}

// NewDirectoryService constructs a DirectoryService with an English title
// caser for display-name normalization.
func NewDirectoryService(db *gorm.DB, r DirectoryRepo) *DirectoryService {
	return &DirectoryService{
		DB:         db,
		Repo:       r,
		titleCaser: cases.Title(language.English),
	}
}

// CreateClinic inserts a clinic. Name is required; color is kept as given
// so the calendar fallback applies when it is blank.
func (s *DirectoryService) CreateClinic(ctx context.Context, name, color, address, phone string) (*domain.Clinic, error) {
	name = s.normalizeName(name)
	if name == "" {
		return nil, ErrMissingName
	}
	c := &domain.Clinic{
		ID:      uuid.NewString(),
		Name:    name,
		Color:   strings.TrimSpace(color),
		Address: strings.TrimSpace(address),
		Phone:   strings.TrimSpace(phone),
	}
	if err := s.Repo.CreateClinic(ctx, s.DB, c); err != nil {
		return nil, err
	}
	return c, nil
}

// GetClinic fetches one clinic by id.
func (s *DirectoryService) GetClinic(ctx context.Context, id string) (*domain.Clinic, error) {
	c, err := s.Repo.GetClinic(ctx, s.DB, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrClinicNotFound
		}
		return nil, err
	}
	return c, nil
}

// ListClinics returns every clinic.
func (s *DirectoryService) ListClinics(ctx context.Context) ([]domain.Clinic, error) {
	return s.Repo.ListClinics(ctx, s.DB)
}

// CreatePatient inserts a patient. First and last names are required and
// title-cased for display.
func (s *DirectoryService) CreatePatient(ctx context.Context, first, last, email, phone string, dob *time.Time) (*domain.Patient, error) {
	first = s.normalizeName(first)
	last = s.normalizeName(last)
	if first == "" || last == "" {
		return nil, ErrMissingName
	}
	p := &domain.Patient{
		ID:          uuid.NewString(),
		FirstName:   first,
		LastName:    last,
		Email:       strings.TrimSpace(email),
		Phone:       strings.TrimSpace(phone),
		DateOfBirth: dob,
	}
	if err := s.Repo.CreatePatient(ctx, s.DB, p); err != nil {
		return nil, err
	}
	return p, nil
}

// GetPatient fetches one patient by id.
func (s *DirectoryService) GetPatient(ctx context.Context, id string) (*domain.Patient, error) {
	p, err := s.Repo.GetPatient(ctx, s.DB, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPatientNotFound
		}
		return nil, err
	}
	return p, nil
}

// ListPatients returns every patient.
func (s *DirectoryService) ListPatients(ctx context.Context) ([]domain.Patient, error) {
	return s.Repo.ListPatients(ctx, s.DB)
}

// CreateClinician inserts a clinician with title-cased names.
func (s *DirectoryService) CreateClinician(ctx context.Context, first, last, specialty string) (*domain.Clinician, error) {
	first = s.normalizeName(first)
	last = s.normalizeName(last)
	if first == "" || last == "" {
		return nil, ErrMissingName
	}
	c := &domain.Clinician{
		ID:        uuid.NewString(),
		FirstName: first,
		LastName:  last,
		Specialty: strings.TrimSpace(specialty),
	}
	if err := s.Repo.CreateClinician(ctx, s.DB, c); err != nil {
		return nil, err
	}
	return c, nil
}

// GetClinician fetches one clinician by id.
func (s *DirectoryService) GetClinician(ctx context.Context, id string) (*domain.Clinician, error) {
	c, err := s.Repo.GetClinician(ctx, s.DB, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrClinicianNotFound
		}
		return nil, err
	}
	return c, nil
}

// ListClinicians returns every clinician.
func (s *DirectoryService) ListClinicians(ctx context.Context) ([]domain.Clinician, error) {
	return s.Repo.ListClinicians(ctx, s.DB)
}

// CreateAppointmentType inserts an appointment type. Duration, when given,
// must be non-negative minutes.
func (s *DirectoryService) CreateAppointmentType(ctx context.Context, name, color string, defaultDurationMin int) (*domain.AppointmentType, error) {
	name = s.normalizeName(name)
	if name == "" {
		return nil, ErrMissingName
	}
	if defaultDurationMin < 0 {
		defaultDurationMin = 0
	}
	at := &domain.AppointmentType{
		ID:                 uuid.NewString(),
		Name:               name,
		Color:              strings.TrimSpace(color),
		DefaultDurationMin: defaultDurationMin,
	}
	if err := s.Repo.CreateAppointmentType(ctx, s.DB, at); err != nil {
		return nil, err
	}
	return at, nil
}

// GetAppointmentType fetches one appointment type by id.
func (s *DirectoryService) GetAppointmentType(ctx context.Context, id string) (*domain.AppointmentType, error) {
	at, err := s.Repo.GetAppointmentType(ctx, s.DB, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAppointmentTypeNotFound
		}
		return nil, err
	}
	return at, nil
}

// ListAppointmentTypes returns every appointment type.
func (s *DirectoryService) ListAppointmentTypes(ctx context.Context) ([]domain.AppointmentType, error) {
	return s.Repo.ListAppointmentTypes(ctx, s.DB)
}

// normalizeName trims, collapses internal whitespace, and title-cases.
func (s *DirectoryService) normalizeName(name string) string {
	parts := strings.Fields(name)
	if len(parts) == 0 {
		return ""
	}
	return s.titleCaser.String(strings.Join(parts, " "))
}
