// Package domain defines the persistence models for the scheduling engine.
// This file holds the directory records the engine references: clinics,
// patients, clinicians, and appointment types. The engine only needs opaque
// identifiers plus name/color lookups; everything else about these records
// is plain CRUD.
package domain

import "time"

// Clinic is a practice location. Color is used by the calendar projection
// as the resource color; a default is applied when empty.
type Clinic struct {
	ID        string    `json:"id"      gorm:"type:char(36);primaryKey"`
	Name      string    `json:"name"    gorm:"type:varchar(255);not null"`
	Color     string    `json:"color"   gorm:"type:varchar(16)"`
	Address   string    `json:"address" gorm:"type:varchar(255)"`
	Phone     string    `json:"phone"   gorm:"type:varchar(32)"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName returns the database table name for Clinic.
func (Clinic) TableName() string { return "clinics" }

// Patient is a directory record for a person receiving care.
type Patient struct {
	ID          string     `json:"id"         gorm:"type:char(36);primaryKey"`
	FirstName   string     `json:"first_name" gorm:"type:varchar(128);not null"`
	LastName    string     `json:"last_name"  gorm:"type:varchar(128);not null"`
	Email       string     `json:"email"      gorm:"type:varchar(255)"`
	Phone       string     `json:"phone"      gorm:"type:varchar(32)"`
	DateOfBirth *time.Time `json:"date_of_birth"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// TableName returns the database table name for Patient.
func (Patient) TableName() string { return "patients" }

// FullName returns "First Last", trimming whichever part is missing.
func (p *Patient) FullName() string {
	switch {
	case p.FirstName == "":
		return p.LastName
	case p.LastName == "":
		return p.FirstName
	}
	return p.FirstName + " " + p.LastName
}

// Clinician is a directory record for a care provider.
type Clinician struct {
	ID        string    `json:"id"         gorm:"type:char(36);primaryKey"`
	FirstName string    `json:"first_name" gorm:"type:varchar(128);not null"`
	LastName  string    `json:"last_name"  gorm:"type:varchar(128);not null"`
	Specialty string    `json:"specialty"  gorm:"type:varchar(128)"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName returns the database table name for Clinician.
func (Clinician) TableName() string { return "clinicians" }

// FullName returns "First Last", trimming whichever part is missing.
func (c *Clinician) FullName() string {
	switch {
	case c.FirstName == "":
		return c.LastName
	case c.LastName == "":
		return c.FirstName
	}
	return c.FirstName + " " + c.LastName
}

// AppointmentType categorizes appointments ("Initial Consult", "Follow-up").
// DefaultDurationMin seeds the end time in UIs; the engine itself accepts
// any explicit start/end pair.
type AppointmentType struct {
	ID                 string    `json:"id"    gorm:"type:char(36);primaryKey"`
	Name               string    `json:"name"  gorm:"type:varchar(128);not null"`
	Color              string    `json:"color" gorm:"type:varchar(16)"`
	DefaultDurationMin int       `json:"default_duration_min" gorm:"not null;default:30"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// TableName returns the database table name for AppointmentType.
func (AppointmentType) TableName() string { return "appointment_types" }
