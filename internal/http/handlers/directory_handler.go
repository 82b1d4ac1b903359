// Directory HTTP handlers.
//
// These endpoints maintain the reference entities appointments link to:
// clinics, patients, clinicians, and appointment types. Each entity gets a
// POST (create), GET by id, and GET list.
package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/clinicware/go-scheduling-backend/internal/domain"
	"github.com/clinicware/go-scheduling-backend/internal/services"
)

// DirectoryService defines the clinic-directory operations consumed by
// HTTP handlers.
type DirectoryService interface {
	CreateClinic(ctx context.Context, name, color, address, phone string) (*domain.Clinic, error)
	GetClinic(ctx context.Context, id string) (*domain.Clinic, error)
	ListClinics(ctx context.Context) ([]domain.Clinic, error)

	CreatePatient(ctx context.Context, first, last, email, phone string, dob *time.Time) (*domain.Patient, error)
	GetPatient(ctx context.Context, id string) (*domain.Patient, error)
	ListPatients(ctx context.Context) ([]domain.Patient, error)

	CreateClinician(ctx context.Context, first, last, specialty string) (*domain.Clinician, error)
	GetClinician(ctx context.Context, id string) (*domain.Clinician, error)
	ListClinicians(ctx context.Context) ([]domain.Clinician, error)

	CreateAppointmentType(ctx context.Context, name, color string, defaultDurationMin int) (*domain.AppointmentType, error)
	GetAppointmentType(ctx context.Context, id string) (*domain.AppointmentType, error)
	ListAppointmentTypes(ctx context.Context) ([]domain.AppointmentType, error)
}

// CreateClinicRequest is the JSON payload for creating a clinic.
type CreateClinicRequest struct {
	Name    string `json:"name" binding:"required" example:"Downtown Medical"`
	Color   string `json:"color" example:"#3788d8"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
}

// CreatePatientRequest is the JSON payload for creating a patient.
type CreatePatientRequest struct {
	FirstName   string     `json:"first_name" binding:"required" example:"Ada"`
	LastName    string     `json:"last_name" binding:"required" example:"Lovelace"`
	Email       string     `json:"email"`
	Phone       string     `json:"phone"`
	DateOfBirth *time.Time `json:"date_of_birth"`
}

// CreateClinicianRequest is the JSON payload for creating a clinician.
type CreateClinicianRequest struct {
	FirstName string `json:"first_name" binding:"required" example:"Grace"`
	LastName  string `json:"last_name" binding:"required" example:"Hopper"`
	Specialty string `json:"specialty" example:"Cardiology"`
}

// CreateAppointmentTypeRequest is the JSON payload for creating an
// appointment type.
type CreateAppointmentTypeRequest struct {
	Name               string `json:"name" binding:"required" example:"Checkup"`
	Color              string `json:"color"`
	DefaultDurationMin int    `json:"default_duration_min" example:"30"`
}

// directoryErr maps directory service sentinels to status and code.
func directoryErr(err error) (int, string) {
	switch {
	case errors.Is(err, services.ErrMissingName):
		return http.StatusBadRequest, ErrCodeBadRequest
	case errors.Is(err, services.ErrClinicNotFound),
		errors.Is(err, services.ErrPatientNotFound),
		errors.Is(err, services.ErrClinicianNotFound),
		errors.Is(err, services.ErrAppointmentTypeNotFound):
		return http.StatusNotFound, ErrCodeNotFound
	default:
		return http.StatusInternalServerError, ErrCodeInternal
	}
}

// CreateClinic godoc
// @ID          createClinic
// @Summary     Create a clinic
// @Tags        Directory
// @Accept      json
// @Produce     json
// @Param       body  body  handlers.CreateClinicRequest  true  "Clinic payload"
// @Success     201  {object} domain.Clinic
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /clinics [post]
func (h *Handlers) CreateClinic(c *gin.Context) {
	var req CreateClinicRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body: name required")
		return
	}
	clinic, err := h.dirSvc.CreateClinic(c.Request.Context(), req.Name, req.Color, req.Address, req.Phone)
	if err != nil {
		status, code := directoryErr(err)
		fail(c, status, code, err.Error())
		return
	}
	ok(c, http.StatusCreated, clinic)
}

// GetClinic godoc
// @ID          getClinic
// @Summary     Fetch one clinic
// @Tags        Directory
// @Produce     json
// @Param       id  path  string  true  "Clinic ID"
// @Success     200  {object} domain.Clinic
// @Failure     404  {object} handlers.ErrorResponse "Clinic not found"
// @Router      /clinics/{id} [get]
func (h *Handlers) GetClinic(c *gin.Context) {
	clinic, err := h.dirSvc.GetClinic(c.Request.Context(), c.Param("id"))
	if err != nil {
		status, code := directoryErr(err)
		fail(c, status, code, err.Error())
		return
	}
	ok(c, http.StatusOK, clinic)
}

// ListClinics godoc
// @ID          listClinics
// @Summary     List clinics
// @Tags        Directory
// @Produce     json
// @Success     200  {array} domain.Clinic
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /clinics [get]
func (h *Handlers) ListClinics(c *gin.Context) {
	items, err := h.dirSvc.ListClinics(c.Request.Context())
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, err.Error())
		return
	}
	ok(c, http.StatusOK, items)
}

// CreatePatient godoc
// @ID          createPatient
// @Summary     Create a patient
// @Tags        Directory
// @Accept      json
// @Produce     json
// @Param       body  body  handlers.CreatePatientRequest  true  "Patient payload"
// @Success     201  {object} domain.Patient
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /patients [post]
func (h *Handlers) CreatePatient(c *gin.Context) {
	var req CreatePatientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body: first_name and last_name required")
		return
	}
	p, err := h.dirSvc.CreatePatient(c.Request.Context(), req.FirstName, req.LastName, req.Email, req.Phone, req.DateOfBirth)
	if err != nil {
		status, code := directoryErr(err)
		fail(c, status, code, err.Error())
		return
	}
	ok(c, http.StatusCreated, p)
}

// GetPatient godoc
// @ID          getPatient
// @Summary     Fetch one patient
// @Tags        Directory
// @Produce     json
// @Param       id  path  string  true  "Patient ID"
// @Success     200  {object} domain.Patient
// @Failure     404  {object} handlers.ErrorResponse "Patient not found"
// @Router      /patients/{id} [get]
func (h *Handlers) GetPatient(c *gin.Context) {
	p, err := h.dirSvc.GetPatient(c.Request.Context(), c.Param("id"))
	if err != nil {
		status, code := directoryErr(err)
		fail(c, status, code, err.Error())
		return
	}
	ok(c, http.StatusOK, p)
}

// ListPatients godoc
// @ID          listPatients
// @Summary     List patients
// @Tags        Directory
// @Produce     json
// @Success     200  {array} domain.Patient
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /patients [get]
func (h *Handlers) ListPatients(c *gin.Context) {
	items, err := h.dirSvc.ListPatients(c.Request.Context())
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, err.Error())
		return
	}
	ok(c, http.StatusOK, items)
}

// CreateClinician godoc
// @ID          createClinician
// @Summary     Create a clinician
// @Tags        Directory
// @Accept      json
// @Produce     json
// @Param       body  body  handlers.CreateClinicianRequest  true  "Clinician payload"
// @Success     201  {object} domain.Clinician
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /clinicians [post]
func (h *Handlers) CreateClinician(c *gin.Context) {
	var req CreateClinicianRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body: first_name and last_name required")
		return
	}
	cl, err := h.dirSvc.CreateClinician(c.Request.Context(), req.FirstName, req.LastName, req.Specialty)
	if err != nil {
		status, code := directoryErr(err)
		fail(c, status, code, err.Error())
		return
	}
	ok(c, http.StatusCreated, cl)
}

// GetClinician godoc
// @ID          getClinician
// @Summary     Fetch one clinician
// @Tags        Directory
// @Produce     json
// @Param       id  path  string  true  "Clinician ID"
// @Success     200  {object} domain.Clinician
// @Failure     404  {object} handlers.ErrorResponse "Clinician not found"
// @Router      /clinicians/{id} [get]
func (h *Handlers) GetClinician(c *gin.Context) {
	cl, err := h.dirSvc.GetClinician(c.Request.Context(), c.Param("id"))
	if err != nil {
		status, code := directoryErr(err)
		fail(c, status, code, err.Error())
		return
	}
	ok(c, http.StatusOK, cl)
}

// ListClinicians godoc
// @ID          listClinicians
// @Summary     List clinicians
// @Tags        Directory
// @Produce     json
// @Success     200  {array} domain.Clinician
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /clinicians [get]
func (h *Handlers) ListClinicians(c *gin.Context) {
	items, err := h.dirSvc.ListClinicians(c.Request.Context())
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, err.Error())
		return
	}
	ok(c, http.StatusOK, items)
}

// CreateAppointmentType godoc
// @ID          createAppointmentType
// @Summary     Create an appointment type
// @Tags        Directory
// @Accept      json
// @Produce     json
// @Param       body  body  handlers.CreateAppointmentTypeRequest  true  "Appointment type payload"
// @Success     201  {object} domain.AppointmentType
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /appointment-types [post]
func (h *Handlers) CreateAppointmentType(c *gin.Context) {
	var req CreateAppointmentTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body: name required")
		return
	}
	at, err := h.dirSvc.CreateAppointmentType(c.Request.Context(), req.Name, req.Color, req.DefaultDurationMin)
	if err != nil {
		status, code := directoryErr(err)
		fail(c, status, code, err.Error())
		return
	}
	ok(c, http.StatusCreated, at)
}

// GetAppointmentType godoc
// @ID          getAppointmentType
// @Summary     Fetch one appointment type
// @Tags        Directory
// @Produce     json
// @Param       id  path  string  true  "Appointment type ID"
// @Success     200  {object} domain.AppointmentType
// @Failure     404  {object} handlers.ErrorResponse "Appointment type not found"
// @Router      /appointment-types/{id} [get]
func (h *Handlers) GetAppointmentType(c *gin.Context) {
	at, err := h.dirSvc.GetAppointmentType(c.Request.Context(), c.Param("id"))
	if err != nil {
		status, code := directoryErr(err)
		fail(c, status, code, err.Error())
		return
	}
	ok(c, http.StatusOK, at)
}

// ListAppointmentTypes godoc
// @ID          listAppointmentTypes
// @Summary     List appointment types
// @Tags        Directory
// @Produce     json
// @Success     200  {array} domain.AppointmentType
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /appointment-types [get]
func (h *Handlers) ListAppointmentTypes(c *gin.Context) {
	items, err := h.dirSvc.ListAppointmentTypes(c.Request.Context())
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, err.Error())
		return
	}
	ok(c, http.StatusOK, items)
}
