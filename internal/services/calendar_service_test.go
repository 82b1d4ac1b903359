package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/clinicware/go-scheduling-backend/internal/domain"
	"github.com/clinicware/go-scheduling-backend/internal/repo"
)

// ----- Fake read-only repo -----

type fakeCalendarRepo struct {
	appts      []domain.Appointment
	apptsErr   error
	clinics    []domain.Clinic
	clinicsErr error
	patients   []domain.Patient
	clinicians []domain.Clinician
	types      []domain.AppointmentType

	byIDsArg []string
}

func (r *fakeCalendarRepo) ListAppointments(ctx context.Context, db *gorm.DB, f repo.AppointmentFilter) ([]domain.Appointment, error) {
	return r.appts, r.apptsErr
}

func (r *fakeCalendarRepo) ListClinics(ctx context.Context, db *gorm.DB) ([]domain.Clinic, error) {
	return r.clinics, r.clinicsErr
}

func (r *fakeCalendarRepo) ListClinicsByIDs(ctx context.Context, db *gorm.DB, ids []string) ([]domain.Clinic, error) {
	r.byIDsArg = ids
	out := []domain.Clinic{}
	for _, c := range r.clinics {
		for _, id := range ids {
			if c.ID == id {
				out = append(out, c)
			}
		}
	}
	return out, r.clinicsErr
}

func (r *fakeCalendarRepo) ListPatients(ctx context.Context, db *gorm.DB) ([]domain.Patient, error) {
	return r.patients, nil
}

func (r *fakeCalendarRepo) ListClinicians(ctx context.Context, db *gorm.DB) ([]domain.Clinician, error) {
	return r.clinicians, nil
}

func (r *fakeCalendarRepo) ListAppointmentTypes(ctx context.Context, db *gorm.DB) ([]domain.AppointmentType, error) {
	return r.types, nil
}

func calendarFixture() *fakeCalendarRepo {
	return &fakeCalendarRepo{
		clinics: []domain.Clinic{
			{ID: "c1", Name: "Downtown", Color: "#112233"},
			{ID: "c2", Name: "Uptown"}, // no color
		},
		patients: []domain.Patient{
			{ID: "p1", FirstName: "Ada", LastName: "Lovelace"},
		},
		clinicians: []domain.Clinician{
			{ID: "dr1", FirstName: "Grace", LastName: "Hopper"},
		},
		types: []domain.AppointmentType{
			{ID: "t1", Name: "Checkup"},
		},
	}
}

// ----- Tests -----

func TestProject_ResourcesAndColorFallback(t *testing.T) {
	r := calendarFixture()
	s := NewCalendarService(nil, r)

	data, err := s.Project(context.Background(), repo.AppointmentFilter{})
	if err != nil {
		t.Fatalf("Project error: %v", err)
	}
	if len(data.Resources) != 2 {
		t.Fatalf("resources = %d; want 2", len(data.Resources))
	}
	if data.Resources[0].Color != "#112233" {
		t.Fatalf("clinic color = %q; want configured color", data.Resources[0].Color)
	}
	if data.Resources[1].Color != DefaultClinicColor {
		t.Fatalf("fallback color = %q; want %q", data.Resources[1].Color, DefaultClinicColor)
	}
	if data.Events == nil || len(data.Events) != 0 {
		t.Fatalf("expected empty non-nil events, got %v", data.Events)
	}
}

func TestProject_ClinicFilterScopesResources(t *testing.T) {
	r := calendarFixture()
	s := NewCalendarService(nil, r)

	data, err := s.Project(context.Background(), repo.AppointmentFilter{ClinicID: "c2"})
	if err != nil {
		t.Fatalf("Project error: %v", err)
	}
	if len(data.Resources) != 1 || data.Resources[0].ID != "c2" {
		t.Fatalf("resources = %+v; want only c2", data.Resources)
	}
	if len(r.byIDsArg) != 1 || r.byIDsArg[0] != "c2" {
		t.Fatalf("ByIDs called with %v", r.byIDsArg)
	}
}

func TestProject_TitleWithPatientAndType(t *testing.T) {
	r := calendarFixture()
	start := time.Date(2025, 4, 7, 9, 0, 0, 0, time.UTC)
	end := start.Add(30 * time.Minute)
	p1, c1, t1 := "p1", "c1", "t1"
	r.appts = []domain.Appointment{{
		ID: "a1", ClinicID: &c1, PatientID: &p1, AppointmentTypeID: &t1,
		StartTime: start, EndTime: &end, Status: domain.StatusScheduled,
	}}
	s := NewCalendarService(nil, r)

	data, err := s.Project(context.Background(), repo.AppointmentFilter{})
	if err != nil {
		t.Fatalf("Project error: %v", err)
	}
	ev := data.Events[0]
	if ev.Title != "Ada Lovelace | Checkup" {
		t.Fatalf("title = %q", ev.Title)
	}
	if ev.AllDay {
		t.Fatalf("30-minute visit must not be all-day")
	}
	if ev.ResourceID != "c1" {
		t.Fatalf("resourceId = %q", ev.ResourceID)
	}
	if ev.ExtendedProps.PatientName == nil || *ev.ExtendedProps.PatientName != "Ada Lovelace" {
		t.Fatalf("extendedProps patient = %v", ev.ExtendedProps.PatientName)
	}
}

func TestProject_TitlePatientOnly(t *testing.T) {
	r := calendarFixture()
	p1 := "p1"
	r.appts = []domain.Appointment{{
		ID: "a1", PatientID: &p1,
		StartTime: time.Date(2025, 4, 7, 9, 0, 0, 0, time.UTC), Status: domain.StatusScheduled,
	}}
	s := NewCalendarService(nil, r)

	data, _ := s.Project(context.Background(), repo.AppointmentFilter{})
	if data.Events[0].Title != "Ada Lovelace" {
		t.Fatalf("title = %q; want patient name only", data.Events[0].Title)
	}
}

func TestProject_NoPatient_ClinicLabelAndAllDay(t *testing.T) {
	r := calendarFixture()
	c1 := "c1"
	r.appts = []domain.Appointment{
		{ID: "a1", ClinicID: &c1, StartTime: time.Date(2025, 12, 25, 0, 0, 0, 0, time.UTC), Status: domain.StatusScheduled, Notes: "Closed for holidays"},
		{ID: "a2", ClinicID: &c1, StartTime: time.Date(2025, 12, 26, 0, 0, 0, 0, time.UTC), Status: domain.StatusScheduled},
	}
	s := NewCalendarService(nil, r)

	data, _ := s.Project(context.Background(), repo.AppointmentFilter{})
	if got := data.Events[0].Title; got != "Downtown - Closed for holidays" {
		t.Fatalf("title = %q", got)
	}
	if got := data.Events[1].Title; got != "Downtown - All-Day Event" {
		t.Fatalf("default label title = %q", got)
	}
	for i, ev := range data.Events {
		if !ev.AllDay {
			t.Fatalf("event %d without patient must be all-day", i)
		}
	}
}

func TestProject_AllDayDurationBoundary(t *testing.T) {
	r := calendarFixture()
	p1 := "p1"
	start := time.Date(2025, 4, 7, 0, 0, 0, 0, time.UTC)
	end1438 := start.Add(1438 * time.Minute)
	end1439 := start.Add(1439 * time.Minute)
	r.appts = []domain.Appointment{
		{ID: "short", PatientID: &p1, StartTime: start, EndTime: &end1438, Status: domain.StatusScheduled},
		{ID: "long", PatientID: &p1, StartTime: start, EndTime: &end1439, Status: domain.StatusScheduled},
	}
	s := NewCalendarService(nil, r)

	data, _ := s.Project(context.Background(), repo.AppointmentFilter{})
	if data.Events[0].AllDay {
		t.Fatalf("1438 minutes must not be all-day")
	}
	if !data.Events[1].AllDay {
		t.Fatalf("1439 minutes must be all-day")
	}
}

func TestProject_StatusColors(t *testing.T) {
	r := calendarFixture()
	p1 := "p1"
	mk := func(id, status string) domain.Appointment {
		return domain.Appointment{ID: id, PatientID: &p1, StartTime: time.Now().UTC(), Status: status}
	}
	r.appts = []domain.Appointment{
		mk("e1", domain.StatusScheduled),
		mk("e2", domain.StatusCheckedIn),
		mk("e3", domain.StatusCompleted),
		mk("e4", domain.StatusCancelled),
		mk("e5", domain.StatusNoShow),
		mk("e6", "bogus"),
	}
	s := NewCalendarService(nil, r)

	data, _ := s.Project(context.Background(), repo.AppointmentFilter{})
	want := []string{"#3788d8", "#2e7d32", "#7b1fa2", "#d32f2f", "#f57c00", DefaultClinicColor}
	for i, ev := range data.Events {
		if ev.Color != want[i] {
			t.Errorf("event %d color = %q; want %q", i, ev.Color, want[i])
		}
	}
}

func TestProject_UnresolvableReferencesDegrade(t *testing.T) {
	r := calendarFixture()
	ghostPatient, ghostClinic := "ghost-p", "ghost-c"
	r.appts = []domain.Appointment{{
		ID: "a1", PatientID: &ghostPatient, ClinicID: &ghostClinic,
		StartTime: time.Now().UTC(), Status: domain.StatusScheduled,
	}}
	s := NewCalendarService(nil, r)

	data, err := s.Project(context.Background(), repo.AppointmentFilter{})
	if err != nil {
		t.Fatalf("unresolved references must not fail the projection: %v", err)
	}
	ev := data.Events[0]
	if ev.ExtendedProps.PatientName != nil || ev.ExtendedProps.ClinicName != nil {
		t.Fatalf("unresolved names should be absent: %+v", ev.ExtendedProps)
	}
	// Raw id keeps the entry identifiable.
	if ev.Title != "ghost-p" {
		t.Fatalf("title = %q", ev.Title)
	}
}

func TestProject_ListErrorsPropagate(t *testing.T) {
	sentinel := errors.New("db down")

	r := calendarFixture()
	r.clinicsErr = sentinel
	if _, err := NewCalendarService(nil, r).Project(context.Background(), repo.AppointmentFilter{}); !errors.Is(err, sentinel) {
		t.Fatalf("clinic list error should propagate, got %v", err)
	}

	r2 := calendarFixture()
	r2.apptsErr = sentinel
	if _, err := NewCalendarService(nil, r2).Project(context.Background(), repo.AppointmentFilter{}); !errors.Is(err, sentinel) {
		t.Fatalf("appointment list error should propagate, got %v", err)
	}
}
