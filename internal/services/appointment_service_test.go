package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/clinicware/go-scheduling-backend/internal/clock"
	"github.com/clinicware/go-scheduling-backend/internal/domain"
	"github.com/clinicware/go-scheduling-backend/internal/repo"
	"github.com/clinicware/go-scheduling-backend/internal/schedule"
)

// ----- Fake repo -----

type fakeApptRepo struct {
	rows  map[string]*domain.Appointment
	order []string // insertion order

	createCalls int
	failCreate  int // fail the nth create (1-based); 0 = never
	createErr   error

	getErr    error
	updateErr error
	deleteErr error

	lastPatch map[string]any
	lastFrom  time.Time
}

func newFakeApptRepo() *fakeApptRepo {
	return &fakeApptRepo{rows: map[string]*domain.Appointment{}}
}

func (r *fakeApptRepo) CreateAppointment(ctx context.Context, db *gorm.DB, a *domain.Appointment) error {
	r.createCalls++
	if r.failCreate > 0 && r.createCalls >= r.failCreate {
		if r.createErr != nil {
			return r.createErr
		}
		return errors.New("insert failed")
	}
	cp := *a
	r.rows[a.ID] = &cp
	r.order = append(r.order, a.ID)
	return nil
}

func (r *fakeApptRepo) GetAppointment(ctx context.Context, db *gorm.DB, id string) (*domain.Appointment, error) {
	if r.getErr != nil {
		return nil, r.getErr
	}
	a, ok := r.rows[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (r *fakeApptRepo) ListAppointments(ctx context.Context, db *gorm.DB, f repo.AppointmentFilter) ([]domain.Appointment, error) {
	out := make([]domain.Appointment, 0, len(r.order))
	for _, id := range r.order {
		if a, ok := r.rows[id]; ok {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (r *fakeApptRepo) ListGroup(ctx context.Context, db *gorm.DB, groupID string) ([]domain.Appointment, error) {
	out := []domain.Appointment{}
	for _, id := range r.order {
		a, ok := r.rows[id]
		if ok && a.RecurrenceGroupID != nil && *a.RecurrenceGroupID == groupID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (r *fakeApptRepo) UpdateAppointment(ctx context.Context, db *gorm.DB, id string, patch map[string]any) error {
	if r.updateErr != nil {
		return r.updateErr
	}
	a, ok := r.rows[id]
	if !ok {
		return repo.ErrNotFound
	}
	r.lastPatch = patch
	if v, ok := patch["status"]; ok {
		a.Status = v.(string)
	}
	if v, ok := patch["notes"]; ok {
		a.Notes = v.(string)
	}
	if v, ok := patch["is_recurring"]; ok {
		a.IsRecurring = v.(bool)
	}
	if v, ok := patch["recurrence_pattern"]; ok {
		if p, ok := v.(string); ok {
			a.RecurrencePattern = &p
		}
	}
	if v, ok := patch["recurrence_group_id"]; ok {
		if g, ok := v.(string); ok {
			a.RecurrenceGroupID = &g
		}
	}
	if v, ok := patch["recurrence_end_date"]; ok {
		if ed, ok := v.(*time.Time); ok {
			a.RecurrenceEndDate = ed
		}
	}
	return nil
}

func (r *fakeApptRepo) DeleteAppointment(ctx context.Context, db *gorm.DB, id string) (int64, error) {
	if r.deleteErr != nil {
		return 0, r.deleteErr
	}
	if _, ok := r.rows[id]; !ok {
		return 0, nil
	}
	delete(r.rows, id)
	return 1, nil
}

func (r *fakeApptRepo) DeleteGroup(ctx context.Context, db *gorm.DB, groupID string) (int64, error) {
	var n int64
	for id, a := range r.rows {
		if a.RecurrenceGroupID != nil && *a.RecurrenceGroupID == groupID {
			delete(r.rows, id)
			n++
		}
	}
	return n, nil
}

func (r *fakeApptRepo) DeleteGroupFrom(ctx context.Context, db *gorm.DB, groupID string, from time.Time) (int64, error) {
	r.lastFrom = from
	var n int64
	for id, a := range r.rows {
		if a.RecurrenceGroupID != nil && *a.RecurrenceGroupID == groupID && !a.StartTime.Before(from) {
			delete(r.rows, id)
			n++
		}
	}
	return n, nil
}

// ----- Helpers -----

func testClock(t *testing.T) *clock.Clock {
	t.Helper()
	c, err := clock.New("America/New_York")
	if err != nil {
		t.Fatalf("clock: %v", err)
	}
	return c
}

func strp(s string) *string { return &s }

func timep(t time.Time) *time.Time { return &t }

func baseInput() AppointmentInput {
	start := time.Date(2025, 1, 6, 9, 0, 0, 0, time.UTC)
	end := start.Add(30 * time.Minute)
	return AppointmentInput{
		PatientID: strp("p1"),
		ClinicID:  strp("c1"),
		StartTime: start,
		EndTime:   &end,
		Reason:    "follow-up",
	}
}

// ----- CreateSingle -----

func TestCreateSingle_MissingPatient(t *testing.T) {
	s := NewAppointmentService(nil, newFakeApptRepo(), testClock(t))

	in := baseInput()
	in.PatientID = nil
	if _, err := s.CreateSingle(context.Background(), in); !errors.Is(err, ErrMissingPatient) {
		t.Fatalf("expected ErrMissingPatient, got %v", err)
	}

	in.PatientID = strp("   ")
	if _, err := s.CreateSingle(context.Background(), in); !errors.Is(err, ErrMissingPatient) {
		t.Fatalf("expected ErrMissingPatient for blank, got %v", err)
	}
}

func TestCreateSingle_InvalidTimeRange(t *testing.T) {
	s := NewAppointmentService(nil, newFakeApptRepo(), testClock(t))

	in := baseInput()
	in.EndTime = timep(in.StartTime.Add(-time.Minute))
	if _, err := s.CreateSingle(context.Background(), in); !errors.Is(err, ErrInvalidTimeRange) {
		t.Fatalf("expected ErrInvalidTimeRange, got %v", err)
	}
}

func TestCreateSingle_InvalidStatus(t *testing.T) {
	s := NewAppointmentService(nil, newFakeApptRepo(), testClock(t))

	in := baseInput()
	in.Status = "pending"
	if _, err := s.CreateSingle(context.Background(), in); !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}
}

func TestCreateSingle_DefaultsAndPersists(t *testing.T) {
	r := newFakeApptRepo()
	s := NewAppointmentService(nil, r, testClock(t))

	a, err := s.CreateSingle(context.Background(), baseInput())
	if err != nil {
		t.Fatalf("CreateSingle error: %v", err)
	}
	if a.ID == "" {
		t.Fatalf("expected generated id")
	}
	if a.Status != domain.StatusScheduled {
		t.Fatalf("status = %q; want scheduled", a.Status)
	}
	if a.IsRecurring || a.RecurrenceGroupID != nil {
		t.Fatalf("single create must not carry recurrence fields: %+v", a)
	}
	if _, ok := r.rows[a.ID]; !ok {
		t.Fatalf("row not persisted")
	}
}

func TestCreateSingle_NormalizesToUTC(t *testing.T) {
	s := NewAppointmentService(nil, newFakeApptRepo(), testClock(t))

	ny, _ := time.LoadLocation("America/New_York")
	in := baseInput()
	in.StartTime = time.Date(2025, 1, 6, 9, 0, 0, 0, ny) // 14:00 UTC in EST
	in.EndTime = nil

	a, err := s.CreateSingle(context.Background(), in)
	if err != nil {
		t.Fatalf("CreateSingle error: %v", err)
	}
	if a.StartTime.Location() != time.UTC {
		t.Fatalf("start not UTC: %v", a.StartTime)
	}
	if want := time.Date(2025, 1, 6, 14, 0, 0, 0, time.UTC); !a.StartTime.Equal(want) {
		t.Fatalf("start = %v; want %v", a.StartTime, want)
	}
}

// ----- CreateSeries -----

func TestCreateSeries_MissingAndInvalidPattern(t *testing.T) {
	s := NewAppointmentService(nil, newFakeApptRepo(), testClock(t))

	if _, err := s.CreateSeries(context.Background(), baseInput(), "", schedule.Stop{Count: 3}); !errors.Is(err, ErrMissingPattern) {
		t.Fatalf("expected ErrMissingPattern, got %v", err)
	}
	if _, err := s.CreateSeries(context.Background(), baseInput(), "yearly", schedule.Stop{Count: 3}); !errors.Is(err, ErrInvalidPattern) {
		t.Fatalf("expected ErrInvalidPattern, got %v", err)
	}
}

func TestCreateSeries_WeeklyThreeOccurrences(t *testing.T) {
	r := newFakeApptRepo()
	s := NewAppointmentService(nil, r, testClock(t))

	created, err := s.CreateSeries(context.Background(), baseInput(), "weekly", schedule.Stop{Count: 3})
	if err != nil {
		t.Fatalf("CreateSeries error: %v", err)
	}
	if len(created) != 3 {
		t.Fatalf("created %d; want 3", len(created))
	}

	wantStarts := []time.Time{
		time.Date(2025, 1, 6, 9, 0, 0, 0, time.UTC),
		time.Date(2025, 1, 13, 9, 0, 0, 0, time.UTC),
		time.Date(2025, 1, 20, 9, 0, 0, 0, time.UTC),
	}
	group := created[0].RecurrenceGroupID
	if group == nil || *group == "" {
		t.Fatalf("missing group id")
	}
	for i, a := range created {
		if !a.StartTime.Equal(wantStarts[i]) {
			t.Fatalf("occurrence %d start = %v; want %v", i, a.StartTime, wantStarts[i])
		}
		if a.EndTime == nil || a.EndTime.Sub(a.StartTime) != 30*time.Minute {
			t.Fatalf("occurrence %d lost its 30m duration: %+v", i, a)
		}
		if !a.IsRecurring || a.RecurrenceGroupID == nil || *a.RecurrenceGroupID != *group {
			t.Fatalf("occurrence %d not in group: %+v", i, a)
		}
		if a.RecurrencePattern == nil || *a.RecurrencePattern != "weekly" {
			t.Fatalf("occurrence %d pattern: %+v", i, a.RecurrencePattern)
		}
	}
}

func TestCreateSeries_DefaultOccurrencesWhenNoStop(t *testing.T) {
	r := newFakeApptRepo()
	s := NewAppointmentService(nil, r, testClock(t))

	created, err := s.CreateSeries(context.Background(), baseInput(), "daily", schedule.Stop{})
	if err != nil {
		t.Fatalf("CreateSeries error: %v", err)
	}
	if len(created) != 4 {
		t.Fatalf("default series length = %d; want 4", len(created))
	}
}

func TestCreateSeries_EndDateSetsRecurrenceEndDate(t *testing.T) {
	r := newFakeApptRepo()
	s := NewAppointmentService(nil, r, testClock(t))

	end := time.Date(2025, 1, 20, 23, 0, 0, 0, time.UTC)
	created, err := s.CreateSeries(context.Background(), baseInput(), "weekly", schedule.Stop{EndDate: &end})
	if err != nil {
		t.Fatalf("CreateSeries error: %v", err)
	}
	if len(created) != 3 {
		t.Fatalf("created %d; want 3 (Jan 6, 13, 20)", len(created))
	}
	for i, a := range created {
		if a.RecurrenceEndDate == nil || !a.RecurrenceEndDate.Equal(end) {
			t.Fatalf("occurrence %d recurrence_end_date = %v; want %v", i, a.RecurrenceEndDate, end)
		}
	}
}

func TestCreateSeries_PartialFailureKeepsPrefix(t *testing.T) {
	r := newFakeApptRepo()
	r.failCreate = 3 // third insert fails
	s := NewAppointmentService(nil, r, testClock(t))

	created, err := s.CreateSeries(context.Background(), baseInput(), "daily", schedule.Stop{Count: 5})
	if len(created) != 2 {
		t.Fatalf("created %d; want the 2 written before the failure", len(created))
	}
	var pbe *PartialBatchError
	if !errors.As(err, &pbe) {
		t.Fatalf("expected PartialBatchError, got %v", err)
	}
	if pbe.Created != 2 {
		t.Fatalf("PartialBatchError.Created = %d; want 2", pbe.Created)
	}
	if len(r.rows) != 2 {
		t.Fatalf("store should keep the 2 written rows, has %d", len(r.rows))
	}
}

func TestCreateSeries_FirstInsertFailure_PlainError(t *testing.T) {
	sentinel := errors.New("disk full")
	r := newFakeApptRepo()
	r.failCreate = 1
	r.createErr = sentinel
	s := NewAppointmentService(nil, r, testClock(t))

	created, err := s.CreateSeries(context.Background(), baseInput(), "daily", schedule.Stop{Count: 3})
	if created != nil {
		t.Fatalf("expected no created rows, got %d", len(created))
	}
	var pbe *PartialBatchError
	if errors.As(err, &pbe) {
		t.Fatalf("zero-progress failure should not be a PartialBatchError")
	}
	if !errors.Is(err, sentinel) {
		t.Fatalf("expected underlying error, got %v", err)
	}
}

// ----- ConvertToRecurring -----

func seedRow(r *fakeApptRepo, a domain.Appointment) {
	cp := a
	r.rows[a.ID] = &cp
	r.order = append(r.order, a.ID)
}

func TestConvertToRecurring_NotFound(t *testing.T) {
	s := NewAppointmentService(nil, newFakeApptRepo(), testClock(t))
	if _, _, err := s.ConvertToRecurring(context.Background(), "missing", "daily", schedule.Stop{Count: 4}); !errors.Is(err, ErrAppointmentNotFound) {
		t.Fatalf("expected ErrAppointmentNotFound, got %v", err)
	}
}

func TestConvertToRecurring_AlreadyRecurring_NoOp(t *testing.T) {
	r := newFakeApptRepo()
	g := "g1"
	seedRow(r, domain.Appointment{ID: "a1", PatientID: strp("p1"), StartTime: time.Now().UTC(), Status: domain.StatusScheduled, IsRecurring: true, RecurrenceGroupID: &g})
	s := NewAppointmentService(nil, r, testClock(t))

	got, created, err := s.ConvertToRecurring(context.Background(), "a1", "daily", schedule.Stop{Count: 4})
	if err != nil {
		t.Fatalf("ConvertToRecurring error: %v", err)
	}
	if created != 0 {
		t.Fatalf("no-op path created %d rows", created)
	}
	if got.RecurrenceGroupID == nil || *got.RecurrenceGroupID != "g1" {
		t.Fatalf("group id must be untouched: %+v", got)
	}
	if r.createCalls != 0 {
		t.Fatalf("no inserts expected, saw %d", r.createCalls)
	}
}

func TestConvertToRecurring_DailyCountFour(t *testing.T) {
	r := newFakeApptRepo()
	start := time.Date(2025, 2, 3, 10, 0, 0, 0, time.UTC)
	end := start.Add(20 * time.Minute)
	seedRow(r, domain.Appointment{
		ID: "orig", PatientID: strp("p1"), ClinicID: strp("c1"), ClinicianID: strp("dr1"),
		AppointmentTypeID: strp("t1"), StartTime: start, EndTime: &end,
		Status: domain.StatusCheckedIn, Notes: "bring labs",
	})
	s := NewAppointmentService(nil, r, testClock(t))

	updated, created, err := s.ConvertToRecurring(context.Background(), "orig", "daily", schedule.Stop{Count: 4})
	if err != nil {
		t.Fatalf("ConvertToRecurring error: %v", err)
	}
	if created != 3 {
		t.Fatalf("created %d additional; want 3", created)
	}
	if !updated.IsRecurring || updated.RecurrenceGroupID == nil || updated.RecurrencePattern == nil || *updated.RecurrencePattern != "daily" {
		t.Fatalf("original not flipped: %+v", updated)
	}
	if updated.ID != "orig" {
		t.Fatalf("original must keep its id")
	}

	group, err := r.ListGroup(context.Background(), nil, *updated.RecurrenceGroupID)
	if err != nil {
		t.Fatalf("ListGroup: %v", err)
	}
	if len(group) != 4 {
		t.Fatalf("group size = %d; want 4 (original + 3)", len(group))
	}
	for i, a := range group {
		if a.PatientID == nil || *a.PatientID != "p1" || a.ClinicID == nil || *a.ClinicID != "c1" ||
			a.ClinicianID == nil || *a.ClinicianID != "dr1" {
			t.Fatalf("occurrence %d lost references: %+v", i, a)
		}
		if a.ID == "orig" {
			continue
		}
		if a.Status != domain.StatusCheckedIn || a.Notes != "bring labs" {
			t.Fatalf("occurrence %d did not copy status/notes: %+v", i, a)
		}
		if want := start.AddDate(0, 0, i); !a.StartTime.Equal(want) {
			t.Fatalf("occurrence %d start = %v; want %v", i, a.StartTime, want)
		}
		if a.EndTime == nil || a.EndTime.Sub(a.StartTime) != 20*time.Minute {
			t.Fatalf("occurrence %d lost duration: %+v", i, a)
		}
	}
}

func TestConvertToRecurring_MissingPattern(t *testing.T) {
	r := newFakeApptRepo()
	seedRow(r, domain.Appointment{ID: "a1", PatientID: strp("p1"), StartTime: time.Now().UTC(), Status: domain.StatusScheduled})
	s := NewAppointmentService(nil, r, testClock(t))

	if _, _, err := s.ConvertToRecurring(context.Background(), "a1", "  ", schedule.Stop{Count: 2}); !errors.Is(err, ErrMissingPattern) {
		t.Fatalf("expected ErrMissingPattern, got %v", err)
	}
}

func TestConvertToRecurring_PartialFailure(t *testing.T) {
	r := newFakeApptRepo()
	start := time.Date(2025, 2, 3, 10, 0, 0, 0, time.UTC)
	seedRow(r, domain.Appointment{ID: "orig", PatientID: strp("p1"), StartTime: start, Status: domain.StatusScheduled})
	r.failCreate = 2 // second additional insert fails
	s := NewAppointmentService(nil, r, testClock(t))

	updated, created, err := s.ConvertToRecurring(context.Background(), "orig", "daily", schedule.Stop{Count: 5})
	if updated == nil || !updated.IsRecurring {
		t.Fatalf("original should still be converted: %+v", updated)
	}
	if created != 1 {
		t.Fatalf("created = %d; want 1 before failure", created)
	}
	var pbe *PartialBatchError
	if !errors.As(err, &pbe) || pbe.Created != 1 {
		t.Fatalf("expected PartialBatchError{Created:1}, got %v", err)
	}
}

// ----- DeleteScoped -----

func seedWeeklyGroup(r *fakeApptRepo, groupID string, n int, base time.Time) {
	pat := "weekly"
	for i := 0; i < n; i++ {
		seedRow(r, domain.Appointment{
			ID: groupID + "-" + string(rune('a'+i)), PatientID: strp("p1"),
			StartTime: base.AddDate(0, 0, 7*i), Status: domain.StatusScheduled,
			IsRecurring: true, RecurrenceGroupID: &groupID, RecurrencePattern: &pat,
		})
	}
}

func TestDeleteScoped_InvalidScope(t *testing.T) {
	s := NewAppointmentService(nil, newFakeApptRepo(), testClock(t))
	if _, err := s.DeleteScoped(context.Background(), "x", "everything", nil); !errors.Is(err, ErrInvalidScope) {
		t.Fatalf("expected ErrInvalidScope, got %v", err)
	}
}

func TestDeleteScoped_NotFound(t *testing.T) {
	s := NewAppointmentService(nil, newFakeApptRepo(), testClock(t))
	if _, err := s.DeleteScoped(context.Background(), "missing", ScopeThis, nil); !errors.Is(err, ErrAppointmentNotFound) {
		t.Fatalf("expected ErrAppointmentNotFound, got %v", err)
	}
}

func TestDeleteScoped_This(t *testing.T) {
	r := newFakeApptRepo()
	base := time.Date(2025, 3, 3, 9, 0, 0, 0, time.UTC)
	seedWeeklyGroup(r, "g1", 3, base)
	s := NewAppointmentService(nil, r, testClock(t))

	n, err := s.DeleteScoped(context.Background(), "g1-b", ScopeThis, nil)
	if err != nil || n != 1 {
		t.Fatalf("this: n=%d err=%v; want 1, nil", n, err)
	}
	if len(r.rows) != 2 {
		t.Fatalf("remaining = %d; want 2", len(r.rows))
	}
}

func TestDeleteScoped_EmptyScopeDefaultsToThis(t *testing.T) {
	r := newFakeApptRepo()
	seedWeeklyGroup(r, "g1", 2, time.Date(2025, 3, 3, 9, 0, 0, 0, time.UTC))
	s := NewAppointmentService(nil, r, testClock(t))

	n, err := s.DeleteScoped(context.Background(), "g1-a", "", nil)
	if err != nil || n != 1 {
		t.Fatalf("empty scope: n=%d err=%v; want 1, nil", n, err)
	}
}

func TestDeleteScoped_NonGroupCollapsesToTarget(t *testing.T) {
	r := newFakeApptRepo()
	seedRow(r, domain.Appointment{ID: "solo", PatientID: strp("p1"), StartTime: time.Now().UTC(), Status: domain.StatusScheduled})
	s := NewAppointmentService(nil, r, testClock(t))

	n, err := s.DeleteScoped(context.Background(), "solo", ScopeAll, nil)
	if err != nil || n != 1 {
		t.Fatalf("all on non-group: n=%d err=%v; want 1, nil", n, err)
	}
}

func TestDeleteScoped_All(t *testing.T) {
	r := newFakeApptRepo()
	seedWeeklyGroup(r, "g1", 4, time.Date(2025, 3, 3, 9, 0, 0, 0, time.UTC))
	s := NewAppointmentService(nil, r, testClock(t))

	n, err := s.DeleteScoped(context.Background(), "g1-c", ScopeAll, nil)
	if err != nil || n != 4 {
		t.Fatalf("all: n=%d err=%v; want 4, nil", n, err)
	}
	if len(r.rows) != 0 {
		t.Fatalf("group rows remain: %d", len(r.rows))
	}
}

func TestDeleteScoped_FutureFromThirdOccurrence(t *testing.T) {
	r := newFakeApptRepo()
	base := time.Date(2025, 3, 3, 9, 0, 0, 0, time.UTC)
	seedWeeklyGroup(r, "g1", 5, base)
	s := NewAppointmentService(nil, r, testClock(t))

	// Target is the third occurrence; no explicit reference, so its own
	// start is used. Expect it and the two after it removed.
	n, err := s.DeleteScoped(context.Background(), "g1-c", ScopeFuture, nil)
	if err != nil || n != 3 {
		t.Fatalf("future: n=%d err=%v; want 3, nil", n, err)
	}
	if len(r.rows) != 2 {
		t.Fatalf("remaining = %d; want 2", len(r.rows))
	}
	for _, a := range r.rows {
		if !a.StartTime.Before(base.AddDate(0, 0, 14)) {
			t.Fatalf("row at/after cutoff survived: %+v", a)
		}
	}
}

func TestDeleteScoped_FutureWithExplicitReference(t *testing.T) {
	r := newFakeApptRepo()
	base := time.Date(2025, 3, 3, 9, 0, 0, 0, time.UTC)
	seedWeeklyGroup(r, "g1", 5, base)
	s := NewAppointmentService(nil, r, testClock(t))

	ref := base.AddDate(0, 0, 21) // 4th occurrence
	n, err := s.DeleteScoped(context.Background(), "g1-a", ScopeFuture, &ref)
	if err != nil || n != 2 {
		t.Fatalf("future(ref): n=%d err=%v; want 2, nil", n, err)
	}
	if !r.lastFrom.Equal(ref) {
		t.Fatalf("reference forwarded as %v; want %v", r.lastFrom, ref)
	}
}

// ----- UpdateFields / Get / CanCancel -----

func TestUpdateFields_InvalidStatus(t *testing.T) {
	r := newFakeApptRepo()
	seedRow(r, domain.Appointment{ID: "a1", PatientID: strp("p1"), StartTime: time.Now().UTC(), Status: domain.StatusScheduled})
	s := NewAppointmentService(nil, r, testClock(t))

	if _, err := s.UpdateFields(context.Background(), "a1", map[string]any{"status": "waiting"}); !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}
}

func TestUpdateFields_AppliesAndReturnsRow(t *testing.T) {
	r := newFakeApptRepo()
	seedRow(r, domain.Appointment{ID: "a1", PatientID: strp("p1"), StartTime: time.Now().UTC(), Status: domain.StatusScheduled})
	s := NewAppointmentService(nil, r, testClock(t))

	got, err := s.UpdateFields(context.Background(), "a1", map[string]any{"status": domain.StatusCompleted, "notes": "done"})
	if err != nil {
		t.Fatalf("UpdateFields error: %v", err)
	}
	if got.Status != domain.StatusCompleted || got.Notes != "done" {
		t.Fatalf("patch not applied: %+v", got)
	}
}

func TestUpdateFields_RejectsEndBeforeStart(t *testing.T) {
	start := time.Date(2025, 1, 6, 9, 0, 0, 0, time.UTC)
	r := newFakeApptRepo()
	seedRow(r, domain.Appointment{ID: "a1", PatientID: strp("p1"), StartTime: start, Status: domain.StatusScheduled})
	s := NewAppointmentService(nil, r, testClock(t))

	// end_time alone, compared against the stored start.
	early := start.Add(-time.Hour)
	if _, err := s.UpdateFields(context.Background(), "a1", map[string]any{"end_time": early}); !errors.Is(err, ErrInvalidTimeRange) {
		t.Fatalf("expected ErrInvalidTimeRange, got %v", err)
	}
	if r.lastPatch != nil {
		t.Fatalf("rejected patch reached the repo: %+v", r.lastPatch)
	}

	// start_time and end_time moved together but out of order.
	bad := map[string]any{
		"start_time": start.Add(2 * time.Hour),
		"end_time":   start.Add(time.Hour),
	}
	if _, err := s.UpdateFields(context.Background(), "a1", bad); !errors.Is(err, ErrInvalidTimeRange) {
		t.Fatalf("expected ErrInvalidTimeRange, got %v", err)
	}

	// A well-ordered window goes through.
	good := map[string]any{
		"start_time": start.Add(time.Hour),
		"end_time":   start.Add(2 * time.Hour),
	}
	if _, err := s.UpdateFields(context.Background(), "a1", good); err != nil {
		t.Fatalf("valid window rejected: %v", err)
	}
	if r.lastPatch == nil {
		t.Fatal("valid patch never reached the repo")
	}
}

func TestUpdateFields_NotFound(t *testing.T) {
	s := NewAppointmentService(nil, newFakeApptRepo(), testClock(t))
	if _, err := s.UpdateFields(context.Background(), "missing", map[string]any{"notes": "x"}); !errors.Is(err, ErrAppointmentNotFound) {
		t.Fatalf("expected ErrAppointmentNotFound, got %v", err)
	}
}

func TestUpdateFields_EmptyPatchReturnsCurrent(t *testing.T) {
	r := newFakeApptRepo()
	seedRow(r, domain.Appointment{ID: "a1", PatientID: strp("p1"), StartTime: time.Now().UTC(), Status: domain.StatusScheduled})
	s := NewAppointmentService(nil, r, testClock(t))

	got, err := s.UpdateFields(context.Background(), "a1", nil)
	if err != nil || got.ID != "a1" {
		t.Fatalf("empty patch: got=%+v err=%v", got, err)
	}
}

func TestGet_NotFoundMapping(t *testing.T) {
	s := NewAppointmentService(nil, newFakeApptRepo(), testClock(t))
	if _, err := s.Get(context.Background(), "nope"); !errors.Is(err, ErrAppointmentNotFound) {
		t.Fatalf("expected ErrAppointmentNotFound, got %v", err)
	}
}

func TestCanCancel(t *testing.T) {
	s := NewAppointmentService(nil, newFakeApptRepo(), testClock(t))

	cases := map[string]bool{
		domain.StatusScheduled: true,
		domain.StatusCheckedIn: true,
		domain.StatusCompleted: false,
		domain.StatusCancelled: false,
		domain.StatusNoShow:    false,
	}
	for status, want := range cases {
		if got := s.CanCancel(&domain.Appointment{Status: status}); got != want {
			t.Errorf("CanCancel(%s) = %v; want %v", status, got, want)
		}
	}
	if s.CanCancel(nil) {
		t.Errorf("CanCancel(nil) = true")
	}
}
