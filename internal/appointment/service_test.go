package appointment

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/saludya/telemed-backend/internal/directory"
)

// -------------------------
// Test doubles
// -------------------------

type testRepo struct {
	byID map[uuid.UUID]Appointment
}

func newTestRepo() *testRepo {
	return &testRepo{byID: map[uuid.UUID]Appointment{}}
}

func (r *testRepo) Create(ctx context.Context, appt *Appointment) (*Appointment, error) {
	stored := *appt
	if stored.ID == uuid.Nil {
		stored.ID = uuid.New()
	}
	now := time.Now()
	stored.CreatedAt = now
	stored.UpdatedAt = now
	r.byID[stored.ID] = stored
	return &stored, nil
}

func (r *testRepo) GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	a, ok := r.byID[id]
	if !ok {
		return nil, ErrAppointmentNotFound
	}
	return &a, nil
}

func (r *testRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]Appointment, error) {
	var out []Appointment
	for _, a := range r.byID {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].AppointmentDate.After(out[j].AppointmentDate)
	})
	return out, nil
}

func (r *testRepo) UpdateStatus(ctx context.Context, id uuid.UUID, from, to AppointmentStatus) (*Appointment, error) {
	a, ok := r.byID[id]
	if !ok || a.Status != from {
		return nil, ErrAppointmentNotFound
	}
	a.Status = to
	a.UpdatedAt = time.Now()
	r.byID[id] = a
	return &a, nil
}

func (r *testRepo) FindElapsedConfirmed(ctx context.Context, now time.Time) ([]Appointment, error) {
	var out []Appointment
	for _, a := range r.byID {
		if a.Status == StatusConfirmed && a.AppointmentDate.Before(now) {
			out = append(out, a)
		}
	}
	return out, nil
}

type fakeDirectory struct {
	records     map[uuid.UUID]directory.Record
	unavailable bool
	calls       int
}

func (d *fakeDirectory) Lookup(ctx context.Context, id uuid.UUID) directory.Lookup {
	d.calls++
	if d.unavailable {
		return directory.Lookup{Status: directory.StatusUnavailable, Cause: errors.New("connection refused")}
	}
	if rec, ok := d.records[id]; ok {
		return directory.Lookup{Status: directory.StatusFound, Record: &rec}
	}
	return directory.Lookup{Status: directory.StatusNotFound}
}

func directoryWith(recs ...directory.Record) *fakeDirectory {
	d := &fakeDirectory{records: map[uuid.UUID]directory.Record{}}
	for _, r := range recs {
		d.records[r.ID] = r
	}
	return d
}

// -------------------------
// Create
// -------------------------

func TestCreate_DenormalizesDoctorSnapshot(t *testing.T) {
	userID := uuid.New()
	doctorID := uuid.New()

	users := directoryWith(directory.Record{ID: userID, Name: "Lucía Torres"})
	doctors := directoryWith(directory.Record{
		ID:            doctorID,
		Name:          "Dr. Carlos Rodríguez Sánchez",
		SpecialtyName: "Cardiología",
	})

	repo := newTestRepo()
	svc := NewService(repo, users, doctors)

	date := time.Now().AddDate(0, 0, 7)
	appt, err := svc.Create(context.Background(), CreateInput{
		UserID:          userID,
		DoctorID:        doctorID,
		AppointmentDate: date,
		Price:           50.0,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if appt.Status != StatusConfirmed {
		t.Errorf("status = %q, want %q", appt.Status, StatusConfirmed)
	}
	if appt.DoctorName != "Dr. Carlos Rodríguez Sánchez" {
		t.Errorf("doctor_name = %q", appt.DoctorName)
	}
	if appt.SpecialtyName != "Cardiología" {
		t.Errorf("specialty_name = %q", appt.SpecialtyName)
	}
	if appt.Price != 50.0 {
		t.Errorf("price = %v", appt.Price)
	}
	if appt.ID == uuid.Nil {
		t.Error("missing id")
	}
}

func TestCreate_UserNotFound_NoPartialWrite(t *testing.T) {
	doctorID := uuid.New()
	users := directoryWith() // empty
	doctors := directoryWith(directory.Record{ID: doctorID, Name: "Dra. García", SpecialtyName: "Pediatría"})

	repo := newTestRepo()
	svc := NewService(repo, users, doctors)

	_, err := svc.Create(context.Background(), CreateInput{
		UserID:          uuid.New(),
		DoctorID:        doctorID,
		AppointmentDate: time.Now().AddDate(0, 0, 1),
		Price:           40,
	})
	if !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("err = %v, want ErrUserNotFound", err)
	}

	if len(repo.byID) != 0 {
		t.Errorf("store has %d records after failed validation, want 0", len(repo.byID))
	}
	if doctors.calls != 0 {
		t.Errorf("doctor directory called %d times before user validation passed", doctors.calls)
	}
}

func TestCreate_DoctorNotFound_NoPartialWrite(t *testing.T) {
	userID := uuid.New()
	users := directoryWith(directory.Record{ID: userID, Name: "Lucía Torres"})
	doctors := directoryWith() // empty

	repo := newTestRepo()
	svc := NewService(repo, users, doctors)

	_, err := svc.Create(context.Background(), CreateInput{
		UserID:          userID,
		DoctorID:        uuid.New(),
		AppointmentDate: time.Now().AddDate(0, 0, 1),
		Price:           40,
	})
	if !errors.Is(err, ErrDoctorNotFound) {
		t.Fatalf("err = %v, want ErrDoctorNotFound", err)
	}

	if len(repo.byID) != 0 {
		t.Errorf("store has %d records after failed validation, want 0", len(repo.byID))
	}
}

func TestCreate_DirectoryUnavailableIsNotInvalidReference(t *testing.T) {
	users := &fakeDirectory{unavailable: true}
	doctors := directoryWith()

	repo := newTestRepo()
	svc := NewService(repo, users, doctors)

	_, err := svc.Create(context.Background(), CreateInput{
		UserID:          uuid.New(),
		DoctorID:        uuid.New(),
		AppointmentDate: time.Now().AddDate(0, 0, 1),
		Price:           40,
	})
	if !errors.Is(err, ErrDirectoryUnavailable) {
		t.Fatalf("err = %v, want ErrDirectoryUnavailable", err)
	}
	if errors.Is(err, ErrUserNotFound) {
		t.Error("unreachable directory must not look like a missing user")
	}

	if len(repo.byID) != 0 {
		t.Errorf("store has %d records, want 0", len(repo.byID))
	}
}

// -------------------------
// Cancel
// -------------------------

func seedAppointment(repo *testRepo, status AppointmentStatus) uuid.UUID {
	id := uuid.New()
	repo.byID[id] = Appointment{
		ID:              id,
		UserID:          uuid.New(),
		DoctorID:        uuid.New(),
		DoctorName:      "Dra. García",
		SpecialtyName:   "Medicina General",
		AppointmentDate: time.Now().AddDate(0, 0, 3),
		Price:           50,
		Status:          status,
	}
	return id
}

func TestCancel_FromConfirmed(t *testing.T) {
	repo := newTestRepo()
	id := seedAppointment(repo, StatusConfirmed)
	svc := NewService(repo, directoryWith(), directoryWith())

	appt, err := svc.Cancel(context.Background(), id)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if appt.Status != StatusCancelled {
		t.Errorf("status = %q, want %q", appt.Status, StatusCancelled)
	}
}

func TestCancel_FromPending(t *testing.T) {
	repo := newTestRepo()
	id := seedAppointment(repo, StatusPending)
	svc := NewService(repo, directoryWith(), directoryWith())

	appt, err := svc.Cancel(context.Background(), id)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if appt.Status != StatusCancelled {
		t.Errorf("status = %q, want %q", appt.Status, StatusCancelled)
	}
}

func TestCancel_TwiceReportsAlreadyCancelled(t *testing.T) {
	repo := newTestRepo()
	id := seedAppointment(repo, StatusConfirmed)
	svc := NewService(repo, directoryWith(), directoryWith())

	if _, err := svc.Cancel(context.Background(), id); err != nil {
		t.Fatalf("first cancel: %v", err)
	}

	_, err := svc.Cancel(context.Background(), id)
	if !errors.Is(err, ErrAlreadyCancelled) {
		t.Fatalf("second cancel err = %v, want ErrAlreadyCancelled", err)
	}
}

func TestCancel_CompletedIsImmutable(t *testing.T) {
	repo := newTestRepo()
	id := seedAppointment(repo, StatusCompleted)
	svc := NewService(repo, directoryWith(), directoryWith())

	_, err := svc.Cancel(context.Background(), id)
	if !errors.Is(err, ErrCancelCompleted) {
		t.Fatalf("err = %v, want ErrCancelCompleted", err)
	}
}

func TestCancel_MissingAppointment(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo, directoryWith(), directoryWith())

	_, err := svc.Cancel(context.Background(), uuid.New())
	if !errors.Is(err, ErrAppointmentNotFound) {
		t.Fatalf("err = %v, want ErrAppointmentNotFound", err)
	}
}

// -------------------------
// Listing and completion
// -------------------------

func TestListByUser_NewestScheduledFirst(t *testing.T) {
	repo := newTestRepo()
	userID := uuid.New()

	for _, daysAhead := range []int{5, 1, 9} {
		id := uuid.New()
		repo.byID[id] = Appointment{
			ID:              id,
			UserID:          userID,
			AppointmentDate: time.Now().AddDate(0, 0, daysAhead),
			Status:          StatusConfirmed,
		}
	}

	svc := NewService(repo, directoryWith(), directoryWith())

	appts, err := svc.ListByUser(context.Background(), userID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(appts) != 3 {
		t.Fatalf("len = %d, want 3", len(appts))
	}
	for i := 1; i < len(appts); i++ {
		if appts[i].AppointmentDate.After(appts[i-1].AppointmentDate) {
			t.Fatal("appointments not ordered newest-scheduled-first")
		}
	}
}

func TestCompleteElapsed_OnlySweepsConfirmedPast(t *testing.T) {
	repo := newTestRepo()

	past := uuid.New()
	repo.byID[past] = Appointment{
		ID:              past,
		Status:          StatusConfirmed,
		AppointmentDate: time.Now().Add(-2 * time.Hour),
	}
	future := uuid.New()
	repo.byID[future] = Appointment{
		ID:              future,
		Status:          StatusConfirmed,
		AppointmentDate: time.Now().Add(2 * time.Hour),
	}
	cancelled := uuid.New()
	repo.byID[cancelled] = Appointment{
		ID:              cancelled,
		Status:          StatusCancelled,
		AppointmentDate: time.Now().Add(-2 * time.Hour),
	}

	svc := NewService(repo, directoryWith(), directoryWith())

	if err := svc.CompleteElapsed(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := repo.byID[past].Status; got != StatusCompleted {
		t.Errorf("past confirmed status = %q, want %q", got, StatusCompleted)
	}
	if got := repo.byID[future].Status; got != StatusConfirmed {
		t.Errorf("future confirmed status = %q, want %q", got, StatusConfirmed)
	}
	if got := repo.byID[cancelled].Status; got != StatusCancelled {
		t.Errorf("cancelled status = %q, want %q", got, StatusCancelled)
	}
}
