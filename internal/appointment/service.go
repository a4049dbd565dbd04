package appointment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/saludya/telemed-backend/internal/directory"
)

var (
	ErrUserNotFound         = errors.New("user not found")
	ErrDoctorNotFound       = errors.New("doctor not found")
	ErrDirectoryUnavailable = errors.New("directory unavailable")
	ErrAlreadyCancelled     = errors.New("appointment already cancelled")
	ErrCancelCompleted      = errors.New("cannot cancel completed appointment")
)

type Service struct {
	repo    Repository
	users   directory.Directory
	doctors directory.Directory
}

func NewService(repo Repository, users, doctors directory.Directory) *Service {
	return &Service{
		repo:    repo,
		users:   users,
		doctors: doctors,
	}
}

type CreateInput struct {
	UserID          uuid.UUID
	DoctorID        uuid.UUID
	AppointmentDate time.Time
	Price           float64
	Notes           *string
	PaymentID       *uuid.UUID
}

// Create validates both remote references, denormalizes the doctor's
// display fields and persists the booking as confirmed. Nothing is
// written until every validation has passed. The user check and the final
// insert are not one distributed transaction; a user deleted in between
// is an accepted race.
func (s *Service) Create(ctx context.Context, in CreateInput) (*Appointment, error) {
	userLookup := s.users.Lookup(ctx, in.UserID)
	switch userLookup.Status {
	case directory.StatusNotFound:
		return nil, ErrUserNotFound
	case directory.StatusUnavailable:
		return nil, fmt.Errorf("%w: %v", ErrDirectoryUnavailable, userLookup.Cause)
	}

	// Existence check and denormalization fetch are one lookup, so a
	// doctor vanishing between the two is not a reachable race here.
	doctorLookup := s.doctors.Lookup(ctx, in.DoctorID)
	switch doctorLookup.Status {
	case directory.StatusNotFound:
		return nil, ErrDoctorNotFound
	case directory.StatusUnavailable:
		return nil, fmt.Errorf("%w: %v", ErrDirectoryUnavailable, doctorLookup.Cause)
	}
	doctor := doctorLookup.Record

	appt := &Appointment{
		UserID:          in.UserID,
		DoctorID:        in.DoctorID,
		DoctorName:      doctor.Name,
		SpecialtyName:   doctor.SpecialtyName,
		AppointmentDate: in.AppointmentDate,
		Price:           in.Price,
		Status:          StatusConfirmed,
		PaymentID:       in.PaymentID,
		Notes:           in.Notes,
	}

	created, err := s.repo.Create(ctx, appt)
	if err != nil {
		return nil, fmt.Errorf("create appointment: %w", err)
	}

	return created, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	appt, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrAppointmentNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("get appointment: %w", err)
	}
	return appt, nil
}

func (s *Service) ListByUser(ctx context.Context, userID uuid.UUID) ([]Appointment, error) {
	appts, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list appointments by user: %w", err)
	}
	return appts, nil
}

// Cancel moves a pending or confirmed appointment to cancelled. Repeating
// a cancel is an error, not a silent success: the terminal state is
// already reached but the caller is told so.
func (s *Service) Cancel(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	appt, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrAppointmentNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("load appointment: %w", err)
	}

	switch appt.Status {
	case StatusCancelled:
		return nil, ErrAlreadyCancelled
	case StatusCompleted:
		return nil, ErrCancelCompleted
	}

	updated, err := s.repo.UpdateStatus(ctx, appt.ID, appt.Status, StatusCancelled)
	if err != nil {
		if errors.Is(err, ErrAppointmentNotFound) {
			// Status moved under us between load and update.
			return nil, ErrAlreadyCancelled
		}
		return nil, fmt.Errorf("cancel appointment: %w", err)
	}

	return updated, nil
}

// CompleteElapsed is called by the completion worker periodically. It
// sweeps confirmed appointments whose scheduled time has passed into the
// completed terminal state.
func (s *Service) CompleteElapsed(ctx context.Context) error {
	now := time.Now()
	elapsed, err := s.repo.FindElapsedConfirmed(ctx, now)
	if err != nil {
		return fmt.Errorf("find elapsed confirmed appointments: %w", err)
	}

	for _, appt := range elapsed {
		_, err := s.repo.UpdateStatus(ctx, appt.ID, StatusConfirmed, StatusCompleted)
		if err != nil && !errors.Is(err, ErrAppointmentNotFound) {
			logrus.Warnf("failed to complete appointment %s: %v", appt.ID, err)
			continue
		}
	}

	return nil
}
