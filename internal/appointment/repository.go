package appointment

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrAppointmentNotFound = errors.New("appointment not found")

// Repository contains all DB interactions needed by the service.
type Repository interface {
	Create(ctx context.Context, appt *Appointment) (*Appointment, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error)

	// Newest scheduled date first.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]Appointment, error)

	// Compare-and-set: fails with ErrAppointmentNotFound when the row is
	// absent or no longer in the expected status.
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to AppointmentStatus) (*Appointment, error)

	// Completion worker
	FindElapsedConfirmed(ctx context.Context, now time.Time) ([]Appointment, error)
}
