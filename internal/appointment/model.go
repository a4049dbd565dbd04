package appointment

import (
	"time"

	"github.com/google/uuid"
)

type AppointmentStatus string

const (
	StatusPending   AppointmentStatus = "pending"
	StatusConfirmed AppointmentStatus = "confirmed"
	StatusCancelled AppointmentStatus = "cancelled"
	StatusCompleted AppointmentStatus = "completed"
)

// Appointment is a booking between a user and a doctor. DoctorName and
// SpecialtyName are snapshots of the catalog record at booking time and
// are never resynchronized.
type Appointment struct {
	ID              uuid.UUID
	UserID          uuid.UUID
	DoctorID        uuid.UUID
	DoctorName      string
	SpecialtyName   string
	AppointmentDate time.Time
	Price           float64
	Status          AppointmentStatus
	PaymentID       *uuid.UUID
	Notes           *string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
