package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/saludya/telemed-backend/internal/appointment"
)

type CreateAppointmentRequest struct {
	UserID          string  `json:"user_id"`
	DoctorID        string  `json:"doctor_id"`
	AppointmentDate string  `json:"appointment_date"` // RFC 3339
	Price           float64 `json:"price"`
	Notes           *string `json:"notes,omitempty"`
	PaymentID       *string `json:"payment_id,omitempty"`
}

type AppointmentResponse struct {
	ID              uuid.UUID  `json:"id"`
	UserID          uuid.UUID  `json:"user_id"`
	DoctorID        uuid.UUID  `json:"doctor_id"`
	DoctorName      string     `json:"doctor_name"`
	SpecialtyName   string     `json:"specialty_name"`
	AppointmentDate time.Time  `json:"appointment_date"`
	Price           float64    `json:"price"`
	Status          string     `json:"status"`
	PaymentID       *uuid.UUID `json:"payment_id,omitempty"`
	Notes           *string    `json:"notes,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

func toAppointmentResponse(a *appointment.Appointment) AppointmentResponse {
	return AppointmentResponse{
		ID:              a.ID,
		UserID:          a.UserID,
		DoctorID:        a.DoctorID,
		DoctorName:      a.DoctorName,
		SpecialtyName:   a.SpecialtyName,
		AppointmentDate: a.AppointmentDate,
		Price:           a.Price,
		Status:          string(a.Status),
		PaymentID:       a.PaymentID,
		Notes:           a.Notes,
		CreatedAt:       a.CreatedAt,
		UpdatedAt:       a.UpdatedAt,
	}
}

type OrientationRequest struct {
	Symptoms string  `json:"symptoms"`
	UserID   *string `json:"user_id,omitempty"`
}

type OrientationResponse struct {
	ID                   uuid.UUID `json:"id"`
	Symptoms             string    `json:"symptoms"`
	RecommendedSpecialty string    `json:"recommended_specialty"`
	Confidence           string    `json:"confidence"`
	Explanation          string    `json:"explanation"`
	Comment              string    `json:"comment,omitempty"`
	InferenceMethod      string    `json:"inference_method"`
	CreatedAt            time.Time `json:"created_at"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, details string) {
	writeJSON(w, status, ErrorResponse{Error: code, Details: details})
}
