package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/saludya/telemed-backend/internal/appointment"
)

func createAppointmentHandler(svc *appointment.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CreateAppointmentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		userID, err := uuid.Parse(req.UserID)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_user_id", "user_id must be a valid UUID")
			return
		}

		doctorID, err := uuid.Parse(req.DoctorID)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_doctor_id", "doctor_id must be a valid UUID")
			return
		}

		date, err := time.Parse(time.RFC3339, req.AppointmentDate)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_appointment_date", "appointment_date must be RFC 3339")
			return
		}

		if req.Price < 0 {
			writeError(w, http.StatusBadRequest, "invalid_price", "price must not be negative")
			return
		}

		var paymentID *uuid.UUID
		if req.PaymentID != nil {
			id, err := uuid.Parse(*req.PaymentID)
			if err != nil {
				writeError(w, http.StatusBadRequest, "invalid_payment_id", "payment_id must be a valid UUID")
				return
			}
			paymentID = &id
		}

		appt, err := svc.Create(r.Context(), appointment.CreateInput{
			UserID:          userID,
			DoctorID:        doctorID,
			AppointmentDate: date,
			Price:           req.Price,
			Notes:           req.Notes,
			PaymentID:       paymentID,
		})
		if err != nil {
			handleCreateError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, toAppointmentResponse(appt))
	}
}

func listUserAppointmentsHandler(svc *appointment.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := uuid.Parse(chi.URLParam(r, "userID"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_user_id", "user id must be a valid UUID")
			return
		}

		appts, err := svc.ListByUser(r.Context(), userID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
			return
		}

		resp := make([]AppointmentResponse, 0, len(appts))
		for i := range appts {
			resp = append(resp, toAppointmentResponse(&appts[i]))
		}

		writeJSON(w, http.StatusOK, resp)
	}
}

func getAppointmentHandler(svc *appointment.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_appointment_id", "id must be a valid UUID")
			return
		}

		appt, err := svc.Get(r.Context(), id)
		if err != nil {
			if errors.Is(err, appointment.ErrAppointmentNotFound) {
				writeError(w, http.StatusNotFound, "appointment_not_found", "Appointment not found")
				return
			}
			writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
			return
		}

		writeJSON(w, http.StatusOK, toAppointmentResponse(appt))
	}
}

func cancelAppointmentHandler(svc *appointment.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_appointment_id", "id must be a valid UUID")
			return
		}

		appt, err := svc.Cancel(r.Context(), id)
		if err != nil {
			handleCancelError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toAppointmentResponse(appt))
	}
}

func handleCreateError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, appointment.ErrUserNotFound):
		writeError(w, http.StatusBadRequest, "user_not_found", "User not found. Please provide a valid user ID.")
	case errors.Is(err, appointment.ErrDoctorNotFound):
		writeError(w, http.StatusBadRequest, "doctor_not_found", "Doctor not found. Please provide a valid doctor ID.")
	case errors.Is(err, appointment.ErrDirectoryUnavailable):
		writeError(w, http.StatusServiceUnavailable, "directory_unavailable", "A peer service is unreachable, please retry shortly.")
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
	}
}

func handleCancelError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, appointment.ErrAppointmentNotFound):
		writeError(w, http.StatusNotFound, "appointment_not_found", "Appointment not found")
	case errors.Is(err, appointment.ErrAlreadyCancelled):
		writeError(w, http.StatusBadRequest, "already_cancelled", "Appointment already cancelled")
	case errors.Is(err, appointment.ErrCancelCompleted):
		writeError(w, http.StatusBadRequest, "cannot_cancel_completed", "Cannot cancel completed appointment")
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
	}
}
