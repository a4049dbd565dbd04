package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/saludya/telemed-backend/internal/orientation"
)

func orientHandler(svc *orientation.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req OrientationRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		if strings.TrimSpace(req.Symptoms) == "" {
			writeError(w, http.StatusBadRequest, "symptoms_required", "symptoms must not be empty")
			return
		}

		var userID *uuid.UUID
		if req.UserID != nil && *req.UserID != "" {
			id, err := uuid.Parse(*req.UserID)
			if err != nil {
				writeError(w, http.StatusBadRequest, "invalid_user_id", "user_id must be a valid UUID")
				return
			}
			userID = &id
		}

		query, res, err := svc.Orient(r.Context(), req.Symptoms, userID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
			return
		}

		writeJSON(w, http.StatusOK, OrientationResponse{
			ID:                   query.ID,
			Symptoms:             query.Symptoms,
			RecommendedSpecialty: query.RecommendedSpecialty,
			Confidence:           string(query.Confidence),
			Explanation:          res.Explanation,
			Comment:              res.Comment,
			InferenceMethod:      string(res.Method),
			CreatedAt:            query.CreatedAt,
		})
	}
}
