package orientation

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/saludya/telemed-backend/internal/inference"
)

// SpecialtySuggester is the external inference boundary. The concrete
// implementation lives in internal/inference.
type SpecialtySuggester interface {
	SuggestSpecialty(ctx context.Context, symptoms string, prompt string) (inference.Suggestion, error)
}

type Service struct {
	repo      Repository
	suggester SpecialtySuggester
	prompt    string
}

// NewService builds the orientation service. suggester may be nil, in
// which case classification runs on keyword scoring alone.
func NewService(repo Repository, suggester SpecialtySuggester) *Service {
	return &Service{
		repo:      repo,
		suggester: suggester,
		prompt:    InferencePrompt(),
	}
}

// Orient classifies the symptom text and persists the audit record.
// Classification itself cannot fail: the AI path degrades to keyword
// scoring, which degrades to the general-medicine default. The only error
// surfaced is a failure to persist the audit row.
func (s *Service) Orient(ctx context.Context, symptoms string, userID *uuid.UUID) (*OrientationQuery, Resolution, error) {
	res := s.resolve(ctx, symptoms)

	q := &OrientationQuery{
		UserID:               userID,
		Symptoms:             symptoms,
		RecommendedSpecialty: res.Specialty,
		Confidence:           res.Confidence,
		InferenceMethod:      res.Method,
	}
	if res.Comment != "" {
		comment := res.Comment
		q.Comment = &comment
	}

	stored, err := s.repo.Insert(ctx, q)
	if err != nil {
		return nil, Resolution{}, fmt.Errorf("insert orientation query: %w", err)
	}

	return stored, res, nil
}

func (s *Service) resolve(ctx context.Context, symptoms string) Resolution {
	if s.suggester != nil {
		suggestion, err := s.suggester.SuggestSpecialty(ctx, symptoms, s.prompt)
		if err == nil {
			return resolveSuggestion(suggestion)
		}
		logrus.Warnf("inference path unavailable, falling back to keyword scoring: %v", err)
	}

	return ClassifyByKeywords(symptoms)
}

// resolveSuggestion validates the model's answer against the catalog. An
// "undefined" or unknown specialty collapses to the general-medicine
// default while keeping the model's commentary.
func resolveSuggestion(s inference.Suggestion) Resolution {
	if strings.EqualFold(strings.TrimSpace(s.Specialty), "undefined") {
		return Resolution{
			Specialty:   DefaultSpecialty,
			Confidence:  ConfidenceMedium,
			Explanation: noMatchExplanation,
			Method:      MethodAI,
			Comment:     s.Comment,
		}
	}

	canonical := CanonicalSpecialty(s.Specialty)
	if canonical == "" {
		return Resolution{
			Specialty:   DefaultSpecialty,
			Confidence:  ConfidenceMedium,
			Explanation: noMatchExplanation,
			Method:      MethodAI,
			Comment:     s.Comment,
		}
	}

	return Resolution{
		Specialty:   canonical,
		Confidence:  ConfidenceMedium,
		Explanation: fmt.Sprintf("El modelo de IA sugiere %s en base a los síntomas descritos", canonical),
		Method:      MethodAI,
		Comment:     s.Comment,
	}
}
