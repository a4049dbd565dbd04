package orientation

import (
	"fmt"
	"strings"
)

type Confidence string

const (
	ConfidenceLow    Confidence = "baja"
	ConfidenceMedium Confidence = "media"
	ConfidenceHigh   Confidence = "alta"
)

type Method string

const (
	MethodAI    Method = "ai"
	MethodLogic Method = "logic"
)

// Resolution is the full outcome of classifying a symptom description.
// Method tells which path produced it; Comment is only ever set on the
// AI path.
type Resolution struct {
	Specialty   string
	Confidence  Confidence
	Explanation string
	Method      Method
	Comment     string
}

const noMatchExplanation = "No se encontraron síntomas específicos, se recomienda consulta general"

// ClassifyByKeywords scores the symptom text against each specialty's
// keyword list (substring matches on the lowercased text) and picks the
// highest scorer. Ties go to the specialty listed first in the catalog.
func ClassifyByKeywords(symptoms string) Resolution {
	lowered := strings.ToLower(symptoms)

	best := ""
	bestScore := 0
	for _, s := range Specialties {
		score := 0
		for _, kw := range s.Keywords {
			if strings.Contains(lowered, kw) {
				score++
			}
		}
		if score > bestScore {
			best = s.Name
			bestScore = score
		}
	}

	if bestScore == 0 {
		return Resolution{
			Specialty:   DefaultSpecialty,
			Confidence:  ConfidenceMedium,
			Explanation: noMatchExplanation,
			Method:      MethodLogic,
		}
	}

	var confidence Confidence
	var explanation string
	switch {
	case bestScore >= 3:
		confidence = ConfidenceHigh
		explanation = fmt.Sprintf("Los síntomas descritos tienen una fuerte relación con %s", best)
	case bestScore >= 2:
		confidence = ConfidenceMedium
		explanation = fmt.Sprintf("Los síntomas descritos sugieren que podría necesitar %s", best)
	default:
		confidence = ConfidenceLow
		explanation = fmt.Sprintf("Los síntomas podrían estar relacionados con %s, pero se recomienda evaluación", best)
	}

	return Resolution{
		Specialty:   best,
		Confidence:  confidence,
		Explanation: explanation,
		Method:      MethodLogic,
	}
}
