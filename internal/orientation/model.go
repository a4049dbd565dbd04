package orientation

import (
	"time"

	"github.com/google/uuid"
)

// OrientationQuery is the audit record persisted for every orientation
// request. It is write-once: nothing in the flow reads it back.
type OrientationQuery struct {
	ID                   uuid.UUID
	UserID               *uuid.UUID
	Symptoms             string
	RecommendedSpecialty string
	Confidence           Confidence
	InferenceMethod      Method
	Comment              *string
	CreatedAt            time.Time
}
