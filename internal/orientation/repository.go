package orientation

import (
	"context"
)

// Repository persists orientation audit records.
type Repository interface {
	Insert(ctx context.Context, q *OrientationQuery) (*OrientationQuery, error)
}
