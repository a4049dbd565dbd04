package orientation

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgRepository struct {
	pool *pgxpool.Pool
}

func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

func (r *PgRepository) Insert(ctx context.Context, q *OrientationQuery) (*OrientationQuery, error) {
	id := q.ID
	if id == uuid.Nil {
		id = uuid.New()
	}

	row := r.pool.QueryRow(ctx, `
		INSERT INTO orientation_queries
			(id, user_id, symptoms, recommended_specialty, confidence, inference_method, comment, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, now())
		RETURNING id, user_id, symptoms, recommended_specialty, confidence, inference_method, comment, created_at
	`, id, q.UserID, q.Symptoms, q.RecommendedSpecialty, q.Confidence, q.InferenceMethod, q.Comment)

	var out OrientationQuery
	err := row.Scan(
		&out.ID,
		&out.UserID,
		&out.Symptoms,
		&out.RecommendedSpecialty,
		&out.Confidence,
		&out.InferenceMethod,
		&out.Comment,
		&out.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &out, nil
}
