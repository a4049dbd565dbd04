package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// EnsureSchema creates the service-owned tables when they do not exist
// yet, mirroring the platform's create-on-startup convention. Each
// service only touches its own partition.

func EnsureAppointmentSchema(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS appointments (
			id               UUID PRIMARY KEY,
			user_id          UUID NOT NULL,
			doctor_id        UUID NOT NULL,
			doctor_name      TEXT NOT NULL,
			specialty_name   TEXT NOT NULL,
			appointment_date TIMESTAMPTZ NOT NULL,
			price            DOUBLE PRECISION NOT NULL,
			status           TEXT NOT NULL DEFAULT 'pending',
			payment_id       UUID,
			notes            TEXT,
			created_at       TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at       TIMESTAMPTZ NOT NULL DEFAULT now()
		);
		CREATE INDEX IF NOT EXISTS idx_appointments_user_id ON appointments (user_id);
	`)
	if err != nil {
		return fmt.Errorf("ensure appointments schema: %w", err)
	}
	return nil
}

func EnsureOrientationSchema(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS orientation_queries (
			id                    UUID PRIMARY KEY,
			user_id               UUID,
			symptoms              TEXT NOT NULL,
			recommended_specialty TEXT NOT NULL,
			confidence            TEXT NOT NULL,
			inference_method      TEXT NOT NULL,
			comment               TEXT,
			created_at            TIMESTAMPTZ NOT NULL DEFAULT now()
		);
		CREATE INDEX IF NOT EXISTS idx_orientation_queries_user_id ON orientation_queries (user_id);
	`)
	if err != nil {
		return fmt.Errorf("ensure orientation schema: %w", err)
	}
	return nil
}
