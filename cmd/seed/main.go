package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/saludya/telemed-backend/internal/db"
	"github.com/saludya/telemed-backend/internal/orientation"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("seed starting")

	dsn := os.Getenv("POSTGRES_DSN")
	if dsn == "" {
		log.Fatal("POSTGRES_DSN is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := db.ConnectPostgres(ctx, dsn)
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()

	if err := db.EnsureAppointmentSchema(ctx, pool); err != nil {
		log.Fatalf("ensure schema: %v", err)
	}
	if err := db.EnsureOrientationSchema(ctx, pool); err != nil {
		log.Fatalf("ensure schema: %v", err)
	}

	gofakeit.Seed(time.Now().UnixNano())

	if err := seedAppointments(context.Background(), pool, 500); err != nil {
		log.Fatalf("seed appointments: %v", err)
	}
	if err := seedOrientationQueries(context.Background(), pool, 200); err != nil {
		log.Fatalf("seed orientation queries: %v", err)
	}

	log.Println("seed complete")
}

func seedAppointments(ctx context.Context, pool *pgxpool.Pool, count int) error {
	log.Printf("seeding %d appointments", count)

	statuses := []string{"confirmed", "confirmed", "confirmed", "cancelled", "completed"}

	tx, err := pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for i := 0; i < count; i++ {
		spec := orientation.Specialties[gofakeit.Number(0, len(orientation.Specialties)-1)]
		date := time.Now().AddDate(0, 0, gofakeit.Number(-30, 30)).Truncate(time.Hour)
		status := statuses[gofakeit.Number(0, len(statuses)-1)]

		var notes *string
		if gofakeit.Bool() {
			n := gofakeit.Sentence(6)
			notes = &n
		}

		_, err := tx.Exec(ctx, `
			INSERT INTO appointments
				(id, user_id, doctor_id, doctor_name, specialty_name,
				 appointment_date, price, status, payment_id, notes,
				 created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, now(), now())
		`, uuid.New(), uuid.New(), uuid.New(),
			fmt.Sprintf("Dr. %s", gofakeit.Name()), spec.Name,
			date, float64(gofakeit.Number(30, 120)), status, nil, notes)
		if err != nil {
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}

	log.Println("appointments seeded")
	return nil
}

func seedOrientationQueries(ctx context.Context, pool *pgxpool.Pool, count int) error {
	log.Printf("seeding %d orientation queries", count)

	samples := []string{
		"tengo fiebre y tos desde hace dos días",
		"me duele el pecho y tengo palpitaciones",
		"mi hijo tiene fiebre y no quiere comer",
		"tengo manchas y picazón en la piel",
		"no puedo dormir y siento mucha ansiedad",
		"me caí y me duele mucho el tobillo",
		"veo borroso y me arden los ojos",
		"tengo dolor de cabeza y mareos constantes",
		"quiero bajar de peso y mejorar mi alimentación",
		"me siento cansado todo el tiempo",
	}

	tx, err := pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for i := 0; i < count; i++ {
		symptoms := samples[gofakeit.Number(0, len(samples)-1)]
		res := orientation.ClassifyByKeywords(symptoms)

		var userID *uuid.UUID
		if gofakeit.Bool() {
			id := uuid.New()
			userID = &id
		}

		_, err := tx.Exec(ctx, `
			INSERT INTO orientation_queries
				(id, user_id, symptoms, recommended_specialty, confidence, inference_method, comment, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, now())
		`, uuid.New(), userID, symptoms, res.Specialty, res.Confidence, res.Method, nil)
		if err != nil {
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}

	log.Println("orientation queries seeded")
	return nil
}
