package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dentalos/clinic-backend/internal/config"
	"github.com/dentalos/clinic-backend/internal/db"
)

// simulate fires many concurrent booking requests for the same doctor and
// slot against a running api-server. With the per-doctor lock in place
// exactly one request should win; the rest should come back as conflicts.

type bookingRequest struct {
	PatientID string    `json:"patient_id"`
	DoctorID  string    `json:"doctor_id"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	Reason    string    `json:"reason"`
}

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	var (
		baseURL = flag.String("url", envOr("API_BASE_URL", "http://127.0.0.1:8080"), "api-server base URL")
		workers = flag.Int("workers", 25, "concurrent booking attempts")
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := db.ConnectPostgres(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()

	doctorID, err := pickOne(ctx, pool, "SELECT id FROM doctors LIMIT 1")
	if err != nil {
		log.Fatalf("pick doctor: %v", err)
	}

	patients, err := pickMany(ctx, pool, "SELECT id FROM patients LIMIT $1", *workers)
	if err != nil {
		log.Fatalf("pick patients: %v", err)
	}
	if len(patients) < *workers {
		log.Fatalf("need %d patients, found %d (run the seed first)", *workers, len(patients))
	}

	// Next Monday 10:00 UTC, well inside the default clinic calendar.
	start := nextMonday(time.Now().UTC()).Add(10 * time.Hour)
	end := start.Add(30 * time.Minute)

	log.Printf("racing %d bookings for doctor=%s slot=%s", *workers, doctorID, start.Format(time.RFC3339))

	var created, conflict, rejected, failed int64
	var wg sync.WaitGroup

	client := &http.Client{Timeout: 10 * time.Second}

	for i := 0; i < *workers; i++ {
		wg.Add(1)
		go func(patientID uuid.UUID) {
			defer wg.Done()

			body, _ := json.Marshal(bookingRequest{
				PatientID: patientID.String(),
				DoctorID:  doctorID.String(),
				StartTime: start,
				EndTime:   end,
				Reason:    "simulated checkup",
			})

			resp, err := client.Post(*baseURL+"/api/appointments", "application/json", bytes.NewReader(body))
			if err != nil {
				atomic.AddInt64(&failed, 1)
				return
			}
			defer resp.Body.Close()
			_, _ = io.Copy(io.Discard, resp.Body)

			switch resp.StatusCode {
			case http.StatusCreated:
				atomic.AddInt64(&created, 1)
			case http.StatusConflict:
				atomic.AddInt64(&conflict, 1)
			case http.StatusUnprocessableEntity:
				atomic.AddInt64(&rejected, 1)
			default:
				atomic.AddInt64(&failed, 1)
			}
		}(patients[i])
	}

	wg.Wait()

	fmt.Printf("created=%d conflict=%d rejected=%d failed=%d\n", created, conflict, rejected, failed)

	if created != 1 {
		log.Fatalf("expected exactly 1 created booking, got %d", created)
	}
	log.Println("race resolved correctly: one winner")
}

func pickOne(ctx context.Context, pool *pgxpool.Pool, query string) (uuid.UUID, error) {
	var id uuid.UUID
	err := pool.QueryRow(ctx, query).Scan(&id)
	return id, err
}

func pickMany(ctx context.Context, pool *pgxpool.Pool, query string, limit int) ([]uuid.UUID, error) {
	rows, err := pool.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func nextMonday(t time.Time) time.Time {
	y, m, d := t.Date()
	day := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	for day.Weekday() != time.Monday || !day.After(t) {
		day = day.AddDate(0, 0, 1)
	}
	return day
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
