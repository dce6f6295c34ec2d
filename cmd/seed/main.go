package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/dentalos/clinic-backend/internal/clinic"
	"github.com/dentalos/clinic-backend/internal/config"
	"github.com/dentalos/clinic-backend/internal/db"
	"github.com/dentalos/clinic-backend/internal/treatment"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("seed starting")

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

	gofakeit.Seed(time.Now().UnixNano())

	clinicRepo := clinic.NewPgRepository(pool)
	clinicSvc := clinic.NewService(clinicRepo, zap.NewNop())
	catalogRepo := treatment.NewPgRepository(pool)

	if err := seedSettings(context.Background(), clinicSvc); err != nil {
		log.Fatalf("seed settings: %v", err)
	}
	if err := seedDoctors(context.Background(), clinicSvc, 8); err != nil {
		log.Fatalf("seed doctors: %v", err)
	}
	if err := seedPatients(context.Background(), pool, 2000); err != nil {
		log.Fatalf("seed patients: %v", err)
	}
	if err := seedCatalog(context.Background(), catalogRepo); err != nil {
		log.Fatalf("seed dental catalog: %v", err)
	}

	log.Println("seed complete")
}

func seedSettings(ctx context.Context, svc *clinic.Service) error {
	_, err := svc.CreateSettings(ctx, clinic.Settings{
		SlotDuration:       30,
		BufferTime:         10,
		AdvanceBookingDays: 14,
		WorkingDays:        []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday"},
		WorkingHoursStart:  "09:00",
		WorkingHoursEnd:    "17:00",
	})
	if errors.Is(err, clinic.ErrSettingsExist) {
		log.Println("settings already exist, skipping")
		return nil
	}
	if err != nil {
		return err
	}
	log.Println("settings seeded")
	return nil
}

func seedDoctors(ctx context.Context, svc *clinic.Service, count int) error {
	log.Printf("seeding %d doctors", count)

	specializations := []string{
		"General Dentistry",
		"Orthodontics",
		"Endodontics",
		"Periodontics",
		"Prosthodontics",
		"Oral Surgery",
		"Pediatric Dentistry",
	}

	weekdays := []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday"}

	for i := 0; i < count; i++ {
		var hours []clinic.DayHours
		var breaks []clinic.BreakHours
		for _, day := range weekdays {
			hours = append(hours, clinic.DayHours{
				Day:       day,
				StartTime: "09:00",
				EndTime:   "17:00",
				IsWorking: true,
			})
			breaks = append(breaks, clinic.BreakHours{
				Day:       day,
				StartTime: "13:00",
				EndTime:   "14:00",
			})
		}

		_, err := svc.CreateDoctor(ctx, clinic.Doctor{
			FirstName:      gofakeit.FirstName(),
			LastName:       gofakeit.LastName(),
			Email:          fmt.Sprintf("doctor%d@%s", i, gofakeit.DomainName()),
			ContactNumber:  gofakeit.Phone(),
			Specialization: specializations[gofakeit.Number(0, len(specializations)-1)],
			WorkingHours:   hours,
			BreakHours:     breaks,
		})
		if err != nil {
			return err
		}
	}

	log.Println("doctors seeded")
	return nil
}

func seedPatients(ctx context.Context, pool *pgxpool.Pool, count int) error {
	log.Printf("seeding %d patients", count)

	const batchSize = 500

	for offset := 0; offset < count; offset += batchSize {
		end := offset + batchSize
		if end > count {
			end = count
		}

		tx, err := pool.Begin(ctx)
		if err != nil {
			return err
		}

		for i := offset; i < end; i++ {
			id := uuid.New()
			email := fmt.Sprintf("patient%d@%s", i, gofakeit.DomainName())
			dob := gofakeit.DateRange(
				time.Date(1940, 1, 1, 0, 0, 0, 0, time.UTC),
				time.Date(2018, 12, 31, 0, 0, 0, 0, time.UTC),
			)

			_, err := tx.Exec(ctx, `
				INSERT INTO patients (id, first_name, last_name, email, contact_number, date_of_birth, address, created_at, updated_at)
				VALUES ($1, $2, $3, $4, $5, $6, $7, now(), now())
			`, id, gofakeit.FirstName(), gofakeit.LastName(), email, gofakeit.Phone(), dob, gofakeit.Address().Address)
			if err != nil {
				_ = tx.Rollback(ctx)
				return err
			}
		}

		if err := tx.Commit(ctx); err != nil {
			return err
		}

		log.Printf("patients seeded: %d/%d", end, count)
	}

	log.Println("patients seeded")
	return nil
}

func seedCatalog(ctx context.Context, repo *treatment.PgRepository) error {
	type entry struct {
		itemType treatment.CatalogType
		name     string
		category string
		common   bool
	}

	entries := []entry{
		{treatment.CatalogIssue, "Cavity", "Restorative", true},
		{treatment.CatalogIssue, "Gingivitis", "Periodontal", true},
		{treatment.CatalogIssue, "Tooth Sensitivity", "General", true},
		{treatment.CatalogIssue, "Impacted Wisdom Tooth", "Surgical", false},
		{treatment.CatalogIssue, "Cracked Tooth", "Restorative", false},
		{treatment.CatalogIssue, "Dental Abscess", "Endodontic", false},
		{treatment.CatalogTreatment, "Composite Filling", "Restorative", true},
		{treatment.CatalogTreatment, "Root Canal Therapy", "Endodontic", true},
		{treatment.CatalogTreatment, "Scaling and Polishing", "Preventive", true},
		{treatment.CatalogTreatment, "Tooth Extraction", "Surgical", true},
		{treatment.CatalogTreatment, "Porcelain Crown", "Restorative", false},
		{treatment.CatalogTreatment, "Teeth Whitening", "Cosmetic", false},
		{treatment.CatalogTreatment, "Dental Implant", "Surgical", false},
	}

	for _, e := range entries {
		_, err := repo.CreateCatalogItem(ctx, treatment.CatalogItem{
			Type:     e.itemType,
			Name:     e.name,
			Category: e.category,
			IsCommon: e.common,
		})
		if err != nil {
			return err
		}
	}

	log.Printf("dental catalog seeded: %d items", len(entries))
	return nil
}
