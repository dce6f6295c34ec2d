package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/dentalos/clinic-backend/internal/appointment"
	"github.com/dentalos/clinic-backend/internal/clinic"
	"github.com/dentalos/clinic-backend/internal/treatment"
)

type RouterConfig struct {
	Clinic       *clinic.Service
	Appointments *appointment.Service
	Treatments   *treatment.Service
	PgPool       *pgxpool.Pool
	Redis        *redis.Client
	Logger       *zap.Logger
	Env          string
	Version      string
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Apply middleware
	r.Use(RequestIDMiddleware)
	r.Use(LoggingMiddleware(cfg.Logger))

	// Health endpoints
	health := NewHealthHandler(cfg.PgPool, cfg.Redis, cfg.Env, cfg.Version)
	r.Get("/health/live", health.Liveness)
	r.Get("/health/ready", health.Readiness)

	r.Route("/api", func(r chi.Router) {
		r.Route("/appointments", func(r chi.Router) {
			r.Post("/", createAppointmentHandler(cfg.Appointments))
			r.Get("/", listAppointmentsHandler(cfg.Appointments))
			r.Get("/{id}", getAppointmentHandler(cfg.Appointments))
			r.Put("/{id}", updateAppointmentHandler(cfg.Appointments))
			r.Post("/{id}/cancel", cancelAppointmentHandler(cfg.Appointments))
			r.Post("/{id}/reschedule", rescheduleAppointmentHandler(cfg.Appointments))
			r.Post("/{id}/complete", completeAppointmentHandler(cfg.Appointments))
		})

		r.Route("/patients", func(r chi.Router) {
			r.Post("/", createPatientHandler(cfg.Clinic))
			r.Get("/", listPatientsHandler(cfg.Clinic))
			r.Get("/{id}", getPatientHandler(cfg.Clinic))
			r.Put("/{id}", updatePatientHandler(cfg.Clinic))
			r.Delete("/{id}", deletePatientHandler(cfg.Clinic))
			r.Get("/{id}/treatments", listPatientTreatmentsHandler(cfg.Treatments))
			r.Get("/{id}/treatment-plans", listPatientPlansHandler(cfg.Treatments))
		})

		r.Route("/doctors", func(r chi.Router) {
			r.Post("/", createDoctorHandler(cfg.Clinic))
			r.Get("/", listDoctorsHandler(cfg.Clinic))
			r.Get("/{id}", getDoctorHandler(cfg.Clinic))
			r.Put("/{id}", updateDoctorHandler(cfg.Clinic))
			r.Delete("/{id}", deleteDoctorHandler(cfg.Clinic))
			r.Get("/{id}/available-slots", availableSlotsHandler(cfg.Appointments))
		})

		r.Route("/settings", func(r chi.Router) {
			r.Get("/", getSettingsHandler(cfg.Clinic))
			r.Post("/", createSettingsHandler(cfg.Clinic))
			r.Put("/", updateSettingsHandler(cfg.Clinic))
		})

		r.Route("/treatments", func(r chi.Router) {
			r.Post("/", createTreatmentHandler(cfg.Treatments))
			r.Get("/{id}", getTreatmentHandler(cfg.Treatments))
			r.Post("/{id}/prescriptions", createPrescriptionHandler(cfg.Treatments))
			r.Get("/{id}/prescriptions", listPrescriptionsHandler(cfg.Treatments))
		})

		r.Route("/treatment-plans", func(r chi.Router) {
			r.Post("/", createPlanHandler(cfg.Treatments))
			r.Get("/{id}", getPlanHandler(cfg.Treatments))
		})

		r.Route("/dental-catalog", func(r chi.Router) {
			r.Post("/", createCatalogItemHandler(cfg.Treatments))
			r.Get("/", listCatalogHandler(cfg.Treatments))
		})
	})

	return r
}
