package treatment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dentalos/clinic-backend/internal/clinic"
)

var ErrInvalidPlanDates = errors.New("plan end date before start date")

// Directory is the slice of the clinic repository the treatment service needs
// to verify that referenced people exist.
type Directory interface {
	GetPatientByID(ctx context.Context, id uuid.UUID) (*clinic.Patient, error)
	GetDoctorByID(ctx context.Context, id uuid.UUID) (*clinic.Doctor, error)
}

type Service struct {
	repo      Repository
	directory Directory
	logger    *zap.Logger
}

func NewService(repo Repository, directory Directory, logger *zap.Logger) *Service {
	return &Service{repo: repo, directory: directory, logger: logger}
}

func (s *Service) CreateTreatment(ctx context.Context, t Treatment) (*Treatment, error) {
	if _, err := s.directory.GetPatientByID(ctx, t.PatientID); err != nil {
		return nil, err
	}
	if _, err := s.directory.GetDoctorByID(ctx, t.DoctorID); err != nil {
		return nil, err
	}
	if t.Date.IsZero() {
		t.Date = time.Now().UTC()
	}

	created, err := s.repo.CreateTreatment(ctx, t)
	if err != nil {
		return nil, fmt.Errorf("create treatment: %w", err)
	}

	s.logger.Info("treatment recorded",
		zap.String("treatment_id", created.ID.String()),
		zap.String("patient_id", created.PatientID.String()),
		zap.String("doctor_id", created.DoctorID.String()),
	)
	return created, nil
}

func (s *Service) GetTreatment(ctx context.Context, id uuid.UUID) (*Treatment, error) {
	return s.repo.GetTreatmentByID(ctx, id)
}

func (s *Service) ListTreatmentsByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]Treatment, error) {
	if _, err := s.directory.GetPatientByID(ctx, patientID); err != nil {
		return nil, err
	}
	limit, offset = clampPage(limit, offset)
	return s.repo.ListTreatmentsByPatient(ctx, patientID, limit, offset)
}

func (s *Service) AddPrescription(ctx context.Context, p Prescription) (*Prescription, error) {
	if _, err := s.repo.GetTreatmentByID(ctx, p.TreatmentID); err != nil {
		return nil, err
	}
	if p.Date.IsZero() {
		p.Date = time.Now().UTC()
	}

	created, err := s.repo.CreatePrescription(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("create prescription: %w", err)
	}

	s.logger.Info("prescription added",
		zap.String("prescription_id", created.ID.String()),
		zap.String("treatment_id", created.TreatmentID.String()),
		zap.Int("medications", len(created.Medications)),
	)
	return created, nil
}

func (s *Service) ListPrescriptions(ctx context.Context, treatmentID uuid.UUID) ([]Prescription, error) {
	if _, err := s.repo.GetTreatmentByID(ctx, treatmentID); err != nil {
		return nil, err
	}
	return s.repo.ListPrescriptionsByTreatment(ctx, treatmentID)
}

func (s *Service) CreatePlan(ctx context.Context, p Plan) (*Plan, error) {
	if _, err := s.directory.GetPatientByID(ctx, p.PatientID); err != nil {
		return nil, err
	}
	if p.EndDate != nil && p.EndDate.Before(p.StartDate) {
		return nil, ErrInvalidPlanDates
	}

	created, err := s.repo.CreatePlan(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("create treatment plan: %w", err)
	}

	s.logger.Info("treatment plan created",
		zap.String("plan_id", created.ID.String()),
		zap.String("patient_id", created.PatientID.String()),
		zap.Int("procedures", len(created.Procedures)),
	)
	return created, nil
}

func (s *Service) GetPlan(ctx context.Context, id uuid.UUID) (*Plan, error) {
	return s.repo.GetPlanByID(ctx, id)
}

func (s *Service) ListPlansByPatient(ctx context.Context, patientID uuid.UUID) ([]Plan, error) {
	if _, err := s.directory.GetPatientByID(ctx, patientID); err != nil {
		return nil, err
	}
	return s.repo.ListPlansByPatient(ctx, patientID)
}

func (s *Service) CreateCatalogItem(ctx context.Context, item CatalogItem) (*CatalogItem, error) {
	return s.repo.CreateCatalogItem(ctx, item)
}

func (s *Service) ListCatalog(ctx context.Context, itemType CatalogType, category string) ([]CatalogItem, error) {
	return s.repo.ListCatalog(ctx, itemType, category)
}

func clampPage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
