package treatment

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var (
	ErrTreatmentNotFound = errors.New("treatment not found")
	ErrPlanNotFound      = errors.New("treatment plan not found")
)

// Repository contains all DB interactions needed by the treatment service.
type Repository interface {
	CreateTreatment(ctx context.Context, t Treatment) (*Treatment, error)
	GetTreatmentByID(ctx context.Context, id uuid.UUID) (*Treatment, error)
	ListTreatmentsByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]Treatment, error)

	CreatePrescription(ctx context.Context, p Prescription) (*Prescription, error)
	ListPrescriptionsByTreatment(ctx context.Context, treatmentID uuid.UUID) ([]Prescription, error)

	CreatePlan(ctx context.Context, p Plan) (*Plan, error)
	GetPlanByID(ctx context.Context, id uuid.UUID) (*Plan, error)
	ListPlansByPatient(ctx context.Context, patientID uuid.UUID) ([]Plan, error)

	CreateCatalogItem(ctx context.Context, item CatalogItem) (*CatalogItem, error)
	ListCatalog(ctx context.Context, itemType CatalogType, category string) ([]CatalogItem, error)
}
