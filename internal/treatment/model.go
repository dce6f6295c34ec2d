package treatment

import (
	"time"

	"github.com/google/uuid"
)

// Treatment is one clinical session: what the patient came in with, what was
// found and what was done, with the teeth involved recorded in FDI notation.
type Treatment struct {
	ID               uuid.UUID
	PatientID        uuid.UUID
	DoctorID         uuid.UUID
	Date             time.Time
	ChiefComplaint   string
	Diagnosis        string
	ClinicalFindings string
	TreatmentNotes   string
	TeethInvolved    []string
	Attachments      []string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

type Medication struct {
	Name         string `json:"name"`
	Dosage       string `json:"dosage"`
	Frequency    string `json:"frequency"`
	Duration     string `json:"duration"`
	Instructions string `json:"instructions"`
}

type Prescription struct {
	ID          uuid.UUID
	TreatmentID uuid.UUID
	Medications []Medication
	Date        time.Time
	CreatedAt   time.Time
}

type ProcedureStatus string

const (
	ProcedurePlanned   ProcedureStatus = "planned"
	ProcedureCompleted ProcedureStatus = "completed"
	ProcedureCancelled ProcedureStatus = "cancelled"
)

type ProcedurePriority string

const (
	PriorityHigh   ProcedurePriority = "high"
	PriorityMedium ProcedurePriority = "medium"
	PriorityLow    ProcedurePriority = "low"
)

type Procedure struct {
	Description   string            `json:"description"`
	EstimatedCost float64           `json:"estimated_cost"`
	Status        ProcedureStatus   `json:"status"`
	Priority      ProcedurePriority `json:"priority"`
}

type Plan struct {
	ID         uuid.UUID
	PatientID  uuid.UUID
	Procedures []Procedure
	StartDate  time.Time
	EndDate    *time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

type CatalogType string

const (
	CatalogIssue     CatalogType = "issue"
	CatalogTreatment CatalogType = "treatment"
)

// CatalogItem is a reusable dental issue or treatment name used by the
// findings and diagnosis forms.
type CatalogItem struct {
	ID        uuid.UUID
	Type      CatalogType
	Name      string
	Category  string
	IsCommon  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
