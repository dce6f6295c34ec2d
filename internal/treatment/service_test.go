package treatment

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/dentalos/clinic-backend/internal/clinic"
)

type stubRepo struct {
	treatments    map[uuid.UUID]Treatment
	prescriptions []Prescription
	plans         map[uuid.UUID]Plan
	catalog       []CatalogItem
}

func newStubRepo() *stubRepo {
	return &stubRepo{
		treatments: make(map[uuid.UUID]Treatment),
		plans:      make(map[uuid.UUID]Plan),
	}
}

func (r *stubRepo) CreateTreatment(ctx context.Context, t Treatment) (*Treatment, error) {
	t.ID = uuid.New()
	r.treatments[t.ID] = t
	return &t, nil
}

func (r *stubRepo) GetTreatmentByID(ctx context.Context, id uuid.UUID) (*Treatment, error) {
	t, ok := r.treatments[id]
	if !ok {
		return nil, ErrTreatmentNotFound
	}
	return &t, nil
}

func (r *stubRepo) ListTreatmentsByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]Treatment, error) {
	var out []Treatment
	for _, t := range r.treatments {
		if t.PatientID == patientID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (r *stubRepo) CreatePrescription(ctx context.Context, p Prescription) (*Prescription, error) {
	p.ID = uuid.New()
	r.prescriptions = append(r.prescriptions, p)
	return &p, nil
}

func (r *stubRepo) ListPrescriptionsByTreatment(ctx context.Context, treatmentID uuid.UUID) ([]Prescription, error) {
	var out []Prescription
	for _, p := range r.prescriptions {
		if p.TreatmentID == treatmentID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *stubRepo) CreatePlan(ctx context.Context, p Plan) (*Plan, error) {
	p.ID = uuid.New()
	r.plans[p.ID] = p
	return &p, nil
}

func (r *stubRepo) GetPlanByID(ctx context.Context, id uuid.UUID) (*Plan, error) {
	p, ok := r.plans[id]
	if !ok {
		return nil, ErrPlanNotFound
	}
	return &p, nil
}

func (r *stubRepo) ListPlansByPatient(ctx context.Context, patientID uuid.UUID) ([]Plan, error) {
	var out []Plan
	for _, p := range r.plans {
		if p.PatientID == patientID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *stubRepo) CreateCatalogItem(ctx context.Context, item CatalogItem) (*CatalogItem, error) {
	item.ID = uuid.New()
	r.catalog = append(r.catalog, item)
	return &item, nil
}

func (r *stubRepo) ListCatalog(ctx context.Context, itemType CatalogType, category string) ([]CatalogItem, error) {
	var out []CatalogItem
	for _, item := range r.catalog {
		if itemType != "" && item.Type != itemType {
			continue
		}
		if category != "" && item.Category != category {
			continue
		}
		out = append(out, item)
	}
	return out, nil
}

type stubDirectory struct {
	patient *clinic.Patient
	doctor  *clinic.Doctor
}

func (d *stubDirectory) GetPatientByID(ctx context.Context, id uuid.UUID) (*clinic.Patient, error) {
	if d.patient == nil || d.patient.ID != id {
		return nil, clinic.ErrPatientNotFound
	}
	return d.patient, nil
}

func (d *stubDirectory) GetDoctorByID(ctx context.Context, id uuid.UUID) (*clinic.Doctor, error) {
	if d.doctor == nil || d.doctor.ID != id {
		return nil, clinic.ErrDoctorNotFound
	}
	return d.doctor, nil
}

func newTestService(t *testing.T) (*Service, *stubRepo, *clinic.Patient, *clinic.Doctor) {
	t.Helper()

	patient := &clinic.Patient{ID: uuid.New(), FirstName: "Maya", LastName: "Tan"}
	doctor := &clinic.Doctor{ID: uuid.New(), FirstName: "Arun", LastName: "Pillai"}

	repo := newStubRepo()
	svc := NewService(repo, &stubDirectory{patient: patient, doctor: doctor}, zap.NewNop())
	return svc, repo, patient, doctor
}

func TestCreateTreatmentDefaultsDate(t *testing.T) {
	svc, _, patient, doctor := newTestService(t)

	created, err := svc.CreateTreatment(context.Background(), Treatment{
		PatientID:      patient.ID,
		DoctorID:       doctor.ID,
		ChiefComplaint: "toothache upper left",
		TeethInvolved:  []string{"26", "27"},
	})
	require.NoError(t, err)
	assert.False(t, created.Date.IsZero())
	assert.Equal(t, "toothache upper left", created.ChiefComplaint)
}

func TestCreateTreatmentUnknownPatient(t *testing.T) {
	svc, _, _, doctor := newTestService(t)

	_, err := svc.CreateTreatment(context.Background(), Treatment{
		PatientID:      uuid.New(),
		DoctorID:       doctor.ID,
		ChiefComplaint: "checkup",
	})
	assert.ErrorIs(t, err, clinic.ErrPatientNotFound)
}

func TestAddPrescriptionRequiresTreatment(t *testing.T) {
	svc, _, _, _ := newTestService(t)

	_, err := svc.AddPrescription(context.Background(), Prescription{
		TreatmentID: uuid.New(),
		Medications: []Medication{{Name: "Amoxicillin", Dosage: "500mg"}},
	})
	assert.ErrorIs(t, err, ErrTreatmentNotFound)
}

func TestAddPrescriptionAndList(t *testing.T) {
	svc, _, patient, doctor := newTestService(t)

	created, err := svc.CreateTreatment(context.Background(), Treatment{
		PatientID:      patient.ID,
		DoctorID:       doctor.ID,
		ChiefComplaint: "abscess",
	})
	require.NoError(t, err)

	_, err = svc.AddPrescription(context.Background(), Prescription{
		TreatmentID: created.ID,
		Medications: []Medication{
			{Name: "Amoxicillin", Dosage: "500mg", Frequency: "3x daily", Duration: "5 days"},
		},
	})
	require.NoError(t, err)

	listed, err := svc.ListPrescriptions(context.Background(), created.ID)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, "Amoxicillin", listed[0].Medications[0].Name)
}

func TestCreatePlanRejectsBackwardsDates(t *testing.T) {
	svc, _, patient, _ := newTestService(t)

	start := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, -7)

	_, err := svc.CreatePlan(context.Background(), Plan{
		PatientID:  patient.ID,
		Procedures: []Procedure{{Description: "Crown", Status: ProcedurePlanned, Priority: PriorityHigh}},
		StartDate:  start,
		EndDate:    &end,
	})
	assert.ErrorIs(t, err, ErrInvalidPlanDates)
}

func TestListCatalogFiltersByType(t *testing.T) {
	svc, _, _, _ := newTestService(t)

	ctx := context.Background()
	_, err := svc.CreateCatalogItem(ctx, CatalogItem{Type: CatalogIssue, Name: "Cavity", Category: "Restorative", IsCommon: true})
	require.NoError(t, err)
	_, err = svc.CreateCatalogItem(ctx, CatalogItem{Type: CatalogTreatment, Name: "Composite Filling", Category: "Restorative"})
	require.NoError(t, err)

	issues, err := svc.ListCatalog(ctx, CatalogIssue, "")
	require.NoError(t, err)
	require.Len(t, issues, 1)
	assert.Equal(t, "Cavity", issues[0].Name)
}
