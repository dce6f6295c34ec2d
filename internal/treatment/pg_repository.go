package treatment

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgRepository struct {
	pool *pgxpool.Pool
}

func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

// Helpers

func scanTreatment(row pgx.Row) (*Treatment, error) {
	var t Treatment

	err := row.Scan(
		&t.ID,
		&t.PatientID,
		&t.DoctorID,
		&t.Date,
		&t.ChiefComplaint,
		&t.Diagnosis,
		&t.ClinicalFindings,
		&t.TreatmentNotes,
		&t.TeethInvolved,
		&t.Attachments,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTreatmentNotFound
		}
		return nil, err
	}

	return &t, nil
}

func scanPlan(row pgx.Row) (*Plan, error) {
	var p Plan

	err := row.Scan(
		&p.ID,
		&p.PatientID,
		&p.Procedures,
		&p.StartDate,
		&p.EndDate,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPlanNotFound
		}
		return nil, err
	}

	return &p, nil
}

// Treatments

func (r *PgRepository) CreateTreatment(ctx context.Context, t Treatment) (*Treatment, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO treatments (id, patient_id, doctor_id, date, chief_complaint, diagnosis, clinical_findings, treatment_notes, teeth_involved, attachments, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, now(), now())
		RETURNING id, patient_id, doctor_id, date, chief_complaint, diagnosis, clinical_findings, treatment_notes, teeth_involved, attachments, created_at, updated_at
	`, uuid.New(), t.PatientID, t.DoctorID, t.Date, t.ChiefComplaint, t.Diagnosis, t.ClinicalFindings, t.TreatmentNotes, t.TeethInvolved, t.Attachments)

	return scanTreatment(row)
}

func (r *PgRepository) GetTreatmentByID(ctx context.Context, id uuid.UUID) (*Treatment, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, patient_id, doctor_id, date, chief_complaint, diagnosis, clinical_findings, treatment_notes, teeth_involved, attachments, created_at, updated_at
		FROM treatments
		WHERE id = $1
	`, id)
	return scanTreatment(row)
}

func (r *PgRepository) ListTreatmentsByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]Treatment, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, patient_id, doctor_id, date, chief_complaint, diagnosis, clinical_findings, treatment_notes, teeth_involved, attachments, created_at, updated_at
		FROM treatments
		WHERE patient_id = $1
		ORDER BY date DESC
		LIMIT $2 OFFSET $3
	`, patientID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Treatment
	for rows.Next() {
		t, err := scanTreatment(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *t)
	}

	return result, rows.Err()
}

// Prescriptions

func (r *PgRepository) CreatePrescription(ctx context.Context, p Prescription) (*Prescription, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO prescriptions (id, treatment_id, medications, date, created_at)
		VALUES ($1, $2, $3, $4, now())
		RETURNING id, treatment_id, medications, date, created_at
	`, uuid.New(), p.TreatmentID, p.Medications, p.Date)

	var created Prescription
	err := row.Scan(&created.ID, &created.TreatmentID, &created.Medications, &created.Date, &created.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &created, nil
}

func (r *PgRepository) ListPrescriptionsByTreatment(ctx context.Context, treatmentID uuid.UUID) ([]Prescription, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, treatment_id, medications, date, created_at
		FROM prescriptions
		WHERE treatment_id = $1
		ORDER BY date DESC
	`, treatmentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Prescription
	for rows.Next() {
		var p Prescription
		if err := rows.Scan(&p.ID, &p.TreatmentID, &p.Medications, &p.Date, &p.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, p)
	}

	return result, rows.Err()
}

// Treatment plans

func (r *PgRepository) CreatePlan(ctx context.Context, p Plan) (*Plan, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO treatment_plans (id, patient_id, procedures, start_date, end_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, now(), now())
		RETURNING id, patient_id, procedures, start_date, end_date, created_at, updated_at
	`, uuid.New(), p.PatientID, p.Procedures, p.StartDate, p.EndDate)

	return scanPlan(row)
}

func (r *PgRepository) GetPlanByID(ctx context.Context, id uuid.UUID) (*Plan, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, patient_id, procedures, start_date, end_date, created_at, updated_at
		FROM treatment_plans
		WHERE id = $1
	`, id)
	return scanPlan(row)
}

func (r *PgRepository) ListPlansByPatient(ctx context.Context, patientID uuid.UUID) ([]Plan, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, patient_id, procedures, start_date, end_date, created_at, updated_at
		FROM treatment_plans
		WHERE patient_id = $1
		ORDER BY start_date DESC
	`, patientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Plan
	for rows.Next() {
		p, err := scanPlan(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *p)
	}

	return result, rows.Err()
}

// Dental catalog

func (r *PgRepository) CreateCatalogItem(ctx context.Context, item CatalogItem) (*CatalogItem, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO dental_catalog (id, type, name, category, is_common, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, now(), now())
		RETURNING id, type, name, category, is_common, created_at, updated_at
	`, uuid.New(), item.Type, item.Name, item.Category, item.IsCommon)

	var created CatalogItem
	err := row.Scan(&created.ID, &created.Type, &created.Name, &created.Category, &created.IsCommon, &created.CreatedAt, &created.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &created, nil
}

func (r *PgRepository) ListCatalog(ctx context.Context, itemType CatalogType, category string) ([]CatalogItem, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, type, name, category, is_common, created_at, updated_at
		FROM dental_catalog
		WHERE ($1 = '' OR type = $1)
		  AND ($2 = '' OR category = $2)
		ORDER BY category, name
	`, string(itemType), category)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []CatalogItem
	for rows.Next() {
		var item CatalogItem
		if err := rows.Scan(&item.ID, &item.Type, &item.Name, &item.Category, &item.IsCommon, &item.CreatedAt, &item.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, item)
	}

	return result, rows.Err()
}
