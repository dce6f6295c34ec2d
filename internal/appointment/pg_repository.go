package appointment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dentalos/clinic-backend/internal/scheduling"
)

type PgRepository struct {
	pool *pgxpool.Pool
}

func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

const appointmentColumns = `id, patient_id, doctor_id, start_time, end_time, reason, notes, status, cancelled_reason, created_at, updated_at`

// Helpers

func scanAppointment(row pgx.Row) (*Appointment, error) {
	var a Appointment

	err := row.Scan(
		&a.ID,
		&a.PatientID,
		&a.DoctorID,
		&a.StartTime,
		&a.EndTime,
		&a.Reason,
		&a.Notes,
		&a.Status,
		&a.CancelledReason,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAppointmentNotFound
		}
		return nil, err
	}

	return &a, nil
}

func scanDetail(row pgx.Row) (*Detail, error) {
	var d Detail
	var patient, doctor Participant

	err := row.Scan(
		&d.ID,
		&d.PatientID,
		&d.DoctorID,
		&d.StartTime,
		&d.EndTime,
		&d.Reason,
		&d.Notes,
		&d.Status,
		&d.CancelledReason,
		&d.CreatedAt,
		&d.UpdatedAt,
		&patient.FirstName,
		&patient.LastName,
		&doctor.FirstName,
		&doctor.LastName,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAppointmentNotFound
		}
		return nil, err
	}

	patient.ID = d.PatientID
	doctor.ID = d.DoctorID
	d.Patient = &patient
	d.Doctor = &doctor
	return &d, nil
}

const detailQuery = `
	SELECT a.id, a.patient_id, a.doctor_id, a.start_time, a.end_time, a.reason, a.notes, a.status, a.cancelled_reason, a.created_at, a.updated_at,
	       p.first_name, p.last_name,
	       d.first_name, d.last_name
	FROM appointments a
	JOIN patients p ON p.id = a.patient_id
	JOIN doctors d ON d.id = a.doctor_id
`

// Interface methods

func (r *PgRepository) CreateAppointment(ctx context.Context, a Appointment) (*Appointment, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO appointments (id, patient_id, doctor_id, start_time, end_time, reason, notes, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, 'scheduled', now(), now())
		RETURNING `+appointmentColumns+`
	`, uuid.New(), a.PatientID, a.DoctorID, a.StartTime, a.EndTime, a.Reason, a.Notes)

	return scanAppointment(row)
}

func (r *PgRepository) GetAppointmentByID(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+appointmentColumns+`
		FROM appointments
		WHERE id = $1
	`, id)
	return scanAppointment(row)
}

func (r *PgRepository) GetAppointmentDetail(ctx context.Context, id uuid.UUID) (*Detail, error) {
	row := r.pool.QueryRow(ctx, detailQuery+` WHERE a.id = $1`, id)
	return scanDetail(row)
}

func (r *PgRepository) ListAppointments(ctx context.Context, f Filter) ([]Detail, error) {
	rows, err := r.pool.Query(ctx, detailQuery+`
		WHERE ($1::uuid IS NULL OR a.doctor_id = $1)
		  AND ($2::uuid IS NULL OR a.patient_id = $2)
		  AND ($3::text IS NULL OR a.status = $3)
		  AND ($4::timestamptz IS NULL OR a.start_time >= $4)
		  AND ($5::timestamptz IS NULL OR a.start_time < $5)
		ORDER BY a.start_time
		LIMIT $6 OFFSET $7
	`, f.DoctorID, f.PatientID, f.Status, f.From, f.To, f.Limit, f.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Detail
	for rows.Next() {
		d, err := scanDetail(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *d)
	}

	return result, rows.Err()
}

func (r *PgRepository) UpdateAppointment(ctx context.Context, a Appointment) (*Appointment, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE appointments
		SET start_time = $2,
		    end_time = $3,
		    reason = $4,
		    notes = $5,
		    updated_at = now()
		WHERE id = $1
		RETURNING `+appointmentColumns+`
	`, a.ID, a.StartTime, a.EndTime, a.Reason, a.Notes)

	return scanAppointment(row)
}

func (r *PgRepository) UpdateAppointmentStatus(ctx context.Context, id uuid.UUID, from, to Status, cancelledReason *string) (*Appointment, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE appointments
		SET status = $2,
		    cancelled_reason = COALESCE($4, cancelled_reason),
		    updated_at = now()
		WHERE id = $1
		  AND status = $3
		RETURNING `+appointmentColumns+`
	`, id, to, from, cancelledReason)

	return scanAppointment(row)
}

func (r *PgRepository) ListConflictCandidates(ctx context.Context, doctorID uuid.UUID, from, to time.Time, excludeID uuid.UUID) ([]scheduling.Existing, error) {
	var exclude *uuid.UUID
	if excludeID != uuid.Nil {
		exclude = &excludeID
	}

	rows, err := r.pool.Query(ctx, `
		SELECT id, start_time, end_time
		FROM appointments
		WHERE doctor_id = $1
		  AND status IN ('scheduled', 'completed')
		  AND start_time < $3
		  AND end_time > $2
		  AND ($4::uuid IS NULL OR id <> $4)
		ORDER BY start_time
	`, doctorID, from, to, exclude)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []scheduling.Existing
	for rows.Next() {
		var e scheduling.Existing
		if err := rows.Scan(&e.ID, &e.Start, &e.End); err != nil {
			return nil, err
		}
		result = append(result, e)
	}

	return result, rows.Err()
}

func (r *PgRepository) FindOverdueScheduled(ctx context.Context, before time.Time) ([]Appointment, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+appointmentColumns+`
		FROM appointments
		WHERE status = 'scheduled'
		  AND end_time < $1
	`, before)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Appointment
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *a)
	}

	return result, rows.Err()
}

func (r *PgRepository) InsertEvent(ctx context.Context, ev EventLog) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO event_logs (event_type, appointment_id, payload, created_at)
		VALUES ($1, $2, $3, COALESCE($4, now()))
	`, ev.EventType, ev.AppointmentID, ev.Payload, nullableTime(ev.CreatedAt))
	if err != nil {
		return fmt.Errorf("insert event log: %w", err)
	}

	return nil
}

func nullableTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
