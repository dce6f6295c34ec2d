package clinic

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgRepository struct {
	pool *pgxpool.Pool
}

func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

// Helpers

func scanPatient(row pgx.Row) (*Patient, error) {
	var p Patient

	err := row.Scan(
		&p.ID,
		&p.FirstName,
		&p.LastName,
		&p.Email,
		&p.ContactNumber,
		&p.DateOfBirth,
		&p.Address,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPatientNotFound
		}
		return nil, err
	}

	return &p, nil
}

func scanDoctor(row pgx.Row) (*Doctor, error) {
	var d Doctor

	err := row.Scan(
		&d.ID,
		&d.FirstName,
		&d.LastName,
		&d.Email,
		&d.ContactNumber,
		&d.Specialization,
		&d.WorkingHours,
		&d.BreakHours,
		&d.CreatedAt,
		&d.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrDoctorNotFound
		}
		return nil, err
	}

	return &d, nil
}

func scanSettings(row pgx.Row) (*Settings, error) {
	var s Settings

	err := row.Scan(
		&s.ID,
		&s.SlotDuration,
		&s.BufferTime,
		&s.AdvanceBookingDays,
		&s.WorkingDays,
		&s.WorkingHoursStart,
		&s.WorkingHoursEnd,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSettingsNotFound
		}
		return nil, err
	}

	return &s, nil
}

func mapUniqueViolation(err error, mapped error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return mapped
	}
	return err
}

// Patients

func (r *PgRepository) CreatePatient(ctx context.Context, p Patient) (*Patient, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO patients (id, first_name, last_name, email, contact_number, date_of_birth, address, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, now(), now())
		RETURNING id, first_name, last_name, email, contact_number, date_of_birth, address, created_at, updated_at
	`, uuid.New(), p.FirstName, p.LastName, p.Email, p.ContactNumber, p.DateOfBirth, p.Address)

	created, err := scanPatient(row)
	if err != nil {
		return nil, mapUniqueViolation(err, ErrDuplicateEmail)
	}
	return created, nil
}

func (r *PgRepository) GetPatientByID(ctx context.Context, id uuid.UUID) (*Patient, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, first_name, last_name, email, contact_number, date_of_birth, address, created_at, updated_at
		FROM patients
		WHERE id = $1
	`, id)
	return scanPatient(row)
}

func (r *PgRepository) ListPatients(ctx context.Context, search string, limit, offset int) ([]Patient, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, first_name, last_name, email, contact_number, date_of_birth, address, created_at, updated_at
		FROM patients
		WHERE $1 = ''
		   OR first_name ILIKE '%' || $1 || '%'
		   OR last_name ILIKE '%' || $1 || '%'
		   OR contact_number ILIKE '%' || $1 || '%'
		ORDER BY last_name, first_name
		LIMIT $2 OFFSET $3
	`, search, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Patient
	for rows.Next() {
		p, err := scanPatient(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *p)
	}

	return result, rows.Err()
}

func (r *PgRepository) UpdatePatient(ctx context.Context, p Patient) (*Patient, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE patients
		SET first_name = $2,
		    last_name = $3,
		    email = $4,
		    contact_number = $5,
		    date_of_birth = $6,
		    address = $7,
		    updated_at = now()
		WHERE id = $1
		RETURNING id, first_name, last_name, email, contact_number, date_of_birth, address, created_at, updated_at
	`, p.ID, p.FirstName, p.LastName, p.Email, p.ContactNumber, p.DateOfBirth, p.Address)

	updated, err := scanPatient(row)
	if err != nil {
		return nil, mapUniqueViolation(err, ErrDuplicateEmail)
	}
	return updated, nil
}

func (r *PgRepository) DeletePatient(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM patients WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrPatientNotFound
	}
	return nil
}

// Doctors

func (r *PgRepository) CreateDoctor(ctx context.Context, d Doctor) (*Doctor, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO doctors (id, first_name, last_name, email, contact_number, specialization, working_hours, break_hours, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, now(), now())
		RETURNING id, first_name, last_name, email, contact_number, specialization, working_hours, break_hours, created_at, updated_at
	`, uuid.New(), d.FirstName, d.LastName, d.Email, d.ContactNumber, d.Specialization, d.WorkingHours, d.BreakHours)

	created, err := scanDoctor(row)
	if err != nil {
		return nil, mapUniqueViolation(err, ErrDuplicateEmail)
	}
	return created, nil
}

func (r *PgRepository) GetDoctorByID(ctx context.Context, id uuid.UUID) (*Doctor, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, first_name, last_name, email, contact_number, specialization, working_hours, break_hours, created_at, updated_at
		FROM doctors
		WHERE id = $1
	`, id)
	return scanDoctor(row)
}

func (r *PgRepository) ListDoctors(ctx context.Context, search string, limit, offset int) ([]Doctor, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, first_name, last_name, email, contact_number, specialization, working_hours, break_hours, created_at, updated_at
		FROM doctors
		WHERE $1 = ''
		   OR first_name ILIKE '%' || $1 || '%'
		   OR last_name ILIKE '%' || $1 || '%'
		   OR specialization ILIKE '%' || $1 || '%'
		ORDER BY last_name, first_name
		LIMIT $2 OFFSET $3
	`, search, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Doctor
	for rows.Next() {
		d, err := scanDoctor(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *d)
	}

	return result, rows.Err()
}

func (r *PgRepository) UpdateDoctor(ctx context.Context, d Doctor) (*Doctor, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE doctors
		SET first_name = $2,
		    last_name = $3,
		    email = $4,
		    contact_number = $5,
		    specialization = $6,
		    working_hours = $7,
		    break_hours = $8,
		    updated_at = now()
		WHERE id = $1
		RETURNING id, first_name, last_name, email, contact_number, specialization, working_hours, break_hours, created_at, updated_at
	`, d.ID, d.FirstName, d.LastName, d.Email, d.ContactNumber, d.Specialization, d.WorkingHours, d.BreakHours)

	updated, err := scanDoctor(row)
	if err != nil {
		return nil, mapUniqueViolation(err, ErrDuplicateEmail)
	}
	return updated, nil
}

func (r *PgRepository) DeleteDoctor(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM doctors WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrDoctorNotFound
	}
	return nil
}

// Settings

func (r *PgRepository) GetSettings(ctx context.Context) (*Settings, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, slot_duration, buffer_time, advance_booking_days, working_days, working_hours_start, working_hours_end, created_at, updated_at
		FROM appointment_settings
		ORDER BY created_at
		LIMIT 1
	`)
	return scanSettings(row)
}

func (r *PgRepository) CreateSettings(ctx context.Context, s Settings) (*Settings, error) {
	existing, err := r.GetSettings(ctx)
	if err != nil && !errors.Is(err, ErrSettingsNotFound) {
		return nil, fmt.Errorf("check existing settings: %w", err)
	}
	if existing != nil {
		return nil, ErrSettingsExist
	}

	row := r.pool.QueryRow(ctx, `
		INSERT INTO appointment_settings (id, slot_duration, buffer_time, advance_booking_days, working_days, working_hours_start, working_hours_end, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, now(), now())
		RETURNING id, slot_duration, buffer_time, advance_booking_days, working_days, working_hours_start, working_hours_end, created_at, updated_at
	`, uuid.New(), s.SlotDuration, s.BufferTime, s.AdvanceBookingDays, s.WorkingDays, s.WorkingHoursStart, s.WorkingHoursEnd)

	return scanSettings(row)
}

func (r *PgRepository) UpdateSettings(ctx context.Context, s Settings) (*Settings, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE appointment_settings
		SET slot_duration = $2,
		    buffer_time = $3,
		    advance_booking_days = $4,
		    working_days = $5,
		    working_hours_start = $6,
		    working_hours_end = $7,
		    updated_at = now()
		WHERE id = $1
		RETURNING id, slot_duration, buffer_time, advance_booking_days, working_days, working_hours_start, working_hours_end, created_at, updated_at
	`, s.ID, s.SlotDuration, s.BufferTime, s.AdvanceBookingDays, s.WorkingDays, s.WorkingHoursStart, s.WorkingHoursEnd)

	return scanSettings(row)
}
