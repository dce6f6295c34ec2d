package clinic

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var (
	ErrPatientNotFound  = errors.New("patient not found")
	ErrDoctorNotFound   = errors.New("doctor not found")
	ErrSettingsNotFound = errors.New("appointment settings not configured")
	ErrSettingsExist    = errors.New("appointment settings already exist")
	ErrDuplicateEmail   = errors.New("email already in use")
)

// Repository contains all DB interactions needed by the clinic services.
type Repository interface {
	CreatePatient(ctx context.Context, p Patient) (*Patient, error)
	GetPatientByID(ctx context.Context, id uuid.UUID) (*Patient, error)
	ListPatients(ctx context.Context, search string, limit, offset int) ([]Patient, error)
	UpdatePatient(ctx context.Context, p Patient) (*Patient, error)
	DeletePatient(ctx context.Context, id uuid.UUID) error

	CreateDoctor(ctx context.Context, d Doctor) (*Doctor, error)
	GetDoctorByID(ctx context.Context, id uuid.UUID) (*Doctor, error)
	ListDoctors(ctx context.Context, search string, limit, offset int) ([]Doctor, error)
	UpdateDoctor(ctx context.Context, d Doctor) (*Doctor, error)
	DeleteDoctor(ctx context.Context, id uuid.UUID) error

	// Settings is a singleton row.
	GetSettings(ctx context.Context) (*Settings, error)
	CreateSettings(ctx context.Context, s Settings) (*Settings, error)
	UpdateSettings(ctx context.Context, s Settings) (*Settings, error)
}
