package clinic

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/dentalos/clinic-backend/internal/scheduling"
)

type stubRepo struct {
	patients map[uuid.UUID]Patient
	doctors  map[uuid.UUID]Doctor
	settings *Settings
}

func newStubRepo() *stubRepo {
	return &stubRepo{
		patients: make(map[uuid.UUID]Patient),
		doctors:  make(map[uuid.UUID]Doctor),
	}
}

func (r *stubRepo) CreatePatient(ctx context.Context, p Patient) (*Patient, error) {
	p.ID = uuid.New()
	r.patients[p.ID] = p
	return &p, nil
}

func (r *stubRepo) GetPatientByID(ctx context.Context, id uuid.UUID) (*Patient, error) {
	p, ok := r.patients[id]
	if !ok {
		return nil, ErrPatientNotFound
	}
	return &p, nil
}

func (r *stubRepo) ListPatients(ctx context.Context, search string, limit, offset int) ([]Patient, error) {
	var out []Patient
	for _, p := range r.patients {
		out = append(out, p)
	}
	return out, nil
}

func (r *stubRepo) UpdatePatient(ctx context.Context, p Patient) (*Patient, error) {
	if _, ok := r.patients[p.ID]; !ok {
		return nil, ErrPatientNotFound
	}
	r.patients[p.ID] = p
	return &p, nil
}

func (r *stubRepo) DeletePatient(ctx context.Context, id uuid.UUID) error {
	if _, ok := r.patients[id]; !ok {
		return ErrPatientNotFound
	}
	delete(r.patients, id)
	return nil
}

func (r *stubRepo) CreateDoctor(ctx context.Context, d Doctor) (*Doctor, error) {
	d.ID = uuid.New()
	r.doctors[d.ID] = d
	return &d, nil
}

func (r *stubRepo) GetDoctorByID(ctx context.Context, id uuid.UUID) (*Doctor, error) {
	d, ok := r.doctors[id]
	if !ok {
		return nil, ErrDoctorNotFound
	}
	return &d, nil
}

func (r *stubRepo) ListDoctors(ctx context.Context, search string, limit, offset int) ([]Doctor, error) {
	var out []Doctor
	for _, d := range r.doctors {
		out = append(out, d)
	}
	return out, nil
}

func (r *stubRepo) UpdateDoctor(ctx context.Context, d Doctor) (*Doctor, error) {
	if _, ok := r.doctors[d.ID]; !ok {
		return nil, ErrDoctorNotFound
	}
	r.doctors[d.ID] = d
	return &d, nil
}

func (r *stubRepo) DeleteDoctor(ctx context.Context, id uuid.UUID) error {
	if _, ok := r.doctors[id]; !ok {
		return ErrDoctorNotFound
	}
	delete(r.doctors, id)
	return nil
}

func (r *stubRepo) GetSettings(ctx context.Context) (*Settings, error) {
	if r.settings == nil {
		return nil, ErrSettingsNotFound
	}
	s := *r.settings
	return &s, nil
}

func (r *stubRepo) CreateSettings(ctx context.Context, s Settings) (*Settings, error) {
	if r.settings != nil {
		return nil, ErrSettingsExist
	}
	s.ID = uuid.New()
	r.settings = &s
	return &s, nil
}

func (r *stubRepo) UpdateSettings(ctx context.Context, s Settings) (*Settings, error) {
	if r.settings == nil {
		return nil, ErrSettingsNotFound
	}
	r.settings = &s
	return &s, nil
}

func validSettings() Settings {
	return Settings{
		SlotDuration:       30,
		BufferTime:         10,
		AdvanceBookingDays: 14,
		WorkingDays:        []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday"},
		WorkingHoursStart:  "09:00",
		WorkingHoursEnd:    "17:00",
	}
}

func TestCreateSettingsRejectsInvalidCalendar(t *testing.T) {
	svc := NewService(newStubRepo(), zap.NewNop())

	bad := validSettings()
	bad.WorkingHoursStart = "17:00"
	bad.WorkingHoursEnd = "09:00"

	_, err := svc.CreateSettings(context.Background(), bad)
	assert.ErrorIs(t, err, scheduling.ErrInvalidCalendar)
}

func TestUpdateSettingsPartial(t *testing.T) {
	repo := newStubRepo()
	svc := NewService(repo, zap.NewNop())

	_, err := svc.CreateSettings(context.Background(), validSettings())
	require.NoError(t, err)

	slot := 45
	updated, err := svc.UpdateSettings(context.Background(), UpdateSettingsParams{SlotDuration: &slot})
	require.NoError(t, err)

	assert.Equal(t, 45, updated.SlotDuration)
	assert.Equal(t, 10, updated.BufferTime)
	assert.Equal(t, "09:00", updated.WorkingHoursStart)
}

func TestUpdateSettingsRejectsInvalidResult(t *testing.T) {
	repo := newStubRepo()
	svc := NewService(repo, zap.NewNop())

	_, err := svc.CreateSettings(context.Background(), validSettings())
	require.NoError(t, err)

	// A slot longer than the working window cannot be scheduled at all.
	slot := 600
	_, err = svc.UpdateSettings(context.Background(), UpdateSettingsParams{SlotDuration: &slot})
	assert.ErrorIs(t, err, scheduling.ErrInvalidCalendar)
}

func TestCreateDoctorRejectsBackwardsHours(t *testing.T) {
	svc := NewService(newStubRepo(), zap.NewNop())

	_, err := svc.CreateDoctor(context.Background(), Doctor{
		FirstName:      "Arun",
		LastName:       "Pillai",
		Email:          "arun@example.com",
		Specialization: "Orthodontics",
		WorkingHours: []DayHours{
			{Day: "Monday", StartTime: "15:00", EndTime: "09:00", IsWorking: true},
		},
	})
	assert.Error(t, err)
}

func TestUpdatePatientPartial(t *testing.T) {
	repo := newStubRepo()
	svc := NewService(repo, zap.NewNop())

	created, err := svc.CreatePatient(context.Background(), Patient{
		FirstName:     "Maya",
		LastName:      "Tan",
		ContactNumber: "555-0101",
		Address:       "12 Orchard Lane",
	})
	require.NoError(t, err)

	newNumber := "555-0202"
	updated, err := svc.UpdatePatient(context.Background(), created.ID, UpdatePatientParams{ContactNumber: &newNumber})
	require.NoError(t, err)

	assert.Equal(t, "555-0202", updated.ContactNumber)
	assert.Equal(t, "Maya", updated.FirstName)
	assert.Equal(t, "12 Orchard Lane", updated.Address)
}

func TestDoctorHoursFor(t *testing.T) {
	d := Doctor{
		WorkingHours: []DayHours{
			{Day: "monday", StartTime: "09:00", EndTime: "12:00", IsWorking: true},
			{Day: "Tuesday", StartTime: "09:00", EndTime: "17:00", IsWorking: false},
		},
		BreakHours: []BreakHours{
			{Day: "Monday", StartTime: "10:30", EndTime: "11:00"},
		},
	}

	hours, ok := d.HoursFor(time.Monday)
	require.True(t, ok)
	assert.Equal(t, "09:00", hours.Start)

	// Marked not working
	_, ok = d.HoursFor(time.Tuesday)
	assert.False(t, ok)

	breaks := d.BreaksFor(time.Monday)
	require.Len(t, breaks, 1)
	assert.Equal(t, "10:30", breaks[0].Start)
}
