package clinic

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dentalos/clinic-backend/internal/scheduling"
)

type Service struct {
	repo   Repository
	logger *zap.Logger
}

func NewService(repo Repository, logger *zap.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

// Patients

func (s *Service) CreatePatient(ctx context.Context, p Patient) (*Patient, error) {
	created, err := s.repo.CreatePatient(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("create patient: %w", err)
	}
	s.logger.Info("patient created", zap.String("patient_id", created.ID.String()))
	return created, nil
}

func (s *Service) GetPatient(ctx context.Context, id uuid.UUID) (*Patient, error) {
	return s.repo.GetPatientByID(ctx, id)
}

func (s *Service) ListPatients(ctx context.Context, search string, limit, offset int) ([]Patient, error) {
	limit, offset = clampPage(limit, offset)
	return s.repo.ListPatients(ctx, search, limit, offset)
}

// UpdatePatientParams carries a partial update; nil fields keep their value.
type UpdatePatientParams struct {
	FirstName     *string
	LastName      *string
	Email         *string
	ContactNumber *string
	DateOfBirth   *time.Time
	Address       *string
}

func (s *Service) UpdatePatient(ctx context.Context, id uuid.UUID, params UpdatePatientParams) (*Patient, error) {
	p, err := s.repo.GetPatientByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if params.FirstName != nil {
		p.FirstName = *params.FirstName
	}
	if params.LastName != nil {
		p.LastName = *params.LastName
	}
	if params.Email != nil {
		p.Email = params.Email
	}
	if params.ContactNumber != nil {
		p.ContactNumber = *params.ContactNumber
	}
	if params.DateOfBirth != nil {
		p.DateOfBirth = params.DateOfBirth
	}
	if params.Address != nil {
		p.Address = *params.Address
	}

	return s.repo.UpdatePatient(ctx, *p)
}

func (s *Service) DeletePatient(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.DeletePatient(ctx, id); err != nil {
		return err
	}
	s.logger.Info("patient deleted", zap.String("patient_id", id.String()))
	return nil
}

// Doctors

func (s *Service) CreateDoctor(ctx context.Context, d Doctor) (*Doctor, error) {
	if err := validateWeeklyHours(d.WorkingHours, d.BreakHours); err != nil {
		return nil, err
	}
	created, err := s.repo.CreateDoctor(ctx, d)
	if err != nil {
		return nil, fmt.Errorf("create doctor: %w", err)
	}
	s.logger.Info("doctor created",
		zap.String("doctor_id", created.ID.String()),
		zap.String("specialization", created.Specialization))
	return created, nil
}

func (s *Service) GetDoctor(ctx context.Context, id uuid.UUID) (*Doctor, error) {
	return s.repo.GetDoctorByID(ctx, id)
}

func (s *Service) ListDoctors(ctx context.Context, search string, limit, offset int) ([]Doctor, error) {
	limit, offset = clampPage(limit, offset)
	return s.repo.ListDoctors(ctx, search, limit, offset)
}

// UpdateDoctorParams carries a partial update; nil fields keep their value.
type UpdateDoctorParams struct {
	FirstName      *string
	LastName       *string
	Email          *string
	ContactNumber  *string
	Specialization *string
	WorkingHours   *[]DayHours
	BreakHours     *[]BreakHours
}

func (s *Service) UpdateDoctor(ctx context.Context, id uuid.UUID, params UpdateDoctorParams) (*Doctor, error) {
	d, err := s.repo.GetDoctorByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if params.FirstName != nil {
		d.FirstName = *params.FirstName
	}
	if params.LastName != nil {
		d.LastName = *params.LastName
	}
	if params.Email != nil {
		d.Email = *params.Email
	}
	if params.ContactNumber != nil {
		d.ContactNumber = *params.ContactNumber
	}
	if params.Specialization != nil {
		d.Specialization = *params.Specialization
	}
	if params.WorkingHours != nil {
		d.WorkingHours = *params.WorkingHours
	}
	if params.BreakHours != nil {
		d.BreakHours = *params.BreakHours
	}

	if err := validateWeeklyHours(d.WorkingHours, d.BreakHours); err != nil {
		return nil, err
	}

	return s.repo.UpdateDoctor(ctx, *d)
}

func (s *Service) DeleteDoctor(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.DeleteDoctor(ctx, id); err != nil {
		return err
	}
	s.logger.Info("doctor deleted", zap.String("doctor_id", id.String()))
	return nil
}

func validateWeeklyHours(hours []DayHours, breaks []BreakHours) error {
	for _, wh := range hours {
		start, err := scheduling.ParseClock(wh.StartTime)
		if err != nil {
			return fmt.Errorf("working hours for %s: %w", wh.Day, err)
		}
		end, err := scheduling.ParseClock(wh.EndTime)
		if err != nil {
			return fmt.Errorf("working hours for %s: %w", wh.Day, err)
		}
		if wh.IsWorking && start >= end {
			return fmt.Errorf("working hours for %s: start %s is not before end %s", wh.Day, wh.StartTime, wh.EndTime)
		}
	}
	for _, bh := range breaks {
		if _, err := scheduling.ParseClock(bh.StartTime); err != nil {
			return fmt.Errorf("break hours for %s: %w", bh.Day, err)
		}
		if _, err := scheduling.ParseClock(bh.EndTime); err != nil {
			return fmt.Errorf("break hours for %s: %w", bh.Day, err)
		}
	}
	return nil
}

// Settings

func (s *Service) GetSettings(ctx context.Context) (*Settings, error) {
	return s.repo.GetSettings(ctx)
}

func (s *Service) CreateSettings(ctx context.Context, settings Settings) (*Settings, error) {
	// Reject settings the rule engine would refuse before persisting them.
	if _, err := settings.Calendar(); err != nil {
		return nil, err
	}
	created, err := s.repo.CreateSettings(ctx, settings)
	if err != nil {
		return nil, err
	}
	s.logger.Info("appointment settings created", zap.Int("slot_duration", created.SlotDuration))
	return created, nil
}

// UpdateSettingsParams carries a partial update; nil fields keep their value.
type UpdateSettingsParams struct {
	SlotDuration       *int
	BufferTime         *int
	AdvanceBookingDays *int
	WorkingDays        *[]string
	WorkingHoursStart  *string
	WorkingHoursEnd    *string
}

func (s *Service) UpdateSettings(ctx context.Context, params UpdateSettingsParams) (*Settings, error) {
	settings, err := s.repo.GetSettings(ctx)
	if err != nil {
		return nil, err
	}

	if params.SlotDuration != nil {
		settings.SlotDuration = *params.SlotDuration
	}
	if params.BufferTime != nil {
		settings.BufferTime = *params.BufferTime
	}
	if params.AdvanceBookingDays != nil {
		settings.AdvanceBookingDays = *params.AdvanceBookingDays
	}
	if params.WorkingDays != nil {
		settings.WorkingDays = *params.WorkingDays
	}
	if params.WorkingHoursStart != nil {
		settings.WorkingHoursStart = *params.WorkingHoursStart
	}
	if params.WorkingHoursEnd != nil {
		settings.WorkingHoursEnd = *params.WorkingHoursEnd
	}

	if _, err := settings.Calendar(); err != nil {
		return nil, err
	}

	updated, err := s.repo.UpdateSettings(ctx, *settings)
	if err != nil {
		return nil, err
	}
	s.logger.Info("appointment settings updated", zap.Int("slot_duration", updated.SlotDuration))
	return updated, nil
}

// Calendar loads the persisted settings and builds the rule engine's calendar
// value. ErrSettingsNotFound and scheduling.ErrInvalidCalendar both prevent
// any booking from proceeding.
func (s *Service) Calendar(ctx context.Context) (scheduling.CalendarConfig, error) {
	settings, err := s.repo.GetSettings(ctx)
	if err != nil {
		return scheduling.CalendarConfig{}, err
	}
	return settings.Calendar()
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
