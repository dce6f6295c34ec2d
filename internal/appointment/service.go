package appointment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	redisclient "github.com/dentalos/clinic-backend/internal/redis"
	"github.com/dentalos/clinic-backend/internal/scheduling"
)

const (
	EventAppointmentBooked      = "APPOINTMENT_BOOKED"
	EventAppointmentRescheduled = "APPOINTMENT_RESCHEDULED"
	EventAppointmentCancelled   = "APPOINTMENT_CANCELLED"
	EventAppointmentCompleted   = "APPOINTMENT_COMPLETED"
	EventAppointmentNoShow      = "APPOINTMENT_NO_SHOW"
)

var (
	ErrDoctorBusy              = errors.New("doctor calendar is currently being booked, please retry")
	ErrInvalidStatusTransition = errors.New("invalid status transition")
)

// RejectionError carries the scheduling decision for a rejected booking so
// the transport layer can map the reason code 1:1 onto the response.
type RejectionError struct {
	Decision scheduling.Decision
}

func (e *RejectionError) Error() string {
	return fmt.Sprintf("booking rejected: %s", e.Decision.Reason)
}

type Service struct {
	repo      Repository
	directory Directory
	calendars CalendarSource
	locker    redisclient.Locker
	logger    *zap.Logger

	noShowGrace time.Duration
	now         func() time.Time
}

func NewService(repo Repository, directory Directory, calendars CalendarSource, locker redisclient.Locker, logger *zap.Logger, noShowGrace time.Duration) *Service {
	return &Service{
		repo:        repo,
		directory:   directory,
		calendars:   calendars,
		locker:      locker,
		logger:      logger,
		noShowGrace: noShowGrace,
		now:         time.Now,
	}
}

// Book validates a booking request against the clinic calendar and the
// doctor's live appointments, then persists it. The conflict check and the
// insert run inside a per-doctor lock so two concurrent requests for the
// same doctor cannot both pass against a stale snapshot.
func (s *Service) Book(ctx context.Context, req scheduling.Request) (*Detail, error) {
	if _, err := s.directory.GetPatientByID(ctx, req.PatientID); err != nil {
		return nil, err
	}
	if _, err := s.directory.GetDoctorByID(ctx, req.DoctorID); err != nil {
		return nil, err
	}

	cal, err := s.calendars.Calendar(ctx)
	if err != nil {
		return nil, err
	}

	// Calendar-only checks fail fast without taking the lock.
	if reason := scheduling.ValidateSlot(req, cal, s.now()); reason != scheduling.ReasonOK {
		return nil, &RejectionError{Decision: scheduling.Decision{Reason: reason}}
	}

	var created *Appointment

	err = s.locker.WithDoctorLock(ctx, req.DoctorID, func(lockCtx context.Context) error {
		// Re-check inside the critical section against the live snapshot.
		existing, err := s.conflictCandidates(lockCtx, cal, req, uuid.Nil)
		if err != nil {
			return err
		}

		decision := scheduling.Schedule(req, cal, existing, s.now())
		if !decision.Accepted {
			return &RejectionError{Decision: decision}
		}

		created, err = s.repo.CreateAppointment(lockCtx, Appointment{
			PatientID: req.PatientID,
			DoctorID:  req.DoctorID,
			StartTime: req.Start,
			EndTime:   req.End,
			Reason:    req.Reason,
			Notes:     req.Notes,
		})
		if err != nil {
			return fmt.Errorf("create appointment: %w", err)
		}

		s.logEvent(lockCtx, created.ID, EventAppointmentBooked, map[string]any{
			"doctor_id":  req.DoctorID.String(),
			"patient_id": req.PatientID.String(),
			"start_time": req.Start,
			"end_time":   req.End,
		})
		return nil
	})

	if err != nil {
		if errors.Is(err, redisclient.ErrLockNotAcquired) {
			return nil, ErrDoctorBusy
		}
		return nil, err
	}

	s.logger.Info("appointment booked",
		zap.String("appointment_id", created.ID.String()),
		zap.String("doctor_id", req.DoctorID.String()),
		zap.Time("start_time", req.Start))

	return s.repo.GetAppointmentDetail(ctx, created.ID)
}

// UpdateParams is a partial appointment update. When either time changes the
// new interval runs through the full validation path with the appointment's
// own prior interval excluded from conflict detection.
type UpdateParams struct {
	StartTime *time.Time
	EndTime   *time.Time
	Reason    *string
	Notes     *string
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, params UpdateParams) (*Detail, error) {
	appt, err := s.repo.GetAppointmentByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if params.Reason != nil {
		appt.Reason = *params.Reason
	}
	if params.Notes != nil {
		appt.Notes = *params.Notes
	}

	if params.StartTime != nil || params.EndTime != nil {
		if appt.Status != StatusScheduled {
			return nil, ErrInvalidStatusTransition
		}
		start, end := appt.StartTime, appt.EndTime
		if params.StartTime != nil {
			start = *params.StartTime
		}
		if params.EndTime != nil {
			end = *params.EndTime
		}
		// moveInterval persists the whole record while the doctor lock is
		// still held.
		if err := s.moveInterval(ctx, appt, start, end, nil); err != nil {
			return nil, err
		}
	} else if _, err := s.repo.UpdateAppointment(ctx, *appt); err != nil {
		return nil, fmt.Errorf("update appointment: %w", err)
	}

	return s.repo.GetAppointmentDetail(ctx, id)
}

// Reschedule moves a scheduled appointment to a new interval. The
// appointment keeps its scheduled status; the previous interval is recorded
// in the event log.
func (s *Service) Reschedule(ctx context.Context, id uuid.UUID, newStart, newEnd time.Time, reason *string) (*Detail, error) {
	appt, err := s.repo.GetAppointmentByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if appt.Status != StatusScheduled {
		return nil, ErrInvalidStatusTransition
	}

	oldStart, oldEnd := appt.StartTime, appt.EndTime
	if reason != nil {
		appt.Reason = *reason
	}

	err = s.moveInterval(ctx, appt, newStart, newEnd, func(lockCtx context.Context) {
		s.logEvent(lockCtx, appt.ID, EventAppointmentRescheduled, map[string]any{
			"old_start_time": oldStart,
			"old_end_time":   oldEnd,
			"new_start_time": newStart,
			"new_end_time":   newEnd,
		})
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("appointment rescheduled",
		zap.String("appointment_id", appt.ID.String()),
		zap.Time("new_start_time", newStart))

	return s.repo.GetAppointmentDetail(ctx, id)
}

// moveInterval runs the scheduling check for an appointment's new interval
// under the doctor lock, excluding the appointment itself from the candidate
// set, and persists the record before the lock is released. A concurrent
// check must never pass against a snapshot that misses the moved interval.
// committed, when non-nil, runs after the persist while the lock is held.
func (s *Service) moveInterval(ctx context.Context, appt *Appointment, start, end time.Time, committed func(lockCtx context.Context)) error {
	cal, err := s.calendars.Calendar(ctx)
	if err != nil {
		return err
	}

	req := scheduling.Request{
		DoctorID:  appt.DoctorID,
		PatientID: appt.PatientID,
		Start:     start,
		End:       end,
		Reason:    appt.Reason,
	}

	if reason := scheduling.ValidateSlot(req, cal, s.now()); reason != scheduling.ReasonOK {
		return &RejectionError{Decision: scheduling.Decision{Reason: reason}}
	}

	err = s.locker.WithDoctorLock(ctx, appt.DoctorID, func(lockCtx context.Context) error {
		existing, err := s.conflictCandidates(lockCtx, cal, req, appt.ID)
		if err != nil {
			return err
		}

		decision := scheduling.Schedule(req, cal, existing, s.now())
		if !decision.Accepted {
			return &RejectionError{Decision: decision}
		}

		// Persist before releasing the lock so a concurrent check cannot
		// pass against a snapshot that misses the moved interval.
		appt.StartTime = start
		appt.EndTime = end
		if _, err := s.repo.UpdateAppointment(lockCtx, *appt); err != nil {
			return fmt.Errorf("update appointment: %w", err)
		}

		if committed != nil {
			committed(lockCtx)
		}
		return nil
	})

	if errors.Is(err, redisclient.ErrLockNotAcquired) {
		return ErrDoctorBusy
	}
	return err
}

func (s *Service) conflictCandidates(ctx context.Context, cal scheduling.CalendarConfig, req scheduling.Request, excludeID uuid.UUID) ([]scheduling.Existing, error) {
	// Widen by the buffer so intervals whose buffered expansion touches the
	// candidate are included.
	from := req.Start.Add(-cal.Buffer)
	to := req.End.Add(cal.Buffer)

	existing, err := s.repo.ListConflictCandidates(ctx, req.DoctorID, from, to, excludeID)
	if err != nil {
		return nil, fmt.Errorf("list conflict candidates: %w", err)
	}
	return existing, nil
}

// Cancel marks a scheduled appointment cancelled. Cancelled appointments no
// longer block the doctor's calendar.
func (s *Service) Cancel(ctx context.Context, id uuid.UUID, cancelledReason string) (*Detail, error) {
	if err := s.transition(ctx, id, StatusCancelled, &cancelledReason, EventAppointmentCancelled); err != nil {
		return nil, err
	}
	return s.repo.GetAppointmentDetail(ctx, id)
}

// Complete marks a scheduled appointment completed. Completed appointments
// still block their interval.
func (s *Service) Complete(ctx context.Context, id uuid.UUID) (*Detail, error) {
	if err := s.transition(ctx, id, StatusCompleted, nil, EventAppointmentCompleted); err != nil {
		return nil, err
	}
	return s.repo.GetAppointmentDetail(ctx, id)
}

func (s *Service) transition(ctx context.Context, id uuid.UUID, to Status, cancelledReason *string, event string) error {
	appt, err := s.repo.GetAppointmentByID(ctx, id)
	if err != nil {
		return err
	}
	if appt.Status != StatusScheduled {
		return ErrInvalidStatusTransition
	}

	updated, err := s.repo.UpdateAppointmentStatus(ctx, id, StatusScheduled, to, cancelledReason)
	if err != nil {
		return fmt.Errorf("update status to %s: %w", to, err)
	}

	payload := map[string]any{}
	if cancelledReason != nil {
		payload["cancelled_reason"] = *cancelledReason
	}
	s.logEvent(ctx, updated.ID, event, payload)

	s.logger.Info("appointment status changed",
		zap.String("appointment_id", id.String()),
		zap.String("status", string(to)))
	return nil
}

// MarkNoShows is called periodically by the worker. Scheduled appointments
// whose end time passed more than the grace period ago become no_show.
func (s *Service) MarkNoShows(ctx context.Context) (int, error) {
	cutoff := s.now().Add(-s.noShowGrace)
	overdue, err := s.repo.FindOverdueScheduled(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("find overdue scheduled appointments: %w", err)
	}

	marked := 0
	for _, appt := range overdue {
		_, err := s.repo.UpdateAppointmentStatus(ctx, appt.ID, StatusScheduled, StatusNoShow, nil)
		if err != nil {
			if errors.Is(err, ErrAppointmentNotFound) {
				continue
			}
			s.logger.Warn("failed to mark appointment no_show",
				zap.String("appointment_id", appt.ID.String()),
				zap.Error(err))
			continue
		}
		s.logEvent(ctx, appt.ID, EventAppointmentNoShow, map[string]any{
			"end_time": appt.EndTime,
		})
		marked++
	}

	return marked, nil
}

// AvailableSlots lists a doctor's free bookable windows on a date: the
// doctor's working window expanded into slots, minus breaks, clinic closing
// hours and already booked intervals.
func (s *Service) AvailableSlots(ctx context.Context, doctorID uuid.UUID, date time.Time) ([]scheduling.SlotWindow, error) {
	cal, err := s.calendars.Calendar(ctx)
	if err != nil {
		return nil, err
	}
	if !cal.IsWorkingDay(date) {
		return nil, nil
	}

	doctor, err := s.directory.GetDoctorByID(ctx, doctorID)
	if err != nil {
		return nil, err
	}

	hours, ok := doctor.HoursFor(date.Weekday())
	if !ok {
		return nil, nil
	}

	slots, err := scheduling.DaySlots(date, hours, doctor.BreaksFor(date.Weekday()), cal)
	if err != nil {
		return nil, fmt.Errorf("expand day slots: %w", err)
	}

	y, m, d := date.Date()
	dayStart := time.Date(y, m, d, 0, 0, 0, 0, date.Location())
	booked, err := s.repo.ListConflictCandidates(ctx, doctorID, dayStart.Add(-cal.Buffer), dayStart.AddDate(0, 0, 1).Add(cal.Buffer), uuid.Nil)
	if err != nil {
		return nil, fmt.Errorf("list booked intervals: %w", err)
	}

	free := make([]scheduling.SlotWindow, 0, len(slots))
	for _, slot := range slots {
		if !cal.WithinWorkingHours(slot.Start) || !cal.WithinWorkingHours(slot.End) {
			continue
		}
		probe := scheduling.Request{DoctorID: doctorID, Start: slot.Start, End: slot.End}
		if reason, _ := scheduling.FindConflict(probe, cal, booked); reason != scheduling.ReasonOK {
			continue
		}
		free = append(free, slot)
	}

	return free, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Detail, error) {
	detail, err := s.repo.GetAppointmentDetail(ctx, id)
	if err != nil {
		return nil, err
	}
	return detail, nil
}

func (s *Service) List(ctx context.Context, f Filter) ([]Detail, error) {
	if f.Limit <= 0 {
		f.Limit = 20 // default
	}
	if f.Limit > 100 {
		f.Limit = 100 // max
	}
	if f.Offset < 0 {
		f.Offset = 0
	}

	appointments, err := s.repo.ListAppointments(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("list appointments: %w", err)
	}
	return appointments, nil
}

func (s *Service) logEvent(ctx context.Context, appointmentID uuid.UUID, eventType string, payload map[string]any) {
	data, err := json.Marshal(payload)
	if err != nil {
		s.logger.Warn("failed to marshal event payload",
			zap.String("event_type", eventType),
			zap.Error(err))
		data = nil
	}

	apptID := appointmentID

	ev := EventLog{
		EventType:     eventType,
		AppointmentID: &apptID,
		Payload:       data,
		CreatedAt:     s.now(),
	}

	if err := s.repo.InsertEvent(ctx, ev); err != nil {
		s.logger.Warn("failed to insert event log",
			zap.String("event_type", eventType),
			zap.String("appointment_id", appointmentID.String()),
			zap.Error(err))
	}
}
