package appointment

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/dentalos/clinic-backend/internal/clinic"
	redisclient "github.com/dentalos/clinic-backend/internal/redis"
	"github.com/dentalos/clinic-backend/internal/scheduling"
)

// 2025-03-03 is a Monday.
var (
	testMonday = time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC)
	testNow    = testMonday.Add(8 * time.Hour)
)

func clock(base time.Time, clockStr string, t *testing.T) time.Time {
	t.Helper()
	m, err := scheduling.ParseClock(clockStr)
	require.NoError(t, err)
	return base.Add(time.Duration(m) * time.Minute)
}

type stubRepo struct {
	appts  map[uuid.UUID]*Appointment
	events []EventLog

	// lock state observed at each create/update, in call order
	locker       *stubLocker
	persistsHeld []bool
}

func (r *stubRepo) recordLockState() {
	if r.locker != nil {
		r.persistsHeld = append(r.persistsHeld, r.locker.held)
	}
}

func newStubRepo() *stubRepo {
	return &stubRepo{appts: make(map[uuid.UUID]*Appointment)}
}

func (r *stubRepo) CreateAppointment(ctx context.Context, a Appointment) (*Appointment, error) {
	r.recordLockState()
	a.ID = uuid.New()
	a.Status = StatusScheduled
	r.appts[a.ID] = &a
	return &a, nil
}

func (r *stubRepo) GetAppointmentByID(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	a, ok := r.appts[id]
	if !ok {
		return nil, ErrAppointmentNotFound
	}
	copied := *a
	return &copied, nil
}

func (r *stubRepo) GetAppointmentDetail(ctx context.Context, id uuid.UUID) (*Detail, error) {
	a, ok := r.appts[id]
	if !ok {
		return nil, ErrAppointmentNotFound
	}
	return &Detail{
		Appointment: *a,
		Patient:     &Participant{ID: a.PatientID, FirstName: "Pat", LastName: "Ient"},
		Doctor:      &Participant{ID: a.DoctorID, FirstName: "Doc", LastName: "Tor"},
	}, nil
}

func (r *stubRepo) ListAppointments(ctx context.Context, f Filter) ([]Detail, error) {
	var out []Detail
	for id := range r.appts {
		d, _ := r.GetAppointmentDetail(ctx, id)
		out = append(out, *d)
	}
	return out, nil
}

func (r *stubRepo) UpdateAppointment(ctx context.Context, a Appointment) (*Appointment, error) {
	r.recordLockState()
	if _, ok := r.appts[a.ID]; !ok {
		return nil, ErrAppointmentNotFound
	}
	r.appts[a.ID] = &a
	return &a, nil
}

func (r *stubRepo) UpdateAppointmentStatus(ctx context.Context, id uuid.UUID, from, to Status, cancelledReason *string) (*Appointment, error) {
	a, ok := r.appts[id]
	if !ok || a.Status != from {
		return nil, ErrAppointmentNotFound
	}
	a.Status = to
	if cancelledReason != nil {
		a.CancelledReason = cancelledReason
	}
	copied := *a
	return &copied, nil
}

func (r *stubRepo) ListConflictCandidates(ctx context.Context, doctorID uuid.UUID, from, to time.Time, excludeID uuid.UUID) ([]scheduling.Existing, error) {
	var out []scheduling.Existing
	for _, a := range r.appts {
		if a.DoctorID != doctorID || a.ID == excludeID {
			continue
		}
		if a.Status != StatusScheduled && a.Status != StatusCompleted {
			continue
		}
		if a.StartTime.Before(to) && a.EndTime.After(from) {
			out = append(out, scheduling.Existing{ID: a.ID, Start: a.StartTime, End: a.EndTime})
		}
	}
	return out, nil
}

func (r *stubRepo) FindOverdueScheduled(ctx context.Context, before time.Time) ([]Appointment, error) {
	var out []Appointment
	for _, a := range r.appts {
		if a.Status == StatusScheduled && a.EndTime.Before(before) {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (r *stubRepo) InsertEvent(ctx context.Context, ev EventLog) error {
	r.events = append(r.events, ev)
	return nil
}

func (r *stubRepo) eventTypes() []string {
	out := make([]string, 0, len(r.events))
	for _, ev := range r.events {
		out = append(out, ev.EventType)
	}
	return out
}

type stubDirectory struct {
	doctor  *clinic.Doctor
	patient *clinic.Patient
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

type stubCalendars struct {
	cal scheduling.CalendarConfig
	err error
}

func (c *stubCalendars) Calendar(ctx context.Context) (scheduling.CalendarConfig, error) {
	return c.cal, c.err
}

type stubLocker struct {
	busy  bool
	calls int
	held  bool
}

func (l *stubLocker) WithDoctorLock(ctx context.Context, doctorID uuid.UUID, fn func(ctx context.Context) error) error {
	l.calls++
	if l.busy {
		return redisclient.ErrLockNotAcquired
	}
	l.held = true
	defer func() { l.held = false }()
	return fn(ctx)
}

type fixture struct {
	repo    *stubRepo
	locker  *stubLocker
	service *Service
	doctor  *clinic.Doctor
	patient *clinic.Patient
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	cal, err := scheduling.NewCalendarConfig(30, 10, 14,
		[]string{"monday", "tuesday", "wednesday", "thursday", "friday"},
		"09:00", "17:00")
	require.NoError(t, err)

	doctor := &clinic.Doctor{
		ID:        uuid.New(),
		FirstName: "Doc",
		LastName:  "Tor",
		WorkingHours: []clinic.DayHours{
			{Day: "monday", StartTime: "09:00", EndTime: "12:00", IsWorking: true},
		},
	}
	patient := &clinic.Patient{ID: uuid.New(), FirstName: "Pat", LastName: "Ient"}

	repo := newStubRepo()
	locker := &stubLocker{}
	repo.locker = locker
	svc := NewService(repo,
		&stubDirectory{doctor: doctor, patient: patient},
		&stubCalendars{cal: cal},
		locker,
		zap.NewNop(),
		30*time.Minute)
	svc.now = func() time.Time { return testNow }

	return &fixture{repo: repo, locker: locker, service: svc, doctor: doctor, patient: patient}
}

func (f *fixture) request(start, end string, t *testing.T) scheduling.Request {
	t.Helper()
	return scheduling.Request{
		DoctorID:  f.doctor.ID,
		PatientID: f.patient.ID,
		Start:     clock(testMonday, start, t),
		End:       clock(testMonday, end, t),
		Reason:    "checkup",
	}
}

func TestBookAcceptsFreeSlot(t *testing.T) {
	f := newFixture(t)

	detail, err := f.service.Book(context.Background(), f.request("10:00", "10:30", t))
	require.NoError(t, err)
	assert.Equal(t, StatusScheduled, detail.Status)
	assert.Equal(t, "Doc", detail.Doctor.FirstName)
	assert.Equal(t, 1, f.locker.calls)
	assert.Equal(t, []string{EventAppointmentBooked}, f.repo.eventTypes())
}

func TestBookRejectsBufferConflict(t *testing.T) {
	f := newFixture(t)

	first, err := f.service.Book(context.Background(), f.request("10:00", "10:30", t))
	require.NoError(t, err)

	_, err = f.service.Book(context.Background(), f.request("10:35", "11:05", t))
	require.Error(t, err)

	var rej *RejectionError
	require.ErrorAs(t, err, &rej)
	assert.Equal(t, scheduling.ReasonBufferConflict, rej.Decision.Reason)
	assert.Equal(t, first.ID, rej.Decision.ConflictingAppointmentID)
	assert.Len(t, f.repo.appts, 1)
}

func TestBookRejectsOutsideWorkingDayWithoutLocking(t *testing.T) {
	f := newFixture(t)

	saturday := testMonday.AddDate(0, 0, 5)
	req := f.request("10:00", "10:30", t)
	req.Start = clock(saturday, "10:00", t)
	req.End = clock(saturday, "10:30", t)

	_, err := f.service.Book(context.Background(), req)
	var rej *RejectionError
	require.ErrorAs(t, err, &rej)
	assert.Equal(t, scheduling.ReasonOutsideWorkingDay, rej.Decision.Reason)
	assert.Zero(t, f.locker.calls)
}

func TestBookDoctorBusy(t *testing.T) {
	f := newFixture(t)
	f.locker.busy = true

	_, err := f.service.Book(context.Background(), f.request("10:00", "10:30", t))
	assert.ErrorIs(t, err, ErrDoctorBusy)
	assert.Empty(t, f.repo.appts)
}

func TestBookSurfacesInvalidCalendar(t *testing.T) {
	f := newFixture(t)
	badCal := &stubCalendars{err: scheduling.ErrInvalidCalendar}
	f.service.calendars = badCal

	_, err := f.service.Book(context.Background(), f.request("10:00", "10:30", t))
	assert.ErrorIs(t, err, scheduling.ErrInvalidCalendar)
}

func TestRescheduleExcludesOwnInterval(t *testing.T) {
	f := newFixture(t)

	detail, err := f.service.Book(context.Background(), f.request("10:00", "10:30", t))
	require.NoError(t, err)

	// Shift by ten minutes: the new interval overlaps the old one, which
	// must not count against itself.
	moved, err := f.service.Reschedule(context.Background(), detail.ID,
		clock(testMonday, "10:10", t), clock(testMonday, "10:40", t), nil)
	require.NoError(t, err)
	assert.Equal(t, clock(testMonday, "10:10", t), moved.StartTime)
	assert.Contains(t, f.repo.eventTypes(), EventAppointmentRescheduled)
}

func TestRescheduleRejectsConflictWithOthers(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.Book(context.Background(), f.request("09:00", "09:30", t))
	require.NoError(t, err)
	second, err := f.service.Book(context.Background(), f.request("11:00", "11:30", t))
	require.NoError(t, err)

	_, err = f.service.Reschedule(context.Background(), second.ID,
		clock(testMonday, "09:15", t), clock(testMonday, "09:45", t), nil)
	var rej *RejectionError
	require.ErrorAs(t, err, &rej)
	assert.Equal(t, scheduling.ReasonDirectConflict, rej.Decision.Reason)
}

func TestReschedulePersistsInsideDoctorLock(t *testing.T) {
	f := newFixture(t)

	detail, err := f.service.Book(context.Background(), f.request("10:00", "10:30", t))
	require.NoError(t, err)

	_, err = f.service.Reschedule(context.Background(), detail.ID,
		clock(testMonday, "11:00", t), clock(testMonday, "11:30", t), nil)
	require.NoError(t, err)

	// Both the booking insert and the reschedule update must land before the
	// doctor lock is released. A write after release would let a concurrent
	// conflict check pass against a snapshot missing the new interval.
	assert.Equal(t, []bool{true, true}, f.repo.persistsHeld)
}

func TestUpdateTimesPersistInsideDoctorLock(t *testing.T) {
	f := newFixture(t)

	detail, err := f.service.Book(context.Background(), f.request("10:00", "10:30", t))
	require.NoError(t, err)

	start := clock(testMonday, "11:00", t)
	end := clock(testMonday, "11:30", t)
	updated, err := f.service.Update(context.Background(), detail.ID, UpdateParams{
		StartTime: &start,
		EndTime:   &end,
	})
	require.NoError(t, err)
	assert.Equal(t, start, updated.StartTime)
	assert.Equal(t, []bool{true, true}, f.repo.persistsHeld)
}

func TestCancelFreesTheSlot(t *testing.T) {
	f := newFixture(t)

	detail, err := f.service.Book(context.Background(), f.request("10:00", "10:30", t))
	require.NoError(t, err)

	cancelled, err := f.service.Cancel(context.Background(), detail.ID, "patient called in sick")
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, cancelled.Status)
	require.NotNil(t, cancelled.CancelledReason)
	assert.Equal(t, "patient called in sick", *cancelled.CancelledReason)

	// The freed interval is bookable again.
	_, err = f.service.Book(context.Background(), f.request("10:00", "10:30", t))
	assert.NoError(t, err)
}

func TestCancelRequiresScheduledStatus(t *testing.T) {
	f := newFixture(t)

	detail, err := f.service.Book(context.Background(), f.request("10:00", "10:30", t))
	require.NoError(t, err)
	_, err = f.service.Complete(context.Background(), detail.ID)
	require.NoError(t, err)

	_, err = f.service.Cancel(context.Background(), detail.ID, "too late")
	assert.ErrorIs(t, err, ErrInvalidStatusTransition)
}

func TestMarkNoShows(t *testing.T) {
	f := newFixture(t)

	detail, err := f.service.Book(context.Background(), f.request("10:00", "10:30", t))
	require.NoError(t, err)

	// Move the clock past the appointment end plus grace.
	f.service.now = func() time.Time { return clock(testMonday, "11:30", t) }

	marked, err := f.service.MarkNoShows(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, marked)

	appt, err := f.repo.GetAppointmentByID(context.Background(), detail.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusNoShow, appt.Status)
	assert.Contains(t, f.repo.eventTypes(), EventAppointmentNoShow)
}

func TestAvailableSlotsSubtractsBookings(t *testing.T) {
	f := newFixture(t)

	// Doctor works Monday 09:00-12:00; slots at 09:00, 09:40, 10:20, 11:00.
	slots, err := f.service.AvailableSlots(context.Background(), f.doctor.ID, testMonday)
	require.NoError(t, err)
	require.Len(t, slots, 4)

	_, err = f.service.Book(context.Background(), f.request("09:40", "10:10", t))
	require.NoError(t, err)

	slots, err = f.service.AvailableSlots(context.Background(), f.doctor.ID, testMonday)
	require.NoError(t, err)
	starts := make([]string, 0, len(slots))
	for _, s := range slots {
		starts = append(starts, s.Start.Format("15:04"))
	}
	assert.Equal(t, []string{"09:00", "10:20", "11:00"}, starts)
}

func TestAvailableSlotsEmptyOnNonWorkingDay(t *testing.T) {
	f := newFixture(t)

	saturday := testMonday.AddDate(0, 0, 5)
	slots, err := f.service.AvailableSlots(context.Background(), f.doctor.ID, saturday)
	require.NoError(t, err)
	assert.Empty(t, slots)
}

func TestBookUnknownPatient(t *testing.T) {
	f := newFixture(t)

	req := f.request("10:00", "10:30", t)
	req.PatientID = uuid.New()

	_, err := f.service.Book(context.Background(), req)
	assert.True(t, errors.Is(err, clinic.ErrPatientNotFound))
}
