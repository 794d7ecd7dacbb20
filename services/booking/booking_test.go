package booking

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appointmentRepo "telecare/database/repository/appointment"
	"telecare/models"
	"telecare/services/availability"
)

// -- Mock Repositories --

type mockScheduleRepo struct {
	entries []models.WeeklyScheduleEntry
}

func (m *mockScheduleRepo) GetByDoctor(_ context.Context, doctorID string) ([]models.WeeklyScheduleEntry, error) {
	var out []models.WeeklyScheduleEntry
	for _, e := range m.entries {
		if e.DoctorID == doctorID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *mockScheduleRepo) GetEnabledByDoctor(ctx context.Context, doctorID string) ([]models.WeeklyScheduleEntry, error) {
	return m.GetByDoctor(ctx, doctorID)
}

func (m *mockScheduleRepo) ReplaceForDoctor(_ context.Context, _ string, _ []models.WeeklyScheduleEntry) error {
	return nil
}

func (m *mockScheduleRepo) EnsureIndexes(_ context.Context) error { return nil }

// mockAppointmentRepo enforces the same unique-active-slot rule as the Mongo index.
type mockAppointmentRepo struct {
	mu        sync.Mutex
	appts     map[string]*models.Appointment
	createErr error
}

func newMockAppointmentRepo() *mockAppointmentRepo {
	return &mockAppointmentRepo{appts: make(map[string]*models.Appointment)}
}

func (m *mockAppointmentRepo) Create(_ context.Context, a *models.Appointment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return m.createErr
	}
	a.Active = a.Status != models.StatusCancelled
	for _, other := range m.appts {
		if other.Active && other.DoctorID == a.DoctorID && other.Date == a.Date && other.StartTime == a.StartTime {
			return appointmentRepo.ErrSlotTaken
		}
	}
	cp := *a
	m.appts[a.ID] = &cp
	return nil
}

func (m *mockAppointmentRepo) GetByID(_ context.Context, id string) (*models.Appointment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.appts[id]
	if !ok {
		return nil, appointmentRepo.ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (m *mockAppointmentRepo) ListActiveInRange(_ context.Context, doctorID, from, to string) ([]models.Appointment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Appointment
	for _, a := range m.appts {
		if a.Active && a.DoctorID == doctorID && a.Date >= from && a.Date < to {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (m *mockAppointmentRepo) List(_ context.Context, f models.AppointmentFilter) ([]models.Appointment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Appointment
	for _, a := range m.appts {
		if f.DoctorID != "" && a.DoctorID != f.DoctorID {
			continue
		}
		if f.PatientID != "" && a.PatientID != f.PatientID {
			continue
		}
		if f.Status != "" && a.Status != f.Status {
			continue
		}
		out = append(out, *a)
	}
	return out, nil
}

func (m *mockAppointmentRepo) UpdateStatus(_ context.Context, id string, from, to models.AppointmentStatus) (*models.Appointment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.appts[id]
	if !ok {
		return nil, appointmentRepo.ErrNotFound
	}
	if a.Status != from {
		return nil, appointmentRepo.ErrStatusChanged
	}
	a.Status = to
	a.Active = to != models.StatusCancelled
	cp := *a
	return &cp, nil
}

func (m *mockAppointmentRepo) EnsureIndexes(_ context.Context) error { return nil }

type recordingReminders struct {
	payloads []models.ReminderPayload
	fireAt   []time.Time
	err      error
}

func (r *recordingReminders) ScheduleReminder(_ context.Context, p models.ReminderPayload, fireAt time.Time) error {
	r.payloads = append(r.payloads, p)
	r.fireAt = append(r.fireAt, fireAt)
	return r.err
}

// -- Fixtures --

var (
	monday  = time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)
	patient = models.Identity{UserID: "pat-1", Role: models.RolePatient}
	doctor  = models.Identity{UserID: "doc-1", Role: models.RoleDoctor}
	admin   = models.Identity{UserID: "root", Role: models.RoleAdmin}
)

type fixture struct {
	svc       *DefaultBookingService
	repo      *mockAppointmentRepo
	reminders *recordingReminders
}

func newFixture(t *testing.T, now time.Time) *fixture {
	t.Helper()
	sched := &mockScheduleRepo{entries: []models.WeeklyScheduleEntry{{
		ID: "s1", DoctorID: "doc-1", DayOfWeek: time.Monday,
		StartTime: "09:00:00", EndTime: "11:00:00", IsAvailable: true,
	}}}
	repo := newMockAppointmentRepo()
	avail, err := availability.NewDefaultAvailabilityService(sched, repo, 30, 60, time.UTC, nil)
	require.NoError(t, err)
	avail.Now = func() time.Time { return now }

	reminders := &recordingReminders{}
	svc, err := NewDefaultBookingService(repo, avail, reminders, 30, time.Hour, time.UTC, nil)
	require.NoError(t, err)
	svc.Now = func() time.Time { return now }
	return &fixture{svc: svc, repo: repo, reminders: reminders}
}

func bookReq(tm string) models.BookAppointmentRequest {
	return models.BookAppointmentRequest{DoctorID: "doc-1", Date: "2026-10-19", Time: tm}
}

// -- Tests --

func TestBookAppointment_Success(t *testing.T) {
	f := newFixture(t, monday.Add(7*time.Hour))

	appt, err := f.svc.BookAppointment(context.Background(), patient, bookReq("09:30"))
	require.NoError(t, err)
	assert.NotEmpty(t, appt.ID)
	assert.Equal(t, "pat-1", appt.PatientID)
	assert.Equal(t, "09:30:00", appt.StartTime)
	assert.Equal(t, "10:00:00", appt.EndTime)
	assert.Equal(t, models.StatusScheduled, appt.Status)

	require.Len(t, f.reminders.payloads, 1)
	assert.Equal(t, appt.ID, f.reminders.payloads[0].AppointmentID)
	assert.Equal(t, monday.Add(8*time.Hour+30*time.Minute), f.reminders.fireAt[0])
}

func TestBookAppointment_SlotAlreadyTaken(t *testing.T) {
	f := newFixture(t, monday.Add(7*time.Hour))

	_, err := f.svc.BookAppointment(context.Background(), patient, bookReq("09:30:00"))
	require.NoError(t, err)

	other := models.Identity{UserID: "pat-2", Role: models.RolePatient}
	_, err = f.svc.BookAppointment(context.Background(), other, bookReq("09:30"))
	assert.ErrorIs(t, err, ErrSlotTaken)
}

func TestBookAppointment_LosesRaceAtTheStore(t *testing.T) {
	f := newFixture(t, monday.Add(7*time.Hour))
	f.repo.createErr = appointmentRepo.ErrSlotTaken

	_, err := f.svc.BookAppointment(context.Background(), patient, bookReq("09:30"))
	assert.ErrorIs(t, err, ErrSlotTaken)
	assert.Empty(t, f.reminders.payloads)
}

func TestBookAppointment_ConcurrentRequestsOnlyOneWins(t *testing.T) {
	f := newFixture(t, monday.Add(7*time.Hour))

	var wg sync.WaitGroup
	errs := make([]error, 8)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			caller := models.Identity{UserID: "pat-" + string(rune('a'+i)), Role: models.RolePatient}
			_, errs[i] = f.svc.BookAppointment(context.Background(), caller, bookReq("10:00"))
		}(i)
	}
	wg.Wait()

	wins := 0
	for _, err := range errs {
		if err == nil {
			wins++
			continue
		}
		assert.ErrorIs(t, err, ErrSlotTaken)
	}
	assert.Equal(t, 1, wins)
}

func TestBookAppointment_CancelledSlotCanBeRebooked(t *testing.T) {
	f := newFixture(t, monday.Add(7*time.Hour))

	appt, err := f.svc.BookAppointment(context.Background(), patient, bookReq("09:00"))
	require.NoError(t, err)
	_, err = f.svc.CancelAppointment(context.Background(), patient, appt.ID)
	require.NoError(t, err)

	_, err = f.svc.BookAppointment(context.Background(), models.Identity{UserID: "pat-2", Role: models.RolePatient}, bookReq("09:00"))
	assert.NoError(t, err)
}

func TestBookAppointment_Rejections(t *testing.T) {
	tests := []struct {
		name   string
		caller models.Identity
		req    models.BookAppointmentRequest
		check  func(t *testing.T, err error)
	}{
		{"doctor cannot book", doctor, bookReq("09:00"), func(t *testing.T, err error) { assert.ErrorIs(t, err, models.ErrForbidden) }},
		{"past slot", patient, bookReq("09:00"), func(t *testing.T, err error) { assert.ErrorIs(t, err, ErrSlotInPast) }},
		{"off grid", patient, bookReq("10:45"), func(t *testing.T, err error) { assert.ErrorIs(t, err, ErrNotBookable) }},
		{"outside hours", patient, bookReq("11:00"), func(t *testing.T, err error) { assert.ErrorIs(t, err, ErrNotBookable) }},
		{"seconds off grid", patient, bookReq("10:30:15"), func(t *testing.T, err error) { assert.ErrorIs(t, err, ErrNotBookable) }},
		{"day off", patient, models.BookAppointmentRequest{DoctorID: "doc-1", Date: "2026-10-20", Time: "09:00"},
			func(t *testing.T, err error) { assert.ErrorIs(t, err, ErrNotBookable) }},
		{"malformed time", patient, bookReq("10am"), func(t *testing.T, err error) { assert.ErrorIs(t, err, models.ErrInvalidTime) }},
		{"malformed date", patient, models.BookAppointmentRequest{DoctorID: "doc-1", Date: "19/10/2026", Time: "10:00"},
			func(t *testing.T, err error) {
				var ve *models.ValidationError
				assert.ErrorAs(t, err, &ve)
			}},
		{"admin without patient", admin, bookReq("10:00"), func(t *testing.T, err error) {
			var ve *models.ValidationError
			assert.ErrorAs(t, err, &ve)
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, monday.Add(9*time.Hour+10*time.Minute))
			_, err := f.svc.BookAppointment(context.Background(), tt.caller, tt.req)
			require.Error(t, err)
			tt.check(t, err)
		})
	}
}

func TestBookAppointment_AdminOnBehalfOfPatient(t *testing.T) {
	f := newFixture(t, monday.Add(7*time.Hour))
	req := bookReq("10:30")
	req.PatientID = "pat-9"

	appt, err := f.svc.BookAppointment(context.Background(), admin, req)
	require.NoError(t, err)
	assert.Equal(t, "pat-9", appt.PatientID)
}

func TestBookAppointment_ReminderFailureDoesNotFailBooking(t *testing.T) {
	f := newFixture(t, monday.Add(7*time.Hour))
	f.reminders.err = errors.New("queue down")

	_, err := f.svc.BookAppointment(context.Background(), patient, bookReq("10:30"))
	assert.NoError(t, err)
}

func TestBookAppointment_NoReminderWhenLeadAlreadyPassed(t *testing.T) {
	f := newFixture(t, monday.Add(8*time.Hour+45*time.Minute))

	_, err := f.svc.BookAppointment(context.Background(), patient, bookReq("09:30"))
	require.NoError(t, err)
	assert.Empty(t, f.reminders.payloads)
}

func TestUpdateStatus_Lifecycle(t *testing.T) {
	f := newFixture(t, monday.Add(7*time.Hour))
	appt, err := f.svc.BookAppointment(context.Background(), patient, bookReq("09:00"))
	require.NoError(t, err)

	_, err = f.svc.UpdateStatus(context.Background(), patient, appt.ID, models.StatusInProgress)
	assert.ErrorIs(t, err, models.ErrForbidden)

	_, err = f.svc.UpdateStatus(context.Background(), doctor, appt.ID, models.StatusCompleted)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	updated, err := f.svc.UpdateStatus(context.Background(), doctor, appt.ID, models.StatusInProgress)
	require.NoError(t, err)
	assert.Equal(t, models.StatusInProgress, updated.Status)

	updated, err = f.svc.UpdateStatus(context.Background(), admin, appt.ID, models.StatusCompleted)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, updated.Status)

	_, err = f.svc.CancelAppointment(context.Background(), patient, appt.ID)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	_, err = f.svc.UpdateStatus(context.Background(), doctor, appt.ID, "no_show")
	var ve *models.ValidationError
	assert.ErrorAs(t, err, &ve)
}

func TestCancelAppointment_Ownership(t *testing.T) {
	f := newFixture(t, monday.Add(7*time.Hour))
	appt, err := f.svc.BookAppointment(context.Background(), patient, bookReq("09:00"))
	require.NoError(t, err)

	stranger := models.Identity{UserID: "pat-2", Role: models.RolePatient}
	_, err = f.svc.CancelAppointment(context.Background(), stranger, appt.ID)
	assert.ErrorIs(t, err, models.ErrForbidden)

	_, err = f.svc.CancelAppointment(context.Background(), patient, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	cancelled, err := f.svc.CancelAppointment(context.Background(), doctor, appt.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCancelled, cancelled.Status)
}

func TestListAppointments_ScopedByRole(t *testing.T) {
	f := newFixture(t, monday.Add(7*time.Hour))
	_, err := f.svc.BookAppointment(context.Background(), patient, bookReq("09:00"))
	require.NoError(t, err)
	_, err = f.svc.BookAppointment(context.Background(), models.Identity{UserID: "pat-2", Role: models.RolePatient}, bookReq("09:30"))
	require.NoError(t, err)

	mine, err := f.svc.ListAppointments(context.Background(), patient, models.AppointmentFilter{PatientID: "pat-2"})
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "pat-1", mine[0].PatientID)

	docs, err := f.svc.ListAppointments(context.Background(), doctor, models.AppointmentFilter{})
	require.NoError(t, err)
	assert.Len(t, docs, 2)

	all, err := f.svc.ListAppointments(context.Background(), admin, models.AppointmentFilter{PatientID: "pat-2"})
	require.NoError(t, err)
	assert.Len(t, all, 1)

	_, err = f.svc.ListAppointments(context.Background(), patient, models.AppointmentFilter{Status: "bogus"})
	var ve *models.ValidationError
	assert.ErrorAs(t, err, &ve)
}

func TestListAppointments_RejectsMalformedDateRange(t *testing.T) {
	f := newFixture(t, monday.Add(7*time.Hour))

	for _, filter := range []models.AppointmentFilter{
		{From: "19-10-2026"},
		{To: "2026/10/26"},
		{From: "2026-10-19", To: "next week"},
	} {
		_, err := f.svc.ListAppointments(context.Background(), admin, filter)
		var ve *models.ValidationError
		assert.ErrorAs(t, err, &ve, "%+v", filter)
	}

	_, err := f.svc.ListAppointments(context.Background(), admin, models.AppointmentFilter{From: "2026-10-19", To: "2026-10-26"})
	assert.NoError(t, err)
}

func TestBookAppointment_PastCheckOnDSTChangeDay(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)
	now := time.Date(2026, 3, 8, 9, 45, 0, 0, ny)

	sched := &mockScheduleRepo{entries: []models.WeeklyScheduleEntry{{
		ID: "s1", DoctorID: "doc-1", DayOfWeek: time.Sunday,
		StartTime: "09:00:00", EndTime: "11:00:00", IsAvailable: true,
	}}}
	repo := newMockAppointmentRepo()
	avail, err := availability.NewDefaultAvailabilityService(sched, repo, 30, 60, ny, nil)
	require.NoError(t, err)
	avail.Now = func() time.Time { return now }
	reminders := &recordingReminders{}
	svc, err := NewDefaultBookingService(repo, avail, reminders, 30, 30*time.Minute, ny, nil)
	require.NoError(t, err)
	svc.Now = func() time.Time { return now }

	req := models.BookAppointmentRequest{DoctorID: "doc-1", Date: "2026-03-08", Time: "09:30"}
	_, err = svc.BookAppointment(context.Background(), patient, req)
	assert.ErrorIs(t, err, ErrSlotInPast)

	req.Time = "10:30"
	_, err = svc.BookAppointment(context.Background(), patient, req)
	require.NoError(t, err)
	require.Len(t, reminders.fireAt, 1)
	assert.True(t, time.Date(2026, 3, 8, 10, 0, 0, 0, ny).Equal(reminders.fireAt[0]), "fireAt %s", reminders.fireAt[0])
}

func TestCanTransition(t *testing.T) {
	assert.True(t, CanTransition(models.StatusScheduled, models.StatusInProgress))
	assert.True(t, CanTransition(models.StatusScheduled, models.StatusCancelled))
	assert.True(t, CanTransition(models.StatusInProgress, models.StatusCompleted))
	assert.True(t, CanTransition(models.StatusInProgress, models.StatusCancelled))
	assert.False(t, CanTransition(models.StatusScheduled, models.StatusCompleted))
	assert.False(t, CanTransition(models.StatusCancelled, models.StatusScheduled))
	assert.False(t, CanTransition(models.StatusCompleted, models.StatusCancelled))
}
