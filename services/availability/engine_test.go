package availability

import (
	"context"
	"testing"
	"time"

	"turnero/models"
)

type apptRepoStub struct {
	appts []models.Appointment
}

func (s *apptRepoStub) InsertIfFree(context.Context, *models.Appointment) error { return nil }
func (s *apptRepoStub) GetByID(string, string) (*models.Appointment, error)     { return nil, nil }
func (s *apptRepoStub) ListConfirmedEndingAfter(string, time.Time) ([]models.Appointment, error) {
	return s.appts, nil
}
func (s *apptRepoStub) ListByStatus(string, models.AppointmentStatus) ([]models.Appointment, error) {
	return nil, nil
}
func (s *apptRepoStub) UpdateStatus(string, string, models.AppointmentStatus, string) error {
	return nil
}
func (s *apptRepoStub) ConfirmWithTerms(string, string, *float64, models.Modality, string) error {
	return nil
}
func (s *apptRepoStub) GetCalendarLink(string) (*models.CalendarLink, error) { return nil, nil }
func (s *apptRepoStub) SaveCalendarLink(*models.CalendarLink) error          { return nil }
func (s *apptRepoStub) RecordSyncError(string, string, string) error         { return nil }

type profRepoStub struct {
	blackouts []models.BlackoutPeriod
}

func (s *profRepoStub) GetByID(string) (*models.Professional, error)    { return nil, nil }
func (s *profRepoStub) GetByPhone(string) (*models.Professional, error) { return nil, nil }
func (s *profRepoStub) ListEnabledServices(string) ([]models.ServiceOffering, error) {
	return nil, nil
}
func (s *profRepoStub) ListBlackoutsInRange(string, time.Time, time.Time) ([]models.BlackoutPeriod, error) {
	return s.blackouts, nil
}
func (s *profRepoStub) CreateBlackout(*models.BlackoutPeriod) error { return nil }
func (s *profRepoStub) GetOrCreateCounterpart(string, string, string) (*models.Counterpart, error) {
	return nil, nil
}

func utcProfessional() *models.Professional {
	return &models.Professional{
		ID:       "p1",
		Timezone: "UTC",
		Hours:    models.WorkingHours{StartHour: 9, EndHour: 18, WeekdaysOnly: true},
	}
}

func TestSimulatedSlots(t *testing.T) {
	now := time.Date(2025, time.September, 1, 8, 0, 0, 0, time.UTC)
	e := &DefaultEngine{Mode: ModeSimulate, Now: func() time.Time { return now }}

	slots, err := e.NextSlots(context.Background(), utcProfessional(), now, 3, 45*time.Minute)
	if err != nil {
		t.Fatalf("NextSlots: %v", err)
	}
	if len(slots) != 3 {
		t.Fatalf("got %d slots, want 3", len(slots))
	}
	for i, s := range slots {
		wantStart := now.Add(30*time.Minute + time.Duration(i)*60*time.Minute)
		if !s.StartUTC.Equal(wantStart) {
			t.Errorf("slot %d start = %v, want %v", i, s.StartUTC, wantStart)
		}
		if !s.EndUTC.Equal(wantStart.Add(45 * time.Minute)) {
			t.Errorf("slot %d end = %v, want start+45m", i, s.EndUTC)
		}
	}
}

func TestRealSlotsSkipBookedAndBlackout(t *testing.T) {
	// Monday 08:00 UTC.
	now := time.Date(2025, time.September, 1, 8, 0, 0, 0, time.UTC)
	day := func(h, m int) time.Time {
		return time.Date(2025, time.September, 1, h, m, 0, 0, time.UTC)
	}

	e := &DefaultEngine{
		Mode: ModeReal,
		Appointments: &apptRepoStub{appts: []models.Appointment{
			{StartUTC: day(9, 0), EndUTC: day(9, 30), Status: models.StatusConfirmed},
		}},
		Professionals: &profRepoStub{blackouts: []models.BlackoutPeriod{
			{StartUTC: day(10, 0), EndUTC: day(11, 0)},
		}},
		HorizonDays: 7,
		Now:         func() time.Time { return now },
	}

	slots, err := e.NextSlots(context.Background(), utcProfessional(), now, 3, 30*time.Minute)
	if err != nil {
		t.Fatalf("NextSlots: %v", err)
	}
	if len(slots) != 3 {
		t.Fatalf("got %d slots, want 3", len(slots))
	}

	want := []time.Time{day(9, 30), day(11, 0), day(11, 30)}
	for i, s := range slots {
		if !s.StartUTC.Equal(want[i]) {
			t.Errorf("slot %d start = %v, want %v", i, s.StartUTC, want[i])
		}
		if !s.StartUTC.Before(s.EndUTC) {
			t.Errorf("slot %d start not before end", i)
		}
	}
}

func TestRealSlotsSkipWeekend(t *testing.T) {
	// Saturday 08:00 UTC; first candidates must land on Monday.
	now := time.Date(2025, time.September, 6, 8, 0, 0, 0, time.UTC)

	e := &DefaultEngine{
		Mode:          ModeReal,
		Appointments:  &apptRepoStub{},
		Professionals: &profRepoStub{},
		HorizonDays:   7,
		Now:           func() time.Time { return now },
	}

	slots, err := e.NextSlots(context.Background(), utcProfessional(), now, 2, 30*time.Minute)
	if err != nil {
		t.Fatalf("NextSlots: %v", err)
	}
	if len(slots) != 2 {
		t.Fatalf("got %d slots, want 2", len(slots))
	}
	wantFirst := time.Date(2025, time.September, 8, 9, 0, 0, 0, time.UTC)
	if !slots[0].StartUTC.Equal(wantFirst) {
		t.Errorf("first slot = %v, want Monday %v", slots[0].StartUTC, wantFirst)
	}
}

func TestRealSlotsAcrossDSTSpringForward(t *testing.T) {
	// Monday after the 2025-03-09 spring-forward in America/New_York: the
	// UTC offset is -4 (EDT), not the -5 (EST) of the week before.
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Fatalf("LoadLocation: %v", err)
	}
	now := time.Date(2025, time.March, 10, 8, 0, 0, 0, loc)

	e := &DefaultEngine{
		Mode:          ModeReal,
		Appointments:  &apptRepoStub{},
		Professionals: &profRepoStub{},
		HorizonDays:   7,
		Now:           func() time.Time { return now },
	}
	prof := &models.Professional{
		ID:       "p1",
		Timezone: "America/New_York",
		Hours:    models.WorkingHours{StartHour: 9, EndHour: 18, WeekdaysOnly: true},
	}

	slots, err := e.NextSlots(context.Background(), prof, now.UTC(), 2, 30*time.Minute)
	if err != nil {
		t.Fatalf("NextSlots: %v", err)
	}
	if len(slots) != 2 {
		t.Fatalf("got %d slots, want 2", len(slots))
	}
	// 09:00 local is 13:00 UTC under EDT.
	wantFirst := time.Date(2025, time.March, 10, 13, 0, 0, 0, time.UTC)
	if !slots[0].StartUTC.Equal(wantFirst) {
		t.Errorf("first slot = %v, want %v", slots[0].StartUTC, wantFirst)
	}
}

func TestRealSlotsUseEngineDefaultHours(t *testing.T) {
	// A professional without a working-hour policy falls back to the
	// engine-level one, not a hardcoded workday.
	now := time.Date(2025, time.September, 1, 8, 0, 0, 0, time.UTC)
	e := &DefaultEngine{
		Mode:          ModeReal,
		Appointments:  &apptRepoStub{},
		Professionals: &profRepoStub{},
		HorizonDays:   7,
		Hours:         models.WorkingHours{StartHour: 10, EndHour: 12, WeekdaysOnly: true},
		Now:           func() time.Time { return now },
	}
	prof := &models.Professional{ID: "p1", Timezone: "UTC"}

	slots, err := e.NextSlots(context.Background(), prof, now, 4, 30*time.Minute)
	if err != nil {
		t.Fatalf("NextSlots: %v", err)
	}
	if len(slots) != 4 {
		t.Fatalf("got %d slots, want 4", len(slots))
	}
	wantFirst := time.Date(2025, time.September, 1, 10, 0, 0, 0, time.UTC)
	if !slots[0].StartUTC.Equal(wantFirst) {
		t.Errorf("first slot = %v, want %v", slots[0].StartUTC, wantFirst)
	}
	// Only 4 half-hour candidates fit in 10:00-12:00, so the last one must
	// still be on day one.
	wantLast := time.Date(2025, time.September, 1, 11, 30, 0, 0, time.UTC)
	if !slots[3].StartUTC.Equal(wantLast) {
		t.Errorf("last slot = %v, want %v", slots[3].StartUTC, wantLast)
	}
}

func TestNextSlotsOrderedAndNonOverlapping(t *testing.T) {
	now := time.Date(2025, time.September, 1, 8, 0, 0, 0, time.UTC)
	e := &DefaultEngine{
		Mode:          ModeReal,
		Appointments:  &apptRepoStub{},
		Professionals: &profRepoStub{},
		HorizonDays:   7,
		Now:           func() time.Time { return now },
	}

	slots, err := e.NextSlots(context.Background(), utcProfessional(), now, 5, 30*time.Minute)
	if err != nil {
		t.Fatalf("NextSlots: %v", err)
	}
	for i := 1; i < len(slots); i++ {
		if slots[i].StartUTC.Before(slots[i-1].EndUTC) {
			t.Errorf("slot %d overlaps or precedes slot %d", i, i-1)
		}
	}
}

func TestNextSlotsRejectsInvalidRequest(t *testing.T) {
	e := &DefaultEngine{Mode: ModeSimulate}
	if _, err := e.NextSlots(context.Background(), utcProfessional(), time.Now(), 0, 30*time.Minute); err == nil {
		t.Error("expected error for zero count")
	}
	if _, err := e.NextSlots(context.Background(), utcProfessional(), time.Now(), 3, 0); err == nil {
		t.Error("expected error for zero duration")
	}
}
