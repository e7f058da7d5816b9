package availability

import (
	"context"
	"fmt"
	"time"

	appointmentRepo "turnero/database/repository/appointment"
	professionalRepo "turnero/database/repository/professional"
	"turnero/models"
	"turnero/services/calendar"
	"turnero/utils"

	"go.uber.org/zap"
)

const (
	ModeSimulate = "simulate"
	ModeReal     = "real"
)

// Engine computes the next open slots for a professional, earliest first.
// A zero-length result is valid; callers handle "no availability".
type Engine interface {
	NextSlots(ctx context.Context, prof *models.Professional, from time.Time, count int, dur time.Duration) ([]models.Slot, error)
}

// DefaultEngine enumerates duration-aligned candidates over the working-hour
// policy and rejects any that overlap existing appointments, blackout periods
// or externally reported busy time.
type DefaultEngine struct {
	Mode          string
	Appointments  appointmentRepo.AppointmentRepository
	Professionals professionalRepo.ProfessionalRepository
	Calendar      calendar.Provider // nil when not integrated
	HorizonDays   int
	Hours         models.WorkingHours // policy for professionals without their own
	Now           func() time.Time
}

func (e *DefaultEngine) now() time.Time {
	if e.Now != nil {
		return e.Now()
	}
	return time.Now()
}

func (e *DefaultEngine) NextSlots(ctx context.Context, prof *models.Professional, from time.Time, count int, dur time.Duration) ([]models.Slot, error) {
	if count <= 0 || dur <= 0 {
		return nil, fmt.Errorf("invalid slot request: count=%d duration=%s", count, dur)
	}
	now := e.now().UTC()
	if from.Before(now) {
		from = now
	}
	from = from.UTC()

	if e.Mode == ModeSimulate {
		return simulateSlots(now, count, dur), nil
	}
	return e.realSlots(ctx, prof, from, count, dur)
}

// simulateSlots spaces slots evenly, 30 minutes out and 60 minutes apart.
func simulateSlots(now time.Time, count int, dur time.Duration) []models.Slot {
	slots := make([]models.Slot, 0, count)
	start := now.Add(30 * time.Minute)
	for i := 0; i < count; i++ {
		s := start.Add(time.Duration(i) * 60 * time.Minute)
		slots = append(slots, models.Slot{StartUTC: s, EndUTC: s.Add(dur)})
	}
	return slots
}

func (e *DefaultEngine) realSlots(ctx context.Context, prof *models.Professional, from time.Time, count int, dur time.Duration) ([]models.Slot, error) {
	logger := utils.GetLogger()

	horizon := e.HorizonDays
	if horizon <= 0 {
		horizon = 7
	}
	to := from.AddDate(0, 0, horizon)

	appts, err := e.Appointments.ListConfirmedEndingAfter(prof.ID, from)
	if err != nil {
		return nil, fmt.Errorf("failed to load appointments: %w", err)
	}

	blackouts, err := e.Professionals.ListBlackoutsInRange(prof.ID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to load blackout periods: %w", err)
	}

	// Busy time from the external calendar is advisory: on failure we degrade
	// to a local-only computation rather than failing the turn.
	var busy []models.Slot
	if e.Calendar != nil {
		busy, err = e.Calendar.FreeBusy(ctx, prof.CalendarID, from, to)
		if err != nil {
			logger.Warn("freebusy lookup failed, computing from local data only",
				zap.String("professionalID", prof.ID), zap.Error(err))
			busy = nil
		}
	}

	loc, err := time.LoadLocation(prof.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", prof.Timezone, err)
	}

	hours := prof.Hours
	if hours.StartHour == 0 && hours.EndHour == 0 {
		hours = e.Hours
	}
	if hours.StartHour == 0 && hours.EndHour == 0 {
		hours = models.WorkingHours{StartHour: 9, EndHour: 18, WeekdaysOnly: true}
	}

	var slots []models.Slot
	day := from.In(loc)
	for len(slots) < count && day.Before(to.In(loc)) {
		if hours.WeekdaysOnly && (day.Weekday() == time.Saturday || day.Weekday() == time.Sunday) {
			day = nextDay(day)
			continue
		}

		// Local wall-clock candidates converted through the professional's
		// zone, so UTC offsets stay correct across DST transitions.
		dayStart := time.Date(day.Year(), day.Month(), day.Day(), hours.StartHour, 0, 0, 0, loc)
		dayEnd := time.Date(day.Year(), day.Month(), day.Day(), hours.EndHour, 0, 0, 0, loc)

		for candidate := dayStart; !candidate.Add(dur).After(dayEnd); candidate = candidate.Add(dur) {
			startUTC := candidate.UTC()
			endUTC := startUTC.Add(dur)
			if startUTC.Before(from) {
				continue
			}
			if overlapsAppointment(appts, startUTC, endUTC) ||
				overlapsBlackout(blackouts, startUTC, endUTC) ||
				overlapsBusy(busy, startUTC, endUTC) {
				continue
			}
			slots = append(slots, models.Slot{StartUTC: startUTC, EndUTC: endUTC})
			if len(slots) >= count {
				break
			}
		}
		day = nextDay(day)
	}
	return slots, nil
}

func nextDay(day time.Time) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location()).AddDate(0, 0, 1)
}

func overlapsAppointment(appts []models.Appointment, start, end time.Time) bool {
	for _, a := range appts {
		if a.StartUTC.Before(end) && a.EndUTC.After(start) {
			return true
		}
	}
	return false
}

func overlapsBlackout(blackouts []models.BlackoutPeriod, start, end time.Time) bool {
	for _, b := range blackouts {
		if b.StartUTC.Before(end) && b.EndUTC.After(start) {
			return true
		}
	}
	return false
}

func overlapsBusy(busy []models.Slot, start, end time.Time) bool {
	for _, b := range busy {
		if b.StartUTC.Before(end) && b.EndUTC.After(start) {
			return true
		}
	}
	return false
}
