package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	appointmentRepo "turnero/database/repository/appointment"
	"turnero/models"
	"turnero/services/calendar"
	"turnero/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CommitRequest carries everything needed to turn a chosen slot into an
// appointment.
type CommitRequest struct {
	Professional  *models.Professional
	CounterpartID string
	Slot          models.Slot
	ServiceID     string
	ServiceName   string
	Price         *float64
	Modality      models.Modality
	Source        string
	Summary       string // external calendar event title
}

// Committer re-validates and persists a chosen slot. The offer that produced
// the slot is only a hint; the commit-time overlap check is the single source
// of truth.
type Committer interface {
	Commit(ctx context.Context, req CommitRequest) (*models.Appointment, error)
}

// DefaultCommitter persists through the appointment repository and, when a
// calendar provider is configured, syncs the event idempotently. A sync
// failure is recorded but never fails the booking.
type DefaultCommitter struct {
	Repo          appointmentRepo.AppointmentRepository
	Calendar      calendar.Provider // nil disables sync
	InitialStatus models.AppointmentStatus
}

func (c *DefaultCommitter) Commit(ctx context.Context, req CommitRequest) (*models.Appointment, error) {
	if req.Professional == nil {
		return nil, NewValidationError("professional is required")
	}
	if !req.Slot.StartUTC.Before(req.Slot.EndUTC) {
		return nil, NewValidationError("slot start must precede end")
	}

	status := c.InitialStatus
	if status == "" {
		status = models.StatusPending
	}
	modality := req.Modality
	if modality == "" {
		modality = models.ModalityInPerson
	}

	appt := &models.Appointment{
		ID:             uuid.New().String(),
		ProfessionalID: req.Professional.ID,
		CounterpartID:  req.CounterpartID,
		ServiceID:      req.ServiceID,
		StartUTC:       req.Slot.StartUTC.UTC(),
		EndUTC:         req.Slot.EndUTC.UTC(),
		Status:         status,
		Modality:       modality,
		Price:          req.Price,
		Reason:         req.ServiceName,
		Source:         req.Source,
		CreatedAt:      time.Now().UTC(),
	}

	if err := c.Repo.InsertIfFree(ctx, appt); err != nil {
		if errors.Is(err, appointmentRepo.ErrSlotTaken) {
			return nil, NewConflictError("the slot is no longer free")
		}
		return nil, NewPersistenceError("failed to persist appointment", err)
	}

	c.syncCalendar(ctx, req, appt)
	return appt, nil
}

// syncCalendar creates the external event at most once per appointment: an
// existing link short-circuits a duplicate create.
func (c *DefaultCommitter) syncCalendar(ctx context.Context, req CommitRequest, appt *models.Appointment) {
	if c.Calendar == nil {
		return
	}
	logger := utils.GetLogger()

	link, err := c.Repo.GetCalendarLink(appt.ID)
	if err != nil {
		logger.Warn("calendar link lookup failed", zap.String("appointmentID", appt.ID), zap.Error(err))
		return
	}
	if link != nil && link.EventID != "" {
		return
	}

	summary := req.Summary
	if summary == "" {
		summary = fmt.Sprintf("Turno: %s", req.ServiceName)
	}
	eventID, err := c.Calendar.CreateEvent(ctx, req.Professional.CalendarID, summary, appt.StartUTC, appt.EndUTC)
	if err != nil {
		logger.Warn("calendar sync failed, booking kept",
			zap.String("appointmentID", appt.ID), zap.Error(err))
		if recErr := c.Repo.RecordSyncError(appt.ID, "google", err.Error()); recErr != nil {
			logger.Error("failed to record sync error", zap.Error(recErr))
		}
		return
	}

	if err := c.Repo.SaveCalendarLink(&models.CalendarLink{
		AppointmentID: appt.ID,
		EventID:       eventID,
		Provider:      "google",
		CreatedAt:     time.Now().UTC(),
	}); err != nil {
		logger.Error("failed to save calendar link", zap.String("appointmentID", appt.ID), zap.Error(err))
	}
}
