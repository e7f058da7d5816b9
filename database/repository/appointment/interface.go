package appointmentRepo

import (
	"context"
	"errors"
	"time"

	"turnero/models"
)

// ErrSlotTaken is returned by InsertIfFree when the requested interval
// overlaps a non-cancelled appointment or a blackout period.
var ErrSlotTaken = errors.New("slot already taken")

// AppointmentRepository persists appointments and their external calendar
// links. InsertIfFree is the single source of truth for conflict detection:
// the overlap re-check and the insert run atomically.
type AppointmentRepository interface {
	InsertIfFree(ctx context.Context, appt *models.Appointment) error
	GetByID(id, professionalID string) (*models.Appointment, error)
	ListConfirmedEndingAfter(professionalID string, after time.Time) ([]models.Appointment, error)
	ListByStatus(professionalID string, status models.AppointmentStatus) ([]models.Appointment, error)
	UpdateStatus(id, professionalID string, status models.AppointmentStatus, note string) error
	ConfirmWithTerms(id, professionalID string, price *float64, modality models.Modality, note string) error

	GetCalendarLink(appointmentID string) (*models.CalendarLink, error)
	SaveCalendarLink(link *models.CalendarLink) error
	RecordSyncError(appointmentID, provider, message string) error
}
