package models

import "time"

type AppointmentStatus string

const (
	StatusPending   AppointmentStatus = "pending"
	StatusConfirmed AppointmentStatus = "confirmed"
	StatusCancelled AppointmentStatus = "cancelled"
	StatusNoShow    AppointmentStatus = "no_show"
	StatusCompleted AppointmentStatus = "completed"
)

type Modality string

const (
	ModalityInPerson Modality = "in_person"
	ModalityRemote   Modality = "remote"
)

// Appointment is a committed reservation. Start must precede End, both UTC.
// Cancellation is a status change; appointments are never deleted.
type Appointment struct {
	ID             string            `bson:"id" json:"id"`
	ProfessionalID string            `bson:"professional_id" json:"professionalId"`
	CounterpartID  string            `bson:"counterpart_id" json:"counterpartId"`
	ServiceID      string            `bson:"service_id,omitempty" json:"serviceId,omitempty"`
	StartUTC       time.Time         `bson:"start_utc" json:"startUtc"`
	EndUTC         time.Time         `bson:"end_utc" json:"endUtc"`
	Status         AppointmentStatus `bson:"status" json:"status"`
	Modality       Modality          `bson:"modality" json:"modality"`
	Price          *float64          `bson:"price,omitempty" json:"price,omitempty"`
	Reason         string            `bson:"reason,omitempty" json:"reason,omitempty"` // service label shown to the professional
	Notes          string            `bson:"notes,omitempty" json:"notes,omitempty"`
	Source         string            `bson:"source,omitempty" json:"source,omitempty"` // e.g. "whatsapp", "api"
	CreatedAt      time.Time         `bson:"created_at" json:"createdAt"`
}

// BlackoutPeriod is an interval in which no appointment may be scheduled
// regardless of otherwise-free time.
type BlackoutPeriod struct {
	ID             string    `bson:"id" json:"id"`
	ProfessionalID string    `bson:"professional_id" json:"professionalId"`
	StartUTC       time.Time `bson:"start_utc" json:"startUtc"`
	EndUTC         time.Time `bson:"end_utc" json:"endUtc"`
	Reason         string    `bson:"reason,omitempty" json:"reason,omitempty"`
}

// CalendarLink maps an appointment to its external calendar event. One link
// per appointment; a repeated sync reuses the recorded event.
type CalendarLink struct {
	AppointmentID string    `bson:"appointment_id" json:"appointmentId"`
	EventID       string    `bson:"event_id" json:"eventId"`
	Provider      string    `bson:"provider" json:"provider"`
	SyncError     string    `bson:"sync_error,omitempty" json:"syncError,omitempty"`
	CreatedAt     time.Time `bson:"created_at" json:"createdAt"`
}
