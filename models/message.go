package models

import "time"

// Inbound is the channel-agnostic view of a received message.
type Inbound struct {
	FromE164   string    `json:"fromE164"`
	ToE164     string    `json:"toE164"` // the professional's bot line
	MessageID  string    `json:"messageId,omitempty"`
	FromName   string    `json:"fromName,omitempty"`
	Text       string    `json:"text"`
	ReceivedAt time.Time `json:"receivedAt"`
}

type MessageDirection string

const (
	DirectionInbound  MessageDirection = "in"
	DirectionOutbound MessageDirection = "out"
)

// Message is a logged conversation turn.
type Message struct {
	ID             string           `bson:"id" json:"id"`
	ProfessionalID string           `bson:"professional_id" json:"professionalId"`
	CounterpartID  string           `bson:"counterpart_id" json:"counterpartId"`
	Direction      MessageDirection `bson:"direction" json:"direction"`
	Text           string           `bson:"text" json:"text"`
	ExternalID     string           `bson:"external_id,omitempty" json:"externalId,omitempty"`
	SentUTC        time.Time        `bson:"sent_utc" json:"sentUtc"`
}

// ReminderPayload is the queued task body for an appointment reminder.
type ReminderPayload struct {
	AppointmentID  string `json:"appointmentId"`
	ProfessionalID string `json:"professionalId"`
	ToE164         string `json:"toE164"`
	Body           string `json:"body"`
	FireAt         string `json:"fireAt"`
}
