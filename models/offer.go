package models

import "time"

// Slot is a candidate bookable (start, end) interval in UTC.
type Slot struct {
	StartUTC time.Time `json:"startUtc"`
	EndUTC   time.Time `json:"endUtc"`
}

// PendingOffer is the slot list most recently presented to a counterpart,
// together with the booking details the selection will commit. One active
// offer per conversation key; a new offer replaces the old one.
type PendingOffer struct {
	Key            string    `json:"key"`
	ProfessionalID string    `json:"professionalId"`
	CounterpartID  string    `json:"counterpartId"`
	Slots          []Slot    `json:"slots"`
	ServiceID      string    `json:"serviceId,omitempty"`
	ServiceName    string    `json:"serviceName,omitempty"`
	Price          *float64  `json:"price,omitempty"`
	Modality       Modality  `json:"modality"`
	ExpiresAt      time.Time `json:"expiresAt"`
}
