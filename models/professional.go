package models

// WorkingHours defines the local wall-clock window in which appointments may
// be offered. Hours are 0-23 in the professional's timezone.
type WorkingHours struct {
	StartHour    int  `bson:"startHour" json:"startHour"`
	EndHour      int  `bson:"endHour" json:"endHour"`
	WeekdaysOnly bool `bson:"weekdaysOnly" json:"weekdaysOnly"`
}

// Professional is the calendar owner being booked.
type Professional struct {
	ID         string       `bson:"id" json:"id"`
	FullName   string       `bson:"fullName" json:"fullName"`
	PhoneE164  string       `bson:"phoneE164" json:"phoneE164"` // bot line, digits only
	Timezone   string       `bson:"timezone" json:"timezone"`   // IANA, e.g. "America/Argentina/Buenos_Aires"
	Hours      WorkingHours `bson:"hours" json:"hours"`
	CalendarID string       `bson:"calendarId,omitempty" json:"calendarId,omitempty"` // external calendar, "" = primary
}

// ServiceOffering is a bookable service of a professional. Name is unique per
// professional.
type ServiceOffering struct {
	ID             string  `bson:"id" json:"id"`
	ProfessionalID string  `bson:"professional_id" json:"professionalId"`
	Name           string  `bson:"name" json:"name"`
	DurationMin    int     `bson:"duration_min" json:"durationMin"`
	Price          float64 `bson:"price" json:"price"`
	Enabled        bool    `bson:"enabled" json:"enabled"`
}

// Counterpart is the person requesting appointments, keyed by phone within a
// professional's book.
type Counterpart struct {
	ID             string `bson:"id" json:"id"`
	ProfessionalID string `bson:"professional_id" json:"professionalId"`
	PhoneE164      string `bson:"phoneE164" json:"phoneE164"`
	FullName       string `bson:"fullName" json:"fullName"`
}
