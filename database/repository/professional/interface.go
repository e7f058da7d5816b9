package professionalRepo

import (
	"time"

	"turnero/models"
)

// ProfessionalRepository exposes professionals, their service offerings,
// blackout periods and counterpart records.
type ProfessionalRepository interface {
	GetByID(id string) (*models.Professional, error)
	GetByPhone(phoneE164 string) (*models.Professional, error)
	ListEnabledServices(professionalID string) ([]models.ServiceOffering, error)
	ListBlackoutsInRange(professionalID string, from, to time.Time) ([]models.BlackoutPeriod, error)
	CreateBlackout(b *models.BlackoutPeriod) error
	GetOrCreateCounterpart(professionalID, phoneE164, fullName string) (*models.Counterpart, error)
}
