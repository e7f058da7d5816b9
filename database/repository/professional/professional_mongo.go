package professionalRepo

import (
	"context"
	"fmt"
	"time"

	"turnero/database"
	"turnero/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoProfessionalRepo implements ProfessionalRepository using MongoDB.
type MongoProfessionalRepo struct {
	profColl     *mongo.Collection
	serviceColl  *mongo.Collection
	blackoutColl *mongo.Collection
	counterColl  *mongo.Collection
}

// NewMongoProfessionalRepo constructs a new instance of MongoProfessionalRepo.
func NewMongoProfessionalRepo() ProfessionalRepository {
	db := database.MongoClient.Database(database.DBName)
	return &MongoProfessionalRepo{
		profColl:     db.Collection("professionals"),
		serviceColl:  db.Collection("services"),
		blackoutColl: db.Collection("blackouts"),
		counterColl:  db.Collection("counterparts"),
	}
}

func (repo *MongoProfessionalRepo) GetByID(id string) (*models.Professional, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var prof models.Professional
	if err := repo.profColl.FindOne(ctx, bson.M{"id": id}).Decode(&prof); err != nil {
		return nil, fmt.Errorf("error fetching professional with id %s: %w", id, err)
	}
	return &prof, nil
}

func (repo *MongoProfessionalRepo) GetByPhone(phoneE164 string) (*models.Professional, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var prof models.Professional
	if err := repo.profColl.FindOne(ctx, bson.M{"phoneE164": phoneE164}).Decode(&prof); err != nil {
		return nil, fmt.Errorf("error fetching professional with phone %s: %w", phoneE164, err)
	}
	return &prof, nil
}

func (repo *MongoProfessionalRepo) ListEnabledServices(professionalID string) ([]models.ServiceOffering, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	filter := bson.M{"professional_id": professionalID, "enabled": true}
	cursor, err := repo.serviceColl.Find(ctx, filter, options.Find().SetSort(bson.M{"name": 1}))
	if err != nil {
		return nil, fmt.Errorf("error fetching services: %w", err)
	}
	defer cursor.Close(ctx)

	var services []models.ServiceOffering
	if err := cursor.All(ctx, &services); err != nil {
		return nil, fmt.Errorf("error decoding services: %w", err)
	}
	return services, nil
}

func (repo *MongoProfessionalRepo) ListBlackoutsInRange(professionalID string, from, to time.Time) ([]models.BlackoutPeriod, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	filter := bson.M{
		"professional_id": professionalID,
		"start_utc":       bson.M{"$lt": to},
		"end_utc":         bson.M{"$gt": from},
	}
	cursor, err := repo.blackoutColl.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("error fetching blackout periods: %w", err)
	}
	defer cursor.Close(ctx)

	var blackouts []models.BlackoutPeriod
	if err := cursor.All(ctx, &blackouts); err != nil {
		return nil, fmt.Errorf("error decoding blackout periods: %w", err)
	}
	return blackouts, nil
}

func (repo *MongoProfessionalRepo) CreateBlackout(b *models.BlackoutPeriod) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if b.ID == "" {
		b.ID = uuid.New().String()
	}
	if _, err := repo.blackoutColl.InsertOne(ctx, b); err != nil {
		return fmt.Errorf("error inserting blackout period: %w", err)
	}
	return nil
}

// GetOrCreateCounterpart registers an unknown counterpart on first contact.
func (repo *MongoProfessionalRepo) GetOrCreateCounterpart(professionalID, phoneE164, fullName string) (*models.Counterpart, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	filter := bson.M{"professional_id": professionalID, "phoneE164": phoneE164}

	var existing models.Counterpart
	err := repo.counterColl.FindOne(ctx, filter).Decode(&existing)
	if err == nil {
		return &existing, nil
	}
	if err != mongo.ErrNoDocuments {
		return nil, fmt.Errorf("error fetching counterpart: %w", err)
	}

	if fullName == "" {
		fullName = "Paciente"
	}
	created := models.Counterpart{
		ID:             uuid.New().String(),
		ProfessionalID: professionalID,
		PhoneE164:      phoneE164,
		FullName:       fullName,
	}
	if _, err := repo.counterColl.InsertOne(ctx, created); err != nil {
		return nil, fmt.Errorf("error inserting counterpart: %w", err)
	}
	return &created, nil
}
