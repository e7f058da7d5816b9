package conversationRepo

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

// ConversationRepository logs conversation turns per professional/counterpart.
type ConversationRepository interface {
	LogMessage(m *models.Message) error
	ListRecent(professionalID, counterpartID string, limit int64) ([]models.Message, error)
}

// MongoConversationRepo implements ConversationRepository using MongoDB.
type MongoConversationRepo struct {
	msgColl *mongo.Collection
}

func NewMongoConversationRepo() ConversationRepository {
	db := database.MongoClient.Database(database.DBName)
	return &MongoConversationRepo{msgColl: db.Collection("messages")}
}

func (repo *MongoConversationRepo) LogMessage(m *models.Message) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	if m.SentUTC.IsZero() {
		m.SentUTC = time.Now().UTC()
	}
	if _, err := repo.msgColl.InsertOne(ctx, m); err != nil {
		return fmt.Errorf("error inserting message: %w", err)
	}
	return nil
}

func (repo *MongoConversationRepo) ListRecent(professionalID, counterpartID string, limit int64) ([]models.Message, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	filter := bson.M{"professional_id": professionalID, "counterpart_id": counterpartID}
	opts := options.Find().SetSort(bson.M{"sent_utc": -1}).SetLimit(limit)
	cursor, err := repo.msgColl.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("error fetching messages: %w", err)
	}
	defer cursor.Close(ctx)

	var msgs []models.Message
	if err := cursor.All(ctx, &msgs); err != nil {
		return nil, fmt.Errorf("error decoding messages: %w", err)
	}
	return msgs, nil
}
