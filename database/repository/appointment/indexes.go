package appointmentRepo

import (
	"context"
	"fmt"
	"time"

	"turnero/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes creates the indexes the booking queries depend on.
func EnsureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db := database.MongoClient.Database(database.DBName)

	_, err := db.Collection("appointments").Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "professional_id", Value: 1}, {Key: "start_utc", Value: 1}}},
		{Keys: bson.D{{Key: "professional_id", Value: 1}, {Key: "status", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("error creating appointment indexes: %w", err)
	}

	_, err = db.Collection("calendar_links").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "appointment_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("error creating calendar link index: %w", err)
	}

	_, err = db.Collection("counterparts").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "professional_id", Value: 1}, {Key: "phoneE164", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("error creating counterpart index: %w", err)
	}
	return nil
}
