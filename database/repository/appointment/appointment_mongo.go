package appointmentRepo

import (
	"context"
	"fmt"
	"time"

	"turnero/database"
	"turnero/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoAppointmentRepo implements AppointmentRepository using MongoDB.
type MongoAppointmentRepo struct {
	client       *mongo.Client
	apptColl     *mongo.Collection
	blackoutColl *mongo.Collection
	linkColl     *mongo.Collection
}

// NewMongoAppointmentRepo constructs a new instance of MongoAppointmentRepo.
func NewMongoAppointmentRepo() AppointmentRepository {
	db := database.MongoClient.Database(database.DBName)
	return &MongoAppointmentRepo{
		client:       database.MongoClient,
		apptColl:     db.Collection("appointments"),
		blackoutColl: db.Collection("blackouts"),
		linkColl:     db.Collection("calendar_links"),
	}
}

// overlapFilter matches non-cancelled appointments intersecting [start, end).
func overlapFilter(professionalID string, start, end time.Time) bson.M {
	return bson.M{
		"professional_id": professionalID,
		"status":          bson.M{"$ne": models.StatusCancelled},
		"start_utc":       bson.M{"$lt": end},
		"end_utc":         bson.M{"$gt": start},
	}
}

// InsertIfFree re-checks the interval against appointments and blackouts and
// inserts inside one transaction. Two concurrent commits for the same
// interval cannot both pass the check.
func (repo *MongoAppointmentRepo) InsertIfFree(ctx context.Context, appt *models.Appointment) error {
	session, err := repo.client.StartSession()
	if err != nil {
		return fmt.Errorf("error starting session: %w", err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		taken, err := repo.apptColl.CountDocuments(sc, overlapFilter(appt.ProfessionalID, appt.StartUTC, appt.EndUTC))
		if err != nil {
			return nil, fmt.Errorf("error checking appointment overlap: %w", err)
		}
		if taken > 0 {
			return nil, ErrSlotTaken
		}

		blocked, err := repo.blackoutColl.CountDocuments(sc, bson.M{
			"professional_id": appt.ProfessionalID,
			"start_utc":       bson.M{"$lt": appt.EndUTC},
			"end_utc":         bson.M{"$gt": appt.StartUTC},
		})
		if err != nil {
			return nil, fmt.Errorf("error checking blackout overlap: %w", err)
		}
		if blocked > 0 {
			return nil, ErrSlotTaken
		}

		if _, err := repo.apptColl.InsertOne(sc, appt); err != nil {
			return nil, fmt.Errorf("error inserting appointment: %w", err)
		}
		return nil, nil
	})
	return err
}

func (repo *MongoAppointmentRepo) GetByID(id, professionalID string) (*models.Appointment, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var appt models.Appointment
	filter := bson.M{"id": id, "professional_id": professionalID}
	if err := repo.apptColl.FindOne(ctx, filter).Decode(&appt); err != nil {
		return nil, fmt.Errorf("error fetching appointment %s: %w", id, err)
	}
	return &appt, nil
}

func (repo *MongoAppointmentRepo) ListConfirmedEndingAfter(professionalID string, after time.Time) ([]models.Appointment, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	filter := bson.M{
		"professional_id": professionalID,
		"status":          models.StatusConfirmed,
		"end_utc":         bson.M{"$gt": after},
	}
	cursor, err := repo.apptColl.Find(ctx, filter, options.Find().SetSort(bson.M{"start_utc": 1}))
	if err != nil {
		return nil, fmt.Errorf("error fetching appointments: %w", err)
	}
	defer cursor.Close(ctx)

	var appts []models.Appointment
	if err := cursor.All(ctx, &appts); err != nil {
		return nil, fmt.Errorf("error decoding appointments: %w", err)
	}
	return appts, nil
}

func (repo *MongoAppointmentRepo) ListByStatus(professionalID string, status models.AppointmentStatus) ([]models.Appointment, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	filter := bson.M{"professional_id": professionalID, "status": status}
	cursor, err := repo.apptColl.Find(ctx, filter, options.Find().SetSort(bson.M{"start_utc": 1}))
	if err != nil {
		return nil, fmt.Errorf("error fetching appointments by status: %w", err)
	}
	defer cursor.Close(ctx)

	var appts []models.Appointment
	if err := cursor.All(ctx, &appts); err != nil {
		return nil, fmt.Errorf("error decoding appointments: %w", err)
	}
	return appts, nil
}

// UpdateStatus changes an appointment's status and optionally appends to its
// notes. Cancellation goes through here; rows are never removed.
func (repo *MongoAppointmentRepo) UpdateStatus(id, professionalID string, status models.AppointmentStatus, note string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	filter := bson.M{"id": id, "professional_id": professionalID}
	set := bson.M{"status": status}
	if note != "" {
		set["notes"] = note
	}
	update := bson.M{"$set": set}

	res, err := repo.apptColl.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("error updating appointment %s: %w", id, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("appointment %s not found: %w", id, mongo.ErrNoDocuments)
	}
	return nil
}

// ConfirmWithTerms confirms an appointment and records the agreed terms in
// one update. Nil price and empty modality leave the stored values alone.
func (repo *MongoAppointmentRepo) ConfirmWithTerms(id, professionalID string, price *float64, modality models.Modality, note string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	filter := bson.M{"id": id, "professional_id": professionalID}
	set := bson.M{"status": models.StatusConfirmed}
	if price != nil {
		set["price"] = *price
	}
	if modality != "" {
		set["modality"] = modality
	}
	if note != "" {
		set["notes"] = note
	}

	res, err := repo.apptColl.UpdateOne(ctx, filter, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("error confirming appointment %s: %w", id, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("appointment %s not found: %w", id, mongo.ErrNoDocuments)
	}
	return nil
}

func (repo *MongoAppointmentRepo) GetCalendarLink(appointmentID string) (*models.CalendarLink, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var link models.CalendarLink
	err := repo.linkColl.FindOne(ctx, bson.M{"appointment_id": appointmentID}).Decode(&link)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error fetching calendar link: %w", err)
	}
	return &link, nil
}

func (repo *MongoAppointmentRepo) SaveCalendarLink(link *models.CalendarLink) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	filter := bson.M{"appointment_id": link.AppointmentID}
	update := bson.M{"$setOnInsert": link}
	if _, err := repo.linkColl.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true)); err != nil {
		return fmt.Errorf("error saving calendar link: %w", err)
	}
	return nil
}

func (repo *MongoAppointmentRepo) RecordSyncError(appointmentID, provider, message string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	filter := bson.M{"appointment_id": appointmentID}
	update := bson.M{
		"$set":         bson.M{"sync_error": message, "provider": provider},
		"$setOnInsert": bson.M{"appointment_id": appointmentID, "created_at": time.Now().UTC()},
	}
	if _, err := repo.linkColl.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true)); err != nil {
		return fmt.Errorf("error recording sync error: %w", err)
	}
	return nil
}
