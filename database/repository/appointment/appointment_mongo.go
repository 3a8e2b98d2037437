package appointmentRepo

import (
	"context"
	"fmt"
	"time"

	"prescripto/config"
	"prescripto/database"
	"prescripto/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoAppointmentRepo implements AppointmentRepository using MongoDB. It also
// holds the doctors collection so booking and cancellation can update the
// embedded slots_booked map in the same transaction as the appointment write.
type MongoAppointmentRepo struct {
	apptColl   *mongo.Collection
	doctorColl *mongo.Collection
}

// NewMongoAppointmentRepo creates a new instance of AppointmentRepository using MongoDB.
func NewMongoAppointmentRepo() AppointmentRepository {
	db := database.MongoClient.Database(config.AppConfig.DatabaseName)
	repo := &MongoAppointmentRepo{
		apptColl:   db.Collection("appointments"),
		doctorColl: db.Collection("doctors"),
	}

	if err := repo.ensureIndexes(); err != nil {
		fmt.Printf("failed to create indexes: %v\n", err)
	}
	return repo
}

func newContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), timeout)
}

func (r *MongoAppointmentRepo) ensureIndexes() error {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "userId", Value: 1}}},
		{Keys: bson.D{{Key: "docId", Value: 1}}},
	}

	_, err := r.apptColl.Indexes().CreateMany(ctx, indexModels)
	if err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

// GetByID retrieves an appointment by id. Returns (nil, nil) when absent.
func (r *MongoAppointmentRepo) GetByID(id string) (*models.Appointment, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	var appt models.Appointment
	if err := r.apptColl.FindOne(ctx, bson.M{"id": id}).Decode(&appt); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch appointment with id %s: %w", id, err)
	}
	return &appt, nil
}

func (r *MongoAppointmentRepo) find(filter bson.M) ([]models.Appointment, error) {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.apptColl.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve appointments: %w", err)
	}
	defer cursor.Close(ctx)

	var appts []models.Appointment
	if err := cursor.All(ctx, &appts); err != nil {
		return nil, fmt.Errorf("failed to decode appointments: %w", err)
	}
	return appts, nil
}

// GetAll retrieves all appointments, newest first.
func (r *MongoAppointmentRepo) GetAll() ([]models.Appointment, error) {
	return r.find(bson.M{})
}

// GetByUser retrieves a patient's appointments, newest first.
func (r *MongoAppointmentRepo) GetByUser(userID string) ([]models.Appointment, error) {
	return r.find(bson.M{"userId": userID})
}

// GetByDoctor retrieves a doctor's appointments, newest first.
func (r *MongoAppointmentRepo) GetByDoctor(docID string) ([]models.Appointment, error) {
	return r.find(bson.M{"docId": docID})
}

// MarkCompleted sets the isCompleted flag. Completion and cancellation are
// distinct terminal states; a cancelled appointment cannot be completed.
func (r *MongoAppointmentRepo) MarkCompleted(id string) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	filter := bson.M{"id": id, "cancelled": false}
	update := bson.M{"$set": bson.M{"isCompleted": true}}
	result, err := r.apptColl.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to complete appointment %s: %w", id, err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("appointment %s not found or cancelled", id)
	}
	return nil
}

// SetPaymentIntent records the payment order handle for an appointment.
func (r *MongoAppointmentRepo) SetPaymentIntent(id, intentID string) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	update := bson.M{"$set": bson.M{"paymentIntentId": intentID}}
	result, err := r.apptColl.UpdateOne(ctx, bson.M{"id": id}, update)
	if err != nil {
		return fmt.Errorf("failed to set payment intent for appointment %s: %w", id, err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("appointment %s not found", id)
	}
	return nil
}

// MarkPaid sets the payment flag after the payment collaborator confirms settlement.
func (r *MongoAppointmentRepo) MarkPaid(id string) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	update := bson.M{"$set": bson.M{"payment": true}}
	result, err := r.apptColl.UpdateOne(ctx, bson.M{"id": id}, update)
	if err != nil {
		return fmt.Errorf("failed to mark appointment %s paid: %w", id, err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("appointment %s not found", id)
	}
	return nil
}
