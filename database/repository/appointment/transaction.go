package appointmentRepo

import (
	"context"
	"fmt"
	"time"

	"prescripto/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

func (r *MongoAppointmentRepo) runInTransaction(ctx context.Context, txnFn func(sc mongo.SessionContext) error) error {
	client := r.apptColl.Database().Client()
	sess, err := client.StartSession()
	if err != nil {
		return fmt.Errorf("could not start mongo session: %w", err)
	}
	defer sess.EndSession(ctx)

	return mongo.WithSession(ctx, sess, func(sc mongo.SessionContext) error {
		if err := sc.StartTransaction(); err != nil {
			return err
		}
		if err := txnFn(sc); err != nil {
			_ = sc.AbortTransaction(sc)
			return err
		}
		return sc.CommitTransaction(sc)
	})
}

// BookTransactionally inserts the appointment record and reserves the slot in
// the doctor's slots_booked map as one atomic unit. The reserve is a
// conditional update: it matches only while the doctor is available and the
// slot time is absent from the date's list, so of two racing bookings exactly
// one can match. A losing request aborts with ErrSlotUnavailable and leaves no
// appointment behind.
func (r *MongoAppointmentRepo) BookTransactionally(ctx context.Context, appt *models.Appointment) error {
	appt.CreatedAt = time.Now()

	txnFn := func(sc mongo.SessionContext) error {
		if _, err := r.apptColl.InsertOne(sc, appt); err != nil {
			return fmt.Errorf("insert appointment failed: %w", err)
		}

		slotField := "slots_booked." + appt.SlotDate
		filter := bson.M{
			"id":        appt.DocID,
			"available": true,
			slotField:   bson.M{"$ne": appt.SlotTime},
		}
		update := bson.M{
			"$push": bson.M{slotField: appt.SlotTime},
			"$set":  bson.M{"updated_at": time.Now()},
		}

		res, err := r.doctorColl.UpdateOne(sc, filter, update)
		if err != nil {
			return fmt.Errorf("reserve slot failed: %w", err)
		}
		if res.MatchedCount == 0 {
			return ErrSlotUnavailable
		}
		return nil
	}

	if err := r.runInTransaction(ctx, txnFn); err != nil {
		return fmt.Errorf("booking transaction failed: %w", err)
	}
	return nil
}

// CancelTransactionally marks the appointment cancelled and releases the slot
// from the doctor's slots_booked map as one atomic unit. The release $pull is
// a no-op when the time string is already absent. Returns ErrAlreadyCancelled
// without writing anything when the cancelled flag is already set.
func (r *MongoAppointmentRepo) CancelTransactionally(ctx context.Context, appt *models.Appointment) error {
	txnFn := func(sc mongo.SessionContext) error {
		res, err := r.apptColl.UpdateOne(sc,
			bson.M{"id": appt.ID, "cancelled": false},
			bson.M{"$set": bson.M{"cancelled": true}},
		)
		if err != nil {
			return fmt.Errorf("mark cancelled failed: %w", err)
		}
		if res.MatchedCount == 0 {
			return ErrAlreadyCancelled
		}

		slotField := "slots_booked." + appt.SlotDate
		update := bson.M{
			"$pull": bson.M{slotField: appt.SlotTime},
			"$set":  bson.M{"updated_at": time.Now()},
		}
		if _, err := r.doctorColl.UpdateOne(sc, bson.M{"id": appt.DocID}, update); err != nil {
			return fmt.Errorf("release slot failed: %w", err)
		}
		return nil
	}

	if err := r.runInTransaction(ctx, txnFn); err != nil {
		return fmt.Errorf("cancel transaction failed: %w", err)
	}
	return nil
}
