// File: database/repository/booking/booking_mongo.go
package bookingRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"turnero/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (r *mongoBookingRepo) GetByID(ctx context.Context, bookingID string) (*models.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var booking models.Booking
	err := r.coll.FindOne(ctx, bson.M{"id": bookingID}).Decode(&booking)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, models.NewNotFoundError("booking", bookingID)
	}
	if err != nil {
		return nil, models.NewStorageError("get booking", err)
	}
	return &booking, nil
}

func (r *mongoBookingRepo) GetForServiceAndDate(ctx context.Context, serviceID, date string) ([]models.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"service_id": serviceID,
		"date":       date,
		"status":     bson.M{"$in": models.NonTerminalStatuses},
	}
	opts := options.Find().SetSort(bson.D{{Key: "start_min", Value: 1}})
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, models.NewStorageError("list bookings", err)
	}
	defer cursor.Close(ctx)

	var bookings []models.Booking
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, models.NewStorageError("decode bookings", err)
	}
	return bookings, nil
}

// CreateAtomic recounts overlapping non-terminal bookings inside a Mongo
// transaction and inserts only when the capacity invariant still holds.
// Two concurrent creators for the last free unit serialize here; the loser
// gets a ConflictError.
func (r *mongoBookingRepo) CreateAtomic(ctx context.Context, draft models.BookingDraft, poolSize int) (*models.Booking, error) {
	if poolSize < 1 {
		poolSize = 1
	}

	booking := models.Booking{
		ID:             uuid.New().String(),
		BusinessID:     draft.BusinessID,
		ServiceID:      draft.ServiceID,
		CustomerID:     draft.CustomerID,
		CustomerName:   draft.CustomerName,
		Date:           draft.Date,
		StartMin:       draft.StartMin,
		DurationMin:    draft.DurationMin,
		ResourceUnitID: draft.ResourceUnitID,
		Amount:         draft.Amount,
		Currency:       draft.Currency,
		CreatedAt:      time.Now(),
		UpdatedAt:      time.Now(),
	}
	if draft.RequiresPayment {
		booking.Status = models.BookingPendingPayment
		booking.PaymentStatus = models.PaymentPending
	} else {
		booking.Status = models.BookingConfirmed
		booking.PaymentStatus = models.PaymentUnpaid
	}

	sess, err := r.client.StartSession()
	if err != nil {
		return nil, models.NewStorageError("start session", err)
	}
	defer sess.EndSession(ctx)

	txnFn := func(sc mongo.SessionContext) (interface{}, error) {
		filter := bson.M{
			"service_id": draft.ServiceID,
			"date":       draft.Date,
			"status":     bson.M{"$in": models.NonTerminalStatuses},
			"start_min":  bson.M{"$lt": draft.StartMin + draft.DurationMin},
			"$expr": bson.M{"$gt": bson.A{
				bson.M{"$add": bson.A{"$start_min", "$duration_min"}},
				draft.StartMin,
			}},
		}
		if draft.ResourceUnitID != "" {
			// Multi-resource: the chosen unit must still be free.
			filter["resource_unit_id"] = draft.ResourceUnitID
			n, err := r.coll.CountDocuments(sc, filter)
			if err != nil {
				return nil, fmt.Errorf("count unit overlaps: %w", err)
			}
			if n > 0 {
				return nil, models.NewConflictError(
					fmt.Sprintf("unit %s already booked for %s %s", draft.ResourceUnitID, draft.Date, timeLabel(draft.StartMin)))
			}
		} else {
			n, err := r.coll.CountDocuments(sc, filter)
			if err != nil {
				return nil, fmt.Errorf("count overlaps: %w", err)
			}
			if int(n) >= poolSize {
				return nil, models.NewConflictError(
					fmt.Sprintf("slot %s %s already at capacity", draft.Date, timeLabel(draft.StartMin)))
			}
		}

		if _, err := r.coll.InsertOne(sc, booking); err != nil {
			return nil, fmt.Errorf("insert booking: %w", err)
		}
		return nil, nil
	}

	if _, err := sess.WithTransaction(ctx, txnFn); err != nil {
		var conflict *models.ConflictError
		if errors.As(err, &conflict) {
			return nil, err
		}
		return nil, models.NewStorageError("create booking", err)
	}
	return &booking, nil
}

func (r *mongoBookingRepo) UpdatePaymentOutcome(ctx context.Context, bookingID string, outcome models.PaymentOutcome) (*models.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	update := bson.M{"updated_at": time.Now()}
	switch outcome {
	case models.OutcomeApproved:
		update["status"] = models.BookingConfirmed
		update["payment_status"] = models.PaymentApproved
	case models.OutcomePending:
		update["status"] = models.BookingPendingPayment
		update["payment_status"] = models.PaymentPending
	case models.OutcomeRejected:
		// Kept open for retry, not auto-cancelled.
		update["status"] = models.BookingPendingPayment
		update["payment_status"] = models.PaymentRejected
	default:
		return nil, models.NewValidationError("outcome", fmt.Sprintf("unknown payment outcome %q", outcome))
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var booking models.Booking
	err := r.coll.FindOneAndUpdate(ctx, bson.M{"id": bookingID}, bson.M{"$set": update}, opts).Decode(&booking)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, models.NewNotFoundError("booking", bookingID)
	}
	if err != nil {
		return nil, models.NewStorageError("update payment outcome", err)
	}
	return &booking, nil
}

func timeLabel(min int) string {
	return fmt.Sprintf("%02d:%02d", min/60, min%60)
}
