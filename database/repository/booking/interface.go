// File: database/repository/booking/interface.go
package bookingRepo

import (
	"context"
	"log"

	"turnero/database"
	"turnero/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// BookingRepository is the booking ledger: the persisted record and status
// lifecycle of bookings. CreateAtomic is the authoritative overlap guard
// beneath the engine's advisory availability re-check.
type BookingRepository interface {
	GetByID(ctx context.Context, bookingID string) (*models.Booking, error)
	// GetForServiceAndDate returns bookings in non-terminal statuses only.
	GetForServiceAndDate(ctx context.Context, serviceID, date string) ([]models.Booking, error)
	// CreateAtomic re-validates non-overlap and inserts in a single
	// transaction relative to other concurrent creators. poolSize is the
	// number of interchangeable units backing the service (1 for
	// single-resource). Returns models.ConflictError when the slot or the
	// assigned unit was taken in the meantime.
	CreateAtomic(ctx context.Context, draft models.BookingDraft, poolSize int) (*models.Booking, error)
	// UpdatePaymentOutcome maps a payment collaborator outcome onto the
	// booking status: approved confirms, pending and rejected both leave
	// the booking open in pending_payment (rejected stays retryable).
	UpdatePaymentOutcome(ctx context.Context, bookingID string, outcome models.PaymentOutcome) (*models.Booking, error)
}

type mongoBookingRepo struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// NewMongoBookingRepo constructs a new MongoDB BookingRepository.
func NewMongoBookingRepo() BookingRepository {
	r := &mongoBookingRepo{
		client: database.MongoClient,
		coll:   database.DB().Collection("bookings"),
	}
	if err := r.EnsureIndexes(); err != nil {
		log.Printf("booking repo: failed to ensure indexes: %v", err)
	}
	return r
}
