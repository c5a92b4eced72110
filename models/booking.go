package models

import "time"

// Booking statuses. Non-terminal statuses hold capacity against the slot.
const (
	BookingPending        = "pending"
	BookingPendingPayment = "pending_payment"
	BookingConfirmed      = "confirmed"
	BookingCancelled      = "cancelled"
	BookingCompleted      = "completed"
)

// NonTerminalStatuses are the statuses that still occupy a slot.
var NonTerminalStatuses = []string{BookingPending, BookingPendingPayment, BookingConfirmed}

// Payment statuses recorded on a booking.
const (
	PaymentUnpaid   = "unpaid"
	PaymentPending  = "pending"
	PaymentApproved = "approved"
	PaymentRejected = "rejected"
)

// PaymentOutcome is what the payment collaborator reports back for a booking.
type PaymentOutcome string

const (
	OutcomeApproved PaymentOutcome = "approved"
	OutcomePending  PaymentOutcome = "pending"
	OutcomeRejected PaymentOutcome = "rejected"
)

// Booking is the persisted record of an appointment.
type Booking struct {
	ID             string    `bson:"id" json:"id"`
	BusinessID     string    `bson:"business_id" json:"business_id"`
	ServiceID      string    `bson:"service_id" json:"service_id"`
	CustomerID     string    `bson:"customer_id" json:"customer_id"` // channel identity, e.g. phone number
	CustomerName   string    `bson:"customer_name" json:"customer_name"`
	Date           string    `bson:"date" json:"date"`           // "2006-01-02"
	StartMin       int       `bson:"start_min" json:"start_min"` // minutes from midnight
	DurationMin    int       `bson:"duration_min" json:"duration_min"`
	ResourceUnitID string    `bson:"resource_unit_id,omitempty" json:"resource_unit_id,omitempty"` // empty for single-resource services
	Status         string    `bson:"status" json:"status"`
	PaymentStatus  string    `bson:"payment_status" json:"payment_status"`
	Amount         float64   `bson:"amount" json:"amount"`
	Currency       string    `bson:"currency" json:"currency"`
	CreatedAt      time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt      time.Time `bson:"updated_at" json:"updated_at"`
}

// EndMin returns the exclusive end of the occupied interval.
func (b Booking) EndMin() int {
	return b.StartMin + b.DurationMin
}

// Overlaps reports whether the booking's interval intersects [startMin, endMin).
func (b Booking) Overlaps(startMin, endMin int) bool {
	return b.StartMin < endMin && startMin < b.EndMin()
}

// BookingDraft carries everything needed for the atomic check-and-insert.
type BookingDraft struct {
	BusinessID      string
	ServiceID       string
	CustomerID      string
	CustomerName    string
	Date            string
	StartMin        int
	DurationMin     int
	ResourceUnitID  string
	Amount          float64
	Currency        string
	RequiresPayment bool
}
