package models

// Service is a bookable offering configured by the business through the
// admin surface. Read-only to the booking core.
type Service struct {
	ID              string  `bson:"id" json:"id"`
	BusinessID      string  `bson:"business_id" json:"business_id"`
	Name            string  `bson:"name" json:"name"`
	DurationMin     int     `bson:"duration_min" json:"duration_min"`   // appointment length in minutes
	Price           float64 `bson:"price" json:"price"`                 // price per booking
	Currency        string  `bson:"currency" json:"currency"`           // ISO code, e.g. "ARS"
	MultiResource   bool    `bson:"multi_resource" json:"multi_resource"`
	RequiresPayment bool    `bson:"requires_payment" json:"requires_payment"`
	Active          bool    `bson:"active" json:"active"`
}

// ResourceUnit is one interchangeable capacity item backing a service
// (a court, a chair, a room). A single-resource service behaves as if it
// had exactly one implicit unit.
type ResourceUnit struct {
	ID           string `bson:"id" json:"id"`
	ServiceID    string `bson:"service_id" json:"service_id"`
	Name         string `bson:"name" json:"name"`
	DisplayOrder int    `bson:"display_order" json:"display_order"`
	Active       bool   `bson:"active" json:"active"`
}
