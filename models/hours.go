package models

import "time"

// BusinessHours is the weekly open/close window for one weekday.
// Absence of a record for a weekday means the default window applies.
type BusinessHours struct {
	BusinessID string       `bson:"business_id" json:"business_id"`
	Weekday    time.Weekday `bson:"weekday" json:"weekday"`
	OpenMin    int          `bson:"open_min" json:"open_min"`   // minutes from midnight
	CloseMin   int          `bson:"close_min" json:"close_min"` // minutes from midnight
	Open       bool         `bson:"open" json:"open"`
}

// BlockedWindow is an ad-hoc closed interval for one date, independent of
// the weekly hours (holidays, maintenance). Overlapping slots are treated
// as fully occupied regardless of resource pool size.
type BlockedWindow struct {
	ID         string    `bson:"id" json:"id"`
	BusinessID string    `bson:"business_id" json:"business_id"`
	Date       string    `bson:"date" json:"date"` // "2006-01-02"
	StartMin   int       `bson:"start_min" json:"start_min"`
	EndMin     int       `bson:"end_min" json:"end_min"`
	Reason     string    `bson:"reason,omitempty" json:"reason,omitempty"`
	CreatedAt  time.Time `bson:"created_at" json:"created_at"`
}
