package models

import "time"

// Step is the conversation state. Transitions are strictly forward except
// for the global back and menu commands.
type Step int

const (
	StepMenu Step = iota
	StepViewingServices
	StepSelectingService
	StepSelectingDate
	StepSelectingTime
	StepEnteringName
	StepConfirmingBooking
)

func (s Step) String() string {
	switch s {
	case StepMenu:
		return "menu"
	case StepViewingServices:
		return "viewing_services"
	case StepSelectingService:
		return "selecting_service"
	case StepSelectingDate:
		return "selecting_date"
	case StepSelectingTime:
		return "selecting_time"
	case StepEnteringName:
		return "entering_name"
	case StepConfirmingBooking:
		return "confirming_booking"
	}
	return "unknown"
}

// ServiceChoice is one entry of the numbered service list shown to the
// customer; kept on the session so numeric replies can be resolved later.
type ServiceChoice struct {
	ServiceID string `json:"serviceId"`
	Name      string `json:"name"`
}

// Session holds one customer's in-progress booking conversation. It is
// keyed by customer identity and cached with a TTL, so abandoned
// conversations expire instead of accumulating.
type Session struct {
	CustomerID string `json:"customerId"`
	BusinessID string `json:"businessId"`
	Step       Step   `json:"step"`

	// Selections accumulated across steps.
	ServiceID       string  `json:"serviceId,omitempty"`
	ServiceName     string  `json:"serviceName,omitempty"`
	DurationMin     int     `json:"durationMin,omitempty"`
	Amount          float64 `json:"amount,omitempty"`
	Currency        string  `json:"currency,omitempty"`
	MultiResource   bool    `json:"multiResource,omitempty"`
	RequiresPayment bool    `json:"requiresPayment,omitempty"` // fixed at service selection, never changes mid-flow
	Date            string  `json:"date,omitempty"`
	StartMin        int     `json:"startMin,omitempty"`
	Name            string  `json:"name,omitempty"`

	// Most recently presented numbered lists, for 1-based index replies.
	ShownServices []ServiceChoice `json:"shownServices,omitempty"`
	ShownDates    []string        `json:"shownDates,omitempty"`
	ShownTimes    []int           `json:"shownTimes,omitempty"`

	CreatedAt  time.Time `json:"createdAt"`
	LastActive time.Time `json:"lastActive"`
}

// ClearSelections drops everything accumulated after the menu.
func (s *Session) ClearSelections() {
	s.ServiceID = ""
	s.ServiceName = ""
	s.DurationMin = 0
	s.Amount = 0
	s.Currency = ""
	s.MultiResource = false
	s.RequiresPayment = false
	s.Date = ""
	s.StartMin = 0
	s.Name = ""
	s.ShownServices = nil
	s.ShownDates = nil
	s.ShownTimes = nil
}
