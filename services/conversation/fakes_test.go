package conversation

import (
	"context"
	"fmt"
	"sync"
	"time"

	"turnero/models"
)

// In-memory collaborators for engine tests. The booking fake keeps the same
// overlap semantics as the Mongo implementation so commit races can be
// exercised without a database.

type fakeCatalog struct {
	services     []models.Service
	units        map[string][]models.ResourceUnit
	hours        map[time.Weekday]models.BusinessHours
	blocks       []models.BlockedWindow
	failServices bool
}

func newFakeCatalog(services ...models.Service) *fakeCatalog {
	return &fakeCatalog{
		services: services,
		units:    make(map[string][]models.ResourceUnit),
		hours:    make(map[time.Weekday]models.BusinessHours),
	}
}

func (f *fakeCatalog) GetServiceByID(ctx context.Context, serviceID string) (*models.Service, error) {
	for _, svc := range f.services {
		if svc.ID == serviceID {
			s := svc
			return &s, nil
		}
	}
	return nil, models.NewNotFoundError("service", serviceID)
}

func (f *fakeCatalog) GetActiveServices(ctx context.Context, businessID string) ([]models.Service, error) {
	if f.failServices {
		return nil, models.NewStorageError("find services", fmt.Errorf("connection reset"))
	}
	var out []models.Service
	for _, svc := range f.services {
		if svc.Active {
			out = append(out, svc)
		}
	}
	return out, nil
}

func (f *fakeCatalog) GetActiveResourceUnits(ctx context.Context, serviceID string) ([]models.ResourceUnit, error) {
	return f.units[serviceID], nil
}

func (f *fakeCatalog) GetBusinessHours(ctx context.Context, businessID string, weekday time.Weekday) (*models.BusinessHours, error) {
	h, ok := f.hours[weekday]
	if !ok {
		return nil, nil
	}
	return &h, nil
}

func (f *fakeCatalog) GetBlockedWindows(ctx context.Context, businessID, date string) ([]models.BlockedWindow, error) {
	var out []models.BlockedWindow
	for _, w := range f.blocks {
		if w.Date == date {
			out = append(out, w)
		}
	}
	return out, nil
}

type fakeBookings struct {
	mu       sync.Mutex
	bookings []models.Booking
	nextID   int

	// forceConflicts makes the next N CreateAtomic calls lose the race
	// regardless of actual occupancy.
	forceConflicts int
}

func (f *fakeBookings) GetByID(ctx context.Context, bookingID string) (*models.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.bookings {
		if f.bookings[i].ID == bookingID {
			b := f.bookings[i]
			return &b, nil
		}
	}
	return nil, models.NewNotFoundError("booking", bookingID)
}

func (f *fakeBookings) GetForServiceAndDate(ctx context.Context, serviceID, date string) ([]models.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Booking
	for _, b := range f.bookings {
		if b.ServiceID == serviceID && b.Date == date && isNonTerminal(b.Status) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakeBookings) CreateAtomic(ctx context.Context, draft models.BookingDraft, poolSize int) (*models.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.forceConflicts > 0 {
		f.forceConflicts--
		return nil, models.NewConflictError("slot already taken")
	}

	end := draft.StartMin + draft.DurationMin
	count := 0
	for _, b := range f.bookings {
		if b.ServiceID != draft.ServiceID || b.Date != draft.Date || !isNonTerminal(b.Status) {
			continue
		}
		if !b.Overlaps(draft.StartMin, end) {
			continue
		}
		if draft.ResourceUnitID != "" && b.ResourceUnitID == draft.ResourceUnitID {
			return nil, models.NewConflictError("unit already taken")
		}
		count++
	}
	if count >= poolSize {
		return nil, models.NewConflictError("slot already taken")
	}

	f.nextID++
	status := models.BookingConfirmed
	paymentStatus := models.PaymentUnpaid
	if draft.RequiresPayment {
		status = models.BookingPendingPayment
		paymentStatus = models.PaymentPending
	}
	b := models.Booking{
		ID:             fmt.Sprintf("bk-%d", f.nextID),
		BusinessID:     draft.BusinessID,
		ServiceID:      draft.ServiceID,
		CustomerID:     draft.CustomerID,
		CustomerName:   draft.CustomerName,
		Date:           draft.Date,
		StartMin:       draft.StartMin,
		DurationMin:    draft.DurationMin,
		ResourceUnitID: draft.ResourceUnitID,
		Status:         status,
		PaymentStatus:  paymentStatus,
		Amount:         draft.Amount,
		Currency:       draft.Currency,
	}
	f.bookings = append(f.bookings, b)
	return &b, nil
}

func (f *fakeBookings) UpdatePaymentOutcome(ctx context.Context, bookingID string, outcome models.PaymentOutcome) (*models.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.bookings {
		if f.bookings[i].ID != bookingID {
			continue
		}
		if outcome == models.OutcomeApproved {
			f.bookings[i].Status = models.BookingConfirmed
			f.bookings[i].PaymentStatus = models.PaymentApproved
		} else {
			f.bookings[i].PaymentStatus = string(outcome)
		}
		b := f.bookings[i]
		return &b, nil
	}
	return nil, models.NewNotFoundError("booking", bookingID)
}

func isNonTerminal(status string) bool {
	for _, s := range models.NonTerminalStatuses {
		if s == status {
			return true
		}
	}
	return false
}

type recordingSender struct {
	mu   sync.Mutex
	msgs []string
}

func (s *recordingSender) Send(ctx context.Context, customerID, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.msgs = append(s.msgs, text)
	return nil
}

func (s *recordingSender) last() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.msgs) == 0 {
		return ""
	}
	return s.msgs[len(s.msgs)-1]
}

type fakeLinker struct {
	url   string
	err   error
	calls int
}

func (f *fakeLinker) CreatePaymentLink(ctx context.Context, booking *models.Booking, svc *models.Service) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.url, nil
}

type fakeReminders struct {
	scheduled []string
}

func (f *fakeReminders) ScheduleReminder(ctx context.Context, booking *models.Booking) error {
	f.scheduled = append(f.scheduled, booking.ID)
	return nil
}
