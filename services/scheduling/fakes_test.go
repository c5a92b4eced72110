package scheduling

import (
	"context"
	"time"

	"turnero/models"
)

// In-memory repository stand-ins for calendar and allocator tests.

type fakeCatalog struct {
	services map[string]models.Service
	units    map[string][]models.ResourceUnit
	hours    map[time.Weekday]models.BusinessHours
	blocks   []models.BlockedWindow
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{
		services: make(map[string]models.Service),
		units:    make(map[string][]models.ResourceUnit),
		hours:    make(map[time.Weekday]models.BusinessHours),
	}
}

func (f *fakeCatalog) GetServiceByID(ctx context.Context, serviceID string) (*models.Service, error) {
	svc, ok := f.services[serviceID]
	if !ok {
		return nil, models.NewNotFoundError("service", serviceID)
	}
	return &svc, nil
}

func (f *fakeCatalog) GetActiveServices(ctx context.Context, businessID string) ([]models.Service, error) {
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
	bookings []models.Booking
}

func (f *fakeBookings) GetByID(ctx context.Context, bookingID string) (*models.Booking, error) {
	for i := range f.bookings {
		if f.bookings[i].ID == bookingID {
			b := f.bookings[i]
			return &b, nil
		}
	}
	return nil, models.NewNotFoundError("booking", bookingID)
}

func (f *fakeBookings) GetForServiceAndDate(ctx context.Context, serviceID, date string) ([]models.Booking, error) {
	var out []models.Booking
	for _, b := range f.bookings {
		if b.ServiceID == serviceID && b.Date == date && nonTerminal(b.Status) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakeBookings) CreateAtomic(ctx context.Context, draft models.BookingDraft, poolSize int) (*models.Booking, error) {
	b := models.Booking{
		ID:          "fake-id",
		ServiceID:   draft.ServiceID,
		Date:        draft.Date,
		StartMin:    draft.StartMin,
		DurationMin: draft.DurationMin,
		Status:      models.BookingConfirmed,
	}
	f.bookings = append(f.bookings, b)
	return &b, nil
}

func (f *fakeBookings) UpdatePaymentOutcome(ctx context.Context, bookingID string, outcome models.PaymentOutcome) (*models.Booking, error) {
	return f.GetByID(ctx, bookingID)
}

func nonTerminal(status string) bool {
	for _, s := range models.NonTerminalStatuses {
		if s == status {
			return true
		}
	}
	return false
}
