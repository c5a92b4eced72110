package scheduling

import (
	"context"
	"time"

	bookingRepo "turnero/database/repository/booking"
	catalogRepo "turnero/database/repository/catalog"
	"turnero/models"

	"go.uber.org/zap"
)

const dateLayout = "2006-01-02"

// Calendar computes which grid-aligned slot starts are actually bookable for
// a service on a date, given weekly hours, existing bookings, blocked
// windows and the resource pool size.
type Calendar struct {
	Catalog     catalogRepo.CatalogRepository
	Bookings    bookingRepo.BookingRepository
	IntervalMin int
	DefaultOpen int // minutes from midnight, used when no hours record exists
	DefaultClose int
	Location    *time.Location
	Now         func() time.Time
	Logger      *zap.Logger
}

func (c *Calendar) now() time.Time {
	if c.Now != nil {
		return c.Now().In(c.location())
	}
	return time.Now().In(c.location())
}

func (c *Calendar) location() *time.Location {
	if c.Location != nil {
		return c.Location
	}
	return time.Local
}

// AvailableSlots returns the ordered bookable slot starts (minutes from
// midnight) for the service on the given date. Deterministic for a fixed
// snapshot of the underlying data; an unconfigured weekday falls back to the
// default window, an explicitly closed one yields an empty result.
func (c *Calendar) AvailableSlots(ctx context.Context, businessID string, svc *models.Service, date string, poolSize int) ([]int, error) {
	day, err := time.ParseInLocation(dateLayout, date, c.location())
	if err != nil {
		return nil, models.NewValidationError("date", "expected YYYY-MM-DD")
	}
	if poolSize < 1 {
		poolSize = 1
	}

	openMin, closeMin, open, err := c.resolveWindow(ctx, businessID, day.Weekday())
	if err != nil {
		return nil, err
	}
	if !open {
		return nil, nil
	}

	grid := BuildGrid(openMin, closeMin, c.IntervalMin, svc.DurationMin)
	if len(grid) == 0 {
		return nil, nil
	}

	bookings, err := c.Bookings.GetForServiceAndDate(ctx, svc.ID, date)
	if err != nil {
		return nil, err
	}
	blocks, err := c.Catalog.GetBlockedWindows(ctx, businessID, date)
	if err != nil {
		return nil, err
	}

	occupancy := CountOccupancy(grid, svc.DurationMin, bookings, blocks, poolSize)
	available := FilterAvailable(grid, occupancy, poolSize)

	// For today, anything at or before the current time is gone.
	now := c.now()
	if date == now.Format(dateLayout) {
		nowMin := now.Hour()*60 + now.Minute()
		filtered := available[:0]
		for _, start := range available {
			if start > nowMin {
				filtered = append(filtered, start)
			}
		}
		available = filtered
	}
	return available, nil
}

// IsSlotAvailable checks a single candidate slot. It is deliberately not
// cached across conversation turns: other customers may book in the interim,
// so the engine re-invokes it at confirmation time.
func (c *Calendar) IsSlotAvailable(ctx context.Context, businessID string, svc *models.Service, date string, startMin, poolSize int) (bool, error) {
	if startMin < 0 || startMin >= 24*60 {
		return false, models.NewValidationError("time", "out of range")
	}
	slots, err := c.AvailableSlots(ctx, businessID, svc, date, poolSize)
	if err != nil {
		return false, err
	}
	for _, s := range slots {
		if s == startMin {
			return true, nil
		}
	}
	return false, nil
}

// DatePreview returns the dates within the next `days` days (today included)
// that still have at least one bookable slot. Used to pre-seed the date
// selection step right after a service is chosen.
func (c *Calendar) DatePreview(ctx context.Context, businessID string, svc *models.Service, poolSize, days int) ([]string, error) {
	if days <= 0 {
		days = 7
	}
	now := c.now()
	var dates []string
	for offset := 0; offset < days; offset++ {
		date := now.AddDate(0, 0, offset).Format(dateLayout)
		slots, err := c.AvailableSlots(ctx, businessID, svc, date, poolSize)
		if err != nil {
			return nil, err
		}
		if len(slots) > 0 {
			dates = append(dates, date)
		}
	}
	return dates, nil
}

func (c *Calendar) resolveWindow(ctx context.Context, businessID string, weekday time.Weekday) (openMin, closeMin int, open bool, err error) {
	hours, err := c.Catalog.GetBusinessHours(ctx, businessID, weekday)
	if err != nil {
		return 0, 0, false, err
	}
	if hours == nil {
		return c.DefaultOpen, c.DefaultClose, true, nil
	}
	if !hours.Open {
		return 0, 0, false, nil
	}
	return hours.OpenMin, hours.CloseMin, true, nil
}
