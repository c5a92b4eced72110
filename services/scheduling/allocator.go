package scheduling

import (
	"context"
	"sort"

	bookingRepo "turnero/database/repository/booking"
	catalogRepo "turnero/database/repository/catalog"
	"turnero/models"
)

// Allocator decides which interchangeable resource unit backs a new booking
// for a multi-resource service.
type Allocator struct {
	Catalog  catalogRepo.CatalogRepository
	Bookings bookingRepo.BookingRepository
}

// AssignUnit picks, among the service's active units not already referenced
// by a non-terminal booking overlapping the requested slot, the one with the
// lowest display order, ties broken by name. The ordering is a documented
// policy, not incidental: it keeps "Unit 1" preferentially filled first so
// operational reports stay readable. Returns (nil, nil) when every unit is
// taken; the caller treats that exactly like an unavailable slot.
func (a *Allocator) AssignUnit(ctx context.Context, svc *models.Service, date string, startMin int) (*models.ResourceUnit, error) {
	units, err := a.Catalog.GetActiveResourceUnits(ctx, svc.ID)
	if err != nil {
		return nil, err
	}
	if len(units) == 0 {
		return nil, nil
	}
	sort.Slice(units, func(i, j int) bool {
		if units[i].DisplayOrder != units[j].DisplayOrder {
			return units[i].DisplayOrder < units[j].DisplayOrder
		}
		return units[i].Name < units[j].Name
	})

	bookings, err := a.Bookings.GetForServiceAndDate(ctx, svc.ID, date)
	if err != nil {
		return nil, err
	}
	endMin := startMin + svc.DurationMin
	busy := make(map[string]bool, len(bookings))
	for _, b := range bookings {
		if b.ResourceUnitID != "" && b.Overlaps(startMin, endMin) {
			busy[b.ResourceUnitID] = true
		}
	}

	for i := range units {
		if !busy[units[i].ID] {
			return &units[i], nil
		}
	}
	return nil, nil
}

// PoolSize returns the number of units the availability math should assume
// for the service: the active unit count for multi-resource services, one
// otherwise.
func (a *Allocator) PoolSize(ctx context.Context, svc *models.Service) (int, error) {
	if !svc.MultiResource {
		return 1, nil
	}
	units, err := a.Catalog.GetActiveResourceUnits(ctx, svc.ID)
	if err != nil {
		return 0, err
	}
	if len(units) == 0 {
		return 1, nil
	}
	return len(units), nil
}
