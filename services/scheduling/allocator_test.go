package scheduling

import (
	"context"
	"testing"

	"turnero/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func courtService() *models.Service {
	return &models.Service{
		ID:            "svc-court",
		BusinessID:    "biz-1",
		Name:          "Cancha",
		DurationMin:   60,
		MultiResource: true,
		Active:        true,
	}
}

func courtCatalog() *fakeCatalog {
	cat := newFakeCatalog()
	cat.units["svc-court"] = []models.ResourceUnit{
		{ID: "u2", ServiceID: "svc-court", Name: "Cancha 2", DisplayOrder: 2, Active: true},
		{ID: "u1", ServiceID: "svc-court", Name: "Cancha 1", DisplayOrder: 1, Active: true},
	}
	return cat
}

func TestAssignUnitPrefersLowestDisplayOrder(t *testing.T) {
	alloc := &Allocator{Catalog: courtCatalog(), Bookings: &fakeBookings{}}

	unit, err := alloc.AssignUnit(context.Background(), courtService(), "2026-03-02", 10*60)
	require.NoError(t, err)
	require.NotNil(t, unit)
	assert.Equal(t, "u1", unit.ID)
}

func TestAssignUnitSkipsBusyUnit(t *testing.T) {
	book := &fakeBookings{bookings: []models.Booking{
		{ServiceID: "svc-court", Date: "2026-03-02", StartMin: 10 * 60, DurationMin: 60, ResourceUnitID: "u1", Status: models.BookingConfirmed},
	}}
	alloc := &Allocator{Catalog: courtCatalog(), Bookings: book}

	unit, err := alloc.AssignUnit(context.Background(), courtService(), "2026-03-02", 10*60)
	require.NoError(t, err)
	require.NotNil(t, unit)
	assert.Equal(t, "u2", unit.ID)
}

func TestAssignUnitConsidersPartialOverlap(t *testing.T) {
	// A booking 09:30-10:30 on u1 makes u1 busy for a 10:00-11:00 request.
	book := &fakeBookings{bookings: []models.Booking{
		{ServiceID: "svc-court", Date: "2026-03-02", StartMin: 9*60 + 30, DurationMin: 60, ResourceUnitID: "u1", Status: models.BookingConfirmed},
	}}
	alloc := &Allocator{Catalog: courtCatalog(), Bookings: book}

	unit, err := alloc.AssignUnit(context.Background(), courtService(), "2026-03-02", 10*60)
	require.NoError(t, err)
	require.NotNil(t, unit)
	assert.Equal(t, "u2", unit.ID)
}

func TestAssignUnitAllBusy(t *testing.T) {
	book := &fakeBookings{bookings: []models.Booking{
		{ServiceID: "svc-court", Date: "2026-03-02", StartMin: 10 * 60, DurationMin: 60, ResourceUnitID: "u1", Status: models.BookingConfirmed},
		{ServiceID: "svc-court", Date: "2026-03-02", StartMin: 10 * 60, DurationMin: 60, ResourceUnitID: "u2", Status: models.BookingPendingPayment},
	}}
	alloc := &Allocator{Catalog: courtCatalog(), Bookings: book}

	unit, err := alloc.AssignUnit(context.Background(), courtService(), "2026-03-02", 10*60)
	require.NoError(t, err)
	assert.Nil(t, unit)
}

func TestAssignUnitDeterministicTieBreak(t *testing.T) {
	cat := newFakeCatalog()
	cat.units["svc-court"] = []models.ResourceUnit{
		{ID: "ub", ServiceID: "svc-court", Name: "Cancha B", DisplayOrder: 1, Active: true},
		{ID: "ua", ServiceID: "svc-court", Name: "Cancha A", DisplayOrder: 1, Active: true},
	}
	alloc := &Allocator{Catalog: cat, Bookings: &fakeBookings{}}

	for i := 0; i < 5; i++ {
		unit, err := alloc.AssignUnit(context.Background(), courtService(), "2026-03-02", 10*60)
		require.NoError(t, err)
		require.NotNil(t, unit)
		assert.Equal(t, "ua", unit.ID)
	}
}

func TestPoolSize(t *testing.T) {
	alloc := &Allocator{Catalog: courtCatalog(), Bookings: &fakeBookings{}}

	size, err := alloc.PoolSize(context.Background(), courtService())
	require.NoError(t, err)
	assert.Equal(t, 2, size)

	single := cutService()
	size, err = alloc.PoolSize(context.Background(), single)
	require.NoError(t, err)
	assert.Equal(t, 1, size)

	// Multi-resource with no configured units degrades to a pool of one.
	bare := courtService()
	bare.ID = "svc-empty"
	size, err = alloc.PoolSize(context.Background(), bare)
	require.NoError(t, err)
	assert.Equal(t, 1, size)
}
