package scheduling

import (
	"testing"

	"turnero/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildGridFullDay(t *testing.T) {
	// 09:00-18:00, 30 min slots and 30 min duration: 18 candidates,
	// last one at 17:30.
	grid := BuildGrid(9*60, 18*60, 30, 30)
	require.Len(t, grid, 18)
	assert.Equal(t, 9*60, grid[0])
	assert.Equal(t, 17*60+30, grid[len(grid)-1])
}

func TestBuildGridDurationMustFitBeforeClose(t *testing.T) {
	// A 60 min service on the same window loses the 17:30 candidate.
	grid := BuildGrid(9*60, 18*60, 30, 60)
	require.NotEmpty(t, grid)
	assert.Equal(t, 17*60, grid[len(grid)-1])

	// Duration longer than the whole window yields nothing.
	assert.Empty(t, BuildGrid(9*60, 10*60, 30, 120))
}

func TestBuildGridAlignsOpeningUpToGrid(t *testing.T) {
	// Opening at 09:10 on a 30 min grid starts candidates at 09:30.
	grid := BuildGrid(9*60+10, 12*60, 30, 30)
	require.NotEmpty(t, grid)
	assert.Equal(t, 9*60+30, grid[0])
	for _, start := range grid {
		assert.Zero(t, start%30)
	}
}

func TestBuildGridDegenerateInputs(t *testing.T) {
	assert.Empty(t, BuildGrid(18*60, 9*60, 30, 30))
	assert.Empty(t, BuildGrid(9*60, 18*60, 0, 30))
	assert.Empty(t, BuildGrid(9*60, 18*60, 30, 0))
}

func TestCountOccupancyBookingRemovesOnlyItsSlot(t *testing.T) {
	grid := BuildGrid(9*60, 18*60, 30, 30)
	bookings := []models.Booking{
		{StartMin: 10 * 60, DurationMin: 30, Status: models.BookingConfirmed},
	}

	occ := CountOccupancy(grid, 30, bookings, nil, 1)
	available := FilterAvailable(grid, occ, 1)

	assert.NotContains(t, available, 10*60)
	assert.Contains(t, available, 9*60+30)
	assert.Contains(t, available, 10*60+30)
	assert.Len(t, available, 17)
}

func TestCountOccupancyLongBookingShadowsOverlappingStarts(t *testing.T) {
	// A 60 min booking at 10:00 also blocks the 10:30 candidate of a
	// 60 min service (10:30-11:30 overlaps 10:00-11:00).
	grid := BuildGrid(9*60, 18*60, 30, 60)
	bookings := []models.Booking{
		{StartMin: 10 * 60, DurationMin: 60, Status: models.BookingConfirmed},
	}

	occ := CountOccupancy(grid, 60, bookings, nil, 1)
	available := FilterAvailable(grid, occ, 1)

	assert.NotContains(t, available, 9*60+30)
	assert.NotContains(t, available, 10*60)
	assert.NotContains(t, available, 10*60+30)
	assert.Contains(t, available, 11*60)
}

func TestCountOccupancyPoolAbsorbsUntilFull(t *testing.T) {
	grid := BuildGrid(9*60, 18*60, 30, 30)
	oneAtTen := []models.Booking{
		{StartMin: 10 * 60, DurationMin: 30, ResourceUnitID: "unit-1"},
	}
	twoAtTen := append(oneAtTen, models.Booking{
		StartMin: 10 * 60, DurationMin: 30, ResourceUnitID: "unit-2",
	})

	occ := CountOccupancy(grid, 30, oneAtTen, nil, 2)
	assert.Contains(t, FilterAvailable(grid, occ, 2), 10*60)

	occ = CountOccupancy(grid, 30, twoAtTen, nil, 2)
	assert.NotContains(t, FilterAvailable(grid, occ, 2), 10*60)
}

func TestCountOccupancyBlockedWindowSaturatesPool(t *testing.T) {
	grid := BuildGrid(9*60, 18*60, 30, 30)
	blocks := []models.BlockedWindow{
		{StartMin: 13 * 60, EndMin: 14 * 60},
	}

	occ := CountOccupancy(grid, 30, nil, blocks, 3)
	available := FilterAvailable(grid, occ, 3)

	assert.NotContains(t, available, 13*60)
	assert.NotContains(t, available, 13*60+30)
	assert.Contains(t, available, 12*60+30)
	assert.Contains(t, available, 14*60)
}

func TestFilterAvailableKeepsAscendingOrder(t *testing.T) {
	grid := BuildGrid(9*60, 12*60, 30, 30)
	occ := CountOccupancy(grid, 30, nil, nil, 1)
	available := FilterAvailable(grid, occ, 1)

	require.Equal(t, len(grid), len(available))
	for i := 1; i < len(available); i++ {
		assert.Less(t, available[i-1], available[i])
	}
}
