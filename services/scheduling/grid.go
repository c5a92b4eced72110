package scheduling

import (
	"sort"

	"turnero/models"
)

// BuildGrid generates the candidate slot starts for one day: every multiple
// of intervalMin inside [openMin, closeMin) whose full duration still fits
// before closing.
func BuildGrid(openMin, closeMin, intervalMin, durationMin int) []int {
	if intervalMin <= 0 || durationMin <= 0 || closeMin <= openMin {
		return nil
	}
	// Align the first candidate up to the grid.
	start := openMin
	if rem := start % intervalMin; rem != 0 {
		start += intervalMin - rem
	}
	var grid []int
	for t := start; t < closeMin && t+durationMin <= closeMin; t += intervalMin {
		grid = append(grid, t)
	}
	return grid
}

// CountOccupancy folds bookings and blocked windows into an occupancy count
// per candidate slot. Each overlapping non-terminal booking adds one unit of
// occupancy; a blocked window saturates occupancy to the pool size so the
// slot can never be offered. Pure; no storage access.
func CountOccupancy(grid []int, durationMin int, bookings []models.Booking, blocks []models.BlockedWindow, poolSize int) map[int]int {
	occupancy := make(map[int]int, len(grid))
	for _, start := range grid {
		end := start + durationMin
		count := 0
		for _, b := range bookings {
			if b.Overlaps(start, end) {
				count++
			}
		}
		for _, w := range blocks {
			if w.StartMin < end && start < w.EndMin {
				if count < poolSize {
					count = poolSize
				}
			}
		}
		occupancy[start] = count
	}
	return occupancy
}

// FilterAvailable keeps the candidates whose occupancy is strictly below the
// pool size, in ascending order.
func FilterAvailable(grid []int, occupancy map[int]int, poolSize int) []int {
	var available []int
	for _, start := range grid {
		if occupancy[start] < poolSize {
			available = append(available, start)
		}
	}
	sort.Ints(available)
	return available
}
