package application

import "time"

// BookingPolicy holds the tunable booking rules shared by the reservation
// and availability services.
type BookingPolicy struct {
	// MinDuration is the shortest reservation accepted.
	MinDuration time.Duration
	// MaxDuration is the longest reservation accepted.
	MaxDuration time.Duration
	// SlotAlignment is the boundary both start and end must fall on.
	SlotAlignment time.Duration
	// ActiveLimit is the number of active reservations one user may hold.
	ActiveLimit int
	// GridOpenHour and GridCloseHour bound the daily availability grid.
	GridOpenHour  int
	GridCloseHour int
	// GridSlotMinutes is the width of one grid cell.
	GridSlotMinutes int
}

// DefaultBookingPolicy returns the standard campus booking rules.
func DefaultBookingPolicy() BookingPolicy {
	return BookingPolicy{
		MinDuration:     30 * time.Minute,
		MaxDuration:     120 * time.Minute,
		SlotAlignment:   30 * time.Minute,
		ActiveLimit:     2,
		GridOpenHour:    9,
		GridCloseHour:   21,
		GridSlotMinutes: 60,
	}
}
