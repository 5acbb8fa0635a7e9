package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Nakotex7906/BookFronteraBack/internal/clock"
	"github.com/Nakotex7906/BookFronteraBack/internal/interval"
	"github.com/Nakotex7906/BookFronteraBack/internal/persistence"
)

// RoomLister exposes the room lookups needed for availability queries.
type RoomLister interface {
	GetRoom(ctx context.Context, id string) (persistence.Room, error)
	ListRooms(ctx context.Context) ([]persistence.Room, error)
}

// ReservationSource answers reservation overlap queries for availability.
type ReservationSource interface {
	ListOverlapping(ctx context.Context, roomID string, from, to time.Time, status persistence.ReservationStatus) ([]persistence.Reservation, error)
}

// AvailabilityService computes the daily grid and per-room free slots.
// It only reads state; booking goes through the reservation service.
type AvailabilityService struct {
	rooms        RoomLister
	hours        OpeningHourStore
	blackouts    BlackoutStore
	reservations ReservationSource
	policy       BookingPolicy
	clock        clock.Clock
	logger       *slog.Logger
}

// NewAvailabilityService wires dependencies for availability queries.
func NewAvailabilityService(rooms RoomLister, hours OpeningHourStore, blackouts BlackoutStore, reservations ReservationSource, policy BookingPolicy, clk clock.Clock) *AvailabilityService {
	return NewAvailabilityServiceWithLogger(rooms, hours, blackouts, reservations, policy, clk, nil)
}

// NewAvailabilityServiceWithLogger constructs an AvailabilityService with a specified logger.
func NewAvailabilityServiceWithLogger(rooms RoomLister, hours OpeningHourStore, blackouts BlackoutStore, reservations ReservationSource, policy BookingPolicy, clk clock.Clock, logger *slog.Logger) *AvailabilityService {
	if policy == (BookingPolicy{}) {
		policy = DefaultBookingPolicy()
	}
	return &AvailabilityService{
		rooms:        rooms,
		hours:        hours,
		blackouts:    blackouts,
		reservations: reservations,
		policy:       policy,
		clock:        clk,
		logger:       defaultLogger(logger),
	}
}

func (s *AvailabilityService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "AvailabilityService", operation, attrs...)
}

// DailyGrid renders the fixed-slot availability of every active room for one
// calendar day. The day is interpreted in the canonical booking zone.
func (s *AvailabilityService) DailyGrid(ctx context.Context, params DailyGridParams) (grid DailyGrid, err error) {
	if s == nil {
		err = fmt.Errorf("AvailabilityService is nil")
		return
	}
	if s.rooms == nil || s.reservations == nil || s.clock == nil {
		err = fmt.Errorf("availability dependencies not configured")
		return
	}

	zone := s.clock.Zone()
	date := params.Date
	if date.IsZero() {
		date = s.clock.Now().In(zone)
	}
	day := startOfDay(date, zone)

	logger := s.loggerWith(ctx, "DailyGrid", "date", day.Format("2006-01-02"))
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "grid computation failed", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("rooms", len(grid.Rooms)).InfoContext(ctx, "grid computed")
	}()

	rooms, err := s.rooms.ListRooms(ctx)
	if err != nil {
		if errors.Is(err, persistence.ErrNotFound) {
			err = nil
			grid = DailyGrid{Date: day}
			return
		}
		err = mapRepoError(err)
		return
	}

	grid = DailyGrid{Date: day}
	for _, room := range rooms {
		if !room.Active {
			continue
		}
		var row RoomGrid
		row, err = s.roomGrid(ctx, room, day, zone)
		if err != nil {
			return
		}
		grid.Rooms = append(grid.Rooms, row)
	}
	return
}

func (s *AvailabilityService) roomGrid(ctx context.Context, room persistence.Room, day time.Time, zone *time.Location) (RoomGrid, error) {
	// Wall-clock construction, not duration addition: on DST transition days
	// midnight and 09:00 are not a fixed number of hours apart.
	year, month, dayOfMonth := day.Date()
	gridStart := time.Date(year, month, dayOfMonth, s.policy.GridOpenHour, 0, 0, 0, zone)
	gridEnd := time.Date(year, month, dayOfMonth, s.policy.GridCloseHour, 0, 0, 0, zone)
	slotWidth := time.Duration(s.policy.GridSlotMinutes) * time.Minute

	opening, reserved, blacked, err := s.occupancy(ctx, room.ID, day, gridStart, gridEnd, zone)
	if err != nil {
		return RoomGrid{}, err
	}

	row := RoomGrid{Room: fromPersistenceRoom(room)}
	for _, slot := range interval.Chop(interval.Range{Start: gridStart, End: gridEnd}, slotWidth) {
		state := SlotAvailable
		switch {
		case opening == nil || slot.Start.Before(opening.Start) || slot.End.After(opening.End):
			state = SlotClosed
		case overlapsAny(slot, blacked):
			state = SlotBlackedOut
		case overlapsAny(slot, reserved):
			state = SlotOccupied
		}

		startLocal := slot.Start.In(zone)
		endLocal := slot.End.In(zone)
		row.Slots = append(row.Slots, GridSlot{
			ID:    fmt.Sprintf("%02d-%02d", startLocal.Hour(), endLocal.Hour()),
			Label: fmt.Sprintf("%s - %s", startLocal.Format("15:04"), endLocal.Format("15:04")),
			Start: slot.Start,
			End:   slot.End,
			State: state,
		})
	}
	return row, nil
}

// RoomDay computes the bookable free slots of one room for one day: the
// opening window minus reservations and blackouts, chopped into fixed-width
// chunks with any partial tail discarded.
func (s *AvailabilityService) RoomDay(ctx context.Context, params RoomDayParams) (RoomDay, error) {
	if s == nil {
		return RoomDay{}, fmt.Errorf("AvailabilityService is nil")
	}
	if s.rooms == nil || s.reservations == nil || s.clock == nil {
		return RoomDay{}, fmt.Errorf("availability dependencies not configured")
	}

	room, err := s.rooms.GetRoom(ctx, params.RoomID)
	if err != nil {
		return RoomDay{}, mapRepoError(err)
	}

	zone := s.clock.Zone()
	date := params.Date
	if date.IsZero() {
		date = s.clock.Now().In(zone)
	}
	day := startOfDay(date, zone)
	result := RoomDay{RoomID: room.ID, Date: day}

	if !room.Active {
		return result, nil
	}

	slotWidth := time.Duration(params.SlotMinutes) * time.Minute
	if slotWidth <= 0 {
		slotWidth = s.policy.SlotAlignment
	}

	year, month, dayOfMonth := day.Date()
	dayEnd := time.Date(year, month, dayOfMonth+1, 0, 0, 0, 0, zone)
	opening, reserved, blacked, err := s.occupancy(ctx, room.ID, day, day, dayEnd, zone)
	if err != nil {
		return RoomDay{}, err
	}
	if opening == nil {
		return result, nil
	}

	occupied := append(append([]interval.Range{}, reserved...), blacked...)
	for _, gap := range interval.Gaps(*opening, occupied) {
		for _, chunk := range interval.Chop(gap, slotWidth) {
			result.Free = append(result.Free, FreeSlot{Start: chunk.Start, End: chunk.End})
		}
	}
	return result, nil
}

// occupancy fetches the opening window, confirmed reservations, and blackouts
// for a room over [from, to). A nil opening window means the room is closed
// on that weekday.
func (s *AvailabilityService) occupancy(ctx context.Context, roomID string, day, from, to time.Time, zone *time.Location) (opening *interval.Range, reserved, blacked []interval.Range, err error) {
	if s.hours != nil {
		row, hoursErr := s.hours.GetForRoomWeekday(ctx, roomID, day.In(zone).Weekday())
		switch {
		case hoursErr == nil:
			window, windowErr := openingWindow(row, day, zone)
			if windowErr != nil {
				return nil, nil, nil, windowErr
			}
			opening = &window
		case errors.Is(hoursErr, persistence.ErrNotFound):
			// Closed weekday.
		default:
			return nil, nil, nil, mapRepoError(hoursErr)
		}
	}

	reservations, err := s.reservations.ListOverlapping(ctx, roomID, from, to, persistence.ReservationStatusConfirmed)
	if err != nil && !errors.Is(err, persistence.ErrNotFound) {
		return nil, nil, nil, mapRepoError(err)
	}
	for _, r := range reservations {
		reserved = append(reserved, interval.Range{Start: r.Start, End: r.End})
	}

	if s.blackouts != nil {
		blackouts, blackoutErr := s.blackouts.ListOverlapping(ctx, roomID, from, to)
		if blackoutErr != nil && !errors.Is(blackoutErr, persistence.ErrNotFound) {
			return nil, nil, nil, mapRepoError(blackoutErr)
		}
		for _, b := range blackouts {
			blacked = append(blacked, interval.Range{Start: b.Start, End: b.End})
		}
	}

	return opening, reserved, blacked, nil
}

func overlapsAny(slot interval.Range, occupied []interval.Range) bool {
	for _, r := range occupied {
		if interval.Overlaps(slot, r) {
			return true
		}
	}
	return false
}

// startOfDay returns local midnight of the calendar day carried by t's
// year, month, and day. When that midnight falls in a DST gap, the first
// instant that exists on the day is used.
func startOfDay(t time.Time, zone *time.Location) time.Time {
	year, month, dayOfMonth := t.Date()
	day := time.Date(year, month, dayOfMonth, 0, 0, 0, 0, zone)
	if day.Day() != dayOfMonth {
		day = time.Date(year, month, dayOfMonth, 1, 0, 0, 0, zone)
	}
	return day
}
