package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/Nakotex7906/BookFronteraBack/internal/clock"
	"github.com/Nakotex7906/BookFronteraBack/internal/interval"
	"github.com/Nakotex7906/BookFronteraBack/internal/persistence"
)

// ReservationStore captures the persistence interactions needed by the service.
type ReservationStore interface {
	CreateReservation(ctx context.Context, reservation persistence.Reservation) error
	GetReservation(ctx context.Context, id string) (persistence.Reservation, error)
	UpdateReservationStatus(ctx context.Context, id string, status persistence.ReservationStatus, updatedAt time.Time) error
	ListOverlapping(ctx context.Context, roomID string, from, to time.Time, status persistence.ReservationStatus) ([]persistence.Reservation, error)
	ListForUserEndingAfter(ctx context.Context, userID string, reference time.Time) ([]persistence.Reservation, error)
	ListForUser(ctx context.Context, userID string) ([]persistence.Reservation, error)
}

// RoomCatalog exposes room lookup operations.
type RoomCatalog interface {
	GetRoom(ctx context.Context, id string) (persistence.Room, error)
}

// OpeningHourStore exposes weekday window lookups.
type OpeningHourStore interface {
	GetForRoomWeekday(ctx context.Context, roomID string, weekday time.Weekday) (persistence.OpeningHour, error)
}

// BlackoutStore exposes blackout overlap queries.
type BlackoutStore interface {
	ListOverlapping(ctx context.Context, roomID string, from, to time.Time) ([]persistence.Blackout, error)
}

// UserDirectory exposes user lookup operations.
type UserDirectory interface {
	GetUser(ctx context.Context, id string) (persistence.User, error)
}

// CalendarPublisher receives reservation lifecycle events. Publishing is
// best-effort: a failure never affects the reservation itself.
type CalendarPublisher interface {
	PublishReservation(ctx context.Context, reservation Reservation, room Room, user User) error
	PublishCancellation(ctx context.Context, reservation Reservation, room Room, user User) error
}

// ReservationService orchestrates booking checks and persistence for reservations.
type ReservationService struct {
	reservations ReservationStore
	rooms        RoomCatalog
	hours        OpeningHourStore
	blackouts    BlackoutStore
	users        UserDirectory
	calendar     CalendarPublisher
	policy       BookingPolicy
	clock        clock.Clock
	locks        *roomLock
	idGenerator  func() string
	logger       *slog.Logger
}

// NewReservationService wires dependencies for reservation operations.
func NewReservationService(reservations ReservationStore, rooms RoomCatalog, hours OpeningHourStore, blackouts BlackoutStore, users UserDirectory, calendar CalendarPublisher, policy BookingPolicy, clk clock.Clock, idGenerator func() string) *ReservationService {
	return NewReservationServiceWithLogger(reservations, rooms, hours, blackouts, users, calendar, policy, clk, idGenerator, nil)
}

// NewReservationServiceWithLogger constructs a ReservationService with a specified logger.
func NewReservationServiceWithLogger(reservations ReservationStore, rooms RoomCatalog, hours OpeningHourStore, blackouts BlackoutStore, users UserDirectory, calendar CalendarPublisher, policy BookingPolicy, clk clock.Clock, idGenerator func() string, logger *slog.Logger) *ReservationService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if policy == (BookingPolicy{}) {
		policy = DefaultBookingPolicy()
	}
	return &ReservationService{
		reservations: reservations,
		rooms:        rooms,
		hours:        hours,
		blackouts:    blackouts,
		users:        users,
		calendar:     calendar,
		policy:       policy,
		clock:        clk,
		locks:        newRoomLock(),
		idGenerator:  idGenerator,
		logger:       defaultLogger(logger),
	}
}

func (s *ReservationService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "ReservationService", operation, attrs...)
}

// CreateReservation runs the booking checks in a fixed order and persists the
// reservation when every check passes. The checks and the insert are
// serialized per room so two concurrent attempts on the same range cannot
// both succeed.
func (s *ReservationService) CreateReservation(ctx context.Context, params CreateReservationParams) (reservation Reservation, err error) {
	if s == nil {
		err = fmt.Errorf("ReservationService is nil")
		return
	}
	if s.reservations == nil || s.rooms == nil {
		err = fmt.Errorf("reservation repositories not configured")
		return
	}
	if s.clock == nil {
		err = fmt.Errorf("clock not configured")
		return
	}

	logger := s.loggerWith(ctx, "CreateReservation",
		"room_id", params.RoomID,
		"user_id", params.Principal.UserID,
	)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "reservation rejected", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("reservation_id", reservation.ID).InfoContext(ctx, "reservation created")
	}()

	if params.Principal.UserID == "" {
		err = ErrUnauthorized
		return
	}

	requested := interval.Range{Start: params.Start, End: params.End}
	if err = s.checkShape(requested); err != nil {
		return
	}

	var room persistence.Room
	room, err = s.rooms.GetRoom(ctx, params.RoomID)
	if err != nil {
		err = mapRepoError(err)
		return
	}

	// The lock covers only the check-then-insert window; publishing must not
	// run while other bookers wait on this room.
	unlock := sync.OnceFunc(s.locks.Lock(room.ID))
	defer unlock()

	if err = s.checkState(ctx, room, params.Principal.UserID, requested); err != nil {
		return
	}

	now := s.clock.Now()
	record := persistence.Reservation{
		ID:        s.idGenerator(),
		RoomID:    room.ID,
		UserID:    params.Principal.UserID,
		Start:     params.Start,
		End:       params.End,
		Status:    persistence.ReservationStatusConfirmed,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err = s.reservations.CreateReservation(ctx, record); err != nil {
		err = mapRepoError(err)
		return
	}
	unlock()

	reservation = fromPersistenceReservation(record)
	s.publish(ctx, logger, reservation, room, false)
	return
}

// checkShape validates properties of the requested range alone.
func (s *ReservationService) checkShape(requested interval.Range) error {
	if requested.Start.IsZero() || requested.End.IsZero() || !requested.IsValid() {
		return reject(CodeInvalidRange, "start must be strictly before end")
	}

	duration := requested.Duration()
	if duration < s.policy.MinDuration || duration > s.policy.MaxDuration {
		return reject(CodeDurationOutOfRange, fmt.Sprintf(
			"duration must be between %d and %d minutes",
			int(s.policy.MinDuration.Minutes()), int(s.policy.MaxDuration.Minutes())))
	}

	if !alignedTo(requested.Start, s.policy.SlotAlignment) || !alignedTo(requested.End, s.policy.SlotAlignment) {
		return reject(CodeMisaligned, fmt.Sprintf(
			"start and end must fall on %d minute boundaries",
			int(s.policy.SlotAlignment.Minutes())))
	}

	return nil
}

// checkState validates the request against the room and user state. Callers
// must hold the room lock so the answers stay true through the insert.
func (s *ReservationService) checkState(ctx context.Context, room persistence.Room, userID string, requested interval.Range) error {
	if !room.Active {
		return reject(CodeRoomInactive, "room is not accepting reservations")
	}

	if err := s.checkOpeningHours(ctx, room.ID, requested); err != nil {
		return err
	}

	if s.blackouts != nil {
		blackouts, err := s.blackouts.ListOverlapping(ctx, room.ID, requested.Start, requested.End)
		if err != nil {
			return mapRepoError(err)
		}
		if len(blackouts) > 0 {
			return reject(CodeBlackedOut, "room is closed for maintenance during the requested range")
		}
	}

	overlapping, err := s.reservations.ListOverlapping(ctx, room.ID, requested.Start, requested.End, persistence.ReservationStatusConfirmed)
	if err != nil {
		return mapRepoError(err)
	}
	if len(overlapping) > 0 {
		return reject(CodeRoomAlreadyBooked, "room is already booked during the requested range")
	}

	active, err := s.countActive(ctx, userID)
	if err != nil {
		return err
	}
	if active >= s.policy.ActiveLimit {
		return reject(CodeQuotaExceeded, fmt.Sprintf(
			"user already holds %d active reservations", s.policy.ActiveLimit))
	}

	return nil
}

func (s *ReservationService) checkOpeningHours(ctx context.Context, roomID string, requested interval.Range) error {
	if s.hours == nil {
		return nil
	}

	zone := s.clock.Zone()
	weekday := requested.Start.In(zone).Weekday()

	row, err := s.hours.GetForRoomWeekday(ctx, roomID, weekday)
	if err != nil {
		if errors.Is(err, persistence.ErrNotFound) {
			return reject(CodeOutsideOpeningHours, "room has no schedule for this weekday")
		}
		return mapRepoError(err)
	}

	window, err := openingWindow(row, requested.Start, zone)
	if err != nil {
		return err
	}

	if requested.Start.Before(window.Start) || requested.End.After(window.End) {
		return reject(CodeOutsideOpeningHours, fmt.Sprintf(
			"room is open %s-%s on this weekday", row.OpenTime, row.CloseTime))
	}
	return nil
}

// countActive counts the user's confirmed reservations that have not ended yet.
func (s *ReservationService) countActive(ctx context.Context, userID string) (int, error) {
	now := s.clock.Now()
	rows, err := s.reservations.ListForUserEndingAfter(ctx, userID, now)
	if err != nil {
		if errors.Is(err, persistence.ErrNotFound) {
			return 0, nil
		}
		return 0, mapRepoError(err)
	}

	active := 0
	for _, row := range rows {
		if row.Status == persistence.ReservationStatusConfirmed {
			active++
		}
	}
	return active, nil
}

// CancelReservation flips a reservation to cancelled. The row is retained for
// history. Cancelling an already cancelled reservation succeeds without
// changing anything.
func (s *ReservationService) CancelReservation(ctx context.Context, params CancelReservationParams) (reservation Reservation, err error) {
	if s == nil {
		err = fmt.Errorf("ReservationService is nil")
		return
	}
	if s.reservations == nil {
		err = fmt.Errorf("reservation repository not configured")
		return
	}
	if s.clock == nil {
		err = fmt.Errorf("clock not configured")
		return
	}

	logger := s.loggerWith(ctx, "CancelReservation",
		"reservation_id", params.ReservationID,
		"user_id", params.Principal.UserID,
	)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "cancellation failed", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "reservation cancelled")
	}()

	var existing persistence.Reservation
	existing, err = s.reservations.GetReservation(ctx, params.ReservationID)
	if err != nil {
		err = mapRepoError(err)
		return
	}

	if existing.UserID != params.Principal.UserID && !params.Principal.IsAdmin {
		err = ErrUnauthorized
		return
	}

	if existing.Status == persistence.ReservationStatusCancelled {
		reservation = fromPersistenceReservation(existing)
		return
	}

	now := s.clock.Now()
	if err = s.reservations.UpdateReservationStatus(ctx, existing.ID, persistence.ReservationStatusCancelled, now); err != nil {
		err = mapRepoError(err)
		return
	}

	existing.Status = persistence.ReservationStatusCancelled
	existing.UpdatedAt = now
	reservation = fromPersistenceReservation(existing)

	if s.rooms != nil {
		if room, roomErr := s.rooms.GetRoom(ctx, existing.RoomID); roomErr == nil {
			s.publishCancellation(ctx, logger, reservation, room)
		}
	}
	return
}

// GetReservation returns a reservation visible to the principal.
func (s *ReservationService) GetReservation(ctx context.Context, principal Principal, reservationID string) (Reservation, error) {
	if s == nil {
		return Reservation{}, fmt.Errorf("ReservationService is nil")
	}
	if s.reservations == nil {
		return Reservation{}, fmt.Errorf("reservation repository not configured")
	}

	existing, err := s.reservations.GetReservation(ctx, reservationID)
	if err != nil {
		return Reservation{}, mapRepoError(err)
	}

	if existing.UserID != principal.UserID && !principal.IsAdmin {
		return Reservation{}, ErrUnauthorized
	}

	return fromPersistenceReservation(existing), nil
}

// ListMyReservations returns the principal's reservations grouped into
// current, upcoming, and past relative to the present moment.
func (s *ReservationService) ListMyReservations(ctx context.Context, principal Principal) (MyReservations, error) {
	if s == nil {
		return MyReservations{}, fmt.Errorf("ReservationService is nil")
	}
	if s.reservations == nil {
		return MyReservations{}, fmt.Errorf("reservation repository not configured")
	}
	if s.clock == nil {
		return MyReservations{}, fmt.Errorf("clock not configured")
	}
	if principal.UserID == "" {
		return MyReservations{}, ErrUnauthorized
	}

	rows, err := s.reservations.ListForUser(ctx, principal.UserID)
	if err != nil {
		if errors.Is(err, persistence.ErrNotFound) {
			return MyReservations{}, nil
		}
		return MyReservations{}, mapRepoError(err)
	}

	now := s.clock.Now()
	var grouped MyReservations
	for _, row := range rows {
		res := fromPersistenceReservation(row)
		switch {
		case row.Status == persistence.ReservationStatusCancelled:
			grouped.Past = append(grouped.Past, res)
		case !row.End.After(now):
			grouped.Past = append(grouped.Past, res)
		case !row.Start.After(now):
			grouped.Current = append(grouped.Current, res)
		default:
			grouped.Upcoming = append(grouped.Upcoming, res)
		}
	}

	sortReservationsAscending(grouped.Current)
	sortReservationsAscending(grouped.Upcoming)
	sort.SliceStable(grouped.Past, func(i, j int) bool {
		return grouped.Past[i].Start.After(grouped.Past[j].Start)
	})

	return grouped, nil
}

func (s *ReservationService) publish(ctx context.Context, logger *slog.Logger, reservation Reservation, room persistence.Room, cancellation bool) {
	if s.calendar == nil {
		return
	}

	user := User{ID: reservation.UserID}
	if s.users != nil {
		if row, err := s.users.GetUser(ctx, reservation.UserID); err == nil {
			user = fromPersistenceUser(row)
		}
	}

	var err error
	if cancellation {
		err = s.calendar.PublishCancellation(ctx, reservation, fromPersistenceRoom(room), user)
	} else {
		err = s.calendar.PublishReservation(ctx, reservation, fromPersistenceRoom(room), user)
	}
	if err != nil {
		// Calendar sync never affects the reservation outcome.
		logger.WarnContext(ctx, "calendar publish failed", "error", err, "reservation_id", reservation.ID)
	}
}

func (s *ReservationService) publishCancellation(ctx context.Context, logger *slog.Logger, reservation Reservation, room persistence.Room) {
	s.publish(ctx, logger, reservation, room, true)
}

func alignedTo(t time.Time, width time.Duration) bool {
	if width <= 0 {
		return true
	}
	return t.Truncate(width).Equal(t)
}

func sortReservationsAscending(reservations []Reservation) {
	sort.SliceStable(reservations, func(i, j int) bool {
		if reservations[i].Start.Equal(reservations[j].Start) {
			return reservations[i].ID < reservations[j].ID
		}
		return reservations[i].Start.Before(reservations[j].Start)
	})
}

func fromPersistenceReservation(row persistence.Reservation) Reservation {
	return Reservation{
		ID:        row.ID,
		RoomID:    row.RoomID,
		UserID:    row.UserID,
		Start:     row.Start,
		End:       row.End,
		Status:    ReservationStatus(row.Status),
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
}

func fromPersistenceRoom(row persistence.Room) Room {
	equipment := make([]string, len(row.Equipment))
	copy(equipment, row.Equipment)
	return Room{
		ID:        row.ID,
		Name:      row.Name,
		Capacity:  row.Capacity,
		Equipment: equipment,
		Active:    row.Active,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
}

func fromPersistenceUser(row persistence.User) User {
	return User{
		ID:          row.ID,
		Email:       row.Email,
		DisplayName: row.DisplayName,
		IsAdmin:     row.IsAdmin,
		CreatedAt:   row.CreatedAt,
		UpdatedAt:   row.UpdatedAt,
	}
}

// mapRepoError translates persistence sentinels to application sentinels.
func mapRepoError(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, persistence.ErrNotFound):
		return ErrNotFound
	case errors.Is(err, persistence.ErrDuplicate):
		return ErrAlreadyExists
	case errors.Is(err, persistence.ErrConstraintViolation):
		vErr := &ValidationError{}
		vErr.add("time", "start must be before end")
		return vErr
	case errors.Is(err, persistence.ErrForeignKeyViolation):
		vErr := &ValidationError{}
		vErr.add("room_id", "related records are missing")
		return vErr
	}
	return err
}
