package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/Nakotex7906/BookFronteraBack/internal/clock"
	"github.com/Nakotex7906/BookFronteraBack/internal/persistence"
)

// RoomStore captures the persistence operations needed by the service.
type RoomStore interface {
	CreateRoom(ctx context.Context, room persistence.Room) error
	UpdateRoom(ctx context.Context, room persistence.Room) error
	GetRoom(ctx context.Context, id string) (persistence.Room, error)
	ListRooms(ctx context.Context) ([]persistence.Room, error)
	DeleteRoom(ctx context.Context, id string) error
}

// OpeningHourAdmin captures the opening-hour mutations reserved to administrators.
type OpeningHourAdmin interface {
	UpsertOpeningHour(ctx context.Context, hour persistence.OpeningHour) error
	ListForRoom(ctx context.Context, roomID string) ([]persistence.OpeningHour, error)
	DeleteOpeningHour(ctx context.Context, roomID string, weekday time.Weekday) error
}

// BlackoutAdmin captures the blackout mutations reserved to administrators.
type BlackoutAdmin interface {
	CreateBlackout(ctx context.Context, blackout persistence.Blackout) error
	GetBlackout(ctx context.Context, id string) (persistence.Blackout, error)
	ListForRoom(ctx context.Context, roomID string) ([]persistence.Blackout, error)
	DeleteBlackout(ctx context.Context, id string) error
}

// RoomService orchestrates validation, authorization, and persistence for the
// room catalog, weekday schedules, and maintenance blackouts.
type RoomService struct {
	rooms       RoomStore
	hours       OpeningHourAdmin
	blackouts   BlackoutAdmin
	idGenerator func() string
	clock       clock.Clock
	logger      *slog.Logger
}

// NewRoomService constructs a room service with the provided dependencies.
func NewRoomService(rooms RoomStore, hours OpeningHourAdmin, blackouts BlackoutAdmin, idGenerator func() string, clk clock.Clock) *RoomService {
	return NewRoomServiceWithLogger(rooms, hours, blackouts, idGenerator, clk, nil)
}

// NewRoomServiceWithLogger constructs a room service with a specified logger.
func NewRoomServiceWithLogger(rooms RoomStore, hours OpeningHourAdmin, blackouts BlackoutAdmin, idGenerator func() string, clk clock.Clock, logger *slog.Logger) *RoomService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	return &RoomService{
		rooms:       rooms,
		hours:       hours,
		blackouts:   blackouts,
		idGenerator: idGenerator,
		clock:       clk,
		logger:      defaultLogger(logger),
	}
}

func (s *RoomService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "RoomService", operation, attrs...)
}

func (s *RoomService) now() time.Time {
	if s.clock != nil {
		return s.clock.Now()
	}
	return time.Now()
}

// CreateRoom validates input and persists a new room for administrators.
// New rooms accept reservations unless the input says otherwise.
func (s *RoomService) CreateRoom(ctx context.Context, params CreateRoomParams) (room Room, err error) {
	if s == nil {
		err = fmt.Errorf("RoomService is nil")
		return
	}

	logger := s.loggerWith(ctx, "CreateRoom",
		"principal_id", params.Principal.UserID,
	)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to create room", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("room_id", room.ID).InfoContext(ctx, "room created")
	}()

	if !params.Principal.IsAdmin {
		err = ErrUnauthorized
		return
	}

	vErr := validateRoomInput(params.Input)
	if vErr.HasErrors() {
		err = vErr
		return
	}

	active := true
	if params.Input.Active != nil {
		active = *params.Input.Active
	}

	now := s.now()
	record := persistence.Room{
		ID:        s.idGenerator(),
		Name:      strings.TrimSpace(params.Input.Name),
		Capacity:  params.Input.Capacity,
		Equipment: normalizeEquipment(params.Input.Equipment),
		Active:    active,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if s.rooms == nil {
		room = fromPersistenceRoom(record)
		return
	}

	if err = s.rooms.CreateRoom(ctx, record); err != nil {
		err = mapRepoError(err)
		return
	}

	room = fromPersistenceRoom(record)
	return
}

// UpdateRoom validates input and updates an existing room for administrators.
// Deactivating a room stops new reservations; existing ones are untouched.
func (s *RoomService) UpdateRoom(ctx context.Context, params UpdateRoomParams) (room Room, err error) {
	if s == nil {
		err = fmt.Errorf("RoomService is nil")
		return
	}
	if !params.Principal.IsAdmin {
		err = ErrUnauthorized
		return
	}
	if s.rooms == nil {
		err = fmt.Errorf("room repository not configured")
		return
	}

	logger := s.loggerWith(ctx, "UpdateRoom",
		"principal_id", params.Principal.UserID,
		"room_id", params.RoomID,
	)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to update room", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("room_id", room.ID).InfoContext(ctx, "room updated")
	}()

	var existing persistence.Room
	existing, err = s.rooms.GetRoom(ctx, params.RoomID)
	if err != nil {
		err = mapRepoError(err)
		return
	}

	vErr := validateRoomInput(params.Input)
	if vErr.HasErrors() {
		err = vErr
		return
	}

	updated := existing
	updated.Name = strings.TrimSpace(params.Input.Name)
	updated.Capacity = params.Input.Capacity
	updated.Equipment = normalizeEquipment(params.Input.Equipment)
	if params.Input.Active != nil {
		updated.Active = *params.Input.Active
	}
	updated.UpdatedAt = s.now()

	if err = s.rooms.UpdateRoom(ctx, updated); err != nil {
		err = mapRepoError(err)
		return
	}

	room = fromPersistenceRoom(updated)
	return
}

// DeleteRoom removes a room and its dependent records when requested by an administrator.
func (s *RoomService) DeleteRoom(ctx context.Context, principal Principal, roomID string) error {
	if s == nil {
		return fmt.Errorf("RoomService is nil")
	}
	if !principal.IsAdmin {
		return ErrUnauthorized
	}
	if s.rooms == nil {
		return fmt.Errorf("room repository not configured")
	}

	logger := s.loggerWith(ctx, "DeleteRoom",
		"principal_id", principal.UserID,
		"room_id", roomID,
	)

	if err := s.rooms.DeleteRoom(ctx, roomID); err != nil {
		err = mapRepoError(err)
		logger.ErrorContext(ctx, "failed to delete room", "error", err, "error_kind", ErrorKind(err))
		return err
	}

	logger.InfoContext(ctx, "room deleted")
	return nil
}

// GetRoom returns one room for any authenticated user.
func (s *RoomService) GetRoom(ctx context.Context, principal Principal, roomID string) (Room, error) {
	if s == nil {
		return Room{}, fmt.Errorf("RoomService is nil")
	}
	if s.rooms == nil {
		return Room{}, fmt.Errorf("room repository not configured")
	}

	existing, err := s.rooms.GetRoom(ctx, roomID)
	if err != nil {
		return Room{}, mapRepoError(err)
	}
	return fromPersistenceRoom(existing), nil
}

// ListRooms returns the catalog of rooms for any authenticated user.
func (s *RoomService) ListRooms(ctx context.Context, principal Principal) (rooms []Room, err error) {
	if s == nil {
		err = fmt.Errorf("RoomService is nil")
		return
	}
	if s.rooms == nil {
		return nil, nil
	}

	logger := s.loggerWith(ctx, "ListRooms",
		"principal_id", principal.UserID,
	)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to list rooms", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("result_count", len(rooms)).InfoContext(ctx, "rooms listed")
	}()

	var raw []persistence.Room
	raw, err = s.rooms.ListRooms(ctx)
	if err != nil {
		err = mapRepoError(err)
		return
	}

	rooms = make([]Room, 0, len(raw))
	for _, row := range raw {
		rooms = append(rooms, fromPersistenceRoom(row))
	}

	sort.Slice(rooms, func(i, j int) bool {
		if strings.EqualFold(rooms[i].Name, rooms[j].Name) {
			return rooms[i].ID < rooms[j].ID
		}
		return strings.ToLower(rooms[i].Name) < strings.ToLower(rooms[j].Name)
	})

	return
}

// SetOpeningHour creates or replaces a room's window for one weekday.
func (s *RoomService) SetOpeningHour(ctx context.Context, params SetOpeningHourParams) (hour OpeningHour, err error) {
	if s == nil {
		err = fmt.Errorf("RoomService is nil")
		return
	}
	if !params.Principal.IsAdmin {
		err = ErrUnauthorized
		return
	}
	if s.rooms == nil || s.hours == nil {
		err = fmt.Errorf("room repositories not configured")
		return
	}

	logger := s.loggerWith(ctx, "SetOpeningHour",
		"principal_id", params.Principal.UserID,
		"room_id", params.RoomID,
		"weekday", int(params.Input.Weekday),
	)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to set opening hour", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "opening hour set")
	}()

	if vErr := validateOpeningHourInput(params.Input); vErr != nil {
		err = vErr
		return
	}

	if _, err = s.rooms.GetRoom(ctx, params.RoomID); err != nil {
		err = mapRepoError(err)
		return
	}

	now := s.now()
	record := persistence.OpeningHour{
		ID:        s.idGenerator(),
		RoomID:    params.RoomID,
		Weekday:   params.Input.Weekday,
		OpenTime:  params.Input.OpenTime,
		CloseTime: params.Input.CloseTime,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err = s.hours.UpsertOpeningHour(ctx, record); err != nil {
		err = mapRepoError(err)
		return
	}

	hour = OpeningHour{
		ID:        record.ID,
		RoomID:    record.RoomID,
		Weekday:   record.Weekday,
		OpenTime:  record.OpenTime,
		CloseTime: record.CloseTime,
	}
	return
}

// ListOpeningHours returns a room's weekly schedule for any authenticated user.
func (s *RoomService) ListOpeningHours(ctx context.Context, principal Principal, roomID string) ([]OpeningHour, error) {
	if s == nil {
		return nil, fmt.Errorf("RoomService is nil")
	}
	if s.hours == nil {
		return nil, nil
	}

	rows, err := s.hours.ListForRoom(ctx, roomID)
	if err != nil {
		if errors.Is(err, persistence.ErrNotFound) {
			return nil, nil
		}
		return nil, mapRepoError(err)
	}

	hours := make([]OpeningHour, 0, len(rows))
	for _, row := range rows {
		hours = append(hours, OpeningHour{
			ID:        row.ID,
			RoomID:    row.RoomID,
			Weekday:   row.Weekday,
			OpenTime:  row.OpenTime,
			CloseTime: row.CloseTime,
		})
	}
	sort.Slice(hours, func(i, j int) bool { return hours[i].Weekday < hours[j].Weekday })
	return hours, nil
}

// ClearOpeningHour removes a room's window for one weekday, closing that day.
func (s *RoomService) ClearOpeningHour(ctx context.Context, principal Principal, roomID string, weekday time.Weekday) error {
	if s == nil {
		return fmt.Errorf("RoomService is nil")
	}
	if !principal.IsAdmin {
		return ErrUnauthorized
	}
	if s.hours == nil {
		return fmt.Errorf("opening hour repository not configured")
	}

	logger := s.loggerWith(ctx, "ClearOpeningHour",
		"principal_id", principal.UserID,
		"room_id", roomID,
		"weekday", int(weekday),
	)

	if err := s.hours.DeleteOpeningHour(ctx, roomID, weekday); err != nil {
		err = mapRepoError(err)
		logger.ErrorContext(ctx, "failed to clear opening hour", "error", err, "error_kind", ErrorKind(err))
		return err
	}

	logger.InfoContext(ctx, "opening hour cleared")
	return nil
}

// DeclareBlackout records a maintenance window during which a room cannot be
// booked. Existing reservations inside the window are not cancelled.
func (s *RoomService) DeclareBlackout(ctx context.Context, params DeclareBlackoutParams) (blackout Blackout, err error) {
	if s == nil {
		err = fmt.Errorf("RoomService is nil")
		return
	}
	if !params.Principal.IsAdmin {
		err = ErrUnauthorized
		return
	}
	if s.rooms == nil || s.blackouts == nil {
		err = fmt.Errorf("room repositories not configured")
		return
	}

	logger := s.loggerWith(ctx, "DeclareBlackout",
		"principal_id", params.Principal.UserID,
		"room_id", params.RoomID,
	)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to declare blackout", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("blackout_id", blackout.ID).InfoContext(ctx, "blackout declared")
	}()

	vErr := &ValidationError{}
	if params.Input.Start.IsZero() || params.Input.End.IsZero() || !params.Input.Start.Before(params.Input.End) {
		vErr.add("time", "start must be before end")
	}
	if strings.TrimSpace(params.Input.Reason) == "" {
		vErr.add("reason", "reason is required")
	}
	if vErr.HasErrors() {
		err = vErr
		return
	}

	if _, err = s.rooms.GetRoom(ctx, params.RoomID); err != nil {
		err = mapRepoError(err)
		return
	}

	record := persistence.Blackout{
		ID:        s.idGenerator(),
		RoomID:    params.RoomID,
		Start:     params.Input.Start,
		End:       params.Input.End,
		Reason:    strings.TrimSpace(params.Input.Reason),
		CreatedAt: s.now(),
	}

	if err = s.blackouts.CreateBlackout(ctx, record); err != nil {
		err = mapRepoError(err)
		return
	}

	blackout = Blackout{
		ID:        record.ID,
		RoomID:    record.RoomID,
		Start:     record.Start,
		End:       record.End,
		Reason:    record.Reason,
		CreatedAt: record.CreatedAt,
	}
	return
}

// ListBlackouts returns a room's blackouts for any authenticated user.
func (s *RoomService) ListBlackouts(ctx context.Context, principal Principal, roomID string) ([]Blackout, error) {
	if s == nil {
		return nil, fmt.Errorf("RoomService is nil")
	}
	if s.blackouts == nil {
		return nil, nil
	}

	rows, err := s.blackouts.ListForRoom(ctx, roomID)
	if err != nil {
		if errors.Is(err, persistence.ErrNotFound) {
			return nil, nil
		}
		return nil, mapRepoError(err)
	}

	blackouts := make([]Blackout, 0, len(rows))
	for _, row := range rows {
		blackouts = append(blackouts, Blackout{
			ID:        row.ID,
			RoomID:    row.RoomID,
			Start:     row.Start,
			End:       row.End,
			Reason:    row.Reason,
			CreatedAt: row.CreatedAt,
		})
	}
	sort.Slice(blackouts, func(i, j int) bool { return blackouts[i].Start.Before(blackouts[j].Start) })
	return blackouts, nil
}

// RemoveBlackout deletes a blackout, reopening its window for booking.
func (s *RoomService) RemoveBlackout(ctx context.Context, principal Principal, blackoutID string) error {
	if s == nil {
		return fmt.Errorf("RoomService is nil")
	}
	if !principal.IsAdmin {
		return ErrUnauthorized
	}
	if s.blackouts == nil {
		return fmt.Errorf("blackout repository not configured")
	}

	logger := s.loggerWith(ctx, "RemoveBlackout",
		"principal_id", principal.UserID,
		"blackout_id", blackoutID,
	)

	if _, err := s.blackouts.GetBlackout(ctx, blackoutID); err != nil {
		err = mapRepoError(err)
		logger.ErrorContext(ctx, "failed to remove blackout", "error", err, "error_kind", ErrorKind(err))
		return err
	}

	if err := s.blackouts.DeleteBlackout(ctx, blackoutID); err != nil {
		err = mapRepoError(err)
		logger.ErrorContext(ctx, "failed to remove blackout", "error", err, "error_kind", ErrorKind(err))
		return err
	}

	logger.InfoContext(ctx, "blackout removed")
	return nil
}

func validateRoomInput(input RoomInput) *ValidationError {
	vErr := &ValidationError{}

	if strings.TrimSpace(input.Name) == "" {
		vErr.add("name", "name is required")
	}
	if input.Capacity <= 0 {
		vErr.add("capacity", "capacity must be positive")
	}

	return vErr
}

func normalizeEquipment(tags []string) []string {
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	return out
}
