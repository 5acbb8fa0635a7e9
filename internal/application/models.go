package application

import "time"

// Principal represents the authenticated user invoking a service method.
type Principal struct {
	UserID  string
	IsAdmin bool
}

// ReservationStatus mirrors the persisted reservation lifecycle state.
type ReservationStatus string

const (
	// ReservationConfirmed marks a reservation that holds its time range.
	ReservationConfirmed ReservationStatus = "CONFIRMED"
	// ReservationCancelled marks a reservation released by its owner or an admin.
	ReservationCancelled ReservationStatus = "CANCELLED"
)

// Reservation represents a persisted room booking.
type Reservation struct {
	ID        string
	RoomID    string
	UserID    string
	Start     time.Time
	End       time.Time
	Status    ReservationStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CreateReservationParams wraps the data required to book a room.
type CreateReservationParams struct {
	Principal Principal
	RoomID    string
	Start     time.Time
	End       time.Time
}

// CancelReservationParams wraps the data required to cancel a reservation.
type CancelReservationParams struct {
	Principal     Principal
	ReservationID string
}

// MyReservations groups a user's reservations relative to the current time.
// Cancelled reservations always land in Past.
type MyReservations struct {
	// Current holds confirmed reservations in progress right now.
	Current []Reservation
	// Upcoming holds confirmed reservations that have not started yet,
	// ordered by start time.
	Upcoming []Reservation
	// Past holds reservations that already ended or were cancelled,
	// most recent first.
	Past []Reservation
}

// RoomInput captures caller provided room fields.
type RoomInput struct {
	Name      string
	Capacity  int
	Equipment []string
	Active    *bool
}

// Room represents a catalog entry for a bookable room.
type Room struct {
	ID        string
	Name      string
	Capacity  int
	Equipment []string
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CreateRoomParams wraps the data required to create a room.
type CreateRoomParams struct {
	Principal Principal
	Input     RoomInput
}

// UpdateRoomParams wraps the data required to update a room.
type UpdateRoomParams struct {
	Principal Principal
	RoomID    string
	Input     RoomInput
}

// OpeningHourInput captures caller provided opening window fields for one weekday.
type OpeningHourInput struct {
	Weekday   time.Weekday
	OpenTime  string
	CloseTime string
}

// OpeningHour represents a room's opening window on one weekday.
type OpeningHour struct {
	ID        string
	RoomID    string
	Weekday   time.Weekday
	OpenTime  string
	CloseTime string
}

// SetOpeningHourParams wraps the data required to set a room's weekday window.
type SetOpeningHourParams struct {
	Principal Principal
	RoomID    string
	Input     OpeningHourInput
}

// BlackoutInput captures caller provided maintenance blackout fields.
type BlackoutInput struct {
	Start  time.Time
	End    time.Time
	Reason string
}

// Blackout represents a maintenance window during which a room cannot be booked.
type Blackout struct {
	ID        string
	RoomID    string
	Start     time.Time
	End       time.Time
	Reason    string
	CreatedAt time.Time
}

// DeclareBlackoutParams wraps the data required to declare a blackout.
type DeclareBlackoutParams struct {
	Principal Principal
	RoomID    string
	Input     BlackoutInput
}

// UserInput captures caller provided user attributes.
type UserInput struct {
	Email       string
	DisplayName string
	Password    string
	IsAdmin     bool
}

// User represents an account exposed by the application services.
type User struct {
	ID          string
	Email       string
	DisplayName string
	IsAdmin     bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// CreateUserParams wraps the data required to create a user.
type CreateUserParams struct {
	Principal Principal
	Input     UserInput
}

// UpdateUserParams wraps the data required to update a user.
type UpdateUserParams struct {
	Principal Principal
	UserID    string
	Input     UserInput
}

// Session represents an authenticated session issued to a user.
type Session struct {
	ID        string
	UserID    string
	Token     string
	ExpiresAt time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
	RevokedAt *time.Time
}

// AuthenticateParams captures the data required to authenticate a user.
type AuthenticateParams struct {
	Email    string
	Password string
}

// AuthenticateResult captures the outcome of a successful authentication attempt.
type AuthenticateResult struct {
	User    User
	Session Session
}

// SlotState marks whether a grid slot can currently be booked.
type SlotState string

const (
	// SlotAvailable marks a slot with no confirmed reservation or blackout.
	SlotAvailable SlotState = "AVAILABLE"
	// SlotOccupied marks a slot covered by a confirmed reservation.
	SlotOccupied SlotState = "OCCUPIED"
	// SlotBlackedOut marks a slot covered by a maintenance blackout.
	SlotBlackedOut SlotState = "BLACKED_OUT"
	// SlotClosed marks a slot outside the room's opening window.
	SlotClosed SlotState = "CLOSED"
)

// GridSlot is one fixed cell of the daily availability grid.
type GridSlot struct {
	ID    string
	Label string
	Start time.Time
	End   time.Time
	State SlotState
}

// RoomGrid is one room's row of the daily availability grid.
type RoomGrid struct {
	Room  Room
	Slots []GridSlot
}

// DailyGridParams wraps the data required to render the daily grid.
type DailyGridParams struct {
	Date time.Time
}

// DailyGrid is the availability of every active room for one day.
type DailyGrid struct {
	Date  time.Time
	Rooms []RoomGrid
}

// FreeSlot is one bookable chunk derived from the gaps between occupied ranges.
type FreeSlot struct {
	Start time.Time
	End   time.Time
}

// RoomDayParams wraps the data required to compute a room's free slots for a day.
type RoomDayParams struct {
	RoomID      string
	Date        time.Time
	SlotMinutes int
}

// RoomDay is a single room's free slots for one day.
type RoomDay struct {
	RoomID string
	Date   time.Time
	Free   []FreeSlot
}
