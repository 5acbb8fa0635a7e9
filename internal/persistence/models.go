package persistence

import "time"

// ReservationStatus enumerates the lifecycle states of a reservation.
type ReservationStatus string

const (
	// ReservationStatusConfirmed marks an active reservation that blocks the room.
	ReservationStatusConfirmed ReservationStatus = "CONFIRMED"
	// ReservationStatusCancelled marks a terminal, released reservation.
	ReservationStatusCancelled ReservationStatus = "CANCELLED"
)

// User represents an account in the reservation domain.
type User struct {
	ID           string
	Email        string
	DisplayName  string
	IsAdmin      bool
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Room represents a bookable shared room.
type Room struct {
	ID        string
	Name      string
	Capacity  int
	Equipment []string
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// OpeningHour defines the open window of a room for one weekday.
// Times of day are stored as "HH:MM" in the canonical zone.
// At most one row exists per (room, weekday); absence means closed.
type OpeningHour struct {
	ID        string
	RoomID    string
	Weekday   time.Weekday
	OpenTime  string
	CloseTime string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Blackout is an administrator-declared closed interval for a room.
type Blackout struct {
	ID        string
	RoomID    string
	Start     time.Time
	End       time.Time
	Reason    string
	CreatedAt time.Time
}

// Reservation represents a booked time range on a room.
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

// Session represents an authentication session persisted for a user.
type Session struct {
	ID        string
	UserID    string
	Token     string
	ExpiresAt time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
	RevokedAt *time.Time
}
