package persistence

import (
	"context"
	"time"
)

// UserRepository exposes CRUD operations for users.
type UserRepository interface {
	CreateUser(ctx context.Context, user User) error
	UpdateUser(ctx context.Context, user User) error
	GetUser(ctx context.Context, id string) (User, error)
	GetUserByEmail(ctx context.Context, email string) (User, error)
	ListUsers(ctx context.Context) ([]User, error)
	DeleteUser(ctx context.Context, id string) error
}

// RoomRepository exposes CRUD operations for rooms. Deleting a room removes
// its reservations, blackouts, and opening hours as an explicit cascade.
type RoomRepository interface {
	CreateRoom(ctx context.Context, room Room) error
	UpdateRoom(ctx context.Context, room Room) error
	GetRoom(ctx context.Context, id string) (Room, error)
	ListRooms(ctx context.Context) ([]Room, error)
	DeleteRoom(ctx context.Context, id string) error
}

// OpeningHourRepository stores per-weekday opening windows for rooms.
type OpeningHourRepository interface {
	// UpsertOpeningHour replaces the row for (room, weekday) if one exists.
	UpsertOpeningHour(ctx context.Context, hour OpeningHour) error
	GetForRoomWeekday(ctx context.Context, roomID string, weekday time.Weekday) (OpeningHour, error)
	ListForRoom(ctx context.Context, roomID string) ([]OpeningHour, error)
	DeleteOpeningHour(ctx context.Context, roomID string, weekday time.Weekday) error
}

// BlackoutRepository stores administrator-declared closed intervals.
type BlackoutRepository interface {
	CreateBlackout(ctx context.Context, blackout Blackout) error
	GetBlackout(ctx context.Context, id string) (Blackout, error)
	// ListOverlapping returns blackouts sharing any instant with [from, to).
	ListOverlapping(ctx context.Context, roomID string, from, to time.Time) ([]Blackout, error)
	ListForRoom(ctx context.Context, roomID string) ([]Blackout, error)
	DeleteBlackout(ctx context.Context, id string) error
}

// ReservationRepository stores reservations and answers overlap queries.
type ReservationRepository interface {
	CreateReservation(ctx context.Context, reservation Reservation) error
	GetReservation(ctx context.Context, id string) (Reservation, error)
	UpdateReservationStatus(ctx context.Context, id string, status ReservationStatus, updatedAt time.Time) error
	// ListOverlapping returns reservations with the given status sharing any
	// instant with [from, to) on the room, ordered by start time.
	ListOverlapping(ctx context.Context, roomID string, from, to time.Time, status ReservationStatus) ([]Reservation, error)
	// ListForUserEndingAfter returns the user's reservations whose end instant
	// is strictly after the reference time, ordered by start time.
	ListForUserEndingAfter(ctx context.Context, userID string, reference time.Time) ([]Reservation, error)
	ListForUser(ctx context.Context, userID string) ([]Reservation, error)
}

// SessionRepository stores authentication session state.
type SessionRepository interface {
	CreateSession(ctx context.Context, session Session) (Session, error)
	GetSession(ctx context.Context, token string) (Session, error)
	RevokeSession(ctx context.Context, token string, revokedAt time.Time) (Session, error)
	DeleteExpiredSessions(ctx context.Context, reference time.Time) error
}
