package testfixtures

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/Nakotex7906/BookFronteraBack/internal/application"
	"github.com/Nakotex7906/BookFronteraBack/internal/persistence"
)

var (
	userCounter        uint64
	roomCounter        uint64
	openingHourCounter uint64
	blackoutCounter    uint64
	reservationCounter uint64
	sessionCounter     uint64
)

// referenceTime is a Monday at 12:00 in America/Santiago (UTC-3 in January).
var referenceTime = time.Date(2025, time.January, 6, 15, 0, 0, 0, time.UTC)

// ReferenceTime returns the canonical baseline timestamp used by fixtures.
func ReferenceTime() time.Time {
	return referenceTime
}

// ----------------------------- User fixtures -----------------------------

// UserFixture represents a deterministic user record that can be materialised
// for application or persistence tests.
type UserFixture struct {
	ID           string
	Email        string
	DisplayName  string
	Password     string
	PasswordHash string
	IsAdmin      bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// UserOption configures the generated user fixture.
type UserOption func(*UserFixture)

// NewUserFixture returns a deterministic user fixture with optional overrides.
func NewUserFixture(opts ...UserOption) UserFixture {
	idx := atomic.AddUint64(&userCounter, 1)
	id := fmt.Sprintf("user-%03d", idx)
	created := referenceTime.Add(time.Duration(idx) * time.Minute)
	fixture := UserFixture{
		ID:           id,
		Email:        fmt.Sprintf("%s@example.com", id),
		DisplayName:  fmt.Sprintf("User %03d", idx),
		Password:     fmt.Sprintf("password-%03d", idx),
		PasswordHash: fmt.Sprintf("hash-%03d", idx),
		IsAdmin:      false,
		CreatedAt:    created,
		UpdatedAt:    created,
	}
	for _, opt := range opts {
		opt(&fixture)
	}
	return fixture
}

// WithUserID overrides the generated user ID.
func WithUserID(id string) UserOption {
	return func(f *UserFixture) {
		f.ID = id
	}
}

// WithUserEmail overrides the generated email address.
func WithUserEmail(email string) UserOption {
	return func(f *UserFixture) {
		f.Email = email
	}
}

// WithUserPassword sets the plaintext password on the fixture.
func WithUserPassword(password string) UserOption {
	return func(f *UserFixture) {
		f.Password = password
	}
}

// WithUserPasswordHash overrides the generated password hash.
func WithUserPasswordHash(hash string) UserOption {
	return func(f *UserFixture) {
		f.PasswordHash = hash
	}
}

// WithUserAdmin sets the admin flag on the generated fixture.
func WithUserAdmin(isAdmin bool) UserOption {
	return func(f *UserFixture) {
		f.IsAdmin = isAdmin
	}
}

// WithUserTimestamps sets both created and updated timestamps on the fixture.
func WithUserTimestamps(created, updated time.Time) UserOption {
	return func(f *UserFixture) {
		f.CreatedAt = created
		f.UpdatedAt = updated
	}
}

// Application returns the fixture as an application.User value.
func (f UserFixture) Application() application.User {
	return application.User{
		ID:          f.ID,
		Email:       f.Email,
		DisplayName: f.DisplayName,
		IsAdmin:     f.IsAdmin,
		CreatedAt:   f.CreatedAt,
		UpdatedAt:   f.UpdatedAt,
	}
}

// Principal returns an application.Principal derived from the fixture.
func (f UserFixture) Principal() application.Principal {
	return application.Principal{UserID: f.ID, IsAdmin: f.IsAdmin}
}

// Persistence returns the fixture as a persistence.User value.
func (f UserFixture) Persistence() persistence.User {
	return persistence.User{
		ID:           f.ID,
		Email:        f.Email,
		DisplayName:  f.DisplayName,
		PasswordHash: f.PasswordHash,
		IsAdmin:      f.IsAdmin,
		CreatedAt:    f.CreatedAt,
		UpdatedAt:    f.UpdatedAt,
	}
}

// Input returns the fixture as an application.UserInput.
func (f UserFixture) Input() application.UserInput {
	return application.UserInput{
		Email:       f.Email,
		DisplayName: f.DisplayName,
		Password:    f.Password,
		IsAdmin:     f.IsAdmin,
	}
}

// ----------------------------- Room fixtures -----------------------------

// RoomFixture represents a deterministic bookable room record.
type RoomFixture struct {
	ID        string
	Name      string
	Capacity  int
	Equipment []string
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// RoomOption configures the generated room fixture.
type RoomOption func(*RoomFixture)

// NewRoomFixture returns a deterministic room fixture with optional overrides.
func NewRoomFixture(opts ...RoomOption) RoomFixture {
	idx := atomic.AddUint64(&roomCounter, 1)
	id := fmt.Sprintf("room-%03d", idx)
	created := referenceTime.Add(time.Duration(idx) * time.Hour)
	fixture := RoomFixture{
		ID:        id,
		Name:      fmt.Sprintf("Room %03d", idx),
		Capacity:  int(4 + idx%4),
		Active:    true,
		CreatedAt: created,
		UpdatedAt: created,
	}
	for _, opt := range opts {
		opt(&fixture)
	}
	return fixture
}

// WithRoomID overrides the generated room ID.
func WithRoomID(id string) RoomOption {
	return func(f *RoomFixture) {
		f.ID = id
	}
}

// WithRoomName overrides the generated room name.
func WithRoomName(name string) RoomOption {
	return func(f *RoomFixture) {
		f.Name = name
	}
}

// WithRoomCapacity overrides the generated capacity.
func WithRoomCapacity(capacity int) RoomOption {
	return func(f *RoomFixture) {
		f.Capacity = capacity
	}
}

// WithRoomEquipment sets the equipment list on the fixture.
func WithRoomEquipment(equipment ...string) RoomOption {
	return func(f *RoomFixture) {
		f.Equipment = append([]string(nil), equipment...)
	}
}

// WithRoomActive sets the active flag on the fixture.
func WithRoomActive(active bool) RoomOption {
	return func(f *RoomFixture) {
		f.Active = active
	}
}

// WithRoomTimestamps sets both created and updated timestamps.
func WithRoomTimestamps(created, updated time.Time) RoomOption {
	return func(f *RoomFixture) {
		f.CreatedAt = created
		f.UpdatedAt = updated
	}
}

// Application returns the fixture as an application.Room value.
func (f RoomFixture) Application() application.Room {
	return application.Room{
		ID:        f.ID,
		Name:      f.Name,
		Capacity:  f.Capacity,
		Equipment: append([]string(nil), f.Equipment...),
		Active:    f.Active,
		CreatedAt: f.CreatedAt,
		UpdatedAt: f.UpdatedAt,
	}
}

// Persistence returns the fixture as a persistence.Room value.
func (f RoomFixture) Persistence() persistence.Room {
	return persistence.Room{
		ID:        f.ID,
		Name:      f.Name,
		Capacity:  f.Capacity,
		Equipment: append([]string(nil), f.Equipment...),
		Active:    f.Active,
		CreatedAt: f.CreatedAt,
		UpdatedAt: f.UpdatedAt,
	}
}

// Input returns the fixture as an application.RoomInput.
func (f RoomFixture) Input() application.RoomInput {
	active := f.Active
	return application.RoomInput{
		Name:      f.Name,
		Capacity:  f.Capacity,
		Equipment: append([]string(nil), f.Equipment...),
		Active:    &active,
	}
}

// ------------------------- Opening hour fixtures -------------------------

// OpeningHourFixture represents a deterministic weekday opening window.
type OpeningHourFixture struct {
	ID        string
	RoomID    string
	Weekday   time.Weekday
	OpenTime  string
	CloseTime string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// OpeningHourOption configures the generated opening hour fixture.
type OpeningHourOption func(*OpeningHourFixture)

// NewOpeningHourFixture returns a deterministic opening hour fixture.
// The default window is 09:00-21:00 on Monday.
func NewOpeningHourFixture(opts ...OpeningHourOption) OpeningHourFixture {
	idx := atomic.AddUint64(&openingHourCounter, 1)
	fixture := OpeningHourFixture{
		ID:        fmt.Sprintf("hours-%03d", idx),
		RoomID:    fmt.Sprintf("room-%03d", idx),
		Weekday:   time.Monday,
		OpenTime:  "09:00",
		CloseTime: "21:00",
		CreatedAt: referenceTime,
		UpdatedAt: referenceTime,
	}
	for _, opt := range opts {
		opt(&fixture)
	}
	return fixture
}

// WithOpeningHourRoom sets the room the window belongs to.
func WithOpeningHourRoom(roomID string) OpeningHourOption {
	return func(f *OpeningHourFixture) {
		f.RoomID = roomID
	}
}

// WithOpeningHourWeekday sets the weekday of the window.
func WithOpeningHourWeekday(day time.Weekday) OpeningHourOption {
	return func(f *OpeningHourFixture) {
		f.Weekday = day
	}
}

// WithOpeningHourWindow sets the open and close times of day.
func WithOpeningHourWindow(open, close string) OpeningHourOption {
	return func(f *OpeningHourFixture) {
		f.OpenTime = open
		f.CloseTime = close
	}
}

// Persistence returns the fixture as a persistence.OpeningHour value.
func (f OpeningHourFixture) Persistence() persistence.OpeningHour {
	return persistence.OpeningHour{
		ID:        f.ID,
		RoomID:    f.RoomID,
		Weekday:   f.Weekday,
		OpenTime:  f.OpenTime,
		CloseTime: f.CloseTime,
		CreatedAt: f.CreatedAt,
		UpdatedAt: f.UpdatedAt,
	}
}

// Input returns the fixture as an application.OpeningHourInput.
func (f OpeningHourFixture) Input() application.OpeningHourInput {
	return application.OpeningHourInput{
		Weekday:   f.Weekday,
		OpenTime:  f.OpenTime,
		CloseTime: f.CloseTime,
	}
}

// --------------------------- Blackout fixtures ---------------------------

// BlackoutFixture represents a deterministic maintenance blackout window.
type BlackoutFixture struct {
	ID        string
	RoomID    string
	Start     time.Time
	End       time.Time
	Reason    string
	CreatedAt time.Time
}

// BlackoutOption configures the generated blackout fixture.
type BlackoutOption func(*BlackoutFixture)

// NewBlackoutFixture returns a deterministic blackout fixture with optional
// overrides. The default window is one hour starting at the reference time.
func NewBlackoutFixture(opts ...BlackoutOption) BlackoutFixture {
	idx := atomic.AddUint64(&blackoutCounter, 1)
	start := referenceTime.Add(time.Duration(idx) * 24 * time.Hour)
	fixture := BlackoutFixture{
		ID:        fmt.Sprintf("blackout-%03d", idx),
		RoomID:    fmt.Sprintf("room-%03d", idx),
		Start:     start,
		End:       start.Add(time.Hour),
		Reason:    "maintenance",
		CreatedAt: referenceTime,
	}
	for _, opt := range opts {
		opt(&fixture)
	}
	return fixture
}

// WithBlackoutRoom sets the room the blackout applies to.
func WithBlackoutRoom(roomID string) BlackoutOption {
	return func(f *BlackoutFixture) {
		f.RoomID = roomID
	}
}

// WithBlackoutWindow sets the start and end of the blackout.
func WithBlackoutWindow(start, end time.Time) BlackoutOption {
	return func(f *BlackoutFixture) {
		f.Start = start
		f.End = end
	}
}

// WithBlackoutReason sets the reason recorded for the blackout.
func WithBlackoutReason(reason string) BlackoutOption {
	return func(f *BlackoutFixture) {
		f.Reason = reason
	}
}

// Persistence returns the fixture as a persistence.Blackout value.
func (f BlackoutFixture) Persistence() persistence.Blackout {
	return persistence.Blackout{
		ID:        f.ID,
		RoomID:    f.RoomID,
		Start:     f.Start,
		End:       f.End,
		Reason:    f.Reason,
		CreatedAt: f.CreatedAt,
	}
}

// Input returns the fixture as an application.BlackoutInput.
func (f BlackoutFixture) Input() application.BlackoutInput {
	return application.BlackoutInput{
		Start:  f.Start,
		End:    f.End,
		Reason: f.Reason,
	}
}

// -------------------------- Reservation fixtures -------------------------

// ReservationFixture represents a deterministic confirmed reservation.
type ReservationFixture struct {
	ID        string
	RoomID    string
	UserID    string
	Start     time.Time
	End       time.Time
	Status    persistence.ReservationStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ReservationOption configures the generated reservation fixture.
type ReservationOption func(*ReservationFixture)

// NewReservationFixture returns a deterministic reservation fixture with
// optional overrides. Each fixture occupies a distinct one hour window.
func NewReservationFixture(opts ...ReservationOption) ReservationFixture {
	idx := atomic.AddUint64(&reservationCounter, 1)
	start := referenceTime.Add(time.Duration(idx) * time.Hour)
	fixture := ReservationFixture{
		ID:        fmt.Sprintf("reservation-%03d", idx),
		RoomID:    fmt.Sprintf("room-%03d", idx),
		UserID:    fmt.Sprintf("user-%03d", idx),
		Start:     start,
		End:       start.Add(time.Hour),
		Status:    persistence.ReservationStatusConfirmed,
		CreatedAt: referenceTime,
		UpdatedAt: referenceTime,
	}
	for _, opt := range opts {
		opt(&fixture)
	}
	return fixture
}

// WithReservationID overrides the reservation ID.
func WithReservationID(id string) ReservationOption {
	return func(f *ReservationFixture) {
		f.ID = id
	}
}

// WithReservationRoom sets the booked room ID.
func WithReservationRoom(roomID string) ReservationOption {
	return func(f *ReservationFixture) {
		f.RoomID = roomID
	}
}

// WithReservationUser sets the owning user ID.
func WithReservationUser(userID string) ReservationOption {
	return func(f *ReservationFixture) {
		f.UserID = userID
	}
}

// WithReservationWindow sets the start and end of the reservation.
func WithReservationWindow(start, end time.Time) ReservationOption {
	return func(f *ReservationFixture) {
		f.Start = start
		f.End = end
	}
}

// WithReservationStatus sets the lifecycle status.
func WithReservationStatus(status persistence.ReservationStatus) ReservationOption {
	return func(f *ReservationFixture) {
		f.Status = status
	}
}

// WithReservationTimestamps sets both created and updated timestamps.
func WithReservationTimestamps(created, updated time.Time) ReservationOption {
	return func(f *ReservationFixture) {
		f.CreatedAt = created
		f.UpdatedAt = updated
	}
}

// Application returns the fixture as an application.Reservation value.
func (f ReservationFixture) Application() application.Reservation {
	return application.Reservation{
		ID:        f.ID,
		RoomID:    f.RoomID,
		UserID:    f.UserID,
		Start:     f.Start,
		End:       f.End,
		Status:    application.ReservationStatus(f.Status),
		CreatedAt: f.CreatedAt,
		UpdatedAt: f.UpdatedAt,
	}
}

// Persistence returns the fixture as a persistence.Reservation value.
func (f ReservationFixture) Persistence() persistence.Reservation {
	return persistence.Reservation{
		ID:        f.ID,
		RoomID:    f.RoomID,
		UserID:    f.UserID,
		Start:     f.Start,
		End:       f.End,
		Status:    f.Status,
		CreatedAt: f.CreatedAt,
		UpdatedAt: f.UpdatedAt,
	}
}

// ----------------------------- Session fixtures -------------------------

// SessionFixture represents a deterministic session record.
type SessionFixture struct {
	ID        string
	UserID    string
	Token     string
	ExpiresAt time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
	RevokedAt *time.Time
}

// SessionOption configures the generated session fixture.
type SessionOption func(*SessionFixture)

// NewSessionFixture returns a deterministic session fixture with optional overrides.
func NewSessionFixture(opts ...SessionOption) SessionFixture {
	idx := atomic.AddUint64(&sessionCounter, 1)
	created := referenceTime
	fixture := SessionFixture{
		ID:        fmt.Sprintf("session-%03d", idx),
		UserID:    fmt.Sprintf("user-%03d", idx),
		Token:     fmt.Sprintf("token-%03d", idx),
		ExpiresAt: created.Add(24 * time.Hour),
		CreatedAt: created,
		UpdatedAt: created,
	}
	for _, opt := range opts {
		opt(&fixture)
	}
	return fixture
}

// WithSessionUserID sets the user ID.
func WithSessionUserID(id string) SessionOption {
	return func(f *SessionFixture) {
		f.UserID = id
	}
}

// WithSessionToken overrides the token value.
func WithSessionToken(token string) SessionOption {
	return func(f *SessionFixture) {
		f.Token = token
	}
}

// WithSessionExpiresAt sets the expiration timestamp.
func WithSessionExpiresAt(t time.Time) SessionOption {
	return func(f *SessionFixture) {
		f.ExpiresAt = t
	}
}

// WithSessionRevokedAt sets the optional revoked timestamp.
func WithSessionRevokedAt(t time.Time) SessionOption {
	return func(f *SessionFixture) {
		revoked := t
		f.RevokedAt = &revoked
	}
}

// Application returns the fixture as an application.Session value.
func (f SessionFixture) Application() application.Session {
	var revoked *time.Time
	if f.RevokedAt != nil {
		t := *f.RevokedAt
		revoked = &t
	}
	return application.Session{
		ID:        f.ID,
		UserID:    f.UserID,
		Token:     f.Token,
		ExpiresAt: f.ExpiresAt,
		CreatedAt: f.CreatedAt,
		UpdatedAt: f.UpdatedAt,
		RevokedAt: revoked,
	}
}

// Persistence returns the fixture as a persistence.Session value.
func (f SessionFixture) Persistence() persistence.Session {
	var revoked *time.Time
	if f.RevokedAt != nil {
		t := *f.RevokedAt
		revoked = &t
	}
	return persistence.Session{
		ID:        f.ID,
		UserID:    f.UserID,
		Token:     f.Token,
		ExpiresAt: f.ExpiresAt,
		CreatedAt: f.CreatedAt,
		UpdatedAt: f.UpdatedAt,
		RevokedAt: revoked,
	}
}
