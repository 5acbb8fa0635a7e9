package sqlite_test

import (
	"context"
	"errors"
	"testing"

	"github.com/Nakotex7906/BookFronteraBack/internal/persistence"
	"github.com/Nakotex7906/BookFronteraBack/internal/testfixtures"
)

func TestUserRepository_CreateAndGet(t *testing.T) {
	harness := testfixtures.NewSQLiteHarness(t)
	ctx := context.Background()

	fixture := testfixtures.NewUserFixture(testfixtures.WithUserAdmin(true))
	if err := harness.Users.CreateUser(ctx, fixture.Persistence()); err != nil {
		t.Fatalf("CreateUser returned error: %v", err)
	}

	got, err := harness.Users.GetUser(ctx, fixture.ID)
	if err != nil {
		t.Fatalf("GetUser returned error: %v", err)
	}
	if got.Email != fixture.Email || got.DisplayName != fixture.DisplayName || !got.IsAdmin {
		t.Fatalf("unexpected user %+v", got)
	}
	if got.PasswordHash != fixture.PasswordHash {
		t.Fatalf("password hash must round-trip, got %q", got.PasswordHash)
	}
}

func TestUserRepository_GetUserByEmail(t *testing.T) {
	harness := testfixtures.NewSQLiteHarness(t)
	ctx := context.Background()

	fixture := testfixtures.NewUserFixture(testfixtures.WithUserEmail("ana@example.com"))
	if err := harness.Users.CreateUser(ctx, fixture.Persistence()); err != nil {
		t.Fatalf("CreateUser returned error: %v", err)
	}

	got, err := harness.Users.GetUserByEmail(ctx, "Ana@Example.COM")
	if err != nil {
		t.Fatalf("lookup must be case-insensitive: %v", err)
	}
	if got.ID != fixture.ID {
		t.Fatalf("unexpected user %+v", got)
	}

	if _, err := harness.Users.GetUserByEmail(ctx, "ghost@example.com"); !errors.Is(err, persistence.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUserRepository_DuplicateEmail(t *testing.T) {
	harness := testfixtures.NewSQLiteHarness(t)
	ctx := context.Background()

	first := testfixtures.NewUserFixture(testfixtures.WithUserEmail("dup@example.com"))
	if err := harness.Users.CreateUser(ctx, first.Persistence()); err != nil {
		t.Fatalf("CreateUser returned error: %v", err)
	}

	second := testfixtures.NewUserFixture(testfixtures.WithUserEmail("dup@example.com"))
	if err := harness.Users.CreateUser(ctx, second.Persistence()); !errors.Is(err, persistence.ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}
}

func TestUserRepository_Update(t *testing.T) {
	harness := testfixtures.NewSQLiteHarness(t)
	ctx := context.Background()

	fixture := testfixtures.NewUserFixture()
	if err := harness.Users.CreateUser(ctx, fixture.Persistence()); err != nil {
		t.Fatalf("CreateUser returned error: %v", err)
	}

	updated := fixture.Persistence()
	updated.DisplayName = "Renamed"
	updated.IsAdmin = true
	if err := harness.Users.UpdateUser(ctx, updated); err != nil {
		t.Fatalf("UpdateUser returned error: %v", err)
	}

	got, err := harness.Users.GetUser(ctx, fixture.ID)
	if err != nil {
		t.Fatalf("GetUser returned error: %v", err)
	}
	if got.DisplayName != "Renamed" || !got.IsAdmin {
		t.Fatalf("unexpected user %+v", got)
	}

	missing := fixture.Persistence()
	missing.ID = "missing"
	if err := harness.Users.UpdateUser(ctx, missing); !errors.Is(err, persistence.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUserRepository_DeleteRemovesDependents(t *testing.T) {
	harness := testfixtures.NewSQLiteHarness(t)
	ctx := context.Background()

	user := testfixtures.NewUserFixture()
	if err := harness.Users.CreateUser(ctx, user.Persistence()); err != nil {
		t.Fatalf("CreateUser returned error: %v", err)
	}
	room := testfixtures.NewRoomFixture()
	if err := harness.Rooms.CreateRoom(ctx, room.Persistence()); err != nil {
		t.Fatalf("CreateRoom returned error: %v", err)
	}
	reservation := testfixtures.NewReservationFixture(
		testfixtures.WithReservationRoom(room.ID),
		testfixtures.WithReservationUser(user.ID),
	)
	if err := harness.Reservations.CreateReservation(ctx, reservation.Persistence()); err != nil {
		t.Fatalf("CreateReservation returned error: %v", err)
	}
	session := testfixtures.NewSessionFixture(testfixtures.WithSessionUserID(user.ID))
	if _, err := harness.Sessions.CreateSession(ctx, session.Persistence()); err != nil {
		t.Fatalf("CreateSession returned error: %v", err)
	}

	if err := harness.Users.DeleteUser(ctx, user.ID); err != nil {
		t.Fatalf("DeleteUser returned error: %v", err)
	}

	if _, err := harness.Users.GetUser(ctx, user.ID); !errors.Is(err, persistence.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for user, got %v", err)
	}
	if _, err := harness.Reservations.GetReservation(ctx, reservation.ID); !errors.Is(err, persistence.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for reservation, got %v", err)
	}
	if _, err := harness.Sessions.GetSession(ctx, session.Token); !errors.Is(err, persistence.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for session, got %v", err)
	}

	if err := harness.Users.DeleteUser(ctx, user.ID); !errors.Is(err, persistence.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestUserRepository_ListOrderedByCreation(t *testing.T) {
	harness := testfixtures.NewSQLiteHarness(t)
	ctx := context.Background()

	first := testfixtures.NewUserFixture()
	second := testfixtures.NewUserFixture()
	for _, fixture := range []testfixtures.UserFixture{first, second} {
		if err := harness.Users.CreateUser(ctx, fixture.Persistence()); err != nil {
			t.Fatalf("CreateUser returned error: %v", err)
		}
	}

	users, err := harness.Users.ListUsers(ctx)
	if err != nil {
		t.Fatalf("ListUsers returned error: %v", err)
	}
	if len(users) != 2 {
		t.Fatalf("expected 2 users, got %d", len(users))
	}
}
