package sqlite_test

import (
	"context"
	"errors"
	"testing"

	"github.com/Nakotex7906/BookFronteraBack/internal/persistence"
	"github.com/Nakotex7906/BookFronteraBack/internal/testfixtures"
)

func TestRoomRepository_CreateAndGet(t *testing.T) {
	harness := testfixtures.NewSQLiteHarness(t)
	ctx := context.Background()

	fixture := testfixtures.NewRoomFixture(
		testfixtures.WithRoomCapacity(8),
		testfixtures.WithRoomEquipment("projector", "whiteboard"),
	)
	if err := harness.Rooms.CreateRoom(ctx, fixture.Persistence()); err != nil {
		t.Fatalf("CreateRoom returned error: %v", err)
	}

	got, err := harness.Rooms.GetRoom(ctx, fixture.ID)
	if err != nil {
		t.Fatalf("GetRoom returned error: %v", err)
	}
	if got.Name != fixture.Name || got.Capacity != 8 || !got.Active {
		t.Fatalf("unexpected room %+v", got)
	}
	if len(got.Equipment) != 2 || got.Equipment[0] != "projector" || got.Equipment[1] != "whiteboard" {
		t.Fatalf("equipment must round-trip, got %v", got.Equipment)
	}
}

func TestRoomRepository_DuplicateName(t *testing.T) {
	harness := testfixtures.NewSQLiteHarness(t)
	ctx := context.Background()

	first := testfixtures.NewRoomFixture(testfixtures.WithRoomName("Sala Andes"))
	if err := harness.Rooms.CreateRoom(ctx, first.Persistence()); err != nil {
		t.Fatalf("CreateRoom returned error: %v", err)
	}

	second := testfixtures.NewRoomFixture(testfixtures.WithRoomName("Sala Andes"))
	if err := harness.Rooms.CreateRoom(ctx, second.Persistence()); !errors.Is(err, persistence.ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}
}

func TestRoomRepository_Update(t *testing.T) {
	harness := testfixtures.NewSQLiteHarness(t)
	ctx := context.Background()

	fixture := testfixtures.NewRoomFixture()
	if err := harness.Rooms.CreateRoom(ctx, fixture.Persistence()); err != nil {
		t.Fatalf("CreateRoom returned error: %v", err)
	}

	updated := fixture.Persistence()
	updated.Capacity = 12
	updated.Active = false
	if err := harness.Rooms.UpdateRoom(ctx, updated); err != nil {
		t.Fatalf("UpdateRoom returned error: %v", err)
	}

	got, err := harness.Rooms.GetRoom(ctx, fixture.ID)
	if err != nil {
		t.Fatalf("GetRoom returned error: %v", err)
	}
	if got.Capacity != 12 || got.Active {
		t.Fatalf("unexpected room %+v", got)
	}

	missing := fixture.Persistence()
	missing.ID = "missing"
	if err := harness.Rooms.UpdateRoom(ctx, missing); !errors.Is(err, persistence.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestRoomRepository_Delete(t *testing.T) {
	harness := testfixtures.NewSQLiteHarness(t)
	ctx := context.Background()

	fixture := testfixtures.NewRoomFixture()
	if err := harness.Rooms.CreateRoom(ctx, fixture.Persistence()); err != nil {
		t.Fatalf("CreateRoom returned error: %v", err)
	}
	hour := testfixtures.NewOpeningHourFixture(testfixtures.WithOpeningHourRoom(fixture.ID))
	if err := harness.OpeningHours.UpsertOpeningHour(ctx, hour.Persistence()); err != nil {
		t.Fatalf("UpsertOpeningHour returned error: %v", err)
	}

	if err := harness.Rooms.DeleteRoom(ctx, fixture.ID); err != nil {
		t.Fatalf("DeleteRoom returned error: %v", err)
	}
	if _, err := harness.Rooms.GetRoom(ctx, fixture.ID); !errors.Is(err, persistence.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := harness.Rooms.DeleteRoom(ctx, "missing"); !errors.Is(err, persistence.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestRoomRepository_List(t *testing.T) {
	harness := testfixtures.NewSQLiteHarness(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		fixture := testfixtures.NewRoomFixture()
		if err := harness.Rooms.CreateRoom(ctx, fixture.Persistence()); err != nil {
			t.Fatalf("CreateRoom returned error: %v", err)
		}
	}

	rooms, err := harness.Rooms.ListRooms(ctx)
	if err != nil {
		t.Fatalf("ListRooms returned error: %v", err)
	}
	if len(rooms) != 3 {
		t.Fatalf("expected 3 rooms, got %d", len(rooms))
	}
}
