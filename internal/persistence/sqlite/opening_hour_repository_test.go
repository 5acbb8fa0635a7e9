package sqlite_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Nakotex7906/BookFronteraBack/internal/persistence"
	"github.com/Nakotex7906/BookFronteraBack/internal/testfixtures"
)

func TestOpeningHourRepository_UpsertReplacesWindow(t *testing.T) {
	harness := testfixtures.NewSQLiteHarness(t)
	ctx := context.Background()

	room := testfixtures.NewRoomFixture()
	if err := harness.Rooms.CreateRoom(ctx, room.Persistence()); err != nil {
		t.Fatalf("CreateRoom returned error: %v", err)
	}

	first := testfixtures.NewOpeningHourFixture(
		testfixtures.WithOpeningHourRoom(room.ID),
		testfixtures.WithOpeningHourWeekday(time.Monday),
		testfixtures.WithOpeningHourWindow("09:00", "21:00"),
	)
	if err := harness.OpeningHours.UpsertOpeningHour(ctx, first.Persistence()); err != nil {
		t.Fatalf("UpsertOpeningHour returned error: %v", err)
	}

	second := testfixtures.NewOpeningHourFixture(
		testfixtures.WithOpeningHourRoom(room.ID),
		testfixtures.WithOpeningHourWeekday(time.Monday),
		testfixtures.WithOpeningHourWindow("10:00", "18:00"),
	)
	if err := harness.OpeningHours.UpsertOpeningHour(ctx, second.Persistence()); err != nil {
		t.Fatalf("second upsert returned error: %v", err)
	}

	got, err := harness.OpeningHours.GetForRoomWeekday(ctx, room.ID, time.Monday)
	if err != nil {
		t.Fatalf("GetForRoomWeekday returned error: %v", err)
	}
	if got.OpenTime != "10:00" || got.CloseTime != "18:00" {
		t.Fatalf("window must be replaced, got %+v", got)
	}

	rows, err := harness.OpeningHours.ListForRoom(ctx, room.ID)
	if err != nil {
		t.Fatalf("ListForRoom returned error: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("one weekday keeps one row, got %d", len(rows))
	}
}

func TestOpeningHourRepository_GetMissingWeekday(t *testing.T) {
	harness := testfixtures.NewSQLiteHarness(t)
	ctx := context.Background()

	room := testfixtures.NewRoomFixture()
	if err := harness.Rooms.CreateRoom(ctx, room.Persistence()); err != nil {
		t.Fatalf("CreateRoom returned error: %v", err)
	}

	if _, err := harness.OpeningHours.GetForRoomWeekday(ctx, room.ID, time.Sunday); !errors.Is(err, persistence.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestOpeningHourRepository_ListOrderedByWeekday(t *testing.T) {
	harness := testfixtures.NewSQLiteHarness(t)
	ctx := context.Background()

	room := testfixtures.NewRoomFixture()
	if err := harness.Rooms.CreateRoom(ctx, room.Persistence()); err != nil {
		t.Fatalf("CreateRoom returned error: %v", err)
	}

	for _, day := range []time.Weekday{time.Friday, time.Monday, time.Wednesday} {
		hour := testfixtures.NewOpeningHourFixture(
			testfixtures.WithOpeningHourRoom(room.ID),
			testfixtures.WithOpeningHourWeekday(day),
		)
		if err := harness.OpeningHours.UpsertOpeningHour(ctx, hour.Persistence()); err != nil {
			t.Fatalf("UpsertOpeningHour returned error: %v", err)
		}
	}

	rows, err := harness.OpeningHours.ListForRoom(ctx, room.ID)
	if err != nil {
		t.Fatalf("ListForRoom returned error: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}
	if rows[0].Weekday != time.Monday || rows[1].Weekday != time.Wednesday || rows[2].Weekday != time.Friday {
		t.Fatalf("unexpected order: %+v", rows)
	}
}

func TestOpeningHourRepository_Delete(t *testing.T) {
	harness := testfixtures.NewSQLiteHarness(t)
	ctx := context.Background()

	room := testfixtures.NewRoomFixture()
	if err := harness.Rooms.CreateRoom(ctx, room.Persistence()); err != nil {
		t.Fatalf("CreateRoom returned error: %v", err)
	}
	hour := testfixtures.NewOpeningHourFixture(
		testfixtures.WithOpeningHourRoom(room.ID),
		testfixtures.WithOpeningHourWeekday(time.Monday),
	)
	if err := harness.OpeningHours.UpsertOpeningHour(ctx, hour.Persistence()); err != nil {
		t.Fatalf("UpsertOpeningHour returned error: %v", err)
	}

	if err := harness.OpeningHours.DeleteOpeningHour(ctx, room.ID, time.Monday); err != nil {
		t.Fatalf("DeleteOpeningHour returned error: %v", err)
	}
	if err := harness.OpeningHours.DeleteOpeningHour(ctx, room.ID, time.Monday); !errors.Is(err, persistence.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
