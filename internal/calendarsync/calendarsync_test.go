package calendarsync

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/Nakotex7906/BookFronteraBack/internal/application"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func fixedNow() time.Time {
	return time.Date(2025, time.January, 6, 15, 0, 0, 0, time.UTC)
}

func sampleReservation(id string) application.Reservation {
	return application.Reservation{
		ID:     id,
		RoomID: "room-1",
		UserID: "user-1",
		Start:  time.Date(2025, time.January, 6, 13, 0, 0, 0, time.UTC),
		End:    time.Date(2025, time.January, 6, 14, 0, 0, 0, time.UTC),
	}
}

func TestPublishReservation_WritesEvent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "calendar.ics")
	publisher := NewPublisher(path, testLogger(), WithNow(fixedNow))

	err := publisher.PublishReservation(context.Background(),
		sampleReservation("res-1"),
		application.Room{ID: "room-1", Name: "Sala Andes"},
		application.User{ID: "user-1", DisplayName: "Ana"},
	)
	if err != nil {
		t.Fatalf("PublishReservation returned error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read calendar file: %v", err)
	}
	feed := string(data)

	for _, want := range []string{
		"BEGIN:VCALENDAR",
		"UID:res-1",
		"SUMMARY:Room Sala Andes",
		"LOCATION:Sala Andes",
		"DESCRIPTION:Reserved by Ana",
		"STATUS:CONFIRMED",
	} {
		if !strings.Contains(feed, want) {
			t.Errorf("calendar feed missing %q", want)
		}
	}
}

func TestPublishCancellation_MarksEventCancelled(t *testing.T) {
	path := filepath.Join(t.TempDir(), "calendar.ics")
	publisher := NewPublisher(path, testLogger(), WithNow(fixedNow))

	ctx := context.Background()
	reservation := sampleReservation("res-1")
	room := application.Room{ID: "room-1", Name: "Sala Andes"}
	user := application.User{ID: "user-1", DisplayName: "Ana"}

	if err := publisher.PublishReservation(ctx, reservation, room, user); err != nil {
		t.Fatalf("PublishReservation returned error: %v", err)
	}
	if err := publisher.PublishCancellation(ctx, reservation, room, user); err != nil {
		t.Fatalf("PublishCancellation returned error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read calendar file: %v", err)
	}
	if !strings.Contains(string(data), "STATUS:CANCELLED") {
		t.Error("expected a cancelled event in the feed")
	}
}

func TestPublish_AppendsToExistingFeed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "calendar.ics")
	publisher := NewPublisher(path, testLogger(), WithNow(fixedNow))

	ctx := context.Background()
	room := application.Room{ID: "room-1", Name: "Sala Andes"}
	user := application.User{ID: "user-1", DisplayName: "Ana"}

	if err := publisher.PublishReservation(ctx, sampleReservation("res-1"), room, user); err != nil {
		t.Fatalf("first publish failed: %v", err)
	}
	if err := publisher.PublishReservation(ctx, sampleReservation("res-2"), room, user); err != nil {
		t.Fatalf("second publish failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read calendar file: %v", err)
	}
	feed := string(data)
	if !strings.Contains(feed, "UID:res-1") || !strings.Contains(feed, "UID:res-2") {
		t.Error("both events must survive in the feed")
	}
}

func TestPublisher_DisabledByEmptyPath(t *testing.T) {
	publisher := NewPublisher("", testLogger())

	err := publisher.PublishReservation(context.Background(),
		sampleReservation("res-1"),
		application.Room{ID: "room-1", Name: "Sala Andes"},
		application.User{ID: "user-1"},
	)
	if err != nil {
		t.Fatalf("disabled publisher must be a no-op, got %v", err)
	}
}

func TestPublisher_CustomProdID(t *testing.T) {
	path := filepath.Join(t.TempDir(), "calendar.ics")
	publisher := NewPublisher(path, testLogger(), WithNow(fixedNow), WithProdID("-//Test//Feed//EN"))

	err := publisher.PublishReservation(context.Background(),
		sampleReservation("res-1"),
		application.Room{ID: "room-1", Name: "Sala Andes"},
		application.User{ID: "user-1"},
	)
	if err != nil {
		t.Fatalf("PublishReservation returned error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read calendar file: %v", err)
	}
	if !strings.Contains(string(data), "PRODID:-//Test//Feed//EN") {
		t.Error("expected custom PRODID in the feed")
	}
}
