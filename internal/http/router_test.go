package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Nakotex7906/BookFronteraBack/internal/application"
)

// roomServiceRecorder satisfies roomService and records the last operation
// dispatched, so routing can be asserted independently of handler logic.
type roomServiceRecorder struct {
	lastOp      string
	lastRoomID  string
	lastWeekday time.Weekday
}

func (s *roomServiceRecorder) CreateRoom(_ context.Context, params application.CreateRoomParams) (application.Room, error) {
	s.lastOp = "CreateRoom"
	return application.Room{ID: "room-1", Name: params.Input.Name, Capacity: params.Input.Capacity, Active: true}, nil
}

func (s *roomServiceRecorder) UpdateRoom(_ context.Context, params application.UpdateRoomParams) (application.Room, error) {
	s.lastOp, s.lastRoomID = "UpdateRoom", params.RoomID
	return application.Room{ID: params.RoomID, Name: params.Input.Name, Capacity: params.Input.Capacity, Active: true}, nil
}

func (s *roomServiceRecorder) DeleteRoom(_ context.Context, _ application.Principal, roomID string) error {
	s.lastOp, s.lastRoomID = "DeleteRoom", roomID
	return nil
}

func (s *roomServiceRecorder) GetRoom(_ context.Context, _ application.Principal, roomID string) (application.Room, error) {
	s.lastOp, s.lastRoomID = "GetRoom", roomID
	return application.Room{ID: roomID, Name: "Sala", Capacity: 4, Active: true}, nil
}

func (s *roomServiceRecorder) ListRooms(context.Context, application.Principal) ([]application.Room, error) {
	s.lastOp = "ListRooms"
	return nil, nil
}

func (s *roomServiceRecorder) SetOpeningHour(_ context.Context, params application.SetOpeningHourParams) (application.OpeningHour, error) {
	s.lastOp, s.lastRoomID = "SetOpeningHour", params.RoomID
	return application.OpeningHour{RoomID: params.RoomID, Weekday: params.Input.Weekday}, nil
}

func (s *roomServiceRecorder) ListOpeningHours(_ context.Context, _ application.Principal, roomID string) ([]application.OpeningHour, error) {
	s.lastOp, s.lastRoomID = "ListOpeningHours", roomID
	return nil, nil
}

func (s *roomServiceRecorder) ClearOpeningHour(_ context.Context, _ application.Principal, roomID string, weekday time.Weekday) error {
	s.lastOp, s.lastRoomID, s.lastWeekday = "ClearOpeningHour", roomID, weekday
	return nil
}

func (s *roomServiceRecorder) DeclareBlackout(_ context.Context, params application.DeclareBlackoutParams) (application.Blackout, error) {
	s.lastOp, s.lastRoomID = "DeclareBlackout", params.RoomID
	return application.Blackout{ID: "blk-1", RoomID: params.RoomID, Start: params.Input.Start, End: params.Input.End}, nil
}

func (s *roomServiceRecorder) ListBlackouts(_ context.Context, _ application.Principal, roomID string) ([]application.Blackout, error) {
	s.lastOp, s.lastRoomID = "ListBlackouts", roomID
	return nil, nil
}

func (s *roomServiceRecorder) RemoveBlackout(_ context.Context, _ application.Principal, blackoutID string) error {
	s.lastOp, s.lastRoomID = "RemoveBlackout", blackoutID
	return nil
}

type availabilityServiceRecorder struct {
	lastOp     string
	lastRoomID string
}

func (s *availabilityServiceRecorder) DailyGrid(_ context.Context, params application.DailyGridParams) (application.DailyGrid, error) {
	s.lastOp = "DailyGrid"
	return application.DailyGrid{Date: params.Date}, nil
}

func (s *availabilityServiceRecorder) RoomDay(_ context.Context, params application.RoomDayParams) (application.RoomDay, error) {
	s.lastOp, s.lastRoomID = "RoomDay", params.RoomID
	return application.RoomDay{RoomID: params.RoomID, Date: params.Date}, nil
}

func adminInjector(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := ContextWithPrincipal(r.Context(), application.Principal{UserID: "admin-1", IsAdmin: true})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func newTestRouter(t *testing.T) (http.Handler, *roomServiceRecorder, *availabilityServiceRecorder) {
	t.Helper()

	rooms := &roomServiceRecorder{}
	availability := &availabilityServiceRecorder{}
	start, end := sampleWindow()
	reservations := &reservationServiceStub{
		createFn: func(_ context.Context, params application.CreateReservationParams) (application.Reservation, error) {
			return application.Reservation{ID: "res-1", RoomID: params.RoomID, Start: start, End: end, Status: application.ReservationConfirmed}, nil
		},
		cancelFn: func(_ context.Context, params application.CancelReservationParams) (application.Reservation, error) {
			return application.Reservation{ID: params.ReservationID, Start: start, End: end, Status: application.ReservationCancelled}, nil
		},
		getFn: func(_ context.Context, _ application.Principal, id string) (application.Reservation, error) {
			return application.Reservation{ID: id, Start: start, End: end, Status: application.ReservationConfirmed}, nil
		},
		listMineFn: func(context.Context, application.Principal) (application.MyReservations, error) {
			return application.MyReservations{}, nil
		},
	}

	router := NewRouter(RouterConfig{
		Rooms:        NewRoomHandler(rooms, quietLogger()),
		Reservations: NewReservationHandler(reservations, quietLogger()),
		Availability: NewAvailabilityHandler(availability, quietLogger()),
		Middleware:   []func(http.Handler) http.Handler{adminInjector},
	})
	return router, rooms, availability
}

func TestRouter_Dispatch(t *testing.T) {
	cases := []struct {
		name       string
		method     string
		target     string
		body       string
		wantStatus int
		wantOp     string
		wantRoomID string
	}{
		{"list rooms", http.MethodGet, "/rooms", "", http.StatusOK, "ListRooms", ""},
		{"get room", http.MethodGet, "/rooms/room-7", "", http.StatusOK, "GetRoom", "room-7"},
		{"delete room", http.MethodDelete, "/rooms/room-7", "", http.StatusNoContent, "DeleteRoom", "room-7"},
		{"list opening hours", http.MethodGet, "/rooms/room-7/hours", "", http.StatusOK, "ListOpeningHours", "room-7"},
		{"clear opening hour", http.MethodDelete, "/rooms/room-7/hours/1", "", http.StatusNoContent, "ClearOpeningHour", "room-7"},
		{"list blackouts", http.MethodGet, "/rooms/room-7/blackouts", "", http.StatusOK, "ListBlackouts", "room-7"},
		{"remove blackout", http.MethodDelete, "/blackouts/blk-9", "", http.StatusNoContent, "RemoveBlackout", "blk-9"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			router, rooms, _ := newTestRouter(t)

			var req *http.Request
			if tc.body == "" {
				req = httptest.NewRequest(tc.method, tc.target, nil)
			} else {
				req = httptest.NewRequest(tc.method, tc.target, strings.NewReader(tc.body))
			}
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			if rec.Code != tc.wantStatus {
				t.Fatalf("expected %d, got %d: %s", tc.wantStatus, rec.Code, rec.Body.String())
			}
			if rooms.lastOp != tc.wantOp {
				t.Fatalf("expected dispatch to %s, got %s", tc.wantOp, rooms.lastOp)
			}
			if tc.wantRoomID != "" && rooms.lastRoomID != tc.wantRoomID {
				t.Fatalf("expected id %s, got %s", tc.wantRoomID, rooms.lastRoomID)
			}
		})
	}
}

func TestRouter_AvailabilityDispatch(t *testing.T) {
	router, _, availability := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/availability?date=2025-01-06", nil))
	if rec.Code != http.StatusOK || availability.lastOp != "DailyGrid" {
		t.Fatalf("expected DailyGrid dispatch, got %d / %s", rec.Code, availability.lastOp)
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/rooms/room-7/availability?date=2025-01-06", nil))
	if rec.Code != http.StatusOK || availability.lastOp != "RoomDay" || availability.lastRoomID != "room-7" {
		t.Fatalf("expected RoomDay dispatch for room-7, got %d / %s / %s", rec.Code, availability.lastOp, availability.lastRoomID)
	}
}

func TestRouter_ReservationDispatch(t *testing.T) {
	router, _, _ := newTestRouter(t)

	body := `{"room_id":"room-1","start":"2025-01-06T13:00:00Z","end":"2025-01-06T14:00:00Z"}`
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/reservations", strings.NewReader(body)))
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/reservations/res-1", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/my/reservations", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestRouter_MethodNotAllowed(t *testing.T) {
	cases := []struct {
		name      string
		method    string
		target    string
		wantAllow string
	}{
		{"reservations collection", http.MethodGet, "/reservations", "POST"},
		{"reservation item", http.MethodPut, "/reservations/res-1", "GET, DELETE"},
		{"rooms collection", http.MethodDelete, "/rooms", "GET, POST"},
		{"availability", http.MethodPost, "/availability", "GET"},
		{"my reservations", http.MethodDelete, "/my/reservations", "GET"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			router, _, _ := newTestRouter(t)

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(tc.method, tc.target, nil))

			if rec.Code != http.StatusMethodNotAllowed {
				t.Fatalf("expected 405, got %d", rec.Code)
			}
			if got := rec.Header().Get("Allow"); got != tc.wantAllow {
				t.Fatalf("expected Allow %q, got %q", tc.wantAllow, got)
			}
		})
	}
}

func TestRouter_UnknownPaths(t *testing.T) {
	router, _, _ := newTestRouter(t)

	for _, target := range []string{
		"/rooms/room-7/unknown",
		"/reservations/res-1/extra",
		"/blackouts/",
		"/nope",
	} {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404 for %s, got %d", target, rec.Code)
		}
	}
}
