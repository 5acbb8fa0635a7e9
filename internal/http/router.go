package http

import (
	"net/http"
	"strings"
)

type RouterConfig struct {
	Auth         *AuthHandler
	Users        *UserHandler
	Rooms        *RoomHandler
	Reservations *ReservationHandler
	Availability *AvailabilityHandler
	Middleware   []func(http.Handler) http.Handler
}

func NewRouter(cfg RouterConfig) http.Handler {
	mux := http.NewServeMux()

	if cfg.Auth != nil {
		mux.HandleFunc("/login", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				methodNotAllowed(w, http.MethodPost)
				return
			}
			cfg.Auth.CreateSession(w, r)
		})
		mux.HandleFunc("/logout", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				methodNotAllowed(w, http.MethodPost)
				return
			}
			cfg.Auth.DeleteCurrentSession(w, r)
		})
	}

	if cfg.Users != nil {
		mux.HandleFunc("/users", func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet:
				cfg.Users.List(w, r)
			case http.MethodPost:
				cfg.Users.Create(w, r)
			default:
				methodNotAllowed(w, http.MethodGet, http.MethodPost)
			}
		})
		mux.HandleFunc("/users/", func(w http.ResponseWriter, r *http.Request) {
			id := strings.TrimPrefix(r.URL.Path, "/users/")
			if id == "" || strings.Contains(id, "/") {
				http.NotFound(w, r)
				return
			}
			r = r.WithContext(ContextWithUserID(r.Context(), id))
			switch r.Method {
			case http.MethodGet:
				cfg.Users.Get(w, r)
			case http.MethodPut:
				cfg.Users.Update(w, r)
			case http.MethodDelete:
				cfg.Users.Delete(w, r)
			default:
				methodNotAllowed(w, http.MethodGet, http.MethodPut, http.MethodDelete)
			}
		})
	}

	if cfg.Rooms != nil {
		mux.HandleFunc("/rooms", func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet:
				cfg.Rooms.List(w, r)
			case http.MethodPost:
				cfg.Rooms.Create(w, r)
			default:
				methodNotAllowed(w, http.MethodGet, http.MethodPost)
			}
		})
		mux.HandleFunc("/rooms/", func(w http.ResponseWriter, r *http.Request) {
			routeRoom(cfg, w, r)
		})
		mux.HandleFunc("/blackouts/", func(w http.ResponseWriter, r *http.Request) {
			id := strings.TrimPrefix(r.URL.Path, "/blackouts/")
			if id == "" || strings.Contains(id, "/") {
				http.NotFound(w, r)
				return
			}
			if r.Method != http.MethodDelete {
				methodNotAllowed(w, http.MethodDelete)
				return
			}
			r = r.WithContext(ContextWithBlackoutID(r.Context(), id))
			cfg.Rooms.RemoveBlackout(w, r)
		})
	}

	if cfg.Reservations != nil {
		mux.HandleFunc("/reservations", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				methodNotAllowed(w, http.MethodPost)
				return
			}
			cfg.Reservations.Create(w, r)
		})
		mux.HandleFunc("/reservations/", func(w http.ResponseWriter, r *http.Request) {
			id := strings.TrimPrefix(r.URL.Path, "/reservations/")
			if id == "" || strings.Contains(id, "/") {
				http.NotFound(w, r)
				return
			}
			r = r.WithContext(ContextWithReservationID(r.Context(), id))
			switch r.Method {
			case http.MethodGet:
				cfg.Reservations.Get(w, r)
			case http.MethodDelete:
				cfg.Reservations.Cancel(w, r)
			default:
				methodNotAllowed(w, http.MethodGet, http.MethodDelete)
			}
		})
		mux.HandleFunc("/my/reservations", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet {
				methodNotAllowed(w, http.MethodGet)
				return
			}
			cfg.Reservations.ListMine(w, r)
		})
	}

	if cfg.Availability != nil {
		mux.HandleFunc("/availability", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet {
				methodNotAllowed(w, http.MethodGet)
				return
			}
			cfg.Availability.Grid(w, r)
		})
	}

	var handler http.Handler = mux
	if len(cfg.Middleware) > 0 {
		for i := len(cfg.Middleware) - 1; i >= 0; i-- {
			if cfg.Middleware[i] != nil {
				handler = cfg.Middleware[i](handler)
			}
		}
	}

	return handler
}

// routeRoom dispatches /rooms/{id} and its sub-resources.
func routeRoom(cfg RouterConfig, w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/rooms/")
	if rest == "" {
		http.NotFound(w, r)
		return
	}

	parts := strings.SplitN(rest, "/", 3)
	id := parts[0]
	if id == "" {
		http.NotFound(w, r)
		return
	}
	r = r.WithContext(ContextWithRoomID(r.Context(), id))

	if len(parts) == 1 {
		switch r.Method {
		case http.MethodGet:
			cfg.Rooms.Get(w, r)
		case http.MethodPut:
			cfg.Rooms.Update(w, r)
		case http.MethodDelete:
			cfg.Rooms.Delete(w, r)
		default:
			methodNotAllowed(w, http.MethodGet, http.MethodPut, http.MethodDelete)
		}
		return
	}

	switch parts[1] {
	case "hours":
		if len(parts) == 3 && parts[2] != "" {
			if r.Method != http.MethodDelete {
				methodNotAllowed(w, http.MethodDelete)
				return
			}
			cfg.Rooms.ClearOpeningHour(w, r, parts[2])
			return
		}
		switch r.Method {
		case http.MethodGet:
			cfg.Rooms.ListOpeningHours(w, r)
		case http.MethodPut:
			cfg.Rooms.SetOpeningHour(w, r)
		default:
			methodNotAllowed(w, http.MethodGet, http.MethodPut)
		}
	case "blackouts":
		if len(parts) == 3 {
			http.NotFound(w, r)
			return
		}
		switch r.Method {
		case http.MethodGet:
			cfg.Rooms.ListBlackouts(w, r)
		case http.MethodPost:
			cfg.Rooms.DeclareBlackout(w, r)
		default:
			methodNotAllowed(w, http.MethodGet, http.MethodPost)
		}
	case "availability":
		if cfg.Availability == nil || len(parts) == 3 {
			http.NotFound(w, r)
			return
		}
		if r.Method != http.MethodGet {
			methodNotAllowed(w, http.MethodGet)
			return
		}
		cfg.Availability.RoomDay(w, r)
	default:
		http.NotFound(w, r)
	}
}

func methodNotAllowed(w http.ResponseWriter, allowed ...string) {
	if len(allowed) > 0 {
		w.Header().Set("Allow", strings.Join(allowed, ", "))
	}
	http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
}
