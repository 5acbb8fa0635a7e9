package testfixtures

import (
	"log/slog"
	"time"

	"github.com/Nakotex7906/BookFronteraBack/internal/application"
	"github.com/Nakotex7906/BookFronteraBack/internal/clock"
)

// ServiceFactory assists tests with constructing application services using
// deterministic identifiers and clocks.
type ServiceFactory struct {
	Clock       *Clock
	IDGenerator *IDGenerator
	Policy      application.BookingPolicy
}

// ServiceFactoryOption configures a ServiceFactory instance.
type ServiceFactoryOption func(*ServiceFactory)

// NewServiceFactory constructs a ServiceFactory with defaults.
func NewServiceFactory(opts ...ServiceFactoryOption) *ServiceFactory {
	factory := &ServiceFactory{
		Clock:       NewClock(time.Time{}),
		IDGenerator: NewIDGenerator("id"),
		Policy:      application.DefaultBookingPolicy(),
	}
	for _, opt := range opts {
		opt(factory)
	}
	if factory.Clock == nil {
		factory.Clock = NewClock(time.Time{})
	}
	if factory.IDGenerator == nil {
		factory.IDGenerator = NewIDGenerator("id")
	}
	return factory
}

// WithClock overrides the clock used by the factory.
func WithClock(clk *Clock) ServiceFactoryOption {
	return func(factory *ServiceFactory) {
		factory.Clock = clk
	}
}

// WithIDGenerator overrides the identifier generator used by the factory.
func WithIDGenerator(generator *IDGenerator) ServiceFactoryOption {
	return func(factory *ServiceFactory) {
		factory.IDGenerator = generator
	}
}

// WithPolicy overrides the booking policy applied to constructed services.
func WithPolicy(policy application.BookingPolicy) ServiceFactoryOption {
	return func(factory *ServiceFactory) {
		factory.Policy = policy
	}
}

// ReservationServiceDeps captures dependencies for constructing a reservation service.
type ReservationServiceDeps struct {
	Reservations application.ReservationStore
	Rooms        application.RoomCatalog
	Hours        application.OpeningHourStore
	Blackouts    application.BlackoutStore
	Users        application.UserDirectory
	Calendar     application.CalendarPublisher
	IDGenerator  func() string
	Clock        clock.Clock
	Logger       *slog.Logger
}

// NewReservationService builds a reservation service using the supplied
// dependencies combined with the factory defaults.
func (f *ServiceFactory) NewReservationService(deps ReservationServiceDeps) *application.ReservationService {
	idGen := deps.IDGenerator
	if idGen == nil {
		idGen = f.IDGenerator.NextFunc()
	}
	clk := deps.Clock
	if clk == nil {
		clk = f.Clock
	}
	return application.NewReservationServiceWithLogger(
		deps.Reservations,
		deps.Rooms,
		deps.Hours,
		deps.Blackouts,
		deps.Users,
		deps.Calendar,
		f.Policy,
		clk,
		idGen,
		deps.Logger,
	)
}

// AvailabilityServiceDeps captures dependencies for constructing an availability service.
type AvailabilityServiceDeps struct {
	Rooms        application.RoomLister
	Hours        application.OpeningHourStore
	Blackouts    application.BlackoutStore
	Reservations application.ReservationSource
	Clock        clock.Clock
	Logger       *slog.Logger
}

// NewAvailabilityService builds an availability service using the supplied dependencies.
func (f *ServiceFactory) NewAvailabilityService(deps AvailabilityServiceDeps) *application.AvailabilityService {
	clk := deps.Clock
	if clk == nil {
		clk = f.Clock
	}
	return application.NewAvailabilityServiceWithLogger(
		deps.Rooms,
		deps.Hours,
		deps.Blackouts,
		deps.Reservations,
		f.Policy,
		clk,
		deps.Logger,
	)
}

// RoomServiceDeps captures dependencies for constructing a room service.
type RoomServiceDeps struct {
	Rooms       application.RoomStore
	Hours       application.OpeningHourAdmin
	Blackouts   application.BlackoutAdmin
	IDGenerator func() string
	Clock       clock.Clock
	Logger      *slog.Logger
}

// NewRoomService builds a room service using the supplied dependencies.
func (f *ServiceFactory) NewRoomService(deps RoomServiceDeps) *application.RoomService {
	idGen := deps.IDGenerator
	if idGen == nil {
		idGen = f.IDGenerator.NextFunc()
	}
	clk := deps.Clock
	if clk == nil {
		clk = f.Clock
	}
	return application.NewRoomServiceWithLogger(
		deps.Rooms,
		deps.Hours,
		deps.Blackouts,
		idGen,
		clk,
		deps.Logger,
	)
}

// UserServiceDeps captures dependencies for constructing a user service.
type UserServiceDeps struct {
	Users       application.UserStore
	Hasher      application.PasswordHasher
	IDGenerator func() string
	Clock       clock.Clock
	Logger      *slog.Logger
}

// NewUserService builds a user service using the supplied dependencies.
func (f *ServiceFactory) NewUserService(deps UserServiceDeps) *application.UserService {
	idGen := deps.IDGenerator
	if idGen == nil {
		idGen = f.IDGenerator.NextFunc()
	}
	clk := deps.Clock
	if clk == nil {
		clk = f.Clock
	}
	return application.NewUserServiceWithLogger(
		deps.Users,
		deps.Hasher,
		idGen,
		clk,
		deps.Logger,
	)
}

// AuthServiceDeps captures dependencies for constructing an auth service.
type AuthServiceDeps struct {
	Credentials    application.CredentialStore
	Sessions       application.SessionStore
	PasswordVerify application.PasswordVerifier
	TokenGenerator func() string
	Clock          clock.Clock
	SessionTTL     time.Duration
	Logger         *slog.Logger
}

// NewAuthService builds an auth service using the supplied dependencies.
func (f *ServiceFactory) NewAuthService(deps AuthServiceDeps) *application.AuthService {
	token := deps.TokenGenerator
	if token == nil {
		token = f.IDGenerator.NextFunc()
	}
	clk := deps.Clock
	if clk == nil {
		clk = f.Clock
	}
	return application.NewAuthServiceWithLogger(
		deps.Credentials,
		deps.Sessions,
		deps.PasswordVerify,
		token,
		clk,
		deps.SessionTTL,
		deps.Logger,
	)
}
