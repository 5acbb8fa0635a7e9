package application

import (
	"context"
	"fmt"
	"log/slog"
	"net/mail"
	"sort"
	"strings"
	"time"

	"github.com/Nakotex7906/BookFronteraBack/internal/clock"
	"github.com/Nakotex7906/BookFronteraBack/internal/persistence"
)

// UserStore captures the persistence operations needed by the service.
type UserStore interface {
	CreateUser(ctx context.Context, user persistence.User) error
	UpdateUser(ctx context.Context, user persistence.User) error
	GetUser(ctx context.Context, id string) (persistence.User, error)
	GetUserByEmail(ctx context.Context, email string) (persistence.User, error)
	ListUsers(ctx context.Context) ([]persistence.User, error)
	DeleteUser(ctx context.Context, id string) error
}

// PasswordHasher derives a storable hash from a plain password.
type PasswordHasher func(password string) (string, error)

// UserService orchestrates validation, authorization, and persistence for accounts.
type UserService struct {
	users        UserStore
	hashPassword PasswordHasher
	idGenerator  func() string
	clock        clock.Clock
	logger       *slog.Logger
}

// NewUserService constructs a user service with the provided dependencies.
func NewUserService(users UserStore, hashPassword PasswordHasher, idGenerator func() string, clk clock.Clock) *UserService {
	return NewUserServiceWithLogger(users, hashPassword, idGenerator, clk, nil)
}

// NewUserServiceWithLogger constructs a user service with a specified logger.
func NewUserServiceWithLogger(users UserStore, hashPassword PasswordHasher, idGenerator func() string, clk clock.Clock, logger *slog.Logger) *UserService {
	if hashPassword == nil {
		hashPassword = func(password string) (string, error) {
			return CreatePasswordHash(password, DefaultArgon2idParams)
		}
	}
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	return &UserService{
		users:        users,
		hashPassword: hashPassword,
		idGenerator:  idGenerator,
		clock:        clk,
		logger:       defaultLogger(logger),
	}
}

func (s *UserService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "UserService", operation, attrs...)
}

func (s *UserService) now() time.Time {
	if s.clock != nil {
		return s.clock.Now()
	}
	return time.Now()
}

// CreateUser validates input and persists a new account for administrators.
func (s *UserService) CreateUser(ctx context.Context, params CreateUserParams) (user User, err error) {
	if s == nil {
		err = fmt.Errorf("UserService is nil")
		return
	}
	if s.users == nil {
		err = fmt.Errorf("user repository not configured")
		return
	}

	logger := s.loggerWith(ctx, "CreateUser",
		"principal_id", params.Principal.UserID,
	)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to create user", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("user_id", user.ID).InfoContext(ctx, "user created")
	}()

	if !params.Principal.IsAdmin {
		err = ErrUnauthorized
		return
	}

	vErr := validateUserInput(params.Input, true)
	if vErr.HasErrors() {
		err = vErr
		return
	}

	var hash string
	hash, err = s.hashPassword(params.Input.Password)
	if err != nil {
		return
	}

	now := s.now()
	record := persistence.User{
		ID:           s.idGenerator(),
		Email:        strings.ToLower(strings.TrimSpace(params.Input.Email)),
		DisplayName:  strings.TrimSpace(params.Input.DisplayName),
		IsAdmin:      params.Input.IsAdmin,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err = s.users.CreateUser(ctx, record); err != nil {
		err = mapRepoError(err)
		return
	}

	user = fromPersistenceUser(record)
	return
}

// UpdateUser applies account changes. Users may rename themselves or change
// their own password; email and the admin flag require an administrator.
func (s *UserService) UpdateUser(ctx context.Context, params UpdateUserParams) (user User, err error) {
	if s == nil {
		err = fmt.Errorf("UserService is nil")
		return
	}
	if s.users == nil {
		err = fmt.Errorf("user repository not configured")
		return
	}

	logger := s.loggerWith(ctx, "UpdateUser",
		"principal_id", params.Principal.UserID,
		"user_id", params.UserID,
	)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to update user", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("user_id", user.ID).InfoContext(ctx, "user updated")
	}()

	selfUpdate := params.Principal.UserID == params.UserID
	if !selfUpdate && !params.Principal.IsAdmin {
		err = ErrUnauthorized
		return
	}

	var existing persistence.User
	existing, err = s.users.GetUser(ctx, params.UserID)
	if err != nil {
		err = mapRepoError(err)
		return
	}

	input := params.Input
	if !params.Principal.IsAdmin {
		emailChanged := input.Email != "" && strings.ToLower(strings.TrimSpace(input.Email)) != existing.Email
		if input.IsAdmin != existing.IsAdmin || emailChanged {
			err = ErrUnauthorized
			return
		}
	}

	vErr := validateUserInput(input, false)
	if vErr.HasErrors() {
		err = vErr
		return
	}

	updated := existing
	if input.Email != "" {
		updated.Email = strings.ToLower(strings.TrimSpace(input.Email))
	}
	updated.DisplayName = strings.TrimSpace(input.DisplayName)
	if params.Principal.IsAdmin {
		updated.IsAdmin = input.IsAdmin
	}
	if input.Password != "" {
		var hash string
		hash, err = s.hashPassword(input.Password)
		if err != nil {
			return
		}
		updated.PasswordHash = hash
	}
	updated.UpdatedAt = s.now()

	if err = s.users.UpdateUser(ctx, updated); err != nil {
		err = mapRepoError(err)
		return
	}

	user = fromPersistenceUser(updated)
	return
}

// GetUser returns one account, visible to its owner and to administrators.
func (s *UserService) GetUser(ctx context.Context, principal Principal, userID string) (User, error) {
	if s == nil {
		return User{}, fmt.Errorf("UserService is nil")
	}
	if s.users == nil {
		return User{}, fmt.Errorf("user repository not configured")
	}
	if principal.UserID != userID && !principal.IsAdmin {
		return User{}, ErrUnauthorized
	}

	existing, err := s.users.GetUser(ctx, userID)
	if err != nil {
		return User{}, mapRepoError(err)
	}
	return fromPersistenceUser(existing), nil
}

// ListUsers enumerates accounts for administrators.
func (s *UserService) ListUsers(ctx context.Context, principal Principal) (users []User, err error) {
	if s == nil {
		err = fmt.Errorf("UserService is nil")
		return
	}
	if s.users == nil {
		err = fmt.Errorf("user repository not configured")
		return
	}
	if !principal.IsAdmin {
		err = ErrUnauthorized
		return
	}

	var raw []persistence.User
	raw, err = s.users.ListUsers(ctx)
	if err != nil {
		err = mapRepoError(err)
		return
	}

	users = make([]User, 0, len(raw))
	for _, row := range raw {
		users = append(users, fromPersistenceUser(row))
	}
	sort.Slice(users, func(i, j int) bool { return users[i].Email < users[j].Email })
	return
}

// DeleteUser removes an account and its dependent records for administrators.
func (s *UserService) DeleteUser(ctx context.Context, principal Principal, userID string) error {
	if s == nil {
		return fmt.Errorf("UserService is nil")
	}
	if s.users == nil {
		return fmt.Errorf("user repository not configured")
	}
	if !principal.IsAdmin {
		return ErrUnauthorized
	}

	logger := s.loggerWith(ctx, "DeleteUser",
		"principal_id", principal.UserID,
		"user_id", userID,
	)

	if err := s.users.DeleteUser(ctx, userID); err != nil {
		err = mapRepoError(err)
		logger.ErrorContext(ctx, "failed to delete user", "error", err, "error_kind", ErrorKind(err))
		return err
	}

	logger.InfoContext(ctx, "user deleted")
	return nil
}

func validateUserInput(input UserInput, creating bool) *ValidationError {
	vErr := &ValidationError{}

	email := strings.TrimSpace(input.Email)
	if creating && email == "" {
		vErr.add("email", "email is required")
	}
	if email != "" {
		if _, err := mail.ParseAddress(email); err != nil {
			vErr.add("email", "must be a valid email address")
		}
	}

	if strings.TrimSpace(input.DisplayName) == "" {
		vErr.add("display_name", "display name is required")
	}

	if creating && input.Password == "" {
		vErr.add("password", "password is required")
	}
	if input.Password != "" && len(input.Password) < 8 {
		vErr.add("password", "password must be at least 8 characters")
	}

	return vErr
}
