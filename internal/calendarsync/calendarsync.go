// Package calendarsync mirrors reservation changes to an ICS calendar feed.
// Publishing is best-effort: the booking flow never waits on, or fails
// because of, the calendar.
package calendarsync

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	ics "github.com/arran4/golang-ical"

	"github.com/Nakotex7906/BookFronteraBack/internal/application"
)

// Publisher appends reservation events to an ICS file on disk. Consumers can
// subscribe to the file through any calendar client that reads ICS feeds.
type Publisher struct {
	mu       sync.Mutex
	path     string
	prodID   string
	now      func() time.Time
	logger   *slog.Logger
	disabled bool
}

// Option adjusts publisher construction.
type Option func(*Publisher)

// WithProdID overrides the PRODID stamped on generated calendars.
func WithProdID(prodID string) Option {
	return func(p *Publisher) { p.prodID = prodID }
}

// WithNow overrides the timestamp source, for tests.
func WithNow(now func() time.Time) Option {
	return func(p *Publisher) { p.now = now }
}

// NewPublisher creates a publisher writing to the given ICS file. An empty
// path disables publishing entirely.
func NewPublisher(path string, logger *slog.Logger, opts ...Option) *Publisher {
	p := &Publisher{
		path:   path,
		prodID: "-//BookFrontera//Reservations//EN",
		now:    time.Now,
		logger: logger,
	}
	if logger == nil {
		p.logger = slog.Default()
	}
	if path == "" {
		p.disabled = true
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// PublishReservation records a confirmed reservation as a VEVENT.
func (p *Publisher) PublishReservation(ctx context.Context, reservation application.Reservation, room application.Room, user application.User) error {
	return p.write(ctx, reservation, room, user, false)
}

// PublishCancellation records a cancellation for a previously published reservation.
func (p *Publisher) PublishCancellation(ctx context.Context, reservation application.Reservation, room application.Room, user application.User) error {
	return p.write(ctx, reservation, room, user, true)
}

func (p *Publisher) write(ctx context.Context, reservation application.Reservation, room application.Room, user application.User, cancelled bool) error {
	if p == nil || p.disabled {
		return nil
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	cal, err := p.load()
	if err != nil {
		return err
	}

	event := cal.AddEvent(reservation.ID)
	event.SetDtStampTime(p.now().UTC())
	event.SetStartAt(reservation.Start.UTC())
	event.SetEndAt(reservation.End.UTC())
	event.SetSummary(fmt.Sprintf("Room %s", room.Name))
	event.SetLocation(room.Name)
	if user.DisplayName != "" {
		event.SetDescription(fmt.Sprintf("Reserved by %s", user.DisplayName))
	}
	if cancelled {
		event.SetStatus(ics.ObjectStatusCancelled)
	} else {
		event.SetStatus(ics.ObjectStatusConfirmed)
	}

	if err := p.store(cal); err != nil {
		return err
	}

	p.logger.DebugContext(ctx, "calendar event written",
		"reservation_id", reservation.ID,
		"cancelled", cancelled,
	)
	return nil
}

// load reads the existing calendar, starting a fresh one when the file does
// not exist yet.
func (p *Publisher) load() (*ics.Calendar, error) {
	file, err := os.Open(p.path)
	if err != nil {
		if os.IsNotExist(err) {
			cal := ics.NewCalendar()
			cal.SetMethod(ics.MethodPublish)
			cal.SetProductId(p.prodID)
			return cal, nil
		}
		return nil, fmt.Errorf("failed to open calendar file: %w", err)
	}
	defer file.Close()

	cal, err := ics.ParseCalendar(file)
	if err != nil {
		return nil, fmt.Errorf("failed to parse calendar file: %w", err)
	}
	return cal, nil
}

// store serializes the calendar through a temp file and renames it into
// place so readers never see a partial feed.
func (p *Publisher) store(cal *ics.Calendar) error {
	dir := filepath.Dir(p.path)
	tmp, err := os.CreateTemp(dir, ".calendar-*.ics")
	if err != nil {
		return fmt.Errorf("failed to create temp calendar file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := io.WriteString(tmp, cal.Serialize()); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write calendar: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, p.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace calendar file: %w", err)
	}
	return nil
}
