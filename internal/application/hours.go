package application

import (
	"fmt"
	"time"

	"github.com/Nakotex7906/BookFronteraBack/internal/interval"
	"github.com/Nakotex7906/BookFronteraBack/internal/persistence"
)

// parseClockTime parses an "HH:MM" wall-clock value.
func parseClockTime(value string) (hour, minute int, err error) {
	parsed, err := time.Parse("15:04", value)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid clock time %q: %w", value, err)
	}
	return parsed.Hour(), parsed.Minute(), nil
}

// openingWindow converts a weekday opening row into concrete instants on the
// given calendar day. The day is interpreted in loc, which must be the zone
// the row's wall-clock times are written in.
func openingWindow(row persistence.OpeningHour, day time.Time, loc *time.Location) (interval.Range, error) {
	openHour, openMinute, err := parseClockTime(row.OpenTime)
	if err != nil {
		return interval.Range{}, err
	}
	closeHour, closeMinute, err := parseClockTime(row.CloseTime)
	if err != nil {
		return interval.Range{}, err
	}

	local := day.In(loc)
	window := interval.Range{
		Start: time.Date(local.Year(), local.Month(), local.Day(), openHour, openMinute, 0, 0, loc),
		End:   time.Date(local.Year(), local.Month(), local.Day(), closeHour, closeMinute, 0, 0, loc),
	}
	if !window.IsValid() {
		return interval.Range{}, fmt.Errorf("opening window %s-%s is empty", row.OpenTime, row.CloseTime)
	}
	return window, nil
}

// validateOpeningHourInput checks a weekday window before it is stored.
func validateOpeningHourInput(input OpeningHourInput) *ValidationError {
	vErr := &ValidationError{}

	if input.Weekday < time.Sunday || input.Weekday > time.Saturday {
		vErr.add("weekday", "weekday must be between 0 (Sunday) and 6 (Saturday)")
	}

	openHour, openMinute, openErr := parseClockTime(input.OpenTime)
	if openErr != nil {
		vErr.add("open_time", "must be a valid HH:MM time")
	}
	closeHour, closeMinute, closeErr := parseClockTime(input.CloseTime)
	if closeErr != nil {
		vErr.add("close_time", "must be a valid HH:MM time")
	}

	if openErr == nil && closeErr == nil {
		openTotal := openHour*60 + openMinute
		closeTotal := closeHour*60 + closeMinute
		if openTotal >= closeTotal {
			vErr.add("close_time", "close time must be after open time")
		}
	}

	if vErr.HasErrors() {
		return vErr
	}
	return nil
}
