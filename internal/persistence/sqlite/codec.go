package sqlite

import (
	"fmt"
	"strings"
	"time"
)

// formatTime encodes an instant as UTC RFC3339. All stored timestamps use
// the same Z offset so that SQL string comparison matches time order.
func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func parseTime(value string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse timestamp %q: %w", value, err)
	}
	return t, nil
}

func parseTimePtr(value string) (*time.Time, error) {
	t, err := parseTime(value)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// encodeEquipment joins equipment tags into a single column value.
// Tags are trimmed and empty entries dropped.
func encodeEquipment(tags []string) string {
	cleaned := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag != "" {
			cleaned = append(cleaned, tag)
		}
	}
	return strings.Join(cleaned, ",")
}

func decodeEquipment(value string) []string {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	tags := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part != "" {
			tags = append(tags, part)
		}
	}
	return tags
}
