package task

import (
	"strconv"
	"strings"
)

// ValidateTitle trims title and rejects it when nothing is left.
func ValidateTitle(title string) (string, error) {
	trimmed := strings.TrimSpace(title)
	if trimmed == "" {
		return "", invalid("title", "is required")
	}
	return trimmed, nil
}

// ParseID parses a task identifier taken from a URL path segment.
func ParseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0, invalid("id", "must be an integer")
	}
	return id, nil
}
