package database

import "time"

// Timestamps are stored as RFC3339 TEXT in UTC, so lexicographic comparison
// in SQL matches chronological order.

// FormatTime renders a timestamp for storage or comparison in SQL.
func FormatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// ParseTime reads a stored timestamp back.
func ParseTime(value string) (time.Time, error) {
	return time.Parse(time.RFC3339, value)
}
