// Package calendars holds the event type shared by calendar client
// implementations.
package calendars

import "time"

// Event is a single calendar event.
type Event struct {
	ID          string
	Summary     string
	Location    string
	Description string
	StartsAt    time.Time
	EndsAt      time.Time

	// ReminderMinutes is the popup reminder lead time. Zero means no
	// reminder override.
	ReminderMinutes int
}

// Overlaps reports whether two events share any time.
func (e Event) Overlaps(other Event) bool {
	return e.StartsAt.Before(other.EndsAt) && e.EndsAt.After(other.StartsAt)
}
