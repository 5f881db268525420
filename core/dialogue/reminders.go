package dialogue

import (
	"fmt"
	"strings"
)

// defaultReminderMinutes is used when a free-text reminder answer matches no
// catalog label.
const defaultReminderMinutes = 10

// reminderOption pairs a human label with minutes before the event.
type reminderOption struct {
	Label   string
	Minutes int
}

// ReminderCatalog maps the fixed set of reminder labels offered to the user
// to minutes before the event. Labels are matched as case-insensitive
// substrings, in catalog order.
type ReminderCatalog struct {
	options []reminderOption
}

func NewReminderCatalog() ReminderCatalog {
	return ReminderCatalog{options: []reminderOption{
		{"5 minutes", 5},
		{"10 minutes", 10},
		{"15 minutes", 15},
		{"30 minutes", 30},
		{"1 hour", 60},
		{"2 hours", 120},
		{"1 day", 1440},
	}}
}

// Labels returns the labels in the order they are offered to the user.
func (c ReminderCatalog) Labels() []string {
	labels := make([]string, len(c.options))
	for i, opt := range c.options {
		labels[i] = opt.Label
	}
	return labels
}

// Minutes translates a reminder answer to minutes before the event. The
// sentinel answer reports ok=false; anything else resolves to the first
// matching label or the default of 10 minutes.
func (c ReminderCatalog) Minutes(reminder string) (minutes int, ok bool) {
	if reminder == "" || reminder == NoReminderSentinel {
		return 0, false
	}

	lowered := strings.ToLower(reminder)
	for _, opt := range c.options {
		if strings.Contains(lowered, strings.ToLower(opt.Label)) {
			return opt.Minutes, true
		}
	}
	return defaultReminderMinutes, true
}

// Render produces the string persisted for a reminder answer, e.g.
// "10 minutes before" or "No reminder".
func (c ReminderCatalog) Render(reminder string) string {
	minutes, ok := c.Minutes(reminder)
	if !ok {
		return NoReminderSentinel
	}
	return fmt.Sprintf("%d minutes before", minutes)
}
