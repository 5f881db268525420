// Package dialogue implements the slot-filling conversation that assembles
// a calendar event across multiple turns.
package dialogue

import "github.com/google/uuid"

// Sentinel values carried by a draft until the user supplies an answer. The
// question-selection logic treats them as "still pending".
const (
	NoDetailsSentinel  = "No details provided"
	NoReminderSentinel = "No reminder"
)

// Field names one slot of an event draft.
type Field string

const (
	FieldName     Field = "name"
	FieldDate     Field = "date"
	FieldTime     Field = "time"
	FieldLocation Field = "location"
	FieldDetails  Field = "details"
	FieldReminder Field = "reminder"
)

// fieldOrder is the fixed priority in which missing fields are asked for.
var fieldOrder = []Field{FieldName, FieldDate, FieldTime, FieldLocation, FieldDetails, FieldReminder}

// Draft is the mutable record being assembled for one event-creation session.
// Name, Date, Time and Location are unset while empty; Details and Reminder
// are never unset, they carry their sentinel until overwritten.
type Draft struct {
	Name     string
	Date     string // canonical YYYY-MM-DD once accepted
	Time     string // canonical HH:MM:SS once accepted
	Location string
	Details  string
	Reminder string
}

func NewDraft() Draft {
	return Draft{
		Details:  NoDetailsSentinel,
		Reminder: NoReminderSentinel,
	}
}

func (d Draft) value(field Field) string {
	switch field {
	case FieldName:
		return d.Name
	case FieldDate:
		return d.Date
	case FieldTime:
		return d.Time
	case FieldLocation:
		return d.Location
	case FieldDetails:
		return d.Details
	case FieldReminder:
		return d.Reminder
	}
	return ""
}

func (d *Draft) set(field Field, value string) {
	switch field {
	case FieldName:
		d.Name = value
	case FieldDate:
		d.Date = value
	case FieldTime:
		d.Time = value
	case FieldLocation:
		d.Location = value
	case FieldDetails:
		d.Details = value
	case FieldReminder:
		d.Reminder = value
	}
}

// pending reports whether the field still needs an answer.
func (d Draft) pending(field Field) bool {
	switch field {
	case FieldDetails:
		return d.Details == NoDetailsSentinel
	case FieldReminder:
		return d.Reminder == NoReminderSentinel
	default:
		return d.value(field) == ""
	}
}

// nextPending returns the first field, in priority order, that still needs
// an answer.
func (d Draft) nextPending() (Field, bool) {
	for _, field := range fieldOrder {
		if d.pending(field) {
			return field, true
		}
	}
	return "", false
}

func isDraftField(name string) bool {
	for _, field := range fieldOrder {
		if string(field) == name {
			return true
		}
	}
	return false
}

// Mode is the dialogue state for one conversation.
type Mode string

const (
	ModeIdle                 Mode = "idle"
	ModeCollecting           Mode = "collecting"
	ModeUpdating             Mode = "updating"
	ModeAwaitingConfirmation Mode = "awaiting_confirmation"
)

// Session holds the per-conversation dialogue state. Each conversation must
// own its own Session instance; none of it is shared.
type Session struct {
	ID    string
	Draft Draft
	Mode  Mode
	// PendingField is the field the last question was asking about, only
	// valid while Mode is ModeCollecting.
	PendingField Field
}

func NewSession() Session {
	return Session{
		ID:    uuid.NewString(),
		Draft: NewDraft(),
		Mode:  ModeIdle,
	}
}

// reset discards the draft and returns the session to idle under a fresh ID.
func (s *Session) reset() {
	*s = NewSession()
}
