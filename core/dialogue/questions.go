package dialogue

import (
	"fmt"
	"strings"
)

// questionFor returns the question text associated with a pending field.
func (d *Dialogue) questionFor(field Field) string {
	switch field {
	case FieldName:
		return "What's the name of the event?"
	case FieldDate:
		return "What date is the event? (e.g., March 20, 2025)"
	case FieldTime:
		return "What time is the event? (e.g., 3:00 PM)"
	case FieldLocation:
		return "Where is the event located?"
	case FieldDetails:
		return "Do you want to add any details for the event? If not, just say 'no details'."
	case FieldReminder:
		options := strings.Join(d.catalog.Labels(), ", ")
		return fmt.Sprintf("Would you like a reminder? Options are: %s. Or say 'no reminder'.", options)
	}
	return ""
}

// summary renders all six draft fields followed by the yes/no prompt.
func (d *Dialogue) summary() string {
	draft := d.session.Draft

	var b strings.Builder
	b.WriteString("Event Summary: Here are the event details:\n")
	fmt.Fprintf(&b, "Name: %s.\n", draft.Name)
	fmt.Fprintf(&b, "Date: %s\n", draft.Date)
	fmt.Fprintf(&b, "Time: %s\n", draft.Time)
	fmt.Fprintf(&b, "Location: %s.\n", draft.Location)
	fmt.Fprintf(&b, "Details: %s\n", draft.Details)
	fmt.Fprintf(&b, "Reminder: %s\n", draft.Reminder)
	b.WriteString("Are you happy with this event? Please say yes or no.")
	return b.String()
}
