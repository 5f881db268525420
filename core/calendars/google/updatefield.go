package google

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"google.golang.org/api/calendar/v3"
)

var (
	clockPattern    = regexp.MustCompile(`(\d{1,2}):?(\d{2})?\s*(am|pm)?`)
	reminderPattern = regexp.MustCompile(`(\d+)\s*minutes?`)
)

// UpdateField changes a single field of an existing event. Date and time
// updates keep the event's duration; a reminder update replaces any existing
// override with a popup reminder.
func (c *Client) UpdateField(ctx context.Context, eventID, field, value string) error {
	ctx, span := tracer.Start(ctx, "update calendar event field")
	defer span.End()

	svc, err := c.calendarSvc(ctx)
	if err != nil {
		return err
	}

	event, err := svc.Events.Get(c.calendarID, eventID).Context(ctx).Do()
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to fetch event: %w", err)
	}

	if err := applyFieldUpdate(event, field, value); err != nil {
		span.RecordError(err)
		return err
	}

	if _, err := svc.Events.Update(c.calendarID, eventID, event).Context(ctx).Do(); err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to update event: %w", err)
	}
	return nil
}

func applyFieldUpdate(event *calendar.Event, field, value string) error {
	switch field {
	case "name", "summary":
		event.Summary = value
	case "location":
		event.Location = value
	case "details", "description":
		event.Description = value
	case "date":
		return shiftEventDate(event, value)
	case "time":
		return shiftEventTime(event, value)
	case "reminder":
		event.Reminders = &calendar.EventReminders{
			UseDefault: false,
			Overrides: []*calendar.EventReminder{
				{Method: "popup", Minutes: int64(parseReminderMinutes(value))},
			},
			ForceSendFields: []string{"UseDefault"},
		}
	default:
		return fmt.Errorf("unknown event field %q", field)
	}
	return nil
}

// shiftEventDate moves the event to a new date, keeping its clock time and
// duration.
func shiftEventDate(event *calendar.Event, value string) error {
	newDate, err := time.Parse("2006-01-02", value)
	if err != nil {
		return fmt.Errorf("could not parse the new date: %w", err)
	}

	start, end, err := eventWindow(event)
	if err != nil {
		return err
	}

	newStart := time.Date(newDate.Year(), newDate.Month(), newDate.Day(),
		start.Hour(), start.Minute(), start.Second(), 0, start.Location())
	setEventWindow(event, newStart, newStart.Add(end.Sub(start)))
	return nil
}

// shiftEventTime moves the event to a new clock time on the same date,
// keeping its duration.
func shiftEventTime(event *calendar.Event, value string) error {
	hour, minute, err := parseClock(value)
	if err != nil {
		return err
	}

	start, end, err := eventWindow(event)
	if err != nil {
		return err
	}

	newStart := time.Date(start.Year(), start.Month(), start.Day(),
		hour, minute, 0, 0, start.Location())
	setEventWindow(event, newStart, newStart.Add(end.Sub(start)))
	return nil
}

func eventWindow(event *calendar.Event) (start, end time.Time, err error) {
	if event.Start == nil || event.Start.DateTime == "" ||
		event.End == nil || event.End.DateTime == "" {
		return start, end, fmt.Errorf("event has no clock time")
	}
	if start, err = time.Parse(time.RFC3339, event.Start.DateTime); err != nil {
		return start, end, fmt.Errorf("failed to parse event start: %w", err)
	}
	if end, err = time.Parse(time.RFC3339, event.End.DateTime); err != nil {
		return start, end, fmt.Errorf("failed to parse event end: %w", err)
	}
	return start, end, nil
}

func setEventWindow(event *calendar.Event, start, end time.Time) {
	event.Start.DateTime = start.Format(time.RFC3339)
	event.End.DateTime = end.Format(time.RFC3339)
}

// parseClock accepts forms like "3pm", "3:30 pm", "15:30".
func parseClock(value string) (hour, minute int, err error) {
	match := clockPattern.FindStringSubmatch(strings.ToLower(value))
	if match == nil {
		return 0, 0, fmt.Errorf("could not parse the new time")
	}

	hour, _ = strconv.Atoi(match[1])
	if match[2] != "" {
		minute, _ = strconv.Atoi(match[2])
	}
	if match[3] == "pm" && hour < 12 {
		hour += 12
	}
	if match[3] == "am" && hour == 12 {
		hour = 0
	}
	return hour, minute, nil
}

func parseReminderMinutes(value string) int {
	if match := reminderPattern.FindStringSubmatch(value); match != nil {
		minutes, _ := strconv.Atoi(match[1])
		return minutes
	}
	if minutes, err := strconv.Atoi(value); err == nil {
		return minutes
	}
	return 10
}
