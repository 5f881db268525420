package google

import (
	"testing"
	"time"

	"google.golang.org/api/calendar/v3"
)

func timedEvent(start, end string) *calendar.Event {
	return &calendar.Event{
		Summary: "Dentist",
		Start:   &calendar.EventDateTime{DateTime: start},
		End:     &calendar.EventDateTime{DateTime: end},
	}
}

func TestApplyFieldUpdateTextFields(t *testing.T) {
	for _, tc := range []struct {
		field string
		check func(*calendar.Event) string
	}{
		{"name", func(e *calendar.Event) string { return e.Summary }},
		{"summary", func(e *calendar.Event) string { return e.Summary }},
		{"location", func(e *calendar.Event) string { return e.Location }},
		{"details", func(e *calendar.Event) string { return e.Description }},
		{"description", func(e *calendar.Event) string { return e.Description }},
	} {
		event := timedEvent("2025-03-20T10:00:00Z", "2025-03-20T11:00:00Z")
		if err := applyFieldUpdate(event, tc.field, "updated"); err != nil {
			t.Fatalf("%s: unexpected error: %v", tc.field, err)
		}
		if got := tc.check(event); got != "updated" {
			t.Errorf("%s: expected %q, got %q", tc.field, "updated", got)
		}
	}
}

func TestApplyFieldUpdateDateKeepsTimeAndDuration(t *testing.T) {
	event := timedEvent("2025-03-20T10:30:00Z", "2025-03-20T12:00:00Z")

	if err := applyFieldUpdate(event, "date", "2025-03-25"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if event.Start.DateTime != "2025-03-25T10:30:00Z" {
		t.Errorf("expected start 2025-03-25T10:30:00Z, got %s", event.Start.DateTime)
	}
	if event.End.DateTime != "2025-03-25T12:00:00Z" {
		t.Errorf("expected end 2025-03-25T12:00:00Z, got %s", event.End.DateTime)
	}
}

func TestApplyFieldUpdateTimeKeepsDateAndDuration(t *testing.T) {
	event := timedEvent("2025-03-20T10:00:00Z", "2025-03-20T11:00:00Z")

	if err := applyFieldUpdate(event, "time", "3:30 pm"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if event.Start.DateTime != "2025-03-20T15:30:00Z" {
		t.Errorf("expected start 2025-03-20T15:30:00Z, got %s", event.Start.DateTime)
	}
	if event.End.DateTime != "2025-03-20T16:30:00Z" {
		t.Errorf("expected end 2025-03-20T16:30:00Z, got %s", event.End.DateTime)
	}
}

func TestApplyFieldUpdateReminder(t *testing.T) {
	event := timedEvent("2025-03-20T10:00:00Z", "2025-03-20T11:00:00Z")

	if err := applyFieldUpdate(event, "reminder", "30 minutes"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if event.Reminders == nil || len(event.Reminders.Overrides) != 1 {
		t.Fatal("expected a single reminder override")
	}
	override := event.Reminders.Overrides[0]
	if override.Method != "popup" || override.Minutes != 30 {
		t.Errorf("expected 30 minute popup, got %s/%d", override.Method, override.Minutes)
	}
}

func TestApplyFieldUpdateUnknownField(t *testing.T) {
	event := timedEvent("2025-03-20T10:00:00Z", "2025-03-20T11:00:00Z")
	if err := applyFieldUpdate(event, "colour", "blue"); err == nil {
		t.Fatal("expected an error for an unknown field")
	}
}

func TestParseClock(t *testing.T) {
	for _, tc := range []struct {
		value        string
		hour, minute int
	}{
		{"3pm", 15, 0},
		{"3:30 pm", 15, 30},
		{"12 am", 0, 0},
		{"12pm", 12, 0},
		{"15:30", 15, 30},
		{"9", 9, 0},
	} {
		hour, minute, err := parseClock(tc.value)
		if err != nil {
			t.Fatalf("%q: unexpected error: %v", tc.value, err)
		}
		if hour != tc.hour || minute != tc.minute {
			t.Errorf("%q: expected %02d:%02d, got %02d:%02d", tc.value, tc.hour, tc.minute, hour, minute)
		}
	}
}

func TestParseReminderMinutes(t *testing.T) {
	for _, tc := range []struct {
		value   string
		minutes int
	}{
		{"30 minutes", 30},
		{"1 minute", 1},
		{"45", 45},
		{"whenever", 10},
	} {
		if got := parseReminderMinutes(tc.value); got != tc.minutes {
			t.Errorf("%q: expected %d, got %d", tc.value, tc.minutes, got)
		}
	}
}

func TestShiftEventDateRejectsAllDayEvent(t *testing.T) {
	event := &calendar.Event{
		Start: &calendar.EventDateTime{Date: "2025-03-20"},
		End:   &calendar.EventDateTime{Date: "2025-03-21"},
	}
	if err := shiftEventDate(event, "2025-03-25"); err == nil {
		t.Fatal("expected an error for an event without clock time")
	}
}

func TestEventWindowDuration(t *testing.T) {
	event := timedEvent("2025-03-20T10:00:00Z", "2025-03-20T11:30:00Z")
	start, end, err := eventWindow(event)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if end.Sub(start) != 90*time.Minute {
		t.Errorf("expected 90m duration, got %v", end.Sub(start))
	}
}
