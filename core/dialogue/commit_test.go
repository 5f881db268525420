package dialogue

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/imant686/samantha/core/calendars"
)

type calendarStub struct {
	inserted []calendars.Event
	err      error
}

func (c *calendarStub) Insert(_ context.Context, event calendars.Event) (string, error) {
	if c.err != nil {
		return "", c.err
	}
	c.inserted = append(c.inserted, event)
	return fmt.Sprintf("cal-%d", len(c.inserted)), nil
}

func fullDraft() Draft {
	return Draft{
		Name:     "Team sync",
		Date:     "2025-03-20",
		Time:     "15:00:00",
		Location: "Room 2",
		Details:  "Quarterly review",
		Reminder: "10 minutes",
	}
}

func TestCommitPersistsAndSyncs(t *testing.T) {
	store := &recordingStore{}
	calendar := &calendarStub{}
	pipeline := NewCommitPipeline(store, calendar, time.UTC)

	result := pipeline.Commit(context.Background(), fullDraft())

	if !result.Persisted || result.PersistedID != 1 {
		t.Fatalf("expected persisted result, got %+v", result)
	}
	if !result.CalendarSynced {
		t.Fatalf("expected calendar sync, got %+v", result)
	}
	if !strings.Contains(result.Message, "Event 'Team sync' has been added") {
		t.Errorf("unexpected message: %q", result.Message)
	}
	if !strings.Contains(result.Message, "synced with Google Calendar") {
		t.Errorf("expected sync clause in message: %q", result.Message)
	}

	if len(store.saved) != 1 {
		t.Fatalf("expected one stored event, got %d", len(store.saved))
	}
	if store.saved[0].Reminder != "10 minutes before" {
		t.Errorf("expected rendered reminder, got %q", store.saved[0].Reminder)
	}

	if len(calendar.inserted) != 1 {
		t.Fatalf("expected one calendar insert, got %d", len(calendar.inserted))
	}
	event := calendar.inserted[0]
	wantStart := time.Date(2025, 3, 20, 15, 0, 0, 0, time.UTC)
	if !event.StartsAt.Equal(wantStart) {
		t.Errorf("expected start %v, got %v", wantStart, event.StartsAt)
	}
	if !event.EndsAt.Equal(wantStart.Add(time.Hour)) {
		t.Errorf("expected one hour duration, got end %v", event.EndsAt)
	}
	if event.ReminderMinutes != 10 {
		t.Errorf("expected 10 minute reminder, got %d", event.ReminderMinutes)
	}
}

func TestCommitStorageFailureSkipsCalendar(t *testing.T) {
	store := &recordingStore{err: fmt.Errorf("connection refused")}
	calendar := &calendarStub{}
	pipeline := NewCommitPipeline(store, calendar, nil)

	result := pipeline.Commit(context.Background(), fullDraft())

	if result.Persisted {
		t.Fatalf("expected persistence failure, got %+v", result)
	}
	if !strings.Contains(result.Message, "There was a problem adding your event: connection refused") {
		t.Errorf("expected verbatim failure message, got %q", result.Message)
	}
	if len(calendar.inserted) != 0 {
		t.Errorf("calendar must not be called after storage failure")
	}
}

func TestCommitCalendarFailureDoesNotInvalidateCommit(t *testing.T) {
	store := &recordingStore{}
	calendar := &calendarStub{err: fmt.Errorf("rate limited")}
	pipeline := NewCommitPipeline(store, calendar, nil)

	result := pipeline.Commit(context.Background(), fullDraft())

	if !result.Persisted {
		t.Fatalf("expected persisted despite calendar failure, got %+v", result)
	}
	if result.CalendarSynced {
		t.Errorf("expected calendarSynced false")
	}
	if strings.Contains(result.Message, "synced") {
		t.Errorf("expected no sync clause, got %q", result.Message)
	}
}

func TestCommitWithoutCalendarCollaborator(t *testing.T) {
	store := &recordingStore{}
	pipeline := NewCommitPipeline(store, nil, nil)

	result := pipeline.Commit(context.Background(), fullDraft())

	if !result.Persisted || result.CalendarSynced {
		t.Fatalf("expected persisted-only result, got %+v", result)
	}
}

func TestCommitUnmatchedReminderDefaultsToTenMinutes(t *testing.T) {
	store := &recordingStore{}
	calendar := &calendarStub{}
	pipeline := NewCommitPipeline(store, calendar, nil)

	draft := fullDraft()
	draft.Reminder = "whenever you feel like it"
	pipeline.Commit(context.Background(), draft)

	if store.saved[0].Reminder != "10 minutes before" {
		t.Errorf("expected default reminder rendering, got %q", store.saved[0].Reminder)
	}
	if calendar.inserted[0].ReminderMinutes != 10 {
		t.Errorf("expected default 10 minutes, got %d", calendar.inserted[0].ReminderMinutes)
	}
}

func TestCommitNoReminderSentinelPersistsVerbatim(t *testing.T) {
	store := &recordingStore{}
	calendar := &calendarStub{}
	pipeline := NewCommitPipeline(store, calendar, nil)

	draft := fullDraft()
	draft.Reminder = NoReminderSentinel
	pipeline.Commit(context.Background(), draft)

	if store.saved[0].Reminder != "No reminder" {
		t.Errorf("expected sentinel persisted, got %q", store.saved[0].Reminder)
	}
	if calendar.inserted[0].ReminderMinutes != 0 {
		t.Errorf("expected no reminder override, got %d", calendar.inserted[0].ReminderMinutes)
	}
}

func TestCommitUnparsableDateStillPersists(t *testing.T) {
	store := &recordingStore{}
	calendar := &calendarStub{}
	pipeline := NewCommitPipeline(store, calendar, nil)

	draft := fullDraft()
	draft.Time = "sometime after lunch"
	result := pipeline.Commit(context.Background(), draft)

	if !result.Persisted {
		t.Fatalf("expected persisted event, got %+v", result)
	}
	if result.CalendarSynced {
		t.Errorf("expected no calendar sync for unparsable time")
	}
	if len(calendar.inserted) != 0 {
		t.Errorf("expected no calendar insert, got %d", len(calendar.inserted))
	}
}
