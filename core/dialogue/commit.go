package dialogue

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/imant686/samantha/core/calendars"
	"go.opentelemetry.io/otel/codes"
)

// StoredEvent is the row shape handed to the storage collaborator. Reminder
// carries the rendered string, e.g. "10 minutes before" or "No reminder".
type StoredEvent struct {
	Name     string
	Date     string
	Time     string
	Location string
	Details  string
	Reminder string
}

// EventStore is the storage collaborator that persists finalized events.
type EventStore interface {
	SaveEvent(ctx context.Context, event StoredEvent) (int64, error)
}

// EventInserter is the slice of the calendar collaborator used to mirror a
// persisted event.
type EventInserter interface {
	Insert(ctx context.Context, event calendars.Event) (string, error)
}

// CommitResult is the outcome of finalizing a draft.
type CommitResult struct {
	Persisted      bool
	PersistedID    int64
	CalendarSynced bool
	Message        string
}

// CommitPipeline persists a finalized draft to storage and, best-effort, to
// the external calendar. Storage is the source of truth; calendar sync is a
// mirror, never a precondition.
type CommitPipeline struct {
	store    EventStore
	calendar EventInserter
	catalog  ReminderCatalog
	location *time.Location
}

func NewCommitPipeline(store EventStore, calendar EventInserter, location *time.Location) *CommitPipeline {
	if location == nil {
		location = time.UTC
	}
	return &CommitPipeline{
		store:    store,
		calendar: calendar,
		catalog:  NewReminderCatalog(),
		location: location,
	}
}

// Commit persists the draft and mirrors it to the calendar. Persistence
// failure aborts before any calendar call; calendar failure degrades
// CalendarSynced without invalidating the commit.
func (p *CommitPipeline) Commit(ctx context.Context, draft Draft) CommitResult {
	ctx, span := tracer.Start(ctx, "commit event")
	defer span.End()

	reminderMinutes, hasReminder := p.catalog.Minutes(draft.Reminder)

	id, err := p.store.SaveEvent(ctx, StoredEvent{
		Name:     draft.Name,
		Date:     draft.Date,
		Time:     draft.Time,
		Location: draft.Location,
		Details:  draft.Details,
		Reminder: p.catalog.Render(draft.Reminder),
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return CommitResult{
			Message: fmt.Sprintf("There was a problem adding your event: %v", err),
		}
	}

	result := CommitResult{
		Persisted:   true,
		PersistedID: id,
		Message:     fmt.Sprintf("Event '%s' has been added to your calendar.", draft.Name),
	}

	if p.calendar == nil {
		return result
	}

	event, err := p.calendarEvent(draft, reminderMinutes, hasReminder)
	if err != nil {
		log.Println("Warning: could not build calendar event:", err)
		span.RecordError(err)
		return result
	}

	if _, err := p.calendar.Insert(ctx, event); err != nil {
		log.Println("Warning: calendar sync failed:", err)
		span.RecordError(err)
		return result
	}

	result.CalendarSynced = true
	result.Message += " It's been synced with Google Calendar as well."
	return result
}

func (p *CommitPipeline) calendarEvent(draft Draft, reminderMinutes int, hasReminder bool) (calendars.Event, error) {
	start, err := time.ParseInLocation("2006-01-02 15:04:05", draft.Date+" "+draft.Time, p.location)
	if err != nil {
		return calendars.Event{}, fmt.Errorf("invalid date or time format: %w", err)
	}

	event := calendars.Event{
		Summary:     draft.Name,
		Location:    draft.Location,
		Description: draft.Details,
		StartsAt:    start,
		EndsAt:      start.Add(defaultEventDuration),
	}
	if hasReminder {
		event.ReminderMinutes = reminderMinutes
	}
	return event, nil
}
