package dialogue

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/imant686/samantha/core/calendars"
)

// defaultEventDuration is assumed when no end time is given.
const defaultEventDuration = time.Hour

// EventLister is the slice of the calendar collaborator used for conflict
// checking.
type EventLister interface {
	Events(ctx context.Context, timeMin, timeMax time.Time) ([]calendars.Event, error)
}

// ConflictReport lists existing events that overlap a candidate slot. The
// report is advisory; it never blocks confirmation.
type ConflictReport struct {
	Conflicts []calendars.Event
}

func (r ConflictReport) HasConflicts() bool { return len(r.Conflicts) > 0 }

func (r ConflictReport) String() string {
	if !r.HasConflicts() {
		return "No conflicts found"
	}

	summaries := make([]string, len(r.Conflicts))
	for i, event := range r.Conflicts {
		summaries[i] = fmt.Sprintf("%q from %s to %s",
			event.Summary,
			event.StartsAt.Format("15:04"),
			event.EndsAt.Format("15:04"))
	}
	return "Possible conflicts: " + strings.Join(summaries, "; ")
}

// ConflictChecker asks the calendar collaborator whether any existing event
// overlaps a candidate date/time window.
type ConflictChecker struct {
	calendar EventLister
	location *time.Location
}

func NewConflictChecker(calendar EventLister, location *time.Location) *ConflictChecker {
	if location == nil {
		location = time.UTC
	}
	return &ConflictChecker{calendar: calendar, location: location}
}

// Check reports existing events overlapping [date+startTime, date+endTime).
// An empty endTime assumes the default one hour duration. The listing window
// is padded by an hour on each side to catch adjacent events.
func (c *ConflictChecker) Check(ctx context.Context, date, startTime, endTime string) (ConflictReport, error) {
	if c == nil || c.calendar == nil {
		return ConflictReport{}, nil
	}

	ctx, span := tracer.Start(ctx, "check conflicts")
	defer span.End()

	start, err := time.ParseInLocation("2006-01-02 15:04:05", date+" "+startTime, c.location)
	if err != nil {
		return ConflictReport{}, fmt.Errorf("could not parse date and time for conflict checking: %w", err)
	}

	end := start.Add(defaultEventDuration)
	if endTime != "" {
		end, err = time.ParseInLocation("2006-01-02 15:04:05", date+" "+endTime, c.location)
		if err != nil {
			return ConflictReport{}, fmt.Errorf("could not parse end time for conflict checking: %w", err)
		}
	}

	candidate := calendars.Event{StartsAt: start, EndsAt: end}

	existing, err := c.calendar.Events(ctx, start.Add(-time.Hour), start.Add(2*time.Hour))
	if err != nil {
		span.RecordError(err)
		return ConflictReport{}, fmt.Errorf("failed to list events: %w", err)
	}

	var report ConflictReport
	for _, event := range existing {
		if event.Overlaps(candidate) {
			report.Conflicts = append(report.Conflicts, event)
		}
	}
	return report, nil
}
