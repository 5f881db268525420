package google

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/imant686/samantha/core/calendars"
)

const defaultCalendarID = "primary"

const retrySleep = 5 * time.Second

// Client mirrors events to a single Google Calendar. It builds a fresh
// calendar service per call from the stored OAuth token, the same way the
// token would be refreshed by the oauth2 transport.
type Client struct {
	oauthCfg   *oauth2.Config
	token      *oauth2.Token
	calendarID string
	location   *time.Location
}

type ClientOption func(*Client)

// WithCalendarID targets a calendar other than the account's primary one.
func WithCalendarID(id string) ClientOption {
	return func(c *Client) { c.calendarID = id }
}

// WithLocation sets the timezone attached to event start and end times.
func WithLocation(location *time.Location) ClientOption {
	return func(c *Client) { c.location = location }
}

// NewClient parses the OAuth client credentials and a previously issued user
// token, both as the JSON files the Google console and consent flow produce.
func NewClient(credentialsJSON, tokenJSON []byte, opts ...ClientOption) (*Client, error) {
	oauthCfg, err := google.ConfigFromJSON(credentialsJSON, calendar.CalendarScope)
	if err != nil {
		return nil, fmt.Errorf("failed to parse credentials: %w", err)
	}

	var token oauth2.Token
	if err := json.Unmarshal(tokenJSON, &token); err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	c := &Client{
		oauthCfg:   oauthCfg,
		token:      &token,
		calendarID: defaultCalendarID,
		location:   time.UTC,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Insert creates the event and returns the provider-assigned event ID.
func (c *Client) Insert(ctx context.Context, event calendars.Event) (string, error) {
	ctx, span := tracer.Start(ctx, "insert calendar event")
	defer span.End()

	svc, err := c.calendarSvc(ctx)
	if err != nil {
		return "", err
	}

	for {
		created, err := svc.Events.Insert(c.calendarID, c.googleEvent(event)).Context(ctx).Do()
		if err == nil {
			logger.InfoContext(ctx, "created calendar event", "link", created.HtmlLink)
			return created.Id, nil
		}
		if shouldRetry(err) {
			time.Sleep(retrySleep)
			continue
		}
		span.RecordError(err)
		return "", fmt.Errorf("failed to insert event: %w", err)
	}
}

// Events lists single events overlapping [timeMin, timeMax), ordered by start
// time.
func (c *Client) Events(ctx context.Context, timeMin, timeMax time.Time) ([]calendars.Event, error) {
	ctx, span := tracer.Start(ctx, "list calendar events")
	defer span.End()

	svc, err := c.calendarSvc(ctx)
	if err != nil {
		return nil, err
	}

	call := svc.Events.List(c.calendarID).
		Context(ctx).
		TimeMin(timeMin.Format(time.RFC3339)).
		TimeMax(timeMax.Format(time.RFC3339)).
		SingleEvents(true).
		OrderBy("startTime")

	var (
		events        []calendars.Event
		nextPageToken string
	)
	for {
		page, err := call.PageToken(nextPageToken).Do()
		if err != nil {
			if shouldRetry(err) {
				time.Sleep(retrySleep)
				continue
			}
			span.RecordError(err)
			return nil, fmt.Errorf("failed to list events: %w", err)
		}

		for _, item := range page.Items {
			event, err := newEvent(item)
			if err != nil {
				// All-day events carry no clock time and cannot conflict
				// with a timed slot.
				continue
			}
			events = append(events, event)
		}

		nextPageToken = page.NextPageToken
		if nextPageToken == "" {
			return events, nil
		}
	}
}

// Reschedule moves an existing event to a new start, keeping its duration.
func (c *Client) Reschedule(ctx context.Context, eventID string, newStart time.Time) error {
	ctx, span := tracer.Start(ctx, "reschedule calendar event")
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

	start, err := time.Parse(time.RFC3339, event.Start.DateTime)
	if err != nil {
		return fmt.Errorf("event has no usable start time: %w", err)
	}
	end, err := time.Parse(time.RFC3339, event.End.DateTime)
	if err != nil {
		return fmt.Errorf("event has no usable end time: %w", err)
	}

	event.Start.DateTime = newStart.Format(time.RFC3339)
	event.End.DateTime = newStart.Add(end.Sub(start)).Format(time.RFC3339)

	if _, err := svc.Events.Update(c.calendarID, eventID, event).Context(ctx).Do(); err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to reschedule event: %w", err)
	}
	return nil
}

// Cancel deletes an event. Deleting an already-deleted event is not an error.
func (c *Client) Cancel(ctx context.Context, eventID string) error {
	ctx, span := tracer.Start(ctx, "cancel calendar event")
	defer span.End()

	svc, err := c.calendarSvc(ctx)
	if err != nil {
		return err
	}

	for {
		err := svc.Events.Delete(c.calendarID, eventID).Context(ctx).Do()
		if err == nil || alreadyDeleted(err) {
			return nil
		}
		if shouldRetry(err) {
			time.Sleep(retrySleep)
			continue
		}
		span.RecordError(err)
		return fmt.Errorf("failed to cancel event: %w", err)
	}
}

func (c *Client) googleEvent(event calendars.Event) *calendar.Event {
	gevent := &calendar.Event{
		Summary:     event.Summary,
		Location:    event.Location,
		Description: event.Description,
		Start: &calendar.EventDateTime{
			DateTime: event.StartsAt.Format(time.RFC3339),
			TimeZone: c.location.String(),
		},
		End: &calendar.EventDateTime{
			DateTime: event.EndsAt.Format(time.RFC3339),
			TimeZone: c.location.String(),
		},
	}
	if event.ReminderMinutes > 0 {
		gevent.Reminders = &calendar.EventReminders{
			UseDefault: false,
			Overrides: []*calendar.EventReminder{
				{Method: "popup", Minutes: int64(event.ReminderMinutes)},
			},
			ForceSendFields: []string{"UseDefault"},
		}
	}
	return gevent
}

func newEvent(gevent *calendar.Event) (calendars.Event, error) {
	if gevent.Start == nil || gevent.Start.DateTime == "" ||
		gevent.End == nil || gevent.End.DateTime == "" {
		return calendars.Event{}, errors.New("event has no clock time")
	}

	start, err := time.Parse(time.RFC3339, gevent.Start.DateTime)
	if err != nil {
		return calendars.Event{}, fmt.Errorf("failed to parse event start: %w", err)
	}
	end, err := time.Parse(time.RFC3339, gevent.End.DateTime)
	if err != nil {
		return calendars.Event{}, fmt.Errorf("failed to parse event end: %w", err)
	}

	event := calendars.Event{
		ID:          gevent.Id,
		Summary:     gevent.Summary,
		Location:    gevent.Location,
		Description: gevent.Description,
		StartsAt:    start,
		EndsAt:      end,
	}
	if gevent.Reminders != nil {
		for _, override := range gevent.Reminders.Overrides {
			if override.Method == "popup" {
				event.ReminderMinutes = int(override.Minutes)
				break
			}
		}
	}
	return event, nil
}

func (c *Client) calendarSvc(ctx context.Context) (*calendar.Service, error) {
	httpClient := c.oauthCfg.Client(ctx, c.token)
	svc, err := calendar.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("failed to build calendar service: %w", err)
	}
	return svc, nil
}

func shouldRetry(err error) bool {
	return errIsReason(err, "rateLimitExceeded")
}

func alreadyDeleted(err error) bool {
	return errIsReason(err, "deleted")
}

func errIsReason(err error, reason string) bool {
	var gErr *googleapi.Error
	if !errors.As(err, &gErr) {
		return false
	}
	for _, item := range gErr.Errors {
		if item.Reason == reason {
			return true
		}
	}
	return false
}
