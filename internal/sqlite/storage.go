package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/imant686/samantha/core/dialogue"
)

const DriverName = "sqlite3"

// Storage is the local source of truth for committed events and conversation
// history. Calendar sync happens after, and independently of, this store.
type Storage struct {
	db *sqlx.DB
}

func NewStorage(db *sql.DB) *Storage {
	s := &Storage{
		db: sqlx.NewDb(db, DriverName),
	}
	if err := s.RunMigrations(); err != nil {
		panic(fmt.Sprintf("sqlite: running migrations: %v", err))
	}
	return s
}

// SaveEvent persists a finalized event and returns its row ID.
func (s Storage) SaveEvent(ctx context.Context, event dialogue.StoredEvent) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO events (event_name, event_date, event_time, location, details, reminder)
		VALUES (?, ?, ?, ?, ?, ?)
	`, event.Name, event.Date, event.Time, event.Location, event.Details, event.Reminder)
	if err != nil {
		return 0, fmt.Errorf("failed to save event: %w", err)
	}
	return res.LastInsertId()
}

// EventsOn returns the stored events for a date in YYYY-MM-DD form, ordered
// by start time.
func (s Storage) EventsOn(ctx context.Context, date string) ([]Event, error) {
	var events []Event
	err := s.db.SelectContext(ctx, &events, `
		SELECT id, event_name, event_date, event_time, location, details, reminder
		FROM events
		WHERE event_date = ?
		ORDER BY event_time
	`, date)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	return events, nil
}

// SaveConversation records one user/assistant turn.
func (s Storage) SaveConversation(ctx context.Context, userInput, response string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO conversations (user_input, assistant_response, timestamp)
		VALUES (?, ?, ?)
	`, userInput, response, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to save conversation: %w", err)
	}
	return nil
}

// RecentConversations returns up to limit turns, newest first.
func (s Storage) RecentConversations(ctx context.Context, limit int) ([]Conversation, error) {
	var conversations []Conversation
	err := s.db.SelectContext(ctx, &conversations, `
		SELECT id, user_input, assistant_response, timestamp
		FROM conversations
		ORDER BY id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list conversations: %w", err)
	}
	return conversations, nil
}
