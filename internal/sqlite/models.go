package sqlite

import "time"

type Event struct {
	ID       int64  `db:"id"`
	Name     string `db:"event_name"`
	Date     string `db:"event_date"`
	Time     string `db:"event_time"`
	Location string `db:"location"`
	Details  string `db:"details"`
	Reminder string `db:"reminder"`
}

type Conversation struct {
	ID                int64     `db:"id"`
	UserInput         string    `db:"user_input"`
	AssistantResponse string    `db:"assistant_response"`
	Timestamp         time.Time `db:"timestamp"`
}
