package sqlite

func (s Storage) RunMigrations() error {
	for _, m := range migrations {
		if _, err := s.db.Exec(m); err != nil {
			return err
		}
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		event_name VARCHAR NOT NULL,
		event_date VARCHAR NOT NULL,
		event_time VARCHAR NOT NULL,
		location VARCHAR NOT NULL,
		details TEXT NOT NULL,
		reminder VARCHAR NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS conversations (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_input TEXT NOT NULL,
		assistant_response TEXT NOT NULL,
		timestamp TIMESTAMP NOT NULL
	)`,
}
