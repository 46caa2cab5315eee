package sqlite

import "database/sql"

// schema sets up the database tables. It runs on startup to ensure tables exist.
// Tables are created in foreign key order: users, then friends and events,
// then the records that reference them.
const schema = `
CREATE TABLE IF NOT EXISTS users (
    id TEXT PRIMARY KEY,
    email TEXT NOT NULL UNIQUE,
    display_name TEXT NOT NULL,
    password_hash TEXT NOT NULL,
    created_at INTEGER NOT NULL,
    updated_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS friends (
    id TEXT PRIMARY KEY,
    owner_id TEXT NOT NULL,
    name TEXT NOT NULL,
    relation TEXT NOT NULL,
    created_at INTEGER NOT NULL,
    FOREIGN KEY (owner_id) REFERENCES users(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS events (
    id TEXT PRIMARY KEY,
    owner_id TEXT NOT NULL,
    title TEXT NOT NULL,
    category TEXT NOT NULL,
    date INTEGER NOT NULL,
    created_at INTEGER NOT NULL,
    FOREIGN KEY (owner_id) REFERENCES users(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS records (
    id TEXT PRIMARY KEY,
    event_id TEXT NOT NULL,
    friend_id TEXT NOT NULL,
    amount INTEGER NOT NULL CHECK (amount > 0),
    gift_type TEXT NOT NULL DEFAULT 'cash',
    memo TEXT,
    created_at INTEGER NOT NULL,
    FOREIGN KEY (event_id) REFERENCES events(id) ON DELETE CASCADE,
    FOREIGN KEY (friend_id) REFERENCES friends(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS sent_records (
    id TEXT PRIMARY KEY,
    owner_id TEXT NOT NULL,
    friend_id TEXT NOT NULL,
    amount INTEGER NOT NULL CHECK (amount > 0),
    date INTEGER NOT NULL,
    event_type TEXT NOT NULL,
    memo TEXT,
    created_at INTEGER NOT NULL,
    FOREIGN KEY (owner_id) REFERENCES users(id) ON DELETE CASCADE,
    FOREIGN KEY (friend_id) REFERENCES friends(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_friends_owner_name ON friends(owner_id, name);
CREATE INDEX IF NOT EXISTS idx_events_owner_date ON events(owner_id, date);
CREATE INDEX IF NOT EXISTS idx_records_event_id ON records(event_id);
CREATE INDEX IF NOT EXISTS idx_records_friend_id ON records(friend_id);
CREATE INDEX IF NOT EXISTS idx_sent_records_owner_friend ON sent_records(owner_id, friend_id);
`

// runMigrations executes the schema setup.
func runMigrations(db *sql.DB) error {
	_, err := db.Exec(schema)
	return err
}
