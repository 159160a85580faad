package dataaccess

// sqliteSchema is the schema of the SQLite store. Every statement is idempotent.
const sqliteSchema = `
CREATE TABLE IF NOT EXISTS community_configs (
	community_id       TEXT PRIMARY KEY,
	support_role_id    TEXT NOT NULL DEFAULT '',
	closed_category_id TEXT NOT NULL DEFAULT '',
	log_channel_id     TEXT NOT NULL DEFAULT '',
	panel_color        INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS panels (
	community_id TEXT NOT NULL,
	name         TEXT NOT NULL,
	channel_id   TEXT NOT NULL,
	title        TEXT NOT NULL DEFAULT '',
	description  TEXT NOT NULL DEFAULT '',
	image_url    TEXT NOT NULL DEFAULT '',
	message_id   TEXT NOT NULL DEFAULT '',
	PRIMARY KEY (community_id, name)
);

CREATE TABLE IF NOT EXISTS tickets (
	channel_id   TEXT PRIMARY KEY,
	community_id TEXT NOT NULL,
	owner_id     TEXT NOT NULL,
	panel_name   TEXT NOT NULL DEFAULT '',
	status       TEXT NOT NULL CHECK (status IN ('open', 'closed')),
	closed_by    TEXT NOT NULL DEFAULT '',
	created_at   INTEGER NOT NULL,
	closed_at    INTEGER
);

CREATE INDEX IF NOT EXISTS tickets_community_id_status_idx ON tickets (community_id, status);

CREATE TABLE IF NOT EXISTS ticket_members (
	channel_id TEXT NOT NULL REFERENCES tickets (channel_id) ON DELETE CASCADE,
	user_id    TEXT NOT NULL,
	added_at   INTEGER NOT NULL,
	PRIMARY KEY (channel_id, user_id)
);
`

// SQLiteSchema returns the schema of the SQLite store.
func SQLiteSchema() string {
	return sqliteSchema
}
