package connection

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

// SQLite is the connection information for an SQLite database file.
type SQLite struct {
	// Path is the path of the database file. Use ":memory:" for an in memory database.
	Path string
}

// Connect opens the database with foreign keys enabled.
func (s *SQLite) Connect() (*sqlx.DB, error) {
	if s.Path == "" {
		return nil, fmt.Errorf("sqlite path is empty")
	}

	db, err := sqlx.Open("sqlite3", fmt.Sprintf("file:%s?_foreign_keys=on&_busy_timeout=5000", s.Path))
	if err != nil {
		return nil, fmt.Errorf("error opening sqlite: %w", err)
	}

	// A single connection serialises writes and keeps in memory databases shared.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("error pinging sqlite: %w", err)
	}

	return db, nil
}
