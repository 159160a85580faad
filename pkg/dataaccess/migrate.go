package dataaccess

import (
	"context"
	"errors"
)

// Migrator is implemented by stores that need their schema or indexes created before use.
type Migrator interface {
	Migrate(ctx context.Context) error
}

// Migrate prepares the store for use if it needs preparing.
func Migrate(ctx context.Context, s Store) error {
	m, ok := s.(Migrator)
	if !ok {
		return errors.New("store does not support migrations")
	}
	return m.Migrate(ctx)
}
