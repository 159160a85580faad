// Package dataaccesstest provides stores for tests of packages that use the data access layer.
package dataaccesstest

import (
	"context"
	"log/slog"
	"testing"

	"github.com/Jacobbrewer1/ticketeer/pkg/dataaccess"
	"github.com/Jacobbrewer1/ticketeer/pkg/dataaccess/connection"
	"github.com/stretchr/testify/require"
)

// NewSQLiteStore returns an empty in memory store that is closed when the test ends.
func NewSQLiteStore(t testing.TB) dataaccess.Store {
	t.Helper()

	db, err := (&connection.SQLite{Path: ":memory:"}).Connect()
	require.NoError(t, err)

	s := dataaccess.NewSQLiteStore(slog.Default(), db)
	require.NoError(t, dataaccess.Migrate(context.Background(), s))

	t.Cleanup(func() {
		_ = s.Close(context.Background())
	})
	return s
}
