package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// clearEnv unsets every variable the loader reads so the host environment cannot leak into a test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, env := range []string{
		EnvBotToken, EnvApplicationId, EnvMongoUri, EnvMongoDatabase, EnvMonitoringPort, EnvDBDriver,
		EnvSQLitePath, EnvAdminIsStaff, EnvRequireTranscriptOnDelete, EnvReconcileSchedule, EnvLogLevel,
	} {
		t.Setenv(env, "")
		require.NoError(t, os.Unsetenv(env))
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvBotToken, "token")
	t.Setenv(EnvApplicationId, "app")
	t.Setenv(EnvMongoUri, "mongodb://localhost:27017")

	c, err := Load("")
	require.NoError(t, err)
	require.NoError(t, c.Validate())

	require.Equal(t, "8080", c.MonitoringPort)
	require.Equal(t, DriverMongo, c.DBDriver)
	require.Equal(t, AppName, c.MongoDatabase)
	require.Equal(t, "@every 15m", c.ReconcileSchedule)
	require.Equal(t, "info", c.LogLevel)
	require.False(t, c.AdminIsStaff)
	require.False(t, c.RequireTranscriptOnDelete)
}

func TestLoad_FileAndEnvironment(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "ticketeer.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
bot_token: from-file
application_id: app
db_driver: SQLite
sqlite_path: /data/tickets.db
admin_is_staff: true
require_transcript_on_delete: true
monitoring_port: "9090"
`), 0o600))

	// The environment wins over the file.
	t.Setenv(EnvBotToken, "from-env")

	c, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, c.Validate())

	require.Equal(t, "from-env", c.BotToken)
	require.Equal(t, DriverSQLite, c.DBDriver)
	require.Equal(t, "/data/tickets.db", c.SQLitePath)
	require.Equal(t, "9090", c.MonitoringPort)
	require.True(t, c.AdminIsStaff)
	require.True(t, c.RequireTranscriptOnDelete)
}

func TestLoad_MissingFile(t *testing.T) {
	clearEnv(t)

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestConfig_Validate(t *testing.T) {
	valid := Config{
		BotToken:      "token",
		ApplicationId: "app",
		DBDriver:      DriverMongo,
		MongoUri:      "mongodb://localhost:27017",
	}

	tests := []struct {
		name         string
		modify       func(c *Config)
		wantErr      string
		storeInvalid bool
	}{
		{
			name:   "valid",
			modify: func(*Config) {},
		},
		{
			name:    "missing token",
			modify:  func(c *Config) { c.BotToken = "" },
			wantErr: EnvBotToken,
		},
		{
			name:    "missing application",
			modify:  func(c *Config) { c.ApplicationId = "" },
			wantErr: EnvApplicationId,
		},
		{
			name:         "missing mongo uri",
			modify:       func(c *Config) { c.MongoUri = "" },
			wantErr:      EnvMongoUri,
			storeInvalid: true,
		},
		{
			name:         "sqlite without path",
			modify:       func(c *Config) { c.DBDriver = DriverSQLite },
			wantErr:      EnvSQLitePath,
			storeInvalid: true,
		},
		{
			name:         "unknown driver",
			modify:       func(c *Config) { c.DBDriver = "postgres" },
			wantErr:      EnvDBDriver,
			storeInvalid: true,
		},
		{
			name:    "bad schedule",
			modify:  func(c *Config) { c.ReconcileSchedule = "every tuesday" },
			wantErr: EnvReconcileSchedule,
		},
		{
			name:   "reconciler disabled",
			modify: func(c *Config) { c.ReconcileSchedule = "" },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid
			tt.modify(&c)

			err := c.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
			} else {
				require.ErrorContains(t, err, tt.wantErr)
			}

			if tt.storeInvalid {
				require.Error(t, c.ValidateStore())
			} else {
				require.NoError(t, c.ValidateStore())
			}
		})
	}
}
