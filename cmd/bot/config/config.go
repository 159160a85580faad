// Package config loads the bot configuration from the environment and an optional YAML file.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/robfig/cron/v3"
	"github.com/spf13/viper"
)

// Config is the configuration of the bot process.
type Config struct {
	// BotToken is the token for the bot.
	BotToken string

	// ApplicationId is the ID of the application.
	ApplicationId string

	// MonitoringPort is the port for the monitoring server.
	MonitoringPort string

	// DBDriver is the store backend, DriverMongo or DriverSQLite.
	DBDriver string

	// MongoUri is the URI for the MongoDB database.
	MongoUri string

	// MongoDatabase is the name of the MongoDB database.
	MongoDatabase string

	// SQLitePath is the path of the SQLite database file.
	SQLitePath string

	// AdminIsStaff makes administrators count as staff.
	AdminIsStaff bool

	// RequireTranscriptOnDelete stops a delete when the transcript cannot be exported.
	RequireTranscriptOnDelete bool

	// ReconcileSchedule is the cron schedule of the reconciler. Empty disables it.
	ReconcileSchedule string

	// LogLevel is the minimum log level.
	LogLevel string
}

// Load reads the configuration without validating it. Values from the environment take precedence over
// the file at path, which is optional.
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault(key(EnvMonitoringPort), defaultMonitoringPort)
	v.SetDefault(key(EnvDBDriver), DriverMongo)
	v.SetDefault(key(EnvMongoDatabase), defaultMongoDatabase)
	v.SetDefault(key(EnvReconcileSchedule), defaultReconcileSchedule)
	v.SetDefault(key(EnvLogLevel), defaultLogLevel)
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	c := &Config{
		BotToken:                  v.GetString(key(EnvBotToken)),
		ApplicationId:             v.GetString(key(EnvApplicationId)),
		MonitoringPort:            v.GetString(key(EnvMonitoringPort)),
		DBDriver:                  strings.ToLower(v.GetString(key(EnvDBDriver))),
		MongoUri:                  v.GetString(key(EnvMongoUri)),
		MongoDatabase:             v.GetString(key(EnvMongoDatabase)),
		SQLitePath:                v.GetString(key(EnvSQLitePath)),
		AdminIsStaff:              v.GetBool(key(EnvAdminIsStaff)),
		RequireTranscriptOnDelete: v.GetBool(key(EnvRequireTranscriptOnDelete)),
		ReconcileSchedule:         v.GetString(key(EnvReconcileSchedule)),
		LogLevel:                  v.GetString(key(EnvLogLevel)),
	}

	return c, nil
}

// key is the viper key of an environment variable. AutomaticEnv maps it back by upper casing.
func key(env string) string {
	return strings.ToLower(env)
}

// Validate reports every missing or invalid value needed to run the bot.
func (c *Config) Validate() error {
	errs := c.storeErrors()

	if c.BotToken == "" {
		errs = append(errs, fmt.Errorf("%s is required", EnvBotToken))
	}
	if c.ApplicationId == "" {
		errs = append(errs, fmt.Errorf("%s is required", EnvApplicationId))
	}

	if c.ReconcileSchedule != "" {
		if _, err := cron.ParseStandard(c.ReconcileSchedule); err != nil {
			errs = append(errs, fmt.Errorf("%s is invalid: %w", EnvReconcileSchedule, err))
		}
	}

	return errors.Join(errs...)
}

// ValidateStore reports only the store settings, for commands that never talk to Discord.
func (c *Config) ValidateStore() error {
	return errors.Join(c.storeErrors()...)
}

func (c *Config) storeErrors() []error {
	switch c.DBDriver {
	case DriverMongo:
		if c.MongoUri == "" {
			return []error{fmt.Errorf("%s is required for the %s driver", EnvMongoUri, DriverMongo)}
		}
	case DriverSQLite:
		if c.SQLitePath == "" {
			return []error{fmt.Errorf("%s is required for the %s driver", EnvSQLitePath, DriverSQLite)}
		}
	default:
		return []error{fmt.Errorf("%s must be %s or %s, got %q", EnvDBDriver, DriverMongo, DriverSQLite, c.DBDriver)}
	}
	return nil
}
