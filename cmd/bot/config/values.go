package config

const (
	// AppName is the name of the application.
	AppName = "ticketeer"

	// EnvBotToken is the environment variable for the bot token.
	EnvBotToken = `BOT_TOKEN`

	// EnvApplicationId is the environment variable for the application ID.
	EnvApplicationId = `APPLICATION_ID`

	// EnvMongoUri is the environment variable for the MongoDB URI.
	EnvMongoUri = `MONGO_URI`

	// EnvMongoDatabase is the environment variable for the MongoDB database name.
	EnvMongoDatabase = `MONGO_DATABASE`

	// EnvMonitoringPort is the environment variable for the monitoring port.
	EnvMonitoringPort = `MONITORING_PORT`

	// EnvDBDriver is the environment variable selecting the store backend.
	EnvDBDriver = `DB_DRIVER`

	// EnvSQLitePath is the environment variable for the SQLite database file.
	EnvSQLitePath = `SQLITE_PATH`

	// EnvAdminIsStaff is the environment variable that makes administrators count as staff.
	EnvAdminIsStaff = `ADMIN_IS_STAFF`

	// EnvRequireTranscriptOnDelete is the environment variable that blocks delete when the transcript fails.
	EnvRequireTranscriptOnDelete = `REQUIRE_TRANSCRIPT_ON_DELETE`

	// EnvReconcileSchedule is the environment variable for the cron schedule of the reconciler.
	EnvReconcileSchedule = `RECONCILE_SCHEDULE`

	// EnvLogLevel is the environment variable for the minimum log level.
	EnvLogLevel = `LOG_LEVEL`
)

const (
	// DriverMongo stores everything in MongoDB.
	DriverMongo = "mongo"

	// DriverSQLite stores everything in a SQLite file.
	DriverSQLite = "sqlite"
)

const (
	defaultMonitoringPort    = "8080"
	defaultMongoDatabase     = AppName
	defaultReconcileSchedule = "@every 15m"
	defaultLogLevel          = "info"
)
