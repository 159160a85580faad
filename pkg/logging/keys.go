package logging

const (
	// KeyApp is the key for the application name.
	KeyApp = "app"

	// KeyError is the key for an error.
	KeyError = "err"

	// KeyDal is the key for the data access layer.
	KeyDal = "dal"

	// KeyGuild is the key for the guild (community) ID.
	KeyGuild = "guild_id"

	// KeyChannel is the key for a channel ID.
	KeyChannel = "channel_id"

	// KeyUser is the key for a user ID.
	KeyUser = "user_id"

	// KeyAction is the key for a ticket action.
	KeyAction = "action"

	// KeyInteraction is the key for the correlation ID of an interaction.
	KeyInteraction = "interaction_id"

	// KeyPanel is the key for a panel name.
	KeyPanel = "panel"
)
