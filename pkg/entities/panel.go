package entities

// Panel is a named "create ticket" button posted in a channel.
type Panel struct {
	// CommunityID is the ID of the guild the panel belongs to.
	CommunityID string `json:"community_id" bson:"community_id" db:"community_id"`

	// Name is the name of the panel. Unique per guild.
	Name string `json:"name" bson:"name" db:"name"`

	// ChannelID is the ID of the channel the button is posted in.
	ChannelID string `json:"channel_id" bson:"channel_id" db:"channel_id"`

	// Title is the title of the panel embed.
	Title string `json:"title" bson:"title" db:"title"`

	// Description is the description of the panel embed.
	Description string `json:"description" bson:"description" db:"description"`

	// ImageURL is an optional image shown on the panel embed.
	ImageURL string `json:"image_url" bson:"image_url" db:"image_url"`

	// MessageID is the ID of the last published panel message.
	MessageID string `json:"message_id" bson:"message_id" db:"message_id"`
}
