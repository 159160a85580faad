package entities

// CommunityConfig is the ticketing configuration for a guild.
// It is replaced wholesale by the setup command and never partially updated.
type CommunityConfig struct {
	// CommunityID is the ID of the guild.
	CommunityID string `json:"community_id" bson:"community_id" db:"community_id"`

	// SupportRoleID is the ID of the role that handles tickets. Tickets cannot be created until this is set.
	SupportRoleID string `json:"support_role_id" bson:"support_role_id" db:"support_role_id"`

	// ClosedCategoryID is the ID of the category that closed tickets are moved to.
	ClosedCategoryID string `json:"closed_category_id" bson:"closed_category_id" db:"closed_category_id"`

	// LogChannelID is the ID of the channel that transcripts are posted to.
	LogChannelID string `json:"log_channel_id" bson:"log_channel_id" db:"log_channel_id"`

	// PanelColor is the embed colour used for panels.
	PanelColor int `json:"panel_color" bson:"panel_color" db:"panel_color"`
}

// IsConfigured reports whether tickets can be created for the guild.
func (c *CommunityConfig) IsConfigured() bool {
	return c != nil && c.SupportRoleID != ""
}
