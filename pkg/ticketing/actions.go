package ticketing

import (
	"github.com/Jacobbrewer1/ticketeer/pkg/entities"
	"github.com/Jacobbrewer1/ticketeer/pkg/policy"
	"github.com/Jacobbrewer1/ticketeer/pkg/transcript"
)

// Action is a request to the engine. The set of actions is closed: only the types in this file implement it.
type Action interface {
	// Kind is the policy kind of the action.
	Kind() policy.Kind

	sealed()
}

// Setup replaces the ticketing configuration of a guild.
type Setup struct {
	Config entities.CommunityConfig
}

// DefinePanel publishes a panel and replaces the stored panel of the same name.
type DefinePanel struct {
	Panel entities.Panel
}

// ListPanels lists the panels of a guild.
type ListPanels struct {
	CommunityID string
}

// DeletePanel deletes a panel.
type DeletePanel struct {
	CommunityID string
	Name        string
}

// Create opens a ticket for the caller.
type Create struct {
	CommunityID string

	// Handle is the caller's user name. The ticket channel is named after it.
	Handle string

	// PanelName is the panel the ticket was opened from. It only selects display text.
	PanelName string
}

// AddMember grants a user access to a ticket.
type AddMember struct {
	ChannelID string
	UserID    string
}

// RemoveMember takes a user's access to a ticket away.
type RemoveMember struct {
	ChannelID string
	UserID    string
}

// Close closes a ticket.
type Close struct {
	ChannelID string
}

// Reopen reopens a closed ticket.
type Reopen struct {
	ChannelID string
}

// Delete deletes a ticket and its channel.
type Delete struct {
	ChannelID string
}

// Transcript exports the transcript of a ticket.
type Transcript struct {
	ChannelID string
}

func (Setup) Kind() policy.Kind        { return policy.KindSetup }
func (DefinePanel) Kind() policy.Kind  { return policy.KindPanel }
func (ListPanels) Kind() policy.Kind   { return policy.KindPanel }
func (DeletePanel) Kind() policy.Kind  { return policy.KindPanel }
func (Create) Kind() policy.Kind       { return policy.KindCreate }
func (AddMember) Kind() policy.Kind    { return policy.KindAddMember }
func (RemoveMember) Kind() policy.Kind { return policy.KindRemoveMember }
func (Close) Kind() policy.Kind        { return policy.KindClose }
func (Reopen) Kind() policy.Kind       { return policy.KindReopen }
func (Delete) Kind() policy.Kind       { return policy.KindDelete }
func (Transcript) Kind() policy.Kind   { return policy.KindTranscript }

func (Setup) sealed()        {}
func (DefinePanel) sealed()  {}
func (ListPanels) sealed()   {}
func (DeletePanel) sealed()  {}
func (Create) sealed()       {}
func (AddMember) sealed()    {}
func (RemoveMember) sealed() {}
func (Close) sealed()        {}
func (Reopen) sealed()       {}
func (Delete) sealed()       {}
func (Transcript) sealed()   {}

// Result is the outcome of Perform. Only the fields relevant to the action are set.
type Result struct {
	Config   *entities.CommunityConfig
	Panel    *entities.Panel
	Panels   []*entities.Panel
	Ticket   *entities.Ticket
	Archive  *transcript.Archive
	Failures []StepFailure
}
