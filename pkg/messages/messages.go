package messages

const (
	// ErrUserErrorProcessing is the message shown when an unexpected error occurred.
	ErrUserErrorProcessing = "There was an error processing your request. Please try again later."

	// ErrNotAdministrator is the message shown when an admin only command is used by a non admin.
	ErrNotAdministrator = "You must be an administrator to use this command."

	// ErrNotConfigured is the message shown when ticketing has not been set up for the server.
	ErrNotConfigured = "Ticketing has not been set up for this server. An administrator must run /setup first."

	// ErrDuplicateTicket is the message shown when the user already has a ticket open.
	ErrDuplicateTicket = "You already have an open ticket."

	// ErrNotATicketChannel is the message shown when a ticket command is used outside a ticket.
	ErrNotATicketChannel = "This channel is not a ticket."

	// ErrCannotRemoveOwner is the message shown when trying to remove the ticket owner.
	ErrCannotRemoveOwner = "You cannot remove the owner of the ticket."

	// ErrAlreadyOpen is the message shown when reopening a ticket that is not closed.
	ErrAlreadyOpen = "This ticket is not closed."

	// ErrAlreadyClosed is the message shown when closing a ticket that is already closed.
	ErrAlreadyClosed = "This ticket is already closed."

	// ErrTranscriptFailed is the message shown when the transcript could not be exported.
	ErrTranscriptFailed = "The transcript for this ticket could not be exported."

	// ErrPlatform is the message shown when Discord rejected one of our requests.
	ErrPlatform = "Discord rejected the request. Check that the bot has the Manage Channels and Manage Roles permissions."

	// ErrUnknownPanel is the message shown when a panel could not be found.
	ErrUnknownPanel = "That panel does not exist."

	// ErrForbidden is the message shown when the caller may not perform an action. Takes the reason.
	ErrForbidden = "You cannot do that: %s."

	// ErrInvalidInput is the message shown when a command was given values that cannot be used. Takes the error.
	ErrInvalidInput = "That did not work: %v."

	// ErrGuildOnly is the message shown when a command is used outside a server.
	ErrGuildOnly = "Tickets can only be used inside a server."
)

const (
	// TicketCreated is the reply sent to a user after their ticket has been created. Takes the channel ID.
	TicketCreated = "Your ticket has been created: <#%s>"

	// TicketWelcome is the default welcome text in a new ticket. Takes the owner ID.
	TicketWelcome = "<@%s>, thank you for contacting support. Please describe your issue and a member of staff will be with you shortly."

	// MemberAdded is the reply after a member was added. Takes the user ID.
	MemberAdded = "<@%s> has been added to the ticket."

	// MemberRemoved is the reply after a member was removed. Takes the user ID.
	MemberRemoved = "<@%s> has been removed from the ticket."

	// TicketClosed is the reply after a ticket was closed. Takes the closer ID.
	TicketClosed = "Ticket closed by <@%s>."

	// TicketReopened is the reply after a ticket was reopened. Takes the user ID.
	TicketReopened = "Ticket reopened by <@%s>."

	// TicketDeleted is the reply after a ticket was deleted.
	TicketDeleted = "Ticket deleted."

	// TranscriptReady is the reply when an on demand transcript is attached.
	TranscriptReady = "Here is the transcript of this ticket."

	// TranscriptLog is the message posted to the log channel. Takes the channel ID, owner ID and actor ID.
	TranscriptLog = "Transcript for <#%s> (owner <@%s>), archived by <@%s>."

	// PartialFailure is appended to a reply when some steps did not complete. Takes the number of failures.
	PartialFailure = "\n%d step(s) could not be completed, see the bot logs for details."

	// SetupComplete is the reply after setup completed. Takes the support role ID.
	SetupComplete = "Ticketing has been configured. Staff role: <@&%s>"

	// PanelPublished is the reply after a panel was published. Takes the panel name and channel ID.
	PanelPublished = "Panel **%s** has been published in <#%s>."

	// PanelDeleted is the reply after a panel was deleted. Takes the panel name.
	PanelDeleted = "Panel **%s** has been deleted."

	// NoPanels is the reply when a server has no panels.
	NoPanels = "No panels have been defined for this server."
)
