package main

import "github.com/Jacobbrewer1/discordgo"

const (
	// setupCmdName is the command for configuring ticketing.
	setupCmdName = "setup"

	// panelCmdName is the command for publishing a panel.
	panelCmdName = "panel"

	// panelsCmdName is the command for managing published panels.
	panelsCmdName = "panels"

	// ticketCmdName is the command for controlling tickets.
	ticketCmdName = "ticket"
)

const (
	listSubCmdName       = "list"
	deleteSubCmdName     = "delete"
	addSubCmdName        = "add"
	removeSubCmdName     = "remove"
	closeSubCmdName      = "close"
	openSubCmdName       = "open"
	transcriptSubCmdName = "transcript"
)

const (
	roleOptionName        = "role"
	categoryOptionName    = "category"
	logChannelOptionName  = "log_channel"
	colorOptionName       = "color"
	nameOptionName        = "name"
	channelOptionName     = "channel"
	titleOptionName       = "title"
	descriptionOptionName = "description"
	imageURLOptionName    = "image_url"
	userOptionName        = "user"
)

var (
	// setupCmd configures ticketing for the guild.
	setupCmd = &discordgo.ApplicationCommand{
		Name:        setupCmdName,
		Type:        discordgo.ChatApplicationCommand,
		Description: "Configure ticketing for this server.",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Name:        roleOptionName,
				Type:        discordgo.ApplicationCommandOptionRole,
				Description: "The role that handles tickets.",
				Required:    true,
			},
			{
				Name:         categoryOptionName,
				Type:         discordgo.ApplicationCommandOptionChannel,
				Description:  "The category closed tickets are moved to.",
				ChannelTypes: []discordgo.ChannelType{discordgo.ChannelTypeGuildCategory},
			},
			{
				Name:         logChannelOptionName,
				Type:         discordgo.ApplicationCommandOptionChannel,
				Description:  "The channel transcripts are posted to.",
				ChannelTypes: []discordgo.ChannelType{discordgo.ChannelTypeGuildText},
			},
			{
				Name:        colorOptionName,
				Type:        discordgo.ApplicationCommandOptionString,
				Description: "The colour of panels, for example #5865F2.",
			},
		},
	}

	// panelCmd publishes a panel.
	panelCmd = &discordgo.ApplicationCommand{
		Name:        panelCmdName,
		Type:        discordgo.ChatApplicationCommand,
		Description: "Publish a panel with an open ticket button.",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Name:        nameOptionName,
				Type:        discordgo.ApplicationCommandOptionString,
				Description: "The name of the panel. Publishing an existing name replaces it.",
				Required:    true,
			},
			{
				Name:         channelOptionName,
				Type:         discordgo.ApplicationCommandOptionChannel,
				Description:  "The channel to publish the panel in.",
				Required:     true,
				ChannelTypes: []discordgo.ChannelType{discordgo.ChannelTypeGuildText},
			},
			{
				Name:        titleOptionName,
				Type:        discordgo.ApplicationCommandOptionString,
				Description: "The title of the panel.",
			},
			{
				Name:        descriptionOptionName,
				Type:        discordgo.ApplicationCommandOptionString,
				Description: "The description of the panel.",
			},
			{
				Name:        imageURLOptionName,
				Type:        discordgo.ApplicationCommandOptionString,
				Description: "An image shown on the panel.",
			},
		},
	}

	// panelsCmd manages published panels.
	panelsCmd = &discordgo.ApplicationCommand{
		Name:        panelsCmdName,
		Type:        discordgo.ChatApplicationCommand,
		Description: "Manage the panels of this server.",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Name:        listSubCmdName,
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Description: "List the panels of this server.",
			},
			{
				Name:        deleteSubCmdName,
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Description: "Delete a panel. Tickets opened from it are kept.",
				Options: []*discordgo.ApplicationCommandOption{
					{
						Name:        nameOptionName,
						Type:        discordgo.ApplicationCommandOptionString,
						Description: "The name of the panel.",
						Required:    true,
					},
				},
			},
		},
	}

	// ticketCmd controls the ticket of the channel it is used in.
	ticketCmd = &discordgo.ApplicationCommand{
		Name:        ticketCmdName,
		Type:        discordgo.ChatApplicationCommand,
		Description: "Control the ticket in this channel.",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Name:        addSubCmdName,
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Description: "Give a user access to this ticket.",
				Options:     []*discordgo.ApplicationCommandOption{userOption},
			},
			{
				Name:        removeSubCmdName,
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Description: "Take a user's access to this ticket away.",
				Options:     []*discordgo.ApplicationCommandOption{userOption},
			},
			{
				Name:        closeSubCmdName,
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Description: "Close this ticket.",
			},
			{
				Name:        openSubCmdName,
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Description: "Reopen this ticket.",
			},
			{
				Name:        deleteSubCmdName,
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Description: "Delete this ticket and its channel.",
			},
			{
				Name:        transcriptSubCmdName,
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Description: "Export the transcript of this ticket.",
			},
		},
	}

	userOption = &discordgo.ApplicationCommandOption{
		Name:        userOptionName,
		Type:        discordgo.ApplicationCommandOptionUser,
		Description: "The user.",
		Required:    true,
	}

	// slashCommands are registered in every guild the bot is in.
	slashCommands = []*discordgo.ApplicationCommand{setupCmd, panelCmd, panelsCmd, ticketCmd}
)
