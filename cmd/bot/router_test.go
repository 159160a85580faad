package main

import (
	"testing"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/Jacobbrewer1/ticketeer/pkg/entities"
	"github.com/Jacobbrewer1/ticketeer/pkg/panels"
	"github.com/Jacobbrewer1/ticketeer/pkg/policy"
	"github.com/Jacobbrewer1/ticketeer/pkg/ticketing"
	"github.com/stretchr/testify/require"
)

const (
	testGuild   = "guild"
	testChannel = "channel"
)

func testMember() *discordgo.Member {
	return &discordgo.Member{
		User:  &discordgo.User{ID: "user", Username: "Owner"},
		Roles: []string{"staff-role"},
	}
}

func slashCommand(name string, opts ...*discordgo.ApplicationCommandInteractionDataOption) *discordgo.InteractionCreate {
	return &discordgo.InteractionCreate{
		Interaction: &discordgo.Interaction{
			Type:      discordgo.InteractionApplicationCommand,
			GuildID:   testGuild,
			ChannelID: testChannel,
			Member:    testMember(),
			Data: discordgo.ApplicationCommandInteractionData{
				Name:    name,
				Options: opts,
			},
		},
	}
}

func button(customID string) *discordgo.InteractionCreate {
	return &discordgo.InteractionCreate{
		Interaction: &discordgo.Interaction{
			Type:      discordgo.InteractionMessageComponent,
			GuildID:   testGuild,
			ChannelID: testChannel,
			Member:    testMember(),
			Data: discordgo.MessageComponentInteractionData{
				CustomID: customID,
			},
		},
	}
}

func sub(name string, opts ...*discordgo.ApplicationCommandInteractionDataOption) *discordgo.ApplicationCommandInteractionDataOption {
	return &discordgo.ApplicationCommandInteractionDataOption{
		Name:    name,
		Type:    discordgo.ApplicationCommandOptionSubCommand,
		Options: opts,
	}
}

func opt(name string, t discordgo.ApplicationCommandOptionType, value string) *discordgo.ApplicationCommandInteractionDataOption {
	return &discordgo.ApplicationCommandInteractionDataOption{
		Name:  name,
		Type:  t,
		Value: value,
	}
}

func TestActionFor(t *testing.T) {
	tests := []struct {
		name string
		i    *discordgo.InteractionCreate
		want ticketing.Action
	}{
		{
			name: "setup",
			i: slashCommand(setupCmdName,
				opt(roleOptionName, discordgo.ApplicationCommandOptionRole, "staff-role"),
				opt(categoryOptionName, discordgo.ApplicationCommandOptionChannel, "closed"),
				opt(colorOptionName, discordgo.ApplicationCommandOptionString, "#5865F2"),
			),
			want: ticketing.Setup{Config: entities.CommunityConfig{
				CommunityID:      testGuild,
				SupportRoleID:    "staff-role",
				ClosedCategoryID: "closed",
				PanelColor:       0x5865F2,
			}},
		},
		{
			name: "panel",
			i: slashCommand(panelCmdName,
				opt(nameOptionName, discordgo.ApplicationCommandOptionString, " billing "),
				opt(channelOptionName, discordgo.ApplicationCommandOptionChannel, "panels"),
				opt(titleOptionName, discordgo.ApplicationCommandOptionString, "Billing"),
			),
			want: ticketing.DefinePanel{Panel: entities.Panel{
				CommunityID: testGuild,
				Name:        "billing",
				ChannelID:   "panels",
				Title:       "Billing",
			}},
		},
		{
			name: "panels list",
			i:    slashCommand(panelsCmdName, sub(listSubCmdName)),
			want: ticketing.ListPanels{CommunityID: testGuild},
		},
		{
			name: "panels delete",
			i:    slashCommand(panelsCmdName, sub(deleteSubCmdName, opt(nameOptionName, discordgo.ApplicationCommandOptionString, "billing"))),
			want: ticketing.DeletePanel{CommunityID: testGuild, Name: "billing"},
		},
		{
			name: "ticket add",
			i:    slashCommand(ticketCmdName, sub(addSubCmdName, opt(userOptionName, discordgo.ApplicationCommandOptionUser, "x"))),
			want: ticketing.AddMember{ChannelID: testChannel, UserID: "x"},
		},
		{
			name: "ticket remove",
			i:    slashCommand(ticketCmdName, sub(removeSubCmdName, opt(userOptionName, discordgo.ApplicationCommandOptionUser, "x"))),
			want: ticketing.RemoveMember{ChannelID: testChannel, UserID: "x"},
		},
		{
			name: "ticket close",
			i:    slashCommand(ticketCmdName, sub(closeSubCmdName)),
			want: ticketing.Close{ChannelID: testChannel},
		},
		{
			name: "ticket open",
			i:    slashCommand(ticketCmdName, sub(openSubCmdName)),
			want: ticketing.Reopen{ChannelID: testChannel},
		},
		{
			name: "ticket delete",
			i:    slashCommand(ticketCmdName, sub(deleteSubCmdName)),
			want: ticketing.Delete{ChannelID: testChannel},
		},
		{
			name: "ticket transcript",
			i:    slashCommand(ticketCmdName, sub(transcriptSubCmdName)),
			want: ticketing.Transcript{ChannelID: testChannel},
		},
		{
			name: "panel button",
			i:    button(panels.CustomID("billing")),
			want: ticketing.Create{CommunityID: testGuild, Handle: "Owner", PanelName: "billing"},
		},
		{
			name: "legacy panel button",
			i:    button(panels.OpenTicketButtonID),
			want: ticketing.Create{CommunityID: testGuild, Handle: "Owner"},
		},
		{
			name: "close button",
			i:    button(ticketing.CloseTicketButtonID),
			want: ticketing.Close{ChannelID: testChannel},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := actionFor(tt.i)
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestActionFor_Unhandled(t *testing.T) {
	tests := []struct {
		name string
		i    *discordgo.InteractionCreate
	}{
		{name: "unknown command", i: slashCommand("weather")},
		{name: "unknown subcommand", i: slashCommand(ticketCmdName, sub("claim"))},
		{name: "unknown button", i: button("verify_button")},
		{
			name: "ping",
			i:    &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{Type: discordgo.InteractionPing}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := actionFor(tt.i)
			require.ErrorIs(t, err, errUnhandledInteraction)
		})
	}
}

func TestActionFor_UsageErrors(t *testing.T) {
	tests := []struct {
		name string
		i    *discordgo.InteractionCreate
	}{
		{name: "missing subcommand", i: slashCommand(ticketCmdName)},
		{
			name: "bad colour",
			i: slashCommand(setupCmdName,
				opt(roleOptionName, discordgo.ApplicationCommandOptionRole, "staff-role"),
				opt(colorOptionName, discordgo.ApplicationCommandOptionString, "green"),
			),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := actionFor(tt.i)
			var usage usageError
			require.ErrorAs(t, err, &usage)
		})
	}
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{in: "#5865F2", want: 0x5865F2},
		{in: "00ff00", want: 0x00ff00},
		{in: " #FFFFFF ", want: 0xFFFFFF},
		{in: "#fff", wantErr: true},
		{in: "#1000000", wantErr: true},
		{in: "blue", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseColor(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestCallerFor(t *testing.T) {
	i := slashCommand(ticketCmdName)
	i.Member.Permissions = discordgo.PermissionAdministrator | discordgo.PermissionManageChannels

	caller, err := callerFor(i)
	require.NoError(t, err)
	require.Equal(t, policy.Caller{
		UserID:          "user",
		RoleIDs:         []string{"staff-role"},
		IsAdministrator: true,
	}, caller)

	i.Member.Permissions = discordgo.PermissionManageChannels
	caller, err = callerFor(i)
	require.NoError(t, err)
	require.False(t, caller.IsAdministrator)

	i.Member = nil
	_, err = callerFor(i)
	require.Error(t, err)
}

func TestIsLongRunning(t *testing.T) {
	require.True(t, isLongRunning(ticketing.Close{}))
	require.True(t, isLongRunning(ticketing.Delete{}))
	require.True(t, isLongRunning(ticketing.Transcript{}))
	require.False(t, isLongRunning(ticketing.AddMember{}))
	require.False(t, isLongRunning(ticketing.Create{}))
}
