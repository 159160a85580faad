package gateway

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"testing"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/stretchr/testify/require"
)

func TestPermissions(t *testing.T) {
	tests := []struct {
		name   string
		access Access
		want   int64
	}{
		{name: "none", access: Access{}, want: 0},
		{name: "view", access: Access{View: true}, want: viewPermissions},
		{name: "send", access: Access{Send: true}, want: sendPermissions},
		{name: "view and send", access: ViewSend, want: viewPermissions | sendPermissions},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, permissions(tt.access))
		})
	}
}

func TestToPermissionOverwrite(t *testing.T) {
	o := toPermissionOverwrite(Overwrite{Principal: Everyone("guild"), Deny: ViewSend})
	require.Equal(t, "guild", o.ID)
	require.Equal(t, discordgo.PermissionOverwriteTypeRole, o.Type)
	require.Zero(t, o.Allow)
	require.Equal(t, int64(discordgo.PermissionViewChannel), o.Deny&discordgo.PermissionViewChannel)

	o = toPermissionOverwrite(Overwrite{Principal: User("user"), Allow: ViewSend})
	require.Equal(t, discordgo.PermissionOverwriteTypeMember, o.Type)
	require.Equal(t, int64(discordgo.PermissionSendMessages), o.Allow&discordgo.PermissionSendMessages)
}

func TestToMessageSend(t *testing.T) {
	send := toMessageSend(&Message{
		Content: "hello",
		Embed:   &Embed{Title: "Support", Description: "Ask away", ImageURL: "https://example.com/a.png", Color: 0xff0000},
		Buttons: []Button{{Label: "Close", CustomID: "close_ticket_button", Style: ButtonDanger}},
		Files:   []File{{Name: "transcript.html", ContentType: "text/html", Data: []byte("<html></html>")}},
	})

	require.Equal(t, "hello", send.Content)
	require.Len(t, send.Embeds, 1)
	require.Equal(t, "Support", send.Embeds[0].Title)
	require.Equal(t, "https://example.com/a.png", send.Embeds[0].Image.URL)

	require.Len(t, send.Components, 1)
	row, ok := send.Components[0].(discordgo.ActionsRow)
	require.True(t, ok)
	require.Len(t, row.Components, 1)
	button, ok := row.Components[0].(discordgo.Button)
	require.True(t, ok)
	require.Equal(t, "close_ticket_button", button.CustomID)
	require.Equal(t, discordgo.DangerButton, button.Style)

	require.Len(t, send.Files, 1)
	data, err := io.ReadAll(send.Files[0].Reader)
	require.NoError(t, err)
	require.Equal(t, "<html></html>", string(data))
}

func TestToMessageSend_ContentOnly(t *testing.T) {
	send := toMessageSend(&Message{Content: "hi"})
	require.Empty(t, send.Embeds)
	require.Empty(t, send.Components)
	require.Empty(t, send.Files)
}

func TestIsUnknownChannel(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{
			name: "unknown channel code",
			err:  &discordgo.RESTError{Message: &discordgo.APIErrorMessage{Code: discordgo.ErrCodeUnknownChannel}},
			want: true,
		},
		{
			name: "bare not found",
			err:  &discordgo.RESTError{Response: &http.Response{StatusCode: http.StatusNotFound}},
			want: true,
		},
		{
			name: "wrapped sentinel",
			err:  fmt.Errorf("error getting channel: %w", ErrChannelNotFound),
			want: true,
		},
		{
			name: "missing permissions",
			err:  &discordgo.RESTError{Message: &discordgo.APIErrorMessage{Code: discordgo.ErrCodeMissingPermissions}, Response: &http.Response{StatusCode: http.StatusForbidden}},
			want: false,
		},
		{
			name: "other error",
			err:  errors.New("boom"),
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, IsUnknownChannel(tt.err))
		})
	}
}

func TestGatewayError(t *testing.T) {
	cause := errors.New("rate limited")
	err := wrap("grant access", cause)

	var gwErr *GatewayError
	require.ErrorAs(t, err, &gwErr)
	require.Equal(t, "grant access", gwErr.Op)
	require.ErrorIs(t, err, cause)
	require.Equal(t, "gateway grant access: rate limited", err.Error())

	require.NoError(t, wrap("grant access", nil))
}

func TestPrincipal_String(t *testing.T) {
	require.Equal(t, "<@123>", User("123").String())
	require.Equal(t, "<@&456>", Role("456").String())
}
