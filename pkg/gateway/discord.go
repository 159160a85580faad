package gateway

import (
	"bytes"
	"context"
	"errors"
	"net/http"

	"github.com/Jacobbrewer1/discordgo"
)

const (
	// viewPermissions are the permissions granted by Access.View.
	viewPermissions = discordgo.PermissionViewChannel | discordgo.PermissionReadMessageHistory

	// sendPermissions are the permissions granted by Access.Send.
	sendPermissions = discordgo.PermissionSendMessages | discordgo.PermissionAttachFiles | discordgo.PermissionEmbedLinks
)

type discordGateway struct {
	// s is the discord session.
	s *discordgo.Session
}

// NewDiscord returns a Gateway backed by the discord session.
func NewDiscord(s *discordgo.Session) Gateway {
	return &discordGateway{
		s: s,
	}
}

func (g *discordGateway) CreateChannel(ctx context.Context, communityID, name string, overwrites []Overwrite) (*Channel, error) {
	perms := make([]*discordgo.PermissionOverwrite, 0, len(overwrites)+1)
	for _, o := range overwrites {
		perms = append(perms, toPermissionOverwrite(o))
	}

	// The bot keeps access to every channel it creates.
	if botID := g.botUserID(); botID != "" {
		perms = append(perms, toPermissionOverwrite(Overwrite{Principal: User(botID), Allow: ViewSend}))
	}

	ch, err := g.s.GuildChannelCreateComplex(communityID, discordgo.GuildChannelCreateData{
		Name:                 name,
		Type:                 discordgo.ChannelTypeGuildText,
		PermissionOverwrites: perms,
	}, discordgo.WithContext(ctx))
	if err != nil {
		return nil, wrap("create channel", err)
	}

	return fromChannel(ch), nil
}

func (g *discordGateway) SetChannelParent(ctx context.Context, channelID, categoryID string) error {
	_, err := g.s.ChannelEditComplex(channelID, &discordgo.ChannelEdit{
		ParentID: categoryID,
	}, discordgo.WithContext(ctx))
	return wrap("set channel parent", err)
}

func (g *discordGateway) DeleteChannel(ctx context.Context, channelID, reason string) error {
	_, err := g.s.ChannelDelete(channelID, discordgo.WithContext(ctx), discordgo.WithAuditLogReason(reason))
	return wrap("delete channel", err)
}

func (g *discordGateway) GrantAccess(ctx context.Context, channelID string, p Principal, access Access) error {
	err := g.s.ChannelPermissionSet(channelID, p.ID, overwriteType(p), permissions(access), 0, discordgo.WithContext(ctx))
	return wrap("grant access", err)
}

func (g *discordGateway) RevokeAccess(ctx context.Context, channelID string, p Principal) error {
	err := g.s.ChannelPermissionDelete(channelID, p.ID, discordgo.WithContext(ctx))
	return wrap("revoke access", err)
}

func (g *discordGateway) SendMessage(ctx context.Context, channelID string, m *Message) (string, error) {
	msg, err := g.s.ChannelMessageSendComplex(channelID, toMessageSend(m), discordgo.WithContext(ctx))
	if err != nil {
		return "", wrap("send message", err)
	}
	return msg.ID, nil
}

func (g *discordGateway) Channels(ctx context.Context, communityID string) ([]*Channel, error) {
	chs, err := g.s.GuildChannels(communityID, discordgo.WithContext(ctx))
	if err != nil {
		return nil, wrap("list channels", err)
	}

	channels := make([]*Channel, 0, len(chs))
	for _, ch := range chs {
		channels = append(channels, fromChannel(ch))
	}
	return channels, nil
}

func (g *discordGateway) ChannelExists(ctx context.Context, channelID string) (bool, error) {
	_, err := g.s.Channel(channelID, discordgo.WithContext(ctx))
	switch {
	case err == nil:
		return true, nil
	case IsUnknownChannel(err):
		return false, nil
	default:
		return false, wrap("get channel", err)
	}
}

func (g *discordGateway) botUserID() string {
	if g.s.State == nil || g.s.State.User == nil {
		return ""
	}
	return g.s.State.User.ID
}

// IsUnknownChannel reports whether the error is the platform saying the channel does not exist.
func IsUnknownChannel(err error) bool {
	if errors.Is(err, ErrChannelNotFound) {
		return true
	}

	restErr := new(discordgo.RESTError)
	if !errors.As(err, &restErr) {
		return false
	}
	if restErr.Message != nil && restErr.Message.Code == discordgo.ErrCodeUnknownChannel {
		return true
	}

	// A bare 404 carries no error code.
	return restErr.Response != nil && restErr.Response.StatusCode == http.StatusNotFound
}

func permissions(a Access) int64 {
	var p int64
	if a.View {
		p |= viewPermissions
	}
	if a.Send {
		p |= sendPermissions
	}
	return p
}

func overwriteType(p Principal) discordgo.PermissionOverwriteType {
	if p.Type == PrincipalRole {
		return discordgo.PermissionOverwriteTypeRole
	}
	return discordgo.PermissionOverwriteTypeMember
}

func toPermissionOverwrite(o Overwrite) *discordgo.PermissionOverwrite {
	return &discordgo.PermissionOverwrite{
		ID:    o.Principal.ID,
		Type:  overwriteType(o.Principal),
		Allow: permissions(o.Allow),
		Deny:  permissions(o.Deny),
	}
}

func fromChannel(ch *discordgo.Channel) *Channel {
	return &Channel{
		ID:          ch.ID,
		CommunityID: ch.GuildID,
		Name:        ch.Name,
		ParentID:    ch.ParentID,
	}
}

func toMessageSend(m *Message) *discordgo.MessageSend {
	send := &discordgo.MessageSend{
		Content: m.Content,
	}

	if m.Embed != nil {
		embed := &discordgo.MessageEmbed{
			Title:       m.Embed.Title,
			Description: m.Embed.Description,
			Color:       m.Embed.Color,
		}
		if m.Embed.ImageURL != "" {
			embed.Image = &discordgo.MessageEmbedImage{URL: m.Embed.ImageURL}
		}
		send.Embeds = []*discordgo.MessageEmbed{embed}
	}

	if len(m.Buttons) > 0 {
		buttons := make([]discordgo.MessageComponent, 0, len(m.Buttons))
		for _, b := range m.Buttons {
			buttons = append(buttons, discordgo.Button{
				Label:    b.Label,
				Style:    buttonStyle(b.Style),
				CustomID: b.CustomID,
			})
		}
		send.Components = []discordgo.MessageComponent{
			discordgo.ActionsRow{Components: buttons},
		}
	}

	for _, f := range m.Files {
		send.Files = append(send.Files, &discordgo.File{
			Name:        f.Name,
			ContentType: f.ContentType,
			Reader:      bytes.NewReader(f.Data),
		})
	}

	return send
}

func buttonStyle(s ButtonStyle) discordgo.ButtonStyle {
	switch s {
	case ButtonSecondary:
		return discordgo.SecondaryButton
	case ButtonDanger:
		return discordgo.DangerButton
	default:
		return discordgo.PrimaryButton
	}
}
