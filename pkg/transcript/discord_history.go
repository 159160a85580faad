package transcript

import (
	"context"
	"fmt"
	"strings"

	"github.com/Jacobbrewer1/discordgo"
)

type discordHistory struct {
	s *discordgo.Session
}

// NewDiscordHistory returns a History that reads from the discord session.
func NewDiscordHistory(s *discordgo.Session) History {
	return &discordHistory{
		s: s,
	}
}

func (h *discordHistory) Before(ctx context.Context, channelID, beforeID string, limit int) ([]*Message, error) {
	msgs, err := h.s.ChannelMessages(channelID, limit, beforeID, "", "", discordgo.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("error getting channel messages: %w", err)
	}

	out := make([]*Message, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, fromDiscordMessage(m))
	}
	return out, nil
}

func fromDiscordMessage(m *discordgo.Message) *Message {
	msg := &Message{
		ID:        m.ID,
		Content:   m.Content,
		Timestamp: m.Timestamp,
	}

	// Bot messages often carry all of their text in embeds.
	parts := make([]string, 0, len(m.Embeds)+1)
	if m.Content != "" {
		parts = append(parts, m.Content)
	}
	for _, e := range m.Embeds {
		if text := embedMarkdown(e); text != "" {
			parts = append(parts, text)
		}
	}
	msg.Content = strings.Join(parts, "\n\n")

	if m.Author != nil {
		msg.AuthorID = m.Author.ID
		msg.AuthorName = m.Author.Username
		msg.AvatarURL = m.Author.AvatarURL("64")
	}

	for _, a := range m.Attachments {
		msg.Attachments = append(msg.Attachments, Attachment{
			Filename:    a.Filename,
			URL:         a.URL,
			ContentType: a.ContentType,
		})
	}

	return msg
}

// embedMarkdown renders the text of an embed as markdown.
func embedMarkdown(e *discordgo.MessageEmbed) string {
	if e == nil {
		return ""
	}

	var lines []string
	if title := strings.TrimSpace(e.Title); title != "" {
		lines = append(lines, "**"+title+"**")
	}
	if desc := strings.TrimSpace(e.Description); desc != "" {
		lines = append(lines, desc)
	}
	for _, f := range e.Fields {
		if f == nil {
			continue
		}
		lines = append(lines, fmt.Sprintf("**%s**: %s", strings.TrimSpace(f.Name), strings.TrimSpace(f.Value)))
	}
	return strings.Join(lines, "\n\n")
}
