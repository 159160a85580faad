package main

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/Jacobbrewer1/ticketeer/pkg/entities"
	"github.com/Jacobbrewer1/ticketeer/pkg/messages"
	"github.com/Jacobbrewer1/ticketeer/pkg/panels"
	"github.com/Jacobbrewer1/ticketeer/pkg/policy"
	"github.com/Jacobbrewer1/ticketeer/pkg/ticketing"
)

// reply is what the bot answers an interaction with.
type reply struct {
	content string
	files   []*discordgo.File
}

// replyFor describes the outcome of a successful action.
func replyFor(action ticketing.Action, caller policy.Caller, res *ticketing.Result) reply {
	if res == nil {
		res = new(ticketing.Result)
	}

	var r reply
	switch a := action.(type) {
	case ticketing.Setup:
		r.content = fmt.Sprintf(messages.SetupComplete, a.Config.SupportRoleID)
	case ticketing.DefinePanel:
		r.content = fmt.Sprintf(messages.PanelPublished, a.Panel.Name, a.Panel.ChannelID)
	case ticketing.ListPanels:
		r.content = panelList(res.Panels)
	case ticketing.DeletePanel:
		r.content = fmt.Sprintf(messages.PanelDeleted, a.Name)
	case ticketing.Create:
		r.content = fmt.Sprintf(messages.TicketCreated, res.Ticket.ChannelID)
	case ticketing.AddMember:
		r.content = fmt.Sprintf(messages.MemberAdded, a.UserID)
	case ticketing.RemoveMember:
		r.content = fmt.Sprintf(messages.MemberRemoved, a.UserID)
	case ticketing.Close:
		r.content = fmt.Sprintf(messages.TicketClosed, caller.UserID)
	case ticketing.Reopen:
		r.content = fmt.Sprintf(messages.TicketReopened, caller.UserID)
	case ticketing.Delete:
		r.content = messages.TicketDeleted
	case ticketing.Transcript:
		r.content = messages.TranscriptReady
	}

	// Only an on demand transcript is handed back to the caller.
	if _, ok := action.(ticketing.Transcript); ok && res.Archive != nil {
		r.files = []*discordgo.File{
			{
				Name:        res.Archive.Filename,
				ContentType: res.Archive.ContentType,
				Reader:      bytes.NewReader(res.Archive.Data),
			},
		}
	}

	if n := len(res.Failures); n > 0 {
		r.content += fmt.Sprintf(messages.PartialFailure, n)
	}
	return r
}

func panelList(list []*entities.Panel) string {
	if len(list) == 0 {
		return messages.NoPanels
	}

	var sb strings.Builder
	for _, p := range list {
		fmt.Fprintf(&sb, "- **%s** in <#%s>\n", p.Name, p.ChannelID)
	}
	return strings.TrimSuffix(sb.String(), "\n")
}

// replyForError maps an error onto the text shown to the user. The bool is true when the error was not
// caused by the user and must be logged.
func replyForError(kind policy.Kind, err error) (string, bool) {
	var (
		usage     usageError
		denied    *ticketing.ForbiddenError
		exportErr *ticketing.ExportError
		gwErr     *ticketing.GatewayError
	)

	switch {
	case errors.As(err, &usage):
		return string(usage), false
	case errors.Is(err, ticketing.ErrNotConfigured):
		return messages.ErrNotConfigured, false
	case errors.Is(err, ticketing.ErrDuplicateTicket):
		return messages.ErrDuplicateTicket, false
	case errors.Is(err, ticketing.ErrNotATicketChannel):
		return messages.ErrNotATicketChannel, false
	case errors.Is(err, ticketing.ErrCannotRemoveOwner):
		return messages.ErrCannotRemoveOwner, false
	case errors.As(err, &denied):
		if kind == policy.KindSetup || kind == policy.KindPanel {
			return messages.ErrNotAdministrator, false
		}
		return fmt.Sprintf(messages.ErrForbidden, denied.Reason), false
	case errors.Is(err, ticketing.ErrAlreadyClosed):
		return messages.ErrAlreadyClosed, false
	case errors.Is(err, ticketing.ErrNotClosed):
		return messages.ErrAlreadyOpen, false
	case errors.Is(err, ticketing.ErrInvalidConfig), errors.Is(err, panels.ErrInvalidPanel):
		return fmt.Sprintf(messages.ErrInvalidInput, err), false
	case errors.Is(err, panels.ErrUnknownPanel):
		return messages.ErrUnknownPanel, false
	case errors.As(err, &exportErr):
		return messages.ErrTranscriptFailed, true
	case errors.As(err, &gwErr):
		return messages.ErrPlatform, true
	default:
		return messages.ErrUserErrorProcessing, true
	}
}
