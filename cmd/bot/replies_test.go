package main

import (
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/Jacobbrewer1/ticketeer/pkg/entities"
	"github.com/Jacobbrewer1/ticketeer/pkg/messages"
	"github.com/Jacobbrewer1/ticketeer/pkg/panels"
	"github.com/Jacobbrewer1/ticketeer/pkg/policy"
	"github.com/Jacobbrewer1/ticketeer/pkg/ticketing"
	"github.com/Jacobbrewer1/ticketeer/pkg/transcript"
	"github.com/stretchr/testify/require"
)

func TestReplyFor(t *testing.T) {
	caller := policy.Caller{UserID: "staff"}

	tests := []struct {
		name   string
		action ticketing.Action
		res    *ticketing.Result
		want   string
	}{
		{
			name:   "create",
			action: ticketing.Create{},
			res:    &ticketing.Result{Ticket: &entities.Ticket{ChannelID: "ticket"}},
			want:   fmt.Sprintf(messages.TicketCreated, "ticket"),
		},
		{
			name:   "close with failures",
			action: ticketing.Close{},
			res: &ticketing.Result{Failures: []ticketing.StepFailure{
				{Step: ticketing.StepRevokeAccess, Target: "x", Err: errors.New("boom")},
				{Step: ticketing.StepPostTranscript, Target: "logs", Err: errors.New("boom")},
			}},
			want: fmt.Sprintf(messages.TicketClosed, "staff") + fmt.Sprintf(messages.PartialFailure, 2),
		},
		{
			name:   "no panels",
			action: ticketing.ListPanels{},
			res:    &ticketing.Result{},
			want:   messages.NoPanels,
		},
		{
			name:   "panels",
			action: ticketing.ListPanels{},
			res: &ticketing.Result{Panels: []*entities.Panel{
				{Name: "billing", ChannelID: "a"},
				{Name: "support", ChannelID: "b"},
			}},
			want: "- **billing** in <#a>\n- **support** in <#b>",
		},
		{
			name:   "delete panel",
			action: ticketing.DeletePanel{Name: "billing"},
			want:   fmt.Sprintf(messages.PanelDeleted, "billing"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := replyFor(tt.action, caller, tt.res)
			require.Equal(t, tt.want, got.content)
			require.Empty(t, got.files)
		})
	}
}

func TestReplyFor_TranscriptAttachesArchive(t *testing.T) {
	res := &ticketing.Result{Archive: &transcript.Archive{
		Filename:    "transcript-1.html",
		ContentType: "text/html; charset=utf-8",
		Data:        []byte("<html></html>"),
	}}

	got := replyFor(ticketing.Transcript{}, policy.Caller{}, res)
	require.Equal(t, messages.TranscriptReady, got.content)
	require.Len(t, got.files, 1)
	require.Equal(t, "transcript-1.html", got.files[0].Name)

	data, err := io.ReadAll(got.files[0].Reader)
	require.NoError(t, err)
	require.Equal(t, "<html></html>", string(data))

	// The archive of a close goes to the log channel only.
	got = replyFor(ticketing.Close{}, policy.Caller{}, res)
	require.Empty(t, got.files)
}

func TestReplyForError(t *testing.T) {
	denied := &ticketing.ForbiddenError{Kind: ticketing.ErrForbidden, Reason: "only staff can reopen this ticket"}

	tests := []struct {
		name           string
		kind           policy.Kind
		err            error
		want           string
		wantUnexpected bool
	}{
		{
			name: "usage",
			err:  usageError("bad input"),
			want: "bad input",
		},
		{
			name: "not configured",
			kind: policy.KindCreate,
			err:  &ticketing.ForbiddenError{Kind: ticketing.ErrNotConfigured, Reason: "not set up"},
			want: messages.ErrNotConfigured,
		},
		{
			name: "duplicate",
			kind: policy.KindCreate,
			err:  &ticketing.ForbiddenError{Kind: ticketing.ErrDuplicateTicket, Reason: "open ticket"},
			want: messages.ErrDuplicateTicket,
		},
		{
			name: "not a ticket",
			kind: policy.KindClose,
			err:  ticketing.ErrNotATicketChannel,
			want: messages.ErrNotATicketChannel,
		},
		{
			name: "owner",
			kind: policy.KindRemoveMember,
			err:  &ticketing.ForbiddenError{Kind: ticketing.ErrCannotRemoveOwner, Reason: "owner"},
			want: messages.ErrCannotRemoveOwner,
		},
		{
			name: "forbidden",
			kind: policy.KindReopen,
			err:  denied,
			want: fmt.Sprintf(messages.ErrForbidden, denied.Reason),
		},
		{
			name: "not administrator",
			kind: policy.KindSetup,
			err:  denied,
			want: messages.ErrNotAdministrator,
		},
		{
			name: "already closed",
			kind: policy.KindClose,
			err:  ticketing.ErrAlreadyClosed,
			want: messages.ErrAlreadyClosed,
		},
		{
			name: "not closed",
			kind: policy.KindReopen,
			err:  ticketing.ErrNotClosed,
			want: messages.ErrAlreadyOpen,
		},
		{
			name: "invalid panel",
			kind: policy.KindPanel,
			err:  fmt.Errorf("%w: missing name", panels.ErrInvalidPanel),
			want: fmt.Sprintf(messages.ErrInvalidInput, "invalid panel: missing name"),
		},
		{
			name: "unknown panel",
			kind: policy.KindPanel,
			err:  panels.ErrUnknownPanel,
			want: messages.ErrUnknownPanel,
		},
		{
			name:           "transcript",
			kind:           policy.KindTranscript,
			err:            fmt.Errorf("error exporting transcript: %w", &ticketing.ExportError{ChannelID: "c", Err: errors.New("timeout")}),
			want:           messages.ErrTranscriptFailed,
			wantUnexpected: true,
		},
		{
			name:           "gateway",
			kind:           policy.KindCreate,
			err:            fmt.Errorf("error creating ticket channel: %w", &ticketing.GatewayError{Op: "create channel", Err: errors.New("missing permissions")}),
			want:           messages.ErrPlatform,
			wantUnexpected: true,
		},
		{
			name:           "unexpected",
			kind:           policy.KindCreate,
			err:            errors.New("disk full"),
			want:           messages.ErrUserErrorProcessing,
			wantUnexpected: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, unexpected := replyForError(tt.kind, tt.err)
			require.Equal(t, tt.want, got)
			require.Equal(t, tt.wantUnexpected, unexpected)
		})
	}
}
