package ticketing

import (
	"errors"
	"fmt"

	"github.com/Jacobbrewer1/ticketeer/pkg/gateway"
	"github.com/Jacobbrewer1/ticketeer/pkg/policy"
	"github.com/Jacobbrewer1/ticketeer/pkg/transcript"
)

var (
	ErrForbidden         = policy.ErrForbidden
	ErrNotConfigured     = policy.ErrNotConfigured
	ErrDuplicateTicket   = policy.ErrDuplicateTicket
	ErrNotATicketChannel = policy.ErrNotATicketChannel
	ErrCannotRemoveOwner = policy.ErrCannotRemoveOwner
	ErrUnknownAction     = policy.ErrUnknownAction

	// ErrAlreadyClosed is returned when closing a ticket that is not open.
	ErrAlreadyClosed = errors.New("ticket is already closed")

	// ErrNotClosed is returned when reopening a ticket that is not closed.
	ErrNotClosed = errors.New("ticket is not closed")

	// ErrAlreadyOpen is the same failure as ErrNotClosed seen from the caller's side.
	ErrAlreadyOpen = ErrNotClosed

	// ErrInvalidConfig is returned when setup is given a configuration tickets cannot work with.
	ErrInvalidConfig = errors.New("invalid configuration")
)

type (
	// ForbiddenError carries the reason an action was denied.
	ForbiddenError = policy.DeniedError

	// GatewayError is a failed platform call.
	GatewayError = gateway.GatewayError

	// ExportError is a failed transcript export.
	ExportError = transcript.ExportError
)

// Step names reported in StepFailure.
const (
	StepSendWelcome      = "send welcome"
	StepExportTranscript = "export transcript"
	StepPostTranscript   = "post transcript"
	StepSetParent        = "set channel parent"
	StepListMembers      = "list members"
	StepRevokeAccess     = "revoke access"
	StepGrantAccess      = "grant access"
	StepDeleteChannel    = "delete channel"
)

// StepFailure is one step of a multi step operation that failed without stopping the operation.
type StepFailure struct {
	// Step is the name of the step.
	Step string

	// Target is the user or channel the step acted on.
	Target string

	// Err is the cause.
	Err error
}

func (f StepFailure) Error() string {
	if f.Target == "" {
		return fmt.Sprintf("%s: %v", f.Step, f.Err)
	}
	return fmt.Sprintf("%s %s: %v", f.Step, f.Target, f.Err)
}

func (f StepFailure) Unwrap() error {
	return f.Err
}
