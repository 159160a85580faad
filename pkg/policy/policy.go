// Package policy decides who may perform which ticket action.
// Every function here is pure: the caller reads the current state and passes it in.
package policy

import (
	"errors"
	"fmt"
	"slices"

	"github.com/Jacobbrewer1/ticketeer/pkg/entities"
)

var (
	// ErrForbidden is the kind of every denial that is not more specific.
	ErrForbidden = errors.New("forbidden")

	// ErrNotConfigured is returned when the guild has no support role configured.
	ErrNotConfigured = errors.New("ticketing is not configured")

	// ErrDuplicateTicket is returned when the requester already has a live ticket channel.
	ErrDuplicateTicket = errors.New("ticket already exists")

	// ErrNotATicketChannel is returned when a ticket action targets a channel without a ticket.
	ErrNotATicketChannel = errors.New("channel is not a ticket")

	// ErrCannotRemoveOwner is returned when removing the owner from their own ticket.
	ErrCannotRemoveOwner = errors.New("cannot remove the ticket owner")

	// ErrUnknownAction is returned for an action kind the policy does not know.
	ErrUnknownAction = errors.New("unknown action")
)

// Kind identifies an action for the policy.
type Kind int

const (
	KindSetup Kind = iota + 1
	KindPanel
	KindCreate
	KindAddMember
	KindRemoveMember
	KindClose
	KindReopen
	KindDelete
	KindTranscript
)

func (k Kind) String() string {
	switch k {
	case KindSetup:
		return "setup"
	case KindPanel:
		return "panel"
	case KindCreate:
		return "create"
	case KindAddMember:
		return "add"
	case KindRemoveMember:
		return "remove"
	case KindClose:
		return "close"
	case KindReopen:
		return "open"
	case KindDelete:
		return "delete"
	case KindTranscript:
		return "transcript"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Caller is the user performing an action.
type Caller struct {
	// UserID is the ID of the user.
	UserID string

	// RoleIDs are the IDs of the roles the user has in the guild.
	RoleIDs []string

	// IsAdministrator is whether the user has the administrator permission in the guild.
	IsAdministrator bool
}

// HasRole reports whether the caller has the given role.
func (c Caller) HasRole(roleID string) bool {
	return roleID != "" && slices.Contains(c.RoleIDs, roleID)
}

// Subject is the stored state an action is evaluated against.
type Subject struct {
	// Config is the guild configuration. Nil when the guild was never set up.
	Config *entities.CommunityConfig

	// Ticket is the ticket acted on. Nil for setup, panel and create.
	Ticket *entities.Ticket

	// TargetID is the user added to or removed from the ticket.
	TargetID string

	// HasLiveTicket is whether the caller already has a live ticket channel. Only used by create.
	HasLiveTicket bool
}

// Options change how the rules are applied.
type Options struct {
	// AdministratorIsStaff makes administrators count as staff even without the support role.
	AdministratorIsStaff bool
}

// Decision is the outcome of a policy evaluation.
type Decision struct {
	Allowed bool
	Reason  string

	// Kind classifies a denial. Nil means ErrForbidden.
	Kind error
}

// DeniedError is the error form of a denied Decision.
type DeniedError struct {
	Kind   error
	Reason string
}

func (e *DeniedError) Error() string {
	return e.Reason
}

func (e *DeniedError) Unwrap() error {
	return e.Kind
}

// Err converts the decision to an error if not allowed.
func (d Decision) Err() error {
	if d.Allowed {
		return nil
	}

	kind := d.Kind
	if kind == nil {
		kind = ErrForbidden
	}
	return &DeniedError{Kind: kind, Reason: d.Reason}
}

func allow() Decision {
	return Decision{Allowed: true}
}

func deny(kind error, format string, args ...any) Decision {
	return Decision{
		Allowed: false,
		Reason:  fmt.Sprintf(format, args...),
		Kind:    kind,
	}
}

// IsStaff reports whether the caller holds the guild's support role.
func IsStaff(c Caller, cfg *entities.CommunityConfig, opts Options) bool {
	if opts.AdministratorIsStaff && c.IsAdministrator {
		return true
	}
	return cfg != nil && c.HasRole(cfg.SupportRoleID)
}

// IsOwner reports whether the caller opened the ticket.
func IsOwner(c Caller, t *entities.Ticket) bool {
	return t != nil && c.UserID != "" && t.OwnerID == c.UserID
}

// CanPerform evaluates whether the caller may perform the action on the subject.
func CanPerform(kind Kind, c Caller, s Subject, opts Options) Decision {
	switch kind {
	case KindSetup, KindPanel:
		return canAdminister(c, kind)
	case KindCreate:
		return canCreate(s)
	case KindAddMember, KindClose, KindTranscript:
		return canStaffOrOwner(kind, c, s, opts)
	case KindRemoveMember:
		return canRemoveMember(c, s, opts)
	case KindReopen, KindDelete:
		return canStaff(kind, c, s, opts)
	default:
		return deny(ErrUnknownAction, "unknown action %s", kind)
	}
}

// canAdminister allows administrators only.
func canAdminister(c Caller, kind Kind) Decision {
	if !c.IsAdministrator {
		return deny(ErrForbidden, "you must be an administrator to use %s", kind)
	}
	return allow()
}

// canCreate evaluates whether a ticket can be created.
// Rules:
// - The guild must have a support role configured
// - The caller must not already have a live ticket channel
func canCreate(s Subject) Decision {
	if !s.Config.IsConfigured() {
		return deny(ErrNotConfigured, "ticketing has not been set up for this server")
	}
	if s.HasLiveTicket {
		return deny(ErrDuplicateTicket, "you already have an open ticket")
	}
	return allow()
}

func canStaffOrOwner(kind Kind, c Caller, s Subject, opts Options) Decision {
	if s.Ticket == nil {
		return deny(ErrNotATicketChannel, "this channel is not a ticket")
	}
	if !IsStaff(c, s.Config, opts) && !IsOwner(c, s.Ticket) {
		return deny(ErrForbidden, "only staff or the ticket owner can %s this ticket", verb(kind))
	}
	return allow()
}

// canRemoveMember evaluates whether a member can be removed.
// Rules:
// - The caller must be staff or the owner
// - The target must not be the owner
func canRemoveMember(c Caller, s Subject, opts Options) Decision {
	if d := canStaffOrOwner(KindRemoveMember, c, s, opts); !d.Allowed {
		return d
	}
	if s.TargetID == s.Ticket.OwnerID {
		return deny(ErrCannotRemoveOwner, "the ticket owner cannot be removed from their ticket")
	}
	return allow()
}

func canStaff(kind Kind, c Caller, s Subject, opts Options) Decision {
	if s.Ticket == nil {
		return deny(ErrNotATicketChannel, "this channel is not a ticket")
	}
	if !IsStaff(c, s.Config, opts) {
		return deny(ErrForbidden, "only staff can %s this ticket", verb(kind))
	}
	return allow()
}

func verb(kind Kind) string {
	switch kind {
	case KindAddMember:
		return "add members to"
	case KindRemoveMember:
		return "remove members from"
	case KindReopen:
		return "reopen"
	case KindTranscript:
		return "export the transcript of"
	default:
		return kind.String()
	}
}
