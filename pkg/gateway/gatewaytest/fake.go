// Package gatewaytest provides an in-memory gateway for tests.
package gatewaytest

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/Jacobbrewer1/ticketeer/pkg/gateway"
)

// Operation names used for failure injection.
const (
	OpCreateChannel    = "create channel"
	OpSetChannelParent = "set channel parent"
	OpDeleteChannel    = "delete channel"
	OpGrantAccess      = "grant access"
	OpRevokeAccess     = "revoke access"
	OpSendMessage      = "send message"
	OpListChannels     = "list channels"
	OpGetChannel       = "get channel"
)

// SentMessage is a message the fake accepted.
type SentMessage struct {
	ID        string
	ChannelID string
	Message   *gateway.Message
}

// Fake is a gateway.Gateway that keeps channels and overwrites in memory.
type Fake struct {
	mu sync.Mutex

	nextID     int
	channels   map[string]*gateway.Channel
	overwrites map[string]map[string]gateway.Overwrite
	sent       []SentMessage
	deleted    []string
	failures   map[string]error
}

// New returns an empty Fake.
func New() *Fake {
	return &Fake{
		channels:   make(map[string]*gateway.Channel),
		overwrites: make(map[string]map[string]gateway.Overwrite),
		failures:   make(map[string]error),
	}
}

// FailOn makes the operation fail with err. For grant and revoke the target is the principal ID,
// otherwise it is the channel ID or community ID. An empty target fails every call of the operation.
func (f *Fake) FailOn(op, target string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failures[op+"|"+target] = err
}

// AddChannel registers a channel as if it was created outside the engine.
func (f *Fake) AddChannel(communityID, name string) *gateway.Channel {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.addChannel(communityID, name)
}

// RemoveChannel deletes a channel as if a moderator deleted it by hand.
func (f *Fake) RemoveChannel(channelID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.channels, channelID)
	delete(f.overwrites, channelID)
}

// Channel returns a copy of the channel, or nil when it does not exist.
func (f *Fake) Channel(channelID string) *gateway.Channel {
	f.mu.Lock()
	defer f.mu.Unlock()
	ch, ok := f.channels[channelID]
	if !ok {
		return nil
	}
	cp := *ch
	return &cp
}

// ChannelCount returns the number of live channels.
func (f *Fake) ChannelCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.channels)
}

// Overwrite returns the principal's overwrite on the channel.
func (f *Fake) Overwrite(channelID, principalID string) (gateway.Overwrite, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.overwrites[channelID][principalID]
	return o, ok
}

// CanView reports whether the principal has an overwrite allowing it to view the channel.
func (f *Fake) CanView(channelID, principalID string) bool {
	o, ok := f.Overwrite(channelID, principalID)
	return ok && o.Allow.View
}

// Sent returns the messages sent to the channel.
func (f *Fake) Sent(channelID string) []SentMessage {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []SentMessage
	for _, m := range f.sent {
		if m.ChannelID == channelID {
			out = append(out, m)
		}
	}
	return out
}

// Deleted returns the IDs of channels deleted through the gateway.
func (f *Fake) Deleted() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.deleted...)
}

func (f *Fake) CreateChannel(_ context.Context, communityID, name string, overwrites []gateway.Overwrite) (*gateway.Channel, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.fail(OpCreateChannel, communityID); err != nil {
		return nil, err
	}

	ch := f.addChannel(communityID, name)
	for _, o := range overwrites {
		f.overwrites[ch.ID][o.Principal.ID] = o
	}

	cp := *ch
	return &cp, nil
}

func (f *Fake) SetChannelParent(_ context.Context, channelID, categoryID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	ch, err := f.lookup(OpSetChannelParent, channelID)
	if err != nil {
		return err
	}
	ch.ParentID = categoryID
	return nil
}

func (f *Fake) DeleteChannel(_ context.Context, channelID, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, err := f.lookup(OpDeleteChannel, channelID); err != nil {
		return err
	}
	delete(f.channels, channelID)
	delete(f.overwrites, channelID)
	f.deleted = append(f.deleted, channelID)
	return nil
}

func (f *Fake) GrantAccess(_ context.Context, channelID string, p gateway.Principal, access gateway.Access) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.fail(OpGrantAccess, p.ID); err != nil {
		return err
	}
	if _, err := f.lookup(OpGrantAccess, channelID); err != nil {
		return err
	}
	f.overwrites[channelID][p.ID] = gateway.Overwrite{Principal: p, Allow: access}
	return nil
}

func (f *Fake) RevokeAccess(_ context.Context, channelID string, p gateway.Principal) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.fail(OpRevokeAccess, p.ID); err != nil {
		return err
	}
	if _, err := f.lookup(OpRevokeAccess, channelID); err != nil {
		return err
	}
	delete(f.overwrites[channelID], p.ID)
	return nil
}

func (f *Fake) SendMessage(_ context.Context, channelID string, m *gateway.Message) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, err := f.lookup(OpSendMessage, channelID); err != nil {
		return "", err
	}
	f.nextID++
	id := fmt.Sprintf("message-%d", f.nextID)
	f.sent = append(f.sent, SentMessage{ID: id, ChannelID: channelID, Message: m})
	return id, nil
}

func (f *Fake) Channels(_ context.Context, communityID string) ([]*gateway.Channel, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.fail(OpListChannels, communityID); err != nil {
		return nil, err
	}

	var out []*gateway.Channel
	for _, ch := range f.channels {
		if ch.CommunityID == communityID {
			cp := *ch
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *Fake) ChannelExists(_ context.Context, channelID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.fail(OpGetChannel, channelID); err != nil {
		return false, err
	}
	_, ok := f.channels[channelID]
	return ok, nil
}

func (f *Fake) addChannel(communityID, name string) *gateway.Channel {
	f.nextID++
	ch := &gateway.Channel{
		ID:          fmt.Sprintf("channel-%d", f.nextID),
		CommunityID: communityID,
		Name:        strings.ToLower(name),
	}
	f.channels[ch.ID] = ch
	f.overwrites[ch.ID] = make(map[string]gateway.Overwrite)
	return ch
}

func (f *Fake) lookup(op, channelID string) (*gateway.Channel, error) {
	if err := f.fail(op, channelID); err != nil {
		return nil, err
	}
	ch, ok := f.channels[channelID]
	if !ok {
		return nil, &gateway.GatewayError{Op: op, Err: gateway.ErrChannelNotFound}
	}
	return ch, nil
}

func (f *Fake) fail(op, target string) error {
	err, ok := f.failures[op+"|"+target]
	if !ok {
		err, ok = f.failures[op+"|"]
	}
	if !ok {
		return nil
	}
	return &gateway.GatewayError{Op: op, Err: err}
}
