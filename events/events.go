package events

import (
	"context"
	"sync"

	log "github.com/sirupsen/logrus"
)

// EventType represents different types of events in the system
type EventType string

const (
	EventTypeMemberJoined         EventType = "member_joined"
	EventTypeMemberVerified       EventType = "member_verified"
	EventTypeApplicationOpened    EventType = "application_opened"
	EventTypeApplicationSubmitted EventType = "application_submitted"
	EventTypeApplicationDecided   EventType = "application_decided"
	EventTypeGuildConfigSaved     EventType = "guild_config_saved"
)

// Event is the base interface for all events
type Event interface {
	Type() EventType
}

// MemberJoinedEvent is emitted after the join handling for a new member ran
type MemberJoinedEvent struct {
	GuildID         string `json:"guild_id"`
	UserID          string `json:"user_id"`
	RestrictedRole  bool   `json:"restricted_role_granted"`
	WelcomePosted   bool   `json:"welcome_posted"`
	WelcomeDMPosted bool   `json:"welcome_dm_sent"`
}

func (e MemberJoinedEvent) Type() EventType {
	return EventTypeMemberJoined
}

// MemberVerifiedEvent is emitted when a member pressed the verify button
type MemberVerifiedEvent struct {
	GuildID        string `json:"guild_id"`
	UserID         string `json:"user_id"`
	RoleGranted    bool   `json:"role_granted"`
	RestrictedLift bool   `json:"restricted_role_revoked"`
}

func (e MemberVerifiedEvent) Type() EventType {
	return EventTypeMemberVerified
}

// ApplicationOpenedEvent is emitted when a private application channel was created
type ApplicationOpenedEvent struct {
	GuildID     string `json:"guild_id"`
	ApplicantID string `json:"applicant_id"`
	ChannelID   string `json:"channel_id"`
}

func (e ApplicationOpenedEvent) Type() EventType {
	return EventTypeApplicationOpened
}

// ApplicationSubmittedEvent is emitted when applicant media was relayed to staff
type ApplicationSubmittedEvent struct {
	GuildID        string `json:"guild_id"`
	ApplicantID    string `json:"applicant_id"`
	StaffChannelID string `json:"staff_channel_id"`
	MessageID      string `json:"message_id"`
	IsVideo        bool   `json:"is_video"`
}

func (e ApplicationSubmittedEvent) Type() EventType {
	return EventTypeApplicationSubmitted
}

// ApplicationDecidedEvent is emitted when staff approved or rejected an application
type ApplicationDecidedEvent struct {
	GuildID     string `json:"guild_id"`
	ApplicantID string `json:"applicant_id"`
	DecidedBy   string `json:"decided_by"`
	Approved    bool   `json:"approved"`
	Notified    bool   `json:"applicant_notified"`
}

func (e ApplicationDecidedEvent) Type() EventType {
	return EventTypeApplicationDecided
}

// GuildConfigSavedEvent is emitted after a configuration record was written
type GuildConfigSavedEvent struct {
	GuildID string `json:"guild_id"`
}

func (e GuildConfigSavedEvent) Type() EventType {
	return EventTypeGuildConfigSaved
}

// Publisher is implemented by anything events can be published to
type Publisher interface {
	Emit(ctx context.Context, event Event)
}

// Handler is a function that handles events
type Handler func(ctx context.Context, event Event)

// Bus manages event subscriptions and dispatching
type Bus struct {
	mu       sync.RWMutex
	handlers map[EventType][]Handler
	all      []Handler
}

// NewBus creates a new event bus
func NewBus() *Bus {
	return &Bus{
		handlers: make(map[EventType][]Handler),
	}
}

// Subscribe adds a handler for a specific event type
func (b *Bus) Subscribe(eventType EventType, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[eventType] = append(b.handlers[eventType], handler)

	log.WithFields(log.Fields{
		"eventType":    eventType,
		"handlerCount": len(b.handlers[eventType]),
	}).Debug("Subscribed handler to event type")
}

// SubscribeAll adds a handler that receives every event
func (b *Bus) SubscribeAll(handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.all = append(b.all, handler)
}

// Emit publishes an event to all registered handlers.
// Handlers run on their own goroutines; a panicking handler is logged and dropped.
func (b *Bus) Emit(ctx context.Context, event Event) {
	b.mu.RLock()
	handlers := make([]Handler, 0, len(b.handlers[event.Type()])+len(b.all))
	handlers = append(handlers, b.handlers[event.Type()]...)
	handlers = append(handlers, b.all...)
	b.mu.RUnlock()

	log.WithFields(log.Fields{
		"eventType":    event.Type(),
		"handlerCount": len(handlers),
	}).Debug("Emitting event to handlers")

	// Handlers must not inherit the cancellation of the request that produced the event
	eventCtx := context.WithoutCancel(ctx)

	for i, handler := range handlers {
		go func(h Handler, handlerIndex int) {
			defer func() {
				if r := recover(); r != nil {
					log.WithFields(log.Fields{
						"eventType":    event.Type(),
						"handlerIndex": handlerIndex,
						"panic":        r,
					}).Error("Event handler panicked")
				}
			}()
			h(eventCtx, event)
		}(handler, i)
	}
}

// NopPublisher discards events
type NopPublisher struct{}

// Emit implements Publisher
func (NopPublisher) Emit(context.Context, Event) {}
