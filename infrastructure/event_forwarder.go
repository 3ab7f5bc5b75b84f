package infrastructure

import (
	"context"
	"encoding/json"
	"time"

	"xenory/events"
	"xenory/infrastructure/observability"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// SubjectPrefix prefixes every forwarded event subject
const SubjectPrefix = "xenory"

// publishTimeout bounds a single forward so a slow broker cannot pile up goroutines
const publishTimeout = 5 * time.Second

// envelope is the JSON payload published for each event
type envelope struct {
	EventID    string           `json:"event_id"`
	Type       events.EventType `json:"type"`
	OccurredAt time.Time        `json:"occurred_at"`
	Data       events.Event     `json:"data"`
}

// EventForwarder forwards domain events from the bus to a message bus
type EventForwarder struct {
	publisher MessagePublisher
	metrics   *observability.Metrics
	now       func() time.Time
	newID     func() string
}

// NewEventForwarder creates a new event forwarder
func NewEventForwarder(publisher MessagePublisher, metrics *observability.Metrics) *EventForwarder {
	return &EventForwarder{
		publisher: publisher,
		metrics:   metrics,
		now:       time.Now,
		newID:     func() string { return uuid.New().String() },
	}
}

// Subject returns the subject an event type is published to
func Subject(eventType events.EventType) string {
	return SubjectPrefix + "." + string(eventType)
}

// Attach subscribes the forwarder to every event on the bus
func (f *EventForwarder) Attach(bus *events.Bus) {
	bus.SubscribeAll(f.Handle)
}

// Handle publishes a single event. Failures are logged and counted.
func (f *EventForwarder) Handle(ctx context.Context, event events.Event) {
	eventID := f.newID()
	data, err := json.Marshal(envelope{
		EventID:    eventID,
		Type:       event.Type(),
		OccurredAt: f.now().UTC(),
		Data:       event,
	})
	if err != nil {
		log.WithFields(log.Fields{
			"eventType": event.Type(),
			"error":     err,
		}).Error("Failed to encode event")
		f.metrics.EventForwarded(string(event.Type()), err)
		return
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	err = f.publisher.Publish(ctx, Subject(event.Type()), eventID, data)
	f.metrics.EventForwarded(string(event.Type()), err)
	if err != nil {
		log.WithFields(log.Fields{
			"eventType": event.Type(),
			"eventId":   eventID,
			"error":     err,
		}).Warn("Failed to forward event")
	}
}
