package infrastructure

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"xenory/events"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) Publish(ctx context.Context, subject, msgID string, data []byte) error {
	args := m.Called(ctx, subject, msgID, data)
	return args.Error(0)
}

func TestEventForwarder_Handle(t *testing.T) {
	t.Parallel()

	publisher := new(mockPublisher)
	var payload []byte
	publisher.On("Publish", mock.Anything, "xenory.application_decided", "evt-1", mock.Anything).
		Run(func(args mock.Arguments) { payload = args.Get(3).([]byte) }).
		Return(nil)

	forwarder := NewEventForwarder(publisher, nil)
	forwarder.now = func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }
	forwarder.newID = func() string { return "evt-1" }

	forwarder.Handle(context.Background(), events.ApplicationDecidedEvent{
		GuildID:     "1",
		ApplicantID: "2",
		DecidedBy:   "3",
		Approved:    true,
	})

	publisher.AssertExpectations(t)

	var decoded struct {
		EventID    string          `json:"event_id"`
		Type       string          `json:"type"`
		OccurredAt time.Time       `json:"occurred_at"`
		Data       json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(payload, &decoded))
	assert.Equal(t, "evt-1", decoded.EventID)
	assert.Equal(t, "application_decided", decoded.Type)
	assert.Equal(t, 2026, decoded.OccurredAt.Year())
	assert.JSONEq(t, `{"guild_id":"1","applicant_id":"2","decided_by":"3","approved":true,"applicant_notified":false}`, string(decoded.Data))
}

func TestEventForwarder_PublishFailureIsSwallowed(t *testing.T) {
	t.Parallel()

	publisher := new(mockPublisher)
	publisher.On("Publish", mock.Anything, "xenory.guild_config_saved", mock.Anything, mock.Anything).
		Return(errors.New("no responders"))

	forwarder := NewEventForwarder(publisher, nil)
	assert.NotPanics(t, func() {
		forwarder.Handle(context.Background(), events.GuildConfigSavedEvent{GuildID: "1"})
	})
	publisher.AssertExpectations(t)
}

func TestEventForwarder_AttachReceivesBusEvents(t *testing.T) {
	t.Parallel()

	published := make(chan string, 1)
	publisher := new(mockPublisher)
	publisher.On("Publish", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { published <- args.String(1) }).
		Return(nil)

	bus := events.NewBus()
	NewEventForwarder(publisher, nil).Attach(bus)
	bus.Emit(context.Background(), events.MemberJoinedEvent{GuildID: "1", UserID: "2"})

	select {
	case subject := <-published:
		assert.Equal(t, "xenory.member_joined", subject)
	case <-time.After(time.Second):
		t.Fatal("event was not forwarded")
	}
}

func TestEventForwarder_EachForwardGetsDistinctEventID(t *testing.T) {
	t.Parallel()

	var ids []string
	var payloads [][]byte
	publisher := new(mockPublisher)
	publisher.On("Publish", mock.Anything, "xenory.member_joined", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			ids = append(ids, args.String(2))
			payloads = append(payloads, args.Get(3).([]byte))
		}).
		Return(nil).Twice()

	forwarder := NewEventForwarder(publisher, nil)
	event := events.MemberJoinedEvent{GuildID: "1", UserID: "2"}
	forwarder.Handle(context.Background(), event)
	forwarder.Handle(context.Background(), event)

	publisher.AssertExpectations(t)
	require.Len(t, ids, 2)
	assert.NotEmpty(t, ids[0])
	assert.NotEqual(t, ids[0], ids[1])

	for i, payload := range payloads {
		var decoded struct {
			EventID string `json:"event_id"`
		}
		require.NoError(t, json.Unmarshal(payload, &decoded))
		assert.Equal(t, ids[i], decoded.EventID, "envelope id must match the dedup header")
	}
}

func TestSubject(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "xenory.member_verified", Subject(events.EventTypeMemberVerified))
}
