package recruitment

import (
	"time"

	"xenory/bot/common"
	"xenory/events"
	"xenory/infrastructure/observability"
	"xenory/service"
)

// DefaultCloseDelay is how long an application channel stays open after its media was relayed
const DefaultCloseDelay = 5 * time.Second

// Feature runs the recruitment flow: private application channels, media
// relay to the staff channel and staff decisions
type Feature struct {
	session    common.Session
	configs    service.GuildConfigService
	publisher  events.Publisher
	metrics    *observability.Metrics
	closeDelay time.Duration
	guard      *decisionGuard

	// schedule runs fn after d; time.AfterFunc outside tests
	schedule func(d time.Duration, fn func())
}

// NewFeature creates a new recruitment feature instance
func NewFeature(session common.Session, configs service.GuildConfigService, publisher events.Publisher, metrics *observability.Metrics, closeDelay time.Duration) *Feature {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	if closeDelay <= 0 {
		closeDelay = DefaultCloseDelay
	}
	return &Feature{
		session:    session,
		configs:    configs,
		publisher:  publisher,
		metrics:    metrics,
		closeDelay: closeDelay,
		guard:      newDecisionGuard(decisionGuardTTL),
		schedule: func(d time.Duration, fn func()) {
			time.AfterFunc(d, fn)
		},
	}
}
