package keepalive

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"xenory/infrastructure/observability"

	log "github.com/sirupsen/logrus"
)

// DefaultInterval keeps the service under the idle timeout of common hosts
const DefaultInterval = 10 * time.Minute

const requestTimeout = 30 * time.Second

// Pinger periodically requests the service's own public URL so that hosts which
// suspend idle processes keep it running
type Pinger struct {
	url      string
	interval time.Duration
	client   *http.Client
	metrics  *observability.Metrics
}

// NewPinger creates a pinger for url. A non-positive interval uses DefaultInterval.
func NewPinger(url string, interval time.Duration, metrics *observability.Metrics) *Pinger {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Pinger{
		url:      url,
		interval: interval,
		client:   &http.Client{Timeout: requestTimeout},
		metrics:  metrics,
	}
}

// Start begins pinging every interval until ctx is cancelled or the returned
// stop func is called. Stop waits for the pinger goroutine to exit.
func (p *Pinger) Start(ctx context.Context) func() {
	if p.url == "" {
		log.Info("Keep-alive disabled, no public URL configured")
		return func() {}
	}

	stopChan := make(chan struct{})
	done := make(chan struct{})

	go func() {
		defer close(done)

		ticker := time.NewTicker(p.interval)
		defer ticker.Stop()

		log.WithFields(log.Fields{
			"url":      p.url,
			"interval": p.interval,
		}).Info("Keep-alive pinger started")

		for {
			select {
			case <-ctx.Done():
				return
			case <-stopChan:
				return
			case <-ticker.C:
				p.Ping(ctx)
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			close(stopChan)
			<-done
		})
	}
}

// Ping sends a single request. Failures are logged at debug level and counted, never returned.
func (p *Pinger) Ping(ctx context.Context) {
	err := p.ping(ctx)
	p.metrics.KeepAlivePing(err)
	if err != nil {
		log.WithError(err).WithField("url", p.url).Debug("Keep-alive ping failed")
		return
	}
	log.WithField("url", p.url).Debug("Keep-alive ping sent")
}

func (p *Pinger) ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.url, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}
