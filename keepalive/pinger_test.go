package keepalive

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"xenory/infrastructure/observability"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestPinger_PingsOnEveryTick(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		hits.Add(1)
		_, _ = w.Write([]byte("ok"))
	}))
	defer srv.Close()

	registry := prometheus.NewRegistry()
	metrics := observability.NewMetrics(registry)

	p := NewPinger(srv.URL, 10*time.Millisecond, metrics)
	p.client = srv.Client()

	stop := p.Start(context.Background())
	require.Eventually(t, func() bool { return hits.Load() >= 3 }, 2*time.Second, 5*time.Millisecond)
	stop()
	stop()

	// stop waits for the loop, so every request that reached the server has been counted
	assertPings(t, registry, "ok", int(hits.Load()))
}

func TestPinger_ErrorsAreSuppressed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	registry := prometheus.NewRegistry()
	p := NewPinger(url, time.Hour, observability.NewMetrics(registry))

	assert.NotPanics(t, func() { p.Ping(context.Background()) })
	assertPings(t, registry, "error", 1)
}

func TestPinger_StopsWithContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	p := NewPinger(srv.URL, time.Hour, nil)
	stop := p.Start(ctx)

	cancel()
	stop()
}

func TestPinger_DisabledWithoutURL(t *testing.T) {
	p := NewPinger("", 0, nil)
	assert.Equal(t, DefaultInterval, p.interval)

	stop := p.Start(context.Background())
	stop()
}

func assertPings(t *testing.T, registry *prometheus.Registry, result string, count int) {
	t.Helper()
	expected := fmt.Sprintf(`# HELP xenory_keepalive_pings_total Total number of keep-alive pings by result
# TYPE xenory_keepalive_pings_total counter
xenory_keepalive_pings_total{result=%q} %d
`, result, count)
	require.NoError(t, testutil.GatherAndCompare(registry, strings.NewReader(expected), "xenory_keepalive_pings_total"))
}
