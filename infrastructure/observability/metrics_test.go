package observability

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_Counters(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := NewMetrics(registry)

	m.AdvisoryFailure("grant_role")
	m.AdvisoryFailure("grant_role")
	m.StoreWrite("postgres", nil)
	m.StoreWrite("postgres", errors.New("down"))
	m.KeepAlivePing(nil)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.advisoryFailures.WithLabelValues("grant_role")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.storeWrites.WithLabelValues("postgres", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.storeWrites.WithLabelValues("postgres", "error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.keepAlivePings.WithLabelValues("ok")))
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.AdvisoryFailure("x")
		m.StoreReadFailure("x")
		m.StoreWrite("x", nil)
		m.Interaction("x")
		m.Application("x")
		m.KeepAlivePing(nil)
		m.EventForwarded("x", nil)
	})
	assert.Nil(t, NewMetrics(nil))
}
