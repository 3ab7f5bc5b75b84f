package common

import (
	"sync/atomic"

	"xenory/infrastructure/observability"

	log "github.com/sirupsen/logrus"
)

var advisoryMetrics atomic.Pointer[observability.Metrics]

// SetAdvisoryMetrics sets where advisory failures are counted
func SetAdvisoryMetrics(m *observability.Metrics) {
	advisoryMetrics.Store(m)
}

// Outcome records the result of an advisory operation
type Outcome struct {
	Operation string
	Err       error
}

// OK reports whether the operation succeeded
func (o Outcome) OK() bool {
	return o.Err == nil
}

// Advisory runs a platform side effect whose failure must not abort the
// surrounding flow. A failure is logged at warn level and counted, then
// returned in the Outcome instead of propagated.
func Advisory(operation string, fields log.Fields, fn func() error) Outcome {
	err := fn()
	if err == nil {
		return Outcome{Operation: operation}
	}

	entry := log.WithFields(fields).WithFields(log.Fields{
		"operation": operation,
		"error":     err,
	})
	entry.Warn("Advisory operation failed")
	advisoryMetrics.Load().AdvisoryFailure(operation)

	return Outcome{Operation: operation, Err: err}
}
