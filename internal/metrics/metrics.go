// Package metrics provides interfaces and implementations for counting
// pool operations and tracking reserve-level gauges.
//
// The Metrics interface defines methods for updating gauges and
// counters and flushing accumulated values. Handlers record into it on
// every successful operation; a Noop implementation keeps the engine
// free of conditionals when metrics are disabled.
package metrics

import (
	"log/slog"
	"sync"
)

// Metrics defines the interface for collecting pool operation metrics.
type Metrics interface {
	// UpdateGauge sets a gauge metric to the specified value.
	// Gauges track values that can go up or down, like member count.
	UpdateGauge(name string, value uint64)

	// IncrementCounter increments a counter metric by the specified value.
	// Counters track values that only increase, like executed swaps.
	IncrementCounter(name string, value uint64)

	// Flush reports all accumulated metric values.
	Flush()
}

// NoopMetrics is a Metrics implementation that does nothing.
// Useful for testing or when metrics are disabled.
type NoopMetrics struct{}

// NewNoopMetrics creates a new NoopMetrics.
func NewNoopMetrics() *NoopMetrics {
	return &NoopMetrics{}
}

func (n *NoopMetrics) UpdateGauge(name string, value uint64)      {}
func (n *NoopMetrics) IncrementCounter(name string, value uint64) {}
func (n *NoopMetrics) Flush()                                     {}

// LogMetrics is a Metrics implementation that accumulates values and
// logs them using slog.
type LogMetrics struct {
	logger   *slog.Logger
	mu       sync.Mutex
	gauges   map[string]uint64
	counters map[string]uint64
}

// NewLogMetrics creates a new LogMetrics with the given logger.
// If logger is nil, the default logger is used.
func NewLogMetrics(logger *slog.Logger) *LogMetrics {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogMetrics{
		logger:   logger,
		gauges:   make(map[string]uint64),
		counters: make(map[string]uint64),
	}
}

// UpdateGauge records the gauge value.
func (l *LogMetrics) UpdateGauge(name string, value uint64) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.gauges[name] = value
	l.logger.Debug("gauge updated", "name", name, "value", value)
}

// IncrementCounter adds to the counter total.
func (l *LogMetrics) IncrementCounter(name string, value uint64) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.counters[name] += value
	l.logger.Debug("counter incremented", "name", name, "value", value, "total", l.counters[name])
}

// Flush logs all current metric values.
func (l *LogMetrics) Flush() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.logger.Info("metrics flush",
		"gauges", l.gauges,
		"counters", l.counters,
	)
}

// Counter returns the accumulated total for a counter.
func (l *LogMetrics) Counter(name string) uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.counters[name]
}

// Metric names used by the engine.
const (
	MetricPoolsCreated     = "pools_created"
	MetricAssetsAdded      = "assets_added"
	MetricAssetsRemoved    = "assets_removed"
	MetricDeposits         = "deposits"
	MetricWithdrawals      = "withdrawals"
	MetricSwapsExecuted    = "swaps_executed"
	MetricSwapVolumeIn     = "swap_volume_in"
	MetricSwapVolumeOut    = "swap_volume_out"
	MetricClaimsMinted     = "claims_minted"
	MetricClaimsBurned     = "claims_burned"
	MetricPoolMembers      = "pool_members"
	MetricPoolClaimsMinted = "pool_claims_outstanding"
)
