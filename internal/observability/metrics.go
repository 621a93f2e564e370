package observability

import (
	"strconv"
	"sync"
)

// Metrics counts upstream API calls made during a run. Both vendor APIs are
// counted through the same instance so the end-of-run summary shows the full
// HTTP footprint of a batch.
type Metrics struct {
	mu         sync.Mutex
	callCount  map[string]int64
	errorCount map[string]int64
}

// NewMetrics initializes metrics storage.
func NewMetrics() *Metrics {
	return &Metrics{
		callCount:  make(map[string]int64),
		errorCount: make(map[string]int64),
	}
}

// RecordCall increments the counter for one upstream round trip.
func (m *Metrics) RecordCall(endpoint, method string, status int) {
	if m == nil {
		return
	}
	key := callKey(endpoint, method, status)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.callCount[key]++
}

// RecordError increments error counters keyed by failure code.
func (m *Metrics) RecordError(endpoint, method, code string) {
	if m == nil {
		return
	}
	key := endpoint + "|" + method + "|" + code
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errorCount[key]++
}

// Calls returns a copy of the per-endpoint call counters.
func (m *Metrics) Calls() map[string]int64 {
	if m == nil {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]int64, len(m.callCount))
	for k, v := range m.callCount {
		out[k] = v
	}
	return out
}

// Errors returns a copy of the per-endpoint error counters.
func (m *Metrics) Errors() map[string]int64 {
	if m == nil {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]int64, len(m.errorCount))
	for k, v := range m.errorCount {
		out[k] = v
	}
	return out
}

func callKey(endpoint, method string, status int) string {
	return endpoint + "|" + method + "|" + strconv.Itoa(status)
}
