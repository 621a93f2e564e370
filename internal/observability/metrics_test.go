package observability

import "testing"

func TestMetrics_RecordCall(t *testing.T) {
	m := NewMetrics()
	m.RecordCall("/api/tickets", "GET", 200)
	m.RecordCall("/api/tickets", "GET", 200)
	m.RecordCall("/api/Actions", "POST", 201)

	calls := m.Calls()
	if calls["/api/tickets|GET|200"] != 2 {
		t.Errorf("unexpected ticket call count: %v", calls)
	}
	if calls["/api/Actions|POST|201"] != 1 {
		t.Errorf("unexpected action call count: %v", calls)
	}
}

func TestMetrics_RecordError(t *testing.T) {
	m := NewMetrics()
	m.RecordError("/api/tickets", "GET", "UPSTREAM_FAILED")

	errs := m.Errors()
	if errs["/api/tickets|GET|UPSTREAM_FAILED"] != 1 {
		t.Errorf("unexpected error counters: %v", errs)
	}
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics
	m.RecordCall("/api/tickets", "GET", 200)
	m.RecordError("/api/tickets", "GET", "UPSTREAM_FAILED")
	if m.Calls() != nil || m.Errors() != nil {
		t.Error("expected nil snapshots from nil metrics")
	}
}
