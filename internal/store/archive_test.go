package store

import (
	"encoding/json"
	"testing"

	"github.com/tier3tech/hectic-ai-support/internal/halo"
)

func TestDocument(t *testing.T) {
	cases := []struct {
		name             string
		summary, details string
		want             string
	}{
		{"both present", "VPN drops", "disconnects", "Summary: VPN drops\nDetails: disconnects"},
		{"missing summary", "", "disconnects", "Summary: No Summary\nDetails: disconnects"},
		{"missing details", "VPN drops", "", "Summary: VPN drops\nDetails: No Details"},
		{"both missing", "", "", "Summary: No Summary\nDetails: No Details"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Document(tc.summary, tc.details); got != tc.want {
				t.Errorf("Document(%q, %q) = %q, want %q", tc.summary, tc.details, got, tc.want)
			}
		})
	}
}

func TestRecord(t *testing.T) {
	raw := json.RawMessage(`{"id":42,"summary":"VPN drops","details":"disconnects","status_id":1,"client_name":"Acme"}`)
	ticket := halo.Ticket{ID: 42, Summary: "VPN drops", Details: "disconnects", StatusID: 1, Raw: raw}

	rec := Record(ticket)
	if rec.ID != "42" {
		t.Errorf("expected string id \"42\", got %q", rec.ID)
	}
	if rec.Document != "Summary: VPN drops\nDetails: disconnects" {
		t.Errorf("unexpected document: %q", rec.Document)
	}
	if string(rec.Metadata) != string(raw) {
		t.Error("expected the full vendor payload preserved as metadata")
	}
}
