package triage

import (
	"encoding/json"
	"fmt"
	"strings"

	apperrors "github.com/tier3tech/hectic-ai-support/pkg/util"
)

// Result is the classifier's verdict for one ticket. Produced once, consumed
// exactly once by the write-back step.
type Result struct {
	Urgency    string
	Impact     string
	TicketType string
	AssignTo   string
	Reasoning  string
}

// Vendor numeric codes for the urgency and impact enums. Any value the model
// returns outside these tables maps to the middle code.
var (
	urgencyCodes = map[string]int{
		"Low":    1,
		"Medium": 2,
		"High":   3,
	}
	impactCodes = map[string]int{
		"No impact":   1,
		"Moderate":    2,
		"High impact": 3,
	}
)

const fallbackSeverityCode = 2

// UrgencyCode maps the urgency enum to the helpdesk's numeric code.
func UrgencyCode(urgency string) int {
	if code, ok := urgencyCodes[urgency]; ok {
		return code
	}
	return fallbackSeverityCode
}

// ImpactCode maps the impact enum to the helpdesk's numeric code.
func ImpactCode(impact string) int {
	if code, ok := impactCodes[impact]; ok {
		return code
	}
	return fallbackSeverityCode
}

var requiredFields = []string{"urgency", "impact", "ticket_type", "assign_to", "reasoning"}

// ParseResult validates and decodes the model's JSON output. Missing fields
// and non-object payloads are classification errors: the caller skips the
// ticket and continues the batch.
func ParseResult(content string) (*Result, error) {
	content = stripCodeFence(strings.TrimSpace(content))

	var fields map[string]any
	if err := json.Unmarshal([]byte(content), &fields); err != nil {
		return nil, apperrors.NewClassificationError("model output was not valid JSON", err)
	}

	for _, name := range requiredFields {
		if _, ok := fields[name]; !ok {
			return nil, apperrors.NewClassificationError(fmt.Sprintf("model output missing field %q", name), nil)
		}
	}

	return &Result{
		Urgency:    fieldString(fields["urgency"]),
		Impact:     fieldString(fields["impact"]),
		TicketType: fieldString(fields["ticket_type"]),
		AssignTo:   fieldString(fields["assign_to"]),
		Reasoning:  fieldString(fields["reasoning"]),
	}, nil
}

// fieldString renders a decoded JSON value as text. assign_to in particular
// arrives as either a string or a bare number depending on the model's mood.
func fieldString(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case float64:
		if val == float64(int64(val)) {
			return fmt.Sprintf("%d", int64(val))
		}
		return fmt.Sprintf("%v", val)
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", val)
	}
}

// stripCodeFence removes a markdown ```json fence when the model wraps its
// output in one.
func stripCodeFence(s string) string {
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
