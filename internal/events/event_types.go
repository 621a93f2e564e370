package events

import "time"

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketIngested EventType = "ticket_ingested"
	EventTicketTriaged  EventType = "ticket_triaged"
	EventTriageFailed   EventType = "triage_failed"
)

// Event represents a workflow event emitted by the pipeline.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	TicketID  int         `json:"ticket_id"`
	RunID     string      `json:"run_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// TicketIngestedPayload payload.
type TicketIngestedPayload struct {
	Summary  string `json:"summary"`
	StatusID int    `json:"status_id"`
	Archived bool   `json:"archived"`
}

// TicketTriagedPayload payload.
type TicketTriagedPayload struct {
	Urgency    string `json:"urgency"`
	Impact     string `json:"impact"`
	TicketType string `json:"ticket_type"`
	CategoryID int    `json:"category_id"`
	AgentID    int    `json:"agent_id"`
	NoteAdded  bool   `json:"note_added"`
}

// TriageFailedPayload payload. Stage names which step gave up: classify,
// category, status_update, or note.
type TriageFailedPayload struct {
	Stage  string `json:"stage"`
	Reason string `json:"reason"`
}
