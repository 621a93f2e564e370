package halo

import "encoding/json"

// Ticket is the subset of a HaloPSA ticket this system reads. Raw preserves
// the complete vendor payload for archival.
type Ticket struct {
	ID         int    `json:"id"`
	Summary    string `json:"summary"`
	Details    string `json:"details"`
	StatusID   int    `json:"status_id"`
	CategoryID int    `json:"category_id"`
	Urgency    int    `json:"urgency"`
	Impact     int    `json:"impact"`
	UserID     int    `json:"user_id"`

	Raw json.RawMessage `json:"-"`
}

// TicketCreate is the payload for creating a ticket. Field names are a
// vendor contract; categoryid_1 in particular is not a typo.
type TicketCreate struct {
	Summary    string `json:"summary"`
	Details    string `json:"details"`
	UserID     int    `json:"user_id"`
	CategoryID int    `json:"categoryid_1"`
	Impact     int    `json:"impact"`
	Urgency    int    `json:"urgency"`
}

// TicketUpdate moves a ticket's lifecycle fields. HaloPSA upserts through
// the same /api/tickets endpoint used for creation, always as an array.
type TicketUpdate struct {
	ID         int `json:"id"`
	StatusID   int `json:"status_id"`
	CategoryID int `json:"category_id,omitempty"`
	Urgency    int `json:"urgency,omitempty"`
	Impact     int `json:"impact,omitempty"`
}

// Action is a note record attached to a ticket. Every field name below is
// part of the vendor wire contract and must be preserved bit-exact.
type Action struct {
	TicketID             int    `json:"ticket_id"`
	Outcome              string `json:"outcome"`
	Who                  string `json:"who"`
	WhoType              int    `json:"who_type"`
	WhoAgentID           int    `json:"who_agentid"`
	DateTime             string `json:"datetime"`
	Note                 string `json:"note"`
	Visibility           string `json:"visibility"`
	ActionByAgentID      int    `json:"actionby_agent_id"`
	ActionDateCreated    string `json:"actiondatecreated"`
	ActionCompletionDate string `json:"actioncompletiondate"`
	ActionArrivalDate    string `json:"actionarrivaldate"`
}

// Status is one entry from the ticket status list.
type Status struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Category is one entry from the category list.
type Category struct {
	Name string `json:"name"`
	ID   int    `json:"id"`
}
