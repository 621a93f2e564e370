// Package stub implements a local in-memory stand-in for the HaloPSA API:
// the token endpoint, tickets, actions, statuses, and categories. It exists
// so the triage tools can be exercised end to end without vendor credentials.
package stub

import (
	"sync"

	"github.com/tier3tech/hectic-ai-support/internal/halo"
)

// tenant is the in-memory state behind the stub endpoints. All access is
// serialized through mu; the stub favors simplicity over throughput.
type tenant struct {
	mu       sync.Mutex
	nextID   int
	tickets  map[int]*halo.Ticket
	actions  []halo.Action
	statuses []halo.Status
	catalog  []halo.Category
}

func newTenant() *tenant {
	return &tenant{
		nextID:  1000,
		tickets: make(map[int]*halo.Ticket),
		statuses: []halo.Status{
			{ID: 1, Name: "New"},
			{ID: 2, Name: "In Progress"},
			{ID: 3, Name: "On Hold"},
			{ID: 9, Name: "Closed"},
		},
		catalog: []halo.Category{
			{Name: "Hardware", ID: 137},
			{Name: "Software", ID: 155},
			{Name: "Networking", ID: 162},
		},
	}
}

func (t *tenant) createTicket(req ticketUpsert) halo.Ticket {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.nextID++
	ticket := halo.Ticket{
		ID:         t.nextID,
		Summary:    req.Summary,
		Details:    req.Details,
		StatusID:   1,
		CategoryID: req.CategoryID1,
		Urgency:    req.Urgency,
		Impact:     req.Impact,
		UserID:     req.UserID,
	}
	t.tickets[ticket.ID] = &ticket
	return ticket
}

func (t *tenant) updateTicket(req ticketUpsert) (halo.Ticket, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	ticket, ok := t.tickets[*req.ID]
	if !ok {
		return halo.Ticket{}, false
	}
	if req.StatusID != nil {
		ticket.StatusID = *req.StatusID
	}
	if req.CategoryID != 0 {
		ticket.CategoryID = req.CategoryID
	}
	if req.Urgency != 0 {
		ticket.Urgency = req.Urgency
	}
	if req.Impact != 0 {
		ticket.Impact = req.Impact
	}
	return *ticket, true
}

func (t *tenant) getTicket(id int) (halo.Ticket, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	ticket, ok := t.tickets[id]
	if !ok {
		return halo.Ticket{}, false
	}
	return *ticket, true
}

func (t *tenant) listTickets() []halo.Ticket {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make([]halo.Ticket, 0, len(t.tickets))
	for _, ticket := range t.tickets {
		out = append(out, *ticket)
	}
	return out
}

func (t *tenant) addActions(actions []halo.Action) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.actions = append(t.actions, actions...)
}

func (t *tenant) listActions() []halo.Action {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]halo.Action{}, t.actions...)
}
