package stub

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/tier3tech/hectic-ai-support/internal/halo"
)

// ticketUpsert covers both creation and update payloads: HaloPSA accepts an
// array of either through the same /api/tickets endpoint, distinguished by
// the presence of an id.
type ticketUpsert struct {
	ID          *int   `json:"id"`
	Summary     string `json:"summary"`
	Details     string `json:"details"`
	UserID      int    `json:"user_id"`
	CategoryID1 int    `json:"categoryid_1"`
	CategoryID  int    `json:"category_id"`
	StatusID    *int   `json:"status_id"`
	Impact      int    `json:"impact"`
	Urgency     int    `json:"urgency"`
}

type handlers struct {
	tenant *tenant
}

func (h *handlers) listTickets(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"tickets": h.tenant.listTickets()})
}

func (h *handlers) getTicket(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid ticket id"})
	}
	ticket, ok := h.tenant.getTicket(id)
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "ticket not found"})
	}
	return c.JSON(ticket)
}

func (h *handlers) upsertTickets(c *fiber.Ctx) error {
	var reqs []ticketUpsert
	if err := c.BodyParser(&reqs); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid payload"})
	}

	result := make([]halo.Ticket, 0, len(reqs))
	for _, req := range reqs {
		if req.ID == nil {
			result = append(result, h.tenant.createTicket(req))
			continue
		}
		updated, ok := h.tenant.updateTicket(req)
		if !ok {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "ticket not found"})
		}
		result = append(result, updated)
	}
	return c.Status(fiber.StatusCreated).JSON(result)
}

func (h *handlers) addActions(c *fiber.Ctx) error {
	var actions []halo.Action
	if err := c.BodyParser(&actions); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid payload"})
	}
	for _, action := range actions {
		if _, ok := h.tenant.getTicket(action.TicketID); !ok {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "ticket not found"})
		}
	}
	h.tenant.addActions(actions)
	return c.Status(fiber.StatusCreated).JSON(actions)
}

func (h *handlers) listStatuses(c *fiber.Ctx) error {
	return c.JSON(h.tenant.statuses)
}

func (h *handlers) listCategories(c *fiber.Ctx) error {
	return c.JSON(h.tenant.catalog)
}
