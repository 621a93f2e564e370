package stub

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/tier3tech/hectic-ai-support/internal/config"
	"github.com/tier3tech/hectic-ai-support/internal/halo"
)

// Options configures the stub tenant.
type Options struct {
	Stub         config.StubConfig
	ClientID     string
	ClientSecret string
}

// Server bundles the fiber app with its in-memory tenant so tests can
// inspect state after driving the API.
type Server struct {
	App    *fiber.App
	tenant *tenant
}

// NewServer builds the stub HaloPSA API.
func NewServer(opts Options, logger *zap.Logger) *Server {
	t := newTenant()
	issuer := newTokenIssuer(opts.Stub.JWTSecret, opts.ClientID, opts.ClientSecret, opts.Stub.TokenTTLMinutes)
	h := &handlers{tenant: t}

	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	app.Use(requestLogger(logger))

	app.Post("/auth/token", issuer.handleToken)

	api := app.Group("/api", issuer.requireBearer)
	api.Get("/tickets", h.listTickets)
	api.Get("/tickets/:id", h.getTicket)
	api.Post("/tickets", h.upsertTickets)
	api.Post("/Actions", h.addActions)
	api.Get("/status", h.listStatuses)
	api.Get("/categories", h.listCategories)

	return &Server{App: app, tenant: t}
}

// SeedTicket inserts a ticket directly into the tenant, for tests and demos.
func (s *Server) SeedTicket(summary, details string, userID int) int {
	ticket := s.tenant.createTicket(ticketUpsert{Summary: summary, Details: details, UserID: userID})
	return ticket.ID
}

// Actions returns a copy of all recorded note actions.
func (s *Server) Actions() []halo.Action {
	return s.tenant.listActions()
}

func requestLogger(logger *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		logger.Info("stub request",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Int("status", c.Response().StatusCode()),
			zap.Duration("duration", time.Since(start)))
		return err
	}
}
