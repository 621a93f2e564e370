// Command ticketgen creates randomized test tickets in HaloPSA. It replaces
// two near-identical generator scripts with one tool: by default every ticket
// gets the fixed category/impact/urgency the tenant's smoke tests expect, and
// --randomize spreads tickets across categories with random severities.
package main

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/tier3tech/hectic-ai-support/internal/config"
	"github.com/tier3tech/hectic-ai-support/internal/halo"
	"github.com/tier3tech/hectic-ai-support/internal/observability"
)

var ticketTitles = []string{
	"System is slow", "Printer not working", "Cannot access VPN",
	"Email issues", "WiFi keeps disconnecting", "Software installation request",
	"Security warning popup", "Laptop screen flickering", "Can't log into application",
	"Missing network drive",
}

var ticketDetails = []string{
	"User reports performance issues across applications.",
	"Printer is not responding even after rebooting.",
	"User is unable to connect to the corporate VPN.",
	"Emails are bouncing back for external recipients.",
	"WiFi randomly drops, affecting user productivity.",
	"Request to install software for finance team.",
	"Security alert popup appearing on login.",
	"Screen flickers when adjusting brightness.",
	"User unable to log into company portal.",
	"Shared drive is missing from file explorer.",
}

// Category ids present in the tenant; only used with --randomize.
var randomCategories = []int{137, 155, 162}

const (
	fixedImpact  = 2
	fixedUrgency = 3
)

func main() {
	count := pflag.Int("count", 5, "number of test tickets to create")
	randomize := pflag.Bool("randomize", false, "randomize category, impact, and urgency per ticket")
	delay := pflag.Duration("delay", time.Second, "pause between creations to avoid rate limiting")
	pflag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	tokens := halo.NewTokenSource(cfg.Halo, logger)
	client := halo.NewClient(cfg.Halo, tokens, logger, nil)

	logger.Info("creating test tickets", zap.Int("count", *count), zap.Bool("randomize", *randomize))

	ctx := context.Background()
	created := 0
	for i := 0; i < *count; i++ {
		ticket := buildTicket(cfg.Halo, *randomize)
		result, err := client.CreateTickets(ctx, []halo.TicketCreate{ticket})
		if err != nil {
			logger.Error("failed to create test ticket", zap.String("summary", ticket.Summary), zap.Error(err))
			continue
		}
		if len(result) == 0 {
			logger.Warn("ticket creation response was empty", zap.String("summary", ticket.Summary))
			continue
		}
		created++
		logger.Info("created test ticket", zap.Int("ticket_id", result[0].ID), zap.String("summary", ticket.Summary))

		if i < *count-1 && *delay > 0 {
			time.Sleep(*delay)
		}
	}

	logger.Info("test ticket generation complete", zap.Int("created", created))
}

func buildTicket(cfg config.HaloConfig, randomize bool) halo.TicketCreate {
	// The marker suffix keeps generated tickets distinguishable when several
	// batches pile up in the same tenant.
	marker := uuid.NewString()[:8]
	ticket := halo.TicketCreate{
		Summary:    fmt.Sprintf("TEST - %s [%s]", ticketTitles[rand.Intn(len(ticketTitles))], marker),
		Details:    ticketDetails[rand.Intn(len(ticketDetails))],
		UserID:     cfg.DefaultUserID,
		CategoryID: cfg.DefaultCategoryID,
		Impact:     fixedImpact,
		Urgency:    fixedUrgency,
	}
	if randomize {
		ticket.CategoryID = randomCategories[rand.Intn(len(randomCategories))]
		ticket.Impact = rand.Intn(3) + 1
		ticket.Urgency = rand.Intn(3) + 1
	}
	return ticket
}
