// Command statuses lists the ticket status codes configured in the HaloPSA
// tenant, so the numeric codes in triage config can be audited against the
// vendor's current table.
package main

import (
	"context"
	"fmt"
	"log"

	"github.com/tier3tech/hectic-ai-support/internal/config"
	"github.com/tier3tech/hectic-ai-support/internal/halo"
	"github.com/tier3tech/hectic-ai-support/internal/observability"
)

func main() {
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

	statuses, err := client.ListStatuses(context.Background())
	if err != nil {
		log.Fatalf("failed to fetch ticket statuses: %v", err)
	}

	for _, status := range statuses {
		fmt.Printf("ID: %d, Name: %s\n", status.ID, status.Name)
	}
}
