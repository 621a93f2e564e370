// Command ticketdump fetches a single HaloPSA ticket and prints its raw
// vendor JSON. Debug tool for inspecting field shapes the vendor actually
// sends.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/spf13/pflag"

	"github.com/tier3tech/hectic-ai-support/internal/config"
	"github.com/tier3tech/hectic-ai-support/internal/halo"
	"github.com/tier3tech/hectic-ai-support/internal/observability"
)

func main() {
	ticketID := pflag.Int("ticket", 0, "ticket id to fetch")
	pflag.Parse()

	if *ticketID <= 0 {
		fmt.Fprintln(os.Stderr, "usage: ticketdump --ticket <id>")
		os.Exit(2)
	}

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

	raw, err := client.GetTicketRaw(context.Background(), *ticketID)
	if err != nil {
		log.Fatalf("failed to fetch ticket %d: %v", *ticketID, err)
	}

	var pretty bytes.Buffer
	if err := json.Indent(&pretty, raw, "", "    "); err != nil {
		// Not JSON after all; dump verbatim.
		fmt.Println(string(raw))
		return
	}
	fmt.Println(pretty.String())
}
