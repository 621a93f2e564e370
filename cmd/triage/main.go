// Command triage runs one ticket triage batch: fetch new HaloPSA tickets,
// classify each with the LLM, and write status changes and private notes
// back to the helpdesk.
package main

import (
	"context"
	"log"
	"os"

	"go.uber.org/zap"

	"github.com/tier3tech/hectic-ai-support/internal/config"
	"github.com/tier3tech/hectic-ai-support/internal/events"
	"github.com/tier3tech/hectic-ai-support/internal/halo"
	"github.com/tier3tech/hectic-ai-support/internal/notify"
	"github.com/tier3tech/hectic-ai-support/internal/observability"
	"github.com/tier3tech/hectic-ai-support/internal/pipeline"
	"github.com/tier3tech/hectic-ai-support/internal/store"
	"github.com/tier3tech/hectic-ai-support/internal/triage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}
	if cfg.OpenAI.APIKey == "" {
		log.Fatal("OPENAI_API_KEY must be set")
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx := context.Background()
	metrics := observability.NewMetrics()

	archive := store.NewTicketArchive(cfg.Redis, logger)
	defer archive.Close()

	tokens := halo.NewTokenSource(cfg.Halo, logger)
	client := halo.NewClient(cfg.Halo, tokens, logger, metrics)
	classifier := triage.NewClassifier(cfg.OpenAI, logger, metrics)

	dispatcher := events.NewInMemoryDispatcher()
	notifier := notify.NewNotifier(dispatcher, logger, cfg.Notification)
	notifier.RegisterHandlers()

	logger.Info("starting AI ticket triage", zap.String("env", cfg.App.Env), zap.String("version", cfg.App.Version))

	p := pipeline.New(client, archive, classifier, dispatcher, logger, cfg.Halo)
	outcomes, err := p.Run(ctx)
	if err != nil {
		logger.Error("triage run failed", zap.Error(err))
		os.Exit(1)
	}

	succeeded := 0
	for _, outcome := range outcomes {
		if outcome.StatusUpdated && outcome.NoteAdded {
			succeeded++
		}
	}
	logger.Info("triage workflow complete",
		zap.Int("processed", len(outcomes)),
		zap.Int("succeeded", succeeded),
		zap.Any("upstream_calls", metrics.Calls()),
		zap.Any("upstream_errors", metrics.Errors()))
}
