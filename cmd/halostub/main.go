// Command halostub serves a local in-memory stand-in for the HaloPSA API.
// Point HALO_BASE_URL at it to rehearse the triage tools end to end without
// vendor credentials or a live tenant.
package main

import (
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/tier3tech/hectic-ai-support/internal/config"
	"github.com/tier3tech/hectic-ai-support/internal/observability"
	"github.com/tier3tech/hectic-ai-support/internal/stub"
)

func main() {
	addr := pflag.String("addr", "", "listen address (overrides HALOSTUB_ADDR)")
	seed := pflag.Int("seed-tickets", 0, "number of sample tickets to seed at startup")
	pflag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	listenAddr := cfg.Stub.Addr
	if *addr != "" {
		listenAddr = *addr
	}

	// The stub accepts whatever client credentials the triage tools are
	// configured with. The local dev pair is only available when APP_ENV is
	// development; anywhere else the credentials must come from the env.
	clientID, clientSecret, err := stubCredentials(cfg.App.Env, cfg.Halo.ClientID, cfg.Halo.ClientSecret)
	if err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	server := stub.NewServer(stub.Options{
		Stub:         cfg.Stub,
		ClientID:     clientID,
		ClientSecret: clientSecret,
	}, logger)

	for i := 0; i < *seed; i++ {
		id := server.SeedTicket("VPN drops intermittently", "User reports the corporate VPN disconnects every few minutes.", cfg.Halo.DefaultUserID)
		logger.Info("seeded ticket", zap.Int("ticket_id", id))
	}

	go func() {
		if err := server.App.Listen(listenAddr); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	logger.Info("halostub listening", zap.String("addr", listenAddr), zap.String("client_id", clientID))

	waitForShutdown(logger)

	_ = server.App.Shutdown()
}

func stubCredentials(env, clientID, clientSecret string) (string, string, error) {
	if clientID != "" && clientSecret != "" {
		return clientID, clientSecret, nil
	}
	if env != "development" {
		return "", "", errors.New("HALO_CLIENT_ID and HALO_CLIENT_SECRET must be set outside development")
	}
	if clientID == "" {
		clientID = "local-dev"
	}
	if clientSecret == "" {
		clientSecret = "local-dev-secret"
	}
	return clientID, clientSecret, nil
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
