package store

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/tier3tech/hectic-ai-support/internal/config"
	"github.com/tier3tech/hectic-ai-support/internal/halo"
)

// ArchivedTicket is the write-once record kept for every ingested ticket:
// the identifier, the complete vendor metadata, and a synthesized text blob.
// Records are never updated or deleted.
type ArchivedTicket struct {
	ID       string          `json:"id"`
	Metadata json.RawMessage `json:"metadata"`
	Document string          `json:"document"`
}

// TicketArchive stores ingested tickets in redis, keyed by ticket id.
// It is an audit trail, not a processing gate: callers log archive failures
// and keep going.
type TicketArchive struct {
	client *redis.Client
	prefix string
	logger *zap.Logger
}

// NewTicketArchive connects to redis using the provided configuration.
func NewTicketArchive(cfg config.RedisConfig, logger *zap.Logger) *TicketArchive {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		logger.Warn("unable to reach redis", zap.Error(err))
	} else {
		logger.Info("connected to redis")
	}

	return &TicketArchive{client: client, prefix: cfg.KeyPrefix, logger: logger}
}

// InsertIfAbsent stores the record unless one already exists for the same
// ticket id. Returns true when a new record was written. SETNX makes the
// existence check and the insert a single operation, so concurrent ingest
// runs cannot double-insert.
func (a *TicketArchive) InsertIfAbsent(ctx context.Context, rec ArchivedTicket) (bool, error) {
	if rec.ID == "" {
		return false, fmt.Errorf("archive record missing ticket id")
	}

	value, err := json.Marshal(rec)
	if err != nil {
		return false, err
	}

	inserted, err := a.client.SetNX(ctx, a.prefix+rec.ID, value, 0).Result()
	if err != nil {
		return false, err
	}
	return inserted, nil
}

// Get returns the stored record for a ticket id, or nil when absent.
func (a *TicketArchive) Get(ctx context.Context, id string) (*ArchivedTicket, error) {
	data, err := a.client.Get(ctx, a.prefix+id).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var rec ArchivedTicket
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

// Close closes the client.
func (a *TicketArchive) Close() {
	if a != nil && a.client != nil {
		_ = a.client.Close()
	}
}

// Record builds the archive record for a fetched ticket.
func Record(t halo.Ticket) ArchivedTicket {
	return ArchivedTicket{
		ID:       strconv.Itoa(t.ID),
		Metadata: t.Raw,
		Document: Document(t.Summary, t.Details),
	}
}

// Document synthesizes the text blob stored alongside ticket metadata.
func Document(summary, details string) string {
	if summary == "" {
		summary = "No Summary"
	}
	if details == "" {
		details = "No Details"
	}
	return fmt.Sprintf("Summary: %s\nDetails: %s", summary, details)
}
