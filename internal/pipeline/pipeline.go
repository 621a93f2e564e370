// Package pipeline runs one triage batch: ingest new tickets, classify each
// with the LLM, and write the verdict back to the helpdesk.
package pipeline

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tier3tech/hectic-ai-support/internal/category"
	"github.com/tier3tech/hectic-ai-support/internal/config"
	"github.com/tier3tech/hectic-ai-support/internal/events"
	"github.com/tier3tech/hectic-ai-support/internal/halo"
	"github.com/tier3tech/hectic-ai-support/internal/store"
	"github.com/tier3tech/hectic-ai-support/internal/triage"
	apperrors "github.com/tier3tech/hectic-ai-support/pkg/util"
)

const noteActor = "AI Support Bot"

// TicketAPI is the helpdesk surface the pipeline needs.
type TicketAPI interface {
	ListTickets(ctx context.Context) ([]halo.Ticket, error)
	UpdateTicket(ctx context.Context, update halo.TicketUpdate) error
	AddActions(ctx context.Context, actions []halo.Action) error
	ListCategories(ctx context.Context) (map[string]int, error)
}

// Archive is the keyed insert-if-absent ticket store.
type Archive interface {
	InsertIfAbsent(ctx context.Context, rec store.ArchivedTicket) (bool, error)
}

// Classifier produces a triage verdict for ticket text.
type Classifier interface {
	Classify(ctx context.Context, summary, details string) (*triage.Result, error)
}

// Outcome reports what happened to one ticket. Both write-back steps are
// surfaced: a ticket can end up with its status moved but no note attached,
// and the caller gets to see that.
type Outcome struct {
	TicketID      int
	StatusUpdated bool
	NoteAdded     bool
	Err           error
}

// Pipeline wires the triage workflow's dependencies.
type Pipeline struct {
	api        TicketAPI
	archive    Archive
	classifier Classifier
	dispatcher events.Dispatcher
	logger     *zap.Logger
	cfg        config.HaloConfig
	now        func() time.Time
	runID      string
}

// New constructs a pipeline. dispatcher may be nil when no observers exist.
func New(api TicketAPI, archive Archive, classifier Classifier, dispatcher events.Dispatcher, logger *zap.Logger, cfg config.HaloConfig) *Pipeline {
	return &Pipeline{
		api:        api,
		archive:    archive,
		classifier: classifier,
		dispatcher: dispatcher,
		logger:     logger,
		cfg:        cfg,
		now:        time.Now,
		runID:      uuid.NewString(),
	}
}

// WithClock overrides the time source for tests.
func (p *Pipeline) WithClock(now func() time.Time) *Pipeline {
	p.now = now
	return p
}

// Run executes one full batch and returns per-ticket outcomes.
func (p *Pipeline) Run(ctx context.Context) ([]Outcome, error) {
	tickets, err := p.FetchNewTickets(ctx)
	if err != nil {
		return nil, err
	}
	return p.ProcessTickets(ctx, tickets)
}

// FetchNewTickets lists upstream tickets, keeps the "New" ones, and archives
// each not-yet-seen ticket. An upstream failure ends the run gracefully with
// an empty list; callers treat empty as nothing to do. Archiving is an audit
// side effect and never gates processing.
func (p *Pipeline) FetchNewTickets(ctx context.Context) ([]halo.Ticket, error) {
	tickets, err := p.api.ListTickets(ctx)
	if err != nil {
		if apperrors.IsAuthError(err) {
			return nil, err
		}
		p.logger.Error("failed to fetch tickets", zap.Error(err))
		return nil, nil
	}

	fresh := make([]halo.Ticket, 0, len(tickets))
	for _, t := range tickets {
		if t.StatusID != p.cfg.StatusNew {
			continue
		}
		fresh = append(fresh, t)

		archived, err := p.archive.InsertIfAbsent(ctx, store.Record(t))
		if err != nil {
			p.logger.Warn("failed to archive ticket", zap.Int("ticket_id", t.ID), zap.Error(err))
		} else if !archived {
			p.logger.Debug("ticket already archived", zap.Int("ticket_id", t.ID))
		}

		p.publish(ctx, events.EventTicketIngested, t.ID, events.TicketIngestedPayload{
			Summary:  t.Summary,
			StatusID: t.StatusID,
			Archived: err == nil && archived,
		})
	}

	p.logger.Info("retrieved new tickets for processing", zap.Int("count", len(fresh)))
	return fresh, nil
}

// ProcessTickets classifies and writes back each ticket in order. A failed
// classification or write-back skips that ticket only; the batch continues.
// An auth failure is fatal: the batch aborts immediately, returning the
// outcomes accumulated so far together with the error.
func (p *Pipeline) ProcessTickets(ctx context.Context, tickets []halo.Ticket) ([]Outcome, error) {
	if len(tickets) == 0 {
		p.logger.Info("no new tickets to process")
		return nil, nil
	}

	p.logger.Info("processing tickets", zap.Int("count", len(tickets)), zap.String("run_id", p.runID))

	outcomes := make([]Outcome, 0, len(tickets))
	for _, t := range tickets {
		outcome := p.processOne(ctx, t)
		outcomes = append(outcomes, outcome)

		if apperrors.IsAuthError(outcome.Err) {
			p.logger.Error("authentication failed, aborting batch",
				zap.Int("ticket_id", t.ID),
				zap.Int("processed", len(outcomes)),
				zap.Error(outcome.Err))
			return outcomes, outcome.Err
		}
		if outcome.Err != nil {
			p.logger.Warn("ticket skipped",
				zap.Int("ticket_id", t.ID),
				zap.Bool("status_updated", outcome.StatusUpdated),
				zap.Error(outcome.Err))
		}
	}

	p.logger.Info("triage batch complete", zap.Int("count", len(outcomes)))
	return outcomes, nil
}

func (p *Pipeline) processOne(ctx context.Context, t halo.Ticket) Outcome {
	outcome := Outcome{TicketID: t.ID}

	result, err := p.classifier.Classify(ctx, t.Summary, t.Details)
	if err != nil {
		outcome.Err = err
		p.publish(ctx, events.EventTriageFailed, t.ID, events.TriageFailedPayload{Stage: "classify", Reason: err.Error()})
		return outcome
	}

	categoryID, err := p.matchCategory(ctx, t.Summary)
	if err != nil {
		outcome.Err = err
		p.publish(ctx, events.EventTriageFailed, t.ID, events.TriageFailedPayload{Stage: "category", Reason: err.Error()})
		return outcome
	}

	update := halo.TicketUpdate{
		ID:         t.ID,
		StatusID:   p.cfg.StatusInProgress,
		CategoryID: categoryID,
		Urgency:    triage.UrgencyCode(result.Urgency),
		Impact:     triage.ImpactCode(result.Impact),
	}
	if err := p.api.UpdateTicket(ctx, update); err != nil {
		// Status move failed: leave the ticket untouched, no note.
		outcome.Err = err
		p.publish(ctx, events.EventTriageFailed, t.ID, events.TriageFailedPayload{Stage: "status_update", Reason: err.Error()})
		return outcome
	}
	outcome.StatusUpdated = true

	agentID := coerceAgentID(result.AssignTo, p.cfg.DefaultAgentID)
	if err := p.api.AddActions(ctx, []halo.Action{p.noteAction(t.ID, agentID, result.Reasoning)}); err != nil {
		// Status moved but the note did not land. No compensation; the
		// outcome records the inconsistency for manual follow-up.
		outcome.Err = err
		p.publish(ctx, events.EventTriageFailed, t.ID, events.TriageFailedPayload{Stage: "note", Reason: err.Error()})
		return outcome
	}
	outcome.NoteAdded = true

	p.publish(ctx, events.EventTicketTriaged, t.ID, events.TicketTriagedPayload{
		Urgency:    result.Urgency,
		Impact:     result.Impact,
		TicketType: result.TicketType,
		CategoryID: categoryID,
		AgentID:    agentID,
		NoteAdded:  true,
	})
	return outcome
}

// matchCategory refetches the category table and fuzzy-matches the summary.
// The table is deliberately not cached across tickets. An upstream failure
// falls back to the default category; an auth failure propagates, since a
// rejected token will not recover mid-batch.
func (p *Pipeline) matchCategory(ctx context.Context, summary string) (int, error) {
	categories, err := p.api.ListCategories(ctx)
	if err != nil {
		if apperrors.IsAuthError(err) {
			return 0, err
		}
		p.logger.Warn("failed to fetch categories", zap.Error(err))
		return p.cfg.DefaultCategoryID, nil
	}
	return category.Best(summary, categories, p.cfg.CategoryMatchCutoff, p.cfg.DefaultCategoryID), nil
}

func (p *Pipeline) noteAction(ticketID, agentID int, reasoning string) halo.Action {
	timestamp := p.now().UTC().Format(time.RFC3339)
	return halo.Action{
		TicketID:             ticketID,
		Outcome:              p.cfg.NoteOutcome,
		Who:                  noteActor,
		WhoType:              1,
		WhoAgentID:           agentID,
		DateTime:             timestamp,
		Note:                 "AI Analysis:\n" + reasoning + "\n\n(Ticket updated by AI.)",
		Visibility:           "private",
		ActionByAgentID:      agentID,
		ActionDateCreated:    timestamp,
		ActionCompletionDate: timestamp,
		ActionArrivalDate:    timestamp,
	}
}

func (p *Pipeline) publish(ctx context.Context, eventType events.EventType, ticketID int, payload any) {
	if p.dispatcher == nil {
		return
	}
	_ = p.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		TicketID:  ticketID,
		RunID:     p.runID,
		Timestamp: p.now(),
		Payload:   payload,
	})
}

// coerceAgentID turns the classifier's assignee into an agent id, falling
// back to the configured bot agent when the value is not numeric
// (the model frequently answers "AI bot" or "human").
func coerceAgentID(assignTo string, fallback int) int {
	id, err := strconv.Atoi(strings.TrimSpace(assignTo))
	if err != nil {
		return fallback
	}
	return id
}
