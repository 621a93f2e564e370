package halo

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/tier3tech/hectic-ai-support/internal/config"
	"github.com/tier3tech/hectic-ai-support/internal/observability"
	apperrors "github.com/tier3tech/hectic-ai-support/pkg/util"
)

// Client talks to the HaloPSA REST API with a managed bearer token.
type Client struct {
	baseURL string
	httpCli *http.Client
	tokens  *TokenSource
	logger  *zap.Logger
	metrics *observability.Metrics
}

// NewClient builds a HaloPSA client. metrics may be nil.
func NewClient(cfg config.HaloConfig, tokens *TokenSource, logger *zap.Logger, metrics *observability.Metrics) *Client {
	return &Client{
		baseURL: cfg.BaseURL,
		httpCli: &http.Client{Timeout: cfg.RequestTimeout()},
		tokens:  tokens,
		logger:  logger,
		metrics: metrics,
	}
}

// ListTickets fetches all tickets visible to the API credentials.
func (c *Client) ListTickets(ctx context.Context) ([]Ticket, error) {
	body, err := c.do(ctx, http.MethodGet, "/api/tickets", nil)
	if err != nil {
		return nil, err
	}

	var payload struct {
		Tickets []json.RawMessage `json:"tickets"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, apperrors.NewUpstreamDecodeError("/api/tickets", err)
	}

	tickets := make([]Ticket, 0, len(payload.Tickets))
	for _, raw := range payload.Tickets {
		var t Ticket
		if err := json.Unmarshal(raw, &t); err != nil {
			return nil, apperrors.NewUpstreamDecodeError("/api/tickets", err)
		}
		t.Raw = raw
		tickets = append(tickets, t)
	}
	return tickets, nil
}

// GetTicketRaw fetches one ticket and returns the untouched vendor payload.
func (c *Client) GetTicketRaw(ctx context.Context, id int) (json.RawMessage, error) {
	return c.do(ctx, http.MethodGet, fmt.Sprintf("/api/tickets/%d", id), nil)
}

// CreateTickets creates tickets in a single batch. The endpoint accepts and
// returns an array even for one ticket.
func (c *Client) CreateTickets(ctx context.Context, tickets []TicketCreate) ([]Ticket, error) {
	body, err := c.do(ctx, http.MethodPost, "/api/tickets", tickets)
	if err != nil {
		return nil, err
	}

	var created []Ticket
	if err := json.Unmarshal(body, &created); err != nil {
		return nil, apperrors.NewUpstreamDecodeError("/api/tickets", err)
	}
	return created, nil
}

// UpdateTicket posts a status/category/severity change for one ticket. The
// vendor upserts arrays through the same endpoint used for creation.
func (c *Client) UpdateTicket(ctx context.Context, update TicketUpdate) error {
	_, err := c.do(ctx, http.MethodPost, "/api/tickets", []TicketUpdate{update})
	return err
}

// AddActions appends note records to tickets.
func (c *Client) AddActions(ctx context.Context, actions []Action) error {
	_, err := c.do(ctx, http.MethodPost, "/api/Actions", actions)
	return err
}

// ListStatuses fetches the ticket status code table.
func (c *Client) ListStatuses(ctx context.Context) ([]Status, error) {
	body, err := c.do(ctx, http.MethodGet, "/api/status?type=ticket", nil)
	if err != nil {
		return nil, err
	}

	var statuses []Status
	if err := json.Unmarshal(body, &statuses); err != nil {
		return nil, apperrors.NewUpstreamDecodeError("/api/status", err)
	}
	return statuses, nil
}

// ListCategories fetches the category table as a display-name to id map.
func (c *Client) ListCategories(ctx context.Context) (map[string]int, error) {
	body, err := c.do(ctx, http.MethodGet, "/api/categories?showall=true&type_id=1", nil)
	if err != nil {
		return nil, err
	}

	var categories []Category
	if err := json.Unmarshal(body, &categories); err != nil {
		return nil, apperrors.NewUpstreamDecodeError("/api/categories", err)
	}

	index := make(map[string]int, len(categories))
	for _, cat := range categories {
		index[cat.Name] = cat.ID
	}
	return index, nil
}

func (c *Client) do(ctx context.Context, method, path string, payload any) ([]byte, error) {
	token, err := c.tokens.Token(ctx)
	if err != nil {
		return nil, err
	}

	var reqBody io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpCli.Do(req)
	if err != nil {
		c.metrics.RecordError(path, method, apperrors.CodeUpstream)
		return nil, &apperrors.APIError{Code: apperrors.CodeUpstream, Message: fmt.Sprintf("%s request failed", path), Err: err}
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	c.metrics.RecordCall(path, method, resp.StatusCode)

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		c.metrics.RecordError(path, method, apperrors.CodeUpstream)
		c.logger.Warn("halo request failed",
			zap.String("endpoint", path),
			zap.String("method", method),
			zap.Int("status", resp.StatusCode))
		return nil, apperrors.NewUpstreamError(path, resp.StatusCode, string(body))
	}
	return body, nil
}
