package triage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/tier3tech/hectic-ai-support/internal/config"
	"github.com/tier3tech/hectic-ai-support/internal/observability"
	apperrors "github.com/tier3tech/hectic-ai-support/pkg/util"
)

const systemPrompt = "You are a helpful AI support assistant."

const userPromptTemplate = `You are an AI support assistant. Given the following IT support ticket, analyze it and determine:
- Urgency: Low, Medium, or High
- Impact: No impact, Moderate, or High impact
- Suggested Ticket Type: Incident, Service Request, or Other
- Assignment: Should it be assigned to an AI bot or a human?

Ticket Summary: %s
Ticket Details: %s

Provide the output in JSON format with keys: urgency, impact, ticket_type, assign_to, reasoning.`

// Classifier sends ticket text to a chat-completion endpoint and parses the
// structured verdict. No retry, no backoff: a failed call is a skipped ticket.
type Classifier struct {
	cfg     config.OpenAIConfig
	httpCli *http.Client
	logger  *zap.Logger
	metrics *observability.Metrics
}

// NewClassifier builds a classifier. metrics may be nil.
func NewClassifier(cfg config.OpenAIConfig, logger *zap.Logger, metrics *observability.Metrics) *Classifier {
	return &Classifier{
		cfg:     cfg,
		httpCli: &http.Client{Timeout: cfg.RequestTimeout()},
		logger:  logger,
		metrics: metrics,
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Classify analyzes one ticket's text. Inputs are truncated to the
// configured character budgets before prompting so long tickets stay inside
// the model's token limit.
func (c *Classifier) Classify(ctx context.Context, summary, details string) (*Result, error) {
	summary = Truncate(summary, c.cfg.MaxSummaryChars)
	details = Truncate(details, c.cfg.MaxDetailsChars)

	reqBody := chatRequest{
		Model: c.cfg.Model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: fmt.Sprintf(userPromptTemplate, summary, details)},
		},
		MaxTokens:   c.cfg.MaxTokens,
		Temperature: c.cfg.Temperature,
	}

	encoded, err := json.Marshal(reqBody)
	if err != nil {
		return nil, apperrors.NewClassificationError("encoding chat request", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/chat/completions", bytes.NewReader(encoded))
	if err != nil {
		return nil, apperrors.NewClassificationError("building chat request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	resp, err := c.httpCli.Do(req)
	if err != nil {
		c.metrics.RecordError("/chat/completions", http.MethodPost, apperrors.CodeClassification)
		return nil, apperrors.NewClassificationError("chat completion request failed", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	c.metrics.RecordCall("/chat/completions", http.MethodPost, resp.StatusCode)

	if resp.StatusCode != http.StatusOK {
		c.metrics.RecordError("/chat/completions", http.MethodPost, apperrors.CodeClassification)
		return nil, &apperrors.APIError{
			Code:       apperrors.CodeClassification,
			Message:    "chat completion request failed",
			HTTPStatus: resp.StatusCode,
			Body:       string(body),
		}
	}

	var chatResp chatResponse
	if err := json.Unmarshal(body, &chatResp); err != nil {
		return nil, apperrors.NewClassificationError("chat completion response was not valid JSON", err)
	}
	if len(chatResp.Choices) == 0 {
		return nil, apperrors.NewClassificationError("chat completion returned no choices", nil)
	}

	result, err := ParseResult(strings.TrimSpace(chatResp.Choices[0].Message.Content))
	if err != nil {
		return nil, err
	}

	c.logger.Debug("ticket classified",
		zap.String("urgency", result.Urgency),
		zap.String("impact", result.Impact),
		zap.String("ticket_type", result.TicketType))
	return result, nil
}

// Truncate cuts s to max characters, marking the cut with an ellipsis.
// Strings at or under the budget pass through unchanged.
func Truncate(s string, max int) string {
	if max <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}
