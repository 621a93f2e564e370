package util

import (
	"errors"
	"fmt"
)

// Error codes classify which part of the workflow failed and how fatal the
// failure is for the current run.
const (
	// CodeAuth: the identity provider rejected the token request. Fatal for
	// the run; callers must not retry automatically.
	CodeAuth = "AUTH_FAILED"
	// CodeUpstream: a helpdesk endpoint returned non-2xx or an undecodable
	// body. Ingestion treats this as "nothing to do"; write-back treats it
	// as skip-this-ticket.
	CodeUpstream = "UPSTREAM_FAILED"
	// CodeClassification: the LLM call failed, returned invalid JSON, or a
	// required field was absent. Skip the ticket, continue the batch.
	CodeClassification = "CLASSIFICATION_FAILED"
)

// APIError standardizes failures from either vendor API.
type APIError struct {
	Code       string
	Message    string
	HTTPStatus int
	Body       string
	Err        error
}

func (e *APIError) Error() string {
	if e.HTTPStatus != 0 {
		return fmt.Sprintf("%s (status %d): %s", e.Message, e.HTTPStatus, truncateBody(e.Body))
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// NewAuthError reports a failed token request.
func NewAuthError(status int, body string) error {
	return &APIError{
		Code:       CodeAuth,
		Message:    "failed to retrieve access token",
		HTTPStatus: status,
		Body:       body,
	}
}

// NewUpstreamError reports a failed helpdesk call.
func NewUpstreamError(endpoint string, status int, body string) error {
	return &APIError{
		Code:       CodeUpstream,
		Message:    fmt.Sprintf("%s request failed", endpoint),
		HTTPStatus: status,
		Body:       body,
	}
}

// NewUpstreamDecodeError reports an undecodable helpdesk response body.
func NewUpstreamDecodeError(endpoint string, err error) error {
	return &APIError{
		Code:    CodeUpstream,
		Message: fmt.Sprintf("%s response was not valid JSON", endpoint),
		Err:     err,
	}
}

// NewClassificationError reports a failed or unusable LLM response.
func NewClassificationError(message string, err error) error {
	return &APIError{
		Code:    CodeClassification,
		Message: message,
		Err:     err,
	}
}

// ToAPIError converts generic errors to APIError.
func ToAPIError(err error) *APIError {
	if err == nil {
		return nil
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}
	return &APIError{Code: CodeUpstream, Message: "unexpected error", Err: err}
}

// IsAuthError reports whether err is fatal for the run.
func IsAuthError(err error) bool {
	return hasCode(err, CodeAuth)
}

// IsUpstreamError reports whether err came from a helpdesk endpoint.
func IsUpstreamError(err error) bool {
	return hasCode(err, CodeUpstream)
}

// IsClassificationError reports whether err came from the LLM boundary.
func IsClassificationError(err error) bool {
	return hasCode(err, CodeClassification)
}

func hasCode(err error, code string) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Code == code
}

func truncateBody(body string) string {
	const max = 512
	if len(body) > max {
		return body[:max] + "..."
	}
	return body
}
