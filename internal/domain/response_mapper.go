package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/mark3labs/mcp-go/mcp"
)

// ToResult serializes a projection into a single text block.
// A nil value renders as an empty JSON object.
func ToResult(value interface{}) (*mcp.CallToolResult, error) {
	if value == nil {
		return mcp.NewToolResultText("{}"), nil
	}

	jsonBytes, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal tool result: %w", err)
	}

	return mcp.NewToolResultText(string(jsonBytes)), nil
}

// ToErrorResult renders err as an error-flagged text block prefixed by
// the failed action, e.g. "Error fetching pull request: Resource not found".
func ToErrorResult(action string, err error) *mcp.CallToolResult {
	return mcp.NewToolResultError(fmt.Sprintf("Error %s: %s", action, DescribeError(err)))
}

// HTTPError represents a non-success response from the upstream API.
type HTTPError struct {
	StatusCode int
	Message    string
	Body       string
}

// Error implements the error interface for HTTPError.
func (e HTTPError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("HTTP %d: %s - %s", e.StatusCode, e.Message, e.Body)
	}
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
}

// NewHTTPError creates a new HTTPError with the given status code and message.
func NewHTTPError(statusCode int, message string, body string) HTTPError {
	return HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Body:       body,
	}
}

// NotFoundError reports that a singular requested entity does not exist.
type NotFoundError struct {
	Kind  string
	Name  string
	Scope string
}

func (e *NotFoundError) Error() string {
	if e.Scope != "" {
		return fmt.Sprintf("%s %s not found in %s", e.Kind, e.Name, e.Scope)
	}
	return fmt.Sprintf("%s %s not found", e.Kind, e.Name)
}

// IsNotFound reports whether err is a NotFoundError or an upstream 404.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	if errors.As(err, &nf) {
		return true
	}
	var httpErr HTTPError
	return errors.As(err, &httpErr) && httpErr.StatusCode == http.StatusNotFound
}

// DescribeError produces the best-effort human-readable message carried by
// an error envelope. Upstream HTTP failures are summarised by status code
// and keep the upstream message.
func DescribeError(err error) string {
	if err == nil {
		return ""
	}

	var httpErr HTTPError
	if errors.As(err, &httpErr) {
		return describeHTTPError(httpErr)
	}

	return err.Error()
}

func describeHTTPError(httpErr HTTPError) string {
	var message string

	switch httpErr.StatusCode {
	case http.StatusUnauthorized:
		message = "Authentication failed"
	case http.StatusForbidden:
		message = "Access forbidden - insufficient permissions"
	case http.StatusNotFound:
		message = "Resource not found"
	case http.StatusBadRequest:
		message = "Bad request - invalid parameters"
	case http.StatusConflict:
		message = "Conflict - resource already exists or version mismatch"
	case http.StatusTooManyRequests:
		message = "Rate limit exceeded"
	case http.StatusInternalServerError:
		message = "Internal server error"
	case http.StatusServiceUnavailable:
		message = "Service unavailable"
	case http.StatusGatewayTimeout:
		message = "Gateway timeout"
	default:
		if httpErr.StatusCode >= 400 && httpErr.StatusCode < 500 {
			message = "Client error"
		} else if httpErr.StatusCode >= 500 {
			message = "Server error"
		} else {
			message = "Unexpected response"
		}
	}

	detail := upstreamMessage(httpErr.Body)
	if detail == "" {
		detail = httpErr.Message
	}
	if detail == "" {
		return fmt.Sprintf("%s (HTTP %d)", message, httpErr.StatusCode)
	}
	return fmt.Sprintf("%s (HTTP %d): %s", message, httpErr.StatusCode, detail)
}

// upstreamMessage extracts the "message" field Azure DevOps puts in error
// bodies, falling back to the raw body.
func upstreamMessage(body string) string {
	if body == "" {
		return ""
	}
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal([]byte(body), &payload); err == nil && payload.Message != "" {
		return payload.Message
	}
	return body
}
