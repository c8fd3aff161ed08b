package domain

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
)

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if len(result.Content) != 1 {
		t.Fatalf("expected 1 content block, got %d", len(result.Content))
	}
	text, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("expected text content, got %T", result.Content[0])
	}
	return text.Text
}

func TestToResult(t *testing.T) {
	t.Run("nil value", func(t *testing.T) {
		result, err := ToResult(nil)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if result.IsError {
			t.Error("expected success result")
		}
		if got := resultText(t, result); got != "{}" {
			t.Errorf("expected empty JSON object, got %s", got)
		}
	})

	t.Run("projection", func(t *testing.T) {
		result, err := ToResult([]RepositoryResult{{ID: "1", Name: "api"}})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		text := resultText(t, result)
		if !strings.Contains(text, `"name": "api"`) {
			t.Errorf("expected serialized repository, got %s", text)
		}
	})

	t.Run("empty list is an array", func(t *testing.T) {
		result, err := ToResult([]RepositoryResult{})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if got := resultText(t, result); got != "[]" {
			t.Errorf("expected [], got %s", got)
		}
	})

	t.Run("unmarshalable value", func(t *testing.T) {
		if _, err := ToResult(map[string]interface{}{"ch": make(chan int)}); err == nil {
			t.Error("expected marshal error")
		}
	})
}

func TestToErrorResult(t *testing.T) {
	result := ToErrorResult("fetching pull request", NewHTTPError(http.StatusNotFound, "Not Found", `{"message":"TF401180: pull request 9 not found"}`))

	if !result.IsError {
		t.Fatal("expected error flag")
	}
	text := resultText(t, result)
	want := "Error fetching pull request: Resource not found (HTTP 404): TF401180: pull request 9 not found"
	if text != want {
		t.Errorf("got %q, want %q", text, want)
	}
}

func TestDescribeError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"unauthorized", NewHTTPError(http.StatusUnauthorized, "Unauthorized", ""), "Authentication failed (HTTP 401): Unauthorized"},
		{"forbidden", NewHTTPError(http.StatusForbidden, "", ""), "Access forbidden - insufficient permissions (HTTP 403)"},
		{"rate limited", NewHTTPError(http.StatusTooManyRequests, "Too Many Requests", ""), "Rate limit exceeded (HTTP 429): Too Many Requests"},
		{"other client error", NewHTTPError(http.StatusTeapot, "teapot", ""), "Client error (HTTP 418): teapot"},
		{"other server error", NewHTTPError(http.StatusBadGateway, "bad gateway", "plain body"), "Server error (HTTP 502): plain body"},
		{"wrapped", fmt.Errorf("listing: %w", NewHTTPError(http.StatusConflict, "Conflict", "")), "Conflict - resource already exists or version mismatch (HTTP 409): Conflict"},
		{"plain error", errors.New("dial tcp: connection refused"), "dial tcp: connection refused"},
		{"not found", &NotFoundError{Kind: "Repository", Name: "api", Scope: "project Fabrikam"}, "Repository api not found in project Fabrikam"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DescribeError(tt.err); got != tt.want {
				t.Errorf("DescribeError() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestIsNotFound(t *testing.T) {
	if !IsNotFound(&NotFoundError{Kind: "Branch", Name: "main"}) {
		t.Error("NotFoundError should be not found")
	}
	if !IsNotFound(fmt.Errorf("get: %w", NewHTTPError(http.StatusNotFound, "", ""))) {
		t.Error("wrapped 404 should be not found")
	}
	if IsNotFound(NewHTTPError(http.StatusInternalServerError, "", "")) {
		t.Error("500 should not be not found")
	}
}

func TestHTTPErrorString(t *testing.T) {
	if got := NewHTTPError(500, "Internal", "body").Error(); got != "HTTP 500: Internal - body" {
		t.Errorf("unexpected error string %q", got)
	}
	if got := NewHTTPError(404, "Not Found", "").Error(); got != "HTTP 404: Not Found" {
		t.Errorf("unexpected error string %q", got)
	}
}
