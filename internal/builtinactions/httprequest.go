package builtinactions

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/skull8888888/dagrs/internal/action"
	"github.com/skull8888888/dagrs/internal/ctxlog"
	"github.com/skull8888888/dagrs/internal/envvar"
)

// HTTPResponse is the Output value HTTPRequestAction produces.
type HTTPResponse struct {
	StatusCode int
	Body       string
}

// HTTPRequestAction issues a single HTTP request and captures the response,
// the same job an http_request runner performs against an injected
// *http.Client dependency.
type HTTPRequestAction struct {
	Client *http.Client
	Method string
	URL    string
}

// NewHTTPRequest returns an HTTPRequestAction. A nil client defaults to
// http.DefaultClient.
func NewHTTPRequest(client *http.Client, method, url string) *HTTPRequestAction {
	if client == nil {
		client = http.DefaultClient
	}
	if method == "" {
		method = http.MethodGet
	}
	return &HTTPRequestAction{Client: client, Method: method, URL: url}
}

// Run implements action.Action.
func (h *HTTPRequestAction) Run(ctx context.Context, in action.Input, env *envvar.Env) (action.Output, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Info("Making HTTP request.", "method", h.Method, "url", h.URL)

	req, err := http.NewRequestWithContext(ctx, h.Method, h.URL, nil)
	if err != nil {
		return action.Output{}, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := h.Client.Do(req)
	if err != nil {
		return action.Output{}, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	logger.Info("Received HTTP response.", "status", resp.Status)

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return action.Output{}, fmt.Errorf("failed to read response body: %w", err)
	}

	return action.NewOutput(HTTPResponse{StatusCode: resp.StatusCode, Body: string(bodyBytes)}), nil
}
