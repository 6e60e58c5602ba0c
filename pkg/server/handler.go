package server

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/getmockd/gqlmock/pkg/graphql"
	"github.com/getmockd/gqlmock/pkg/logging"
)

// MaxRequestBodySize is the maximum allowed request body size (1MB).
const MaxRequestBodySize = 1 << 20

// Handler serves GraphQL HTTP requests against a mocked schema.
type Handler struct {
	executor      *graphql.Executor
	subscriptions *SubscriptionHandler
	logger        *slog.Logger
}

// NewHandler creates a GraphQL HTTP handler. A nil logger disables request
// logging.
func NewHandler(executor *graphql.Executor, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Handler{executor: executor, logger: logger}
}

// EnableSubscriptions routes WebSocket upgrade requests on this endpoint to
// the given subscription handler.
func (h *Handler) EnableSubscriptions(sub *SubscriptionHandler) {
	h.subscriptions = sub
}

// ServeHTTP handles GraphQL requests. POST accepts application/json and
// application/graphql bodies; GET reads the query from URL parameters.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	if h.subscriptions != nil && isWebSocketUpgrade(r) {
		h.subscriptions.ServeHTTP(w, r)
		return
	}

	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		return
	}
	if r.Method != http.MethodPost && r.Method != http.MethodGet {
		h.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req *graphql.Request
	var err error
	if r.Method == http.MethodGet {
		req, err = h.parseGetRequest(r)
	} else {
		req, err = h.parsePostRequest(r)
	}
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		h.logger.Warn("bad graphql request",
			"method", r.Method,
			"path", r.URL.Path,
			"error", err.Error(),
		)
		return
	}

	resp := h.executor.Execute(r.Context(), req)
	h.writeResponse(w, resp)

	h.logger.Info("graphql request",
		"method", r.Method,
		"path", r.URL.Path,
		"operation", req.OperationName,
		"errors", len(resp.Errors),
		"duration_ms", time.Since(start).Milliseconds(),
	)
}

// isWebSocketUpgrade reports whether the request asks for a WebSocket
// upgrade.
func isWebSocketUpgrade(r *http.Request) bool {
	return strings.EqualFold(r.Header.Get("Upgrade"), "websocket")
}

// parseGetRequest parses a GraphQL request from GET query parameters.
func (h *Handler) parseGetRequest(r *http.Request) (*graphql.Request, error) {
	query := r.URL.Query()

	req := &graphql.Request{
		Query:         query.Get("query"),
		OperationName: query.Get("operationName"),
	}

	if varsStr := query.Get("variables"); varsStr != "" {
		var variables map[string]interface{}
		if err := json.Unmarshal([]byte(varsStr), &variables); err != nil {
			return nil, &requestError{message: "invalid variables JSON"}
		}
		req.Variables = variables
	}

	return req, nil
}

// parsePostRequest parses a GraphQL request from the POST body.
func (h *Handler) parsePostRequest(r *http.Request) (*graphql.Request, error) {
	body, err := io.ReadAll(io.LimitReader(r.Body, MaxRequestBodySize))
	if err != nil {
		return nil, &requestError{message: "failed to read request body"}
	}
	defer func() { _ = r.Body.Close() }()

	if len(body) == 0 {
		return nil, &requestError{message: "empty request body"}
	}

	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/graphql") {
		return &graphql.Request{Query: string(body)}, nil
	}

	var req graphql.Request
	if err := json.Unmarshal(body, &req); err != nil {
		return nil, &requestError{message: "invalid JSON request body"}
	}
	return &req, nil
}

// writeError writes a GraphQL-shaped error response.
func (h *Handler) writeError(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(&graphql.Response{
		Errors: []graphql.Error{{Message: message}},
	})
}

// writeResponse writes a GraphQL response.
func (h *Handler) writeResponse(w http.ResponseWriter, resp *graphql.Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(resp)
}

// requestError represents a request parsing error.
type requestError struct {
	message string
}

func (e *requestError) Error() string {
	return e.message
}
