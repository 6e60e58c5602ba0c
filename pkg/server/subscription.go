package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/coder/websocket"

	"github.com/getmockd/gqlmock/pkg/graphql"
	"github.com/getmockd/gqlmock/pkg/logging"
)

// WebSocket message types for graphql-transport-ws (modern) and
// subscriptions-transport-ws (legacy).
const (
	// Common message types (used by both protocols)
	msgTypeConnectionInit = "connection_init"
	msgTypeConnectionAck  = "connection_ack"

	// graphql-transport-ws protocol (modern)
	msgTypePing      = "ping"
	msgTypePong      = "pong"
	msgTypeSubscribe = "subscribe"
	msgTypeNext      = "next"
	msgTypeError     = "error"
	msgTypeComplete  = "complete"

	// subscriptions-transport-ws protocol (legacy)
	msgTypeConnectionKeepAlive = "ka"
	msgTypeStart               = "start"
	msgTypeData                = "data"
	msgTypeStop                = "stop"
	msgTypeConnectionTerminate = "connection_terminate"
)

// defaultEventInterval is the delay between synthesized events when no
// interval is configured.
const defaultEventInterval = time.Second

// wsMessage is a WebSocket message in either subscription protocol.
type wsMessage struct {
	ID      string          `json:"id,omitempty"`
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// subscribePayload is the payload of subscribe/start messages.
type subscribePayload struct {
	Query         string                 `json:"query"`
	OperationName string                 `json:"operationName,omitempty"`
	Variables     map[string]interface{} `json:"variables,omitempty"`
}

// SubscriptionOptions configures synthesized subscription streams.
type SubscriptionOptions struct {
	// Interval is the delay between events. Defaults to one second.
	Interval time.Duration
	// Count is the number of events to send before completing the
	// subscription. 0 streams until the client unsubscribes.
	Count int
	// SkipOriginVerify skips Origin header verification during the
	// WebSocket handshake. Defaults to true for local mocking use.
	SkipOriginVerify *bool
}

// SubscriptionHandler serves GraphQL subscriptions over WebSocket. Each
// event is a fresh execution of the subscription operation, so every event
// carries newly synthesized values.
type SubscriptionHandler struct {
	executor *graphql.Executor
	opts     SubscriptionOptions
	logger   *slog.Logger
	accept   websocket.AcceptOptions

	mu     sync.RWMutex
	conns  map[string]*subscriptionConn
	connID atomic.Uint64
}

// subscriptionConn is one active WebSocket connection.
type subscriptionConn struct {
	id       string
	conn     *websocket.Conn
	protocol string // "graphql-ws" or "graphql-transport-ws"

	mu   sync.Mutex
	subs map[string]context.CancelFunc
}

// NewSubscriptionHandler creates a subscription handler streaming
// synthesized events through the given executor.
func NewSubscriptionHandler(executor *graphql.Executor, opts SubscriptionOptions, logger *slog.Logger) *SubscriptionHandler {
	if logger == nil {
		logger = logging.Nop()
	}
	if opts.Interval <= 0 {
		opts.Interval = defaultEventInterval
	}

	skipOriginVerify := true
	if opts.SkipOriginVerify != nil {
		skipOriginVerify = *opts.SkipOriginVerify
	}

	return &SubscriptionHandler{
		executor: executor,
		opts:     opts,
		logger:   logger,
		accept: websocket.AcceptOptions{
			Subprotocols:       []string{"graphql-transport-ws", "graphql-ws"},
			InsecureSkipVerify: skipOriginVerify,
		},
		conns: make(map[string]*subscriptionConn),
	}
}

// ServeHTTP upgrades the request to WebSocket and handles subscription
// messages until the connection closes.
func (h *SubscriptionHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &h.accept)
	if err != nil {
		http.Error(w, "WebSocket upgrade failed", http.StatusBadRequest)
		return
	}

	h.handleConnection(r.Context(), conn)
}

func (h *SubscriptionHandler) handleConnection(ctx context.Context, conn *websocket.Conn) {
	protocol := conn.Subprotocol()
	if protocol == "" {
		protocol = "graphql-transport-ws"
	}

	sc := &subscriptionConn{
		id:       fmt.Sprintf("conn-%d", h.connID.Add(1)),
		conn:     conn,
		protocol: protocol,
		subs:     make(map[string]context.CancelFunc),
	}

	h.mu.Lock()
	h.conns[sc.id] = sc
	h.mu.Unlock()

	defer func() {
		sc.mu.Lock()
		for _, cancel := range sc.subs {
			cancel()
		}
		sc.mu.Unlock()

		h.mu.Lock()
		delete(h.conns, sc.id)
		h.mu.Unlock()

		_ = conn.Close(websocket.StatusNormalClosure, "connection closed")
	}()

	h.logger.Debug("subscription connection opened", "conn", sc.id, "protocol", protocol)

	for {
		msgType, data, err := conn.Read(ctx)
		if err != nil {
			return
		}
		if msgType != websocket.MessageText {
			continue
		}

		var msg wsMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			h.sendError(ctx, sc, "", "invalid message format")
			continue
		}

		h.handleMessage(ctx, sc, &msg)
	}
}

func (h *SubscriptionHandler) handleMessage(ctx context.Context, sc *subscriptionConn, msg *wsMessage) {
	switch msg.Type {
	case msgTypeConnectionInit:
		_ = h.send(ctx, sc, &wsMessage{Type: msgTypeConnectionAck})
		if sc.protocol == "graphql-ws" {
			_ = h.send(ctx, sc, &wsMessage{Type: msgTypeConnectionKeepAlive})
		}

	case msgTypePing:
		_ = h.send(ctx, sc, &wsMessage{Type: msgTypePong, Payload: msg.Payload})

	case msgTypeSubscribe, msgTypeStart:
		h.handleSubscribe(ctx, sc, msg.ID, msg.Payload)

	case msgTypeComplete, msgTypeStop:
		h.unsubscribe(sc, msg.ID)

	case msgTypeConnectionTerminate:
		sc.mu.Lock()
		for _, cancel := range sc.subs {
			cancel()
		}
		sc.subs = make(map[string]context.CancelFunc)
		sc.mu.Unlock()
		_ = sc.conn.Close(websocket.StatusNormalClosure, "connection terminated")

	case msgTypePong:
		// Nothing to do.
	}
}

func (h *SubscriptionHandler) handleSubscribe(ctx context.Context, sc *subscriptionConn, id string, payload json.RawMessage) {
	if id == "" {
		h.sendError(ctx, sc, "", "subscription id is required")
		return
	}

	var sub subscribePayload
	if err := json.Unmarshal(payload, &sub); err != nil {
		h.sendError(ctx, sc, id, "invalid subscription payload")
		return
	}

	req := &graphql.Request{
		Query:         sub.Query,
		OperationName: sub.OperationName,
		Variables:     sub.Variables,
	}

	// Execute once up front so query errors surface immediately instead of
	// after the first interval.
	first := h.executor.Execute(ctx, req)
	if first.Data == nil && len(first.Errors) > 0 {
		h.sendError(ctx, sc, id, first.Errors[0].Message)
		return
	}

	subCtx, cancel := context.WithCancel(ctx)

	sc.mu.Lock()
	if _, exists := sc.subs[id]; exists {
		sc.mu.Unlock()
		cancel()
		h.sendError(ctx, sc, id, "subscription already exists")
		return
	}
	sc.subs[id] = cancel
	sc.mu.Unlock()

	go h.streamEvents(subCtx, sc, id, req, first)
}

func (h *SubscriptionHandler) unsubscribe(sc *subscriptionConn, id string) {
	sc.mu.Lock()
	cancel, exists := sc.subs[id]
	if exists {
		delete(sc.subs, id)
	}
	sc.mu.Unlock()

	if exists && cancel != nil {
		cancel()
	}
}

// streamEvents sends synthesized events until the configured count is
// reached or the subscription is cancelled.
func (h *SubscriptionHandler) streamEvents(ctx context.Context, sc *subscriptionConn, id string, req *graphql.Request, first *graphql.Response) {
	defer func() {
		sc.mu.Lock()
		delete(sc.subs, id)
		sc.mu.Unlock()

		// The stream context is already cancelled when the client
		// unsubscribed; the terminal complete still has to reach it.
		sendCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		h.sendComplete(sendCtx, sc, id)
	}()

	if !h.sendNext(ctx, sc, id, first) {
		return
	}
	sent := 1

	for h.opts.Count == 0 || sent < h.opts.Count {
		select {
		case <-ctx.Done():
			return
		case <-time.After(h.opts.Interval):
		}

		resp := h.executor.Execute(ctx, req)
		if !h.sendNext(ctx, sc, id, resp) {
			return
		}
		sent++
	}
}

// sendNext sends a next/data event. Returns false when the connection is
// gone.
func (h *SubscriptionHandler) sendNext(ctx context.Context, sc *subscriptionConn, id string, resp *graphql.Response) bool {
	payload, err := json.Marshal(resp)
	if err != nil {
		return false
	}

	msgType := msgTypeNext
	if sc.protocol == "graphql-ws" {
		msgType = msgTypeData
	}

	return h.send(ctx, sc, &wsMessage{ID: id, Type: msgType, Payload: payload}) == nil
}

// sendError sends a protocol error message.
func (h *SubscriptionHandler) sendError(ctx context.Context, sc *subscriptionConn, id, message string) {
	payload, err := json.Marshal([]graphql.Error{{Message: message}})
	if err != nil {
		return
	}
	_ = h.send(ctx, sc, &wsMessage{ID: id, Type: msgTypeError, Payload: payload})
}

// sendComplete signals the end of a subscription stream.
func (h *SubscriptionHandler) sendComplete(ctx context.Context, sc *subscriptionConn, id string) {
	_ = h.send(ctx, sc, &wsMessage{ID: id, Type: msgTypeComplete})
}

// send marshals and writes one message to the connection.
func (h *SubscriptionHandler) send(ctx context.Context, sc *subscriptionConn, msg *wsMessage) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	return sc.conn.Write(ctx, websocket.MessageText, data)
}
