package sui

import (
	"context"
	"encoding/json"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/j-veylop/sui-faucet-tui/internal/logger"
)

// SubscriberConfig configures reconnect and timeout behaviour.
type SubscriberConfig struct {
	// ReconnectDelay is the initial delay before a reconnect attempt.
	ReconnectDelay time.Duration
	// MaxReconnectDelay caps the exponential backoff.
	MaxReconnectDelay time.Duration
	// HandshakeTimeout bounds the websocket dial.
	HandshakeTimeout time.Duration
	// WriteTimeout bounds the subscribe request.
	WriteTimeout time.Duration
}

// DefaultSubscriberConfig returns the default configuration.
func DefaultSubscriberConfig() SubscriberConfig {
	return SubscriberConfig{
		ReconnectDelay:    1 * time.Second,
		MaxReconnectDelay: 30 * time.Second,
		HandshakeTimeout:  10 * time.Second,
		WriteTimeout:      10 * time.Second,
	}
}

// Subscriber streams Move events matching a filter over a websocket.
type Subscriber struct {
	endpoint  string
	filter    EventFilter
	config    SubscriberConfig
	requestID atomic.Uint64
}

// NewSubscriber creates a subscriber. It does not connect until Run.
func NewSubscriber(endpoint string, filter EventFilter, config *SubscriberConfig) *Subscriber {
	cfg := DefaultSubscriberConfig()
	if config != nil {
		cfg = *config
	}
	return &Subscriber{
		endpoint: endpoint,
		filter:   filter,
		config:   cfg,
	}
}

type wsMessage struct {
	ID     uint64          `json:"id,omitempty"`
	Method string          `json:"method,omitempty"`
	Result json.RawMessage `json:"result,omitempty"`
	Error  *RPCError       `json:"error,omitempty"`
	Params *struct {
		Subscription json.RawMessage `json:"subscription"`
		Result       Event           `json:"result"`
	} `json:"params,omitempty"`
}

// Run connects, subscribes and forwards events to out until ctx is done,
// reconnecting with exponential backoff. It returns ctx.Err().
func (s *Subscriber) Run(ctx context.Context, out chan<- Event) error {
	delay := s.config.ReconnectDelay

	for {
		connected, err := s.session(ctx, out)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if connected {
			delay = s.config.ReconnectDelay
		}
		logger.Warn("Event subscription dropped", "endpoint", s.endpoint, "error", err, "retry_in", delay)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}

		delay *= 2
		if delay > s.config.MaxReconnectDelay {
			delay = s.config.MaxReconnectDelay
		}
	}
}

// session runs one connection. connected reports whether the subscription
// was confirmed before the connection failed.
func (s *Subscriber) session(ctx context.Context, out chan<- Event) (connected bool, err error) {
	dialer := websocket.Dialer{HandshakeTimeout: s.config.HandshakeTimeout}

	conn, _, err := dialer.DialContext(ctx, s.endpoint, nil)
	if err != nil {
		return false, fmt.Errorf("websocket dial: %w", err)
	}

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			_ = conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			_ = conn.Close()
		case <-done:
			_ = conn.Close()
		}
	}()

	reqID := s.requestID.Add(1)
	_ = conn.SetWriteDeadline(time.Now().Add(s.config.WriteTimeout))
	if err := conn.WriteJSON(rpcRequest{
		JSONRPC: "2.0",
		ID:      reqID,
		Method:  "suix_subscribeEvent",
		Params:  []any{s.filter},
	}); err != nil {
		return false, fmt.Errorf("write subscribe: %w", err)
	}

	for {
		var msg wsMessage
		if err := conn.ReadJSON(&msg); err != nil {
			return connected, fmt.Errorf("read: %w", err)
		}

		switch {
		case msg.ID == reqID && msg.Error != nil:
			return connected, msg.Error
		case msg.ID == reqID:
			connected = true
			logger.Debug("Event subscription confirmed", "subscription", string(msg.Result))
		case msg.Params != nil:
			select {
			case out <- msg.Params.Result:
			case <-ctx.Done():
				return connected, ctx.Err()
			}
		}
	}
}
