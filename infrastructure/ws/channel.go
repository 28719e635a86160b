// Package ws implements the signaling channel over a persistent
// websocket connection. The channel is shared: room negotiation and
// presence both register handlers on it and neither owns it.
package ws

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"affinity-engine/contract"
	apperrors "affinity-engine/errors"

	"github.com/gorilla/websocket"
)

// Frame is the wire shape of every signaling event.
type Frame struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// Channel is a bidirectional event channel over one websocket
// connection. Run is the supervised read pump: when the connection
// drops it returns an error and the supervisor re-dials on restart.
type Channel struct {
	log *slog.Logger
	url string

	mu        sync.RWMutex
	conn      *websocket.Conn
	connected bool
	handlers  map[string]map[int]func(payload []byte)
	nextID    int

	writeMu sync.Mutex
}

func NewChannel(log *slog.Logger, url string) *Channel {
	return &Channel{
		log:      log,
		url:      url,
		handlers: make(map[string]map[int]func(payload []byte)),
	}
}

// Dial establishes the websocket connection.
func (c *Channel) Dial(ctx context.Context) error {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, c.url, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrChannelUnavailable, err)
	}
	c.mu.Lock()
	c.conn = conn
	c.connected = true
	c.mu.Unlock()
	c.log.Info("Signaling channel connected", "url", c.url)
	return nil
}

func (c *Channel) Connected() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.connected
}

// Emit sends one named event to the peer.
func (c *Channel) Emit(name string, payload any) error {
	c.mu.RLock()
	conn := c.conn
	connected := c.connected
	c.mu.RUnlock()

	if !connected || conn == nil {
		return apperrors.ErrChannelUnavailable
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s payload: %w", name, err)
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return conn.WriteJSON(Frame{Event: name, Data: data})
}

// On registers a handler for a named event and returns its detach
// function. Handlers are invoked from the read pump goroutine.
func (c *Channel) On(name string, handler func(payload []byte)) (off func()) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.handlers[name]; !ok {
		c.handlers[name] = make(map[int]func(payload []byte))
	}
	id := c.nextID
	c.nextID++
	c.handlers[name][id] = handler

	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		delete(c.handlers[name], id)
		if len(c.handlers[name]) == 0 {
			delete(c.handlers, name)
		}
	}
}

// Run reads frames and dispatches them to registered handlers until
// the context ends or the connection drops. Implements contract.Worker
// so the supervisor restarts it (with a fresh dial) after a drop.
func (c *Channel) Run(ctx context.Context) error {
	c.mu.RLock()
	conn := c.conn
	c.mu.RUnlock()

	if conn == nil {
		if err := c.Dial(ctx); err != nil {
			return err
		}
		c.mu.RLock()
		conn = c.conn
		c.mu.RUnlock()
	}

	// Unblock ReadMessage when the context ends.
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			_ = conn.Close()
		case <-done:
		}
	}()

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			c.markDisconnected()
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("signaling read: %w", err)
		}

		var frame Frame
		if err := json.Unmarshal(raw, &frame); err != nil {
			c.log.Warn("Discarding malformed signaling frame", "error", err)
			continue
		}
		c.dispatch(frame)
	}
}

func (c *Channel) dispatch(frame Frame) {
	c.mu.RLock()
	registered := c.handlers[frame.Event]
	handlers := make([]func(payload []byte), 0, len(registered))
	for _, h := range registered {
		handlers = append(handlers, h)
	}
	c.mu.RUnlock()

	for _, handler := range handlers {
		handler(frame.Data)
	}
}

func (c *Channel) markDisconnected() {
	c.mu.Lock()
	c.connected = false
	c.conn = nil
	c.mu.Unlock()
}

// Close tears the connection down without waiting for the pump.
func (c *Channel) Close() {
	c.mu.Lock()
	conn := c.conn
	c.conn = nil
	c.connected = false
	c.mu.Unlock()
	if conn != nil {
		_ = conn.Close()
	}
}

var _ contract.ISignalChannel = (*Channel)(nil)
var _ contract.Worker = (*Channel)(nil)
