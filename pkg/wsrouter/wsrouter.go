// Package wsrouter routes typed JSON websocket messages to handlers, with
// optional middleware around every handler invocation.
package wsrouter

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/gorilla/websocket"
)

type message struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// HandlerFunc handles one decoded message payload.
type HandlerFunc[T any] func(ctx context.Context, conn *websocket.Conn, payload T) error

// Middleware wraps handler invocations. Payloads cross middleware as any.
type Middleware func(next HandlerFunc[any]) HandlerFunc[any]

// WriterFunc writes one outbound message to the connection.
type WriterFunc func(conn *websocket.Conn, v any) error

type WSRouter struct {
	routes      map[string]HandlerFunc[json.RawMessage]
	middlewares []Middleware
	writeJSON   WriterFunc
}

func New() *WSRouter {
	return &WSRouter{
		routes: make(map[string]HandlerFunc[json.RawMessage]),
		writeJSON: func(conn *websocket.Conn, v any) error {
			return conn.WriteJSON(v)
		},
	}
}

func (r *WSRouter) Use(mw ...Middleware) {
	r.middlewares = append(r.middlewares, mw...)
}

// SetWriter replaces the reply writer, for callers that serialize
// connection writes externally.
func (r *WSRouter) SetWriter(w WriterFunc) {
	r.writeJSON = w
}

// Handle registers a handler for a message type, decoding payloads into T.
func Handle[T any](r *WSRouter, messageType string, handler HandlerFunc[T]) {
	r.routes[messageType] = func(ctx context.Context, conn *websocket.Conn, raw json.RawMessage) error {
		var payload T
		if len(raw) > 0 {
			if err := json.Unmarshal(raw, &payload); err != nil {
				return fmt.Errorf("failed to unmarshal payload: %w", err)
			}
		}

		wrapped := func(ctx context.Context, conn *websocket.Conn, p any) error {
			return handler(ctx, conn, p.(T))
		}
		for i := len(r.middlewares) - 1; i >= 0; i-- {
			wrapped = r.middlewares[i](wrapped)
		}

		return wrapped(ctx, conn, payload)
	}
}

// ServeConn reads messages until the connection errors, dispatching each
// to its registered handler. Unknown message types get an error reply.
func (r *WSRouter) ServeConn(ctx context.Context, conn *websocket.Conn) error {
	for {
		var msg message
		if err := conn.ReadJSON(&msg); err != nil {
			return err
		}

		handler, exists := r.routes[msg.Type]
		if !exists {
			if err := r.writeJSON(conn, map[string]string{"error": "unknown message type"}); err != nil {
				return err
			}
			continue
		}

		msgCtx := context.WithValue(ctx, messageTypeKey, msg.Type)
		if err := handler(msgCtx, conn, msg.Payload); err != nil {
			return err
		}
	}
}
