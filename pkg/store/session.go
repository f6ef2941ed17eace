package store

import (
	"context"

	"ai-writeassist-be/pkg/suggest"
)

// Session represents the active editing session state held in memory for a
// single websocket connection.
type Session struct {
	ID         string `json:"id"` // connection id
	UserID     string `json:"user_id"`
	DocumentID string `json:"document_id"`

	// The suggestion engine bound to this connection. All editor events for
	// the connection are forwarded to it.
	Engine *suggest.Engine `json:"-"`

	// Cancel stops the engine loop when the connection goes away.
	Cancel context.CancelFunc `json:"-"`
}
