// Package store persists per-session conversation history as an external
// keyed-value collaborator with a fixed retention window. Values live at
// key "chat:<sessionID>" as a JSON array of {role, content} objects.
package store

import (
	"context"
	"time"

	"github.com/zerocost/scheduler-backend/internal/model/chat"
)

// DefaultTTL is the retention window applied on every write.
const DefaultTTL = 24 * time.Hour

// HistoryStore is the session history collaborator consumed by the turn
// processor. Get returns an empty history (nil error) for a missing or
// expired key; an error means the store itself failed. Put replaces the
// whole value, last writer wins — concurrent turns on one session are not
// serialized here.
type HistoryStore interface {
	Get(ctx context.Context, sessionID string) (chat.History, error)
	Put(ctx context.Context, sessionID string, history chat.History) error
}

func historyKey(sessionID string) string {
	return "chat:" + sessionID
}
