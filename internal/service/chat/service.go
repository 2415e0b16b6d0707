// Package chat orchestrates one conversational turn: load history, build
// the time context, compose the prompt, run inference, persist the
// updated transcript.
package chat

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/zerocost/scheduler-backend/internal/model/chat"
	"github.com/zerocost/scheduler-backend/internal/store"
	"github.com/zerocost/scheduler-backend/internal/timectx"
)

var (
	// ErrInvalidInput rejects a missing or empty user message before any I/O.
	ErrInvalidInput = errors.New("message is required")
	// ErrUpstreamUnavailable means the history store itself failed.
	ErrUpstreamUnavailable = errors.New("history store unavailable")
)

// Completer produces an assistant reply for a composed message sequence.
type Completer interface {
	Complete(ctx context.Context, messages []chat.Turn) (string, error)
}

// Result is what one successful turn returns to the caller.
type Result struct {
	Reply     string
	SessionID string
}

// Service is the turn processor. It owns the in-flight message sequence
// and time context of a request; durable state lives in the store.
type Service struct {
	store    store.HistoryStore
	clock    *timectx.Builder
	composer *PromptComposer
	infer    Completer
}

func NewService(historyStore store.HistoryStore, clock *timectx.Builder, infer Completer) *Service {
	return &Service{
		store:    historyStore,
		clock:    clock,
		composer: NewPromptComposer(),
		infer:    infer,
	}
}

// HandleTurn runs one full turn for the session. On inference failure
// nothing is persisted; the history is exactly what it was before the
// call. Concurrent turns on one session race last-writer-wins.
func (s *Service) HandleTurn(ctx context.Context, sessionID, userTimezone, messageText string) (Result, error) {
	if strings.TrimSpace(messageText) == "" {
		return Result{}, ErrInvalidInput
	}

	history, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %w", ErrUpstreamUnavailable, err)
	}

	tc := s.clock.Build(userTimezone)
	messages := s.composer.Compose(tc, history, messageText)

	reply, err := s.infer.Complete(ctx, messages)
	if err != nil {
		return Result{}, err
	}

	updated := append(history,
		chat.Turn{Role: chat.RoleUser, Content: messageText},
		chat.Turn{Role: chat.RoleAssistant, Content: reply},
	)
	if err := s.store.Put(ctx, sessionID, updated); err != nil {
		return Result{}, fmt.Errorf("%w: %w", ErrUpstreamUnavailable, err)
	}

	log.Printf("[chat] turn completed session=%s history=%d reply_len=%d", sessionID, len(updated), len(reply))
	return Result{Reply: reply, SessionID: sessionID}, nil
}
