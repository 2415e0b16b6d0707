package scheduler

import (
	"context"
	"encoding/json"
	"log"
)

// Outcome reports what the dispatcher did with an assistant reply.
type Outcome struct {
	Type   string          `json:"type"`
	Result json.RawMessage `json:"result,omitempty"`
	Error  string          `json:"error,omitempty"`
}

// Dispatcher parses assistant replies and executes recognized actions.
type Dispatcher struct {
	calendar Calendar
}

func NewDispatcher(calendar Calendar) *Dispatcher {
	return &Dispatcher{calendar: calendar}
}

// Dispatch returns nil for conversational replies. For a structured
// action it executes against the calendar and reports the outcome;
// execution failure is reported in the outcome, never propagated, so a
// chat response is still delivered.
func (d *Dispatcher) Dispatch(ctx context.Context, replyText string) *Outcome {
	action, err := Parse(replyText)
	if err != nil {
		log.Printf("[scheduler] malformed action in reply: %v", err)
		return &Outcome{Type: "invalid", Error: err.Error()}
	}
	if action == nil {
		return nil
	}

	var result json.RawMessage
	switch action.Type {
	case ActionCheckAvailability:
		result, err = d.calendar.CheckAvailability(ctx, *action.CheckAvailability)
	case ActionBookMeeting:
		result, err = d.calendar.BookMeeting(ctx, *action.BookMeeting)
	}
	if err != nil {
		log.Printf("[scheduler] %s failed: %v", action.Type, err)
		return &Outcome{Type: action.Type, Error: err.Error()}
	}

	log.Printf("[scheduler] executed %s", action.Type)
	return &Outcome{Type: action.Type, Result: result}
}
