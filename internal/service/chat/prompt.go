package chat

import (
	"fmt"
	"time"

	"github.com/zerocost/scheduler-backend/internal/model/chat"
	"github.com/zerocost/scheduler-backend/internal/timectx"
)

const systemPromptFormat = `You are a helpful scheduling assistant.
Current UTC time: %s
User timezone: %s
User local time: %s

You can check availability and book meetings using Cal.com.
Respond naturally but when action is needed, output structured JSON only.

Available actions:
- check_availability: { startWindow: string (ISO date), endWindow: string (ISO date) }
- book_meeting: { start: string (ISO), end: string (ISO), name: string, email: string, title?: string }

If you need more info from the user, ask conversationally.`

// PromptComposer builds the ordered message sequence for an inference
// call: one synthesized system turn, the stored history unchanged, then
// the new user turn.
type PromptComposer struct{}

func NewPromptComposer() *PromptComposer {
	return &PromptComposer{}
}

// Compose interpolates the time context into the fixed instructions and
// appends history and the user message. The system turn is never persisted.
func (c *PromptComposer) Compose(tc timectx.Context, history chat.History, userMessage string) []chat.Turn {
	system := fmt.Sprintf(systemPromptFormat,
		tc.UTCInstant.Format(time.RFC3339),
		tc.ZoneID,
		tc.LocalRendering,
	)

	messages := make([]chat.Turn, 0, len(history)+2)
	messages = append(messages, chat.Turn{Role: chat.RoleSystem, Content: system})
	messages = append(messages, history...)
	messages = append(messages, chat.Turn{Role: chat.RoleUser, Content: userMessage})
	return messages
}
