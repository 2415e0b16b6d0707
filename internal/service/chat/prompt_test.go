package chat

import (
	"strings"
	"testing"
	"time"

	"github.com/zerocost/scheduler-backend/internal/model/chat"
	"github.com/zerocost/scheduler-backend/internal/timectx"
)

func testTimeContext() timectx.Context {
	return timectx.Context{
		UTCInstant:     time.Date(2026, 6, 28, 18, 30, 0, 0, time.UTC),
		ZoneID:         "America/New_York",
		LocalRendering: "6/28/2026, 2:30:00 PM",
	}
}

func TestComposeOrdering(t *testing.T) {
	composer := NewPromptComposer()
	history := chat.History{
		{Role: chat.RoleUser, Content: "first"},
		{Role: chat.RoleAssistant, Content: "second"},
	}

	messages := composer.Compose(testTimeContext(), history, "third")

	if len(messages) != 4 {
		t.Fatalf("expected 4 messages, got %d", len(messages))
	}
	if messages[0].Role != chat.RoleSystem {
		t.Fatalf("first message should be system, got %s", messages[0].Role)
	}
	if messages[1].Content != "first" || messages[2].Content != "second" {
		t.Fatal("history not preserved in stored order")
	}
	last := messages[3]
	if last.Role != chat.RoleUser || last.Content != "third" {
		t.Fatalf("last message should be the new user turn, got %+v", last)
	}
}

func TestComposeSystemPromptInterpolation(t *testing.T) {
	composer := NewPromptComposer()

	messages := composer.Compose(testTimeContext(), nil, "hello")
	system := messages[0].Content

	for _, want := range []string{
		"Current UTC time: 2026-06-28T18:30:00Z",
		"User timezone: America/New_York",
		"User local time: 6/28/2026, 2:30:00 PM",
		"check_availability",
		"book_meeting",
	} {
		if !strings.Contains(system, want) {
			t.Errorf("system prompt missing %q", want)
		}
	}
}

func TestComposeEmptyHistory(t *testing.T) {
	composer := NewPromptComposer()

	messages := composer.Compose(testTimeContext(), chat.History{}, "hi")

	if len(messages) != 2 {
		t.Fatalf("expected system + user only, got %d messages", len(messages))
	}
}
