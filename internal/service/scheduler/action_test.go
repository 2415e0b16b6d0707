package scheduler

import (
	"testing"
	"time"
)

func TestParseConversationalTextIsNotAnAction(t *testing.T) {
	for _, reply := range []string{
		"Sure! What time works for you tomorrow?",
		"I have a few 2pm slots. Shall I book one?",
		"",
		`{"note": "json but not an action"}`,
	} {
		action, err := Parse(reply)
		if err != nil {
			t.Fatalf("Parse(%q) err: %v", reply, err)
		}
		if action != nil {
			t.Fatalf("Parse(%q) misclassified as action %+v", reply, action)
		}
	}
}

func TestParseCheckAvailability(t *testing.T) {
	reply := `{"action":"check_availability","startWindow":"2026-06-29T00:00:00Z","endWindow":"2026-06-30T00:00:00Z"}`

	action, err := Parse(reply)
	if err != nil {
		t.Fatalf("Parse err: %v", err)
	}
	if action == nil || action.Type != ActionCheckAvailability {
		t.Fatalf("unexpected action %+v", action)
	}
	want := time.Date(2026, 6, 29, 0, 0, 0, 0, time.UTC)
	if !action.CheckAvailability.StartWindow.Equal(want) {
		t.Fatalf("unexpected start window %v", action.CheckAvailability.StartWindow)
	}
}

func TestParseBookMeeting(t *testing.T) {
	reply := `{
		"action": "book_meeting",
		"start": "2026-06-29T18:00:00Z",
		"end": "2026-06-29T18:30:00Z",
		"name": "Ada Lovelace",
		"email": "ada@example.com",
		"title": "Intro call"
	}`

	action, err := Parse(reply)
	if err != nil {
		t.Fatalf("Parse err: %v", err)
	}
	if action == nil || action.Type != ActionBookMeeting {
		t.Fatalf("unexpected action %+v", action)
	}
	b := action.BookMeeting
	if b.Name != "Ada Lovelace" || b.Email != "ada@example.com" || b.Title != "Intro call" {
		t.Fatalf("unexpected booking %+v", b)
	}
}

func TestParseFencedJSON(t *testing.T) {
	reply := "```json\n{\"action\":\"check_availability\",\"startWindow\":\"2026-06-29\",\"endWindow\":\"2026-06-30\"}\n```"

	action, err := Parse(reply)
	if err != nil {
		t.Fatalf("Parse err: %v", err)
	}
	if action == nil || action.Type != ActionCheckAvailability {
		t.Fatalf("unexpected action %+v", action)
	}
}

func TestParseBookMeetingMissingFields(t *testing.T) {
	reply := `{"action":"book_meeting","start":"2026-06-29T18:00:00Z","end":"2026-06-29T18:30:00Z"}`

	if _, err := Parse(reply); err == nil {
		t.Fatal("expected error for booking without attendee fields")
	}
}

func TestParseUnknownActionRejected(t *testing.T) {
	if _, err := Parse(`{"action":"cancel_meeting"}`); err == nil {
		t.Fatal("expected error for unknown action type")
	}
}
