package scheduler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func fakeCal(t *testing.T, handler http.HandlerFunc) *CalClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewCalClient(srv.URL, "cal-key", 5*time.Second)
}

func TestDispatchConversationalReplyIsNil(t *testing.T) {
	d := NewDispatcher(fakeCal(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("calendar must not be called for conversational text")
	}))

	if outcome := d.Dispatch(context.Background(), "Sure, what time suits you?"); outcome != nil {
		t.Fatalf("unexpected outcome %+v", outcome)
	}
}

func TestDispatchCheckAvailability(t *testing.T) {
	cal := fakeCal(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/slots/available" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer cal-key" {
			t.Errorf("unexpected auth %q", auth)
		}
		if got := r.URL.Query().Get("startTime"); got != "2026-06-29T00:00:00Z" {
			t.Errorf("unexpected startTime %q", got)
		}
		json.NewEncoder(w).Encode(map[string]any{"slots": []string{"2026-06-29T18:00:00Z"}})
	})

	d := NewDispatcher(cal)
	reply := `{"action":"check_availability","startWindow":"2026-06-29T00:00:00Z","endWindow":"2026-06-30T00:00:00Z"}`
	outcome := d.Dispatch(context.Background(), reply)

	if outcome == nil || outcome.Type != ActionCheckAvailability {
		t.Fatalf("unexpected outcome %+v", outcome)
	}
	if outcome.Error != "" {
		t.Fatalf("unexpected error %q", outcome.Error)
	}
	if len(outcome.Result) == 0 {
		t.Fatal("expected provider payload in outcome")
	}
}

func TestDispatchBookMeeting(t *testing.T) {
	cal := fakeCal(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/bookings" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		var payload struct {
			Start    string `json:"start"`
			Attendee struct {
				Email string `json:"email"`
			} `json:"attendee"`
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Errorf("bad booking payload: %v", err)
		}
		if payload.Attendee.Email != "ada@example.com" {
			t.Errorf("unexpected attendee %+v", payload.Attendee)
		}
		json.NewEncoder(w).Encode(map[string]any{"id": "bkg_1"})
	})

	d := NewDispatcher(cal)
	reply := `{"action":"book_meeting","start":"2026-06-29T18:00:00Z","end":"2026-06-29T18:30:00Z","name":"Ada","email":"ada@example.com"}`
	outcome := d.Dispatch(context.Background(), reply)

	if outcome == nil || outcome.Type != ActionBookMeeting || outcome.Error != "" {
		t.Fatalf("unexpected outcome %+v", outcome)
	}
}

func TestDispatchProviderFailureReportedInOutcome(t *testing.T) {
	cal := fakeCal(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	})

	d := NewDispatcher(cal)
	reply := `{"action":"check_availability","startWindow":"2026-06-29","endWindow":"2026-06-30"}`
	outcome := d.Dispatch(context.Background(), reply)

	if outcome == nil || outcome.Error == "" {
		t.Fatalf("expected failure outcome, got %+v", outcome)
	}
}
