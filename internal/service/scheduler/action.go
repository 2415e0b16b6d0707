// Package scheduler interprets structured assistant replies as calendar
// actions and executes them against Cal.com. It sits downstream of the
// turn processor and never touches session history.
package scheduler

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

const (
	ActionCheckAvailability = "check_availability"
	ActionBookMeeting       = "book_meeting"
)

// Action is the parsed interpretation of a structured assistant reply.
// Exactly one of CheckAvailability or BookMeeting is set.
type Action struct {
	Type              string
	CheckAvailability *AvailabilityWindow
	BookMeeting       *Booking
}

// AvailabilityWindow asks which slots are free inside [StartWindow, EndWindow].
type AvailabilityWindow struct {
	StartWindow time.Time `json:"startWindow"`
	EndWindow   time.Time `json:"endWindow"`
}

// Booking schedules a meeting for the named attendee.
type Booking struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
	Title string    `json:"title,omitempty"`
}

type rawAction struct {
	Action      string `json:"action"`
	StartWindow string `json:"startWindow"`
	EndWindow   string `json:"endWindow"`
	Start       string `json:"start"`
	End         string `json:"end"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	Title       string `json:"title"`
}

// Parse inspects an assistant reply. Conversational text yields (nil, nil).
// A reply that is a JSON object naming one of the known actions is parsed
// strictly: a recognized action with missing or unparseable required
// fields is an error, not a conversational reply.
func Parse(replyText string) (*Action, error) {
	candidate := stripCodeFence(strings.TrimSpace(replyText))
	if !strings.HasPrefix(candidate, "{") {
		return nil, nil
	}

	var raw rawAction
	if err := json.Unmarshal([]byte(candidate), &raw); err != nil {
		return nil, nil
	}

	switch raw.Action {
	case ActionCheckAvailability:
		start, err := parseInstant("startWindow", raw.StartWindow)
		if err != nil {
			return nil, err
		}
		end, err := parseInstant("endWindow", raw.EndWindow)
		if err != nil {
			return nil, err
		}
		return &Action{
			Type:              ActionCheckAvailability,
			CheckAvailability: &AvailabilityWindow{StartWindow: start, EndWindow: end},
		}, nil

	case ActionBookMeeting:
		start, err := parseInstant("start", raw.Start)
		if err != nil {
			return nil, err
		}
		end, err := parseInstant("end", raw.End)
		if err != nil {
			return nil, err
		}
		if raw.Name == "" {
			return nil, fmt.Errorf("book_meeting requires name")
		}
		if raw.Email == "" {
			return nil, fmt.Errorf("book_meeting requires email")
		}
		return &Action{
			Type: ActionBookMeeting,
			BookMeeting: &Booking{
				Start: start,
				End:   end,
				Name:  raw.Name,
				Email: raw.Email,
				Title: raw.Title,
			},
		}, nil

	case "":
		// JSON without an action field is not ours to interpret.
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown action %q", raw.Action)
	}
}

func parseInstant(field, value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, fmt.Errorf("missing required field %s", field)
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable %s value %q", field, value)
}

// stripCodeFence unwraps ```json ... ``` fencing that models often add
// around structured output.
func stripCodeFence(s string) string {
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if idx := strings.Index(s, "\n"); idx >= 0 {
		s = s[idx+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
