package timectx

import (
	"time"
)

// localLayout mirrors an en-US locale rendering, e.g. "6/28/2026, 3:04:05 PM".
const localLayout = "1/2/2006, 3:04:05 PM"

// Context is a snapshot of "now" in both absolute and user-local form,
// built fresh per request and injected into model instructions.
type Context struct {
	UTCInstant     time.Time
	ZoneID         string
	LocalRendering string
}

// Builder produces time contexts. The clock is injectable for tests and
// defaults to time.Now.
type Builder struct {
	now func() time.Time
}

func NewBuilder() *Builder {
	return &Builder{now: time.Now}
}

// NewBuilderWithClock is used by tests that need a fixed instant.
func NewBuilderWithClock(now func() time.Time) *Builder {
	return &Builder{now: now}
}

// Build renders the current instant in the requested IANA zone. An empty
// or unrecognized zone identifier must not fail the request: rendering
// falls back to UTC and the returned ZoneID reports the zone actually used.
func (b *Builder) Build(zoneID string) Context {
	instant := b.now().UTC()

	loc := time.UTC
	resolved := "UTC"
	if zoneID != "" {
		if parsed, err := time.LoadLocation(zoneID); err == nil {
			loc = parsed
			resolved = zoneID
		}
	}

	return Context{
		UTCInstant:     instant,
		ZoneID:         resolved,
		LocalRendering: instant.In(loc).Format(localLayout),
	}
}
