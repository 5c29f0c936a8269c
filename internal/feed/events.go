package feed

import "strings"

// Event classifies what happened to a post since the last poll. Events are
// bit flags so FirstPost can ride along with New.
type Event uint8

const (
	EventNoChange Event = 1 << iota
	EventNew
	EventUpdated
	// EventFirstPost marks a New event on a feed that had no stored post
	// at all before this poll.
	EventFirstPost
)

func (e Event) Has(flag Event) bool {
	return e&flag != 0
}

func (e Event) String() string {
	if e == 0 {
		return "None"
	}

	var parts []string
	for _, f := range []struct {
		flag Event
		name string
	}{
		{EventNoChange, "NoChange"},
		{EventNew, "New"},
		{EventUpdated, "Updated"},
		{EventFirstPost, "FirstPost"},
	} {
		if e.Has(f.flag) {
			parts = append(parts, f.name)
		}
	}
	return strings.Join(parts, "|")
}
