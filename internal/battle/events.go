package battle

import "fmt"

// Event is one recorded entry in a battle's structured log.
// Unlike a UI ring buffer, the log is unbounded and machine-readable:
// tests and reports filter it by category/key instead of parsing prose.
type Event struct {
	Round    int
	Phase    Phase
	Unit     string  // instance id, or "--" for global events
	Category string  // attack, contagion, shred, formation, facing
	Key      string  // specific event name within the category
	Value    string  // human-readable detail
	NumVal   float64 // optional numeric value for threshold checks
}

// String formats the entry as a fixed-width log line.
//
//	[R=003/turn_end] B1   contagion spread           plague B0 -> B1 (roll 0.12 < 0.75)
func (e Event) String() string {
	return fmt.Sprintf("[R=%03d/%s] %-4s %-9s %-16s %s",
		e.Round, e.Phase, e.Unit, e.Category, e.Key, e.Value)
}

// EventLog is an ordered list of events.
type EventLog []Event

// Filter returns entries matching the given category and/or key.
// Pass empty string to match any value for that field.
func (l EventLog) Filter(category, key string) EventLog {
	var out EventLog
	for _, e := range l {
		if category != "" && e.Category != category {
			continue
		}
		if key != "" && e.Key != key {
			continue
		}
		out = append(out, e)
	}
	return out
}

// FilterUnit returns entries for a specific unit instance id.
func (l EventLog) FilterUnit(instanceID string) EventLog {
	var out EventLog
	for _, e := range l {
		if e.Unit == instanceID {
			out = append(out, e)
		}
	}
	return out
}

// FilterRoundRange returns entries within [from, to] inclusive.
func (l EventLog) FilterRoundRange(from, to int) EventLog {
	var out EventLog
	for _, e := range l {
		if e.Round >= from && e.Round <= to {
			out = append(out, e)
		}
	}
	return out
}
