package maze

import (
	"fmt"
	"strings"
)

// Severity grades a SimLog entry.
type Severity int

const (
	SeverityDebug Severity = iota // verbose per-tick detail
	SeverityInfo
	SeverityWarn
)

func (s Severity) String() string {
	switch s {
	case SeverityDebug:
		return "debug"
	case SeverityInfo:
		return "info"
	case SeverityWarn:
		return "warn"
	default:
		return "unknown"
	}
}

// SimLogEntry is one recorded event during a session.
type SimLogEntry struct {
	Tick     int
	Actor    string // "P" for the player, "H0".."Hn" for pursuers, "--" for session events
	Severity Severity
	Category string  // state, path, move, capture, collect, spawn, clock, session
	Key      string  // specific event name within the category
	Value    string  // human-readable detail
	NumVal   float64 // optional numeric value for threshold checks
}

// String formats the entry as a fixed-width log line.
//
//	[T=042] H1   state     change           awake → asleep
func (e SimLogEntry) String() string {
	tag := ""
	if e.Severity == SeverityWarn {
		tag = "WARN "
	}
	return fmt.Sprintf("[T=%03d] %-4s %-9s %-16s %s%s",
		e.Tick, e.Actor, e.Category, e.Key, tag, e.Value)
}

// SimLog collects structured events from a session. It is unbounded and
// machine-readable; front ends keep their own bounded views.
type SimLog struct {
	entries []SimLogEntry
	verbose bool
	// OnAdd, when set, is called with each recorded entry.
	OnAdd func(SimLogEntry)
}

// NewSimLog creates a SimLog. If verbose is true, per-tick position entries
// are also recorded.
func NewSimLog(verbose bool) *SimLog {
	return &SimLog{verbose: verbose}
}

// Verbose reports whether debug entries are kept.
func (sl *SimLog) Verbose() bool { return sl.verbose }

func (sl *SimLog) add(e SimLogEntry) {
	sl.entries = append(sl.entries, e)
	if sl.OnAdd != nil {
		sl.OnAdd(e)
	}
}

func (sl *SimLog) record(sev Severity, tick int, actor, category, key, value string, numVal float64) {
	sl.add(SimLogEntry{
		Tick:     tick,
		Actor:    actor,
		Severity: sev,
		Category: category,
		Key:      key,
		Value:    value,
		NumVal:   numVal,
	})
}

// Add records an info entry.
func (sl *SimLog) Add(tick int, actor, category, key, value string, numVal float64) {
	sl.record(SeverityInfo, tick, actor, category, key, value, numVal)
}

// Warn records a warning entry.
func (sl *SimLog) Warn(tick int, actor, category, key, value string, numVal float64) {
	sl.record(SeverityWarn, tick, actor, category, key, value, numVal)
}

// AddVerbose records a debug entry only when verbose mode is on.
func (sl *SimLog) AddVerbose(tick int, actor, category, key, value string, numVal float64) {
	if sl.verbose {
		sl.record(SeverityDebug, tick, actor, category, key, value, numVal)
	}
}

// Entries returns all recorded entries.
func (sl *SimLog) Entries() []SimLogEntry {
	return sl.entries
}

// Len returns the number of recorded entries.
func (sl *SimLog) Len() int { return len(sl.entries) }

// entryMatch selects log entries for the query helpers.
type entryMatch func(SimLogEntry) bool

// keyed matches category and key; an empty field matches anything.
func keyed(category, key string) entryMatch {
	return func(e SimLogEntry) bool {
		return (category == "" || e.Category == category) && (key == "" || e.Key == key)
	}
}

func (sl *SimLog) collect(m entryMatch) []SimLogEntry {
	var out []SimLogEntry
	for _, e := range sl.entries {
		if m(e) {
			out = append(out, e)
		}
	}
	return out
}

// Filter returns entries matching the given category and/or key.
// Pass empty string to match any value for that field.
func (sl *SimLog) Filter(category, key string) []SimLogEntry {
	return sl.collect(keyed(category, key))
}

// FilterActor returns entries for one actor label.
func (sl *SimLog) FilterActor(label string) []SimLogEntry {
	return sl.collect(func(e SimLogEntry) bool { return e.Actor == label })
}

// FilterTickRange returns entries within [fromTick, toTick] inclusive.
func (sl *SimLog) FilterTickRange(fromTick, toTick int) []SimLogEntry {
	return sl.collect(func(e SimLogEntry) bool { return e.Tick >= fromTick && e.Tick <= toTick })
}

// Warnings returns all warning entries.
func (sl *SimLog) Warnings() []SimLogEntry {
	return sl.collect(func(e SimLogEntry) bool { return e.Severity == SeverityWarn })
}

// CountCategory returns how many entries match the given category and key.
func (sl *SimLog) CountCategory(category, key string) int {
	m, n := keyed(category, key), 0
	for _, e := range sl.entries {
		if m(e) {
			n++
		}
	}
	return n
}

// LastOf returns the most recent entry matching category+key, or false if none.
func (sl *SimLog) LastOf(category, key string) (SimLogEntry, bool) {
	m := keyed(category, key)
	for i := len(sl.entries) - 1; i >= 0; i-- {
		if m(sl.entries[i]) {
			return sl.entries[i], true
		}
	}
	return SimLogEntry{}, false
}

// HasEntry reports whether any entry matches category, key and a value
// substring.
func (sl *SimLog) HasEntry(category, key, valueSubstr string) bool {
	m := keyed(category, key)
	for _, e := range sl.entries {
		if m(e) && strings.Contains(e.Value, valueSubstr) {
			return true
		}
	}
	return false
}

func formatEntries(entries []SimLogEntry) string {
	var sb strings.Builder
	for _, e := range entries {
		sb.WriteString(e.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}

// Format returns the full log, one entry per line.
func (sl *SimLog) Format() string { return formatEntries(sl.entries) }

// FormatRange is Format limited to a tick range.
func (sl *SimLog) FormatRange(fromTick, toTick int) string {
	return formatEntries(sl.FilterTickRange(fromTick, toTick))
}
