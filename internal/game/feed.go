package game

import (
	"fmt"
	"image/color"

	"github.com/Garsondee/Egg-Maze/internal/maze"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

const (
	feedPanelWidth = 320
	feedMaxEntries = 60
	feedLineHeight = 14
)

// FeedEntry is a single line in the event feed.
type FeedEntry struct {
	Tick     int
	Actor    string // "P", "H0".., or "--"
	Category string
	Message  string
	Warn     bool
}

// EventFeed is a ring buffer of recent session events rendered on-screen.
// The full history stays in the session's SimLog.
type EventFeed struct {
	entries []FeedEntry
	head    int
	count   int
}

// NewEventFeed creates a feed with a fixed capacity.
func NewEventFeed() *EventFeed {
	return &EventFeed{
		entries: make([]FeedEntry, feedMaxEntries),
	}
}

// Record adds a SimLog entry. Debug entries are skipped.
func (f *EventFeed) Record(e maze.SimLogEntry) {
	if e.Severity == maze.SeverityDebug {
		return
	}
	msg := e.Key + " " + e.Value
	switch e.Key {
	case "change", "placed", "player", "egg":
		msg = e.Value
	}
	f.add(FeedEntry{
		Tick:     e.Tick,
		Actor:    e.Actor,
		Category: e.Category,
		Message:  msg,
		Warn:     e.Severity == maze.SeverityWarn,
	})
}

// Note adds a front-end message that is not part of the session log.
func (f *EventFeed) Note(tick int, msg string) {
	f.add(FeedEntry{Tick: tick, Actor: "--", Category: "ui", Message: msg})
}

func (f *EventFeed) add(e FeedEntry) {
	f.entries[f.head] = e
	f.head = (f.head + 1) % feedMaxEntries
	if f.count < feedMaxEntries {
		f.count++
	}
}

// Len returns the number of buffered entries.
func (f *EventFeed) Len() int { return f.count }

// Recent returns entries in chronological order (oldest first).
func (f *EventFeed) Recent() []FeedEntry {
	result := make([]FeedEntry, f.count)
	for i := 0; i < f.count; i++ {
		idx := (f.head - f.count + i + feedMaxEntries) % feedMaxEntries
		result[i] = f.entries[idx]
	}
	return result
}

func categoryColor(e FeedEntry) color.RGBA {
	if e.Warn {
		return color.RGBA{R: 240, G: 200, B: 40, A: 255}
	}
	switch e.Category {
	case "capture":
		return color.RGBA{R: 230, G: 60, B: 60, A: 255}
	case "collect":
		return color.RGBA{R: 250, G: 235, B: 180, A: 255}
	case "state":
		return color.RGBA{R: 120, G: 120, B: 200, A: 255}
	case "path":
		return color.RGBA{R: 200, G: 120, B: 60, A: 255}
	case "session", "clock":
		return color.RGBA{R: 80, G: 200, B: 120, A: 255}
	default:
		return color.RGBA{R: 140, G: 140, B: 140, A: 255}
	}
}

// Draw renders the feed panel at panelX, newest entry at the bottom.
func (f *EventFeed) Draw(screen *ebiten.Image, panelX int, panelH int) {
	vector.FillRect(screen, float32(panelX), 0, float32(feedPanelWidth), float32(panelH), color.RGBA{R: 12, G: 12, B: 16, A: 248}, false)
	vector.StrokeLine(screen, float32(panelX), 0, float32(panelX), float32(panelH), 1.0, color.RGBA{R: 60, G: 60, B: 80, A: 255}, false)

	vector.FillRect(screen, float32(panelX), 0, float32(feedPanelWidth), 16, color.RGBA{R: 24, G: 24, B: 34, A: 255}, false)
	ebitenutil.DebugPrintAt(screen, "EVENTS", panelX+8, 0)
	vector.StrokeLine(screen, float32(panelX), 16, float32(panelX+feedPanelWidth), 16, 1.0, color.RGBA{R: 60, G: 60, B: 90, A: 200}, false)

	entries := f.Recent()
	maxVisible := (panelH - 24) / feedLineHeight
	if len(entries) > maxVisible {
		entries = entries[len(entries)-maxVisible:]
	}

	const highlight = 3
	y := 20
	for i, e := range entries {
		if i >= len(entries)-highlight {
			vector.FillRect(screen, float32(panelX+2), float32(y), float32(feedPanelWidth-4), float32(feedLineHeight), color.RGBA{R: 30, G: 30, B: 44, A: 160}, false)
		}
		vector.FillRect(screen, float32(panelX+5), float32(y+4), 3, 6, categoryColor(e), false)
		line := fmt.Sprintf("%4d %-3s %s", e.Tick, e.Actor, e.Message)
		ebitenutil.DebugPrintAt(screen, line, panelX+12, y-2)
		y += feedLineHeight
	}
}
