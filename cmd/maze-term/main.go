// Command maze-term plays the maze in a terminal.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/Garsondee/Egg-Maze/internal/levels"
	"github.com/Garsondee/Egg-Maze/internal/maze"
	"github.com/gdamore/tcell/v2"
)

// Terminals send key repeats but no releases, so a direction stays held for
// holdTicks after its last key event.
const holdTicks = 12

var (
	styleWall   = tcell.StyleDefault.Background(tcell.ColorSlateGray)
	styleFloor  = tcell.StyleDefault
	styleSpawn  = tcell.StyleDefault.Background(tcell.ColorDarkGreen)
	stylePlayer = tcell.StyleDefault.Foreground(tcell.ColorLime).Bold(true)
	styleAwake  = tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true)
	styleAsleep = tcell.StyleDefault.Foreground(tcell.ColorSteelBlue)
	styleEgg    = tcell.StyleDefault.Foreground(tcell.ColorLightYellow)
	styleText   = tcell.StyleDefault.Foreground(tcell.ColorWhite)
	styleDim    = tcell.StyleDefault.Foreground(tcell.ColorGray)
)

type termGame struct {
	screen  tcell.Screen
	catalog *maze.Catalog
	seed    int64
	level   int
	loads   int64
	session *maze.Session

	intent maze.Intent
	hold   int // ticks left on the current intent
	demo   bool
}

func newTermGame(screen tcell.Screen, cat *maze.Catalog, level int, seed int64) *termGame {
	g := &termGame{screen: screen, catalog: cat, seed: seed}
	g.load(level)
	return g
}

func (g *termGame) load(level int) {
	if level < 0 {
		level = 0
	}
	g.level = level
	cfg := g.catalog.Config(level, g.seed+g.loads)
	g.loads++
	g.session = maze.NewSession(g.catalog.Level(level), cfg)
	g.intent, g.hold = maze.Intent{}, 0
}

// handleKey applies one key event. It returns false to quit.
func (g *termGame) handleKey(ev *tcell.EventKey) bool {
	steer := func(x, z float64) {
		g.intent = maze.Intent{X: x, Z: z}
		g.hold = holdTicks
	}
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return false
	case tcell.KeyUp:
		steer(0, -1)
	case tcell.KeyDown:
		steer(0, 1)
	case tcell.KeyLeft:
		steer(-1, 0)
	case tcell.KeyRight:
		steer(1, 0)
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q':
			return false
		case 'w':
			steer(0, -1)
		case 's':
			steer(0, 1)
		case 'a':
			steer(-1, 0)
		case 'd':
			steer(1, 0)
		case ' ':
			g.advanceStatus()
		case 'r':
			g.load(g.level)
		case 'n':
			g.load(g.level + 1)
		case 'p':
			g.demo = !g.demo
			g.intent, g.hold = maze.Intent{}, 0
		}
	}
	return true
}

// advanceStatus starts a ready level or moves on from a finished one.
func (g *termGame) advanceStatus() {
	switch g.session.Status() {
	case maze.StatusReady:
		g.session.Start()
	case maze.StatusCleared:
		g.load(g.level + 1)
	case maze.StatusCaught, maze.StatusTimedOut:
		g.load(g.level)
	}
}

func (g *termGame) tick() {
	in := maze.Intent{}
	switch {
	case g.demo:
		in = maze.Autopilot{}.Intent(g.session)
	case g.hold > 0:
		in = g.intent
		g.hold--
	}
	g.session.Advance(in, maze.DefaultTickRate)
}

func drawString(s tcell.Screen, x, y int, str string, st tcell.Style) {
	for _, r := range str {
		s.SetContent(x, y, r, nil, st)
		x++
	}
}

// cellAt returns the top-left screen column and row for a grid cell. Each
// cell is two columns wide to keep the maze roughly square.
func cellAt(p maze.Point) (int, int) {
	return p.X * 2, p.Z + 2
}

func (g *termGame) draw() {
	s := g.screen
	s.Clear()
	snap := g.session.Snapshot()
	grid := g.session.Level().Grid
	spawn := grid.SpawnPosition()

	for z := 0; z < grid.Height(); z++ {
		for x := 0; x < grid.Width(); x++ {
			st := styleFloor
			switch {
			case grid.IsWall(x, z):
				st = styleWall
			case x == spawn.X && z == spawn.Z:
				st = styleSpawn
			}
			cx, cy := cellAt(maze.Point{X: x, Z: z})
			s.SetContent(cx, cy, ' ', nil, st)
			s.SetContent(cx+1, cy, ' ', nil, st)
		}
	}
	for _, e := range snap.Eggs {
		cx, cy := cellAt(e)
		s.SetContent(cx, cy, 'o', nil, styleEgg)
	}
	for _, p := range snap.Pursuers {
		cx, cy := cellAt(p.Position.Cell())
		if p.State == maze.PursuerAwake {
			s.SetContent(cx, cy, 'H', nil, styleAwake)
		} else {
			s.SetContent(cx, cy, 'h', nil, styleAsleep)
		}
	}
	cx, cy := cellAt(snap.Player.Cell())
	s.SetContent(cx, cy, '@', nil, stylePlayer)

	clock := snap.Now
	if g.session.Clock().Limit() > 0 {
		clock = snap.Remaining
	}
	secs := int(clock.Round(time.Second) / time.Second)
	drawString(s, 0, 0, fmt.Sprintf("L%d %s  eggs %d/%d  time %02d:%02d  %s",
		snap.Level+1, snap.LevelName, snap.Collected, snap.TotalEggs, secs/60, secs%60, statusHint(snap.Status)), styleText)
	help := "wasd/arrows move  space start  r retry  n skip  p demo  q quit"
	if g.demo {
		help = "demo: autopilot steering  p to take over  q quit"
	}
	drawString(s, 0, grid.Height()+3, help, styleDim)
	s.Show()
}

func statusHint(st maze.Status) string {
	switch st {
	case maze.StatusReady:
		return "[space to start]"
	case maze.StatusCaught:
		return "[CAUGHT - space to retry]"
	case maze.StatusTimedOut:
		return "[TIME UP - space to retry]"
	case maze.StatusCleared:
		return "[CLEARED - space for next]"
	default:
		return ""
	}
}

func (g *termGame) run() {
	ticker := time.NewTicker(maze.DefaultTickRate)
	defer ticker.Stop()

	events := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := g.screen.PollEvent()
			if ev == nil {
				return
			}
			events <- ev
		}
	}()

	for {
		select {
		case ev := <-events:
			switch ev := ev.(type) {
			case *tcell.EventKey:
				if !g.handleKey(ev) {
					return
				}
			case *tcell.EventResize:
				g.screen.Sync()
			}
		case <-ticker.C:
			g.tick()
			g.draw()
		}
	}
}

func main() {
	catalogPath := flag.String("levels", "", "level catalog YAML (default: bundled levels)")
	level := flag.Int("level", 0, "starting level index (0-based)")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	flag.Parse()

	cat, err := levels.Load(*catalogPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	if *seed == 0 {
		*seed = time.Now().UnixNano()
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}
	defer screen.Fini()

	newTermGame(screen, cat, *level, *seed).run()
}
