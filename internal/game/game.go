package game

import (
	"fmt"
	"image/color"
	"math"
	"time"

	"github.com/Garsondee/Egg-Maze/internal/maze"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/basicfont"
)

// borderWidth is the pixel gap between the window edge and the maze.
const borderWidth = 24

// cellPx is the on-screen size of one grid cell.
const cellPx = 40

// hudHeight is the strip above the maze holding the status line.
const hudHeight = 28

// graceOnStart is how long the player is untouchable after a level starts.
const graceOnStart = 2 * time.Second

// noticeFor is how long a one-line notice stays in the HUD.
const noticeFor = 3 * time.Second

var (
	colBackground = color.RGBA{R: 10, G: 10, B: 14, A: 255}
	colFloor      = color.RGBA{R: 26, G: 28, B: 34, A: 255}
	colWall       = color.RGBA{R: 70, G: 76, B: 92, A: 255}
	colWallEdge   = color.RGBA{R: 96, G: 104, B: 124, A: 255}
	colSpawn      = color.RGBA{R: 34, G: 48, B: 40, A: 255}
	colEgg        = color.RGBA{R: 250, G: 240, B: 200, A: 255}
	colEggShade   = color.RGBA{R: 200, G: 180, B: 130, A: 255}
	colPlayer     = color.RGBA{R: 80, G: 210, B: 120, A: 255}
	colAwake      = color.RGBA{R: 215, G: 60, B: 60, A: 255}
	colAsleep     = color.RGBA{R: 90, G: 90, B: 150, A: 255}
	colPath       = color.RGBA{R: 215, G: 120, B: 60, A: 120}
	colHUD        = color.RGBA{R: 220, G: 220, B: 230, A: 255}
)

// Options configure a Game.
type Options struct {
	Level   int   // starting progression index
	Seed    int64 // base RNG seed; each load uses the next value
	Verbose bool  // keep per-tick movement entries in the SimLog
}

// Game is the ebiten front end: it turns key state into intents, advances
// one session per level, and draws snapshots.
type Game struct {
	catalog *maze.Catalog
	opts    Options

	level   int
	loads   int64
	session *maze.Session
	feed    *EventFeed
	grace   *Grace
	keys    *keyEdges

	width  int
	height int
	offX   int
	offY   int

	showPaths  bool
	showHelp   bool
	notice     string
	noticeLeft time.Duration

	face text.Face
}

// New creates a game over catalog and loads the starting level.
func New(catalog *maze.Catalog, opts Options) *Game {
	maxW, maxH := 0, 0
	for _, lvl := range catalog.Levels {
		maxW = max(maxW, lvl.Grid.Width())
		maxH = max(maxH, lvl.Grid.Height())
	}
	g := &Game{
		catalog:  catalog,
		opts:     opts,
		feed:     NewEventFeed(),
		grace:    &Grace{},
		keys:     newKeyEdges(),
		offX:     borderWidth,
		offY:     borderWidth + hudHeight,
		showHelp: true,
		face:     text.NewGoXFace(basicfont.Face7x13),
	}
	g.width = borderWidth + maxW*cellPx + borderWidth + feedPanelWidth
	g.height = max(borderWidth+hudHeight+maxH*cellPx+borderWidth, 480)
	g.load(opts.Level)
	return g
}

// Size returns the window size the game lays out for.
func (g *Game) Size() (int, int) { return g.width, g.height }

// Session exposes the live session.
func (g *Game) Session() *maze.Session { return g.session }

// load builds a fresh session for a progression index.
func (g *Game) load(level int) {
	if level < 0 {
		level = 0
	}
	g.level = level
	lvl := g.catalog.Level(level)
	cfg := g.catalog.Config(level, g.opts.Seed+g.loads)
	g.loads++

	cfg.Log = maze.NewSimLog(g.opts.Verbose)
	cfg.Log.OnAdd = g.feed.Record
	cfg.Immunity = g.grace
	g.grace.Reset()

	g.feed.Note(0, fmt.Sprintf("level %d: %s", level+1, lvl.Name))
	g.session = maze.NewSession(lvl, cfg)
}

func (g *Game) start() {
	g.session.Start()
	g.grace.Arm(graceOnStart)
}

func (g *Game) say(msg string) {
	g.notice = msg
	g.noticeLeft = noticeFor
}

// Update implements ebiten.Game.
func (g *Game) Update() error {
	dt := maze.DefaultTickRate
	if g.keys.pressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	g.handleInput()
	g.keys.flip()

	if g.noticeLeft > 0 {
		g.noticeLeft -= dt
	}
	if g.session.Status() != maze.StatusRunning {
		return nil
	}
	res := g.session.Advance(readIntent(), dt)
	g.grace.Tick(dt)
	if res.Status.Over() {
		g.say(outcomeLine(res.Status))
	}
	return nil
}

// handleInput processes edge-triggered keys.
func (g *Game) handleInput() {
	st := g.session.Status()

	if g.keys.pressed(ebiten.KeySpace) || g.keys.pressed(ebiten.KeyEnter) {
		switch st {
		case maze.StatusReady:
			g.start()
		case maze.StatusCleared:
			g.load(g.level + 1)
		case maze.StatusCaught, maze.StatusTimedOut:
			g.load(g.level)
		}
	}
	if g.keys.pressed(ebiten.KeyR) {
		g.load(g.level)
	}
	if g.keys.pressed(ebiten.KeyN) {
		g.load(g.level + 1)
	}
	if g.keys.pressed(ebiten.KeyTab) {
		g.showPaths = !g.showPaths
	}
	if g.keys.pressed(ebiten.KeyH) {
		g.showHelp = !g.showHelp
	}
	if g.keys.pressed(ebiten.KeyC) {
		if err := copyLog(g.session.Log()); err != nil {
			g.say("copy failed: " + err.Error())
		} else {
			g.say(fmt.Sprintf("copied %d log entries", g.session.Log().Len()))
		}
	}
}

func outcomeLine(st maze.Status) string {
	switch st {
	case maze.StatusCaught:
		return "CAUGHT - space to retry, N to skip"
	case maze.StatusTimedOut:
		return "TIME UP - space to retry, N to skip"
	case maze.StatusCleared:
		return "CLEARED - space for the next level"
	default:
		return ""
	}
}

// Layout implements ebiten.Game.
func (g *Game) Layout(_, _ int) (int, int) {
	return g.width, g.height
}

// Draw implements ebiten.Game.
func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(colBackground)
	snap := g.session.Snapshot()

	g.drawMaze(screen)
	g.drawEggs(screen, snap)
	if g.showPaths {
		g.drawPaths(screen, snap)
	}
	g.drawPursuers(screen, snap)
	g.drawPlayer(screen, snap)
	g.drawHUD(screen, snap)
	g.feed.Draw(screen, g.width-feedPanelWidth, g.height)
	g.drawBanner(screen, snap)
}

// toScreen converts a world position to pixel coordinates. Cell (x,z)
// covers [x-0.5, x+0.5).
func (g *Game) toScreen(p maze.Position) (float32, float32) {
	return float32(float64(g.offX) + (p.X+0.5)*cellPx),
		float32(float64(g.offY) + (p.Z+0.5)*cellPx)
}

func (g *Game) drawMaze(screen *ebiten.Image) {
	grid := g.session.Level().Grid
	spawn := grid.SpawnPosition()
	for z := 0; z < grid.Height(); z++ {
		for x := 0; x < grid.Width(); x++ {
			px := float32(g.offX + x*cellPx)
			py := float32(g.offY + z*cellPx)
			switch {
			case grid.IsWall(x, z):
				vector.FillRect(screen, px, py, cellPx, cellPx, colWall, false)
				vector.StrokeRect(screen, px+1, py+1, cellPx-2, cellPx-2, 1.0, colWallEdge, false)
			case x == spawn.X && z == spawn.Z:
				vector.FillRect(screen, px, py, cellPx, cellPx, colSpawn, false)
			default:
				vector.FillRect(screen, px, py, cellPx, cellPx, colFloor, false)
			}
		}
	}
}

func (g *Game) drawEggs(screen *ebiten.Image, snap maze.Snapshot) {
	for _, e := range snap.Eggs {
		cx, cy := g.toScreen(e.Position())
		vector.FillCircle(screen, cx, cy+1, cellPx*0.18, colEggShade, true)
		vector.FillCircle(screen, cx, cy, cellPx*0.16, colEgg, true)
	}
}

func (g *Game) drawPaths(screen *ebiten.Image, snap maze.Snapshot) {
	for _, p := range snap.Pursuers {
		prevX, prevY := g.toScreen(p.Position)
		for _, wp := range g.session.PursuerPath(p.ID) {
			x, y := g.toScreen(wp.Position())
			vector.StrokeLine(screen, prevX, prevY, x, y, 2.0, colPath, true)
			vector.FillRect(screen, x-2, y-2, 4, 4, colPath, false)
			prevX, prevY = x, y
		}
	}
}

func (g *Game) drawPursuers(screen *ebiten.Image, snap maze.Snapshot) {
	radius := float32(cellPx * 0.32)
	capture := float32(g.catalog.Tuning.CaptureRadius * cellPx)
	for _, p := range snap.Pursuers {
		cx, cy := g.toScreen(p.Position)
		c := colAwake
		if p.State == maze.PursuerAsleep {
			c = colAsleep
		}
		vector.FillCircle(screen, cx, cy, radius, c, true)
		if p.State == maze.PursuerAwake {
			vector.StrokeCircle(screen, cx, cy, capture, 1.0, color.RGBA{R: 215, G: 60, B: 60, A: 90}, true)
			hx := cx + float32(math.Cos(p.Facing))*radius*1.6
			hy := cy + float32(math.Sin(p.Facing))*radius*1.6
			vector.StrokeLine(screen, cx, cy, hx, hy, 2.0, color.RGBA{R: 255, G: 255, B: 255, A: 180}, true)
		} else {
			g.drawText(screen, "z", float64(cx+radius), float64(cy-radius-12), 1, colHUD)
		}
	}
}

func (g *Game) drawPlayer(screen *ebiten.Image, snap maze.Snapshot) {
	cx, cy := g.toScreen(snap.Player)
	radius := float32(cellPx * 0.28)
	vector.FillCircle(screen, cx, cy, radius, colPlayer, true)
	hx := cx + float32(math.Cos(snap.PlayerFacing))*radius*1.5
	hy := cy + float32(math.Sin(snap.PlayerFacing))*radius*1.5
	vector.StrokeLine(screen, cx, cy, hx, hy, 2.0, color.RGBA{R: 255, G: 255, B: 255, A: 200}, true)
	if g.grace.IsPlayerImmune() {
		// blink at 4 Hz while immune
		if (g.grace.Remaining()/(125*time.Millisecond))%2 == 0 {
			vector.StrokeCircle(screen, cx, cy, radius+4, 2.0, color.RGBA{R: 180, G: 255, B: 200, A: 200}, true)
		}
	}
}

func (g *Game) drawHUD(screen *ebiten.Image, snap maze.Snapshot) {
	asleep := 0
	for _, p := range snap.Pursuers {
		if p.State == maze.PursuerAsleep {
			asleep++
		}
	}
	clock := formatClock(snap.Now)
	if limit := g.session.Clock().Limit(); limit > 0 {
		clock = formatClock(snap.Remaining)
	}
	line := fmt.Sprintf("L%d %s   eggs %d/%d   time %s   pursuers %d (%d asleep)",
		snap.Level+1, snap.LevelName, snap.Collected, snap.TotalEggs, clock, len(snap.Pursuers), asleep)
	g.drawText(screen, line, borderWidth, borderWidth/2, 1, colHUD)

	if g.noticeLeft > 0 && g.notice != "" {
		w := text.Advance(g.notice, g.face)
		g.drawText(screen, g.notice, float64(g.width-feedPanelWidth-borderWidth)-w, borderWidth/2, 1, colEgg)
	}

	if g.showHelp {
		help := "WASD/arrows move  space start  R retry  N skip  Tab paths  C copy log  H help"
		g.drawText(screen, help, borderWidth, float64(g.height-borderWidth+6), 1, color.RGBA{R: 140, G: 140, B: 160, A: 255})
	}
}

func (g *Game) drawBanner(screen *ebiten.Image, snap maze.Snapshot) {
	var msg string
	switch snap.Status {
	case maze.StatusReady:
		msg = fmt.Sprintf("LEVEL %d: %s - press space", snap.Level+1, snap.LevelName)
	case maze.StatusRunning:
		return
	default:
		msg = outcomeLine(snap.Status)
	}
	const scale = 2
	playW := float64(g.width - feedPanelWidth)
	w := text.Advance(msg, g.face) * scale
	x := (playW - w) / 2
	y := float64(g.height)/2 - 16
	vector.FillRect(screen, float32(x-12), float32(y-8), float32(w+24), 44, color.RGBA{R: 0, G: 0, B: 0, A: 200}, false)
	g.drawText(screen, msg, x, y, scale, colHUD)
}

func (g *Game) drawText(screen *ebiten.Image, s string, x, y, scale float64, c color.Color) {
	op := &text.DrawOptions{}
	op.GeoM.Scale(scale, scale)
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(c)
	text.Draw(screen, s, g.face, op)
}

// formatClock renders a duration as mm:ss.
func formatClock(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	s := int(d.Round(time.Second) / time.Second)
	return fmt.Sprintf("%02d:%02d", s/60, s%60)
}
