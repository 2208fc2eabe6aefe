package game

import (
	"github.com/Garsondee/Egg-Maze/internal/maze"
	"github.com/hajimehoshi/ebiten/v2"
)

// intentFromKeys maps held direction keys to a movement intent. Screen up
// is -Z. Opposing keys cancel; diagonals are left for the session to clamp.
func intentFromKeys(up, down, left, right bool) maze.Intent {
	var in maze.Intent
	if up {
		in.Z--
	}
	if down {
		in.Z++
	}
	if left {
		in.X--
	}
	if right {
		in.X++
	}
	return in
}

// readIntent polls WASD and the arrow keys.
func readIntent() maze.Intent {
	return intentFromKeys(
		ebiten.IsKeyPressed(ebiten.KeyW) || ebiten.IsKeyPressed(ebiten.KeyArrowUp),
		ebiten.IsKeyPressed(ebiten.KeyS) || ebiten.IsKeyPressed(ebiten.KeyArrowDown),
		ebiten.IsKeyPressed(ebiten.KeyA) || ebiten.IsKeyPressed(ebiten.KeyArrowLeft),
		ebiten.IsKeyPressed(ebiten.KeyD) || ebiten.IsKeyPressed(ebiten.KeyArrowRight),
	)
}

// keyEdges tracks key state between frames for edge-triggered actions.
type keyEdges struct {
	prev map[ebiten.Key]bool
	cur  map[ebiten.Key]bool
}

func newKeyEdges() *keyEdges {
	return &keyEdges{prev: map[ebiten.Key]bool{}, cur: map[ebiten.Key]bool{}}
}

// pressed reports whether k went down this frame.
func (k *keyEdges) pressed(key ebiten.Key) bool {
	down := ebiten.IsKeyPressed(key)
	k.cur[key] = down
	return down && !k.prev[key]
}

// flip ends the frame.
func (k *keyEdges) flip() {
	k.prev, k.cur = k.cur, map[ebiten.Key]bool{}
}
