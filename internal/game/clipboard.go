package game

import (
	"errors"

	"github.com/Garsondee/Egg-Maze/internal/maze"
	"github.com/atotto/clipboard"
)

var errNoClipboard = errors.New("clipboard unsupported on this system")

// copyLog puts the formatted session log on the system clipboard.
func copyLog(sl *maze.SimLog) error {
	if clipboard.Unsupported {
		return errNoClipboard
	}
	return clipboard.WriteAll(sl.Format())
}
