package main

import (
	"flag"
	"log"
	"time"

	"github.com/Garsondee/Egg-Maze/internal/game"
	"github.com/Garsondee/Egg-Maze/internal/levels"
	"github.com/hajimehoshi/ebiten/v2"
)

func main() {
	catalogPath := flag.String("levels", "", "level catalog YAML (default: bundled levels)")
	level := flag.Int("level", 0, "starting level index (0-based)")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	verbose := flag.Bool("verbose", false, "record per-tick movement in the copied log")
	flag.Parse()

	cat, err := levels.Load(*catalogPath)
	if err != nil {
		log.Fatal(err)
	}
	if *seed == 0 {
		*seed = time.Now().UnixNano()
	}

	g := game.New(cat, game.Options{Level: *level, Seed: *seed, Verbose: *verbose})
	w, h := g.Size()
	ebiten.SetWindowTitle("Egg Maze")
	ebiten.SetWindowSize(w, h)
	if err := ebiten.RunGame(g); err != nil {
		log.Fatal(err)
	}
}
