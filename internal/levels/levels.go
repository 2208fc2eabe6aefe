// Package levels bundles the default maze catalog.
package levels

import (
	_ "embed"

	"github.com/Garsondee/Egg-Maze/internal/maze"
)

//go:embed default.yaml
var defaultCatalog []byte

// Default parses the bundled catalog.
func Default() (*maze.Catalog, error) {
	return maze.ParseCatalog(defaultCatalog)
}

// Load reads a catalog from path, or the bundled one when path is empty.
func Load(path string) (*maze.Catalog, error) {
	if path == "" {
		return Default()
	}
	return maze.LoadCatalog(path)
}
