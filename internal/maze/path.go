package maze

import "container/heap"

// ShortcutDistance is the Manhattan distance at or below which FindPath
// skips the search and heads straight for the goal.
const ShortcutDistance = 2

// --- A* pathfinding ---

type pathNode struct {
	p      Point
	g, h   int
	seq    int // insertion order, breaks f/h ties deterministically
	parent *pathNode
	index  int // heap index
}

type openList []*pathNode

func (ol openList) Len() int { return len(ol) }
func (ol openList) Less(i, j int) bool {
	fi, fj := ol[i].g+ol[i].h, ol[j].g+ol[j].h
	if fi != fj {
		return fi < fj
	}
	if ol[i].h != ol[j].h {
		return ol[i].h < ol[j].h
	}
	return ol[i].seq < ol[j].seq
}
func (ol openList) Swap(i, j int)       { ol[i], ol[j] = ol[j], ol[i]; ol[i].index = i; ol[j].index = j }
func (ol *openList) Push(x interface{}) { n := x.(*pathNode); n.index = len(*ol); *ol = append(*ol, n) }
func (ol *openList) Pop() interface{} {
	old := *ol
	n := old[len(old)-1]
	old[len(old)-1] = nil
	*ol = old[:len(old)-1]
	return n
}

// 4-connected: no diagonal steps.
var dirs = [4]Point{
	{X: -1, Z: 0}, {X: 1, Z: 0}, {X: 0, Z: -1}, {X: 0, Z: 1},
}

// FindPath returns the cells from start to goal, excluding start and
// including goal, in traversal order. Returns nil if no path exists.
//
// When the goal is within ShortcutDistance the result is just [goal],
// whatever lies between.
func FindPath(g *Grid, start, goal Point) []Point {
	if start.Manhattan(goal) <= ShortcutDistance {
		return []Point{goal}
	}
	return search(g, start, goal)
}

// search is A* over the 4-connected grid with g = steps taken and
// h = Manhattan distance. Ties on f prefer the lower h, then the earlier
// discovered node.
func search(g *Grid, start, goal Point) []Point {
	if start == goal {
		return []Point{}
	}
	if g.IsWall(goal.X, goal.Z) || !g.InBounds(start.X, start.Z) {
		return nil
	}

	key := func(p Point) int { return p.Z*g.width + p.X }

	seq := 0
	startNode := &pathNode{p: start, h: start.Manhattan(goal)}
	ol := &openList{startNode}
	heap.Init(ol)

	closed := make([]bool, g.width*g.height)
	best := make(map[int]*pathNode)
	best[key(start)] = startNode

	for ol.Len() > 0 {
		cur := heap.Pop(ol).(*pathNode)
		if cur.p == goal {
			return buildPath(cur)
		}
		k := key(cur.p)
		if closed[k] {
			continue
		}
		closed[k] = true

		for _, d := range dirs {
			np := Point{X: cur.p.X + d.X, Z: cur.p.Z + d.Z}
			if g.IsWall(np.X, np.Z) {
				continue
			}
			nk := key(np)
			if closed[nk] {
				continue
			}
			ng := cur.g + 1
			if prev, ok := best[nk]; ok && ng >= prev.g {
				continue
			}
			seq++
			node := &pathNode{p: np, g: ng, h: np.Manhattan(goal), seq: seq, parent: cur}
			best[nk] = node
			heap.Push(ol, node)
		}
	}
	return nil
}

// buildPath walks parents back to the start node, which is dropped.
func buildPath(end *pathNode) []Point {
	var cells []Point
	for n := end; n.parent != nil; n = n.parent {
		cells = append(cells, n.p)
	}
	for i, j := 0, len(cells)-1; i < j; i, j = i+1, j-1 {
		cells[i], cells[j] = cells[j], cells[i]
	}
	return cells
}
