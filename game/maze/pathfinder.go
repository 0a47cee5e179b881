package maze

import "github.com/zyedidia/generic/mapset"

// FindShortestPath returns the cells from src to dst inclusive, following
// open passages only. It returns nil when either endpoint is outside the grid
// or dst cannot be reached. The search is deterministic: neighbors are
// expanded in Direction order.
func FindShortestPath(g *Grid, src, dst Position) []Position {
	if g == nil || !g.InBounds(src) || !g.InBounds(dst) {
		return nil
	}

	visited := mapset.New[Position]()
	cameFrom := make(map[Position]Position)
	queue := []Position{src}
	visited.Put(src)

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		if cur == dst {
			return reconstructPath(cameFrom, src, dst)
		}

		for _, d := range Directions {
			if !g.CanStep(cur, d) {
				continue
			}
			next := cur.Step(d)
			if visited.Has(next) {
				continue
			}
			visited.Put(next)
			cameFrom[next] = cur
			queue = append(queue, next)
		}
	}
	return nil
}

func reconstructPath(cameFrom map[Position]Position, src, dst Position) []Position {
	path := []Position{dst}
	for cur := dst; cur != src; {
		cur = cameFrom[cur]
		path = append(path, cur)
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

// Reachable returns the number of cells reachable from src, src included.
func Reachable(g *Grid, src Position) int {
	if g == nil || !g.InBounds(src) {
		return 0
	}
	seen := mapset.New[Position]()
	stack := []Position{src}
	seen.Put(src)
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, d := range Directions {
			if next := cur.Step(d); g.CanStep(cur, d) && !seen.Has(next) {
				seen.Put(next)
				stack = append(stack, next)
			}
		}
	}
	return seen.Size()
}

// DeadEnds counts cells with exactly one open side.
func DeadEnds(g *Grid) int {
	n := 0
	for i := range g.cells {
		if g.cells[i].OpenSides() == 1 {
			n++
		}
	}
	return n
}
