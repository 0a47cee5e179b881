// Package maze implements the maze model used by the game engine.
//
// A Grid is an N×N collection of cells, each carrying four wall flags. A
// Generator carves a Grid into a perfect maze using randomized Prim's
// frontier-wall growth, so the open passages form a spanning tree: every
// cell is reachable and there is exactly one simple path between any two
// cells. FindShortestPath runs a breadth-first search over the carved
// passages, and Verify re-checks the spanning-tree invariant with an
// independent union-find.
//
// Usage:
//
//	grid, err := maze.NewGrid(10, 0.8)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	maze.NewGenerator(42).Generate(grid)
//	if err := maze.Verify(grid); err != nil {
//		panic(err)
//	}
//
//	path := maze.FindShortestPath(grid, maze.Position{}, maze.Position{Row: 9, Col: 9})
//	fmt.Print(grid.Render(maze.PathMarks(path)))
//
// Walls are only ever removed through Grid.Carve, which clears the flag on
// both sides of the shared edge.
package maze
